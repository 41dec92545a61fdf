package simctl

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// BootedDevice is the simctl alias for whichever simulator is currently
// booted.
const BootedDevice = "booted"

// DefaultXcrun is the executable used when Client.Xcrun is empty.
const DefaultXcrun = "xcrun"

// Device is one entry of `simctl list devices --json`.
type Device struct {
	UDID        string `json:"udid"`
	Name        string `json:"name"`
	State       string `json:"state"`
	IsAvailable bool   `json:"isAvailable,omitempty"`
}

// DeviceList is the decoded output of `simctl list devices --json`. Devices
// are grouped by runtime identifier, e.g.
// "com.apple.CoreSimulator.SimRuntime.iOS-17-0".
type DeviceList struct {
	Devices map[string][]Device `json:"devices"`
}

// Client wraps the simctl subcommands the screenshot tool needs.
type Client struct {
	Runner Runner
	Xcrun  string
}

// NewClient creates a Client that runs xcrun through runner. An empty xcrun
// selects DefaultXcrun.
func NewClient(runner Runner, xcrun string) *Client {
	if xcrun == "" {
		xcrun = DefaultXcrun
	}
	return &Client{Runner: runner, Xcrun: xcrun}
}

// Screenshot captures the screen of deviceID and returns the PNG bytes. An
// empty deviceID targets the booted simulator. The ID is sanitized before it
// reaches the command line regardless of any validation done by the caller.
func (c *Client) Screenshot(ctx context.Context, deviceID string) ([]byte, error) {
	return c.Runner.Run(ctx, c.Xcrun, ScreenshotArgs(deviceID)...)
}

// ScreenshotCommand returns the command line Screenshot would run.
func (c *Client) ScreenshotCommand(deviceID string) string {
	return commandLine(c.Xcrun, ScreenshotArgs(deviceID))
}

// ListDevices queries the simulator inventory.
func (c *Client) ListDevices(ctx context.Context) (*DeviceList, error) {
	out, err := c.Runner.Run(ctx, c.Xcrun, "simctl", "list", "devices", "--json")
	if err != nil {
		return nil, err
	}
	return ParseDeviceList(out)
}

// ParseDeviceList decodes `simctl list devices --json` output.
func ParseDeviceList(data []byte) (*DeviceList, error) {
	var list DeviceList
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("failed to parse device list: %w", err)
	}
	if list.Devices == nil {
		return nil, fmt.Errorf("failed to parse device list: missing devices field")
	}
	return &list, nil
}

// ScreenshotArgs returns the xcrun arguments for a PNG screenshot written to
// stdout.
func ScreenshotArgs(deviceID string) []string {
	id := SanitizeArg(deviceID)
	if id == "" {
		id = BootedDevice
	}
	return []string{"simctl", "io", id, "screenshot", "--type=png", "-"}
}

var shellMeta = strings.NewReplacer(
	";", "", "&", "", "|", "", "`", "", "$", "",
	"(", "", ")", "", "{", "", "}", "", "[", "", "]", "",
	"<", "", ">", "", `"`, "", "'", "", `\`, "",
)

// SanitizeArg removes shell metacharacters from s.
func SanitizeArg(s string) string {
	return shellMeta.Replace(s)
}
