// Package device decides whether a caller-supplied simulator identifier may
// be used as a capture target.
//
// Validation is a short-circuiting sequence of independent checks: the
// "booted" alias is accepted outright, anything not shaped like a UUID is
// rejected without touching simctl, and only well-formed UUIDs are looked up
// in the live device inventory. Failures are reported as an Outcome with a
// Reason from a closed set; nothing is returned as an error.
package device

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/ironsheep/ios-screenshot-mcp/internal/simctl"
)

// Reason explains why an identifier was rejected.
type Reason string

const (
	ReasonInvalidFormat Reason = "invalid_format"
	ReasonNotFound      Reason = "not_found"
	ReasonFetchFailed   Reason = "fetch_failed"
)

// Device is a simulator known to the inventory.
type Device struct {
	UDID  string `json:"udid"`
	Name  string `json:"name"`
	State string `json:"state"`
}

// Details carries the structured reason for a rejected identifier.
type Details struct {
	DeviceID string `json:"deviceId"`
	Reason   Reason `json:"reason"`

	// Err is the underlying inventory failure for ReasonFetchFailed.
	Err error `json:"-"`
}

// Outcome is the result of Validate. Message and Details are set only when
// Valid is false.
type Outcome struct {
	Valid   bool
	Message string
	Details *Details
}

// Inventory lists the simulators known to the host.
type Inventory interface {
	ListDevices(ctx context.Context) (*simctl.DeviceList, error)
}

// Validator checks device identifiers against an Inventory. It holds no
// mutable state and is safe for concurrent use.
type Validator struct {
	inventory Inventory
}

// NewValidator creates a Validator backed by inv.
func NewValidator(inv Inventory) *Validator {
	return &Validator{inventory: inv}
}

// check inspects id and either decides the outcome (done == true) or defers
// to the next check. list is the inventory snapshot, fetched lazily.
type check func(ctx context.Context, v *Validator, id string, list **simctl.DeviceList) (Outcome, bool)

var checks = []check{
	checkSentinel,
	checkFormat,
	checkInventory,
	checkMembership,
}

// Validate decides whether id may be used to target a capture.
func (v *Validator) Validate(ctx context.Context, id string) Outcome {
	var list *simctl.DeviceList
	for _, c := range checks {
		if out, done := c(ctx, v, id, &list); done {
			return out
		}
	}
	return Outcome{Valid: true}
}

// IsValid is Validate reduced to a boolean.
func (v *Validator) IsValid(ctx context.Context, id string) bool {
	return v.Validate(ctx, id).Valid
}

// ListAvailableDevices returns every device in the inventory that has an
// identifier, name and state. Devices are ordered by runtime, then by the
// order simctl reports them. Any inventory failure yields an empty slice.
func (v *Validator) ListAvailableDevices(ctx context.Context) []Device {
	list, err := v.inventory.ListDevices(ctx)
	if err != nil || list == nil {
		return []Device{}
	}

	runtimes := make([]string, 0, len(list.Devices))
	for rt := range list.Devices {
		runtimes = append(runtimes, rt)
	}
	sort.Strings(runtimes)

	devices := []Device{}
	for _, rt := range runtimes {
		for _, d := range list.Devices[rt] {
			if d.UDID == "" || d.Name == "" || d.State == "" {
				continue
			}
			devices = append(devices, Device{UDID: d.UDID, Name: d.Name, State: d.State})
		}
	}
	return devices
}

// IsUUID reports whether s is a canonical 8-4-4-4-12 hexadecimal UUID.
// Case is ignored; braces, URN prefixes and the 32-digit form are rejected.
//
// Only the format check ignores case. Membership in the inventory is an
// exact string match, so the ID must use the case simctl reports.
func IsUUID(s string) bool {
	if len(s) != 36 {
		return false
	}
	_, err := uuid.Parse(s)
	return err == nil
}

func checkSentinel(_ context.Context, _ *Validator, id string, _ **simctl.DeviceList) (Outcome, bool) {
	if id == simctl.BootedDevice {
		return Outcome{Valid: true}, true
	}
	return Outcome{}, false
}

func checkFormat(_ context.Context, _ *Validator, id string, _ **simctl.DeviceList) (Outcome, bool) {
	if IsUUID(id) {
		return Outcome{}, false
	}
	return invalid(id, ReasonInvalidFormat, nil, "Invalid device ID format: %s", id), true
}

func checkInventory(ctx context.Context, v *Validator, id string, list **simctl.DeviceList) (Outcome, bool) {
	l, err := v.inventory.ListDevices(ctx)
	if err == nil && l == nil {
		err = fmt.Errorf("inventory returned no device list")
	}
	if err != nil {
		return invalid(id, ReasonFetchFailed, err, "Error validating device ID: %v", err), true
	}
	*list = l
	return Outcome{}, false
}

func checkMembership(_ context.Context, _ *Validator, id string, list **simctl.DeviceList) (Outcome, bool) {
	for _, group := range (*list).Devices {
		for _, d := range group {
			if d.UDID == id {
				return Outcome{Valid: true}, true
			}
		}
	}
	return invalid(id, ReasonNotFound, nil, "Device ID not found in available devices: %s", id), true
}

func invalid(id string, reason Reason, err error, format string, args ...interface{}) Outcome {
	return Outcome{
		Message: fmt.Sprintf(format, args...),
		Details: &Details{DeviceID: id, Reason: reason, Err: err},
	}
}
