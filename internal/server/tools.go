package server

import "github.com/ironsheep/ios-screenshot-mcp/internal/output"

// ToolGetScreenshot is the name of the capture tool.
const ToolGetScreenshot = "get_screenshot"

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		{
			Name: ToolGetScreenshot,
			Description: "Capture a screenshot of an iOS Simulator and save it as a PNG. " +
				"Returns the saved file path and image metadata. Wide screenshots are " +
				"downscaled to max_width unless resize is false.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"output_filename": map[string]interface{}{
						"type":        "string",
						"description": "File name for the screenshot. Only the final path segment is used. Defaults to simulator_<timestamp>.png",
					},
					"output_directory_name": map[string]interface{}{
						"type":        "string",
						"description": "Subdirectory of the output root to save into",
						"default":     output.DefaultSubdirectory,
					},
					"resize": map[string]interface{}{
						"type":        "boolean",
						"description": "Downscale images wider than max_width, preserving aspect ratio",
						"default":     true,
					},
					"max_width": map[string]interface{}{
						"type":        "integer",
						"description": "Maximum width in pixels when resizing",
						"default":     640,
					},
					"device_id": map[string]interface{}{
						"type":        "string",
						"description": "Simulator UDID, or \"booted\" for the currently booted simulator",
						"default":     "booted",
					},
					"extract_text": map[string]interface{}{
						"type":        "boolean",
						"description": "Run OCR on the saved screenshot and include the recognized text",
						"default":     false,
					},
				},
			},
		},
	}
}
