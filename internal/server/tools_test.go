package server

import (
	"encoding/json"
	"testing"
)

func TestGetToolDefinitions(t *testing.T) {
	tools := GetToolDefinitions()
	if len(tools) != 1 {
		t.Fatalf("got %d tools, want 1", len(tools))
	}

	tool := tools[0]
	if tool.Name != "get_screenshot" {
		t.Errorf("Name = %q", tool.Name)
	}
	if tool.Description == "" {
		t.Error("Description is empty")
	}
	if tool.InputSchema["type"] != "object" {
		t.Errorf("schema type = %v", tool.InputSchema["type"])
	}
}

func TestGetScreenshotSchema_Properties(t *testing.T) {
	props := GetToolDefinitions()[0].InputSchema["properties"].(map[string]interface{})

	tests := []struct {
		name        string
		wantType    string
		wantDefault interface{}
	}{
		{"output_filename", "string", nil},
		{"output_directory_name", "string", ".screenshots"},
		{"resize", "boolean", true},
		{"max_width", "integer", 640},
		{"device_id", "string", "booted"},
		{"extract_text", "boolean", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prop, ok := props[tt.name].(map[string]interface{})
			if !ok {
				t.Fatalf("property %s missing", tt.name)
			}
			if prop["type"] != tt.wantType {
				t.Errorf("type = %v, want %s", prop["type"], tt.wantType)
			}
			if prop["description"] == "" {
				t.Error("description is empty")
			}
			if tt.wantDefault != nil && prop["default"] != tt.wantDefault {
				t.Errorf("default = %v, want %v", prop["default"], tt.wantDefault)
			}
		})
	}

	if len(props) != len(tests) {
		t.Errorf("schema has %d properties, want %d", len(props), len(tests))
	}
}

func TestToolDefinitions_JSONSerializable(t *testing.T) {
	data, err := json.Marshal(GetToolDefinitions())
	if err != nil {
		t.Fatalf("Failed to marshal tools: %v", err)
	}

	var decoded []map[string]interface{}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Failed to unmarshal tools: %v", err)
	}
	if _, ok := decoded[0]["inputSchema"]; !ok {
		t.Error("inputSchema missing from JSON")
	}
}
