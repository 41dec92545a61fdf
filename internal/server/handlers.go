package server

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ironsheep/ios-screenshot-mcp/internal/screenshot"
)

// CodeUnexpected marks a tool call that failed outside the pipeline.
const CodeUnexpected = "UNEXPECTED_ERROR"

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke.
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// GetScreenshotArgs are the get_screenshot arguments.
type GetScreenshotArgs struct {
	OutputFilename      string `json:"output_filename"`
	OutputDirectoryName string `json:"output_directory_name"`
	Resize              *bool  `json:"resize"`
	MaxWidth            int    `json:"max_width"`
	DeviceID            string `json:"device_id"`
	ExtractText         bool   `json:"extract_text"`
}

// Request converts the arguments into a pipeline request.
func (a GetScreenshotArgs) Request() screenshot.Request {
	return screenshot.Request{
		OutputFileName:      a.OutputFilename,
		OutputDirectoryName: a.OutputDirectoryName,
		Resize:              a.Resize,
		MaxWidth:            a.MaxWidth,
		DeviceID:            a.DeviceID,
		ExtractText:         a.ExtractText,
	}
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the capture result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}],
//	  "isError": <!success>
//	}
//
// Capture failures are tool results with isError set, not JSON-RPC errors.
func (s *Server) handleToolsCall(ctx context.Context, req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	if params.Name != ToolGetScreenshot {
		return s.errorResponse(req.ID, -32601, fmt.Sprintf("Unknown tool: %s", params.Name), "")
	}

	var args GetScreenshotArgs
	if len(params.Arguments) > 0 && string(params.Arguments) != "null" {
		if err := json.Unmarshal(params.Arguments, &args); err != nil {
			return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
		}
	}

	result := s.getScreenshot(ctx, args)
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
			"isError": !result.Success,
		},
	}
}

// getScreenshot runs one capture. A panic below the pipeline becomes an
// UNEXPECTED_ERROR result.
func (s *Server) getScreenshot(ctx context.Context, args GetScreenshotArgs) (result *screenshot.Result) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error().Interface("panic", r).Msg("get_screenshot panicked")
			result = unexpectedResult(fmt.Errorf("%v", r))
		}
	}()

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	result = s.capturer.Capture(ctx, args.Request())
	if result == nil {
		result = unexpectedResult(fmt.Errorf("capture returned no result"))
	}
	return result
}

func unexpectedResult(err error) *screenshot.Result {
	return &screenshot.Result{
		Success: false,
		Message: "Unexpected error: " + err.Error(),
		Error:   &screenshot.ErrorInfo{Code: CodeUnexpected},
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	resp := &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
		},
	}
	if data != "" {
		resp.Error.Data = data
	}
	return resp
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// On marshal failure it returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}
