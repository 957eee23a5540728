package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// pathProperty is the shared "path" argument schema used by most tools.
func pathProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Absolute path to the sticker sheet image (.png .jpg .jpeg .bmp .webp)",
	}
}

// modeProperty is the shared detection-mode argument schema.
func modeProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"enum":        []string{"auto", "aggressive", "conservative"},
		"description": "Border detection mode (default from server config, normally 'auto')",
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Sheet Information
		{
			Name:        "sheet_load",
			Description: "Load a sticker sheet image and return its dimensions, format and the suggested grid layout. Caches the image for subsequent operations.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "sheet_detect_grid",
			Description: "Guess the grid layout (rows x columns) of a sticker sheet from its aspect ratio.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
				},
				"required": []string{"path"},
			},
		},

		// Splitting
		{
			Name:        "sheet_split",
			Description: "Split a sticker sheet into individual images and save them. Optionally rotates the sheet and trims a detected border first. Pieces are named 001_<name>.<ext>, 002_<name>.<ext>, ... in row-major order.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"rows": map[string]interface{}{
						"type":        "integer",
						"description": "Grid rows (1-18). Omit along with cols to auto-detect.",
					},
					"cols": map[string]interface{}{
						"type":        "integer",
						"description": "Grid columns (1-18). Omit along with rows to auto-detect.",
					},
					"angle": map[string]interface{}{
						"type":        "number",
						"description": "Clockwise rotation in degrees applied before anything else (default 0)",
						"default":     0,
					},
					"remove_border": map[string]interface{}{
						"type":        "boolean",
						"description": "Detect and trim the sheet border before splitting (default false)",
						"default":     false,
					},
					"mode": modeProperty(),
					"output_dir": map[string]interface{}{
						"type":        "string",
						"description": "Directory for the pieces. Default: '<name>_split' next to the source file.",
					},
					"format": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"png", "jpg", "jpeg"},
						"description": "Output encoding (default from server config, normally 'png'). JPEG composites transparency onto white.",
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "sheet_process_batch",
			Description: "Split several sticker sheets in one call. Sheets are processed in parallel; one failing sheet does not stop the others.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"paths": map[string]interface{}{
						"type":        "array",
						"items":       map[string]interface{}{"type": "string"},
						"description": "Absolute paths to the sheet images",
					},
					"rows": map[string]interface{}{
						"type":        "integer",
						"description": "Grid rows for every sheet. Omit along with cols to auto-detect per sheet.",
					},
					"cols": map[string]interface{}{
						"type":        "integer",
						"description": "Grid columns for every sheet.",
					},
					"remove_border": map[string]interface{}{
						"type":    "boolean",
						"default": false,
					},
					"mode": modeProperty(),
					"output_dir": map[string]interface{}{
						"type":        "string",
						"description": "Shared output directory. Default: a '<name>_split' directory per sheet.",
					},
					"format": map[string]interface{}{
						"type": "string",
						"enum": []string{"png", "jpg", "jpeg"},
					},
				},
				"required": []string{"paths"},
			},
		},

		// Border Detection
		{
			Name:        "sheet_detect_content",
			Description: "Detect the content region of a sticker sheet, excluding a uniform or decorative border. Returns the bounding rectangle, or no rectangle when the detector declines (sheet should be used as-is).",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"mode": modeProperty(),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "sheet_preview_detection",
			Description: "Return the sheet with the detected content region drawn on it (green outline, red corner ticks) as base64-encoded PNG. An unmarked image means the detector declined.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"mode": modeProperty(),
				},
				"required": []string{"path"},
			},
		},

		// Preview Helpers
		{
			Name:        "sheet_partition_overlay",
			Description: "Return the sheet with its grid split lines drawn on it as base64-encoded PNG. Useful for checking a grid before splitting.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"rows": map[string]interface{}{
						"type":        "integer",
						"description": "Grid rows (1-18). Omit along with cols to auto-detect.",
					},
					"cols": map[string]interface{}{
						"type":        "integer",
						"description": "Grid columns (1-18).",
					},
					"line_color": map[string]interface{}{
						"type":        "string",
						"description": "Split line color as #RRGGBB hex (default #FF0000)",
						"default":     "#FF0000",
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "sheet_rotate",
			Description: "Rotate a sticker sheet clockwise and return the result as base64-encoded PNG. The canvas expands to hold the rotated sheet.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"angle": map[string]interface{}{
						"type":        "number",
						"description": "Clockwise rotation in degrees",
					},
				},
				"required": []string{"path", "angle"},
			},
		},
		{
			Name:        "sheet_thumbnail",
			Description: "Return a scaled-down preview of the sheet as base64-encoded PNG, preserving aspect ratio.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"max_width": map[string]interface{}{
						"type":        "integer",
						"description": "Maximum thumbnail width (default 256)",
						"default":     256,
					},
					"max_height": map[string]interface{}{
						"type":        "integer",
						"description": "Maximum thumbnail height (default 256)",
						"default":     256,
					},
				},
				"required": []string{"path"},
			},
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
