package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Basic Image Information
		{
			Name:        "image_load",
			Description: "Load an image file and return its dimensions and format. The image stays cached for subsequent part operations.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_dimensions",
			Description: "Get the width and height of an image file.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
				},
				"required": []string{"path"},
			},
		},

		// Part Detection
		{
			Name:        "parts_detect",
			Description: "Find square and rectangular parts in a photograph. Returns each part as [x, y, width, height] in scan order. Results are cached per image so the other parts_* tools refer to the same indices.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
					"refresh": map[string]interface{}{
						"type":        "boolean",
						"description": "Reload the image and rerun detection instead of using the cached result. Default false",
						"default":     false,
					},
					"include_accepted": map[string]interface{}{
						"type":        "boolean",
						"description": "Also return the parts removed by the area outlier filter. Default false",
						"default":     false,
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "parts_count",
			Description: "Count the parts detected in an image.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
				},
				"required": []string{"path"},
			},
		},

		// Part Output
		{
			Name:        "parts_annotate",
			Description: "Draw the outline of every detected part on a copy of the image. Saves it when output_path is given, otherwise returns base64-encoded PNG.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
					"output_path": map[string]interface{}{
						"type":        "string",
						"description": "Optional file to write the annotated image to. Format follows the extension",
					},
					"thickness": map[string]interface{}{
						"type":        "integer",
						"description": "Outline thickness in pixels. Default from config (4)",
					},
					"color": map[string]interface{}{
						"type":        "string",
						"description": "Outline color as hex (#RRGGBB). Default from config (#0000FF)",
					},
					"palette": map[string]interface{}{
						"type":        "boolean",
						"description": "Give every part its own color. Default false",
						"default":     false,
					},
					"labels": map[string]interface{}{
						"type":        "boolean",
						"description": "Print each part's index inside its outline. Default false",
						"default":     false,
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "parts_crop",
			Description: "Crop detected parts out of the image and return them as base64-encoded PNG. Use this to examine a single part closely.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
					"index": map[string]interface{}{
						"type":        "integer",
						"description": "Index of the part to crop. Omit to crop every part",
					},
					"padding": map[string]interface{}{
						"type":        "integer",
						"description": "Extra pixels kept around each part. Default 0",
						"default":     0,
					},
					"scale": map[string]interface{}{
						"type":        "number",
						"description": "Optional scale factor (e.g., 2.0 to double size). Default 1.0",
						"default":     1.0,
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "parts_colors",
			Description: "Return the mean color of every detected part as hex and HSL.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
					"inset": map[string]interface{}{
						"type":        "integer",
						"description": "Pixels ignored on each side of a part. Default 4",
						"default":     4,
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "parts_area_chart",
			Description: "Chart the area of every part that survived deduplication, with the mean and the outlier cutoff drawn as guide lines. Saves it when output_path is given, otherwise returns base64-encoded PNG.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
					"output_path": map[string]interface{}{
						"type":        "string",
						"description": "Optional PNG file to write the chart to",
					},
				},
				"required": []string{"path"},
			},
		},

		// OCR
		{
			Name:        "parts_read_labels",
			Description: "Read printed text inside every detected part using OCR.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
					"language": map[string]interface{}{
						"type":        "string",
						"description": "Tesseract language code. Default from config (eng)",
					},
					"inset": map[string]interface{}{
						"type":        "integer",
						"description": "Pixels trimmed from each side of a part before OCR. Default 4",
						"default":     4,
					},
					"whitelist": map[string]interface{}{
						"type":        "string",
						"description": "Only recognise these characters, e.g. \"0123456789\"",
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
