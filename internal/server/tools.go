package server

import "github.com/ironsheep/image-collage-mcp/internal/collage"

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

func pathProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Path to the image file (PNG, JPEG or GIF). A leading ~ is expanded.",
	}
}

func colorProperty(description string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": description + " as #RRGGBB or #RGB",
	}
}

func resamplerProperties() (backend, filter map[string]interface{}) {
	backend = map[string]interface{}{
		"type":        "string",
		"description": "Resize backend. Defaults to the server configuration (imaging).",
		"enum":        collage.Backends,
	}
	filter = map[string]interface{}{
		"type":        "string",
		"description": "Resampling filter for the backend, e.g. lanczos, linear, nearest. Defaults to lanczos.",
	}
	return backend, filter
}

func outputProperties() (outputPath, save map[string]interface{}) {
	outputPath = map[string]interface{}{
		"type":        "string",
		"description": "Write the PNG to this path (must end in .png). Parent directories are created.",
	}
	save = map[string]interface{}{
		"type":        "boolean",
		"description": "Write the PNG to the configured output directory under a generated name when output_path is not given.",
		"default":     false,
	}
	return outputPath, save
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	backend, filter := resamplerProperties()
	outputPath, save := outputProperties()

	return []Tool{
		// Source Images
		{
			Name:        "image_load",
			Description: "Load an image file and return its dimensions, format and color mode. Images with transparency or a palette are flattened onto the background when composed.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
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
					"path": pathProperty(),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_thumbnail",
			Description: "Return a preview of an image fit inside a square box, as base64-encoded PNG. Small images are not enlarged.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"size": map[string]interface{}{
						"type":        "integer",
						"description": "Side of the bounding box in pixels. Defaults to the server configuration (150).",
						"minimum":     1,
					},
				},
				"required": []string{"path"},
			},
		},

		// Collage
		{
			Name:        "collage_plan",
			Description: "Preview the grid a collage of count images would use, without loading any image.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"count": map[string]interface{}{
						"type":        "integer",
						"description": "Number of images",
						"minimum":     0,
					},
					"cols_per_row": map[string]interface{}{
						"type":        "integer",
						"description": "Fixed number of columns, 0 for a near-square automatic grid",
						"minimum":     0,
						"maximum":     10,
					},
					"cell_width": map[string]interface{}{
						"type":        "integer",
						"description": "With cell_height, also return a preview PNG of the layout using cells of this size",
						"minimum":     1,
						"maximum":     4096,
					},
					"cell_height": map[string]interface{}{
						"type":        "integer",
						"description": "Cell height in pixels for the layout preview",
						"minimum":     1,
						"maximum":     4096,
					},
					"grid_color": colorProperty("Cell outline color for the preview (default #FF0000)"),
				},
				"required": []string{"count"},
			},
		},
		{
			Name:        "collage_compose",
			Description: "Combine images into a single grid collage, in the given order, row by row. Every image is resized, cells share the size of the largest image, and the result is returned as base64-encoded PNG.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"paths": map[string]interface{}{
						"type":        "array",
						"description": "Image files in placement order",
						"items":       map[string]interface{}{"type": "string"},
						"minItems":    1,
					},
					"scale_percent": map[string]interface{}{
						"type":        "integer",
						"description": "Resize every image to this percentage of its size (10-100). Defaults to the server configuration (45). Ignored when mode is box.",
						"minimum":     10,
						"maximum":     100,
					},
					"cols_per_row": map[string]interface{}{
						"type":        "integer",
						"description": "Fixed number of columns, 0 for a near-square automatic grid",
						"minimum":     0,
						"maximum":     10,
					},
					"mode": map[string]interface{}{
						"type":        "string",
						"description": "factor scales by scale_percent; box fits each image inside box_width x box_height",
						"enum":        []string{"factor", "box"},
						"default":     "factor",
					},
					"box_width": map[string]interface{}{
						"type":        "integer",
						"description": "Cell width in pixels for box mode",
						"minimum":     1,
					},
					"box_height": map[string]interface{}{
						"type":        "integer",
						"description": "Cell height in pixels for box mode",
						"minimum":     1,
					},
					"align": map[string]interface{}{
						"type":        "string",
						"description": "Placement of images smaller than their cell",
						"enum":        []string{"top-left", "center"},
					},
					"fill_unused": map[string]interface{}{
						"type":        "boolean",
						"description": "Paint cells after the last image with the placeholder color",
					},
					"placeholder": colorProperty("Color of unused cells"),
					"background":  colorProperty("Canvas color, also used to flatten transparency"),
					"resampler":   backend,
					"filter":      filter,
					"show_grid": map[string]interface{}{
						"type":        "boolean",
						"description": "Outline every cell and number the images in placement order",
					},
					"grid_color":  colorProperty("Cell outline color when show_grid is set (default #FF0000)"),
					"output_path": outputPath,
					"save":        save,
				},
				"required": []string{"paths"},
			},
		},

		// Single Image
		{
			Name:        "image_resize",
			Description: "Resize one image by a factor and return it as base64-encoded PNG. Common presets are 0.25, 0.5, 1, 2 and 4, but any positive factor is accepted.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"factor": map[string]interface{}{
						"type":        "number",
						"description": "Scale factor, e.g. 0.5 to halve or 2 to double. Default 1.0",
						"default":     1.0,
					},
					"background":  colorProperty("Color used to flatten transparency"),
					"resampler":   backend,
					"filter":      filter,
					"output_path": outputPath,
					"save":        save,
				},
				"required": []string{"path"},
			},
		},
	}
}

// handleToolsList returns the tool catalog
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
