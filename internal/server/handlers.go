package server

import (
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/ironsheep/image-collage-mcp/internal/collage"
	"github.com/ironsheep/image-collage-mcp/internal/config"
	"github.com/ironsheep/image-collage-mcp/internal/imaging"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "image_load", "collage_compose").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	logger := log.WithField("tool", params.Name)
	start := time.Now()

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		logger.WithError(err).Warn("tool failed")
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}
	logger.WithField("elapsed", time.Since(start)).Debug("tool done")

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
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
//
// Each tool handler:
//  1. Unmarshals arguments from JSON
//  2. Fills optional parameters from the current configuration
//  3. Loads images from cache as needed
//  4. Calls the appropriate imaging/collage function
//  5. Returns the result or error
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	if len(args) == 0 {
		args = json.RawMessage(`{}`)
	}

	switch name {
	// Source Images
	case "image_load":
		return s.handleImageLoad(args)
	case "image_dimensions":
		return s.handleImageDimensions(args)
	case "image_thumbnail":
		return s.handleImageThumbnail(args)

	// Collage
	case "collage_plan":
		return s.handleCollagePlan(args)
	case "collage_compose":
		return s.handleCollageCompose(args)

	// Single Image
	case "image_resize":
		return s.handleImageResize(args)

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// On marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// === Source Image Handlers ===

type imageLoadArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageLoad(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imaging.LoadImageInfo(s.cache, a.Path)
}

func (s *Server) handleImageDimensions(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imaging.GetDimensions(s.cache, a.Path)
}

type imageThumbnailArgs struct {
	Path string `json:"path"`
	Size int    `json:"size"`
}

func (s *Server) handleImageThumbnail(args json.RawMessage) (interface{}, error) {
	var a imageThumbnailArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	cfg := s.Config()
	if a.Size == 0 {
		a.Size = cfg.ThumbnailSize
	}
	bg, err := collage.ParseColor(cfg.Background)
	if err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	return imaging.Thumbnail(img, a.Size, bg)
}

// === Collage Handlers ===

// maxPreviewCell caps each side of a collage_plan preview cell.
const maxPreviewCell = 4096

type collagePlanArgs struct {
	Count      int    `json:"count"`
	ColsPerRow *int   `json:"cols_per_row"`
	CellWidth  int    `json:"cell_width"`
	CellHeight int    `json:"cell_height"`
	GridColor  string `json:"grid_color"`
}

// PlanResult describes the grid for a given image count. Preview is set when
// a cell size was requested.
type PlanResult struct {
	Rows       int                   `json:"rows"`
	Cols       int                   `json:"cols"`
	Cells      int                   `json:"cells"`
	EmptyCells int                   `json:"empty_cells"`
	Preview    *collage.EncodedImage `json:"preview,omitempty"`
}

func (s *Server) handleCollagePlan(args json.RawMessage) (interface{}, error) {
	var a collagePlanArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Count < 0 {
		return nil, fmt.Errorf("count must not be negative, got %d", a.Count)
	}
	cfg := s.Config()
	cols, err := colsPerRow(a.ColsPerRow, cfg)
	if err != nil {
		return nil, err
	}

	grid := collage.Plan(a.Count, cols)
	result := &PlanResult{
		Rows:       grid.Rows,
		Cols:       grid.Cols,
		Cells:      grid.Cells(),
		EmptyCells: grid.Cells() - a.Count,
	}
	if a.CellWidth == 0 && a.CellHeight == 0 {
		return result, nil
	}
	if a.CellWidth > maxPreviewCell || a.CellHeight > maxPreviewCell {
		return nil, fmt.Errorf("preview cell %dx%d exceeds %d pixels per side: %w",
			a.CellWidth, a.CellHeight, maxPreviewCell, collage.ErrTooLarge)
	}

	opts, err := cfg.ComposerOptions()
	if err != nil {
		return nil, err
	}
	lineColor, err := gridColor(a.GridColor)
	if err != nil {
		return nil, err
	}
	preview, _, err := imaging.LayoutPreview(a.Count, cols, image.Pt(a.CellWidth, a.CellHeight),
		opts.Background, opts.Placeholder, lineColor)
	if err != nil {
		return nil, err
	}
	if result.Preview, err = collage.Encode(preview); err != nil {
		return nil, err
	}
	return result, nil
}

type collageComposeArgs struct {
	Paths        []string `json:"paths"`
	ScalePercent *int     `json:"scale_percent"`
	ColsPerRow   *int     `json:"cols_per_row"`
	Mode         string   `json:"mode"`
	BoxWidth     int      `json:"box_width"`
	BoxHeight    int      `json:"box_height"`
	Align        *string  `json:"align"`
	FillUnused   *bool    `json:"fill_unused"`
	Placeholder  *string  `json:"placeholder"`
	Background   *string  `json:"background"`
	Resampler    *string  `json:"resampler"`
	Filter       *string  `json:"filter"`
	ShowGrid     bool     `json:"show_grid"`
	GridColor    string   `json:"grid_color"`
	OutputPath   string   `json:"output_path"`
	Save         bool     `json:"save"`
}

// ComposeResult is the collage_compose response.
type ComposeResult struct {
	collage.EncodedImage
	Rows       int    `json:"rows"`
	Cols       int    `json:"cols"`
	CellWidth  int    `json:"cell_width"`
	CellHeight int    `json:"cell_height"`
	ImageCount int    `json:"image_count"`
	Scale      string `json:"scale"`
	Background string `json:"background"`
	SavedPath  string `json:"saved_path,omitempty"`
}

func (s *Server) handleCollageCompose(args json.RawMessage) (interface{}, error) {
	var a collageComposeArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if len(a.Paths) == 0 {
		return nil, collage.ErrEmptyInput
	}

	cfg := s.Config()
	opts, err := composeOptions(a, cfg)
	if err != nil {
		return nil, err
	}

	// Only drop what this call decoded; images loaded earlier stay cached.
	defer s.evict(s.uncached(a.Paths))
	images, err := s.cache.LoadAll(a.Paths)
	if err != nil {
		return nil, err
	}

	res, err := collage.NewComposer(opts).Compose(images)
	if err != nil {
		return nil, err
	}

	if a.ShowGrid {
		lineColor, err := gridColor(a.GridColor)
		if err != nil {
			return nil, err
		}
		imaging.DrawCellGrid(res.Image, res.Grid, res.Cell, res.Count, lineColor)
	}

	encoded, err := collage.Encode(res.Image)
	if err != nil {
		return nil, err
	}

	saved, err := saveOutput(res.Image, a.OutputPath, a.Save, "image_collage", cfg)
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"images": res.Count,
		"grid":   res.Grid.String(),
		"scale":  opts.Scale.String(),
		"width":  encoded.Width,
		"height": encoded.Height,
	}).Info("collage composed")

	return &ComposeResult{
		EncodedImage: *encoded,
		Rows:         res.Grid.Rows,
		Cols:         res.Grid.Cols,
		CellWidth:    res.Cell.X,
		CellHeight:   res.Cell.Y,
		ImageCount:   res.Count,
		Scale:        opts.Scale.String(),
		Background:   collage.HexString(opts.Background),
		SavedPath:    saved,
	}, nil
}

// composeOptions starts from the configured defaults and applies the
// per-call overrides in a.
func composeOptions(a collageComposeArgs, cfg *config.Config) (collage.Options, error) {
	opts, err := cfg.ComposerOptions()
	if err != nil {
		return collage.Options{}, err
	}

	if opts.Columns, err = colsPerRow(a.ColsPerRow, cfg); err != nil {
		return collage.Options{}, err
	}

	switch a.Mode {
	case "", "factor":
		if a.ScalePercent != nil {
			p := *a.ScalePercent
			if p < config.MinScalePercent || p > config.MaxScalePercent {
				return collage.Options{}, fmt.Errorf("scale_percent %d outside %d-%d: %w",
					p, config.MinScalePercent, config.MaxScalePercent, collage.ErrInvalidScaleFactor)
			}
			opts.Scale = collage.ByFactor(float64(p) / 100)
		}
	case "box":
		if a.BoxWidth <= 0 || a.BoxHeight <= 0 {
			return collage.Options{}, fmt.Errorf("box mode needs box_width and box_height: %w", collage.ErrInvalidBox)
		}
		opts.Scale = collage.ToFixedBox(a.BoxWidth, a.BoxHeight)
	default:
		return collage.Options{}, fmt.Errorf("unknown mode %q (want factor or box)", a.Mode)
	}

	if a.Background != nil {
		bg, err := collage.ParseColor(*a.Background)
		if err != nil {
			return collage.Options{}, err
		}
		// The placeholder follows the background unless set on its own.
		if cfg.Placeholder == "" {
			opts.Placeholder = bg
		}
		opts.Background = bg
	}
	if a.Placeholder != nil {
		if opts.Placeholder, err = collage.ParseColor(*a.Placeholder); err != nil {
			return collage.Options{}, err
		}
	}
	if a.FillUnused != nil {
		opts.FillUnused = *a.FillUnused
	}
	if a.Align != nil {
		if opts.Align, err = collage.ParseAlignment(*a.Align); err != nil {
			return collage.Options{}, err
		}
	}
	if a.Resampler != nil || a.Filter != nil {
		if opts.Resampler, err = resamplerOverride(a.Resampler, a.Filter, cfg); err != nil {
			return collage.Options{}, err
		}
	}
	return opts, nil
}

// === Single Image Handlers ===

type imageResizeArgs struct {
	Path       string   `json:"path"`
	Factor     *float64 `json:"factor"`
	Background *string  `json:"background"`
	Resampler  *string  `json:"resampler"`
	Filter     *string  `json:"filter"`
	OutputPath string   `json:"output_path"`
	Save       bool     `json:"save"`
}

// ResizeResult is the image_resize response.
type ResizeResult struct {
	collage.EncodedImage
	Factor    float64 `json:"factor"`
	Preset    bool    `json:"preset"`
	SavedPath string  `json:"saved_path,omitempty"`
}

func (s *Server) handleImageResize(args json.RawMessage) (interface{}, error) {
	var a imageResizeArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	factor := 1.0
	if a.Factor != nil {
		factor = *a.Factor
	}

	cfg := s.Config()
	background := cfg.Background
	if a.Background != nil {
		background = *a.Background
	}
	bg, err := collage.ParseColor(background)
	if err != nil {
		return nil, err
	}
	r, err := resamplerOverride(a.Resampler, a.Filter, cfg)
	if err != nil {
		return nil, err
	}

	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}

	out, err := collage.Resize(img, factor, bg, r)
	if err != nil {
		return nil, fmt.Errorf("factor %g: %w", factor, err)
	}

	encoded, err := collage.Encode(out)
	if err != nil {
		return nil, err
	}

	saved, err := saveOutput(out, a.OutputPath, a.Save, "image_resized", cfg)
	if err != nil {
		return nil, err
	}

	return &ResizeResult{
		EncodedImage: *encoded,
		Factor:       factor,
		Preset:       collage.IsPreset(factor),
		SavedPath:    saved,
	}, nil
}

// === Helpers ===

func colsPerRow(arg *int, cfg *config.Config) (int, error) {
	if arg == nil {
		return cfg.ColsPerRow, nil
	}
	if *arg < 0 || *arg > config.MaxColsPerRow {
		return 0, fmt.Errorf("cols_per_row %d outside 0-%d", *arg, config.MaxColsPerRow)
	}
	return *arg, nil
}

// resamplerOverride resolves a backend/filter pair. A backend given without
// a filter uses that backend's default filter; a filter given alone applies
// to the configured backend.
func resamplerOverride(backend, filter *string, cfg *config.Config) (collage.Resampler, error) {
	b, f := cfg.Resampler, cfg.Filter
	if backend != nil {
		b, f = *backend, ""
	}
	if filter != nil {
		f = *filter
	}
	return collage.ResamplerByName(b, f)
}

// saveOutput writes img to outputPath, or to a generated name in the
// configured output directory when only save is set. It returns the path
// written, or "" when nothing was requested.
func saveOutput(img image.Image, outputPath string, save bool, prefix string, cfg *config.Config) (string, error) {
	path := outputPath
	if path == "" {
		if !save {
			return "", nil
		}
		path = filepath.Join(cfg.OutputDir, prefix+"-"+uuid.NewString()+".png")
	}

	expanded, err := config.ExpandPath(path)
	if err != nil {
		return "", err
	}
	if err := collage.Save(img, expanded); err != nil {
		return "", err
	}
	log.WithField("path", expanded).Info("image saved")
	return expanded, nil
}

func gridColor(hex string) (color.Color, error) {
	if hex == "" {
		return imaging.DefaultGridColor, nil
	}
	c, err := collage.ParseColor(hex)
	if err != nil {
		return nil, fmt.Errorf("grid_color: %w", err)
	}
	return c, nil
}

// uncached returns the paths not yet in the image cache.
func (s *Server) uncached(paths []string) []string {
	var fresh []string
	for _, p := range paths {
		if !s.cache.Contains(p) {
			fresh = append(fresh, p)
		}
	}
	return fresh
}

func (s *Server) evict(paths []string) {
	for _, p := range paths {
		s.cache.Evict(p)
	}
}
