package server

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ironsheep/image-collage-mcp/internal/collage"
	"github.com/ironsheep/image-collage-mcp/internal/config"
)

// createTestImageFile creates a test image file and returns its path
func createTestImageFile(t *testing.T, width, height int, c color.Color) string {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}

	tmpFile, err := os.CreateTemp(t.TempDir(), "handler-test-*.png")
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	defer tmpFile.Close()

	if err := png.Encode(tmpFile, img); err != nil {
		t.Fatalf("failed to encode image: %v", err)
	}

	return tmpFile.Name()
}

// callTool runs a tools/call request and decodes the JSON text content into out.
func callTool(t *testing.T, s *Server, name string, args map[string]interface{}, out interface{}) *MCPResponse {
	t.Helper()

	params := map[string]interface{}{
		"name":      name,
		"arguments": args,
	}
	paramsJSON, _ := json.Marshal(params)

	resp := s.handleRequest(&MCPRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "tools/call",
		Params:  paramsJSON,
	})
	if resp == nil {
		t.Fatal("handleRequest returned nil")
	}
	if resp.Error != nil || out == nil {
		return resp
	}

	result := resp.Result.(map[string]interface{})
	content := result["content"].([]map[string]interface{})
	text := content[0]["text"].(string)
	if err := json.Unmarshal([]byte(text), out); err != nil {
		t.Fatalf("failed to decode tool result: %v", err)
	}
	return resp
}

func decodePNG(t *testing.T, b64 string) image.Image {
	t.Helper()
	raw, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		t.Fatalf("failed to decode base64: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("failed to decode PNG: %v", err)
	}
	return img
}

func rgb(img image.Image, x, y int) [3]uint8 {
	r, g, b, _ := img.At(x, y).RGBA()
	return [3]uint8{uint8(r >> 8), uint8(g >> 8), uint8(b >> 8)}
}

func TestHandleToolsCall_ImageLoad(t *testing.T) {
	s := New(nil)
	imgPath := createTestImageFile(t, 100, 80, color.RGBA{255, 0, 0, 255})

	var info struct {
		Width     int    `json:"width"`
		Height    int    `json:"height"`
		Format    string `json:"format"`
		ColorMode string `json:"color_mode"`
	}
	resp := callTool(t, s, "image_load", map[string]interface{}{"path": imgPath}, &info)

	if resp.Error != nil {
		t.Fatalf("Unexpected error: %v", resp.Error)
	}
	if info.Width != 100 || info.Height != 80 {
		t.Errorf("dimensions: got %dx%d, want 100x80", info.Width, info.Height)
	}
	if info.Format != "png" || info.ColorMode != "rgb" {
		t.Errorf("format/color_mode: got %s/%s, want png/rgb", info.Format, info.ColorMode)
	}
}

func TestHandleToolsCall_ImageDimensions(t *testing.T) {
	s := New(nil)
	imgPath := createTestImageFile(t, 200, 150, color.RGBA{0, 255, 0, 255})

	var dims struct {
		Width  int `json:"width"`
		Height int `json:"height"`
	}
	resp := callTool(t, s, "image_dimensions", map[string]interface{}{"path": imgPath}, &dims)

	if resp.Error != nil {
		t.Fatalf("Unexpected error: %v", resp.Error)
	}
	if dims.Width != 200 || dims.Height != 150 {
		t.Errorf("dimensions: got %dx%d, want 200x150", dims.Width, dims.Height)
	}
}

func TestHandleToolsCall_NonExistentFile(t *testing.T) {
	s := New(nil)

	resp := callTool(t, s, "image_load", map[string]interface{}{"path": "/nonexistent/image.png"}, nil)

	if resp.Error == nil {
		t.Fatal("expected an error for a missing file")
	}
	if resp.Error.Code != -32000 {
		t.Errorf("Error code: got %d, want -32000", resp.Error.Code)
	}
}

func TestHandleToolsCall_InvalidTool(t *testing.T) {
	s := New(nil)

	resp := callTool(t, s, "nonexistent_tool", map[string]interface{}{}, nil)

	if resp.Error == nil {
		t.Fatal("expected an error for an unknown tool")
	}
	if data, _ := resp.Error.Data.(string); !strings.Contains(data, "unknown tool") {
		t.Errorf("Error data: got %v", resp.Error.Data)
	}
}

func TestHandleToolsCall_InvalidParams(t *testing.T) {
	s := New(nil)

	resp := s.handleToolsCall(&MCPRequest{
		JSONRPC: "2.0",
		ID:      1,
		Params:  json.RawMessage(`{invalid`),
	})

	if resp.Error == nil || resp.Error.Code != -32602 {
		t.Errorf("expected -32602, got %+v", resp.Error)
	}
}

func TestHandleToolsCall_Thumbnail(t *testing.T) {
	s := New(nil)
	imgPath := createTestImageFile(t, 600, 300, color.RGBA{0, 0, 255, 255})

	tests := []struct {
		name         string
		args         map[string]interface{}
		wantW, wantH int
	}{
		{"default size", map[string]interface{}{"path": imgPath}, 150, 75},
		{"custom size", map[string]interface{}{"path": imgPath, "size": 60}, 60, 30},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var result struct {
				Width       int    `json:"width"`
				Height      int    `json:"height"`
				SourceWidth int    `json:"source_width"`
				ImageBase64 string `json:"image_base64"`
			}
			resp := callTool(t, s, "image_thumbnail", tt.args, &result)
			if resp.Error != nil {
				t.Fatalf("Unexpected error: %v", resp.Error)
			}
			if result.Width != tt.wantW || result.Height != tt.wantH {
				t.Errorf("dimensions: got %dx%d, want %dx%d", result.Width, result.Height, tt.wantW, tt.wantH)
			}
			if result.SourceWidth != 600 {
				t.Errorf("source_width: got %d, want 600", result.SourceWidth)
			}
			decodePNG(t, result.ImageBase64)
		})
	}
}

func TestHandleToolsCall_CollagePlan(t *testing.T) {
	s := New(nil)

	tests := []struct {
		name string
		args map[string]interface{}
		want PlanResult
	}{
		{"zero", map[string]interface{}{"count": 0}, PlanResult{}},
		{"one", map[string]interface{}{"count": 1}, PlanResult{Rows: 1, Cols: 1, Cells: 1}},
		{"auto nine", map[string]interface{}{"count": 9}, PlanResult{Rows: 3, Cols: 3, Cells: 9}},
		{"auto ten", map[string]interface{}{"count": 10}, PlanResult{Rows: 4, Cols: 3, Cells: 12, EmptyCells: 2}},
		{"fixed columns", map[string]interface{}{"count": 10, "cols_per_row": 3}, PlanResult{Rows: 4, Cols: 3, Cells: 12, EmptyCells: 2}},
		{"explicit auto", map[string]interface{}{"count": 5, "cols_per_row": 0}, PlanResult{Rows: 3, Cols: 2, Cells: 6, EmptyCells: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got PlanResult
			resp := callTool(t, s, "collage_plan", tt.args, &got)
			if resp.Error != nil {
				t.Fatalf("Unexpected error: %v", resp.Error)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("plan mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestHandleToolsCall_CollagePlan_Preview(t *testing.T) {
	s := New(nil)

	var got PlanResult
	resp := callTool(t, s, "collage_plan", map[string]interface{}{
		"count":        3,
		"cols_per_row": 2,
		"cell_width":   30,
		"cell_height":  20,
		"grid_color":   "#0000FF",
	}, &got)
	if resp.Error != nil {
		t.Fatalf("Unexpected error: %v", resp.Error)
	}
	if got.Preview == nil {
		t.Fatal("preview missing")
	}
	if got.Preview.Width != 60 || got.Preview.Height != 40 {
		t.Errorf("preview dimensions: got %dx%d, want 60x40", got.Preview.Width, got.Preview.Height)
	}

	img := decodePNG(t, got.Preview.ImageBase64)
	if c := rgb(img, 30, 10); c != [3]uint8{0, 0, 255} {
		t.Errorf("cell boundary: got %v, want grid color", c)
	}
	if c := rgb(img, 45, 30); c != [3]uint8{255, 255, 255} {
		t.Errorf("unused cell: got %v, want background", c)
	}
}

func TestHandleToolsCall_CollagePlan_Invalid(t *testing.T) {
	s := New(nil)

	for _, args := range []map[string]interface{}{
		{"count": -1},
		{"count": 4, "cols_per_row": 11},
		{"count": 4, "cols_per_row": -2},
		{"count": 0, "cell_width": 10, "cell_height": 10},
		{"count": 4, "cell_width": 10},
		{"count": 4, "cell_width": 10, "cell_height": 10, "grid_color": "blue"},
		{"count": 4, "cell_width": 4097, "cell_height": 10},
		{"count": 4, "cell_width": 4294967296, "cell_height": 4294967296},
		{"count": 100, "cols_per_row": 10, "cell_width": 4096, "cell_height": 4096},
	} {
		if resp := callTool(t, s, "collage_plan", args, nil); resp.Error == nil {
			t.Errorf("collage_plan(%v) should fail", args)
		}
	}
}

type composeResponse struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	Rows        int    `json:"rows"`
	Cols        int    `json:"cols"`
	CellWidth   int    `json:"cell_width"`
	CellHeight  int    `json:"cell_height"`
	ImageCount  int    `json:"image_count"`
	Background  string `json:"background"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
	SavedPath   string `json:"saved_path"`
}

func TestHandleToolsCall_CollageCompose(t *testing.T) {
	s := New(nil)
	red := createTestImageFile(t, 20, 10, color.RGBA{255, 0, 0, 255})
	blue := createTestImageFile(t, 20, 10, color.RGBA{0, 0, 255, 255})

	var result composeResponse
	resp := callTool(t, s, "collage_compose", map[string]interface{}{
		"paths":         []string{red, blue},
		"scale_percent": 100,
		"cols_per_row":  2,
	}, &result)

	if resp.Error != nil {
		t.Fatalf("Unexpected error: %v", resp.Error)
	}
	if result.Width != 40 || result.Height != 10 {
		t.Errorf("dimensions: got %dx%d, want 40x10", result.Width, result.Height)
	}
	if result.Rows != 1 || result.Cols != 2 || result.ImageCount != 2 {
		t.Errorf("grid: got %dx%d with %d images", result.Rows, result.Cols, result.ImageCount)
	}
	if result.MimeType != "image/png" || result.SavedPath != "" {
		t.Errorf("unexpected mime/saved path: %s %q", result.MimeType, result.SavedPath)
	}

	img := decodePNG(t, result.ImageBase64)
	if got := rgb(img, 5, 5); got != [3]uint8{255, 0, 0} {
		t.Errorf("left cell: got %v, want red", got)
	}
	if got := rgb(img, 25, 5); got != [3]uint8{0, 0, 255} {
		t.Errorf("right cell: got %v, want blue", got)
	}
}

func TestHandleToolsCall_CollageCompose_DefaultScale(t *testing.T) {
	s := New(nil)
	path := createTestImageFile(t, 100, 40, color.RGBA{10, 200, 10, 255})

	var result composeResponse
	resp := callTool(t, s, "collage_compose", map[string]interface{}{
		"paths": []string{path, path, path},
	}, &result)

	if resp.Error != nil {
		t.Fatalf("Unexpected error: %v", resp.Error)
	}
	// 45% of 100x40 is 45x18; three images auto-plan to 2x2.
	if result.CellWidth != 45 || result.CellHeight != 18 {
		t.Errorf("cell: got %dx%d, want 45x18", result.CellWidth, result.CellHeight)
	}
	if result.Rows != 2 || result.Cols != 2 {
		t.Errorf("grid: got %dx%d, want 2x2", result.Rows, result.Cols)
	}
	if result.Width != 90 || result.Height != 36 {
		t.Errorf("dimensions: got %dx%d, want 90x36", result.Width, result.Height)
	}

	img := decodePNG(t, result.ImageBase64)
	if got := rgb(img, 60, 30); got != [3]uint8{255, 255, 255} {
		t.Errorf("unused cell: got %v, want white", got)
	}
}

func TestHandleToolsCall_CollageCompose_ConfigDefaults(t *testing.T) {
	cfg := config.Default()
	cfg.ScalePercent = 50
	cfg.Background = "#000000"
	cfg.FillUnused = true
	cfg.Placeholder = "#808080"
	s := New(cfg)

	path := createTestImageFile(t, 20, 20, color.RGBA{255, 255, 255, 255})

	var result composeResponse
	resp := callTool(t, s, "collage_compose", map[string]interface{}{
		"paths":        []string{path, path, path},
		"cols_per_row": 2,
	}, &result)

	if resp.Error != nil {
		t.Fatalf("Unexpected error: %v", resp.Error)
	}
	if result.Width != 20 || result.Height != 20 {
		t.Errorf("dimensions: got %dx%d, want 20x20", result.Width, result.Height)
	}
	if result.Background != "#000000" {
		t.Errorf("background: got %s, want #000000", result.Background)
	}

	img := decodePNG(t, result.ImageBase64)
	if got := rgb(img, 15, 15); got != [3]uint8{128, 128, 128} {
		t.Errorf("unused cell: got %v, want placeholder gray", got)
	}
}

func TestHandleToolsCall_CollageCompose_BoxMode(t *testing.T) {
	s := New(nil)
	wide := createTestImageFile(t, 40, 10, color.RGBA{255, 0, 0, 255})
	tall := createTestImageFile(t, 10, 40, color.RGBA{0, 0, 255, 255})

	var result composeResponse
	resp := callTool(t, s, "collage_compose", map[string]interface{}{
		"paths":      []string{wide, tall},
		"mode":       "box",
		"box_width":  20,
		"box_height": 20,
		"background": "#00FF00",
	}, &result)

	if resp.Error != nil {
		t.Fatalf("Unexpected error: %v", resp.Error)
	}
	if result.CellWidth != 20 || result.CellHeight != 20 {
		t.Errorf("cell: got %dx%d, want 20x20", result.CellWidth, result.CellHeight)
	}
	// Two images auto-plan to two rows of one column.
	if result.Width != 20 || result.Height != 40 {
		t.Errorf("dimensions: got %dx%d, want 20x40", result.Width, result.Height)
	}

	img := decodePNG(t, result.ImageBase64)
	if got := rgb(img, 1, 30); got != [3]uint8{0, 255, 0} {
		t.Errorf("pillarbox beside tall image: got %v, want background", got)
	}
	if got := rgb(img, 10, 30); got != [3]uint8{0, 0, 255} {
		t.Errorf("tall image center: got %v, want blue", got)
	}
	if got := rgb(img, 10, 1); got != [3]uint8{0, 255, 0} {
		t.Errorf("letterbox above wide image: got %v, want background", got)
	}
	if got := rgb(img, 10, 10); got != [3]uint8{255, 0, 0} {
		t.Errorf("wide image center: got %v, want red", got)
	}
}

func TestHandleToolsCall_CollageCompose_ShowGrid(t *testing.T) {
	s := New(nil)
	path := createTestImageFile(t, 20, 20, color.RGBA{255, 255, 255, 255})

	var result composeResponse
	resp := callTool(t, s, "collage_compose", map[string]interface{}{
		"paths":         []string{path, path},
		"scale_percent": 100,
		"cols_per_row":  2,
		"show_grid":     true,
	}, &result)
	if resp.Error != nil {
		t.Fatalf("Unexpected error: %v", resp.Error)
	}

	img := decodePNG(t, result.ImageBase64)
	if c := rgb(img, 20, 15); c != [3]uint8{255, 0, 0} {
		t.Errorf("cell boundary: got %v, want default grid color", c)
	}
	if c := rgb(img, 14, 14); c != [3]uint8{255, 255, 255} {
		t.Errorf("cell interior: got %v, want image pixels", c)
	}
	// Second cell carries the label "2".
	if c := rgb(img, 22, 2); c != [3]uint8{0, 0, 0} {
		t.Errorf("label box: got %v, want black", c)
	}
}

func TestHandleToolsCall_CollageCompose_Errors(t *testing.T) {
	s := New(nil)
	path := createTestImageFile(t, 10, 10, color.RGBA{255, 0, 0, 255})

	tests := []struct {
		name string
		args map[string]interface{}
	}{
		{"no paths", map[string]interface{}{"paths": []string{}}},
		{"missing file", map[string]interface{}{"paths": []string{path, "/nonexistent/b.png"}}},
		{"scale too small", map[string]interface{}{"paths": []string{path}, "scale_percent": 5}},
		{"scale too large", map[string]interface{}{"paths": []string{path}, "scale_percent": 150}},
		{"too many columns", map[string]interface{}{"paths": []string{path}, "cols_per_row": 11}},
		{"box without size", map[string]interface{}{"paths": []string{path}, "mode": "box"}},
		{"oversized box", map[string]interface{}{"paths": []string{path}, "mode": "box", "box_width": 1 << 20, "box_height": 1 << 20}},
		{"unknown mode", map[string]interface{}{"paths": []string{path}, "mode": "stretch"}},
		{"bad background", map[string]interface{}{"paths": []string{path}, "background": "red"}},
		{"bad align", map[string]interface{}{"paths": []string{path}, "align": "bottom"}},
		{"bad resampler", map[string]interface{}{"paths": []string{path}, "resampler": "magick"}},
		{"bad output path", map[string]interface{}{"paths": []string{path}, "output_path": filepath.Join(t.TempDir(), "out.jpg")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := callTool(t, s, "collage_compose", tt.args, nil)
			if resp.Error == nil {
				t.Fatal("expected an error")
			}
			if resp.Error.Code != -32000 {
				t.Errorf("Error code: got %d, want -32000", resp.Error.Code)
			}
		})
	}
}

func TestHandleCollageCompose_EmptyInputSentinel(t *testing.T) {
	s := New(nil)

	_, err := s.executeTool("collage_compose", json.RawMessage(`{"paths":[]}`))
	if !errors.Is(err, collage.ErrEmptyInput) {
		t.Errorf("got %v, want ErrEmptyInput", err)
	}
}

func TestHandleToolsCall_CollageCompose_OutputPath(t *testing.T) {
	s := New(nil)
	path := createTestImageFile(t, 10, 10, color.RGBA{255, 0, 0, 255})
	out := filepath.Join(t.TempDir(), "nested", "image_collage.png")

	var result composeResponse
	resp := callTool(t, s, "collage_compose", map[string]interface{}{
		"paths":       []string{path},
		"output_path": out,
	}, &result)

	if resp.Error != nil {
		t.Fatalf("Unexpected error: %v", resp.Error)
	}
	if result.SavedPath != out {
		t.Errorf("saved_path: got %s, want %s", result.SavedPath, out)
	}
	if _, err := os.Stat(out); err != nil {
		t.Errorf("output file missing: %v", err)
	}
}

func TestHandleToolsCall_CollageCompose_SaveGeneratesName(t *testing.T) {
	cfg := config.Default()
	cfg.OutputDir = t.TempDir()
	s := New(cfg)
	path := createTestImageFile(t, 10, 10, color.RGBA{255, 0, 0, 255})

	saved := make(map[string]bool)
	for i := 0; i < 2; i++ {
		var result composeResponse
		resp := callTool(t, s, "collage_compose", map[string]interface{}{
			"paths": []string{path},
			"save":  true,
		}, &result)
		if resp.Error != nil {
			t.Fatalf("Unexpected error: %v", resp.Error)
		}
		if filepath.Dir(result.SavedPath) != cfg.OutputDir {
			t.Errorf("saved_path %s not in %s", result.SavedPath, cfg.OutputDir)
		}
		if !strings.HasPrefix(filepath.Base(result.SavedPath), "image_collage-") {
			t.Errorf("unexpected file name %s", filepath.Base(result.SavedPath))
		}
		saved[result.SavedPath] = true
	}

	if len(saved) != 2 {
		t.Error("repeated saves should not reuse a file name")
	}
}

func TestHandleToolsCall_CollageCompose_EvictsSources(t *testing.T) {
	s := New(nil)
	path := createTestImageFile(t, 10, 10, color.RGBA{255, 0, 0, 255})

	if resp := callTool(t, s, "collage_compose", map[string]interface{}{"paths": []string{path}}, nil); resp.Error != nil {
		t.Fatalf("Unexpected error: %v", resp.Error)
	}
	if n := s.cache.Len(); n != 0 {
		t.Errorf("cache should be empty after compose, has %d images", n)
	}
}

func TestHandleToolsCall_CollageCompose_KeepsPreloadedImages(t *testing.T) {
	s := New(nil)
	kept := createTestImageFile(t, 10, 10, color.RGBA{255, 0, 0, 255})
	other := createTestImageFile(t, 10, 10, color.RGBA{0, 0, 255, 255})

	if resp := callTool(t, s, "image_load", map[string]interface{}{"path": kept}, nil); resp.Error != nil {
		t.Fatalf("image_load failed: %v", resp.Error)
	}
	if resp := callTool(t, s, "collage_compose", map[string]interface{}{"paths": []string{kept, other}}, nil); resp.Error != nil {
		t.Fatalf("Unexpected error: %v", resp.Error)
	}

	if !s.cache.Contains(kept) {
		t.Error("image loaded before compose should stay cached")
	}
	if s.cache.Contains(other) {
		t.Error("image decoded only for compose should be evicted")
	}
}

func TestHandleToolsCall_CollageCompose_EvictsOnLoadFailure(t *testing.T) {
	s := New(nil)
	good := createTestImageFile(t, 10, 10, color.RGBA{255, 0, 0, 255})

	args := map[string]interface{}{"paths": []string{good, "/nonexistent/image.png"}}
	if resp := callTool(t, s, "collage_compose", args, nil); resp.Error == nil {
		t.Fatal("compose with a missing file should fail")
	}
	if n := s.cache.Len(); n != 0 {
		t.Errorf("cache should be empty after a failed compose, has %d images", n)
	}
}

type resizeResponse struct {
	Width       int     `json:"width"`
	Height      int     `json:"height"`
	Factor      float64 `json:"factor"`
	Preset      bool    `json:"preset"`
	ImageBase64 string  `json:"image_base64"`
	SavedPath   string  `json:"saved_path"`
}

func TestHandleToolsCall_ImageResize(t *testing.T) {
	s := New(nil)
	path := createTestImageFile(t, 40, 20, color.RGBA{255, 0, 0, 255})

	tests := []struct {
		name         string
		args         map[string]interface{}
		wantW, wantH int
		wantPreset   bool
	}{
		{"default factor", map[string]interface{}{"path": path}, 40, 20, true},
		{"quarter", map[string]interface{}{"path": path, "factor": 0.25}, 10, 5, true},
		{"double", map[string]interface{}{"path": path, "factor": 2.0}, 80, 40, true},
		{"arbitrary", map[string]interface{}{"path": path, "factor": 0.3}, 12, 6, false},
		{"nfnt backend", map[string]interface{}{"path": path, "factor": 0.5, "resampler": "nfnt"}, 20, 10, true},
		{"bild nearest", map[string]interface{}{"path": path, "factor": 4.0, "resampler": "bild", "filter": "nearest"}, 160, 80, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var result resizeResponse
			resp := callTool(t, s, "image_resize", tt.args, &result)
			if resp.Error != nil {
				t.Fatalf("Unexpected error: %v", resp.Error)
			}
			if result.Width != tt.wantW || result.Height != tt.wantH {
				t.Errorf("dimensions: got %dx%d, want %dx%d", result.Width, result.Height, tt.wantW, tt.wantH)
			}
			if result.Preset != tt.wantPreset {
				t.Errorf("preset: got %v, want %v", result.Preset, tt.wantPreset)
			}

			img := decodePNG(t, result.ImageBase64)
			if got := rgb(img, tt.wantW/2, tt.wantH/2); got != [3]uint8{255, 0, 0} {
				t.Errorf("center pixel: got %v, want red", got)
			}
		})
	}
}

func TestHandleToolsCall_ImageResize_Errors(t *testing.T) {
	s := New(nil)
	path := createTestImageFile(t, 40, 20, color.RGBA{255, 0, 0, 255})

	tests := []struct {
		name string
		args map[string]interface{}
	}{
		{"zero factor", map[string]interface{}{"path": path, "factor": 0}},
		{"negative factor", map[string]interface{}{"path": path, "factor": -1}},
		{"oversized result", map[string]interface{}{"path": path, "factor": 1e15}},
		{"bad filter", map[string]interface{}{"path": path, "filter": "sinc"}},
		{"missing file", map[string]interface{}{"path": "/nonexistent/a.png"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if resp := callTool(t, s, "image_resize", tt.args, nil); resp.Error == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestExecuteTool_AllTools(t *testing.T) {
	s := New(nil)
	imgPath := createTestImageFile(t, 100, 100, color.RGBA{128, 128, 128, 255})

	toolTests := []struct {
		name string
		args map[string]interface{}
	}{
		{"image_load", map[string]interface{}{"path": imgPath}},
		{"image_dimensions", map[string]interface{}{"path": imgPath}},
		{"image_thumbnail", map[string]interface{}{"path": imgPath}},
		{"collage_plan", map[string]interface{}{"count": 4}},
		{"collage_compose", map[string]interface{}{"paths": []string{imgPath, imgPath}}},
		{"image_resize", map[string]interface{}{"path": imgPath, "factor": 0.5}},
	}

	for _, tt := range toolTests {
		t.Run(tt.name, func(t *testing.T) {
			argsJSON, _ := json.Marshal(tt.args)
			result, err := s.executeTool(tt.name, argsJSON)
			if err != nil {
				t.Fatalf("executeTool(%s) failed: %v", tt.name, err)
			}
			if result == nil {
				t.Errorf("executeTool(%s) returned nil result", tt.name)
			}
		})
	}
}

func TestExecuteTool_UnknownTool(t *testing.T) {
	s := New(nil)

	_, err := s.executeTool("unknown_tool", json.RawMessage(`{}`))
	if err == nil {
		t.Error("executeTool should fail for unknown tool")
	}
}

func TestExecuteTool_InvalidJSON(t *testing.T) {
	s := New(nil)

	_, err := s.executeTool("image_load", json.RawMessage(`{invalid`))
	if err == nil {
		t.Error("executeTool should fail for invalid JSON")
	}
}

func TestExecuteTool_MissingArguments(t *testing.T) {
	s := New(nil)

	// No arguments at all behaves like an empty object.
	result, err := s.executeTool("collage_plan", nil)
	if err != nil {
		t.Fatalf("executeTool failed: %v", err)
	}
	if diff := cmp.Diff(&PlanResult{}, result); diff != "" {
		t.Errorf("plan mismatch (-want +got):\n%s", diff)
	}

	if _, err := s.executeTool("image_load", nil); err == nil {
		t.Error("image_load without a path should fail")
	}
}
