package server

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	"image/png"

	"github.com/stickertools/sheet-split-mcp/internal/detection"
	"github.com/stickertools/sheet-split-mcp/internal/imaging"
	"github.com/stickertools/sheet-split-mcp/internal/splitter"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "sheet_load", "sheet_split").
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

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

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
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Sheet Information
	case "sheet_load":
		return s.handleSheetLoad(args)
	case "sheet_detect_grid":
		return s.handleSheetDetectGrid(args)

	// Splitting
	case "sheet_split":
		return s.handleSheetSplit(args)
	case "sheet_process_batch":
		return s.handleSheetProcessBatch(args)

	// Border Detection
	case "sheet_detect_content":
		return s.handleSheetDetectContent(args)
	case "sheet_preview_detection":
		return s.handleSheetPreviewDetection(args)

	// Preview Helpers
	case "sheet_partition_overlay":
		return s.handleSheetPartitionOverlay(args)
	case "sheet_rotate":
		return s.handleSheetRotate(args)
	case "sheet_thumbnail":
		return s.handleSheetThumbnail(args)

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
// Panics are suppressed; on marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// ImageResult carries a rendered image back to the client.
type ImageResult struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

func encodeImageResult(img image.Image) (*ImageResult, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encoding result image: %w", err)
	}
	return &ImageResult{
		Width:       img.Bounds().Dx(),
		Height:      img.Bounds().Dy(),
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:    "image/png",
	}, nil
}

// detectionParams resolves a tool's mode argument: empty falls back to the
// server config (preset plus overrides), any other value selects that
// preset's defaults.
func (s *Server) detectionParams(mode string) (detection.Params, error) {
	if mode == "" {
		return s.cfg.DetectionParams(), nil
	}
	m, err := detection.ParseMode(mode)
	if err != nil {
		return detection.Params{}, err
	}
	return m.Params(), nil
}

func (s *Server) outputFormat(format string) string {
	if format == "" {
		return s.cfg.Output.Format
	}
	return format
}

// === Sheet Information Handlers ===

type sheetPathArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleSheetLoad(args json.RawMessage) (interface{}, error) {
	var a sheetPathArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imaging.LoadImageInfo(s.cache, a.Path)
}

// GridResult reports a detected or supplied grid layout.
type GridResult struct {
	Width  int              `json:"width"`
	Height int              `json:"height"`
	Grid   imaging.GridSpec `json:"grid"`
}

func (s *Server) handleSheetDetectGrid(args json.RawMessage) (interface{}, error) {
	var a sheetPathArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	b := img.Bounds()
	return &GridResult{
		Width:  b.Dx(),
		Height: b.Dy(),
		Grid:   imaging.DetectGridType(b.Dx(), b.Dy()),
	}, nil
}

// === Splitting Handlers ===

type sheetSplitArgs struct {
	Path         string  `json:"path"`
	Rows         int     `json:"rows"`
	Cols         int     `json:"cols"`
	Angle        float64 `json:"angle"`
	RemoveBorder bool    `json:"remove_border"`
	Mode         string  `json:"mode"`
	OutputDir    string  `json:"output_dir"`
	Format       string  `json:"format"`
}

func (a sheetSplitArgs) options(s *Server) (splitter.Options, error) {
	params, err := s.detectionParams(a.Mode)
	if err != nil {
		return splitter.Options{}, err
	}
	return splitter.Options{
		Grid:         imaging.GridSpec{Rows: a.Rows, Cols: a.Cols},
		Angle:        a.Angle,
		RemoveBorder: a.RemoveBorder,
		Detection:    params,
		Format:       s.outputFormat(a.Format),
	}, nil
}

func (s *Server) handleSheetSplit(args json.RawMessage) (interface{}, error) {
	var a sheetSplitArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	opts, err := a.options(s)
	if err != nil {
		return nil, err
	}
	return s.splitter.ProcessFile(a.Path, a.OutputDir, opts)
}

type sheetProcessBatchArgs struct {
	Paths        []string `json:"paths"`
	Rows         int      `json:"rows"`
	Cols         int      `json:"cols"`
	RemoveBorder bool     `json:"remove_border"`
	Mode         string   `json:"mode"`
	OutputDir    string   `json:"output_dir"`
	Format       string   `json:"format"`
}

func (s *Server) handleSheetProcessBatch(args json.RawMessage) (interface{}, error) {
	var a sheetProcessBatchArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if len(a.Paths) == 0 {
		return nil, fmt.Errorf("paths must not be empty")
	}

	opts, err := sheetSplitArgs{
		Rows:         a.Rows,
		Cols:         a.Cols,
		RemoveBorder: a.RemoveBorder,
		Mode:         a.Mode,
		Format:       a.Format,
	}.options(s)
	if err != nil {
		return nil, err
	}

	items, err := s.splitter.ProcessFiles(context.Background(), a.Paths, a.OutputDir, opts)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{"items": items}, nil
}

// === Border Detection Handlers ===

type sheetDetectArgs struct {
	Path string `json:"path"`
	Mode string `json:"mode"`
}

// ContentResult reports the outcome of content-region detection. Bounds is
// null when the detector declined.
type ContentResult struct {
	Width  int               `json:"width"`
	Height int               `json:"height"`
	Bounds *detection.Bounds `json:"bounds"`
}

func (s *Server) handleSheetDetectContent(args json.RawMessage) (interface{}, error) {
	var a sheetDetectArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	params, err := s.detectionParams(a.Mode)
	if err != nil {
		return nil, err
	}
	bounds, err := detection.DetectContentRegion(img, params)
	if err != nil {
		return nil, err
	}
	b := img.Bounds()
	return &ContentResult{Width: b.Dx(), Height: b.Dy(), Bounds: bounds}, nil
}

func (s *Server) handleSheetPreviewDetection(args json.RawMessage) (interface{}, error) {
	var a sheetDetectArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	params, err := s.detectionParams(a.Mode)
	if err != nil {
		return nil, err
	}
	bounds, err := detection.DetectContentRegion(img, params)
	if err != nil {
		return nil, err
	}
	return encodeImageResult(detection.PreviewOverlay(img, bounds))
}

// === Preview Helper Handlers ===

type sheetPartitionOverlayArgs struct {
	Path      string `json:"path"`
	Rows      int    `json:"rows"`
	Cols      int    `json:"cols"`
	LineColor string `json:"line_color"`
}

func (s *Server) handleSheetPartitionOverlay(args json.RawMessage) (interface{}, error) {
	var a sheetPartitionOverlayArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.LineColor == "" {
		a.LineColor = "#FF0000"
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}

	grid := imaging.GridSpec{Rows: a.Rows, Cols: a.Cols}
	if grid == (imaging.GridSpec{}) {
		b := img.Bounds()
		grid = imaging.DetectGridType(b.Dx(), b.Dy())
	}

	overlay, err := imaging.PartitionOverlay(img, grid, a.LineColor)
	if err != nil {
		return nil, err
	}
	return encodeImageResult(overlay)
}

type sheetRotateArgs struct {
	Path  string  `json:"path"`
	Angle float64 `json:"angle"`
}

func (s *Server) handleSheetRotate(args json.RawMessage) (interface{}, error) {
	var a sheetRotateArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	rotated, err := imaging.Rotate(img, a.Angle)
	if err != nil {
		return nil, err
	}
	return encodeImageResult(rotated)
}

type sheetThumbnailArgs struct {
	Path      string `json:"path"`
	MaxWidth  int    `json:"max_width"`
	MaxHeight int    `json:"max_height"`
}

func (s *Server) handleSheetThumbnail(args json.RawMessage) (interface{}, error) {
	var a sheetThumbnailArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.MaxWidth == 0 {
		a.MaxWidth = 256
	}
	if a.MaxHeight == 0 {
		a.MaxHeight = 256
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	thumb, err := imaging.Thumbnail(img, a.MaxWidth, a.MaxHeight)
	if err != nil {
		return nil, err
	}
	return encodeImageResult(thumb)
}
