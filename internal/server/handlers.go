package server

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/ironsheep/part-finder/internal/detection"
	"github.com/ironsheep/part-finder/internal/imaging"
	"github.com/ironsheep/part-finder/internal/ocr"
	"github.com/ironsheep/part-finder/internal/report"
)

// defaultInset is trimmed from each part before colour sampling and OCR so
// the part's border does not leak into the result.
const defaultInset = 4

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "image_load", "parts_detect").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// invalidArgsError marks a tool failure caused by the caller's arguments
// rather than by the image or the pipeline.
type invalidArgsError struct {
	err error
}

func (e *invalidArgsError) Error() string { return e.err.Error() }
func (e *invalidArgsError) Unwrap() error { return e.err }

func invalidArgs(format string, args ...interface{}) error {
	return &invalidArgsError{err: fmt.Errorf(format, args...)}
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Argument errors and invalid detection parameters return code -32602. Any
// other tool failure returns code -32000.
func (s *Server) handleToolsCall(ctx context.Context, req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(ctx, params.Name, params.Arguments)
	if err != nil {
		var argErr *invalidArgsError
		if errors.As(err, &argErr) || errors.Is(err, detection.ErrInvalidParams) {
			return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
		}
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
//
// Each tool handler:
//  1. Unmarshals arguments from JSON
//  2. Applies default values for optional parameters
//  3. Loads the image and its detected parts from cache as needed
//  4. Calls the appropriate imaging/report/ocr function
//  5. Returns the result or error
func (s *Server) executeTool(ctx context.Context, name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Basic Image Information
	case "image_load":
		return s.handleImageLoad(args)
	case "image_dimensions":
		return s.handleImageDimensions(args)

	// Part Detection
	case "parts_detect":
		return s.handlePartsDetect(ctx, args)
	case "parts_count":
		return s.handlePartsCount(ctx, args)

	// Part Output
	case "parts_annotate":
		return s.handlePartsAnnotate(ctx, args)
	case "parts_crop":
		return s.handlePartsCrop(ctx, args)
	case "parts_colors":
		return s.handlePartsColors(ctx, args)
	case "parts_area_chart":
		return s.handlePartsAreaChart(ctx, args)

	// OCR
	case "parts_read_labels":
		return s.handlePartsReadLabels(ctx, args)

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

// decodeArgs unmarshals tool arguments into v. Missing arguments decode as
// an empty object so handlers can report the missing field by name.
func decodeArgs(args json.RawMessage, v interface{}) error {
	if len(args) == 0 {
		args = json.RawMessage("{}")
	}
	if err := json.Unmarshal(args, v); err != nil {
		return &invalidArgsError{err: fmt.Errorf("invalid arguments: %w", err)}
	}
	return nil
}

// pathArgs is embedded by every tool that works on one image.
type pathArgs struct {
	Path string `json:"path"`
}

func (a pathArgs) validate() error {
	if a.Path == "" {
		return invalidArgs("path is required")
	}
	return nil
}

// detected is one cached detection run.
type detected struct {
	img    image.Image
	result *detection.Result
	id     uuid.UUID
}

// detect returns the parts found in the image at path, running detection on
// first use. With refresh the image is reloaded from disk and detection is
// rerun.
func (s *Server) detect(ctx context.Context, path string, refresh bool) (*detected, error) {
	if refresh {
		s.cache.Evict(path)
		s.mu.Lock()
		delete(s.results, path)
		s.mu.Unlock()
	}

	img, err := s.cache.Load(path)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	d, ok := s.results[path]
	s.mu.Unlock()
	if ok {
		return d, nil
	}

	result, err := s.detector.Detect(ctx, img)
	if err != nil {
		return nil, fmt.Errorf("detection failed: %w", err)
	}
	d = &detected{img: img, result: result, id: uuid.New()}

	s.mu.Lock()
	s.results[path] = d
	s.mu.Unlock()
	return d, nil
}

// === Basic Image Information Handlers ===

func (s *Server) handleImageLoad(args json.RawMessage) (interface{}, error) {
	var a pathArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if err := a.validate(); err != nil {
		return nil, err
	}
	return imaging.LoadImageInfo(s.cache, a.Path)
}

func (s *Server) handleImageDimensions(args json.RawMessage) (interface{}, error) {
	var a pathArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if err := a.validate(); err != nil {
		return nil, err
	}
	return imaging.GetDimensions(s.cache, a.Path)
}

// === Part Detection Handlers ===

type partsDetectArgs struct {
	pathArgs
	Refresh         bool `json:"refresh"`
	IncludeAccepted bool `json:"include_accepted"`
}

// PartsDetectResult is returned by parts_detect. The embedded report carries
// the same fields the findparts CLI writes to disk.
type PartsDetectResult struct {
	*report.Report
	Accepted [][4]int        `json:"accepted,omitempty"`
	MeanArea float64         `json:"mean_area"`
	Stats    detection.Stats `json:"stats"`
}

func quads(rects []detection.Rect) [][4]int {
	out := make([][4]int, len(rects))
	for i, r := range rects {
		out[i] = r.Slice()
	}
	return out
}

func (s *Server) handlePartsDetect(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a partsDetectArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if err := a.validate(); err != nil {
		return nil, err
	}
	d, err := s.detect(ctx, a.Path, a.Refresh)
	if err != nil {
		return nil, err
	}

	rep := report.New(a.Path, d.result.Rects)
	rep.ID = d.id
	res := &PartsDetectResult{
		Report:   rep,
		MeanArea: d.result.MeanArea,
		Stats:    d.result.Stats,
	}
	if a.IncludeAccepted {
		res.Accepted = quads(d.result.Accepted)
	}
	return res, nil
}

// PartsCountResult is returned by parts_count.
type PartsCountResult struct {
	Path  string `json:"path"`
	Count int    `json:"count"`
}

func (s *Server) handlePartsCount(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a pathArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if err := a.validate(); err != nil {
		return nil, err
	}
	d, err := s.detect(ctx, a.Path, false)
	if err != nil {
		return nil, err
	}
	return &PartsCountResult{Path: a.Path, Count: len(d.result.Rects)}, nil
}

// === Part Output Handlers ===

type partsAnnotateArgs struct {
	pathArgs
	OutputPath string `json:"output_path"`
	Thickness  int    `json:"thickness"`
	Color      string `json:"color"`
	Palette    bool   `json:"palette"`
	Labels     bool   `json:"labels"`
}

// SavedFileResult is returned when a tool writes its output to disk.
type SavedFileResult struct {
	OutputPath string `json:"output_path"`
	Width      int    `json:"width"`
	Height     int    `json:"height"`
	Count      int    `json:"count"`
}

func (s *Server) handlePartsAnnotate(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a partsAnnotateArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if err := a.validate(); err != nil {
		return nil, err
	}
	if a.Thickness == 0 {
		a.Thickness = s.cfg.OutlineThickness
	}
	if a.Color == "" {
		a.Color = s.cfg.OutlineColor
	}
	d, err := s.detect(ctx, a.Path, false)
	if err != nil {
		return nil, err
	}

	out, err := imaging.Annotate(d.img, d.result.Rects, imaging.AnnotateOptions{
		Thickness: a.Thickness,
		Color:     a.Color,
		Palette:   a.Palette,
		Labels:    a.Labels,
	})
	if err != nil {
		return nil, err
	}

	if a.OutputPath == "" {
		return imaging.EncodePNG(out)
	}
	if err := imaging.Save(out, a.OutputPath); err != nil {
		return nil, err
	}
	b := out.Bounds()
	return &SavedFileResult{OutputPath: a.OutputPath, Width: b.Dx(), Height: b.Dy(), Count: len(d.result.Rects)}, nil
}

type partsCropArgs struct {
	pathArgs
	Index   *int    `json:"index"`
	Padding int     `json:"padding"`
	Scale   float64 `json:"scale"`
}

func (s *Server) handlePartsCrop(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a partsCropArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if err := a.validate(); err != nil {
		return nil, err
	}
	if a.Scale == 0 {
		a.Scale = 1.0
	}
	if a.Padding < 0 {
		return nil, invalidArgs("padding must be >= 0, got %d", a.Padding)
	}
	d, err := s.detect(ctx, a.Path, false)
	if err != nil {
		return nil, err
	}

	rects := d.result.Rects
	if a.Index == nil {
		return imaging.CropParts(d.img, rects, a.Padding, a.Scale)
	}
	if *a.Index < 0 || *a.Index >= len(rects) {
		return nil, invalidArgs("part index %d out of range [0, %d)", *a.Index, len(rects))
	}
	part, err := imaging.CropPart(d.img, rects[*a.Index], a.Padding, a.Scale)
	if err != nil {
		return nil, err
	}
	return imaging.EncodePNG(part)
}

type partsInsetArgs struct {
	pathArgs
	Inset *int `json:"inset"`
}

func (a partsInsetArgs) inset() int {
	if a.Inset == nil {
		return defaultInset
	}
	return max(*a.Inset, 0)
}

func (s *Server) handlePartsColors(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a partsInsetArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if err := a.validate(); err != nil {
		return nil, err
	}
	d, err := s.detect(ctx, a.Path, false)
	if err != nil {
		return nil, err
	}
	return imaging.PartColors(d.img, d.result.Rects, a.inset())
}

type partsAreaChartArgs struct {
	pathArgs
	OutputPath string `json:"output_path"`
}

func (s *Server) handlePartsAreaChart(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a partsAreaChartArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if err := a.validate(); err != nil {
		return nil, err
	}
	d, err := s.detect(ctx, a.Path, false)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	err = report.AreaChart(report.AreaChartInput{
		Title:    filepath.Base(a.Path),
		Accepted: d.result.Accepted,
		MeanArea: d.result.MeanArea,
		Factor:   s.detector.Params().OutlierFactor,
	}, &buf)
	if err != nil {
		return nil, fmt.Errorf("failed to render chart: %w", err)
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(buf.Bytes()))
	if err != nil {
		return nil, fmt.Errorf("failed to read chart: %w", err)
	}
	if a.OutputPath != "" {
		if err := os.WriteFile(a.OutputPath, buf.Bytes(), 0o644); err != nil {
			return nil, fmt.Errorf("failed to write chart: %w", err)
		}
		return &SavedFileResult{OutputPath: a.OutputPath, Width: cfg.Width, Height: cfg.Height, Count: len(d.result.Accepted)}, nil
	}
	return &imaging.EncodedImage{
		Width:       cfg.Width,
		Height:      cfg.Height,
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:    "image/png",
	}, nil
}

// === OCR Handlers ===

type partsReadLabelsArgs struct {
	partsInsetArgs
	Language  string `json:"language"`
	Whitelist string `json:"whitelist"`
}

func (s *Server) handlePartsReadLabels(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a partsReadLabelsArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if err := a.validate(); err != nil {
		return nil, err
	}
	if a.Language == "" {
		a.Language = s.cfg.OCRLanguage
	}
	d, err := s.detect(ctx, a.Path, false)
	if err != nil {
		return nil, err
	}
	return ocr.ReadLabels(d.img, d.result.Rects, ocr.Options{
		Language:  a.Language,
		Inset:     a.inset(),
		Whitelist: a.Whitelist,
	})
}
