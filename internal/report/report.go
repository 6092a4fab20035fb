// Package report serialises detection results: the JSON rectangle export and
// the part area chart.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/ironsheep/part-finder/internal/detection"
)

// Report is the JSON document written for one image.
//
// Rects holds [x, y, width, height] quadruples in detection order.
type Report struct {
	ID       uuid.UUID `json:"id"`
	Filename string    `json:"filename"`
	Rects    [][4]int  `json:"rects"`
	Count    int       `json:"count"`
}

// New builds a report for filename with a fresh ID.
func New(filename string, rects []detection.Rect) *Report {
	out := make([][4]int, len(rects))
	for i, r := range rects {
		out[i] = r.Slice()
	}
	return &Report{
		ID:       uuid.New(),
		Filename: filename,
		Rects:    out,
		Count:    len(rects),
	}
}

// Parts converts the stored quadruples back to rectangles.
func (r *Report) Parts() []detection.Rect {
	out := make([]detection.Rect, len(r.Rects))
	for i, q := range r.Rects {
		out[i] = detection.Rect{X: q[0], Y: q[1], Width: q[2], Height: q[3]}
	}
	return out
}

// Encode writes r as JSON indented by four spaces.
func (r *Report) Encode(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	return enc.Encode(r)
}

// WriteFile writes r to path, replacing any existing file.
func (r *Report) WriteFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report: %w", err)
	}
	if err := r.Encode(f); err != nil {
		f.Close()
		return fmt.Errorf("failed to write report: %w", err)
	}
	return f.Close()
}

// Read decodes a report previously written with Encode.
func Read(rd io.Reader) (*Report, error) {
	var r Report
	if err := json.NewDecoder(rd).Decode(&r); err != nil {
		return nil, fmt.Errorf("failed to decode report: %w", err)
	}
	if r.Count != len(r.Rects) {
		return nil, fmt.Errorf("report count %d does not match %d rects", r.Count, len(r.Rects))
	}
	return &r, nil
}

// Paths are the output files derived from an input image name.
type Paths struct {
	JSON  string // <base>.json
	Image string // annotated copy
	Chart string // <base>.areas.png
}

// OutputPaths derives output file names for filename.
//
// With an empty outdir, JSON and chart files sit next to the input and the
// annotated image replaces the input file. With an outdir, all three go
// there and the annotated image keeps the input's base name and extension.
func OutputPaths(filename, outdir string) Paths {
	ext := filepath.Ext(filename)
	if outdir == "" {
		root := strings.TrimSuffix(filename, ext)
		return Paths{
			JSON:  root + ".json",
			Image: filename,
			Chart: root + ".areas.png",
		}
	}

	base := filepath.Base(filename)
	stem := strings.TrimSuffix(base, ext)
	return Paths{
		JSON:  filepath.Join(outdir, stem+".json"),
		Image: filepath.Join(outdir, base),
		Chart: filepath.Join(outdir, stem+".areas.png"),
	}
}
