// Package config loads part-finder settings from JSON.
package config

import (
	"encoding/json"
	"os"

	"github.com/ironsheep/part-finder/internal/detection"
)

// Config holds runtime configuration for detection and tool behavior.
// Fields may be loaded from a JSON file and overridden by command-line flags.
type Config struct {
	Debug bool `json:"debug"`

	// Backend names the vision primitives: "native" or "opencv".
	Backend string `json:"backend"`

	// Detection parameters
	BlurKernel    int     `json:"blur_kernel"`
	ThresholdStep int     `json:"threshold_step"`
	ThresholdMax  int     `json:"threshold_max"`
	CannyLow      float64 `json:"canny_low"`
	CannyHigh     float64 `json:"canny_high"`
	CannyAperture int     `json:"canny_aperture"`
	MinArea       float64 `json:"min_area"`
	MaxArea       float64 `json:"max_area"`
	MaxCosine     float64 `json:"max_cosine"`
	MaxOverlap    float64 `json:"max_overlap"`
	OutlierFactor float64 `json:"outlier_factor"`
	Channels      []int   `json:"channels,omitempty"`
	Workers       int     `json:"workers"`
	LegacyOverlap bool    `json:"legacy_overlap"`

	// Output
	OutlineThickness int    `json:"outline_thickness"`
	OutlineColor     string `json:"outline_color"`
	OCRLanguage      string `json:"ocr_language"`
}

// DefaultConfig returns a Config populated with standard defaults.
func DefaultConfig() *Config {
	p := detection.DefaultParams()
	return &Config{
		Debug:            false,
		Backend:          "native",
		BlurKernel:       p.BlurKernel,
		ThresholdStep:    p.ThresholdStep,
		ThresholdMax:     p.ThresholdMax,
		CannyLow:         p.CannyLow,
		CannyHigh:        p.CannyHigh,
		CannyAperture:    p.CannyAperture,
		MinArea:          p.MinArea,
		MaxArea:          p.MaxArea,
		MaxCosine:        p.MaxCosine,
		MaxOverlap:       p.MaxOverlap,
		OutlierFactor:    p.OutlierFactor,
		Workers:          p.Workers,
		LegacyOverlap:    false,
		OutlineThickness: 4,
		OutlineColor:     "#0000FF",
		OCRLanguage:      "eng",
	}
}

// Validate clamps/normalizes values to safe ranges.
func (c *Config) Validate() error {
	d := DefaultConfig()
	if c.Backend == "" {
		c.Backend = d.Backend
	}
	if c.BlurKernel < 1 || c.BlurKernel%2 == 0 {
		c.BlurKernel = d.BlurKernel
	}
	if c.ThresholdStep <= 0 {
		c.ThresholdStep = d.ThresholdStep
	}
	if c.ThresholdMax < 0 || c.ThresholdMax > 255 {
		c.ThresholdMax = d.ThresholdMax
	}
	if c.CannyLow < 0 {
		c.CannyLow = d.CannyLow
	}
	if c.CannyHigh < c.CannyLow {
		c.CannyHigh = c.CannyLow + d.CannyHigh
	}
	if c.CannyAperture != 3 && c.CannyAperture != 5 && c.CannyAperture != 7 {
		c.CannyAperture = d.CannyAperture
	}
	if c.MinArea < 0 {
		c.MinArea = d.MinArea
	}
	if c.MaxArea <= c.MinArea {
		c.MaxArea = max(d.MaxArea, c.MinArea*40)
	}
	if c.MaxCosine <= 0 || c.MaxCosine > 1 {
		c.MaxCosine = d.MaxCosine
	}
	if c.MaxOverlap < 0 || c.MaxOverlap > 1 {
		c.MaxOverlap = d.MaxOverlap
	}
	if c.OutlierFactor <= 0 {
		c.OutlierFactor = d.OutlierFactor
	}
	if c.Workers < 1 {
		c.Workers = 1
	}
	if c.OutlineThickness < 1 {
		c.OutlineThickness = d.OutlineThickness
	}
	if c.OutlineColor == "" {
		c.OutlineColor = d.OutlineColor
	}
	if c.OCRLanguage == "" {
		c.OCRLanguage = d.OCRLanguage
	}
	return c.Params().Validate()
}

// Params converts the detection fields to detection.Params.
func (c *Config) Params() detection.Params {
	var channels []int
	if len(c.Channels) > 0 {
		channels = append(channels, c.Channels...)
	}
	return detection.Params{
		BlurKernel:    c.BlurKernel,
		ThresholdStep: c.ThresholdStep,
		ThresholdMax:  c.ThresholdMax,
		CannyLow:      c.CannyLow,
		CannyHigh:     c.CannyHigh,
		CannyAperture: c.CannyAperture,
		MinArea:       c.MinArea,
		MaxArea:       c.MaxArea,
		MaxCosine:     c.MaxCosine,
		MaxOverlap:    c.MaxOverlap,
		OutlierFactor: c.OutlierFactor,
		Channels:      channels,
		Workers:       c.Workers,
		LegacyOverlap: c.LegacyOverlap,
	}
}

// Load attempts to read configuration from the given JSON file path. If the file does not
// exist it returns DefaultConfig(). On JSON error it returns defaults with the error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}
	defer f.Close()
	dec := json.NewDecoder(f)
	if err := dec.Decode(cfg); err != nil {
		return DefaultConfig(), err
	}
	if err := cfg.Validate(); err != nil {
		return DefaultConfig(), err
	}
	return cfg, nil
}

// Save writes the configuration to the given path in JSON format. An
// invalid configuration is rejected before the file is touched.
func (c *Config) Save(path string) error {
	if err := c.Validate(); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(c)
}
