package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/ironsheep/part-finder/internal/config"
	"github.com/ironsheep/part-finder/internal/detection"
	"github.com/ironsheep/part-finder/internal/imaging"
	"github.com/ironsheep/part-finder/internal/report"
	"github.com/ironsheep/part-finder/internal/vision"
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: findparts [-o outdir] [-j] [-s] [-c config.json] [-workers n] [-chart] [-v] filename\n")
		fmt.Fprintf(os.Stderr, "Finds square and rectangular parts in a photograph.\n")
		fmt.Fprintf(os.Stderr, "Outputs are written next to the input unless -o is given. Note\n")
		fmt.Fprintf(os.Stderr, "that -s without -o overwrites the input image.\n\n")
		flag.PrintDefaults()
	}
	outdir := flag.String("o", "", "Directory to save output to")
	saveJSON := flag.Bool("j", false, "Save bounding rects to JSON")
	saveImage := flag.Bool("s", false, "Save the image with parts outlined")
	cfgPath := flag.String("c", "", "JSON config file with detection settings")
	workers := flag.Int("workers", 0, "Threshold passes to run in parallel (0 uses the config value)")
	backend := flag.String("backend", "", fmt.Sprintf("Vision backend, one of %v (default from config)", vision.Backends()))
	chart := flag.Bool("chart", false, "Save a chart of part areas with the outlier cutoff")
	verbose := flag.Bool("v", false, "Log per-scan statistics to stderr")
	flag.Parse()
	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}
	fn := flag.Arg(0)

	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatalf("Failed to load config %s: %v", *cfgPath, err)
	}
	if *workers > 0 {
		cfg.Workers = *workers
	}
	if *backend != "" {
		cfg.Backend = *backend
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	var logger *slog.Logger
	if *verbose || cfg.Debug {
		logger = slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}

	prims, err := vision.New(cfg.Backend)
	if err != nil {
		log.Fatal(err)
	}
	det, err := detection.New(prims, cfg.Params(), logger)
	if err != nil {
		log.Fatal(err)
	}

	img, err := imaging.NewImageCache().Load(fn)
	if err != nil {
		log.Printf("Cannot read image: %v", err)
		os.Exit(1)
	}

	res, err := det.Detect(context.Background(), img)
	if err != nil {
		log.Fatalf("Detection failed: %v", err)
	}

	paths := report.OutputPaths(fn, *outdir)
	if *outdir != "" && (*saveJSON || *saveImage || *chart) {
		if err := os.MkdirAll(*outdir, 0o755); err != nil {
			log.Fatalf("Failed to create %s: %v", *outdir, err)
		}
	}

	if *saveJSON {
		fmt.Println("writing to " + paths.JSON)
		if err := report.New(fn, res.Rects).WriteFile(paths.JSON); err != nil {
			log.Fatal(err)
		}
	}

	if *saveImage {
		opts := imaging.DefaultAnnotateOptions()
		opts.Thickness = cfg.OutlineThickness
		opts.Color = cfg.OutlineColor
		out, err := imaging.Annotate(img, res.Rects, opts)
		if err != nil {
			log.Fatal(err)
		}
		if err := imaging.Save(out, paths.Image); err != nil {
			log.Fatal(err)
		}
	}

	if *chart {
		if err := writeChart(paths.Chart, filepath.Base(fn), res, cfg.OutlierFactor); err != nil {
			log.Printf("Skipping area chart: %v", err)
		}
	}
}

func writeChart(path, title string, res *detection.Result, factor float64) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	err = report.AreaChart(report.AreaChartInput{
		Title:    title,
		Accepted: res.Accepted,
		MeanArea: res.MeanArea,
		Factor:   factor,
	}, f)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(path)
	}
	return err
}
