package main

import (
	"flag"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/menta2k/task-classifier/internal/logging"
	"github.com/menta2k/task-classifier/internal/utils"
	"github.com/menta2k/task-classifier/pkg/annotate"
	"github.com/menta2k/task-classifier/pkg/imageio"
	"github.com/menta2k/task-classifier/pkg/types"
)

func main() {
	var in, out, detectionsPath, fontPath, ext string
	var fontSize float64
	var quality int
	var lossless bool

	flag.StringVar(&in, "in", "", "input image path (jpg/png/webp)")
	flag.StringVar(&out, "out", "", "output image path")
	flag.StringVar(&detectionsPath, "detections", "", "detection output JSON with scores, boxes, labels")
	flag.StringVar(&fontPath, "font", "arial.ttf", "TrueType font for captions")
	flag.Float64Var(&fontSize, "fontsize", 16, "caption font size")
	flag.StringVar(&ext, "ext", "", "output format: jpg|png|webp (default: from -out extension)")
	flag.IntVar(&quality, "quality", 92, "JPEG/WebP output quality (1-100)")
	flag.BoolVar(&lossless, "lossless", false, "WebP lossless mode")
	flag.Parse()

	if in == "" || out == "" || detectionsPath == "" {
		log.Fatalf("usage: %s -in input.jpg -detections detections.json -out output.png [-font arial.ttf]",
			filepath.Base(os.Args[0]))
	}

	logger, err := logging.New(nil)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Close()

	var det types.Detection
	if err := utils.ReadJSON(detectionsPath, &det); err != nil {
		logger.Error("%v", err)
		os.Exit(1)
	}

	img, err := imageio.Load(in)
	if err != nil {
		logger.Error("Failed to load image: %v", err)
		os.Exit(1)
	}

	opts := annotate.DefaultOptions()
	opts.FontPath = fontPath
	opts.FontSize = fontSize

	annotated := annotate.Draw(logger, img, det, opts)

	format := ext
	if format == "" {
		format = strings.TrimPrefix(strings.ToLower(filepath.Ext(out)), ".")
	}
	if format == "" {
		format = "png"
	}

	if err := imageio.Save(annotated, out, format, quality, lossless); err != nil {
		logger.Error("Failed to save image: %v", err)
		os.Exit(1)
	}

	logger.Info("Annotated image saved to %s", out)
}
