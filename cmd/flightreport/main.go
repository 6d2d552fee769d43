package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/bartonicek/sql-example-report/internal/config"
	"github.com/bartonicek/sql-example-report/internal/report"
)

func main() {
	// Command line flags override the config file and environment
	configPath := flag.String("config", "", "Path to YAML config file")
	flightsPath := flag.String("flights", "", "Path to flights CSV")
	airportsPath := flag.String("airports", "", "Path to airports CSV")
	outputDir := flag.String("out", "", "Output directory for artifacts")
	plotFile := flag.String("plot", "", "Plot file name, rendered under the output directory")
	pdfFile := flag.String("pdf", "", "PDF file name, rendered under the output directory")
	knots := flag.Int("knots", 0, "Number of regression knots")
	bandwidth := flag.Float64("bandwidth", 0, "Regression bandwidth in distance units")
	gridSize := flag.Int("grid", 0, "Prediction grid size")
	noPlot := flag.Bool("no-plot", false, "Skip plot rendering")
	flag.Parse()

	// .env is optional, used for local development
	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if *flightsPath != "" {
		cfg.FlightsPath = *flightsPath
	}
	if *airportsPath != "" {
		cfg.AirportsPath = *airportsPath
	}
	if *outputDir != "" {
		cfg.OutputDir = *outputDir
	}
	if *plotFile != "" {
		cfg.PlotFile = *plotFile
	}
	if *pdfFile != "" {
		cfg.PDFFile = *pdfFile
	}
	if *knots > 0 {
		cfg.Knots = *knots
	}
	if *bandwidth > 0 {
		cfg.Bandwidth = *bandwidth
	}
	if *gridSize > 0 {
		cfg.GridSize = *gridSize
	}
	if *noPlot {
		cfg.PlotFile = ""
	}

	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	rep := report.New(cfg)
	res, err := rep.Run(context.Background())
	if err != nil {
		log.Fatalf("Report failed: %v", err)
	}

	rep.WriteText(os.Stdout, res)

	var plotPath string
	if cfg.PlotFile != "" {
		if plotPath, err = rep.SavePlot(res); err != nil {
			log.Fatalf("Failed to render plot: %v", err)
		}
	}
	if cfg.PDFFile != "" {
		if _, err := rep.SavePDF(res, plotPath); err != nil {
			log.Fatalf("Failed to render PDF: %v", err)
		}
	}
}
