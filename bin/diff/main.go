package main

import (
	"boxdiff/internal/env"
	"boxdiff/internal/imageio"
	"boxdiff/internal/pipeline"
	"boxdiff/internal/storage"
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"
	"time"
)

func main() {
	if err := env.Load(); err != nil {
		log.Fatalf("Failed to load .env: %v", err)
	}

	var directory string
	var annotate bool
	var input pipeline.Input
	flag.StringVar(&directory, "directory", env.OrDefault("DIRECTORY", "/tmp"), "Output directory for the annotated image")
	flag.BoolVar(&annotate, "annotate", env.OrDefault("ANNOTATE", false), "Store the target image with every box outlined")
	input.BindFlags(flag.CommandLine)

	flag.Parse()

	args := flag.Args()
	if len(args) < 2 {
		log.Fatalf("baseline, target not specified")
	}

	ctx := context.Background()
	s, err := storage.NewFileStorage(ctx, storage.FileConfig{
		Directory: directory,
	})
	if err != nil {
		log.Fatalf("Failed to create storage backend: %v", err)
	}

	p := &pipeline.Pipeline{
		Loader:  &imageio.Loader{Client: imageio.NewHTTPClient(30 * time.Second), Storage: s},
		Storage: s,
	}

	input.Baseline = pipeline.Source{Ref: args[0]}
	input.Target = pipeline.Source{Ref: args[1]}
	input.Annotate = annotate

	result, err := p.Run(ctx, input)
	if err != nil {
		log.Fatalf("Failed to calculate diff: %v", err)
	}

	if err := json.NewEncoder(os.Stdout).Encode(result); err != nil {
		log.Fatalf("Failed to encode result: %v", err)
	}
}
