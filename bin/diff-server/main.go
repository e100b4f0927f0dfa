package main

import (
	"boxdiff/internal/env"
	"boxdiff/internal/imageio"
	"boxdiff/internal/pipeline"
	"boxdiff/internal/runnable"
	"boxdiff/internal/storage"
	"context"
	"flag"
	"log"
	"time"
)

func main() {
	if err := env.Load(); err != nil {
		log.Fatalf("Failed to load .env: %v", err)
	}

	var storageBackend string
	var fetchTimeout time.Duration
	flag.StringVar(&storageBackend, "storage-backend", env.OrDefault("STORAGE_BACKEND", "file"), "Where annotated and resized images are stored (file or s3)")
	flag.DurationVar(&fetchTimeout, "fetch-timeout", env.OrDefault("FETCH_TIMEOUT", 30*time.Second), "Timeout for fetching remote images")
	flag.BoolVar(&runnable.Debug, "debug", env.OrDefault("DEBUG", false), "Mount pprof routes and log as text")
	flag.Parse()

	ctx := context.Background()

	s, err := storage.New(ctx, storageBackend)
	if err != nil {
		log.Fatalf("Failed to create storage backend: %v", err)
	}

	p := &pipeline.Pipeline{
		Loader:  &imageio.Loader{Client: imageio.NewHTTPClient(fetchTimeout), Storage: s},
		Storage: s,
	}

	server := runnable.NewServer(p, runnable.WithDefaultAddress("0.0.0.0:8383"))
	if err := server.Start(ctx); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
