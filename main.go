package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"soundmark/blob"
	"soundmark/bus"
	"soundmark/config"
	"soundmark/core"
	"soundmark/db"
	"soundmark/httpapi"
	"soundmark/logging"
	"soundmark/metrics"
	"soundmark/utils"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	_ = godotenv.Load()
	cfg := config.Load()

	switch os.Args[1] {
	case "index":
		indexCmd := flag.NewFlagSet("index", flag.ExitOnError)
		title := indexCmd.String("title", "", "song title")
		indexCmd.Parse(os.Args[2:])
		if indexCmd.NArg() < 1 || *title == "" {
			fmt.Println("usage: soundmark index -title <title> <path_to_audio_file>")
			os.Exit(1)
		}
		runIndex(cfg, indexCmd.Arg(0), *title)

	case "query":
		if len(os.Args) < 3 {
			fmt.Println("usage: soundmark query <path_to_audio_file>")
			os.Exit(1)
		}
		runQuery(cfg, os.Args[2])

	case "spectrogram":
		if len(os.Args) < 4 {
			fmt.Println("usage: soundmark spectrogram <path_to_audio_file> <out.png>")
			os.Exit(1)
		}
		runSpectrogram(os.Args[2], os.Args[3])

	case "serve":
		serveCmd := flag.NewFlagSet("serve", flag.ExitOnError)
		addr := serveCmd.String("addr", cfg.HTTPAddr, "address to listen on")
		serveCmd.Parse(os.Args[2:])
		runServe(cfg, *addr)

	default:
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("usage: soundmark <command>")
	fmt.Println()
	fmt.Println("commands:")
	fmt.Println("  index -title <title> <audio_file>     fingerprint and store a song")
	fmt.Println("  query <audio_file>                    identify a snippet against the store")
	fmt.Println("  spectrogram <audio_file> <out.png>     dump a magnitude spectrogram as a PNG")
	fmt.Println("  serve [-addr :8080]                   start the HTTP API")
}

func mustInit(cfg config.Config) (*zap.Logger, *db.PostgresStore) {
	if err := logging.Initialize(cfg.LogLevel, cfg.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "logging init failed: %v\n", err)
		os.Exit(1)
	}
	store, err := db.NewPostgresStore(context.Background(), cfg.DSN())
	if err != nil {
		logging.L.Fatal("connecting to postgres", zap.Error(err))
	}
	return logging.L, store
}

// archivedPath returns where a successfully indexed source file is moved
// to, so reruns over the same input directory don't reprocess it.
func archivedPath(path string) string {
	return filepath.Join(filepath.Dir(path), "processed", filepath.Base(path))
}

func runIndex(cfg config.Config, path, title string) {
	log, store := mustInit(cfg)
	defer store.Close()
	defer logging.Close()

	data, err := os.ReadFile(path)
	if err != nil {
		log.Fatal("reading audio file", zap.Error(err))
	}

	ctx := context.Background()
	fps, err := core.FingerprintPipeline(ctx, data)
	if err != nil {
		log.Fatal("fingerprinting failed", zap.Error(err))
	}

	songID, err := store.InsertSong(ctx, title)
	if err != nil {
		log.Fatal("inserting song", zap.Error(err))
	}
	if err := store.InsertFingerprints(ctx, songID, fps); err != nil {
		log.Fatal("inserting fingerprints", zap.Error(err))
	}

	dest := archivedPath(path)
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		log.Warn("could not create processed directory, leaving source in place", zap.Error(err))
	} else if err := utils.RenameFile(path, dest); err != nil {
		log.Warn("could not archive indexed source file", zap.Error(err))
	}

	fmt.Printf("indexed %q as song %d (%d fingerprints)\n", title, songID, len(fps))
}

func runQuery(cfg config.Config, path string) {
	log, store := mustInit(cfg)
	defer store.Close()
	defer logging.Close()

	data, err := os.ReadFile(path)
	if err != nil {
		log.Fatal("reading audio file", zap.Error(err))
	}

	ctx := context.Background()
	fps, err := core.FingerprintPipeline(ctx, data)
	if err != nil {
		log.Fatal("fingerprinting failed", zap.Error(err))
	}
	if len(fps) == 0 {
		fmt.Println("no match: empty audio")
		return
	}

	matches, err := store.Lookup(ctx, fps)
	if err != nil {
		log.Fatal("lookup failed", zap.Error(err))
	}

	songID, err := core.Elect(matches)
	if err != nil {
		fmt.Println("no match found")
		return
	}

	title, err := store.GetSong(ctx, songID)
	if err != nil {
		log.Fatal("resolving song", zap.Error(err))
	}
	fmt.Printf("match: %q (song %d)\n", title, songID)
}

// runSpectrogram dumps the magnitude spectrogram of an audio file as a
// grayscale PNG, for visual debugging of the resample/frame/FFT stages.
func runSpectrogram(path, outPath string) {
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "reading audio file: %v\n", err)
		os.Exit(1)
	}

	magnitudes, err := core.Spectrogram(context.Background(), data)
	if err != nil {
		fmt.Fprintf(os.Stderr, "computing spectrogram: %v\n", err)
		os.Exit(1)
	}
	if err := core.SpectrogramToImage(magnitudes, outPath); err != nil {
		fmt.Fprintf(os.Stderr, "writing spectrogram image: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("wrote spectrogram (%d frames) to %s\n", len(magnitudes), outPath)
}

func runServe(cfg config.Config, addr string) {
	log, store := mustInit(cfg)
	defer store.Close()
	defer logging.Close()

	blobs, err := blob.NewS3Store(context.Background(), cfg.AWSRegion)
	if err != nil {
		log.Fatal("connecting to s3", zap.Error(err))
	}

	producer := bus.NewChannelProducer()
	worker := bus.NewWorker(cfg.S3Bucket, blobs, store, producer, log)
	worker.Start(context.Background())
	defer worker.Stop()

	metrics.Initialize()
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/", httpapi.NewServer(cfg.S3Bucket, blobs, store, worker, log))

	log.Info("listening", zap.String("addr", addr))
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}
