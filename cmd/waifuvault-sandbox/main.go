package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	gfshutdown "github.com/gelmium/graceful-shutdown"

	"github.com/waifuvault/waifuvault_sdk_go/internal/devseed"
	"github.com/waifuvault/waifuvault_sdk_go/internal/logging"
	"github.com/waifuvault/waifuvault_sdk_go/internal/sandbox"
	"github.com/waifuvault/waifuvault_sdk_go/pkg/vault/mock"
)

const (
	shutdownTimeout = 10 * time.Second
	vaultURLEnv     = "WAIFUVAULT_API_URL"
)

func main() {
	addr := flag.String("addr", ":8788", "listen address")
	seed := flag.String("seed", "", "path to JSON seed of files to preload")
	publicURL := flag.String("public-url", "", "base URL used in file and album links (default derived from -addr)")
	latency := flag.Duration("latency", 0, "artificial latency to inject per request")
	fail := flag.String("fail", "", "failure injection (rate=<float>,code=<httpStatus>)")
	allowFetch := flag.Bool("allow-fetch", false, "let URL uploads download the remote file")
	logLevel := flag.String("log", "info", "log level (debug, info, warn, error)")
	flag.Parse()

	level, err := logging.ParseLevel(*logLevel)
	if err != nil {
		log.Fatalf("parse log level: %v", err)
	}
	logger := logging.NewText(os.Stderr, level)

	failCfg, err := sandbox.ParseFailConfig(*fail)
	if err != nil {
		log.Fatalf("parse fail flag: %v", err)
	}

	host := *addr
	if strings.HasPrefix(host, ":") {
		host = "localhost" + host
	}
	base := *publicURL
	if base == "" {
		base = "http://" + host
	}

	opts := []mock.Option{mock.WithBaseURL(base)}
	if *allowFetch {
		opts = append(opts, mock.WithFetcher(sandbox.HTTPFetcher(&http.Client{Timeout: time.Minute})))
	}
	store := mock.New(opts...)
	if *seed != "" {
		entries, err := devseed.LoadFileSeed(*seed)
		if err != nil {
			log.Fatalf("load seed: %v", err)
		}
		if err := store.Seed(entries); err != nil {
			log.Fatalf("apply seed: %v", err)
		}
	}

	srv := sandbox.New(store, sandbox.Config{
		Latency: *latency,
		Fail:    failCfg,
		Logger:  logger,
	})
	server := &http.Server{
		Addr:              *addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server failed: %v", err)
		}
	}()

	logger.Info(context.Background(), "waifuvault-sandbox listening", "addr", *addr, "public_url", base, "level", level.String())
	fmt.Println()
	fmt.Println("export WAIFUVAULT_RUNTIME_MODE=http")
	fmt.Printf("export %s=%s\n", vaultURLEnv, base)
	fmt.Println()

	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		shutdownTimeout,
		map[string]gfshutdown.Operation{
			"http-server": func(ctx context.Context) error {
				logger.Info(ctx, "shutting down sandbox")
				return server.Shutdown(ctx)
			},
		},
	)
	exitCode := <-wait
	os.Exit(exitCode)
}
