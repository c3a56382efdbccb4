// Package main is the HomeHub terminal client: an interactive shell over
// the HTTP API.
package main

import (
	"cmp"
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/atinyakov/homehub/internal/client"
	"github.com/atinyakov/homehub/internal/logger"
	"go.uber.org/zap"
)

var (
	version   string
	buildDate string
)

// main parses command-line flags and starts the shell.
func main() {
	var (
		baseURL  string
		caFile   string
		insecure bool
		cacheTTL time.Duration
		timeout  time.Duration
		verbose  bool
		showVer  bool
	)

	flag.StringVar(&baseURL, "url", cmp.Or(os.Getenv("HOMEHUB_URL"), "http://localhost:5000"), "server base URL")
	flag.StringVar(&caFile, "ca", "", "path to CA cert for a self-signed server")
	flag.BoolVar(&insecure, "insecure", false, "skip TLS verification")
	flag.DurationVar(&cacheTTL, "cache-ttl", time.Minute, "how long list responses are reused (0 = until changed)")
	flag.DurationVar(&timeout, "timeout", 10*time.Second, "request timeout")
	flag.BoolVar(&verbose, "v", false, "log API errors")
	flag.BoolVar(&showVer, "version", false, "show build version and date")
	flag.Parse()

	if showVer {
		fmt.Printf("HomeHub Client\nVersion: %s\nBuild Date: %s\n", cmp.Or(version, "N/A"), cmp.Or(buildDate, "N/A"))
		return
	}

	log := logger.New()
	if verbose {
		if err := log.Init("debug"); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}
	defer func() { _ = log.Log.Sync() }()

	httpClient, err := client.NewHTTPClient(caFile, insecure, timeout)
	if err != nil {
		log.Log.Fatal("cannot build http client", zap.Error(err))
	}
	api := client.New(baseURL, httpClient, client.NewCache(cacheTTL), log.Log)

	ctx := context.Background()
	if err := api.Health(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "warning: %s is not reachable: %v\n", baseURL, err)
	}

	sh := newShell(api, os.Stdin, os.Stdout)
	sh.run(ctx)
}
