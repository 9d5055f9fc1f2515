// Command collect fetches recent posts from a monitored account and writes
// them as a raw batch file for the processor to pick up.
//
// Usage:
//
//	go run ./cmd/collect -username disasteralerts -max 100 -out 2024-03-01.json
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/couchcryptid/incident-feed-etl/internal/adapter/jsonstore"
	"github.com/couchcryptid/incident-feed-etl/internal/adapter/twitter"
	"github.com/couchcryptid/incident-feed-etl/internal/config"
	"github.com/couchcryptid/incident-feed-etl/internal/domain"
	"github.com/couchcryptid/incident-feed-etl/internal/observability"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	username := flag.String("username", "", "account to collect posts from")
	maxPosts := flag.Int("max", 100, "maximum number of posts to fetch")
	out := flag.String("out", "", "output file name; defaults to today's date")
	flag.Parse()

	if *username == "" {
		flag.Usage()
		return fmt.Errorf("missing required flag: -username")
	}

	cfg, err := config.LoadCollector()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := observability.NewLogger(cfg)
	client := twitter.NewClient(cfg.TwitterBearerToken, cfg.TwitterTimeout, logger)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.TwitterTimeout)
	defer cancel()

	// A fetch failure still produces a batch file so downstream tooling sees
	// an explicit empty run rather than a missing one.
	posts, err := client.FetchPostsByUsername(ctx, *username, *maxPosts)
	if err != nil {
		logger.Error("fetch failed, writing empty batch", "username", *username, "error", err)
		posts = []domain.RawPost{}
	}

	name := *out
	if name == "" {
		name = time.Now().UTC().Format("2006-01-02") + ".json"
	}

	store := jsonstore.New(cfg.RawDataDir, cfg.ProcessedDataDir)
	if err := store.WriteRawPosts(name, posts); err != nil {
		return fmt.Errorf("writing batch: %w", err)
	}

	logger.Info("batch collected", "file", name, "posts", len(posts))
	return nil
}
