// Copyright 2026 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/poiesic/marginalia"
	"github.com/poiesic/marginalia/ai"
	"github.com/poiesic/marginalia/batch"
	"github.com/poiesic/marginalia/core"
	"github.com/poiesic/marginalia/link"
	"github.com/poiesic/marginalia/search"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "marginalia",
		Usage: "Relevance and linking engine for captured text fragments",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:      "capture",
				Usage:     "Capture a new fragment",
				ArgsUsage: "<text>",
				Action:    captureCommand,
				Flags: []cli.Flag{
					dbFlag(),
					&cli.StringFlag{
						Name:  "title",
						Usage: "Fragment title",
					},
					&cli.StringFlag{
						Name:  "note",
						Usage: "Personal note attached to the fragment",
					},
					&cli.StringSliceFlag{
						Name:  "tag",
						Usage: "Tag to attach (repeatable)",
					},
					&cli.StringSliceFlag{
						Name:  "topic",
						Usage: "Topic to attach (repeatable)",
					},
					&cli.StringFlag{
						Name:  "collection",
						Usage: "Collection the fragment belongs to",
					},
				},
			},
			{
				Name:      "search",
				Usage:     "Search fragments by relevance",
				ArgsUsage: "<query>",
				Action:    searchCommand,
				Flags: []cli.Flag{
					dbFlag(),
					&cli.StringFlag{
						Name:  "collection",
						Usage: "Restrict results to a collection",
					},
					&cli.StringSliceFlag{
						Name:  "tag",
						Usage: "Restrict results to fragments with a tag (repeatable)",
					},
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of results",
						Value: 10,
					},
				},
			},
			{
				Name:      "related",
				Usage:     "Find fragments related to a fragment",
				ArgsUsage: "<fragment-id>",
				Action:    relatedCommand,
				Flags: []cli.Flag{
					dbFlag(),
					&cli.IntFlag{
						Name:  "max-results",
						Usage: "Maximum number of links",
						Value: link.DefaultMaxResults,
					},
					&cli.Float64Flag{
						Name:  "min-similarity",
						Usage: "Similarity threshold for local matching",
						Value: link.DefaultMinSimilarity,
					},
					&cli.StringFlag{
						Name:  "ai-provider",
						Usage: "Semantic backend (none, local, openai, anthropic, gemini)",
						Value: "none",
					},
					&cli.StringFlag{
						Name:  "ai-host",
						Usage: "Base URL for OpenAI-compatible backends",
						Value: "http://localhost:11434/v1",
					},
					&cli.StringFlag{
						Name:  "ai-model",
						Usage: "Chat model for semantic linking",
						Value: "qwen2.5:3b",
					},
					&cli.StringFlag{
						Name:    "ai-key",
						Usage:   "API key for hosted backends",
						EnvVars: []string{"MARGINALIA_AI_KEY"},
					},
				},
			},
			{
				Name:   "link",
				Usage:  "Build related-fragment links for the whole corpus",
				Action: linkCommand,
				Flags: []cli.Flag{
					dbFlag(),
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Fragments per batch (also bounds concurrency)",
						Value: 10,
					},
				},
			},
			{
				Name:   "stats",
				Usage:  "Show corpus linkage statistics",
				Action: statsCommand,
				Flags: []cli.Flag{
					dbFlag(),
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func dbFlag() cli.Flag {
	return &cli.StringFlag{
		Name:     "db",
		Aliases:  []string{"d"},
		Usage:    "Path to BadgerDB database directory",
		Required: true,
	}
}

func captureCommand(c *cli.Context) error {
	text := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if text == "" {
		return fmt.Errorf("fragment text is required")
	}

	engine, err := marginalia.NewEngine(c.String("db"))
	if err != nil {
		return fmt.Errorf("failed to open engine: %w", err)
	}
	defer engine.Close()

	added, err := engine.CaptureFragments(context.Background(), &core.Fragment{
		Title:        c.String("title"),
		Text:         text,
		Note:         c.String("note"),
		Tags:         c.StringSlice("tag"),
		Topics:       c.StringSlice("topic"),
		CollectionId: c.String("collection"),
	})
	if err != nil {
		return fmt.Errorf("failed to capture fragment: %w", err)
	}

	fmt.Printf("Captured fragment %d\n", added[0].Id)
	return nil
}

func searchCommand(c *cli.Context) error {
	query := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if query == "" {
		return fmt.Errorf("search query is required")
	}

	engine, err := marginalia.NewEngine(c.String("db"))
	if err != nil {
		return fmt.Errorf("failed to open engine: %w", err)
	}
	defer engine.Close()

	results, err := engine.SearchFragments(context.Background(), query, search.Filters{
		CollectionId: c.String("collection"),
		Tags:         c.StringSlice("tag"),
	})
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	limit := c.Int("limit")
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}

	if len(results) == 0 {
		fmt.Println("No matching fragments.")
		return nil
	}
	for _, result := range results {
		fmt.Printf("[%d] %.1f  %s\n", result.Fragment.Id, result.Score, excerpt(result.Fragment))
	}
	return nil
}

func relatedCommand(c *cli.Context) error {
	sourceId, err := parseFragmentID(c.Args().First())
	if err != nil {
		return err
	}

	provider, err := ai.ParseProvider(c.String("ai-provider"))
	if err != nil {
		return fmt.Errorf("invalid ai-provider: %w", err)
	}

	var engineOpts []marginalia.EngineOption
	useAI := provider != ai.ProviderNone
	if useAI {
		engineOpts = append(engineOpts, marginalia.WithAIConfig(ai.NewConfig(
			ai.WithProvider(provider),
			ai.WithHost(c.String("ai-host")),
			ai.WithModel(c.String("ai-model")),
			ai.WithAPIKey(c.String("ai-key")),
		)))
	}

	engine, err := marginalia.NewEngine(c.String("db"), engineOpts...)
	if err != nil {
		return fmt.Errorf("failed to open engine: %w", err)
	}
	defer engine.Close()

	links, err := engine.FindRelatedFragments(context.Background(), sourceId, link.Options{
		MaxResults:    c.Int("max-results"),
		MinSimilarity: c.Float64("min-similarity"),
		UseAI:         useAI,
	})
	if err != nil {
		return fmt.Errorf("failed to find related fragments: %w", err)
	}

	if len(links) == 0 {
		fmt.Println("No related fragments found.")
		return nil
	}
	for _, lnk := range links {
		fmt.Printf("[%d] %.2f %-16s %s\n", lnk.FragmentId, lnk.Similarity, lnk.MatchType, lnk.Reason)
	}
	return nil
}

func linkCommand(c *cli.Context) error {
	engine, err := marginalia.NewEngine(c.String("db"))
	if err != nil {
		return fmt.Errorf("failed to open engine: %w", err)
	}
	defer engine.Close()

	// Stop cleanly on Ctrl-C, keeping links already built
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tracker := batch.NewProgressTracker(os.Stderr)
	defer tracker.Finish()

	if err := engine.BatchBuildLinks(ctx, c.Int("batch-size"), tracker.Update); err != nil {
		return fmt.Errorf("batch linking failed: %w", err)
	}
	return nil
}

func statsCommand(c *cli.Context) error {
	engine, err := marginalia.NewEngine(c.String("db"))
	if err != nil {
		return fmt.Errorf("failed to open engine: %w", err)
	}
	defer engine.Close()

	stats, err := engine.GraphStatistics(context.Background())
	if err != nil {
		return fmt.Errorf("failed to compute statistics: %w", err)
	}

	fmt.Printf("Fragments:        %d\n", stats.TotalFragments)
	fmt.Printf("Linked:           %d (%.1f%%)\n", stats.LinkedFragments, stats.LinkagePercentage)
	fmt.Printf("Links:            %d (%.2f per fragment)\n", stats.TotalLinks, stats.AvgLinksPerFragment)
	fmt.Printf("Concepts:         %d\n", stats.TotalConcepts)
	if len(stats.TopConcepts) > 0 {
		fmt.Println("Top concepts:")
		for _, concept := range stats.TopConcepts {
			fmt.Printf("  %-30s %d\n", concept.Name, concept.Count)
		}
	}
	return nil
}

func excerpt(fragment *core.Fragment) string {
	text := fragment.Text
	if fragment.Title != "" {
		text = fragment.Title + ": " + text
	}
	runes := []rune(text)
	if len(runes) > 80 {
		return string(runes[:80]) + "…"
	}
	return text
}

func parseFragmentID(arg string) (core.ID, error) {
	arg = strings.TrimSpace(arg)
	if arg == "" {
		return 0, fmt.Errorf("fragment id is required")
	}
	var id uint64
	if _, err := fmt.Sscanf(arg, "%d", &id); err != nil || id == 0 {
		return 0, fmt.Errorf("invalid fragment id %q", arg)
	}
	return core.ID(id), nil
}

func setupLogger(c *cli.Context) error {
	// Get log level from flag and normalize to lowercase
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
