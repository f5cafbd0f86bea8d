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

// Seeder loads a small sample corpus into a fragment database, useful
// for trying out search, linking, and statistics locally.
package main

import (
	"bufio"
	"context"
	"flag"
	"iter"
	"log/slog"
	"os"

	"github.com/poiesic/marginalia"
	"github.com/poiesic/marginalia/core"
)

func tech(name string) core.Concept {
	return core.Concept{Name: name, Category: core.CategoryTechnology, Confidence: 0.9}
}

func theory(name string) core.Concept {
	return core.Concept{Name: name, Category: core.CategoryTheory, Confidence: 0.85}
}

func person(name string) core.Concept {
	return core.Concept{Name: name, Category: core.CategoryPerson, Confidence: 0.9}
}

var sampleFragments = []*core.Fragment{
	{
		Title:    "Goroutine scheduling",
		Text:     "Goroutines are multiplexed onto a small number of operating system threads by the runtime scheduler, which parks and resumes them around blocking operations.",
		Tags:     []string{"golang", "runtime"},
		Topics:   []string{"concurrency"},
		Concepts: []core.Concept{tech("Go"), tech("Goroutines")},
	},
	{
		Title:    "Channel semantics",
		Text:     "Unbuffered channels synchronize sender and receiver; buffered channels decouple them until the buffer fills. Closing a channel broadcasts completion to all receivers.",
		Tags:     []string{"golang"},
		Topics:   []string{"concurrency"},
		Concepts: []core.Concept{tech("Go"), tech("Channels")},
	},
	{
		Title:    "CSP origins",
		Text:     "Communicating Sequential Processes models concurrent systems as independent processes exchanging messages, a foundation Hoare laid out in 1978 that shaped channel-based languages.",
		Topics:   []string{"concurrency", "history"},
		Concepts: []core.Concept{theory("CSP"), person("Tony Hoare"), tech("Channels")},
	},
	{
		Title:    "Raft overview",
		Text:     "Raft elects a single leader per term and replicates a log to followers; entries commit once a majority acknowledges them, keeping the state machine consistent across crashes.",
		Tags:     []string{"distributed"},
		Topics:   []string{"consensus"},
		Concepts: []core.Concept{tech("Raft"), theory("Consensus")},
	},
	{
		Title:    "Paxos made difficult",
		Text:     "Paxos reaches agreement among unreliable processes through proposal numbers and quorums. Its safety argument is elegant; building a practical system around it is not.",
		Tags:     []string{"distributed"},
		Topics:   []string{"consensus"},
		Concepts: []core.Concept{tech("Paxos"), theory("Consensus"), person("Leslie Lamport")},
	},
	{
		Title:    "LSM trees",
		Text:     "Log-structured merge trees absorb writes in a memtable and flush sorted runs to disk, trading read amplification for sequential write throughput. Compaction keeps the run count bounded.",
		Tags:     []string{"storage"},
		Topics:   []string{"databases"},
		Concepts: []core.Concept{tech("LSM Tree"), tech("BadgerDB")},
	},
	{
		Title:    "Write-ahead logging",
		Text:     "A write-ahead log makes mutations durable before they touch the main structures, so recovery replays the log to rebuild state after a crash.",
		Tags:     []string{"storage"},
		Topics:   []string{"databases"},
		Concepts: []core.Concept{tech("Write-Ahead Log"), theory("Durability")},
	},
	{
		Title:  "Sourdough starter",
		Text:   "A sourdough starter is a stable culture of wild yeast and lactic acid bacteria. Feed it daily at room temperature; the sour aroma deepens as the bacteria outcompete the yeast.",
		Tags:   []string{"baking"},
		Topics: []string{"cooking"},
	},
	{
		Title:  "Autolyse",
		Text:   "Resting flour and water before adding salt lets gluten develop on its own, shortening kneading time and improving extensibility of the final dough.",
		Tags:   []string{"baking"},
		Topics: []string{"cooking"},
	},
	{
		Title:    "TF-IDF intuition",
		Text:     "Term frequency rewards words that recur in a document; inverse document frequency discounts words common across the corpus. Their product surfaces the terms that characterize a document.",
		Topics:   []string{"information retrieval"},
		Concepts: []core.Concept{theory("TF-IDF"), theory("Information Retrieval")},
	},
	{
		Title:    "Cosine similarity",
		Text:     "Cosine similarity compares document vectors by angle rather than magnitude, so a long document and a short one about the same subject still score close together.",
		Topics:   []string{"information retrieval"},
		Concepts: []core.Concept{theory("Cosine Similarity"), theory("Information Retrieval")},
	},
}

var (
	dbPath       = flag.String("db", "", "path to BadgerDB database directory")
	seedFileName = flag.String("src", "", "optional file of seed lines, one fragment per line")
)

func init() {
	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	slog.SetDefault(slog.New(handler))
	flag.Parse()
}

// linesFromFile returns an iterator over lines in a file.
func linesFromFile(filename string) (iter.Seq[string], error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}

	return func(yield func(string) bool) {
		defer f.Close()
		scanner := bufio.NewScanner(f)
		for scanner.Scan() {
			if !yield(scanner.Text()) {
				return
			}
		}
	}, nil
}

func main() {
	if *dbPath == "" {
		slog.Error("db path is required")
		os.Exit(1)
	}

	engine, err := marginalia.NewEngine(*dbPath)
	if err != nil {
		slog.Error("error opening engine", "err", err)
		os.Exit(1)
	}
	defer engine.Close()

	ctx := context.Background()

	fragments := sampleFragments
	if *seedFileName != "" {
		lines, err := linesFromFile(*seedFileName)
		if err != nil {
			slog.Error("error opening seed file", "file", *seedFileName, "err", err)
			os.Exit(1)
		}
		fragments = nil
		for line := range lines {
			if line == "" {
				continue
			}
			fragments = append(fragments, &core.Fragment{Text: line})
		}
	}

	added, err := engine.CaptureFragments(ctx, fragments...)
	if err != nil {
		slog.Error("error capturing fragments", "err", err)
		os.Exit(1)
	}
	slog.Info("seeded fragments", "count", len(added))
}
