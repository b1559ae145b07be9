// Copyright 2025 The SlugSearch Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package main implements the slug search CLI application.

Note: This is a BETA release. APIs and functionality may rapidly change.

SlugSearch provides approximate-string search over the Grokipedia
article catalog. It loads every sitemap shard into an in-memory index
combining trigram candidate generation, a BK-tree over edit distance,
and tiered substring/fuzzy relevance scoring, then serves interactive
queries from stdin.

The catalog loads asynchronously at startup; the first query waits on
the load future if the index is not ready yet. Reloads swap the index
atomically, so a long-running session can pick up a refreshed catalog
without restarting.

# Usage

Run against the default catalog directory:

	slugsearch

Use a custom catalog directory and enable debug mode:

	slugsearch -catalog /path/to/links -d

Tighten the fuzzy threshold and raise the result limit:

	slugsearch -limit 20 -sim 0.8

Disable fuzzy matching entirely (exact and substring passes only):

	slugsearch -no-fuzzy

The catalog directory should contain sitemap shard directories named
sitemap-0, sitemap-1, etc., each holding a names.txt with one raw
article slug per line. Blank and undecodable lines are skipped.

# Configuration

Runtime configuration is managed through a TOML file that supports
search thresholds and catalog settings:

	[search]
	default_limit = 10
	min_similarity = 0.6
	min_trigram_overlap = 0.3
	max_candidates = 300
	max_edit_distance = 3

	[catalog]
	dir = "links/"
	pool_size = 0

The config file is automatically created with defaults if it doesn't
exist. Flags override config values for the session.

# Interactive Commands

Plain input runs a ranked search. Colon commands exercise the rest of
the index surface:

	:best <q>     print only the single best match
	:prefix <p>   list slugs by case-insensitive prefix
	:random <n>   sample n random slugs from the catalog
	:count        print the number of indexed slugs
	:reload       rebuild the index from disk and swap it in

# Search Pipeline

The core functionality is provided by the slugindex package. Exact
normalized matches rank first, then tiered substring matches, then
fuzzy candidates gathered from the trigram index and the BK-tree and
rescored on a 0-1 similarity scale.

	builder := slugindex.NewBuilder()
	builder.Add("Elon_Musk")
	ix := builder.Build(slugindex.Options{})
	results := ix.Search("elon musk", 10, true, 0)

# Command Line Flags

The following flags control application behavior:

	-catalog string
	    Directory containing sitemap shard directories (default from config)
	-d  Enable debug mode with detailed logging
	-limit int
	    Number of results to return (default from config)
	-sim float
	    Minimum similarity for fuzzy matches, 0-1 (default from config)
	-no-fuzzy
	    Disable the fuzzy pass (exact and substring matching only)
	-diag
	    Print literal vs fuzzy result breakdown per query
	-config string
	    Path to the TOML config file (default "slugsearch.toml")
	-version
	    Show current version
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/AppleLamps/grokipedia-sdk/internal/cli"
	"github.com/AppleLamps/grokipedia-sdk/internal/utils"
	"github.com/AppleLamps/grokipedia-sdk/pkg/catalog"
	"github.com/AppleLamps/grokipedia-sdk/pkg/config"
)

const (
	Version = "0.3.0-beta"
	AppName = "slugsearch"
	gh      = "https://github.com/AppleLamps/grokipedia-sdk"
)

// sigHandler is a simple handler for OS signals to exit normally.
func sigHandler() {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		fmt.Fprintf(os.Stderr, "\nExiting...\n")
		os.Exit(0)
	}()
}

// main wires config, catalog loading and the input loop together.
// main() does not implement logic for them and only manages the flow.
func main() {
	sigHandler()
	_ = config.DefaultConfig()

	// custom Flags
	showVersion := flag.Bool("version", false, "Show current version")
	catalogDir := flag.String("catalog", "", "Directory containing sitemap shard directories (overrides config)")
	debugMode := flag.Bool("d", false, "Toggle debug mode")
	limit := flag.Int("limit", 0, "Number of results to return (overrides config)")
	minSim := flag.Float64("sim", 0, "Minimum similarity for fuzzy matches, 0-1 (overrides config)")
	noFuzzy := flag.Bool("no-fuzzy", false, "Disable fuzzy matching (exact and substring only)")
	diagMode := flag.Bool("diag", false, "Print literal vs fuzzy result breakdown per query")
	configPath := flag.String("config", "slugsearch.toml", "Path to the TOML config file")

	flag.Parse()

	if *showVersion {
		logger := log.NewWithOptions(os.Stderr, log.Options{
			ReportCaller:    false,
			ReportTimestamp: false,
			Prefix:          "",
		})

		styles := log.DefaultStyles()

		styles.Values["version"] = lipgloss.NewStyle().Bold(true).
			Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
		styles.Values["version"] = lipgloss.NewStyle().
			Background(lipgloss.AdaptiveColor{Light: "#f2e9e1", Dark: "#26233a"})

		styles.Values["gh"] = lipgloss.NewStyle().Italic(true).
			Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})

		logger.SetStyles(styles)

		logger.Print("")
		logger.Print("[ SlugSearch ] Fast approximate search over the article catalog!")
		logger.Print("", "version", Version)
		logger.Print("")
		logger.Print("use -h or --help to see available options")
		logger.Print("Github Repo", "gh", gh)

		os.Exit(0)
	}

	if *debugMode {
		log.SetLevel(log.DebugLevel)
		log.SetReportTimestamp(true)
	} else {
		log.SetLevel(log.WarnLevel)
	}

	appConfig, err := config.InitConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
		os.Exit(1)
	}

	// Flags override config for the session.
	dir := appConfig.Catalog.Dir
	if *catalogDir != "" {
		dir = *catalogDir
	}
	if *limit > 0 {
		appConfig.Search.DefaultLimit = *limit
	}
	if *minSim > 0 {
		appConfig.Search.MinSimilarity = *minSim
	}

	resolvedDir := utils.GetAbsolutePath(dir)
	log.Debugf("Using catalog dir at: %s", resolvedDir)

	manager := catalog.NewManager(catalog.NewLoader(dir, appConfig))

	// Kick the load off in the background and block on the future so
	// the prompt never races an empty index.
	loadStart := time.Now()
	future := manager.LoadAsync()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	ix, err := future.Wait(ctx)
	cancel()
	if err != nil {
		log.Fatalf("Failed to load catalog: %v", err)
		os.Exit(1)
	}
	log.Debugf("Catalog loaded in %v", time.Since(loadStart))

	showStartupInfo(resolvedDir, ix.TotalCount())

	log.SetReportTimestamp(false)
	log.Debug("Query info:",
		"limit", appConfig.Search.DefaultLimit,
		"minSimilarity", appConfig.Search.MinSimilarity,
		"fuzzy", !*noFuzzy,
		"diag", *diagMode)

	handler := cli.NewQueryHandler(manager,
		appConfig.Search.DefaultLimit,
		appConfig.Search.MinSimilarity,
		!*noFuzzy, *diagMode)
	if err := handler.Start(); err != nil {
		log.Fatalf("CLI error: %v", err)
		os.Exit(1)
	}
}

// showStartupInfo displays some basic info about the init process.
func showStartupInfo(catalogDir string, slugCount int) {
	pid := os.Getpid()
	currentLevel := log.GetLevel()
	log.SetLevel(log.InfoLevel)

	println("============")
	println(" SlugSearch ")
	println("============")
	log.Infof("Version: %s", Version)
	log.Infof("Process ID: [ %d ]", pid)
	log.Info("init: OK")
	log.Infof("catalog dir: ( %s )", catalogDir)
	log.Infof("slugs indexed: [ %s ]", utils.FormatWithCommas(slugCount))
	log.Info("status: ready")
	println("============")
	println("Press Ctrl+C to exit")

	log.SetLevel(currentLevel)
}
