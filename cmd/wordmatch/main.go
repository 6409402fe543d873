// Copyright 2025 The WordMatch Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package main implements the wordmatch pattern search CLI and IPC server.

WordMatch loads a word list once, builds a positional index over it and then
answers patterns such as "c*t", "ca{tn}" or "b2:4" with every word they
match, in word list order.

# Usage

Search interactively, one pattern per whitespace separated token:

	wordmatch -words words.txt

	Enter a pattern: ca{tn}
	cat
	can
	Pattern = ca{tn}, Words matched = 2, Templates = 2, Search time = 0.000004100 secs

Type "quit" or send EOF to leave. Patterns can be piped in as well:

	echo "3 ab* {xyz}2:3" | wordmatch -words words.txt -limit 10

Run the msgpack IPC server on stdin/stdout instead:

	wordmatch -words words.txt -s

# Patterns

	*       any one letter
	{abc}   one of the listed letters (or '*')
	3       three wildcards, two digits read as a decimal count
	2:4     two, three or four wildcards, one branch each

Matches from different branches are merged in ascending word order. A word
reached through two branches is listed twice unless -dedupe is set.

# Word lists

-words accepts plain text (any extension), gzip (.gz), zstd (.zst) or lz4
(.lz4) compressed text, and directories of dict_NNNN.bin chunk files. Words
are whitespace separated and must be lowercase a-z; other tokens are skipped
with a warning. A missing list is reported and the program continues with an
empty one.

Any list can be converted into chunk files with -export:

	wordmatch -words words.txt.gz -export data/

# Configuration

Defaults are read from config.toml (or a YAML file given with -config):

	[query]
	dedupe = false
	max_templates = 4096
	max_pattern_length = 256
	cache_size = 256

	[server]
	rate_limit = 0.0
	burst = 32
	include_words = true

The file is created with defaults when it does not exist and -reset-config
rewrites it. Flags override it.

# Metrics

-metrics addr (or [metrics] enabled = true) serves Prometheus metrics at
http://addr/metrics: query outcomes, templates per query, matches per query,
latency and the number of indexed words.
*/
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bastiangx/wordmatch/internal/cli"
	"github.com/bastiangx/wordmatch/internal/utils"
	"github.com/bastiangx/wordmatch/pkg/config"
	"github.com/bastiangx/wordmatch/pkg/dictionary"
	"github.com/bastiangx/wordmatch/pkg/query"
	"github.com/bastiangx/wordmatch/pkg/server"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"
)

const (
	Version = "0.3.0"
	gh      = "https://github.com/bastiangx/wordmatch"
)

// sigHandler cancels ctx and exits normally on SIGINT or SIGTERM.
func sigHandler(cancel context.CancelFunc) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		fmt.Fprintf(os.Stderr, "\nExiting...\n")
		cancel()
		os.Exit(0)
	}()
}

// main wires the packages together and only manages the flow.
func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigHandler(cancel)

	showVersion := flag.Bool("version", false, "Show current version")
	wordsPath := flag.String("words", "words.txt", "Word list file (txt, gz, zst, lz4) or directory of dict_NNNN.bin chunks")
	configPath := flag.String("config", "", "Path to a TOML or YAML config file")
	debugMode := flag.Bool("d", false, "Toggle debug mode")
	serverMode := flag.Bool("s", false, "Run the msgpack IPC server on stdin/stdout")
	limit := flag.Int("limit", 0, "Maximum words printed per pattern (0 prints all)")
	dedupe := flag.Bool("dedupe", false, "List every matching word once")
	exportDir := flag.String("export", "", "Write the loaded word list as chunk files into this directory and exit")
	metricsAddr := flag.String("metrics", "", "Serve Prometheus metrics on this address")
	maxWords := flag.Int("max", 0, "Maximum number of words to load (0 for all)")
	resetConfig := flag.Bool("reset-config", false, "Rewrite the default config file with built-in defaults and exit")

	flag.Parse()

	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	if *debugMode {
		log.SetLevel(log.DebugLevel)
		log.SetReportTimestamp(true)
	} else {
		log.SetLevel(log.WarnLevel)
	}

	if *resetConfig {
		if err := config.RebuildConfigFile(); err != nil {
			log.Fatalf("Failed to rebuild config: %v", err)
		}
		fmt.Fprintf(os.Stderr, "Config reset: %s\n", config.GetActiveConfigPath(""))
		return
	}

	cfg, activeConfig, err := config.LoadConfigWithPriority(*configPath)
	if err != nil {
		log.Warnf("Failed to load config: %v. Using built-in defaults...", err)
		cfg = config.DefaultConfig()
	}
	log.Debugf("Using config: %s", config.GetActiveConfigPath(activeConfig))
	applyFlags(cfg, *limit, *dedupe, *metricsAddr, *maxWords)

	resolvedWords := *wordsPath
	if pathResolver, err := utils.NewPathResolver(); err != nil {
		log.Warnf("Failed to initialize path resolver: %v", err)
	} else {
		resolvedWords = pathResolver.GetWordsPath(*wordsPath)
	}

	start := time.Now()
	store, err := dictionary.Load(resolvedWords, dictionary.Options{
		MaxWords: cfg.Dict.MaxWords,
		Strict:   cfg.Dict.Strict,
	})
	if err != nil {
		if cfg.Dict.Strict && errors.Is(err, dictionary.ErrInvalidWord) {
			log.Fatalf("Failed to load word list: %v", err)
		}
		log.Warnf("Failed to load word list %s: %v. Running with an empty list...", resolvedWords, err)
		store, _ = dictionary.NewStore(nil)
	}

	if *exportDir != "" {
		if err := utils.EnsureDir(*exportDir); err != nil {
			log.Fatalf("Failed to create export dir: %v", err)
		}
		n, err := dictionary.WriteChunks(store, *exportDir, cfg.Dict.ChunkSize)
		if err != nil {
			log.Fatalf("Failed to export chunks: %v", err)
		}
		fmt.Fprintf(os.Stderr, "Wrote %s words in %d chunk files to %s\n",
			humanize.Comma(int64(store.Len())), n, *exportDir)
		return
	}

	opts := []query.Option{
		query.WithDedupe(cfg.Query.Dedupe),
		query.WithMaxTemplates(cfg.Query.MaxTemplates),
		query.WithMaxPatternLength(cfg.Query.MaxPatternLength),
		query.WithCacheSize(cfg.Query.CacheSize),
	}
	if cfg.Metrics.Enabled {
		metrics := query.NewMetrics()
		opts = append(opts, query.WithMetrics(metrics))
		go serveMetrics(cfg.Metrics.Addr, metrics)
	}
	engine := query.NewEngine(store, opts...)
	loadTime := time.Since(start)

	if *serverMode {
		showStartupInfo(resolvedWords, store.Len(), loadTime)
		srv := server.NewServer(engine, cfg.Server, os.Stdin, os.Stdout)
		if err := srv.Start(ctx); err != nil {
			log.Fatalf("Server error: %v", err)
		}
		return
	}

	fmt.Printf("Load time = %.9f secs (%s words)\n", loadTime.Seconds(), humanize.Comma(int64(store.Len())))
	inputHandler := cli.NewInputHandler(engine, os.Stdin, os.Stdout, cfg.CLI.DefaultLimit, cfg.CLI.QuitWord)
	if err := inputHandler.Start(); err != nil {
		log.Fatalf("CLI error: %v", err)
	}
}

// applyFlags lets explicitly set flags win over config values.
func applyFlags(cfg *config.Config, limit int, dedupe bool, metricsAddr string, maxWords int) {
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "limit":
			cfg.CLI.DefaultLimit = limit
		case "dedupe":
			cfg.Query.Dedupe = dedupe
		case "max":
			cfg.Dict.MaxWords = maxWords
		case "metrics":
			cfg.Metrics.Enabled = metricsAddr != ""
			cfg.Metrics.Addr = metricsAddr
		}
	})
}

func serveMetrics(addr string, metrics *query.Metrics) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	log.Debugf("Serving metrics on http://%s/metrics", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Errorf("Metrics server: %v", err)
	}
}

func printVersion() {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportCaller:    false,
		ReportTimestamp: false,
		Prefix:          "",
	})

	styles := log.DefaultStyles()
	styles.Values["version"] = lipgloss.NewStyle().Bold(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"}).
		Background(lipgloss.AdaptiveColor{Light: "#f2e9e1", Dark: "#26233a"})
	styles.Values["gh"] = lipgloss.NewStyle().Italic(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
	logger.SetStyles(styles)

	logger.Print("")
	logger.Print("[ WordMatch ] Finds every word a pattern fits!")
	logger.Print("", "version", Version)
	logger.Print("")
	logger.Print("use -h or --help to see available options")
	logger.Print("Github Repo", "gh", gh)
}

// showStartupInfo displays some basic info about the init process on stderr.
func showStartupInfo(wordsPath string, words int, loadTime time.Duration) {
	currentLevel := log.GetLevel()
	log.SetLevel(log.InfoLevel)

	fmt.Fprintln(os.Stderr, "===========")
	fmt.Fprintln(os.Stderr, " WordMatch ")
	fmt.Fprintln(os.Stderr, "===========")
	log.Infof("Version: %s", Version)
	log.Infof("Process ID: [ %d ]", os.Getpid())
	log.Infof("words: ( %s ) %s", wordsPath, humanize.Comma(int64(words)))
	log.Infof("load time: %s", loadTime)
	log.Info("status: ready")
	fmt.Fprintln(os.Stderr, "===========")

	log.SetLevel(currentLevel)
}
