// Copyright 2025 The WordServe Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package main implements the word swap server and CLI [DBG] application.

WordSwap pairs every word of a vocabulary with another word of the same
vocabulary, chosen by a permutation file, and answers lookups through
arithmetic-coding positions: each word is encoded to an interval of [0,1) by a
character frequency model trained on the vocabulary, and a lookup finds the
interval holding the midpoint of the input's encoding.

# Usage

Start the server with default settings:

	wordswap

Use custom files and enable debug mode:

	wordswap -words /path/to/words.txt -perm /path/to/shuffle.perm -d

Run in CLI mode for interactive testing:

	wordswap -c -limit 10

Generate a permutation for a word list, or prebuild the snapshot:

	wordswap -words words.txt -shuffle -seed 7
	wordswap -words words.txt -build

# Files

The word list has one word per line. The permutation file holds one index per
word: words[i] is paired with words[perm[i]]. When the permutation file is
missing a random one is generated and saved next to it.

Built maps are saved to a snapshot file and reused on the next start as long as
the snapshot is newer than both source files.

# Configuration

Runtime configuration is managed through a TOML file:

	[server]
	max_word_length = 64
	cache_size = 4096
	default_limit = 24

	[dict]
	words_path = "words.txt"
	permutation_path = "shuffle.perm"
	snapshot_path = "wordswap.bin"
	watch = false
	debounce_ms = 250

	[cli]
	show_position = false
	default_limit = 24

The config file is automatically created with defaults if it doesn't exist.
Flags override the file.

# IPC Protocol

The server communicates via MessagePack over stdin/stdout, see package server.

	{"id": "req1", "w": "cat"}
	{"id": "req1", "w": "cat", "o": "dog", "t": 21}

# Command Line Flags

	-config string
	    Config file (default: user config dir)
	-words string
	    Word list file
	-perm string
	    Permutation file
	-snapshot string
	    Snapshot file, "-" to disable
	-d  Enable debug mode with detailed logging
	-c  Run in CLI mode instead of server mode
	-build
	    Rebuild and save the snapshot, then exit
	-shuffle
	    Write a generated permutation for the word list, then exit
	-seed uint
	    Seed for generated permutations (0 = random)
	-watch
	    Rebuild when the source files change
	-limit int
	    Words listed by :words (default from config)
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/bastiangx/wordswap/internal/cli"
	"github.com/bastiangx/wordswap/internal/logger"
	"github.com/bastiangx/wordswap/internal/utils"
	"github.com/bastiangx/wordswap/pkg/config"
	"github.com/bastiangx/wordswap/pkg/dictionary"
	"github.com/bastiangx/wordswap/pkg/server"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

const (
	Version = "0.1.0"
	AppName = "wordswap"
	gh      = "https://github.com/bastiangx/wordswap"
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

// main only manages the flow between config, runtime, server and CLI.
func main() {
	sigHandler()

	showVersion := flag.Bool("version", false, "Show current version")
	configFile := flag.String("config", "", "Path to a config file")
	wordsFile := flag.String("words", "", "Word list file (default from config)")
	permFile := flag.String("perm", "", "Permutation file (default from config)")
	snapshotFile := flag.String("snapshot", "", "Snapshot file, \"-\" disables snapshots (default from config)")
	debugMode := flag.Bool("d", false, "Toggle debug mode")
	cliMode := flag.Bool("c", false, "Run CLI -- useful for testing and debugging")
	buildOnly := flag.Bool("build", false, "Rebuild the snapshot from the source files and exit")
	shuffleOnly := flag.Bool("shuffle", false, "Write a generated permutation for the word list and exit")
	seed := flag.Uint64("seed", 0, "Seed for generated permutations (0 = random)")
	watch := flag.Bool("watch", false, "Rebuild when the source files change")
	limit := flag.Int("limit", 0, "Number of words listed by :words (default from config)")

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

	pathResolver, err := utils.NewPathResolver()
	if err != nil {
		log.Fatalf("Failed to initialize path resolver: %v", err)
	}
	for k, v := range pathResolver.GetRuntimeInfo() {
		log.Debug("runtime", k, v)
	}

	appConfig, configPath, err := config.LoadConfigWithPriority(*configFile)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	log.Debugf("Using config file: (%s)", config.GetActiveConfigPath(configPath))

	opts := dictionary.Options{
		WordsPath:       pathResolver.GetDataFile(pick(*wordsFile, appConfig.Dict.WordsPath)),
		PermutationPath: pathResolver.GetDataFile(pick(*permFile, appConfig.Dict.PermutationPath)),
		SnapshotPath:    pathResolver.GetDataFile(pick(*snapshotFile, appConfig.Dict.SnapshotPath)),
		MaxWordLength:   appConfig.Server.MaxWordLength,
		Seed:            *seed,
	}
	if *snapshotFile == "-" {
		opts.SnapshotPath = ""
	}
	if opts.Seed == 0 {
		opts.Seed = uint64(time.Now().UnixNano())
	}
	log.Debug("Files", "words", opts.WordsPath, "perm", opts.PermutationPath, "snapshot", opts.SnapshotPath)

	if *shuffleOnly {
		if err := writeShuffle(opts); err != nil {
			log.Fatalf("Failed to write permutation: %v", err)
		}
		return
	}

	runtime := dictionary.NewRuntime(opts)

	if *buildOnly {
		if err := runtime.Reload(); err != nil {
			log.Fatalf("Failed to build word map: %v", err)
		}
		info := runtime.Info()
		fmt.Fprintln(os.Stderr, buildSummary(info.Words, opts.SnapshotPath))
		return
	}

	if err := runtime.Load(); err != nil {
		log.Fatalf("Failed to load word map: %v", err)
	}

	if *watch || appConfig.Dict.Watch {
		watcher, err := dictionary.NewWatcher(runtime, time.Duration(appConfig.Dict.DebounceMs)*time.Millisecond)
		if err != nil {
			log.Fatalf("Failed to watch source files: %v", err)
		}
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go watcher.Run(ctx)
		defer watcher.Stop()
	}

	// CLI would be mainly used for testing and dbg purposes.
	if *cliMode {
		log.SetReportTimestamp(false)
		cliLimit := *limit
		if cliLimit < 1 {
			cliLimit = appConfig.CLI.DefaultLimit
		}
		inputHandler := cli.NewInputHandler(runtime, cliLimit, appConfig.CLI.ShowPosition)
		if err := inputHandler.Start(); err != nil {
			log.Fatalf("CLI error: %v", err)
		}
		return
	}

	log.Debug("spawning IPC")
	srv, err := server.NewServer(runtime, server.Options{
		CacheSize:    appConfig.Server.CacheSize,
		DefaultLimit: appConfig.Server.DefaultLimit,
	})
	if err != nil {
		log.Fatalf("Failed to create server: %v", err)
	}

	showStartupInfo(runtime.Info(), opts)

	if err := srv.Start(); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
}

// pick returns the flag value when set, the config value otherwise.
func pick(flagValue, configValue string) string {
	if flagValue != "" && flagValue != "-" {
		return flagValue
	}
	return configValue
}

func writeShuffle(opts dictionary.Options) error {
	words, err := dictionary.LoadWords(opts.WordsPath)
	if err != nil {
		return err
	}
	perm := dictionary.Shuffle(len(words), opts.Seed)
	if err := dictionary.SavePermutation(opts.PermutationPath, perm); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "wrote %s indices to %s (seed %d)\n", utils.FormatWithCommas(len(perm)), opts.PermutationPath, opts.Seed)
	return nil
}

func buildSummary(words int, snapshotPath string) string {
	if snapshotPath == "" {
		return fmt.Sprintf("built %s words (snapshot disabled)", utils.FormatWithCommas(words))
	}
	return fmt.Sprintf("built %s words into %s", utils.FormatWithCommas(words), snapshotPath)
}

func printVersion() {
	banner := logger.NewWithConfig("", log.InfoLevel, false, false, log.TextFormatter)

	styles := log.DefaultStyles()
	styles.Values["version"] = lipgloss.NewStyle().Bold(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"}).
		Background(lipgloss.AdaptiveColor{Light: "#f2e9e1", Dark: "#26233a"})
	styles.Values["gh"] = lipgloss.NewStyle().Italic(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
	banner.SetStyles(styles)

	banner.Print("")
	banner.Print("[ WordSwap ] Swaps words through arithmetic coding")
	banner.Print("", "version", Version)
	banner.Print("")
	for _, f := range dictionary.ListSupportedFormats() {
		banner.Print("", "format", f.Description, "ext", strings.Join(f.Extensions, " "))
	}
	banner.Print("")
	banner.Print("use -h or --help to see available options")
	banner.Print("Github Repo", "gh", gh)
}

// showStartupInfo displays some basic info about the init process.
func showStartupInfo(info dictionary.RuntimeInfo, opts dictionary.Options) {
	pid := os.Getpid()
	currentLevel := log.GetLevel()
	log.SetLevel(log.InfoLevel)

	println("===========")
	println(" WordSwap ")
	println("===========")
	log.Infof("Version: %s", Version)
	log.Infof("Process ID: [ %d ]", pid)
	log.Infof("words: %s (%s)", utils.FormatWithCommas(info.Words), info.Source)
	log.Infof("word list: ( %s )", opts.WordsPath)
	log.Info("status: ready")
	println("===========")
	println("Press Ctrl+C to exit")

	log.SetLevel(currentLevel)
}
