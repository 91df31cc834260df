// Package main is the entry point for the pageview terminal UI.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dshills/pageview/internal/app"
	"github.com/dshills/pageview/internal/config"
	"github.com/dshills/pageview/internal/term"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := parseFlags()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	drv, err := term.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to create terminal: %v\n", err)
		return 1
	}

	application := app.New(cfg, drv)

	// Handle signals for graceful shutdown
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-signals
		application.Stop()
	}()

	if err := application.Run(); err != nil {
		if errors.Is(err, app.ErrQuit) {
			return 0
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func parseFlags() (config.Config, error) {
	var (
		configPath  string
		pagesDir    string
		startPage   string
		logLevel    string
		showVersion bool
	)

	flag.StringVar(&configPath, "config", "", "Path to configuration file")
	flag.StringVar(&configPath, "c", "", "Path to configuration file (shorthand)")
	flag.StringVar(&pagesDir, "pages", "", "Page directory")
	flag.StringVar(&pagesDir, "p", "", "Page directory (shorthand)")
	flag.StringVar(&startPage, "start", "", "Start page name")
	flag.StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Pageview - terminal markup page viewer\n\n")
		fmt.Fprintf(os.Stderr, "Usage: pageview [options] [page]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  pageview                    Show the start page from ./pages\n")
		fmt.Fprintf(os.Stderr, "  pageview -p ./docs home     Show docs/home.pv\n")
	}

	flag.Parse()

	if showVersion {
		fmt.Printf("Pageview %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", date)
		os.Exit(0)
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return cfg, err
	}

	// Flags win over file and environment.
	if pagesDir != "" {
		cfg.Pages.Dir = pagesDir
	}
	if startPage != "" {
		cfg.Pages.Start = startPage
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
	if arg := flag.Arg(0); arg != "" {
		cfg.Pages.Start = arg
	}
	return cfg, nil
}
