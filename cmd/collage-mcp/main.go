package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"

	"github.com/ironsheep/image-collage-mcp/internal/config"
	"github.com/ironsheep/image-collage-mcp/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

const usage = `image-collage-mcp - MCP server that combines images into grid collages

Usage: image-collage-mcp [options]

Options:
  --config <path>  YAML configuration file
  --version, -v    Print version information
  --help, -h       Print this help message

Environment variables:
  COLLAGE_MCP_CONFIG=<path>        Configuration file when --config is not given
  COLLAGE_MCP_LOG_LEVEL=debug      Override the configured log level

This server communicates via MCP protocol over stdin/stdout.
Register it as a stdio server in your MCP client configuration.
`

func main() {
	// Handle --version and -v flags
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("image-collage-mcp %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			fmt.Print(usage)
			return
		}
	}

	flags := flag.NewFlagSet("image-collage-mcp", flag.ContinueOnError)
	flags.SetOutput(os.Stderr)
	flags.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	configPath := flags.String("config", os.Getenv("COLLAGE_MCP_CONFIG"), "YAML configuration file")
	if err := flags.Parse(os.Args[1:]); err != nil {
		os.Exit(2)
	}

	// Configure logging to stderr (stdout is for MCP protocol)
	log.SetOutput(os.Stderr)
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			log.WithError(err).Fatal("failed to load config")
		}
		cfg = loaded
	}
	setLogLevel(cfg.LogLevel)

	log.WithFields(log.Fields{
		"version": Version,
		"built":   BuildTime,
		"commit":  GitCommit,
		"config":  *configPath,
	}).Debug("image collage MCP server starting")

	srv := server.New(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *configPath != "" {
		go func() {
			err := config.Watch(ctx, *configPath, func(c *config.Config) {
				setLogLevel(c.LogLevel)
				srv.SetConfig(c)
			})
			if err != nil {
				log.WithError(err).Warn("config hot reload disabled")
			}
		}()
	}

	done := make(chan error, 1)
	go func() { done <- srv.Run() }()

	select {
	case err := <-done:
		if err != nil {
			log.WithError(err).Fatal("server error")
		}
	case <-ctx.Done():
		log.Info("shutting down")
	}
}

// setLogLevel applies the configured level unless COLLAGE_MCP_LOG_LEVEL
// overrides it.
func setLogLevel(level string) {
	if env := os.Getenv("COLLAGE_MCP_LOG_LEVEL"); env != "" {
		level = env
	}
	if level == "" {
		level = "info"
	}
	lvl, err := log.ParseLevel(level)
	if err != nil {
		log.WithError(err).Warn("unknown log level, using info")
		lvl = log.InfoLevel
	}
	log.SetLevel(lvl)
}
