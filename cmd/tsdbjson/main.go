// Command tsdbjson converts TSDB storage artifacts into JSON documents.
//
// It runs in one of three modes:
//
//	tsdbjson -key blocks/chunk-001.tsdb.gz   convert a single object
//	tsdbjson -events notification.json       convert the objects named by a
//	                                         store notification document
//	tsdbjson -sweep -prefix blocks/          backfill a whole key prefix
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/viper"

	"github.com/tsdbkit/tsdbjson"
	"github.com/tsdbkit/tsdbjson/decode"
	"github.com/tsdbkit/tsdbjson/relay"

	// Register the built-in stores.
	_ "github.com/tsdbkit/tsdbjson/store/file"
	_ "github.com/tsdbkit/tsdbjson/store/memory"
	_ "github.com/tsdbkit/tsdbjson/store/s3"
	_ "github.com/tsdbkit/tsdbjson/store/sftp"
)

// Build variables - set by ldflags during build.
var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	var (
		configPath  string
		showVersion bool
		key         string
		eventsPath  string
		sweep       bool
		prefix      string
		dryRun      bool
	)

	flag.StringVar(&configPath, "config", "", "config file (default is $HOME/.config/tsdbjson/config.yml)")
	flag.BoolVar(&showVersion, "version", false, "print version information")
	flag.StringVar(&key, "key", "", "convert a single object key")
	flag.StringVar(&eventsPath, "events", "", "convert the objects named by a notification document ('-' for stdin)")
	flag.BoolVar(&sweep, "sweep", false, "convert every object under -prefix")
	flag.StringVar(&prefix, "prefix", "", "key prefix for -sweep")
	flag.BoolVar(&dryRun, "dry-run", false, "with -sweep, list without converting")
	flag.Parse()

	if showVersion {
		fmt.Printf("tsdbjson %s (%s)\n", version, commit)
		return
	}

	cfg, err := loadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	if err := run(cfg, key, eventsPath, sweep, prefix, dryRun); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig(configPath string) (appConfig, error) {
	var cfg appConfig

	v := viper.New()
	v.SetEnvPrefix("TSDBJSON")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))

	v.SetDefault("source.store", defaultStore)
	v.SetDefault("destination.store", defaultStore)
	v.SetDefault("timeout", defaultTimeout)
	v.SetDefault("concurrency", defaultConcurrency)
	v.SetDefault("log-level", defaultLogLevel)
	v.SetDefault("disable-records", false)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return cfg, fmt.Errorf("finding home directory: %w", err)
		}
		v.AddConfigPath(".")
		v.AddConfigPath(home + "/.config/tsdbjson")
		v.SetConfigName("config")
		v.SetConfigType("yml")
	}

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFound) {
			return cfg, fmt.Errorf("reading config: %w", err)
		}
		// No config file is fine; environment and defaults apply.
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}
	cfg.ConfigPath = v.ConfigFileUsed()
	return cfg, nil
}

func run(cfg appConfig, key, eventsPath string, sweep bool, prefix string, dryRun bool) error {
	logger := newLogger(cfg.LogLevel)

	src, err := tsdbjson.Open(cfg.Source.Store, cfg.Source.Config)
	if err != nil {
		return fmt.Errorf("opening source store: %w", err)
	}
	defer func() { _ = src.Close() }()

	dst, err := tsdbjson.Open(cfg.Destination.Store, cfg.Destination.Config)
	if err != nil {
		return fmt.Errorf("opening destination store: %w", err)
	}
	defer func() { _ = dst.Close() }()

	var decodeOpts []decode.Option
	if cfg.DisableRecords {
		decodeOpts = append(decodeOpts, decode.WithoutRecords())
	}

	conv := relay.New(src, dst, relay.Options{
		Logger: logger,
		Decode: decodeOpts,
	})

	ctx := context.Background()
	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	switch {
	case key != "":
		return conv.Convert(ctx, key)

	case eventsPath != "":
		data, err := readEvents(eventsPath)
		if err != nil {
			return err
		}
		return conv.HandleNotification(ctx, data)

	case sweep:
		result, err := conv.Sweep(ctx, relay.SweepOptions{
			Prefix:      prefix,
			Concurrency: cfg.Concurrency,
			DryRun:      dryRun,
			Retry:       relay.DefaultRetryConfig(),
		})
		if err != nil {
			return err
		}
		if len(result.Errors) > 0 {
			return fmt.Errorf("sweep finished with %d failed keys (first: %s: %v)",
				len(result.Errors), result.Errors[0].Key, result.Errors[0].Err)
		}
		return nil

	default:
		return errors.New("nothing to do: pass -key, -events, or -sweep")
	}
}

func readEvents(path string) ([]byte, error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("reading events from stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading events file: %w", err)
	}
	return data, nil
}

func newLogger(level string) *slog.Logger {
	var l slog.Level
	switch strings.ToLower(level) {
	case "debug":
		l = slog.LevelDebug
	case "warn":
		l = slog.LevelWarn
	case "error":
		l = slog.LevelError
	default:
		l = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: l}))
}
