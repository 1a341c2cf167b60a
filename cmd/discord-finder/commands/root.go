package commands

import (
	"context"
	"discord-finder/internal/httpfetch"
	"discord-finder/internal/scrapers/discord"
	"discord-finder/internal/scrapers/google"
	"discord-finder/internal/scrapers/intermediary"
	"discord-finder/internal/serviceutil"
	"discord-finder/internal/telemetry"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
)

var (
	configPath *string
	verbose    *bool
	dumpDir    *string
)

var (
	cfg           Config
	tel           telemetry.API
	shutdown      func()
	searchClient  google.Client
	pageClient    intermediary.Client
	discordClient discord.Client
)

func init() {
	configPath = rootCmd.PersistentFlags().String("config", "config.json5", "The config file to read.")
	verbose = rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Log every request.")
	dumpDir = rootCmd.PersistentFlags().String("dump", "", "A directory to write a copy of every request and response into.")
}

var rootCmd = &cobra.Command{
	Use:           "discord-finder",
	Short:         "discord-finder finds public discord invites recently mentioned on the web.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		serviceutil.InitSlog(*verbose)

		var err error
		cfg, err = loadConfig(*configPath)
		if err != nil {
			serviceutil.Fatal("failed to read config", err)
		}
		tel, shutdown = setupTelemetry(cmd.Context())

		policy, err := cfg.Policy()
		if err != nil {
			serviceutil.Fatal("invalid token config", err)
		}
		strategy, err := cfg.Strategy()
		if err != nil {
			serviceutil.Fatal("invalid search config", err)
		}

		fetcher := httpfetch.NewClient(tel, httpfetch.ClientOptions{
			Timeout: cfg.Timeout(),
			DumpDir: *dumpDir,
		})
		pageFetcher := fetcher
		if cfg.CloudflareBypass {
			pageFetcher = httpfetch.NewClient(tel, httpfetch.ClientOptions{
				Timeout:          cfg.Timeout(),
				CloudflareBypass: true,
				TracerName:       "httpfetch/pages",
				DumpDir:          pagesDumpDir(),
			})
		}

		searchClient = google.NewClient(fetcher, tel, google.ClientOptions{
			UserAgent: cfg.UserAgents.Search,
			Strategy:  strategy,
		})
		pageClient = intermediary.NewClient(pageFetcher, tel, intermediary.ClientOptions{
			Policy:    policy,
			UserAgent: cfg.UserAgents.Page,
		})
		discordClient = discord.NewClient(fetcher, tel, discord.ClientOptions{
			UserAgent: cfg.UserAgents.Discord,
		})
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if shutdown != nil {
			shutdown()
		}
	},
}

// pagesDumpDir keeps the exchanges of the cloudflare bypass client apart, both clients
// number their files from 1.
func pagesDumpDir() string {
	if *dumpDir == "" {
		return ""
	}
	return filepath.Join(*dumpDir, "pages")
}

// perfStatsInterval matches the metric export interval, runs are often shorter than
// the default interval.
const perfStatsInterval = 5 * time.Second

// setupTelemetry exports traces and metrics when a telemetry.json5 can be found, otherwise
// reports only go to the logs.
func setupTelemetry(ctx context.Context) (telemetry.API, func()) {
	var api telemetry.API = telemetry.SlogAPI{}

	t, err := telemetry.SetupFromEnv(ctx, "discord-finder")
	if os.IsNotExist(err) {
		slog.Debug("no telemetry.json5 found, telemetry export disabled")
		return api, nil
	}
	if err != nil {
		slog.Warn("failed to setup telemetry", "err", err)
		return api, nil
	}

	otelApi, err := telemetry.NewOtelAPI("discord-finder", api)
	if err != nil {
		slog.Warn("failed to create meter instruments", "err", err)
	} else {
		api = otelApi
	}

	perfCtx, stopPerfStats := context.WithCancel(ctx)
	err = telemetry.InstrumentPerfStats(perfCtx, "discord-finder/perf_stats", api, perfStatsInterval)
	if err != nil {
		slog.Warn("failed to instrument perf stats", "err", err)
	}

	return api, func() {
		stopPerfStats()
		err := t.Shutdown(context.Background())
		if err != nil {
			slog.Warn("failed to shutdown telemetry", "err", err)
		}
	}
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// describe returns a short, user facing reason for a pipeline error.
func describe(err error) string {
	switch httpfetch.KindOf(err) {
	case httpfetch.ErrTimeout:
		return "request did not complete"
	case httpfetch.ErrInvalidResponse:
		return "invalid response"
	}
	return err.Error()
}
