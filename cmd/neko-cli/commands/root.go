package commands

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"neko-backend/cmd/neko-cli/globals"
	"neko-backend/internal/components/telemetry"
	"neko-backend/internal/scrapers/jkanime"
	"neko-backend/pkg/restyutil"
	"neko-backend/pkg/serviceutil"

	"github.com/spf13/cobra"
)

var (
	configPath string
	verbose    bool
	dumpDir    string
	jsonOutput bool
)

var otelTelemetry telemetry.Telemetry

// clientTransport replaces the cloudflare bypass transport when set.
var clientTransport http.RoundTripper

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configPath, "config", "neko.json5", "The config file to read, a sibling .local file overrides it. When not given, parent directories are searched too.")
	flags.BoolVarP(&verbose, "verbose", "v", false, "Log debug output.")
	flags.StringVar(&dumpDir, "dump", "", "Write every HTTP exchange to this directory.")
	flags.BoolVar(&jsonOutput, "json", false, "Print results as JSON instead of tables.")
}

var rootCmd = &cobra.Command{
	Use:           "neko-cli",
	Short:         "neko-cli scrapes anime listings, details and episode streams from jkanime.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		telemetry.InitSlog(verbose)

		cfg, err := readConfig(configPath, !cmd.Flags().Changed("config"))
		if err != nil {
			return fmt.Errorf("read config: %w", err)
		}

		otelTelemetry, err = telemetry.Setup(cmd.Context(), "neko-cli", cfg.Telemetry)
		if err != nil {
			return fmt.Errorf("setup telemetry: %w", err)
		}
		otelApi, err := telemetry.NewOtelAPI("neko-cli")
		if err != nil {
			return fmt.Errorf("create otel meters: %w", err)
		}
		tel := telemetry.MultiAPI{telemetry.SlogAPI{}, otelApi}

		var dump telemetry.MessageOutput
		if dumpDir != "" {
			output, err := restyutil.NewFilesystemOutput(dumpDir)
			if err != nil {
				return fmt.Errorf("create dump directory: %w", err)
			}
			dump = output
		}

		opts := cfg.clientOptions(dump)
		opts.Transport = clientTransport
		client, err := jkanime.NewClient(opts, tel)
		if err != nil {
			return fmt.Errorf("create jkanime client: %w", err)
		}

		cmd.SetContext(globals.Set(cmd.Context(), &globals.Value{
			Client: client,
			Tel:    telemetry.NewScopedAPI("neko_cli", tel),
			Json:   jsonOutput,
		}))
		return nil
	},
}

// flushTelemetry exports whatever the otel providers still buffer, it runs
// whether or not the command failed.
var flushTelemetry = func() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()
	err := otelTelemetry.Shutdown(ctx)
	if err != nil {
		slog.Warn("failed to flush telemetry", "err", err)
	}
}

func execute(ctx context.Context) error {
	err := rootCmd.ExecuteContext(ctx)
	flushTelemetry()
	return err
}

func ExecuteContext(ctx context.Context) {
	if err := execute(ctx); err != nil {
		serviceutil.Fatal("neko-cli failed", err)
	}
}
