package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/akkishost/sitecheck/internal/config"
	"github.com/akkishost/sitecheck/internal/logging"
	"github.com/akkishost/sitecheck/internal/notify"
	"github.com/akkishost/sitecheck/internal/probe"
	"github.com/akkishost/sitecheck/internal/report"
)

// errTargetsFailed marks the run-failed verdict so main can map it to exit
// code 2, distinct from config/usage errors.
var errTargetsFailed = errors.New("one or more targets failed")

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Probe every target in the sites file once",
	Long: `Probe every target in the sites file once and print a summary.

Each target is checked concurrently (bounded by --concurrency) with its own
timeout and retry budget. Disabled targets are skipped without network
activity. The run always completes for every target; failures are reported
in the summary and through the exit code, never as an aborted run.

Example:
  sitecheck run -c monitor/sites.yml -j 10 --json report.json`,
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringP("config", "c", "monitor/sites.yml", "path to the sites file")
	runCmd.Flags().IntP("concurrency", "j", 10, "maximum simultaneous probes")
	runCmd.Flags().String("json", "", "write a JSON report to this path")
	runCmd.Flags().String("log-dir", "", "also write rotating JSON logs to this directory")
	runCmd.Flags().BoolP("verbose", "v", false, "log per-attempt detail")
}

func runRun(cmd *cobra.Command, args []string) error {
	configFile, _ := cmd.Flags().GetString("config")
	concurrency, _ := cmd.Flags().GetInt("concurrency")
	jsonPath, _ := cmd.Flags().GetString("json")
	logDir, _ := cmd.Flags().GetString("log-dir")
	verbose, _ := cmd.Flags().GetBool("verbose")

	logger, err := logging.New(logging.Options{Dir: logDir, Verbose: verbose})
	if err != nil {
		return fmt.Errorf("set up logging: %w", err)
	}
	defer logger.Sync()

	cfg, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	runID := uuid.NewString()
	logger = logger.With(zap.String("run_id", runID))

	prober := probe.NewHTTPProber("sitecheck/" + version)
	defer prober.Close()

	checker := probe.NewRetryChecker(prober, cfg.ProbeDefaults(), logger)
	runner := probe.NewRunner(checker, concurrency, logger)

	logger.Info("run_start",
		zap.Int("targets", len(cfg.Sites)),
		zap.Int("concurrency", runner.Concurrency),
	)

	start := time.Now()
	results, summary := runner.Run(cmd.Context(), cfg.Targets())
	logger.Info("run_done",
		zap.Int("ok", summary.OK),
		zap.Int("fail", summary.Fail),
		zap.Int("skip", summary.Skip),
		zap.Duration("elapsed", time.Since(start)),
	)

	now := time.Now()
	out := report.Render(results, summary, now)
	fmt.Println(out)

	if jsonPath != "" {
		if err := report.New(runID, now, results, summary).Write(jsonPath); err != nil {
			return err
		}
		logger.Info("report_written", zap.String("path", jsonPath))
	}

	if webhook := cfg.Webhook(); webhook != "" {
		notifyRun(cmd.Context(), logger, webhook, out, summary.Success())
	}

	if !summary.Success() {
		return errTargetsFailed
	}
	return nil
}

// notifyRun posts the run summary to Slack. Best effort: a failed send is
// logged and otherwise swallowed, so it can never change the exit verdict.
func notifyRun(ctx context.Context, logger *zap.Logger, webhook, text string, success bool) {
	prefix := "✅ "
	if !success {
		prefix = "❌ "
	}
	if err := notify.NewSlack(webhook).Send(ctx, prefix+text); err != nil {
		logger.Warn("notify_failed", zap.Error(err))
	}
}
