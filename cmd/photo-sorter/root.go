package main

import (
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"photo-sorter/internal/config"
	"photo-sorter/internal/dating"
	"photo-sorter/internal/logging"
	"photo-sorter/internal/relocate"
	"photo-sorter/internal/walker"
)

func newRootCommand() *cobra.Command {
	var (
		dryRun    bool
		verbosity int
	)

	cmd := &cobra.Command{
		Use:   "photo-sorter <input-dir> <output-dir>",
		Short: "File photos into year/month folders by capture date",
		Long: `photo-sorter walks <input-dir> recursively and moves every file to
<output-dir>/<YYYY>/<MM>/<name>.

The date comes from the EXIF DateTimeOriginal field when the file carries
one, otherwise from the file's creation time (or its status-change time on
platforms without creation times). A file that lands on the same name as an
earlier one replaces it.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.FromArgs(args)
			if err != nil {
				return err
			}
			cfg.DryRun = dryRun
			cfg.Verbosity = verbosity

			logging.SetupLogger(cmd.ErrOrStderr(), cfg.Verbosity)
			return run(cfg)
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Log planned moves without touching any file")
	cmd.Flags().CountVarP(&verbosity, "verbose", "v", "Increase verbosity (-v DEBUG, -vv TRACE)")

	return cmd
}

// run sorts cfg.InputDir into cfg.OutputDir.
func run(cfg config.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	log := logging.GetLogger("sort")
	runID := logging.NewRunID()
	start := time.Now()
	log.Info().
		Str("run_id", runID).
		Str("input", cfg.InputDir).
		Str("output", cfg.OutputDir).
		Bool("dry_run", cfg.DryRun).
		Msg("sort started")

	w := walker.New(
		dating.NewResolver(),
		relocate.New(cfg.OutputDir, cfg.DryRun, logging.GetLogger("relocate")),
		cfg.OutputDir,
		logging.GetLogger("walker"),
	)
	stats, err := w.Walk(cfg.InputDir)
	if err != nil {
		return err
	}

	log.Info().
		Str("run_id", runID).
		Int("files", stats.Files).
		Str("size", humanize.Bytes(uint64(stats.Bytes))).
		Int("dirs", stats.Dirs).
		Int("in_place", stats.InPlace).
		Int("replaced", stats.Replaced).
		Int("skipped_dirs", stats.SkippedDirs).
		Int("special", stats.Special).
		Dur("elapsed", time.Since(start)).
		Msg("sort finished")
	return nil
}
