package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/sdejongh/dircompare/pkg/compare"
	"github.com/sdejongh/dircompare/pkg/hashing"
	"github.com/sdejongh/dircompare/pkg/logging"
	"github.com/sdejongh/dircompare/pkg/models"
	"github.com/sdejongh/dircompare/pkg/output"
)

// FlatFlags holds flat command flags
type FlatFlags struct {
	FullHash  bool
	Algorithm string
	Workers   int
	Progress  bool
	ReportFlags
}

var flatFlags FlatFlags

// NewFlatCommand creates the flat command
func NewFlatCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "flat DIR_A DIR_B",
		Short: "Group files of two trees by content, ignoring paths",
		Long: `Hash every file of both trees and group files with identical content.
Groups reveal duplicates, files moved or renamed between the trees, and
content present on one side only. Files are fingerprinted with the sampled
hash unless --full-hash is given.`,
		Args: cobra.ExactArgs(2),
		RunE: runFlat,
	}

	cmd.Flags().BoolVar(&flatFlags.FullHash, "full-hash", false, "hash whole files instead of sampling them")
	cmd.Flags().StringVar(&flatFlags.Algorithm, "algorithm", "sha256", "full hash algorithm: sha256, blake3, xxhash")
	cmd.Flags().IntVarP(&flatFlags.Workers, "workers", "w", 0, "parallel hashing workers (default: one per CPU)")
	cmd.Flags().BoolVar(&flatFlags.Progress, "progress", false, "show a progress bar while hashing")
	addReportFlags(cmd, &flatFlags.ReportFlags)

	return cmd
}

func runFlat(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	rootA, rootB := args[0], args[1]
	if err := validateRoots(rootA, rootB); err != nil {
		return err
	}

	settings, err := newSettings(cmd)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(settings)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := applyFlagsToConfig(settings, cfg); err != nil {
		return err
	}

	algorithm, err := hashing.ParseAlgorithm(cfg.Flat.Algorithm)
	if err != nil {
		return err
	}

	logger, err := createLogger(cfg)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer logger.Close()

	ignoreFn, err := buildIgnore(ctx, cfg, logger)
	if err != nil {
		return err
	}

	formatter, err := output.NewFormatter(cfg.Output.Format)
	if err != nil {
		return err
	}

	report := &models.Report{
		ID:        uuid.New().String(),
		Mode:      models.ModeFlat,
		RootA:     rootA,
		RootB:     rootB,
		FullHash:  cfg.Flat.FullHash,
		ReadLimit: cfg.ReadLimit,
		StartTime: time.Now(),
	}
	if cfg.Flat.FullHash {
		report.Algorithm = string(algorithm)
	}

	logger.Info(ctx, "starting flat comparison", logging.Fields{
		"report_id": report.ID,
		"root_a":    rootA,
		"root_b":    rootB,
		"full_hash": cfg.Flat.FullHash,
		"workers":   cfg.Flat.Workers,
	})

	a, b, err := openBackends(ctx, cfg, logger, rootA, rootB)
	if err != nil {
		return err
	}
	defer a.Close()
	defer b.Close()

	progress := output.NewHashProgress(cmd.ErrOrStderr(), cfg.Output.Progress)
	defer progress.Finish()

	result, err := compare.CompareFlat(ctx, a, b, compare.FlatOptions{
		UseFullHash: cfg.Flat.FullHash,
		Algorithm:   algorithm,
		BufferSize:  cfg.Flat.BufferSize,
		Workers:     cfg.Flat.Workers,
		Ignore:      ignoreFn,
		Logger:      logger,
		OnScanned:   progress.Start,
		OnHashed: func(compare.Side, string) {
			progress.Increment()
		},
	})
	if err != nil {
		return fmt.Errorf("flat comparison failed: %w", err)
	}
	progress.Finish()

	report.Flat = result
	report.Finish(time.Now())

	if err := output.WriteReport(cmd.OutOrStdout(), settings.GetString("output"), report, formatter); err != nil {
		return err
	}

	return finish(report, settings.GetBool("fail-on-diff"))
}
