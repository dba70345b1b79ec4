package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/sdejongh/dircompare/pkg/compare"
	"github.com/sdejongh/dircompare/pkg/logging"
	"github.com/sdejongh/dircompare/pkg/models"
	"github.com/sdejongh/dircompare/pkg/output"
)

// CompareFlags holds compare command flags
type CompareFlags struct {
	Method          string
	CaseInsensitive bool
	Verify          bool
	ReportFlags
}

var compareFlags CompareFlags

// NewCompareCommand creates the compare command
func NewCompareCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare DIR_A DIR_B",
		Short: "Compare two directory trees by relative path",
		Long: `Compare two directory trees entry by entry. Entries are paired by their
path relative to each root and matched with the selected method:

  name     relative path only
  size     path and file size
  hash     path and a full xxhash64 of the content
  sampled  path and a sampled SHA-256 of seven fixed windows (default)

Entries that fail to match are listed on both sides.`,
		Args: cobra.ExactArgs(2),
		RunE: runCompare,
	}

	cmd.Flags().StringVarP(&compareFlags.Method, "method", "m", "sampled", "comparison method: name, size, hash, sampled")
	cmd.Flags().BoolVarP(&compareFlags.CaseInsensitive, "case-insensitive", "i", false, "compare relative paths ignoring case")
	cmd.Flags().BoolVar(&compareFlags.Verify, "verify", false, "confirm sampled matches with a full SHA-256 hash")
	addReportFlags(cmd, &compareFlags.ReportFlags)

	return cmd
}

func runCompare(cmd *cobra.Command, args []string) error {
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

	// Load configuration
	cfg, err := loadConfig(settings)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Override config with command-line flags
	if err := applyFlagsToConfig(settings, cfg); err != nil {
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

	strategy, err := compare.NewStrategy(cfg.Compare.Method, compare.StrategyOptions{
		CaseInsensitive: cfg.Compare.CaseInsensitive,
		Verify:          cfg.Compare.Verify,
		BufferSize:      cfg.Flat.BufferSize,
		Logger:          logger,
	})
	if err != nil {
		return err
	}

	report := &models.Report{
		ID:              uuid.New().String(),
		Mode:            models.ModeHierarchy,
		Method:          cfg.Compare.Method,
		RootA:           rootA,
		RootB:           rootB,
		CaseInsensitive: cfg.Compare.CaseInsensitive,
		Verify:          cfg.Compare.Verify,
		ReadLimit:       cfg.ReadLimit,
		StartTime:       time.Now(),
	}

	logger.Info(ctx, "starting comparison", logging.Fields{
		"report_id": report.ID,
		"root_a":    rootA,
		"root_b":    rootB,
		"strategy":  strategy.Name(),
	})

	a, b, err := openBackends(ctx, cfg, logger, rootA, rootB)
	if err != nil {
		return err
	}
	defer a.Close()
	defer b.Close()

	result, err := compare.CompareHierarchy(ctx, a, b, strategy, compare.Options{
		Ignore: ignoreFn,
		Logger: logger,
	})
	if err != nil {
		return fmt.Errorf("comparison failed: %w", err)
	}

	report.Hierarchy = result
	report.Finish(time.Now())

	if err := output.WriteReport(cmd.OutOrStdout(), settings.GetString("output"), report, formatter); err != nil {
		return err
	}

	return finish(report, settings.GetBool("fail-on-diff"))
}
