package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"

	"github.com/sdejongh/dircompare/pkg/compare"
	"github.com/sdejongh/dircompare/pkg/config"
	"github.com/sdejongh/dircompare/pkg/ignore"
	"github.com/sdejongh/dircompare/pkg/logging"
	"github.com/sdejongh/dircompare/pkg/models"
	"github.com/sdejongh/dircompare/pkg/ratelimit"
	"github.com/sdejongh/dircompare/pkg/storage"
)

const (
	logMaxSize    = 10 * 1024 * 1024
	logMaxBackups = 3
)

// ExitError carries a process exit status out of a command
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit status %d", e.Code)
}

// validateRoots checks that both compared paths are existing directories
func validateRoots(rootA, rootB string) error {
	for _, root := range []string{rootA, rootB} {
		info, err := os.Stat(root)
		if os.IsNotExist(err) {
			return fmt.Errorf("directory does not exist: %s", root)
		} else if err != nil {
			return fmt.Errorf("failed to access directory: %w", err)
		} else if !info.IsDir() {
			return fmt.Errorf("path exists but is not a directory: %s", root)
		}
	}
	return nil
}

// loadConfig loads configuration from file or returns default
func loadConfig(v *viper.Viper) (*config.Config, error) {
	if path := v.GetString("config"); path != "" {
		return config.LoadFromFile(path)
	}
	return config.LoadDefault()
}

// applyFlagsToConfig overrides config values with flags and environment
// variables that were explicitly set
func applyFlagsToConfig(v *viper.Viper, cfg *config.Config) error {
	if v.IsSet("method") {
		method, err := models.ParseComparisonMethod(v.GetString("method"))
		if err != nil {
			return err
		}
		cfg.Compare.Method = method
	}
	if v.IsSet("case-insensitive") {
		cfg.Compare.CaseInsensitive = v.GetBool("case-insensitive")
	}
	if v.IsSet("verify") {
		cfg.Compare.Verify = v.GetBool("verify")
	}

	if v.IsSet("full-hash") {
		cfg.Flat.FullHash = v.GetBool("full-hash")
	}
	if v.IsSet("algorithm") {
		cfg.Flat.Algorithm = v.GetString("algorithm")
	}
	if v.IsSet("workers") {
		cfg.Flat.Workers = v.GetInt("workers")
	}

	if v.IsSet("format") {
		cfg.Output.Format = strings.ToLower(v.GetString("format"))
	}
	if v.IsSet("progress") {
		cfg.Output.Progress = v.GetBool("progress")
	}

	// Exclude patterns add to the configured ones
	if v.IsSet("exclude") {
		cfg.Ignore = append(cfg.Ignore, v.GetStringSlice("exclude")...)
	}
	if v.IsSet("ignore") {
		cfg.IgnoreFile = v.GetString("ignore")
	}

	if v.IsSet("read-limit") {
		cfg.ReadLimit = v.GetString("read-limit")
	}

	if v.IsSet("log-file") {
		cfg.Logging.File = v.GetString("log-file")
		cfg.Logging.Destination = "file"
	}
	if v.IsSet("log-format") {
		cfg.Logging.Format = v.GetString("log-format")
	}
	if v.IsSet("log-level") {
		cfg.Logging.Level = v.GetString("log-level")
	}

	// Disable progress and logging in quiet mode
	if v.GetBool("quiet") {
		cfg.Output.Progress = false
		cfg.Output.Quiet = true
	}

	// Debug logging in verbose mode
	if v.GetBool("verbose") {
		cfg.Logging.Level = "debug"
	}

	return cfg.Validate()
}

// createLogger creates a logger based on configuration
func createLogger(cfg *config.Config) (logging.Logger, error) {
	if cfg.Output.Quiet {
		return logging.NewNullLogger(), nil
	}

	logger, err := logging.New(logging.Config{
		Destination: logging.Destination(cfg.Logging.Destination),
		Path:        cfg.Logging.File,
		Format:      logging.Format(cfg.Logging.Format),
		Level:       logging.ParseLevel(cfg.Logging.Level),
		MaxSize:     logMaxSize,
		MaxBackups:  logMaxBackups,
	})
	if err != nil {
		return nil, err
	}
	return logger, nil
}

// buildIgnore combines configured patterns and the ignore file into one
// predicate. Malformed lines are logged and skipped.
func buildIgnore(ctx context.Context, cfg *config.Config, logger logging.Logger) (compare.IgnoreFunc, error) {
	patterns, errs := ignore.FromPatterns(cfg.Ignore)
	for _, err := range errs {
		logger.Warn(ctx, "skipping ignore pattern", logging.Fields{"error": err.Error()})
	}

	var fromFile *ignore.Matcher
	if cfg.IgnoreFile != "" {
		m, errs, err := ignore.LoadFile(cfg.IgnoreFile)
		if err != nil {
			return nil, err
		}
		for _, err := range errs {
			logger.Warn(ctx, "skipping ignore pattern", logging.Fields{
				"file":  cfg.IgnoreFile,
				"error": err.Error(),
			})
		}
		fromFile = m
	}

	matcher := ignore.Merge(patterns, fromFile)
	logger.Debug(ctx, "ignore patterns loaded", logging.Fields{"patterns": len(matcher.Patterns())})
	return matcher.Func(), nil
}

// openBackends opens both trees, throttling file reads when a read limit
// is configured. Each tree gets its own limiter.
func openBackends(ctx context.Context, cfg *config.Config, logger logging.Logger, rootA, rootB string) (storage.Backend, storage.Backend, error) {
	rate, err := ratelimit.ParseRate(cfg.ReadLimit)
	if err != nil {
		return nil, nil, err
	}

	a, err := storage.NewLocal(rootA)
	if err != nil {
		return nil, nil, err
	}
	b, err := storage.NewLocal(rootB)
	if err != nil {
		a.Close()
		return nil, nil, err
	}

	limitA, limitB := ratelimit.NewLimiter(rate), ratelimit.NewLimiter(rate)
	if limitA != nil {
		logger.Info(ctx, "throttling file reads", logging.Fields{"rate": limitA.String()})
	}
	return ratelimit.WrapBackend(a, limitA), ratelimit.WrapBackend(b, limitB), nil
}

// finish reports a completed run as an exit status
func finish(report *models.Report, failOnDiff bool) error {
	if code := report.ExitCode(failOnDiff); code != int(models.ExitOK) {
		return &ExitError{Code: code}
	}
	return nil
}
