// charsetcheck reports the character encoding of text files: UTF-16 and
// UTF-8 byte-order marks first, then UTF-8 validity of the content.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/baditaflorin/l"
	"github.com/spf13/cobra"

	textcharset "github.com/baditaflorin/go_text_charset"
	"github.com/baditaflorin/go_text_charset/internal/config"
)

var version = "0.1.0"

// CLI flags
var (
	configPath   string
	asJSON       bool
	verbose      bool
	jobs         int
	sampleCap    int64
	tinyLimit    int
	detailed     bool
	subclassify  bool
	logFile      string
	logJSON      bool
	failOnUnknown bool
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	defaults := config.Default()

	cmd := &cobra.Command{
		Use:   "charsetcheck [files...]",
		Short: "Detect UTF-8, UTF-8 BOM and UTF-16 BOM encodings of text files",
		Long: `charsetcheck inspects each file and reports its encoding:
utf-16le, utf-16be, utf-8-bom, utf-8, ascii, empty or unknown.

Files that are not valid UTF-8 are reported as unknown together with
the offsets and bytes of every invalid sequence (use --verbose).`,
		Version:       version,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          run,
	}

	flags := cmd.Flags()
	flags.StringVarP(&configPath, "config", "c", "", "YAML configuration file")
	flags.BoolVar(&asJSON, "json", false, "Print one JSON report per file")
	flags.BoolVarP(&verbose, "verbose", "v", false, "Print the diagnostic log of each file")
	flags.IntVarP(&jobs, "jobs", "j", 4, "Number of files inspected concurrently")
	flags.Int64Var(&sampleCap, "sample-cap", defaults.SampleSizeCap, "Maximum bytes sampled per file (0 = whole file)")
	flags.IntVar(&tinyLimit, "tiny-threshold", defaults.TinyBufferThreshold, "Sample size below which every scan step is bounds-checked")
	flags.BoolVar(&detailed, "detailed", defaults.DetailedErrors, "Classify every invalid sequence instead of stopping at the first")
	flags.BoolVar(&subclassify, "subclassify", defaults.SubclassifyOverlongLeads, "Report 5- and 6-byte leading bytes separately")
	flags.StringVar(&logFile, "log-file", "", "Log file path (empty = stderr)")
	flags.BoolVar(&logJSON, "log-json", false, "Write logs as JSON")
	flags.BoolVar(&failOnUnknown, "fail-on-unknown", false, "Exit with an error if any file is not recognised")

	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	logger, err := createLogger(cfg.Log)
	if err != nil {
		return err
	}
	defer logger.Close()

	detector, err := textcharset.New(
		textcharset.WithConfig(cfg),
		textcharset.WithLogger(logger),
	)
	if err != nil {
		return fmt.Errorf("create detector: %w", err)
	}

	results, err := detectFiles(cmd.Context(), detector, args, jobs)
	if err != nil {
		return err
	}

	if err := writeResults(cmd.OutOrStdout(), results, asJSON, verbose); err != nil {
		return err
	}
	return summarize(results, failOnUnknown)
}

// loadConfig reads --config, then applies the flags the user set explicitly.
func loadConfig(cmd *cobra.Command) (config.File, error) {
	cfg := config.Default()
	if configPath != "" {
		var err error
		if cfg, err = config.Load(configPath); err != nil {
			return cfg, err
		}
	}

	flags := cmd.Flags()
	if flags.Changed("sample-cap") {
		cfg.SampleSizeCap = sampleCap
	}
	if flags.Changed("tiny-threshold") {
		cfg.TinyBufferThreshold = tinyLimit
	}
	if flags.Changed("detailed") {
		cfg.DetailedErrors = detailed
	}
	if flags.Changed("subclassify") {
		cfg.SubclassifyOverlongLeads = subclassify
	}
	if flags.Changed("log-file") {
		cfg.Log.File = logFile
	}
	if flags.Changed("log-json") {
		cfg.Log.JSON = logJSON
	}
	if jobs < 1 {
		return cfg, fmt.Errorf("--jobs must be at least 1, got %d", jobs)
	}
	return cfg, cfg.Validate()
}

// createLogger creates and configures a logger
func createLogger(cfg config.LogConfig) (l.Logger, error) {
	var output io.Writer = os.Stderr
	if cfg.File != "" {
		file, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		output = file
	}

	logger, err := l.NewStandardFactory().CreateLogger(l.Config{
		Output:      output,
		JsonFormat:  cfg.JSON,
		AsyncWrite:  cfg.Async,
		BufferSize:  1024 * 1024,      // 1MB
		MaxFileSize: 10 * 1024 * 1024, // 10MB
		MaxBackups:  5,
		AddSource:   false,
		Metrics:     false,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return logger, nil
}
