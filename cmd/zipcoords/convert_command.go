package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strconv"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/couchcryptid/zipcoords-etl/internal/config"
	"github.com/couchcryptid/zipcoords-etl/internal/domain"
	"github.com/couchcryptid/zipcoords-etl/internal/observability"
	"github.com/couchcryptid/zipcoords-etl/internal/pipeline"
)

// maxSkippedListed caps the skipped-row table in the run report.
const maxSkippedListed = 20

// convertFlags mirrors the config fields that can be overridden per run.
type convertFlags struct {
	input       string
	output      string
	delimiter   string
	metricsFile string
	logLevel    string
	logFormat   string
	strictKeys  bool
}

func (f *convertFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVarP(&f.input, "input", "i", "", "Delimited gazetteer file to read")
	fl.StringVarP(&f.output, "output", "o", "", "JSON lookup document to write")
	fl.StringVarP(&f.delimiter, "delimiter", "d", "", `Field delimiter (single character or "tab")`)
	fl.StringVar(&f.metricsFile, "metrics-file", "", "Write Prometheus textfile metrics to this path")
	fl.StringVar(&f.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	fl.StringVar(&f.logFormat, "log-format", "", "Log format: auto, text, json")
	fl.BoolVar(&f.strictKeys, "strict-keys", false, "Skip rows whose key is longer than 5 characters")
}

// apply copies explicitly set flags over cfg.
func (f *convertFlags) apply(cmd *cobra.Command, cfg *config.Config) {
	fl := cmd.Flags()
	if fl.Changed("input") {
		cfg.InputPath = f.input
	}
	if fl.Changed("output") {
		cfg.OutputPath = f.output
	}
	if fl.Changed("delimiter") {
		cfg.Delimiter = f.delimiter
	}
	if fl.Changed("metrics-file") {
		cfg.MetricsFile = f.metricsFile
	}
	if fl.Changed("log-level") {
		cfg.LogLevel = f.logLevel
	}
	if fl.Changed("log-format") {
		cfg.LogFormat = f.logFormat
	}
	if fl.Changed("strict-keys") {
		cfg.StrictKeys = f.strictKeys
	}
}

func newConvertCommand(configFlag *string) *cobra.Command {
	flags := &convertFlags{}

	cmd := &cobra.Command{
		Use:   "convert",
		Short: "Convert a gazetteer table into the JSON lookup document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(cmd, *configFlag, flags)
		},
	}
	flags.register(cmd)
	return cmd
}

func runConvert(cmd *cobra.Command, configPath string, flags *convertFlags) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	flags.apply(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	delimiter, err := cfg.DelimiterRune()
	if err != nil {
		return err
	}

	logger := observability.NewLogger(cfg).With("run_id", uuid.NewString())
	metrics := observability.NewMetrics()
	conv := pipeline.New(pipeline.Options{StrictKeys: cfg.StrictKeys}, logger, metrics)

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Starting conversion of '%s'...\n", cfg.InputPath)

	res, convErr := conv.ConvertFiles(cmd.Context(), cfg.InputPath, cfg.OutputPath, delimiter)

	if cfg.MetricsFile != "" {
		if err := metrics.WriteTextfile(cfg.MetricsFile); err != nil {
			logger.Warn("write metrics textfile failed", "path", cfg.MetricsFile, "error", err)
		}
	}

	if convErr != nil {
		return describeConvertError(cfg, convErr)
	}

	printReport(out, cfg, res)
	return nil
}

// describeConvertError turns a conversion failure into the operator-facing message.
func describeConvertError(cfg *config.Config, err error) error {
	var ioErr *domain.IOError
	switch {
	case errors.Is(err, domain.ErrSchema):
		return fmt.Errorf("%s: %w", cfg.InputPath, err)
	case errors.As(err, &ioErr) && errors.Is(err, fs.ErrNotExist) && ioErr.Path == cfg.InputPath:
		return fmt.Errorf("the file '%s' was not found: %w", cfg.InputPath, err)
	case errors.Is(err, domain.ErrIO):
		return fmt.Errorf("output not written: %w", err)
	default:
		return fmt.Errorf("an error occurred: %w", err)
	}
}

func printReport(w io.Writer, cfg *config.Config, res pipeline.Result) {
	summary := renderTable(
		[]string{"Metric", "Value"},
		[][]string{
			{"Input", cfg.InputPath},
			{"Output", cfg.OutputPath},
			{"Rows read", strconv.Itoa(res.RowsRead)},
			{"Entries written", strconv.Itoa(res.Written)},
			{"Rows skipped", strconv.Itoa(len(res.Skipped))},
			{"Duplicate keys", strconv.Itoa(res.Duplicates)},
			{"Elapsed", res.Elapsed.String()},
		},
		[]columnAlignment{alignLeft, alignRight},
	)
	fmt.Fprintln(w, summary)

	if len(res.Skipped) > 0 {
		listed := res.Skipped
		if len(listed) > maxSkippedListed {
			listed = listed[:maxSkippedListed]
		}
		rows := make([][]string, 0, len(listed))
		for _, s := range listed {
			rows = append(rows, []string{strconv.Itoa(s.Line), s.Key, s.Field, s.Value, s.Err.Error()})
		}
		fmt.Fprintln(w, "Skipped rows with invalid coordinates:")
		fmt.Fprintln(w, renderTable(
			[]string{"Line", "ZIP", "Field", "Value", "Reason"},
			rows,
			[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignLeft},
		))
		if rest := len(res.Skipped) - len(listed); rest > 0 {
			fmt.Fprintf(w, "... and %d more\n", rest)
		}
	}

	fmt.Fprintf(w, "Conversion complete! Saved %d records to '%s'.\n", res.Written, cfg.OutputPath)
}
