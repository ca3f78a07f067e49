package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/couchcryptid/zipcoords-etl/internal/adapter/csvsource"
	"github.com/couchcryptid/zipcoords-etl/internal/adapter/jsonsink"
	"github.com/couchcryptid/zipcoords-etl/internal/config"
	"github.com/couchcryptid/zipcoords-etl/internal/observability"
	"github.com/couchcryptid/zipcoords-etl/internal/pipeline"
)

// errVerifyFailed is returned when the document does not match its source.
var errVerifyFailed = errors.New("lookup document does not match source")

// maxKeysListed caps each key list in the verify report.
const maxKeysListed = 10

func newVerifyCommand(configFlag *string) *cobra.Command {
	flags := &convertFlags{}

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Check that the JSON lookup document matches its source table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configFlag)
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

			actual, err := jsonsink.Load(cfg.OutputPath)
			if err != nil {
				return err
			}

			src, err := csvsource.Open(cfg.InputPath, delimiter)
			if err != nil {
				return err
			}
			defer src.Close()

			logger := observability.NewLogger(cfg).With("run_id", uuid.NewString())
			conv := pipeline.New(pipeline.Options{StrictKeys: cfg.StrictKeys}, logger, observability.NewMetrics())
			report, err := conv.Verify(cmd.Context(), src, actual)
			if err != nil {
				return err
			}

			printVerify(cmd.OutOrStdout(), cfg, report)
			if !report.Passed() {
				return errVerifyFailed
			}
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}

func printVerify(w io.Writer, cfg *config.Config, report pipeline.VerifyReport) {
	fmt.Fprintln(w, renderTable(
		[]string{"Check", "Count", "Keys"},
		[][]string{
			{"Expected entries", strconv.Itoa(report.Expected), ""},
			{"Document entries", strconv.Itoa(report.Actual), ""},
			{"Missing", strconv.Itoa(len(report.Missing)), summarizeKeys(report.Missing)},
			{"Extra", strconv.Itoa(len(report.Extra)), summarizeKeys(report.Extra)},
			{"Mismatched", strconv.Itoa(len(report.Mismatched)), summarizeKeys(report.Mismatched)},
		},
		[]columnAlignment{alignLeft, alignRight, alignLeft},
	))
	if report.Passed() {
		fmt.Fprintf(w, "PASS: '%s' matches '%s'.\n", cfg.OutputPath, cfg.InputPath)
		return
	}
	fmt.Fprintf(w, "FAIL: '%s' differs from '%s'.\n", cfg.OutputPath, cfg.InputPath)
}

func summarizeKeys(keys []string) string {
	if len(keys) <= maxKeysListed {
		return strings.Join(keys, " ")
	}
	return strings.Join(keys[:maxKeysListed], " ") + fmt.Sprintf(" (+%d)", len(keys)-maxKeysListed)
}
