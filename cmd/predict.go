package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/okian/edumetrics/internal/domain/student"
	"github.com/okian/edumetrics/pkg/logger"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

type predictOptions struct {
	recordPath string
	modelPath  string
	asJSON     bool
}

func newPredictCmd() *cobra.Command {
	var opts predictOptions

	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Build one forecast report from a record file",
		Long: "Reads a feature record from a JSON or YAML file and prints its forecast report. " +
			"Logs go to stderr; the report goes to stdout.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPredict(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), opts)
		},
	}
	cmd.Flags().StringVarP(&opts.recordPath, "record", "r", "", "Path to a feature record (.json, .yaml or .yml)")
	cmd.Flags().StringVar(&opts.modelPath, "model", "", "Model artifact path (overrides config model_path)")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "Print the report as JSON")
	_ = cmd.MarkFlagRequired("record")
	return cmd
}

func runPredict(ctx context.Context, stdout, stderr io.Writer, opts predictOptions) error {
	rec, err := readRecord(opts.recordPath)
	if err != nil {
		return err
	}

	cfg, err := bootstrap(ctx, stderr)
	if err != nil {
		return err
	}
	if opts.modelPath != "" {
		cfg.ModelPath = opts.modelPath
	}

	svc := newService(cfg, logger.Get())
	if err := svc.Start(ctx); err != nil {
		return fmt.Errorf("failed to start service: %w", err)
	}
	defer svc.Stop()

	rep, err := svc.Forecast(ctx, rec)
	if err != nil {
		return err
	}

	if opts.asJSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(rep)
	}
	_, err = fmt.Fprintln(stdout, renderReport(rep))
	return err
}

// readRecord decodes a Draft from path and converts it to a Record. Files
// ending in .json are read as JSON; anything else as YAML. Unknown keys are
// rejected in both.
func readRecord(path string) (student.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return student.Record{}, fmt.Errorf("open record: %w", err)
	}
	defer func() { _ = f.Close() }()

	var d student.Draft
	if strings.EqualFold(filepath.Ext(path), ".json") {
		dec := json.NewDecoder(f)
		dec.DisallowUnknownFields()
		err = dec.Decode(&d)
	} else {
		dec := yaml.NewDecoder(f)
		dec.KnownFields(true)
		err = dec.Decode(&d)
	}
	if err != nil {
		return student.Record{}, fmt.Errorf("%w: decode %s: %w", student.ErrInvalidRecord, path, err)
	}
	return d.Record()
}
