package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

// ErrModelsMissing is returned by check when a stage model is not served.
var ErrModelsMissing = errors.New("some stage models are not available")

// checkModels reports whether every stage model of cfg is served by provider.
func checkModels(ctx context.Context, provider LLMProvider, models ModelSet, out io.Writer) error {
	missing := 0
	for _, stage := range Stages {
		m := models.For(stage)
		ok, err := provider.Available(ctx, m.Name)
		if err != nil {
			return fmt.Errorf("checking %s model %s: %w", stage, m.Name, err)
		}
		status := "available"
		if !ok {
			status = "missing"
			missing++
		}
		fmt.Fprintf(out, "%-10s %-24s %s\n", stage, m.Name, status)
	}
	if missing > 0 {
		return ErrModelsMissing
	}
	return nil
}

// NewCheckCmd creates the check command.
func NewCheckCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Check that the backend serves every configured model",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.loadConfig(cmd)
			if err != nil {
				return err
			}
			provider, err := createProvider(cfg)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "backend: %s\n", provider.Name())
			return checkModels(cmd.Context(), provider, cfg.Models, cmd.OutOrStdout())
		},
	}
}
