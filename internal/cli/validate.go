package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"glbindgen/internal/app"
)

const defaultTargetsFile = "glbindgen.targets.yaml"

type validateOptions struct {
	Targets string
}

func newValidateCommand() *cobra.Command {
	opts := validateOptions{}
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a targets file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runValidate(cmd.Context(), cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.Targets, "targets", defaultTargetsFile, "Targets file path")
	_ = viper.BindPFlag("targets", cmd.Flags().Lookup("targets"))
	return cmd
}

func runValidate(ctx context.Context, cmd *cobra.Command, opts validateOptions) error {
	service := newAppService()
	result, err := service.Validate(ctx, app.ValidateRequest{
		TargetsPath: resolveString(cmd, opts.Targets, "targets", "targets"),
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "validated: %s\n", strings.Join(result.Targets, ", "))
	return nil
}
