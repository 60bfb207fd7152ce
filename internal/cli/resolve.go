package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"glbindgen/internal/app"
)

type resolveOptions struct {
	targetFlags
	WriteReports bool
}

func newResolveCommand() *cobra.Command {
	opts := resolveOptions{}
	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Resolve targets and print the symbols each group introduces",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runResolve(cmd.Context(), cmd, opts)
		},
	}
	addTargetFlags(cmd, &opts.targetFlags)
	cmd.Flags().BoolVar(&opts.WriteReports, "write-reports", false, "Write resolution.lock and unknown.report to each output directory")
	_ = viper.BindPFlag("write_reports", cmd.Flags().Lookup("write-reports"))
	return cmd
}

func runResolve(ctx context.Context, cmd *cobra.Command, opts resolveOptions) error {
	service := newAppService()
	result, err := service.Resolve(ctx, app.ResolveRequest{
		TargetOptions: opts.options(cmd),
		WriteReports:  resolveBool(cmd, opts.WriteReports, "write_reports", "write-reports"),
	})
	if err != nil {
		return err
	}
	emitHints(cmd.ErrOrStderr(), result.Hints)

	var rows [][]string
	for _, target := range result.Targets {
		for _, group := range target.Groups {
			rows = append(rows, []string{
				target.Name,
				group.Name,
				string(group.Kind),
				strconv.Itoa(group.Types),
				strconv.Itoa(group.Enums),
				strconv.Itoa(group.Commands),
			})
		}
	}
	out := cmd.OutOrStdout()
	renderTable(out, []string{"TARGET", "GROUP", "KIND", "TYPES", "ENUMS", "COMMANDS"}, rows)
	for _, target := range result.Targets {
		for _, ref := range target.Unknown {
			fmt.Fprintf(out, "unknown %s %s in %s (%s)\n", ref.Kind, ref.Name, ref.Group, target.Source)
		}
		for _, file := range target.Files {
			fmt.Fprintf(out, "wrote %s\n", file)
		}
	}
	return nil
}
