package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"glbindgen/internal/app"
)

type probeOptions struct {
	targetFlags
	Symbols string
}

func newProbeCommand() *cobra.Command {
	opts := probeOptions{}
	cmd := &cobra.Command{
		Use:   "probe",
		Short: "Check which groups of a target an exported symbol list supports",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runProbe(cmd.Context(), cmd, opts)
		},
	}
	addTargetFlags(cmd, &opts.targetFlags)
	cmd.Flags().StringVar(&opts.Symbols, "symbols", "", "Exported symbol list (names or nm output)")
	_ = viper.BindPFlag("symbols", cmd.Flags().Lookup("symbols"))
	return cmd
}

func runProbe(ctx context.Context, cmd *cobra.Command, opts probeOptions) error {
	service := newAppService()
	result, err := service.Probe(ctx, app.ProbeRequest{
		TargetOptions: opts.options(cmd),
		SymbolsPath:   resolveString(cmd, opts.Symbols, "symbols", "symbols"),
	})
	if err != nil {
		return err
	}

	var rows [][]string
	for _, status := range result.Statuses {
		state := "missing"
		if status.Supported {
			state = "supported"
		}
		rows = append(rows, []string{
			status.Name,
			string(status.Kind),
			state,
			strconv.Itoa(status.Resolved),
			strings.Join(status.Missing, " "),
		})
	}
	out := cmd.OutOrStdout()
	renderTable(out, []string{"GROUP", "KIND", "STATUS", "RESOLVED", "MISSING"}, rows)
	fmt.Fprintf(out, "%s: %d of %d groups supported by %d symbols\n",
		result.Target, result.Supported, len(result.Statuses), result.Symbols)
	return nil
}
