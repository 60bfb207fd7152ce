package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"glbindgen/internal/app"
)

type inspectOptions struct {
	OutputDir string
}

func newInspectCommand() *cobra.Command {
	opts := inspectOptions{}
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Summarize the resolution report of a generated output directory",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInspect(cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.OutputDir, "output", "out", "Output directory")
	_ = viper.BindPFlag("output", cmd.Flags().Lookup("output"))
	return cmd
}

func runInspect(cmd *cobra.Command, opts inspectOptions) error {
	service := newAppService()
	result, err := service.Inspect(app.InspectRequest{
		OutputDir: resolveString(cmd, opts.OutputDir, "output", "output"),
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "resolution.lock entries: %d\n", result.Entries)
	var rows [][]string
	for _, group := range result.Groups {
		rows = append(rows, []string{
			group.Name,
			string(group.Kind),
			strconv.Itoa(group.Types),
			strconv.Itoa(group.Enums),
			strconv.Itoa(group.Commands),
		})
	}
	renderTable(out, []string{"GROUP", "KIND", "TYPES", "ENUMS", "COMMANDS"}, rows)
	fmt.Fprintf(out, "unknown.report references: %d\n", len(result.Unknown))
	for _, ref := range result.Unknown {
		fmt.Fprintf(out, "- %s %s in %s\n", ref.Kind, ref.Name, ref.Group)
	}
	return nil
}
