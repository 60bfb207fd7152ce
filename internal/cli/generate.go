package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"glbindgen/internal/adapters"
	"glbindgen/internal/app"
)

type generateOptions struct {
	targetFlags
	Format      bool
	ClangFormat string
	Jobs        int
}

func newGenerateCommand() *cobra.Command {
	opts := generateOptions{}
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate binding header and source for each target",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runGenerate(cmd.Context(), cmd, opts)
		},
	}
	addTargetFlags(cmd, &opts.targetFlags)
	cmd.Flags().BoolVar(&opts.Format, "format", false, "Run clang-format on generated files")
	cmd.Flags().StringVar(&opts.ClangFormat, "clang-format", "clang-format", "clang-format binary")
	cmd.Flags().IntVar(&opts.Jobs, "jobs", 4, "Targets generated in parallel")

	_ = viper.BindPFlag("format", cmd.Flags().Lookup("format"))
	_ = viper.BindPFlag("clang_format", cmd.Flags().Lookup("clang-format"))
	_ = viper.BindPFlag("jobs", cmd.Flags().Lookup("jobs"))
	return cmd
}

func runGenerate(ctx context.Context, cmd *cobra.Command, opts generateOptions) error {
	service := newAppService()
	service.Formatter = adapters.NewClangFormatAdapter(resolveString(cmd, opts.ClangFormat, "clang_format", "clang-format"))
	result, err := service.Generate(ctx, app.GenerateRequest{
		TargetOptions: opts.options(cmd),
		Format:        resolveBool(cmd, opts.Format, "format", "format"),
		Jobs:          resolveInt(cmd, opts.Jobs, "jobs", "jobs"),
	})
	if err != nil {
		return err
	}
	emitHints(cmd.ErrOrStderr(), result.Hints)
	for _, target := range result.Targets {
		fmt.Fprintf(cmd.OutOrStdout(), "generated %s: %d groups, %d unknown references, %d files in %s\n",
			target.Name, target.Groups, target.Unknown, len(target.Files), target.Dir)
	}
	return nil
}
