package cli

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"glbindgen/internal/app"
)

type targetFlags struct {
	Targets  string
	Names    []string
	CacheDir string
	Refresh  bool
	Strict   bool
}

func addTargetFlags(cmd *cobra.Command, flags *targetFlags) {
	cmd.Flags().StringVar(&flags.Targets, "targets", defaultTargetsFile, "Targets file path")
	cmd.Flags().StringSliceVar(&flags.Names, "target", nil, "Target name(s) to run (default: all)")
	cmd.Flags().StringVar(&flags.CacheDir, "cache-dir", "", "Directory for downloaded registries")
	cmd.Flags().BoolVar(&flags.Refresh, "refresh", false, "Re-download URL registries")
	cmd.Flags().BoolVar(&flags.Strict, "strict", false, "Fail on unknown symbol references")

	_ = viper.BindPFlag("targets", cmd.Flags().Lookup("targets"))
	_ = viper.BindPFlag("target", cmd.Flags().Lookup("target"))
	_ = viper.BindPFlag("cache_dir", cmd.Flags().Lookup("cache-dir"))
	_ = viper.BindPFlag("refresh", cmd.Flags().Lookup("refresh"))
	_ = viper.BindPFlag("strict", cmd.Flags().Lookup("strict"))
}

func (f targetFlags) options(cmd *cobra.Command) app.TargetOptions {
	return app.TargetOptions{
		TargetsPath: resolveString(cmd, f.Targets, "targets", "targets"),
		Names:       resolveStrings(cmd, f.Names, "target", "target"),
		CacheDir:    resolveString(cmd, f.CacheDir, "cache_dir", "cache-dir"),
		Refresh:     resolveBool(cmd, f.Refresh, "refresh", "refresh"),
		Strict:      resolveBool(cmd, f.Strict, "strict", "strict"),
	}
}
