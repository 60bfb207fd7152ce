package cli

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// configured returns the flag value when it was set on the command line and
// the viper value for key otherwise. A nil command keeps the given value.
func configured[T any](cmd *cobra.Command, value T, key string, flagName string, lookup func(string) T) T {
	if cmd == nil || flagChanged(cmd, flagName) {
		return value
	}
	return lookup(key)
}

func resolveString(cmd *cobra.Command, value string, key string, flagName string) string {
	return configured(cmd, value, key, flagName, viper.GetString)
}

func resolveStrings(cmd *cobra.Command, values []string, key string, flagName string) []string {
	return configured(cmd, values, key, flagName, viper.GetStringSlice)
}

func resolveBool(cmd *cobra.Command, value bool, key string, flagName string) bool {
	return configured(cmd, value, key, flagName, viper.GetBool)
}

func resolveInt(cmd *cobra.Command, value int, key string, flagName string) int {
	return configured(cmd, value, key, flagName, viper.GetInt)
}

func flagChanged(cmd *cobra.Command, name string) bool {
	name = strings.TrimSpace(name)
	if cmd == nil || name == "" {
		return false
	}
	for _, set := range []*pflag.FlagSet{cmd.Flags(), cmd.PersistentFlags()} {
		if flag := set.Lookup(name); flag != nil {
			return flag.Changed
		}
	}
	return false
}
