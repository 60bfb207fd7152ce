package cli

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"glbindgen/internal/app"
	"glbindgen/internal/shared"
)

// version is set at build time via ldflags.
var version = "dev"

const (
	envPrefix  = "GLBINDGEN"
	configName = "glbindgen"
)

type RootConfig struct {
	ConfigFile string
	LogLevel   string
	LogFormat  string
}

func Execute() {
	root := newRootCommand()
	if err := root.Execute(); err != nil {
		os.Exit(exitCodeForError(err))
	}
}

func newRootCommand() *cobra.Command {
	cfg := RootConfig{}
	cmd := &cobra.Command{
		Use:          "glbindgen",
		Short:        "Generate lazily resolved OpenGL bindings from Khronos registries",
		Version:      version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := initConfig(cfg.ConfigFile); err != nil {
				return err
			}
			setupLogging(cmd.ErrOrStderr(), viper.GetString("log_level"), viper.GetString("log_format"))
			return nil
		},
	}
	flags := cmd.PersistentFlags()
	flags.StringVar(&cfg.ConfigFile, "config", "", "Config file path")
	flags.StringVar(&cfg.LogLevel, "log-level", "info", "Log level (trace, debug, info, warn, error)")
	flags.StringVar(&cfg.LogFormat, "log-format", "console", "Log format (console, json)")
	_ = viper.BindPFlag("log_level", flags.Lookup("log-level"))
	_ = viper.BindPFlag("log_format", flags.Lookup("log-format"))

	cmd.AddCommand(
		newValidateCommand(),
		newResolveCommand(),
		newGenerateCommand(),
		newInspectCommand(),
		newProbeCommand(),
		newFetchCommand(),
	)
	return cmd
}

// initConfig loads the explicit config file, or glbindgen.yaml from the
// working directory or the user config directory when present.
func initConfig(configFile string) error {
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		viper.SetConfigName(configName)
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath(userConfigDir())
	}
	err := viper.ReadInConfig()
	var notFound viper.ConfigFileNotFoundError
	if err == nil || (configFile == "" && errors.As(err, &notFound)) {
		return nil
	}
	return errbuilder.New().
		WithCode(errbuilder.CodeInvalidArgument).
		WithMsg("failed to read config file").
		WithCause(err)
}

func userConfigDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, configName)
	}
	return filepath.Join("$HOME", ".config", configName)
}

func setupLogging(out io.Writer, level string, format string) {
	var writer io.Writer = zerolog.ConsoleWriter{Out: out}
	if strings.EqualFold(format, "json") {
		writer = out
	}
	log.Logger = zerolog.New(writer).With().Timestamp().Logger()
	zerolog.DefaultContextLogger = &log.Logger

	parsed, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || parsed == zerolog.NoLevel {
		parsed = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(parsed)
}

func newAppService() app.Service {
	return app.NewService()
}

// Exit codes: 2 invalid input, 3 malformed registry, 4 unknown symbol
// reference under strict selection, 5 missing files or internal failures.
func exitCodeForError(err error) int {
	switch errbuilder.CodeOf(err) {
	case errbuilder.CodeInvalidArgument, errbuilder.CodeAlreadyExists:
		if shared.IsMalformedRegistry(err) {
			return 3
		}
		return 2
	case errbuilder.CodeNotFound:
		if shared.IsUnknownSymbolReference(err) {
			return 4
		}
		return 5
	case errbuilder.CodeFailedPrecondition, errbuilder.CodeInternal:
		return 5
	default:
		return 1
	}
}
