package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"glbindgen/internal/adapters"
	"glbindgen/internal/app"
)

type fetchOptions struct {
	BaseURL          string
	Names            []string
	URLs             []string
	OutputDir        string
	HTTPTimeoutSec   int
	HTTPRetries      int
	HTTPRetryDelayMs int
}

func newFetchCommand() *cobra.Command {
	opts := fetchOptions{}
	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Download registry files from the Khronos registry",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runFetch(cmd.Context(), cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.BaseURL, "base-url", adapters.KhronosRegistryBaseURL, "Registry base URL")
	cmd.Flags().StringSliceVar(&opts.Names, "name", []string{"gl.xml", "wgl.xml", "glx.xml"}, "Registry file name(s) under the base URL")
	cmd.Flags().StringSliceVar(&opts.URLs, "url", nil, "Additional registry URL(s)")
	cmd.Flags().StringVar(&opts.OutputDir, "output", "registry", "Directory to write registry files to")
	cmd.Flags().IntVar(&opts.HTTPTimeoutSec, "http-timeout", 60, "HTTP timeout in seconds")
	cmd.Flags().IntVar(&opts.HTTPRetries, "http-retries", 3, "HTTP retries")
	cmd.Flags().IntVar(&opts.HTTPRetryDelayMs, "http-retry-delay-ms", 200, "HTTP retry base delay in milliseconds")

	_ = viper.BindPFlag("base_url", cmd.Flags().Lookup("base-url"))
	_ = viper.BindPFlag("names", cmd.Flags().Lookup("name"))
	_ = viper.BindPFlag("urls", cmd.Flags().Lookup("url"))
	_ = viper.BindPFlag("fetch_output", cmd.Flags().Lookup("output"))
	_ = viper.BindPFlag("http_timeout", cmd.Flags().Lookup("http-timeout"))
	_ = viper.BindPFlag("http_retries", cmd.Flags().Lookup("http-retries"))
	_ = viper.BindPFlag("http_retry_delay_ms", cmd.Flags().Lookup("http-retry-delay-ms"))
	return cmd
}

func runFetch(ctx context.Context, cmd *cobra.Command, opts fetchOptions) error {
	service := newAppService()
	service.Fetcher = adapters.NewRegistryFetchAdapter(
		resolveInt(cmd, opts.HTTPTimeoutSec, "http_timeout", "http-timeout"),
		resolveInt(cmd, opts.HTTPRetries, "http_retries", "http-retries"),
		resolveInt(cmd, opts.HTTPRetryDelayMs, "http_retry_delay_ms", "http-retry-delay-ms"),
	)
	result, err := service.Fetch(ctx, app.FetchRequest{
		BaseURL:   resolveString(cmd, opts.BaseURL, "base_url", "base-url"),
		Names:     resolveStrings(cmd, opts.Names, "names", "name"),
		URLs:      resolveStrings(cmd, opts.URLs, "urls", "url"),
		OutputDir: resolveString(cmd, opts.OutputDir, "fetch_output", "output"),
	})
	if err != nil {
		return err
	}
	for _, file := range result.Files {
		fmt.Fprintf(cmd.OutOrStdout(), "fetched %s\n", file)
	}
	return nil
}
