package app

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"glbindgen/internal/adapters"
)

// Fetch downloads registry files by name from a base URL, or from explicit
// URLs, into OutputDir.
func (s Service) Fetch(ctx context.Context, req FetchRequest) (FetchResult, error) {
	outputDir := strings.TrimSpace(req.OutputDir)
	if outputDir == "" {
		return FetchResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("output directory is required")
	}
	baseURL := strings.TrimSpace(req.BaseURL)
	if baseURL == "" {
		baseURL = adapters.KhronosRegistryBaseURL
	}
	urls := append([]string(nil), req.URLs...)
	for _, name := range req.Names {
		urls = append(urls, strings.TrimRight(baseURL, "/")+"/"+strings.TrimLeft(name, "/"))
	}
	if len(urls) == 0 {
		return FetchResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("at least one registry name or URL is required")
	}
	if s.Fetcher == nil {
		return FetchResult{}, errbuilder.New().
			WithCode(errbuilder.CodeFailedPrecondition).
			WithMsg("registry fetcher is not configured")
	}

	result := FetchResult{}
	for _, rawURL := range urls {
		dest := filepath.Join(outputDir, registryFileName(rawURL))
		if err := s.Fetcher.Fetch(ctx, rawURL, dest); err != nil {
			return FetchResult{}, err
		}
		result.Files = append(result.Files, dest)
	}
	return result, nil
}
