package adapters

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"glbindgen/internal/ports"
	"glbindgen/internal/shared"
)

// KhronosRegistryBaseURL serves gl.xml, wgl.xml and glx.xml.
const KhronosRegistryBaseURL = "https://raw.githubusercontent.com/KhronosGroup/OpenGL-Registry/main/xml/"

const defaultHTTPTimeout = 60 * time.Second
const defaultHTTPRetries = 3
const defaultHTTPRetryDelay = 200 * time.Millisecond
const maxHTTPRetryDelay = 2 * time.Second

type httpRetryConfig struct {
	timeout   time.Duration
	retries   int
	baseDelay time.Duration
}

func normalizeHTTPConfig(timeoutSec int, retries int, delayMs int) httpRetryConfig {
	timeout := time.Duration(timeoutSec) * time.Second
	if timeout <= 0 {
		timeout = defaultHTTPTimeout
	}
	retryCount := retries
	if retryCount <= 0 {
		retryCount = defaultHTTPRetries
	}
	baseDelay := time.Duration(delayMs) * time.Millisecond
	if baseDelay <= 0 {
		baseDelay = defaultHTTPRetryDelay
	}
	return httpRetryConfig{
		timeout:   timeout,
		retries:   retryCount,
		baseDelay: baseDelay,
	}
}

type RegistryFetchAdapter struct {
	cfg httpRetryConfig
}

func NewRegistryFetchAdapter(timeoutSec int, retries int, delayMs int) RegistryFetchAdapter {
	return RegistryFetchAdapter{cfg: normalizeHTTPConfig(timeoutSec, retries, delayMs)}
}

// Fetch downloads url into dest. The body is written to a temporary file in
// the destination directory first, so dest is either complete or untouched.
func (a RegistryFetchAdapter) Fetch(ctx context.Context, url string, dest string) error {
	if strings.TrimSpace(dest) == "" {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("fetch destination is empty")
	}
	resp, err := doRequest(ctx, url, a.cfg)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		code := errbuilder.CodeInternal
		if resp.StatusCode == http.StatusNotFound {
			code = errbuilder.CodeNotFound
		}
		return errbuilder.New().
			WithCode(code).
			WithMsg(fmt.Sprintf("failed to fetch registry %s", url)).
			WithCause(shared.HTTPStatusErrorWithBody(resp.StatusCode, url, strings.TrimSpace(string(body))))
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to create fetch directory").
			WithCause(err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(dest), "."+filepath.Base(dest)+".*")
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to create temporary file").
			WithCause(err)
	}
	defer os.Remove(tmp.Name())
	written, err := io.Copy(tmp, resp.Body)
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg(fmt.Sprintf("failed to download registry %s", url)).
			WithCause(err)
	}
	if err := os.Rename(tmp.Name(), dest); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to move registry into place").
			WithCause(err)
	}
	log.Ctx(ctx).Debug().Str("url", url).Str("dest", dest).Int64("bytes", written).Msg("registry fetched")
	return nil
}

func doRequest(ctx context.Context, url string, cfg httpRetryConfig) (*http.Response, error) {
	client := &http.Client{Timeout: cfg.timeout}
	var lastErr error
	for attempt := 0; attempt < cfg.retries; attempt++ {
		if ctx.Err() != nil {
			return nil, canceledError(ctx)
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, errbuilder.New().
				WithCode(errbuilder.CodeInternal).
				WithMsg("failed to create request").
				WithCause(err)
		}
		resp, err := client.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, canceledError(ctx)
			}
			lastErr = err
			if attempt < cfg.retries-1 {
				log.Ctx(ctx).Debug().Err(err).Str("url", url).Int("attempt", attempt+1).Msg("retrying request")
				if err := waitRetry(ctx, httpRetryDelay(attempt, cfg)); err != nil {
					return nil, err
				}
				continue
			}
			return nil, errbuilder.New().
				WithCode(errbuilder.CodeInternal).
				WithMsg("request failed").
				WithCause(err)
		}
		if (resp.StatusCode >= http.StatusInternalServerError || resp.StatusCode == http.StatusTooManyRequests) && attempt < cfg.retries-1 {
			_, _ = io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			log.Ctx(ctx).Debug().Int("status", resp.StatusCode).Str("url", url).Int("attempt", attempt+1).Msg("retrying request")
			if err := waitRetry(ctx, httpRetryDelay(attempt, cfg)); err != nil {
				return nil, err
			}
			continue
		}
		return resp, nil
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("request failed")
	}
	return nil, errbuilder.New().
		WithCode(errbuilder.CodeInternal).
		WithMsg("request failed").
		WithCause(lastErr)
}

// waitRetry blocks for d or until ctx is done.
func waitRetry(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return canceledError(ctx)
	case <-timer.C:
		return nil
	}
}

func canceledError(ctx context.Context) error {
	return errbuilder.New().
		WithCode(errbuilder.CodeInternal).
		WithMsg("request canceled").
		WithCause(ctx.Err())
}

func httpRetryDelay(attempt int, cfg httpRetryConfig) time.Duration {
	delay := cfg.baseDelay * time.Duration(1<<attempt)
	if delay > maxHTTPRetryDelay {
		delay = maxHTTPRetryDelay
	}
	jitter := time.Duration(time.Now().UnixNano() % int64(delay/2+1))
	return delay + jitter
}

var _ ports.RegistryFetchPort = RegistryFetchAdapter{}
