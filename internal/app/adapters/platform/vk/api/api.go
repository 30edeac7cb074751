package api

import (
	"buttonhandler/internal/app/infrastructure/config"
	"buttonhandler/pkg/logger"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

type VK struct {
	log     logger.Logger
	cfg     config.VK
	client  *http.Client
	limiter *rate.Limiter
	backoff time.Duration
}

func New(log logger.Logger, cfg config.VK, client *http.Client) *VK {
	rps := max(cfg.RequestsPerSecond, 1)

	return &VK{
		log:     log,
		cfg:     cfg,
		client:  client,
		limiter: rate.NewLimiter(rate.Limit(rps), rps),
		backoff: baseBackoff,
	}
}

const (
	maxRetries  = 5
	baseBackoff = time.Second
	maxBackoff  = 30 * time.Second
)

type vkResponse struct {
	Response json.RawMessage `json:"response"`
	Error    *APIError       `json:"error"`
}

// call выполняет метод VK API, target может быть nil.
func (v *VK) call(ctx context.Context, method string, params url.Values, target any) error {
	endpoint := strings.TrimRight(v.cfg.BaseURL, "/") + "/" + method

	form := url.Values{}
	for k, vals := range params {
		form[k] = vals
	}
	form.Set("access_token", v.cfg.Token)
	form.Set("v", v.cfg.APIVersion)
	body := form.Encode()

	v.log.Trace("Preparing VK request", slog.String("method", method))

	for attempt := 1; attempt <= maxRetries; attempt++ {
		if err := v.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("%s: wait limiter: %w", method, err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(body))
		if err != nil {
			v.log.Error("Failed to create HTTP request", err, slog.String("method", method))
			return err
		}
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

		v.log.Debug("Sending VK request", slog.Int("attempt", attempt), slog.String("method", method))

		resp, err := v.client.Do(req)
		if err != nil {
			v.log.Error("HTTP request failed", err, slog.Int("attempt", attempt), slog.String("method", method))
			return fmt.Errorf("%s: %w", method, err)
		}

		raw, err := io.ReadAll(resp.Body)
		if cerr := resp.Body.Close(); cerr != nil {
			v.log.Error("Failed to close response body", cerr)
		}
		if err != nil {
			v.log.Error("Failed to read response body", err, slog.Int("status", resp.StatusCode), slog.String("method", method))
			return fmt.Errorf("%s: read body: %w", method, err)
		}

		v.log.Trace("Response received", slog.Int("status", resp.StatusCode), slog.String("body", string(raw)))

		if resp.StatusCode == http.StatusTooManyRequests {
			if err := v.wait(ctx, attempt, resp.Header.Get("Retry-After")); err != nil {
				return err
			}
			continue
		}
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("%s: %w: http status %d", method, ErrAPI, resp.StatusCode)
		}

		var envelope vkResponse
		if err := json.Unmarshal(raw, &envelope); err != nil {
			v.log.Error("Failed to decode response JSON", err, slog.String("body", string(raw)))
			return fmt.Errorf("%s: decode response: %w", method, err)
		}

		if envelope.Error != nil {
			if envelope.Error.retryable() {
				if err := v.wait(ctx, attempt, ""); err != nil {
					return err
				}
				continue
			}

			v.log.Error("VK API returned an error", envelope.Error, slog.String("method", method))
			return fmt.Errorf("%s: %w", method, envelope.Error)
		}

		if target == nil {
			return nil
		}
		if err := json.Unmarshal(envelope.Response, target); err != nil {
			return fmt.Errorf("%s: decode payload: %w", method, err)
		}

		v.log.Debug("Request succeeded", slog.String("method", method))
		return nil
	}

	v.log.Error("VK request failed after max retries", nil,
		slog.Int("maxRetries", maxRetries),
		slog.String("method", method),
	)
	return fmt.Errorf("%s: %w after %d retries", method, ErrRateLimited, maxRetries)
}

func (v *VK) wait(ctx context.Context, attempt int, retryAfter string) error {
	wait := calcWaitDuration(retryAfter)
	if wait <= 0 {
		wait = time.Duration(attempt) * v.backoff
	}
	if wait > maxBackoff {
		wait = maxBackoff
	}

	v.log.Warn("Rate limit hit, backing off", slog.Int("attempt", attempt), slog.String("wait", wait.String()))

	timer := time.NewTimer(wait)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return fmt.Errorf("%w: %w", ErrRateLimited, ctx.Err())
	case <-timer.C:
		return nil
	}
}

// calcWaitDuration читает Retry-After в секундах.
func calcWaitDuration(retryAfter string) time.Duration {
	if retryAfter == "" {
		return 0
	}

	secs, err := strconv.Atoi(retryAfter)
	if err != nil || secs <= 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}
