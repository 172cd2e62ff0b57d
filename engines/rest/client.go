// Package rest implements the estimation engine over an HTTP bridge. The
// bridge wraps an actual SEM estimator behind a single synchronous
// endpoint, POST {base}/v1/fit, speaking JSON in both directions.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/tmsalab/pathmodelfit"
	"github.com/tmsalab/pathmodelfit/internal/ctxlog"
)

// DefaultTimeout bounds a single estimation round-trip. Refits of large
// models are slow on the engine side, so this is generous.
const DefaultTimeout = 2 * time.Minute

const fitPath = "/v1/fit"

// Config configures a Client.
type Config struct {
	// BaseURL is the bridge's root, e.g. "http://localhost:8787".
	BaseURL string
	// Token, when set, is sent as a bearer token.
	Token string
	// Timeout bounds each request; DefaultTimeout when zero.
	Timeout time.Duration
	// HTTPClient overrides the default client, mainly for tests.
	HTTPClient *http.Client
}

// Client is a pathmodelfit.Engine backed by the HTTP bridge.
type Client struct {
	baseURL string
	token   string
	client  *http.Client
}

// New validates the config and builds a Client.
func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("engine base URL is required")
	}
	client := cfg.HTTPClient
	if client == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		client = &http.Client{Timeout: timeout}
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		token:   cfg.Token,
		client:  client,
	}, nil
}

// Fit submits one estimation to the bridge. A transport failure, a non-200
// status, and a non-converged solution are all returned as errors; the
// caller decides whether that aborts a larger pipeline.
func (c *Client) Fit(ctx context.Context, req pathmodelfit.Request) (*pathmodelfit.FitResult, error) {
	log := ctxlog.FromContext(ctx)

	body, err := json.Marshal(encodeRequest(req))
	if err != nil {
		return nil, fmt.Errorf("failed to encode fit request: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+fitPath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create fit request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.token)
	}

	log.Debug("Submitting estimation request",
		"url", httpReq.URL.String(),
		"table_constrained", req.Table != nil,
		"model_bytes", len(req.ModelText),
		"variables", req.Sample.Dim())

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to reach estimation engine: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("estimation engine returned %s: %s", resp.Status, strings.TrimSpace(string(snippet)))
	}

	var wire fitResponse
	if err := json.NewDecoder(resp.Body).Decode(&wire); err != nil {
		return nil, fmt.Errorf("failed to decode engine response: %w", err)
	}
	return decodeResponse(wire)
}

func decodeResponse(wire fitResponse) (*pathmodelfit.FitResult, error) {
	if !wire.Converged {
		if wire.Error != "" {
			return nil, fmt.Errorf("%w: %s", pathmodelfit.ErrNotConverged, wire.Error)
		}
		return nil, pathmodelfit.ErrNotConverged
	}
	if wire.ChiSquare == nil || wire.DF == nil {
		return nil, fmt.Errorf("engine response is missing chisq or df")
	}

	out := &pathmodelfit.FitResult{
		ChiSquare: *wire.ChiSquare,
		DF:        *wire.DF,
	}
	if len(wire.ParameterTable) > 0 {
		out.Table = decodeRows(wire.ParameterTable)
	}
	if wire.LatentCov != nil {
		lcov, err := pathmodelfit.NewMatrix(wire.LatentCov.Labels, wire.LatentCov.Values)
		if err != nil {
			return nil, fmt.Errorf("engine returned a malformed latent covariance matrix: %w", err)
		}
		out.LatentCov = lcov
	}
	if len(wire.FitMeasures) > 0 {
		out.FitMeasures = make(map[string]float64, len(wire.FitMeasures))
		for name, v := range wire.FitMeasures {
			out.FitMeasures[name] = floatOrNaN(v)
		}
	}
	return out, nil
}
