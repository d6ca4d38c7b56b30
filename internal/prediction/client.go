// Package prediction integrates the external score forecasting service.
// The service is best effort: any failure yields a nil forecast and the
// caller proceeds without one.
package prediction

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/sekolahku/penilaian-api/internal/grading"
	"github.com/sekolahku/penilaian-api/pkg/config"
)

// Client calls the external prediction service over HTTP.
type Client struct {
	httpClient *http.Client
	url        string
	enabled    bool
	logger     *zap.Logger
}

// NewClient builds a prediction client from configuration.
func NewClient(cfg config.PredictionConfig, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		url:        cfg.URL,
		enabled:    cfg.Enabled && cfg.URL != "",
		logger:     logger,
	}
}

// predictRequest mirrors the field names expected by the upstream service.
type predictRequest struct {
	Matematika float64 `json:"Matematika"`
	IPA        float64 `json:"IPA"`
	IPS        float64 `json:"IPS"`
	BIndonesia float64 `json:"B.Indonesia"`
	BInggris   float64 `json:"B.Inggris"`
	Semester   string  `json:"Semester"`
}

// Predict requests a forecast for the given scores. It returns the raw
// response body, or nil when the service is disabled or the call fails.
func (c *Client) Predict(ctx context.Context, scores grading.Scores, semester string) json.RawMessage {
	if !c.enabled {
		return nil
	}

	payload, err := json.Marshal(predictRequest{
		Matematika: scores.Matematika,
		IPA:        scores.IPA,
		IPS:        scores.IPS,
		BIndonesia: scores.BIndonesia,
		BInggris:   scores.BInggris,
		Semester:   semester,
	})
	if err != nil {
		c.logger.Warn("failed to encode prediction request", zap.Error(err))
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		c.logger.Warn("failed to build prediction request", zap.Error(err))
		return nil
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("prediction service unreachable", zap.Error(err))
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Warn("prediction service returned error status",
			zap.Int("status", resp.StatusCode))
		return nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.logger.Warn("failed to read prediction response", zap.Error(err))
		return nil
	}
	if !json.Valid(body) {
		c.logger.Warn("prediction service returned invalid json")
		return nil
	}
	return body
}
