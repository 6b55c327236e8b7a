// Package recognition provides domain.FoodRecognizer implementations.
package recognition

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/nutriscan/backend/internal/domain"
	"github.com/nutriscan/backend/internal/logger"
)

const (
	maxAttempts      = 3
	maxResponseBytes = 1 << 20
	defaultTimeout   = 30 * time.Second
)

// ClientConfig configures the predictor client
type ClientConfig struct {
	BaseURL string
	Timeout time.Duration
	// RequestsPerMinute caps outbound calls; zero disables the limiter
	RequestsPerMinute int
}

// Client calls an image classification service that answers POST /predict
type Client struct {
	httpClient  *http.Client
	baseURL     string
	rateLimiter *rate.Limiter
	logger      *zap.Logger
}

// predictResponse is the predictor's body. Older services answer with "ingredient".
type predictResponse struct {
	Ingredient   string              `json:"ingredient"`
	Name         string              `json:"name"`
	Confidence   float64             `json:"confidence"`
	Alternatives []domain.Prediction `json:"alternatives"`
	Error        string              `json:"error"`
}

// NewClient creates a predictor client
func NewClient(cfg ClientConfig, log *zap.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	limiter := rate.NewLimiter(rate.Inf, 1)
	if cfg.RequestsPerMinute > 0 {
		limiter = rate.NewLimiter(rate.Limit(float64(cfg.RequestsPerMinute)/60), cfg.RequestsPerMinute)
	}

	return &Client{
		httpClient:  &http.Client{Timeout: timeout},
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		rateLimiter: limiter,
		logger:      logger.OrNop(log).Named("predictor"),
	}
}

// Recognize uploads the image and returns the predicted food.
// Transport failures and 5xx answers are retried with backoff; 4xx answers are not.
func (c *Client) Recognize(ctx context.Context, image domain.Image) (*domain.Recognition, error) {
	body, contentType, err := encodeImage(image)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrRecognitionFailed, err)
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("%w: rate limiter: %v", domain.ErrRecognitionFailed, err)
		}

		recognition, retry, err := c.predict(ctx, body, contentType)
		if err == nil {
			return recognition, nil
		}
		lastErr = err
		c.logger.Warn("predict attempt failed", zap.Int("attempt", attempt), zap.Error(err))
		if !retry || attempt == maxAttempts {
			break
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %v", domain.ErrRecognitionFailed, ctx.Err())
		case <-time.After(exponentialBackoff(attempt)):
		}
	}

	return nil, lastErr
}

func (c *Client) predict(ctx context.Context, body []byte, contentType string) (*domain.Recognition, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/predict", bytes.NewReader(body))
	if err != nil {
		return nil, false, fmt.Errorf("%w: %v", domain.ErrRecognitionFailed, err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("User-Agent", "NutriScan/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, true, fmt.Errorf("%w: %v", domain.ErrRecognitionFailed, err)
	}
	defer resp.Body.Close()

	data, err := readLimitedBody(resp.Body, maxResponseBytes)
	if err != nil {
		return nil, true, fmt.Errorf("%w: %v", domain.ErrRecognitionFailed, err)
	}

	if resp.StatusCode != http.StatusOK {
		retry := resp.StatusCode >= http.StatusInternalServerError || resp.StatusCode == http.StatusTooManyRequests
		return nil, retry, fmt.Errorf("%w: status %d", domain.ErrRecognitionFailed, resp.StatusCode)
	}

	var decoded predictResponse
	if err := json.Unmarshal(data, &decoded); err != nil {
		return nil, false, fmt.Errorf("%w: decode response: %v", domain.ErrRecognitionFailed, err)
	}
	recognition, err := decoded.toRecognition()
	if err != nil {
		return nil, false, err
	}
	return recognition, false, nil
}

func (r predictResponse) toRecognition() (*domain.Recognition, error) {
	if r.Error != "" {
		return nil, fmt.Errorf("%w: %s", domain.ErrRecognitionFailed, r.Error)
	}

	name := strings.TrimSpace(r.Name)
	if name == "" {
		name = strings.TrimSpace(r.Ingredient)
	}
	if name == "" {
		return nil, fmt.Errorf("%w: empty prediction", domain.ErrRecognitionFailed)
	}

	alternatives := make([]domain.Prediction, 0, len(r.Alternatives))
	for _, alt := range r.Alternatives {
		if alt.Name = strings.TrimSpace(alt.Name); alt.Name == "" {
			continue
		}
		alt.Confidence = clampConfidence(alt.Confidence)
		alternatives = append(alternatives, alt)
	}

	return &domain.Recognition{
		Primary:      domain.Prediction{Name: name, Confidence: clampConfidence(r.Confidence)},
		Alternatives: alternatives,
	}, nil
}

func encodeImage(image domain.Image) ([]byte, string, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	filename := image.Filename
	if filename == "" {
		filename = "upload"
	}
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="image"; filename=%q`, filename))
	header.Set("Content-Type", image.ContentType)

	part, err := writer.CreatePart(header)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(image.Data); err != nil {
		return nil, "", err
	}
	if err := writer.Close(); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), writer.FormDataContentType(), nil
}

// exponentialBackoff returns 500ms, 1s, 2s, ... for attempts 1, 2, 3, ...
func exponentialBackoff(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	return time.Duration(500*(1<<(attempt-1))) * time.Millisecond
}

func readLimitedBody(r io.Reader, limit int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("response exceeds %d bytes", limit)
	}
	return data, nil
}

func clampConfidence(v float64) float64 {
	switch {
	case math.IsNaN(v) || v < 0:
		return 0
	case v > 100:
		return 1
	case v > 1:
		// percentage scale
		return v / 100
	default:
		return v
	}
}
