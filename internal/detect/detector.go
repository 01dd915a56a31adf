// Package detect is the boundary to the external furniture-detection model
// service.
package detect

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/roomcraft/designer/internal/models"
)

type Detector interface {
	// Detect runs object detection against a stored image and returns the
	// recognized furniture instances. Failures are detection-stage errors
	// and propagate to the caller.
	Detect(ctx context.Context, imageRef string) ([]models.Detection, error)
}

type HTTPClientConfig struct {
	BaseURL    string
	Path       string
	Timeout    time.Duration
	Retries    int
	HTTPClient *http.Client
}

// HTTPClient calls a detection service:
//
//	POST <base>/<path>  {"image": "<ref>"}  ->  {"detections": [...]}
type HTTPClient struct {
	baseURL string
	path    string
	client  *http.Client
	timeout time.Duration
	retries int
}

func NewHTTPClient(cfg HTTPClientConfig) (*HTTPClient, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("detector base url required")
	}
	path := cfg.Path
	if path == "" {
		path = "/detect"
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	retries := cfg.Retries
	if retries < 0 {
		retries = 0
	}
	return &HTTPClient{
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		path:    path,
		client:  client,
		timeout: timeout,
		retries: retries,
	}, nil
}

func (c *HTTPClient) Detect(ctx context.Context, imageRef string) ([]models.Detection, error) {
	body, err := json.Marshal(map[string]string{"image": imageRef})
	if err != nil {
		return nil, fmt.Errorf("detector marshal request: %w", err)
	}

	attempts := c.retries + 1
	var lastErr error
	for i := 0; i < attempts; i++ {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
		req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, c.baseURL+c.path, bytes.NewReader(body))
		if err != nil {
			cancel()
			return nil, fmt.Errorf("detector build request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		resp, err := c.client.Do(req)
		cancel()
		if err != nil {
			lastErr = err
		} else {
			detections, parseErr := decodeDetections(resp)
			resp.Body.Close()
			if parseErr == nil {
				return detections, nil
			}
			lastErr = parseErr
		}
		if i < attempts-1 {
			time.Sleep(time.Duration(i+1) * 100 * time.Millisecond)
		}
	}
	return nil, fmt.Errorf("detection failed: %w", lastErr)
}

func decodeDetections(resp *http.Response) ([]models.Detection, error) {
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("detector returned %s", resp.Status)
	}
	var doc struct {
		Detections []models.Detection `json:"detections"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode detector response: %v", err)
	}
	return doc.Detections, nil
}
