package genai

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

type HTTPGeneratorConfig struct {
	Name       string
	BaseURL    string
	Path       string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// HTTPGenerator delegates generation to a diffusion service:
//
//	POST <base>/<path>  {"image", "prompt", "negative_prompt"}
//	->  {"url", "time_taken_sec"}
//
// Generation is slow, so there are no retries; one attempt per request.
type HTTPGenerator struct {
	name    string
	baseURL string
	path    string
	client  *http.Client
	timeout time.Duration
}

func NewHTTPGenerator(cfg HTTPGeneratorConfig) (*HTTPGenerator, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("generator base url required")
	}
	name := cfg.Name
	if name == "" {
		name = "offline"
	}
	path := cfg.Path
	if path == "" {
		path = "/generate"
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 5 * time.Minute}
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 3 * time.Minute
	}
	return &HTTPGenerator{
		name:    name,
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		path:    path,
		client:  client,
		timeout: timeout,
	}, nil
}

func (g *HTTPGenerator) Generate(ctx context.Context, imageRef, roomType, style string) (models.GeneratedImage, error) {
	payload := map[string]string{
		"image":           imageRef,
		"prompt":          fmt.Sprintf(PromptTemplate, roomType, style),
		"negative_prompt": NegativePrompt,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return models.GeneratedImage{}, fmt.Errorf("generator marshal request: %w", err)
	}

	reqCtx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()
	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, g.baseURL+g.path, bytes.NewReader(body))
	if err != nil {
		return models.GeneratedImage{}, fmt.Errorf("generator build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return models.GeneratedImage{}, fmt.Errorf("generation failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return models.GeneratedImage{}, fmt.Errorf("generator returned %s", resp.Status)
	}

	var doc struct {
		URL          string  `json:"url"`
		TimeTakenSec float64 `json:"time_taken_sec"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return models.GeneratedImage{}, fmt.Errorf("decode generator response: %v", err)
	}
	return models.GeneratedImage{
		URL:          doc.URL,
		Provider:     g.name,
		TimeTakenSec: doc.TimeTakenSec,
	}, nil
}
