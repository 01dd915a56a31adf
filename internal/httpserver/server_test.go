package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roomcraft/designer/internal/budget"
	"github.com/roomcraft/designer/internal/catalog"
	"github.com/roomcraft/designer/internal/config"
	"github.com/roomcraft/designer/internal/genai"
	"github.com/roomcraft/designer/internal/models"
	"github.com/roomcraft/designer/internal/replace"
	"github.com/roomcraft/designer/internal/service"
	"github.com/roomcraft/designer/internal/storage"
	"github.com/roomcraft/designer/internal/vendor"
)

type stubStore struct{}

func (stubStore) SaveUpload(ctx context.Context, data []byte, filename string) (storage.StoredFile, error) {
	return storage.StoredFile{Name: "u1.jpg", Ref: "storage/uploads/u1.jpg"}, nil
}

type stubDetector struct {
	detections []models.Detection
}

func (s stubDetector) Detect(ctx context.Context, imageRef string) ([]models.Detection, error) {
	return s.detections, nil
}

type stubVendorSource struct{}

func (stubVendorSource) Lookup(ctx context.Context, category string) ([]models.VendorLink, error) {
	return []models.VendorLink{{Title: "Link", URL: "https://shop.example/1", Vendor: "shop"}}, nil
}

type stubGenerator struct{}

func (stubGenerator) Generate(ctx context.Context, imageRef, roomType, style string) (models.GeneratedImage, error) {
	return models.GeneratedImage{URL: "http://host/generated/out.png", Provider: "offline", TimeTakenSec: 1.5}, nil
}

func newTestRouter(t *testing.T, jwtSecret string) http.Handler {
	t.Helper()
	cat := catalog.NewStatic(map[string][]models.CandidateItem{
		"sofa": {{Category: "sofa", Name: "Basic Sofa", Price: 90}},
		"lamp": {{Category: "lamp", Name: "Desk Lamp", Price: 30}},
	})
	cache := vendor.NewCache(vendor.CacheConfig{Source: stubVendorSource{}, TTL: time.Minute})
	registry := genai.NewRegistry()
	registry.Register("offline", stubGenerator{})

	svc := service.New(stubStore{}, stubDetector{detections: []models.Detection{
		{Category: "sofa", Confidence: 0.9},
		{Category: "lamp", Confidence: 0.8},
	}}, replace.New(cat), cache, budget.New(0.10), registry, nil)

	cfg := config.Config{
		Addr:       ":0",
		StorageDir: t.TempDir(),
		JWTSecret:  jwtSecret,
	}
	return New(cfg, svc).Router()
}

func multipartBody(t *testing.T, fields map[string]string, withImage bool) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	if withImage {
		part, err := writer.CreateFormFile("image", "room.jpg")
		require.NoError(t, err)
		_, err = part.Write([]byte{0xFF, 0xD8, 0xFF, 0xE0})
		require.NoError(t, err)
	}
	for key, value := range fields {
		require.NoError(t, writer.WriteField(key, value))
	}
	require.NoError(t, writer.Close())
	return &buf, writer.FormDataContentType()
}

func TestHealth(t *testing.T) {
	router := newTestRouter(t, "")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, true, resp["ok"])
}

func TestDetectEndpoint(t *testing.T) {
	router := newTestRouter(t, "")
	body, contentType := multipartBody(t, map[string]string{"budget": "200"}, true)
	req := httptest.NewRequest("POST", "/vision/detect", body)
	req.Header.Set("Content-Type", contentType)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp models.DetectResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Detections, 2)
	require.Len(t, resp.Suggestions, 2)
	assert.Equal(t, "lamp", resp.Suggestions[0].Category)
	assert.Equal(t, 80, resp.RemainingBudget)
	assert.Len(t, resp.OnlineSuggestions, 2)
}

func TestDetectEndpointRequiresImage(t *testing.T) {
	router := newTestRouter(t, "")
	body, contentType := multipartBody(t, map[string]string{"budget": "200"}, false)
	req := httptest.NewRequest("POST", "/vision/detect", body)
	req.Header.Set("Content-Type", contentType)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDetectEndpointRejectsBadBudget(t *testing.T) {
	router := newTestRouter(t, "")
	for _, raw := range []string{"", "abc", "-5"} {
		body, contentType := multipartBody(t, map[string]string{"budget": raw}, true)
		req := httptest.NewRequest("POST", "/vision/detect", body)
		req.Header.Set("Content-Type", contentType)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code, "budget %q", raw)
	}
}

func TestGenerateEndpoint(t *testing.T) {
	router := newTestRouter(t, "")
	body, contentType := multipartBody(t, map[string]string{
		"budget":    "260000",
		"room_type": "Living Room",
		"style":     "Modern",
		"provider":  "offline",
	}, true)
	req := httptest.NewRequest("POST", "/api/generate", body)
	req.Header.Set("Content-Type", contentType)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp models.GenerateResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "offline", resp.ProviderUsed)
	assert.Equal(t, 250000, resp.EstimatedCost)
	assert.Equal(t, "within_budget", resp.Status)
}

func TestGenerateEndpointUnknownProvider(t *testing.T) {
	router := newTestRouter(t, "")
	body, contentType := multipartBody(t, map[string]string{
		"budget":   "100000",
		"style":    "Modern",
		"provider": "dalle",
	}, true)
	req := httptest.NewRequest("POST", "/api/generate", body)
	req.Header.Set("Content-Type", contentType)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGenerateEndpointUnknownStyle(t *testing.T) {
	router := newTestRouter(t, "")
	body, contentType := multipartBody(t, map[string]string{
		"budget":   "100000",
		"style":    "Gothic",
		"provider": "offline",
	}, true)
	req := httptest.NewRequest("POST", "/api/generate", body)
	req.Header.Set("Content-Type", contentType)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAuthRequiredWhenSecretConfigured(t *testing.T) {
	const secret = "test-secret"
	router := newTestRouter(t, secret)
	body, contentType := multipartBody(t, map[string]string{"budget": "200"}, true)

	req := httptest.NewRequest("POST", "/vision/detect", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// A valid HS256 token gets through.
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "frontend",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)

	body, contentType = multipartBody(t, map[string]string{"budget": "200"}, true)
	req = httptest.NewRequest("POST", "/vision/detect", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+signed)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestAuthRejectsBadToken(t *testing.T) {
	router := newTestRouter(t, "test-secret")
	body, contentType := multipartBody(t, map[string]string{"budget": "200"}, true)
	req := httptest.NewRequest("POST", "/vision/detect", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer not-a-token")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRootStatus(t *testing.T) {
	router := newTestRouter(t, "")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "running")
}
