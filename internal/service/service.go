package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/roomcraft/designer/internal/budget"
	"github.com/roomcraft/designer/internal/detect"
	"github.com/roomcraft/designer/internal/events"
	"github.com/roomcraft/designer/internal/genai"
	"github.com/roomcraft/designer/internal/models"
	"github.com/roomcraft/designer/internal/replace"
	"github.com/roomcraft/designer/internal/storage"
	"github.com/roomcraft/designer/internal/vendor"
)

// Service orchestrates one request end to end: storage, detection,
// replacement allocation, vendor links, generation. All collaborators are
// injected so tests run without network access.
type Service struct {
	store     storage.Store
	detector  detect.Detector
	engine    *replace.Engine
	vendors   *vendor.Cache
	estimator *budget.Estimator
	providers *genai.Registry
	publisher events.Publisher
}

func New(store storage.Store, detector detect.Detector, engine *replace.Engine, vendors *vendor.Cache, estimator *budget.Estimator, providers *genai.Registry, publisher events.Publisher) *Service {
	if publisher == nil {
		publisher = events.Noop{}
	}
	return &Service{
		store:     store,
		detector:  detector,
		engine:    engine,
		vendors:   vendors,
		estimator: estimator,
		providers: providers,
		publisher: publisher,
	}
}

type DetectRequest struct {
	ImageData []byte
	Filename  string
	Budget    int
}

// DetectAndSuggest saves the upload, runs detection, allocates the budget
// across detected categories, and attaches vendor links per distinct
// category. Vendor failures degrade to error-status results; detection
// failures propagate.
func (s *Service) DetectAndSuggest(ctx context.Context, req DetectRequest) (models.DetectResponse, error) {
	if req.Budget < 0 {
		return models.DetectResponse{}, fmt.Errorf("budget must be non-negative, got %d", req.Budget)
	}
	stored, err := s.store.SaveUpload(ctx, req.ImageData, req.Filename)
	if err != nil {
		return models.DetectResponse{}, fmt.Errorf("save upload: %w", err)
	}
	log.Printf("[service] saved upload %s", stored.Name)

	detections, err := s.detector.Detect(ctx, stored.Ref)
	if err != nil {
		return models.DetectResponse{}, fmt.Errorf("detection: %w", err)
	}

	suggestions, remaining, err := s.engine.SuggestReplacements(ctx, detections, req.Budget)
	if err != nil {
		return models.DetectResponse{}, fmt.Errorf("suggest replacements: %w", err)
	}

	online := make(map[string]models.VendorLookupResult)
	var categories []string
	for _, det := range detections {
		if det.Category == "" {
			continue
		}
		if _, ok := online[det.Category]; ok {
			continue
		}
		categories = append(categories, det.Category)
		result := s.vendors.GetVendorLinks(ctx, det.Category)
		online[det.Category] = result
		log.Printf("[service] vendor links for %q: %d results (%s, %dms)",
			det.Category, len(result.Results), result.CacheStatus, result.LatencyMS)
	}

	s.publish(ctx, events.RequestEvent{
		RequestID:       uuid.New().String(),
		Kind:            "detect",
		Budget:          req.Budget,
		Categories:      categories,
		SuggestionCount: len(suggestions),
		RemainingBudget: remaining,
	})

	log.Printf("[service] detection complete: %d items, %d suggestions, %d remaining",
		len(detections), len(suggestions), remaining)
	return models.DetectResponse{
		Detections:        detections,
		Suggestions:       suggestions,
		OnlineSuggestions: online,
		RemainingBudget:   remaining,
	}, nil
}

type GenerateRequest struct {
	ImageData []byte
	Filename  string
	RoomType  string
	Style     string
	Budget    int
	Provider  string
}

// GenerateDesign estimates the project cost for the requested style, then
// delegates image synthesis to the named provider.
func (s *Service) GenerateDesign(ctx context.Context, req GenerateRequest) (models.GenerateResponse, error) {
	start := time.Now()

	generator, err := s.providers.Get(req.Provider)
	if err != nil {
		return models.GenerateResponse{}, err
	}
	estimated, err := s.estimator.EstimateCost(req.Style)
	if err != nil {
		return models.GenerateResponse{}, err
	}
	status := s.estimator.CheckBudgetStatus(estimated, req.Budget)
	log.Printf("[service] estimated cost %d, budget %d, status %s", estimated, req.Budget, status)

	stored, err := s.store.SaveUpload(ctx, req.ImageData, req.Filename)
	if err != nil {
		return models.GenerateResponse{}, fmt.Errorf("save upload: %w", err)
	}

	generated, err := generator.Generate(ctx, stored.Ref, req.RoomType, req.Style)
	if err != nil {
		return models.GenerateResponse{}, fmt.Errorf("generate image: %w", err)
	}

	s.publish(ctx, events.RequestEvent{
		RequestID: uuid.New().String(),
		Kind:      "generate",
		Budget:    req.Budget,
	})

	return models.GenerateResponse{
		ImageURL:      generated.URL,
		ProviderUsed:  generated.Provider,
		EstimatedCost: estimated,
		Budget:        req.Budget,
		Status:        string(status),
		TimeTakenSec:  generated.TimeTakenSec,
		TotalTimeSec:  time.Since(start).Seconds(),
	}, nil
}

// publish is best-effort; event delivery never fails a request.
func (s *Service) publish(ctx context.Context, ev events.RequestEvent) {
	if err := s.publisher.Publish(ctx, ev); err != nil {
		log.Printf("[service] publish event: %v", err)
	}
}
