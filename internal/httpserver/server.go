package httpserver

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/roomcraft/designer/internal/auth"
	"github.com/roomcraft/designer/internal/budget"
	"github.com/roomcraft/designer/internal/config"
	"github.com/roomcraft/designer/internal/genai"
	"github.com/roomcraft/designer/internal/service"
)

// 10 MiB cap on uploaded room images.
const maxUploadBytes = 10 << 20

type Server struct {
	cfg     config.Config
	service *service.Service
}

func New(cfg config.Config, svc *service.Service) *Server {
	return &Server{cfg: cfg, service: svc}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(5 * time.Minute))

	r.Get("/", s.handleRoot)
	r.Get("/health", s.handleHealth)

	r.Group(func(r chi.Router) {
		r.Use(auth.NewMiddleware(s.cfg.JWTSecret))
		r.Post("/api/generate", s.handleGenerate)
		r.Post("/vision/detect", s.handleDetect)
	})

	if s.cfg.S3Bucket == "" {
		fs := http.StripPrefix("/uploads/", http.FileServer(http.Dir(s.cfg.StorageDir)))
		r.Get("/uploads/*", fs.ServeHTTP)
	}

	return r
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status":  "running",
		"message": "Budget-Constrained Interior Design Backend",
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"ok":   true,
		"time": time.Now().UTC(),
	})
}

func (s *Server) handleDetect(w http.ResponseWriter, r *http.Request) {
	data, filename, err := readImageField(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	budgetValue, err := readIntField(r, "budget")
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := s.service.DetectAndSuggest(r.Context(), service.DetectRequest{
		ImageData: data,
		Filename:  filename,
		Budget:    budgetValue,
	})
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	data, filename, err := readImageField(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	budgetValue, err := readIntField(r, "budget")
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := s.service.GenerateDesign(r.Context(), service.GenerateRequest{
		ImageData: data,
		Filename:  filename,
		RoomType:  r.FormValue("room_type"),
		Style:     r.FormValue("style"),
		Budget:    budgetValue,
		Provider:  r.FormValue("provider"),
	})
	if err != nil {
		// Invalid request inputs map to 400; degraded collaborators to 500.
		if errors.Is(err, genai.ErrUnknownProvider) || errors.Is(err, budget.ErrUnknownStyle) {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, resp)
}

func readImageField(r *http.Request) ([]byte, string, error) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		return nil, "", errors.New("multipart form required")
	}
	file, header, err := r.FormFile("image")
	if err != nil {
		return nil, "", errors.New("image file required")
	}
	defer file.Close()
	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
	if err != nil {
		return nil, "", errors.New("read image: " + err.Error())
	}
	if len(data) == 0 {
		return nil, "", errors.New("empty image file")
	}
	return data, header.Filename, nil
}

func readIntField(r *http.Request, name string) (int, error) {
	raw := r.FormValue(name)
	if raw == "" {
		return 0, errors.New(name + " required")
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.New("invalid " + name)
	}
	if n < 0 {
		return 0, errors.New(name + " must be non-negative")
	}
	return n, nil
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{"error": msg})
}
