package models

// Detection is a single recognized furniture instance reported by the
// external detector. Coordinates are pixel-space [x1, y1, x2, y2].
type Detection struct {
	Category    string     `json:"category"`
	Confidence  float64    `json:"confidence"`
	BoundingBox [4]float64 `json:"bounding_box"`
}

// CandidateItem is a purchasable replacement option for a category,
// supplied by the catalog collaborator.
type CandidateItem struct {
	Category string `json:"category"`
	Name     string `json:"name"`
	Price    int    `json:"price"`
	Priority int    `json:"priority"`
}

// Suggestion is a committed replacement choice for one detected category.
type Suggestion struct {
	Category string `json:"category"`
	Name     string `json:"name"`
	Price    int    `json:"price"`
}

// VendorLink is one externally sourced purchase link.
type VendorLink struct {
	Title  string `json:"title"`
	URL    string `json:"url"`
	Vendor string `json:"vendor"`
	Price  string `json:"price,omitempty"`
}

// CacheStatus reports how a vendor lookup was served.
type CacheStatus string

const (
	CacheHit   CacheStatus = "hit"
	CacheMiss  CacheStatus = "miss"
	CacheError CacheStatus = "error"
)

// VendorLookupResult carries vendor links plus cache and latency metadata.
// CacheStatus "error" is a degraded-but-valid result, never a failure.
type VendorLookupResult struct {
	Results     []VendorLink `json:"results"`
	CacheStatus CacheStatus  `json:"cache"`
	LatencyMS   int64        `json:"latency_ms"`
}

// GeneratedImage describes the output of an image-generation provider.
type GeneratedImage struct {
	URL          string  `json:"url"`
	Provider     string  `json:"provider"`
	TimeTakenSec float64 `json:"time_taken_sec"`
}

// DetectResponse is the wire shape of POST /vision/detect.
type DetectResponse struct {
	Detections        []Detection                   `json:"detections"`
	Suggestions       []Suggestion                  `json:"suggestions"`
	OnlineSuggestions map[string]VendorLookupResult `json:"online_suggestions"`
	RemainingBudget   int                           `json:"remaining_budget"`
}

// GenerateResponse is the wire shape of POST /api/generate.
type GenerateResponse struct {
	ImageURL      string  `json:"image_url"`
	ProviderUsed  string  `json:"provider_used"`
	EstimatedCost int     `json:"estimated_cost"`
	Budget        int     `json:"budget"`
	Status        string  `json:"status"`
	TimeTakenSec  float64 `json:"time_taken_sec"`
	TotalTimeSec  float64 `json:"total_time_sec"`
}
