package http

import (
	"errors"
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/medisearch/backend/internal/domain"
	"github.com/medisearch/backend/internal/importer"
	"github.com/medisearch/backend/internal/infrastructure/cache"
	"github.com/medisearch/backend/internal/search"
)

// Fixed pagination policy. The richer filtered endpoint caps pages tighter
// than the plain list endpoints; neither value is user-overridable.
const (
	maxSearchLimit = 50
	maxListLimit   = 200
)

// PincodeResult is the cached payload of one pincode lookup.
type PincodeResult struct {
	Count int              `json:"count"`
	Data  []domain.Pincode `json:"data"`
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	engine       *search.Engine
	store        domain.MedicineStore
	pincodes     domain.PincodeStore
	pincodeCache *cache.LRU[PincodeResult]
	importer     *importer.Importer
	defaultCSV   string
}

// NewHandler creates a new HTTP handler with its dependencies injected.
func NewHandler(
	engine *search.Engine,
	store domain.MedicineStore,
	pincodes domain.PincodeStore,
	pincodeCache *cache.LRU[PincodeResult],
	imp *importer.Importer,
	defaultCSV string,
) *Handler {
	return &Handler{
		engine:       engine,
		store:        store,
		pincodes:     pincodes,
		pincodeCache: pincodeCache,
		importer:     imp,
		defaultCSV:   defaultCSV,
	}
}

// meta mirrors the response envelope's pagination block.
type meta struct {
	Page    int    `json:"page"`
	Limit   int    `json:"limit"`
	Total   *int64 `json:"total,omitempty"`
	HasMore bool   `json:"hasMore"`
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "medisearch-backend",
		"version": "1.0.0",
	})
}

// SearchMedicines handles the filtered, ranked, paginated medicine search.
func (h *Handler) SearchMedicines(c *gin.Context) {
	params := domain.RawParams{
		Term:         firstQuery(c, "q", "name"),
		DosageForm:   c.Query("dosageForm"),
		Category:     c.Query("category"),
		Manufacturer: c.Query("manufacturer"),
		Ingredient:   c.Query("ingredient"),
		MinPrice:     c.Query("minPrice"),
		MaxPrice:     c.Query("maxPrice"),
		Discontinued: c.Query("discontinued"),
		Page:         c.Query("page"),
		Limit:        c.Query("limit"),
		Sort:         c.Query("sort"),
		Fuzzy:        c.Query("fuzzy"),
		Count:        c.Query("count"),
	}

	query, err := domain.NewSearchQuery(params, maxSearchLimit)
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	h.respondSearch(c, query)
}

// ListByIngredient serves the simple ingredient containment listing with
// the wider list-endpoint page cap.
func (h *Handler) ListByIngredient(c *gin.Context) {
	ingredient := strings.TrimSpace(c.Query("ingredient"))
	if ingredient == "" {
		respondError(c, http.StatusBadRequest, "ingredient query parameter required")
		return
	}

	query, err := domain.NewSearchQuery(domain.RawParams{
		Ingredient: ingredient,
		Page:       c.Query("page"),
		Limit:      c.Query("limit"),
		Count:      c.Query("count"),
	}, maxListLimit)
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	h.respondSearch(c, query)
}

func (h *Handler) respondSearch(c *gin.Context, query domain.SearchQuery) {
	page, err := h.engine.Search(c.Request.Context(), query)
	if err != nil {
		// No internal detail leaks: store failures get a generic message.
		respondError(c, http.StatusInternalServerError, "search temporarily unavailable")
		return
	}

	var data any = page.Items
	if patientView(c) {
		data = patientViewList(page.Items)
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"meta": meta{
			Page:    page.Page,
			Limit:   page.Limit,
			Total:   page.Total,
			HasMore: page.HasMore,
		},
		"data": data,
	})
}

// LookupExact serves case-insensitive exact officialName lookups.
func (h *Handler) LookupExact(c *gin.Context) {
	name := strings.TrimSpace(c.Query("name"))
	if name == "" {
		respondError(c, http.StatusBadRequest, "name is required")
		return
	}

	med, err := h.store.FindByExactName(c.Request.Context(), name)
	if errors.Is(err, domain.ErrNotFound) {
		respondError(c, http.StatusNotFound, "Not found")
		return
	}
	if err != nil {
		respondError(c, http.StatusInternalServerError, "lookup temporarily unavailable")
		return
	}

	h.respondMedicine(c, med)
}

// GetByID serves single-medicine lookups by store id.
func (h *Handler) GetByID(c *gin.Context) {
	med, err := h.store.FindByID(c.Request.Context(), c.Param("id"))
	if errors.Is(err, domain.ErrNotFound) {
		respondError(c, http.StatusNotFound, "Medicine not found")
		return
	}
	if err != nil {
		respondError(c, http.StatusInternalServerError, "lookup temporarily unavailable")
		return
	}

	h.respondMedicine(c, med)
}

func (h *Handler) respondMedicine(c *gin.Context, med *domain.Medicine) {
	if patientView(c) {
		c.JSON(http.StatusOK, gin.H{"success": true, "data": patientViewOf(*med)})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": med})
}

// GetPincode serves the keyed pincode lookup through its own long-lived
// cache instance.
func (h *Handler) GetPincode(c *gin.Context) {
	code := c.Param("code")
	cacheKey := "pincode:" + code

	if result, ok := h.pincodeCache.Get(cacheKey); ok {
		c.JSON(http.StatusOK, gin.H{"success": true, "fromCache": true, "count": result.Count, "data": result.Data})
		return
	}

	records, err := h.pincodes.FindByCode(c.Request.Context(), code)
	if errors.Is(err, domain.ErrNotFound) {
		respondError(c, http.StatusNotFound, "Pincode "+code+" not found")
		return
	}
	if err != nil {
		respondError(c, http.StatusInternalServerError, "lookup temporarily unavailable")
		return
	}

	result := PincodeResult{Count: len(records), Data: records}
	h.pincodeCache.Put(cacheKey, result)
	c.JSON(http.StatusOK, gin.H{"success": true, "count": result.Count, "data": result.Data})
}

// importRequest is the optional body of an import trigger.
type importRequest struct {
	CSVPath string `json:"csvPath"`
}

// StartImport launches a CSV import in the background and returns
// immediately with a job id. The job is fire-and-forget: progress is
// logged, not reported, and a crash mid-import leaves partially upserted
// data for the next run to repair.
func (h *Handler) StartImport(c *gin.Context) {
	var req importRequest
	_ = c.ShouldBindJSON(&req) // body is optional

	csvPath := req.CSVPath
	if csvPath == "" {
		csvPath = h.defaultCSV
	}
	if _, err := os.Stat(csvPath); err != nil {
		respondError(c, http.StatusBadRequest, "CSV not found at "+csvPath)
		return
	}

	jobID := uuid.NewString()
	go h.importer.RunDetached(jobID, csvPath)

	c.JSON(http.StatusAccepted, gin.H{
		"success": true,
		"message": "Import started in background",
		"jobId":   jobID,
		"csvPath": csvPath,
	})
}

func patientView(c *gin.Context) bool {
	return strings.EqualFold(strings.TrimSpace(c.Query("view")), "patient")
}

func firstQuery(c *gin.Context, names ...string) string {
	for _, name := range names {
		if v := c.Query(name); v != "" {
			return v
		}
	}
	return ""
}

func respondError(c *gin.Context, code int, message string) {
	c.JSON(code, gin.H{"success": false, "error": message})
}
