package api

import (
	"context"
	"fmt"
	"math/rand"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pourrice/pourrice/internal/assistant"
	"github.com/pourrice/pourrice/internal/auth"
	"github.com/pourrice/pourrice/internal/location"
	"github.com/pourrice/pourrice/internal/nearby"
	"github.com/pourrice/pourrice/internal/ratelimit"
	"github.com/pourrice/pourrice/internal/restaurant"
	"github.com/pourrice/pourrice/internal/storage"
	apperrors "github.com/pourrice/pourrice/pkg/errors"
)

const (
	defaultFeatured = 6
	statsDays       = 7
)

type Catalog interface {
	Snapshot() []restaurant.Restaurant
	Lookup(ctx context.Context, id string) (restaurant.Restaurant, error)
	Len() int
	RefreshedAt() time.Time
}

type NearbyFinder interface {
	Nearby(ctx context.Context, origin location.GeoPoint, limit int) (*nearby.Result, error)
}

type Asker interface {
	Ask(ctx context.Context, q assistant.Question) (*assistant.Answer, error)
}

type StatsReader interface {
	GetTotalStats(ctx context.Context) (*storage.LookupStats, error)
	GetDailyStats(ctx context.Context, startDate, endDate time.Time) ([]storage.LookupStats, error)
}

type Handler struct {
	catalog     Catalog
	nearby      NearbyFinder
	assistant   Asker
	stats       StatsReader
	rateLimiter ratelimit.RateLimiter
}

// RestaurantView adds the display name for the requested language.
type RestaurantView struct {
	restaurant.Restaurant
	Name string `json:"name"`
}

type NearbyItemView struct {
	Restaurant     RestaurantView `json:"restaurant"`
	DistanceMeters float64        `json:"distance_meters"`
	Distance       string         `json:"distance"`
}

// NewHandler wires the handlers. stats may be nil when analytics are off.
func NewHandler(catalog Catalog, finder NearbyFinder, asker Asker, stats StatsReader, rateLimiter ratelimit.RateLimiter) *Handler {
	return &Handler{
		catalog:     catalog,
		nearby:      finder,
		assistant:   asker,
		stats:       stats,
		rateLimiter: rateLimiter,
	}
}

func view(r restaurant.Restaurant, lang string) RestaurantView {
	return RestaurantView{Restaurant: r, Name: r.DisplayName(lang)}
}

func views(list []restaurant.Restaurant, lang string) []RestaurantView {
	out := make([]RestaurantView, len(list))
	for i, r := range list {
		out[i] = view(r, lang)
	}
	return out
}

// GET /api/restaurants
func (h *Handler) ListRestaurants(c *gin.Context) {
	lang := restaurant.NormalizeLang(c.Query("lang"))
	list := h.catalog.Snapshot()

	c.JSON(http.StatusOK, SuccessResponse(gin.H{
		"count":       len(list),
		"restaurants": views(list, lang),
	}))
}

// GET /api/restaurants/:id
func (h *Handler) GetRestaurant(c *gin.Context) {
	lang := restaurant.NormalizeLang(c.Query("lang"))

	r, err := h.catalog.Lookup(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse(view(r, lang)))
}

// GET /api/restaurants/featured
func (h *Handler) FeaturedRestaurants(c *gin.Context) {
	var req struct {
		N    int    `form:"n" binding:"omitempty,min=1,max=20"`
		Lang string `form:"lang"`
	}
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse("n must be between 1 and 20", "INVALID_REQUEST"))
		return
	}
	if req.N == 0 {
		req.N = defaultFeatured
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	picked := restaurant.Featured(h.catalog.Snapshot(), req.N, rng)

	c.JSON(http.StatusOK, SuccessResponse(gin.H{
		"count":       len(picked),
		"restaurants": views(picked, restaurant.NormalizeLang(req.Lang)),
	}))
}

// GET /api/restaurants/nearby
func (h *Handler) NearbyRestaurants(c *gin.Context) {
	var req struct {
		Lat   *float64 `form:"lat" binding:"required"`
		Lon   *float64 `form:"lon" binding:"required"`
		Limit int      `form:"limit"`
		Lang  string   `form:"lang"`
	}
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse("lat and lon are required numbers", "INVALID_REQUEST"))
		return
	}

	result, err := h.nearby.Nearby(c.Request.Context(), location.NewGeoPoint(*req.Lat, *req.Lon), req.Limit)
	if err != nil {
		respondError(c, err)
		return
	}

	lang := restaurant.NormalizeLang(req.Lang)
	items := make([]NearbyItemView, len(result.Items))
	for i, item := range result.Items {
		items[i] = NearbyItemView{
			Restaurant:     view(item.Restaurant, lang),
			DistanceMeters: item.DistanceMeters,
			Distance:       item.Distance,
		}
	}

	c.JSON(http.StatusOK, SuccessResponse(gin.H{
		"count":      len(items),
		"considered": result.Considered,
		"excluded":   result.Excluded,
		"items":      items,
	}))
}

// POST /api/assistant/ask
func (h *Handler) Ask(c *gin.Context) {
	var req struct {
		Question string   `json:"question" binding:"required"`
		Lang     string   `json:"lang"`
		Lat      *float64 `json:"lat"`
		Lon      *float64 `json:"lon"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse("Invalid request", "INVALID_REQUEST"))
		return
	}

	ctx := c.Request.Context()
	userID, _ := auth.FromContext(ctx).CurrentUserID()

	allowed, err := h.rateLimiter.AllowAssistant(ctx, userID)
	if err != nil {
		respondError(c, fmt.Errorf("check assistant rate limit: %w", err))
		return
	}
	if !allowed {
		respondError(c, apperrors.ErrRateLimitExceeded)
		return
	}

	q := assistant.Question{
		Text:   req.Question,
		Lang:   restaurant.NormalizeLang(req.Lang),
		UserID: userID,
	}
	if req.Lat != nil && req.Lon != nil {
		origin := location.NewGeoPoint(*req.Lat, *req.Lon)
		q.Origin = &origin
	}

	answer, err := h.assistant.Ask(ctx, q)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse(answer))
}

// GET /api/stats
func (h *Handler) Stats(c *gin.Context) {
	if h.stats == nil {
		c.JSON(http.StatusNotFound, ErrorResponse("Analytics disabled", "NOT_FOUND"))
		return
	}

	ctx := c.Request.Context()
	totals, err := h.stats.GetTotalStats(ctx)
	if err != nil {
		respondError(c, err)
		return
	}

	end := time.Now().UTC()
	daily, err := h.stats.GetDailyStats(ctx, end.AddDate(0, 0, -statsDays), end)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse(gin.H{
		"lookups":  totals.Lookups,
		"returned": totals.Returned,
		"excluded": totals.Excluded,
		"daily":    daily,
	}))
}

// GET /api/health
func (h *Handler) Health(c *gin.Context) {
	status := "ok"
	code := http.StatusOK
	if h.catalog.Len() == 0 {
		status = "degraded"
		code = http.StatusServiceUnavailable
	}

	c.JSON(code, gin.H{
		"status":       status,
		"restaurants":  h.catalog.Len(),
		"refreshed_at": h.catalog.RefreshedAt(),
		"time":         time.Now().UTC(),
	})
}

func respondError(c *gin.Context, err error) {
	appErr := toAppError(err)
	c.JSON(appErr.StatusCode, AppErrorResponse(appErr))
}
