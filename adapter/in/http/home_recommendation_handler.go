package http

import (
	"strings"
	"time"

	"ruralhome_server/core/domain"
	"ruralhome_server/core/port/in"
	"ruralhome_server/pkg/apperr"
	"ruralhome_server/pkg/response"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
)

// RecommendationHandler handles HTTP requests for the recommendation pipeline
type RecommendationHandler struct {
	service in.RecommendationService
}

func NewRecommendationHandler(service in.RecommendationService) *RecommendationHandler {
	return &RecommendationHandler{service: service}
}

// Register registers recommendation routes
func (h *RecommendationHandler) Register(router fiber.Router) {
	recs := router.Group("/recommendations")

	recs.Post("/", h.Recommend)
	recs.Get("/saved", h.ListSaved)
	recs.Post("/:id/accept", h.Accept)
	recs.Delete("/:id", h.Reject)
}

// lockedItem withholds listing details beyond the free tier.
type lockedItem struct {
	ID         string          `json:"id"`
	MatchScore int             `json:"match_score"`
	Location   domain.Location `json:"location"`
	IsLocked   bool            `json:"is_locked"`
}

type recommendResponse struct {
	Status        domain.RecommendStatus `json:"status"`
	Items         []any                  `json:"items"`
	Regions       []domain.RegionCode    `json:"regions"`
	AdvisorUsed   bool                   `json:"advisor_used"`
	FailedRegions []domain.RegionCode    `json:"failed_regions,omitempty"`
	TimedOut      bool                   `json:"timed_out,omitempty"`
	GeneratedAt   string                 `json:"generated_at"`
}

func toRecommendResponse(res *domain.RecommendResult) recommendResponse {
	items := make([]any, 0, len(res.Items))
	for _, item := range res.Items {
		if item.IsLocked {
			items = append(items, lockedItem{
				ID:         item.ID,
				MatchScore: item.MatchScore,
				Location:   item.Location,
				IsLocked:   true,
			})
			continue
		}
		items = append(items, item)
	}
	return recommendResponse{
		Status:        res.Status,
		Items:         items,
		Regions:       res.Regions,
		AdvisorUsed:   res.AdvisorUsed,
		FailedRegions: res.FailedRegions,
		TimedOut:      res.TimedOut,
		GeneratedAt:   res.GeneratedAt.UTC().Format(time.RFC3339),
	}
}

// Recommend runs the pipeline for the posted questionnaire.
// POST /api/v1/recommendations
func (h *RecommendationHandler) Recommend(c *fiber.Ctx) error {
	userID, err := GetUserID(c)
	if err != nil {
		return ErrorResponse(c, err, "recommend")
	}

	var req in.RecommendRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return response.BadRequest(c, "invalid request body")
	}
	req.FreeText = strings.TrimSpace(req.FreeText)

	res, err := h.service.Recommend(c.UserContext(), userID, &req)
	if err != nil {
		return ErrorResponse(c, err, "recommend")
	}
	return response.OK(c, toRecommendResponse(res))
}

// Accept saves a candidate from the caller's last result set.
// POST /api/v1/recommendations/:id/accept
func (h *RecommendationHandler) Accept(c *fiber.Ctx) error {
	userID, err := GetUserID(c)
	if err != nil {
		return ErrorResponse(c, err, "accept")
	}

	candidateID := c.Params("id")
	if candidateID == "" {
		return ErrorResponse(c, apperr.BadRequest("candidate id is required"), "accept")
	}

	rec, err := h.service.Accept(c.UserContext(), userID, candidateID)
	if err != nil {
		return ErrorResponse(c, err, "accept")
	}
	return response.Created(c, rec)
}

// Reject removes a saved recommendation. Removing a missing pair is not an error.
// DELETE /api/v1/recommendations/:id
func (h *RecommendationHandler) Reject(c *fiber.Ctx) error {
	userID, err := GetUserID(c)
	if err != nil {
		return ErrorResponse(c, err, "reject")
	}

	removed, err := h.service.Reject(c.UserContext(), userID, c.Params("id"))
	if err != nil {
		return ErrorResponse(c, err, "reject")
	}
	return response.OK(c, fiber.Map{"removed": removed})
}

// ListSaved returns the caller's accepted recommendations, newest first.
// GET /api/v1/recommendations/saved
func (h *RecommendationHandler) ListSaved(c *fiber.Ctx) error {
	userID, err := GetUserID(c)
	if err != nil {
		return ErrorResponse(c, err, "list_saved")
	}

	recs, err := h.service.ListSaved(c.UserContext(), userID)
	if err != nil {
		return ErrorResponse(c, err, "list_saved")
	}
	return response.OKWithMeta(c, recs, &response.Meta{Total: len(recs)})
}
