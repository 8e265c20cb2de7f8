package handler

import (
	"encoding/json"
	"net/http"

	"github.com/RoyceAzure/lab/shoeshop/internal/service"
	"github.com/go-chi/chi/v5"
)

type ReviewHandler struct {
	reviewService service.IReviewService
}

func NewReviewHandler(reviewService service.IReviewService) *ReviewHandler {
	return &ReviewHandler{reviewService: reviewService}
}

// ListByProduct GET /api/reviews/product/{productID}
func (h *ReviewHandler) ListByProduct(w http.ResponseWriter, r *http.Request) {
	reviews, err := h.reviewService.ListByProduct(r.Context(), chi.URLParam(r, "productID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reviews)
}

type writeReviewRequest struct {
	ProductID string `json:"product_id"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment"`
}

// WriteReview POST /api/reviews/write
// 只有買過該商品的登入使用者能寫
func (h *ReviewHandler) WriteReview(w http.ResponseWriter, r *http.Request) {
	var req writeReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	review, err := h.reviewService.WriteReview(r.Context(), getUserID(r), req.ProductID, req.Rating, req.Comment)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, review)
}
