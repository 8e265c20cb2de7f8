package handler

import (
	"net/http"
	"strconv"

	"github.com/RoyceAzure/lab/shoeshop/internal/service"
	"github.com/go-chi/chi/v5"
)

type ProductHandler struct {
	productService service.IProductService
	reviewService  service.IReviewService
}

func NewProductHandler(productService service.IProductService, reviewService service.IReviewService) *ProductHandler {
	return &ProductHandler{productService: productService, reviewService: reviewService}
}

// ListProducts GET /api/products
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.productService.ListProducts(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, products)
}

// ListByCategory GET /api/products/category/{category}
func (h *ProductHandler) ListByCategory(w http.ResponseWriter, r *http.Request) {
	products, err := h.productService.ListByCategory(r.Context(), chi.URLParam(r, "category"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, products)
}

// ListPopular GET /api/products/popular?limit=8
func (h *ProductHandler) ListPopular(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	products, err := h.productService.ListPopular(r.Context(), limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, products)
}

// GetProduct GET /api/products/{productID}
// 商品頁一次帶回商品與評價
func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productID")
	product, err := h.productService.GetProduct(r.Context(), productID)
	if err != nil {
		writeError(w, err)
		return
	}

	reviews, err := h.reviewService.ListByProduct(r.Context(), productID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"product": product,
		"reviews": reviews,
	})
}
