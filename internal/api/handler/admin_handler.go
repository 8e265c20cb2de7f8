package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/RoyceAzure/lab/shoeshop/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

type AdminHandler struct {
	productService service.IProductService
	orderService   service.IOrderService
}

func NewAdminHandler(productService service.IProductService, orderService service.IOrderService) *AdminHandler {
	return &AdminHandler{productService: productService, orderService: orderService}
}

type createProductRequest struct {
	Name         string  `json:"name"`
	Short        string  `json:"short"`
	Description  string  `json:"description"`
	Category     string  `json:"category"`
	Gender       string  `json:"gender"`
	BasePrice    int64   `json:"base_price"`
	DiscountRate uint    `json:"discount_rate"`
	SaleStart    *string `json:"sale_start"`
	SaleEnd      *string `json:"sale_end"`
	Sizes        string  `json:"sizes"` // "250:10,260:0" 或 JSON 字串
}

// CreateProduct POST /api/admin/products
func (h *AdminHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req createProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	saleStart, ok := parseOptionalDate(req.SaleStart)
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid sale_start"})
		return
	}
	saleEnd, ok := parseOptionalDate(req.SaleEnd)
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid sale_end"})
		return
	}

	product, err := h.productService.CreateProduct(r.Context(), service.CreateProductInput{
		Name:         req.Name,
		Short:        req.Short,
		Description:  req.Description,
		Category:     req.Category,
		Gender:       req.Gender,
		BasePrice:    decimal.NewFromInt(req.BasePrice),
		DiscountRate: req.DiscountRate,
		SaleStart:    saleStart,
		SaleEnd:      saleEnd,
		Sizes:        req.Sizes,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, product)
}

type updateProductRequest struct {
	Name         *string `json:"name"`
	Short        *string `json:"short"`
	Description  *string `json:"description"`
	BasePrice    *int64  `json:"base_price"`
	DiscountRate *uint   `json:"discount_rate"`
	SaleStart    *string `json:"sale_start"`
	SaleEnd      *string `json:"sale_end"`
}

// UpdateProduct PATCH /api/admin/products/{productID}
func (h *AdminHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	var req updateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	input := service.UpdateProductInput{
		Name:        req.Name,
		Short:       req.Short,
		Description: req.Description,
	}
	if req.BasePrice != nil {
		price := decimal.NewFromInt(*req.BasePrice)
		input.BasePrice = &price
	}
	input.DiscountRate = req.DiscountRate

	var ok bool
	if input.SaleStart, ok = parseOptionalDate(req.SaleStart); !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid sale_start"})
		return
	}
	if input.SaleEnd, ok = parseOptionalDate(req.SaleEnd); !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid sale_end"})
		return
	}

	product, err := h.productService.UpdateProduct(r.Context(), chi.URLParam(r, "productID"), input)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, product)
}

type replaceSizesRequest struct {
	Sizes string `json:"sizes"`
}

// ReplaceSizes PUT /api/admin/products/{productID}/sizes
func (h *AdminHandler) ReplaceSizes(w http.ResponseWriter, r *http.Request) {
	var req replaceSizesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	product, err := h.productService.ReplaceSizes(r.Context(), chi.URLParam(r, "productID"), req.Sizes)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, product)
}

type addSizeStockRequest struct {
	Size     int  `json:"size"`
	Quantity uint `json:"quantity"`
}

// AddSizeStock POST /api/admin/products/{productID}/sizes/add
// 補貨，尺寸不存在就新增一筆
func (h *AdminHandler) AddSizeStock(w http.ResponseWriter, r *http.Request) {
	var req addSizeStockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.Size <= 0 || req.Quantity == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "size and quantity must be positive"})
		return
	}

	stock, err := h.productService.AddSizeStock(r.Context(), chi.URLParam(r, "productID"), req.Size, req.Quantity)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"size":  req.Size,
		"stock": stock,
	})
}

// DeleteProduct DELETE /api/admin/products/{productID}
func (h *AdminHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := h.productService.DeleteProduct(r.Context(), chi.URLParam(r, "productID")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "deleted"})
}

// SalesSummary GET /api/admin/orders/summary?from=2025-12-01&to=2025-12-31&top=10
func (h *AdminHandler) SalesSummary(w http.ResponseWriter, r *http.Request) {
	from, ok := parseOptionalDateParam(r, "from")
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid from"})
		return
	}
	to, ok := parseOptionalDateParam(r, "to")
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid to"})
		return
	}
	top, _ := strconv.Atoi(r.URL.Query().Get("top"))

	summary, err := h.orderService.GetSalesSummary(r.Context(), from, to)
	if err != nil {
		writeError(w, err)
		return
	}
	topProducts, err := h.orderService.GetProductSales(r.Context(), from, to, top)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"summary":      summary,
		"top_products": topProducts,
	})
}

func parseOptionalDate(value *string) (*time.Time, bool) {
	if value == nil || *value == "" {
		return nil, true
	}
	t, err := time.Parse("2006-01-02", *value)
	if err != nil {
		if t, err = time.Parse(time.RFC3339, *value); err != nil {
			return nil, false
		}
	}
	return &t, true
}

func parseOptionalDateParam(r *http.Request, key string) (*time.Time, bool) {
	value := r.URL.Query().Get(key)
	if value == "" {
		return nil, true
	}
	return parseOptionalDate(&value)
}
