package handler

import (
	"net/http"

	"github.com/RoyceAzure/lab/shoeshop/internal/infra/repository/db"
	"github.com/RoyceAzure/lab/shoeshop/internal/service"
	"github.com/go-chi/chi/v5"
)

type OrderHandler struct {
	checkoutService service.ICheckoutService
	orderService    service.IOrderService
}

func NewOrderHandler(checkoutService service.ICheckoutService, orderService service.IOrderService) *OrderHandler {
	return &OrderHandler{checkoutService: checkoutService, orderService: orderService}
}

// Checkout POST /api/orders/checkout
// 全成功回訂單，任何失敗都保證庫存無淨異動
func (h *OrderHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	order, err := h.checkoutService.Checkout(r.Context(), getUserID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

// MyOrders GET /api/orders/me
func (h *OrderHandler) MyOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orderService.GetOrdersByUserID(r.Context(), getUserID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

// GetOrder GET /api/orders/{orderID}
// 只能看自己的訂單，別人的一律回 not found，不透露訂單是否存在
func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	order, err := h.orderService.GetOrder(r.Context(), chi.URLParam(r, "orderID"))
	if err != nil {
		writeError(w, err)
		return
	}
	if order.UserID != getUserID(r) {
		writeError(w, db.ErrOrderNotFound)
		return
	}
	writeJSON(w, http.StatusOK, order)
}
