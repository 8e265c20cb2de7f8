package router

import (
	"net/http"

	"github.com/RoyceAzure/lab/shoeshop/internal/api/handler"
	"github.com/RoyceAzure/lab/shoeshop/internal/api/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

type Handlers struct {
	Auth    *handler.AuthHandler
	Product *handler.ProductHandler
	Cart    *handler.CartHandler
	Order   *handler.OrderHandler
	Review  *handler.ReviewHandler
	Admin   *handler.AdminHandler
}

// SetupRouter 設置路由
// 商品瀏覽不用登入，購物車/結帳/訂單要登入，後台要管理員
func SetupRouter(h Handlers, sessions *middleware.SessionManager, logger *zerolog.Logger) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestIDMiddleware)
	r.Use(middleware.LoggerMiddleware(logger))

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", h.Auth.Register)
		r.Post("/auth/login", h.Auth.Login)
		r.Post("/auth/logout", h.Auth.Logout)

		r.Route("/products", func(r chi.Router) {
			r.Get("/", h.Product.ListProducts)
			r.Get("/popular", h.Product.ListPopular)
			r.Get("/category/{category}", h.Product.ListByCategory)
			// 放最後，避免吃掉上面的路由
			r.Get("/{productID}", h.Product.GetProduct)
		})

		r.Route("/cart", func(r chi.Router) {
			r.Use(sessions.RequireAuth)
			r.Get("/", h.Cart.GetCart)
			r.Post("/add", h.Cart.AddItem)
			r.Patch("/item", h.Cart.UpdateItem)
			r.Delete("/clear", h.Cart.ClearCart)
			r.Delete("/{itemID}", h.Cart.RemoveItem)
		})

		r.Route("/orders", func(r chi.Router) {
			r.Use(sessions.RequireAuth)
			r.Post("/checkout", h.Order.Checkout)
			r.Get("/me", h.Order.MyOrders)
			r.Get("/{orderID}", h.Order.GetOrder)
		})

		r.Route("/reviews", func(r chi.Router) {
			r.Get("/product/{productID}", h.Review.ListByProduct)
			r.With(sessions.RequireAuth).Post("/write", h.Review.WriteReview)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(sessions.RequireAdmin)
			r.Post("/products", h.Admin.CreateProduct)
			r.Patch("/products/{productID}", h.Admin.UpdateProduct)
			r.Put("/products/{productID}/sizes", h.Admin.ReplaceSizes)
			r.Post("/products/{productID}/sizes/add", h.Admin.AddSizeStock)
			r.Delete("/products/{productID}", h.Admin.DeleteProduct)
			r.Get("/orders/summary", h.Admin.SalesSummary)
		})
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	return r
}
