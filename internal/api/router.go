package api

import (
	httpSwagger "github.com/swaggo/http-swagger"

	_ "herdscope/docs"
	"herdscope/internal/api/handler"
	"herdscope/pkg/router"
)

func RegisterRoutes(r *router.Router, h *handler.Handler) {
	r.NotFound = handler.NotFound
	r.MethodNotAllowed = handler.MethodNotAllowed

	r.GET("/", h.Home)
	r.GET("/health", h.Health)

	r.GET("/api/products", h.ListProducts)
	// More specific routes first
	r.GET("/api/products/pricing", h.ProductsWithPricing)
	r.GET("/api/products/*", h.GetProduct)
	r.GET("/api/summary", h.Summary)
	r.GET("/api/categories", h.Categories)

	r.GET("/api/export/*", h.Export)
	r.GET("/api/reports/trending", h.TrendingReport)
	r.GET("/api/reports/products/*", h.ProductReport)

	r.POST("/send-alert", h.SendAlert)
	r.POST("/test-email", h.SendTestEmail)
	r.GET("/api/dispatches", h.ListDispatches)
	r.GET("/api/dispatches/*", h.GetDispatch)

	r.GET("/swagger/*", router.HandlerFunc(httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json"))))
}
