package handlers

import (
	"pay2u/internal/middleware"

	"github.com/labstack/echo/v4"
)

// Routes wires every handler onto an echo instance
type Routes struct {
	Health        *HealthHandlers
	Catalog       *CatalogHandlers
	Subscriptions *SubscriptionHandlers
	Cards         *CardHandlers
	Reports       *ReportHandlers
	Comparison    *ComparisonHandlers

	Version *middleware.VersionMiddleware
	// Auth guards every per-user route. SubscribeLimit may be nil.
	Auth           echo.MiddlewareFunc
	SubscribeLimit echo.MiddlewareFunc
}

func (r *Routes) Register(e *echo.Echo) {
	e.GET("/health", r.Health.HealthCheck)
	e.GET("/health/live", r.Health.LivenessCheck)

	v1 := e.Group("/v1")
	if r.Version != nil {
		e.Use(r.Version.APIVersionResolver())
		v1.Use(r.Version.VersionHeader("v1"))
	}

	// Catalog is public
	v1.GET("/categories", r.Catalog.ListCategories)
	v1.GET("/services", r.Catalog.ListServices)
	v1.GET("/services/:id", r.Catalog.GetService)
	v1.GET("/services/:id/terms/:term_id", r.Catalog.GetTerm)

	subscribe := []echo.MiddlewareFunc{r.Auth}
	if r.SubscribeLimit != nil {
		subscribe = append(subscribe, r.SubscribeLimit)
	}
	v1.POST("/services/:id/subscribe", r.Subscriptions.Subscribe, subscribe...)
	v1.DELETE("/services/:id/subscribe", r.Subscriptions.Unsubscribe, r.Auth)
	v1.GET("/subscriptions", r.Subscriptions.ListSubscriptions, r.Auth)
	v1.GET("/subscriptions/:id", r.Subscriptions.GetSubscription, r.Auth)

	v1.GET("/user/expenses", r.Reports.Expenses, r.Auth)
	v1.GET("/user/cashback", r.Reports.Cashback, r.Auth)
	v1.GET("/user/paids", r.Reports.Paids, r.Auth)
	v1.GET("/main", r.Reports.Main, r.Auth)

	v1.GET("/cards", r.Cards.ListCards, r.Auth)
	v1.POST("/cards", r.Cards.IssueCard, r.Auth)
	v1.POST("/cards/:id/activate", r.Cards.ActivateCard, r.Auth)
	v1.DELETE("/cards/:id", r.Cards.DeleteCard, r.Auth)

	v1.GET("/comparison", r.Comparison.ListComparison, r.Auth)
	v1.POST("/comparison/:service_id", r.Comparison.AddToComparison, r.Auth)
	v1.DELETE("/comparison/:service_id", r.Comparison.RemoveFromComparison, r.Auth)
}
