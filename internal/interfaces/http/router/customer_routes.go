package router

import "github.com/customerhub/backend/internal/interfaces/http/handler"

// NewCustomerRoutes maps the customer endpoints onto h
func NewCustomerRoutes(h *handler.CustomerHandler) *DomainGroup {
	return NewDomainGroup("customer", "/customers").
		POST("", h.Create).
		GET("", h.List).
		GET("/email/:email", h.GetByEmail).
		GET("/:id", h.GetByID).
		PUT("/:id", h.Update).
		PATCH("/:id", h.Update).
		DELETE("/:id", h.Delete)
}

// NewSystemRoutes maps the system endpoints onto h
func NewSystemRoutes(h *handler.SystemHandler) *DomainGroup {
	return NewDomainGroup("system", "/system").
		GET("/info", h.GetSystemInfo).
		GET("/health", h.Health)
}
