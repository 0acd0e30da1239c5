// Package router defines how HTTP routes are registered for the API.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/concert-ticket-booking/internal/handler"
	"github.com/iliyamo/concert-ticket-booking/internal/middleware"
)

// RegisterRoutes registers routes that do not require authentication on
// the provided Echo instance: the health check, the auth endpoints and
// the public browse surface.
func RegisterRoutes(e *echo.Echo, a *handler.AuthHandler, p *handler.PublicHandler) {
	e.GET("/healthz", handler.Health)

	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)

	e.GET("/v1/events", p.ListEvents)
	e.GET("/v1/events/:id", p.GetEvent)
	e.GET("/v1/events/:id/seats", p.GetEventSeats)
}

// RegisterBooking registers the authenticated booking surface.  All
// routes run the JWTAuth middleware; the booking endpoint additionally
// runs the rate limiter so one client cannot monopolize an on-sale.
func RegisterBooking(e *echo.Echo, b *handler.BookingHandler, a *handler.AuthHandler, jwtSecret string, limiter echo.MiddlewareFunc) {
	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.Use(middleware.RequireRole("ADMIN", "CUSTOMER"))

	auth.GET("/me", a.Me)
	auth.POST("/events/:id/tickets", b.Book, limiter)
	auth.GET("/tickets/:id", b.GetTicket)
	auth.DELETE("/tickets/:id", b.Cancel)
	auth.GET("/my-tickets", b.MyTickets)
}

// RegisterAdmin registers event administration routes, restricted to
// the ADMIN role.
func RegisterAdmin(e *echo.Echo, adm *handler.AdminHandler, jwtSecret string) {
	g := e.Group("/v1")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole("ADMIN"))

	g.POST("/events", adm.CreateEvent)
	g.DELETE("/events/:id", adm.DeleteEvent)
}
