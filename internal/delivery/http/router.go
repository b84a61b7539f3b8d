package http

import (
	"log/slog"
	"net/http"

	"eventcatalog/internal/delivery/http/controllers"
	"eventcatalog/internal/delivery/http/middleware"

	httpSwagger "github.com/swaggo/http-swagger"
)

// NewRouter initializes the HTTP router with all record store routes
func NewRouter(events *controllers.EventController, users *controllers.UserController) *http.ServeMux {
	mux := http.NewServeMux()

	// Events
	mux.HandleFunc("GET /events", events.ListEvents)
	mux.HandleFunc("POST /events", events.CreateEvent)
	mux.HandleFunc("GET /events/{eventID}", events.GetEvent)
	mux.HandleFunc("PUT /events/{eventID}", events.ReplaceEvent)
	mux.HandleFunc("DELETE /events/{eventID}", events.DeleteEvent)
	mux.HandleFunc("GET /categories", events.ListCategories)

	// Users
	mux.HandleFunc("GET /users", users.ListUsers)
	mux.HandleFunc("POST /users", users.CreateUser)
	mux.HandleFunc("GET /users/{userID}", users.GetUser)

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}

// NewHandler wraps the router with the middleware chain. RequestID runs
// outermost so the request log and CORS-exposed header carry the same id.
func NewHandler(logger *slog.Logger, allowedOrigins []string, mux http.Handler) http.Handler {
	return middleware.RequestID(
		middleware.LoggingMiddleware(logger,
			middleware.CORS(allowedOrigins, mux)))
}
