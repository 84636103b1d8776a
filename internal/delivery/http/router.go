package http

import (
	"log/slog"
	"net/http"
	"path/filepath"

	chimw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"

	"rsvptracker/internal/delivery/http/controllers"
	"rsvptracker/internal/delivery/http/middleware"
)

// NewRouter initializes the HTTP router with all application routes
func NewRouter(
	eventController *controllers.EventController,
	rsvpController *controllers.RSVPController,
	pageController *controllers.PageController,
) *http.ServeMux {
	mux := http.NewServeMux()

	// Events
	mux.HandleFunc("POST /events", eventController.CreateEvent)
	mux.HandleFunc("GET /events", eventController.ListEvents)
	mux.HandleFunc("GET /events/{eventID}", eventController.GetEvent)
	mux.HandleFunc("DELETE /events/{eventID}", eventController.DeleteEvent)
	mux.HandleFunc("GET /events/{eventID}/calendar.ics", eventController.GetCalendar)

	// RSVPs
	mux.HandleFunc("POST /events/{eventID}/rsvp", rsvpController.SubmitRSVP)
	mux.HandleFunc("GET /events/{eventID}/rsvps", rsvpController.ListRSVPs)

	// Browser shells and their assets
	mux.HandleFunc("GET /{$}", pageController.Index)
	mux.HandleFunc("GET /rsvp/{eventID}", pageController.RSVP)
	staticDir := pageController.StaticDir
	mux.Handle("GET /styles/", http.StripPrefix("/styles/", http.FileServer(http.Dir(filepath.Join(staticDir, "styles")))))
	mux.Handle("GET /js/", http.StripPrefix("/js/", http.FileServer(http.Dir(filepath.Join(staticDir, "js")))))

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}

// NewHandler wraps the router with the middleware chain, outermost first:
// request id, access log, CORS, panic recovery, real client IP.
func NewHandler(logger *slog.Logger, allowedOrigins []string, router http.Handler) http.Handler {
	var h http.Handler = router
	h = chimw.RealIP(h)
	h = chimw.Recoverer(h)
	h = middleware.CORS(allowedOrigins, h)
	h = middleware.LoggingMiddleware(logger, h)
	h = middleware.RequestID(h)
	return h
}
