package controllers

import (
	"errors"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"rsvptracker/internal/delivery/http/helpers"
)

// Shell pages served from the static directory.
const (
	IndexPage = "index.html"
	RSVPPage  = "rsvp.html"
)

// PageController serves the two HTML shells the browser front-end boots from.
type PageController struct {
	Logger    *slog.Logger
	StaticDir string
}

func NewPageController(logger *slog.Logger, staticDir string) *PageController {
	return &PageController{Logger: logger, StaticDir: staticDir}
}

// Index serves the organizer page.
func (c *PageController) Index(w http.ResponseWriter, r *http.Request) {
	c.serveShell(w, r, IndexPage)
}

// RSVP serves the guest page. The event id is read client-side from the URL.
func (c *PageController) RSVP(w http.ResponseWriter, r *http.Request) {
	c.serveShell(w, r, RSVPPage)
}

func (c *PageController) serveShell(w http.ResponseWriter, r *http.Request, name string) {
	path := filepath.Join(c.StaticDir, name)
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			c.Logger.WarnContext(r.Context(), "shell page unavailable", "page", name, "err", err)
		}
		helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, name+" not found")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	http.ServeFile(w, r, path)
}
