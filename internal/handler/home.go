package handler

import (
	"log/slog"
	"net/http"

	"github.com/nextstepguidance/nextstep/internal/service"
	"github.com/nextstepguidance/nextstep/internal/ui"
	"github.com/nextstepguidance/nextstep/internal/ui/pages"
)

type HomeHandler struct {
	siteService *service.SiteService
}

func NewHomeHandler(siteService *service.SiteService) *HomeHandler {
	return &HomeHandler{
		siteService: siteService,
	}
}

func (h *HomeHandler) HomePage(w http.ResponseWriter, r *http.Request) {
	content, err := h.siteService.Home()
	data := pages.HomeData{Content: content}
	if err != nil {
		slog.Error("failed to load home content", "error", err)
		data.Error = "Some content could not be loaded."
	}

	ui.Render(w, r, pages.Home(data))
}

func (h *HomeHandler) NotFoundPage(w http.ResponseWriter, r *http.Request) {
	ui.RenderStatus(w, r, http.StatusNotFound, pages.NotFound())
}

// Forbidden is the view non-admins get for every admin route.
func (h *HomeHandler) Forbidden(w http.ResponseWriter, r *http.Request) {
	if r.Header.Get("HX-Request") == "true" {
		failAction(w, r, "You do not have admin permissions.")
		return
	}
	ui.RenderStatus(w, r, http.StatusForbidden, pages.Forbidden())
}
