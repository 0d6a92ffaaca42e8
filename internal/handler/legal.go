package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/nextstepguidance/nextstep/internal/service"
	"github.com/nextstepguidance/nextstep/internal/ui"
	"github.com/nextstepguidance/nextstep/internal/ui/pages"
)

type LegalHandler struct {
	legalService *service.LegalService
}

func NewLegalHandler(legalService *service.LegalService) *LegalHandler {
	return &LegalHandler{
		legalService: legalService,
	}
}

func (h *LegalHandler) ShowPage(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("page")

	page, err := h.legalService.Page(slug)
	if err != nil {
		if !errors.Is(err, service.ErrPageNotFound) {
			slog.Error("failed to load legal page", "error", err, "slug", slug)
		}
		ui.RenderStatus(w, r, http.StatusNotFound, pages.NotFound())
		return
	}

	ui.Render(w, r, pages.Legal(page))
}
