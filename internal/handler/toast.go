package handler

import (
	"net/http"

	"github.com/nextstepguidance/nextstep/internal/ui"
	"github.com/nextstepguidance/nextstep/internal/ui/components/toast"
)

func toastError(w http.ResponseWriter, r *http.Request, description string) {
	ui.RenderOOB(w, r, toast.Toast(toast.Props{
		Title:       "Error",
		Description: description,
		Variant:     toast.VariantError,
		Icon:        true,
		Dismissible: true,
	}), "beforeend:#toast-container")
}

func toastSuccess(w http.ResponseWriter, r *http.Request, description string) {
	ui.RenderOOB(w, r, toast.Toast(toast.Props{
		Title:       "Success",
		Description: description,
		Variant:     toast.VariantSuccess,
		Icon:        true,
		Dismissible: true,
	}), "beforeend:#toast-container")
}

// failAction shows an error toast and leaves the swap target untouched.
func failAction(w http.ResponseWriter, r *http.Request, description string) {
	w.Header().Set("HX-Reswap", "none")
	toastError(w, r, description)
}
