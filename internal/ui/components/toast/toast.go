package toast

import (
	"context"
	"html/template"
	"io"

	twmerge "github.com/Oudwins/tailwind-merge-go"
	"github.com/a-h/templ"
)

type Variant string

const (
	VariantDefault Variant = "default"
	VariantSuccess Variant = "success"
	VariantError   Variant = "error"
	VariantInfo    Variant = "info"
)

// DefaultDuration is how long a toast stays up, in milliseconds.
const DefaultDuration = 3000

type Props struct {
	Title       string
	Description string
	Variant     Variant
	Icon        bool
	Dismissible bool
	// Duration in milliseconds; 0 means DefaultDuration, negative keeps it open.
	Duration int
	Class    string
}

var variantClasses = map[Variant]string{
	VariantDefault: "border-gray-200 bg-white text-gray-900",
	VariantSuccess: "border-green-200 bg-green-50 text-green-900",
	VariantError:   "border-red-200 bg-red-50 text-red-900",
	VariantInfo:    "border-blue-200 bg-blue-50 text-blue-900",
}

var variantIcons = map[Variant]string{
	VariantDefault: "•",
	VariantSuccess: "✓",
	VariantError:   "!",
	VariantInfo:    "i",
}

var tmpl = template.Must(template.New("toast").Parse(`<div class="{{.Class}}" role="status" data-toast data-variant="{{.Variant}}"{{if gt .Duration 0}} data-duration="{{.Duration}}"{{end}}>
{{- if .Icon}}<span class="font-bold" aria-hidden="true">{{.IconText}}</span>{{end}}
<div class="flex-1">
{{- if .Title}}<p class="font-semibold">{{.Title}}</p>{{end}}
{{- if .Description}}<p class="text-sm opacity-90">{{.Description}}</p>{{end}}
</div>
{{- if .Dismissible}}<button type="button" class="ml-2 text-sm opacity-60 hover:opacity-100" data-toast-dismiss aria-label="Dismiss">×</button>{{end}}
</div>`))

func Toast(p Props) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		variant := p.Variant
		if variant == "" {
			variant = VariantDefault
		}
		duration := p.Duration
		if duration == 0 {
			duration = DefaultDuration
		}

		return tmpl.Execute(w, struct {
			Props
			Variant  Variant
			Duration int
			Class    string
			IconText string
		}{
			Props:    p,
			Variant:  variant,
			Duration: duration,
			Class:    twmerge.Merge("pointer-events-auto flex w-80 items-start gap-3 rounded-lg border p-4 shadow-lg", variantClasses[variant], p.Class),
			IconText: variantIcons[variant],
		})
	})
}
