package toast

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func render(t *testing.T, p Props) string {
	t.Helper()
	var buf bytes.Buffer
	if err := Toast(p).Render(context.Background(), &buf); err != nil {
		t.Fatalf("Render: %v", err)
	}
	return buf.String()
}

func TestToastDefaults(t *testing.T) {
	html := render(t, Props{Title: "Saved", Description: "<b>ok</b>", Variant: VariantSuccess, Dismissible: true})

	if !strings.Contains(html, `data-duration="3000"`) {
		t.Fatalf("missing default duration: %s", html)
	}
	if strings.Contains(html, "<b>ok</b>") {
		t.Fatalf("description not escaped: %s", html)
	}
	if !strings.Contains(html, "data-toast-dismiss") {
		t.Fatalf("missing dismiss button: %s", html)
	}
	if !strings.Contains(html, "bg-green-50") {
		t.Fatalf("missing variant class: %s", html)
	}
}

func TestToastClassOverride(t *testing.T) {
	html := render(t, Props{Title: "Heads up", Class: "bg-yellow-50", Duration: -1})

	if strings.Contains(html, "bg-white") {
		t.Fatalf("tailwind merge kept conflicting class: %s", html)
	}
	if strings.Contains(html, "data-duration") {
		t.Fatalf("sticky toast has a duration: %s", html)
	}
}
