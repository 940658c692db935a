package i18n

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pavelanni/wellness/internal/assessment"
)

func initLang(t *testing.T, lang string) context.Context {
	t.Helper()
	if err := Init("en"); err != nil {
		t.Fatalf("Init: %v", err)
	}
	return WithLocalizer(context.Background(), NewLocalizer(lang))
}

func TestTranslateEnglish(t *testing.T) {
	ctx := initLang(t, "en")

	if got := T(ctx, "AppTitle"); got != "Student Wellness Portal" {
		t.Errorf("T(AppTitle) = %q", got)
	}
	if got := Band(ctx, assessment.BandModerate); got != "Moderate" {
		t.Errorf("Band(Moderate) = %q", got)
	}
}

func TestTranslateSpanish(t *testing.T) {
	ctx := initLang(t, "es")

	if got := Band(ctx, assessment.BandHigh); got != "Alto" {
		t.Errorf("Band(High) = %q, want 'Alto'", got)
	}
	if got := Wellness(ctx, "Needs attention"); got != "Necesita atención" {
		t.Errorf("Wellness(Needs attention) = %q", got)
	}
}

func TestEveryBandHasRecommendation(t *testing.T) {
	for _, lang := range []string{"en", "es"} {
		ctx := initLang(t, lang)
		for _, b := range assessment.Bands {
			id := assessment.Recommendation(b)
			if got := T(ctx, id); got == id {
				t.Errorf("%s: missing %s", lang, id)
			}
		}
	}
}

func TestPluralTranslation(t *testing.T) {
	ctx := initLang(t, "en")

	if got := Tp(ctx, "SessionsCompleted", 1); got != "1 Tara session completed." {
		t.Errorf("Tp(1) = %q", got)
	}
	if got := Tp(ctx, "SessionsCompleted", 5); got != "5 Tara sessions completed." {
		t.Errorf("Tp(5) = %q", got)
	}
}

func TestTemplateDataTranslation(t *testing.T) {
	ctx := initLang(t, "en")

	if got := Td(ctx, "Welcome", map[string]any{"Name": "Jane"}); got != "Welcome back, Jane!" {
		t.Errorf("Td(Welcome) = %q", got)
	}
}

func TestMissingKey(t *testing.T) {
	ctx := initLang(t, "en")

	if got := T(ctx, "NonExistentKey"); got != "NonExistentKey" {
		t.Errorf("T(NonExistentKey) = %q, want 'NonExistentKey'", got)
	}
}

func TestMiddlewareAcceptLanguage(t *testing.T) {
	if err := Init("en"); err != nil {
		t.Fatalf("Init: %v", err)
	}
	var got string
	h := Middleware("en")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = Band(r.Context(), assessment.BandLow)
	}))

	tests := []struct {
		header string
		want   string
	}{
		{"", "Low"},
		{"es-MX,es;q=0.9,en;q=0.8", "Bajo"},
		{"fr-FR", "Low"},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if tt.header != "" {
			req.Header.Set("Accept-Language", tt.header)
		}
		h.ServeHTTP(httptest.NewRecorder(), req)
		if got != tt.want {
			t.Errorf("Accept-Language %q: got %q, want %q", tt.header, got, tt.want)
		}
	}
}

func TestLanguages(t *testing.T) {
	initLang(t, "en")
	if got := len(Languages()); got != 2 {
		t.Errorf("expected 2 languages, got %d", got)
	}
}

func TestPreferOverridesAcceptLanguage(t *testing.T) {
	if err := Init("en"); err != nil {
		t.Fatalf("Init: %v", err)
	}
	tests := []struct {
		name   string
		prefer string
		accept string
		want   string
	}{
		{"stored spanish beats english browser", "es", "en-US,en;q=0.9", "Alto"},
		{"stored english beats spanish browser", "en", "es", "High"},
		{"unloaded stored language falls to header", "fr", "es", "Alto"},
		{"nothing matches", "de", "", "High"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.accept != "" {
				r.Header.Set("Accept-Language", tt.accept)
			}
			if got := Band(Prefer(r, tt.prefer), assessment.BandHigh); got != tt.want {
				t.Errorf("Band(High) = %q, want %q", got, tt.want)
			}
		})
	}
}
