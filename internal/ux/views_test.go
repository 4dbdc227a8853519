package ux

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/tecsupnav/placesadmin/internal/platform"
)

func renderPlain(t *testing.T, v TextRenderer) string {
	t.Helper()
	var buf bytes.Buffer
	if err := v.RenderText(&buf, NewTheme(true)); err != nil {
		t.Fatalf("RenderText() error = %v", err)
	}
	return buf.String()
}

func TestPlaceTypeList_RenderText(t *testing.T) {
	out := renderPlain(t, PlaceTypeList{
		Items: []platform.PlaceType{
			{ID: "pt-1", Nombre: "Biblioteca", Icono: platform.Ptr("book"), IsActive: true},
			{ID: "pt-3", Nombre: "Laboratorio"},
		},
		Pagination: platform.Pagination{Total: 2, Page: 1, Limit: 20, Pages: 1},
	})

	for _, want := range []string{"NAME", "Biblioteca", "book", "Laboratorio", "inactive", "page 1 of 1 · 2 place types"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestPlaceList_RenderText(t *testing.T) {
	places := []platform.Place{{
		ID: "p-1", Nombre: "Cafetería Central", Latitud: -12.045, Longitud: -77.042,
		Tipo: &platform.PlaceTypeSummary{Nombre: "Cafetería"}, Edificio: platform.Ptr("Pabellón A"),
		Piso: platform.Ptr(1), IsActive: true,
	}}

	t.Run("page", func(t *testing.T) {
		out := renderPlain(t, PlaceList{Items: places, Pagination: platform.Pagination{Total: 1, Page: 1, Pages: 1}})
		for _, want := range []string{"Cafetería Central", "Pabellón A", "-12.045, -77.042", "page 1 of 1"} {
			if !strings.Contains(out, want) {
				t.Errorf("output missing %q:\n%s", want, out)
			}
		}
	})

	t.Run("search", func(t *testing.T) {
		out := renderPlain(t, PlaceList{Items: places, Search: "café"})
		if !strings.Contains(out, `1 results for "café"`) {
			t.Errorf("output missing search footer:\n%s", out)
		}
	})

	t.Run("empty search", func(t *testing.T) {
		out := renderPlain(t, PlaceList{Search: "zz"})
		if !strings.Contains(out, `No places match "zz".`) {
			t.Errorf("unexpected output:\n%s", out)
		}
	})
}

func TestPlaceTypeStatsView_RenderText(t *testing.T) {
	tests := []struct {
		count int
		want  string
	}{
		{1, "Cafetería (1 place)"},
		{3, "Cafetería (3 places)"},
	}
	for _, tt := range tests {
		out := renderPlain(t, PlaceTypeStatsView{PlaceTypeStats: platform.PlaceTypeStats{
			TotalPlaceTypes:   3,
			ActivePlaceTypes:  2,
			MostUsedPlaceType: &platform.PlaceTypeUsage{Nombre: "Cafetería", UsageCount: tt.count},
		}})
		if !strings.Contains(out, tt.want) {
			t.Errorf("output missing %q:\n%s", tt.want, out)
		}
	}
}

func TestPlaceDetail_RendersMarkdownDescription(t *testing.T) {
	out := renderPlain(t, PlaceDetail{platform.Place{
		ID: "p-1", Nombre: "Auditorio", TipoID: "pt-1",
		Descripcion: platform.Ptr("Capacidad para **200** personas"),
	}})
	if !strings.Contains(out, "Auditorio") || !strings.Contains(out, "200") {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestUserList_RenderText(t *testing.T) {
	out := renderPlain(t, UserList{
		Users:  []platform.GoogleUser{{NombreCompleto: "José Pérez", Email: "jose@tecsup.edu.pe", Role: "STUDENT", IsActive: true}},
		Count:  3,
		Filter: "jose",
	})
	for _, want := range []string{"José Pérez", "Estudiante", `1 of 3 users matching "jose"`} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestSessionStatus_RenderText(t *testing.T) {
	t.Run("anonymous", func(t *testing.T) {
		out := renderPlain(t, SessionStatus{Backend: "http://localhost:3000/api"})
		if !strings.Contains(out, "Not logged in") || !strings.Contains(out, "localhost:3000") {
			t.Errorf("unexpected output:\n%s", out)
		}
	})

	t.Run("authenticated", func(t *testing.T) {
		exp := time.Now().Add(2 * time.Hour)
		out := renderPlain(t, SessionStatus{
			Authenticated: true,
			User:          &platform.User{Email: "admin@tecsup.edu.pe", LastName: "Quispe", Role: "ADMIN"},
			Backend:       "http://x",
			ExpiresAt:     &exp,
		})
		for _, want := range []string{"Logged in", "Quispe", "Administrador", "from now"} {
			if !strings.Contains(out, want) {
				t.Errorf("output missing %q:\n%s", want, out)
			}
		}
	})
}

func TestWhen(t *testing.T) {
	if got := When(time.Time{}); got != "-" {
		t.Errorf("When(zero) = %q, want -", got)
	}
	if got := When(time.Now().Add(-3 * time.Hour)); got != "3 hours ago" {
		t.Errorf("When(-3h) = %q", got)
	}
}

func TestValidateEmail(t *testing.T) {
	tests := map[string]bool{
		"admin@tecsup.edu.pe":         true,
		"  admin@tecsup.edu.pe  ":     true,
		"":                            false,
		"not-an-email":                false,
		"Admin <admin@tecsup.edu.pe>": false,
	}
	for in, ok := range tests {
		if err := ValidateEmail(in); (err == nil) != ok {
			t.Errorf("ValidateEmail(%q) error = %v, want ok=%v", in, err, ok)
		}
	}
}

func TestRequired(t *testing.T) {
	if err := Required("password")("   "); err == nil || err.Error() != "password is required" {
		t.Errorf("Required() error = %v", err)
	}
	if err := Required("password")("x"); err != nil {
		t.Errorf("Required() error = %v", err)
	}
}
