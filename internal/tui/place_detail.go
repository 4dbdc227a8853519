package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/tecsupnav/placesadmin/internal/platform"
	"github.com/tecsupnav/placesadmin/internal/resource"
	"github.com/tecsupnav/placesadmin/internal/router"
	"github.com/tecsupnav/placesadmin/internal/ux"
)

type placeDetailScreen struct {
	app   *App
	place *resource.Place
	// description is the glamour rendering of the current description.
	description string
}

func newPlaceDetailScreen(a *App, id string) *placeDetailScreen {
	return &placeDetailScreen{app: a, place: resource.NewPlace(a.svc, id)}
}

func (s *placeDetailScreen) init() tea.Cmd {
	return s.app.load(s.place.Fetch)
}

func (s *placeDetailScreen) render() {
	s.description = ""
	p := s.place.State().Data
	if p == nil || p.Descripcion == nil {
		return
	}
	out, err := ux.RenderMarkdown(*p.Descripcion, s.app.width-4, ux.NewTheme(false))
	if err != nil {
		s.description = *p.Descripcion
		return
	}
	s.description = out
}

func (s *placeDetailScreen) update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case loadedMsg, resultMsg, tea.WindowSizeMsg:
		s.render()
		return nil
	case tea.KeyMsg:
		p := s.place.State().Data
		switch {
		case key.Matches(msg, keys.Refresh):
			return s.app.load(s.place.Refetch)
		case p == nil:
			return nil
		case key.Matches(msg, keys.Edit):
			return s.app.navigate(router.Path(router.RoutePlaceEdit, router.Params{"id": p.ID}))
		case key.Matches(msg, keys.Toggle):
			return s.app.togglePlace(*p, func(ctx context.Context, _ string, active bool) (*platform.Place, error) {
				return s.place.Toggle(ctx, active)
			})
		case key.Matches(msg, keys.Delete):
			return s.app.deletePlace(*p, router.Path(router.RoutePlaces, nil), func(ctx context.Context, _ string) error {
				return s.place.Delete(ctx)
			})
		}
	}
	return nil
}

func (s *placeDetailScreen) busy() bool { return s.place.State().Loading }

func (s *placeDetailScreen) view() string {
	st := s.app.styles
	state := s.place.State()
	p := state.Data
	if p == nil {
		if state.Err != "" {
			return st.Error.Render(state.Err)
		}
		return st.Muted.Render("Cargando lugar...")
	}

	piso := "-"
	if p.Piso != nil {
		piso = fmt.Sprint(*p.Piso)
	}
	imagen := "-"
	if p.Imagen != nil && *p.Imagen != "" {
		imagen = *p.Imagen
	}
	rows := [][2]string{
		{"Tipo", p.TypeName()},
		{"Estado", st.status(p.IsActive)},
		{"Coordenadas", p.Latitud.String() + ", " + p.Longitud.String()},
		{"Edificio", orDash(p.Edificio)},
		{"Piso", piso},
		{"Código QR", orDash(p.CodigoQR)},
		{"Imagen", imagen},
		{"Actualizado", ux.When(p.UpdatedAt)},
	}

	var b strings.Builder
	b.WriteString(st.Subtitle.Bold(true).Render(p.Nombre) + "\n\n")
	for _, r := range rows {
		b.WriteString(st.Muted.Render(fmt.Sprintf("%-12s", r[0])) + " " + r[1] + "\n")
	}
	if s.description != "" {
		b.WriteString("\n" + s.description + "\n")
	}
	return b.String()
}

func (s *placeDetailScreen) bindings() []key.Binding {
	return []key.Binding{keys.Edit, keys.Toggle, keys.Delete, keys.Refresh}
}

func (s *placeDetailScreen) capturing() bool { return false }
