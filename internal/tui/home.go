package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tecsupnav/placesadmin/internal/platform"
	"github.com/tecsupnav/placesadmin/internal/resource"
	"github.com/tecsupnav/placesadmin/internal/router"
)

// homeScreen is the dashboard landing page: counts and quick actions.
type homeScreen struct {
	app    *App
	places *resource.Stats[platform.PlaceStats]
	types  *resource.Stats[platform.PlaceTypeStats]
	users  *resource.Stats[platform.GoogleUsersStats]
}

func newHomeScreen(a *App) *homeScreen {
	return &homeScreen{
		app:    a,
		places: resource.NewPlaceStats(a.svc),
		types:  resource.NewPlaceTypeStats(a.svc),
		users:  resource.NewStats(a.svc.GoogleUsersStats),
	}
}

func (s *homeScreen) init() tea.Cmd {
	return tea.Batch(
		s.app.load(s.places.Fetch),
		s.app.load(s.types.Fetch),
		s.app.load(s.users.Fetch),
	)
}

func (s *homeScreen) update(msg tea.Msg) tea.Cmd {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}
	switch {
	case key.Matches(km, keys.CreatePlace):
		return s.app.navigate(router.Path(router.RoutePlaceNew, nil))
	case key.Matches(km, keys.NewType):
		return s.app.navigate(router.Path(router.RoutePlaceTypeNew, nil))
	case key.Matches(km, keys.Places):
		return s.app.navigate(router.Path(router.RoutePlaces, nil))
	case key.Matches(km, keys.Types):
		return s.app.navigate(router.Path(router.RoutePlaceTypes, nil))
	case key.Matches(km, keys.Users):
		return s.app.navigate(router.Path(router.RouteUsers, nil))
	case key.Matches(km, keys.Refresh):
		return s.init()
	case key.Matches(km, keys.Logout):
		return s.app.logout()
	}
	return nil
}

func (s *homeScreen) busy() bool {
	return s.places.State().Loading || s.types.State().Loading || s.users.State().Loading
}

// welcome greets the staff member by last name.
func welcome(u *platform.User) string {
	if u == nil {
		return "Bienvenido"
	}
	name := u.LastName
	if name == "" {
		name = u.DisplayName()
	}
	return "Bienvenido, " + name
}

func (s *homeScreen) card(title string, value, detail string) string {
	st := s.app.styles
	return st.Card.Render(st.Muted.Render(title) + "\n" + st.CardValue.Render(value) + "\n" + st.Muted.Render(detail))
}

func count[T any](st resource.EntityState[T], get func(*T) (int, string)) (string, string) {
	switch {
	case st.Err != "":
		return "!", st.Err
	case st.Data == nil:
		return "…", ""
	}
	n, detail := get(st.Data)
	return strconv.Itoa(n), detail
}

func (s *homeScreen) view() string {
	st := s.app.styles
	var b strings.Builder
	b.WriteString(st.Title.Render(welcome(s.app.store.Snapshot().User)))
	b.WriteString("\n")
	b.WriteString(st.Subtitle.Render("Resumen del campus"))
	b.WriteString("\n\n")

	pv, pd := count(s.places.State(), func(p *platform.PlaceStats) (int, string) {
		return p.Total, fmt.Sprintf("%d activos · %d inactivos", p.Active, p.Inactive)
	})
	tv, td := count(s.types.State(), func(p *platform.PlaceTypeStats) (int, string) {
		detail := fmt.Sprintf("%d activos", p.ActivePlaceTypes)
		if p.MostUsedPlaceType != nil {
			detail += " · más usado: " + p.MostUsedPlaceType.Nombre
		}
		return p.TotalPlaceTypes, detail
	})
	uv, ud := count(s.users.State(), func(p *platform.GoogleUsersStats) (int, string) {
		return p.Total, fmt.Sprintf("%d activos", p.Active)
	})
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		s.card("Lugares", pv, pd),
		s.card("Tipos de lugar", tv, td),
		s.card("Usuarios", uv, ud),
	))
	b.WriteString("\n\n")

	b.WriteString(st.Subtitle.Render("Acciones rápidas"))
	b.WriteString("\n")
	for _, kb := range []key.Binding{keys.CreatePlace, keys.NewType, keys.Places, keys.Types, keys.Users} {
		b.WriteString(fmt.Sprintf("  %s  %s\n", st.Key.Render("["+kb.Help().Key+"]"), kb.Help().Desc))
	}
	return b.String()
}

func (s *homeScreen) bindings() []key.Binding {
	return []key.Binding{keys.Refresh, keys.Logout}
}

func (s *homeScreen) capturing() bool { return false }

// notFoundScreen is shown for unknown paths.
type notFoundScreen struct {
	app *App
}

func newNotFoundScreen(a *App) *notFoundScreen {
	return &notFoundScreen{app: a}
}

func (s *notFoundScreen) init() tea.Cmd { return nil }

func (s *notFoundScreen) update(msg tea.Msg) tea.Cmd {
	if km, ok := msg.(tea.KeyMsg); ok && key.Matches(km, keys.Open) {
		return s.app.navigate(router.Path(router.RouteDashboard, nil))
	}
	return nil
}

func (s *notFoundScreen) view() string {
	st := s.app.styles
	return st.Error.Render("404") + "\n" +
		st.Subtitle.Render(fmt.Sprintf("La ruta %q no existe.", s.app.path))
}

func (s *notFoundScreen) bindings() []key.Binding {
	return []key.Binding{key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "ir al dashboard"))}
}

func (s *notFoundScreen) capturing() bool { return false }
