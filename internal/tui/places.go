package tui

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/paginator"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/tecsupnav/placesadmin/internal/platform"
	"github.com/tecsupnav/placesadmin/internal/resource"
	"github.com/tecsupnav/placesadmin/internal/router"
)

// typeChoicesLimit caps the place types offered as filters and in the
// place form.
const typeChoicesLimit = 100

type placesScreen struct {
	app       *App
	list      *resource.Places
	types     []platform.PlaceType
	table     table.Model
	search    textinput.Model
	pager     paginator.Model
	searching bool
	active    *bool
	typeIdx   int // 0 is all types, otherwise types[typeIdx-1]
}

// typesLoadedMsg carries the active place types for filters and forms.
type typesLoadedMsg struct {
	gen   int
	types []platform.PlaceType
}

func newPlacesScreen(a *App) *placesScreen {
	initial := platform.PlaceQuery{Page: platform.Ptr(1), Limit: platform.Ptr(a.pageSize)}
	return &placesScreen{
		app:  a,
		list: resource.NewPlaces(a.svc, initial),
		table: newTable(a.styles, []table.Column{
			{Title: "Nombre", Width: 28},
			{Title: "Tipo", Width: 16},
			{Title: "Edificio", Width: 12},
			{Title: "Piso", Width: 5},
			{Title: "Estado", Width: 11},
		}, a.tableHeight()),
		search: newSearch("buscar lugares (mín. 2 caracteres)"),
		pager:  newPager(),
	}
}

// loadTypes fetches the active place types off the event loop.
func loadTypes(a *App) tea.Cmd {
	gen := a.gen
	return func() tea.Msg {
		page, err := a.svc.ListPlaceTypes(a.ctx, platform.PlaceTypeQuery{
			IsActive: platform.Ptr(true),
			Limit:    platform.Ptr(typeChoicesLimit),
		})
		if err != nil {
			a.logger.WithError(err).Warn("failed to load place types")
			return typesLoadedMsg{gen: gen}
		}
		return typesLoadedMsg{gen: gen, types: page.Items}
	}
}

func (s *placesScreen) query() platform.PlaceQuery {
	q := platform.PlaceQuery{IsActive: s.active}
	if s.typeIdx > 0 && s.typeIdx <= len(s.types) {
		q.TipoID = &s.types[s.typeIdx-1].ID
	}
	return q
}

func (s *placesScreen) typeLabel() string {
	if s.typeIdx == 0 || s.typeIdx > len(s.types) {
		return "todos"
	}
	return s.types[s.typeIdx-1].Nombre
}

func (s *placesScreen) init() tea.Cmd {
	return tea.Batch(
		s.app.load(func(ctx context.Context) error { return s.list.Fetch(ctx, s.query()) }),
		loadTypes(s.app),
	)
}

func (s *placesScreen) refresh() {
	st := s.list.State()
	rows := make([]table.Row, 0, len(st.Items))
	for _, p := range st.Items {
		piso := "-"
		if p.Piso != nil {
			piso = fmt.Sprint(*p.Piso)
		}
		rows = append(rows, table.Row{p.Nombre, p.TypeName(), orDash(p.Edificio), piso, s.app.styles.status(p.IsActive)})
	}
	s.table.SetRows(rows)
	syncPager(&s.pager, st.Pagination)
}

func (s *placesScreen) selected() *platform.Place {
	items := s.list.State().Items
	i := s.table.Cursor()
	if i < 0 || i >= len(items) {
		return nil
	}
	return &items[i]
}

func (s *placesScreen) update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case typesLoadedMsg:
		if msg.gen == s.app.gen {
			s.types = msg.types
		}
		return nil
	case loadedMsg, resultMsg:
		s.refresh()
		return nil
	case tea.KeyMsg:
		if s.searching {
			return s.updateSearch(msg)
		}
		if cmd, ok := s.handleKey(msg); ok {
			return cmd
		}
	}
	var cmd tea.Cmd
	s.table, cmd = s.table.Update(msg)
	return cmd
}

func (s *placesScreen) updateSearch(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEnter:
		term := strings.TrimSpace(s.search.Value())
		if term == "" {
			s.searching = false
			s.search.Blur()
			return s.app.load(s.list.Refetch)
		}
		if utf8.RuneCountInString(term) < resource.MinSearchLength {
			s.app.err = fmt.Sprintf("La búsqueda debe tener al menos %d caracteres", resource.MinSearchLength)
			return nil
		}
		s.searching = false
		s.search.Blur()
		return s.app.load(func(ctx context.Context) error {
			_, err := s.list.Search(ctx, term)
			return err
		})
	case tea.KeyEsc:
		s.searching = false
		s.search.Blur()
		return nil
	}
	var cmd tea.Cmd
	s.search, cmd = s.search.Update(msg)
	return cmd
}

func (s *placesScreen) handleKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	st := s.list.State()
	pg := st.Pagination
	switch {
	case key.Matches(msg, keys.Search):
		s.searching = true
		return s.search.Focus(), true
	case key.Matches(msg, keys.Status):
		s.active = nextActive(s.active)
		return s.filter(), true
	case key.Matches(msg, keys.Type):
		s.typeIdx = (s.typeIdx + 1) % (len(s.types) + 1)
		return s.filter(), true
	case key.Matches(msg, keys.NextPage):
		if st.Search != "" || pg.Page >= pg.Pages {
			return nil, true
		}
		return s.app.load(func(ctx context.Context) error { return s.list.SetPage(ctx, pg.Page+1) }), true
	case key.Matches(msg, keys.PrevPage):
		if st.Search != "" || pg.Page <= 1 {
			return nil, true
		}
		return s.app.load(func(ctx context.Context) error { return s.list.SetPage(ctx, pg.Page-1) }), true
	case key.Matches(msg, keys.Refresh):
		s.search.SetValue("")
		return s.app.load(s.list.Refetch), true
	case key.Matches(msg, keys.New):
		return s.app.navigate(router.Path(router.RoutePlaceNew, nil)), true
	case key.Matches(msg, keys.Open):
		if p := s.selected(); p != nil {
			return s.app.navigate(router.Path(router.RoutePlaceDetail, router.Params{"id": p.ID})), true
		}
		return nil, true
	case key.Matches(msg, keys.Edit):
		if p := s.selected(); p != nil {
			return s.app.navigate(router.Path(router.RoutePlaceEdit, router.Params{"id": p.ID})), true
		}
		return nil, true
	case key.Matches(msg, keys.Toggle):
		p := s.selected()
		if p == nil {
			return nil, true
		}
		return s.app.togglePlace(*p, s.list.Toggle), true
	case key.Matches(msg, keys.Delete):
		p := s.selected()
		if p == nil {
			return nil, true
		}
		return s.app.deletePlace(*p, "", s.list.Delete), true
	}
	return nil, false
}

func (s *placesScreen) filter() tea.Cmd {
	s.search.SetValue("")
	q := s.query()
	return s.app.load(func(ctx context.Context) error { return s.list.Filter(ctx, q) })
}

// togglePlace flips a place's status, asking first when it would hide it.
func (a *App) togglePlace(p platform.Place, toggle func(ctx context.Context, id string, active bool) (*platform.Place, error)) tea.Cmd {
	next := !p.IsActive
	flash := "Lugar activado"
	if !next {
		flash = "Lugar desactivado"
	}
	run := a.do(flash, "", func(ctx context.Context) error {
		_, err := toggle(ctx, p.ID, next)
		return err
	})
	if next {
		return run
	}
	return a.ask(fmt.Sprintf("¿Desactivar %q? Dejará de mostrarse en la app.", p.Nombre), run)
}

func (a *App) deletePlace(p platform.Place, next string, del func(ctx context.Context, id string) error) tea.Cmd {
	return a.ask(fmt.Sprintf("¿Eliminar %q? Esta acción no se puede deshacer.", p.Nombre),
		a.do("Lugar eliminado", next, func(ctx context.Context) error {
			return del(ctx, p.ID)
		}))
}

func (s *placesScreen) busy() bool { return s.list.State().Loading }

func (s *placesScreen) view() string {
	st := s.app.styles
	state := s.list.State()
	var b strings.Builder
	b.WriteString(st.Muted.Render(fmt.Sprintf("Estado: %s · Tipo: %s", activeLabel(s.active), s.typeLabel())))
	if s.searching || state.Search != "" {
		b.WriteString("   " + s.search.View())
	}
	b.WriteString("\n\n")
	if state.Err != "" {
		b.WriteString(errorPanel(st, state.Err))
		return b.String()
	}
	if len(state.Items) == 0 && !state.Loading {
		if state.Search != "" {
			b.WriteString(st.Muted.Render(fmt.Sprintf("Sin resultados para %q.", state.Search)) + "\n")
		} else {
			b.WriteString(st.Muted.Render("No hay lugares para mostrar.") + "\n")
		}
		return b.String()
	}
	b.WriteString(s.table.View())
	b.WriteString("\n")
	if state.Search != "" {
		b.WriteString(st.Muted.Render(fmt.Sprintf("%d resultados para %q · r para volver al listado", len(state.Items), state.Search)))
	} else {
		b.WriteString(pageLine(st, s.pager, state.Pagination, "lugares"))
	}
	return b.String()
}

func (s *placesScreen) bindings() []key.Binding {
	if s.searching {
		return []key.Binding{
			key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "buscar")),
			key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancelar")),
		}
	}
	return []key.Binding{keys.Open, keys.New, keys.Edit, keys.Toggle, keys.Delete, keys.Search, keys.Status, keys.Type, keys.PrevPage, keys.NextPage, keys.Refresh}
}

func (s *placesScreen) capturing() bool { return s.searching }
