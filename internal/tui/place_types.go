package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/paginator"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/tecsupnav/placesadmin/internal/platform"
	"github.com/tecsupnav/placesadmin/internal/resource"
	"github.com/tecsupnav/placesadmin/internal/router"
	"github.com/tecsupnav/placesadmin/internal/ux"
)

type placeTypesScreen struct {
	app       *App
	list      *resource.PlaceTypes
	table     table.Model
	search    textinput.Model
	pager     paginator.Model
	searching bool
	active    *bool
}

func newPlaceTypesScreen(a *App) *placeTypesScreen {
	initial := platform.PlaceTypeQuery{Page: platform.Ptr(1), Limit: platform.Ptr(a.pageSize)}
	return &placeTypesScreen{
		app:  a,
		list: resource.NewPlaceTypes(a.svc, initial),
		table: newTable(a.styles, []table.Column{
			{Title: "Nombre", Width: 26},
			{Title: "Icono", Width: 10},
			{Title: "Color", Width: 9},
			{Title: "Estado", Width: 11},
			{Title: "Actualizado", Width: 16},
		}, a.tableHeight()),
		search: newSearch("buscar por nombre"),
		pager:  newPager(),
	}
}

func (s *placeTypesScreen) query() platform.PlaceTypeQuery {
	q := platform.PlaceTypeQuery{IsActive: s.active}
	if term := strings.TrimSpace(s.search.Value()); term != "" {
		q.Search = &term
	}
	return q
}

func (s *placeTypesScreen) init() tea.Cmd {
	return s.app.load(func(ctx context.Context) error {
		return s.list.Fetch(ctx, s.query())
	})
}

func (s *placeTypesScreen) refresh() {
	st := s.list.State()
	rows := make([]table.Row, 0, len(st.Items))
	for _, pt := range st.Items {
		rows = append(rows, table.Row{pt.Nombre, orDash(pt.Icono), orDash(pt.Color), s.app.styles.status(pt.IsActive), ux.When(pt.UpdatedAt)})
	}
	s.table.SetRows(rows)
	syncPager(&s.pager, st.Pagination)
}

func (s *placeTypesScreen) selected() *platform.PlaceType {
	items := s.list.State().Items
	i := s.table.Cursor()
	if i < 0 || i >= len(items) {
		return nil
	}
	return &items[i]
}

func (s *placeTypesScreen) update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
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

func (s *placeTypesScreen) updateSearch(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEnter:
		s.searching = false
		s.search.Blur()
		q := s.query()
		return s.app.load(func(ctx context.Context) error { return s.list.Filter(ctx, q) })
	case tea.KeyEsc:
		s.searching = false
		s.search.Blur()
		return nil
	}
	var cmd tea.Cmd
	s.search, cmd = s.search.Update(msg)
	return cmd
}

func (s *placeTypesScreen) handleKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	pg := s.list.State().Pagination
	switch {
	case key.Matches(msg, keys.Search):
		s.searching = true
		return s.search.Focus(), true
	case key.Matches(msg, keys.Status):
		s.active = nextActive(s.active)
		q := s.query()
		return s.app.load(func(ctx context.Context) error { return s.list.Filter(ctx, q) }), true
	case key.Matches(msg, keys.NextPage):
		if pg.Page >= pg.Pages {
			return nil, true
		}
		return s.app.load(func(ctx context.Context) error { return s.list.SetPage(ctx, pg.Page+1) }), true
	case key.Matches(msg, keys.PrevPage):
		if pg.Page <= 1 {
			return nil, true
		}
		return s.app.load(func(ctx context.Context) error { return s.list.SetPage(ctx, pg.Page-1) }), true
	case key.Matches(msg, keys.Refresh):
		return s.app.load(s.list.Refetch), true
	case key.Matches(msg, keys.New):
		return s.app.navigate(router.Path(router.RoutePlaceTypeNew, nil)), true
	case key.Matches(msg, keys.Edit):
		if pt := s.selected(); pt != nil {
			return s.app.navigate(router.Path(router.RoutePlaceTypeEdit, router.Params{"id": pt.ID})), true
		}
		return nil, true
	case key.Matches(msg, keys.Toggle):
		pt := s.selected()
		if pt == nil {
			return nil, true
		}
		id, next := pt.ID, !pt.IsActive
		flash := "Tipo de lugar activado"
		if !next {
			flash = "Tipo de lugar desactivado"
		}
		run := s.app.do(flash, "", func(ctx context.Context) error {
			_, err := s.list.Toggle(ctx, id, next)
			return err
		})
		if next {
			return run, true
		}
		return s.app.ask(fmt.Sprintf("¿Desactivar el tipo %q?", pt.Nombre), run), true
	case key.Matches(msg, keys.Delete):
		pt := s.selected()
		if pt == nil {
			return nil, true
		}
		id := pt.ID
		return s.app.ask(fmt.Sprintf("¿Eliminar el tipo %q? Esta acción no se puede deshacer.", pt.Nombre),
			s.app.do("Tipo de lugar eliminado", "", func(ctx context.Context) error {
				return s.list.Delete(ctx, id)
			})), true
	}
	return nil, false
}

func (s *placeTypesScreen) busy() bool { return s.list.State().Loading }

func (s *placeTypesScreen) view() string {
	st := s.app.styles
	state := s.list.State()
	var b strings.Builder
	b.WriteString(st.Muted.Render("Estado: " + activeLabel(s.active)))
	if term := strings.TrimSpace(s.search.Value()); term != "" || s.searching {
		b.WriteString("   " + s.search.View())
	}
	b.WriteString("\n\n")
	if state.Err != "" {
		b.WriteString(errorPanel(st, state.Err))
		return b.String()
	}
	if len(state.Items) == 0 && !state.Loading {
		b.WriteString(st.Muted.Render("No hay tipos de lugar para mostrar.") + "\n")
		return b.String()
	}
	b.WriteString(s.table.View())
	b.WriteString("\n")
	b.WriteString(pageLine(st, s.pager, state.Pagination, "tipos"))
	return b.String()
}

func (s *placeTypesScreen) bindings() []key.Binding {
	if s.searching {
		return []key.Binding{
			key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "aplicar")),
			key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancelar")),
		}
	}
	return []key.Binding{keys.New, keys.Edit, keys.Toggle, keys.Delete, keys.Search, keys.Status, keys.PrevPage, keys.NextPage, keys.Refresh}
}

func (s *placeTypesScreen) capturing() bool { return s.searching }
