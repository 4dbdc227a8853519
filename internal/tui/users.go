package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/tecsupnav/placesadmin/internal/platform"
	"github.com/tecsupnav/placesadmin/internal/resource"
	"github.com/tecsupnav/placesadmin/internal/ux"
)

// usersScreen lists the Google sign-in users. It is read-only; the filter
// runs locally over the fetched roster.
type usersScreen struct {
	app       *App
	users     *resource.Users
	table     table.Model
	filter    textinput.Model
	filtering bool
	shown     []platform.GoogleUser
}

func newUsersScreen(a *App) *usersScreen {
	return &usersScreen{
		app:   a,
		users: resource.NewUsers(a.svc),
		table: newTable(a.styles, []table.Column{
			{Title: "Nombre", Width: 28},
			{Title: "Correo", Width: 32},
			{Title: "Rol", Width: 14},
			{Title: "Estado", Width: 11},
			{Title: "Registro", Width: 14},
		}, a.tableHeight()),
		filter: newSearch("filtrar por nombre o correo"),
	}
}

func (s *usersScreen) init() tea.Cmd {
	return s.app.load(s.users.Fetch)
}

func (s *usersScreen) refresh() {
	s.shown = resource.FilterUsers(s.users.State().Users, s.filter.Value())
	rows := make([]table.Row, 0, len(s.shown))
	for _, u := range s.shown {
		rows = append(rows, table.Row{u.NombreCompleto, u.Email, resource.RoleLabel(u.Role), s.app.styles.status(u.IsActive), ux.When(u.CreatedAt)})
	}
	s.table.SetRows(rows)
	if s.table.Cursor() >= len(rows) {
		s.table.SetCursor(0)
	}
}

func (s *usersScreen) update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case loadedMsg:
		s.refresh()
		return nil
	case tea.KeyMsg:
		if s.filtering {
			switch msg.Type {
			case tea.KeyEnter, tea.KeyEsc:
				s.filtering = false
				s.filter.Blur()
				return nil
			}
			var cmd tea.Cmd
			s.filter, cmd = s.filter.Update(msg)
			s.refresh()
			return cmd
		}
		switch {
		case key.Matches(msg, keys.Search):
			s.filtering = true
			return s.filter.Focus()
		case key.Matches(msg, keys.Refresh):
			return s.app.load(s.users.Refetch)
		}
	}
	var cmd tea.Cmd
	s.table, cmd = s.table.Update(msg)
	return cmd
}

func (s *usersScreen) busy() bool { return s.users.State().Loading }

func (s *usersScreen) view() string {
	st := s.app.styles
	state := s.users.State()
	var b strings.Builder
	if state.Stats != nil {
		b.WriteString(st.Muted.Render(fmt.Sprintf("Total %d · %s %d · %s %d",
			state.Stats.Total,
			st.Success.Render("activos"), state.Stats.Active,
			st.Muted.Render("inactivos"), state.Stats.Inactive)))
	}
	if s.filtering || s.filter.Value() != "" {
		b.WriteString("   " + s.filter.View())
	}
	b.WriteString("\n\n")
	if state.Err != "" {
		b.WriteString(errorPanel(st, state.Err))
		return b.String()
	}
	switch {
	case len(state.Users) == 0 && !state.Loading:
		b.WriteString(st.Muted.Render("Aún no hay usuarios registrados."))
	case len(s.shown) == 0 && s.filter.Value() != "":
		b.WriteString(st.Muted.Render(fmt.Sprintf("Ningún usuario coincide con %q.", s.filter.Value())))
	default:
		b.WriteString(s.table.View())
		b.WriteString("\n")
		b.WriteString(st.Muted.Render(fmt.Sprintf("%d de %d usuarios", len(s.shown), len(state.Users))))
	}
	return b.String()
}

func (s *usersScreen) bindings() []key.Binding {
	if s.filtering {
		return []key.Binding{key.NewBinding(key.WithKeys("enter", "esc"), key.WithHelp("enter", "listo"))}
	}
	return []key.Binding{key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "filtrar")), keys.Refresh}
}

func (s *usersScreen) capturing() bool { return s.filtering }
