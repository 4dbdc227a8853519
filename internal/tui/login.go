package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/tecsupnav/placesadmin/internal/platform"
	"github.com/tecsupnav/placesadmin/internal/router"
	"github.com/tecsupnav/placesadmin/internal/ux"
)

type loginScreen struct {
	app     *App
	creds   *platform.Credentials
	form    *huh.Form
	sending bool
}

func newLoginScreen(a *App) *loginScreen {
	s := &loginScreen{app: a, creds: &platform.Credentials{}}
	s.build()
	return s
}

func (s *loginScreen) build() {
	s.creds.Password = ""
	s.form = huh.NewForm(huh.NewGroup(
		huh.NewInput().
			Title("Correo electrónico").
			Placeholder("admin@tecsup.edu.pe").
			Value(&s.creds.Email).
			Validate(ux.ValidateEmail),
		huh.NewInput().
			Title("Contraseña").
			EchoMode(huh.EchoModePassword).
			Value(&s.creds.Password).
			Validate(ux.Required("la contraseña")),
	).Title("Panel administrativo").Description("Ingresa con tu cuenta de personal")).
		WithShowHelp(false)
}

func (s *loginScreen) init() tea.Cmd {
	return s.form.Init()
}

func (s *loginScreen) update(msg tea.Msg) tea.Cmd {
	switch msg.(type) {
	case resultMsg:
		// Only failures reach here; success navigates away.
		s.sending = false
		s.build()
		return s.form.Init()
	}
	if s.sending {
		return nil
	}

	model, cmd := s.form.Update(msg)
	if f, ok := model.(*huh.Form); ok {
		s.form = f
	}
	if s.form.State == huh.StateCompleted {
		return tea.Batch(cmd, s.submit(*s.creds))
	}
	return cmd
}

// submit logs in. The session store tracks the in-flight login, so the
// guard shows the loading state until it settles.
func (s *loginScreen) submit(creds platform.Credentials) tea.Cmd {
	s.sending = true
	creds.Email = strings.TrimSpace(creds.Email)
	return s.app.do("", router.Path(router.RouteDashboard, nil), func(ctx context.Context) error {
		_, err := s.app.store.Login(ctx, creds)
		return err
	})
}

func (s *loginScreen) busy() bool { return s.sending }

func (s *loginScreen) view() string {
	return s.app.styles.Border.Render(s.form.View())
}

func (s *loginScreen) bindings() []key.Binding {
	return []key.Binding{
		key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "siguiente campo")),
		key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "ingresar")),
		key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "salir")),
	}
}

func (s *loginScreen) capturing() bool { return true }
