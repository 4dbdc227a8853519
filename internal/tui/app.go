// Package tui is the interactive dashboard. Screens follow the router's
// route table and every protected screen goes through the route guard.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tecsupnav/placesadmin/internal/log"
	"github.com/tecsupnav/placesadmin/internal/platform"
	"github.com/tecsupnav/placesadmin/internal/resource"
	"github.com/tecsupnav/placesadmin/internal/router"
	"github.com/tecsupnav/placesadmin/internal/session"
)

// Services is the backend surface used by the dashboard.
// *platform.Client implements it.
type Services interface {
	resource.PlaceTypeService
	resource.PlaceService
	resource.UserService
}

// Options wires the dashboard.
type Options struct {
	Store    *session.Store
	History  *router.History
	Services Services
	PageSize int
	Logger   *log.Logger
}

// screen is one routed view. Screens are pointers so huh forms can bind
// their values.
type screen interface {
	init() tea.Cmd
	update(msg tea.Msg) tea.Cmd
	view() string
	bindings() []key.Binding
	// capturing reports whether plain keys belong to the screen, e.g.
	// while a form or a text input has focus.
	capturing() bool
}

// loadedMsg reports a finished fetch. Errors live in the containers.
type loadedMsg struct {
	gen int
	err error
}

// resultMsg reports a finished write.
type resultMsg struct {
	gen   int
	flash string
	next  string
	err   error
}

// sessionMsg reports that the session settled after Init or Profile.
type sessionMsg struct{}

type confirmation struct {
	prompt string
	onYes  tea.Cmd
}

// App is the dashboard model.
type App struct {
	ctx      context.Context
	store    *session.Store
	history  *router.History
	svc      Services
	pageSize int
	logger   *log.Logger

	styles  Styles
	spinner spinner.Model
	help    help.Model

	gen     int
	path    string
	route   router.Route
	screen  screen
	confirm *confirmation
	flash   string
	err     string
	full    bool

	width  int
	height int
}

// New creates the dashboard model.
func New(ctx context.Context, opts Options) *App {
	if opts.History == nil {
		opts.History = router.NewHistory("/")
	}
	if opts.PageSize <= 0 {
		opts.PageSize = 10
	}
	if opts.Logger == nil {
		opts.Logger = log.Nop()
	}
	return &App{
		ctx:      ctx,
		store:    opts.Store,
		history:  opts.History,
		svc:      opts.Services,
		pageSize: opts.PageSize,
		logger:   opts.Logger,
		styles:   DefaultStyles(),
		spinner:  spinner.New(spinner.WithSpinner(spinner.Dot)),
		help:     help.New(),
		width:    100,
		height:   30,
	}
}

// Run starts the dashboard and blocks until the user quits or ctx ends.
func Run(ctx context.Context, opts Options) error {
	app := New(ctx, opts)
	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("dashboard failed: %w", err)
	}
	return nil
}

// Init restores the session, then resolves the start path.
func (a *App) Init() tea.Cmd {
	return tea.Batch(a.spinner.Tick, func() tea.Msg {
		s := a.store.Init(a.ctx)
		a.logger.Info("dashboard session restored", "state", s.State.String())
		return sessionMsg{}
	})
}

// Update handles messages and updates the model state (required by Bubble Tea)
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		if a.screen != nil {
			return a, a.screen.update(msg)
		}
		return a, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case sessionMsg:
		return a, a.sync()

	case loadedMsg:
		if msg.gen != a.gen || a.screen == nil {
			return a, nil
		}
		cmd := a.screen.update(msg)
		if platform.IsUnauthorized(msg.err) {
			return a, tea.Batch(cmd, a.verifySession())
		}
		return a, cmd

	case resultMsg:
		if msg.gen != a.gen || a.screen == nil {
			return a, nil
		}
		if msg.err != nil {
			a.err = msg.err.Error()
			a.logger.WithError(msg.err).Warn("dashboard action failed", "path", a.path)
			cmd := a.screen.update(msg)
			if platform.IsUnauthorized(msg.err) {
				return a, tea.Batch(cmd, a.verifySession())
			}
			return a, cmd
		}
		a.flash = msg.flash
		if msg.next != "" {
			flash := a.flash
			cmd := a.navigate(msg.next)
			a.flash = flash
			return a, cmd
		}
		cmd := a.screen.update(msg)
		flash := msg.flash
		next := a.sync()
		a.flash = flash
		return a, tea.Batch(cmd, next)

	case tea.KeyMsg:
		return a, a.handleKey(msg)
	}

	if a.screen != nil {
		return a, a.screen.update(msg)
	}
	return a, nil
}

func (a *App) handleKey(msg tea.KeyMsg) tea.Cmd {
	if msg.String() == "ctrl+c" {
		return tea.Quit
	}

	if a.confirm != nil {
		switch {
		case key.Matches(msg, keys.Confirm):
			cmd := a.confirm.onYes
			a.confirm = nil
			return cmd
		case key.Matches(msg, keys.Cancel):
			a.confirm = nil
		}
		return nil
	}

	if a.screen == nil {
		if key.Matches(msg, keys.Quit) {
			return tea.Quit
		}
		return nil
	}

	if !a.screen.capturing() {
		switch {
		case key.Matches(msg, keys.Quit):
			return tea.Quit
		case key.Matches(msg, keys.Help):
			a.full = !a.full
			return nil
		case key.Matches(msg, keys.Back):
			return a.back()
		}
	}

	a.flash = ""
	a.err = ""
	return a.screen.update(msg)
}

// View renders the dashboard (required by Bubble Tea)
func (a *App) View() string {
	if a.screen == nil {
		return "\n  " + a.spinner.View() + " Cargando..."
	}

	var b strings.Builder
	b.WriteString(a.header())
	b.WriteString("\n\n")
	b.WriteString(a.screen.view())
	b.WriteString("\n")

	if a.confirm != nil {
		b.WriteString("\n")
		b.WriteString(a.styles.Border.
			BorderForeground(lipgloss.Color("226")).
			Render(a.styles.Warning.Render(a.confirm.prompt) + "\n\n" +
				a.styles.Muted.Render("y confirmar · n cancelar")))
		b.WriteString("\n")
	}
	if a.busy() {
		b.WriteString("\n" + a.spinner.View() + " Procesando...\n")
	}
	if a.err != "" {
		b.WriteString("\n" + a.styles.Error.Render("✗ "+a.err) + "\n")
	} else if a.flash != "" {
		b.WriteString("\n" + a.styles.Success.Render("✓ "+a.flash) + "\n")
	}

	b.WriteString("\n")
	b.WriteString(a.helpView())
	return b.String()
}

func (a *App) header() string {
	title := a.styles.Title.Render("TecsupNav · " + a.route.Title)
	s := a.store.Snapshot()
	if !s.IsAuthenticated() {
		return title
	}
	who := a.styles.Muted.Render(s.User.DisplayName() + " <" + s.User.Email + ">")
	gap := a.width - lipgloss.Width(title) - lipgloss.Width(who)
	if gap < 2 {
		gap = 2
	}
	return title + strings.Repeat(" ", gap) + who
}

func (a *App) helpView() string {
	bindings := append([]key.Binding{}, a.screen.bindings()...)
	if !a.screen.capturing() {
		if a.history.Depth() > 0 {
			bindings = append(bindings, keys.Back)
		}
		bindings = append(bindings, keys.Help, keys.Quit)
	}
	if a.full {
		return a.help.FullHelpView(chunk(bindings, 4))
	}
	return a.help.ShortHelpView(bindings)
}

func chunk(bs []key.Binding, n int) [][]key.Binding {
	var out [][]key.Binding
	for len(bs) > n {
		out = append(out, bs[:n])
		bs = bs[n:]
	}
	return append(out, bs)
}

func (a *App) busy() bool {
	if b, ok := a.screen.(interface{ busy() bool }); ok {
		return b.busy()
	}
	return false
}

// navigate pushes path and switches screens.
func (a *App) navigate(path string) tea.Cmd {
	a.history.Navigate(path)
	return a.sync()
}

func (a *App) back() tea.Cmd {
	if !a.history.Back() {
		return nil
	}
	return a.sync()
}

// sync resolves the current path against the session and swaps the
// screen when the path or the guard's decision changed.
func (a *App) sync() tea.Cmd {
	for i := 0; i < 4; i++ {
		path := a.history.Current()
		res := router.Resolve(path, a.store.Snapshot())
		if res.Redirect != "" {
			a.history.Replace(res.Redirect)
			continue
		}
		if res.Decision == router.DecisionLoading {
			a.screen = nil
			a.path = ""
			return a.spinner.Tick
		}
		if a.screen != nil && a.path == path {
			return nil
		}
		a.gen++
		a.path = path
		a.route = res.Route
		a.confirm = nil
		a.flash = ""
		a.err = ""
		a.screen = a.newScreen(res)
		a.logger.Debug("dashboard navigate", "path", path, "route", string(res.Route.Name))
		return a.screen.init()
	}
	return nil
}

func (a *App) newScreen(res router.Resolution) screen {
	id := res.Params["id"]
	switch res.Route.Name {
	case router.RouteLogin:
		return newLoginScreen(a)
	case router.RouteDashboard:
		return newHomeScreen(a)
	case router.RouteUsers:
		return newUsersScreen(a)
	case router.RoutePlaceTypes:
		return newPlaceTypesScreen(a)
	case router.RoutePlaceTypeNew:
		return newPlaceTypeForm(a, "")
	case router.RoutePlaceTypeEdit:
		return newPlaceTypeForm(a, id)
	case router.RoutePlaces:
		return newPlacesScreen(a)
	case router.RoutePlaceNew:
		return newPlaceForm(a, "")
	case router.RoutePlaceEdit:
		return newPlaceForm(a, id)
	case router.RoutePlaceDetail:
		return newPlaceDetailScreen(a, id)
	default:
		return newNotFoundScreen(a)
	}
}

// load runs a fetch off the event loop.
func (a *App) load(fn func(ctx context.Context) error) tea.Cmd {
	gen := a.gen
	return func() tea.Msg {
		return loadedMsg{gen: gen, err: fn(a.ctx)}
	}
}

// do runs a write off the event loop. On success the dashboard shows flash
// and, when next is set, navigates there.
func (a *App) do(flash, next string, fn func(ctx context.Context) error) tea.Cmd {
	gen := a.gen
	return func() tea.Msg {
		return resultMsg{gen: gen, flash: flash, next: next, err: fn(a.ctx)}
	}
}

// ask shows a confirmation before running onYes.
func (a *App) ask(prompt string, onYes tea.Cmd) tea.Cmd {
	a.confirm = &confirmation{prompt: prompt, onYes: onYes}
	return nil
}

// verifySession asks the backend who we are after a 401. A revoked token
// wipes the session and the next sync lands on the login screen.
func (a *App) verifySession() tea.Cmd {
	return func() tea.Msg {
		if _, err := a.store.Profile(a.ctx); err != nil {
			a.logger.WithError(err).Info("session rejected by backend")
		}
		return sessionMsg{}
	}
}

func (a *App) logout() tea.Cmd {
	return a.do("Sesión cerrada", "", func(ctx context.Context) error {
		return a.store.Logout(ctx)
	})
}

func (a *App) tableHeight() int {
	h := a.height - 14
	if h < 5 {
		h = 5
	}
	return h
}
