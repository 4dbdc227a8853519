package tui

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tecsupnav/placesadmin/internal/platform"
	"github.com/tecsupnav/placesadmin/internal/router"
	"github.com/tecsupnav/placesadmin/internal/session"
	"github.com/tecsupnav/placesadmin/internal/storage"
	"github.com/tecsupnav/placesadmin/internal/testutil"
)

// cmdTimeout bounds a single command. Cursor blinks finish well before it;
// anything slower is dropped.
const cmdTimeout = 3 * time.Second

type harness struct {
	t       *testing.T
	app     *App
	backend *testutil.Backend
	store   *session.Store
	history *router.History
}

func newHarness(t *testing.T, start string, loggedIn bool) *harness {
	t.Helper()
	b := testutil.NewBackend(t)
	mem := storage.NewMemoryStore()
	client := platform.NewClient(b.URL, platform.WithTokenSource(platform.StoredToken(mem)))
	history := router.NewHistory(start)
	store := session.New(mem, client, session.WithNavigator(history))

	if loggedIn {
		_, err := store.Login(context.Background(), platform.Credentials{
			Email:    testutil.AdminEmail,
			Password: testutil.AdminPassword,
		})
		require.NoError(t, err)
	}

	h := &harness{
		t:       t,
		backend: b,
		store:   store,
		history: history,
		app: New(context.Background(), Options{
			Store:    store,
			History:  history,
			Services: client,
			PageSize: 10,
		}),
	}
	h.run(h.app.Init())
	return h
}

// run executes cmd and feeds the dashboard's own messages back into the
// model until nothing is left. Bubble internals are dropped.
func (h *harness) run(cmd tea.Cmd) {
	h.t.Helper()
	queue := []tea.Cmd{cmd}
	for steps := 0; len(queue) > 0; steps++ {
		require.Less(h.t, steps, 500, "command loop did not settle")
		next := queue[0]
		queue = queue[1:]
		if next == nil {
			continue
		}
		msg, ok := execute(next)
		if !ok {
			continue
		}
		switch m := msg.(type) {
		case tea.BatchMsg:
			queue = append(queue, m...)
		case loadedMsg, resultMsg, sessionMsg, typesLoadedMsg:
			_, more := h.app.Update(m)
			queue = append(queue, more)
		}
	}
}

func execute(cmd tea.Cmd) (tea.Msg, bool) {
	ch := make(chan tea.Msg, 1)
	go func() { ch <- cmd() }()
	select {
	case msg := <-ch:
		return msg, true
	case <-time.After(cmdTimeout):
		return nil, false
	}
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

func (h *harness) press(keys ...string) {
	h.t.Helper()
	for _, k := range keys {
		_, cmd := h.app.Update(keyMsg(k))
		h.run(cmd)
	}
}

func (h *harness) route() router.Name {
	return h.app.route.Name
}

func TestApp_AnonymousIsSentToLogin(t *testing.T) {
	h := newHarness(t, "/places", false)

	assert.Equal(t, router.RouteLogin, h.route())
	assert.Equal(t, "/login", h.history.Current())
	assert.Contains(t, h.app.View(), "Iniciar sesión")
}

func TestApp_RootRedirectsToDashboard(t *testing.T) {
	h := newHarness(t, "/", true)

	assert.Equal(t, router.RouteDashboard, h.route())
	assert.Equal(t, "/dashboard", h.history.Current())
	view := h.app.View()
	assert.Contains(t, view, "Bienvenido, Quispe")
	assert.Contains(t, view, "Lugares")
}

func TestApp_Login(t *testing.T) {
	t.Run("success lands on dashboard", func(t *testing.T) {
		h := newHarness(t, "/login", false)
		login, ok := h.app.screen.(*loginScreen)
		require.True(t, ok)

		h.run(login.submit(platform.Credentials{Email: " " + testutil.AdminEmail, Password: testutil.AdminPassword}))

		assert.True(t, h.store.Snapshot().IsAuthenticated())
		assert.Equal(t, router.RouteDashboard, h.route())
	})

	t.Run("bad password stays on login", func(t *testing.T) {
		h := newHarness(t, "/login", false)
		login, ok := h.app.screen.(*loginScreen)
		require.True(t, ok)

		h.run(login.submit(platform.Credentials{Email: testutil.AdminEmail, Password: "wrong"}))

		assert.False(t, h.store.Snapshot().IsAuthenticated())
		assert.Equal(t, router.RouteLogin, h.route())
		assert.Contains(t, h.app.err, "Credenciales inválidas")
		assert.False(t, login.sending)
	})
}

func TestApp_NavigationAndBack(t *testing.T) {
	h := newHarness(t, "/dashboard", true)

	h.press("p")
	assert.Equal(t, router.RoutePlaces, h.route())

	h.press("esc")
	assert.Equal(t, router.RouteDashboard, h.route())

	h.press("u")
	assert.Equal(t, router.RouteUsers, h.route())
}

func TestApp_UnknownPath(t *testing.T) {
	h := newHarness(t, "/nowhere", true)
	assert.Equal(t, router.RouteNotFound, h.route())

	h.press("enter")
	assert.Equal(t, router.RouteDashboard, h.route())
}

func TestApp_Logout(t *testing.T) {
	h := newHarness(t, "/dashboard", true)

	h.press("L")

	assert.False(t, h.store.Snapshot().IsAuthenticated())
	assert.Equal(t, router.RouteLogin, h.route())
	assert.Equal(t, "Sesión cerrada", h.app.flash)
	_, ok := h.backend.LastRequest(http.MethodPost, "/auth/logout")
	assert.True(t, ok)
}

func TestApp_RevokedTokenEndsSession(t *testing.T) {
	h := newHarness(t, "/dashboard", true)
	unauthorized := `{"message":"Unauthorized","statusCode":401}`
	h.backend.Fail(http.MethodGet, "/places", http.StatusUnauthorized, unauthorized)
	h.backend.Fail(http.MethodGet, "/auth/profile", http.StatusUnauthorized, unauthorized)

	h.press("p")

	assert.False(t, h.store.Snapshot().IsAuthenticated())
	assert.Equal(t, router.RouteLogin, h.route())
}

func TestApp_StaleResultsAreDropped(t *testing.T) {
	h := newHarness(t, "/place-types", true)
	gen := h.app.gen

	_, cmd := h.app.Update(resultMsg{gen: gen - 1, flash: "old", err: nil})
	assert.Nil(t, cmd)
	assert.Empty(t, h.app.flash)

	_, cmd = h.app.Update(loadedMsg{gen: gen - 1})
	assert.Nil(t, cmd)
}

func TestApp_ConfirmCanBeCancelled(t *testing.T) {
	h := newHarness(t, "/place-types", true)

	h.press("x")
	require.NotNil(t, h.app.confirm)
	assert.Contains(t, h.app.View(), "Biblioteca")

	h.press("n")
	assert.Nil(t, h.app.confirm)
	_, deleted := h.backend.LastRequest(http.MethodDelete, "/place-types/pt-1")
	assert.False(t, deleted)
}

func TestApp_HelpToggle(t *testing.T) {
	h := newHarness(t, "/dashboard", true)
	short := h.app.View()

	h.press("?")
	assert.True(t, h.app.full)
	assert.NotEqual(t, short, h.app.View())
	assert.True(t, strings.Contains(h.app.View(), "cerrar sesión"))
}
