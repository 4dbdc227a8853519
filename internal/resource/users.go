package resource

import (
	"context"
	"strings"
	"sync"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/tecsupnav/placesadmin/internal/platform"
)

// UserService is the backend surface used by the Users container.
type UserService interface {
	GoogleUsers(ctx context.Context) (*platform.UserRoster, error)
	GoogleUsersStats(ctx context.Context) (*platform.GoogleUsersStats, error)
}

// UsersState is a snapshot of Users.
type UsersState struct {
	Users   []platform.GoogleUser
	Stats   *platform.GoogleUsersStats
	Loading bool
	Err     string
}

// Users holds the read-only end user roster and its counts.
type Users struct {
	mu    sync.Mutex
	svc   UserService
	state UsersState
	seq   uint64
	subs  subscribers[UsersState]
}

// NewUsers creates the roster container.
func NewUsers(svc UserService) *Users {
	return &Users{svc: svc}
}

// State returns a snapshot.
func (u *Users) State() UsersState {
	u.mu.Lock()
	defer u.mu.Unlock()
	s := u.state
	s.Users = append([]platform.GoogleUser(nil), u.state.Users...)
	return s
}

// Subscribe calls fn after every state change.
func (u *Users) Subscribe(fn func(UsersState)) func() {
	return u.subs.add(fn)
}

// Fetch loads the roster and the counts concurrently. Both must succeed
// for the state to change.
func (u *Users) Fetch(ctx context.Context) error {
	u.mu.Lock()
	u.seq++
	seq := u.seq
	u.state.Loading = true
	u.state.Err = ""
	snap := u.state
	u.mu.Unlock()
	u.subs.notify(snap)

	var (
		wg        sync.WaitGroup
		roster    *platform.UserRoster
		stats     *platform.GoogleUsersStats
		rosterErr error
		statsErr  error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		roster, rosterErr = u.svc.GoogleUsers(ctx)
	}()
	go func() {
		defer wg.Done()
		stats, statsErr = u.svc.GoogleUsersStats(ctx)
	}()
	wg.Wait()

	err := rosterErr
	if err == nil {
		err = statsErr
	}

	u.mu.Lock()
	if seq != u.seq {
		u.mu.Unlock()
		return err
	}
	if err != nil {
		u.state.Err = err.Error()
	} else {
		u.state.Users = roster.Users
		u.state.Stats = stats
	}
	u.state.Loading = false
	snap = u.state
	u.mu.Unlock()
	u.subs.notify(snap)
	return err
}

// Refetch is Fetch.
func (u *Users) Refetch(ctx context.Context) error {
	return u.Fetch(ctx)
}

// ClearError drops the error message.
func (u *Users) ClearError() {
	u.mu.Lock()
	u.state.Err = ""
	snap := u.state
	u.mu.Unlock()
	u.subs.notify(snap)
}

// Filter returns the users whose full name or email contains term,
// ignoring case and accents. An empty term returns everyone.
func (u *Users) Filter(term string) []platform.GoogleUser {
	return FilterUsers(u.State().Users, term)
}

// FilterUsers is Filter over an explicit slice.
func FilterUsers(users []platform.GoogleUser, term string) []platform.GoogleUser {
	needle := fold(strings.TrimSpace(term))
	out := make([]platform.GoogleUser, 0, len(users))
	for _, user := range users {
		if needle == "" ||
			strings.Contains(fold(user.NombreCompleto), needle) ||
			strings.Contains(fold(user.Email), needle) {
			out = append(out, user)
		}
	}
	return out
}

// fold lowercases s and strips combining marks, so "José" matches "jose".
func fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(t, s)
	if err != nil {
		stripped = s
	}
	return cases.Fold().String(stripped)
}

var roleLabels = map[string]string{
	"ADMIN":   "Administrador",
	"STUDENT": "Estudiante",
	"TEACHER": "Profesor",
}

// RoleLabel returns the display label of a role, or the role itself.
func RoleLabel(role string) string {
	if label, ok := roleLabels[role]; ok {
		return label
	}
	return role
}
