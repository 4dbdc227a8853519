package ux

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/dustin/go-humanize/english"

	"github.com/tecsupnav/placesadmin/internal/platform"
	"github.com/tecsupnav/placesadmin/internal/resource"
)

const none = "-"

func orNone(p *string) string {
	if p == nil || *p == "" {
		return none
	}
	return *p
}

func intOrNone(p *int) string {
	if p == nil {
		return none
	}
	return strconv.Itoa(*p)
}

// When formats a timestamp relative to now.
func When(t time.Time) string {
	if t.IsZero() {
		return none
	}
	return humanize.Time(t)
}

func pageFooter(th Theme, p platform.Pagination, noun string) string {
	pages := p.Pages
	if pages < 1 {
		pages = 1
	}
	return th.Muted.Render(fmt.Sprintf("page %d of %d · %s %s",
		p.Page, pages, humanize.Comma(int64(p.Total)), noun))
}

// PlaceTypeList is one page of place types.
type PlaceTypeList struct {
	Items      []platform.PlaceType `json:"items" yaml:"items"`
	Pagination platform.Pagination  `json:"pagination" yaml:"pagination"`
}

func (v PlaceTypeList) RenderText(w io.Writer, th Theme) error {
	if len(v.Items) == 0 {
		_, err := fmt.Fprintln(w, th.Muted.Render("No place types found."))
		return err
	}
	rows := make([][]string, 0, len(v.Items))
	for _, pt := range v.Items {
		rows = append(rows, []string{
			pt.ID, pt.Nombre, orNone(pt.Icono), orNone(pt.Color), th.Status(pt.IsActive), When(pt.UpdatedAt),
		})
	}
	_, err := fmt.Fprintf(w, "%s\n%s\n",
		th.Table([]string{"ID", "NAME", "ICON", "COLOR", "STATUS", "UPDATED"}, rows),
		pageFooter(th, v.Pagination, "place types"))
	return err
}

// PlaceTypeDetail is a single place type.
type PlaceTypeDetail struct {
	platform.PlaceType `yaml:",inline"`
}

func (v PlaceTypeDetail) RenderText(w io.Writer, th Theme) error {
	pt := v.PlaceType
	_, err := fmt.Fprintf(w, "%s\n%s", th.Title.Render(pt.Nombre), th.Fields([][2]string{
		{"ID", pt.ID},
		{"Description", orNone(pt.Descripcion)},
		{"Icon", orNone(pt.Icono)},
		{"Color", orNone(pt.Color)},
		{"Status", th.Status(pt.IsActive)},
		{"Created", When(pt.CreatedAt)},
		{"Updated", When(pt.UpdatedAt)},
	}))
	return err
}

// PlaceList is one page of places, or the results of a search.
type PlaceList struct {
	Items      []platform.Place    `json:"items" yaml:"items"`
	Pagination platform.Pagination `json:"pagination" yaml:"pagination"`
	Search     string              `json:"search,omitempty" yaml:"search,omitempty"`
}

func (v PlaceList) RenderText(w io.Writer, th Theme) error {
	if len(v.Items) == 0 {
		msg := "No places found."
		if v.Search != "" {
			msg = fmt.Sprintf("No places match %q.", v.Search)
		}
		_, err := fmt.Fprintln(w, th.Muted.Render(msg))
		return err
	}
	rows := make([][]string, 0, len(v.Items))
	for _, p := range v.Items {
		rows = append(rows, []string{
			p.ID, p.Nombre, p.TypeName(), orNone(p.Edificio), intOrNone(p.Piso),
			p.Latitud.String() + ", " + p.Longitud.String(), th.Status(p.IsActive),
		})
	}
	footer := pageFooter(th, v.Pagination, "places")
	if v.Search != "" {
		footer = th.Muted.Render(fmt.Sprintf("%d results for %q", len(v.Items), v.Search))
	}
	_, err := fmt.Fprintf(w, "%s\n%s\n",
		th.Table([]string{"ID", "NAME", "TYPE", "BUILDING", "FLOOR", "COORDINATES", "STATUS"}, rows),
		footer)
	return err
}

// PlaceDetail is a single place. The description is rendered as markdown.
type PlaceDetail struct {
	platform.Place `yaml:",inline"`
}

func (v PlaceDetail) RenderText(w io.Writer, th Theme) error {
	p := v.Place
	image := orNone(p.Imagen)
	_, err := fmt.Fprintf(w, "%s\n%s", th.Title.Render(p.Nombre), th.Fields([][2]string{
		{"ID", p.ID},
		{"Type", p.TypeName()},
		{"Coordinates", p.Latitud.String() + ", " + p.Longitud.String()},
		{"Building", orNone(p.Edificio)},
		{"Floor", intOrNone(p.Piso)},
		{"QR code", orNone(p.CodigoQR)},
		{"Image", image},
		{"Status", th.Status(p.IsActive)},
		{"Created", When(p.CreatedAt)},
		{"Updated", When(p.UpdatedAt)},
	}))
	if err != nil || p.Descripcion == nil {
		return err
	}
	md, err := RenderMarkdown(*p.Descripcion, DefaultWrap, th)
	if err != nil {
		md = *p.Descripcion
	}
	_, err = fmt.Fprintf(w, "\n%s\n", md)
	return err
}

// UserList is the end user roster, optionally filtered.
type UserList struct {
	Users  []platform.GoogleUser `json:"users" yaml:"users"`
	Count  int                   `json:"count" yaml:"count"`
	Filter string                `json:"filter,omitempty" yaml:"filter,omitempty"`
}

func (v UserList) RenderText(w io.Writer, th Theme) error {
	if len(v.Users) == 0 {
		_, err := fmt.Fprintln(w, th.Muted.Render("No users found."))
		return err
	}
	rows := make([][]string, 0, len(v.Users))
	for _, u := range v.Users {
		rows = append(rows, []string{
			u.NombreCompleto, u.Email, resource.RoleLabel(u.Role), th.Status(u.IsActive), When(u.CreatedAt),
		})
	}
	footer := fmt.Sprintf("%d of %d users", len(v.Users), v.Count)
	if v.Filter != "" {
		footer += fmt.Sprintf(" matching %q", v.Filter)
	}
	_, err := fmt.Fprintf(w, "%s\n%s\n",
		th.Table([]string{"NAME", "EMAIL", "ROLE", "STATUS", "JOINED"}, rows),
		th.Muted.Render(footer))
	return err
}

// PlaceTypeStatsView prints the place type aggregate.
type PlaceTypeStatsView struct {
	platform.PlaceTypeStats `yaml:",inline"`
}

func (v PlaceTypeStatsView) RenderText(w io.Writer, th Theme) error {
	s := v.PlaceTypeStats
	pairs := [][2]string{
		{"Total", strconv.Itoa(s.TotalPlaceTypes)},
		{"Active", strconv.Itoa(s.ActivePlaceTypes)},
		{"Inactive", strconv.Itoa(s.InactivePlaceTypes)},
	}
	if s.MostUsedPlaceType != nil {
		pairs = append(pairs, [2]string{"Most used",
			fmt.Sprintf("%s (%s)", s.MostUsedPlaceType.Nombre,
				english.Plural(s.MostUsedPlaceType.UsageCount, "place", "places"))})
	}
	if _, err := fmt.Fprintf(w, "%s\n%s", th.Title.Render("Place types"), th.Fields(pairs)); err != nil {
		return err
	}
	if len(s.RecentlyCreated) == 0 {
		return nil
	}
	names := make([]string, 0, len(s.RecentlyCreated))
	for _, pt := range s.RecentlyCreated {
		names = append(names, pt.Nombre)
	}
	_, err := fmt.Fprintf(w, "%s %s\n", th.Label.Render("Recently created:"), strings.Join(names, ", "))
	return err
}

// PlaceStatsView prints the place aggregate.
type PlaceStatsView struct {
	platform.PlaceStats `yaml:",inline"`
}

func (v PlaceStatsView) RenderText(w io.Writer, th Theme) error {
	s := v.PlaceStats
	if _, err := fmt.Fprintf(w, "%s\n%s", th.Title.Render("Places"), th.Fields([][2]string{
		{"Total", strconv.Itoa(s.Total)},
		{"Active", strconv.Itoa(s.Active)},
		{"Inactive", strconv.Itoa(s.Inactive)},
	})); err != nil {
		return err
	}
	if len(s.ByType) > 0 {
		rows := make([][]string, 0, len(s.ByType))
		for _, c := range s.ByType {
			rows = append(rows, []string{c.Tipo, strconv.Itoa(c.Count)})
		}
		if _, err := fmt.Fprintln(w, th.Table([]string{"TYPE", "PLACES"}, rows)); err != nil {
			return err
		}
	}
	if len(s.ByBuilding) > 0 {
		rows := make([][]string, 0, len(s.ByBuilding))
		for _, c := range s.ByBuilding {
			rows = append(rows, []string{c.Edificio, strconv.Itoa(c.Count)})
		}
		if _, err := fmt.Fprintln(w, th.Table([]string{"BUILDING", "PLACES"}, rows)); err != nil {
			return err
		}
	}
	return nil
}

// UserStatsView prints the end user counts.
type UserStatsView struct {
	platform.GoogleUsersStats `yaml:",inline"`
}

func (v UserStatsView) RenderText(w io.Writer, th Theme) error {
	s := v.GoogleUsersStats
	_, err := fmt.Fprintf(w, "%s\n%s", th.Title.Render("Users"), th.Fields([][2]string{
		{"Total", strconv.Itoa(s.Total)},
		{"Active", strconv.Itoa(s.Active)},
		{"Inactive", strconv.Itoa(s.Inactive)},
	}))
	return err
}

// SessionStatus describes the local session.
type SessionStatus struct {
	Authenticated bool           `json:"authenticated" yaml:"authenticated"`
	User          *platform.User `json:"user,omitempty" yaml:"user,omitempty"`
	Backend       string         `json:"backend" yaml:"backend"`
	ExpiresAt     *time.Time     `json:"expiresAt,omitempty" yaml:"expiresAt,omitempty"`
}

func (v SessionStatus) RenderText(w io.Writer, th Theme) error {
	if !v.Authenticated || v.User == nil {
		_, err := fmt.Fprintf(w, "%s\n%s", th.Danger.Render("Not logged in"), th.Fields([][2]string{
			{"Backend", v.Backend},
		}))
		return err
	}
	expires := "never"
	if v.ExpiresAt != nil {
		expires = humanize.Time(*v.ExpiresAt)
	}
	_, err := fmt.Fprintf(w, "%s\n%s", th.Success.Render("Logged in"), th.Fields([][2]string{
		{"Name", v.User.DisplayName()},
		{"Email", v.User.Email},
		{"Role", resource.RoleLabel(v.User.Role)},
		{"Backend", v.Backend},
		{"Expires", expires},
	}))
	return err
}

var (
	_ TextRenderer = PlaceTypeList{}
	_ TextRenderer = PlaceTypeDetail{}
	_ TextRenderer = PlaceList{}
	_ TextRenderer = PlaceDetail{}
	_ TextRenderer = UserList{}
	_ TextRenderer = PlaceTypeStatsView{}
	_ TextRenderer = PlaceStatsView{}
	_ TextRenderer = UserStatsView{}
	_ TextRenderer = SessionStatus{}
)
