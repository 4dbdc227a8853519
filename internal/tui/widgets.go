package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/paginator"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"

	"github.com/tecsupnav/placesadmin/internal/platform"
)

func newTable(st Styles, cols []table.Column, height int) table.Model {
	t := table.New(
		table.WithColumns(cols),
		table.WithFocused(true),
		table.WithHeight(height),
	)
	t.SetStyles(st.table())
	return t
}

func newSearch(placeholder string) textinput.Model {
	in := textinput.New()
	in.Placeholder = placeholder
	in.Prompt = "/ "
	in.CharLimit = 80
	return in
}

func newPager() paginator.Model {
	p := paginator.New()
	p.Type = paginator.Dots
	p.SetTotalPages(1)
	return p
}

// syncPager mirrors the backend pagination into the dots paginator.
func syncPager(p *paginator.Model, pg platform.Pagination) {
	pages := pg.Pages
	if pages < 1 {
		pages = 1
	}
	p.SetTotalPages(pages)
	page := pg.Page - 1
	if page < 0 {
		page = 0
	}
	if page >= pages {
		page = pages - 1
	}
	p.Page = page
}

func pageLine(st Styles, p paginator.Model, pg platform.Pagination, noun string) string {
	return st.Muted.Render(fmt.Sprintf("Página %d de %d · %d %s  ", p.Page+1, p.TotalPages, pg.Total, noun)) + p.View()
}

// nextActive cycles the status filter: all, active only, inactive only.
func nextActive(cur *bool) *bool {
	switch {
	case cur == nil:
		return platform.Ptr(true)
	case *cur:
		return platform.Ptr(false)
	default:
		return nil
	}
}

func activeLabel(cur *bool) string {
	switch {
	case cur == nil:
		return "todos"
	case *cur:
		return "activos"
	default:
		return "inactivos"
	}
}

func orDash(p *string) string {
	if p == nil || *p == "" {
		return "-"
	}
	return *p
}

// errorPanel replaces a list's content while its last load failed.
func errorPanel(st Styles, msg string) string {
	return st.Error.Render(msg) + "\n\n" + st.Muted.Render("r para reintentar") + "\n"
}
