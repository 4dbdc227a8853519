package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Quit     key.Binding
	Back     key.Binding
	Help     key.Binding
	Refresh  key.Binding
	New      key.Binding
	Edit     key.Binding
	Delete   key.Binding
	Toggle   key.Binding
	Open     key.Binding
	Search   key.Binding
	Status   key.Binding
	Type     key.Binding
	NextPage key.Binding
	PrevPage key.Binding
	Confirm  key.Binding
	Cancel   key.Binding

	CreatePlace key.Binding
	NewType     key.Binding
	Places      key.Binding
	Types       key.Binding
	Users       key.Binding
	Logout      key.Binding
}

var keys = keyMap{
	Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "salir")),
	Back:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "volver")),
	Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "ayuda")),
	Refresh:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "recargar")),
	New:      key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "nuevo")),
	Edit:     key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "editar")),
	Delete:   key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "eliminar")),
	Toggle:   key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "activar/desactivar")),
	Open:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "ver detalle")),
	Search:   key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "buscar")),
	Status:   key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "filtrar estado")),
	Type:     key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "filtrar tipo")),
	NextPage: key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→", "página siguiente")),
	PrevPage: key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←", "página anterior")),
	Confirm:  key.NewBinding(key.WithKeys("y", "enter"), key.WithHelp("y", "confirmar")),
	Cancel:   key.NewBinding(key.WithKeys("n", "esc"), key.WithHelp("n", "cancelar")),

	CreatePlace: key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "crear lugar")),
	NewType:     key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "nuevo tipo")),
	Places:      key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "ver lugares")),
	Types:       key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "ver tipos")),
	Users:       key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "ver usuarios")),
	Logout:      key.NewBinding(key.WithKeys("L"), key.WithHelp("L", "cerrar sesión")),
}
