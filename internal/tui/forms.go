package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/tecsupnav/placesadmin/internal/platform"
	"github.com/tecsupnav/placesadmin/internal/resource"
	"github.com/tecsupnav/placesadmin/internal/router"
	"github.com/tecsupnav/placesadmin/internal/ux"
)

// Plaza de Armas de Lima, used when creating a place without coordinates.
const (
	defaultLatitud  = -12.0464
	defaultLongitud = -77.0428
)

var hexColor = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

func validateColor(s string) error {
	s = strings.TrimSpace(s)
	if s == "" || hexColor.MatchString(s) {
		return nil
	}
	return errors.New("usa un color hexadecimal como #1e88e5")
}

func validateCoordinate(min, max float64) func(string) error {
	return func(s string) error {
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return errors.New("ingresa un número decimal")
		}
		if f < min || f > max {
			return fmt.Errorf("debe estar entre %g y %g", min, max)
		}
		return nil
	}
}

func validateFloor(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if _, err := strconv.Atoi(s); err != nil {
		return errors.New("el piso debe ser un número entero")
	}
	return nil
}

func validateImagePath(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	info, err := os.Stat(s)
	if err != nil {
		return errors.New("no se encontró el archivo")
	}
	if info.IsDir() {
		return errors.New("la ruta es un directorio")
	}
	return nil
}

// optional maps blank input to nil.
func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// changed returns the trimmed input when it differs from old, so updates
// only carry edited fields. Clearing a set field sends "".
func changed(old *string, s string) *string {
	s = strings.TrimSpace(s)
	prev := ""
	if old != nil {
		prev = *old
	}
	if s == prev {
		return nil
	}
	return &s
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

// formBindings is the help shared by the form screens.
func formBindings() []key.Binding {
	return []key.Binding{
		key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "siguiente campo")),
		key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "guardar")),
		keys.Back,
	}
}

type placeTypeValues struct {
	Nombre      string
	Descripcion string
	Icono       string
	Color       string
}

type placeTypeForm struct {
	app     *App
	entity  *resource.PlaceType
	values  *placeTypeValues
	form    *huh.Form
	sending bool
}

func newPlaceTypeForm(a *App, id string) *placeTypeForm {
	s := &placeTypeForm{app: a, values: &placeTypeValues{}}
	if id != "" {
		s.entity = resource.NewPlaceType(a.svc, id)
	}
	return s
}

func (s *placeTypeForm) editing() bool { return s.entity != nil }

func (s *placeTypeForm) init() tea.Cmd {
	if s.editing() {
		return s.app.load(s.entity.Fetch)
	}
	s.build()
	return s.form.Init()
}

func (s *placeTypeForm) build() {
	if s.editing() {
		if pt := s.entity.State().Data; pt != nil {
			*s.values = placeTypeValues{
				Nombre:      pt.Nombre,
				Descripcion: deref(pt.Descripcion),
				Icono:       deref(pt.Icono),
				Color:       deref(pt.Color),
			}
		}
	}
	title := "Nuevo tipo de lugar"
	if s.editing() {
		title = "Editar tipo de lugar"
	}
	s.form = huh.NewForm(huh.NewGroup(
		huh.NewInput().Title("Nombre").Value(&s.values.Nombre).Validate(ux.Required("el nombre")),
		huh.NewText().Title("Descripción").Lines(3).Value(&s.values.Descripcion),
		huh.NewInput().Title("Icono").Placeholder("library").Value(&s.values.Icono),
		huh.NewInput().Title("Color").Placeholder("#1e88e5").Value(&s.values.Color).Validate(validateColor),
	).Title(title)).WithShowHelp(false)
}

func (s *placeTypeForm) update(msg tea.Msg) tea.Cmd {
	switch msg.(type) {
	case loadedMsg:
		if s.form == nil && s.entity.State().Data != nil {
			s.build()
			return s.form.Init()
		}
		return nil
	case resultMsg:
		// A failed save; keep what was typed.
		s.sending = false
		s.build()
		return s.form.Init()
	}
	if km, ok := msg.(tea.KeyMsg); ok && key.Matches(km, keys.Back) {
		return s.app.back()
	}
	if s.form == nil || s.sending {
		return nil
	}

	model, cmd := s.form.Update(msg)
	if f, ok := model.(*huh.Form); ok {
		s.form = f
	}
	switch s.form.State {
	case huh.StateCompleted:
		return tea.Batch(cmd, s.submit(*s.values))
	case huh.StateAborted:
		return s.app.back()
	}
	return cmd
}

func (s *placeTypeForm) submit(v placeTypeValues) tea.Cmd {
	s.sending = true
	next := router.Path(router.RoutePlaceTypes, nil)
	if !s.editing() {
		in := platform.CreatePlaceTypeInput{
			Nombre:      strings.TrimSpace(v.Nombre),
			Descripcion: optional(v.Descripcion),
			Icono:       optional(v.Icono),
			Color:       optional(v.Color),
		}
		return s.app.do("Tipo de lugar creado", next, func(ctx context.Context) error {
			_, err := s.app.svc.CreatePlaceType(ctx, in)
			return err
		})
	}

	old := s.entity.State().Data
	in := platform.UpdatePlaceTypeInput{
		Nombre:      changed(&old.Nombre, v.Nombre),
		Descripcion: changed(old.Descripcion, v.Descripcion),
		Icono:       changed(old.Icono, v.Icono),
		Color:       changed(old.Color, v.Color),
	}
	return s.app.do("Tipo de lugar actualizado", next, func(ctx context.Context) error {
		_, err := s.entity.Update(ctx, in)
		return err
	})
}

func (s *placeTypeForm) busy() bool {
	return s.sending || (s.editing() && s.entity.State().Loading)
}

func (s *placeTypeForm) view() string {
	if s.form == nil {
		if err := s.entity.State().Err; err != "" {
			return s.app.styles.Error.Render(err)
		}
		return s.app.styles.Muted.Render("Cargando tipo de lugar...")
	}
	return s.app.styles.Border.Render(s.form.View())
}

func (s *placeTypeForm) bindings() []key.Binding { return formBindings() }

func (s *placeTypeForm) capturing() bool { return true }

type placeValues struct {
	Nombre      string
	Descripcion string
	Latitud     string
	Longitud    string
	TipoID      string
	Edificio    string
	Piso        string
	CodigoQR    string
	ImagePath   string
	Activo      bool
}

type placeForm struct {
	app     *App
	entity  *resource.Place
	values  *placeValues
	types   []platform.PlaceType
	pending int
	form    *huh.Form
	sending bool
}

func newPlaceForm(a *App, id string) *placeForm {
	s := &placeForm{
		app: a,
		values: &placeValues{
			Latitud:  strconv.FormatFloat(defaultLatitud, 'f', -1, 64),
			Longitud: strconv.FormatFloat(defaultLongitud, 'f', -1, 64),
			Activo:   true,
		},
	}
	if id != "" {
		s.entity = resource.NewPlace(a.svc, id)
	}
	return s
}

func (s *placeForm) editing() bool { return s.entity != nil }

// init loads the type choices and, when editing, the place. The form is
// built once both arrived.
func (s *placeForm) init() tea.Cmd {
	s.pending = 1
	cmds := []tea.Cmd{loadTypes(s.app)}
	if s.editing() {
		s.pending++
		cmds = append(cmds, s.app.load(s.entity.Fetch))
	}
	return tea.Batch(cmds...)
}

func (s *placeForm) build() {
	if s.editing() {
		if p := s.entity.State().Data; p != nil {
			piso := ""
			if p.Piso != nil {
				piso = strconv.Itoa(*p.Piso)
			}
			*s.values = placeValues{
				Nombre:      p.Nombre,
				Descripcion: deref(p.Descripcion),
				Latitud:     p.Latitud.String(),
				Longitud:    p.Longitud.String(),
				TipoID:      p.TipoID,
				Edificio:    deref(p.Edificio),
				Piso:        piso,
				CodigoQR:    deref(p.CodigoQR),
				Activo:      p.IsActive,
			}
		}
	}
	s.form = s.newForm()
}

func (s *placeForm) options() []huh.Option[string] {
	opts := make([]huh.Option[string], 0, len(s.types)+1)
	seen := false
	for _, t := range s.types {
		opts = append(opts, huh.NewOption(t.Nombre, t.ID))
		if t.ID == s.values.TipoID {
			seen = true
		}
	}
	// The current type may have been deactivated since.
	if !seen && s.values.TipoID != "" {
		label := s.values.TipoID
		if s.editing() {
			if p := s.entity.State().Data; p != nil {
				label = p.TypeName() + " (inactivo)"
			}
		}
		opts = append(opts, huh.NewOption(label, s.values.TipoID))
	}
	return opts
}

func (s *placeForm) newForm() *huh.Form {
	title := "Nuevo lugar"
	if s.editing() {
		title = "Editar lugar"
	}
	v := s.values
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Nombre").Value(&v.Nombre).Validate(ux.Required("el nombre")),
			huh.NewText().Title("Descripción").Description("Admite markdown").Lines(3).Value(&v.Descripcion),
			huh.NewSelect[string]().Title("Tipo").Options(s.options()...).Value(&v.TipoID).
				Validate(func(id string) error {
					if id == "" {
						return errors.New("selecciona un tipo")
					}
					return nil
				}),
		).Title(title),
		huh.NewGroup(
			huh.NewInput().Title("Latitud").Value(&v.Latitud).Validate(validateCoordinate(-90, 90)),
			huh.NewInput().Title("Longitud").Value(&v.Longitud).Validate(validateCoordinate(-180, 180)),
			huh.NewInput().Title("Edificio").Value(&v.Edificio),
			huh.NewInput().Title("Piso").Value(&v.Piso).Validate(validateFloor),
		).Title("Ubicación"),
		huh.NewGroup(
			huh.NewInput().Title("Código QR").Value(&v.CodigoQR),
			huh.NewInput().Title("Imagen").Description("Ruta a un archivo local").Value(&v.ImagePath).Validate(validateImagePath),
			huh.NewConfirm().Title("¿Activo?").Affirmative("Sí").Negative("No").Value(&v.Activo),
		).Title("Extras"),
	).WithShowHelp(false)
}

func (s *placeForm) update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case typesLoadedMsg:
		if msg.gen != s.app.gen {
			return nil
		}
		s.types = msg.types
		return s.arrived()
	case loadedMsg:
		return s.arrived()
	case resultMsg:
		s.sending = false
		s.form = s.newForm()
		return s.form.Init()
	}
	if km, ok := msg.(tea.KeyMsg); ok && key.Matches(km, keys.Back) {
		return s.app.back()
	}
	if s.form == nil || s.sending {
		return nil
	}

	model, cmd := s.form.Update(msg)
	if f, ok := model.(*huh.Form); ok {
		s.form = f
	}
	switch s.form.State {
	case huh.StateCompleted:
		return tea.Batch(cmd, s.submit(*s.values))
	case huh.StateAborted:
		return s.app.back()
	}
	return cmd
}

func (s *placeForm) arrived() tea.Cmd {
	s.pending--
	if s.pending > 0 || s.form != nil {
		return nil
	}
	if s.editing() && s.entity.State().Data == nil {
		return nil
	}
	s.build()
	return s.form.Init()
}

func parsePlaceValues(v placeValues) (lat, lng float64, piso *int, err error) {
	if lat, err = strconv.ParseFloat(strings.TrimSpace(v.Latitud), 64); err != nil {
		return 0, 0, nil, fmt.Errorf("latitud inválida: %w", err)
	}
	if lng, err = strconv.ParseFloat(strings.TrimSpace(v.Longitud), 64); err != nil {
		return 0, 0, nil, fmt.Errorf("longitud inválida: %w", err)
	}
	if p := strings.TrimSpace(v.Piso); p != "" {
		n, err := strconv.Atoi(p)
		if err != nil {
			return 0, 0, nil, fmt.Errorf("piso inválido: %w", err)
		}
		piso = &n
	}
	return lat, lng, piso, nil
}

func loadImage(path string) (*platform.Upload, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, nil
	}
	return platform.LoadUpload(path)
}

func (s *placeForm) submit(v placeValues) tea.Cmd {
	s.sending = true
	lat, lng, piso, err := parsePlaceValues(v)
	if err != nil {
		return s.app.do("", "", func(context.Context) error { return err })
	}
	next := router.Path(router.RoutePlaces, nil)

	if !s.editing() {
		in := platform.CreatePlaceInput{
			Nombre:      strings.TrimSpace(v.Nombre),
			Latitud:     lat,
			Longitud:    lng,
			TipoID:      v.TipoID,
			Descripcion: optional(v.Descripcion),
			IsActive:    platform.Ptr(v.Activo),
			Piso:        piso,
			Edificio:    optional(v.Edificio),
			CodigoQR:    optional(v.CodigoQR),
		}
		return s.app.do("Lugar creado", next, func(ctx context.Context) error {
			image, err := loadImage(v.ImagePath)
			if err != nil {
				return err
			}
			_, err = s.app.svc.CreatePlace(ctx, in, image)
			return err
		})
	}

	old := s.entity.State().Data
	in := platform.UpdatePlaceInput{
		Nombre:      changed(&old.Nombre, v.Nombre),
		TipoID:      changed(&old.TipoID, v.TipoID),
		Descripcion: changed(old.Descripcion, v.Descripcion),
		Edificio:    changed(old.Edificio, v.Edificio),
		CodigoQR:    changed(old.CodigoQR, v.CodigoQR),
	}
	if lat != float64(old.Latitud) {
		in.Latitud = &lat
	}
	if lng != float64(old.Longitud) {
		in.Longitud = &lng
	}
	if piso != nil && (old.Piso == nil || *old.Piso != *piso) {
		in.Piso = piso
	}
	if v.Activo != old.IsActive {
		in.IsActive = platform.Ptr(v.Activo)
	}
	detail := router.Path(router.RoutePlaceDetail, router.Params{"id": old.ID})
	return s.app.do("Lugar actualizado", detail, func(ctx context.Context) error {
		image, err := loadImage(v.ImagePath)
		if err != nil {
			return err
		}
		_, err = s.entity.Update(ctx, in, image)
		return err
	})
}

func (s *placeForm) busy() bool {
	return s.sending || s.pending > 0
}

func (s *placeForm) view() string {
	if s.form == nil {
		if s.editing() {
			if err := s.entity.State().Err; err != "" {
				return s.app.styles.Error.Render(err)
			}
		}
		return s.app.styles.Muted.Render("Cargando formulario...")
	}
	return s.app.styles.Border.Render(s.form.View())
}

func (s *placeForm) bindings() []key.Binding { return formBindings() }

func (s *placeForm) capturing() bool { return true }
