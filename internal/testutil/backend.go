// Package testutil provides an in-memory stand-in for the places backend,
// served over httptest and routed with chi.
package testutil

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"

	"github.com/tecsupnav/placesadmin/internal/platform"
)

// Seeded staff credentials.
const (
	AdminEmail    = "admin@tecsup.edu.pe"
	AdminPassword = "Admin123456"
)

var signingKey = []byte("placesadmin-test-signing-key")

// IssueToken returns an HS256 JWT for subject that expires at exp.
func IssueToken(subject string, exp time.Time) string {
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(exp),
	})
	s, err := tok.SignedString(signingKey)
	if err != nil {
		panic(err)
	}
	return s
}

// RecordedRequest is one request received by the Backend.
type RecordedRequest struct {
	Method      string
	Path        string
	Query       url.Values
	Header      http.Header
	Body        []byte
	Form        map[string]string // multipart fields
	FileField   string
	FileName    string
	ContentType string
}

type failure struct {
	status int
	body   string
}

// Backend is a fake places backend.
type Backend struct {
	*httptest.Server

	mu         sync.Mutex
	admin      platform.User
	token      string
	placeTypes []platform.PlaceType
	places     []platform.Place
	users      []platform.GoogleUser
	requests   []RecordedRequest
	failures   map[string]failure
	seq        int
}

// NewBackend starts a seeded Backend that is closed with the test.
func NewBackend(t testing.TB) *Backend {
	t.Helper()

	b := &Backend{
		admin: platform.User{
			ID:       "u-admin",
			Email:    AdminEmail,
			LastName: "Quispe",
			Role:     "ADMIN",
		},
		failures: map[string]failure{},
	}
	b.token = IssueToken(b.admin.ID, time.Now().Add(time.Hour))
	b.seed()

	b.Server = httptest.NewServer(b.Router())
	t.Cleanup(b.Server.Close)
	return b
}

func (b *Backend) seed() {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	b.placeTypes = []platform.PlaceType{
		{ID: "pt-1", Nombre: "Biblioteca", Icono: platform.Ptr("book"), Color: platform.Ptr("#1e40af"), IsActive: true, CreatedAt: now, UpdatedAt: now},
		{ID: "pt-2", Nombre: "Cafetería", Icono: platform.Ptr("coffee"), IsActive: true, CreatedAt: now, UpdatedAt: now},
		{ID: "pt-3", Nombre: "Laboratorio", IsActive: false, CreatedAt: now, UpdatedAt: now},
	}
	b.places = []platform.Place{
		{ID: "p-1", Nombre: "Cafetería Central", Latitud: -12.0450, Longitud: -77.0420, TipoID: "pt-2",
			IsActive: true, Edificio: platform.Ptr("Pabellón A"), Piso: platform.Ptr(1), CreatedAt: now, UpdatedAt: now},
		{ID: "p-2", Nombre: "Laboratorio de Redes", Latitud: -12.0460, Longitud: -77.0430, TipoID: "pt-3",
			IsActive: true, Edificio: platform.Ptr("Pabellón C"), Piso: platform.Ptr(3), CreatedAt: now, UpdatedAt: now},
	}
	for i := range b.places {
		b.places[i].Tipo = b.summary(b.places[i].TipoID)
	}
	b.users = []platform.GoogleUser{
		{ID: "g-1", Email: "jose.perez@tecsup.edu.pe", NombreCompleto: "José Pérez", FirstName: "José", LastName: "Pérez",
			Role: "STUDENT", IsActive: true, GoogleID: "1001", CreatedAt: now, UpdatedAt: now},
		{ID: "g-2", Email: "maria.lopez@tecsup.edu.pe", NombreCompleto: "María López", FirstName: "María", LastName: "López",
			Role: "TEACHER", IsActive: true, GoogleID: "1002", CreatedAt: now, UpdatedAt: now},
		{ID: "g-3", Email: "ana.torres@tecsup.edu.pe", NombreCompleto: "Ana Torres", FirstName: "Ana", LastName: "Torres",
			Role: "STUDENT", IsActive: false, GoogleID: "1003", CreatedAt: now, UpdatedAt: now},
	}
	b.seq = 100
}

// Token returns the token issued on successful login.
func (b *Backend) Token() string {
	return b.token
}

// Admin returns the seeded staff user.
func (b *Backend) Admin() platform.User {
	return b.admin
}

// Fail makes every subsequent request matching method and path (without
// query) answer with status and body.
func (b *Backend) Fail(method, path string, status int, body string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures[method+" "+path] = failure{status: status, body: body}
}

// ClearFailures removes every injected failure.
func (b *Backend) ClearFailures() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures = map[string]failure{}
}

// Requests returns every request received so far.
func (b *Backend) Requests() []RecordedRequest {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]RecordedRequest(nil), b.requests...)
}

// LastRequest returns the most recent request matching method and path.
func (b *Backend) LastRequest(method, path string) (RecordedRequest, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := len(b.requests) - 1; i >= 0; i-- {
		r := b.requests[i]
		if r.Method == method && r.Path == path {
			return r, true
		}
	}
	return RecordedRequest{}, false
}

// Places returns a copy of the stored places.
func (b *Backend) Places() []platform.Place {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]platform.Place(nil), b.places...)
}

// PlaceTypes returns a copy of the stored place types.
func (b *Backend) PlaceTypes() []platform.PlaceType {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]platform.PlaceType(nil), b.placeTypes...)
}

// Router returns the backend's routes.
func (b *Backend) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(b.record, b.inject)

	r.Post("/auth/login", b.handleLogin)
	r.Group(func(r chi.Router) {
		r.Use(b.requireToken)

		r.Post("/auth/logout", b.handleLogout)
		r.Get("/auth/profile", b.handleProfile)

		r.Route("/place-types", func(r chi.Router) {
			r.Get("/", b.handleListPlaceTypes)
			r.Post("/", b.handleCreatePlaceType)
			r.Get("/stats", b.handlePlaceTypeStats)
			r.Get("/{id}", b.handleGetPlaceType)
			r.Patch("/{id}", b.handleUpdatePlaceType)
			r.Delete("/{id}", b.handleDeletePlaceType)
		})

		r.Route("/places", func(r chi.Router) {
			r.Get("/", b.handleListPlaces)
			r.Post("/", b.handleCreatePlace)
			r.Get("/search", b.handleSearchPlaces)
			r.Get("/stats", b.handlePlaceStats)
			r.Get("/type/{typeId}", b.handlePlacesByType)
			r.Get("/{id}", b.handleGetPlace)
			r.Patch("/{id}", b.handleUpdatePlace)
			r.Delete("/{id}", b.handleDeletePlace)
		})

		r.Get("/users/google", b.handleGoogleUsers)
		r.Get("/users/google/stats", b.handleGoogleUsersStats)
		r.Get("/users", b.handleGoogleUsers)
	})

	return r
}

func (b *Backend) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		r.Body = io.NopCloser(strings.NewReader(string(body)))

		rec := RecordedRequest{
			Method:      r.Method,
			Path:        r.URL.Path,
			Query:       r.URL.Query(),
			Header:      r.Header.Clone(),
			Body:        body,
			ContentType: r.Header.Get("Content-Type"),
		}
		if strings.HasPrefix(rec.ContentType, "multipart/form-data") {
			if err := r.ParseMultipartForm(1 << 20); err == nil {
				rec.Form = map[string]string{}
				for k, v := range r.MultipartForm.Value {
					rec.Form[k] = v[0]
				}
				for k, files := range r.MultipartForm.File {
					rec.FileField = k
					rec.FileName = files[0].Filename
				}
			}
		}

		b.mu.Lock()
		b.requests = append(b.requests, rec)
		b.mu.Unlock()

		next.ServeHTTP(w, r)
	})
}

func (b *Backend) inject(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		f, ok := b.failures[r.Method+" "+r.URL.Path]
		b.mu.Unlock()
		if ok {
			w.WriteHeader(f.status)
			_, _ = io.WriteString(w, f.body)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (b *Backend) requireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+b.token {
			writeJSON(w, http.StatusUnauthorized, map[string]any{
				"message":    "Unauthorized",
				"statusCode": http.StatusUnauthorized,
			})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (b *Backend) handleLogin(w http.ResponseWriter, r *http.Request) {
	var creds platform.Credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"message": []string{"email must be an email"}, "error": "Bad Request"})
		return
	}
	if creds.Email != AdminEmail || creds.Password != AdminPassword {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"message": "Credenciales inválidas", "error": "Unauthorized"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Login exitoso",
		"data":    map[string]any{"access_token": b.token, "user": b.admin},
	})
}

func (b *Backend) handleLogout(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Logout exitoso"})
}

func (b *Backend) handleProfile(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, b.admin)
}

func (b *Backend) handleListPlaceTypes(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()

	q := r.URL.Query()
	var out []platform.PlaceType
	for _, pt := range b.placeTypes {
		if s := q.Get("search"); s != "" && !strings.Contains(strings.ToLower(pt.Nombre), strings.ToLower(s)) {
			continue
		}
		if a := q.Get("isActive"); a != "" && strconv.FormatBool(pt.IsActive) != a {
			continue
		}
		out = append(out, pt)
	}
	items, page, limit := paginate(out, q)
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data":    items,
		"total":   len(out),
		"page":    page,
		"limit":   limit,
	})
}

func (b *Backend) handleCreatePlaceType(w http.ResponseWriter, r *http.Request) {
	var in platform.CreatePlaceTypeInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil || in.Nombre == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{"message": []string{"nombre should not be empty"}, "error": "Bad Request"})
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	now := time.Now().UTC()
	pt := platform.PlaceType{
		ID:          b.nextID("pt"),
		Nombre:      in.Nombre,
		Descripcion: in.Descripcion,
		Icono:       in.Icono,
		Color:       in.Color,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	b.placeTypes = append(b.placeTypes, pt)
	writeJSON(w, http.StatusCreated, map[string]any{"success": true, "data": pt})
}

func (b *Backend) handlePlaceTypeStats(w http.ResponseWriter, _ *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()

	stats := platform.PlaceTypeStats{TotalPlaceTypes: len(b.placeTypes), RecentlyCreated: []platform.PlaceType{}}
	usage := map[string]int{}
	for _, p := range b.places {
		usage[p.TipoID]++
	}
	for _, pt := range b.placeTypes {
		if pt.IsActive {
			stats.ActivePlaceTypes++
		} else {
			stats.InactivePlaceTypes++
		}
		if n := usage[pt.ID]; n > 0 && (stats.MostUsedPlaceType == nil || n > stats.MostUsedPlaceType.UsageCount) {
			stats.MostUsedPlaceType = &platform.PlaceTypeUsage{ID: pt.ID, Nombre: pt.Nombre, UsageCount: n}
		}
	}
	recent := append([]platform.PlaceType(nil), b.placeTypes...)
	sort.SliceStable(recent, func(i, j int) bool { return recent[i].CreatedAt.After(recent[j].CreatedAt) })
	if len(recent) > 5 {
		recent = recent[:5]
	}
	stats.RecentlyCreated = recent
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": stats})
}

func (b *Backend) handleGetPlaceType(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	i := b.placeTypeIndex(chi.URLParam(r, "id"))
	if i < 0 {
		notFound(w, "Tipo de lugar no encontrado")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": b.placeTypes[i]})
}

func (b *Backend) handleUpdatePlaceType(w http.ResponseWriter, r *http.Request) {
	var in platform.UpdatePlaceTypeInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"message": "invalid body"})
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	i := b.placeTypeIndex(chi.URLParam(r, "id"))
	if i < 0 {
		notFound(w, "Tipo de lugar no encontrado")
		return
	}
	pt := &b.placeTypes[i]
	if in.Nombre != nil {
		pt.Nombre = *in.Nombre
	}
	if in.Descripcion != nil {
		pt.Descripcion = in.Descripcion
	}
	if in.Icono != nil {
		pt.Icono = in.Icono
	}
	if in.Color != nil {
		pt.Color = in.Color
	}
	if in.IsActive != nil {
		pt.IsActive = *in.IsActive
	}
	pt.UpdatedAt = time.Now().UTC()
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": *pt})
}

func (b *Backend) handleDeletePlaceType(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := chi.URLParam(r, "id")
	i := b.placeTypeIndex(id)
	if i < 0 {
		notFound(w, "Tipo de lugar no encontrado")
		return
	}
	for _, p := range b.places {
		if p.TipoID == id {
			writeJSON(w, http.StatusConflict, map[string]any{
				"message": "No se puede eliminar un tipo con lugares asociados",
				"error":   "Conflict",
			})
			return
		}
	}
	b.placeTypes = append(b.placeTypes[:i], b.placeTypes[i+1:]...)
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": map[string]bool{"deleted": true}})
}

func (b *Backend) handleListPlaces(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()

	q := r.URL.Query()
	var out []platform.Place
	for _, p := range b.places {
		if s := q.Get("nombre"); s != "" && !strings.Contains(strings.ToLower(p.Nombre), strings.ToLower(s)) {
			continue
		}
		if s := q.Get("tipoId"); s != "" && p.TipoID != s {
			continue
		}
		if s := q.Get("edificio"); s != "" && (p.Edificio == nil || *p.Edificio != s) {
			continue
		}
		if a := q.Get("isActive"); a != "" && strconv.FormatBool(p.IsActive) != a {
			continue
		}
		out = append(out, p)
	}
	items, page, limit := paginate(out, q)
	pages := 0
	if limit > 0 {
		pages = (len(out) + limit - 1) / limit
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"data":       items,
		"pagination": platform.Pagination{Total: len(out), Page: page, Limit: limit, Pages: pages},
	})
}

func (b *Backend) handleCreatePlace(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(1 << 20); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"message": "expected multipart/form-data"})
		return
	}
	form := r.MultipartForm.Value
	get := func(k string) string {
		if v := form[k]; len(v) > 0 {
			return v[0]
		}
		return ""
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if get("nombre") == "" || b.placeTypeIndex(get("tipoId")) < 0 {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"message": []string{"nombre should not be empty", "tipoId must reference an existing place type"},
			"error":   "Bad Request",
		})
		return
	}

	now := time.Now().UTC()
	p := platform.Place{ID: b.nextID("p"), TipoID: get("tipoId"), IsActive: true, CreatedAt: now, UpdatedAt: now}
	applyPlaceForm(&p, form)
	if files := r.MultipartForm.File["imagen"]; len(files) > 0 {
		p.Imagen = platform.Ptr("/uploads/" + files[0].Filename)
	}
	p.Tipo = b.summary(p.TipoID)
	b.places = append(b.places, p)
	writeJSON(w, http.StatusCreated, map[string]any{"success": true, "data": p})
}

func (b *Backend) handleSearchPlaces(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()

	term := strings.ToLower(r.URL.Query().Get("q"))
	out := []platform.Place{}
	for _, p := range b.places {
		if strings.Contains(strings.ToLower(p.Nombre), term) ||
			(p.Edificio != nil && strings.Contains(strings.ToLower(*p.Edificio), term)) {
			out = append(out, p)
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": out})
}

func (b *Backend) handlePlaceStats(w http.ResponseWriter, _ *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()

	stats := platform.PlaceStats{Total: len(b.places), ByType: []platform.TypeCount{}, ByBuilding: []platform.BuildingCount{}}
	byType := map[string]int{}
	byBuilding := map[string]int{}
	for _, p := range b.places {
		if p.IsActive {
			stats.Active++
		} else {
			stats.Inactive++
		}
		byType[p.TypeName()]++
		if p.Edificio != nil {
			byBuilding[*p.Edificio]++
		}
	}
	for _, k := range sortedKeys(byType) {
		stats.ByType = append(stats.ByType, platform.TypeCount{Tipo: k, Count: byType[k]})
	}
	for _, k := range sortedKeys(byBuilding) {
		stats.ByBuilding = append(stats.ByBuilding, platform.BuildingCount{Edificio: k, Count: byBuilding[k]})
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": stats})
}

func (b *Backend) handlePlacesByType(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()

	typeID := chi.URLParam(r, "typeId")
	out := []platform.Place{}
	for _, p := range b.places {
		if p.TipoID == typeID {
			out = append(out, p)
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": out})
}

func (b *Backend) handleGetPlace(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	i := b.placeIndex(chi.URLParam(r, "id"))
	if i < 0 {
		notFound(w, "Lugar no encontrado")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": b.places[i]})
}

func (b *Backend) handleUpdatePlace(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(1 << 20); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"message": "expected multipart/form-data"})
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	i := b.placeIndex(chi.URLParam(r, "id"))
	if i < 0 {
		notFound(w, "Lugar no encontrado")
		return
	}
	p := &b.places[i]
	applyPlaceForm(p, r.MultipartForm.Value)
	if files := r.MultipartForm.File["imagen"]; len(files) > 0 {
		p.Imagen = platform.Ptr("/uploads/" + files[0].Filename)
	}
	p.Tipo = b.summary(p.TipoID)
	p.UpdatedAt = time.Now().UTC()
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": *p})
}

func (b *Backend) handleDeletePlace(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	i := b.placeIndex(chi.URLParam(r, "id"))
	if i < 0 {
		notFound(w, "Lugar no encontrado")
		return
	}
	b.places = append(b.places[:i], b.places[i+1:]...)
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": map[string]bool{"deleted": true}})
}

func (b *Backend) handleGoogleUsers(w http.ResponseWriter, _ *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Usuarios obtenidos",
		"data":    map[string]any{"count": len(b.users), "users": b.users},
	})
}

func (b *Backend) handleGoogleUsersStats(w http.ResponseWriter, _ *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	stats := platform.GoogleUsersStats{Total: len(b.users)}
	for _, u := range b.users {
		if u.IsActive {
			stats.Active++
		} else {
			stats.Inactive++
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Estadísticas", "data": stats})
}

func applyPlaceForm(p *platform.Place, form map[string][]string) {
	for k, v := range form {
		if len(v) == 0 {
			continue
		}
		val := v[0]
		switch k {
		case "nombre":
			p.Nombre = val
		case "latitud":
			if f, err := strconv.ParseFloat(val, 64); err == nil {
				p.Latitud = platform.Coordinate(f)
			}
		case "longitud":
			if f, err := strconv.ParseFloat(val, 64); err == nil {
				p.Longitud = platform.Coordinate(f)
			}
		case "tipoId":
			p.TipoID = val
		case "descripcion":
			p.Descripcion = platform.Ptr(val)
		case "edificio":
			p.Edificio = platform.Ptr(val)
		case "piso":
			if n, err := strconv.Atoi(val); err == nil {
				p.Piso = &n
			}
		case "codigoQR":
			p.CodigoQR = platform.Ptr(val)
		case "imagen":
			p.Imagen = platform.Ptr(val)
		case "isActive":
			p.IsActive = val == "true"
		}
	}
}

func (b *Backend) summary(typeID string) *platform.PlaceTypeSummary {
	i := b.placeTypeIndex(typeID)
	if i < 0 {
		return nil
	}
	pt := b.placeTypes[i]
	return &platform.PlaceTypeSummary{ID: pt.ID, Nombre: pt.Nombre, Icono: pt.Icono}
}

func (b *Backend) placeTypeIndex(id string) int {
	for i, pt := range b.placeTypes {
		if pt.ID == id {
			return i
		}
	}
	return -1
}

func (b *Backend) placeIndex(id string) int {
	for i, p := range b.places {
		if p.ID == id {
			return i
		}
	}
	return -1
}

func (b *Backend) nextID(prefix string) string {
	b.seq++
	return fmt.Sprintf("%s-%d", prefix, b.seq)
}

func paginate[T any](items []T, q url.Values) ([]T, int, int) {
	page, _ := strconv.Atoi(q.Get("page"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(q.Get("limit"))
	if limit < 1 {
		limit = 20
	}
	start := (page - 1) * limit
	if start >= len(items) {
		return []T{}, page, limit
	}
	end := start + limit
	if end > len(items) {
		end = len(items)
	}
	return items[start:end], page, limit
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func notFound(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusNotFound, map[string]any{"message": msg, "error": "Not Found", "statusCode": http.StatusNotFound})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
