package platform

import (
	"net/url"
	"strings"
)

// CreatePlaceTypeInput is the body of POST /place-types.
type CreatePlaceTypeInput struct {
	Nombre      string  `json:"nombre"`
	Descripcion *string `json:"descripcion,omitempty"`
	Icono       *string `json:"icono,omitempty"`
	Color       *string `json:"color,omitempty"`
}

// Validate performs the client-side presence checks.
func (in CreatePlaceTypeInput) Validate() error {
	if strings.TrimSpace(in.Nombre) == "" {
		return &ValidationError{Field: "nombre"}
	}
	return nil
}

// UpdatePlaceTypeInput is the body of PATCH /place-types/:id. Nil fields
// are not sent.
type UpdatePlaceTypeInput struct {
	Nombre      *string `json:"nombre,omitempty"`
	Descripcion *string `json:"descripcion,omitempty"`
	Icono       *string `json:"icono,omitempty"`
	Color       *string `json:"color,omitempty"`
	IsActive    *bool   `json:"isActive,omitempty"`
}

// Validate rejects an explicitly blank name.
func (in UpdatePlaceTypeInput) Validate() error {
	if in.Nombre != nil && strings.TrimSpace(*in.Nombre) == "" {
		return &ValidationError{Field: "nombre"}
	}
	return nil
}

// CreatePlaceInput is sent as multipart to POST /places.
type CreatePlaceInput struct {
	Nombre      string
	Latitud     float64
	Longitud    float64
	TipoID      string
	Descripcion *string
	Imagen      *string // existing image URL; an uploaded file takes precedence
	IsActive    *bool   // nil means true
	Piso        *int
	Edificio    *string
	CodigoQR    *string
}

// Validate performs the client-side presence checks.
func (in CreatePlaceInput) Validate() error {
	if strings.TrimSpace(in.Nombre) == "" {
		return &ValidationError{Field: "nombre"}
	}
	if strings.TrimSpace(in.TipoID) == "" {
		return &ValidationError{Field: "tipoId"}
	}
	return nil
}

func (in CreatePlaceInput) form() *Multipart {
	active := true
	if in.IsActive != nil {
		active = *in.IsActive
	}
	m := NewMultipart()
	m.AddString("nombre", &in.Nombre)
	m.AddFloat("latitud", &in.Latitud)
	m.AddFloat("longitud", &in.Longitud)
	m.AddString("tipoId", &in.TipoID)
	m.AddString("descripcion", in.Descripcion)
	m.AddString("edificio", in.Edificio)
	m.AddInt("piso", in.Piso)
	m.AddString("codigoQR", in.CodigoQR)
	m.AddBool("isActive", &active)
	m.AddString("imagen", in.Imagen)
	return m
}

// UpdatePlaceInput is sent as multipart to PATCH /places/:id. Nil fields
// are not sent and the backend leaves them unchanged.
type UpdatePlaceInput struct {
	Nombre      *string
	Latitud     *float64
	Longitud    *float64
	TipoID      *string
	Descripcion *string
	Imagen      *string
	IsActive    *bool
	Piso        *int
	Edificio    *string
	CodigoQR    *string
}

// Validate rejects explicitly blank required fields.
func (in UpdatePlaceInput) Validate() error {
	if in.Nombre != nil && strings.TrimSpace(*in.Nombre) == "" {
		return &ValidationError{Field: "nombre"}
	}
	if in.TipoID != nil && strings.TrimSpace(*in.TipoID) == "" {
		return &ValidationError{Field: "tipoId"}
	}
	return nil
}

func (in UpdatePlaceInput) form() *Multipart {
	m := NewMultipart()
	m.AddString("nombre", in.Nombre)
	m.AddFloat("latitud", in.Latitud)
	m.AddFloat("longitud", in.Longitud)
	m.AddString("tipoId", in.TipoID)
	m.AddString("descripcion", in.Descripcion)
	m.AddString("edificio", in.Edificio)
	m.AddInt("piso", in.Piso)
	m.AddString("codigoQR", in.CodigoQR)
	m.AddBool("isActive", in.IsActive)
	m.AddString("imagen", in.Imagen)
	return m
}

// PlaceTypeQuery filters GET /place-types.
type PlaceTypeQuery struct {
	Page      *int
	Limit     *int
	Search    *string
	IsActive  *bool
	SortBy    *string // name, createdAt, updatedAt
	SortOrder *string // asc, desc
}

// Values serializes the non-nil fields.
func (q PlaceTypeQuery) Values() url.Values {
	v := url.Values{}
	setInt(v, "page", q.Page)
	setInt(v, "limit", q.Limit)
	setString(v, "search", q.Search)
	setBool(v, "isActive", q.IsActive)
	setString(v, "sortBy", q.SortBy)
	setString(v, "sortOrder", q.SortOrder)
	return v
}

// Merge returns q with every non-nil field of other applied over it.
func (q PlaceTypeQuery) Merge(other PlaceTypeQuery) PlaceTypeQuery {
	q.Page = pick(other.Page, q.Page)
	q.Limit = pick(other.Limit, q.Limit)
	q.Search = pick(other.Search, q.Search)
	q.IsActive = pick(other.IsActive, q.IsActive)
	q.SortBy = pick(other.SortBy, q.SortBy)
	q.SortOrder = pick(other.SortOrder, q.SortOrder)
	return q
}

// WithPage returns q for page n.
func (q PlaceTypeQuery) WithPage(n int) PlaceTypeQuery {
	q.Page = &n
	return q
}

// PlaceQuery filters GET /places.
type PlaceQuery struct {
	Nombre   *string
	TipoID   *string
	Edificio *string
	Piso     *int
	IsActive *bool
	NearLat  *float64
	NearLng  *float64
	Radius   *float64
	Page     *int
	Limit    *int
}

// Values serializes the non-nil fields.
func (q PlaceQuery) Values() url.Values {
	v := url.Values{}
	setString(v, "nombre", q.Nombre)
	setString(v, "tipoId", q.TipoID)
	setString(v, "edificio", q.Edificio)
	setInt(v, "piso", q.Piso)
	setBool(v, "isActive", q.IsActive)
	setFloat(v, "nearLat", q.NearLat)
	setFloat(v, "nearLng", q.NearLng)
	setFloat(v, "radius", q.Radius)
	setInt(v, "page", q.Page)
	setInt(v, "limit", q.Limit)
	return v
}

// Merge returns q with every non-nil field of other applied over it.
func (q PlaceQuery) Merge(other PlaceQuery) PlaceQuery {
	q.Nombre = pick(other.Nombre, q.Nombre)
	q.TipoID = pick(other.TipoID, q.TipoID)
	q.Edificio = pick(other.Edificio, q.Edificio)
	q.Piso = pick(other.Piso, q.Piso)
	q.IsActive = pick(other.IsActive, q.IsActive)
	q.NearLat = pick(other.NearLat, q.NearLat)
	q.NearLng = pick(other.NearLng, q.NearLng)
	q.Radius = pick(other.Radius, q.Radius)
	q.Page = pick(other.Page, q.Page)
	q.Limit = pick(other.Limit, q.Limit)
	return q
}

// WithPage returns q for page n.
func (q PlaceQuery) WithPage(n int) PlaceQuery {
	q.Page = &n
	return q
}

func pick[T any](override, base *T) *T {
	if override != nil {
		return override
	}
	return base
}
