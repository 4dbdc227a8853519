package platform

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"time"
)

// Credentials is the staff login payload.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// User is the authenticated staff principal.
type User struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName"`
	Role      string `json:"role"`
}

// DisplayName returns the best available human name.
func (u User) DisplayName() string {
	switch {
	case u.FirstName != "" && u.LastName != "":
		return u.FirstName + " " + u.LastName
	case u.LastName != "":
		return u.LastName
	default:
		return u.Email
	}
}

// PlaceType is a category of places.
type PlaceType struct {
	ID          string    `json:"id"`
	Nombre      string    `json:"nombre"`
	Descripcion *string   `json:"descripcion,omitempty"`
	Icono       *string   `json:"icono,omitempty"`
	Color       *string   `json:"color,omitempty"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// PlaceTypeSummary is the denormalized type attached to a Place.
type PlaceTypeSummary struct {
	ID     string  `json:"id"`
	Nombre string  `json:"nombre"`
	Icono  *string `json:"icono,omitempty"`
}

// Place is a located point of interest.
type Place struct {
	ID          string            `json:"id"`
	Nombre      string            `json:"nombre"`
	Latitud     Coordinate        `json:"latitud"`
	Longitud    Coordinate        `json:"longitud"`
	TipoID      string            `json:"tipoId"`
	Descripcion *string           `json:"descripcion,omitempty"`
	Imagen      *string           `json:"imagen,omitempty"`
	IsActive    bool              `json:"isActive"`
	Piso        *int              `json:"piso,omitempty"`
	Edificio    *string           `json:"edificio,omitempty"`
	CodigoQR    *string           `json:"codigoQR,omitempty"`
	CreatedAt   time.Time         `json:"createdAt"`
	UpdatedAt   time.Time         `json:"updatedAt"`
	Tipo        *PlaceTypeSummary `json:"tipo,omitempty"`
}

// TypeName returns the denormalized type name, or the type id.
func (p Place) TypeName() string {
	if p.Tipo != nil && p.Tipo.Nombre != "" {
		return p.Tipo.Nombre
	}
	return p.TipoID
}

// Coordinate is a decimal degree. The backend serializes decimal columns
// either as JSON numbers or as numeric strings; both decode.
type Coordinate float64

func (c *Coordinate) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*c = 0
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("invalid coordinate %q: %w", s, err)
		}
		*c = Coordinate(f)
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*c = Coordinate(f)
	return nil
}

// String formats the coordinate without trailing zeros.
func (c Coordinate) String() string {
	return strconv.FormatFloat(float64(c), 'f', -1, 64)
}

// GoogleUser is a read-only end user who signed in with Google.
type GoogleUser struct {
	ID             string    `json:"id"`
	Email          string    `json:"email"`
	NombreCompleto string    `json:"nombreCompleto"`
	FirstName      string    `json:"firstName"`
	LastName       string    `json:"lastName"`
	Avatar         *string   `json:"avatar,omitempty"`
	Role           string    `json:"role"`
	IsActive       bool      `json:"isActive"`
	GoogleID       string    `json:"googleId"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// UserRoster is the users endpoint payload.
type UserRoster struct {
	Count int          `json:"count"`
	Users []GoogleUser `json:"users"`
}

// GoogleUsersStats counts end users.
type GoogleUsersStats struct {
	Total    int `json:"total"`
	Active   int `json:"active"`
	Inactive int `json:"inactive"`
}

// PlaceTypeUsage is the most used place type.
type PlaceTypeUsage struct {
	ID         string `json:"id"`
	Nombre     string `json:"nombre"`
	UsageCount int    `json:"usageCount"`
}

// PlaceTypeStats is computed by the backend.
type PlaceTypeStats struct {
	TotalPlaceTypes    int             `json:"totalPlaceTypes"`
	ActivePlaceTypes   int             `json:"activePlaceTypes"`
	InactivePlaceTypes int             `json:"inactivePlaceTypes"`
	MostUsedPlaceType  *PlaceTypeUsage `json:"mostUsedPlaceType"`
	RecentlyCreated    []PlaceType     `json:"recentlyCreated"`
}

// TypeCount is one bucket of PlaceStats.ByType.
type TypeCount struct {
	Tipo  string `json:"tipo"`
	Count int    `json:"count"`
}

// BuildingCount is one bucket of PlaceStats.ByBuilding.
type BuildingCount struct {
	Edificio string `json:"edificio"`
	Count    int    `json:"count"`
}

// PlaceStats is computed by the backend.
type PlaceStats struct {
	Total      int             `json:"total"`
	Active     int             `json:"active"`
	Inactive   int             `json:"inactive"`
	ByType     []TypeCount     `json:"byType"`
	ByBuilding []BuildingCount `json:"byBuilding"`
}

// Pagination describes one page of a list.
type Pagination struct {
	Total int `json:"total"`
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Pages int `json:"pages"`
}

// DefaultPagination is the state before the first fetch.
func DefaultPagination() Pagination {
	return Pagination{Total: 0, Page: 1, Limit: 20, Pages: 0}
}

// Envelope is the backend's response wrapper. Place types report paging
// in the top-level total/page/limit fields; places use pagination.
type Envelope[T any] struct {
	Success    bool        `json:"success"`
	Message    string      `json:"message,omitempty"`
	Data       T           `json:"data"`
	Total      *int        `json:"total,omitempty"`
	Page       *int        `json:"page,omitempty"`
	Limit      *int        `json:"limit,omitempty"`
	Pagination *Pagination `json:"pagination,omitempty"`
}

// PageInfo returns the envelope's paging, filling gaps from fallback.
func (e Envelope[T]) PageInfo(fallback Pagination) Pagination {
	if e.Pagination != nil {
		return *e.Pagination
	}
	p := fallback
	if e.Total != nil {
		p.Total = *e.Total
	}
	if e.Page != nil {
		p.Page = *e.Page
	}
	if e.Limit != nil {
		p.Limit = *e.Limit
	}
	if p.Limit > 0 {
		p.Pages = int(math.Ceil(float64(p.Total) / float64(p.Limit)))
	}
	return p
}

// Page is one page of a list result.
type Page[T any] struct {
	Items      []T        `json:"items"`
	Pagination Pagination `json:"pagination"`
}

// Ptr returns a pointer to v, for optional input fields.
func Ptr[T any](v T) *T {
	return &v
}
