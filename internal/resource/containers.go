package resource

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/tecsupnav/placesadmin/internal/platform"
)

// MinSearchLength is the shortest free-text query sent to the backend.
const MinSearchLength = 2

var (
	// ErrNoID is returned by an entity container without an id.
	ErrNoID = errors.New("no record id provided")
	// ErrQueryTooShort is returned by Search for queries under
	// MinSearchLength runes. Nothing is sent and the state is untouched.
	ErrQueryTooShort = errors.New("search query must be at least 2 characters")
)

// PlaceTypeService is the backend surface used by the place type
// containers.
type PlaceTypeService interface {
	ListPlaceTypes(ctx context.Context, q platform.PlaceTypeQuery) (*platform.Page[platform.PlaceType], error)
	GetPlaceType(ctx context.Context, id string) (*platform.PlaceType, error)
	CreatePlaceType(ctx context.Context, in platform.CreatePlaceTypeInput) (*platform.PlaceType, error)
	UpdatePlaceType(ctx context.Context, id string, in platform.UpdatePlaceTypeInput) (*platform.PlaceType, error)
	DeletePlaceType(ctx context.Context, id string) error
	PlaceTypeStats(ctx context.Context) (*platform.PlaceTypeStats, error)
}

// PlaceService is the backend surface used by the place containers.
type PlaceService interface {
	ListPlaces(ctx context.Context, q platform.PlaceQuery) (*platform.Page[platform.Place], error)
	GetPlace(ctx context.Context, id string) (*platform.Place, error)
	CreatePlace(ctx context.Context, in platform.CreatePlaceInput, image *platform.Upload) (*platform.Place, error)
	UpdatePlace(ctx context.Context, id string, in platform.UpdatePlaceInput, image *platform.Upload) (*platform.Place, error)
	DeletePlace(ctx context.Context, id string) error
	TogglePlaceStatus(ctx context.Context, id string, active bool) (*platform.Place, error)
	SearchPlaces(ctx context.Context, query string) ([]platform.Place, error)
	PlaceStats(ctx context.Context) (*platform.PlaceStats, error)
}

// PlaceTypes is the place type list.
type PlaceTypes struct {
	*List[platform.PlaceType, platform.PlaceTypeQuery]
	svc PlaceTypeService
}

// NewPlaceTypes creates a place type list starting from initial.
func NewPlaceTypes(svc PlaceTypeService, initial platform.PlaceTypeQuery) *PlaceTypes {
	return &PlaceTypes{
		List: NewList(svc.ListPlaceTypes, initial),
		svc:  svc,
	}
}

// Create adds a place type and re-reads the list.
func (p *PlaceTypes) Create(ctx context.Context, in platform.CreatePlaceTypeInput) (*platform.PlaceType, error) {
	return mutate(ctx, p.List, func(ctx context.Context) (*platform.PlaceType, error) {
		return p.svc.CreatePlaceType(ctx, in)
	})
}

// Update patches a place type and re-reads the list.
func (p *PlaceTypes) Update(ctx context.Context, id string, in platform.UpdatePlaceTypeInput) (*platform.PlaceType, error) {
	return mutate(ctx, p.List, func(ctx context.Context) (*platform.PlaceType, error) {
		return p.svc.UpdatePlaceType(ctx, id, in)
	})
}

// Toggle sets isActive and re-reads the list.
func (p *PlaceTypes) Toggle(ctx context.Context, id string, active bool) (*platform.PlaceType, error) {
	return p.Update(ctx, id, platform.UpdatePlaceTypeInput{IsActive: &active})
}

// Delete removes a place type and re-reads the list.
func (p *PlaceTypes) Delete(ctx context.Context, id string) error {
	_, err := mutate(ctx, p.List, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, p.svc.DeletePlaceType(ctx, id)
	})
	return err
}

// Places is the place list.
type Places struct {
	*List[platform.Place, platform.PlaceQuery]
	svc PlaceService
}

// NewPlaces creates a place list starting from initial.
func NewPlaces(svc PlaceService, initial platform.PlaceQuery) *Places {
	return &Places{
		List: NewList(svc.ListPlaces, initial),
		svc:  svc,
	}
}

// Create adds a place and re-reads the list. image may be nil.
func (p *Places) Create(ctx context.Context, in platform.CreatePlaceInput, image *platform.Upload) (*platform.Place, error) {
	return mutate(ctx, p.List, func(ctx context.Context) (*platform.Place, error) {
		return p.svc.CreatePlace(ctx, in, image)
	})
}

// Update patches a place and re-reads the list. image may be nil.
func (p *Places) Update(ctx context.Context, id string, in platform.UpdatePlaceInput, image *platform.Upload) (*platform.Place, error) {
	return mutate(ctx, p.List, func(ctx context.Context) (*platform.Place, error) {
		return p.svc.UpdatePlace(ctx, id, in, image)
	})
}

// Toggle sets isActive and re-reads the list.
func (p *Places) Toggle(ctx context.Context, id string, active bool) (*platform.Place, error) {
	return mutate(ctx, p.List, func(ctx context.Context) (*platform.Place, error) {
		return p.svc.TogglePlaceStatus(ctx, id, active)
	})
}

// Delete removes a place and re-reads the list.
func (p *Places) Delete(ctx context.Context, id string) error {
	_, err := mutate(ctx, p.List, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, p.svc.DeletePlace(ctx, id)
	})
	return err
}

// Search replaces the items with the backend's free-text results. The
// filters are kept so Refetch returns to the filtered page.
func (p *Places) Search(ctx context.Context, query string) ([]platform.Place, error) {
	query = strings.TrimSpace(query)
	if utf8.RuneCountInString(query) < MinSearchLength {
		return nil, ErrQueryTooShort
	}

	seq := p.begin()
	items, err := p.svc.SearchPlaces(ctx, query)
	p.finish(seq, func(st *ListState[platform.Place]) {
		if err != nil {
			st.Err = err.Error()
			return
		}
		st.Items = items
		st.Search = query
		st.Pagination.Total = len(items)
		st.Pagination.Page = 1
		st.Pagination.Pages = 0
		if len(items) > 0 {
			st.Pagination.Pages = 1
		}
	})
	return items, err
}

// PlaceType is a single place type.
type PlaceType struct {
	*Entity[platform.PlaceType]
	svc PlaceTypeService
}

// NewPlaceType creates a container for the place type id.
func NewPlaceType(svc PlaceTypeService, id string) *PlaceType {
	return &PlaceType{Entity: NewEntity(id, svc.GetPlaceType), svc: svc}
}

// Update patches the place type and keeps the returned version.
func (p *PlaceType) Update(ctx context.Context, in platform.UpdatePlaceTypeInput) (*platform.PlaceType, error) {
	return p.update(ctx, func(ctx context.Context, id string) (*platform.PlaceType, error) {
		return p.svc.UpdatePlaceType(ctx, id, in)
	})
}

// Place is a single place.
type Place struct {
	*Entity[platform.Place]
	svc PlaceService
}

// NewPlace creates a container for the place id.
func NewPlace(svc PlaceService, id string) *Place {
	return &Place{Entity: NewEntity(id, svc.GetPlace), svc: svc}
}

// Update patches the place and keeps the returned version. image may be
// nil.
func (p *Place) Update(ctx context.Context, in platform.UpdatePlaceInput, image *platform.Upload) (*platform.Place, error) {
	return p.update(ctx, func(ctx context.Context, id string) (*platform.Place, error) {
		return p.svc.UpdatePlace(ctx, id, in, image)
	})
}

// Toggle sets the place's status and keeps the returned version.
func (p *Place) Toggle(ctx context.Context, active bool) (*platform.Place, error) {
	return p.update(ctx, func(ctx context.Context, id string) (*platform.Place, error) {
		return p.svc.TogglePlaceStatus(ctx, id, active)
	})
}

// Delete removes the place. The container keeps the last known version.
func (p *Place) Delete(ctx context.Context) error {
	if p.ID() == "" {
		return ErrNoID
	}
	_, err := p.run(ctx, func(ctx context.Context) (*platform.Place, error) {
		if err := p.svc.DeletePlace(ctx, p.ID()); err != nil {
			return nil, err
		}
		return p.State().Data, nil
	})
	return err
}

// NewPlaceTypeStats creates the place type stats container.
func NewPlaceTypeStats(svc PlaceTypeService) *Stats[platform.PlaceTypeStats] {
	return NewStats(svc.PlaceTypeStats)
}

// NewPlaceStats creates the place stats container.
func NewPlaceStats(svc PlaceService) *Stats[platform.PlaceStats] {
	return NewStats(svc.PlaceStats)
}
