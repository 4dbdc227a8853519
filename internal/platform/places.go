package platform

import (
	"context"
	"net/url"
)

const placesPath = "/places"

// ListPlaces returns one page of places.
func (c *Client) ListPlaces(ctx context.Context, q PlaceQuery) (*Page[Place], error) {
	resp, err := c.Get(ctx, withQuery(placesPath, q.Values()))
	if err != nil {
		c.logFailure(ctx, "places.list", err)
		return nil, err
	}

	env, err := decode[Envelope[[]Place]](resp)
	if err != nil {
		c.logFailure(ctx, "places.list", err)
		return nil, err
	}

	fallback := DefaultPagination()
	if q.Page != nil {
		fallback.Page = *q.Page
	}
	if q.Limit != nil {
		fallback.Limit = *q.Limit
	}
	fallback.Total = len(env.Data)
	return &Page[Place]{Items: env.Data, Pagination: env.PageInfo(fallback)}, nil
}

// ListPlacesByType returns the places of one type.
func (c *Client) ListPlacesByType(ctx context.Context, typeID string) ([]Place, error) {
	resp, err := c.Get(ctx, placesPath+"/type/"+url.PathEscape(typeID))
	if err != nil {
		c.logFailure(ctx, "places.by_type", err, "tipo_id", typeID)
		return nil, err
	}
	items, err := decodeEntity[[]Place](ctx, c, "places.by_type", resp)
	if err != nil {
		return nil, err
	}
	return *items, nil
}

// CreatePlace creates a place. The request is multipart so that an image
// can be uploaded with it; image may be nil. IsActive defaults to true and
// is always sent.
func (c *Client) CreatePlace(ctx context.Context, in CreatePlaceInput, image *Upload) (*Place, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	form := in.form()
	form.Attach("imagen", image)

	resp, err := c.Post(ctx, placesPath, form)
	if err != nil {
		c.logFailure(ctx, "places.create", err, "nombre", in.Nombre)
		return nil, err
	}
	return decodeEntity[Place](ctx, c, "places.create", resp)
}

// SearchPlaces runs the backend's free-text search.
func (c *Client) SearchPlaces(ctx context.Context, query string) ([]Place, error) {
	resp, err := c.Get(ctx, placesPath+"/search?q="+url.QueryEscape(query))
	if err != nil {
		c.logFailure(ctx, "places.search", err, "q", query)
		return nil, err
	}
	items, err := decodeEntity[[]Place](ctx, c, "places.search", resp)
	if err != nil {
		return nil, err
	}
	return *items, nil
}

// PlaceStats returns aggregate counts.
func (c *Client) PlaceStats(ctx context.Context) (*PlaceStats, error) {
	resp, err := c.Get(ctx, placesPath+"/stats")
	if err != nil {
		c.logFailure(ctx, "places.stats", err)
		return nil, err
	}
	return decodeEntity[PlaceStats](ctx, c, "places.stats", resp)
}

// GetPlace returns one place.
func (c *Client) GetPlace(ctx context.Context, id string) (*Place, error) {
	resp, err := c.Get(ctx, placePath(id))
	if err != nil {
		c.logFailure(ctx, "places.get", err, "id", id)
		return nil, err
	}
	return decodeEntity[Place](ctx, c, "places.get", resp)
}

// UpdatePlace patches a place with the non-nil fields of in, as multipart.
// image may be nil.
func (c *Client) UpdatePlace(ctx context.Context, id string, in UpdatePlaceInput, image *Upload) (*Place, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	form := in.form()
	form.Attach("imagen", image)

	resp, err := c.Patch(ctx, placePath(id), form)
	if err != nil {
		c.logFailure(ctx, "places.update", err, "id", id)
		return nil, err
	}
	return decodeEntity[Place](ctx, c, "places.update", resp)
}

// DeletePlace deletes a place.
func (c *Client) DeletePlace(ctx context.Context, id string) error {
	if _, err := c.Delete(ctx, placePath(id)); err != nil {
		c.logFailure(ctx, "places.delete", err, "id", id)
		return err
	}
	return nil
}

// TogglePlaceStatus sets isActive and nothing else.
func (c *Client) TogglePlaceStatus(ctx context.Context, id string, active bool) (*Place, error) {
	return c.UpdatePlace(ctx, id, UpdatePlaceInput{IsActive: &active}, nil)
}

func placePath(id string) string {
	return placesPath + "/" + url.PathEscape(id)
}
