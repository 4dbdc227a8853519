package platform

import (
	"context"
	"net/url"
)

const placeTypesPath = "/place-types"

// ListPlaceTypes returns one page of place types.
func (c *Client) ListPlaceTypes(ctx context.Context, q PlaceTypeQuery) (*Page[PlaceType], error) {
	resp, err := c.Get(ctx, withQuery(placeTypesPath, q.Values()))
	if err != nil {
		c.logFailure(ctx, "place_types.list", err)
		return nil, err
	}

	env, err := decode[Envelope[[]PlaceType]](resp)
	if err != nil {
		c.logFailure(ctx, "place_types.list", err)
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
	return &Page[PlaceType]{Items: env.Data, Pagination: env.PageInfo(fallback)}, nil
}

// CreatePlaceType creates a place type.
func (c *Client) CreatePlaceType(ctx context.Context, in CreatePlaceTypeInput) (*PlaceType, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	resp, err := c.Post(ctx, placeTypesPath, in)
	if err != nil {
		c.logFailure(ctx, "place_types.create", err, "nombre", in.Nombre)
		return nil, err
	}
	return decodeEntity[PlaceType](ctx, c, "place_types.create", resp)
}

// PlaceTypeStats returns aggregate counts.
func (c *Client) PlaceTypeStats(ctx context.Context) (*PlaceTypeStats, error) {
	resp, err := c.Get(ctx, placeTypesPath+"/stats")
	if err != nil {
		c.logFailure(ctx, "place_types.stats", err)
		return nil, err
	}
	return decodeEntity[PlaceTypeStats](ctx, c, "place_types.stats", resp)
}

// GetPlaceType returns one place type.
func (c *Client) GetPlaceType(ctx context.Context, id string) (*PlaceType, error) {
	resp, err := c.Get(ctx, placeTypePath(id))
	if err != nil {
		c.logFailure(ctx, "place_types.get", err, "id", id)
		return nil, err
	}
	return decodeEntity[PlaceType](ctx, c, "place_types.get", resp)
}

// UpdatePlaceType patches a place type with the non-nil fields of in.
func (c *Client) UpdatePlaceType(ctx context.Context, id string, in UpdatePlaceTypeInput) (*PlaceType, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	resp, err := c.Patch(ctx, placeTypePath(id), in)
	if err != nil {
		c.logFailure(ctx, "place_types.update", err, "id", id)
		return nil, err
	}
	return decodeEntity[PlaceType](ctx, c, "place_types.update", resp)
}

// DeletePlaceType deletes a place type.
func (c *Client) DeletePlaceType(ctx context.Context, id string) error {
	if _, err := c.Delete(ctx, placeTypePath(id)); err != nil {
		c.logFailure(ctx, "place_types.delete", err, "id", id)
		return err
	}
	return nil
}

func placeTypePath(id string) string {
	return placeTypesPath + "/" + url.PathEscape(id)
}

// decodeEntity unwraps {success, data} into *T.
func decodeEntity[T any](ctx context.Context, c *Client, op string, resp *Response) (*T, error) {
	env, err := decode[Envelope[T]](resp)
	if err != nil {
		c.logFailure(ctx, op, err)
		return nil, err
	}
	return &env.Data, nil
}
