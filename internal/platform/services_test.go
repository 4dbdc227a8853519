package platform_test

import (
	"context"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/tecsupnav/placesadmin/internal/platform"
	"github.com/tecsupnav/placesadmin/internal/testutil"
)

func TestLogin(t *testing.T) {
	b := testutil.NewBackend(t)
	c := platform.NewClient(b.URL)

	res, err := c.Login(context.Background(), platform.Credentials{
		Email:    testutil.AdminEmail,
		Password: testutil.AdminPassword,
	})
	require.NoError(t, err)
	assert.Equal(t, b.Token(), res.Token)
	assert.Equal(t, testutil.AdminEmail, res.User.Email)
	assert.Equal(t, "ADMIN", res.User.Role)

	req, ok := b.LastRequest(http.MethodPost, "/auth/login")
	require.True(t, ok)
	assert.Empty(t, req.Header.Get("Authorization"))
}

func TestLogin_InvalidCredentials(t *testing.T) {
	b := testutil.NewBackend(t)
	c := platform.NewClient(b.URL)

	_, err := c.Login(context.Background(), platform.Credentials{Email: testutil.AdminEmail, Password: "wrong"})
	require.Error(t, err)
	assert.True(t, platform.IsUnauthorized(err))
	assert.Equal(t, "Credenciales inválidas", err.Error())
}

func TestLogin_IncompleteResponse(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "no token", body: `{"success":true,"data":{"user":{"id":"1","email":"a@b.c","lastName":"X","role":"ADMIN"}}}`},
		{name: "no user", body: `{"success":true,"data":{"access_token":"abc"}}`},
		{name: "no data", body: `{"success":true}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := testutil.NewBackend(t)
			b.Fail(http.MethodPost, "/auth/login", http.StatusOK, tt.body)
			c := platform.NewClient(b.URL)

			_, err := c.Login(context.Background(), platform.Credentials{Email: "a@b.c", Password: "x"})
			assert.ErrorIs(t, err, platform.ErrIncompleteResponse)
		})
	}
}

func TestProfile_BareAndEnveloped(t *testing.T) {
	b := testutil.NewBackend(t)
	c := newClient(t, b, b.Token())

	u, err := c.Profile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, testutil.AdminEmail, u.Email)

	b.Fail(http.MethodGet, "/auth/profile", http.StatusOK, `{"success":true,"data":{"id":"u-9","email":"x@tecsup.edu.pe","lastName":"Y","role":"ADMIN"}}`)
	u, err = c.Profile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "u-9", u.ID)
}

func TestLogout(t *testing.T) {
	b := testutil.NewBackend(t)
	c := newClient(t, b, b.Token())

	require.NoError(t, c.Logout(context.Background()))
	req, ok := b.LastRequest(http.MethodPost, "/auth/logout")
	require.True(t, ok)
	assert.JSONEq(t, `{}`, string(req.Body))
}

func TestListPlaceTypes_QueryAndPaging(t *testing.T) {
	b := testutil.NewBackend(t)
	c := newClient(t, b, b.Token())

	page, err := c.ListPlaceTypes(context.Background(), platform.PlaceTypeQuery{
		Page:  platform.Ptr(2),
		Limit: platform.Ptr(2),
	})
	require.NoError(t, err)
	assert.Len(t, page.Items, 1)
	assert.Equal(t, platform.Pagination{Total: 3, Page: 2, Limit: 2, Pages: 2}, page.Pagination)

	req, ok := b.LastRequest(http.MethodGet, "/place-types")
	require.True(t, ok)
	assert.Equal(t, url.Values{"page": {"2"}, "limit": {"2"}}, req.Query)
}

func TestListPlaceTypes_OmitsUnsetFilters(t *testing.T) {
	b := testutil.NewBackend(t)
	c := newClient(t, b, b.Token())

	_, err := c.ListPlaceTypes(context.Background(), platform.PlaceTypeQuery{IsActive: platform.Ptr(false)})
	require.NoError(t, err)

	req, ok := b.LastRequest(http.MethodGet, "/place-types")
	require.True(t, ok)
	assert.Equal(t, url.Values{"isActive": {"false"}}, req.Query)
}

func TestPlaceTypeCRUD(t *testing.T) {
	b := testutil.NewBackend(t)
	c := newClient(t, b, b.Token())
	ctx := context.Background()

	created, err := c.CreatePlaceType(ctx, platform.CreatePlaceTypeInput{Nombre: "Auditorio", Color: platform.Ptr("#ff0000")})
	require.NoError(t, err)
	assert.True(t, created.IsActive)

	got, err := c.GetPlaceType(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Auditorio", got.Nombre)

	updated, err := c.UpdatePlaceType(ctx, created.ID, platform.UpdatePlaceTypeInput{IsActive: platform.Ptr(false)})
	require.NoError(t, err)
	assert.False(t, updated.IsActive)

	req, _ := b.LastRequest(http.MethodPatch, "/place-types/"+created.ID)
	assert.JSONEq(t, `{"isActive":false}`, string(req.Body))

	require.NoError(t, c.DeletePlaceType(ctx, created.ID))
	_, err = c.GetPlaceType(ctx, created.ID)
	assert.True(t, platform.IsNotFound(err))
}

func TestDeletePlaceType_Conflict(t *testing.T) {
	b := testutil.NewBackend(t)
	c := newClient(t, b, b.Token())

	err := c.DeletePlaceType(context.Background(), "pt-2")
	require.Error(t, err)
	assert.Equal(t, http.StatusConflict, platform.StatusCode(err))
	assert.Equal(t, "No se puede eliminar un tipo con lugares asociados", err.Error())
}

func TestCreatePlaceType_ValidationSendsNothing(t *testing.T) {
	b := testutil.NewBackend(t)
	c := newClient(t, b, b.Token())

	_, err := c.CreatePlaceType(context.Background(), platform.CreatePlaceTypeInput{Nombre: "  "})
	var verr *platform.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "nombre", verr.Field)
	assert.Empty(t, b.Requests())
}

func TestPlaceTypeStats(t *testing.T) {
	b := testutil.NewBackend(t)
	c := newClient(t, b, b.Token())

	stats, err := c.PlaceTypeStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, stats.TotalPlaceTypes)
	assert.Equal(t, 2, stats.ActivePlaceTypes)
	assert.Equal(t, 1, stats.InactivePlaceTypes)
	require.NotNil(t, stats.MostUsedPlaceType)
}

func TestListPlaces(t *testing.T) {
	b := testutil.NewBackend(t)
	c := newClient(t, b, b.Token())

	page, err := c.ListPlaces(context.Background(), platform.PlaceQuery{Page: platform.Ptr(2), Limit: platform.Ptr(10)})
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.Equal(t, 2, page.Pagination.Page)
	assert.Equal(t, 10, page.Pagination.Limit)
	assert.Equal(t, 2, page.Pagination.Total)

	req, _ := b.LastRequest(http.MethodGet, "/places")
	assert.Equal(t, "10", req.Query.Get("limit"))
	assert.Equal(t, "2", req.Query.Get("page"))
	assert.Len(t, req.Query, 2)
}

func TestCreatePlace_MultipartFields(t *testing.T) {
	b := testutil.NewBackend(t)
	c := newClient(t, b, b.Token())

	img := &platform.Upload{Filename: "patio.png", Data: []byte("\x89PNG\r\n\x1a\n0000")}
	place, err := c.CreatePlace(context.Background(), platform.CreatePlaceInput{
		Nombre:   "Patio Central",
		Latitud:  -12.0455,
		Longitud: -77.0425,
		TipoID:   "pt-1",
		Piso:     platform.Ptr(0),
		Imagen:   platform.Ptr("https://cdn/old.png"),
	}, img)
	require.NoError(t, err)
	assert.True(t, place.IsActive)
	assert.Equal(t, "Biblioteca", place.TypeName())

	req, ok := b.LastRequest(http.MethodPost, "/places")
	require.True(t, ok)
	assert.Equal(t, map[string]string{
		"nombre":   "Patio Central",
		"latitud":  "-12.0455",
		"longitud": "-77.0425",
		"tipoId":   "pt-1",
		"piso":     "0",
		"isActive": "true",
	}, req.Form)
	assert.Equal(t, "imagen", req.FileField)
	assert.Equal(t, "patio.png", req.FileName)
}

func TestCreatePlace_ExplicitInactive(t *testing.T) {
	b := testutil.NewBackend(t)
	c := newClient(t, b, b.Token())

	place, err := c.CreatePlace(context.Background(), platform.CreatePlaceInput{
		Nombre: "Depósito", TipoID: "pt-1", IsActive: platform.Ptr(false),
	}, nil)
	require.NoError(t, err)
	assert.False(t, place.IsActive)

	req, _ := b.LastRequest(http.MethodPost, "/places")
	assert.Equal(t, "false", req.Form["isActive"])
	assert.Empty(t, req.FileField)
}

func TestCreatePlace_Validation(t *testing.T) {
	tests := []struct {
		name  string
		in    platform.CreatePlaceInput
		field string
	}{
		{name: "missing nombre", in: platform.CreatePlaceInput{TipoID: "pt-1"}, field: "nombre"},
		{name: "missing tipo", in: platform.CreatePlaceInput{Nombre: "X"}, field: "tipoId"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := testutil.NewBackend(t)
			c := newClient(t, b, b.Token())

			_, err := c.CreatePlace(context.Background(), tt.in, nil)
			var verr *platform.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
			assert.Empty(t, b.Requests())
		})
	}
}

func TestTogglePlaceStatus(t *testing.T) {
	b := testutil.NewBackend(t)
	c := newClient(t, b, b.Token())

	place, err := c.TogglePlaceStatus(context.Background(), "p-1", false)
	require.NoError(t, err)
	assert.False(t, place.IsActive)

	req, ok := b.LastRequest(http.MethodPatch, "/places/p-1")
	require.True(t, ok)
	assert.Equal(t, map[string]string{"isActive": "false"}, req.Form)
}

func TestUpdatePlace_OnlySetFields(t *testing.T) {
	b := testutil.NewBackend(t)
	c := newClient(t, b, b.Token())

	place, err := c.UpdatePlace(context.Background(), "p-2", platform.UpdatePlaceInput{
		Nombre: platform.Ptr("Lab de Redes"),
		Piso:   platform.Ptr(4),
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, "Lab de Redes", place.Nombre)
	require.NotNil(t, place.Piso)
	assert.Equal(t, 4, *place.Piso)
	assert.Equal(t, "pt-3", place.TipoID)

	req, _ := b.LastRequest(http.MethodPatch, "/places/p-2")
	assert.Equal(t, map[string]string{"nombre": "Lab de Redes", "piso": "4"}, req.Form)
}

func TestSearchPlaces_EscapesQuery(t *testing.T) {
	b := testutil.NewBackend(t)
	c := newClient(t, b, b.Token())

	places, err := c.SearchPlaces(context.Background(), "cafetería central")
	require.NoError(t, err)
	require.Len(t, places, 1)
	assert.Equal(t, "p-1", places[0].ID)

	req, _ := b.LastRequest(http.MethodGet, "/places/search")
	assert.Equal(t, "cafetería central", req.Query.Get("q"))
}

func TestPlacesByTypeAndStats(t *testing.T) {
	b := testutil.NewBackend(t)
	c := newClient(t, b, b.Token())
	ctx := context.Background()

	places, err := c.ListPlacesByType(ctx, "pt-3")
	require.NoError(t, err)
	require.Len(t, places, 1)
	assert.Equal(t, "p-2", places[0].ID)

	stats, err := c.PlaceStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Total)
	assert.Len(t, stats.ByType, 2)
	assert.Len(t, stats.ByBuilding, 2)
}

func TestDeletePlace(t *testing.T) {
	b := testutil.NewBackend(t)
	c := newClient(t, b, b.Token())

	require.NoError(t, c.DeletePlace(context.Background(), "p-1"))
	assert.Len(t, b.Places(), 1)
	assert.True(t, platform.IsNotFound(c.DeletePlace(context.Background(), "p-1")))
}

func TestUsers(t *testing.T) {
	b := testutil.NewBackend(t)
	c := newClient(t, b, b.Token())
	ctx := context.Background()

	roster, err := c.GoogleUsers(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, roster.Count)
	assert.Len(t, roster.Users, 3)

	all, err := c.AllUsers(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, all.Count)

	stats, err := c.GoogleUsersStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, platform.GoogleUsersStats{Total: 3, Active: 2, Inactive: 1}, *stats)
}

func TestUsers_CountFallsBackToLength(t *testing.T) {
	b := testutil.NewBackend(t)
	b.Fail(http.MethodGet, "/users/google", http.StatusOK, `{"success":true,"data":{"users":[{"id":"g-1"},{"id":"g-2"}]}}`)
	c := newClient(t, b, b.Token())

	roster, err := c.GoogleUsers(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, roster.Count)
}

func TestUsers_CustomEndpoints(t *testing.T) {
	b := testutil.NewBackend(t)
	c := newClient(t, b, b.Token(), platform.WithUserEndpoints(platform.UserEndpoints{All: "/users/google"}))

	_, err := c.AllUsers(context.Background())
	require.NoError(t, err)
	_, ok := b.LastRequest(http.MethodGet, "/users/google")
	assert.True(t, ok)
	assert.Equal(t, "/users/google/stats", c.UserEndpoints().GoogleStats)
}

func TestCoordinate_NumberOrString(t *testing.T) {
	b := testutil.NewBackend(t)
	b.Fail(http.MethodGet, "/places/p-x", http.StatusOK,
		`{"success":true,"data":{"id":"p-x","nombre":"X","latitud":"-12.5","longitud":-77.25,"tipoId":"pt-1","isActive":true}}`)
	c := newClient(t, b, b.Token())

	p, err := c.GetPlace(context.Background(), "p-x")
	require.NoError(t, err)
	assert.Equal(t, "-12.5", p.Latitud.String())
	assert.Equal(t, "-77.25", p.Longitud.String())
}

func TestPlaceQuery_NeverEmitsUnsetKeys(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		var q platform.PlaceQuery
		want := map[string]bool{}
		if rapid.Bool().Draw(t, "nombre") {
			q.Nombre = platform.Ptr(rapid.String().Draw(t, "nombreVal"))
			want["nombre"] = true
		}
		if rapid.Bool().Draw(t, "active") {
			q.IsActive = platform.Ptr(rapid.Bool().Draw(t, "activeVal"))
			want["isActive"] = true
		}
		if rapid.Bool().Draw(t, "piso") {
			q.Piso = platform.Ptr(rapid.IntRange(-3, 20).Draw(t, "pisoVal"))
			want["piso"] = true
		}
		if rapid.Bool().Draw(t, "page") {
			q.Page = platform.Ptr(rapid.IntRange(1, 500).Draw(t, "pageVal"))
			want["page"] = true
		}
		if rapid.Bool().Draw(t, "radius") {
			q.Radius = platform.Ptr(rapid.Float64Range(0, 5000).Draw(t, "radiusVal"))
			want["radius"] = true
		}

		v := q.Values()
		if len(v) != len(want) {
			t.Fatalf("got keys %v, want %v", v, want)
		}
		for k := range v {
			if !want[k] {
				t.Fatalf("unexpected key %q", k)
			}
		}
	})
}

func TestPlaceTypeQuery_Merge(t *testing.T) {
	base := platform.PlaceTypeQuery{Page: platform.Ptr(3), Search: platform.Ptr("bib")}
	merged := base.Merge(platform.PlaceTypeQuery{IsActive: platform.Ptr(true)}).WithPage(1)

	assert.Equal(t, url.Values{"page": {"1"}, "search": {"bib"}, "isActive": {"true"}}, merged.Values())
	assert.Equal(t, 3, *base.Page)
}
