package contract_test

import (
	"bytes"
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tecsupnav/placesadmin/internal/contract"
	"github.com/tecsupnav/placesadmin/internal/platform"
	"github.com/tecsupnav/placesadmin/internal/testutil"
)

func TestNew_EmbeddedDocumentIsValid(t *testing.T) {
	v, err := contract.New("https://backend.example.com")
	require.NoError(t, err)

	endpoints := v.Endpoints()
	assert.Equal(t, []string{"GET", "POST"}, endpoints["/places"])
	assert.Equal(t, []string{"DELETE", "GET", "PATCH"}, endpoints["/place-types/{id}"])
	assert.Contains(t, endpoints, "/users/google/stats")
}

func TestLoad_RejectsGarbage(t *testing.T) {
	_, err := contract.Load([]byte("not: [valid"), "http://localhost")
	assert.Error(t, err)
}

// Every service call must satisfy the document.
func TestServices_MatchContract(t *testing.T) {
	b := testutil.NewBackend(t)
	v, err := contract.New(b.URL)
	require.NoError(t, err)

	c := platform.NewClient(b.URL,
		platform.WithValidator(v),
		platform.WithTokenSource(platform.TokenFunc(b.Token)),
	)
	ctx := context.Background()

	_, err = c.Login(ctx, platform.Credentials{Email: testutil.AdminEmail, Password: testutil.AdminPassword})
	require.NoError(t, err)
	_, err = c.Profile(ctx)
	require.NoError(t, err)

	_, err = c.ListPlaceTypes(ctx, platform.PlaceTypeQuery{
		Page: platform.Ptr(1), Limit: platform.Ptr(20), Search: platform.Ptr("bib"),
		IsActive: platform.Ptr(true), SortBy: platform.Ptr("name"), SortOrder: platform.Ptr("asc"),
	})
	require.NoError(t, err)
	pt, err := c.CreatePlaceType(ctx, platform.CreatePlaceTypeInput{Nombre: "Auditorio", Icono: platform.Ptr("mic")})
	require.NoError(t, err)
	_, err = c.PlaceTypeStats(ctx)
	require.NoError(t, err)
	_, err = c.GetPlaceType(ctx, pt.ID)
	require.NoError(t, err)
	_, err = c.UpdatePlaceType(ctx, pt.ID, platform.UpdatePlaceTypeInput{Nombre: platform.Ptr("Auditorio Principal")})
	require.NoError(t, err)

	_, err = c.ListPlaces(ctx, platform.PlaceQuery{
		TipoID: platform.Ptr(pt.ID), Piso: platform.Ptr(2), IsActive: platform.Ptr(true),
		NearLat: platform.Ptr(-12.04), NearLng: platform.Ptr(-77.04), Radius: platform.Ptr(250.0),
		Page: platform.Ptr(1), Limit: platform.Ptr(10),
	})
	require.NoError(t, err)
	place, err := c.CreatePlace(ctx, platform.CreatePlaceInput{
		Nombre: "Auditorio A", Latitud: -12.0464, Longitud: -77.0428, TipoID: pt.ID,
		Piso: platform.Ptr(1), Edificio: platform.Ptr("Pabellón B"),
	}, &platform.Upload{Filename: "a.png", Data: []byte("\x89PNG\r\n\x1a\n")})
	require.NoError(t, err)
	_, err = c.SearchPlaces(ctx, "audi")
	require.NoError(t, err)
	_, err = c.PlaceStats(ctx)
	require.NoError(t, err)
	_, err = c.ListPlacesByType(ctx, pt.ID)
	require.NoError(t, err)
	_, err = c.GetPlace(ctx, place.ID)
	require.NoError(t, err)
	_, err = c.UpdatePlace(ctx, place.ID, platform.UpdatePlaceInput{Latitud: platform.Ptr(-12.05)}, nil)
	require.NoError(t, err)
	_, err = c.TogglePlaceStatus(ctx, place.ID, false)
	require.NoError(t, err)
	require.NoError(t, c.DeletePlace(ctx, place.ID))
	require.NoError(t, c.DeletePlaceType(ctx, pt.ID))

	_, err = c.GoogleUsers(ctx)
	require.NoError(t, err)
	_, err = c.AllUsers(ctx)
	require.NoError(t, err)
	_, err = c.GoogleUsersStats(ctx)
	require.NoError(t, err)

	require.NoError(t, c.Logout(ctx))
}

func TestValidateRequest_Rejections(t *testing.T) {
	v, err := contract.New("http://localhost:3000/api")
	require.NoError(t, err)

	tests := []struct {
		name   string
		method string
		url    string
		body   string
	}{
		{name: "unknown path", method: http.MethodGet, url: "http://localhost:3000/api/buildings"},
		{name: "limit above maximum", method: http.MethodGet, url: "http://localhost:3000/api/places?limit=500"},
		{name: "page not a number", method: http.MethodGet, url: "http://localhost:3000/api/place-types?page=two"},
		{name: "unknown sort", method: http.MethodGet, url: "http://localhost:3000/api/place-types?sortBy=color"},
		{name: "search without q", method: http.MethodGet, url: "http://localhost:3000/api/places/search"},
		{name: "empty nombre", method: http.MethodPost, url: "http://localhost:3000/api/place-types", body: `{"nombre":""}`},
		{name: "method not allowed", method: http.MethodPut, url: "http://localhost:3000/api/places/p-1", body: `{}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := http.NewRequest(tt.method, tt.url, bytes.NewReader([]byte(tt.body)))
			require.NoError(t, err)
			if tt.body != "" {
				req.Header.Set("Content-Type", "application/json")
			}
			assert.Error(t, v.ValidateRequest(context.Background(), req, []byte(tt.body)))
		})
	}
}

func TestValidateRequest_MultipartForm(t *testing.T) {
	v, err := contract.New("http://localhost:3000/api")
	require.NoError(t, err)

	send := func(m *platform.Multipart) error {
		body, ct, err := m.Encode()
		require.NoError(t, err)
		req, err := http.NewRequest(http.MethodPost, "http://localhost:3000/api/places", bytes.NewReader(body))
		require.NoError(t, err)
		req.Header.Set("Content-Type", ct)
		return v.ValidateRequest(context.Background(), req, body)
	}

	ok := platform.NewMultipart()
	ok.Add("nombre", "Patio")
	ok.Add("latitud", "-12.0464")
	ok.Add("longitud", "-77.0428")
	ok.Add("tipoId", "pt-1")
	ok.Add("isActive", "true")
	assert.NoError(t, send(ok))

	outOfRange := platform.NewMultipart()
	outOfRange.Add("nombre", "Patio")
	outOfRange.Add("latitud", "120")
	outOfRange.Add("longitud", "-77.0428")
	outOfRange.Add("tipoId", "pt-1")
	assert.Error(t, send(outOfRange))

	missingType := platform.NewMultipart()
	missingType.Add("nombre", "Patio")
	missingType.Add("latitud", "-12")
	missingType.Add("longitud", "-77")
	assert.Error(t, send(missingType))

	unknown := platform.NewMultipart()
	unknown.Add("nombre", "Patio")
	unknown.Add("latitud", "-12")
	unknown.Add("longitud", "-77")
	unknown.Add("tipoId", "pt-1")
	unknown.Add("color", "red")
	assert.Error(t, send(unknown))
}

func TestDocument_ReturnsCopy(t *testing.T) {
	d := contract.Document()
	require.NotEmpty(t, d)
	d[0] = 'X'
	assert.NotEqual(t, byte('X'), contract.Document()[0])
}
