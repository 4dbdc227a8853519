package tui

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tecsupnav/placesadmin/internal/platform"
)

func TestValidators(t *testing.T) {
	lat := validateCoordinate(-90, 90)
	tests := []struct {
		name    string
		check   func(string) error
		input   string
		wantErr bool
	}{
		{"color empty", validateColor, "", false},
		{"color hex", validateColor, "#1E88e5", false},
		{"color name", validateColor, "blue", true},
		{"color short", validateColor, "#fff", true},
		{"latitude", lat, "-12.0464", false},
		{"latitude padded", lat, " 10 ", false},
		{"latitude out of range", lat, "91", true},
		{"latitude text", lat, "norte", true},
		{"floor empty", validateFloor, "", false},
		{"floor basement", validateFloor, "-1", false},
		{"floor decimal", validateFloor, "1.5", true},
		{"image empty", validateImagePath, "", false},
		{"image missing", validateImagePath, "/does/not/exist.png", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.check(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateImagePath_Directory(t *testing.T) {
	dir := t.TempDir()
	assert.Error(t, validateImagePath(dir))

	file := filepath.Join(dir, "foto.png")
	require.NoError(t, os.WriteFile(file, []byte("png"), 0o600))
	assert.NoError(t, validateImagePath(file))
}

func TestChanged(t *testing.T) {
	tests := []struct {
		name  string
		old   *string
		input string
		want  *string
	}{
		{"unset stays unset", nil, "  ", nil},
		{"same value", platform.Ptr("Pabellón A"), "Pabellón A ", nil},
		{"new value", platform.Ptr("Pabellón A"), "Pabellón B", platform.Ptr("Pabellón B")},
		{"cleared", platform.Ptr("Pabellón A"), "", platform.Ptr("")},
		{"set from nothing", nil, "QR-1", platform.Ptr("QR-1")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, changed(tt.old, tt.input))
		})
	}
}

func TestParsePlaceValues(t *testing.T) {
	lat, lng, piso, err := parsePlaceValues(placeValues{Latitud: "-12.5", Longitud: " -77 ", Piso: "0"})
	require.NoError(t, err)
	assert.Equal(t, -12.5, lat)
	assert.Equal(t, -77.0, lng)
	require.NotNil(t, piso)
	assert.Equal(t, 0, *piso)

	_, _, piso, err = parsePlaceValues(placeValues{Latitud: "1", Longitud: "2"})
	require.NoError(t, err)
	assert.Nil(t, piso)

	_, _, _, err = parsePlaceValues(placeValues{Latitud: "1", Longitud: "este"})
	assert.ErrorContains(t, err, "longitud inválida")
}

func TestLoadImage(t *testing.T) {
	up, err := loadImage(" ")
	require.NoError(t, err)
	assert.Nil(t, up)

	path := filepath.Join(t.TempDir(), "mapa.jpg")
	require.NoError(t, os.WriteFile(path, []byte{0xff, 0xd8, 0xff}, 0o600))
	up, err = loadImage(path)
	require.NoError(t, err)
	assert.Equal(t, "mapa.jpg", up.Filename)
}
