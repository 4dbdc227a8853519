package platform

import (
	"net/url"
	"strconv"
)

// withQuery appends the encoded values to endpoint. url.Values.Encode
// sorts by key, so the same filters always produce the same URL.
func withQuery(endpoint string, v url.Values) string {
	if len(v) == 0 {
		return endpoint
	}
	return endpoint + "?" + v.Encode()
}

func setString(v url.Values, key string, p *string) {
	if p != nil {
		v.Set(key, *p)
	}
}

func setInt(v url.Values, key string, p *int) {
	if p != nil {
		v.Set(key, strconv.Itoa(*p))
	}
}

func setBool(v url.Values, key string, p *bool) {
	if p != nil {
		v.Set(key, strconv.FormatBool(*p))
	}
}

func setFloat(v url.Values, key string, p *float64) {
	if p != nil {
		v.Set(key, formatFloat(*p))
	}
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
