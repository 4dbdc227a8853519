// Package contract checks outgoing backend requests against the backend's
// published OpenAPI document.
package contract

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers"
	"github.com/getkin/kin-openapi/routers/gorillamux"
)

//go:embed openapi.yaml
var document []byte

// Document returns the embedded OpenAPI document.
func Document() []byte {
	return append([]byte(nil), document...)
}

// Validator validates requests against an OpenAPI document. It implements
// platform.RequestValidator.
type Validator struct {
	doc      *openapi3.T
	router   routers.Router
	basePath string
}

// New returns a Validator over the embedded document for requests sent to
// baseURL.
func New(baseURL string) (*Validator, error) {
	return Load(document, baseURL)
}

// Load returns a Validator over an OpenAPI document.
func Load(data []byte, baseURL string) (*Validator, error) {
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(data)
	if err != nil {
		return nil, fmt.Errorf("failed to load OpenAPI document: %w", err)
	}
	if err := doc.Validate(loader.Context); err != nil {
		return nil, fmt.Errorf("invalid OpenAPI document: %w", err)
	}

	// Requests are matched on the path below the base URL, whatever the host.
	doc.Servers = nil
	router, err := gorillamux.NewRouter(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to build router: %w", err)
	}

	basePath := ""
	if u, err := url.Parse(baseURL); err == nil {
		basePath = strings.TrimRight(u.Path, "/")
	}

	return &Validator{doc: doc, router: router, basePath: basePath}, nil
}

// ValidateRequest checks the route, parameters and body of req. body is the
// already-encoded payload; req.Body is not consumed.
func (v *Validator) ValidateRequest(ctx context.Context, req *http.Request, body []byte) error {
	probe := req.Clone(ctx)
	probe.URL.Path = strings.TrimPrefix(probe.URL.Path, v.basePath)
	probe.URL.RawPath = ""
	probe.Host = ""
	probe.Body = io.NopCloser(bytes.NewReader(body))

	route, params, err := v.router.FindRoute(probe)
	if err != nil {
		return fmt.Errorf("%s %s: %w", req.Method, probe.URL.Path, err)
	}

	mediaType, mediaParams, _ := mime.ParseMediaType(req.Header.Get("Content-Type"))
	isMultipart := mediaType == "multipart/form-data"

	input := &openapi3filter.RequestValidationInput{
		Request:    probe,
		PathParams: params,
		Route:      route,
		Options: &openapi3filter.Options{
			AuthenticationFunc: openapi3filter.NoopAuthenticationFunc,
			ExcludeRequestBody: isMultipart,
		},
	}
	if err := openapi3filter.ValidateRequest(ctx, input); err != nil {
		return err
	}

	if isMultipart {
		return validateForm(route.Operation, body, mediaParams["boundary"])
	}
	return nil
}

// validateForm checks multipart fields against the operation's form schema.
// Fields are typed by the schema before validation; file parts count as
// strings.
func validateForm(op *openapi3.Operation, body []byte, boundary string) error {
	if op.RequestBody == nil || op.RequestBody.Value == nil {
		return errors.New("operation does not accept a request body")
	}
	media := op.RequestBody.Value.GetMediaType("multipart/form-data")
	if media == nil || media.Schema == nil || media.Schema.Value == nil {
		return errors.New("operation does not accept multipart/form-data")
	}
	schema := media.Schema.Value

	values := map[string]any{}
	r := multipart.NewReader(bytes.NewReader(body), boundary)
	for {
		part, err := r.NextPart()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("malformed multipart body: %w", err)
		}
		name := part.FormName()
		raw, err := io.ReadAll(part)
		if err != nil {
			return fmt.Errorf("malformed multipart body: %w", err)
		}

		prop, ok := schema.Properties[name]
		if !ok || prop.Value == nil {
			return fmt.Errorf("unexpected form field %q", name)
		}
		if part.FileName() != "" {
			values[name] = part.FileName()
			continue
		}
		val, err := typed(prop.Value, string(raw))
		if err != nil {
			return fmt.Errorf("form field %q: %w", name, err)
		}
		values[name] = val
	}

	if err := schema.VisitJSON(values); err != nil {
		return fmt.Errorf("form does not match schema: %w", err)
	}
	return nil
}

func typed(s *openapi3.Schema, raw string) (any, error) {
	switch {
	case s.Type.Is(openapi3.TypeNumber), s.Type.Is(openapi3.TypeInteger):
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("%q is not a number", raw)
		}
		return f, nil
	case s.Type.Is(openapi3.TypeBoolean):
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("%q is not a boolean", raw)
		}
		return b, nil
	default:
		return raw, nil
	}
}

// Endpoints returns every path of the document with its methods.
func (v *Validator) Endpoints() map[string][]string {
	summary := make(map[string][]string)
	if v.doc.Paths == nil {
		return summary
	}
	for path, item := range v.doc.Paths.Map() {
		var methods []string
		for method := range item.Operations() {
			methods = append(methods, method)
		}
		sort.Strings(methods)
		if len(methods) > 0 {
			summary[path] = methods
		}
	}
	return summary
}
