package platform

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"
	"path/filepath"
	"strconv"
)

// EncodedBody is a request body that carries its own encoding. The client
// sends it unmodified with the content type it reports; JSON is never
// applied to it.
type EncodedBody interface {
	Encode() (body []byte, contentType string, err error)
}

// Upload is a file attached to a multipart request.
type Upload struct {
	Filename string
	Data     []byte
}

// LoadUpload reads a file from disk for upload.
func LoadUpload(path string) (*Upload, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read upload %s: %w", path, err)
	}
	return &Upload{Filename: filepath.Base(path), Data: data}, nil
}

// ContentType sniffs the upload's media type.
func (u *Upload) ContentType() string {
	return http.DetectContentType(u.Data)
}

type formField struct {
	name  string
	value string
}

// Multipart is a multipart/form-data payload. Fields keep insertion order.
type Multipart struct {
	fields   []formField
	file     *Upload
	fileName string
}

// NewMultipart returns an empty payload.
func NewMultipart() *Multipart {
	return &Multipart{}
}

// Add appends a field.
func (m *Multipart) Add(name, value string) {
	m.fields = append(m.fields, formField{name: name, value: value})
}

// AddString appends the field when p is non-nil.
func (m *Multipart) AddString(name string, p *string) {
	if p != nil {
		m.Add(name, *p)
	}
}

// AddFloat appends the field when p is non-nil, formatted without
// trailing zeros.
func (m *Multipart) AddFloat(name string, p *float64) {
	if p != nil {
		m.Add(name, formatFloat(*p))
	}
}

// AddInt appends the field when p is non-nil.
func (m *Multipart) AddInt(name string, p *int) {
	if p != nil {
		m.Add(name, strconv.Itoa(*p))
	}
}

// AddBool appends "true" or "false" when p is non-nil.
func (m *Multipart) AddBool(name string, p *bool) {
	if p != nil {
		m.Add(name, strconv.FormatBool(*p))
	}
}

// Attach adds a file part. A nil upload is ignored. An attached file
// replaces any plain field with the same name.
func (m *Multipart) Attach(name string, u *Upload) {
	if u == nil {
		return
	}
	kept := m.fields[:0]
	for _, f := range m.fields {
		if f.name != name {
			kept = append(kept, f)
		}
	}
	m.fields = kept
	m.file = u
	m.fileName = name
}

// Fields returns the plain fields as a map, for logging and tests.
func (m *Multipart) Fields() map[string]string {
	out := make(map[string]string, len(m.fields))
	for _, f := range m.fields {
		out[f.name] = f.value
	}
	return out
}

// HasFile reports whether a file part is attached.
func (m *Multipart) HasFile() bool {
	return m.file != nil
}

// Encode renders the form. The content type carries the boundary.
func (m *Multipart) Encode() ([]byte, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for _, f := range m.fields {
		if err := w.WriteField(f.name, f.value); err != nil {
			return nil, "", fmt.Errorf("failed to write field %s: %w", f.name, err)
		}
	}

	if m.file != nil {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, m.fileName, m.file.Filename))
		h.Set("Content-Type", m.file.ContentType())
		part, err := w.CreatePart(h)
		if err != nil {
			return nil, "", fmt.Errorf("failed to create file part: %w", err)
		}
		if _, err := part.Write(m.file.Data); err != nil {
			return nil, "", fmt.Errorf("failed to write file part: %w", err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to close multipart writer: %w", err)
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}
