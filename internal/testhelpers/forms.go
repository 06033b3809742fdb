package testhelpers

import (
	"bytes"
	"mime/multipart"
	"net/url"
	"sort"
	"testing"
)

// PNG is a valid 1x1 PNG image
var PNG = []byte{
	0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a,
	0x00, 0x00, 0x00, 0x0d, 0x49, 0x48, 0x44, 0x52,
	0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
	0x08, 0x06, 0x00, 0x00, 0x00, 0x1f, 0x15, 0xc4,
	0x89, 0x00, 0x00, 0x00, 0x0d, 0x49, 0x44, 0x41,
	0x54, 0x78, 0x9c, 0x63, 0x00, 0x01, 0x00, 0x00,
	0x05, 0x00, 0x01, 0x0d, 0x0a, 0x2d, 0xb4, 0x00,
	0x00, 0x00, 0x00, 0x49, 0x45, 0x4e, 0x44, 0xae,
	0x42, 0x60, 0x82,
}

// File is an upload attached to a multipart form
type File struct {
	Filename string
	Data     []byte
}

// MultipartBody encodes values and files as a multipart/form-data body and
// returns it with its content type
func MultipartBody(t testing.TB, values url.Values, files map[string]File) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		for _, v := range values[k] {
			if err := w.WriteField(k, v); err != nil {
				t.Fatalf("failed to write field %s: %v", k, err)
			}
		}
	}
	for field, f := range files {
		part, err := w.CreateFormFile(field, f.Filename)
		if err != nil {
			t.Fatalf("failed to create file part %s: %v", field, err)
		}
		if _, err := part.Write(f.Data); err != nil {
			t.Fatalf("failed to write file part %s: %v", field, err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("failed to close multipart writer: %v", err)
	}
	return &buf, w.FormDataContentType()
}

// MultipartForm round-trips values and files through the multipart encoding,
// giving the same *multipart.Form a request handler would see
func MultipartForm(t testing.TB, values url.Values, files map[string]File) *multipart.Form {
	t.Helper()

	body, contentType := MultipartBody(t, values, files)
	boundary := contentType[len("multipart/form-data; boundary="):]
	form, err := multipart.NewReader(body, boundary).ReadForm(32 << 20)
	if err != nil {
		t.Fatalf("failed to read multipart form: %v", err)
	}
	t.Cleanup(func() { _ = form.RemoveAll() })
	return form
}
