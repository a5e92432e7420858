package api

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/google/uuid"
)

// NewBoundary returns a fresh multipart boundary.
func NewBoundary() string {
	return "fleakr-" + uuid.NewString()
}

// ContentType returns the request Content-Type for a multipart body framed
// with boundary.
func ContentType(boundary string) string {
	return "multipart/form-data; boundary=" + boundary
}

// EncodeMultipart frames each parameter's form representation with the
// boundary and closes the body.
func EncodeMultipart(boundary string, params ...Parameter) ([]byte, error) {
	var buf bytes.Buffer
	for _, p := range params {
		part, err := p.ToForm()
		if err != nil {
			return nil, fmt.Errorf("encoding parameter %q: %w", p.FormName(), err)
		}
		buf.WriteString("--" + boundary + "\r\n")
		buf.Write(part)
	}
	buf.WriteString("--" + boundary + "--\r\n")
	return buf.Bytes(), nil
}

// UploadParameters builds the parameter list for a photo upload: the value
// options in key order followed by the "photo" file part.
func UploadParameters(source Source, opts Options) ([]Parameter, error) {
	canonical, err := opts.Canonical()
	if err != nil {
		return nil, err
	}
	params := make([]Parameter, 0, len(canonical)+1)
	for _, k := range sortedKeys(canonical) {
		params = append(params, ValueParameter{Name: k, Value: canonical[k]})
	}
	return append(params, NewFileParameter("photo", source)), nil
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
