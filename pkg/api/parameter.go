package api

import (
	"os"
	"path/filepath"
	"sync"
)

// MimeTypes maps the file extensions accepted by the upload API to their
// content types.
var MimeTypes = map[string]string{
	".jpg": "image/jpeg",
	".png": "image/png",
	".gif": "image/gif",
}

// Parameter is one part of a multipart/form-data body. ToForm renders the
// part headers, a blank line and the part payload, each line terminated by
// CRLF. Boundary framing is left to EncodeMultipart.
type Parameter interface {
	FormName() string
	ToForm() ([]byte, error)
}

// Source is where a file parameter's payload comes from: a FilePath read
// from disk, or InlineBytes already held in memory.
type Source interface {
	// Filename is the name sent in the Content-Disposition header.
	Filename() string
	isSource()
}

// FilePath is a Source read from the filesystem on first use.
type FilePath string

// Filename returns the path as given.
func (p FilePath) Filename() string { return string(p) }
func (FilePath) isSource()          {}

// InlineBytes is a Source whose payload is already loaded.
type InlineBytes struct {
	Name string
	Data []byte
}

// Filename returns the name the payload is uploaded under.
func (b InlineBytes) Filename() string { return b.Name }
func (InlineBytes) isSource()          {}

// ValueParameter is a plain form field.
type ValueParameter struct {
	Name  string
	Value string
}

// FormName returns the form field name.
func (p ValueParameter) FormName() string { return p.Name }

// ToForm renders the field as a multipart part.
func (p ValueParameter) ToForm() ([]byte, error) {
	return []byte("Content-Disposition: form-data; name=\"" + p.Name + "\"\r\n" +
		"\r\n" +
		p.Value + "\r\n"), nil
}

// FileParameter is a file form field. Its payload is materialized at most
// once; a successful read is kept for the lifetime of the parameter.
//
// Use NewFileParameter to build one. The zero value has no source; its
// Value and ToForm return ErrNoSource.
type FileParameter struct {
	name   string
	source Source

	// readFile is swapped in tests to observe filesystem access.
	readFile func(string) ([]byte, error)

	mu     sync.Mutex
	value  []byte
	loaded bool
}

// NewFileParameter creates a file parameter for the given form field.
func NewFileParameter(name string, source Source) *FileParameter {
	return &FileParameter{name: name, source: source, readFile: os.ReadFile}
}

// FormName returns the form field name.
func (p *FileParameter) FormName() string { return p.name }

// Filename returns the name of the underlying source, or "" when there is
// none.
func (p *FileParameter) Filename() string {
	if p.source == nil {
		return ""
	}
	return p.source.Filename()
}

// MimeType returns the content type for the source's extension, or "" when
// the extension is not one the upload API accepts.
func (p *FileParameter) MimeType() string {
	return MimeTypes[filepath.Ext(p.Filename())]
}

// Value returns the raw payload. Inline sources are returned as is; file
// paths are read from disk. Read failures are returned as *SourceError and
// are not remembered, so a later call reads again.
func (p *FileParameter) Value() ([]byte, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.loaded {
		return p.value, nil
	}

	var data []byte
	switch src := p.source.(type) {
	case nil:
		return nil, ErrNoSource
	case InlineBytes:
		data = src.Data
	case FilePath:
		read := p.readFile
		if read == nil {
			read = os.ReadFile
		}
		b, err := read(string(src))
		if err != nil {
			return nil, &SourceError{Filename: string(src), Err: err}
		}
		data = b
	}

	p.value, p.loaded = data, true
	return p.value, nil
}

// ToForm renders the file as a multipart part:
//
//	Content-Disposition: form-data; name="<name>"; filename="<filename>"
//	Content-Type: <mime-type>
//
//	<raw bytes>
func (p *FileParameter) ToForm() ([]byte, error) {
	value, err := p.Value()
	if err != nil {
		return nil, err
	}
	head := "Content-Disposition: form-data; name=\"" + p.name + "\"; filename=\"" + p.Filename() + "\"\r\n" +
		"Content-Type: " + p.MimeType() + "\r\n" +
		"\r\n"
	out := make([]byte, 0, len(head)+len(value)+2)
	out = append(out, head...)
	out = append(out, value...)
	out = append(out, "\r\n"...)
	return out, nil
}
