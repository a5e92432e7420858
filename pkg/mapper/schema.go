package mapper

import (
	"context"
	"fmt"
	"strings"

	"github.com/fleakr/fleakr-go/pkg/response"
)

// Attribute declares one field of a domain object and where it is read
// from in a response fragment.
type Attribute struct {
	Name string
	// From is the path evaluated against the fragment. When empty the
	// attribute is read from a child element named Name, falling back to an
	// XML attribute of that name.
	From string
	// Loader names the lazy loader that fetches this attribute on first
	// read when population left it unset. Empty for eager attributes.
	Loader string
}

// Association declares a one-to-many relation to objects of Schema.
//
// Inline associations (Path set) are resolved from the owner's own
// fragment. Remote associations (Finder set) are resolved by calling the
// named finder of Schema with the owner's id.
type Association struct {
	Name   string
	Schema *Schema
	Path   string
	Finder string
}

// Cardinality is the number of objects a finder yields.
type Cardinality int

const (
	// One finders yield exactly one object or fail.
	One Cardinality = iota
	// Many finders yield an ordered, possibly empty, sequence.
	Many
)

func (c Cardinality) String() string {
	if c == Many {
		return "many"
	}
	return "one"
}

// Finder binds a symbolic name to a remote method call.
type Finder struct {
	Name   string
	Method string
	// Path locates the result node(s) below the response root.
	Path string
	// Using is the request parameter that carries the finder key.
	Using       string
	Cardinality Cardinality
}

// LoaderFunc populates o from a secondary remote call.
type LoaderFunc func(ctx context.Context, o *Object) error

// Schema is the immutable descriptor table of one domain type. Build it
// once with NewSchema, typically in a package-level variable.
type Schema struct {
	kind         string
	attributes   []Attribute
	attrIndex    map[string]int
	associations map[string]Association
	assocOrder   []string
	finders      map[string]Finder
	loaders      map[string]LoaderFunc
	lazy         []Attribute
}

// Option declares part of a schema.
type Option func(*Schema)

// NewSchema builds the descriptor table for kind. It panics on conflicting
// or dangling declarations, since schemas are fixed at program start.
func NewSchema(kind string, opts ...Option) *Schema {
	s := &Schema{
		kind:         kind,
		attrIndex:    make(map[string]int),
		associations: make(map[string]Association),
		finders:      make(map[string]Finder),
		loaders:      make(map[string]LoaderFunc),
	}
	for _, opt := range opts {
		opt(s)
	}
	for _, l := range s.lazy {
		i, ok := s.attrIndex[l.Name]
		if !ok {
			s.addAttribute(Attribute{Name: l.Name})
			i = s.attrIndex[l.Name]
		}
		s.attributes[i].Loader = l.Loader
	}
	s.lazy = nil
	for _, a := range s.attributes {
		if a.Loader != "" && s.loaders[a.Loader] == nil {
			panic(fmt.Sprintf("mapper: %s.%s: unknown loader %q", kind, a.Name, a.Loader))
		}
		if err := response.ValidPath(a.From); err != nil {
			panic(fmt.Sprintf("mapper: %s.%s: %v", kind, a.Name, err))
		}
	}
	for name, f := range s.finders {
		if err := response.ValidPath(f.Path); err != nil {
			panic(fmt.Sprintf("mapper: %s finder %s: %v", kind, name, err))
		}
	}
	for _, name := range s.assocOrder {
		a := s.associations[name]
		if a.Schema == nil {
			panic(fmt.Sprintf("mapper: %s.%s: association without schema", kind, name))
		}
		if (a.Path == "") == (a.Finder == "") {
			panic(fmt.Sprintf("mapper: %s.%s: association needs exactly one of Path or Finder", kind, name))
		}
		if err := response.ValidPath(a.Path); err != nil {
			panic(fmt.Sprintf("mapper: %s.%s: %v", kind, name, err))
		}
		if a.Finder != "" {
			if _, ok := a.Schema.finders[a.Finder]; !ok {
				panic(fmt.Sprintf("mapper: %s.%s: %s has no finder %q", kind, name, a.Schema.kind, a.Finder))
			}
		}
	}
	return s
}

// Attributes declares eager attributes read from their default path.
func Attributes(names ...string) Option {
	return func(s *Schema) {
		for _, n := range names {
			s.addAttribute(Attribute{Name: n})
		}
	}
}

// AttributeFrom declares an eager attribute read from an explicit path,
// e.g. AttributeFrom("user_id", "@owner").
func AttributeFrom(name, path string) Option {
	return func(s *Schema) {
		s.addAttribute(Attribute{Name: name, From: path})
	}
}

// HasMany declares an association.
func HasMany(a Association) Option {
	return func(s *Schema) {
		if _, dup := s.associations[a.Name]; dup {
			panic(fmt.Sprintf("mapper: %s: duplicate association %q", s.kind, a.Name))
		}
		s.associations[a.Name] = a
		s.assocOrder = append(s.assocOrder, a.Name)
	}
}

// FindsOne declares a single-object finder whose key is sent as using.
func FindsOne(name, using, method, path string) Option {
	return func(s *Schema) {
		s.addFinder(Finder{Name: name, Method: method, Path: path, Using: using, Cardinality: One})
	}
}

// FindsAll declares a collection finder. The key parameter is derived from
// the finder name ("by_user_id" sends "user_id") unless by is given.
func FindsAll(name, by, method, path string) Option {
	return func(s *Schema) {
		s.addFinder(Finder{Name: name, Method: method, Path: path, Using: by, Cardinality: Many})
	}
}

// LazilyLoad registers loader under name and marks attrs as loaded by it.
// Attributes not declared elsewhere in the schema are declared with their
// default path.
func LazilyLoad(name string, loader LoaderFunc, attrs ...string) Option {
	return func(s *Schema) {
		if _, dup := s.loaders[name]; dup {
			panic(fmt.Sprintf("mapper: %s: duplicate loader %q", s.kind, name))
		}
		s.loaders[name] = loader
		for _, attr := range attrs {
			s.lazy = append(s.lazy, Attribute{Name: attr, Loader: name})
		}
	}
}

func (s *Schema) addAttribute(a Attribute) {
	if _, dup := s.attrIndex[a.Name]; dup {
		panic(fmt.Sprintf("mapper: %s: duplicate attribute %q", s.kind, a.Name))
	}
	s.attrIndex[a.Name] = len(s.attributes)
	s.attributes = append(s.attributes, a)
}

func (s *Schema) addFinder(f Finder) {
	if f.Using == "" {
		f.Using = strings.TrimPrefix(f.Name, "by_")
	}
	if _, dup := s.finders[f.Name]; dup {
		panic(fmt.Sprintf("mapper: %s: duplicate finder %q", s.kind, f.Name))
	}
	s.finders[f.Name] = f
}

// Kind returns the domain type name.
func (s *Schema) Kind() string { return s.kind }

// Attributes returns the declared attributes in declaration order.
func (s *Schema) Attributes() []Attribute {
	return append([]Attribute(nil), s.attributes...)
}

// Attribute looks up an attribute declaration.
func (s *Schema) Attribute(name string) (Attribute, bool) {
	i, ok := s.attrIndex[name]
	if !ok {
		return Attribute{}, false
	}
	return s.attributes[i], true
}

// Association looks up an association declaration.
func (s *Schema) Association(name string) (Association, bool) {
	a, ok := s.associations[name]
	return a, ok
}

// Finder looks up a finder declaration.
func (s *Schema) Finder(name string) (Finder, bool) {
	f, ok := s.finders[name]
	return f, ok
}
