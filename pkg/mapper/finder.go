package mapper

import (
	"context"
	"fmt"

	"github.com/fleakr/fleakr-go/pkg/api"
)

// FindOne calls the named single-object finder of schema with key and
// builds the one matching object. It fails with api.ErrNotFound when the
// response holds no node at the finder path and api.ErrAmbiguous when it
// holds several.
func FindOne(ctx context.Context, caller api.Caller, schema *Schema, finder, key string, opts api.Options) (*Object, error) {
	f, err := lookup(schema, finder, One)
	if err != nil {
		return nil, err
	}
	resp, err := find(ctx, caller, f, key, opts)
	if err != nil {
		return nil, err
	}

	nodes := resp.Body.FindAll(f.Path)
	switch len(nodes) {
	case 0:
		return nil, fmt.Errorf("%s %s=%q: %w", schema.kind, f.Using, key, api.ErrNotFound)
	case 1:
	default:
		return nil, fmt.Errorf("%s %s=%q: %d results: %w", schema.kind, f.Using, key, len(nodes), api.ErrAmbiguous)
	}
	o := Build(schema, caller, nodes[0])
	o.auth = api.AuthSubset(opts)
	return o, nil
}

// FindAll calls the named collection finder of schema with key and builds
// one object per matching node, in document order. An empty key omits the
// key parameter. No match yields an empty slice and no error.
func FindAll(ctx context.Context, caller api.Caller, schema *Schema, finder, key string, opts api.Options) ([]*Object, error) {
	f, err := lookup(schema, finder, Many)
	if err != nil {
		return nil, err
	}
	resp, err := find(ctx, caller, f, key, opts)
	if err != nil {
		return nil, err
	}

	nodes := resp.Body.FindAll(f.Path)
	auth := api.AuthSubset(opts)
	out := make([]*Object, 0, len(nodes))
	for _, n := range nodes {
		o := Build(schema, caller, n)
		o.auth = auth
		out = append(out, o)
	}
	return out, nil
}

// Related resolves the named association of o. Inline associations return
// what population stored; remote ones call the association's finder with
// o's id.
func Related(ctx context.Context, o *Object, name string, opts api.Options) ([]*Object, error) {
	a, ok := o.schema.Association(name)
	if !ok {
		return nil, fmt.Errorf("%s has no association %q", o.schema.kind, name)
	}
	if a.Finder == "" {
		return o.Associated(name), nil
	}
	if o.caller == nil {
		return nil, ErrNoCaller
	}
	return FindAll(ctx, o.caller, a.Schema, a.Finder, o.ID(), api.Merge(o.auth, opts))
}

// StandardLoader returns a loader that calls method strictly with the
// object's id sent as using and repopulates the object from the node at
// path.
func StandardLoader(method, using, path string) LoaderFunc {
	return func(ctx context.Context, o *Object) error {
		if o.caller == nil {
			return ErrNoCaller
		}
		resp, err := o.caller.CallStrict(ctx, method, api.Merge(o.AuthOptions(), api.Options{using: o.ID()}))
		if err != nil {
			return err
		}
		node := resp.Body.Find(path)
		if node == nil {
			return fmt.Errorf("%s: no %s in response: %w", method, path, api.ErrNotFound)
		}
		Populate(o, node)
		return nil
	}
}

func lookup(schema *Schema, name string, want Cardinality) (Finder, error) {
	f, ok := schema.finders[name]
	if !ok {
		return Finder{}, fmt.Errorf("%s has no finder %q", schema.kind, name)
	}
	if f.Cardinality != want {
		return Finder{}, fmt.Errorf("%s finder %q yields %s, not %s", schema.kind, name, f.Cardinality, want)
	}
	return f, nil
}

func find(ctx context.Context, caller api.Caller, f Finder, key string, opts api.Options) (*api.Response, error) {
	if caller == nil {
		return nil, ErrNoCaller
	}
	params := api.Merge(caller.AuthOptions(), opts)
	if key != "" || f.Cardinality == One {
		params[f.Using] = key
	}
	resp, err := caller.Call(ctx, f.Method, params)
	if err != nil {
		return nil, err
	}
	if err := resp.Err(); err != nil {
		return nil, err
	}
	return resp, nil
}
