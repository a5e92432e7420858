package mapper

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"

	"github.com/fleakr/fleakr-go/pkg/api"
	"github.com/goccy/go-json"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// LoadState tracks a lazy loader of one object.
type LoadState int

const (
	Unloaded LoadState = iota
	Loading
	Loaded
)

func (s LoadState) String() string {
	switch s {
	case Loading:
		return "loading"
	case Loaded:
		return "loaded"
	default:
		return "unloaded"
	}
}

// ErrNoCaller is returned when an object that was built without a caller
// needs to reach the remote service.
var ErrNoCaller = errors.New("object has no caller")

// Object is one instance of a domain type described by a Schema. It is safe
// for concurrent use.
type Object struct {
	schema *Schema
	caller api.Caller
	// auth holds credentials passed explicitly when the object was found.
	// They override the caller's defaults on every follow-up call.
	auth api.Options

	mu     sync.RWMutex
	attrs  map[string]string
	assocs map[string][]*Object
	states map[string]LoadState

	loadMu sync.Mutex

	cacheMu sync.Mutex
	cache   map[string]any
	flight  singleflight.Group
}

// New returns an empty object of the given schema. caller may be nil for
// objects that never reach the service.
func New(schema *Schema, caller api.Caller) *Object {
	return &Object{
		schema: schema,
		caller: caller,
		attrs:  make(map[string]string),
		assocs: make(map[string][]*Object),
		states: make(map[string]LoadState),
		cache:  make(map[string]any),
	}
}

// Schema returns the descriptor table of the object's type.
func (o *Object) Schema() *Schema { return o.schema }

// Caller returns the remote-call collaborator, or nil.
func (o *Object) Caller() api.Caller { return o.caller }

// AuthOptions returns the credentials used for calls on behalf of this
// object: the caller defaults overlaid with the ones the object was found
// with.
func (o *Object) AuthOptions() api.Options {
	var base api.Options
	if o.caller != nil {
		base = o.caller.AuthOptions()
	}
	return api.Merge(base, o.auth)
}

// ID returns the "id" attribute.
func (o *Object) ID() string { return o.String("id") }

// Value returns the stored value of an attribute without triggering a load.
func (o *Object) Value(name string) (string, bool) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	v, ok := o.attrs[name]
	return v, ok
}

// String returns the stored value of an attribute, or "" when unset.
func (o *Object) String(name string) string {
	v, _ := o.Value(name)
	return v
}

// Int parses an attribute as a base-10 integer.
func (o *Object) Int(name string) (int, bool) {
	v, ok := o.Value(name)
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}

// Decimal parses an attribute as an exact decimal number.
func (o *Object) Decimal(name string) (decimal.Decimal, bool) {
	v, ok := o.Value(name)
	if !ok || v == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// Set stores an attribute value directly.
func (o *Object) Set(name, value string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.attrs[name] = value
}

// Values returns a copy of every stored attribute.
func (o *Object) Values() map[string]string {
	o.mu.RLock()
	defer o.mu.RUnlock()
	out := make(map[string]string, len(o.attrs))
	for k, v := range o.attrs {
		out[k] = v
	}
	return out
}

// Get returns an attribute, running its lazy loader when the value is
// unset. A failed load leaves the loader unloaded so the next Get retries.
func (o *Object) Get(ctx context.Context, name string) (string, error) {
	attr, ok := o.schema.Attribute(name)
	if !ok {
		return "", fmt.Errorf("%s has no attribute %q", o.schema.kind, name)
	}
	if v, ok := o.Value(name); ok || attr.Loader == "" {
		return v, nil
	}
	if err := o.Load(ctx, attr.Loader); err != nil {
		return "", err
	}
	return o.String(name), nil
}

// Load runs the named lazy loader unless it already succeeded. Concurrent
// loads of the same object are serialized.
func (o *Object) Load(ctx context.Context, loader string) error {
	fn, ok := o.schema.loaders[loader]
	if !ok {
		return fmt.Errorf("%s has no loader %q", o.schema.kind, loader)
	}

	o.loadMu.Lock()
	defer o.loadMu.Unlock()

	if o.LoadState(loader) == Loaded {
		return nil
	}
	o.setState(loader, Loading)
	zap.L().Debug("lazy load",
		zap.String("kind", o.schema.kind),
		zap.String("loader", loader),
		zap.String("id", o.ID()))

	if err := fn(ctx, o); err != nil {
		o.setState(loader, Unloaded)
		return fmt.Errorf("load %s %s: %w", o.schema.kind, loader, err)
	}
	o.setState(loader, Loaded)
	return nil
}

// LoadState reports the state of the named loader.
func (o *Object) LoadState(loader string) LoadState {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.states[loader]
}

func (o *Object) setState(loader string, s LoadState) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.states[loader] = s
}

// Associated returns the objects of an inline association. The result is
// never nil.
func (o *Object) Associated(name string) []*Object {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return append([]*Object{}, o.assocs[name]...)
}

func (o *Object) setAssociated(name string, objs []*Object) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.assocs[name] = objs
}

// MarshalJSON renders the stored attributes and inline associations.
func (o *Object) MarshalJSON() ([]byte, error) {
	out := make(map[string]any)
	for k, v := range o.Values() {
		out[k] = v
	}
	for _, name := range o.schema.assocOrder {
		if o.schema.associations[name].Path == "" {
			continue
		}
		out[name] = o.Associated(name)
	}
	return json.Marshal(out)
}
