package mapper

import (
	"context"
	"encoding/hex"

	"github.com/fleakr/fleakr-go/pkg/api"
	"github.com/fxamacker/cbor/v2"
	"github.com/zeebo/blake3"
	"go.uber.org/zap"
)

var (
	keyEncMode cbor.EncMode
	keyHashKey [32]byte
)

func init() {
	em, err := cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic(err)
	}
	keyEncMode = em
	copy(keyHashKey[:], "fleakr.mapper.cache-key.v1")
}

type cacheKeyInput struct {
	Key     string            `cbor:"1,keyasint"`
	Options map[string]string `cbor:"2,keyasint"`
}

// CacheKey derives the memoization key for an accessor and its effective
// options. Options are rendered with api.FormatValue and encoded as
// deterministic CBOR, so option sets that send the same request share a
// key regardless of map order or Go value type.
func CacheKey(key string, opts api.Options) (string, error) {
	canonical, err := opts.Canonical()
	if err != nil {
		return "", err
	}
	data, err := keyEncMode.Marshal(cacheKeyInput{Key: key, Options: canonical})
	if err != nil {
		return "", err
	}
	h, err := blake3.NewKeyed(keyHashKey[:])
	if err != nil {
		return "", err
	}
	_, _ = h.Write(data)
	return key + ":" + hex.EncodeToString(h.Sum(nil)), nil
}

// Cached memoizes fetch on o under key and the effective options: o's
// credentials overlaid with opts. fetch receives the effective options.
// Equal effective options return the stored value without calling fetch;
// concurrent misses for one key share a single fetch. Failures are not
// stored.
//
// The shared fetch runs without the cancellation of the caller that started
// it. Each caller waits on its own ctx; a cancelled caller returns ctx.Err()
// while the fetch goes on for the others.
func Cached[T any](ctx context.Context, o *Object, key string, opts api.Options, fetch func(ctx context.Context, merged api.Options) (T, error)) (T, error) {
	var zero T
	merged := api.Merge(o.AuthOptions(), opts)
	ck, err := CacheKey(key, merged)
	if err != nil {
		return zero, err
	}

	if v, ok := o.cached(ck); ok {
		zap.L().Debug("cache hit", zap.String("kind", o.schema.kind), zap.String("key", key))
		t, _ := v.(T)
		return t, nil
	}

	fetchCtx := context.WithoutCancel(ctx)
	ch := o.flight.DoChan(ck, func() (any, error) {
		if v, ok := o.cached(ck); ok {
			return v, nil
		}
		zap.L().Debug("cache miss", zap.String("kind", o.schema.kind), zap.String("key", key))
		v, err := fetch(fetchCtx, merged)
		if err != nil {
			return nil, err
		}
		o.cacheMu.Lock()
		o.cache[ck] = v
		o.cacheMu.Unlock()
		return v, nil
	})

	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return zero, res.Err
		}
		t, _ := res.Val.(T)
		return t, nil
	}
}

func (o *Object) cached(key string) (any, bool) {
	o.cacheMu.Lock()
	defer o.cacheMu.Unlock()
	v, ok := o.cache[key]
	return v, ok
}
