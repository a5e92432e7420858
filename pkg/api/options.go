package api

import (
	"encoding"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Options is a set of call parameters. Values are rendered to their wire
// form with FormatValue.
type Options map[string]any

// Merge returns a new Options holding base overlaid with each of the
// overrides in turn. Neither input is modified.
func Merge(base Options, overrides ...Options) Options {
	n := len(base)
	for _, o := range overrides {
		n += len(o)
	}
	out := make(Options, n)
	for k, v := range base {
		out[k] = v
	}
	for _, o := range overrides {
		for k, v := range o {
			out[k] = v
		}
	}
	return out
}

// Canonical renders every option to its wire string. It fails with
// ErrUnsupportedOption for values that have no deterministic form.
func (o Options) Canonical() (map[string]string, error) {
	out := make(map[string]string, len(o))
	for k, v := range o {
		s, err := FormatValue(v)
		if err != nil {
			return nil, fmt.Errorf("option %q: %w", k, err)
		}
		out[k] = s
	}
	return out, nil
}

// Values converts the options to URL query values.
func (o Options) Values() (url.Values, error) {
	canonical, err := o.Canonical()
	if err != nil {
		return nil, err
	}
	values := make(url.Values, len(canonical))
	for k, v := range canonical {
		values.Set(k, v)
	}
	return values, nil
}

// FormatValue renders a single option value as the remote API expects it.
// Booleans become "1"/"0", times become Unix seconds and string slices are
// space separated (the tag list convention).
func FormatValue(v any) (string, error) {
	switch t := v.(type) {
	case string:
		return t, nil
	case bool:
		if t {
			return "1", nil
		}
		return "0", nil
	case int:
		return strconv.Itoa(t), nil
	case int8:
		return strconv.FormatInt(int64(t), 10), nil
	case int16:
		return strconv.FormatInt(int64(t), 10), nil
	case int32:
		return strconv.FormatInt(int64(t), 10), nil
	case int64:
		return strconv.FormatInt(t, 10), nil
	case uint:
		return strconv.FormatUint(uint64(t), 10), nil
	case uint8:
		return strconv.FormatUint(uint64(t), 10), nil
	case uint16:
		return strconv.FormatUint(uint64(t), 10), nil
	case uint32:
		return strconv.FormatUint(uint64(t), 10), nil
	case uint64:
		return strconv.FormatUint(t, 10), nil
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32), nil
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), nil
	case time.Time:
		return strconv.FormatInt(t.Unix(), 10), nil
	case []string:
		return strings.Join(t, " "), nil
	case encoding.TextMarshaler:
		b, err := t.MarshalText()
		if err != nil {
			return "", err
		}
		return string(b), nil
	default:
		return "", fmt.Errorf("%w: %T", ErrUnsupportedOption, v)
	}
}

// AuthKeys are the option names that carry credentials.
var AuthKeys = []string{"api_key", "auth_token"}

// AuthSubset returns the credential options present in o, or nil when there
// are none.
func AuthSubset(o Options) Options {
	var out Options
	for _, k := range AuthKeys {
		if v, ok := o[k]; ok {
			if out == nil {
				out = make(Options, len(AuthKeys))
			}
			out[k] = v
		}
	}
	return out
}
