package httpx

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// restRoot is the path prefix of every REST resource.
const restRoot = "/rest"

// Param is a single query or form parameter. A nil Value (or a nil pointer)
// marks the parameter as omitted.
type Param struct {
	Key   string
	Value any
}

// Params is an ordered parameter set. Unlike url.Values it keeps the order in
// which parameters were supplied when encoded.
type Params []Param

// Encode drops omitted parameters, stringifies the remaining values and
// returns them form-encoded in insertion order.
func (p Params) Encode() string {
	var sb strings.Builder
	for _, param := range p {
		value, ok := stringify(param.Value)
		if !ok {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteByte('&')
		}
		sb.WriteString(url.QueryEscape(param.Key))
		sb.WriteByte('=')
		sb.WriteString(url.QueryEscape(value))
	}
	return sb.String()
}

// BuildURL returns root + "/rest", followed by "/<path>" when path is set.
// A nil query adds nothing; a non-nil query always adds "?" even when every
// parameter was omitted.
func BuildURL(root string, query Params, path string) string {
	u := strings.TrimRight(root, "/") + restRoot
	if path != "" {
		u += "/" + path
	}
	if query == nil {
		return u
	}
	return u + "?" + query.Encode()
}

func stringify(v any) (string, bool) {
	switch val := v.(type) {
	case nil:
		return "", false
	case string:
		return val, true
	case *string:
		if val == nil {
			return "", false
		}
		return *val, true
	case bool:
		return strconv.FormatBool(val), true
	case *bool:
		if val == nil {
			return "", false
		}
		return strconv.FormatBool(*val), true
	case int:
		return strconv.Itoa(val), true
	case int64:
		return strconv.FormatInt(val, 10), true
	case *int:
		if val == nil {
			return "", false
		}
		return strconv.Itoa(*val), true
	case *int64:
		if val == nil {
			return "", false
		}
		return strconv.FormatInt(*val, 10), true
	case fmt.Stringer:
		return val.String(), true
	default:
		return fmt.Sprint(val), true
	}
}
