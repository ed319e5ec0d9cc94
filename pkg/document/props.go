package document

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/elliotchance/orderedmap"
)

// Props is an insertion-ordered mapping of property names to scalar values.
// Values are string, int or float64. An absent key means "use the markup
// default", so empty strings are never stored through Patch.
//
// Iteration follows insertion order, which the markup generator relies on.
// Equality ignores order.
type Props struct {
	m *orderedmap.OrderedMap
}

func NewProps() *Props {
	return &Props{m: orderedmap.NewOrderedMap()}
}

// PropsOf builds props from alternating keys and values.
func PropsOf(kv ...any) *Props {
	if len(kv)%2 != 0 {
		panic("document: PropsOf called with an odd number of arguments")
	}
	p := NewProps()
	for i := 0; i < len(kv); i += 2 {
		p.Set(kv[i].(string), kv[i+1])
	}
	return p
}

func (p *Props) Len() int {
	if p == nil || p.m == nil {
		return 0
	}
	return p.m.Len()
}

func (p *Props) Get(key string) (any, bool) {
	if p == nil || p.m == nil {
		return nil, false
	}
	return p.m.Get(key)
}

// String returns the value formatted the way it appears in markup.
func (p *Props) String(key string) (string, bool) {
	v, ok := p.Get(key)
	if !ok {
		return "", false
	}
	return FormatValue(v), true
}

// Set stores a value. Re-setting an existing key keeps its position.
func (p *Props) Set(key string, value any) {
	if p.m == nil {
		p.m = orderedmap.NewOrderedMap()
	}
	p.m.Set(key, value)
}

func (p *Props) Delete(key string) bool {
	if p == nil || p.m == nil {
		return false
	}
	return p.m.Delete(key)
}

// Patch applies entries from patch in its order. A nil or empty string
// value removes the key instead of storing it. Keys are lower-cased, as
// markup attribute names are case-insensitive and parse back lower-cased.
func (p *Props) Patch(patch *Props) {
	patch.Each(func(key string, value any) {
		key = strings.ToLower(key)
		if IsEmptyValue(value) {
			p.Delete(key)
			return
		}
		p.Set(key, value)
	})
}

func (p *Props) Keys() []string {
	result := make([]string, 0, p.Len())
	p.Each(func(key string, _ any) {
		result = append(result, key)
	})
	return result
}

func (p *Props) Each(fn func(key string, value any)) {
	if p == nil || p.m == nil {
		return
	}
	for el := p.m.Front(); el != nil; el = el.Next() {
		fn(el.Key.(string), el.Value)
	}
}

// Map returns an unordered copy of the props.
func (p *Props) Map() map[string]any {
	result := make(map[string]any, p.Len())
	p.Each(func(key string, value any) {
		result[key] = value
	})
	return result
}

func (p *Props) Clone() *Props {
	clone := NewProps()
	p.Each(clone.Set)
	return clone
}

// Equal is used by go-cmp when comparing documents.
func (p *Props) Equal(other *Props) bool {
	if p.Len() != other.Len() {
		return false
	}
	equal := true
	p.Each(func(key string, value any) {
		if !equal {
			return
		}
		v, ok := other.Get(key)
		equal = ok && v == value
	})
	return equal
}

func (p *Props) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	var err error
	i := 0
	p.Each(func(key string, value any) {
		if err != nil {
			return
		}
		if i > 0 {
			buf.WriteByte(',')
		}
		i++
		var raw []byte
		if raw, err = json.Marshal(key); err != nil {
			return
		}
		buf.Write(raw)
		buf.WriteByte(':')
		if raw, err = json.Marshal(value); err != nil {
			return
		}
		buf.Write(raw)
	})
	if err != nil {
		return nil, err
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// IsEmptyValue reports whether a prop value means "unset".
func IsEmptyValue(v any) bool {
	switch v := v.(type) {
	case nil:
		return true
	case string:
		return v == ""
	default:
		return false
	}
}

// FormatValue renders a scalar prop value as markup text.
func FormatValue(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		raw, _ := json.Marshal(v)
		return string(raw)
	}
}
