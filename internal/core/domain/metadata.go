package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
)

// ValueKind identifies the scalar variant held by a MetadataValue.
type ValueKind int

// Supported metadata value kinds.
const (
	KindString ValueKind = iota
	KindInt
	KindFloat
	KindBool
)

// String returns the kind name.
func (k ValueKind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	default:
		return "unknown"
	}
}

// MetadataValue is a scalar metadata value: string, integer, float or boolean.
// The zero value is the empty string.
type MetadataValue struct {
	kind ValueKind
	s    string
	i    int64
	f    float64
	b    bool
}

// StringValue wraps a string.
func StringValue(s string) MetadataValue { return MetadataValue{kind: KindString, s: s} }

// IntValue wraps an integer.
func IntValue(i int64) MetadataValue { return MetadataValue{kind: KindInt, i: i} }

// FloatValue wraps a float.
func FloatValue(f float64) MetadataValue { return MetadataValue{kind: KindFloat, f: f} }

// BoolValue wraps a boolean.
func BoolValue(b bool) MetadataValue { return MetadataValue{kind: KindBool, b: b} }

// ValueOf converts a Go scalar into a MetadataValue.
// Returns ErrUnsupportedType for anything that is not a string, integer, float or bool.
func ValueOf(v any) (MetadataValue, error) {
	switch x := v.(type) {
	case MetadataValue:
		return x, nil
	case string:
		return StringValue(x), nil
	case int:
		return IntValue(int64(x)), nil
	case int32:
		return IntValue(int64(x)), nil
	case int64:
		return IntValue(x), nil
	case float32:
		return FloatValue(float64(x)), nil
	case float64:
		return FloatValue(x), nil
	case bool:
		return BoolValue(x), nil
	case json.Number:
		return numberValue(x)
	default:
		return MetadataValue{}, fmt.Errorf("%w: metadata value of type %T", ErrUnsupportedType, v)
	}
}

// Kind returns the variant held.
func (v MetadataValue) Kind() ValueKind { return v.kind }

// Str returns the string variant and whether v holds one.
func (v MetadataValue) Str() (string, bool) { return v.s, v.kind == KindString }

// Int returns the integer variant and whether v holds one.
func (v MetadataValue) Int() (int64, bool) { return v.i, v.kind == KindInt }

// Float returns the float variant and whether v holds one.
func (v MetadataValue) Float() (float64, bool) { return v.f, v.kind == KindFloat }

// Bool returns the boolean variant and whether v holds one.
func (v MetadataValue) Bool() (bool, bool) { return v.b, v.kind == KindBool }

// Any returns the held value as a plain Go value.
func (v MetadataValue) Any() any {
	switch v.kind {
	case KindInt:
		return v.i
	case KindFloat:
		return v.f
	case KindBool:
		return v.b
	default:
		return v.s
	}
}

// String renders the value unquoted.
func (v MetadataValue) String() string {
	switch v.kind {
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.b)
	default:
		return v.s
	}
}

// Literal renders the value as it appears in formatted metadata:
// strings quoted, everything else bare.
func (v MetadataValue) Literal() string {
	if v.kind == KindString {
		return strconv.Quote(v.s)
	}
	return v.String()
}

// Equal reports whether two values hold the same variant and value.
func (v MetadataValue) Equal(o MetadataValue) bool {
	return v == o
}

// MarshalJSON encodes the value as its natural JSON scalar.
func (v MetadataValue) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Any())
}

// UnmarshalJSON decodes a JSON scalar. Integral numbers decode as integers.
func (v *MetadataValue) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return err
	}
	parsed, err := ValueOf(raw)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

func numberValue(n json.Number) (MetadataValue, error) {
	if i, err := n.Int64(); err == nil {
		return IntValue(i), nil
	}
	f, err := n.Float64()
	if err != nil {
		return MetadataValue{}, fmt.Errorf("%w: metadata number %q", ErrInvalidInput, n.String())
	}
	return FloatValue(f), nil
}

// Metadata maps keys to scalar values.
type Metadata map[string]MetadataValue

// Keys returns the keys in ascending order.
func (m Metadata) Keys() []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Clone returns a shallow copy. Values are immutable so this is a full copy.
func (m Metadata) Clone() Metadata {
	if m == nil {
		return nil
	}
	out := make(Metadata, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Merge returns a copy of m with the entries of other applied on top.
func (m Metadata) Merge(other Metadata) Metadata {
	out := make(Metadata, len(m)+len(other))
	for k, v := range m {
		out[k] = v
	}
	for k, v := range other {
		out[k] = v
	}
	return out
}

// Matches reports whether every filter condition holds for m.
func (m Metadata) Matches(f MetadataFilter) bool {
	for k, want := range f {
		got, ok := m[k]
		if !ok || !got.Equal(want) {
			return false
		}
	}
	return true
}

// MetadataFilter is a conjunction of equality conditions on metadata keys.
type MetadataFilter map[string]MetadataValue

// IsEmpty reports whether the filter has no conditions.
func (f MetadataFilter) IsEmpty() bool { return len(f) == 0 }

// String renders the filter deterministically, for logging.
func (f MetadataFilter) String() string {
	return Metadata(f).Literal()
}

// Literal renders the metadata as {k1: v1, k2: v2} with keys sorted ascending.
// An empty mapping renders as {}.
func (m Metadata) Literal() string {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range m.Keys() {
		if i > 0 {
			buf.WriteString(", ")
		}
		buf.WriteString(k)
		buf.WriteString(": ")
		buf.WriteString(m[k].Literal())
	}
	buf.WriteByte('}')
	return buf.String()
}
