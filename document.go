package claimsx

import (
	"bytes"
	"fmt"
	"sort"
	"strconv"
	"time"

	json "github.com/goccy/go-json"
)

// Kind identifies the concrete type behind a document Value.
type Kind int

const (
	KindNull Kind = iota
	KindString
	KindNumber
	KindBool
	KindArray
	KindObject
)

// Value is the polymorphic value type carried by a Document: string, number,
// boolean, null, ordered sequence, or nested document. The implementation set
// is closed so conversion code can switch over it exhaustively.
type Value interface {
	Kind() Kind
	// Equal reports value-level equality; nested documents compare as
	// unordered key/value sets.
	Equal(other Value) bool

	isValue()
}

// String is a JSON string value.
type String string

// Number is a JSON number kept in its literal decimal form.
type Number string

// Bool is a JSON boolean value.
type Bool bool

// Null is the JSON null value.
type Null struct{}

// Array is an ordered sequence of values.
type Array []Value

func (String) isValue() {}
func (Number) isValue() {}
func (Bool) isValue()   {}
func (Null) isValue()   {}
func (Array) isValue()  {}

func (String) Kind() Kind { return KindString }
func (Number) Kind() Kind { return KindNumber }
func (Bool) Kind() Kind   { return KindBool }
func (Null) Kind() Kind   { return KindNull }
func (Array) Kind() Kind  { return KindArray }

func (s String) Equal(other Value) bool {
	o, ok := other.(String)
	return ok && s == o
}

// Equal reports numeric equality: matching literals, or failing that the
// same float64 value.
func (n Number) Equal(other Value) bool {
	o, ok := other.(Number)
	if !ok {
		return false
	}
	if n == o {
		return true
	}
	a, errA := n.Float64()
	b, errB := o.Float64()
	return errA == nil && errB == nil && a == b
}

func (b Bool) Equal(other Value) bool {
	o, ok := other.(Bool)
	return ok && b == o
}

func (Null) Equal(other Value) bool {
	_, ok := other.(Null)
	return ok
}

// Equal compares sequences elementwise, in order.
func (a Array) Equal(other Value) bool {
	o, ok := other.(Array)
	if !ok || len(a) != len(o) {
		return false
	}
	for i := range a {
		if !a[i].Equal(o[i]) {
			return false
		}
	}
	return true
}

func (s String) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(s))
}

// MarshalJSON implements json.Marshaler, emitting the literal unchanged.
func (n Number) MarshalJSON() ([]byte, error) {
	if n == "" {
		return nil, fmt.Errorf("empty number literal")
	}
	return []byte(n), nil
}

func (b Bool) MarshalJSON() ([]byte, error) {
	return []byte(strconv.FormatBool(bool(b))), nil
}

func (Null) MarshalJSON() ([]byte, error) {
	return []byte("null"), nil
}

func (a Array) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, item := range a {
		if i > 0 {
			buf.WriteByte(',')
		}
		encoded, err := marshalValue(item)
		if err != nil {
			return nil, err
		}
		buf.Write(encoded)
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}

// Int64 parses the number as a signed integer.
func (n Number) Int64() (int64, error) {
	return json.Number(n).Int64()
}

// Float64 parses the number as a float.
func (n Number) Float64() (float64, error) {
	return json.Number(n).Float64()
}

// Document is an insertion-order-preserving mapping from claim names to
// polymorphic values. It is the boundary type exchanged with external
// encoder/decoder collaborators; order is preserved on both JSON directions
// so round-trips stay byte-stable.
type Document struct {
	keys   []string
	values map[string]Value
}

// NewDocument returns an empty document.
func NewDocument() *Document {
	return &Document{values: make(map[string]Value)}
}

func (*Document) isValue() {}

func (*Document) Kind() Kind { return KindObject }

// Set stores value under key, appending the key to the insertion order when
// it is new and keeping its original position when it is not.
func (d *Document) Set(key string, value Value) {
	if d.values == nil {
		d.values = make(map[string]Value)
	}
	if _, exists := d.values[key]; !exists {
		d.keys = append(d.keys, key)
	}
	d.values[key] = value
}

// Get returns the value stored under key.
func (d *Document) Get(key string) (Value, bool) {
	if d == nil || d.values == nil {
		return nil, false
	}
	value, ok := d.values[key]
	return value, ok
}

// Has reports whether key is present.
func (d *Document) Has(key string) bool {
	_, ok := d.Get(key)
	return ok
}

// Len returns the number of entries.
func (d *Document) Len() int {
	if d == nil {
		return 0
	}
	return len(d.keys)
}

// Keys returns the key set in insertion order.
func (d *Document) Keys() []string {
	if d == nil {
		return nil
	}
	return append([]string(nil), d.keys...)
}

// Clone returns a shallow copy sharing no key/value bookkeeping with d.
func (d *Document) Clone() *Document {
	out := NewDocument()
	if d == nil {
		return out
	}
	for _, key := range d.keys {
		out.Set(key, d.values[key])
	}
	return out
}

// Equal compares documents as unordered key/value sets with value-level
// equality; insertion order never affects logical equality.
func (d *Document) Equal(other Value) bool {
	o, ok := other.(*Document)
	if !ok {
		return false
	}
	if d.Len() != o.Len() {
		return false
	}
	if d == nil {
		return true
	}
	for _, key := range d.keys {
		theirs, ok := o.Get(key)
		if !ok || !d.values[key].Equal(theirs) {
			return false
		}
	}
	return true
}

// MarshalJSON implements json.Marshaler, emitting entries in insertion order.
func (d *Document) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	if d != nil {
		for i, key := range d.keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			encodedKey, err := json.Marshal(key)
			if err != nil {
				return nil, err
			}
			buf.Write(encodedKey)
			buf.WriteByte(':')
			encodedValue, err := marshalValue(d.values[key])
			if err != nil {
				return nil, fmt.Errorf("key %q: %w", key, err)
			}
			buf.Write(encodedValue)
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON implements json.Unmarshaler, recording keys in the order the
// source document declares them.
func (d *Document) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("expected object, got %v", tok)
	}
	parsed, err := decodeObject(dec)
	if err != nil {
		return err
	}
	*d = *parsed
	return nil
}

func marshalValue(v Value) ([]byte, error) {
	switch t := v.(type) {
	case nil:
		return []byte("null"), nil
	case String:
		return t.MarshalJSON()
	case Number:
		return t.MarshalJSON()
	case Bool:
		return t.MarshalJSON()
	case Null:
		return t.MarshalJSON()
	case Array:
		return t.MarshalJSON()
	case *Document:
		return t.MarshalJSON()
	default:
		return nil, fmt.Errorf("unsupported value type %T", v)
	}
}

func decodeObject(dec *json.Decoder) (*Document, error) {
	doc := NewDocument()
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("expected object key, got %v", tok)
		}
		value, err := decodeValue(dec)
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", key, err)
		}
		doc.Set(key, value)
	}
	// closing brace
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return doc, nil
}

func decodeArray(dec *json.Decoder) (Array, error) {
	arr := Array{}
	for dec.More() {
		value, err := decodeValue(dec)
		if err != nil {
			return nil, err
		}
		arr = append(arr, value)
	}
	// closing bracket
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return arr, nil
}

func decodeValue(dec *json.Decoder) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			return decodeObject(dec)
		case '[':
			return decodeArray(dec)
		default:
			return nil, fmt.Errorf("unexpected delimiter %q", t.String())
		}
	case string:
		return String(t), nil
	case json.Number:
		return Number(t), nil
	case bool:
		return Bool(t), nil
	case nil:
		return Null{}, nil
	default:
		return nil, fmt.Errorf("unsupported token %v", tok)
	}
}

// ValueOf converts a native Go value into a document Value. Maps are sorted
// by key since Go map iteration order carries no meaning.
func ValueOf(v any) (Value, error) {
	switch t := v.(type) {
	case nil:
		return Null{}, nil
	case Value:
		return t, nil
	case string:
		return String(t), nil
	case bool:
		return Bool(t), nil
	case json.Number:
		return Number(t), nil
	case int:
		return Number(strconv.Itoa(t)), nil
	case int64:
		return Number(strconv.FormatInt(t, 10)), nil
	case uint64:
		return Number(strconv.FormatUint(t, 10)), nil
	case float64:
		return Number(strconv.FormatFloat(t, 'g', -1, 64)), nil
	case time.Time:
		return Number(strconv.FormatInt(t.Unix(), 10)), nil
	case []string:
		arr := make(Array, 0, len(t))
		for _, item := range t {
			arr = append(arr, String(item))
		}
		return arr, nil
	case []any:
		arr := make(Array, 0, len(t))
		for _, item := range t {
			value, err := ValueOf(item)
			if err != nil {
				return nil, err
			}
			arr = append(arr, value)
		}
		return arr, nil
	case map[string]any:
		names := make([]string, 0, len(t))
		for name := range t {
			names = append(names, name)
		}
		sort.Strings(names)
		doc := NewDocument()
		for _, name := range names {
			value, err := ValueOf(t[name])
			if err != nil {
				return nil, err
			}
			doc.Set(name, value)
		}
		return doc, nil
	default:
		return nil, fmt.Errorf("unsupported claim value type %T", v)
	}
}

// nativeOf converts a Value back into a plain Go value for collaborators
// that speak map[string]any, such as the jwx token builder.
func nativeOf(v Value) any {
	switch t := v.(type) {
	case String:
		return string(t)
	case Number:
		if i, err := t.Int64(); err == nil {
			return i
		}
		if f, err := t.Float64(); err == nil {
			return f
		}
		return string(t)
	case Bool:
		return bool(t)
	case Array:
		out := make([]any, 0, len(t))
		for _, item := range t {
			out = append(out, nativeOf(item))
		}
		return out
	case *Document:
		out := make(map[string]any, t.Len())
		for _, key := range t.Keys() {
			value, _ := t.Get(key)
			out[key] = nativeOf(value)
		}
		return out
	default:
		return nil
	}
}
