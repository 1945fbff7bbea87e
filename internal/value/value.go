package value

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
)

var ErrInvalid = errors.New("invalid value")

// Kind identifies the type of a Value.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindList
	KindMap
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindList:
		return "list"
	case KindMap:
		return "map"
	}
	return "unknown"
}

// Value is the fixed value domain for stored entries: null, bool, number,
// string, ordered list, or string-keyed map. Numbers keep their textual
// form verbatim so encoding round-trips without precision loss.
type Value struct {
	kind Kind
	b    bool
	num  json.Number
	str  string
	list []Value
	m    map[string]Value
}

// Null returns the null value.
func Null() Value {
	return Value{kind: KindNull}
}

// Bool returns a boolean value.
func Bool(b bool) Value {
	return Value{kind: KindBool, b: b}
}

// Int returns a number value from an integer.
func Int(i int64) Value {
	return Value{kind: KindNumber, num: json.Number(fmt.Sprintf("%d", i))}
}

// Number returns a number value from its textual form.
func Number(n json.Number) Value {
	return Value{kind: KindNumber, num: n}
}

// String returns a string value.
func String(s string) Value {
	return Value{kind: KindString, str: s}
}

// List returns an ordered list value.
func List(items ...Value) Value {
	return Value{kind: KindList, list: items}
}

// Map returns a string-keyed map value.
func Map(fields map[string]Value) Value {
	return Value{kind: KindMap, m: fields}
}

// Kind returns the kind of the value.
func (v Value) Kind() Kind {
	return v.kind
}

// IsNull reports whether the value is null.
func (v Value) IsNull() bool {
	return v.kind == KindNull
}

// AsBool returns the boolean payload; ok is false for other kinds.
func (v Value) AsBool() (bool, bool) {
	return v.b, v.kind == KindBool
}

// AsNumber returns the number payload; ok is false for other kinds.
func (v Value) AsNumber() (json.Number, bool) {
	return v.num, v.kind == KindNumber
}

// AsString returns the string payload; ok is false for other kinds.
func (v Value) AsString() (string, bool) {
	return v.str, v.kind == KindString
}

// Items returns the list payload; ok is false for other kinds.
func (v Value) Items() ([]Value, bool) {
	return v.list, v.kind == KindList
}

// Fields returns the map payload; ok is false for other kinds.
func (v Value) Fields() (map[string]Value, bool) {
	return v.m, v.kind == KindMap
}

// Encode renders the value in its canonical textual form: JSON with map
// keys sorted and numbers emitted verbatim.
func (v Value) Encode() (string, error) {
	var buf bytes.Buffer
	if err := v.encode(&buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func (v Value) encode(buf *bytes.Buffer) error {
	switch v.kind {
	case KindNull:
		buf.WriteString("null")
	case KindBool:
		if v.b {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
	case KindNumber:
		if v.num == "" {
			return fmt.Errorf("%w: empty number", ErrInvalid)
		}
		buf.WriteString(string(v.num))
	case KindString:
		data, err := json.Marshal(v.str)
		if err != nil {
			return err
		}
		buf.Write(data)
	case KindList:
		buf.WriteByte('[')
		for i, item := range v.list {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := item.encode(buf); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case KindMap:
		keys := make([]string, 0, len(v.m))
		for k := range v.m {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		buf.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			data, err := json.Marshal(k)
			if err != nil {
				return err
			}
			buf.Write(data)
			buf.WriteByte(':')
			if err := v.m[k].encode(buf); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	default:
		return fmt.Errorf("%w: unknown kind %d", ErrInvalid, v.kind)
	}
	return nil
}

// Decode parses a canonical textual form back into a Value.
func Decode(text string) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader([]byte(text)))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return Value{}, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if dec.More() {
		return Value{}, fmt.Errorf("%w: trailing data", ErrInvalid)
	}
	return fromAny(raw)
}

// Parse is like Decode but for user input: it accepts any valid JSON
// document and rejects everything else.
func Parse(text string) (Value, error) {
	return Decode(text)
}

func fromAny(raw any) (Value, error) {
	switch x := raw.(type) {
	case nil:
		return Null(), nil
	case bool:
		return Bool(x), nil
	case json.Number:
		return Number(x), nil
	case string:
		return String(x), nil
	case []any:
		items := make([]Value, len(x))
		for i, item := range x {
			v, err := fromAny(item)
			if err != nil {
				return Value{}, err
			}
			items[i] = v
		}
		return List(items...), nil
	case map[string]any:
		fields := make(map[string]Value, len(x))
		for k, item := range x {
			v, err := fromAny(item)
			if err != nil {
				return Value{}, err
			}
			fields[k] = v
		}
		return Map(fields), nil
	}
	return Value{}, fmt.Errorf("%w: unsupported type %T", ErrInvalid, raw)
}

// Equal reports structural equality of two values. Numbers compare by
// their textual form, so 1 and 1.0 are distinct.
func Equal(a, b Value) bool {
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case KindNull:
		return true
	case KindBool:
		return a.b == b.b
	case KindNumber:
		return a.num == b.num
	case KindString:
		return a.str == b.str
	case KindList:
		if len(a.list) != len(b.list) {
			return false
		}
		for i := range a.list {
			if !Equal(a.list[i], b.list[i]) {
				return false
			}
		}
		return true
	case KindMap:
		if len(a.m) != len(b.m) {
			return false
		}
		for k, av := range a.m {
			bv, ok := b.m[k]
			if !ok || !Equal(av, bv) {
				return false
			}
		}
		return true
	}
	return false
}
