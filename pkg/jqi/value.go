package jqi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
)

// Value is a JSON-like value: null, bool, number (int or float), string,
// array, or an insertion-ordered object. Evaluators never mutate a Value in
// place; every transformation allocates a new one.
type Value interface {
	jsonValue()
}

// Null is the JSON null value.
type nullValue struct{}

// Null is the single jq "null".
var Null Value = nullValue{}

func (nullValue) jsonValue() {}

// Bool is a JSON boolean.
type Bool bool

func (Bool) jsonValue() {}

// Int is a JSON integer, kept distinct from Float so integer literals stay
// exact until an operation forces promotion.
type Int int64

func (Int) jsonValue() {}

// Float is a JSON floating-point number.
type Float float64

func (Float) jsonValue() {}

// String is a JSON string.
type String string

func (String) jsonValue() {}

// Array is a JSON array.
type Array []Value

func (Array) jsonValue() {}

// Object is an insertion-ordered JSON object: construction output preserves
// the order keys were written in, but equality never depends on it.
type Object struct {
	keys []string
	vals map[string]Value
}

func (*Object) jsonValue() {}

// NewObject returns an empty, ready-to-use Object.
func NewObject() *Object {
	return &Object{vals: map[string]Value{}}
}

// Get returns the value at key and whether it was present.
func (o *Object) Get(key string) (Value, bool) {
	if o == nil {
		return nil, false
	}
	v, ok := o.vals[key]
	return v, ok
}

// Set inserts or overwrites key, appending it to the key order the first
// time it is seen.
func (o *Object) Set(key string, v Value) {
	if _, ok := o.vals[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.vals[key] = v
}

// Keys returns the keys in insertion order.
func (o *Object) Keys() []string {
	if o == nil {
		return nil
	}
	return o.keys
}

// Len returns the number of entries.
func (o *Object) Len() int {
	if o == nil {
		return 0
	}
	return len(o.keys)
}

// Clone returns a shallow copy whose key order and map are independent of
// the receiver's, but whose values are shared.
func (o *Object) Clone() *Object {
	n := NewObject()
	if o == nil {
		return n
	}
	n.keys = append([]string(nil), o.keys...)
	for k, v := range o.vals {
		n.vals[k] = v
	}
	return n
}

// Truthy reports jq truthiness: everything but null and false is truthy.
func Truthy(v Value) bool {
	if v == nil {
		return false
	}
	switch x := v.(type) {
	case nullValue:
		return false
	case Bool:
		return bool(x)
	default:
		return true
	}
}

// TypeName names a value's JSON type, used in error messages.
func TypeName(v Value) string {
	switch v.(type) {
	case nullValue, nil:
		return "null"
	case Bool:
		return "boolean"
	case Int, Float:
		return "number"
	case String:
		return "string"
	case Array:
		return "array"
	case *Object:
		return "object"
	case ErrorValue:
		return "error"
	default:
		return fmt.Sprintf("%T", v)
	}
}

// Equal reports jq value equality: same kind, same contents; numbers
// compare by numeric value across Int/Float.
func Equal(a, b Value) bool {
	switch x := a.(type) {
	case nullValue:
		_, ok := b.(nullValue)
		return ok
	case Bool:
		y, ok := b.(Bool)
		return ok && x == y
	case Int:
		switch y := b.(type) {
		case Int:
			return x == y
		case Float:
			return Float(x) == y
		}
		return false
	case Float:
		switch y := b.(type) {
		case Int:
			return x == Float(y)
		case Float:
			return x == y
		}
		return false
	case String:
		y, ok := b.(String)
		return ok && x == y
	case Array:
		y, ok := b.(Array)
		if !ok || len(x) != len(y) {
			return false
		}
		for i := range x {
			if !Equal(x[i], y[i]) {
				return false
			}
		}
		return true
	case *Object:
		y, ok := b.(*Object)
		if !ok || x.Len() != y.Len() {
			return false
		}
		for _, k := range x.keys {
			xv, _ := x.Get(k)
			yv, ok := y.Get(k)
			if !ok || !Equal(xv, yv) {
				return false
			}
		}
		return true
	case ErrorValue:
		_, ok := b.(ErrorValue)
		return ok
	}
	return false
}

// typeRank gives the jq total order over kinds: null < false < true <
// numbers < strings < arrays < objects.
func typeRank(v Value) int {
	switch x := v.(type) {
	case nullValue:
		return 0
	case Bool:
		if !bool(x) {
			return 1
		}
		return 2
	case Int, Float:
		return 3
	case String:
		return 4
	case Array:
		return 5
	case *Object:
		return 6
	}
	return 7
}

func numericValue(v Value) float64 {
	switch x := v.(type) {
	case Int:
		return float64(x)
	case Float:
		return float64(x)
	}
	return 0
}

// Compare implements jq's total order, used by comparison operators and by
// the completion engine's value sampling (§4.6, §4.7).
func Compare(a, b Value) int {
	ra, rb := typeRank(a), typeRank(b)
	if ra != rb {
		return ra - rb
	}
	switch ra {
	case 0, 1, 2:
		return 0
	case 3:
		x, y := numericValue(a), numericValue(b)
		switch {
		case x < y:
			return -1
		case x > y:
			return 1
		default:
			return 0
		}
	case 4:
		x, y := string(a.(String)), string(b.(String))
		switch {
		case x < y:
			return -1
		case x > y:
			return 1
		default:
			return 0
		}
	case 5:
		x, y := a.(Array), b.(Array)
		for i := 0; i < len(x) && i < len(y); i++ {
			if c := Compare(x[i], y[i]); c != 0 {
				return c
			}
		}
		return len(x) - len(y)
	default:
		// Objects are not ordered against each other in this subset (§4.6).
		return 0
	}
}

// SortValues sorts a slice of values by jq total order, in place.
func SortValues(vs []Value) {
	sort.SliceStable(vs, func(i, j int) bool { return Compare(vs[i], vs[j]) < 0 })
}

// ToString renders a value the way jq would inside string interpolation /
// completion candidate labels: strings render bare, everything else as
// compact JSON.
func ToString(v Value) string {
	if s, ok := v.(String); ok {
		return string(s)
	}
	b, _ := MarshalJSON(v)
	return string(b)
}

// MarshalJSON renders a Value as compact JSON, preserving object key order.
func MarshalJSON(v Value) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeJSON(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeJSON(buf *bytes.Buffer, v Value) error {
	switch x := v.(type) {
	case nil, nullValue:
		buf.WriteString("null")
	case Bool:
		if x {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
	case Int:
		buf.WriteString(strconv.FormatInt(int64(x), 10))
	case Float:
		buf.WriteString(strconv.FormatFloat(float64(x), 'g', -1, 64))
	case String:
		b, err := json.Marshal(string(x))
		if err != nil {
			return err
		}
		buf.Write(b)
	case Array:
		buf.WriteByte('[')
		for i, e := range x {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeJSON(buf, e); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case *Object:
		buf.WriteByte('{')
		for i, k := range x.keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			kb, err := json.Marshal(k)
			if err != nil {
				return err
			}
			buf.Write(kb)
			buf.WriteByte(':')
			val, _ := x.Get(k)
			if err := writeJSON(buf, val); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	case ErrorValue:
		b, err := json.Marshal(string(x))
		if err != nil {
			return err
		}
		buf.Write(b)
	default:
		return fmt.Errorf("jqi: cannot marshal %T", v)
	}
	return nil
}

// ParseJSON decodes a single JSON document into a Value, preserving object
// key order (encoding/json's map decoding does not, so this walks tokens by
// hand).
func ParseJSON(data []byte) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	v, err := parseJSONValue(dec)
	if err != nil {
		return nil, err
	}
	return v, nil
}

func parseJSONValue(dec *json.Decoder) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	return jsonTokenToValue(dec, tok)
}

func jsonTokenToValue(dec *json.Decoder, tok json.Token) (Value, error) {
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '[':
			arr := Array{}
			for dec.More() {
				v, err := parseJSONValue(dec)
				if err != nil {
					return nil, err
				}
				arr = append(arr, v)
			}
			if _, err := dec.Token(); err != nil { // consume ']'
				return nil, err
			}
			return arr, nil
		case '{':
			obj := NewObject()
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key, _ := keyTok.(string)
				v, err := parseJSONValue(dec)
				if err != nil {
					return nil, err
				}
				obj.Set(key, v)
			}
			if _, err := dec.Token(); err != nil { // consume '}'
				return nil, err
			}
			return obj, nil
		}
		return nil, fmt.Errorf("jqi: unexpected delimiter %v", t)
	case nil:
		return Null, nil
	case bool:
		return Bool(t), nil
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return Int(i), nil
		}
		f, err := t.Float64()
		if err != nil {
			return nil, err
		}
		return Float(f), nil
	case string:
		return String(t), nil
	default:
		return nil, fmt.Errorf("jqi: unexpected token %v (%T)", tok, tok)
	}
}
