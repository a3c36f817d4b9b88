package jsonvalue

import (
	"bytes"
	"encoding/json"
	"strconv"
)

/*
 *  An order-preserving representation of an untyped JSON document, as
 *  returned by the SwitchBot API
 */

// Kind identifies which member of the union a Value holds
type Kind int

const (
	Null Kind = iota
	Bool
	Number
	String
	Array
	Object
)

var kindNames = []string{"null", "bool", "number", "string", "array", "object"}

func (k Kind) String() string {
	if int(k) < 0 || int(k) >= len(kindNames) {
		return "unknown (kind: " + strconv.Itoa(int(k)) + ")"
	}

	return kindNames[k]
}

// Member is one key/value pair of an object, in document order
type Member struct {
	Key   string
	Value Value
}

// Value is a JSON value.  The zero Value is null.
type Value struct {
	kind     Kind
	boolean  bool
	text     string // string contents, or the literal of a number
	elements []Value
	members  []Member
}

func NullValue() Value {
	return Value{}
}

func BoolValue(b bool) Value {
	return Value{kind: Bool, boolean: b}
}

func NumberValue(n json.Number) Value {
	return Value{kind: Number, text: string(n)}
}

func StringValue(s string) Value {
	return Value{kind: String, text: s}
}

func ArrayValue(elements ...Value) Value {
	return Value{kind: Array, elements: elements}
}

func ObjectValue(members ...Member) Value {
	return Value{kind: Object, members: members}
}

func (v Value) Kind() Kind {
	return v.kind
}

// IsScalar reports whether v is a leaf (anything but an array or object)
func (v Value) IsScalar() bool {
	return v.kind != Array && v.kind != Object
}

// Members returns the pairs of an object, or nil for any other kind
func (v Value) Members() []Member {
	if v.kind != Object {
		return nil
	}
	return v.members
}

// Elements returns the items of an array, or nil for any other kind
func (v Value) Elements() []Value {
	if v.kind != Array {
		return nil
	}
	return v.elements
}

// Get looks up key in an object.  The last occurrence wins if the
// document repeated a key.
func (v Value) Get(key string) (Value, bool) {
	if v.kind != Object {
		return Value{}, false
	}

	for i := len(v.members) - 1; i >= 0; i-- {
		if v.members[i].Key == key {
			return v.members[i].Value, true
		}
	}

	return Value{}, false
}

// AsString returns the contents of a string value
func (v Value) AsString() (string, bool) {
	if v.kind != String {
		return "", false
	}
	return v.text, true
}

// AsBool returns the contents of a boolean value
func (v Value) AsBool() (bool, bool) {
	if v.kind != Bool {
		return false, false
	}
	return v.boolean, true
}

// Text renders a scalar the way it should appear in a report cell: strings
// unquoted, numbers as they were written, booleans as true/false and null
// as the empty string.  Containers render as compact JSON.
func (v Value) Text() string {
	switch v.kind {
	case Null:
		return ""
	case Bool:
		return strconv.FormatBool(v.boolean)
	case Number, String:
		return v.text
	}

	b, err := v.MarshalJSON()
	if err != nil {
		return ""
	}
	return string(b)
}

// MarshalJSON encodes v, keeping object members in their original order
func (v Value) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := v.encode(&buf); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func (v Value) encode(buf *bytes.Buffer) error {
	switch v.kind {
	case Null:
		buf.WriteString("null")
	case Bool:
		buf.WriteString(strconv.FormatBool(v.boolean))
	case Number:
		if v.text == "" {
			buf.WriteString("0")
		} else {
			buf.WriteString(v.text)
		}
	case String:
		return encodeString(buf, v.text)
	case Array:
		buf.WriteByte('[')
		for i, e := range v.elements {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := e.encode(buf); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case Object:
		buf.WriteByte('{')
		for i, m := range v.members {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := encodeString(buf, m.Key); err != nil {
				return err
			}
			buf.WriteByte(':')
			if err := m.Value.encode(buf); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	}

	return nil
}

func encodeString(buf *bytes.Buffer, s string) error {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return err
	}

	// Encode always appends a newline
	buf.Truncate(buf.Len() - 1)
	return nil
}
