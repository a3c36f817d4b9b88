package jsonvalue

import (
	"bytes"
	"encoding/json"
	"io"

	"github.com/pkg/errors"
)

// Deepest nesting of arrays and objects accepted, as in encoding/json
const maxDepth = 10000

// Parse decodes exactly one JSON document
func Parse(data []byte) (Value, error) {
	return Decode(bytes.NewReader(data))
}

// Decode reads exactly one JSON document from r.  Object members keep
// the order in which they appear in the input.
func Decode(r io.Reader) (Value, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	v, err := decodeValue(dec, 0)
	if err != nil {
		return Value{}, errors.Wrap(err, "decoding JSON")
	}

	if _, err := dec.Token(); err != io.EOF {
		return Value{}, errors.New("decoding JSON: unexpected data after top-level value")
	}

	return v, nil
}

// UnmarshalJSON lets a Value be the target of encoding/json
func (v *Value) UnmarshalJSON(data []byte) error {
	parsed, err := Parse(data)
	if err != nil {
		return err
	}

	*v = parsed
	return nil
}

func decodeValue(dec *json.Decoder, depth int) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return Value{}, err
	}

	switch t := tok.(type) {
	case nil:
		return NullValue(), nil
	case bool:
		return BoolValue(t), nil
	case json.Number:
		return NumberValue(t), nil
	case string:
		return StringValue(t), nil
	case json.Delim:
		if depth >= maxDepth && (t == '{' || t == '[') {
			return Value{}, errors.Errorf("exceeded max depth %d", maxDepth)
		}

		switch t {
		case '{':
			return decodeObject(dec, depth+1)
		case '[':
			return decodeArray(dec, depth+1)
		}
		return Value{}, errors.Errorf("unexpected delimiter %q", rune(t))
	}

	return Value{}, errors.Errorf("unexpected token %v", tok)
}

func decodeObject(dec *json.Decoder, depth int) (Value, error) {
	members := []Member{}

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return Value{}, err
		}

		key, ok := tok.(string)
		if !ok {
			return Value{}, errors.Errorf("expected object key, got %v", tok)
		}

		val, err := decodeValue(dec, depth)
		if err != nil {
			return Value{}, err
		}

		members = append(members, Member{Key: key, Value: val})
	}

	// closing brace
	if _, err := dec.Token(); err != nil {
		return Value{}, err
	}

	return ObjectValue(members...), nil
}

func decodeArray(dec *json.Decoder, depth int) (Value, error) {
	elements := []Value{}

	for dec.More() {
		val, err := decodeValue(dec, depth)
		if err != nil {
			return Value{}, err
		}

		elements = append(elements, val)
	}

	// closing bracket
	if _, err := dec.Token(); err != nil {
		return Value{}, err
	}

	return ArrayValue(elements...), nil
}
