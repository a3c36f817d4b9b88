package jsonvalue

import "strconv"

// Row maps key paths to scalar values and remembers the order in which
// keys were first set
type Row struct {
	keys   []string
	values map[string]Value
}

func NewRow() *Row {
	return &Row{values: make(map[string]Value)}
}

// Set stores v under key.  An existing key keeps its position.
func (r *Row) Set(key string, v Value) {
	if _, ok := r.values[key]; !ok {
		r.keys = append(r.keys, key)
	}
	r.values[key] = v
}

func (r *Row) Get(key string) (Value, bool) {
	v, ok := r.values[key]
	return v, ok
}

// Keys returns the keys in insertion order
func (r *Row) Keys() []string {
	keys := make([]string, len(r.keys))
	copy(keys, r.keys)
	return keys
}

func (r *Row) Len() int {
	return len(r.keys)
}

// Merge copies every entry of other into r, in other's order
func (r *Row) Merge(other *Row) {
	for _, k := range other.keys {
		r.Set(k, other.values[k])
	}
}

// Flatten converts a nested value into one entry per scalar leaf.  Object
// members extend the path with ".key", array elements with "[i]".  A
// scalar passed with an empty prefix is stored under the empty key, and
// empty containers produce no entries.
func Flatten(prefix string, v Value) *Row {
	row := NewRow()
	flattenInto(row, prefix, v)
	return row
}

func flattenInto(row *Row, prefix string, v Value) {
	switch v.kind {
	case Object:
		for _, m := range v.members {
			flattenInto(row, joinKey(prefix, m.Key), m.Value)
		}
	case Array:
		for i, e := range v.elements {
			flattenInto(row, prefix+"["+strconv.Itoa(i)+"]", e)
		}
	default:
		row.Set(prefix, v)
	}
}

func joinKey(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}
