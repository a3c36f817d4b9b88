package jsonvalue

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestParse_Kinds(t *testing.T) {
	tests := []struct {
		doc  string
		kind Kind
		text string
	}{
		{`null`, Null, ""},
		{`true`, Bool, "true"},
		{`false`, Bool, "false"},
		{`12.50`, Number, "12.50"},
		{`"hi"`, String, "hi"},
		{`[1,2]`, Array, "[1,2]"},
		{`{"a":1}`, Object, `{"a":1}`},
	}

	for _, tt := range tests {
		v := mustParse(t, tt.doc)
		if v.Kind() != tt.kind {
			t.Errorf("Parse(%s).Kind() = %s, want %s", tt.doc, v.Kind(), tt.kind)
		}
		if v.Text() != tt.text {
			t.Errorf("Parse(%s).Text() = %q, want %q", tt.doc, v.Text(), tt.text)
		}
	}
}

func TestParse_Errors(t *testing.T) {
	for _, doc := range []string{``, `{`, `{"a":}`, `[1,]`, `1 2`} {
		if _, err := Parse([]byte(doc)); err == nil {
			t.Errorf("Parse(%q): expected error", doc)
		}
	}

	deep := strings.Repeat(`{"a":[`, maxDepth) + strings.Repeat(`]}`, maxDepth)
	_, err := Parse([]byte(deep))
	if err == nil || !strings.Contains(err.Error(), "exceeded max depth") {
		t.Errorf("Parse of %d nested levels: got %v", 2*maxDepth, err)
	}
}

func TestParse_MaxDepth(t *testing.T) {
	doc := strings.Repeat("[", maxDepth) + strings.Repeat("]", maxDepth)
	if _, err := Parse([]byte(doc)); err != nil {
		t.Errorf("Parse of %d nested arrays: %v", maxDepth, err)
	}

	doc = "[" + doc + "]"
	if _, err := Parse([]byte(doc)); err == nil {
		t.Errorf("Parse of %d nested arrays: expected error", maxDepth+1)
	}
}

func TestMarshalJSON_KeepsOrder(t *testing.T) {
	doc := `{"z":1,"a":{"y":[true,null,"<x>"],"b":"é"}}`
	v := mustParse(t, doc)

	b, err := v.MarshalJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != doc {
		t.Errorf("got %s, want %s", b, doc)
	}
}

func TestValue_Get(t *testing.T) {
	v := mustParse(t, `{"body": {"deviceList": []}, "dup": 1, "dup": 2}`)

	body, ok := v.Get("body")
	if !ok || body.Kind() != Object {
		t.Fatalf("expected body object, got %v %s", ok, body.Kind())
	}
	if _, ok := body.Get("missing"); ok {
		t.Error("expected missing key to be absent")
	}
	if dup, _ := v.Get("dup"); dup.Text() != "2" {
		t.Errorf("dup = %q, want last occurrence", dup.Text())
	}
	if _, ok := StringValue("x").Get("body"); ok {
		t.Error("Get on a string should fail")
	}
}

func TestValue_UnmarshalJSON(t *testing.T) {
	var payload struct {
		Body Value `json:"body"`
	}
	if err := json.Unmarshal([]byte(`{"body": {"b": 1, "a": 2}}`), &payload); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	members := payload.Body.Members()
	if len(members) != 2 || members[0].Key != "b" || members[1].Key != "a" {
		t.Errorf("unexpected members %+v", members)
	}
}

func TestZeroValueIsNull(t *testing.T) {
	var v Value
	if v.Kind() != Null || !v.IsScalar() {
		t.Errorf("zero value kind %s", v.Kind())
	}
	if b, _ := v.MarshalJSON(); string(b) != "null" {
		t.Errorf("zero value marshals to %s", b)
	}
}
