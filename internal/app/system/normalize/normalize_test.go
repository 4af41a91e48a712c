package normalize

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestEmail(t *testing.T) {
	if got := Email("  Ravi@Example.COM "); got != "ravi@example.com" {
		t.Fatalf("Email = %q", got)
	}
}

func TestCharacteristics_List(t *testing.T) {
	got, ok := Characteristics(json.RawMessage(`["drought tolerant"," early maturing ",""]`))
	if !ok {
		t.Fatal("list input should parse")
	}
	want := []string{"drought tolerant", "early maturing"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestCharacteristics_CommaString(t *testing.T) {
	got, ok := Characteristics(json.RawMessage(`"drought tolerant, early maturing , "`))
	if !ok {
		t.Fatal("comma string input should parse")
	}
	want := []string{"drought tolerant", "early maturing"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestCharacteristics_Empty(t *testing.T) {
	for _, raw := range []json.RawMessage{nil, json.RawMessage("null"), json.RawMessage(`""`), json.RawMessage(`[]`)} {
		got, ok := Characteristics(raw)
		if !ok {
			t.Fatalf("input %q should parse", raw)
		}
		if got != nil {
			t.Fatalf("input %q should yield nil, got %v", raw, got)
		}
	}
}

func TestCharacteristics_Invalid(t *testing.T) {
	if _, ok := Characteristics(json.RawMessage(`{"a":1}`)); ok {
		t.Fatal("object input should be rejected")
	}
	if _, ok := Characteristics(json.RawMessage(`42`)); ok {
		t.Fatal("numeric input should be rejected")
	}
}
