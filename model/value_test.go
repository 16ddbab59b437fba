package model

import (
	"reflect"
	"testing"

	"github.com/goccy/go-json"
)

func TestValueUnmarshal(t *testing.T) {
	tests := []struct {
		name string
		data string
		want Value
	}{
		{"string", `"hello"`, StringValue("hello")},
		{"integer", `42`, NumberValue(42)},
		{"float", `3.14`, NumberValue(3.14)},
		{"list", `["Red","Blue"]`, ListValue("Red", "Blue")},
		{"empty list", `[]`, ListValue()},
		{"null", `null`, Value{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var v Value
			if err := json.Unmarshal([]byte(tt.data), &v); err != nil {
				t.Fatalf("Unmarshal(%s) failed: %v", tt.data, err)
			}
			if !reflect.DeepEqual(v, tt.want) {
				t.Errorf("Unmarshal(%s) = %+v, want %+v", tt.data, v, tt.want)
			}
		})
	}
}

func TestValueUnmarshalRejectsBadShapes(t *testing.T) {
	for _, data := range []string{`{"a":1}`, `[1,2]`, `true`} {
		var v Value
		if err := json.Unmarshal([]byte(data), &v); err == nil {
			t.Errorf("Unmarshal(%s) should fail, got %+v", data, v)
		}
	}
}

func TestValueStorageRoundTrip(t *testing.T) {
	for _, v := range []Value{
		StringValue("John"),
		NumberValue(7),
		ListValue("cheese"),
		{},
	} {
		encoded, err := v.Encode()
		if err != nil {
			t.Fatalf("Encode(%+v) failed: %v", v, err)
		}
		decoded, err := DecodeValue(encoded)
		if err != nil {
			t.Fatalf("DecodeValue(%q) failed: %v", encoded, err)
		}
		if !reflect.DeepEqual(decoded, v) {
			t.Errorf("round trip of %+v through %q gave %+v", v, encoded, decoded)
		}
	}
}

func TestDecodeValueEmptyColumn(t *testing.T) {
	v, err := DecodeValue("")
	if err != nil {
		t.Fatalf("DecodeValue(\"\") failed: %v", err)
	}
	if !v.IsAbsent() {
		t.Errorf("empty column should decode as absent, got %+v", v)
	}
}
