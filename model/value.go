package model

import (
	"fmt"

	"github.com/goccy/go-json"
)

type ValueKind int

// Answer values are polymorphic over the question type: a plain string,
// a list of picked options, a number, or absent altogether.
const (
	KindAbsent ValueKind = iota
	KindString
	KindList
	KindNumber
)

// Value is the tagged variant holding one answer value. The zero Value
// is absent.
type Value struct {
	Kind ValueKind
	Str  string
	List []string
	Num  float64
}

func StringValue(s string) Value {
	return Value{Kind: KindString, Str: s}
}

func ListValue(items ...string) Value {
	if items == nil {
		items = []string{}
	}
	return Value{Kind: KindList, List: items}
}

func NumberValue(n float64) Value {
	return Value{Kind: KindNumber, Num: n}
}

func (v Value) IsAbsent() bool {
	return v.Kind == KindAbsent
}

func (v Value) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case KindString:
		return json.Marshal(v.Str)
	case KindList:
		return json.Marshal(v.List)
	case KindNumber:
		return json.Marshal(v.Num)
	default:
		return []byte("null"), nil
	}
}

func (v *Value) UnmarshalJSON(data []byte) error {
	if len(data) == 0 {
		*v = Value{}
		return nil
	}

	switch data[0] {
	case 'n':
		*v = Value{}
		return nil
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = StringValue(s)
		return nil
	case '[':
		var items []string
		if err := json.Unmarshal(data, &items); err != nil {
			return fmt.Errorf("answer value: list items must be strings")
		}
		if items == nil {
			items = []string{}
		}
		*v = Value{Kind: KindList, List: items}
		return nil
	default:
		var n float64
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("answer value: unsupported shape")
		}
		*v = NumberValue(n)
		return nil
	}
}

// Encode serializes the value for storage in a JSON text column.
func (v Value) Encode() (string, error) {
	data, err := v.MarshalJSON()
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// DecodeValue parses a stored JSON text column back into a Value.
func DecodeValue(s string) (v Value, err error) {
	if s == "" {
		return Value{}, nil
	}
	err = v.UnmarshalJSON([]byte(s))
	return
}
