package core

import (
	"errors"
	"testing"
	"time"
)

type userID int

type point struct{ X, Y int }

func TestValueOf(t *testing.T) {
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		in   interface{}
		want ValueType
	}{
		{"nil", nil, NullType},
		{"string", "x", StringType},
		{"bytes", []byte("x"), StringType},
		{"int", 42, IntType},
		{"named int", userID(7), IntType},
		{"uint8", uint8(1), IntType},
		{"float", 1.5, FloatType},
		{"bool", true, BoolType},
		{"time", now, TimeType},
		{"duration", time.Second, StringType},
		{"error", errors.New("boom"), ErrorType},
		{"map", map[string]interface{}{"a": 1}, MapType},
		{"typed map", map[string]string{"a": "b"}, MapType},
		{"slice", []int{1, 2}, ListType},
		{"struct", point{1, 2}, ObjectType},
		{"nil pointer", (*point)(nil), NullType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValueOf(tt.in).Type; got != tt.want {
				t.Errorf("ValueOf(%v).Type = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestValueOf_SortsMapKeys(t *testing.T) {
	v := ValueOf(map[string]int{"b": 2, "a": 1, "c": 3})
	var keys []string
	for _, f := range v.Map {
		keys = append(keys, f.Key.String())
	}
	if got := keys; len(got) != 3 || got[0] != "a" || got[1] != "b" || got[2] != "c" {
		t.Errorf("keys = %v, want [a b c]", got)
	}
}

func TestValue_ScalarString(t *testing.T) {
	tests := []struct {
		v      Value
		want   string
		wantOK bool
	}{
		{StringValue("bob"), "bob", true},
		{IntValue(42), "42", true},
		{FloatValue(0.25), "0.25", true},
		{BoolValue(true), "true", true},
		{BoolValue(false), "false", true},
		{NullValue(), "", false},
		{MapValue(Map{F("a", 1)}), "", false},
	}

	for _, tt := range tests {
		got, ok := tt.v.ScalarString()
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("ScalarString(%v) = %q, %v; want %q, %v", tt.v.Type, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestValue_Equal(t *testing.T) {
	a := MapValue(Map{F("x", 1), F("y", []string{"a"})})
	b := MapValue(Map{F("x", 1), F("y", []string{"a"})})
	if !a.Equal(b) {
		t.Error("identical maps should be equal")
	}

	reordered := MapValue(Map{F("y", []string{"a"}), F("x", 1)})
	if a.Equal(reordered) {
		t.Error("map comparison should be order sensitive")
	}

	if IntValue(1).Equal(FloatValue(1)) {
		t.Error("values of different kinds should differ")
	}
}

func TestValue_CloneIsDeep(t *testing.T) {
	orig := MapValue(Map{F("inner", map[string]interface{}{"k": "v"})})
	cp := orig.Clone()
	cp.Map[0].Value.Map[0].Value = StringValue("changed")

	if got := orig.Map[0].Value.Map[0].Value.Str; got != "v" {
		t.Errorf("original mutated through clone: %q", got)
	}
}
