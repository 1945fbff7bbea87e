package value

import (
	"errors"
	"testing"
)

func TestEncodeCanonicalForm(t *testing.T) {
	tests := []struct {
		name string
		v    Value
		want string
	}{
		{"null", Null(), "null"},
		{"true", Bool(true), "true"},
		{"false", Bool(false), "false"},
		{"int", Int(42), "42"},
		{"float", Number("3.14"), "3.14"},
		{"string", String("hello"), `"hello"`},
		{"escaped string", String(`a"b`), `"a\"b"`},
		{"empty list", List(), "[]"},
		{"list", List(Int(1), Int(2), Int(3)), "[1,2,3]"},
		{"nested", Map(map[string]Value{"x": List(Int(1), Int(2), Int(3))}), `{"x":[1,2,3]}`},
		{
			"sorted keys",
			Map(map[string]Value{"b": Int(2), "a": Int(1), "c": Int(3)}),
			`{"a":1,"b":2,"c":3}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.v.Encode()
			if err != nil {
				t.Fatalf("Encode failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("Encode mismatch: got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestDecodeRoundTrip(t *testing.T) {
	inputs := []string{
		"null",
		"true",
		"42",
		"-1.5e10",
		`"text"`,
		"[1,[2,3],null]",
		`{"a":1,"b":{"c":[true,false]}}`,
	}

	for _, input := range inputs {
		v, err := Decode(input)
		if err != nil {
			t.Fatalf("Decode(%s) failed: %v", input, err)
		}
		out, err := v.Encode()
		if err != nil {
			t.Fatalf("Encode failed: %v", err)
		}
		back, err := Decode(out)
		if err != nil {
			t.Fatalf("Decode(Encode) failed: %v", err)
		}
		if !Equal(v, back) {
			t.Errorf("Round trip not structurally equal for %s", input)
		}
	}
}

func TestDecodeInvalid(t *testing.T) {
	inputs := []string{"", "{", "[1,", "nope", `"unterminated`, "1 2"}
	for _, input := range inputs {
		if _, err := Decode(input); !errors.Is(err, ErrInvalid) {
			t.Errorf("Decode(%q): expected ErrInvalid, got %v", input, err)
		}
	}
}

func TestEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b Value
		want bool
	}{
		{"same ints", Int(42), Int(42), true},
		{"different ints", Int(42), Int(43), false},
		{"int vs float text", Int(1), Number("1.0"), false},
		{"kind mismatch", Int(1), String("1"), false},
		{"lists ordered", List(Int(1), Int(2)), List(Int(2), Int(1)), false},
		{
			"maps unordered",
			Map(map[string]Value{"a": Int(1), "b": Int(2)}),
			Map(map[string]Value{"b": Int(2), "a": Int(1)}),
			true,
		},
		{
			"map missing key",
			Map(map[string]Value{"a": Int(1)}),
			Map(map[string]Value{"b": Int(1)}),
			false,
		},
		{"nulls", Null(), Null(), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Equal(tt.a, tt.b); got != tt.want {
				t.Errorf("Equal = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAccessors(t *testing.T) {
	if _, ok := Int(1).AsString(); ok {
		t.Error("AsString should fail for a number")
	}
	if s, ok := String("x").AsString(); !ok || s != "x" {
		t.Errorf("AsString failed: %q %v", s, ok)
	}
	if n, ok := Int(7).AsNumber(); !ok || n.String() != "7" {
		t.Errorf("AsNumber failed: %v %v", n, ok)
	}
	if b, ok := Bool(true).AsBool(); !ok || !b {
		t.Error("AsBool failed")
	}
	items, ok := List(Int(1)).Items()
	if !ok || len(items) != 1 {
		t.Error("Items failed")
	}
	fields, ok := Map(map[string]Value{"k": Null()}).Fields()
	if !ok || len(fields) != 1 {
		t.Error("Fields failed")
	}
}
