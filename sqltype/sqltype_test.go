package sqltype

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func TestBind(t *testing.T) {
	arg := Int.Bind(42)
	if arg.Value != 42 {
		t.Errorf("expected 42, got %v", arg.Value)
	}
	if arg.Type.TypeCode() != CodeInteger {
		t.Errorf("expected INTEGER, got %s", arg.Type.TypeCode())
	}
	v, err := arg.Type.Encode(arg.Value)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != int64(42) {
		t.Errorf("expected int64(42), got %#v", v)
	}
}

func TestEncodeWrongType(t *testing.T) {
	if _, err := Int.Encode("nope"); err == nil {
		t.Error("expected error encoding a string as int")
	}
	v, err := Int.Encode(nil)
	if err != nil || v != nil {
		t.Errorf("nil should encode as nil, got %v, %v", v, err)
	}
}

func TestDecode(t *testing.T) {
	n, err := Long.DecodeValue([]byte("17"))
	if err != nil || n != 17 {
		t.Errorf("expected 17, got %v, %v", n, err)
	}
	b, err := Boolean.DecodeValue(int64(1))
	if err != nil || !b {
		t.Errorf("expected true, got %v, %v", b, err)
	}
	if _, err := Varchar.DecodeValue(3.5); err == nil {
		t.Error("expected error decoding float as varchar")
	}
}

func TestParse(t *testing.T) {
	d, err := Date.ParseValue("2024-02-29")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Day() != 29 || d.Month() != time.February {
		t.Errorf("unexpected date %v", d)
	}
	if _, err := Bytes.Parse("abc"); err == nil {
		t.Error("bytes should not parse from text")
	}
	dec, err := Decimal.ParseValue("12.50")
	if err != nil || !dec.Equal(decimal.RequireFromString("12.5")) {
		t.Errorf("unexpected decimal %v, %v", dec, err)
	}
	id := uuid.New()
	got, err := UUID.ParseValue(id.String())
	if err != nil || got != id {
		t.Errorf("unexpected uuid %v, %v", got, err)
	}
}

func TestTextArray(t *testing.T) {
	v, err := TextArray.EncodeValue([]string{"a", "b"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != `{"a","b"}` {
		t.Errorf("unexpected encoding %#v", v)
	}
	back, err := TextArray.DecodeValue([]byte(`{"a","b"}`))
	if err != nil || len(back) != 2 || back[1] != "b" {
		t.Errorf("unexpected decoding %v, %v", back, err)
	}
}

type level int

func TestTransform(t *testing.T) {
	lt := Transform(Int, func(v int) level { return level(v) }, func(l level) int { return int(l) })
	if lt.TypeName() != Int.TypeName() || lt.TypeCode() != Int.TypeCode() {
		t.Error("transformed type should keep name and code")
	}
	v, err := lt.EncodeValue(level(3))
	if err != nil || v != int64(3) {
		t.Errorf("unexpected encoding %v, %v", v, err)
	}
	l, err := lt.DecodeValue(int64(4))
	if err != nil || l != level(4) {
		t.Errorf("unexpected decoding %v, %v", l, err)
	}
	p, err := lt.ParseValue("5")
	if err != nil || p != level(5) {
		t.Errorf("unexpected parse %v, %v", p, err)
	}
}

func TestLookup(t *testing.T) {
	tests := []struct {
		name  string
		want  string
		found bool
	}{
		{"INTEGER", "int", true},
		{"varchar(255)", "varchar", true},
		{"bigserial", "bigint", true},
		{"numeric(10,2)", "decimal", true},
		{"timestamptz", "timestamp", true},
		{"geometry", "varchar", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			typ, found := Lookup(tt.name)
			if found != tt.found || typ.TypeName() != tt.want {
				t.Errorf("Lookup(%q) = %s, %v", tt.name, typ.TypeName(), found)
			}
		})
	}
}
