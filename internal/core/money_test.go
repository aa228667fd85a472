package core

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in  string
		out int64
		ok  bool
	}{
		{"1", 100, true},
		{"1.0", 100, true},
		{"1.23", 123, true},
		{"1,23", 123, true},
		{"0.01", 1, true},
		{"0", 0, true},
		{".5", 50, true},
		{"1.005", 101, true}, // half-up rounding
		{"12,345", 1235, true},
		{" 2.50 ", 250, true},
		{"-1", 0, false},
		{"abc", 0, false},
		{"1.2.3", 0, false},
		{"1e3", 0, false},
		{"", 0, false},
		{"100000000001", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseAmount(tc.in)
		if tc.ok {
			if err != nil || got.Cents() != tc.out {
				t.Fatalf("%q expected %d, got %d (err=%v)", tc.in, tc.out, got.Cents(), err)
			}
			continue
		}
		if !errors.Is(err, ErrInvalidAmount) {
			t.Fatalf("%q expected ErrInvalidAmount, got %v", tc.in, err)
		}
		if !IsValidation(err) {
			t.Fatalf("%q expected a validation error", tc.in)
		}
	}
}

func TestParseSignedAmount(t *testing.T) {
	m, err := ParseSignedAmount("-1250.00")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.Cents() != -125000 || m.String() != "-1250.00" {
		t.Fatalf("got %s", m)
	}
	if _, err := ParseSignedAmount("--1"); !errors.Is(err, ErrInvalidBalance) {
		t.Fatalf("expected ErrInvalidBalance, got %v", err)
	}
}

func TestMoneyArithmetic(t *testing.T) {
	a := MustParseMoney("100.00")
	a = a.Sub(MustParseMoney("30.00"))
	if a.String() != "70.00" {
		t.Fatalf("after expense got %s", a)
	}
	a = a.Add(MustParseMoney("50.00"))
	if a.String() != "120.00" {
		t.Fatalf("after income got %s", a)
	}
	if got := Sum(MustParseMoney("0.10"), MustParseMoney("0.20")); got.String() != "0.30" {
		t.Fatalf("sum got %s", got)
	}
	if !MustParseMoney("-1").IsNegative() || MustParseMoney("-1").Neg().String() != "1.00" {
		t.Fatalf("negation broken")
	}
	if !NewMoneyFromCents(4200).Equal(MustParseMoney("42")) {
		t.Fatalf("cents constructor mismatch")
	}
}

func TestMoneyJSON(t *testing.T) {
	b, err := json.Marshal(struct {
		Balance Money `json:"balance"`
	}{MustParseMoney("5420.5")})
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != `{"balance":"5420.50"}` {
		t.Fatalf("got %s", b)
	}

	var out struct {
		A Money `json:"a"`
		B Money `json:"b"`
	}
	if err := json.Unmarshal([]byte(`{"a":"12.345","b":7}`), &out); err != nil {
		t.Fatal(err)
	}
	if out.A.String() != "12.35" || out.B.String() != "7.00" {
		t.Fatalf("got %s %s", out.A, out.B)
	}
	if err := json.Unmarshal([]byte(`{"a":"x"}`), &out); err == nil {
		t.Fatalf("expected decode error")
	}
}
