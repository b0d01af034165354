package util

import "testing"

func TestParseAmountCents(t *testing.T) {
	cases := []struct {
		in   string
		want int64
	}{
		{"1234.56", 123456},
		{"1234.5", 123450},
		{"1234", 123400},
		{"0.07", 7},
		{".50", 50},
		{"-3.07", -307},
		{" 10.00 ", 1000},
	}
	for _, c := range cases {
		got, err := ParseAmountCents(c.in)
		if err != nil {
			t.Errorf("ParseAmountCents(%q): %v", c.in, err)
			continue
		}
		if got != c.want {
			t.Errorf("ParseAmountCents(%q) = %d, want %d", c.in, got, c.want)
		}
	}
}

func TestParseAmountCentsRejectsInvalid(t *testing.T) {
	for _, in := range []string{"", "abc", "1.234", "1.2.3", "1,50"} {
		if _, err := ParseAmountCents(in); err == nil {
			t.Errorf("ParseAmountCents(%q) should fail", in)
		}
	}
}

func TestFormatAmountCents(t *testing.T) {
	cases := []struct {
		in   int64
		want string
	}{
		{123456, "1234.56"},
		{7, "0.07"},
		{-307, "-3.07"},
		{0, "0.00"},
	}
	for _, c := range cases {
		if got := FormatAmountCents(c.in); got != c.want {
			t.Errorf("FormatAmountCents(%d) = %q, want %q", c.in, got, c.want)
		}
	}
}
