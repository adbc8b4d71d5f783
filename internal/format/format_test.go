package format

import (
	"testing"
	"time"
)

func TestCurrency(t *testing.T) {
	cases := []struct {
		minor    int64
		currency string
		want     string
	}{
		{3000, "USD", "$30.00"},
		{123456, "USD", "$1,234.56"},
		{-995, "USD", "-$9.95"},
		{12345, "JPY", "¥12,345"},
		{5000, "EUR", "EUR 5,000"},
	}
	for _, c := range cases {
		if got := Currency(c.minor, c.currency); got != c.want {
			t.Errorf("Currency(%d, %s) = %q, want %q", c.minor, c.currency, got, c.want)
		}
	}
}

func TestWorkTime(t *testing.T) {
	cases := []struct {
		price, wage int64
		want        string
	}{
		{3000, 2000, "1h 30m"},   // $30 at $20/h
		{1000, 2000, "30m"},      // $10 at $20/h
		{4000, 2000, "2h"},       // exact hours
		{2999, 2000, "1h 30m"},   // rounds to nearest minute
		{3000, 0, ""},            // no wage configured
		{-100, 2000, ""},         // negative price
	}
	for _, c := range cases {
		if got := WorkTime(c.price, c.wage); got != c.want {
			t.Errorf("WorkTime(%d, %d) = %q, want %q", c.price, c.wage, got, c.want)
		}
	}
}

func TestDateLocalized(t *testing.T) {
	d := time.Date(2026, 7, 14, 0, 0, 0, 0, time.UTC)
	if got := Date(d, "en"); got != "Jul 14, 2026" {
		t.Errorf("en date = %q", got)
	}
	if got := Date(d, "ja"); got != "2026年7月14日" {
		t.Errorf("ja date = %q", got)
	}
}
