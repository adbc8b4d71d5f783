// Package format renders the human-facing numbers the site shows: prices,
// the working time a price costs, and localized dates.
package format

import (
	"fmt"
	"strings"
	"time"
)

// Currency formats an amount in minor units. Only the currencies the
// landing page demos are special-cased.
func Currency(minor int64, currency string) string {
	switch strings.ToUpper(currency) {
	case "JPY":
		return "¥" + thousandSep(minor)
	case "USD":
		neg := minor < 0
		if neg {
			minor = -minor
		}
		s := fmt.Sprintf("$%s.%02d", thousandSep(minor/100), minor%100)
		if neg {
			return "-" + s
		}
		return s
	default:
		return fmt.Sprintf("%s %s", strings.ToUpper(currency), thousandSep(minor))
	}
}

// WorkTime converts a price into the working time it costs at the given
// hourly wage, both in minor units. The result reads like "1h 30m";
// sub-hour amounts drop the hour part. A non-positive wage yields "".
func WorkTime(priceMinor, wageMinor int64) string {
	if wageMinor <= 0 || priceMinor < 0 {
		return ""
	}
	// round to the nearest minute
	minutes := (priceMinor*60 + wageMinor/2) / wageMinor
	h := minutes / 60
	m := minutes % 60
	switch {
	case h == 0:
		return fmt.Sprintf("%dm", m)
	case m == 0:
		return fmt.Sprintf("%dh", h)
	default:
		return fmt.Sprintf("%dh %dm", h, m)
	}
}

// Date formats a date in a locale-friendly short form.
func Date(t time.Time, lang string) string {
	switch strings.ToLower(lang) {
	case "ja":
		return t.Format("2006年1月2日")
	default:
		return t.Format("Jan 2, 2006")
	}
}

func thousandSep(n int64) string {
	s := fmt.Sprintf("%d", n)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	var b strings.Builder
	for i, c := range s {
		if i != 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(c)
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}
