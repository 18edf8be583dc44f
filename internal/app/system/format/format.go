// internal/app/system/format/format.go
//
// Package format holds the pure display-formatting helpers shared by
// the templates: naira currency amounts and long-form dates.
package format

import (
	"strconv"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

const nairaSign = "₦"

var printer = message.NewPrinter(language.English)

// Currency renders an amount as Nigerian naira with thousands grouping
// and two decimal places, e.g. 1234.5 → "₦1,234.50".
func Currency(amount float64) string {
	return nairaSign + printer.Sprintf("%v",
		number.Decimal(amount,
			number.MinFractionDigits(2),
			number.MaxFractionDigits(2)))
}

// Count renders an integer for a stat card.
func Count(n int) string {
	return strconv.Itoa(n)
}

// dateLayouts are tried in order when parsing a date from the API.
var dateLayouts = []string{"2006-01-02", time.RFC3339, "2006-01-02 15:04:05"}

// Date renders a date string as "January 2, 2006". Unparseable input is
// returned unchanged so a malformed upstream value still displays.
func Date(s string) string {
	if s == "" {
		return ""
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("January 2, 2006")
		}
	}
	return s
}
