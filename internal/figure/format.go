// Package figure renders the dashboard's visual outputs: the choropleth map
// and the bar charts, both as SVG.
package figure

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// Count formats a counter with thousands separators, e.g. 1234567 -> "1,234,567".
func Count(n int64) string {
	return printer.Sprintf("%d", n)
}
