package waexport

import "regexp"

const (
	datePattern  = `(\d{1,2}/\d{1,2}/\d{2})`
	clockPattern = `(\d{1,2}:\d{2}(?::\d{2})?[ \x{202F}][AaPp][Mm])`
	// sender runs up to the first colon; the body follows ": " or nothing
	senderBody = `([^:]+):(?: (.*))?$`
)

// Dialect describes one transcript line syntax
type Dialect struct {
	Name string
	// Start matches date, time, sender and body
	Start *regexp.Regexp
	// SystemStart matches date, time and body for sender-less lines; may be nil
	SystemStart *regexp.Regexp
	// DefaultOrder resolves dates whose fields are both 12 or less
	DefaultOrder DateOrder
}

var (
	// DialectBracketed is "[d/m/yy, h:mm:ss AM] Sender: body" (iOS exports)
	DialectBracketed = Dialect{
		Name:         "bracketed",
		Start:        regexp.MustCompile(`^\[` + datePattern + `, ` + clockPattern + `\] ` + senderBody),
		DefaultOrder: DayFirst,
	}

	// DialectDashed is "m/d/yy, h:mm AM - Sender: body" (Android exports)
	DialectDashed = Dialect{
		Name:         "dashed",
		Start:        regexp.MustCompile(`^` + datePattern + `, ` + clockPattern + ` - ` + senderBody),
		SystemStart:  regexp.MustCompile(`^` + datePattern + `, ` + clockPattern + ` - (.*)$`),
		DefaultOrder: MonthFirst,
	}
)

// DefaultDialects returns the recognised dialects in match priority order
func DefaultDialects() []Dialect {
	return []Dialect{DialectBracketed, DialectDashed}
}
