// Package locale holds the console's message catalog and the number, money
// and date formatting used by views and exports. English and Bulgarian are
// supported; anything else falls back to English.
package locale

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
	"golang.org/x/text/number"
)

// Message keys.
const (
	KeyGenericError = "error.generic"
	KeyCurrency     = "money.bgn"
	KeyRangeLabel   = "range."
	KeyCustomRange  = "range.custom"
	KeyUnknownUser  = "user.unknown"
)

var (
	English   = language.English
	Bulgarian = language.Bulgarian
)

var messages = map[language.Tag]map[string]string{
	English: {
		KeyGenericError:                 "Something went wrong, please try again later.",
		KeyCurrency:                     "%s BGN",
		KeyCustomRange:                  "%s - %s",
		KeyUnknownUser:                  "unknown",
		KeyRangeLabel + "all_time":      "All time",
		KeyRangeLabel + "today":         "Today",
		KeyRangeLabel + "last_7_days":   "Last 7 days",
		KeyRangeLabel + "last_30_days":  "Last 30 days",
		KeyRangeLabel + "last_90_days":  "Last 90 days",
		KeyRangeLabel + "last_365_days": "Last 365 days",
	},
	Bulgarian: {
		KeyGenericError:                 "Възникна грешка, моля опитайте по-късно",
		KeyCurrency:                     "%s лв.",
		KeyCustomRange:                  "%s - %s",
		KeyUnknownUser:                  "неизвестен",
		KeyRangeLabel + "all_time":      "За цялото време",
		KeyRangeLabel + "today":         "Днес",
		KeyRangeLabel + "last_7_days":   "Последните 7 дни",
		KeyRangeLabel + "last_30_days":  "Последните 30 дни",
		KeyRangeLabel + "last_90_days":  "Последните 90 дни",
		KeyRangeLabel + "last_365_days": "Последните 365 дни",
	},
}

var cat = buildCatalog()

func buildCatalog() catalog.Catalog {
	b := catalog.NewBuilder(catalog.Fallback(English))
	for tag, m := range messages {
		for key, msg := range m {
			if err := b.SetString(tag, key, msg); err != nil {
				panic(err)
			}
		}
	}
	return b
}

// Locale formats text for one language and time zone.
type Locale struct {
	tag     language.Tag
	printer *message.Printer
	loc     *time.Location
}

// New returns a Locale for lang ("en", "bg", "bg-BG", ...). Unknown or empty
// languages use English. A nil loc means time.Local.
func New(lang string, loc *time.Location) *Locale {
	tag := English
	if t, err := language.Parse(strings.TrimSpace(lang)); err == nil {
		if base, _ := t.Base(); base.String() == "bg" {
			tag = Bulgarian
		}
	}
	if loc == nil {
		loc = time.Local
	}
	return &Locale{
		tag:     tag,
		printer: message.NewPrinter(tag, message.Catalog(cat)),
		loc:     loc,
	}
}

// Tag is the resolved language.
func (l *Locale) Tag() language.Tag { return l.tag }

// Lang is the two-letter language code, suitable for <html lang>.
func (l *Locale) Lang() string {
	base, _ := l.tag.Base()
	return base.String()
}

// Location is the time zone dates are shown in.
func (l *Locale) Location() *time.Location { return l.loc }

// T translates key, formatting args into the message. Unknown keys are
// returned unchanged.
func (l *Locale) T(key string, args ...any) string {
	return l.printer.Sprintf(key, args...)
}

// GenericError is the message shown when a failure carries no text of its own.
func (l *Locale) GenericError() string {
	return l.T(KeyGenericError)
}

// RangeLabel translates a named range. Custom and unknown keys return
// fallback.
func (l *Locale) RangeLabel(key, fallback string) string {
	if key == "" {
		return fallback
	}
	k := KeyRangeLabel + key
	if _, ok := messages[English][k]; !ok {
		return fallback
	}
	return l.T(k)
}

// Number formats d with two fraction digits and locale grouping.
func (l *Locale) Number(d decimal.Decimal) string {
	f, _ := d.Round(2).Float64()
	return l.printer.Sprint(number.Decimal(f, number.Scale(2)))
}

// Money formats d as an amount in Bulgarian lev.
func (l *Locale) Money(d decimal.Decimal) string {
	return l.T(KeyCurrency, l.Number(d))
}

// Day formats t as YYYY-MM-DD in the locale's time zone.
func (l *Locale) Day(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.In(l.loc).Format("2006-01-02")
}

// DateTime formats t as YYYY-MM-DD HH:MM in the locale's time zone.
func (l *Locale) DateTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.In(l.loc).Format("2006-01-02 15:04")
}
