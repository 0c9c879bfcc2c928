package utils

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const dateLayout = "2006-01-02"

var printer = message.NewPrinter(language.English)

// RoundMoney rounds an amount to cents.
func RoundMoney(amount decimal.Decimal) decimal.Decimal {
	return amount.Round(2)
}

// FormatCurrency renders an amount with digit grouping and two decimals,
// e.g. "PHP 1,234.50". An empty symbol renders the number alone.
func FormatCurrency(amount decimal.Decimal, symbol string) string {
	rounded := RoundMoney(amount)

	sign := ""
	if rounded.IsNegative() {
		sign = "-"
	}

	abs := rounded.Abs()
	whole := abs.Truncate(0)
	cents := strings.TrimPrefix(abs.Sub(whole).StringFixed(2), "0")

	number := printer.Sprintf("%d", whole.IntPart()) + cents
	if symbol == "" {
		return sign + number
	}
	return fmt.Sprintf("%s%s %s", sign, symbol, number)
}

// FormatPercent renders a percentage with one decimal, e.g. "12.5%".
func FormatPercent(value decimal.Decimal) string {
	return value.StringFixed(1) + "%"
}

// ParseDate accepts an ISO-8601 date ("2024-01-31") or an RFC 3339 timestamp.
// Date-only values are midnight UTC.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD or RFC 3339", s)
	}
	return t, nil
}

// ParseOptionalDate is ParseDate for form fields that may be left blank.
func ParseOptionalDate(s string) (*time.Time, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	t, err := ParseDate(s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// StartOfMonth returns midnight on the first day of t's month.
func StartOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// DecimalFromString converts string to decimal.Decimal
func DecimalFromString(s string) (decimal.Decimal, error) {
	return decimal.NewFromString(s)
}
