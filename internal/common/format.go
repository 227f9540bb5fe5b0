package common

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	// Default separator widths
	DefaultWidth = 80

	// SignificantDecimals is how many fractional digits balances show.
	SignificantDecimals = 6
)

// PrintSeparator prints a separator line with the specified character and width
func PrintSeparator(char string, width int) {
	fmt.Println(strings.Repeat(char, width))
}

// PrintHeader prints a formatted header with title and separators
func PrintHeader(title string, width int) {
	fmt.Println("\n" + strings.Repeat("=", width))
	fmt.Println(title)
	PrintSeparator("=", width)
}

// FormatSignificantDecimals trims a decimal string to at most
// SignificantDecimals fractional digits, dropping trailing zeros.
// Malformed input is returned unchanged.
func FormatSignificantDecimals(text string) string {
	d, err := decimal.NewFromString(text)
	if err != nil {
		return text
	}
	return d.Truncate(SignificantDecimals).String()
}

// FormatBalanceLine renders a labeled balance, using "---" while the value
// is unavailable.
func FormatBalanceLine(label, value, symbol string, available bool) string {
	if !available {
		return fmt.Sprintf("%s: --- %s", label, symbol)
	}
	return fmt.Sprintf("%s: %s %s", label, FormatSignificantDecimals(value), symbol)
}
