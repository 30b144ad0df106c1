package scoring

import (
	"fmt"
	"strconv"
)

// FormatPosition renders a finish as "1st", "2nd" and so on, or "-" when
// there is none.
func FormatPosition(position int) string {
	if position <= 0 {
		return "-"
	}
	suffix := "th"
	switch position {
	case 1:
		suffix = "st"
	case 2:
		suffix = "nd"
	case 3:
		suffix = "rd"
	}
	return strconv.Itoa(position) + suffix
}

// FormatBonus renders a difficulty bonus with a sign and two decimals.
func FormatBonus(v float64) string {
	return fmt.Sprintf("+%.2f", v)
}
