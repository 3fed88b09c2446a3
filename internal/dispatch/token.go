package dispatch

import (
	"fmt"
	"strings"
)

// Token formats the date-scoped ticket token, e.g. T-20240501-003 for the
// third ticket of 2024-05-01. issued is the number of tickets already
// created for the date; the sequence starts at 1. Uniqueness holds only for
// sequential creation: the backing count query is not an atomic sequence,
// so concurrent creation for the same date can repeat a number.
func Token(date string, issued int) string {
	return fmt.Sprintf("T-%s-%03d", strings.ReplaceAll(date, "-", ""), issued+1)
}
