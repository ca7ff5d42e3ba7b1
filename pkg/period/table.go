// Package period holds the fixed delay table and the selector
// choosing the active blink period from it.
package period

import "time"

// Size is the number of entries in a Table.
const Size = 8

// Table is an ordered set of blink periods. Indexes wrap modulo Size.
type Table [Size]time.Duration

// Default is the table the firmware ships with.
var Default = Table{
	500 * time.Millisecond,
	1000 * time.Millisecond,
	1500 * time.Millisecond,
	2000 * time.Millisecond,
	2500 * time.Millisecond,
	3000 * time.Millisecond,
	3500 * time.Millisecond,
	4000 * time.Millisecond,
}

// At returns the period at index, wrapping out-of-range indexes.
func (t *Table) At(index int) time.Duration {
	return t[Wrap(index)]
}

// Wrap maps any index into [0, Size).
func Wrap(index int) int {
	index %= Size
	if index < 0 {
		index += Size
	}
	return index
}
