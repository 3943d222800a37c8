package io

import (
	"fmt"
	"strconv"
	"strings"
)

// Range is an inclusive range of memory addresses.
type Range struct {
	Start int
	End   int
}

// ParseRange parses "START-END" or a single "ADDR". Addresses may use any
// Go integer literal base prefix.
func ParseRange(text string) (rng Range, err error) {
	text = strings.TrimSpace(text)

	start, end, found := strings.Cut(text, "-")
	if !found {
		end = start
	}

	rng.Start, err = parseAddress(start)
	if err != nil {
		return
	}

	rng.End, err = parseAddress(end)
	if err != nil {
		return
	}

	if rng.Start > rng.End {
		err = fmt.Errorf("%w: %v", ErrRangeOrder, text)
		return
	}

	return
}

func parseAddress(word string) (addr int, err error) {
	word = strings.TrimSpace(word)
	value, err := strconv.ParseUint(word, 0, 32)
	if err != nil {
		err = fmt.Errorf("%w: %q", ErrRangeSyntax, word)
		return
	}

	addr = int(value)
	return
}

// Len returns the number of addresses in the range.
func (rng Range) Len() int {
	return max(rng.End-rng.Start+1, 0)
}

func (rng Range) String() string {
	if rng.Start == rng.End {
		return fmt.Sprintf("%d", rng.Start)
	}
	return fmt.Sprintf("%d-%d", rng.Start, rng.End)
}
