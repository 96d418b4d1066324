package highlight

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidLabel is returned when a column label is empty or contains
// anything other than the letters A-Z (either case).
var ErrInvalidLabel = errors.New("invalid column label")

// IndexToLetters converts a zero-based column index to its spreadsheet label
// ("A", "B", ... "Z", "AA", ...). Labels are bijective base-26: the digits
// A-Z carry the values 1-26 and there is no zero digit, which is why "AA"
// follows "Z". Negative indices have no label and yield "".
func IndexToLetters(index int) string {
	if index < 0 {
		return ""
	}

	var buf [16]byte
	n := len(buf)
	for rem := index; rem >= 0; rem = rem/26 - 1 {
		n--
		buf[n] = byte('A' + rem%26)
	}
	return string(buf[n:])
}

// LettersToIndex is the inverse of IndexToLetters. Input is case-insensitive.
func LettersToIndex(label string) (int, error) {
	if label == "" {
		return 0, fmt.Errorf("%w: empty", ErrInvalidLabel)
	}

	index := 0
	for i := 0; i < len(label); i++ {
		c := label[i]
		if c >= 'a' && c <= 'z' {
			c -= 'a' - 'A'
		}
		if c < 'A' || c > 'Z' {
			return 0, fmt.Errorf("%w: %q", ErrInvalidLabel, label)
		}
		if index > (math.MaxInt-26)/26 {
			return 0, fmt.Errorf("%w: %q is too long", ErrInvalidLabel, label)
		}
		index = index*26 + int(c-'A'+1)
	}
	return index - 1, nil
}
