package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/JonMunkholm/errgrid/internal/highlight"
)

// Conversion is one converted argument of the letters command.
type Conversion struct {
	Input  string
	Output string
}

// ConvertLetters turns zero-based indexes into column labels and labels into
// indexes.
func ConvertLetters(args []string) ([]Conversion, error) {
	out := make([]Conversion, 0, len(args))
	for _, arg := range args {
		arg = strings.TrimSpace(arg)
		if n, err := strconv.Atoi(arg); err == nil {
			if n < 0 {
				return nil, fmt.Errorf("%q: index must be non-negative", arg)
			}
			out = append(out, Conversion{Input: arg, Output: highlight.IndexToLetters(n)})
			continue
		}

		idx, err := highlight.LettersToIndex(strings.ToUpper(arg))
		if err != nil {
			return nil, fmt.Errorf("%q: %w", arg, err)
		}
		out = append(out, Conversion{Input: arg, Output: strconv.Itoa(idx)})
	}
	return out, nil
}
