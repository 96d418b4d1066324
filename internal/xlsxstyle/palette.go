// Package xlsxstyle carries highlight decisions into spreadsheet documents.
//
// Styling is two separate steps. [Register] appends one solid-fill style per
// highlight outcome to the document's style table and returns an immutable
// [Registry]. [Styler.Apply] then walks the worksheet's cells and points each
// highlighted cell at the registered style. Register must run exactly once
// per document; Apply may run any number of times.
package xlsxstyle

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/JonMunkholm/errgrid/internal/highlight"
)

// Palette maps each outcome to an RGB hex background colour ("D2232A").
type Palette map[highlight.Outcome]string

// DefaultPalette returns the standard highlight colours.
func DefaultPalette() Palette {
	return Palette{
		highlight.OutcomeErrorCell:   "D2232A",
		highlight.OutcomeWarningCell: "FFD200",
		highlight.OutcomeErrorAxis:   "F6D3D4",
		highlight.OutcomeWarningAxis: "FFEFAC",
		highlight.OutcomeCrossAxis:   "FBE1C0",
	}
}

// LoadPalette reads colour overrides from a YAML file mapping outcome names
// to hex colours. Outcomes missing from the file keep their default colour.
//
//	error-cell: "D2232A"
//	cross-axis: "#FBE1C0"
func LoadPalette(path string) (Palette, error) {
	p := DefaultPalette()
	if path == "" {
		return p, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read palette: %w", err)
	}

	var overrides map[string]string
	if err := yaml.Unmarshal(data, &overrides); err != nil {
		return nil, fmt.Errorf("parse palette %s: %w", path, err)
	}

	for name, color := range overrides {
		o := highlight.Outcome(name)
		if _, ok := p[o]; !ok {
			return nil, fmt.Errorf("palette %s: unknown outcome %q", path, name)
		}
		p[o] = color
	}

	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("palette %s: %w", path, err)
	}
	return p, nil
}

// Validate checks that every outcome has a six-digit hex colour.
func (p Palette) Validate() error {
	for _, o := range highlight.Outcomes {
		c, ok := p[o]
		if !ok {
			return fmt.Errorf("missing colour for %s", o)
		}
		if !isHexColor(normalizeHex(c)) {
			return fmt.Errorf("invalid colour %q for %s", c, o)
		}
	}
	return nil
}

// Color returns the normalized colour for o (upper case, no leading '#').
func (p Palette) Color(o highlight.Outcome) string {
	return normalizeHex(p[o])
}

func normalizeHex(c string) string {
	return strings.ToUpper(strings.TrimPrefix(strings.TrimSpace(c), "#"))
}

func isHexColor(c string) bool {
	if len(c) != 6 {
		return false
	}
	for _, r := range c {
		if !strings.ContainsRune("0123456789ABCDEF", r) {
			return false
		}
	}
	return true
}
