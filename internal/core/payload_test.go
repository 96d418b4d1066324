package core

import (
	"bytes"
	"testing"
)

func TestReadPayload(t *testing.T) {
	tests := []struct {
		name     string
		input    []byte
		expected string
	}{
		{
			name:     "payload with BOM",
			input:    append([]byte{0xEF, 0xBB, 0xBF}, []byte(`{"columns":["a"]}`)...),
			expected: `{"columns":["a"]}`,
		},
		{
			name:     "payload without BOM",
			input:    []byte(`{"columns":["a"]}`),
			expected: `{"columns":["a"]}`,
		},
		{
			name:     "empty payload",
			input:    []byte{},
			expected: "",
		},
		{
			name:     "only BOM",
			input:    []byte{0xEF, 0xBB, 0xBF},
			expected: "",
		},
		{
			name:     "partial BOM at start",
			input:    []byte{0xEF, 0xBB, 'a', 'b', 'c'},
			expected: string([]byte{0xEF, 0xBB, 'a', 'b', 'c'}),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ReadPayload(bytes.NewReader(tt.input))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if string(result) != tt.expected {
				t.Errorf("got %q, want %q", string(result), tt.expected)
			}
		})
	}
}

func TestDecodeReport_WithBOM(t *testing.T) {
	raw, err := ReadPayload(bytes.NewReader(append([]byte{0xEF, 0xBB, 0xBF}, samplePayload...)))
	if err != nil {
		t.Fatalf("ReadPayload() error = %v", err)
	}
	if _, err := DecodeReport(raw, DefaultLimits); err != nil {
		t.Errorf("DecodeReport() error = %v", err)
	}
}
