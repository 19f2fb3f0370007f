package checksum

import (
	"testing"
)

func TestSHA256Calculator_CalculateRaw(t *testing.T) {
	calc := New()

	tests := []struct {
		name     string
		content  string
		expected string
	}{
		{
			name:     "Empty string",
			content:  "",
			expected: "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855",
		},
		{
			name:     "abc",
			content:  "abc",
			expected: "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := calc.CalculateRaw([]byte(tt.content)); got != tt.expected {
				t.Errorf("CalculateRaw() = %s, want %s", got, tt.expected)
			}
		})
	}
}

func TestSHA256Calculator_CalculateContent(t *testing.T) {
	calc := New()
	header := []string{"Matricola", "Cognome"}
	base := calc.CalculateContent(header, [][]string{{"100", "Rossi"}, {"200", "Bianchi"}})

	tests := []struct {
		name    string
		header  []string
		records [][]string
		same    bool
	}{
		{"identical", header, [][]string{{"100", "Rossi"}, {"200", "Bianchi"}}, true},
		{"surrounding whitespace", []string{" Matricola", "Cognome "}, [][]string{{"100 ", " Rossi"}, {"200", "Bianchi"}}, true},
		{"padded trailing cells", header, [][]string{{"100", "Rossi", ""}, {"200", "Bianchi", " "}}, true},
		{"blank rows", header, [][]string{{"", ""}, {"100", "Rossi"}, {}, {"200", "Bianchi"}}, true},
		{"different cell", header, [][]string{{"100", "Rossi"}, {"200", "Verdi"}}, false},
		{"different order", header, [][]string{{"200", "Bianchi"}, {"100", "Rossi"}}, false},
		{"cells moved across boundary", header, [][]string{{"100Rossi"}, {"200", "Bianchi"}}, false},
		{"empty middle cell matters", header, [][]string{{"", "100", "Rossi"}, {"200", "Bianchi"}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := calc.CalculateContent(tt.header, tt.records)
			if (got == base) != tt.same {
				t.Errorf("CalculateContent() same = %v, want %v", got == base, tt.same)
			}
			if len(got) != 64 {
				t.Errorf("CalculateContent() returned hash of length %d, expected 64", len(got))
			}
		})
	}
}

func TestShort(t *testing.T) {
	if got := Short("0123456789abcdef"); got != "0123456789ab" {
		t.Errorf("Short() = %q", got)
	}
	if got := Short("abc"); got != "abc" {
		t.Errorf("Short() = %q", got)
	}
}
