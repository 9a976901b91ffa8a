package audio

import "testing"

func TestFilename(t *testing.T) {
	tests := []struct {
		name     string
		word     string
		expected string
	}{
		{
			name:     "plain word",
			word:     "vaca",
			expected: "vaca.mp3",
		},
		{
			name:     "accented word",
			word:     "plátano",
			expected: "platano.mp3",
		},
		{
			name:     "enye",
			word:     "niño",
			expected: "nino.mp3",
		},
		{
			name:     "uppercase and spaces",
			word:     "  Mariposa Azul ",
			expected: "mariposa_azul.mp3",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Filename(tt.word); got != tt.expected {
				t.Errorf("Filename(%q) = %v, want %v", tt.word, got, tt.expected)
			}
		})
	}
}
