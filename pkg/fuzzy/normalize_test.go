package fuzzy

import "testing"

func TestNormalizeQuery(t *testing.T) {
	normalizer := NewNormalizer()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"lowercase", "BAD BUNNY DAKITI", "bad bunny dakiti"},
		{"diacritics", "Beyoncé Halo", "beyonce halo"},
		{"punctuation", "AC/DC - Back in Black!", "ac dc back in black"},
		{"whitespace collapse", "  bad   bunny\tdakiti ", "bad bunny dakiti"},
		{"compatibility forms", "ｂａｄ ｂｕｎｎｙ", "bad bunny"},
		{"digits survive", "Bzrp Music Sessions, Vol. 52", "bzrp music sessions vol 52"},
		{"empty", "", ""},
		{"only punctuation", "!?&...", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := normalizer.NormalizeQuery(tt.input); got != tt.want {
				t.Errorf("NormalizeQuery(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeQuery_EquivalentInputsAgree(t *testing.T) {
	normalizer := NewNormalizer()

	pairs := [][2]string{
		{"Beyoncé — Halo ", "beyonce halo"},
		{"Bad Bunny - Dakiti", "bad bunny dakiti"},
		{"ROSALÍA & Rauw Alejandro", "rosalia rauw alejandro"},
	}
	for _, pair := range pairs {
		a := normalizer.NormalizeQuery(pair[0])
		b := normalizer.NormalizeQuery(pair[1])
		if a != b {
			t.Errorf("NormalizeQuery(%q) = %q, NormalizeQuery(%q) = %q; want equal",
				pair[0], a, pair[1], b)
		}
	}
}
