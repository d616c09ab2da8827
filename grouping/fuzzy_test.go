package grouping

import "testing"

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"  Плитка   Керамическая 60x60 ", "плитка керамическая 60x60"},
		{"ТРУБА\tСТАЛЬНАЯ", "труба стальная"},
		{"", ""},
		{"   ", ""},
	}

	for _, tt := range tests {
		if got := NormalizeName(tt.in); got != tt.want {
			t.Errorf("NormalizeName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestTokenSortRatio_WordOrderInsensitive(t *testing.T) {
	if got := TokenSortRatio("Ceramic Tile 60x60", "Tile Ceramic 60x60"); got != 100 {
		t.Errorf("reordered tokens must score 100, got %d", got)
	}
	if got := TokenSortRatio("Плитка керамическая 60x60", "Керамическая плитка 60x60"); got != 100 {
		t.Errorf("reordered Russian tokens must score 100, got %d", got)
	}
}

func TestTokenSortRatio_DifferentItems(t *testing.T) {
	got := TokenSortRatio("Ceramic Tile", "Steel Pipe")
	if got >= DefaultThreshold {
		t.Errorf("unrelated items must score below threshold %d, got %d", DefaultThreshold, got)
	}
}

func TestTokenSortRatio_Identical(t *testing.T) {
	if got := TokenSortRatio("Болт М8", "Болт М8"); got != 100 {
		t.Errorf("identical strings must score 100, got %d", got)
	}
}

func TestTokenSortRatio_Empty(t *testing.T) {
	if got := TokenSortRatio("", "Болт М8"); got != 0 {
		t.Errorf("empty string must score 0, got %d", got)
	}
	if got := TokenSortRatio("", ""); got != 100 {
		t.Errorf("two empty strings must score 100, got %d", got)
	}
}

func TestTokenSortRatio_CaseInsensitive(t *testing.T) {
	if got := TokenSortRatio("ТРУБА СТАЛЬНАЯ", "труба стальная"); got != 100 {
		t.Errorf("case must not matter, got %d", got)
	}
}

func TestTokenSortRatioStemmed(t *testing.T) {
	// Словоформы одного товара без стемминга не совпадают полностью
	plain := TokenSortRatio("болты оцинкованные", "болт оцинкованный")
	stemmed := TokenSortRatioStemmed("болты оцинкованные", "болт оцинкованный")

	if stemmed < plain {
		t.Errorf("stemming must not lower similarity: plain %d, stemmed %d", plain, stemmed)
	}
	if stemmed != 100 {
		t.Errorf("inflected forms must match after stemming, got %d", stemmed)
	}
}

func TestLevenshteinDistance(t *testing.T) {
	tests := []struct {
		s1, s2 string
		want   int
	}{
		{"", "", 0},
		{"болт", "", 4},
		{"болт", "болт", 0},
		{"болт", "болты", 1},
		{"кот", "ток", 2},
	}

	for _, tt := range tests {
		if got := levenshteinDistance(tt.s1, tt.s2); got != tt.want {
			t.Errorf("levenshteinDistance(%q, %q) = %d, want %d", tt.s1, tt.s2, got, tt.want)
		}
	}
}
