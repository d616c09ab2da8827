package grouping

import (
	"sort"
	"strings"

	"github.com/kljensen/snowball"
	"golang.org/x/text/unicode/norm"
)

// NormalizeName приводит имя позиции к сравнимому виду:
// NFC-нормализация (текст после распознавания бывает в разложенной
// форме), нижний регистр, схлопывание внутренних пробелов, обрезка.
func NormalizeName(name string) string {
	name = norm.NFC.String(name)
	name = strings.ToLower(strings.TrimSpace(name))
	return strings.Join(strings.Fields(name), " ")
}

// tokenSortKey сортирует токены строки и склеивает их обратно.
// Делает сравнение нечувствительным к порядку слов.
func tokenSortKey(s string, stem bool) string {
	tokens := strings.Fields(NormalizeName(s))
	if stem {
		for i, token := range tokens {
			tokens[i] = stemToken(token)
		}
	}
	sort.Strings(tokens)
	return strings.Join(tokens, " ")
}

// stemToken возвращает основу русского слова по алгоритму Snowball.
// Слова, которые стеммер не принимает (числа, артикулы), остаются как есть.
func stemToken(token string) string {
	stemmed, err := snowball.Stem(token, "russian", true)
	if err != nil || stemmed == "" {
		return token
	}
	return stemmed
}

// TokenSortRatio схожесть двух строк на шкале 0-100, нечувствительная
// к порядку слов: токены сортируются, после чего сравниваются
// расстоянием Левенштейна
func TokenSortRatio(s1, s2 string) int {
	return tokenSortRatio(s1, s2, false)
}

// TokenSortRatioStemmed то же, что TokenSortRatio, но со стеммингом
// токенов: словоформы одного товара ("болты"/"болтов") совпадают
func TokenSortRatioStemmed(s1, s2 string) int {
	return tokenSortRatio(s1, s2, true)
}

func tokenSortRatio(s1, s2 string, stem bool) int {
	k1 := tokenSortKey(s1, stem)
	k2 := tokenSortKey(s2, stem)

	if k1 == k2 {
		return 100
	}
	if k1 == "" || k2 == "" {
		return 0
	}

	distance := levenshteinDistance(k1, k2)
	maxLen := len([]rune(k1))
	if l2 := len([]rune(k2)); l2 > maxLen {
		maxLen = l2
	}

	return int(float64(maxLen-distance) / float64(maxLen) * 100)
}

// levenshteinDistance расстояние Левенштейна между строками (по рунам)
func levenshteinDistance(s1, s2 string) int {
	r1 := []rune(s1)
	r2 := []rune(s2)
	len1 := len(r1)
	len2 := len(r2)

	if len1 == 0 {
		return len2
	}
	if len2 == 0 {
		return len1
	}

	prev := make([]int, len2+1)
	curr := make([]int, len2+1)
	for j := 0; j <= len2; j++ {
		prev[j] = j
	}

	for i := 1; i <= len1; i++ {
		curr[0] = i
		for j := 1; j <= len2; j++ {
			cost := 1
			if r1[i-1] == r2[j-1] {
				cost = 0
			}
			curr[j] = min3(
				prev[j]+1,      // удаление
				curr[j-1]+1,    // вставка
				prev[j-1]+cost, // замена
			)
		}
		prev, curr = curr, prev
	}

	return prev[len2]
}

func min3(a, b, c int) int {
	if a < b {
		if a < c {
			return a
		}
		return c
	}
	if b < c {
		return b
	}
	return c
}
