package ai

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ExtractJSON извлекает первое синтаксически сбалансированное JSON-значение
// ({...} или [...]) из свободного текста ответа модели. Текст может
// содержать пояснения до и после JSON и markdown-ограждения ```json.
// Сканер учитывает строки и экранирование, а не ищет жадным regex:
// при нескольких JSON-значениях верхнего уровня ответ считается
// неоднозначным и возвращается ошибка.
func ExtractJSON(text string) (string, error) {
	cleaned := stripCodeFences(text)

	var candidates []string
	rest := cleaned
	offset := 0
	for {
		start, end, ok := scanBalanced(rest)
		if !ok {
			break
		}
		candidate := rest[start:end]
		if json.Valid([]byte(candidate)) {
			candidates = append(candidates, candidate)
		}
		offset += end
		rest = cleaned[offset:]
	}

	switch len(candidates) {
	case 0:
		return "", fmt.Errorf("no valid JSON value found in response")
	case 1:
		return candidates[0], nil
	default:
		return "", fmt.Errorf("ambiguous response: %d JSON values found", len(candidates))
	}
}

// ExtractJSONInto извлекает JSON из текста и декодирует его в v
func ExtractJSONInto(text string, v any) error {
	raw, err := ExtractJSON(text)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return fmt.Errorf("unmarshal extracted JSON: %w", err)
	}
	return nil
}

// stripCodeFences убирает markdown-ограждения из ответа модели
func stripCodeFences(text string) string {
	text = strings.ReplaceAll(text, "```json", "")
	text = strings.ReplaceAll(text, "```", "")
	return strings.TrimSpace(text)
}

// scanBalanced находит первую сбалансированную {...} или [...]
// подстроку. Возвращает границы подстроки [start, end).
func scanBalanced(text string) (int, int, bool) {
	start := -1
	var open, close byte
	for i := 0; i < len(text); i++ {
		if text[i] == '{' {
			start, open, close = i, '{', '}'
			break
		}
		if text[i] == '[' {
			start, open, close = i, '[', ']'
			break
		}
	}
	if start < 0 {
		return 0, 0, false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		ch := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				return start, i + 1, true
			}
		}
	}

	return 0, 0, false
}
