package util

import "strings"

func StripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// SanitizeReport чистит ответ LLM от Markdown-артефактов: отчёты уходят
// в Telegram обычным текстом, промпт запрещает разметку, но модели
// всё равно иногда её протаскивают.
func SanitizeReport(s string) string {
	s = StripCodeFences(s)
	for _, tok := range []string{"**", "__", "###", "##"} {
		s = strings.ReplaceAll(s, tok, "")
	}
	// одиночную решётку убираем только в начале строки
	lines := strings.Split(s, "\n")
	for i, ln := range lines {
		lines[i] = strings.TrimPrefix(ln, "# ")
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
