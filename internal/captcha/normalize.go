// Package captcha очищает ответы vision-модели до токена капчи и
// оркестрирует попытки решения.
package captcha

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Вступления, которые модель добавляет перед ответом. Срезается только
// одно, первое совпавшее.
var preambles = []string{
	"THE TEXT IS:", "TEXT:", "CAPTCHA:", "ANSWER:", "RESULT:",
	"THE ANSWER IS:", "THE CAPTCHA IS:", "THE CODE IS:",
	"CODE:", "IMAGE CONTAINS:", "I SEE:", "THE IMAGE SHOWS:",
	"THE TEXT IN THE IMAGE IS:", "CAPTCHA TEXT:", "THE CAPTCHA TEXT IS:",
}

var (
	// Типичная длина капчи — 3-8 символов
	seqRe = regexp.MustCompile(`[A-Z0-9]{3,8}`)
	// Для слишком длинных остатков ищем более узкий диапазон
	narrowSeqRe = regexp.MustCompile(`[A-Z0-9]{4,6}`)
	nonAlnumRe  = regexp.MustCompile(`[^A-Z0-9]`)
)

const punctCutset = `'".,!?-_()[]{}:;`

// Normalize приводит сырой ответ модели к кандидату токена. Шаги
// фиксированы и выполняются строго по порядку. Пустой результат означает
// отказ; непустой ещё не гарантирует валидность — окончательная проверка
// за ValidToken.
func Normalize(raw string) string {
	if raw == "" {
		return ""
	}

	text := strings.ToUpper(strings.TrimSpace(raw))

	for _, p := range preambles {
		if strings.HasPrefix(text, p) {
			text = strings.TrimSpace(strings.TrimPrefix(text, p))
			break
		}
	}

	// Отбрасываем пояснительный текст вокруг первой подходящей
	// последовательности
	if m := seqRe.FindString(text); m != "" {
		text = m
	}

	text = strings.Trim(text, punctCutset)
	text = norm.NFKD.String(text)
	text = nonAlnumRe.ReplaceAllString(text, "")

	switch {
	case len(text) >= 3 && len(text) <= 10:
		return text
	case len(text) > 10:
		if m := narrowSeqRe.FindString(text); m != "" {
			return m
		}
		return text[:6]
	default:
		// Подозрительно коротко: возвращаем как есть, решает вызывающий
		return text
	}
}

// CleanChar очищает один символ перед вводом в поле: пробелы и управляющие
// символы отбрасываются, остальное приводится к верхнему регистру и
// проходит только буквенно-цифровое.
func CleanChar(r rune) string {
	if unicode.IsControl(r) || unicode.IsSpace(r) {
		return ""
	}

	s := strings.ToUpper(string(r))
	for _, c := range s {
		if !unicode.IsLetter(c) && !unicode.IsDigit(c) {
			return ""
		}
	}
	return s
}

// ValidToken — второй, более строгий фильтр поверх Normalize: длина не
// меньше четырёх и только буквы и цифры.
func ValidToken(s string) bool {
	if len(s) < 4 {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
