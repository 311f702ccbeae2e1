package validators

import (
	"regexp"
	"strings"
)

// Celular brasileiro: DDD + 9 dígitos, com ou sem máscara.
// Aceita "(11) 91234-5678", "11912345678", "+55 11 91234-5678".
var brPhoneRe = regexp.MustCompile(`^(\+?55\s?)?\(?\d{2}\)?\s?9?\d{4}-?\d{4}$`)

func IsValidBRPhone(phone string) bool {
	return brPhoneRe.MatchString(strings.TrimSpace(phone))
}

// NormalizePhone reduz o telefone aos dígitos (sem o prefixo do país).
func NormalizePhone(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}

	digits := b.String()
	// 55 inicial só é código do país se sobrar um número completo (DDD 55 existe)
	if len(digits) > 11 && strings.HasPrefix(digits, "55") {
		digits = digits[2:]
	}
	return digits
}
