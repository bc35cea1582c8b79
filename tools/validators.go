package tools

import (
	"regexp"
	"time"
	"unicode"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
var couponCodeRegex = regexp.MustCompile(`^[A-Z0-9]{3,20}$`)

func ValidateEmail(email string) bool {
	return emailRegex.MatchString(email)
}

// CheckPassword retorna o nome da regra violada, ou "" quando a senha é válida.
// Regras: mínimo 8 caracteres, uma maiúscula, uma minúscula e um dígito.
func CheckPassword(password string) string {
	if len(password) < 8 {
		return "password: mínimo de 8 caracteres"
	}
	var hasUpper, hasLower, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasUpper {
		return "password: pelo menos uma letra maiúscula"
	}
	if !hasLower {
		return "password: pelo menos uma letra minúscula"
	}
	if !hasDigit {
		return "password: pelo menos um número"
	}
	return ""
}

// ValidateCouponCode aceita 3 a 20 caracteres alfanuméricos maiúsculos.
func ValidateCouponCode(code string) bool {
	return couponCodeRegex.MatchString(code)
}

// ValidateDiscount aceita formatos livres como "50% OFF" ou "R$ 100 OFF".
func ValidateDiscount(discount string) bool {
	return len(discount) > 0 && len(discount) <= 50
}

// ValidateFutureDate aceita datas vazias (opcional) ou estritamente no futuro.
func ValidateFutureDate(t *time.Time, now time.Time) bool {
	if t == nil {
		return true
	}
	return t.After(now)
}
