package tools

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestValidateEmail(t *testing.T) {
	assert.True(t, ValidateEmail("maria@example.com"))
	assert.True(t, ValidateEmail("joao.silva+promo@sub.dominio.com.br"))
	assert.False(t, ValidateEmail("sem-arroba.com"))
	assert.False(t, ValidateEmail("maria@"))
	assert.False(t, ValidateEmail("@example.com"))
	assert.False(t, ValidateEmail(""))
}

func TestCheckPassword(t *testing.T) {
	assert.Equal(t, "", CheckPassword("Senha123"))
	assert.NotEqual(t, "", CheckPassword("curta1A"))
	assert.NotEqual(t, "", CheckPassword("semnumeroABC"))
	assert.NotEqual(t, "", CheckPassword("semmaiuscula123"))
	assert.NotEqual(t, "", CheckPassword("SEMMINUSCULA123"))
}

func TestValidateCouponCode(t *testing.T) {
	assert.True(t, ValidateCouponCode("DESC50"))
	assert.True(t, ValidateCouponCode("ABC"))
	assert.False(t, ValidateCouponCode("ab"))
	assert.False(t, ValidateCouponCode("minusculo"))
	assert.False(t, ValidateCouponCode("COM ESPACO"))
	assert.False(t, ValidateCouponCode("CODIGOMUITOLONGODEMAIS"))
}

func TestValidateDiscount(t *testing.T) {
	assert.True(t, ValidateDiscount("50% OFF"))
	assert.True(t, ValidateDiscount("R$ 100 OFF"))
	assert.False(t, ValidateDiscount(""))
}

func TestValidateFutureDate(t *testing.T) {
	now := time.Now()
	future := now.Add(24 * time.Hour)
	past := now.Add(-24 * time.Hour)

	assert.True(t, ValidateFutureDate(nil, now))
	assert.True(t, ValidateFutureDate(&future, now))
	assert.False(t, ValidateFutureDate(&past, now))
}

func TestSanitizeString(t *testing.T) {
	assert.Equal(t, "ola", SanitizeString("  ola  "))
	assert.Equal(t, "scriptalert(1)/script", SanitizeString("<script>alert(1)</script>"))
}
