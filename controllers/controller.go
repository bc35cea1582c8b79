package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RespondError devolve {"error": msg} com o status informado.
// Mensagens voltadas ao usuário ficam em português.
func RespondError(c *gin.Context, msg string, code int) {
	c.JSON(code, gin.H{"error": msg})
}

func RespondSuccess(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}
