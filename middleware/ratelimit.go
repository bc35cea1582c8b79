package middleware

import (
	"net/http"
	"time"

	"cupomzone/controllers"
	"cupomzone/ratelimit"

	"github.com/gin-gonic/gin"
)

// RateLimit limita requisições por IP na rota, usando o limiter do contexto.
// Sem limiter configurado a rota fica aberta.
func RateLimit(prefix string, max int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		limiter := ratelimit.Instance(c)
		if limiter == nil {
			c.Next()
			return
		}
		key := prefix + ":" + controllers.ClientIP(c)
		if !limiter.Allow(c.Request.Context(), key, max, window) {
			controllers.RespondError(c, "muitas requisições, tente novamente em instantes", http.StatusTooManyRequests)
			c.Abort()
			return
		}
		c.Next()
	}
}
