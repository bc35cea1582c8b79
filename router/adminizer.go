package router

import (
	"net/http"

	"cupomzone/controllers"

	"github.com/gin-gonic/gin"
)

// Adminizer bloqueia o acesso quando o usuário não é admin.
func Adminizer() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := controllers.GetUserLogged(c)
		if !ok {
			controllers.RespondError(c, "não autorizado", http.StatusUnauthorized)
			c.Abort()
			return
		}
		if !user.IsAdmin() {
			controllers.RespondError(c, "requer administrador", http.StatusForbidden)
			c.Abort()
			return
		}
		c.Next()
	}
}
