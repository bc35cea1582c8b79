package controllers

import (
	"net/http"
	"time"

	dbpkg "cupomzone/db"
	"cupomzone/models"

	"github.com/gin-gonic/gin"
)

const ctxUserKey = "auth_user"
const sessionCookie = "session"

// SessionLoader carrega o usuário da sessão quando o cookie existe e é
// válido, sem bloquear a requisição. Rotas públicas usam isso para
// personalizar a resposta (ex: códigos de cupons premium).
func SessionLoader() gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID, err := c.Cookie(sessionCookie)
		if err != nil || sessionID == "" {
			c.Next()
			return
		}

		db := dbpkg.DBInstance(c)
		if db == nil {
			c.Next()
			return
		}

		var session models.Session
		if err := db.Where("id = ?", sessionID).First(&session).Error; err != nil {
			c.Next()
			return
		}
		if session.IsExpired(time.Now()) {
			db.Delete(&models.Session{}, "id = ?", sessionID)
			c.Next()
			return
		}

		var user models.User
		if err := db.First(&user, session.UserID).Error; err != nil {
			c.Next()
			return
		}

		c.Set(ctxUserKey, user)
		c.Next()
	}
}

// AuthRequired exige uma sessão válida carregada pelo SessionLoader.
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := GetUserLogged(c); !ok {
			RespondError(c, "não autorizado", http.StatusUnauthorized)
			c.Abort()
			return
		}
		c.Next()
	}
}

// GetUserLogged returns the user loaded by SessionLoader.
func GetUserLogged(c *gin.Context) (models.User, bool) {
	v, ok := c.Get(ctxUserKey)
	if !ok {
		return models.User{}, false
	}
	user, ok := v.(models.User)
	return user, ok
}
