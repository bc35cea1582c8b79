package controllers

import (
	"net/http"
	"strings"
	"time"

	dbpkg "cupomzone/db"
	"cupomzone/models"
	"cupomzone/ratelimit"
	"cupomzone/tools"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jinzhu/gorm"
	"golang.org/x/crypto/bcrypt"
)

type LoginRequest struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

type RegisterRequest struct {
	Name     string `json:"name" form:"name"`
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

func createSession(db *gorm.DB, c *gin.Context, userID int64) (string, error) {
	sessionID := uuid.NewString()
	expiresAt := time.Now().AddDate(0, 0, sessionMaxValidDays())

	session := models.Session{ID: sessionID, UserID: userID, ExpiresAt: &expiresAt}
	if err := db.Create(&session).Error; err != nil {
		return "", err
	}

	maxAge := int(time.Until(expiresAt).Seconds())
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(sessionCookie, sessionID, maxAge, "/", "", getenv("GIN_MODE", "") == "release", true)
	return sessionID, nil
}

// POST /api/register
func Register(c *gin.Context) {
	if limiter := ratelimit.Instance(c); limiter != nil {
		// limites em config.Security (defaults: 5 cadastros por IP a cada 5 minutos)
		if !limiter.Allow(c.Request.Context(), "register:"+ClientIP(c), registerMaxAttempts(), attemptWindow()) {
			RespondError(c, "Muitas tentativas. Tente novamente em alguns minutos.", http.StatusTooManyRequests)
			return
		}
	}

	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}

	user := models.User{
		Name:     tools.SanitizeString(req.Name),
		Email:    strings.ToLower(tools.SanitizeString(req.Email)),
		Password: req.Password,
	}

	missing := user.MissingFields()
	if missing != "" {
		RespondError(c, "Faltando campo "+missing, http.StatusBadRequest)
		return
	}
	if !tools.ValidateEmail(user.Email) {
		RespondError(c, "E-mail inválido!", http.StatusBadRequest)
		return
	}
	if len(user.Name) < 2 || len(user.Name) > 100 {
		RespondError(c, "Nome deve ter entre 2 e 100 caracteres", http.StatusBadRequest)
		return
	}

	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "db não configurado no contexto", http.StatusInternalServerError)
		return
	}

	var existing models.User
	if err := db.Where("email = ?", user.Email).First(&existing).Error; err == nil {
		RespondError(c, "Este email já está cadastrado", http.StatusBadRequest)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		RespondError(c, err.Error(), http.StatusInternalServerError)
		return
	}
	user.Password = string(hash)
	user.Role = models.USER_ROLE_USER

	if err := db.Create(&user).Error; err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}

	if _, err := createSession(db, c, user.ID); err != nil {
		RespondError(c, err.Error(), http.StatusInternalServerError)
		return
	}

	user.Password = ""
	RespondSuccess(c, gin.H{"user": user})
}

// POST /api/login
func Login(c *gin.Context) {
	if limiter := ratelimit.Instance(c); limiter != nil {
		// limites em config.Security (defaults: 10 tentativas por IP a cada 5 minutos)
		if !limiter.Allow(c.Request.Context(), "login:"+ClientIP(c), loginMaxAttempts(), attemptWindow()) {
			RespondError(c, "Muitas tentativas. Tente novamente em alguns minutos.", http.StatusTooManyRequests)
			return
		}
	}

	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}
	if req.Email == "" || req.Password == "" {
		RespondError(c, "email e password são obrigatórios", http.StatusBadRequest)
		return
	}

	email := strings.ToLower(tools.SanitizeString(req.Email))
	if !tools.ValidateEmail(email) {
		RespondError(c, "E-mail inválido!", http.StatusBadRequest)
		return
	}

	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "db não configurado no contexto", http.StatusInternalServerError)
		return
	}

	var user models.User
	if err := db.Where("email = ?", email).First(&user).Error; err != nil {
		RespondError(c, "usuário ou senha inválidos", http.StatusUnauthorized)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		RespondError(c, "usuário ou senha inválidos", http.StatusUnauthorized)
		return
	}

	if _, err := createSession(db, c, user.ID); err != nil {
		RespondError(c, err.Error(), http.StatusInternalServerError)
		return
	}

	user.Password = ""
	RespondSuccess(c, gin.H{"user": user})
}

// POST /api/logout
func Logout(c *gin.Context) {
	sessionID, err := c.Cookie(sessionCookie)
	if err == nil && sessionID != "" {
		if db := dbpkg.DBInstance(c); db != nil {
			db.Delete(&models.Session{}, "id = ?", sessionID)
		}
	}
	c.SetCookie(sessionCookie, "", -1, "/", "", false, true)
	RespondSuccess(c, gin.H{"success": true})
}

// GET /api/me
func Me(c *gin.Context) {
	user, ok := GetUserLogged(c)
	if !ok {
		RespondError(c, "não autorizado", http.StatusUnauthorized)
		return
	}
	user.Password = ""
	c.JSON(http.StatusOK, gin.H{"user": user})
}
