package controllers

import (
	"net/http"

	dbpkg "cupomzone/db"
	"cupomzone/models"
	"cupomzone/tools"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

type UpdateUserRequest struct {
	Name            string `json:"name" form:"name"`
	AvatarURL       string `json:"avatar_url" form:"avatar_url"`
	CurrentPassword string `json:"current_password" form:"current_password"`
	NewPassword     string `json:"new_password" form:"new_password"`
}

// PUT /api/user
// Atualiza nome, avatar e, mediante a senha atual, a senha.
func UpdateUser(c *gin.Context) {
	user, ok := GetUserLogged(c)
	if !ok {
		RespondError(c, "não autorizado", http.StatusUnauthorized)
		return
	}

	var req UpdateUserRequest
	if err := c.Bind(&req); err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}

	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "db não configurado no contexto", http.StatusInternalServerError)
		return
	}

	updates := map[string]interface{}{}

	if req.Name != "" {
		name := tools.SanitizeString(req.Name)
		if len(name) < 2 || len(name) > 100 {
			RespondError(c, "nome deve ter entre 2 e 100 caracteres", http.StatusBadRequest)
			return
		}
		updates["name"] = name
	}
	if req.AvatarURL != "" {
		updates["avatar_url"] = tools.SanitizeString(req.AvatarURL)
	}

	if req.NewPassword != "" {
		if req.CurrentPassword == "" {
			RespondError(c, "senha atual é obrigatória para trocar de senha", http.StatusBadRequest)
			return
		}
		if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.CurrentPassword)); err != nil {
			RespondError(c, "senha atual incorreta", http.StatusForbidden)
			return
		}
		if rule := tools.CheckPassword(req.NewPassword); rule != "" {
			RespondError(c, rule, http.StatusBadRequest)
			return
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
		if err != nil {
			RespondError(c, err.Error(), http.StatusInternalServerError)
			return
		}
		updates["password"] = string(hash)
	}

	if len(updates) == 0 {
		RespondError(c, "nada para atualizar", http.StatusBadRequest)
		return
	}

	if err := db.Model(&models.User{}).Where("id = ?", user.ID).Updates(updates).Error; err != nil {
		RespondError(c, err.Error(), http.StatusInternalServerError)
		return
	}

	// troca de senha derruba as outras sessões do usuário
	if _, changed := updates["password"]; changed {
		current, _ := c.Cookie(sessionCookie)
		if err := db.Where("user_id = ? AND id <> ?", user.ID, current).
			Delete(models.Session{}).Error; err != nil {
			RespondError(c, err.Error(), http.StatusInternalServerError)
			return
		}
	}

	updated := models.User{}
	if err := db.First(&updated, user.ID).Error; err != nil {
		RespondError(c, err.Error(), http.StatusInternalServerError)
		return
	}
	RespondSuccess(c, gin.H{"user": updated})
}

// DELETE /api/user
// O último admin não pode se excluir.
func DeleteUser(c *gin.Context) {
	user, ok := GetUserLogged(c)
	if !ok {
		RespondError(c, "não autorizado", http.StatusUnauthorized)
		return
	}

	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "db não configurado no contexto", http.StatusInternalServerError)
		return
	}

	if user.IsAdmin() {
		var admins int64
		if err := db.Model(&models.User{}).
			Where("role = ?", models.USER_ROLE_ADMIN).Count(&admins).Error; err != nil {
			RespondError(c, err.Error(), http.StatusInternalServerError)
			return
		}
		if admins <= 1 {
			RespondError(c, "não é possível excluir o último administrador", http.StatusForbidden)
			return
		}
	}

	tx := db.Begin()
	if err := tx.Where("user_id = ?", user.ID).Delete(models.Favorite{}).Error; err != nil {
		tx.Rollback()
		RespondError(c, err.Error(), http.StatusInternalServerError)
		return
	}
	if err := tx.Where("user_id = ?", user.ID).Delete(models.Session{}).Error; err != nil {
		tx.Rollback()
		RespondError(c, err.Error(), http.StatusInternalServerError)
		return
	}
	if err := tx.Delete(&models.User{ID: user.ID}).Error; err != nil {
		tx.Rollback()
		RespondError(c, err.Error(), http.StatusInternalServerError)
		return
	}
	if err := tx.Commit().Error; err != nil {
		RespondError(c, err.Error(), http.StatusInternalServerError)
		return
	}

	c.SetCookie(sessionCookie, "", -1, "/", "", false, true)
	RespondSuccess(c, gin.H{"success": true})
}
