package controllers

import (
	"net/http"

	dbpkg "cupomzone/db"
	"cupomzone/models"

	"github.com/gin-gonic/gin"
)

type UpdateUserRoleRequest struct {
	Role string `json:"role" form:"role"`
}

// GET /api/admin/users
func GetAdminUsers(c *gin.Context) {
	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "db não configurado no contexto", http.StatusInternalServerError)
		return
	}

	query := db.Model(&models.User{})
	if search := c.Query("search"); search != "" {
		like := "%" + search + "%"
		query = query.Where("name LIKE ? OR email LIKE ?", like, like)
	}
	if role := c.Query("role"); role != "" {
		query = query.Where("role = ?", role)
	}

	page, size := Pagination(c)
	var total int64
	if err := query.Count(&total).Error; err != nil {
		RespondError(c, err.Error(), http.StatusInternalServerError)
		return
	}

	users := []models.User{}
	if err := query.Order("created_at desc").
		Offset((page - 1) * size).Limit(size).
		Find(&users).Error; err != nil {
		RespondError(c, err.Error(), http.StatusInternalServerError)
		return
	}

	RespondSuccess(c, gin.H{
		"users":     users,
		"total":     total,
		"page":      page,
		"page_size": size,
	})
}

// PUT /api/admin/users/:id
// Troca o papel do usuário. Um admin não rebaixa a si mesmo.
func UpdateAdminUser(c *gin.Context) {
	admin, ok := GetUserLogged(c)
	if !ok {
		RespondError(c, "não autorizado", http.StatusUnauthorized)
		return
	}

	id, ok := ParamID(c, "id")
	if !ok {
		return
	}

	var req UpdateUserRoleRequest
	if err := c.Bind(&req); err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}
	if req.Role != models.USER_ROLE_USER && req.Role != models.USER_ROLE_ADMIN {
		RespondError(c, "role inválido", http.StatusBadRequest)
		return
	}
	if id == admin.ID && req.Role != models.USER_ROLE_ADMIN {
		RespondError(c, "não é possível rebaixar a si mesmo", http.StatusForbidden)
		return
	}

	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "db não configurado no contexto", http.StatusInternalServerError)
		return
	}

	user := models.User{}
	if db.First(&user, id).RecordNotFound() {
		RespondError(c, "usuário não encontrado", http.StatusNotFound)
		return
	}

	if err := db.Model(&user).Update("role", req.Role).Error; err != nil {
		RespondError(c, err.Error(), http.StatusInternalServerError)
		return
	}

	RespondSuccess(c, gin.H{"success": true})
}

// DELETE /api/admin/users/:id
// Um admin não exclui a própria conta por aqui.
func DeleteAdminUser(c *gin.Context) {
	admin, ok := GetUserLogged(c)
	if !ok {
		RespondError(c, "não autorizado", http.StatusUnauthorized)
		return
	}

	id, ok := ParamID(c, "id")
	if !ok {
		return
	}
	if id == admin.ID {
		RespondError(c, "use a exclusão de conta para remover a si mesmo", http.StatusForbidden)
		return
	}

	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "db não configurado no contexto", http.StatusInternalServerError)
		return
	}

	user := models.User{}
	if db.First(&user, id).RecordNotFound() {
		RespondError(c, "usuário não encontrado", http.StatusNotFound)
		return
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
	if err := tx.Delete(&user).Error; err != nil {
		tx.Rollback()
		RespondError(c, err.Error(), http.StatusInternalServerError)
		return
	}
	if err := tx.Commit().Error; err != nil {
		RespondError(c, err.Error(), http.StatusInternalServerError)
		return
	}

	RespondSuccess(c, gin.H{"success": true})
}
