package controllers

import (
	"net/http"

	dbpkg "cupomzone/db"
	"cupomzone/models"
	"cupomzone/tools"

	"github.com/gin-gonic/gin"
)

type UpdateFeedbackRequest struct {
	Status string `json:"status" form:"status"`
}

// POST /api/feedback
// Formulário de contato, aberto ao público.
func CreateFeedback(c *gin.Context) {
	var feedback models.Feedback
	if err := c.Bind(&feedback); err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}

	feedback.Name = tools.SanitizeString(feedback.Name)
	feedback.Email = tools.SanitizeString(feedback.Email)
	feedback.Phone = tools.SanitizeString(feedback.Phone)
	feedback.Subject = tools.SanitizeString(feedback.Subject)
	feedback.Message = tools.SanitizeString(feedback.Message)

	if feedback.Name == "" || feedback.Email == "" || feedback.Message == "" {
		RespondError(c, "nome, email e mensagem são obrigatórios", http.StatusBadRequest)
		return
	}
	if !tools.ValidateEmail(feedback.Email) {
		RespondError(c, "email inválido", http.StatusBadRequest)
		return
	}
	if len(feedback.Message) < 10 {
		RespondError(c, "mensagem muito curta", http.StatusBadRequest)
		return
	}
	if feedback.Subject == "" {
		feedback.Subject = "outros"
	}

	feedback.ID = 0
	feedback.Status = models.FEEDBACK_STATUS_NEW

	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "db não configurado no contexto", http.StatusInternalServerError)
		return
	}
	if err := db.Create(&feedback).Error; err != nil {
		RespondError(c, err.Error(), http.StatusInternalServerError)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "id": feedback.ID})
}

// GET /api/feedback (admin)
func GetFeedbacks(c *gin.Context) {
	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "db não configurado no contexto", http.StatusInternalServerError)
		return
	}

	query := db.Model(&models.Feedback{})
	if status := c.Query("status"); status != "" {
		if !models.IsValidFeedbackStatus(status) {
			RespondError(c, "status inválido", http.StatusBadRequest)
			return
		}
		query = query.Where("status = ?", status)
	}

	page, size := Pagination(c)
	var total int64
	if err := query.Count(&total).Error; err != nil {
		RespondError(c, err.Error(), http.StatusInternalServerError)
		return
	}

	feedbacks := []models.Feedback{}
	if err := query.Order("created_at desc").
		Offset((page - 1) * size).Limit(size).
		Find(&feedbacks).Error; err != nil {
		RespondError(c, err.Error(), http.StatusInternalServerError)
		return
	}

	RespondSuccess(c, gin.H{
		"feedbacks": feedbacks,
		"total":     total,
		"page":      page,
		"page_size": size,
	})
}

// PATCH /api/feedback/:id (admin)
func UpdateFeedbackStatus(c *gin.Context) {
	id, ok := ParamID(c, "id")
	if !ok {
		return
	}

	var req UpdateFeedbackRequest
	if err := c.Bind(&req); err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}
	if !models.IsValidFeedbackStatus(req.Status) {
		RespondError(c, "status inválido", http.StatusBadRequest)
		return
	}

	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "db não configurado no contexto", http.StatusInternalServerError)
		return
	}

	feedback := models.Feedback{}
	if db.First(&feedback, id).RecordNotFound() {
		RespondError(c, "feedback não encontrado", http.StatusNotFound)
		return
	}

	if err := db.Model(&feedback).Update("status", req.Status).Error; err != nil {
		RespondError(c, err.Error(), http.StatusInternalServerError)
		return
	}

	RespondSuccess(c, gin.H{"success": true})
}

// DELETE /api/feedback/:id (admin)
func DeleteFeedback(c *gin.Context) {
	id, ok := ParamID(c, "id")
	if !ok {
		return
	}

	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "db não configurado no contexto", http.StatusInternalServerError)
		return
	}

	feedback := models.Feedback{}
	if db.First(&feedback, id).RecordNotFound() {
		RespondError(c, "feedback não encontrado", http.StatusNotFound)
		return
	}

	// conversas abertas a partir do feedback caem junto
	tx := db.Begin()
	conversation := models.Conversation{}
	if !tx.Where("feedback_id = ?", feedback.ID).First(&conversation).RecordNotFound() {
		if err := tx.Where("conversation_id = ?", conversation.ID).
			Delete(models.ChatMessage{}).Error; err != nil {
			tx.Rollback()
			RespondError(c, err.Error(), http.StatusInternalServerError)
			return
		}
		if err := tx.Delete(&conversation).Error; err != nil {
			tx.Rollback()
			RespondError(c, err.Error(), http.StatusInternalServerError)
			return
		}
	}
	if err := tx.Delete(&feedback).Error; err != nil {
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
