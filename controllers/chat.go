package controllers

import (
	"net/http"

	dbpkg "cupomzone/db"
	"cupomzone/models"
	"cupomzone/tools"

	"github.com/gin-gonic/gin"
	"github.com/jinzhu/gorm"
)

type CreateConversationRequest struct {
	FeedbackID int64 `json:"feedback_id" form:"feedback_id"`
	UserID     int64 `json:"user_id" form:"user_id"`
}

type SendMessageRequest struct {
	Message string `json:"message" form:"message"`
}

// loadConversation busca a conversa e garante que o usuário participa dela.
// Admins acessam qualquer conversa.
func loadConversation(c *gin.Context, db *gorm.DB, user models.User) (*models.Conversation, bool) {
	id, ok := ParamID(c, "id")
	if !ok {
		return nil, false
	}

	conversation := models.Conversation{}
	if db.First(&conversation, id).RecordNotFound() {
		RespondError(c, "conversa não encontrada", http.StatusNotFound)
		return nil, false
	}
	if !user.IsAdmin() && conversation.UserID != user.ID {
		RespondError(c, "acesso negado", http.StatusForbidden)
		return nil, false
	}
	return &conversation, true
}

// GET /api/chat/conversations
func GetConversations(c *gin.Context) {
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

	query := db.Model(&models.Conversation{})
	if !user.IsAdmin() {
		query = query.Where("user_id = ?", user.ID)
	}

	conversations := []models.Conversation{}
	if err := query.Order("updated_at desc").Find(&conversations).Error; err != nil {
		RespondError(c, err.Error(), http.StatusInternalServerError)
		return
	}

	RespondSuccess(c, gin.H{"conversations": conversations})
}

// POST /api/chat/conversations (admin)
// O suporte abre a conversa a partir de um feedback; uma conversa por feedback.
func CreateConversation(c *gin.Context) {
	admin, ok := GetUserLogged(c)
	if !ok {
		RespondError(c, "não autorizado", http.StatusUnauthorized)
		return
	}

	var req CreateConversationRequest
	if err := c.Bind(&req); err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}
	if req.FeedbackID <= 0 || req.UserID <= 0 {
		RespondError(c, "feedback_id e user_id são obrigatórios", http.StatusBadRequest)
		return
	}

	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "db não configurado no contexto", http.StatusInternalServerError)
		return
	}

	feedback := models.Feedback{}
	if db.First(&feedback, req.FeedbackID).RecordNotFound() {
		RespondError(c, "feedback não encontrado", http.StatusNotFound)
		return
	}
	target := models.User{}
	if db.First(&target, req.UserID).RecordNotFound() {
		RespondError(c, "usuário não encontrado", http.StatusNotFound)
		return
	}

	existing := models.Conversation{}
	if !db.Where("feedback_id = ?", req.FeedbackID).First(&existing).RecordNotFound() {
		RespondSuccess(c, gin.H{"conversation": existing, "created": false})
		return
	}

	conversation := models.Conversation{
		FeedbackID: req.FeedbackID,
		UserID:     req.UserID,
		AdminID:    admin.ID,
	}

	tx := db.Begin()
	if err := tx.Create(&conversation).Error; err != nil {
		tx.Rollback()
		RespondError(c, err.Error(), http.StatusInternalServerError)
		return
	}
	if feedback.Status == models.FEEDBACK_STATUS_NEW {
		if err := tx.Model(&feedback).Update("status", models.FEEDBACK_STATUS_READ).Error; err != nil {
			tx.Rollback()
			RespondError(c, err.Error(), http.StatusInternalServerError)
			return
		}
	}
	if err := tx.Commit().Error; err != nil {
		RespondError(c, err.Error(), http.StatusInternalServerError)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"conversation": conversation, "created": true})
}

// GET /api/chat/:id/messages
// Listar marca como lidas as mensagens enviadas pelo outro lado.
func GetMessages(c *gin.Context) {
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

	conversation, ok := loadConversation(c, db, user)
	if !ok {
		return
	}

	messages := []models.ChatMessage{}
	if err := db.Where("conversation_id = ?", conversation.ID).
		Order("created_at asc, id asc").Find(&messages).Error; err != nil {
		RespondError(c, err.Error(), http.StatusInternalServerError)
		return
	}

	if err := db.Model(&models.ChatMessage{}).
		Where("conversation_id = ? AND sender_id <> ? AND is_read = ?", conversation.ID, user.ID, false).
		Update("is_read", true).Error; err != nil {
		RespondError(c, err.Error(), http.StatusInternalServerError)
		return
	}

	RespondSuccess(c, gin.H{"messages": messages})
}

// POST /api/chat/:id/messages
func SendMessage(c *gin.Context) {
	user, ok := GetUserLogged(c)
	if !ok {
		RespondError(c, "não autorizado", http.StatusUnauthorized)
		return
	}

	var req SendMessageRequest
	if err := c.Bind(&req); err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}
	req.Message = tools.SanitizeString(req.Message)
	if req.Message == "" {
		RespondError(c, "mensagem é obrigatória", http.StatusBadRequest)
		return
	}
	if len(req.Message) > 2000 {
		RespondError(c, "mensagem muito longa", http.StatusBadRequest)
		return
	}

	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "db não configurado no contexto", http.StatusInternalServerError)
		return
	}

	conversation, ok := loadConversation(c, db, user)
	if !ok {
		return
	}

	message := models.ChatMessage{
		ConversationID: conversation.ID,
		SenderID:       user.ID,
		Message:        req.Message,
	}

	tx := db.Begin()
	if err := tx.Create(&message).Error; err != nil {
		tx.Rollback()
		RespondError(c, err.Error(), http.StatusInternalServerError)
		return
	}
	// resposta do suporte move o feedback para "answered"
	if user.IsAdmin() {
		if err := tx.Model(&models.Feedback{}).
			Where("id = ? AND status IN (?)", conversation.FeedbackID,
				[]string{models.FEEDBACK_STATUS_NEW, models.FEEDBACK_STATUS_READ}).
			Update("status", models.FEEDBACK_STATUS_ANSWERED).Error; err != nil {
			tx.Rollback()
			RespondError(c, err.Error(), http.StatusInternalServerError)
			return
		}
	}
	if err := tx.Commit().Error; err != nil {
		RespondError(c, err.Error(), http.StatusInternalServerError)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": message})
}
