package controllers

import (
	"encoding/base64"
	"io"
	"net/http"
	"strings"

	dbpkg "cupomzone/db"
	"cupomzone/models"

	"github.com/gin-gonic/gin"
)

const avatarMaxBytes = 5 << 20

// POST /api/avatar
// Recebe o campo multipart "avatar", valida tipo e tamanho (imagem, até 5MB)
// e guarda como data URL na coluna avatar_url do usuário.
func UploadAvatar(c *gin.Context) {
	user, ok := GetUserLogged(c)
	if !ok {
		RespondError(c, "não autorizado", http.StatusUnauthorized)
		return
	}

	file, header, err := c.Request.FormFile("avatar")
	if err != nil {
		RespondError(c, "Nenhum arquivo enviado", http.StatusBadRequest)
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		RespondError(c, "Arquivo deve ser uma imagem", http.StatusBadRequest)
		return
	}
	if header.Size > avatarMaxBytes {
		RespondError(c, "Arquivo muito grande. Máximo 5MB", http.StatusBadRequest)
		return
	}

	data, err := io.ReadAll(io.LimitReader(file, avatarMaxBytes+1))
	if err != nil {
		RespondError(c, err.Error(), http.StatusInternalServerError)
		return
	}
	if len(data) > avatarMaxBytes {
		RespondError(c, "Arquivo muito grande. Máximo 5MB", http.StatusBadRequest)
		return
	}

	avatarURL := "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(data)

	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "db não configurado no contexto", http.StatusInternalServerError)
		return
	}
	if err := db.Model(&models.User{}).Where("id = ?", user.ID).
		Update("avatar_url", avatarURL).Error; err != nil {
		RespondError(c, err.Error(), http.StatusInternalServerError)
		return
	}

	RespondSuccess(c, gin.H{"success": true, "avatar_url": avatarURL})
}
