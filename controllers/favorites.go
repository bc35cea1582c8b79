package controllers

import (
	"net/http"

	dbpkg "cupomzone/db"
	"cupomzone/models"
	"cupomzone/subscription"

	"github.com/gin-gonic/gin"
)

type AddFavoriteRequest struct {
	CouponID int64 `json:"coupon_id" form:"coupon_id"`
}

// GET /api/favorites
func GetFavorites(c *gin.Context) {
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

	var favorites []models.Favorite
	if err := db.Where("user_id = ?", user.ID).Order("created_at desc").Find(&favorites).Error; err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}

	views := make([]CouponView, 0, len(favorites))
	for _, favorite := range favorites {
		var coupon models.Coupon
		if err := db.First(&coupon, favorite.CouponID).Error; err != nil {
			continue
		}
		views = append(views, couponView(coupon, false, true))
	}

	RespondSuccess(c, gin.H{"favorites": views})
}

// POST /api/favorites
func AddFavorite(c *gin.Context) {
	user, ok := GetUserLogged(c)
	if !ok {
		RespondError(c, "não autorizado", http.StatusUnauthorized)
		return
	}

	var req AddFavoriteRequest
	if err := c.Bind(&req); err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}
	if req.CouponID <= 0 {
		RespondError(c, "coupon_id é obrigatório", http.StatusBadRequest)
		return
	}

	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "db não configurado no contexto", http.StatusInternalServerError)
		return
	}

	canAdd, err := subscription.NewManager(db).CanAddFavorite(user.ID)
	if err != nil {
		RespondError(c, err.Error(), http.StatusInternalServerError)
		return
	}
	if !canAdd {
		RespondError(c, "Limite de favoritos atingido. Faça upgrade do seu plano para adicionar mais favoritos.", http.StatusForbidden)
		return
	}

	var coupon models.Coupon
	if err := db.First(&coupon, req.CouponID).Error; err != nil {
		RespondError(c, "cupom não encontrado", http.StatusNotFound)
		return
	}

	var existing models.Favorite
	if err := db.Where("user_id = ? AND coupon_id = ?", user.ID, req.CouponID).First(&existing).Error; err == nil {
		RespondError(c, "Cupom já está nos favoritos", http.StatusBadRequest)
		return
	}

	favorite := models.Favorite{UserID: user.ID, CouponID: req.CouponID}
	if err := db.Create(&favorite).Error; err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}

	RespondSuccess(c, gin.H{"message": "Cupom adicionado aos favoritos"})
}

// DELETE /api/favorites/:id
func RemoveFavorite(c *gin.Context) {
	user, ok := GetUserLogged(c)
	if !ok {
		RespondError(c, "não autorizado", http.StatusUnauthorized)
		return
	}

	couponID, ok := ParamID(c, "id")
	if !ok {
		return
	}

	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "db não configurado no contexto", http.StatusInternalServerError)
		return
	}

	result := db.Delete(&models.Favorite{}, "user_id = ? AND coupon_id = ?", user.ID, couponID)
	if result.Error != nil {
		RespondError(c, result.Error.Error(), http.StatusBadRequest)
		return
	}
	if result.RowsAffected == 0 {
		RespondError(c, "favorito não encontrado", http.StatusNotFound)
		return
	}

	RespondSuccess(c, gin.H{"message": "Cupom removido dos favoritos"})
}
