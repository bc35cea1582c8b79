package controllers

import (
	"net/http"
	"strings"
	"time"

	dbpkg "cupomzone/db"
	"cupomzone/models"
	"cupomzone/tools"

	"github.com/gin-gonic/gin"
	"github.com/jinzhu/gorm"
)

func validateCoupon(coupon *models.Coupon) string {
	coupon.Title = tools.SanitizeString(coupon.Title)
	coupon.Description = tools.SanitizeString(coupon.Description)
	coupon.Code = strings.ToUpper(tools.SanitizeString(coupon.Code))
	coupon.Discount = tools.SanitizeString(coupon.Discount)
	coupon.Store = tools.SanitizeString(coupon.Store)
	coupon.Category = tools.SanitizeString(coupon.Category)

	if coupon.Title == "" || coupon.Code == "" || coupon.Store == "" {
		return "título, código e loja são obrigatórios"
	}
	if !tools.ValidateCouponCode(coupon.Code) {
		return "código deve ter de 3 a 20 caracteres alfanuméricos maiúsculos"
	}
	if !tools.ValidateDiscount(coupon.Discount) {
		return "desconto inválido"
	}
	if !models.IsValidCategory(coupon.Category) {
		return "categoria inválida"
	}
	if !tools.ValidateFutureDate(coupon.ExpiresAt, time.Now()) {
		return "data de expiração deve ser no futuro"
	}
	return ""
}

func codeInUse(db *gorm.DB, code string, excludeID int64) (bool, error) {
	var count int64
	err := db.Model(&models.Coupon{}).
		Where("code = ? AND id <> ?", code, excludeID).Count(&count).Error
	return count > 0, err
}

// GET /api/admin/coupons
// Listagem administrativa, sem mascaramento de código.
func GetAdminCoupons(c *gin.Context) {
	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "db não configurado no contexto", http.StatusInternalServerError)
		return
	}

	query := db.Model(&models.Coupon{})
	if category := c.Query("category"); category != "" {
		query = query.Where("category = ?", category)
	}
	if search := c.Query("search"); search != "" {
		like := "%" + search + "%"
		query = query.Where("title LIKE ? OR store LIKE ? OR code LIKE ?", like, like, like)
	}
	if premium := c.Query("premium"); premium != "" {
		query = query.Where("is_premium = ?", premium == "true")
	}

	page, size := Pagination(c)
	var total int64
	if err := query.Count(&total).Error; err != nil {
		RespondError(c, err.Error(), http.StatusInternalServerError)
		return
	}

	coupons := []models.Coupon{}
	if err := query.Order("created_at desc").
		Offset((page - 1) * size).Limit(size).
		Find(&coupons).Error; err != nil {
		RespondError(c, err.Error(), http.StatusInternalServerError)
		return
	}

	RespondSuccess(c, gin.H{
		"coupons":   coupons,
		"total":     total,
		"page":      page,
		"page_size": size,
	})
}

// POST /api/admin/coupons
func CreateCoupon(c *gin.Context) {
	var coupon models.Coupon
	if err := c.Bind(&coupon); err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}
	if msg := validateCoupon(&coupon); msg != "" {
		RespondError(c, msg, http.StatusBadRequest)
		return
	}

	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "db não configurado no contexto", http.StatusInternalServerError)
		return
	}

	inUse, err := codeInUse(db, coupon.Code, 0)
	if err != nil {
		RespondError(c, err.Error(), http.StatusInternalServerError)
		return
	}
	if inUse {
		RespondError(c, "já existe um cupom com esse código", http.StatusConflict)
		return
	}

	coupon.ID = 0
	if err := db.Create(&coupon).Error; err != nil {
		RespondError(c, err.Error(), http.StatusInternalServerError)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"coupon": coupon})
}

// PUT /api/admin/coupons/:id
func UpdateCoupon(c *gin.Context) {
	id, ok := ParamID(c, "id")
	if !ok {
		return
	}

	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "db não configurado no contexto", http.StatusInternalServerError)
		return
	}

	existing := models.Coupon{}
	if db.First(&existing, id).RecordNotFound() {
		RespondError(c, "cupom não encontrado", http.StatusNotFound)
		return
	}

	var coupon models.Coupon
	if err := c.Bind(&coupon); err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}
	if msg := validateCoupon(&coupon); msg != "" {
		RespondError(c, msg, http.StatusBadRequest)
		return
	}

	inUse, err := codeInUse(db, coupon.Code, id)
	if err != nil {
		RespondError(c, err.Error(), http.StatusInternalServerError)
		return
	}
	if inUse {
		RespondError(c, "já existe um cupom com esse código", http.StatusConflict)
		return
	}

	coupon.ID = existing.ID
	coupon.CreatedAt = existing.CreatedAt
	if err := db.Save(&coupon).Error; err != nil {
		RespondError(c, err.Error(), http.StatusInternalServerError)
		return
	}

	RespondSuccess(c, gin.H{"coupon": coupon})
}

// DELETE /api/admin/coupons/:id
func DeleteCoupon(c *gin.Context) {
	id, ok := ParamID(c, "id")
	if !ok {
		return
	}

	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "db não configurado no contexto", http.StatusInternalServerError)
		return
	}

	coupon := models.Coupon{}
	if db.First(&coupon, id).RecordNotFound() {
		RespondError(c, "cupom não encontrado", http.StatusNotFound)
		return
	}

	// favoritos do cupom caem junto
	tx := db.Begin()
	if err := tx.Where("coupon_id = ?", coupon.ID).Delete(models.Favorite{}).Error; err != nil {
		tx.Rollback()
		RespondError(c, err.Error(), http.StatusInternalServerError)
		return
	}
	if err := tx.Delete(&coupon).Error; err != nil {
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
