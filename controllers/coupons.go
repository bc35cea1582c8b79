package controllers

import (
	"net/http"

	dbpkg "cupomzone/db"
	"cupomzone/models"
	"cupomzone/subscription"

	"github.com/gin-gonic/gin"
	"github.com/jinzhu/gorm"
)

// CouponView é o cupom como exposto pela API: o código de cupons premium é
// mascarado para quem não tem acesso premium.
type CouponView struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Code        string  `json:"code"`
	Discount    string  `json:"discount"`
	Store       string  `json:"store"`
	Category    string  `json:"category"`
	ExpiresAt   *string `json:"expires_at"`
	IsPremium   bool    `json:"is_premium"`
	IsFavorite  bool    `json:"is_favorite"`
}

func couponView(coupon models.Coupon, maskCode bool, isFavorite bool) CouponView {
	view := CouponView{
		ID:          coupon.ID,
		Title:       coupon.Title,
		Description: coupon.Description,
		Code:        coupon.Code,
		Discount:    coupon.Discount,
		Store:       coupon.Store,
		Category:    coupon.Category,
		IsPremium:   coupon.IsPremium,
		IsFavorite:  isFavorite,
	}
	if coupon.ExpiresAt != nil {
		s := coupon.ExpiresAt.Format("2006-01-02T15:04:05Z07:00")
		view.ExpiresAt = &s
	}
	if coupon.IsPremium && maskCode {
		view.Code = "****"
	}
	return view
}

func favoriteCouponIDs(db *gorm.DB, userID int64) (map[int64]bool, error) {
	var favorites []models.Favorite
	if err := db.Where("user_id = ?", userID).Find(&favorites).Error; err != nil {
		return nil, err
	}
	ids := make(map[int64]bool, len(favorites))
	for _, f := range favorites {
		ids[f.CouponID] = true
	}
	return ids, nil
}

// GET /api/coupons?category=&search=&sort=
func GetCoupons(c *gin.Context) {
	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "db não configurado no contexto", http.StatusInternalServerError)
		return
	}

	user, logged := GetUserLogged(c)

	hasPremium := false
	if logged {
		var err error
		hasPremium, err = subscription.NewManager(db).HasAccessToPremiumCoupons(user.ID)
		if err != nil {
			RespondError(c, err.Error(), http.StatusInternalServerError)
			return
		}
	}

	query := db.Model(&models.Coupon{})

	// quem não tem acesso premium não vê cupons premium na listagem
	if !hasPremium {
		query = query.Where("is_premium = ?", false)
	}

	if category := c.Query("category"); category != "" && category != "all" {
		query = query.Where("category = ?", category)
	}
	if search := c.Query("search"); search != "" {
		like := "%" + search + "%"
		query = query.Where("title LIKE ? OR description LIKE ? OR store LIKE ?", like, like, like)
	}

	switch c.DefaultQuery("sort", "newest") {
	case "discount":
		query = query.Order("discount desc")
	case "expiring":
		query = query.Order("expires_at asc")
	default:
		query = query.Order("created_at desc")
	}

	var coupons []models.Coupon
	if err := query.Find(&coupons).Error; err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}

	favorites := map[int64]bool{}
	if logged {
		var err error
		favorites, err = favoriteCouponIDs(db, user.ID)
		if err != nil {
			RespondError(c, err.Error(), http.StatusBadRequest)
			return
		}
	}

	views := make([]CouponView, 0, len(coupons))
	for _, coupon := range coupons {
		views = append(views, couponView(coupon, !hasPremium, favorites[coupon.ID]))
	}

	RespondSuccess(c, gin.H{"coupons": views})
}

// GET /api/coupons/:id
func GetCouponByID(c *gin.Context) {
	id, ok := ParamID(c, "id")
	if !ok {
		return
	}

	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "db não configurado no contexto", http.StatusInternalServerError)
		return
	}

	var coupon models.Coupon
	if err := db.First(&coupon, id).Error; err != nil {
		RespondError(c, "cupom não encontrado", http.StatusNotFound)
		return
	}

	user, logged := GetUserLogged(c)
	if coupon.IsPremium && !logged {
		RespondError(c, "Este cupom é premium. Faça login ou cadastre-se para acessar.", http.StatusForbidden)
		return
	}

	hasPremium := false
	isFavorite := false
	if logged {
		manager := subscription.NewManager(db)
		var err error
		hasPremium, err = manager.HasAccessToPremiumCoupons(user.ID)
		if err != nil {
			RespondError(c, err.Error(), http.StatusInternalServerError)
			return
		}
		var favorite models.Favorite
		isFavorite = db.Where("user_id = ? AND coupon_id = ?", user.ID, coupon.ID).
			First(&favorite).Error == nil
	}

	RespondSuccess(c, gin.H{"coupon": couponView(coupon, !hasPremium, isFavorite)})
}
