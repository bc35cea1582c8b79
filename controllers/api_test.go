package controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"cupomzone/config"
	dbpkg "cupomzone/db"
	"cupomzone/models"
	"cupomzone/payments"
	"cupomzone/ratelimit"
	"cupomzone/router"
	"cupomzone/subscription"

	"github.com/gin-gonic/gin"
	"github.com/jinzhu/gorm"
	_ "github.com/jinzhu/gorm/dialects/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) (*gin.Engine, *gorm.DB) {
	return newTestServerWithConfig(t, config.Configuration{})
}

func newTestServerWithConfig(t *testing.T, cfg config.Configuration) (*gin.Engine, *gorm.DB) {
	t.Helper()

	database, err := gorm.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	require.NoError(t, database.AutoMigrate(
		&models.User{},
		&models.Session{},
		&models.Plan{},
		&models.Subscription{},
		&models.Payment{},
		&models.SubscriptionHistory{},
		&models.Coupon{},
		&models.Favorite{},
		&models.Feedback{},
		&models.Conversation{},
		&models.ChatMessage{},
	).Error)
	require.NoError(t, dbpkg.SeedPlans(database))

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(dbpkg.SetDBtoContext(database))
	r.Use(ratelimit.SetToContext(ratelimit.NewLocalLimiter()))
	r.Use(payments.SetToContext(nil))
	router.Initialize(r, cfg)
	return r, database
}

func doJSON(r *gin.Engine, method, path, body, cookie string) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("{}")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if cookie != "" {
		req.Header.Set("Cookie", cookie)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func sessionCookieOf(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name == "session" && c.Value != "" {
			return c.Name + "=" + c.Value
		}
	}
	t.Fatal("resposta sem cookie de sessão")
	return ""
}

func registerUser(t *testing.T, r *gin.Engine, name, email string) string {
	t.Helper()
	body := fmt.Sprintf(`{"name":%q,"email":%q,"password":"Senha123"}`, name, email)
	w := doJSON(r, http.MethodPost, "/api/register", body, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	return sessionCookieOf(t, w)
}

func seedCoupon(t *testing.T, database *gorm.DB, title, code string, premium bool) models.Coupon {
	t.Helper()
	coupon := models.Coupon{
		Title:     title,
		Code:      code,
		Discount:  "50% OFF",
		Store:     "Loja Teste",
		Category:  "tecnologia",
		IsPremium: premium,
	}
	require.NoError(t, database.Create(&coupon).Error)
	return coupon
}

func TestRegisterLoginLogoutFlow(t *testing.T) {
	r, _ := newTestServer(t)

	cookie := registerUser(t, r, "Maria", "maria@example.com")

	w := doJSON(r, http.MethodGet, "/api/me", "", cookie)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "maria@example.com")

	// senha errada não loga
	w = doJSON(r, http.MethodPost, "/api/login", `{"email":"maria@example.com","password":"Errada123"}`, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(r, http.MethodPost, "/api/login", `{"email":"maria@example.com","password":"Senha123"}`, "")
	require.Equal(t, http.StatusOK, w.Code)
	cookie = sessionCookieOf(t, w)

	w = doJSON(r, http.MethodPost, "/api/logout", "", cookie)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(r, http.MethodGet, "/api/me", "", cookie)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRegisterRejectsWeakPasswordAndDuplicates(t *testing.T) {
	r, _ := newTestServer(t)

	w := doJSON(r, http.MethodPost, "/api/register", `{"name":"Maria","email":"maria@example.com","password":"fraca"}`, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	registerUser(t, r, "Maria", "maria@example.com")
	w = doJSON(r, http.MethodPost, "/api/register", `{"name":"Outra","email":"maria@example.com","password":"Senha123"}`, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "já está cadastrado")
}

func TestPremiumCouponVisibility(t *testing.T) {
	r, database := newTestServer(t)

	seedCoupon(t, database, "Cupom Público", "PUBLICO10", false)
	premium := seedCoupon(t, database, "Cupom Premium", "PREMIUM50", true)

	// anônimo: listagem esconde premium
	w := doJSON(r, http.MethodGet, "/api/coupons", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "PUBLICO10")
	assert.NotContains(t, w.Body.String(), "PREMIUM50")

	// anônimo: premium por id é bloqueado
	w = doJSON(r, http.MethodGet, fmt.Sprintf("/api/coupons/%d", premium.ID), "", "")
	assert.Equal(t, http.StatusForbidden, w.Code)

	// plano gratuito: vê o cupom mas com código mascarado
	cookie := registerUser(t, r, "Maria", "maria@example.com")
	w = doJSON(r, http.MethodPost, "/api/subscriptions/create", `{"plan_slug":"free"}`, cookie)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doJSON(r, http.MethodGet, fmt.Sprintf("/api/coupons/%d", premium.ID), "", cookie)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"****"`)
	assert.NotContains(t, w.Body.String(), "PREMIUM50")
}

func TestPaidPlanUnlocksPremiumAfterWebhookConfirmation(t *testing.T) {
	r, database := newTestServer(t)

	premium := seedCoupon(t, database, "Cupom Premium", "PREMIUM50", true)
	cookie := registerUser(t, r, "Joao", "joao@example.com")

	w := doJSON(r, http.MethodPost, "/api/subscriptions/create",
		`{"plan_slug":"medium","payment_method":"credit_card","payment_intent_id":"pi_teste"}`, cookie)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// pagamento ainda pendente: código segue mascarado
	w = doJSON(r, http.MethodGet, fmt.Sprintf("/api/coupons/%d", premium.ID), "", cookie)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"****"`)

	// confirmação chega (mesmo caminho que o webhook usa)
	require.NoError(t, subscription.NewManager(database).CompletePaymentByIntent("pi_teste"))

	w = doJSON(r, http.MethodGet, fmt.Sprintf("/api/coupons/%d", premium.ID), "", cookie)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "PREMIUM50")
}

func TestFavoriteLimitForFreePlan(t *testing.T) {
	r, database := newTestServer(t)

	cookie := registerUser(t, r, "Maria", "maria@example.com")
	w := doJSON(r, http.MethodPost, "/api/subscriptions/create", `{"plan_slug":"free"}`, cookie)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	for i := 0; i < 5; i++ {
		coupon := seedCoupon(t, database, fmt.Sprintf("Cupom %d", i), fmt.Sprintf("CUPOM%d", i), false)
		w = doJSON(r, http.MethodPost, "/api/favorites", fmt.Sprintf(`{"coupon_id":%d}`, coupon.ID), cookie)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	}

	extra := seedCoupon(t, database, "Cupom Extra", "CUPOMEXTRA", false)
	w = doJSON(r, http.MethodPost, "/api/favorites", fmt.Sprintf(`{"coupon_id":%d}`, extra.ID), cookie)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestSecurityConfigGovernsLoginLimitsAndSession(t *testing.T) {
	var cfg config.Configuration
	cfg.Security.LoginMaxAttempts = 2
	cfg.Security.LoginWindowSeconds = 60
	cfg.Security.SessionMaxValidDays = 1
	r, _ := newTestServerWithConfig(t, cfg)

	w := doJSON(r, http.MethodPost, "/api/register", `{"name":"Maria","email":"maria@example.com","password":"Senha123"}`, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// validade do cookie segue session_max_valid_days
	var maxAge int
	for _, c := range w.Result().Cookies() {
		if c.Name == "session" {
			maxAge = c.MaxAge
		}
	}
	assert.Greater(t, maxAge, 23*3600)
	assert.LessOrEqual(t, maxAge, 24*3600)

	// login_max_attempts vale a partir da config, não do literal
	for i := 0; i < 2; i++ {
		w = doJSON(r, http.MethodPost, "/api/login", `{"email":"maria@example.com","password":"Errada123"}`, "")
		require.Equal(t, http.StatusUnauthorized, w.Code)
	}
	w = doJSON(r, http.MethodPost, "/api/login", `{"email":"maria@example.com","password":"Senha123"}`, "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}

func TestAdminRoutesRequireAdmin(t *testing.T) {
	r, database := newTestServer(t)

	cookie := registerUser(t, r, "Maria", "maria@example.com")

	w := doJSON(r, http.MethodGet, "/api/admin/stats", "", cookie)
	assert.Equal(t, http.StatusForbidden, w.Code)

	require.NoError(t, database.Model(&models.User{}).
		Where("email = ?", "maria@example.com").
		Update("role", models.USER_ROLE_ADMIN).Error)

	w = doJSON(r, http.MethodGet, "/api/admin/stats", "", cookie)
	assert.Equal(t, http.StatusOK, w.Code)
}

func doMultipart(t *testing.T, r *gin.Engine, path, field, filename, contentType string, content []byte, cookie string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, field, filename))
	header.Set("Content-Type", contentType)
	part, err := mw.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if cookie != "" {
		req.Header.Set("Cookie", cookie)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAvatarUpload(t *testing.T) {
	r, database := newTestServer(t)
	cookie := registerUser(t, r, "Maria", "maria@example.com")

	w := doMultipart(t, r, "/api/avatar", "avatar", "notas.txt", "text/plain", []byte("não sou imagem"), cookie)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doMultipart(t, r, "/api/avatar", "avatar", "grande.png", "image/png", make([]byte, 5<<20+1), cookie)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	image := []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}
	w = doMultipart(t, r, "/api/avatar", "avatar", "perfil.png", "image/png", image, cookie)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), "data:image/png;base64,")

	var user models.User
	require.NoError(t, database.Where("email = ?", "maria@example.com").First(&user).Error)
	assert.True(t, strings.HasPrefix(user.AvatarURL, "data:image/png;base64,"))
}

func TestFeedbackFlow(t *testing.T) {
	r, database := newTestServer(t)

	body := `{"name":"Visitante","email":"visita@example.com","subject":"duvida","message":"Tenho uma dúvida sobre cupons."}`
	w := doJSON(r, http.MethodPost, "/api/feedback", body, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	// GET admin exige papel admin
	cookie := registerUser(t, r, "Admin", "admin@example.com")
	require.NoError(t, database.Model(&models.User{}).
		Where("email = ?", "admin@example.com").
		Update("role", models.USER_ROLE_ADMIN).Error)

	w = doJSON(r, http.MethodGet, "/api/feedback?status=new", "", cookie)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Feedbacks []models.Feedback `json:"feedbacks"`
		Total     int64             `json:"total"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, int64(1), resp.Total)

	w = doJSON(r, http.MethodPatch, fmt.Sprintf("/api/feedback/%d", resp.Feedbacks[0].ID), `{"status":"read"}`, cookie)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(r, http.MethodPatch, fmt.Sprintf("/api/feedback/%d", resp.Feedbacks[0].ID), `{"status":"inexistente"}`, cookie)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
