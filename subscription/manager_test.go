package subscription

import (
	"testing"
	"time"

	"cupomzone/models"

	"github.com/jinzhu/gorm"
	_ "github.com/jinzhu/gorm/dialects/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	db.AutoMigrate(
		&models.User{},
		&models.Plan{},
		&models.Subscription{},
		&models.Payment{},
		&models.SubscriptionHistory{},
		&models.Favorite{},
	)
	return db
}

func seedPlan(t *testing.T, db *gorm.DB, slug string, priceCents int64, period string, maxFavorites *int64, premium bool) models.Plan {
	t.Helper()

	plan := models.Plan{
		Slug:                slug,
		Name:                "Plano " + slug,
		PriceCents:          priceCents,
		BillingPeriod:       period,
		MaxFavorites:        maxFavorites,
		PremiumCouponAccess: premium,
		IsActive:            true,
	}
	require.NoError(t, db.Create(&plan).Error)
	return plan
}

func intPtr(v int64) *int64 { return &v }

func newTestManager(t *testing.T) (*Manager, *gorm.DB) {
	db := newTestDB(t)
	seedPlan(t, db, "free", 0, models.BILLING_PERIOD_MONTHLY, intPtr(5), false)
	seedPlan(t, db, "medium", 1990, models.BILLING_PERIOD_MONTHLY, intPtr(20), true)
	seedPlan(t, db, "pro", 3990, models.BILLING_PERIOD_YEARLY, nil, true)
	return NewManager(db), db
}

func activeOrPendingCount(t *testing.T, db *gorm.DB, userID int64) int64 {
	t.Helper()
	var count int64
	require.NoError(t, db.Model(&models.Subscription{}).
		Where("user_id = ? AND status IN (?)", userID, []models.SubscriptionStatus{
			models.SUBSCRIPTION_STATUS_ACTIVE,
			models.SUBSCRIPTION_STATUS_PENDING,
		}).Count(&count).Error)
	return count
}

func TestCreateSubscriptionFreePlan(t *testing.T) {
	m, db := newTestManager(t)

	subID, paymentID, err := m.CreateSubscription(1, "free", models.PAYMENT_METHOD_PIX)
	require.NoError(t, err)

	var sub models.Subscription
	require.NoError(t, db.First(&sub, subID).Error)
	assert.Equal(t, models.SUBSCRIPTION_STATUS_ACTIVE, sub.Status)
	require.NotNil(t, sub.CurrentPeriodStart)
	require.NotNil(t, sub.CurrentPeriodEnd)
	assert.WithinDuration(t, sub.CurrentPeriodStart.AddDate(0, 1, 0), *sub.CurrentPeriodEnd, time.Second)

	var payment models.Payment
	require.NoError(t, db.First(&payment, paymentID).Error)
	assert.Equal(t, models.PAYMENT_STATUS_COMPLETED, payment.Status)
	assert.NotNil(t, payment.PaidAt)
	assert.EqualValues(t, 0, payment.AmountCents)

	var history models.SubscriptionHistory
	require.NoError(t, db.Where("subscription_id = ?", subID).First(&history).Error)
	assert.Equal(t, models.HISTORY_ACTION_CREATED, history.Action)
}

func TestCreateSubscriptionPaidPlanStartsPending(t *testing.T) {
	m, db := newTestManager(t)

	subID, paymentID, err := m.CreateSubscription(1, "medium", models.PAYMENT_METHOD_CREDIT_CARD)
	require.NoError(t, err)

	var sub models.Subscription
	require.NoError(t, db.First(&sub, subID).Error)
	assert.Equal(t, models.SUBSCRIPTION_STATUS_PENDING, sub.Status)

	var payment models.Payment
	require.NoError(t, db.First(&payment, paymentID).Error)
	assert.Equal(t, models.PAYMENT_STATUS_PENDING, payment.Status)
	assert.Nil(t, payment.PaidAt)
	assert.EqualValues(t, 1990, payment.AmountCents)
}

func TestCreateSubscriptionYearlyPeriod(t *testing.T) {
	m, db := newTestManager(t)

	subID, _, err := m.CreateSubscription(1, "pro", models.PAYMENT_METHOD_BOLETO)
	require.NoError(t, err)

	var sub models.Subscription
	require.NoError(t, db.First(&sub, subID).Error)
	assert.WithinDuration(t, sub.CurrentPeriodStart.AddDate(1, 0, 0), *sub.CurrentPeriodEnd, time.Second)
}

func TestCreateSubscriptionUnknownPlan(t *testing.T) {
	m, _ := newTestManager(t)

	_, _, err := m.CreateSubscription(1, "enterprise", models.PAYMENT_METHOD_PIX)
	assert.ErrorIs(t, err, ErrPlanNotFound)
}

func TestCreateSubscriptionInactivePlan(t *testing.T) {
	m, db := newTestManager(t)
	require.NoError(t, db.Model(&models.Plan{}).Where("slug = ?", "medium").Update("is_active", false).Error)

	_, _, err := m.CreateSubscription(1, "medium", models.PAYMENT_METHOD_PIX)
	assert.ErrorIs(t, err, ErrPlanNotFound)
}

func TestCreateSupersedesPriorActive(t *testing.T) {
	m, db := newTestManager(t)

	firstID, _, err := m.CreateSubscription(1, "free", models.PAYMENT_METHOD_PIX)
	require.NoError(t, err)

	_, _, err = m.CreateSubscription(1, "medium", models.PAYMENT_METHOD_CREDIT_CARD)
	require.NoError(t, err)

	var first models.Subscription
	require.NoError(t, db.First(&first, firstID).Error)
	assert.Equal(t, models.SUBSCRIPTION_STATUS_CANCELLED, first.Status)
	assert.NotNil(t, first.CancelledAt)

	var note models.SubscriptionHistory
	require.NoError(t, db.Where("subscription_id = ? AND action = ?", firstID, models.HISTORY_ACTION_CANCELLED).
		First(&note).Error)
	assert.Contains(t, note.Note, "superada")
}

func TestSingleActiveOrPendingInvariant(t *testing.T) {
	m, db := newTestManager(t)

	for _, slug := range []string{"free", "medium", "free", "pro", "medium"} {
		_, _, err := m.CreateSubscription(7, slug, models.PAYMENT_METHOD_PIX)
		require.NoError(t, err)
		assert.LessOrEqual(t, activeOrPendingCount(t, db, 7), int64(1))
	}
}

func TestChangePlanClassification(t *testing.T) {
	m, db := newTestManager(t)
	seedPlan(t, db, "medium-alt", 1990, models.BILLING_PERIOD_MONTHLY, intPtr(20), true)

	_, _, err := m.CreateSubscription(1, "medium", models.PAYMENT_METHOD_PIX)
	require.NoError(t, err)

	// mais caro: upgrade
	require.NoError(t, m.ChangePlan(1, "pro"))
	var entry models.SubscriptionHistory
	require.NoError(t, db.Where("user_id = ? AND action = ?", 1, models.HISTORY_ACTION_UPGRADED).First(&entry).Error)

	// mais barato: downgrade
	require.NoError(t, m.ChangePlan(1, "medium"))
	var downgradeEntry models.SubscriptionHistory
	require.NoError(t, db.Where("user_id = ? AND action = ?", 1, models.HISTORY_ACTION_DOWNGRADED).First(&downgradeEntry).Error)

	// preço igual também é downgrade
	require.NoError(t, m.ChangePlan(1, "medium-alt"))
	var downgrades int64
	require.NoError(t, db.Model(&models.SubscriptionHistory{}).
		Where("user_id = ? AND action = ?", 1, models.HISTORY_ACTION_DOWNGRADED).Count(&downgrades).Error)
	assert.EqualValues(t, 2, downgrades)
}

func TestChangePlanKeepsBillingPeriod(t *testing.T) {
	m, db := newTestManager(t)

	subID, _, err := m.CreateSubscription(1, "medium", models.PAYMENT_METHOD_PIX)
	require.NoError(t, err)

	var before models.Subscription
	require.NoError(t, db.First(&before, subID).Error)

	require.NoError(t, m.ChangePlan(1, "pro"))

	var after models.Subscription
	require.NoError(t, db.First(&after, subID).Error)
	assert.Equal(t, subID, after.ID, "troca de plano não cria nova assinatura")
	assert.True(t, before.CurrentPeriodEnd.Equal(*after.CurrentPeriodEnd))

	var proPlan models.Plan
	require.NoError(t, db.Where("slug = ?", "pro").First(&proPlan).Error)
	assert.Equal(t, proPlan.ID, after.PlanID)
}

func TestChangePlanWithoutSubscription(t *testing.T) {
	m, _ := newTestManager(t)
	assert.ErrorIs(t, m.ChangePlan(99, "pro"), ErrSubscriptionNotFound)
}

func TestChangePlanUnknownTarget(t *testing.T) {
	m, _ := newTestManager(t)
	_, _, err := m.CreateSubscription(1, "free", models.PAYMENT_METHOD_PIX)
	require.NoError(t, err)
	assert.ErrorIs(t, m.ChangePlan(1, "enterprise"), ErrPlanNotFound)
}

func TestCancelImmediate(t *testing.T) {
	m, db := newTestManager(t)

	subID, _, err := m.CreateSubscription(1, "free", models.PAYMENT_METHOD_PIX)
	require.NoError(t, err)

	require.NoError(t, m.CancelSubscription(1, true))

	var sub models.Subscription
	require.NoError(t, db.First(&sub, subID).Error)
	assert.Equal(t, models.SUBSCRIPTION_STATUS_CANCELLED, sub.Status)
	assert.False(t, sub.CancelAtPeriodEnd)
	assert.NotNil(t, sub.CancelledAt)
}

func TestCancelAtPeriodEnd(t *testing.T) {
	m, db := newTestManager(t)

	subID, _, err := m.CreateSubscription(1, "free", models.PAYMENT_METHOD_PIX)
	require.NoError(t, err)

	require.NoError(t, m.CancelSubscription(1, false))

	var sub models.Subscription
	require.NoError(t, db.First(&sub, subID).Error)
	assert.Equal(t, models.SUBSCRIPTION_STATUS_ACTIVE, sub.Status, "status não muda no cancelamento diferido")
	assert.True(t, sub.CancelAtPeriodEnd)
	assert.NotNil(t, sub.CancelledAt)
}

func TestCancelWithoutSubscription(t *testing.T) {
	m, _ := newTestManager(t)
	assert.ErrorIs(t, m.CancelSubscription(42, true), ErrSubscriptionNotFound)
}

func TestPremiumAccess(t *testing.T) {
	m, _ := newTestManager(t)

	// sem assinatura
	ok, err := m.HasAccessToPremiumCoupons(1)
	require.NoError(t, err)
	assert.False(t, ok)

	// plano gratuito ativo, sem acesso premium
	_, _, err = m.CreateSubscription(1, "free", models.PAYMENT_METHOD_PIX)
	require.NoError(t, err)
	ok, err = m.HasAccessToPremiumCoupons(1)
	require.NoError(t, err)
	assert.False(t, ok)

	// plano pago pendente ainda não libera
	_, paymentID, err := m.CreateSubscription(1, "medium", models.PAYMENT_METHOD_CREDIT_CARD)
	require.NoError(t, err)
	ok, err = m.HasAccessToPremiumCoupons(1)
	require.NoError(t, err)
	assert.False(t, ok)

	// confirmação do pagamento libera
	require.NoError(t, m.UpdatePaymentStatus(paymentID, models.PAYMENT_STATUS_COMPLETED, "pi_test"))
	ok, err = m.HasAccessToPremiumCoupons(1)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestPremiumAccessDeniedWhenCancelled(t *testing.T) {
	m, db := newTestManager(t)

	subID, paymentID, err := m.CreateSubscription(1, "medium", models.PAYMENT_METHOD_PIX)
	require.NoError(t, err)
	require.NoError(t, m.UpdatePaymentStatus(paymentID, models.PAYMENT_STATUS_COMPLETED, ""))

	require.NoError(t, m.CancelSubscription(1, true))

	// período ainda vigente, mesmo assim sem acesso
	var sub models.Subscription
	require.NoError(t, db.First(&sub, subID).Error)
	assert.True(t, sub.CurrentPeriodEnd.After(time.Now()))

	ok, err := m.HasAccessToPremiumCoupons(1)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCanAddFavoriteLimits(t *testing.T) {
	m, db := newTestManager(t)

	// sem assinatura ativa
	ok, err := m.CanAddFavorite(1)
	require.NoError(t, err)
	assert.False(t, ok)

	// plano free: limite 5, exclusivo
	_, _, err = m.CreateSubscription(1, "free", models.PAYMENT_METHOD_PIX)
	require.NoError(t, err)

	for i := int64(0); i < 4; i++ {
		require.NoError(t, db.Create(&models.Favorite{UserID: 1, CouponID: i + 1}).Error)
		ok, err = m.CanAddFavorite(1)
		require.NoError(t, err)
		assert.True(t, ok)
	}
	require.NoError(t, db.Create(&models.Favorite{UserID: 1, CouponID: 5}).Error)
	ok, err = m.CanAddFavorite(1)
	require.NoError(t, err)
	assert.False(t, ok, "contagem igual ao limite bloqueia")
}

func TestCanAddFavoriteUnlimited(t *testing.T) {
	m, db := newTestManager(t)

	_, paymentID, err := m.CreateSubscription(1, "pro", models.PAYMENT_METHOD_CREDIT_CARD)
	require.NoError(t, err)
	require.NoError(t, m.UpdatePaymentStatus(paymentID, models.PAYMENT_STATUS_COMPLETED, ""))

	for i := int64(0); i < 100; i++ {
		require.NoError(t, db.Create(&models.Favorite{UserID: 1, CouponID: i + 1}).Error)
	}
	ok, err := m.CanAddFavorite(1)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestWebhookCompletionEndToEnd(t *testing.T) {
	m, db := newTestManager(t)

	subID, paymentID, err := m.CreateSubscription(42, "medium", models.PAYMENT_METHOD_CREDIT_CARD)
	require.NoError(t, err)

	var sub models.Subscription
	require.NoError(t, db.First(&sub, subID).Error)
	require.Equal(t, models.SUBSCRIPTION_STATUS_PENDING, sub.Status)

	require.NoError(t, m.SetStripeReferences(42, subID, paymentID, "cus_42", "sub_42", "pi_42"))

	// webhook do provedor confirma o pagamento
	require.NoError(t, m.CompletePaymentByIntent("pi_42"))

	ok, err := m.HasAccessToPremiumCoupons(42)
	require.NoError(t, err)
	assert.True(t, ok)

	var payment models.Payment
	require.NoError(t, db.First(&payment, paymentID).Error)
	assert.Equal(t, models.PAYMENT_STATUS_COMPLETED, payment.Status)
	assert.NotNil(t, payment.PaidAt)
}

func TestLateConfirmationDoesNotReviveSupersededSubscription(t *testing.T) {
	m, db := newTestManager(t)

	oldSubID, oldPaymentID, err := m.CreateSubscription(7, "medium", models.PAYMENT_METHOD_CREDIT_CARD)
	require.NoError(t, err)
	require.NoError(t, m.SetStripeReferences(7, oldSubID, oldPaymentID, "", "", "pi_antigo"))

	// nova assinatura supera a anterior antes do pagamento confirmar
	_, _, err = m.CreateSubscription(7, "pro", models.PAYMENT_METHOD_CREDIT_CARD)
	require.NoError(t, err)

	require.NoError(t, m.CompletePaymentByIntent("pi_antigo"))

	var oldSub models.Subscription
	require.NoError(t, db.First(&oldSub, oldSubID).Error)
	assert.Equal(t, models.SUBSCRIPTION_STATUS_CANCELLED, oldSub.Status)

	// o pagamento fica registrado como concluído mesmo assim
	var payment models.Payment
	require.NoError(t, db.First(&payment, oldPaymentID).Error)
	assert.Equal(t, models.PAYMENT_STATUS_COMPLETED, payment.Status)

	assert.Equal(t, int64(1), activeOrPendingCount(t, db, 7))
}

func TestFailPaymentKeepsSubscriptionPending(t *testing.T) {
	m, db := newTestManager(t)

	subID, paymentID, err := m.CreateSubscription(1, "medium", models.PAYMENT_METHOD_CREDIT_CARD)
	require.NoError(t, err)
	require.NoError(t, m.SetStripeReferences(1, subID, paymentID, "", "", "pi_fail"))

	require.NoError(t, m.FailPaymentByIntent("pi_fail"))

	var payment models.Payment
	require.NoError(t, db.First(&payment, paymentID).Error)
	assert.Equal(t, models.PAYMENT_STATUS_FAILED, payment.Status)

	var sub models.Subscription
	require.NoError(t, db.First(&sub, subID).Error)
	assert.Equal(t, models.SUBSCRIPTION_STATUS_PENDING, sub.Status)
}

func TestCompletePaymentUnknownIntentIsNoop(t *testing.T) {
	m, _ := newTestManager(t)
	assert.NoError(t, m.CompletePaymentByIntent("pi_desconhecido"))
}

func TestExpireLapsed(t *testing.T) {
	m, db := newTestManager(t)

	deferredID, _, err := m.CreateSubscription(1, "free", models.PAYMENT_METHOD_PIX)
	require.NoError(t, err)
	require.NoError(t, m.CancelSubscription(1, false))

	plainID, _, err := m.CreateSubscription(2, "free", models.PAYMENT_METHOD_PIX)
	require.NoError(t, err)

	past := time.Now().AddDate(0, 0, -1)
	require.NoError(t, db.Model(&models.Subscription{}).
		Where("id IN (?)", []int64{deferredID, plainID}).
		Update("current_period_end", past).Error)

	changed, err := m.ExpireLapsed(time.Now())
	require.NoError(t, err)
	assert.EqualValues(t, 2, changed)

	var deferred, plain models.Subscription
	require.NoError(t, db.First(&deferred, deferredID).Error)
	require.NoError(t, db.First(&plain, plainID).Error)
	assert.Equal(t, models.SUBSCRIPTION_STATUS_CANCELLED, deferred.Status)
	assert.Equal(t, models.SUBSCRIPTION_STATUS_EXPIRED, plain.Status)
}

func TestGetAllPlansOrderedByPrice(t *testing.T) {
	m, _ := newTestManager(t)

	plans, err := m.GetAllPlans()
	require.NoError(t, err)
	require.Len(t, plans, 3)
	assert.Equal(t, "free", plans[0].Slug)
	assert.Equal(t, "medium", plans[1].Slug)
	assert.Equal(t, "pro", plans[2].Slug)
}
