package models

import "time"

// HistoryAction identifica o tipo de mutação registrada no histórico.
type HistoryAction string

const (
	HISTORY_ACTION_CREATED    HistoryAction = "created"
	HISTORY_ACTION_UPGRADED   HistoryAction = "upgraded"
	HISTORY_ACTION_DOWNGRADED HistoryAction = "downgraded"
	HISTORY_ACTION_CANCELLED  HistoryAction = "cancelled"
)

// SubscriptionHistory é a trilha de auditoria das assinaturas.
// Linhas são apenas inseridas, nunca alteradas ou removidas.
type SubscriptionHistory struct {
	ID             int64         `gorm:"primary_key;AUTO_INCREMENT" json:"id"`
	SubscriptionID int64         `gorm:"not null;index" json:"subscription_id"`
	UserID         int64         `gorm:"not null;index" json:"user_id"`
	PreviousPlanID *int64        `json:"previous_plan_id"`
	NewPlanID      int64         `gorm:"not null" json:"new_plan_id"`
	Action         HistoryAction `gorm:"not null" json:"action"`
	Note           string        `gorm:"type:text" json:"note"`
	CreatedAt      *time.Time    `json:"created_at"`
}
