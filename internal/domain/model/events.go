package model

import "time"

// RedeemEvent はクーポン利用成功時に Kafka へ配信されるイベント。
type RedeemEvent struct {
	ID         string    `json:"id"`
	CouponID   string    `json:"coupon_id"`
	CompanyID  string    `json:"company_id"`
	ClaimantID string    `json:"claimant_id"`
	CodeKind   CodeKind  `json:"code_kind"`
	RedeemedAt time.Time `json:"redeemed_at"`
}

// CouponChangeEvent はクーポンの作成・更新・削除時に配信されるイベント。
type CouponChangeEvent struct {
	ID         string    `json:"id"`
	CouponID   string    `json:"coupon_id"`
	CompanyID  string    `json:"company_id"`
	ChangeType string    `json:"change_type"` // CREATED / UPDATED / DELETED
	ChangedAt  time.Time `json:"changed_at"`
}

// PlanChangeEvent は課金 Webhook によるプラン変更時に配信されるイベント。
type PlanChangeEvent struct {
	ID        string    `json:"id"`
	CompanyID string    `json:"company_id"`
	APIKeyID  string    `json:"api_key_id"`
	OldTier   Tier      `json:"old_tier"`
	NewTier   Tier      `json:"new_tier"`
	ChangedAt time.Time `json:"changed_at"`
}
