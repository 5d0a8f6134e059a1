package model

import (
	"encoding/json"
	"time"
)

// RedeemRecord はクーポン利用記録を表す。一度書き込んだら不変。
// (couponId, claimantId) の組はクーポンごとに一意（べき等性の不変条件）。
type RedeemRecord struct {
	ID         string          `json:"id" db:"id"`
	CouponID   string          `json:"coupon_id" db:"coupon_id"`
	ClaimantID string          `json:"claimant_id" db:"claimant_id"`
	RedeemedAt time.Time       `json:"redeemed_at" db:"redeemed_at"`
	MetaJSON   json.RawMessage `json:"meta" db:"meta_json"`
}

// RedeemMeta は利用記録に付与するメタ情報。
type RedeemMeta struct {
	IP        string `json:"ip"`
	UserAgent string `json:"user_agent"`
	APIKeyID  string `json:"api_key_id"`
}
