package model

import "time"

// Tier は課金プランの種別。monthlyQuota の正本は ApiKey レコード側に持つ。
type Tier string

const (
	TierFree  Tier = "FREE"
	TierBasic Tier = "BASIC"
	TierPro   Tier = "PRO"
)

// プランごとの月間クォータ。
const (
	QuotaFree  = 100
	QuotaBasic = 1000
	QuotaPro   = 10000
)

// QuotaForTier はプランに対応する月間クォータを返す。
func QuotaForTier(tier Tier) int {
	switch tier {
	case TierBasic:
		return QuotaBasic
	case TierPro:
		return QuotaPro
	default:
		return QuotaFree
	}
}

// ApiKey は企業に発行される API キーを表す。
// tier と monthlyQuota はこのレコードが正であり、
// 使用量カウンターは別系統（Redis）で管理される。
type ApiKey struct {
	ID           string    `json:"id" db:"id"`
	CompanyID    string    `json:"company_id" db:"company_id"`
	Tier         Tier      `json:"tier" db:"tier"`
	Secret       string    `json:"-" db:"secret"`
	MonthlyQuota int       `json:"monthly_quota" db:"monthly_quota"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}
