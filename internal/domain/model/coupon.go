package model

import "time"

// CodeKind はクーポンコードの払い出しポリシー。
type CodeKind string

const (
	CodeKindStatic   CodeKind = "STATIC"
	CodeKindDynamic  CodeKind = "DYNAMIC"
	CodeKindRedirect CodeKind = "REDIRECT"
)

// RegionNationwide は全国共通クーポンを表す地域値。
const RegionNationwide = "全国"

// Coupon はクーポンを表す。startDate < endDate を不変条件とする。
type Coupon struct {
	ID          string    `json:"id" db:"id"`
	CompanyID   string    `json:"company_id" db:"company_id"`
	Title       string    `json:"title" db:"title"`
	Description string    `json:"description" db:"description"`
	Category    string    `json:"category" db:"category"`
	StartDate   time.Time `json:"start_date" db:"start_date"`
	EndDate     time.Time `json:"end_date" db:"end_date"`
	Region      string    `json:"region" db:"region"`
	CodeKind    CodeKind  `json:"code_kind" db:"code_kind"`
	CodePayload string    `json:"code_payload" db:"code_payload"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// IsActive は now が有効期間 [startDate, endDate] 内（両端含む）かを返す。
// 有効判定はキャッシュせず、参照・利用のたびに評価する。
func (c *Coupon) IsActive(now time.Time) bool {
	return !c.StartDate.After(now) && !now.After(c.EndDate)
}
