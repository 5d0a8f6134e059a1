package usecase

import "errors"

// ユースケース層のエラー。ハンドラー層で HTTP ステータスとエラーコードに変換される。
var (
	ErrCouponNotFound     = errors.New("coupon not found")
	ErrCouponExpired      = errors.New("coupon is not in validity period")
	ErrAlreadyRedeemed    = errors.New("coupon already redeemed by this claimant")
	ErrInvalidCouponType  = errors.New("invalid coupon code kind")
	ErrInvalidAPIKey      = errors.New("invalid api key")
	ErrEmailAlreadyExists = errors.New("email already registered")
	ErrCompanyNotFound    = errors.New("company not found")
	ErrInvalidMagicToken  = errors.New("invalid or expired magic link token")
	ErrInvalidDateRange   = errors.New("start date must be before end date")
	ErrNotCouponOwner     = errors.New("coupon belongs to another company")
)
