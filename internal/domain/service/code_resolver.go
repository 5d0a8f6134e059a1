package service

import (
	"fmt"
	"strconv"
	"time"

	"github.com/k1s0-platform/system-server-go-coupon/internal/domain/model"
)

// ErrInvalidCodeKind は未知のコード種別を持つクーポン設定エラー。
var ErrInvalidCodeKind = fmt.Errorf("invalid coupon code kind")

// ResolvedCode はコード解決の結果。REDIRECT の場合は RedirectURL のみ設定される。
type ResolvedCode struct {
	Type        string `json:"type"`
	Code        string `json:"code,omitempty"`
	RedirectURL string `json:"redirect_url,omitempty"`
}

// ResolveCode はクーポンのコードポリシーに従い払い出し内容を決定する。
// (coupon, now) に対して純粋であり、有効期間チェックと利用記録の
// 登録が成功した後の最終段階でのみ呼ばれる。
func ResolveCode(coupon *model.Coupon, now time.Time) (*ResolvedCode, error) {
	switch coupon.CodeKind {
	case model.CodeKindStatic:
		return &ResolvedCode{
			Type: "static_code",
			Code: coupon.CodePayload,
		}, nil
	case model.CodeKindDynamic:
		// タイムスタンプ（ミリ秒）の base36 表現を付与する。
		// 利用時刻ごとに一意だがセキュリティトークンではない。
		suffix := strconv.FormatInt(now.UnixMilli(), 36)
		return &ResolvedCode{
			Type: "dynamic_code",
			Code: coupon.CodePayload + "-" + suffix,
		}, nil
	case model.CodeKindRedirect:
		return &ResolvedCode{
			Type:        "redirect",
			RedirectURL: coupon.CodePayload,
		}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrInvalidCodeKind, coupon.CodeKind)
	}
}
