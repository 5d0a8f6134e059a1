package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/k1s0-platform/system-server-go-coupon/internal/adapter/presenter"
	"github.com/k1s0-platform/system-server-go-coupon/internal/usecase"
)

// validate はハンドラー共通のバリデータ。
var validate = validator.New()

// writeUsecaseError はユースケース層のエラーを HTTP ステータスとエラーコードに変換する。
func writeUsecaseError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, usecase.ErrCouponNotFound):
		presenter.Error(c, http.StatusNotFound, presenter.CodeCouponNotFound, "coupon not found")
	case errors.Is(err, usecase.ErrNotCouponOwner):
		// 他社クーポンの存在は漏らさない
		presenter.Error(c, http.StatusNotFound, presenter.CodeCouponNotFound, "coupon not found")
	case errors.Is(err, usecase.ErrCouponExpired):
		presenter.Error(c, http.StatusBadRequest, presenter.CodeCouponExpired, "coupon is not in validity period")
	case errors.Is(err, usecase.ErrAlreadyRedeemed):
		presenter.Error(c, http.StatusBadRequest, presenter.CodeAlreadyRedeemed, "coupon already redeemed by this claimant")
	case errors.Is(err, usecase.ErrInvalidCouponType):
		presenter.Error(c, http.StatusBadRequest, presenter.CodeInvalidCouponType, "coupon has an invalid code kind")
	case errors.Is(err, usecase.ErrInvalidDateRange):
		presenter.Error(c, http.StatusBadRequest, presenter.CodeValidationError, "start_date must be before end_date")
	case errors.Is(err, usecase.ErrEmailAlreadyExists):
		presenter.Error(c, http.StatusConflict, presenter.CodeEmailExists, "email already registered")
	case errors.Is(err, usecase.ErrCompanyNotFound):
		presenter.Error(c, http.StatusNotFound, presenter.CodeCompanyNotFound, "company not found")
	case errors.Is(err, usecase.ErrInvalidMagicToken):
		presenter.Error(c, http.StatusUnauthorized, presenter.CodeInvalidMagicToken, "invalid or expired magic link token")
	case errors.Is(err, usecase.ErrInvalidAPIKey):
		presenter.Error(c, http.StatusUnauthorized, presenter.CodeInvalidAPIKey, "invalid api key")
	default:
		presenter.Error(c, http.StatusInternalServerError, presenter.CodeInternalError, "internal server error")
	}
}

// writeValidationError はバリデーション失敗をフィールド列挙付きで返す。
func writeValidationError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, fmt.Sprintf("%s (%s)", strings.ToLower(fe.Field()), fe.Tag()))
		}
		presenter.Error(c, http.StatusBadRequest, presenter.CodeValidationError,
			"validation failed: "+strings.Join(fields, ", "))
		return
	}
	presenter.Error(c, http.StatusBadRequest, presenter.CodeValidationError, "invalid request body")
}
