package handler

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signBody(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func (e *testEnv) doWebhook(body []byte, signature string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/webhooks/billing", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if signature != "" {
		req.Header.Set(SignatureHeader, signature)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func TestBillingWebhook_PlanUpgrade(t *testing.T) {
	env := newTestEnv(t)
	env.seedApiKey(t, 100)

	body := []byte(`{"company_id":"company-uuid-1","new_tier":"PRO"}`)
	w := env.doWebhook(body, signBody(testWebhookSecret, body))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// 変更後のプランが即座に反映される（認証キャッシュも無効化される）
	key, err := env.keys.GetByCompanyID(context.Background(), "company-uuid-1")
	require.NoError(t, err)
	assert.Equal(t, 10000, key.MonthlyQuota)
}

func TestBillingWebhook_InvalidSignature(t *testing.T) {
	env := newTestEnv(t)
	env.seedApiKey(t, 100)

	body := []byte(`{"company_id":"company-uuid-1","new_tier":"PRO"}`)

	w := env.doWebhook(body, "deadbeef")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "INVALID_SIGNATURE", errorCode(t, w))

	w = env.doWebhook(body, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// 署名が一致しない限りプランは変わらない
	key, err := env.keys.GetByCompanyID(context.Background(), "company-uuid-1")
	require.NoError(t, err)
	assert.Equal(t, 100, key.MonthlyQuota)
}

func TestBillingWebhook_SignatureOverDifferentBody(t *testing.T) {
	env := newTestEnv(t)
	env.seedApiKey(t, 100)

	signed := signBody(testWebhookSecret, []byte(`{"company_id":"company-uuid-1","new_tier":"BASIC"}`))
	tampered := []byte(`{"company_id":"company-uuid-1","new_tier":"PRO"}`)

	w := env.doWebhook(tampered, signed)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestBillingWebhook_UnknownCompany(t *testing.T) {
	env := newTestEnv(t)

	body := []byte(`{"company_id":"11111111-2222-3333-4444-555555555555","new_tier":"PRO"}`)
	w := env.doWebhook(body, signBody(testWebhookSecret, body))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "COMPANY_NOT_FOUND", errorCode(t, w))
}

func TestBillingWebhook_InvalidTier(t *testing.T) {
	env := newTestEnv(t)
	env.seedApiKey(t, 100)

	body := []byte(`{"company_id":"company-uuid-1","new_tier":"PLATINUM"}`)
	w := env.doWebhook(body, signBody(testWebhookSecret, body))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION_ERROR", errorCode(t, w))
}
