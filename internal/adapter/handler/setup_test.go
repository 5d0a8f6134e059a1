package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/k1s0-platform/system-server-go-coupon/internal/adapter/middleware"
	"github.com/k1s0-platform/system-server-go-coupon/internal/domain/model"
	"github.com/k1s0-platform/system-server-go-coupon/internal/domain/repository"
	"github.com/k1s0-platform/system-server-go-coupon/internal/infra/cache"
	"github.com/k1s0-platform/system-server-go-coupon/internal/infra/clock"
	"github.com/k1s0-platform/system-server-go-coupon/internal/infra/quota"
	"github.com/k1s0-platform/system-server-go-coupon/internal/usecase"
)

var fixedNow = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

// memCouponRepo はメモリ内の CouponRepository 実装。
type memCouponRepo struct {
	mu      sync.Mutex
	coupons map[string]*model.Coupon
}

func newMemCouponRepo() *memCouponRepo {
	return &memCouponRepo{coupons: make(map[string]*model.Coupon)}
}

func (r *memCouponRepo) GetByID(_ context.Context, id string) (*model.Coupon, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.coupons[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *memCouponRepo) List(_ context.Context, params repository.CouponListParams) ([]*model.Coupon, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.Coupon
	for _, c := range r.coupons {
		if params.Category != "" && c.Category != params.Category {
			continue
		}
		if params.Region != "" && c.Region != params.Region && c.Region != model.RegionNationwide {
			continue
		}
		cp := *c
		out = append(out, &cp)
		if params.Limit > 0 && len(out) >= params.Limit {
			break
		}
	}
	return out, nil
}

func (r *memCouponRepo) Create(_ context.Context, coupon *model.Coupon) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *coupon
	r.coupons[coupon.ID] = &cp
	return nil
}

func (r *memCouponRepo) Update(_ context.Context, coupon *model.Coupon) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.coupons[coupon.ID]; !ok {
		return repository.ErrNotFound
	}
	cp := *coupon
	r.coupons[coupon.ID] = &cp
	return nil
}

func (r *memCouponRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.coupons[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.coupons, id)
	return nil
}

// memRecordRepo はメモリ内の RedeemRecordRepository 実装。
// 条件判定と挿入を単一のロック区間で行い、本番の条件付き挿入と同じ不可分性を持つ。
type memRecordRepo struct {
	mu      sync.Mutex
	records map[string]*model.RedeemRecord
}

func newMemRecordRepo() *memRecordRepo {
	return &memRecordRepo{records: make(map[string]*model.RedeemRecord)}
}

func (r *memRecordRepo) InsertIfAbsent(_ context.Context, record *model.RedeemRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := record.CouponID + "|" + record.ClaimantID
	if _, ok := r.records[key]; ok {
		return repository.ErrDuplicate
	}
	cp := *record
	r.records[key] = &cp
	return nil
}

func (r *memRecordRepo) ListByCouponID(_ context.Context, couponID string) ([]*model.RedeemRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.RedeemRecord
	for _, rec := range r.records {
		if rec.CouponID == couponID {
			cp := *rec
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *memRecordRepo) CountByCouponID(ctx context.Context, couponID string) (int, error) {
	records, _ := r.ListByCouponID(ctx, couponID)
	return len(records), nil
}

// memApiKeyRepo はメモリ内の ApiKeyRepository 実装。
type memApiKeyRepo struct {
	mu   sync.Mutex
	keys map[string]*model.ApiKey
}

func newMemApiKeyRepo() *memApiKeyRepo {
	return &memApiKeyRepo{keys: make(map[string]*model.ApiKey)}
}

func (r *memApiKeyRepo) GetBySecret(_ context.Context, secret string) (*model.ApiKey, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, k := range r.keys {
		if k.Secret == secret {
			cp := *k
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *memApiKeyRepo) GetByCompanyID(_ context.Context, companyID string) (*model.ApiKey, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, k := range r.keys {
		if k.CompanyID == companyID {
			cp := *k
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *memApiKeyRepo) Create(_ context.Context, key *model.ApiKey) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *key
	r.keys[key.ID] = &cp
	return nil
}

func (r *memApiKeyRepo) UpdatePlan(_ context.Context, id string, tier model.Tier, monthlyQuota int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	k, ok := r.keys[id]
	if !ok {
		return repository.ErrNotFound
	}
	k.Tier = tier
	k.MonthlyQuota = monthlyQuota
	return nil
}

// memCompanyRepo はメモリ内の CompanyRepository 実装。
type memCompanyRepo struct {
	mu        sync.Mutex
	companies map[string]*model.Company
}

func newMemCompanyRepo() *memCompanyRepo {
	return &memCompanyRepo{companies: make(map[string]*model.Company)}
}

func (r *memCompanyRepo) GetByID(_ context.Context, id string) (*model.Company, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.companies[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *memCompanyRepo) GetByEmail(_ context.Context, email string) (*model.Company, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.companies {
		if c.Email == email {
			cp := *c
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *memCompanyRepo) Create(_ context.Context, company *model.Company) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *company
	r.companies[company.ID] = &cp
	return nil
}

// noopPublisher は全イベントを黙って受けるパブリッシャー。
type noopPublisher struct{}

func (noopPublisher) PublishRedeemEvent(context.Context, *model.RedeemEvent) error       { return nil }
func (noopPublisher) PublishCouponEvent(context.Context, *model.CouponChangeEvent) error { return nil }
func (noopPublisher) PublishPlanEvent(context.Context, *model.PlanChangeEvent) error     { return nil }

const testWebhookSecret = "whsec_test"

// testEnv はハンドラーテスト用に組み立てた一式。
type testEnv struct {
	router    *gin.Engine
	clk       *clock.FixedClock
	coupons   *memCouponRepo
	keys      *memApiKeyRepo
	companies *memCompanyRepo
	records   *memRecordRepo
	tracker   *quota.Tracker
	cacheCli  cache.CacheClient
}

// newTestEnv は本番の配線と同じ構成でルーターを組み立てる。
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	clk := clock.NewFixedClock(fixedNow)
	cacheCli := cache.NewInMemoryCacheClient()
	store := cache.NewStore(cacheCli)
	tracker := quota.NewTracker(quota.NewInMemoryCounterStore(quota.WithNowFunc(clk.Now)), clk)

	coupons := newMemCouponRepo()
	records := newMemRecordRepo()
	keys := newMemApiKeyRepo()
	companies := newMemCompanyRepo()
	pub := noopPublisher{}
	ttl := 5 * time.Minute
	baseURL := "https://coupon.example.com"

	listUC := usecase.NewListCouponsUseCase(coupons, store, clk, ttl)
	getUC := usecase.NewGetCouponUseCase(coupons, store, clk, ttl)
	createUC := usecase.NewCreateCouponUseCase(coupons, store, pub, clk)
	updateUC := usecase.NewUpdateCouponUseCase(coupons, store, pub, clk)
	deleteUC := usecase.NewDeleteCouponUseCase(coupons, store, pub, clk)
	redeemUC := usecase.NewRedeemCouponUseCase(coupons, records, store, pub, clk, ttl)
	authKeyUC := usecase.NewAuthenticateAPIKeyUseCase(keys, store, ttl)
	registerUC := usecase.NewRegisterCompanyUseCase(companies, keys, clk)
	issueUC := usecase.NewIssueMagicLinkUseCase(companies, cacheCli, baseURL)
	verifyUC := usecase.NewVerifyMagicLinkUseCase(companies, keys, cacheCli)
	planUC := usecase.NewApplyPlanChangeUseCase(keys, store, pub, clk)

	couponHandler := NewCouponHandler(listUC, getUC, createUC, updateUC, deleteUC)
	redeemHandler := NewRedeemHandler(redeemUC)
	companyHandler := NewCompanyHandler(registerUC, issueUC)
	authHandler := NewAuthHandler(issueUC, verifyUC)
	webhookHandler := NewBillingWebhookHandler(planUC, testWebhookSecret)
	healthHandler := NewHealthHandler("coupon", "test", map[string]HealthChecker{})
	gate := middleware.NewAPIKeyGate(authKeyUC, tracker)

	r := gin.New()
	r.Use(middleware.RequestID())

	v1 := r.Group("/v1")
	{
		v1.GET("/coupons", gate.Handler(true), couponHandler.ListCoupons)
		v1.GET("/coupons/:id", gate.Handler(true), couponHandler.GetCoupon)
		v1.POST("/redeem", gate.Handler(true), redeemHandler.Redeem)

		v1.POST("/coupons", gate.Handler(false), couponHandler.CreateCoupon)
		v1.PUT("/coupons/:id", gate.Handler(false), couponHandler.UpdateCoupon)
		v1.DELETE("/coupons/:id", gate.Handler(false), couponHandler.DeleteCoupon)

		v1.POST("/companies", companyHandler.Register)
		v1.POST("/auth/magiclink", authHandler.IssueMagicLink)
		v1.POST("/auth/magiclink/verify", authHandler.VerifyMagicLink)
	}
	r.POST("/webhooks/billing", webhookHandler.HandlePlanChange)
	r.GET("/healthz", healthHandler.Healthz)
	r.GET("/readyz", healthHandler.Readyz)

	return &testEnv{
		router:    r,
		clk:       clk,
		coupons:   coupons,
		keys:      keys,
		companies: companies,
		records:   records,
		tracker:   tracker,
		cacheCli:  cacheCli,
	}
}

// seedApiKey はテスト用の API キーを登録する。
func (e *testEnv) seedApiKey(t *testing.T, monthlyQuota int) *model.ApiKey {
	t.Helper()
	key := &model.ApiKey{
		ID:           "key-uuid-1",
		CompanyID:    "company-uuid-1",
		Tier:         model.TierFree,
		Secret:       "sk_test",
		MonthlyQuota: monthlyQuota,
		CreatedAt:    fixedNow,
		UpdatedAt:    fixedNow,
	}
	require.NoError(t, e.keys.Create(context.Background(), key))
	require.NoError(t, e.companies.Create(context.Background(), &model.Company{
		ID:    "company-uuid-1",
		Name:  "株式会社サンプル",
		Email: "info@example.co.jp",
	}))
	return key
}

// seedCoupon はテスト用のクーポンを登録する。
func (e *testEnv) seedCoupon(t *testing.T, id string, kind model.CodeKind, payload string) *model.Coupon {
	t.Helper()
	coupon := &model.Coupon{
		ID:          id,
		CompanyID:   "company-uuid-1",
		Title:       "10%OFF",
		Description: "対象商品10%割引",
		Category:    "グルメ",
		StartDate:   fixedNow.AddDate(0, -1, 0),
		EndDate:     fixedNow.AddDate(0, 1, 0),
		Region:      "東京都",
		CodeKind:    kind,
		CodePayload: payload,
		CreatedAt:   fixedNow.AddDate(0, -1, 0),
		UpdatedAt:   fixedNow.AddDate(0, -1, 0),
	}
	require.NoError(t, e.coupons.Create(context.Background(), coupon))
	return coupon
}

// do は任意のリクエストを実行する。
func (e *testEnv) do(method, path, apiKey string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if apiKey != "" {
		req.Header.Set("X-API-Key", apiKey)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

// parseEnvelope はレスポンスのエンベロープを展開する。
func parseEnvelope(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

// errorCode はエラーレスポンスからコードを取り出す。
func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	body := parseEnvelope(t, w)
	errObj, ok := body["error"].(map[string]any)
	require.True(t, ok, "expected error envelope, got %s", w.Body.String())
	code, _ := errObj["code"].(string)
	return code
}

// dataField は成功レスポンスから data を取り出す。
func dataField(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	body := parseEnvelope(t, w)
	data, ok := body["data"].(map[string]any)
	require.True(t, ok, "expected data envelope, got %s", w.Body.String())
	require.Contains(t, body, "timestamp")
	return data
}
