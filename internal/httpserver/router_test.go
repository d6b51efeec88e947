package httpserver

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"featherlite/internal/config"
	"featherlite/internal/domain"
	"featherlite/internal/ratelimit"
	reviewrepo "featherlite/internal/repository/review"
	adminsvc "featherlite/internal/service/admin"
	cartsvc "featherlite/internal/service/cart"
	catalogsvc "featherlite/internal/service/catalog"
	checkoutsvc "featherlite/internal/service/checkout"
	orderssvc "featherlite/internal/service/orders"
	reviewsvc "featherlite/internal/service/review"
)

const (
	testAdminEmail    = "moderator@featherlite.test"
	testAdminPassword = "opensesame"
	testAdminSecret   = "0123456789abcdef0123456789abcdef"
	testWebhookSecret = "whsec_featherlite"
)

func logDiscard() *log.Logger {
	return log.New(io.Discard, "", 0)
}

type stubOrderRepo struct {
	upserts int
	stored  []domain.Order
}

func (s *stubOrderRepo) Upsert(_ context.Context, o domain.Order) (*domain.Order, error) {
	s.upserts++
	out := o
	out.ID = "row-1"
	return &out, nil
}

func (s *stubOrderRepo) List(_ context.Context) ([]domain.Order, error) {
	return s.stored, nil
}

type stubReviewRepo struct {
	review *domain.Review
}

func (s *stubReviewRepo) Create(_ context.Context, r domain.Review) (*domain.Review, error) {
	out := r
	out.ID = "rev-1"
	out.CreatedAt = time.Now()
	return &out, nil
}

func (s *stubReviewRepo) List(_ context.Context, _ reviewrepo.ListFilter) ([]domain.Review, error) {
	return nil, nil
}

func (s *stubReviewRepo) UpdateStatus(_ context.Context, id, status string, moderatedBy *string, moderatedAt *time.Time) (*domain.Review, error) {
	if s.review == nil {
		return nil, domain.ErrNotFound
	}
	out := *s.review
	out.Status = status
	out.ModeratedBy = moderatedBy
	out.ModeratedAt = moderatedAt
	return &out, nil
}

type stubProductLookup struct{}

func (stubProductLookup) GetBySlug(_ context.Context, slug string) (*domain.Product, error) {
	if slug != "weightless-mineral-foundation" {
		return nil, domain.ErrNotFound
	}
	return &domain.Product{ID: "prod-1", Slug: slug, Name: "Weightless Mineral Foundation"}, nil
}

func testDeps(t *testing.T, orderRepo *stubOrderRepo) Deps {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger := logDiscard()
	limiter := ratelimit.NewMemory(5, time.Minute)

	if orderRepo == nil {
		orderRepo = &stubOrderRepo{}
	}
	return Deps{
		Config:   config.Config{},
		Carts:    cartsvc.New(cartsvc.NewMockStore(), cartsvc.NewMemorySnapshots(), logger),
		Catalog:  catalogsvc.New(nil, nil, logger),
		Checkout: checkoutsvc.New(nil, nil, logger),
		Orders:   orderssvc.New(orderRepo, testWebhookSecret, logger),
		Reviews:  reviewsvc.New(&stubReviewRepo{review: &domain.Review{ID: "rev-1"}}, stubProductLookup{}, logger),
		Admin:    adminsvc.New(testAdminEmail, "plain:"+testAdminPassword, testAdminSecret, limiter, logger),
	}
}

func newTestRouter(t *testing.T, deps Deps) *gin.Engine {
	t.Helper()
	router, err := buildRouter(logDiscard(), nil, deps)
	if err != nil {
		t.Fatalf("build router: %v", err)
	}
	return router
}

func doJSON(router *gin.Engine, method, path, body string, header http.Header) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode body %q: %v", rec.Body.String(), err)
	}
	return out
}

func TestHealthz(t *testing.T) {
	router := newTestRouter(t, testDeps(t, nil))
	rec := doJSON(router, http.MethodGet, "/healthz", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestListProducts(t *testing.T) {
	router := newTestRouter(t, testDeps(t, nil))
	rec := doJSON(router, http.MethodGet, "/products?category=foundation", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	items := body["items"].([]interface{})
	if len(items) != 1 {
		t.Fatalf("expected one foundation, got %d", len(items))
	}
}

func TestGetProductNotFound(t *testing.T) {
	router := newTestRouter(t, testDeps(t, nil))
	rec := doJSON(router, http.MethodGet, "/products/ghost", "", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestCartLifecycle(t *testing.T) {
	router := newTestRouter(t, testDeps(t, nil))

	rec := doJSON(router, http.MethodPost, "/cart",
		`{"lines":[{"merchandiseId":"gid://shopify/ProductVariant/foundation-porcelain","quantity":2}]}`, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("create: expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	created := decodeBody(t, rec)["cart"].(map[string]interface{})
	cartID := created["id"].(string)
	if created["subtotalCents"].(float64) != 6400 {
		t.Fatalf("subtotal = %v", created["subtotalCents"])
	}

	rec = doJSON(router, http.MethodGet, "/cart?id="+cartID, "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("fetch: expected 200, got %d", rec.Code)
	}

	rec = doJSON(router, http.MethodPost, "/cart/clear", `{"cartId":"`+cartID+`"}`, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("clear: expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	cleared := decodeBody(t, rec)["cart"].(map[string]interface{})
	if cleared["subtotalCents"].(float64) != 0 {
		t.Fatalf("expected empty cart, got %v", cleared)
	}
}

func TestCartValidation(t *testing.T) {
	router := newTestRouter(t, testDeps(t, nil))

	rec := doJSON(router, http.MethodGet, "/cart", "", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("missing id: expected 400, got %d", rec.Code)
	}

	rec = doJSON(router, http.MethodPost, "/cart",
		`{"lines":[{"merchandiseId":"gid://shopify/ProductVariant/foundation-porcelain","quantity":0}]}`, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("zero quantity: expected 400, got %d", rec.Code)
	}

	rec = doJSON(router, http.MethodDelete, "/cart", `{"cartId":"x"}`, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("missing lineIds: expected 400, got %d", rec.Code)
	}
}

func TestCheckoutMockMode(t *testing.T) {
	router := newTestRouter(t, testDeps(t, nil))
	rec := doJSON(router, http.MethodPost, "/checkout", `{"items":[{"sku":"FL-EYE-01","qty":1}]}`, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	if body["mock"] != true {
		t.Fatalf("expected mock checkout, got %v", body)
	}
}

func TestCheckoutMissingSKU(t *testing.T) {
	router := newTestRouter(t, testDeps(t, nil))
	rec := doJSON(router, http.MethodPost, "/checkout", `{"items":[{"sku":"NOPE","qty":1}]}`, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d body=%s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	missing := body["missing"].([]interface{})
	if len(missing) != 1 || missing[0] != "NOPE" {
		t.Fatalf("expected missing [NOPE], got %v", missing)
	}
}

func signWebhook(body string) string {
	mac := hmac.New(sha256.New, []byte(testWebhookSecret))
	mac.Write([]byte(body))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func TestWebhookAcceptsSignedOrder(t *testing.T) {
	orderRepo := &stubOrderRepo{}
	router := newTestRouter(t, testDeps(t, orderRepo))
	body := `{"id":1001,"currency":"USD","total_price":"70.50","line_items":[]}`

	header := http.Header{}
	header.Set("X-Shopify-Topic", "orders/create")
	header.Set("X-Shopify-Hmac-Sha256", signWebhook(body))
	rec := doJSON(router, http.MethodPost, "/shopify/webhook", body, header)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	if orderRepo.upserts != 1 {
		t.Fatalf("expected one upsert, got %d", orderRepo.upserts)
	}
}

func TestWebhookRejectsBadSignature(t *testing.T) {
	orderRepo := &stubOrderRepo{}
	router := newTestRouter(t, testDeps(t, orderRepo))

	header := http.Header{}
	header.Set("X-Shopify-Topic", "orders/create")
	header.Set("X-Shopify-Hmac-Sha256", "Ym9ndXM=")
	rec := doJSON(router, http.MethodPost, "/shopify/webhook", `{"id":1001}`, header)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if orderRepo.upserts != 0 {
		t.Fatal("rejected delivery must not write")
	}
}

func TestWebhookIgnoresUnknownTopic(t *testing.T) {
	router := newTestRouter(t, testDeps(t, nil))
	body := `{"id":1}`

	header := http.Header{}
	header.Set("X-Shopify-Topic", "products/update")
	header.Set("X-Shopify-Hmac-Sha256", signWebhook(body))
	rec := doJSON(router, http.MethodPost, "/shopify/webhook", body, header)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if decodeBody(t, rec)["ignored"] != true {
		t.Fatalf("expected ignored flag, got %s", rec.Body.String())
	}
}

func login(t *testing.T, router *gin.Engine) *http.Cookie {
	t.Helper()
	rec := doJSON(router, http.MethodPost, "/auth/login",
		`{"email":"`+testAdminEmail+`","password":"`+testAdminPassword+`"}`, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("login: expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	for _, c := range rec.Result().Cookies() {
		if c.Name == adminsvc.SessionCookie {
			return c
		}
	}
	t.Fatal("session cookie not set")
	return nil
}

func TestLoginAndSession(t *testing.T) {
	router := newTestRouter(t, testDeps(t, nil))
	cookie := login(t, router)

	req := httptest.NewRequest(http.MethodGet, "/auth/session", nil)
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	body := decodeBody(t, rec)
	if body["authenticated"] != true || body["email"] != testAdminEmail {
		t.Fatalf("unexpected session body %v", body)
	}
}

// The session probe answers 200 for anonymous callers so the storefront
// can poll it without tripping auth error handling.
func TestSessionWithoutCookie(t *testing.T) {
	router := newTestRouter(t, testDeps(t, nil))

	req := httptest.NewRequest(http.MethodGet, "/auth/session", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["authenticated"] != false {
		t.Fatalf("unexpected session body %v", body)
	}
}

func TestLoginRateLimit(t *testing.T) {
	router := newTestRouter(t, testDeps(t, nil))
	header := http.Header{}
	header.Set("X-Forwarded-For", "203.0.113.7")

	for i := 0; i < 5; i++ {
		doJSON(router, http.MethodPost, "/auth/login",
			`{"email":"`+testAdminEmail+`","password":"wrong"}`, header)
	}
	rec := doJSON(router, http.MethodPost, "/auth/login",
		`{"email":"`+testAdminEmail+`","password":"`+testAdminPassword+`"}`, header)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", rec.Code)
	}
}

func TestModerationRequiresSession(t *testing.T) {
	router := newTestRouter(t, testDeps(t, nil))
	rec := doJSON(router, http.MethodPatch, "/reviews/rev-1", `{"status":"APPROVED"}`, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestModerationWithSession(t *testing.T) {
	router := newTestRouter(t, testDeps(t, nil))
	cookie := login(t, router)

	req := httptest.NewRequest(http.MethodPatch, "/reviews/rev-1", strings.NewReader(`{"status":"APPROVED"}`))
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	review := decodeBody(t, rec)["review"].(map[string]interface{})
	if review["status"] != "APPROVED" {
		t.Fatalf("status = %v", review["status"])
	}
	if review["moderatedBy"] != testAdminEmail {
		t.Fatalf("moderatedBy = %v", review["moderatedBy"])
	}
}

func TestSubmitReview(t *testing.T) {
	router := newTestRouter(t, testDeps(t, nil))
	rec := doJSON(router, http.MethodPost, "/reviews",
		`{"productSlug":"weightless-mineral-foundation","rating":5,"comment":"Lovely finish."}`, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d body=%s", rec.Code, rec.Body.String())
	}
	review := decodeBody(t, rec)["review"].(map[string]interface{})
	if review["status"] != "PENDING" {
		t.Fatalf("status = %v", review["status"])
	}
}

func TestStatusReportsMockMode(t *testing.T) {
	router := newTestRouter(t, testDeps(t, nil))
	rec := doJSON(router, http.MethodGet, "/status", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	summary := decodeBody(t, rec)["summary"].(map[string]interface{})
	if summary["mockMode"] != true {
		t.Fatalf("expected mockMode, got %v", summary)
	}
}
