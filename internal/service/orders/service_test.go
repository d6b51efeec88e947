package orders

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"testing"

	"featherlite/internal/domain"
	"featherlite/internal/shopify"
)

const testSecret = "whsec_featherlite"

type stubOrderRepo struct {
	upserts []domain.Order
	stored  []domain.Order
	err     error
}

func (s *stubOrderRepo) Upsert(_ context.Context, o domain.Order) (*domain.Order, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.upserts = append(s.upserts, o)
	out := o
	out.ID = "row-1"
	return &out, nil
}

func (s *stubOrderRepo) List(_ context.Context) ([]domain.Order, error) {
	return s.stored, s.err
}

func sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func TestVerifySignature(t *testing.T) {
	svc := New(&stubOrderRepo{}, testSecret, nil)
	body := []byte(`{"id":1001}`)

	if err := svc.VerifySignature(body, sign(testSecret, body)); err != nil {
		t.Fatalf("valid signature rejected: %v", err)
	}
	if err := svc.VerifySignature(body, sign("other-secret", body)); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for wrong secret, got %v", err)
	}
	if err := svc.VerifySignature(body, ""); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for missing signature, got %v", err)
	}
	if err := svc.VerifySignature(body, "not base64!!"); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for undecodable signature, got %v", err)
	}
}

func TestVerifySignatureWithoutSecret(t *testing.T) {
	svc := New(&stubOrderRepo{}, "", nil)
	err := svc.VerifySignature([]byte("{}"), "anything")
	var uerr *domain.UpstreamError
	if !errors.As(err, &uerr) {
		t.Fatalf("expected upstream error, got %v", err)
	}
}

func TestHandleWebhookIgnoresUnknownTopic(t *testing.T) {
	repo := &stubOrderRepo{}
	svc := New(repo, testSecret, nil)
	body := []byte(`{"id":1001}`)

	ignored, err := svc.HandleWebhook(context.Background(), "products/update", body, sign(testSecret, body))
	if err != nil {
		t.Fatalf("webhook: %v", err)
	}
	if !ignored {
		t.Fatal("expected topic to be ignored")
	}
	if len(repo.upserts) != 0 {
		t.Fatal("ignored topic must not write")
	}
}

func TestHandleWebhookRejectsBadSignatureBeforeParsing(t *testing.T) {
	repo := &stubOrderRepo{}
	svc := New(repo, testSecret, nil)

	// The body is not even valid JSON; the signature check must fail first.
	_, err := svc.HandleWebhook(context.Background(), "orders/create", []byte("not json"), "bogus")
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestHandleWebhookIngestsOrder(t *testing.T) {
	repo := &stubOrderRepo{}
	svc := New(repo, testSecret, nil)
	body := []byte(`{
		"id": 1001,
		"name": "#1001",
		"email": "buyer@example.com",
		"currency": "EUR",
		"subtotal_price": "64.00",
		"total_price": "70.50",
		"financial_status": "paid",
		"processed_at": "2025-06-01T10:00:00Z",
		"line_items": [
			{"id": 7, "name": "Silk Veil Setting Powder", "sku": "FL-POW-01", "quantity": 2, "price": "26.00", "variant_id": 42}
		]
	}`)

	ignored, err := svc.HandleWebhook(context.Background(), "orders/create", body, sign(testSecret, body))
	if err != nil {
		t.Fatalf("webhook: %v", err)
	}
	if ignored {
		t.Fatal("orders/create must not be ignored")
	}
	if len(repo.upserts) != 1 {
		t.Fatalf("expected one upsert, got %d", len(repo.upserts))
	}

	got := repo.upserts[0]
	if got.ShopifyOrderID != "1001" {
		t.Fatalf("shopifyOrderId = %q", got.ShopifyOrderID)
	}
	if got.SubtotalCents != 6400 || got.TotalCents != 7050 {
		t.Fatalf("totals = %d/%d", got.SubtotalCents, got.TotalCents)
	}
	if got.ProcessedAt == nil {
		t.Fatal("expected processedAt")
	}
	item := got.Items[0]
	if item.Quantity != 2 || item.PriceCents != 2600 {
		t.Fatalf("item = %+v", item)
	}
	if item.ShopifyLineItemID == nil || *item.ShopifyLineItemID != "7" {
		t.Fatalf("line item id = %v", item.ShopifyLineItemID)
	}
	if item.MerchandiseID == nil || *item.MerchandiseID != "gid://shopify/ProductVariant/42" {
		t.Fatalf("merchandise id = %v", item.MerchandiseID)
	}
}

func TestIngestDefaults(t *testing.T) {
	repo := &stubOrderRepo{}
	svc := New(repo, testSecret, nil)

	stored, err := svc.Ingest(context.Background(), shopify.AdminOrder{
		ID:        2002,
		LineItems: []shopify.AdminLineItem{{Quantity: float64(1)}},
	})
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}
	if stored.Currency != "USD" {
		t.Fatalf("currency = %q", stored.Currency)
	}
	if stored.FinancialStatus != "pending" {
		t.Fatalf("financialStatus = %q", stored.FinancialStatus)
	}
	if stored.Items[0].Title != "Item" {
		t.Fatalf("item title = %q", stored.Items[0].Title)
	}
}

func TestIngestRejectsMissingID(t *testing.T) {
	svc := New(&stubOrderRepo{}, testSecret, nil)
	_, err := svc.Ingest(context.Background(), shopify.AdminOrder{})
	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestListReturnsEmptySlice(t *testing.T) {
	svc := New(&stubOrderRepo{}, testSecret, nil)
	orders, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if orders == nil {
		t.Fatal("expected empty slice, got nil")
	}
}
