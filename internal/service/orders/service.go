// Package orders ingests external orders, either pushed over signed
// webhooks or pulled through the admin API, and serves the stored list.
package orders

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"io"
	"log"
	"strconv"
	"time"

	"featherlite/internal/domain"
	"featherlite/internal/shopify"
)

// Topics whose payload is an order document we store. Anything else is
// acknowledged and dropped.
var supportedTopics = map[string]struct{}{
	"orders/create":    {},
	"orders/updated":   {},
	"orders/paid":      {},
	"orders/fulfilled": {},
}

type orderRepo interface {
	Upsert(ctx context.Context, o domain.Order) (*domain.Order, error)
	List(ctx context.Context) ([]domain.Order, error)
}

type Service struct {
	repo          orderRepo
	webhookSecret string
	logger        *log.Logger
}

func New(repo orderRepo, webhookSecret string, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{repo: repo, webhookSecret: webhookSecret, logger: logger}
}

// VerifySignature checks the base64 HMAC-SHA256 digest of the raw body
// against the shared webhook secret. It must run before the body is parsed.
func (s *Service) VerifySignature(body []byte, signature string) error {
	if s.webhookSecret == "" {
		return domain.Upstream("webhook secret is not configured", nil)
	}
	if signature == "" {
		return domain.ErrUnauthorized
	}
	provided, err := base64.StdEncoding.DecodeString(signature)
	if err != nil {
		return domain.ErrUnauthorized
	}
	mac := hmac.New(sha256.New, []byte(s.webhookSecret))
	mac.Write(body)
	if !hmac.Equal(provided, mac.Sum(nil)) {
		return domain.ErrUnauthorized
	}
	return nil
}

// HandleWebhook verifies the delivery, then ingests the payload when the
// topic carries an order. Unsupported topics report ignored=true so the
// sender still receives a success response.
func (s *Service) HandleWebhook(ctx context.Context, topic string, body []byte, signature string) (ignored bool, err error) {
	if err := s.VerifySignature(body, signature); err != nil {
		return false, err
	}
	if _, ok := supportedTopics[topic]; !ok {
		s.logger.Printf("orders: ignoring webhook topic=%q", topic)
		return true, nil
	}

	var payload shopify.AdminOrder
	if err := json.Unmarshal(body, &payload); err != nil {
		return false, domain.Invalid("malformed order payload")
	}
	if _, err := s.Ingest(ctx, payload); err != nil {
		return false, err
	}
	return false, nil
}

// Ingest maps an admin API order onto the stored shape and upserts it.
func (s *Service) Ingest(ctx context.Context, o shopify.AdminOrder) (*domain.Order, error) {
	if o.ID == 0 {
		return nil, domain.Invalid("order is missing an id")
	}

	order := domain.Order{
		ShopifyOrderID:    strconv.FormatInt(o.ID, 10),
		Currency:          o.Currency,
		SubtotalCents:     shopify.ToCents(o.SubtotalPrice),
		TotalCents:        shopify.ToCents(o.TotalPrice),
		FinancialStatus:   o.FinancialStatus,
		FulfillmentStatus: o.FulfillmentStatus,
	}
	if order.Currency == "" {
		order.Currency = "USD"
	}
	if order.FinancialStatus == "" {
		order.FinancialStatus = "pending"
	}
	if o.Name != "" {
		name := o.Name
		order.Name = &name
	}
	if o.Email != "" {
		email := o.Email
		order.Email = &email
	}
	if o.ProcessedAt != nil {
		if at, err := time.Parse(time.RFC3339, *o.ProcessedAt); err == nil {
			utc := at.UTC()
			order.ProcessedAt = &utc
		}
	}

	order.Items = make([]domain.OrderItem, 0, len(o.LineItems))
	for _, li := range o.LineItems {
		item := domain.OrderItem{
			Title:      li.Name,
			Quantity:   shopify.ToQuantity(li.Quantity),
			PriceCents: shopify.ToCents(li.Price),
		}
		if item.Title == "" {
			item.Title = "Item"
		}
		if li.SKU != "" {
			sku := li.SKU
			item.SKU = &sku
		}
		if li.ID != 0 {
			id := strconv.FormatInt(li.ID, 10)
			item.ShopifyLineItemID = &id
		}
		if li.VariantID != 0 {
			merchandiseID := "gid://shopify/ProductVariant/" + strconv.FormatInt(li.VariantID, 10)
			item.MerchandiseID = &merchandiseID
		}
		order.Items = append(order.Items, item)
	}

	stored, err := s.repo.Upsert(ctx, order)
	if err != nil {
		return nil, err
	}
	s.logger.Printf("orders: ingested shopify_order_id=%s items=%d", stored.ShopifyOrderID, len(stored.Items))
	return stored, nil
}

// List returns stored orders newest first.
func (s *Service) List(ctx context.Context) ([]domain.Order, error) {
	orders, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if orders == nil {
		orders = []domain.Order{}
	}
	return orders, nil
}
