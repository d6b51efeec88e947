package shopify

import (
	"testing"
)

func strp(v string) *string { return &v }

func TestNormalizeCart_NilPayload(t *testing.T) {
	if got := NormalizeCart(nil); got != nil {
		t.Fatalf("expected nil cart, got %+v", got)
	}
}

func TestNormalizeCart_EmptyLines(t *testing.T) {
	cart := NormalizeCart(&CartPayload{ID: "gid://shopify/Cart/1", Lines: &CartLines{}})
	if cart == nil {
		t.Fatal("expected cart")
	}
	if len(cart.Items) != 0 {
		t.Fatalf("expected no items, got %d", len(cart.Items))
	}
	if cart.SubtotalCents != 0 {
		t.Fatalf("expected zero subtotal, got %d", cart.SubtotalCents)
	}
	if cart.CurrencyCode != "USD" {
		t.Fatalf("expected USD default, got %s", cart.CurrencyCode)
	}
}

func TestNormalizeCart_Lines(t *testing.T) {
	payload := &CartPayload{
		ID:          "gid://shopify/Cart/1",
		CheckoutURL: strp("https://shop.example/checkout"),
		Cost:        &CartCost{SubtotalAmount: &Money{Amount: "96.00", CurrencyCode: "EUR"}},
		Lines: &CartLines{Edges: []CartLineEdge{
			{Node: CartLineNode{
				ID:       "line-1",
				Quantity: float64(3),
				Cost:     &LineCost{TotalAmount: &Money{Amount: "96.00", CurrencyCode: "EUR"}},
				Merchandise: &Merchandise{
					ID:    "gid://shopify/ProductVariant/9",
					SKU:   strp("FL-FOUND-01"),
					Title: strp("Porcelain"),
					Product: &struct {
						Title *string `json:"title"`
					}{Title: strp("Weightless Mineral Foundation")},
				},
			}},
		}},
	}

	cart := NormalizeCart(payload)
	if cart == nil {
		t.Fatal("expected cart")
	}
	line := cart.Items[0]
	if line.Quantity != 3 {
		t.Fatalf("quantity = %d, want 3", line.Quantity)
	}
	if line.LineTotalCents != 9600 {
		t.Fatalf("lineTotalCents = %d, want 9600", line.LineTotalCents)
	}
	if line.UnitPriceCents != 3200 {
		t.Fatalf("unitPriceCents = %d, want 3200", line.UnitPriceCents)
	}
	if line.Title != "Weightless Mineral Foundation – Porcelain" {
		t.Fatalf("unexpected title %q", line.Title)
	}
	if cart.SubtotalCents != 9600 || cart.CurrencyCode != "EUR" {
		t.Fatalf("unexpected cart totals: %d %s", cart.SubtotalCents, cart.CurrencyCode)
	}
}

func TestNormalizeCart_DefaultVariantTitleOmitted(t *testing.T) {
	m := &Merchandise{
		Title: strp("Default Title"),
		Product: &struct {
			Title *string `json:"title"`
		}{Title: strp("Silk Veil Setting Powder")},
	}
	if got := composeTitle(m); got != "Silk Veil Setting Powder" {
		t.Fatalf("composeTitle = %q", got)
	}
}

func TestCoerceQuantity(t *testing.T) {
	cases := []struct {
		in   interface{}
		want int
	}{
		{float64(2), 2},
		{float64(-1), 0},
		{"4", 4},
		{"junk", 0},
		{nil, 0},
		{true, 0},
	}
	for _, tc := range cases {
		if got := coerceQuantity(tc.in); got != tc.want {
			t.Errorf("coerceQuantity(%v) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestParseAmountCents_Rounds(t *testing.T) {
	cases := map[string]int64{
		"32.00":  3200,
		"0.1":    10,
		"19.999": 2000,
		"":       0,
		"abc":    0,
	}
	for in, want := range cases {
		if got := parseAmountCents(in); got != want {
			t.Errorf("parseAmountCents(%q) = %d, want %d", in, got, want)
		}
	}
}

func TestToCents(t *testing.T) {
	if got := ToCents(float64(12.5)); got != 1250 {
		t.Fatalf("ToCents(12.5) = %d", got)
	}
	if got := ToCents("48.20"); got != 4820 {
		t.Fatalf("ToCents(\"48.20\") = %d", got)
	}
	if got := ToCents(nil); got != 0 {
		t.Fatalf("ToCents(nil) = %d", got)
	}
}
