package shopify

import "context"

// FetchProducts pulls up to 250 products from the admin REST API.
func (c *Client) FetchProducts(ctx context.Context) ([]AdminProduct, error) {
	var body struct {
		Products []AdminProduct `json:"products"`
	}
	if err := c.adminGet(ctx, "products.json", "limit=250", &body); err != nil {
		return nil, err
	}
	return body.Products, nil
}

// FetchOrders pulls up to 250 orders of any status from the admin REST API.
func (c *Client) FetchOrders(ctx context.Context) ([]AdminOrder, error) {
	var body struct {
		Orders []AdminOrder `json:"orders"`
	}
	if err := c.adminGet(ctx, "orders.json", "status=any&limit=250", &body); err != nil {
		return nil, err
	}
	return body.Orders, nil
}
