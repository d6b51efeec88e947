// Package shopify talks to the platform's storefront GraphQL API and admin
// REST API, and normalizes the platform cart shape into the canonical
// domain.Cart.
package shopify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"

	"featherlite/internal/config"
	"featherlite/internal/domain"
)

// Client issues storefront GraphQL and admin REST requests. The zero-value
// credential checks mirror the /status readiness booleans: callers are
// expected to consult StorefrontConfigured/AdminAPIConfigured before use.
type Client struct {
	cfg    config.Config
	http   *http.Client
	logger *log.Logger
}

func NewClient(cfg config.Config, logger *log.Logger) *Client {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Client{cfg: cfg, http: http.DefaultClient, logger: logger}
}

func (c *Client) StorefrontConfigured() bool { return c.cfg.StorefrontConfigured() }

func (c *Client) AdminAPIConfigured() bool { return c.cfg.AdminAPIConfigured() }

type graphQLRequest struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables,omitempty"`
}

type graphQLResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// storefrontFetch posts a GraphQL document and decodes the data envelope
// into out. Transport failures and GraphQL errors both surface as
// UpstreamError with the platform's message joined in.
func (c *Client) storefrontFetch(ctx context.Context, query string, variables map[string]interface{}, out interface{}) error {
	if !c.cfg.StorefrontConfigured() {
		return domain.Upstream("storefront credentials are not configured", nil)
	}

	url := fmt.Sprintf("https://%s/api/%s/graphql.json", c.cfg.ShopifyStoreDomain, c.cfg.StorefrontAPIVersion)
	body, err := json.Marshal(graphQLRequest{Query: query, Variables: variables})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Shopify-Storefront-Access-Token", c.cfg.StorefrontAccessToken)

	res, err := c.http.Do(req)
	if err != nil {
		return domain.Upstream("storefront request failed", err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		c.logger.Printf("shopify: storefront request status=%d", res.StatusCode)
		return domain.Upstream(fmt.Sprintf("storefront request failed with status %d", res.StatusCode), nil)
	}

	var envelope graphQLResponse
	if err := json.NewDecoder(res.Body).Decode(&envelope); err != nil {
		return domain.Upstream("storefront response was not valid JSON", err)
	}
	if len(envelope.Errors) > 0 {
		msgs := make([]string, 0, len(envelope.Errors))
		for _, e := range envelope.Errors {
			msgs = append(msgs, e.Message)
		}
		return domain.Upstream(strings.Join(msgs, ", "), nil)
	}
	if envelope.Data == nil {
		return domain.Upstream("storefront response did not include data", nil)
	}
	return json.Unmarshal(envelope.Data, out)
}

// adminGet issues a GET against the admin REST API and decodes the JSON
// response body into out.
func (c *Client) adminGet(ctx context.Context, path, query string, out interface{}) error {
	if !c.cfg.AdminAPIConfigured() {
		return domain.Upstream("admin credentials are not configured", nil)
	}

	url := fmt.Sprintf("https://%s/admin/api/%s/%s", c.cfg.ShopifyStoreDomain, c.cfg.ShopifyAdminAPIVersion, path)
	if query != "" {
		url += "?" + query
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("X-Shopify-Access-Token", c.cfg.ShopifyAdminAccessToken)

	res, err := c.http.Do(req)
	if err != nil {
		return domain.Upstream("admin request failed", err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		c.logger.Printf("shopify: admin request path=%s status=%d", path, res.StatusCode)
		return domain.Upstream(fmt.Sprintf("admin request failed with status %d", res.StatusCode), nil)
	}
	return json.NewDecoder(res.Body).Decode(out)
}
