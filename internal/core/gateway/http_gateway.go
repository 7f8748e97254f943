// Package gateway implements domain.BackendGateway over HTTP. It is the only
// place in the codebase that issues outbound requests.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/hfmasala/sku-admin/internal/core/domain"
)

// Client talks to the remote SKU/barcode API. All requests share one
// http.Client whose Timeout bounds every call; exceeding it surfaces to the
// caller as a plain transport error.
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a Client for the given API base URL (including the /api path).
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// newRequest builds a request and attaches the bearer token, read freshly
// from ctx on every call. A session adopted by the current request therefore
// authenticates this call without any client reconstruction.
func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("build %s %s: %w", method, path, err)
	}
	if sess := domain.SessionFromContext(ctx); sess.Authenticated() {
		req.Header.Set("Authorization", "Bearer "+sess.Token)
	}
	return req, nil
}

// errorBody is the backend's error envelope.
type errorBody struct {
	Detail string `json:"detail"`
}

// checkStatus converts a non-2xx response into a *domain.APIError, draining
// the body for the backend's detail message when present.
func checkStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	apiErr := &domain.APIError{StatusCode: resp.StatusCode}
	var eb errorBody
	if b, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16)); err == nil {
		if json.Unmarshal(b, &eb) == nil {
			apiErr.Detail = eb.Detail
		}
	}
	return apiErr
}

func (c *Client) doJSON(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode %s %s body: %w", method, path, err)
		}
		body = bytes.NewReader(b)
	}
	req, err := c.newRequest(ctx, method, path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return err
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode %s %s response: %w", method, path, err)
		}
	}
	return nil
}

// Login exchanges credentials for a bearer token. The backend expects
// form-encoded username/password, not JSON.
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)

	req, err := c.newRequest(ctx, http.MethodPost, "/auth/login", strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("POST /auth/login: %w", err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return "", err
	}

	var out struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode login response: %w", err)
	}
	if out.AccessToken == "" {
		return "", fmt.Errorf("login response carried no access_token")
	}
	return out.AccessToken, nil
}

// ListSKUs returns all SKU records.
func (c *Client) ListSKUs(ctx context.Context) ([]domain.SKU, error) {
	var skus []domain.SKU
	if err := c.doJSON(ctx, http.MethodGet, "/skus", nil, &skus); err != nil {
		return nil, err
	}
	return skus, nil
}

// GetSKU returns a single SKU by id.
func (c *Client) GetSKU(ctx context.Context, id string) (*domain.SKU, error) {
	var sku domain.SKU
	if err := c.doJSON(ctx, http.MethodGet, "/skus/"+url.PathEscape(id), nil, &sku); err != nil {
		return nil, err
	}
	return &sku, nil
}

// CreateSKU creates a new SKU and returns the created record.
func (c *Client) CreateSKU(ctx context.Context, in domain.SKUInput) (*domain.SKU, error) {
	var sku domain.SKU
	if err := c.doJSON(ctx, http.MethodPost, "/skus", in, &sku); err != nil {
		return nil, err
	}
	return &sku, nil
}

// UpdateSKU replaces the editable fields of an existing SKU.
func (c *Client) UpdateSKU(ctx context.Context, id string, in domain.SKUInput) (*domain.SKU, error) {
	var sku domain.SKU
	if err := c.doJSON(ctx, http.MethodPut, "/skus/"+url.PathEscape(id), in, &sku); err != nil {
		return nil, err
	}
	return &sku, nil
}

// DeleteSKU removes a SKU. The backend answers with no content.
func (c *Client) DeleteSKU(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, "/skus/"+url.PathEscape(id), nil, nil)
}

// GenerateBarcode asks the backend to create a barcode for the SKU.
func (c *Client) GenerateBarcode(ctx context.Context, skuID string) error {
	in := map[string]string{"sku_id": skuID, "output": "png"}
	return c.doJSON(ctx, http.MethodPost, "/barcodes/generate", in, nil)
}

// barcodePath maps a rendering kind onto the backend's route.
func barcodePath(skuID string, kind domain.BarcodeKind) (string, error) {
	id := url.PathEscape(skuID)
	switch kind {
	case domain.BarcodePNG:
		return "/barcodes/" + id + "/png", nil
	case domain.BarcodeLabelPDF:
		return "/barcodes/" + id + "/pdf/single", nil
	case domain.BarcodeA4PDF:
		return "/barcodes/" + id + "/pdf/a4", nil
	default:
		return "", fmt.Errorf("unknown barcode kind %q", kind)
	}
}

// FetchBarcode streams a barcode rendering. The transfer's low-level cause is
// logged here; callers see only the wrapped error and surface a generic
// download failure to the user.
func (c *Client) FetchBarcode(ctx context.Context, skuID string, kind domain.BarcodeKind) (*domain.Download, error) {
	path, err := barcodePath(skuID, kind)
	if err != nil {
		return nil, err
	}
	req, err := c.newRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("sku_id", skuID).Str("kind", string(kind)).Msg("Barcode download failed")
		return nil, fmt.Errorf("GET %s: %w", path, err)
	}
	if err := checkStatus(resp); err != nil {
		resp.Body.Close()
		log.Ctx(ctx).Error().Err(err).Str("sku_id", skuID).Str("kind", string(kind)).Msg("Barcode download rejected")
		return nil, err
	}

	return &domain.Download{
		ContentType:   resp.Header.Get("Content-Type"),
		ContentLength: resp.ContentLength,
		Body:          resp.Body,
	}, nil
}
