package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/hfmasala/sku-admin/internal/core/domain"
	"github.com/hfmasala/sku-admin/middleware"
)

// AdminService implements the dashboard's business rules. It depends on the
// BackendGateway interface (injected via constructor) and MUST NOT issue
// HTTP requests directly.
type AdminService struct {
	backend domain.BackendGateway
}

// NewAdminService creates a new AdminService with the given gateway.
func NewAdminService(backend domain.BackendGateway) *AdminService {
	return &AdminService{backend: backend}
}

// classify maps a gateway error onto this package's sentinels. The original
// cause stays in the wrap chain for logging.
func classify(op string, err error) error {
	var apiErr *domain.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.StatusCode == http.StatusUnauthorized || apiErr.StatusCode == http.StatusForbidden:
			return fmt.Errorf("%s: %w: %w", op, ErrInvalidCredentials, err)
		case apiErr.StatusCode == http.StatusNotFound:
			return fmt.Errorf("%s: %w: %w", op, ErrNotFound, err)
		case apiErr.StatusCode >= 400 && apiErr.StatusCode < 500:
			return fmt.Errorf("%s: %w: %w", op, ErrValidation, err)
		default:
			return fmt.Errorf("%s: %w: %w", op, ErrBackendUnavailable, err)
		}
	}
	// Anything without a status is transport-level: timeout, DNS, refused.
	return fmt.Errorf("%s: %w: %w", op, ErrBackendUnavailable, err)
}

// Login exchanges credentials for a bearer token. On any failure the caller's
// prior session state is untouched; the returned error deliberately does not
// distinguish bad credentials from an unreachable backend beyond errors.Is.
func (s *AdminService) Login(ctx context.Context, username, password string) (string, error) {
	ctx, span := middleware.StartSpan(ctx, "admin.login", trace.WithAttributes(
		attribute.String("layer", "logic"),
		attribute.String("username", username),
	))
	defer span.End()

	if username == "" || password == "" {
		span.SetAttributes(attribute.Bool("auth.success", false))
		return "", fmt.Errorf("login: empty credentials: %w", ErrInvalidCredentials)
	}

	token, err := s.backend.Login(ctx, username, password)
	if err != nil {
		span.RecordError(err)
		span.SetAttributes(attribute.Bool("auth.success", false))
		span.AddEvent("authentication.failed")
		return "", classify("login", err)
	}

	span.SetAttributes(attribute.Bool("auth.success", true))
	span.AddEvent("user.authenticated")
	return token, nil
}

// ListSKUs returns all SKU records.
func (s *AdminService) ListSKUs(ctx context.Context) ([]domain.SKU, error) {
	ctx, span := middleware.StartSpan(ctx, "admin.list_skus", trace.WithAttributes(
		attribute.String("layer", "logic"),
	))
	defer span.End()

	skus, err := s.backend.ListSKUs(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, classify("list skus", err)
	}
	span.SetAttributes(attribute.Int("sku.count", len(skus)))
	return skus, nil
}

// GetSKU returns a single SKU by id.
func (s *AdminService) GetSKU(ctx context.Context, id string) (*domain.SKU, error) {
	ctx, span := middleware.StartSpan(ctx, "admin.get_sku", trace.WithAttributes(
		attribute.String("layer", "logic"),
		attribute.String("sku.id", id),
	))
	defer span.End()

	sku, err := s.backend.GetSKU(ctx, id)
	if err != nil {
		span.RecordError(err)
		return nil, classify(fmt.Sprintf("get sku %s", id), err)
	}
	return sku, nil
}

// CreateSKU creates a new SKU record.
func (s *AdminService) CreateSKU(ctx context.Context, in domain.SKUInput) (*domain.SKU, error) {
	ctx, span := middleware.StartSpan(ctx, "admin.create_sku", trace.WithAttributes(
		attribute.String("layer", "logic"),
		attribute.String("sku.code", in.Code),
	))
	defer span.End()

	if in.Name == "" || in.Code == "" {
		return nil, fmt.Errorf("create sku: name and sku_code are required: %w", ErrValidation)
	}

	sku, err := s.backend.CreateSKU(ctx, in)
	if err != nil {
		span.RecordError(err)
		return nil, classify("create sku", err)
	}
	span.SetAttributes(attribute.String("sku.id", sku.ID))
	return sku, nil
}

// UpdateSKU replaces the editable fields of an existing SKU.
func (s *AdminService) UpdateSKU(ctx context.Context, id string, in domain.SKUInput) (*domain.SKU, error) {
	ctx, span := middleware.StartSpan(ctx, "admin.update_sku", trace.WithAttributes(
		attribute.String("layer", "logic"),
		attribute.String("sku.id", id),
	))
	defer span.End()

	if in.Name == "" || in.Code == "" {
		return nil, fmt.Errorf("update sku %s: name and sku_code are required: %w", id, ErrValidation)
	}

	sku, err := s.backend.UpdateSKU(ctx, id, in)
	if err != nil {
		span.RecordError(err)
		return nil, classify(fmt.Sprintf("update sku %s", id), err)
	}
	return sku, nil
}

// DeleteSKU removes a SKU.
func (s *AdminService) DeleteSKU(ctx context.Context, id string) error {
	ctx, span := middleware.StartSpan(ctx, "admin.delete_sku", trace.WithAttributes(
		attribute.String("layer", "logic"),
		attribute.String("sku.id", id),
	))
	defer span.End()

	if err := s.backend.DeleteSKU(ctx, id); err != nil {
		span.RecordError(err)
		return classify(fmt.Sprintf("delete sku %s", id), err)
	}
	return nil
}

// GenerateBarcode asks the backend to create a barcode for the SKU.
func (s *AdminService) GenerateBarcode(ctx context.Context, skuID string) error {
	ctx, span := middleware.StartSpan(ctx, "admin.generate_barcode", trace.WithAttributes(
		attribute.String("layer", "logic"),
		attribute.String("sku.id", skuID),
	))
	defer span.End()

	if err := s.backend.GenerateBarcode(ctx, skuID); err != nil {
		span.RecordError(err)
		return classify(fmt.Sprintf("generate barcode for %s", skuID), err)
	}
	span.AddEvent("barcode.generated")
	return nil
}

// Stats derives the dashboard totals from the SKU list.
func (s *AdminService) Stats(ctx context.Context) (domain.Stats, error) {
	ctx, span := middleware.StartSpan(ctx, "admin.stats", trace.WithAttributes(
		attribute.String("layer", "logic"),
	))
	defer span.End()

	skus, err := s.backend.ListSKUs(ctx)
	if err != nil {
		span.RecordError(err)
		return domain.Stats{}, classify("load stats", err)
	}

	stats := domain.Stats{Total: len(skus)}
	for _, sku := range skus {
		if sku.HasBarcode() {
			stats.WithBarcode++
		}
	}
	stats.WithoutBarcode = stats.Total - stats.WithBarcode

	span.SetAttributes(
		attribute.Int("sku.total", stats.Total),
		attribute.Int("sku.with_barcode", stats.WithBarcode),
	)
	return stats, nil
}

// FetchBarcode streams a barcode rendering. The caller must close the body.
func (s *AdminService) FetchBarcode(ctx context.Context, skuID string, kind domain.BarcodeKind) (*domain.Download, error) {
	ctx, span := middleware.StartSpan(ctx, "admin.fetch_barcode", trace.WithAttributes(
		attribute.String("layer", "logic"),
		attribute.String("sku.id", skuID),
		attribute.String("barcode.kind", string(kind)),
	))
	defer span.End()

	dl, err := s.backend.FetchBarcode(ctx, skuID, kind)
	if err != nil {
		span.RecordError(err)
		return nil, classify(fmt.Sprintf("fetch barcode for %s", skuID), err)
	}
	return dl, nil
}
