package v1

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hfmasala/sku-admin/internal/core/domain"
)

// fakeGateway implements domain.BackendGateway with overridable funcs.
type fakeGateway struct {
	loginFn    func(ctx context.Context, username, password string) (string, error)
	listFn     func(ctx context.Context) ([]domain.SKU, error)
	getFn      func(ctx context.Context, id string) (*domain.SKU, error)
	createFn   func(ctx context.Context, in domain.SKUInput) (*domain.SKU, error)
	updateFn   func(ctx context.Context, id string, in domain.SKUInput) (*domain.SKU, error)
	deleteFn   func(ctx context.Context, id string) error
	generateFn func(ctx context.Context, skuID string) error
	fetchFn    func(ctx context.Context, skuID string, kind domain.BarcodeKind) (*domain.Download, error)
}

func (f *fakeGateway) Login(ctx context.Context, u, p string) (string, error) {
	return f.loginFn(ctx, u, p)
}
func (f *fakeGateway) ListSKUs(ctx context.Context) ([]domain.SKU, error) { return f.listFn(ctx) }
func (f *fakeGateway) GetSKU(ctx context.Context, id string) (*domain.SKU, error) {
	return f.getFn(ctx, id)
}
func (f *fakeGateway) CreateSKU(ctx context.Context, in domain.SKUInput) (*domain.SKU, error) {
	return f.createFn(ctx, in)
}
func (f *fakeGateway) UpdateSKU(ctx context.Context, id string, in domain.SKUInput) (*domain.SKU, error) {
	return f.updateFn(ctx, id, in)
}
func (f *fakeGateway) DeleteSKU(ctx context.Context, id string) error { return f.deleteFn(ctx, id) }
func (f *fakeGateway) GenerateBarcode(ctx context.Context, skuID string) error {
	return f.generateFn(ctx, skuID)
}
func (f *fakeGateway) FetchBarcode(ctx context.Context, skuID string, kind domain.BarcodeKind) (*domain.Download, error) {
	return f.fetchFn(ctx, skuID, kind)
}

func TestLoginRequiresCredentials(t *testing.T) {
	called := false
	s := NewAdminService(&fakeGateway{
		loginFn: func(ctx context.Context, u, p string) (string, error) {
			called = true
			return "abc", nil
		},
	})

	_, err := s.Login(context.Background(), "", "secret")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = s.Login(context.Background(), "admin@x.com", "")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	assert.False(t, called, "gateway must not be hit with empty credentials")
}

func TestLoginPassesTokenThrough(t *testing.T) {
	s := NewAdminService(&fakeGateway{
		loginFn: func(ctx context.Context, u, p string) (string, error) {
			assert.Equal(t, "admin@x.com", u)
			assert.Equal(t, "secret", p)
			return "abc", nil
		},
	})

	token, err := s.Login(context.Background(), "admin@x.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, "abc", token)
}

func TestLoginBackendRejection(t *testing.T) {
	s := NewAdminService(&fakeGateway{
		loginFn: func(ctx context.Context, u, p string) (string, error) {
			return "", &domain.APIError{StatusCode: http.StatusUnauthorized, Detail: "bad credentials"}
		},
	})

	token, err := s.Login(context.Background(), "admin@x.com", "wrong")
	assert.Empty(t, token, "failed login must not yield a token")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginNetworkFailure(t *testing.T) {
	s := NewAdminService(&fakeGateway{
		loginFn: func(ctx context.Context, u, p string) (string, error) {
			return "", errors.New("dial tcp: connection refused")
		},
	})

	_, err := s.Login(context.Background(), "admin@x.com", "secret")
	assert.ErrorIs(t, err, ErrBackendUnavailable)
}

func TestStatsTotals(t *testing.T) {
	s := NewAdminService(&fakeGateway{
		listFn: func(ctx context.Context) ([]domain.SKU, error) {
			return []domain.SKU{
				{ID: "1", Barcode: "b1"},
				{ID: "2"},
				{ID: "3", Barcode: "b3"},
				{ID: "4"},
				{ID: "5"},
			}, nil
		},
	})

	stats, err := s.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.Stats{Total: 5, WithBarcode: 2, WithoutBarcode: 3}, stats)
}

func TestStatsEmptyList(t *testing.T) {
	s := NewAdminService(&fakeGateway{
		listFn: func(ctx context.Context) ([]domain.SKU, error) { return nil, nil },
	})

	stats, err := s.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.Stats{}, stats)
}

func TestCreateSKURequiresNameAndCode(t *testing.T) {
	s := NewAdminService(&fakeGateway{
		createFn: func(ctx context.Context, in domain.SKUInput) (*domain.SKU, error) {
			t.Fatal("gateway must not be hit with an invalid input")
			return nil, nil
		},
	})

	_, err := s.CreateSKU(context.Background(), domain.SKUInput{Name: "Turmeric"})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = s.CreateSKU(context.Background(), domain.SKUInput{Code: "TU-50"})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestClassifyStatusCodes(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   error
	}{
		{"unauthorized", http.StatusUnauthorized, ErrInvalidCredentials},
		{"forbidden", http.StatusForbidden, ErrInvalidCredentials},
		{"not found", http.StatusNotFound, ErrNotFound},
		{"unprocessable", http.StatusUnprocessableEntity, ErrValidation},
		{"server error", http.StatusInternalServerError, ErrBackendUnavailable},
		{"bad gateway", http.StatusBadGateway, ErrBackendUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewAdminService(&fakeGateway{
				deleteFn: func(ctx context.Context, id string) error {
					return &domain.APIError{StatusCode: tt.status}
				},
			})
			err := s.DeleteSKU(context.Background(), "42")
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestValidationDetailStaysInChain(t *testing.T) {
	s := NewAdminService(&fakeGateway{
		createFn: func(ctx context.Context, in domain.SKUInput) (*domain.SKU, error) {
			return nil, &domain.APIError{StatusCode: http.StatusUnprocessableEntity, Detail: "sku_code already exists"}
		},
	})

	_, err := s.CreateSKU(context.Background(), domain.SKUInput{Name: "Turmeric", Code: "TU-50"})
	require.ErrorIs(t, err, ErrValidation)

	var apiErr *domain.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "sku_code already exists", apiErr.Detail)
}

func TestGenerateBarcodeForwardsID(t *testing.T) {
	var got string
	s := NewAdminService(&fakeGateway{
		generateFn: func(ctx context.Context, skuID string) error {
			got = skuID
			return nil
		},
	})

	require.NoError(t, s.GenerateBarcode(context.Background(), "42"))
	assert.Equal(t, "42", got)
}
