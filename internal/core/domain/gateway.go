package domain

import "context"

// BackendGateway defines the outbound contract against the remote SKU API.
// The implementation lives in internal/core/gateway (Core layer); the Logic
// layer depends on this interface only — never on net/http directly.
//
// Every method reads the bearer token from ctx (see SessionFromContext) at
// call time, so a token adopted mid-process authenticates the very next call.
type BackendGateway interface {
	// Login exchanges credentials for an opaque bearer token.
	// The backend expects a form-encoded body with username/password fields.
	Login(ctx context.Context, username, password string) (string, error)

	// ListSKUs returns all SKU records.
	ListSKUs(ctx context.Context) ([]SKU, error)

	// GetSKU returns a single SKU by id.
	GetSKU(ctx context.Context, id string) (*SKU, error)

	// CreateSKU creates a new SKU and returns the created record.
	CreateSKU(ctx context.Context, in SKUInput) (*SKU, error)

	// UpdateSKU replaces the editable fields of an existing SKU.
	UpdateSKU(ctx context.Context, id string, in SKUInput) (*SKU, error)

	// DeleteSKU removes a SKU.
	DeleteSKU(ctx context.Context, id string) error

	// GenerateBarcode asks the backend to create a barcode for the SKU.
	GenerateBarcode(ctx context.Context, skuID string) error

	// FetchBarcode streams a barcode rendering. The caller must close the
	// returned body.
	FetchBarcode(ctx context.Context, skuID string, kind BarcodeKind) (*Download, error)
}
