package domain

import "io"

// SKU is a product record as the backend returns it. The dashboard never
// interprets these fields beyond display; the backend owns the schema.
type SKU struct {
	ID          string `json:"_id"`
	Name        string `json:"name"`
	Code        string `json:"sku_code"`
	Description string `json:"description,omitempty"`
	Barcode     string `json:"barcode,omitempty"`
	CreatedAt   string `json:"created_at"`
}

// HasBarcode reports whether a barcode has been generated for this SKU.
func (s SKU) HasBarcode() bool {
	return s.Barcode != ""
}

// SKUInput carries the caller-editable fields for create and update.
type SKUInput struct {
	Name        string `json:"name"`
	Code        string `json:"sku_code"`
	Description string `json:"description,omitempty"`
}

// Stats are the dashboard totals derived from the SKU list.
type Stats struct {
	Total          int
	WithBarcode    int
	WithoutBarcode int
}

// Download is a binary payload streamed from the backend. The caller owns
// Body and must close it.
type Download struct {
	ContentType   string
	ContentLength int64
	Body          io.ReadCloser
}

// BarcodeKind selects which rendering of a barcode to fetch.
type BarcodeKind string

const (
	// BarcodePNG is the raw barcode image.
	BarcodePNG BarcodeKind = "png"
	// BarcodeLabelPDF is a single 70x30mm label PDF.
	BarcodeLabelPDF BarcodeKind = "label"
	// BarcodeA4PDF is an A4 sheet layout PDF.
	BarcodeA4PDF BarcodeKind = "a4"
)
