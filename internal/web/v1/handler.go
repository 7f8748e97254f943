// Package v1 serves the dashboard's HTML pages and form actions.
package v1

import (
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/hfmasala/sku-admin/internal/core/domain"
	logicv1 "github.com/hfmasala/sku-admin/internal/logic/v1"
	"github.com/hfmasala/sku-admin/internal/session"
	"github.com/hfmasala/sku-admin/middleware"
)

//go:embed templates/*.html
var templateFS embed.FS

// Templates parses the embedded page templates for gin's HTML renderer.
func Templates() *template.Template {
	return template.Must(template.New("").ParseFS(templateFS, "templates/*.html"))
}

// Handler groups the page and form handlers.
// Dependencies are injected via the constructor — no global state.
type Handler struct {
	admin    *logicv1.AdminService
	sessions *session.Store
}

// NewHandler creates a new Handler with the given service and session store.
func NewHandler(admin *logicv1.AdminService, sessions *session.Store) *Handler {
	return &Handler{admin: admin, sessions: sessions}
}

// RegisterRoutes registers all page routes. guard is applied to every route
// that must not render without a session.
func (h *Handler) RegisterRoutes(r *gin.Engine, guard gin.HandlerFunc) {
	r.GET("/login", h.ShowLogin)
	r.POST("/login", h.Login)

	authed := r.Group("", guard)
	{
		authed.GET("/", func(c *gin.Context) {
			c.Redirect(http.StatusSeeOther, "/dashboard")
		})
		authed.POST("/logout", h.Logout)
		authed.GET("/dashboard", h.Dashboard)
		authed.GET("/skus", h.SKUList)
		authed.POST("/skus", h.CreateSKU)
		authed.GET("/skus/:id", h.ShowSKU)
		authed.GET("/skus/:id/edit", h.EditSKU)
		authed.POST("/skus/:id", h.UpdateSKU)
		authed.POST("/skus/:id/delete", h.DeleteSKU)
		authed.POST("/skus/:id/generate", h.GenerateBarcode)
		authed.GET("/skus/:id/barcode.png", h.BarcodeImage)
		authed.GET("/skus/:id/download/:kind", h.DownloadBarcode)

		// Rendered outside the common chrome: it must produce an isolated
		// printable document.
		authed.GET("/print/sku/:id", h.PrintLabel)
	}
}

// page assembles the template data shared by every chrome page: identity for
// the top bar plus any queued flash notifications.
func (h *Handler) page(c *gin.Context, title, active string) gin.H {
	sess := domain.SessionFromContext(c.Request.Context())
	return gin.H{
		"Title":   title,
		"Active":  active,
		"Email":   sess.Email,
		"Flashes": h.sessions.Flashes(c.Writer, c.Request),
	}
}

// userMessage reduces an operation error to what the user should see: the
// backend's own detail for validation failures, a generic line otherwise.
func userMessage(action string, err error) string {
	var apiErr *domain.APIError
	if errors.Is(err, logicv1.ErrValidation) && errors.As(err, &apiErr) && apiErr.Detail != "" {
		return fmt.Sprintf("Failed to %s: %s", action, apiErr.Detail)
	}
	if errors.Is(err, logicv1.ErrNotFound) {
		return fmt.Sprintf("Failed to %s: record not found.", action)
	}
	return fmt.Sprintf("Failed to %s. Please try again.", action)
}

// flashError records a failed mutation and sends the user back to the list,
// prior state intact.
func (h *Handler) flashError(c *gin.Context, action string, err error) {
	log.Ctx(c.Request.Context()).Error().Err(err).Msg("Action failed")
	h.sessions.AddFlash(c.Writer, c.Request, session.Flash{Kind: "error", Message: userMessage(action, err)})
	c.Redirect(http.StatusSeeOther, "/skus")
}

func (h *Handler) flashSuccess(c *gin.Context, msg string) {
	h.sessions.AddFlash(c.Writer, c.Request, session.Flash{Kind: "success", Message: msg})
	c.Redirect(http.StatusSeeOther, "/skus")
}

// ShowLogin renders the sign-in page.
func (h *Handler) ShowLogin(c *gin.Context) {
	c.HTML(http.StatusOK, "login.html", gin.H{"Email": "", "Error": ""})
}

// Login handles the sign-in form. A failed attempt re-renders the page with
// one generic message — bad credentials and an unreachable backend look the
// same to the user — and leaves any previous session untouched.
func (h *Handler) Login(c *gin.Context) {
	ctx, span := middleware.StartSpan(c.Request.Context(), "http.login", trace.WithAttributes(
		attribute.String("layer", "web"),
	))
	defer span.End()

	email := c.PostForm("email")
	password := c.PostForm("password")

	token, err := h.admin.Login(ctx, email, password)
	if err != nil {
		span.RecordError(err)
		log.Ctx(ctx).Warn().Err(err).Msg("Login failed")
		c.HTML(http.StatusUnauthorized, "login.html", gin.H{
			"Email": email,
			"Error": "Login failed. Please check your email and password.",
		})
		return
	}

	if err := h.sessions.Save(c.Writer, c.Request, token, email); err != nil {
		span.RecordError(err)
		log.Ctx(ctx).Error().Err(err).Msg("Session save failed")
		c.HTML(http.StatusInternalServerError, "login.html", gin.H{
			"Email": email,
			"Error": "Login failed. Please try again.",
		})
		return
	}

	log.Ctx(ctx).Info().Str("email", email).Msg("Login successful")
	c.Redirect(http.StatusSeeOther, "/dashboard")
}

// Logout clears the credential record and returns to the login page. Purely
// local: the backend keeps no notion of this session ending.
func (h *Handler) Logout(c *gin.Context) {
	if err := h.sessions.Clear(c.Writer, c.Request); err != nil {
		log.Ctx(c.Request.Context()).Error().Err(err).Msg("Session clear failed")
	}
	c.Redirect(http.StatusSeeOther, "/login")
}

// Dashboard renders the SKU totals.
func (h *Handler) Dashboard(c *gin.Context) {
	data := h.page(c, "Dashboard", "dashboard")

	stats, err := h.admin.Stats(c.Request.Context())
	if err != nil {
		log.Ctx(c.Request.Context()).Error().Err(err).Msg("Stats load failed")
		data["Error"] = "Failed to load dashboard data."
		c.HTML(http.StatusOK, "dashboard.html", data)
		return
	}

	data["Stats"] = stats
	c.HTML(http.StatusOK, "dashboard.html", data)
}

// SKUList renders the SKU table with the add form. A failed load shows an
// inline error state; the next navigation retries.
func (h *Handler) SKUList(c *gin.Context) {
	data := h.page(c, "SKUs", "skus")

	skus, err := h.admin.ListSKUs(c.Request.Context())
	if err != nil {
		log.Ctx(c.Request.Context()).Error().Err(err).Msg("SKU list load failed")
		data["Error"] = "Failed to fetch SKUs. Please try again."
		c.HTML(http.StatusOK, "skus.html", data)
		return
	}

	data["SKUs"] = skus
	c.HTML(http.StatusOK, "skus.html", data)
}

func skuInputFromForm(c *gin.Context) domain.SKUInput {
	return domain.SKUInput{
		Name:        c.PostForm("name"),
		Code:        c.PostForm("sku_code"),
		Description: c.PostForm("description"),
	}
}

// CreateSKU handles the add form.
func (h *Handler) CreateSKU(c *gin.Context) {
	in := skuInputFromForm(c)
	sku, err := h.admin.CreateSKU(c.Request.Context(), in)
	if err != nil {
		h.flashError(c, "create SKU", err)
		return
	}
	h.flashSuccess(c, fmt.Sprintf("SKU %q created.", sku.Name))
}

// ShowSKU renders a single SKU's details.
func (h *Handler) ShowSKU(c *gin.Context) {
	sku, err := h.admin.GetSKU(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.flashError(c, "load SKU", err)
		return
	}
	data := h.page(c, sku.Name, "skus")
	data["SKU"] = sku
	c.HTML(http.StatusOK, "sku_detail.html", data)
}

// EditSKU renders the edit form pre-filled with current values.
func (h *Handler) EditSKU(c *gin.Context) {
	sku, err := h.admin.GetSKU(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.flashError(c, "load SKU", err)
		return
	}
	data := h.page(c, "Edit "+sku.Name, "skus")
	data["SKU"] = sku
	c.HTML(http.StatusOK, "sku_edit.html", data)
}

// UpdateSKU handles the edit form.
func (h *Handler) UpdateSKU(c *gin.Context) {
	in := skuInputFromForm(c)
	sku, err := h.admin.UpdateSKU(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		h.flashError(c, "update SKU", err)
		return
	}
	h.flashSuccess(c, fmt.Sprintf("SKU %q updated.", sku.Name))
}

// DeleteSKU handles the delete form.
func (h *Handler) DeleteSKU(c *gin.Context) {
	id := c.Param("id")
	if err := h.admin.DeleteSKU(c.Request.Context(), id); err != nil {
		h.flashError(c, "delete SKU", err)
		return
	}
	h.flashSuccess(c, "SKU deleted.")
}

// GenerateBarcode asks the backend for a barcode and returns to the list.
func (h *Handler) GenerateBarcode(c *gin.Context) {
	id := c.Param("id")
	if err := h.admin.GenerateBarcode(c.Request.Context(), id); err != nil {
		h.flashError(c, "generate barcode", err)
		return
	}
	h.flashSuccess(c, "Barcode generated.")
}

// BarcodeImage streams the barcode PNG inline, for the detail and print pages.
func (h *Handler) BarcodeImage(c *gin.Context) {
	dl, err := h.admin.FetchBarcode(c.Request.Context(), c.Param("id"), domain.BarcodePNG)
	if err != nil {
		c.String(http.StatusBadGateway, "barcode unavailable")
		return
	}
	defer dl.Body.Close()
	c.DataFromReader(http.StatusOK, dl.ContentLength, dl.ContentType, dl.Body, nil)
}

// downloadKinds maps the URL's kind segment to a backend rendering and a
// filename suffix for the save dialog.
var downloadKinds = map[string]struct {
	kind   domain.BarcodeKind
	suffix string
}{
	"png":       {domain.BarcodePNG, "_barcode.png"},
	"label.pdf": {domain.BarcodeLabelPDF, "_label.pdf"},
	"a4.pdf":    {domain.BarcodeA4PDF, "_a4.pdf"},
}

// DownloadBarcode streams a barcode rendering as an attachment, so the
// browser saves it to disk under a filename derived from the SKU code.
// Transfer failures collapse to one generic message; the cause is logged.
func (h *Handler) DownloadBarcode(c *gin.Context) {
	dk, ok := downloadKinds[c.Param("kind")]
	if !ok {
		c.String(http.StatusNotFound, "unknown download kind")
		return
	}

	id := c.Param("id")
	sku, err := h.admin.GetSKU(c.Request.Context(), id)
	if err != nil {
		h.flashError(c, "download file", err)
		return
	}

	dl, err := h.admin.FetchBarcode(c.Request.Context(), id, dk.kind)
	if err != nil {
		h.flashError(c, "download file", err)
		return
	}
	defer dl.Body.Close()

	headers := map[string]string{
		"Content-Disposition": fmt.Sprintf("attachment; filename=%q", sku.Code+dk.suffix),
	}
	c.DataFromReader(http.StatusOK, dl.ContentLength, dl.ContentType, dl.Body, headers)
}

// PrintLabel renders the isolated printable label document. The page forces
// a 70x30mm zero-margin sheet in its print stylesheet and invokes the print
// dialog itself once the barcode image has loaded.
func (h *Handler) PrintLabel(c *gin.Context) {
	sku, err := h.admin.GetSKU(c.Request.Context(), c.Param("id"))
	if err != nil {
		log.Ctx(c.Request.Context()).Error().Err(err).Msg("Label data load failed")
		c.String(http.StatusBadGateway, "Failed to load label data.")
		return
	}
	c.HTML(http.StatusOK, "print.html", gin.H{"SKU": sku})
}
