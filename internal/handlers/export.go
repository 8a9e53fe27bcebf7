package handlers

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"bpexport/internal/domain"
	"bpexport/internal/exporter"
	"bpexport/internal/metrics"
	"bpexport/internal/report"
	u "bpexport/internal/utils"
)

// SnapshotStore keeps collected reports for later download.
type SnapshotStore interface {
	Save(ctx context.Context, r exporter.Report) (exporter.Report, error)
	Load(ctx context.Context, id string) (exporter.Report, error)
}

// PDFRenderer prints an HTML document.
type PDFRenderer func(ctx context.Context, doc []byte, opts report.PDFOptions) ([]byte, error)

// ExportService serves the exporter set over HTTP.
type ExportService struct {
	Config    *u.Config
	Set       *exporter.Set
	Snapshots SnapshotStore
	Metrics   *metrics.Metrics
	Labels    report.Labels
	Lang      string
	RenderPDF PDFRenderer
}

// NewExportService creates an ExportService. snaps, m and labels may be nil.
func NewExportService(cfg u.Config, set *exporter.Set, snaps SnapshotStore, m *metrics.Metrics, labels report.Labels) *ExportService {
	return &ExportService{
		Config:    &cfg,
		Set:       set,
		Snapshots: snaps,
		Metrics:   m,
		Labels:    labels,
		Lang:      strings.SplitN(strings.ReplaceAll(cfg.Site.Locale, "_", "-"), "-", 2)[0],
		RenderPDF: report.RenderPDF,
	}
}

type exporterInfo struct {
	Key          string `json:"key"`
	FriendlyName string `json:"friendly_name"`
}

// HandleListExporters lists the registered exporters in registration order.
func (svc *ExportService) HandleListExporters(c *fiber.Ctx) error {
	entries := svc.Set.Entries()
	out := make([]exporterInfo, 0, len(entries))
	for _, e := range entries {
		out = append(out, exporterInfo{Key: e.Key, FriendlyName: e.FriendlyName})
	}
	return c.JSON(out)
}

// HandleExporterPage runs one exporter for one page.
func (svc *ExportService) HandleExporterPage(c *fiber.Ctx) error {
	key := c.Params("key")
	email := strings.TrimSpace(c.Query("email"))
	if email == "" {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid email: missing")
	}
	page := 1
	if raw := c.Query("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid page: must be 1 or greater")
		}
		page = n
	}
	if page < 1 {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid page: must be 1 or greater")
	}

	p, err := svc.Set.Call(c.UserContext(), key, email, page)
	if errors.Is(err, domain.ErrUnknownExporter) {
		return fiber.NewError(fiber.StatusNotFound, "Unknown exporter: "+key)
	}
	if err != nil {
		u.Error("Exporter failed", "exporter", key, "page", page, "error", err)
		return fiber.NewError(fiber.StatusInternalServerError, "Export failed")
	}
	return c.JSON(p)
}

type exportRequest struct {
	Email string `json:"email" form:"email"`
}

// HandleCreateExport collects every exporter for one member. With snapshots
// enabled the report is stored and returned with 201 and its id.
func (svc *ExportService) HandleCreateExport(c *fiber.Ctx) error {
	var req exportRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid body: "+err.Error())
	}

	r, err := exporter.Collect(c.UserContext(), svc.Set, req.Email, svc.Config.Export.MaxPages)
	switch {
	case errors.Is(err, domain.ErrInvalidEmail):
		return fiber.NewError(fiber.StatusBadRequest, "Invalid email: missing")
	case errors.Is(err, context.DeadlineExceeded):
		return fiber.NewError(fiber.StatusRequestTimeout, "Export took too long")
	case err != nil:
		u.Error("Export failed", "error", err)
		return fiber.NewError(fiber.StatusInternalServerError, "Export failed")
	}

	requestID := c.GetRespHeader(fiber.HeaderXRequestID)
	if svc.Snapshots == nil {
		u.Info("Export collected", "items", r.ItemCount(), "request_id", requestID)
		return c.JSON(r)
	}

	saved, err := svc.Snapshots.Save(c.UserContext(), r)
	if err != nil {
		svc.recordSnapshot("save", "error")
		u.Error("Snapshot save failed", "error", err)
		return fiber.NewError(fiber.StatusServiceUnavailable, "Snapshot store unavailable")
	}
	svc.recordSnapshot("save", "ok")
	u.Info("Export stored", "id", saved.ID, "items", saved.ItemCount(), "request_id", requestID)

	c.Location("/v1/exports/" + saved.ID)
	return c.Status(fiber.StatusCreated).JSON(saved)
}

func (svc *ExportService) recordSnapshot(op, result string) {
	if svc.Metrics != nil {
		svc.Metrics.RecordSnapshot(op, result)
	}
}

func (svc *ExportService) loadSnapshot(c *fiber.Ctx) (exporter.Report, error) {
	if svc.Snapshots == nil {
		return exporter.Report{}, fiber.NewError(fiber.StatusNotFound, "Snapshots are disabled")
	}
	r, err := svc.Snapshots.Load(c.UserContext(), c.Params("id"))
	if errors.Is(err, domain.ErrSnapshotNotFound) {
		svc.recordSnapshot("load", "miss")
		return exporter.Report{}, fiber.NewError(fiber.StatusNotFound, "Export not found or expired")
	}
	if err != nil {
		svc.recordSnapshot("load", "error")
		u.Error("Snapshot load failed", "error", err)
		return exporter.Report{}, fiber.NewError(fiber.StatusServiceUnavailable, "Snapshot store unavailable")
	}
	svc.recordSnapshot("load", "ok")
	return r, nil
}

// HandleGetExport returns a stored report as JSON.
func (svc *ExportService) HandleGetExport(c *fiber.Ctx) error {
	r, err := svc.loadSnapshot(c)
	if err != nil {
		return err
	}
	return c.JSON(r)
}

// HandleGetExportHTML returns a stored report as an HTML page.
func (svc *ExportService) HandleGetExportHTML(c *fiber.Ctx) error {
	r, err := svc.loadSnapshot(c)
	if err != nil {
		return err
	}
	doc, err := report.HTML(r, svc.Lang, svc.Labels)
	if err != nil {
		u.Error("HTML rendering failed", "id", r.ID, "error", err)
		return fiber.NewError(fiber.StatusInternalServerError, "HTML rendering failed")
	}
	c.Type("html", "utf-8")
	return c.Send(doc)
}

// HandleGetExportPDF prints a stored report to PDF.
func (svc *ExportService) HandleGetExportPDF(c *fiber.Ctx) error {
	r, err := svc.loadSnapshot(c)
	if err != nil {
		return err
	}
	doc, err := report.HTML(r, svc.Lang, svc.Labels)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "HTML rendering failed")
	}

	pdf, err := svc.RenderPDF(c.UserContext(), doc, report.PDFOptionsFrom(*svc.Config))
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			u.Error("PDF generation timeout", "timeout_secs", svc.Config.PDF.TimeoutSecs, "error", err)
			return fiber.NewError(fiber.StatusRequestTimeout, "PDF rendering took too long")
		}
		u.Error("PDF generation failed", "error", err)
		return fiber.NewError(fiber.StatusInternalServerError, "PDF generation failed")
	}

	u.Info("PDF generated", "id", r.ID, "request_id", c.GetRespHeader(fiber.HeaderXRequestID))
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=bp-export-%s.pdf", r.ID))
	return c.Send(pdf)
}
