package api

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"sales_insights/internal/checksum"
	"sales_insights/internal/sales"
)

// recordsFileName is the download name of the filtered raw export.
const recordsFileName = "Adidas_Sales_Filtered.csv"

// salesHandler holds the sales service and implements HTTP handlers for the reports.
type salesHandler struct {
	salesService *sales.Service
	logger       *zap.Logger
}

// NewSalesHandler creates a new sales handler.
func NewSalesHandler(salesService *sales.Service, logger *zap.Logger) *salesHandler {
	return &salesHandler{
		salesService: salesService,
		logger:       logger,
	}
}

type recordView struct {
	InvoiceDate string `json:"invoice_date"`
	Region      string `json:"region"`
	Retailer    string `json:"retailer"`
	State       string `json:"state"`
	City        string `json:"city"`
	Product     string `json:"product"`
	SalesMethod string `json:"sales_method"`
	UnitsSold   int64  `json:"units_sold"`
	TotalSales  string `json:"total_sales"`
	MonthYear   string `json:"month_year"`
}

func newRecordView(r sales.Record) recordView {
	return recordView{
		InvoiceDate: r.Value(sales.FieldInvoiceDate),
		Region:      r.Region,
		Retailer:    r.Retailer,
		State:       r.State,
		City:        r.City,
		Product:     r.Product,
		SalesMethod: r.SalesMethod,
		UnitsSold:   r.UnitsSold,
		TotalSales:  r.TotalSales.String(),
		MonthYear:   r.Value(sales.FieldMonth),
	}
}

// fail maps pipeline errors to a status code and aborts the request.
func (h *salesHandler) fail(ctx *gin.Context, err error) {
	_ = ctx.Error(err)
	switch {
	case errors.Is(err, sales.ErrDataSourceNotFound):
		ctx.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "data source not found"})
	case errors.Is(err, sales.ErrUnknownReport):
		ctx.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		h.logger.Error("sales pipeline failed", zap.Error(err))
		ctx.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func (h *salesHandler) criteria(ctx *gin.Context) (sales.Criteria, bool) {
	c, err := criteriaFromQuery(ctx)
	if err != nil {
		_ = ctx.Error(err)
		ctx.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return sales.Criteria{}, false
	}
	return c, true
}

// handleOptions handles the GET /options endpoint.
func (h *salesHandler) handleOptions(ctx *gin.Context) {
	opts, err := h.salesService.Options()
	if err != nil {
		h.fail(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, opts)
}

// handleKPIs handles the GET /kpis endpoint.
func (h *salesHandler) handleKPIs(ctx *gin.Context) {
	c, ok := h.criteria(ctx)
	if !ok {
		return
	}
	kpis, err := h.salesService.KPIs(c)
	if err != nil {
		h.fail(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, kpis)
}

// handleDashboard handles the GET /dashboard endpoint.
func (h *salesHandler) handleDashboard(ctx *gin.Context) {
	c, ok := h.criteria(ctx)
	if !ok {
		return
	}
	dash, err := h.salesService.Dashboard(ctx.Request.Context(), c)
	if err != nil {
		h.fail(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dash)
}

func (h *salesHandler) report(ctx *gin.Context) (sales.Report, bool) {
	c, ok := h.criteria(ctx)
	if !ok {
		return sales.Report{}, false
	}
	report, err := h.salesService.Report(sales.ReportName(ctx.Param("name")), c)
	if err != nil {
		h.fail(ctx, err)
		return sales.Report{}, false
	}
	return report, true
}

// handleReport handles the GET /reports/:name endpoint.
func (h *salesHandler) handleReport(ctx *gin.Context) {
	report, ok := h.report(ctx)
	if !ok {
		return
	}
	ctx.JSON(http.StatusOK, report)
}

// handleReportCSV handles the GET /reports/:name/csv endpoint.
func (h *salesHandler) handleReportCSV(ctx *gin.Context) {
	report, ok := h.report(ctx)
	if !ok {
		return
	}
	if !report.Available {
		ctx.JSON(http.StatusConflict, gin.H{"error": "report unavailable for this data source", "report": report.Name})
		return
	}

	def, err := sales.Definition(report.Name)
	if err != nil {
		h.fail(ctx, err)
		return
	}

	var buf bytes.Buffer
	if err := report.WriteCSV(&buf); err != nil {
		h.fail(ctx, fmt.Errorf("failed to export %s: %w", report.Name, err))
		return
	}
	h.sendCSV(ctx, def.FileName, buf.Bytes())
}

// handleRecords handles the GET /records endpoint.
func (h *salesHandler) handleRecords(ctx *gin.Context) {
	c, ok := h.criteria(ctx)
	if !ok {
		return
	}
	_, records, err := h.salesService.Records(c)
	if err != nil {
		h.fail(ctx, err)
		return
	}

	views := make([]recordView, 0, len(records))
	for _, r := range records {
		views = append(views, newRecordView(r))
	}
	ctx.JSON(http.StatusOK, gin.H{"results": views, "count": len(views)})
}

// handleRecordsCSV handles the GET /records/csv endpoint.
func (h *salesHandler) handleRecordsCSV(ctx *gin.Context) {
	c, ok := h.criteria(ctx)
	if !ok {
		return
	}
	schema, records, err := h.salesService.Records(c)
	if err != nil {
		h.fail(ctx, err)
		return
	}

	var buf bytes.Buffer
	if err := sales.WriteRecordsCSV(&buf, schema, records); err != nil {
		h.fail(ctx, fmt.Errorf("failed to export records: %w", err))
		return
	}
	h.sendCSV(ctx, recordsFileName, buf.Bytes())
}

// handleReload handles the POST /reload endpoint.
func (h *salesHandler) handleReload(ctx *gin.Context) {
	ds, err := h.salesService.Reload()
	if err != nil {
		h.fail(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{
		"source":    ds.Source,
		"identity":  ds.Identity,
		"records":   len(ds.Records),
		"loaded_at": ds.LoadedAt,
	})
}

func (h *salesHandler) sendCSV(ctx *gin.Context, fileName string, body []byte) {
	etag := `"` + checksum.Bytes(body) + `"`
	ctx.Header("ETag", etag)
	if ctx.GetHeader("If-None-Match") == etag {
		ctx.Status(http.StatusNotModified)
		return
	}

	ctx.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, fileName))
	ctx.Data(http.StatusOK, "text/csv; charset=utf-8", body)
}
