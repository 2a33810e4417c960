// internal/app/features/dashboard/export.go
package dashboard

import (
	"bytes"
	"net/http"

	"github.com/dalemusser/repairhub/internal/app/system/export"
	"github.com/dalemusser/repairhub/internal/app/system/timeouts"
	"github.com/dalemusser/repairhub/internal/app/system/viewdata"
	"go.uber.org/zap"
)

// ServeExport downloads the per-user facets for the current ranges as XLSX.
// GET /admin/export.xlsx
func (h *Handler) ServeExport(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Export(), h.Log, "dashboard export")
	defer cancel()

	req := ParseRequest(r)
	pl, err := h.Runner.Assembler.Assemble(ctx, req)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "dashboard export failed", err, h.Runner.Message(err), "/admin")
		return
	}

	loc := viewdata.Locale()
	doc := export.NewDocument("dashboard")
	sheet := export.DashboardSheet{
		Title:       "Repairs dashboard",
		CountLabel:  h.rangeLabel(req.Count),
		ProfitLabel: h.rangeLabel(req.Profit),
		Rows:        export.DashboardRows(pl.Facets, loc),
		TotalCount:  pl.Facets.TotalCount(),
		TotalProfit: loc.Money(pl.Facets.TotalProfit()),
	}

	var buf bytes.Buffer
	if err := export.WriteDashboard(&buf, doc, h.Catalog.Now(), loc, sheet); err != nil {
		h.ErrLog.LogServerError(w, r, "write dashboard workbook failed", err, loc.GenericError(), "/admin")
		return
	}

	h.Log.Info("dashboard exported",
		zap.String("document", doc.ID),
		zap.Int("rows", len(sheet.Rows)))

	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+doc.Filename+`"`)
	_, _ = w.Write(buf.Bytes())
}
