// internal/app/features/repairs/export.go
package repairs

import (
	"bytes"
	"net/http"

	"github.com/dalemusser/repairhub/internal/app/system/export"
	"github.com/dalemusser/repairhub/internal/app/system/timeouts"
	"github.com/dalemusser/repairhub/internal/app/system/viewdata"
	"github.com/dalemusser/repairhub/internal/domain/models"
	"go.uber.org/zap"
)

// ServeCatalogExport downloads every repair of a car as XLSX.
// GET /cars/{carID}/repairs/export.xlsx
func (h *Handler) ServeCatalogExport(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Export(), h.Log, "repairs export")
	defer cancel()

	scope, car, err := h.loadCar(ctx, r)
	if err != nil {
		h.fail(w, r, scope, "load car failed", err)
		return
	}
	all, err := h.Repairs.ListByCar(ctx, car.ID)
	if err != nil {
		h.fail(w, r, scope, "list repairs failed", err)
		return
	}

	h.writeSheet(w, r, "repairs-"+car.Registration, car, all)
}

// ServeRepairExport downloads a single repair as XLSX.
// GET /cars/{carID}/repairs/{repairID}/export.xlsx
func (h *Handler) ServeRepairExport(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Export(), h.Log, "repair export")
	defer cancel()

	scope, car, err := h.loadCar(ctx, r)
	if err != nil {
		h.fail(w, r, scope, "load car failed", err)
		return
	}
	rep, err := h.loadRepair(ctx, r, car)
	if err != nil {
		h.fail(w, r, scope, "load repair failed", err)
		return
	}

	h.writeSheet(w, r, "repair-"+car.Registration, car, []models.Repair{*rep})
}

func (h *Handler) writeSheet(w http.ResponseWriter, r *http.Request, prefix string, car *models.Car, repairs []models.Repair) {
	loc := viewdata.Locale()
	doc := export.NewDocument(prefix)

	var buf bytes.Buffer
	err := export.WriteRepairs(&buf, doc, loc, export.RepairSheet{
		Shop:    h.Shop,
		Car:     *car,
		Repairs: repairs,
	})
	if err != nil {
		h.ErrLog.LogServerError(w, r, "write repairs workbook failed", err, loc.GenericError(), r.URL.Path)
		return
	}

	h.Log.Info("repairs exported",
		zap.String("document", doc.ID),
		zap.String("car", car.ID.Hex()),
		zap.Int("repairs", len(repairs)))

	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+doc.Filename+`"`)
	_, _ = w.Write(buf.Bytes())
}
