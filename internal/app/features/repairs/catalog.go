// internal/app/features/repairs/catalog.go
package repairs

import (
	"html/template"
	"net/http"
	"net/url"

	"github.com/dalemusser/repairhub/internal/app/features/cars"
	"github.com/dalemusser/repairhub/internal/app/system/facets"
	"github.com/dalemusser/repairhub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/repairhub/internal/app/system/paging"
	"github.com/dalemusser/repairhub/internal/app/system/timeouts"
	"github.com/dalemusser/repairhub/internal/app/system/viewdata"
	"github.com/dalemusser/repairhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
)

type carView struct {
	CustomerName string
	VIN          string
	Registration string
	Make         string
	Engine       string
}

type repairRow struct {
	Date       string
	KM         int
	Profit     string
	DetailsURL string
}

type catalogData struct {
	viewdata.BaseVM
	Car       carView
	Repairs   []repairRow
	Total     int
	Pager     paging.Pager
	ShowPager bool
	ExportURL string
}

type detailsData struct {
	viewdata.BaseVM
	Car         carView
	Date        string
	KM          int
	Profit      string
	Description template.HTML
	ExportURL   string
}

func newCarView(c *models.Car) carView {
	return carView{
		CustomerName: c.CustomerName,
		VIN:          c.VIN,
		Registration: c.Registration,
		Make:         c.Make,
		Engine:       c.Engine,
	}
}

func carPath(scope cars.Scope, car *models.Car) string {
	return scope.Path("/cars/" + car.ID.Hex() + "/repairs")
}

func repairRows(scope cars.Scope, car *models.Car, repairs []models.Repair) []repairRow {
	loc := viewdata.Locale()
	base := carPath(scope, car)
	rows := make([]repairRow, 0, len(repairs))
	for _, rep := range repairs {
		rows = append(rows, repairRow{
			Date:       loc.Day(rep.Date),
			KM:         rep.KM,
			Profit:     loc.Money(facets.ParseProfit(rep.Profit)),
			DetailsURL: base + "/" + rep.ID.Hex(),
		})
	}
	return rows
}

// catalogPage cuts the requested page out of a car's repairs and builds its
// pager. Only the page parameter of q is rewritten in pager links.
func (h *Handler) catalogPage(path string, q url.Values, number int, repairs []models.Repair) (paging.Page[models.Repair], paging.Pager) {
	pg := paging.Slice(repairs, number, h.pageSize)
	return pg, paging.NewPager(path, q, number, pg.TotalPages(), h.pageLinks)
}

// ServeCatalog lists a car's repairs, newest first, one page at a time.
// GET /cars/{carID}/repairs
func (h *Handler) ServeCatalog(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "repair catalog")
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

	path := carPath(scope, car)
	pg, pager := h.catalogPage(path, r.URL.Query(), paging.ParsePage(r), all)

	data := catalogData{
		BaseVM:    viewdata.NewBaseVM(r, "Repairs: "+car.Registration, scope.Path("/cars")),
		Car:       newCarView(car),
		Repairs:   repairRows(scope, car, pg.Items),
		Total:     pg.Total,
		Pager:     pager,
		ShowPager: pg.TotalPages() > 1,
		ExportURL: path + "/export.xlsx",
	}
	scope.Decorate(&data.BaseVM)

	templates.Render(w, r, "repairs_catalog", data)
}

// ServeDetails shows one repair with its sanitized description.
// GET /cars/{carID}/repairs/{repairID}
func (h *Handler) ServeDetails(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "repair details")
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

	loc := viewdata.Locale()
	base := carPath(scope, car)
	data := detailsData{
		BaseVM:      viewdata.NewBaseVM(r, "Repair details", base),
		Car:         newCarView(car),
		Date:        loc.Day(rep.Date),
		KM:          rep.KM,
		Profit:      loc.Money(facets.ParseProfit(rep.Profit)),
		Description: htmlsanitize.PrepareForDisplay(rep.Description),
		ExportURL:   base + "/" + rep.ID.Hex() + "/export.xlsx",
	}
	scope.Decorate(&data.BaseVM)

	templates.Render(w, r, "repair_details", data)
}
