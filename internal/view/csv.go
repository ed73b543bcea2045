package view

import (
	"encoding/csv"
	"strconv"
	"strings"

	"github.com/mkoller/restock/internal/analysis"
	"github.com/mkoller/restock/internal/database"
)

// ExportCSV renders the full catalog as CSV, one row per product in fetch
// order. Export deliberately ignores the current search/filter/page state.
func ExportCSV(products []database.Product, decisions map[int64]analysis.Decision) string {
	var sb strings.Builder
	w := csv.NewWriter(&sb)

	w.Write([]string{"Product", "Stock", "Sales/Wk", "Lead Time", "Status"})
	for _, p := range products {
		w.Write([]string{
			p.Name,
			strconv.Itoa(p.CurrentInventory),
			strconv.Itoa(p.AvgSales),
			strconv.Itoa(p.LeadTime),
			decisions[p.ID].Label,
		})
	}
	w.Flush()
	return sb.String()
}
