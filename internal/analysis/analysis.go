// Package analysis applies a trained scorer to the product catalog and
// derives the dashboard's summary figures from the decisions.
package analysis

import (
	"fmt"
	"sort"

	"github.com/mkoller/restock/internal/classifier"
	"github.com/mkoller/restock/internal/database"
)

// Decision labels.
const (
	LabelReorder = "Reorder"
	LabelSafe    = "Safe"
)

// reorderThreshold maps a score to a label. Fixed, not configurable.
const reorderThreshold = 0.5

// Decision is the per-product inference output.
type Decision struct {
	Score float64
	Label string
}

// Summary holds the dashboard counters.
type Summary struct {
	Total   int
	Reorder int
	Safe    int
}

// Classify scores every product and maps each to a decision. The result has
// exactly one entry per product and the input slice is never mutated.
// Re-running with the same scorer and products yields the same labels.
func Classify(scorer classifier.Scorer, products []database.Product) map[int64]Decision {
	decisions := make(map[int64]Decision, len(products))
	for _, p := range products {
		score := scorer.Score(Features(p))
		label := LabelSafe
		if score > reorderThreshold {
			label = LabelReorder
		}
		decisions[p.ID] = Decision{Score: score, Label: label}
	}
	return decisions
}

// Features builds the classifier input for a product.
func Features(p database.Product) classifier.FeatureVector {
	return classifier.FeatureVector{
		float64(p.CurrentInventory),
		float64(p.AvgSales),
		float64(p.LeadTime),
	}
}

// Summarize counts decisions per label. Products without a decision (none,
// if Classify produced the map) count as safe rather than vanish, keeping
// Reorder + Safe == Total.
func Summarize(products []database.Product, decisions map[int64]Decision) Summary {
	s := Summary{Total: len(products)}
	for _, p := range products {
		if decisions[p.ID].Label == LabelReorder {
			s.Reorder++
		} else {
			s.Safe++
		}
	}
	return s
}

// ReorderPercent returns the share of products needing reorder, 0-100.
// An empty catalog yields 0.
func ReorderPercent(s Summary) float64 {
	if s.Total == 0 {
		return 0
	}
	return 100 * float64(s.Reorder) / float64(s.Total)
}

// TopBySales returns up to n products with the highest weekly sales,
// descending. Ties keep the original fetch order, so the ranking is
// reproducible for a given input order.
func TopBySales(products []database.Product, n int) []database.Product {
	top := make([]database.Product, len(products))
	copy(top, products)
	sort.SliceStable(top, func(i, j int) bool {
		return top[i].AvgSales > top[j].AvgSales
	})
	if n < len(top) {
		top = top[:n]
	}
	return top
}

// Explain renders a human-readable rationale for a product's decision.
// The check order is the tie-break priority: empty stock wins over stockout
// risk, which wins over the generic lead-time message.
func Explain(p database.Product, d Decision) string {
	switch {
	case p.CurrentInventory == 0:
		return "Stock is empty; replenish immediately."
	case p.CurrentInventory < p.AvgSales:
		return fmt.Sprintf("Stock (%d) is below one week of sales (%d); stockout risk.",
			p.CurrentInventory, p.AvgSales)
	case d.Label == LabelReorder:
		return "Stock is critically low relative to the replenishment lead time."
	default:
		return "Stock level is sufficient for current sales velocity."
	}
}
