package analysis

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mkoller/restock/internal/classifier"
	"github.com/mkoller/restock/internal/database"
)

// ruleScorer is a deterministic stand-in for the trained model: reorder when
// stock does not cover one week of sales.
type ruleScorer struct{}

func (ruleScorer) Score(fv classifier.FeatureVector) float64 {
	if fv[0] < fv[1] {
		return 0.9
	}
	return 0.1
}

func product(id int64, name string, stock, sales, lead int) database.Product {
	return database.Product{
		ID: id, Name: name,
		CurrentInventory: stock, AvgSales: sales, LeadTime: lead,
	}
}

func TestClassifyEmptyStockIsReorder(t *testing.T) {
	products := []database.Product{product(1, "Gaming Headset 210", 0, 50, 3)}

	decisions := Classify(ruleScorer{}, products)

	assert.Len(t, decisions, 1)
	assert.Equal(t, LabelReorder, decisions[1].Label)

	msg := Explain(products[0], decisions[1])
	assert.Contains(t, msg, "empty")
}

func TestClassifyHighStockIsSafe(t *testing.T) {
	products := []database.Product{product(1, "Smart Router 840", 100, 5, 2)}

	decisions := Classify(ruleScorer{}, products)

	assert.Equal(t, LabelSafe, decisions[1].Label)
	msg := Explain(products[0], decisions[1])
	assert.Contains(t, msg, "sufficient")
}

func TestClassifyOneDecisionPerProduct(t *testing.T) {
	products := []database.Product{
		product(1, "A", 0, 10, 1),
		product(2, "B", 50, 10, 1),
		product(3, "C", 3, 40, 9),
	}

	decisions := Classify(ruleScorer{}, products)

	assert.Len(t, decisions, len(products))
	for _, p := range products {
		d, ok := decisions[p.ID]
		assert.True(t, ok, "missing decision for %d", p.ID)
		assert.GreaterOrEqual(t, d.Score, 0.0)
		assert.LessOrEqual(t, d.Score, 1.0)
	}
}

func TestSummarizeCountsAddUp(t *testing.T) {
	products := []database.Product{
		product(1, "A", 0, 10, 1),
		product(2, "B", 50, 10, 1),
		product(3, "C", 3, 40, 9),
		product(4, "D", 80, 20, 2),
	}
	decisions := Classify(ruleScorer{}, products)

	s := Summarize(products, decisions)

	assert.Equal(t, 4, s.Total)
	assert.Equal(t, s.Total, s.Reorder+s.Safe)
	assert.Equal(t, 2, s.Reorder)
}

func TestReorderPercent(t *testing.T) {
	assert.Equal(t, 0.0, ReorderPercent(Summary{}))
	assert.Equal(t, 50.0, ReorderPercent(Summary{Total: 4, Reorder: 2, Safe: 2}))
	assert.Equal(t, 100.0, ReorderPercent(Summary{Total: 3, Reorder: 3}))
}

func TestTopBySalesDescending(t *testing.T) {
	products := []database.Product{
		product(1, "A", 10, 20, 1),
		product(2, "B", 10, 45, 1),
		product(3, "C", 10, 30, 1),
	}

	top := TopBySales(products, 2)

	assert.Len(t, top, 2)
	assert.Equal(t, int64(2), top[0].ID)
	assert.Equal(t, int64(3), top[1].ID)
	// Input untouched
	assert.Equal(t, int64(1), products[0].ID)
}

func TestTopBySalesStableOnTies(t *testing.T) {
	products := []database.Product{
		product(1, "A", 10, 30, 1),
		product(2, "B", 10, 30, 1),
		product(3, "C", 10, 30, 1),
	}

	top := TopBySales(products, 3)

	for i, p := range top {
		assert.Equal(t, int64(i+1), p.ID, "fetch order must survive equal sales")
	}
}

func TestTopBySalesNLargerThanSet(t *testing.T) {
	products := []database.Product{product(1, "A", 10, 30, 1)}
	assert.Len(t, TopBySales(products, 5), 1)
	assert.Empty(t, TopBySales(nil, 5))
}

func TestExplainPriorityOrder(t *testing.T) {
	reorder := Decision{Score: 0.9, Label: LabelReorder}

	// Empty stock beats stockout risk even though both apply.
	msg := Explain(product(1, "A", 0, 50, 3), reorder)
	assert.Contains(t, msg, "empty")

	// Stockout risk message embeds the literal figures.
	msg = Explain(product(2, "B", 7, 40, 3), reorder)
	assert.Contains(t, msg, "(7)")
	assert.Contains(t, msg, "(40)")
	assert.True(t, strings.Contains(msg, "stockout"))

	// Covered stock but still flagged: generic lead-time message.
	msg = Explain(product(3, "C", 45, 40, 12), reorder)
	assert.Contains(t, msg, "lead time")
}
