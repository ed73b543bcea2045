// Package view slices the analyzed catalog for display: search, filter,
// sort, and pagination over an immutable (product, decision) set. Projection
// is pure; it never mutates products or decisions and runs without touching
// the model or the network.
package view

import (
	"sort"
	"strings"

	"github.com/mkoller/restock/internal/analysis"
	"github.com/mkoller/restock/internal/database"
)

// PageSize is the fixed number of rows per page.
const PageSize = 10

// Filter restricts results to one decision label.
type Filter string

const (
	FilterAll     Filter = "all"
	FilterReorder Filter = analysis.LabelReorder
	FilterSafe    Filter = analysis.LabelSafe
)

// SortKey names a sortable column.
type SortKey string

const (
	SortByName   SortKey = "name"
	SortByStock  SortKey = "stock"
	SortBySales  SortKey = "sales"
	SortByLead   SortKey = "lead_time"
	SortByStatus SortKey = "status"
)

// State is the full set of user-controlled view parameters. It is owned by
// the session; Project treats it as read-only input.
type State struct {
	Search  string
	Filter  Filter
	SortKey SortKey
	SortAsc bool
	Page    int
}

// NewState returns the initial view: unfiltered, sorted by name ascending,
// first page.
func NewState() State {
	return State{Filter: FilterAll, SortKey: SortByName, SortAsc: true, Page: 1}
}

// SortBy selects a sort column. Re-selecting the current column toggles the
// direction; a new column resets to ascending.
func (s *State) SortBy(key SortKey) {
	if s.SortKey == key {
		s.SortAsc = !s.SortAsc
		return
	}
	s.SortKey = key
	s.SortAsc = true
}

// Page is one visible slice of the analyzed catalog.
type Page struct {
	Items         []database.Product
	TotalPages    int
	FilteredCount int
	CurrentPage   int
}

// Project applies filter, search, sort, and pagination in that order.
// An empty result is valid: Items is empty and TotalPages is 0. Out-of-range
// page requests are clamped, never rejected.
func Project(products []database.Product, decisions map[int64]analysis.Decision, state State) Page {
	filtered := filterProducts(products, decisions, state)
	sortProducts(filtered, decisions, state)

	totalPages := (len(filtered) + PageSize - 1) / PageSize

	page := state.Page
	if page < 1 {
		page = 1
	}
	if totalPages > 0 && page > totalPages {
		page = totalPages
	}

	start := (page - 1) * PageSize
	end := start + PageSize
	if start > len(filtered) {
		start = len(filtered)
	}
	if end > len(filtered) {
		end = len(filtered)
	}

	return Page{
		Items:         filtered[start:end],
		TotalPages:    totalPages,
		FilteredCount: len(filtered),
		CurrentPage:   page,
	}
}

// filterProducts keeps products matching both the label filter and the
// case-insensitive name search. The two predicates commute.
func filterProducts(products []database.Product, decisions map[int64]analysis.Decision, state State) []database.Product {
	search := strings.ToLower(strings.TrimSpace(state.Search))

	var out []database.Product
	for _, p := range products {
		if state.Filter != FilterAll && state.Filter != "" {
			if decisions[p.ID].Label != string(state.Filter) {
				continue
			}
		}
		if search != "" && !strings.Contains(strings.ToLower(p.Name), search) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// sortProducts orders the slice in place by the state's sort key. The sort
// is stable, so toggling direction exactly reverses a duplicate-free order.
func sortProducts(products []database.Product, decisions map[int64]analysis.Decision, state State) {
	less := comparator(state.SortKey, decisions)
	if less == nil {
		return
	}
	sort.SliceStable(products, func(i, j int) bool {
		if state.SortAsc {
			return less(products[i], products[j])
		}
		return less(products[j], products[i])
	})
}

func comparator(key SortKey, decisions map[int64]analysis.Decision) func(a, b database.Product) bool {
	switch key {
	case SortByName:
		return func(a, b database.Product) bool {
			return strings.ToLower(a.Name) < strings.ToLower(b.Name)
		}
	case SortByStock:
		return func(a, b database.Product) bool { return a.CurrentInventory < b.CurrentInventory }
	case SortBySales:
		return func(a, b database.Product) bool { return a.AvgSales < b.AvgSales }
	case SortByLead:
		return func(a, b database.Product) bool { return a.LeadTime < b.LeadTime }
	case SortByStatus:
		return func(a, b database.Product) bool {
			return decisions[a.ID].Label < decisions[b.ID].Label
		}
	default:
		return nil
	}
}

// NextPage returns the page number after current, clamped to the last page.
func NextPage(current, totalPages int) int {
	if current < totalPages {
		return current + 1
	}
	if totalPages < 1 {
		return 1
	}
	return totalPages
}

// PrevPage returns the page number before current, clamped to 1.
func PrevPage(current int) int {
	if current > 1 {
		return current - 1
	}
	return 1
}
