// Package session orchestrates one analysis run: train the classifier and
// fetch the catalog concurrently, join on both, run inference and
// aggregation once, then serve cheap reactive re-slicing of the result.
package session

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/mkoller/restock/internal/analysis"
	"github.com/mkoller/restock/internal/classifier"
	"github.com/mkoller/restock/internal/database"
	"github.com/mkoller/restock/internal/view"
)

// Phase is the session lifecycle state.
type Phase string

const (
	PhaseInitializing        Phase = "initializing"
	PhaseTrainingAndFetching Phase = "training_and_fetching"
	PhaseAnalyzing           Phase = "analyzing"
	PhaseReady               Phase = "ready"
	PhaseFailed              Phase = "failed"
)

// Fetcher returns the full product catalog.
type Fetcher interface {
	Products(ctx context.Context) ([]database.Product, error)
}

// Trainer produces a ready scorer. The default trains the feed-forward
// classifier on the bootstrap dataset; tests substitute a deterministic one.
type Trainer func(ctx context.Context) (classifier.Scorer, error)

// DefaultTrainer trains a fresh model on the embedded bootstrap examples.
// The model is ephemeral; nothing is persisted across sessions.
func DefaultTrainer(cfg classifier.Config) Trainer {
	return func(ctx context.Context) (classifier.Scorer, error) {
		m := classifier.New(cfg)
		history, err := m.Train(ctx, classifier.BootstrapExamples, cfg.Epochs)
		if err != nil {
			return nil, err
		}
		if n := len(history); n > 0 {
			log.Printf("training finished: %d epochs, final loss %.4f", n, history[n-1])
			if history[n-1] >= history[0] {
				log.Printf("warning: training loss did not decrease (%.4f -> %.4f)",
					history[0], history[n-1])
			}
		}
		return m, nil
	}
}

// Report describes a completed analysis run.
type Report struct {
	RunID        string
	ProductCount int
	Duration     time.Duration
}

// Session owns the analysis lifecycle and the view state. It is built for a
// single caller: Run blocks until the session is Ready or Failed, and the
// model and product list are written exactly once before any read, so no
// locking is needed.
type Session struct {
	fetcher Fetcher
	trainer Trainer

	phase     Phase
	err       error
	scorer    classifier.Scorer
	products  []database.Product
	decisions map[int64]analysis.Decision
	summary   analysis.Summary
	report    Report
	state     view.State
	page      view.Page
}

// New creates a session in the Initializing phase.
func New(fetcher Fetcher, trainer Trainer) *Session {
	return &Session{
		fetcher: fetcher,
		trainer: trainer,
		phase:   PhaseInitializing,
		state:   view.NewState(),
	}
}

// Run trains and fetches concurrently, then analyzes. Inference only ever
// sees a fully trained model and a fully parsed product list: the errgroup
// wait is the barrier. On fetch failure the session lands in Failed with the
// error retained; Retry re-runs the fetch without retraining.
func (s *Session) Run(ctx context.Context) error {
	start := time.Now()
	s.phase = PhaseTrainingAndFetching

	var (
		scorer   classifier.Scorer
		products []database.Product
	)

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		m, err := s.trainer(egCtx)
		if err != nil {
			return fmt.Errorf("training classifier: %w", err)
		}
		scorer = m
		return nil
	})
	eg.Go(func() error {
		p, err := s.fetcher.Products(egCtx)
		if err != nil {
			return fmt.Errorf("fetching products: %w", err)
		}
		products = p
		return nil
	})

	if err := eg.Wait(); err != nil {
		return s.fail(err)
	}

	s.scorer = scorer
	return s.analyze(products, start)
}

// Retry re-runs the fetch after a failure, reusing the trained model.
// Valid only in the Failed phase.
func (s *Session) Retry(ctx context.Context) error {
	if s.phase != PhaseFailed {
		return fmt.Errorf("retry only valid after failure, session is %s", s.phase)
	}

	start := time.Now()
	if s.scorer == nil {
		// Training itself failed or was cancelled; redo both.
		s.phase = PhaseInitializing
		return s.Run(ctx)
	}

	s.phase = PhaseTrainingAndFetching
	products, err := s.fetcher.Products(ctx)
	if err != nil {
		return s.fail(fmt.Errorf("fetching products: %w", err))
	}
	return s.analyze(products, start)
}

// analyze runs inference and aggregation, then flips to Ready. Decisions are
// replaced wholesale; a decision exists iff its product was in this input.
func (s *Session) analyze(products []database.Product, start time.Time) error {
	if len(products) == 0 {
		return s.fail(fmt.Errorf("product catalog is empty"))
	}

	s.phase = PhaseAnalyzing
	s.products = products
	s.decisions = analysis.Classify(s.scorer, products)
	s.summary = analysis.Summarize(products, s.decisions)
	s.report = Report{
		RunID:        uuid.NewString(),
		ProductCount: len(products),
		Duration:     time.Since(start),
	}

	s.err = nil
	s.phase = PhaseReady
	s.reproject()
	log.Printf("analysis run %s: %d products, %d to reorder (%.1fs)",
		s.report.RunID, s.summary.Total, s.summary.Reorder, s.report.Duration.Seconds())
	return nil
}

func (s *Session) fail(err error) error {
	s.phase = PhaseFailed
	s.err = err
	log.Printf("session failed: %v", err)
	return err
}

// Phase returns the current lifecycle phase.
func (s *Session) Phase() Phase { return s.phase }

// Err returns the retained failure, nil unless the session is Failed.
func (s *Session) Err() error { return s.err }

// Report returns metadata about the last completed analysis run.
func (s *Session) Report() Report { return s.report }

// --- view interactions, Ready phase only ---
// These mutate the view state and re-project synchronously. They never
// re-fetch, never retrain, and never leave the Ready phase.

// Search sets the name search term and resets to the first page.
func (s *Session) Search(term string) {
	if s.phase != PhaseReady {
		return
	}
	s.state.Search = term
	s.state.Page = 1
	s.reproject()
}

// SetFilter restricts the view to one decision label.
func (s *Session) SetFilter(f view.Filter) {
	if s.phase != PhaseReady {
		return
	}
	s.state.Filter = f
	s.state.Page = 1
	s.reproject()
}

// SortBy selects or toggles the sort column.
func (s *Session) SortBy(key view.SortKey) {
	if s.phase != PhaseReady {
		return
	}
	s.state.SortBy(key)
	s.reproject()
}

// NextPage advances one page, clamped to the last.
func (s *Session) NextPage() {
	if s.phase != PhaseReady {
		return
	}
	s.state.Page = view.NextPage(s.page.CurrentPage, s.page.TotalPages)
	s.reproject()
}

// PrevPage goes back one page, clamped to the first.
func (s *Session) PrevPage() {
	if s.phase != PhaseReady {
		return
	}
	s.state.Page = view.PrevPage(s.page.CurrentPage)
	s.reproject()
}

func (s *Session) reproject() {
	s.page = view.Project(s.products, s.decisions, s.state)
}

// Snapshot is an immutable read of everything the presentation layer needs.
type Snapshot struct {
	Phase          Phase
	Summary        analysis.Summary
	ReorderPercent float64
	TopSellers     []database.Product
	Page           view.Page
	State          view.State
}

// Snapshot returns the current presentation state. TopSellers ranks the five
// fastest-moving products.
func (s *Session) Snapshot() Snapshot {
	return Snapshot{
		Phase:          s.phase,
		Summary:        s.summary,
		ReorderPercent: analysis.ReorderPercent(s.summary),
		TopSellers:     analysis.TopBySales(s.products, 5),
		Page:           s.page,
		State:          s.state,
	}
}

// Decision returns the decision for a product id. The second return is false
// if the product was not part of the last analysis run.
func (s *Session) Decision(id int64) (analysis.Decision, bool) {
	d, ok := s.decisions[id]
	return d, ok
}

// Explain renders the rationale for one analyzed product.
func (s *Session) Explain(p database.Product) string {
	return analysis.Explain(p, s.decisions[p.ID])
}

// ExportCSV renders the full catalog regardless of the current view state.
func (s *Session) ExportCSV() string {
	return view.ExportCSV(s.products, s.decisions)
}
