package classifier

import (
	"context"
	"math"
	"math/rand"
)

// FeatureVector is the classifier input: current inventory, average weekly
// sales, and replenishment lead time in days. Raw magnitudes, no scaling.
type FeatureVector [3]float64

// Example is a labeled training input. Label 1 means "reorder".
type Example struct {
	Features FeatureVector
	Label    float64
}

// Scorer produces a reorder score in [0,1] for a feature vector. The trained
// Model implements it; tests substitute a deterministic rule-based scorer.
type Scorer interface {
	Score(fv FeatureVector) float64
}

// Config controls the network shape and training schedule.
type Config struct {
	HiddenUnits  int
	LearningRate float64
	Epochs       int
}

// DefaultConfig mirrors the architecture the whole system is tuned around:
// 3 inputs, one hidden layer of 8 ReLU units, sigmoid output.
func DefaultConfig() Config {
	return Config{HiddenUnits: 8, LearningRate: 0.01, Epochs: 200}
}

const inputs = 3

// Model is a small feed-forward binary classifier. Parameters are mutated
// only by Train; after that the model is read-only and safe to share.
type Model struct {
	hidden int
	w1     []float64 // hidden x inputs, row-major
	b1     []float64 // hidden
	w2     []float64 // hidden
	b2     float64

	opt *adam
	rng *rand.Rand
}

// New creates a model with randomly initialized parameters. Initialization is
// stochastic, so repeated sessions may score borderline inputs differently.
func New(cfg Config) *Model {
	return NewWithRand(cfg, rand.New(rand.NewSource(rand.Int63())))
}

// NewWithRand creates a model using the given RNG for weight initialization
// and epoch shuffling. With a fixed seed, training is reproducible.
func NewWithRand(cfg Config, rng *rand.Rand) *Model {
	if cfg.HiddenUnits <= 0 {
		cfg.HiddenUnits = 8
	}
	if cfg.LearningRate <= 0 {
		cfg.LearningRate = 0.01
	}

	m := &Model{
		hidden: cfg.HiddenUnits,
		w1:     make([]float64, cfg.HiddenUnits*inputs),
		b1:     make([]float64, cfg.HiddenUnits),
		w2:     make([]float64, cfg.HiddenUnits),
		rng:    rng,
	}
	for i := range m.w1 {
		m.w1[i] = rng.Float64()*2 - 1 // -1 to 1
	}
	for i := range m.b1 {
		m.b1[i] = rng.Float64()*2 - 1
	}
	for i := range m.w2 {
		m.w2[i] = rng.Float64()*2 - 1
	}
	m.b2 = rng.Float64()*2 - 1

	m.opt = newAdam(cfg.LearningRate, cfg.HiddenUnits)
	return m
}

// Train fits the model on the example set for the fixed epoch budget,
// minimizing binary cross-entropy with per-example Adam updates and a
// Fisher-Yates shuffle of the example order each epoch.
//
// It returns the mean loss per epoch. Non-convergence is not an error: the
// caller proceeds with whatever parameters exist after the last epoch, and
// can inspect the history for a convergence signal. The context is checked
// between epochs so an abandoned session stops training early.
func (m *Model) Train(ctx context.Context, examples []Example, epochs int) ([]float64, error) {
	if epochs <= 0 {
		epochs = DefaultConfig().Epochs
	}
	if len(examples) == 0 {
		return nil, nil
	}

	order := make([]int, len(examples))
	for i := range order {
		order[i] = i
	}

	history := make([]float64, 0, epochs)
	for epoch := 0; epoch < epochs; epoch++ {
		if err := ctx.Err(); err != nil {
			return history, err
		}

		m.rng.Shuffle(len(order), func(i, j int) {
			order[i], order[j] = order[j], order[i]
		})

		var epochLoss float64
		for _, idx := range order {
			epochLoss += m.step(examples[idx])
		}
		history = append(history, epochLoss/float64(len(examples)))
	}
	return history, nil
}

// Score runs a forward pass and returns the reorder probability in [0,1].
// Scratch buffers are allocated per call and released with it, so large
// product sets never accumulate inference state.
func (m *Model) Score(fv FeatureVector) float64 {
	h := make([]float64, m.hidden)
	score, _ := m.forward(fv, h)
	return score
}

// forward computes the network output, filling h with post-activation hidden
// values. Returns the sigmoid output and the pre-activation logit.
func (m *Model) forward(fv FeatureVector, h []float64) (float64, float64) {
	for j := 0; j < m.hidden; j++ {
		z := m.b1[j]
		for k := 0; k < inputs; k++ {
			z += m.w1[j*inputs+k] * fv[k]
		}
		if z < 0 { // ReLU
			z = 0
		}
		h[j] = z
	}

	logit := m.b2
	for j := 0; j < m.hidden; j++ {
		logit += m.w2[j] * h[j]
	}
	return sigmoid(logit), logit
}

// step runs one forward/backward pass for a single example and applies the
// optimizer update. Returns the example's cross-entropy loss.
func (m *Model) step(ex Example) float64 {
	h := make([]float64, m.hidden)
	p, _ := m.forward(ex.Features, h)

	// Sigmoid + BCE: the output-layer gradient collapses to (p - y), which
	// stays informative even when the sigmoid saturates.
	dOut := p - ex.Label

	gw2 := make([]float64, m.hidden)
	dHidden := make([]float64, m.hidden)
	for j := 0; j < m.hidden; j++ {
		gw2[j] = dOut * h[j]
		if h[j] > 0 { // ReLU gradient
			dHidden[j] = dOut * m.w2[j]
		}
	}

	gw1 := make([]float64, m.hidden*inputs)
	for j := 0; j < m.hidden; j++ {
		for k := 0; k < inputs; k++ {
			gw1[j*inputs+k] = dHidden[j] * ex.Features[k]
		}
	}

	m.opt.update(m, gw1, dHidden, gw2, dOut)
	return bceLoss(p, ex.Label)
}

func sigmoid(z float64) float64 {
	return 1 / (1 + math.Exp(-z))
}

// bceLoss is binary cross-entropy with the prediction clamped away from the
// asymptotes so the log stays finite.
func bceLoss(p, y float64) float64 {
	const eps = 1e-12
	p = math.Min(math.Max(p, eps), 1-eps)
	return -(y*math.Log(p) + (1-y)*math.Log(1-p))
}
