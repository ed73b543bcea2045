package classifier

import "math"

// adam holds first/second moment estimates for every trainable parameter,
// mirroring the model's parameter layout field for field.
type adam struct {
	lr    float64
	beta1 float64
	beta2 float64
	eps   float64
	t     int

	mW1, vW1 []float64
	mB1, vB1 []float64
	mW2, vW2 []float64
	mB2, vB2 float64
}

func newAdam(lr float64, hidden int) *adam {
	return &adam{
		lr:    lr,
		beta1: 0.9,
		beta2: 0.999,
		eps:   1e-8,
		mW1:   make([]float64, hidden*inputs),
		vW1:   make([]float64, hidden*inputs),
		mB1:   make([]float64, hidden),
		vB1:   make([]float64, hidden),
		mW2:   make([]float64, hidden),
		vW2:   make([]float64, hidden),
	}
}

// update applies one Adam step to the model given the parameter gradients.
func (a *adam) update(m *Model, gw1, gb1, gw2 []float64, gb2 float64) {
	a.t++
	c1 := 1 - math.Pow(a.beta1, float64(a.t))
	c2 := 1 - math.Pow(a.beta2, float64(a.t))

	for i := range m.w1 {
		m.w1[i] -= a.stepSlice(&a.mW1[i], &a.vW1[i], gw1[i], c1, c2)
	}
	for i := range m.b1 {
		m.b1[i] -= a.stepSlice(&a.mB1[i], &a.vB1[i], gb1[i], c1, c2)
	}
	for i := range m.w2 {
		m.w2[i] -= a.stepSlice(&a.mW2[i], &a.vW2[i], gw2[i], c1, c2)
	}
	m.b2 -= a.stepSlice(&a.mB2, &a.vB2, gb2, c1, c2)
}

// stepSlice advances one parameter's moments and returns the bias-corrected
// update delta.
func (a *adam) stepSlice(mp, vp *float64, g, c1, c2 float64) float64 {
	*mp = a.beta1**mp + (1-a.beta1)*g
	*vp = a.beta2**vp + (1-a.beta2)*g*g
	mHat := *mp / c1
	vHat := *vp / c2
	return a.lr * mHat / (math.Sqrt(vHat) + a.eps)
}
