package integrators

import "math"

var cbrt2 = math.Cbrt(2)

// NewRuth3 is Ruth's third-order splitting.
func NewRuth3() *Splitting {
	return newSplitting("ruth3", 3,
		[]float64{1, -2.0 / 3.0, 2.0 / 3.0},
		[]float64{-1.0 / 24.0, 3.0 / 4.0, 7.0 / 24.0},
	)
}

// NewForestRuth4 is the Forest-Ruth fourth-order splitting.
func NewForestRuth4() *Splitting {
	w := 2 - cbrt2
	return newSplitting("forest_ruth4", 4,
		[]float64{1 / (2 * w), (1 - cbrt2) / (2 * w), (1 - cbrt2) / (2 * w), 1 / (2 * w)},
		[]float64{1 / w, -cbrt2 / w, 1 / w, 0},
	)
}

// Yoshida's triple-jump weights for the symmetric composition
// w_m ... w_1 w_0 w_1 ... w_m of velocity Verlet, w_0 = 1 - 2*sum(w_i).
var (
	yoshida6Weights = []float64{-1.17767998417887, 0.235573213359357, 0.784513610477560}
	yoshida8Weights = []float64{
		0.102799849391985, -1.96061023297549, 1.93813913762276,
		-0.158240635368243, -1.44485223686048, 0.253693336566229,
		0.914844246229740,
	}
)

func NewYoshida6() *Splitting { return compose("yoshida6", 6, yoshida6Weights) }
func NewYoshida8() *Splitting { return compose("yoshida8", 8, yoshida8Weights) }

// compose flattens a symmetric composition of kick-drift-kick substeps into
// one splitting, merging adjacent half kicks.
func compose(name string, order int, outer []float64) *Splitting {
	w0 := 1.0
	for _, w := range outer {
		w0 -= 2 * w
	}

	seq := make([]float64, 0, 2*len(outer)+1)
	for i := len(outer) - 1; i >= 0; i-- {
		seq = append(seq, outer[i])
	}
	seq = append(seq, w0)
	seq = append(seq, outer...)

	kick := make([]float64, len(seq)+1)
	drift := make([]float64, len(seq)+1)
	for j, w := range seq {
		kick[j] += w / 2
		kick[j+1] += w / 2
		drift[j] = w
	}
	return newSplitting(name, order, kick, drift)
}
