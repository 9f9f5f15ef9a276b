// Blending Engine (C4, spec.md §4.4): turns a set of per-chunk
// activations into the option's blended value via softmax-style
// weighting over temperature, with log-sum-exp stability for numerical
// safety. Grounded on the teacher's internal/memory/
// attention_controller.go SalienceComputer, which combines several
// weighted, clamped factors into one normalized scalar; here the
// weights come from activation rather than salience factors.
package ibl

import "math"

// BlendResult is the outcome of blending one option's matching chunks,
// including the per-chunk retrieval probabilities the "details" toggle
// exposes alongside ActivationDetail.
type BlendResult struct {
	Value         float64
	Probabilities map[int]float64 // chunk ID -> retrieval probability
}

// blend computes BV = Σ p_i * u_i, p_i = softmax(A_i / τ), using the
// standard max-subtraction trick so neither overflow nor underflow of
// exp() can corrupt the result (spec.md §4.4 edge case).
func blend(details []ActivationDetail, utilities map[int]float64, temperature float64) BlendResult {
	if len(details) == 0 {
		return BlendResult{}
	}

	maxA := details[0].Activation
	for _, d := range details[1:] {
		if d.Activation > maxA {
			maxA = d.Activation
		}
	}

	weights := make([]float64, len(details))
	sum := 0.0
	for i, d := range details {
		w := math.Exp((d.Activation - maxA) / temperature)
		weights[i] = w
		sum += w
	}

	probs := make(map[int]float64, len(details))
	value := 0.0
	for i, d := range details {
		p := weights[i] / sum
		probs[d.ChunkID] = p
		value += p * utilities[d.ChunkID]
	}

	return BlendResult{Value: value, Probabilities: probs}
}

// defaultTemperature implements spec.md §3's default: noise * sqrt(2).
func defaultTemperature(noise float64) float64 {
	return noise * math.Sqrt2
}
