package forecast

import "math"

// wmaDecayRate controls how quickly older observations lose weight in the
// moving average. exp(-0.1*i) halves the weight roughly every 7 days.
const wmaDecayRate = 0.1

// DecayWeights returns n exponential-decay weights normalized to sum to 1,
// index 0 being the most recent observation. Pure function of n; callers that
// want to reuse a weight table for a fixed window hold the slice themselves.
func DecayWeights(n int) []float64 {
	if n <= 0 {
		return nil
	}

	weights := make([]float64, n)
	var sum float64
	for i := 0; i < n; i++ {
		weights[i] = math.Exp(-wmaDecayRate * float64(i))
		sum += weights[i]
	}
	for i := range weights {
		weights[i] /= sum
	}

	return weights
}

// WeightedMovingAverage computes the exponentially weighted baseline velocity
// of a daily quantity series. quantities must be ordered most recent first.
// When the series is shorter than the window, the weights are re-normalized
// over the available length so recency bias is preserved at any sample size.
// An empty series yields 0.
func WeightedMovingAverage(quantities []int, window int) float64 {
	if len(quantities) == 0 || window <= 0 {
		return 0
	}

	n := len(quantities)
	if n > window {
		n = window
	}

	weights := DecayWeights(n)
	var avg float64
	for i := 0; i < n; i++ {
		avg += float64(quantities[i]) * weights[i]
	}

	return avg
}
