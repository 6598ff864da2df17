package calc

import (
	"fmt"
	"math"
)

// SmoothingWindow is the Hanning window length used by every smoothing step
const SmoothingWindow = 11

// hanning returns a cosine-bell window of length m, normalized to unit sum
func hanning(m int) []float64 {
	w := make([]float64, m)
	if m == 1 {
		w[0] = 1
		return w
	}

	var sum float64
	for k := 0; k < m; k++ {
		w[k] = 0.5 - 0.5*math.Cos(2*math.Pi*float64(k)/float64(m-1))
		sum += w[k]
	}
	for k := range w {
		w[k] /= sum
	}

	return w
}

// Smooth applies a Hanning-window moving average to x.
// Both ends are padded with point reflections of the series (2*x[0]-x[w-1..0] in front,
// 2*x[n-1]-x[n-1..n-w+1] at the back), the padded signal is convolved and the padding
// trimmed again, so the result has the length of x.
func Smooth(x []float64, window int) ([]float64, error) {
	if window < 1 || window%2 == 0 {
		return nil, fmt.Errorf("smoothing window must be a positive odd number, got %d", window)
	}

	n := len(x)
	if n <= window {
		return nil, fmt.Errorf("smooth %d samples with window %d: %w", n, window, ErrInsufficientData)
	}

	padded := make([]float64, 0, n+2*window-1)
	for k := window - 1; k >= 0; k-- {
		padded = append(padded, 2*x[0]-x[k])
	}
	padded = append(padded, x...)
	for j := 0; j < window-1; j++ {
		padded = append(padded, 2*x[n-1]-x[n-1-j])
	}

	kernel := hanning(window)
	half := (window - 1) / 2
	out := make([]float64, n)

	for i := range out {
		// centre of the kernel sits on padded[window+i]
		c := window + i + half

		var acc float64
		for k := 0; k < window; k++ {
			acc += kernel[k] * padded[c-k]
		}
		out[i] = acc
	}

	return out, nil
}
