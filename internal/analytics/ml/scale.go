package ml

import "math"

// Standardize scales each column of a row-major matrix to zero mean and
// unit variance. Zero-variance columns map to zero so a constant feature
// cannot dominate the distance metric. The input is not modified.
func Standardize(x [][]float64) [][]float64 {
	rows := len(x)
	if rows == 0 {
		return nil
	}
	cols := len(x[0])

	means := make([]float64, cols)
	for _, row := range x {
		for j, v := range row {
			means[j] += v
		}
	}
	for j := range means {
		means[j] /= float64(rows)
	}

	stds := make([]float64, cols)
	for _, row := range x {
		for j, v := range row {
			d := v - means[j]
			stds[j] += d * d
		}
	}
	for j := range stds {
		stds[j] = math.Sqrt(stds[j] / float64(rows))
	}

	out := make([][]float64, rows)
	for i, row := range x {
		out[i] = make([]float64, cols)
		for j, v := range row {
			if stds[j] != 0 {
				out[i][j] = (v - means[j]) / stds[j]
			}
		}
	}
	return out
}
