package calc

import "errors"

var (
	// ErrEmptyVolume means no voxel is strictly positive, so there is no log-scale range
	ErrEmptyVolume = errors.New("volume has no positive voxels")
	// ErrDegenerateRange means the positive voxel values span a single bin edge
	ErrDegenerateRange = errors.New("voxel value range is degenerate")
	// ErrInsufficientData means a series is not longer than the smoothing window
	ErrInsufficientData = errors.New("series is too short for the smoothing window")
	// ErrNoInflectionFound means the smoothed slope never rises again
	ErrNoInflectionFound = errors.New("no inflection found in histogram slope")
	// ErrShapeMismatch means two volumes do not share dimensions
	ErrShapeMismatch = errors.New("volumes have different dimensions")
	// ErrNotDiffusion means a value image does not look like a diffusion map
	ErrNotDiffusion = errors.New("input does not look like a diffusion image")
)
