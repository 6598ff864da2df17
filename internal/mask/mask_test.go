package mask

import (
	"testing"

	"github.com/KyungWonPark/NeuroTools/internal/calc"
	"github.com/KyungWonPark/NeuroTools/internal/volume"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func vol(t *testing.T, data ...float64) *volume.Volume {
	t.Helper()
	v, err := volume.FromSlice(len(data), 1, 1, data)
	require.NoError(t, err)
	return v
}

func TestSanitize(t *testing.T) {
	pl := calc.Init(2, false)

	tests := []struct {
		name     string
		in       []float64
		want     []float64
		wantWarn string
	}{
		{"already binary", []float64{0, 1, 1, 0}, []float64{0, 1, 1, 0}, ""},
		{"two values", []float64{2, 5, 5, 2}, []float64{0, 1, 1, 0}, WarnTwoValue},
		{"two values with negative", []float64{-3, 0, -3}, []float64{0, 1, 0}, WarnTwoValue},
		{"many values", []float64{-1, 0, 2, 4, 6}, []float64{0, 0, 0, 0, 1}, WarnMultiValue},
		{"single value", []float64{1, 1, 1}, []float64{0, 0, 0}, WarnMultiValue},
		{"nothing positive", []float64{-1, -2, 0}, []float64{0, 0, 0}, WarnMultiValue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := vol(t, tt.in...)
			assert.Equal(t, tt.wantWarn, Sanitize(pl, v))
			assert.Equal(t, tt.want, v.Data)
		})
	}
}

func TestCombine(t *testing.T) {
	pl := calc.Init(2, false)

	c, err := Combine(pl, vol(t, 1, 0, 0, 0), vol(t, 1, 1, 0, 0), vol(t, 0, 0, 0, 7))
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 1, 0, 1}, c.Mask.Data)
	assert.Equal(t, []int{0, 1, 0}, c.Overlaps)
	assert.Equal(t, []string{"", "", WarnTwoValue}, c.Warnings)
	assert.True(t, calc.CheckBinary(c.Mask))
}

func TestCombineErrors(t *testing.T) {
	pl := calc.Init(2, false)

	_, err := Combine(pl, vol(t, 1, 0))
	assert.ErrorIs(t, err, ErrTooFewMasks)

	_, err = Combine(pl, vol(t, 1, 0), vol(t, 1, 0, 1))
	assert.ErrorIs(t, err, ErrShapeMismatch)
}

func TestSplitLabels(t *testing.T) {
	v := vol(t, 0, 1, 1, 1, 1, 2, 2, 2.5, 3, 3, 3, 3)

	labels, truncated := SplitLabels(v, 4)
	assert.True(t, truncated)
	require.Len(t, labels, 3)

	assert.Equal(t, 1, labels[0].Value)
	assert.Equal(t, "saving", labels[0].Status)
	require.True(t, labels[0].Keep())
	assert.Equal(t, []float64{0, 1, 1, 1, 1, 0, 0, 0, 0, 0, 0, 0}, labels[0].Mask.Data)

	assert.Equal(t, 2, labels[1].Value)
	assert.Equal(t, 3, labels[1].Voxels)
	assert.Equal(t, "too few points: 3", labels[1].Status)
	assert.False(t, labels[1].Keep())

	assert.Equal(t, 3, labels[2].Value)
	assert.True(t, labels[2].Keep())
}

func TestSplitLabelsIntegerInput(t *testing.T) {
	labels, truncated := SplitLabels(vol(t, 0, 0, 5, 5), 1)
	assert.False(t, truncated)
	require.Len(t, labels, 1)
	assert.Equal(t, 5, labels[0].Value)
	assert.Equal(t, 2, labels[0].Voxels)

	labels, _ = SplitLabels(vol(t, 0, 0), 1)
	assert.Empty(t, labels)
}

func TestMeasure(t *testing.T) {
	pl := calc.Init(1, false)
	v := vol(t, 0, 1, 1, 0)
	v.Header.Pixdim[1] = 2
	v.Header.Pixdim[2] = 2
	v.Header.Pixdim[3] = 2

	voxels, ml, warning := Measure(pl, v)
	assert.Equal(t, 2, voxels)
	assert.InDelta(t, 0.016, ml, 1e-12)
	assert.Empty(t, warning)
}

func TestStructureName(t *testing.T) {
	tests := []struct {
		file string
		want string
	}{
		{"mist_left_hippocampus_mask.nii.gz", "Left Hippocampus"},
		{"/data/sub01/mist_brainstem_mask.nii", "Brainstem"},
		{"mist_3rd_ventricle_mask.nii.gz", "3rd Ventricle"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, StructureName(tt.file), tt.file)
	}
}
