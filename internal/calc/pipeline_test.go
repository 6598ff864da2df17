package calc

import (
	"testing"

	"github.com/KyungWonPark/NeuroTools/internal/volume"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testVolume(t *testing.T, nx, ny, nz int, data []float64) *volume.Volume {
	t.Helper()
	v, err := volume.FromSlice(nx, ny, nz, data)
	require.NoError(t, err)
	return v
}

func TestInit(t *testing.T) {
	assert.Equal(t, 3, Init(3, false).GetNP())
	assert.Greater(t, Init(0, false).GetNP(), 0)
}

func TestPartition(t *testing.T) {
	pl := Init(2, false)
	input := testVolume(t, 2, 2, 3, []float64{
		0, 1, 5, 6,
		10, 0, 3, 7,
		5, 5, 100, 0,
	})

	low, high := pl.Partition(input, 5)
	assert.Equal(t, []float64{0, 1, 5, 0, 0, 0, 3, 0, 5, 5, 0, 0}, low.Data)
	assert.Equal(t, []float64{0, 0, 0, 6, 10, 0, 0, 7, 0, 0, 100, 0}, high.Data)
	assert.True(t, pl.CheckPartition(input, low, high))

	// union of nonzero voxels is exactly the positive voxels of the input
	for i, v := range input.Data {
		inUnion := low.Data[i] != 0 || high.Data[i] != 0
		assert.Equal(t, v > 0, inUnion, "voxel %d", i)
		assert.False(t, low.Data[i] != 0 && high.Data[i] != 0, "voxel %d in both parts", i)
	}
}

func TestPartitionAtFoundThreshold(t *testing.T) {
	pl := Init(4, false)

	data := make([]float64, 8*8*8)
	for i := range data {
		data[i] = float64((i * 37) % 211)
	}
	input := testVolume(t, 8, 8, 8, data)

	res, err := FindThreshold(input.Data)
	if err != nil {
		t.Skipf("no threshold for synthetic volume: %v", err)
	}

	low, high := pl.Partition(input, res.Threshold)
	assert.True(t, pl.CheckPartition(input, low, high))
}

func TestCheckPartitionDetectsLoss(t *testing.T) {
	pl := Init(2, false)
	input := testVolume(t, 2, 1, 2, []float64{1, 2, 3, 4})

	low, high := pl.Partition(input, 2)
	high.Data[3] = 0
	assert.False(t, pl.CheckPartition(input, low, high))

	low, high = pl.Partition(input, 2)
	low.Data[2] = 3
	assert.False(t, pl.CheckPartition(input, low, high))

	other := testVolume(t, 1, 2, 2, []float64{1, 2, 3, 4})
	assert.False(t, pl.CheckPartition(input, other, high))
}

func TestAcc(t *testing.T) {
	pl := Init(2, false)
	out := testVolume(t, 2, 1, 2, []float64{0, 1, 0, 0})
	in := testVolume(t, 2, 1, 2, []float64{1, 1, 0, 7})

	overlaps, err := pl.Acc(in, out)
	require.NoError(t, err)
	assert.Equal(t, 1, overlaps)
	assert.Equal(t, []float64{1, 1, 0, 1}, out.Data)

	_, err = pl.Acc(testVolume(t, 4, 1, 1, []float64{1, 1, 1, 1}), out)
	assert.ErrorIs(t, err, ErrShapeMismatch)
}

func TestBinarize(t *testing.T) {
	pl := Init(3, false)
	v := testVolume(t, 3, 1, 2, []float64{-1, 0, 0.5, 2, 3, 1})

	pl.Binarize(v, 1)
	assert.Equal(t, []float64{0, 0, 0, 1, 1, 0}, v.Data)
	assert.True(t, CheckBinary(v))

	mean, ok := PositiveMean(testVolume(t, 2, 1, 1, []float64{2, 4}))
	assert.True(t, ok)
	assert.Equal(t, 3.0, mean)

	_, ok = PositiveMean(testVolume(t, 2, 1, 1, []float64{0, -4}))
	assert.False(t, ok)
}
