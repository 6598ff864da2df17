package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/KyungWonPark/NeuroTools/internal/config"
	"github.com/KyungWonPark/NeuroTools/internal/io"
	"github.com/KyungWonPark/NeuroTools/internal/logger"
	"github.com/KyungWonPark/NeuroTools/internal/volume"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "labels.nii.gz")

	vol, err := volume.FromSlice(4, 3, 1, []float64{0, 1, 1, 1, 1, 0, 2, 2, 2, 0, 0, 0})
	require.NoError(t, err)
	require.NoError(t, io.SaveVolume(input, vol))

	cfg, err := config.LoadConfig("")
	require.NoError(t, err)
	var buf bytes.Buffer
	log := logger.NewFileLogger(&buf, zerolog.InfoLevel)

	require.NoError(t, run(input, cfg, log))

	m, err := io.LoadVolume(filepath.Join(dir, "labels_MASK_1.nii"))
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 1, 1, 1, 1, 0, 0, 0, 0, 0, 0, 0}, m.Data)

	// three voxels are below the default minimum
	_, err = os.Stat(filepath.Join(dir, "labels_MASK_2.nii"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestRunMissingInput(t *testing.T) {
	cfg, err := config.LoadConfig("")
	require.NoError(t, err)

	err = run(filepath.Join(t.TempDir(), "missing.nii.gz"), cfg, logger.NewFileLogger(&bytes.Buffer{}, zerolog.InfoLevel))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
