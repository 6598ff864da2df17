package io

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/KyungWonPark/NeuroTools/internal/volume"
	"github.com/KyungWonPark/nifti"
	"github.com/klauspost/compress/gzip"
)

// ErrNotVolume means the input is not a 3D NIFTI file
var ErrNotVolume = errors.New("input is not a 3D NIFTI file")

// ErrUnsupportedDatatype means the voxel type cannot be decoded
var ErrUnsupportedDatatype = errors.New("unsupported NIFTI datatype")

// NIFTI-1 datatype codes
const (
	dtUint8   = 2
	dtInt16   = 4
	dtFloat32 = 16
	dtFloat64 = 64
	dtInt8    = 256
	dtUint16  = 512
)

// bits per voxel of the datatypes LoadVolume decodes
var datatypeBits = map[int16]int16{
	dtUint8:   8,
	dtInt16:   16,
	dtFloat32: 32,
	dtFloat64: 64,
	dtInt8:    8,
	dtUint16:  16,
}

// single file NIFTI-1, "n+1\0"
var singleFileMagic = [4]byte{'n', '+', '1', 0}

// BaseName strips the directory and the .nii / .nii.gz extension of path
func BaseName(path string) string {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, ".gz")
	return strings.TrimSuffix(base, ".nii")
}

// checkHeader rejects anything that is not a single file 3D NIFTI-1 volume in a datatype
// LoadVolume can decode
func checkHeader(header nifti.Nifti1Header) error {
	if header.Magic != singleFileMagic || header.SizeofHdr != 348 || header.Bitpix == 0 {
		return ErrNotVolume
	}

	for i := 1; i <= 3; i++ {
		if header.Dim[i] <= 0 {
			return fmt.Errorf("dim[%d] = %d: %w", i, header.Dim[i], ErrNotVolume)
		}
	}
	if header.Dim[0] > 3 && header.Dim[4] > 1 {
		return fmt.Errorf("%d volumes: %w", header.Dim[4], ErrNotVolume)
	}

	bits, ok := datatypeBits[header.Datatype]
	if !ok {
		return fmt.Errorf("datatype %d: %w", header.Datatype, ErrUnsupportedDatatype)
	}
	if bits != header.Bitpix {
		return fmt.Errorf("datatype %d with bitpix %d: %w", header.Datatype, header.Bitpix, ErrNotVolume)
	}

	return nil
}

// decode maps a raw sample as returned by the nifti package to its stored value.
// The package reads 8 and 16 bit samples as unsigned.
func decode(datatype int16, raw float32) float64 {
	switch datatype {
	case dtInt8:
		return float64(int8(uint8(raw)))
	case dtInt16:
		return float64(int16(uint16(raw)))
	}

	return float64(raw)
}

// LoadVolume reads a 3D NIFTI image, .nii or .nii.gz. Signed integer samples keep their
// sign and scl_slope / scl_inter are applied. Panics from the nifti package are turned into
// errors.
func LoadVolume(path string) (vol *volume.Volume, err error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("LoadVolume: %w", err)
	}

	defer func() {
		if panicErr := recover(); panicErr != nil {
			vol = nil
			err = fmt.Errorf("LoadVolume: failed to parse %s: %v: %w", path, panicErr, ErrNotVolume)
		}
	}()

	// the nifti package prints read errors and leaves the header zeroed
	var header nifti.Nifti1Header
	header.LoadHeader(path)
	if err := checkHeader(header); err != nil {
		return nil, fmt.Errorf("LoadVolume: %s: %w", path, err)
	}

	var img nifti.Nifti1Image
	img.LoadImage(path, true)

	slope, inter := float64(header.SclSlope), float64(header.SclInter)
	// slope 0 means unscaled
	if slope == 0 {
		slope, inter = 1, 0
	}

	nx, ny, nz := int(header.Dim[1]), int(header.Dim[2]), int(header.Dim[3])
	vol = volume.New(nx, ny, nz, header)

	for z := 0; z < nz; z++ {
		for y := 0; y < ny; y++ {
			for x := 0; x < nx; x++ {
				raw := img.GetAt(uint32(x), uint32(y), uint32(z), 0)
				vol.Set(x, y, z, decode(header.Datatype, raw)*slope+inter)
			}
		}
	}

	return vol, nil
}

// outputHeader returns the header written for vol: its own header, or the nifti package
// template when it has none, resized to vol and switched to unscaled float32 samples
func outputHeader(vol *volume.Volume, template nifti.Nifti1Header) nifti.Nifti1Header {
	hdr := vol.Header
	if hdr.Magic != singleFileMagic {
		hdr = template
	}

	hdr.SizeofHdr = 348
	hdr.Dim = [8]int16{3, int16(vol.Nx), int16(vol.Ny), int16(vol.Nz), 1, 1, 1, 1}
	hdr.Datatype = dtFloat32
	hdr.Bitpix = 32
	hdr.SclSlope = 1
	hdr.SclInter = 0
	if hdr.VoxOffset < 352 {
		hdr.VoxOffset = 352
	}
	hdr.Magic = singleFileMagic

	return hdr
}

// SaveVolume writes vol as float32 NIFTI with its spatial header. A ".gz" suffix keeps the
// gzipped stream, any other path gets a plain .nii file.
func SaveVolume(path string, vol *volume.Volume) error {
	if strings.HasSuffix(path, ".gz") {
		return saveNifti(strings.TrimSuffix(path, ".gz"), vol)
	}

	// the nifti package only writes gzip, so stage next to the target and unpack
	staged := path + ".partial"
	if err := saveNifti(staged, vol); err != nil {
		return err
	}
	defer os.Remove(staged + ".gz")

	return gunzipFile(staged+".gz", path)
}

// saveNifti writes vol to prefix+".gz", the only form the nifti package writes
func saveNifti(prefix string, vol *volume.Volume) (err error) {
	path := prefix + ".gz"

	defer func() {
		if panicErr := recover(); panicErr != nil {
			err = fmt.Errorf("SaveVolume: failed to write %s: %v", path, panicErr)
		}
	}()

	newImg := nifti.NewImg(vol.Nx, vol.Ny, vol.Nz, 1)
	newImg.SetNewHeader(outputHeader(vol, newImg.GetHeader()))

	for z := 0; z < vol.Nz; z++ {
		for y := 0; y < vol.Ny; y++ {
			for x := 0; x < vol.Nx; x++ {
				newImg.SetAt(uint32(x), uint32(y), uint32(z), 0, float32(vol.At(x, y, z)))
			}
		}
	}

	newImg.Save(prefix)

	// Save does not report failures
	if _, statErr := os.Stat(path); statErr != nil {
		return fmt.Errorf("SaveVolume: %s was not written: %w", path, statErr)
	}

	return nil
}

func gunzipFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("gunzip: %w", err)
	}
	defer in.Close()

	zr, err := gzip.NewReader(in)
	if err != nil {
		return fmt.Errorf("gunzip %s: %w", src, err)
	}
	defer zr.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("gunzip: %w", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, zr); err != nil {
		return fmt.Errorf("gunzip %s: %w", src, err)
	}

	return out.Close()
}
