package volume

import (
	"fmt"

	"github.com/KyungWonPark/nifti"
)

// Volume is a 3D scalar image. Data is stored x-fastest.
type Volume struct {
	Nx     int
	Ny     int
	Nz     int
	Data   []float64
	Header nifti.Nifti1Header // spatial fields are passed through to outputs
}

// New returns a zeroed volume
func New(nx, ny, nz int, header nifti.Nifti1Header) *Volume {
	return &Volume{
		Nx:     nx,
		Ny:     ny,
		Nz:     nz,
		Data:   make([]float64, nx*ny*nz),
		Header: header,
	}
}

// FromSlice wraps data as a volume, data length must be nx*ny*nz
func FromSlice(nx, ny, nz int, data []float64) (*Volume, error) {
	if len(data) != nx*ny*nz {
		return nil, fmt.Errorf("volume: %d values for %dx%dx%d grid", len(data), nx, ny, nz)
	}

	return &Volume{Nx: nx, Ny: ny, Nz: nz, Data: data}, nil
}

// Like returns a zeroed volume with the shape and header of v
func (v *Volume) Like() *Volume {
	return New(v.Nx, v.Ny, v.Nz, v.Header)
}

// Clone returns a deep copy of v
func (v *Volume) Clone() *Volume {
	c := v.Like()
	copy(c.Data, v.Data)
	return c
}

// Len returns the number of voxels
func (v *Volume) Len() int {
	return len(v.Data)
}

// Index returns the flat index of voxel (x, y, z)
func (v *Volume) Index(x, y, z int) int {
	return x + v.Nx*(y+v.Ny*z)
}

// At returns the value at (x, y, z)
func (v *Volume) At(x, y, z int) float64 {
	return v.Data[v.Index(x, y, z)]
}

// Set sets the value at (x, y, z)
func (v *Volume) Set(x, y, z int, value float64) {
	v.Data[v.Index(x, y, z)] = value
}

// SliceLen is the number of voxels in one z-slice
func (v *Volume) SliceLen() int {
	return v.Nx * v.Ny
}

// SameShape reports whether v and o have identical dimensions
func (v *Volume) SameShape(o *Volume) bool {
	return v.Nx == o.Nx && v.Ny == o.Ny && v.Nz == o.Nz
}

// Positive returns the strictly positive voxel values
func (v *Volume) Positive() []float64 {
	var pos []float64
	for _, value := range v.Data {
		if value > 0 {
			pos = append(pos, value)
		}
	}

	return pos
}

// VoxelVolume returns the volume of one voxel in mm^3 (pixdim[1..3])
func (v *Volume) VoxelVolume() float64 {
	return float64(v.Header.Pixdim[1]) * float64(v.Header.Pixdim[2]) * float64(v.Header.Pixdim[3])
}

// String implements fmt.Stringer
func (v *Volume) String() string {
	return fmt.Sprintf("%dx%dx%d", v.Nx, v.Ny, v.Nz)
}
