// Package mask works on binary region masks and the label volumes they are cut from.
package mask

import (
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"sort"
	"strings"

	"github.com/KyungWonPark/NeuroTools/internal/calc"
	"github.com/KyungWonPark/NeuroTools/internal/volume"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	// ErrShapeMismatch means masks do not share dimensions
	ErrShapeMismatch = errors.New("mask file has different dimensions")
	// ErrTooFewMasks means fewer than two masks were given to Combine
	ErrTooFewMasks = errors.New("need at least 2 mask files")
)

const (
	// WarnMultiValue is returned by Sanitize when more than two distinct values were found
	WarnMultiValue = "mask contains more than two different values, trying to fix"
	// WarnTwoValue is returned by Sanitize when two distinct values other than {0,1} were found
	WarnTwoValue = "mask contains values != [0,1], trying to fix"
)

// Sanitize forces v into {0,1} in place and returns a warning if it had to.
// Two distinct values map to 0 and 1. Otherwise negatives become 0 and voxels
// above the mean of the positive voxels become 1, everything else 0.
func Sanitize(pl *calc.PipeLine, v *volume.Volume) string {
	uniq := distinct(v.Data, 3)
	if len(uniq) == 2 && uniq[0] == 0 && uniq[1] == 1 {
		return ""
	}

	if len(uniq) == 2 {
		lo := uniq[0]
		for i, value := range v.Data {
			if value == lo {
				v.Data[i] = 0
			} else {
				v.Data[i] = 1
			}
		}
		return WarnTwoValue
	}

	thr, ok := calc.PositiveMean(v)
	if !ok {
		// nothing positive, negatives included, so the mask is empty
		pl.Binarize(v, math.Inf(1))
	} else {
		pl.Binarize(v, thr)
	}

	return WarnMultiValue
}

// distinct returns up to limit sorted distinct values of data
func distinct(data []float64, limit int) []float64 {
	seen := make(map[float64]struct{}, limit)
	for _, value := range data {
		if _, ok := seen[value]; ok {
			continue
		}
		seen[value] = struct{}{}
		if len(seen) >= limit {
			break
		}
	}

	uniq := make([]float64, 0, len(seen))
	for value := range seen {
		uniq = append(uniq, value)
	}
	sort.Float64s(uniq)

	return uniq
}

// Combined is the union of several masks
type Combined struct {
	Mask     *volume.Volume
	Overlaps []int    // overlapping voxels per mask, index 0 is always 0
	Warnings []string // per mask sanitize warnings, "" if none
}

// Combine sanitizes masks and returns their union. The first mask provides the header.
// masks are modified in place by sanitizing.
func Combine(pl *calc.PipeLine, masks ...*volume.Volume) (Combined, error) {
	var c Combined
	if len(masks) < 2 {
		return c, ErrTooFewMasks
	}

	c.Mask = masks[0].Like()
	for i, m := range masks {
		if !m.SameShape(c.Mask) {
			return c, fmt.Errorf("mask %d is %s, expected %s: %w", i+1, m, c.Mask, ErrShapeMismatch)
		}

		c.Warnings = append(c.Warnings, Sanitize(pl, m))

		overlaps, err := pl.Acc(m, c.Mask)
		if err != nil {
			return c, err
		}
		c.Overlaps = append(c.Overlaps, overlaps)
	}

	return c, nil
}

// Label is one region cut out of a label volume
type Label struct {
	Value  int
	Mask   *volume.Volume
	Voxels int
	Status string // "saving" or "too few points: n"
}

// Keep reports whether the label mask should be written
func (l Label) Keep() bool {
	return l.Mask != nil
}

// SplitLabels returns one binary mask per distinct nonzero label of v, in ascending label
// order. Values are truncated to integers first; truncated reports whether that changed
// anything. Masks with fewer than minVoxels voxels are reported but carry no volume.
func SplitLabels(v *volume.Volume, minVoxels int) (labels []Label, truncated bool) {
	ints := make([]int, v.Len())
	counts := make(map[int]int)

	for i, value := range v.Data {
		t := math.Trunc(value)
		if t != value {
			truncated = true
		}
		ints[i] = int(t)
		if ints[i] != 0 {
			counts[ints[i]]++
		}
	}

	values := make([]int, 0, len(counts))
	for value := range counts {
		values = append(values, value)
	}
	sort.Ints(values)

	for _, value := range values {
		l := Label{Value: value, Voxels: counts[value]}
		if l.Voxels < minVoxels {
			l.Status = fmt.Sprintf("too few points: %d", l.Voxels)
		} else {
			l.Status = "saving"
			l.Mask = v.Like()
			for i, iv := range ints {
				if iv == value {
					l.Mask.Data[i] = 1
				}
			}
		}
		labels = append(labels, l)
	}

	return labels, truncated
}

// Measure sanitizes v and returns its voxel count and volume in ml
func Measure(pl *calc.PipeLine, v *volume.Volume) (voxels int, ml float64, warning string) {
	warning = Sanitize(pl, v)

	for _, value := range v.Data {
		if value > 0 {
			voxels++
		}
	}
	ml = float64(voxels) * v.VoxelVolume() / 1000

	return voxels, ml, warning
}

// ROIMeasure is one row of the ROI measures table
type ROIMeasure struct {
	Structure string  `csv:"Structure name"`
	Voxels    int     `csv:"Voxel count"`
	Volume    float64 `csv:"Volume[ml]"`
}

// StructureName turns a MIST mask file name such as "mist_left_hippocampus_mask.nii.gz"
// into "Left Hippocampus"
func StructureName(file string) string {
	name := filepath.Base(file)
	name = strings.TrimPrefix(name, "mist_")
	for _, ext := range []string{".nii.gz", ".nii"} {
		name = strings.TrimSuffix(name, ext)
	}
	name = strings.TrimSuffix(name, "_mask")
	name = strings.ReplaceAll(name, "_", " ")

	return cases.Title(language.English).String(strings.TrimSpace(name))
}
