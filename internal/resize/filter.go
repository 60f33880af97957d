package resize

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/disintegration/imaging"
)

// Fit selects how a source raster is mapped onto the target dimension.
type Fit int

const (
	// Stretch resamples to exactly the target size, ignoring aspect ratio.
	Stretch Fit = iota
	// Crop scales to cover the target and clips the excess, centered.
	Crop
	// Fill scales to fit inside the target; the uncovered border is transparent.
	Fill
)

var (
	ErrUnknownFit    = errors.New("unknown resize type")
	ErrUnknownFilter = errors.New("unknown resize filter")
)

var fitNames = map[Fit]string{
	Stretch: "stretch",
	Crop:    "crop",
	Fill:    "fill",
}

func (f Fit) String() string {
	if name, ok := fitNames[f]; ok {
		return name
	}
	return fmt.Sprintf("fit(%d)", int(f))
}

// ParseFit maps a config name to a Fit.
func ParseFit(name string) (Fit, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for f, n := range fitNames {
		if n == name {
			return f, nil
		}
	}
	return Stretch, fmt.Errorf("%w: %q", ErrUnknownFit, name)
}

// Filter is a named resampling kernel.
type Filter struct {
	Name   string
	Kernel imaging.ResampleFilter
}

func (f Filter) String() string { return f.Name }

// Built-in filters, keyed by config name.
var filters = map[string]imaging.ResampleFilter{
	"nearest":    imaging.NearestNeighbor,
	"box":        imaging.Box,
	"linear":     imaging.Linear,
	"hermite":    imaging.Hermite,
	"mitchell":   imaging.MitchellNetravali,
	"catmullrom": imaging.CatmullRom,
	"bspline":    imaging.BSpline,
	"gaussian":   imaging.Gaussian,
	"bartlett":   imaging.Bartlett,
	"lanczos":    imaging.Lanczos,
	"hann":       imaging.Hann,
	"hamming":    imaging.Hamming,
	"blackman":   imaging.Blackman,
	"welch":      imaging.Welch,
	"cosine":     imaging.Cosine,
}

// Lanczos is the default filter.
var Lanczos = Filter{Name: "lanczos", Kernel: imaging.Lanczos}

// ParseFilter returns the filter registered under name.
func ParseFilter(name string) (Filter, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	k, ok := filters[name]
	if !ok {
		return Lanczos, fmt.Errorf("%w: %q", ErrUnknownFilter, name)
	}
	return Filter{Name: name, Kernel: k}, nil
}

// FilterNames lists the registered filters in sorted order.
func FilterNames() []string {
	names := make([]string, 0, len(filters))
	for n := range filters {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
