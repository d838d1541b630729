package collage

import (
	"fmt"
	"image"
	"sort"
	"strings"

	"github.com/anthonynsimon/bild/transform"
	"github.com/disintegration/imaging"
	"github.com/nfnt/resize"
)

// Resampler resizes an image to exactly width x height pixels.
//
// Implementations must not modify img and must return an image whose bounds
// start at (0,0).
type Resampler interface {
	Resample(img image.Image, width, height int) *image.NRGBA
}

// ImagingResampler resamples with github.com/disintegration/imaging.
type ImagingResampler struct {
	Filter imaging.ResampleFilter
}

// Resample implements Resampler.
func (r ImagingResampler) Resample(img image.Image, width, height int) *image.NRGBA {
	return imaging.Resize(img, width, height, r.Filter)
}

// BildResampler resamples with github.com/anthonynsimon/bild.
type BildResampler struct {
	Filter transform.ResampleFilter
}

// Resample implements Resampler.
func (r BildResampler) Resample(img image.Image, width, height int) *image.NRGBA {
	return imaging.Clone(transform.Resize(img, width, height, r.Filter))
}

// NfntResampler resamples with github.com/nfnt/resize.
type NfntResampler struct {
	InterP resize.InterpolationFunction
}

// Resample implements Resampler.
func (r NfntResampler) Resample(img image.Image, width, height int) *image.NRGBA {
	return imaging.Clone(resize.Resize(uint(width), uint(height), img, r.InterP))
}

// DefaultResampler is a Lanczos filter from the imaging backend.
var DefaultResampler Resampler = ImagingResampler{Filter: imaging.Lanczos}

var imagingFilters = map[string]imaging.ResampleFilter{
	"lanczos":    imaging.Lanczos,
	"catmullrom": imaging.CatmullRom,
	"mitchell":   imaging.MitchellNetravali,
	"linear":     imaging.Linear,
	"box":        imaging.Box,
	"nearest":    imaging.NearestNeighbor,
}

var bildFilters = map[string]transform.ResampleFilter{
	"lanczos":    transform.Lanczos,
	"catmullrom": transform.CatmullRom,
	"mitchell":   transform.MitchellNetravali,
	"linear":     transform.Linear,
	"box":        transform.Box,
	"nearest":    transform.NearestNeighbor,
}

var nfntFilters = map[string]resize.InterpolationFunction{
	"lanczos":  resize.Lanczos3,
	"mitchell": resize.MitchellNetravali,
	"linear":   resize.Bilinear,
	"bicubic":  resize.Bicubic,
	"nearest":  resize.NearestNeighbor,
}

// Backends lists the resampler backend names accepted by ResamplerByName.
var Backends = []string{"imaging", "bild", "nfnt"}

// ResamplerByName returns the resampler for a backend and filter name.
//
// Empty names select the imaging backend and the lanczos filter. Names are
// case-insensitive. Not every backend knows every filter; unknown
// combinations are an error listing the filters the backend supports.
func ResamplerByName(backend, filter string) (Resampler, error) {
	backend = strings.ToLower(strings.TrimSpace(backend))
	filter = strings.ToLower(strings.TrimSpace(filter))
	if filter == "" {
		filter = "lanczos"
	}

	switch backend {
	case "", "imaging":
		f, ok := imagingFilters[filter]
		if !ok {
			return nil, unknownFilter("imaging", filter, keys(imagingFilters))
		}
		return ImagingResampler{Filter: f}, nil
	case "bild":
		f, ok := bildFilters[filter]
		if !ok {
			return nil, unknownFilter("bild", filter, keys(bildFilters))
		}
		return BildResampler{Filter: f}, nil
	case "nfnt":
		f, ok := nfntFilters[filter]
		if !ok {
			return nil, unknownFilter("nfnt", filter, keys(nfntFilters))
		}
		return NfntResampler{InterP: f}, nil
	default:
		return nil, fmt.Errorf("unknown resampler %q (want one of %s)", backend, strings.Join(Backends, ", "))
	}
}

func unknownFilter(backend, filter string, known []string) error {
	return fmt.Errorf("resampler %s has no filter %q (want one of %s)", backend, filter, strings.Join(known, ", "))
}

func keys[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
