package search

// Resolution classes are bucketed by pixel height, boundaries inclusive
// on the lower bucket.
const (
	ClassSD     = "sd"
	ClassHD     = "hd"
	ClassFullHD = "fullhd"
	Class2K     = "2k"
	Class4K     = "4k"
	ClassOther  = "other"
)

type heightRange struct {
	min, max int
}

var classRanges = map[string]heightRange{
	ClassSD:     {0, 480},
	ClassHD:     {481, 720},
	ClassFullHD: {721, 1080},
	Class2K:     {1081, 1440},
	Class4K:     {1441, 2160},
	ClassOther:  {2161, 1 << 30},
}

// ResolutionClass maps a pixel height to its bucket label.
func ResolutionClass(height int) string {
	switch {
	case height <= 480:
		return ClassSD
	case height <= 720:
		return ClassHD
	case height <= 1080:
		return ClassFullHD
	case height <= 1440:
		return Class2K
	case height <= 2160:
		return Class4K
	default:
		return ClassOther
	}
}

// ValidResolutionClass reports whether the label names a known bucket.
func ValidResolutionClass(label string) bool {
	_, ok := classRanges[label]
	return ok
}
