package media

type window struct {
	start  float64
	length float64
}

// previewWindow picks where a preview clip starts and how long it runs,
// skewed away from dead air at the start and credits at the end.
//
//	d <= 30s:      start ~ min(2s, 10% of d), up to 10s, >= 1s left at the end
//	30s < d <= 60: start 15s, up to 15s, >= 5s left at the end
//	d > 60s:       start max(30s, 20% of d), 10-20s scaled to 30% of d,
//	               never past d-5s
func previewWindow(d float64) (window, bool) {
	if d <= 0 {
		return window{}, false
	}

	switch {
	case d <= 30:
		start := d * 0.10
		if start > 2 {
			start = 2
		}

		length := d - start - 1
		if length > 10 {
			length = 10
		}
		if length <= 0 {
			return window{}, false
		}

		return window{start, length}, true

	case d <= 60:
		start := 15.0

		length := d - start - 5
		if length > 15 {
			length = 15
		}
		if length <= 0 {
			return window{}, false
		}

		return window{start, length}, true

	default:
		start := d * 0.20
		if start < 30 {
			start = 30
		}

		length := d * 0.30
		if length < 10 {
			length = 10
		}
		if length > 20 {
			length = 20
		}

		if start+length > d-5 {
			length = d - 5 - start
			if length <= 0 {
				return window{}, false
			}
		}

		return window{start, length}, true
	}
}
