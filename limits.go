package mergepager

const (
	// NoLimit disables clamping in NormalizePageSizeMax.
	NoLimit         = -1
	DefaultPageSize = 10
)

// IsNormalizedPageSizeMax returns the page size to use and whether size was
// already acceptable. A non-positive size falls back to DefaultPageSize and
// a size above maxSize is clamped, unless maxSize is NoLimit.
func IsNormalizedPageSizeMax(size int, maxSize int) (int, bool) {
	if size <= 0 {
		return DefaultPageSize, false
	} else if maxSize != NoLimit && size > maxSize {
		return maxSize, false
	}

	return size, true
}

func NormalizePageSizeMax(size int, maxSize int) int {
	ret, _ := IsNormalizedPageSizeMax(size, maxSize)
	return ret
}

func NormalizePageSize(size int) int {
	return NormalizePageSizeMax(size, NoLimit)
}
