package compress

// Shuffle transposes src so that byte k of every width-byte element is
// stored contiguously: all byte-0 values first, then all byte-1 values, and
// so on. Neighbouring numeric values share their high-order bytes, so the
// transposed layout compresses noticeably better for typed arrays.
//
// Trailing bytes that do not fill a whole element are copied unchanged.
// dst must be at least len(src) bytes long. A width below 2 copies src.
func Shuffle(dst, src []byte, width int) {
	if width < 2 {
		copy(dst, src)
		return
	}

	count := len(src) / width
	for i := range count {
		for k := range width {
			dst[k*count+i] = src[i*width+k]
		}
	}
	copy(dst[count*width:], src[count*width:])
}

// Unshuffle reverses Shuffle.
func Unshuffle(dst, src []byte, width int) {
	if width < 2 {
		copy(dst, src)
		return
	}

	count := len(src) / width
	for i := range count {
		for k := range width {
			dst[i*width+k] = src[k*count+i]
		}
	}
	copy(dst[count*width:], src[count*width:])
}
