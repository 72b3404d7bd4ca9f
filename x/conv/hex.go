package conv

const hexDigits = "0123456789abcdef"

// AppendHex appends b as two lowercase hex digits.
func AppendHex(dst []byte, b byte) []byte {
	return append(dst, hexDigits[b>>4], hexDigits[b&0x0F])
}

// AppendHexSep appends every byte of src as hex, separated by sep.
func AppendHexSep(dst []byte, src []byte, sep byte) []byte {
	for i, b := range src {
		if i > 0 {
			dst = append(dst, sep)
		}
		dst = AppendHex(dst, b)
	}
	return dst
}
