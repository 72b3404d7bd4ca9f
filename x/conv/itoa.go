// Package conv has allocation-free number formatting for hot paths on the
// MCU, where fmt and strconv pull in more than they are worth.
package conv

// AppendInt appends the base-10 form of n.
func AppendInt(dst []byte, n int) []byte {
	var buf [20]byte
	i := len(buf)
	u := uint64(n)
	if n < 0 {
		u = uint64(-int64(n))
	}
	for {
		i--
		buf[i] = byte('0' + u%10)
		u /= 10
		if u == 0 {
			break
		}
	}
	if n < 0 {
		i--
		buf[i] = '-'
	}
	return append(dst, buf[i:]...)
}
