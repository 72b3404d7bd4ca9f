package strconvx

// maxPositive keeps results representable as int on 32-bit targets.
const maxPositive = 1<<31 - 1

// ParsePositive accepts only a plain run of decimal digits whose value is
// in 1..2^31-1. Signs, spaces, prefixes and trailing text are rejected.
func ParsePositive(s string) (int, bool) {
	if len(s) == 0 || len(s) > 10 {
		return 0, false
	}
	v := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < '0' || c > '9' {
			return 0, false
		}
		v = v*10 + int(c-'0')
		if v > maxPositive {
			return 0, false
		}
	}
	if v == 0 {
		return 0, false
	}
	return v, true
}
