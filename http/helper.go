package http

// appendInt writes the decimal form of a non-negative n without allocating.
func appendInt(dst []byte, n int) []byte {
	if n == 0 {
		return append(dst, '0')
	}

	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = '0' + byte(n%10)
		n /= 10
	}

	return append(dst, buf[i:]...)
}
