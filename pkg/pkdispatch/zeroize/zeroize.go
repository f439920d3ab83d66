// Package zeroize holds the best-effort memory-clearing helpers shared by
// the marshalling and padding layers, split out as a leaf package so both
// can call it without the façade package importing back down into them.
package zeroize

// Bytes overwrites buf with zeros. There is no hardware-backed secure heap
// in pure Go, so "secure" throughout this module means zeroize-on-release,
// not memory locked out of swap.
func Bytes(buf []byte) {
	for i := range buf {
		buf[i] = 0
	}
}

// String overwrites the contents backing *s by copying it into a mutable
// byte slice, zeroing that, and writing the result back.
func String(s *string) {
	if s == nil {
		return
	}
	b := []byte(*s)
	Bytes(b)
	*s = string(b)
}
