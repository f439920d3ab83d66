package pkdispatch

import "github.com/ydario/pkdispatch/pkg/pkdispatch/zeroize"

// ZeroizeBytes overwrites the provided slice with zeros. It is a
// best-effort helper for clearing secret-key bytes and PKCS#1 type-2
// frames before they are released back to the allocator; there is no
// hardware-backed secure heap in pure Go, so "secure" throughout this
// module means zeroize-on-release, not memory locked out of swap. The
// implementation lives in the zeroize leaf package so padding and sexpr
// can call it too without importing back up into this façade package;
// this alias keeps it part of the package's public API surface.
func ZeroizeBytes(buf []byte) {
	zeroize.Bytes(buf)
}

// ZeroizeString overwrites the contents of the provided string by copying
// it into a mutable byte slice before zeroing.
func ZeroizeString(s *string) {
	zeroize.String(s)
}
