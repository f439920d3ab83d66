package algo

// Flags is the bitfield parsed from an optional "(flags ...)" sublist that
// accompanies data, enc-val, and key-signing requests. Unknown flag atoms
// are a caller error (ErrInvFlag), never silently ignored.
type Flags uint

const (
	// FlagRaw requests the bare-integer encoding (no PKCS#1 framing). It is
	// the default when neither raw nor pkcs1 is given.
	FlagRaw Flags = 1 << iota
	// FlagPKCS1 requests PKCS#1 block type 1 (signing) or type 2 (encryption) framing.
	FlagPKCS1
	// FlagNoBlinding disables RSA blinding during decryption/signing.
	FlagNoBlinding
)

func (f Flags) Has(bit Flags) bool { return f&bit != 0 }
