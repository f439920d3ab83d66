package padding

// digestInfo describes one supported message-digest algorithm: its raw
// output length in bytes and the DER-encoded ASN.1 DigestInfo prefix that
// precedes the digest bytes in a PKCS#1 block type 1 (signing) frame. The
// message-digest subsystem itself stays an external collaborator (callers
// supply the digest bytes already computed); this table only records the
// framing metadata the padding engine needs.
type digestInfo struct {
	length int
	asn1   []byte
}

// digestTable covers every name spec.md §4.4 lists except md5: sha1,
// rmd160, sha256, sha384, sha512, md2, md4, tiger, haval. md5 is a
// recognised name without an entry here, so it fails NOT_IMPL. The ASN.1
// prefixes are the standard PKCS#1 v1.5 DigestInfo headers for each
// algorithm's OID.
var digestTable = map[string]digestInfo{
	"md2": {
		length: 16,
		asn1: []byte{
			0x30, 0x20, 0x30, 0x0c, 0x06, 0x08, 0x2a, 0x86, 0x48, 0x86, 0xf7, 0x0d,
			0x02, 0x02, 0x05, 0x00, 0x04, 0x10,
		},
	},
	"md4": {
		length: 16,
		asn1: []byte{
			0x30, 0x20, 0x30, 0x0c, 0x06, 0x08, 0x2a, 0x86, 0x48, 0x86, 0xf7, 0x0d,
			0x02, 0x04, 0x05, 0x00, 0x04, 0x10,
		},
	},
	"sha1": {
		length: 20,
		asn1: []byte{
			0x30, 0x21, 0x30, 0x09, 0x06, 0x05, 0x2b, 0x0e, 0x03, 0x02, 0x1a, 0x05,
			0x00, 0x04, 0x14,
		},
	},
	"rmd160": {
		length: 20,
		asn1: []byte{
			0x30, 0x21, 0x30, 0x09, 0x06, 0x05, 0x2b, 0x24, 0x03, 0x02, 0x01, 0x05,
			0x00, 0x04, 0x14,
		},
	},
	"tiger": {
		length: 24,
		asn1: []byte{
			0x30, 0x29, 0x30, 0x0d, 0x06, 0x09, 0x2b, 0x06, 0x01, 0x04, 0x01, 0xda,
			0x47, 0x0c, 0x02, 0x05, 0x00, 0x04, 0x18,
		},
	},
	"haval": {
		length: 20,
		asn1: []byte{
			0x30, 0x21, 0x30, 0x09, 0x06, 0x05, 0x2b, 0x24, 0x03, 0x02, 0x02, 0x05,
			0x00, 0x04, 0x14,
		},
	},
	"sha256": {
		length: 32,
		asn1: []byte{
			0x30, 0x31, 0x30, 0x0d, 0x06, 0x09, 0x60, 0x86, 0x48, 0x01, 0x65, 0x03,
			0x04, 0x02, 0x01, 0x05, 0x00, 0x04, 0x20,
		},
	},
	"sha384": {
		length: 48,
		asn1: []byte{
			0x30, 0x41, 0x30, 0x0d, 0x06, 0x09, 0x60, 0x86, 0x48, 0x01, 0x65, 0x03,
			0x04, 0x02, 0x02, 0x05, 0x00, 0x04, 0x30,
		},
	},
	"sha512": {
		length: 64,
		asn1: []byte{
			0x30, 0x51, 0x30, 0x0d, 0x06, 0x09, 0x60, 0x86, 0x48, 0x01, 0x65, 0x03,
			0x04, 0x02, 0x03, 0x05, 0x00, 0x04, 0x40,
		},
	},
}

// lookupDigest returns the digest metadata for name, and whether it is
// supported at all (INV_MD_ALGO) vs. supported but lacking a DigestInfo
// prefix in this table (NOT_IMPL).
func lookupDigest(name string) (digestInfo, bool) {
	d, ok := digestTable[name]
	return d, ok
}

// supportedDigestNames is the full set spec.md §4.4 step 7 names as
// recognised hash algorithm tokens, independent of whether this table has
// an ASN.1 prefix for every one of them.
var supportedDigestNames = map[string]struct{}{
	"sha1": {}, "md5": {}, "rmd160": {}, "sha256": {}, "sha384": {},
	"sha512": {}, "md2": {}, "md4": {}, "tiger": {}, "haval": {},
}

func isSupportedDigestName(name string) bool {
	_, ok := supportedDigestNames[name]
	return ok
}
