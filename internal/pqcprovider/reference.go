package pqcprovider

import (
	"fmt"

	"golang.org/x/crypto/blake2b"
)

// Reference is a deterministic stand-in Provider. It does not implement
// real post-quantum cryptography; it derives a stable expected digest
// from the public inputs and compares it against the supplied signature
// or treats it as the decapsulated shared secret. This gives the VM and
// its tests a provider that is sensitive to every input byte (so a
// single flipped byte flips the verdict) without depending on an actual
// lattice or hash-based signature implementation.
type Reference struct{}

func NewReference() *Reference { return &Reference{} }

func expectedDigest(parts ...[]byte) []byte {
	h, err := blake2b.New256(nil)
	if err != nil {
		panic(err)
	}
	for _, p := range parts {
		h.Write(p)
	}
	return h.Sum(nil)
}

func verify(pk, msg, sig []byte) bool {
	want := expectedDigest(pk, msg)
	if len(sig) != len(want) {
		return false
	}
	for i := range want {
		if sig[i] != want[i] {
			return false
		}
	}
	return true
}

func (r *Reference) MLDSA65Verify(pk, msg, sig []byte) bool {
	return verify(pk, msg, sig)
}

func (r *Reference) FNDSA512Verify(pk, msg, sig []byte) bool {
	return verify(pk, msg, sig)
}

func decapsulate(algorithm string, ct, sk []byte) ([]byte, error) {
	if len(ct) == 0 || len(sk) == 0 {
		return nil, fmt.Errorf("%s: empty ciphertext or secret key", algorithm)
	}
	return expectedDigest(ct, sk), nil
}

func (r *Reference) MLKEM768Decapsulate(ct, sk []byte) ([]byte, error) {
	return decapsulate("mlkem768", ct, sk)
}

func (r *Reference) HQCKEM128Decapsulate(ct, sk []byte) ([]byte, error) {
	return decapsulate("hqckem128", ct, sk)
}

func (r *Reference) HQCKEM192Decapsulate(ct, sk []byte) ([]byte, error) {
	return decapsulate("hqckem192", ct, sk)
}

func (r *Reference) HQCKEM256Decapsulate(ct, sk []byte) ([]byte, error) {
	return decapsulate("hqckem256", ct, sk)
}
