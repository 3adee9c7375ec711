// Package pqcprovider defines the thin, flat façade QuantumVM calls into
// for the post-quantum primitives it does not implement itself. The real
// ML-DSA/FN-DSA/ML-KEM/HQC-KEM math lives outside this module's scope;
// Provider pins only the shape the VM consumes.
package pqcprovider

// Provider is satisfied by any PQC backend the VM is wired against.
// Verify methods are infallible: a malformed input is a false result,
// never an error. Decapsulate methods fail with an error on
// cryptographic failure, which the VM surfaces as a CryptoError.
type Provider interface {
	MLDSA65Verify(pk, msg, sig []byte) bool
	FNDSA512Verify(pk, msg, sig []byte) bool
	MLKEM768Decapsulate(ct, sk []byte) ([]byte, error)
	HQCKEM128Decapsulate(ct, sk []byte) ([]byte, error)
	HQCKEM192Decapsulate(ct, sk []byte) ([]byte, error)
	HQCKEM256Decapsulate(ct, sk []byte) ([]byte, error)
}
