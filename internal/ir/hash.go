package ir

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
)

// Domain prefixes for build digests.
// Version suffix enables future algorithm migration.
const (
	DomainInput    = "cdpgen/input/v1"
	DomainArtifact = "cdpgen/artifact/v1"
)

// SourceBytes is one raw input document as handed to the loader.
type SourceBytes struct {
	Name string
	Data []byte
}

// hashWithDomain computes SHA-256 hash with domain separation.
// Format: SHA256(domain + 0x00 + data...)
// The null byte (0x00) separator prevents domain/data boundary ambiguity.
func hashWithDomain(domain string, parts ...[]byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	for _, p := range parts {
		h.Write(p)
	}
	return hex.EncodeToString(h.Sum(nil))
}

// lengthPrefixed frames b with its big-endian length so that adjacent
// parts cannot be re-split into a different sequence with the same bytes.
func lengthPrefixed(b []byte) []byte {
	out := make([]byte, 8, 8+len(b))
	binary.BigEndian.PutUint64(out, uint64(len(b)))
	return append(out, b...)
}

// InputDigest identifies one compilation input: the provenance tag plus
// every source document in load order. Reordering sources changes the digest
// because load order drives output order.
func InputDigest(provenance string, sources []SourceBytes) string {
	parts := make([][]byte, 0, 1+2*len(sources))
	parts = append(parts, lengthPrefixed([]byte(provenance)))
	for _, src := range sources {
		parts = append(parts, lengthPrefixed([]byte(src.Name)), lengthPrefixed(src.Data))
	}
	return hashWithDomain(DomainInput, parts...)
}

// ArtifactDigest identifies emitted artifact content.
func ArtifactDigest(data []byte) string {
	return hashWithDomain(DomainArtifact, data)
}
