package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// DomainProgram is the domain prefix for program identity hashing.
// The version suffix enables future algorithm migration.
const DomainProgram = "tapevm/program/v1"

// ProgramHash computes a source-addressed identity for a compiled program.
// The hash is stable across runs and machines: it is SHA-256 over the
// canonical JSON dump, with domain separation.
//
// Format: SHA256(domain + 0x00 + canonicalJSON), hex encoded.
// The null byte separator prevents domain/data boundary ambiguity.
func ProgramHash(program []Instruction) (string, error) {
	canonical, err := MarshalCanonical(program)
	if err != nil {
		return "", fmt.Errorf("ProgramHash: failed to marshal: %w", err)
	}

	h := sha256.New()
	h.Write([]byte(DomainProgram))
	h.Write([]byte{0x00})
	h.Write(canonical)
	return hex.EncodeToString(h.Sum(nil)), nil
}
