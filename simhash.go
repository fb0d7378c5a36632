package lhdiff

import (
	"crypto/md5"
	"encoding/binary"
	"math/bits"
	"strings"

	"github.com/zeebo/blake3"
)

// hashBits is the width of a SimHash fingerprint.
const hashBits = 64

// TokenHash selects the per-token hash feeding SimHash.
type TokenHash int

const (
	// TokenHashMD5 uses the first 8 bytes of the MD5 digest. Fingerprints
	// match those of the reference LHDiff tool.
	TokenHashMD5 TokenHash = iota
	// TokenHashBLAKE3 uses the first 8 bytes of the BLAKE3-256 digest.
	TokenHashBLAKE3
)

// String returns a string representation of the TokenHash.
func (h TokenHash) String() string {
	switch h {
	case TokenHashMD5:
		return "md5"
	case TokenHashBLAKE3:
		return "blake3"
	default:
		return "unknown"
	}
}

// ParseTokenHash parses "md5" or "blake3" (case-insensitive).
func ParseTokenHash(s string) (TokenHash, bool) {
	switch strings.ToLower(s) {
	case "md5":
		return TokenHashMD5, true
	case "blake3":
		return TokenHashBLAKE3, true
	default:
		return TokenHashMD5, false
	}
}

// sum64 returns the big-endian uint64 of the first 8 digest bytes of token.
func (h TokenHash) sum64(token string) uint64 {
	switch h {
	case TokenHashBLAKE3:
		sum := blake3.Sum256([]byte(token))
		return binary.BigEndian.Uint64(sum[:8])
	default:
		sum := md5.Sum([]byte(token))
		return binary.BigEndian.Uint64(sum[:8])
	}
}

// Tokenize lowercases text and splits it on runs of non-word characters.
// Word characters are ASCII letters, digits and underscore. Duplicates are
// kept; empty tokens are dropped.
func Tokenize(text string) []string {
	if text == "" {
		return nil
	}
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !isWordRune(r)
	})
}

func isWordRune(r rune) bool {
	return r == '_' ||
		(r >= 'a' && r <= 'z') ||
		(r >= 'A' && r <= 'Z') ||
		(r >= '0' && r <= '9')
}

// SimHash computes the 64-bit SimHash of tokens using MD5 token hashes.
// An empty token list hashes to 0.
func SimHash(tokens []string) uint64 {
	return simHash(tokens, TokenHashMD5)
}

func simHash(tokens []string, th TokenHash) uint64 {
	if len(tokens) == 0 {
		return 0
	}

	var acc [hashBits]int
	for _, tok := range tokens {
		h := th.sum64(tok)
		for i := 0; i < hashBits; i++ {
			if (h>>i)&1 == 1 {
				acc[i]++
			} else {
				acc[i]--
			}
		}
	}

	var out uint64
	for i, v := range acc {
		if v > 0 {
			out |= 1 << i
		}
	}
	return out
}

// HammingDistance returns the number of differing bits between a and b.
func HammingDistance(a, b uint64) int {
	return bits.OnesCount64(a ^ b)
}
