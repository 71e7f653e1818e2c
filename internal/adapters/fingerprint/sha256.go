package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/savsgio/gotils/strconv"

	"github.com/vncsmyrnk/survey/internal/core/ports"
)

const unknownAddr = "0.0.0.0"

type SaltedSHA256 struct {
	salt string
}

func NewSaltedSHA256(salt string) ports.Fingerprinter {
	return &SaltedSHA256{salt: salt}
}

// Fingerprint returns hex(sha256(salt + "|" + addr)).
func (h *SaltedSHA256) Fingerprint(remoteAddr string) string {
	if remoteAddr == "" {
		remoteAddr = unknownAddr
	}
	sum := sha256.Sum256(strconv.S2B(h.salt + "|" + remoteAddr))
	return hex.EncodeToString(sum[:])
}
