package utils

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

// Argon2Params controls the cost of the argon2id derivation. Memory is in KiB.
type Argon2Params struct {
	Memory      uint32
	Iterations  uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32
}

// DefaultArgon2 is used when the configuration does not override it.
var DefaultArgon2 = Argon2Params{
	Memory:      64 * 1024,
	Iterations:  3,
	Parallelism: 2,
	SaltLength:  16,
	KeyLength:   32,
}

// upper bounds accepted when parsing a stored credential
const (
	maxMemoryKiB  = 1 << 20
	maxIterations = 64
	maxKeyLength  = 128
)

var b64 = base64.RawStdEncoding

// Validate rejects parameters whose credentials could not be verified later.
func (p Argon2Params) Validate() error {
	switch {
	case p.Parallelism == 0:
		return fmt.Errorf("argon2: parallelism must be at least 1")
	case p.Iterations == 0 || p.Iterations > maxIterations:
		return fmt.Errorf("argon2: iterations must be in [1, %d], got %d", maxIterations, p.Iterations)
	case p.Memory < 8*uint32(p.Parallelism) || p.Memory > maxMemoryKiB:
		return fmt.Errorf("argon2: memory must be in [%d, %d] KiB, got %d", 8*uint32(p.Parallelism), maxMemoryKiB, p.Memory)
	case p.SaltLength == 0:
		return fmt.Errorf("argon2: salt length must be positive")
	case p.KeyLength == 0 || p.KeyLength > maxKeyLength:
		return fmt.Errorf("argon2: key length must be in [1, %d], got %d", maxKeyLength, p.KeyLength)
	}
	return nil
}

// HashPassword returns an argon2id credential in PHC form:
// $argon2id$v=19$m=65536,t=3,p=2$<salt>$<key>
func HashPassword(plain string, p Argon2Params) (string, error) {
	if err := p.Validate(); err != nil {
		return "", err
	}
	salt := make([]byte, p.SaltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}
	key := argon2.IDKey([]byte(plain), salt, p.Iterations, p.Memory, p.Parallelism, p.KeyLength)
	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, p.Memory, p.Iterations, p.Parallelism,
		b64.EncodeToString(salt), b64.EncodeToString(key)), nil
}

// VerifyPassword re-derives the key with the embedded salt and parameters and
// compares in constant time. Malformed credentials never verify.
func VerifyPassword(credential, plain string) bool {
	p, salt, key, ok := decodeCredential(credential)
	if !ok {
		return false
	}
	other := argon2.IDKey([]byte(plain), salt, p.Iterations, p.Memory, p.Parallelism, p.KeyLength)
	return subtle.ConstantTimeCompare(key, other) == 1
}

func decodeCredential(s string) (Argon2Params, []byte, []byte, bool) {
	var p Argon2Params
	parts := strings.Split(s, "$")
	// "", "argon2id", "v=19", "m=..,t=..,p=..", salt, key
	if len(parts) != 6 || parts[0] != "" || parts[1] != "argon2id" {
		return p, nil, nil, false
	}
	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return p, nil, nil, false
	}
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &p.Memory, &p.Iterations, &p.Parallelism); err != nil {
		return p, nil, nil, false
	}
	salt, err := b64.DecodeString(parts[4])
	if err != nil || len(salt) == 0 {
		return p, nil, nil, false
	}
	key, err := b64.DecodeString(parts[5])
	if err != nil || len(key) == 0 || len(key) > maxKeyLength {
		return p, nil, nil, false
	}
	p.SaltLength = uint32(len(salt))
	p.KeyLength = uint32(len(key))
	if p.Validate() != nil {
		return p, nil, nil, false
	}
	return p, salt, key, true
}
