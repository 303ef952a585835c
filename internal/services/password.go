package services

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/bcrypt"
)

// PasswordHasher hashes plaintext passwords and checks plaintext against a stored hash.
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Matches(plain, hash string) (bool, error)
}

// MaxPasswordBytes is the longest input bcrypt accepts.
const MaxPasswordBytes = 72

var (
	errUnknownHashFormat = errors.New("unknown password hash format")
	errMalformedArgon2   = errors.New("malformed argon2 hash")
)

// NewPasswordHasher hashes with the named algorithm (bcrypt or argon2id) and
// verifies hashes in either format, so switching algorithms keeps old accounts working.
func NewPasswordHasher(algorithm string, bcryptCost int) (PasswordHasher, error) {
	b := BcryptHasher{Cost: bcryptCost}
	a := NewArgon2Hasher()
	switch algorithm {
	case "", "bcrypt":
		return &dispatchHasher{primary: b, bcrypt: b, argon2: a}, nil
	case "argon2id":
		return &dispatchHasher{primary: a, bcrypt: b, argon2: a}, nil
	default:
		return nil, fmt.Errorf("unsupported password hasher %q", algorithm)
	}
}

type dispatchHasher struct {
	primary PasswordHasher
	bcrypt  PasswordHasher
	argon2  PasswordHasher
}

func (d *dispatchHasher) Hash(plain string) (string, error) { return d.primary.Hash(plain) }

func (d *dispatchHasher) Matches(plain, hash string) (bool, error) {
	switch {
	case strings.HasPrefix(hash, "$argon2id$"):
		return d.argon2.Matches(plain, hash)
	case strings.HasPrefix(hash, "$2a$"), strings.HasPrefix(hash, "$2b$"), strings.HasPrefix(hash, "$2y$"):
		return d.bcrypt.Matches(plain, hash)
	default:
		return false, errUnknownHashFormat
	}
}

// BcryptHasher uses golang.org/x/crypto/bcrypt.
type BcryptHasher struct {
	Cost int
}

func (b BcryptHasher) Hash(plain string) (string, error) {
	cost := b.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	if len(plain) > MaxPasswordBytes {
		return "", ErrPasswordTooLong
	}
	ph, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", ErrPasswordTooLong
		}
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(ph), nil
}

func (b BcryptHasher) Matches(plain, hash string) (bool, error) {
	// Nothing longer than MaxPasswordBytes was ever hashed.
	if len(plain) > MaxPasswordBytes {
		return false, nil
	}
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, fmt.Errorf("compare password: %w", err)
	}
}

// Argon2Hasher produces PHC strings: $argon2id$v=19$m=...,t=...,p=...$salt$hash
type Argon2Hasher struct {
	Memory      uint32
	Time        uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32
}

// NewArgon2Hasher returns the RFC 9106 second recommended parameter set.
func NewArgon2Hasher() Argon2Hasher {
	return Argon2Hasher{Memory: 64 * 1024, Time: 3, Parallelism: 2, SaltLength: 16, KeyLength: 32}
}

func (a Argon2Hasher) Hash(plain string) (string, error) {
	salt := make([]byte, a.SaltLength)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return "", fmt.Errorf("read salt: %w", err)
	}
	key := argon2.IDKey([]byte(plain), salt, a.Time, a.Memory, a.Parallelism, a.KeyLength)
	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, a.Memory, a.Time, a.Parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

func (a Argon2Hasher) Matches(plain, hash string) (bool, error) {
	parts := strings.Split(hash, "$")
	// "", "argon2id", "v=19", "m=..,t=..,p=..", salt, key
	if len(parts) != 6 || parts[1] != "argon2id" {
		return false, errUnknownHashFormat
	}
	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return false, fmt.Errorf("unsupported argon2 version %q", parts[2])
	}
	var memory, iterations uint32
	var parallelism uint8
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &iterations, &parallelism); err != nil {
		return false, fmt.Errorf("parse argon2 params: %w", err)
	}
	if memory == 0 || iterations == 0 || parallelism == 0 {
		return false, fmt.Errorf("%w: zero cost parameter", errMalformedArgon2)
	}
	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return false, fmt.Errorf("decode salt: %w", err)
	}
	want, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return false, fmt.Errorf("decode hash: %w", err)
	}
	if len(salt) == 0 || len(want) == 0 {
		return false, fmt.Errorf("%w: empty salt or key", errMalformedArgon2)
	}
	got := argon2.IDKey([]byte(plain), salt, iterations, memory, parallelism, uint32(len(want)))
	return subtle.ConstantTimeCompare(got, want) == 1, nil
}
