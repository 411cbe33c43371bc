package services

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/argon2"
)

type TokenService struct {
	Secret     []byte
	Issuer     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

func (t TokenService) CreateAccessToken(userID, username, role string) (string, int64, error) {
	now := time.Now().UTC()
	exp := now.Add(t.AccessTTL)
	claims := jwt.MapClaims{
		"iss":      t.Issuer,
		"sub":      userID,
		"typ":      "access",
		"username": username,
		"role":     role,
		"iat":      now.Unix(),
		"exp":      exp.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.Secret)
	return signed, exp.Unix(), err
}

func (t TokenService) CreateRefreshToken(userID string) (string, error) {
	now := time.Now().UTC()
	claims := jwt.MapClaims{
		"iss": t.Issuer,
		"sub": userID,
		"typ": "refresh",
		"iat": now.Unix(),
		"exp": now.Add(t.RefreshTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.Secret)
}

func (t TokenService) ParseToken(tokenStr string) (*jwt.Token, jwt.MapClaims, error) {
	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		return t.Secret, nil
	}, jwt.WithIssuer(t.Issuer))
	return token, claims, err
}

const (
	argonMemory      = 65536
	argonIterations  = 3
	argonParallelism = 1
	argonSaltLength  = 16
	argonKeyLength   = 32
)

// HashPIN encodes new credentials as argon2id. Rows imported from the old
// backend carry the salt$hexdigest sha256 format, which VerifyPIN still
// accepts.
func HashPIN(raw string) (string, error) {
	salt := make([]byte, argonSaltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}
	key := argon2.IDKey([]byte(raw), salt, argonIterations, argonMemory, argonParallelism, argonKeyLength)
	return "$argon2id$v=19$m=" + strconv.Itoa(argonMemory) +
		",t=" + strconv.Itoa(argonIterations) +
		",p=" + strconv.Itoa(argonParallelism) +
		"$" + base64.RawStdEncoding.EncodeToString(salt) +
		"$" + base64.RawStdEncoding.EncodeToString(key), nil
}

func VerifyPIN(raw, stored string) bool {
	if strings.HasPrefix(stored, "$argon2") {
		return verifyArgon2id(raw, stored)
	}
	return verifyLegacyPIN(raw, stored)
}

func verifyArgon2id(raw, encoded string) bool {
	memory, iterations, parallelism, salt, hash, err := decodeArgon2id(encoded)
	if err != nil {
		return false
	}
	key := argon2.IDKey([]byte(raw), salt, iterations, memory, parallelism, uint32(len(hash)))
	return subtleCompare(hash, key)
}

func decodeArgon2id(encoded string) (uint32, uint32, uint8, []byte, []byte, error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || !strings.HasPrefix(parts[1], "argon2") {
		return 0, 0, 0, nil, nil, errors.New("invalid hash format")
	}
	var memory, iterations uint32
	var parallelism uint8
	for _, kv := range strings.Split(parts[3], ",") {
		pair := strings.SplitN(kv, "=", 2)
		if len(pair) != 2 {
			continue
		}
		value, _ := strconv.ParseUint(pair[1], 10, 32)
		switch pair[0] {
		case "m":
			memory = uint32(value)
		case "t":
			iterations = uint32(value)
		case "p":
			parallelism = uint8(value)
		}
	}
	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return 0, 0, 0, nil, nil, err
	}
	hash, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return 0, 0, 0, nil, nil, err
	}
	return memory, iterations, parallelism, salt, hash, nil
}

// verifyLegacyPIN checks the old backend's salt$hexdigest format, where
// hexdigest = sha256(pin + salt).
func verifyLegacyPIN(raw, stored string) bool {
	salt, digest, found := strings.Cut(stored, "$")
	if !found || salt == "" || digest == "" {
		return false
	}
	sum := sha256.Sum256([]byte(raw + salt))
	return subtleCompare([]byte(hex.EncodeToString(sum[:])), []byte(digest))
}

func subtleCompare(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	var diff byte
	for i := range a {
		diff |= a[i] ^ b[i]
	}
	return diff == 0
}
