package security

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

// MediaCipher obfuscates media links so the raw reference never leaves
// the server. AES-256-CBC with a SHA-256 derived key and a fresh random
// IV per call; the output is hex(iv) + ":" + hex(ciphertext), recoverable
// by any holder of the shared secret.
type MediaCipher struct {
	key []byte
}

func NewMediaCipher(secret string) *MediaCipher {
	sum := sha256.Sum256([]byte(secret))
	return &MediaCipher{key: sum[:]}
}

func (m *MediaCipher) Obfuscate(raw string) string {
	if raw == "" {
		return ""
	}

	block, err := aes.NewCipher(m.key)
	if err != nil {
		// Key is always 32 bytes; NewCipher cannot fail on it.
		panic(err)
	}

	iv := make([]byte, aes.BlockSize)
	rand.Read(iv)

	padded := pkcs7Pad([]byte(raw), aes.BlockSize)
	encrypted := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(encrypted, padded)

	return hex.EncodeToString(iv) + ":" + hex.EncodeToString(encrypted)
}

func (m *MediaCipher) Deobfuscate(token string) (string, error) {
	ivHex, dataHex, ok := strings.Cut(token, ":")
	if !ok {
		return "", errors.New("malformed media token")
	}

	iv, err := hex.DecodeString(ivHex)
	if err != nil || len(iv) != aes.BlockSize {
		return "", errors.New("malformed media token iv")
	}
	encrypted, err := hex.DecodeString(dataHex)
	if err != nil || len(encrypted) == 0 || len(encrypted)%aes.BlockSize != 0 {
		return "", errors.New("malformed media token payload")
	}

	block, err := aes.NewCipher(m.key)
	if err != nil {
		panic(err)
	}

	plain := make([]byte, len(encrypted))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(plain, encrypted)

	unpadded, err := pkcs7Unpad(plain, aes.BlockSize)
	if err != nil {
		return "", fmt.Errorf("decrypt media token: %w", err)
	}
	return string(unpadded), nil
}

func pkcs7Pad(data []byte, blockSize int) []byte {
	padding := blockSize - len(data)%blockSize
	padded := make([]byte, len(data)+padding)
	copy(padded, data)
	for i := len(data); i < len(padded); i++ {
		padded[i] = byte(padding)
	}
	return padded
}

func pkcs7Unpad(data []byte, blockSize int) ([]byte, error) {
	if len(data) == 0 || len(data)%blockSize != 0 {
		return nil, errors.New("invalid padded length")
	}
	padding := int(data[len(data)-1])
	if padding == 0 || padding > blockSize || padding > len(data) {
		return nil, errors.New("invalid padding")
	}
	for _, b := range data[len(data)-padding:] {
		if int(b) != padding {
			return nil, errors.New("invalid padding")
		}
	}
	return data[:len(data)-padding], nil
}
