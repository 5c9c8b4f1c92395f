package encryption

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/md5"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"unicode/utf8"

	"secretlens/internal/lens"
)

// OpenSSLEngine implements lens.CipherEngine with AES-CBC and the legacy
// OpenSSL EVP_BytesToKey key derivation (MD5, one round, no KDF salt).
//
// When salting is enabled a random hex salt is prepended to the passphrase
// and to the output, so equal lines encrypt differently. Output is
// compatible with `openssl enc -aes-256-cbc -nosalt -md md5 -pass pass:<salt><passphrase>`.
type OpenSSLEngine struct {
	mu      sync.RWMutex
	opts    Options
	keySize int
	rand    io.Reader
}

var _ lens.CipherEngine = (*OpenSSLEngine)(nil)

// NewOpenSSLEngine creates an OpenSSLEngine from opts.
func NewOpenSSLEngine(opts Options) (*OpenSSLEngine, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	keySize, _ := opts.Algorithm.keySize()
	return &OpenSSLEngine{
		opts:    opts,
		keySize: keySize,
		rand:    rand.Reader,
	}, nil
}

// SetUseSalt toggles salting for subsequent calls.
func (e *OpenSSLEngine) SetUseSalt(useSalt bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.opts.UseSalt = useSalt
	if useSalt && e.opts.SaltSize < 1 {
		e.opts.SaltSize = DefaultSaltSize
	}
}

func (e *OpenSSLEngine) options() Options {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.opts
}

func (e *OpenSSLEngine) RequiresPassphrase() bool { return true }

// Encrypt returns [salt_hex] ++ hex(AES-CBC(plaintext)).
func (e *OpenSSLEngine) Encrypt(plaintext, passphrase string) (string, error) {
	if !utf8.ValidString(plaintext) {
		return "", lens.ErrInvalidText
	}
	opts := e.options()

	salt := ""
	if opts.UseSalt {
		raw := make([]byte, opts.SaltSize)
		if _, err := io.ReadFull(e.rand, raw); err != nil {
			return "", fmt.Errorf("generating salt: %w", err)
		}
		salt = hex.EncodeToString(raw)
	}

	block, iv, err := e.newBlock(salt + passphrase)
	if err != nil {
		return "", err
	}

	padded := pkcs7Pad([]byte(plaintext), aes.BlockSize)
	ciphertext := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(ciphertext, padded)

	return salt + hex.EncodeToString(ciphertext), nil
}

// Decrypt reverses Encrypt. Failures are reported as lens.ErrPasswordNotSet
// or lens.ErrDecryptFailed with the matching message as the result.
func (e *OpenSSLEngine) Decrypt(payload, passphrase string) (string, error) {
	if passphrase == "" {
		return lens.ErrPasswordNotSet.Error(), lens.ErrPasswordNotSet
	}

	opts := e.options()
	keyMaterial := passphrase
	if opts.UseSalt {
		var salt string
		salt, payload = splitSalt(payload, opts.SaltSize*2, opts.SaltStrip)
		keyMaterial = salt + passphrase
	}

	plaintext, err := e.decrypt(payload, keyMaterial)
	if err != nil {
		return lens.ErrDecryptFailed.Error(), lens.ErrDecryptFailed
	}
	return plaintext, nil
}

func (e *OpenSSLEngine) decrypt(payload, keyMaterial string) (string, error) {
	ciphertext, err := hex.DecodeString(payload)
	if err != nil {
		return "", fmt.Errorf("decoding hex: %w", err)
	}
	if len(ciphertext) == 0 || len(ciphertext)%aes.BlockSize != 0 {
		return "", errors.New("ciphertext is not a whole number of blocks")
	}

	block, iv, err := e.newBlock(keyMaterial)
	if err != nil {
		return "", err
	}

	plaintext := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(plaintext, ciphertext)

	plaintext, err = pkcs7Unpad(plaintext, aes.BlockSize)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(plaintext) {
		return "", errors.New("plaintext is not valid UTF-8")
	}
	return string(plaintext), nil
}

// newBlock derives key and IV from keyMaterial and returns the AES block.
func (e *OpenSSLEngine) newBlock(keyMaterial string) (cipher.Block, []byte, error) {
	key, iv := bytesToKey([]byte(keyMaterial), e.keySize, aes.BlockSize)
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, nil, fmt.Errorf("creating cipher: %w", err)
	}
	return block, iv, nil
}

// bytesToKey is OpenSSL's EVP_BytesToKey with MD5, one iteration and no salt:
// D_1 = MD5(data), D_i = MD5(D_{i-1} || data), key||iv = D_1||D_2||...
func bytesToKey(data []byte, keyLen, ivLen int) (key, iv []byte) {
	var out, prev []byte
	for len(out) < keyLen+ivLen {
		h := md5.New()
		h.Write(prev)
		h.Write(data)
		prev = h.Sum(nil)
		out = append(out, prev...)
	}
	return out[:keyLen], out[keyLen : keyLen+ivLen]
}

// splitSalt takes the first n characters of payload as the salt and removes
// it from payload according to mode. A payload shorter than n is all salt.
func splitSalt(payload string, n int, mode SaltStrip) (salt, rest string) {
	salt = payload
	if len(payload) > n {
		salt = payload[:n]
	}
	if mode == StripPrefix {
		return salt, payload[len(salt):]
	}
	return salt, strings.Replace(payload, salt, "", 1)
}

func pkcs7Pad(data []byte, blockSize int) []byte {
	n := blockSize - len(data)%blockSize
	return append(append([]byte{}, data...), bytes.Repeat([]byte{byte(n)}, n)...)
}

func pkcs7Unpad(data []byte, blockSize int) ([]byte, error) {
	if len(data) == 0 {
		return nil, errors.New("empty plaintext")
	}
	n := int(data[len(data)-1])
	if n == 0 || n > blockSize || n > len(data) {
		return nil, errors.New("invalid padding")
	}
	for _, b := range data[len(data)-n:] {
		if int(b) != n {
			return nil, errors.New("invalid padding")
		}
	}
	return data[:len(data)-n], nil
}
