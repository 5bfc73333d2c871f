// Package crypt implements the PDF standard security handler for
// password-protected documents.
//
// It supports the RC4 schemes (V1/V2, revisions 2-3) and AES-128 CBC
// (V4, revision 4). AES-256 (V5) files are recognized but reported as
// unsupported. Authentication tries the supplied password as both the user
// and the owner password; an empty password matches the very common case of
// files encrypted only to restrict permissions.
package crypt

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/md5"
	"crypto/rc4"
	"errors"
	"fmt"

	"github.com/scribadev/scriba/core"
)

// ErrUnsupportedScheme is returned for encryption schemes the handler
// cannot decrypt (non-Standard filters, AES-256).
var ErrUnsupportedScheme = errors.New("unsupported encryption scheme")

// ErrNotAuthenticated is returned when decryption is attempted before a
// successful Authenticate call.
var ErrNotAuthenticated = errors.New("document not authenticated")

// Algorithm identifies the symmetric cipher an encrypted file uses.
type Algorithm int

const (
	AlgRC4 Algorithm = iota
	AlgAES128
)

// passwordPadding is the 32-byte padding string from the standard security
// handler; short passwords are extended with its prefix.
var passwordPadding = []byte{
	0x28, 0xBF, 0x4E, 0x5E, 0x4E, 0x75, 0x8A, 0x41,
	0x64, 0x00, 0x4E, 0x56, 0xFF, 0xFA, 0x01, 0x08,
	0x2E, 0x2E, 0x00, 0xB6, 0xD0, 0x68, 0x3E, 0x80,
	0x2F, 0x0C, 0xA9, 0xFE, 0x64, 0x53, 0x69, 0x7A,
}

// Handler holds the parsed /Encrypt dictionary and, after authentication,
// the derived file encryption key.
type Handler struct {
	algorithm   Algorithm
	version     int // V value (1-4)
	revision    int // R value (2-4)
	keyLength   int // in bits
	permissions int32
	ownerKey    []byte // O value
	userKey     []byte // U value
	encryptMeta bool
	fileID      []byte // first element of the trailer /ID array

	key []byte // derived file key, set by Authenticate
}

// NewHandler parses an /Encrypt dictionary. fileID is the first element of
// the trailer /ID array (may be nil; key derivation then omits it, which
// only matches files written without an ID).
func NewHandler(encrypt core.Dict, fileID []byte) (*Handler, error) {
	if filter, _ := encrypt.GetName("Filter"); filter != "Standard" {
		return nil, fmt.Errorf("%w: filter %q", ErrUnsupportedScheme, filter)
	}

	h := &Handler{
		encryptMeta: true,
		keyLength:   40,
		fileID:      fileID,
	}

	if v, ok := encrypt.GetInt("V"); ok {
		h.version = int(v)
	}
	if r, ok := encrypt.GetInt("R"); ok {
		h.revision = int(r)
	}
	if length, ok := encrypt.GetInt("Length"); ok {
		h.keyLength = int(length)
	}
	if p, ok := encrypt.GetInt("P"); ok {
		h.permissions = int32(p)
	}
	if o, ok := encrypt.GetString("O"); ok {
		h.ownerKey = []byte(o)
	}
	if u, ok := encrypt.GetString("U"); ok {
		h.userKey = []byte(u)
	}
	if em, ok := encrypt.GetBool("EncryptMetadata"); ok {
		h.encryptMeta = bool(em)
	}

	switch h.version {
	case 1, 2:
		h.algorithm = AlgRC4
	case 4:
		// V4 names crypt filters; AESV2 and V2 (RC4) are the ones that
		// occur in practice.
		h.algorithm = AlgAES128
		if cf, ok := encrypt.GetDict("CF"); ok {
			if std, ok := cf.GetDict("StdCF"); ok {
				if cfm, _ := std.GetName("CFM"); cfm == "V2" {
					h.algorithm = AlgRC4
				}
			}
		}
	default:
		return nil, fmt.Errorf("%w: V=%d", ErrUnsupportedScheme, h.version)
	}

	return h, nil
}

// Authenticate attempts to validate the given password, trying it as the
// user password first and the owner password second. On success the file
// key is retained for subsequent decryption.
func (h *Handler) Authenticate(password string) bool {
	if h.authenticateUser(password) {
		return true
	}
	return h.authenticateOwner(password)
}

// Authenticated reports whether a password has been validated.
func (h *Handler) Authenticated() bool {
	return h.key != nil
}

func (h *Handler) authenticateUser(password string) bool {
	key := h.computeFileKey(password)
	computed := h.computeUserKey(key)

	// Revision 3+ compares only the first 16 bytes; the rest is padding.
	n := len(h.userKey)
	if h.revision >= 3 {
		n = 16
	}
	if len(computed) < n || len(h.userKey) < n {
		return false
	}
	for i := 0; i < n; i++ {
		if computed[i] != h.userKey[i] {
			return false
		}
	}
	h.key = key
	return true
}

func (h *Handler) authenticateOwner(password string) bool {
	hash := md5.Sum(padPassword(password))
	if h.revision >= 3 {
		for i := 0; i < 50; i++ {
			hash = md5.Sum(hash[:])
		}
	}
	key := hash[:h.keyBytes()]

	// Decrypting /O with the owner key yields the padded user password.
	userPwd := make([]byte, len(h.ownerKey))
	copy(userPwd, h.ownerKey)
	if h.revision >= 3 {
		for i := 19; i >= 0; i-- {
			tmpKey := make([]byte, len(key))
			for j := range key {
				tmpKey[j] = key[j] ^ byte(i)
			}
			c, err := rc4.NewCipher(tmpKey)
			if err != nil {
				return false
			}
			c.XORKeyStream(userPwd, userPwd)
		}
	} else {
		c, err := rc4.NewCipher(key)
		if err != nil {
			return false
		}
		c.XORKeyStream(userPwd, userPwd)
	}

	return h.authenticateUser(string(userPwd))
}

// keyBytes returns the file key length in bytes, clamped to MD5 output.
func (h *Handler) keyBytes() int {
	n := h.keyLength / 8
	if n < 5 {
		n = 5
	}
	if n > 16 {
		n = 16
	}
	return n
}

// computeFileKey derives the file encryption key from a password
// (algorithm 2 of the standard security handler).
func (h *Handler) computeFileKey(password string) []byte {
	md := md5.New()
	md.Write(padPassword(password))
	md.Write(h.ownerKey)

	p := h.permissions
	md.Write([]byte{byte(p), byte(p >> 8), byte(p >> 16), byte(p >> 24)})

	if h.fileID != nil {
		md.Write(h.fileID)
	}

	if h.revision >= 4 && !h.encryptMeta {
		md.Write([]byte{0xFF, 0xFF, 0xFF, 0xFF})
	}

	hash := md.Sum(nil)
	n := h.keyBytes()

	if h.revision >= 3 {
		for i := 0; i < 50; i++ {
			sum := md5.Sum(hash[:n])
			hash = sum[:]
		}
	}

	return hash[:n]
}

// computeUserKey derives the expected /U value from a file key
// (algorithms 4 and 5 of the standard security handler).
func (h *Handler) computeUserKey(key []byte) []byte {
	if h.revision >= 3 {
		md := md5.New()
		md.Write(passwordPadding)
		if h.fileID != nil {
			md.Write(h.fileID)
		}
		hash := md.Sum(nil)

		c, err := rc4.NewCipher(key)
		if err != nil {
			return nil
		}
		result := make([]byte, 16)
		c.XORKeyStream(result, hash[:16])

		for i := 1; i <= 19; i++ {
			tmpKey := make([]byte, len(key))
			for j := range key {
				tmpKey[j] = key[j] ^ byte(i)
			}
			c, err := rc4.NewCipher(tmpKey)
			if err != nil {
				return nil
			}
			c.XORKeyStream(result, result)
		}

		padded := make([]byte, 32)
		copy(padded, result)
		return padded
	}

	c, err := rc4.NewCipher(key)
	if err != nil {
		return nil
	}
	result := make([]byte, 32)
	c.XORKeyStream(result, passwordPadding)
	return result
}

// DecryptStream decrypts stream data belonging to the given object.
func (h *Handler) DecryptStream(data []byte, objNum, genNum int) ([]byte, error) {
	return h.decrypt(data, objNum, genNum)
}

// DecryptString decrypts a string object belonging to the given object.
func (h *Handler) DecryptString(s string, objNum, genNum int) (string, error) {
	out, err := h.decrypt([]byte(s), objNum, genNum)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func (h *Handler) decrypt(data []byte, objNum, genNum int) ([]byte, error) {
	if h.key == nil {
		return nil, ErrNotAuthenticated
	}

	key := h.objectKey(objNum, genNum)

	switch h.algorithm {
	case AlgRC4:
		c, err := rc4.NewCipher(key)
		if err != nil {
			return nil, err
		}
		result := make([]byte, len(data))
		c.XORKeyStream(result, data)
		return result, nil

	case AlgAES128:
		return decryptAESCBC(data, key)

	default:
		return nil, ErrUnsupportedScheme
	}
}

// objectKey derives the per-object key: md5 of the file key, the low bytes
// of the object and generation numbers, and (for AES) the sAlT marker.
func (h *Handler) objectKey(objNum, genNum int) []byte {
	md := md5.New()
	md.Write(h.key)
	md.Write([]byte{byte(objNum), byte(objNum >> 8), byte(objNum >> 16)})
	md.Write([]byte{byte(genNum), byte(genNum >> 8)})
	if h.algorithm == AlgAES128 {
		md.Write([]byte("sAlT"))
	}
	hash := md.Sum(nil)

	n := len(h.key) + 5
	if n > 16 {
		n = 16
	}
	return hash[:n]
}

// decryptAESCBC decrypts AES-CBC data where the first block is the IV and
// the plaintext carries PKCS#7 padding.
func decryptAESCBC(data, key []byte) ([]byte, error) {
	if len(data) < aes.BlockSize {
		return nil, errors.New("AES data shorter than one block")
	}

	iv := data[:aes.BlockSize]
	ciphertext := data[aes.BlockSize:]
	if len(ciphertext)%aes.BlockSize != 0 {
		return nil, errors.New("AES ciphertext not a multiple of the block size")
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	plaintext := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(plaintext, ciphertext)

	if len(plaintext) > 0 {
		padLen := int(plaintext[len(plaintext)-1])
		if padLen > 0 && padLen <= aes.BlockSize && padLen <= len(plaintext) {
			plaintext = plaintext[:len(plaintext)-padLen]
		}
	}

	return plaintext, nil
}

// padPassword pads or truncates a password to exactly 32 bytes using the
// standard padding string.
func padPassword(password string) []byte {
	pwd := []byte(password)
	if len(pwd) > 32 {
		pwd = pwd[:32]
	}
	result := make([]byte, 32)
	copy(result, pwd)
	copy(result[len(pwd):], passwordPadding)
	return result
}
