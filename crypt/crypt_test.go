package crypt

import (
	"bytes"
	"errors"
	"testing"

	"github.com/scribadev/scriba/core"
)

func TestNewHandlerRejectsNonStandardFilter(t *testing.T) {
	dict := core.Dict{
		"Filter": core.Name("Custom"),
		"V":      core.Int(2),
	}

	_, err := NewHandler(dict, nil)
	if !errors.Is(err, ErrUnsupportedScheme) {
		t.Errorf("expected ErrUnsupportedScheme, got %v", err)
	}
}

func TestNewHandlerRejectsAES256(t *testing.T) {
	dict := core.Dict{
		"Filter": core.Name("Standard"),
		"V":      core.Int(5),
		"R":      core.Int(6),
	}

	_, err := NewHandler(dict, nil)
	if !errors.Is(err, ErrUnsupportedScheme) {
		t.Errorf("expected ErrUnsupportedScheme for V5, got %v", err)
	}
}

func TestNewHandlerAlgorithmSelection(t *testing.T) {
	tests := []struct {
		name string
		dict core.Dict
		want Algorithm
	}{
		{
			name: "V1 is RC4",
			dict: core.Dict{"Filter": core.Name("Standard"), "V": core.Int(1), "R": core.Int(2)},
			want: AlgRC4,
		},
		{
			name: "V2 is RC4",
			dict: core.Dict{"Filter": core.Name("Standard"), "V": core.Int(2), "R": core.Int(3), "Length": core.Int(128)},
			want: AlgRC4,
		},
		{
			name: "V4 defaults to AES-128",
			dict: core.Dict{"Filter": core.Name("Standard"), "V": core.Int(4), "R": core.Int(4)},
			want: AlgAES128,
		},
		{
			name: "V4 with CFM V2 is RC4",
			dict: core.Dict{
				"Filter": core.Name("Standard"),
				"V":      core.Int(4),
				"R":      core.Int(4),
				"CF": core.Dict{
					"StdCF": core.Dict{"CFM": core.Name("V2")},
				},
			},
			want: AlgRC4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, err := NewHandler(tt.dict, nil)
			if err != nil {
				t.Fatalf("NewHandler failed: %v", err)
			}
			if h.algorithm != tt.want {
				t.Errorf("algorithm = %v, want %v", h.algorithm, tt.want)
			}
		})
	}
}

func TestDecryptRequiresAuthentication(t *testing.T) {
	dict := core.Dict{
		"Filter": core.Name("Standard"),
		"V":      core.Int(2),
		"R":      core.Int(3),
	}

	h, err := NewHandler(dict, nil)
	if err != nil {
		t.Fatalf("NewHandler failed: %v", err)
	}
	if h.Authenticated() {
		t.Error("fresh handler should not be authenticated")
	}

	_, err = h.DecryptStream([]byte("data"), 1, 0)
	if !errors.Is(err, ErrNotAuthenticated) {
		t.Errorf("expected ErrNotAuthenticated, got %v", err)
	}
}

func TestWrongPasswordRejected(t *testing.T) {
	// O and U values here are arbitrary; no password can derive a matching
	// user key, so authentication must fail rather than panic.
	dict := core.Dict{
		"Filter": core.Name("Standard"),
		"V":      core.Int(2),
		"R":      core.Int(3),
		"Length": core.Int(128),
		"P":      core.Int(-44),
		"O":      core.String(bytes.Repeat([]byte{0xAB}, 32)),
		"U":      core.String(bytes.Repeat([]byte{0xCD}, 32)),
	}

	h, err := NewHandler(dict, []byte("fileid01"))
	if err != nil {
		t.Fatalf("NewHandler failed: %v", err)
	}

	if h.Authenticate("wrong password") {
		t.Error("authentication should fail for mismatched keys")
	}
	if h.Authenticated() {
		t.Error("failed authentication must not retain a key")
	}
}

func TestPadPassword(t *testing.T) {
	short := padPassword("ab")
	if len(short) != 32 {
		t.Fatalf("padded length = %d, want 32", len(short))
	}
	if short[0] != 'a' || short[1] != 'b' {
		t.Error("password bytes not preserved")
	}
	if !bytes.Equal(short[2:], passwordPadding[:30]) {
		t.Error("padding suffix incorrect")
	}

	long := padPassword(string(bytes.Repeat([]byte{'x'}, 40)))
	if len(long) != 32 {
		t.Fatalf("truncated length = %d, want 32", len(long))
	}
	if !bytes.Equal(long, bytes.Repeat([]byte{'x'}, 32)) {
		t.Error("long password should be truncated to 32 bytes")
	}

	empty := padPassword("")
	if !bytes.Equal(empty, passwordPadding) {
		t.Error("empty password should pad to the full padding string")
	}
}

func TestDecryptAESCBCRejectsShortData(t *testing.T) {
	if _, err := decryptAESCBC([]byte("short"), make([]byte, 16)); err == nil {
		t.Error("expected error for data shorter than one block")
	}
	if _, err := decryptAESCBC(make([]byte, 24), make([]byte, 16)); err == nil {
		t.Error("expected error for ciphertext not a block multiple")
	}
}
