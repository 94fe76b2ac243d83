package cryptoutil

import (
	"errors"
	"testing"
)

func testKey(b byte) []byte {
	key := make([]byte, 32)
	for i := range key {
		key[i] = b
	}
	return key
}

func TestEncryptDecrypt_RoundTrip(t *testing.T) {
	key := testKey(0x42)

	sealed, err := Encrypt("hello session", key)
	if err != nil {
		t.Fatalf("encrypt failed: %v", err)
	}
	if sealed == "hello session" {
		t.Fatal("ciphertext must not equal plaintext")
	}

	plain, err := Decrypt(sealed, key)
	if err != nil {
		t.Fatalf("decrypt failed: %v", err)
	}
	if plain != "hello session" {
		t.Fatalf("round trip mismatch: %q", plain)
	}
}

func TestDecrypt_WrongKey(t *testing.T) {
	sealed, err := Encrypt("secret", testKey(0x01))
	if err != nil {
		t.Fatalf("encrypt failed: %v", err)
	}

	if _, err := Decrypt(sealed, testKey(0x02)); !errors.Is(err, ErrDecrypt) {
		t.Fatalf("expected ErrDecrypt, got %v", err)
	}
}

func TestDecrypt_MalformedInput(t *testing.T) {
	key := testKey(0x03)
	for _, input := range []string{"", "not base64 !!", "YWJj"} {
		if _, err := Decrypt(input, key); !errors.Is(err, ErrDecrypt) {
			t.Fatalf("input %q: expected ErrDecrypt, got %v", input, err)
		}
	}
}

func TestDecrypt_TamperedCiphertext(t *testing.T) {
	key := testKey(0x04)
	sealed, err := Encrypt("secret", key)
	if err != nil {
		t.Fatalf("encrypt failed: %v", err)
	}

	tampered := []byte(sealed)
	tampered[len(tampered)-5] ^= 'x'
	if _, err := Decrypt(string(tampered), key); !errors.Is(err, ErrDecrypt) {
		t.Fatalf("expected ErrDecrypt, got %v", err)
	}
}

func TestEncrypt_RejectsBadKeySize(t *testing.T) {
	if _, err := Encrypt("x", []byte("short")); !errors.Is(err, ErrKeySize) {
		t.Fatalf("expected ErrKeySize, got %v", err)
	}
}

func TestDeriveKey(t *testing.T) {
	salt := []byte("test.salt")

	a := DeriveKey("device-a", salt, 1024)
	b := DeriveKey("device-a", salt, 1024)
	c := DeriveKey("device-b", salt, 1024)

	if len(a) != 32 {
		t.Fatalf("expected 32-byte key, got %d", len(a))
	}
	if string(a) != string(b) {
		t.Fatal("same material must derive the same key")
	}
	if string(a) == string(c) {
		t.Fatal("different material must derive different keys")
	}
}
