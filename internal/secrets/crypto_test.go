package secrets

import (
	"bytes"
	"testing"
)

func TestEncryptDecrypt_RoundTrip(t *testing.T) {
	key := DeriveKey("test-passphrase")
	plaintext := []byte("admin pin 1234")

	encrypted, err := Encrypt(plaintext, &key)
	if err != nil {
		t.Fatalf("Encrypt() error = %v", err)
	}

	if bytes.Contains(encrypted, plaintext) {
		t.Error("Ciphertext must not contain the plaintext")
	}

	decrypted, err := Decrypt(encrypted, &key)
	if err != nil {
		t.Fatalf("Decrypt() error = %v", err)
	}
	if !bytes.Equal(decrypted, plaintext) {
		t.Errorf("Decrypt() = %q, want %q", decrypted, plaintext)
	}
}

func TestDecrypt_WrongKey(t *testing.T) {
	key := DeriveKey("right")
	wrong := DeriveKey("wrong")

	encrypted, err := Encrypt([]byte("payload"), &key)
	if err != nil {
		t.Fatalf("Encrypt() error = %v", err)
	}

	if _, err := Decrypt(encrypted, &wrong); err == nil {
		t.Error("Decrypt() with wrong key should fail")
	}
}

func TestDecrypt_TooShort(t *testing.T) {
	key := DeriveKey("key")

	if _, err := Decrypt([]byte("short"), &key); err == nil {
		t.Error("Decrypt() on truncated input should fail")
	}
}

func TestDeriveKey_Deterministic(t *testing.T) {
	a := DeriveKey("passphrase")
	b := DeriveKey("passphrase")
	c := DeriveKey("other")

	if a != b {
		t.Error("DeriveKey() must be deterministic")
	}
	if a == c {
		t.Error("Different passphrases must derive different keys")
	}
}
