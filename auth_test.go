package homesite

import (
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestStaticVerifier(t *testing.T) {
	v := StaticVerifier{Username: "admin", Password: "hunter2"}

	tests := []struct {
		name     string
		username string
		password string
		want     bool
	}{
		{"correct pair", "admin", "hunter2", true},
		{"wrong password", "admin", "hunter3", false},
		{"wrong username", "root", "hunter2", false},
		{"both wrong", "root", "toor", false},
		{"empty pair", "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := v.Verify(tt.username, tt.password); got != tt.want {
				t.Errorf("Verify(%q, %q) = %v, want %v", tt.username, tt.password, got, tt.want)
			}
		})
	}
}

func TestBcryptVerifier(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("hunter2"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	v := BcryptVerifier{Username: "admin", PasswordHash: hash}

	if !v.Verify("admin", "hunter2") {
		t.Errorf("correct pair should verify")
	}
	if v.Verify("admin", "hunter3") {
		t.Errorf("wrong password must not verify")
	}
	if v.Verify("root", "hunter2") {
		t.Errorf("wrong username must not verify")
	}
}
