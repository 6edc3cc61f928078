package auth

import (
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestPasswordHasher_HashVerify(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost)

	hash, err := h.Hash("secret1")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if hash == "secret1" || !strings.HasPrefix(hash, "$2a$") {
		t.Fatalf("неожиданный формат хеша: %q", hash)
	}
	if !h.Verify("secret1", hash) {
		t.Error("Verify с верным паролем должен быть true")
	}
	if h.Verify("wrong", hash) {
		t.Error("Verify с неверным паролем должен быть false")
	}
	if h.Verify("secret1", "not-a-hash") {
		t.Error("Verify с битым хешем должен быть false")
	}
}

func TestPasswordHasher_SaltPerCall(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost)
	a, _ := h.Hash("secret1")
	b, _ := h.Hash("secret1")
	if a == b {
		t.Error("два хеша одного пароля совпали: соль не случайна")
	}
}

func TestNewPasswordHasher_CostBounds(t *testing.T) {
	tests := []struct {
		in, want int
	}{
		{in: 0, want: DefaultBcryptCost},
		{in: 3, want: DefaultBcryptCost},
		{in: 4, want: 4},
		{in: 12, want: 12},
		{in: 32, want: DefaultBcryptCost},
	}
	for _, tt := range tests {
		if got := NewPasswordHasher(tt.in).cost; got != tt.want {
			t.Errorf("NewPasswordHasher(%d).cost = %d, ожидалось %d", tt.in, got, tt.want)
		}
	}
}
