package models

// Grant is what the backend hands out on register, login and verify.
type Grant struct {
	Token     string
	AccountID string
	Email     string
	Salt      []byte
}
