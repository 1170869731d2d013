package rpc

import "google.golang.org/protobuf/types/known/timestamppb"

// Binary fields (credential, salt, ciphertext, nonce) are hex-encoded.

type RegisterRequest struct {
	Email      string `json:"email"`
	Credential string `json:"credential"`
}

type LoginRequest struct {
	Email      string `json:"email"`
	Credential string `json:"credential"`
}

type AuthResponse struct {
	Token     string `json:"token"`
	AccountID string `json:"account_id"`
	Email     string `json:"email"`
	Salt      string `json:"salt"`
}

type VerifyRequest struct{}

type VerifyResponse struct {
	AccountID string `json:"account_id"`
	Email     string `json:"email"`
	Salt      string `json:"salt"`
}

type Record struct {
	ID         string                 `json:"id"`
	Ciphertext string                 `json:"ciphertext"`
	Nonce      string                 `json:"nonce"`
	CreatedAt  *timestamppb.Timestamp `json:"created_at,omitempty"`
	UpdatedAt  *timestamppb.Timestamp `json:"updated_at,omitempty"`
}

type CreateRecordRequest struct {
	Ciphertext string `json:"ciphertext"`
	Nonce      string `json:"nonce"`
}

type CreateRecordResponse struct {
	ID        string                 `json:"id"`
	CreatedAt *timestamppb.Timestamp `json:"created_at,omitempty"`
}

type ListRecordsRequest struct{}

type ListRecordsResponse struct {
	Records []*Record `json:"records"`
}

type UpdateRecordRequest struct {
	ID         string `json:"id"`
	Ciphertext string `json:"ciphertext"`
	Nonce      string `json:"nonce"`
}

type UpdateRecordResponse struct {
	UpdatedAt *timestamppb.Timestamp `json:"updated_at,omitempty"`
}

type DeleteRecordRequest struct {
	ID string `json:"id"`
}

type DeleteRecordResponse struct{}

type PingRequest struct{}

type PingResponse struct {
	Status string `json:"status"`
}
