// Package models defines the client-side credential record, its plaintext
// codec and the sealed form exchanged with the backend.
package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dmitrijs2005/gophvault/internal/common"
)

// Record is a decrypted credential record.
type Record struct {
	Service  string `json:"service"`
	Username string `json:"username"`
	Secret   string `json:"password"`
	Notes    string `json:"notes,omitempty"`
}

// EncodeRecord serializes r into the plaintext buffer handed to cryptox.Seal.
// Every field must be valid UTF-8; JSON would otherwise rewrite bad bytes
// as U+FFFD and the record would not decode to itself.
func EncodeRecord(r Record) ([]byte, error) {
	for name, v := range map[string]string{
		"service":  r.Service,
		"username": r.Username,
		"password": r.Secret,
		"notes":    r.Notes,
	} {
		if !utf8.ValidString(v) {
			return nil, fmt.Errorf("%w: %s is not valid UTF-8", common.ErrorValidation, name)
		}
	}
	return json.Marshal(r)
}

// DecodeRecord parses a plaintext buffer produced by EncodeRecord. A missing
// notes field decodes as an empty string.
func DecodeRecord(b []byte) (Record, error) {
	var r Record
	if err := json.Unmarshal(b, &r); err != nil {
		return Record{}, fmt.Errorf("decode record: %w", err)
	}
	return r, nil
}

// SealedRecord is a record as the backend stores it.
type SealedRecord struct {
	ID         string
	Ciphertext []byte
	Nonce      []byte
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// RecordView is an opened record together with its backend identity.
type RecordView struct {
	ID        string
	Record    Record
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Matches reports whether query occurs, case-insensitively, in the service,
// username or notes of the record. An empty query matches everything.
func (v RecordView) Matches(query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	for _, f := range []string{v.Record.Service, v.Record.Username, v.Record.Notes} {
		if strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	return false
}

// Filter returns the views matching query, preserving order.
func Filter(views []RecordView, query string) []RecordView {
	out := make([]RecordView, 0, len(views))
	for _, v := range views {
		if v.Matches(query) {
			out = append(out, v)
		}
	}
	return out
}
