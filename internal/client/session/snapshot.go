package session

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophvault/internal/client/models"
	"github.com/dmitrijs2005/gophvault/internal/common"
	"github.com/dmitrijs2005/gophvault/internal/cryptox"
)

// snapshot is the exported form of an Active session.
type snapshot struct {
	Token     string `json:"token"`
	AccountID string `json:"account_id"`
	Email     string `json:"email"`
	Salt      string `json:"salt"`
	Key       string `json:"key"`
}

func encodeSnapshot(g models.Grant, key []byte) ([]byte, error) {
	return json.Marshal(snapshot{
		Token:     g.Token,
		AccountID: g.AccountID,
		Email:     g.Email,
		Salt:      hex.EncodeToString(g.Salt),
		Key:       hex.EncodeToString(key),
	})
}

// decodeSnapshot validates every field; a partially valid snapshot is
// rejected as a whole.
func decodeSnapshot(data []byte) (models.Grant, []byte, error) {
	var s snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return models.Grant{}, nil, fmt.Errorf("malformed snapshot: %w", err)
	}
	if s.Token == "" || s.AccountID == "" {
		return models.Grant{}, nil, errors.New("snapshot without token")
	}

	salt, err := hex.DecodeString(s.Salt)
	if err != nil || len(salt) != cryptox.SaltSize {
		return models.Grant{}, nil, fmt.Errorf("snapshot salt: %w", common.ErrInvalidInputLength)
	}

	key, err := hex.DecodeString(s.Key)
	if err != nil || len(key) != cryptox.KeySize {
		common.WipeByteArray(key)
		return models.Grant{}, nil, fmt.Errorf("snapshot key: %w", common.ErrInvalidInputLength)
	}

	return models.Grant{Token: s.Token, AccountID: s.AccountID, Email: s.Email, Salt: salt}, key, nil
}
