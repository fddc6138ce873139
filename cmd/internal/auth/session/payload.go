package session

import (
	"encoding/base64"
	"encoding/json"
	"strings"

	"vrme/cmd/security/token"
	v1 "vrme/shared/contracts/auth/v1"

	"github.com/google/uuid"
)

// maxBearerLen bounds the encoded payload; a valid one is well under 200 chars.
const maxBearerLen = 1024

// Payload is the credential a client presents on every protected request.
type Payload struct {
	AccountID uuid.UUID `json:"account_id"`
	Token     string    `json:"token"`
}

// wirePayload uses pointers so absent fields are distinguishable from zero values.
type wirePayload struct {
	AccountID *uuid.UUID `json:"account_id"`
	Token     *string    `json:"token"`
}

// EncodePayload returns the bearer value for accountID and the token's text form.
func EncodePayload(accountID uuid.UUID, tok string) string {
	return v1.EncodeBearer(accountID, tok)
}

// DecodePayload parses a bearer value. Every failure is KindInvalidFormat.
func DecodePayload(raw string) (Payload, error) {
	const op = "session.DecodePayload"

	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Payload{}, invalidFormat(op, "empty bearer value", nil)
	}
	if len(raw) > maxBearerLen {
		return Payload{}, invalidFormat(op, "bearer value too long", nil)
	}

	b, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return Payload{}, invalidFormat(op, "bearer value is not base64", err)
	}

	var w wirePayload
	if err := json.Unmarshal(b, &w); err != nil {
		return Payload{}, invalidFormat(op, "bearer payload is not a JSON object", err)
	}
	if w.AccountID == nil || *w.AccountID == uuid.Nil {
		return Payload{}, invalidFormat(op, "account_id is required", nil)
	}
	if w.Token == nil {
		return Payload{}, invalidFormat(op, "token is required", nil)
	}

	// Length is checked on its own so a well-formed but wrong-size token never reaches the store.
	if len(*w.Token) != token.EncodedLength {
		return Payload{}, invalidFormat(op, "token has the wrong length", nil)
	}
	if _, err := token.Decode(*w.Token); err != nil {
		return Payload{}, invalidFormat(op, "token is not valid base64", err)
	}

	return Payload{AccountID: *w.AccountID, Token: *w.Token}, nil
}
