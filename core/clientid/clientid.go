// Copyright 2025 - 2026, the InkPost contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package clientid issues and verifies the signed identifier a browser carries
in its Client cookie.

The identifier is a random UUID wrapped in a v4.public paseto token. Stored
configs are namespaced by it, so a token that fails verification is treated
as no token at all and the caller gets a fresh identifier.
*/
package clientid

import (
	"errors"
	"fmt"
	"time"

	"aidanwoods.dev/go-paseto"
	"github.com/google/uuid"
)

// Lifetime of an issued token. Reissued tokens keep the same identifier.
const Lifetime = 365 * 24 * time.Hour

const (
	// implicit is the domain separation assertion. Changing it invalidates every issued token.
	implicit = "InkPost editor client"
	subject  = "editor client"
	claimID  = "cid"
)

var ErrInvalidToken = errors.New("invalid client token")

var parser = paseto.MakeParser([]paseto.Rule{
	paseto.NotExpired(),
	paseto.Subject(subject),
})

// Signer signs and verifies client tokens with one v4.public key pair.
type Signer struct {
	key paseto.V4AsymmetricSecretKey
}

// NewSecretKeyHex generates a secret key in the form LoadSigner accepts.
func NewSecretKeyHex() string {
	return paseto.NewV4AsymmetricSecretKey().ExportHex()
}

// LoadSigner parses a hex encoded v4 secret key.
func LoadSigner(hex string) (*Signer, error) {
	key, err := paseto.NewV4AsymmetricSecretKeyFromHex(hex)
	if err != nil {
		return nil, err
	}

	return &Signer{key: key}, nil
}

// NewEphemeralSigner uses a fresh key. Its tokens stop verifying when the process exits.
func NewEphemeralSigner() *Signer {
	return &Signer{key: paseto.NewV4AsymmetricSecretKey()}
}

// New returns a fresh client identifier.
func New() string {
	return uuid.NewString()
}

// Issue signs id into a token valid for Lifetime from now.
func (s *Signer) Issue(id string, now time.Time) string {
	token := paseto.NewToken()
	token.SetIssuedAt(now)
	token.SetNotBefore(now)
	token.SetExpiration(now.Add(Lifetime))
	token.SetSubject(subject)
	token.SetString(claimID, id)

	return token.V4Sign(s.key, []byte(implicit))
}

// Verify returns the identifier inside a token issued by s.
func (s *Signer) Verify(signed string) (string, error) {
	if signed == "" {
		return "", ErrInvalidToken
	}

	token, err := parser.ParseV4Public(s.key.Public(), signed, []byte(implicit))
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	id, err := token.GetString(claimID)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	if uuid.Validate(id) != nil {
		return "", fmt.Errorf("%w: malformed identifier", ErrInvalidToken)
	}

	return id, nil
}
