// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"strings"
)

var (
	ErrInvalidAdminKey = errors.New("invalid admin key")
	ErrInvalidVoterKey = errors.New("invalid voter key")
)

// GenerateAdminKey creates an HMAC-based admin key for an election
// This is deterministic and verifiable
func GenerateAdminKey(electionID, salt string) string {
	return sign(salt, electionID)
}

// ValidateAdminKey checks if the provided admin key is valid for the election
func ValidateAdminKey(electionID, adminKey, salt string) error {
	expected := GenerateAdminKey(electionID, salt)
	if !hmac.Equal([]byte(adminKey), []byte(expected)) {
		return ErrInvalidAdminKey
	}
	return nil
}

// GenerateVoterKey creates the key a voter presents to vote as address
// in one election. The NUL separator keeps (id, address) pairs distinct.
func GenerateVoterKey(electionID, address, salt string) string {
	return sign(salt, electionID+"\x00"+address)
}

// ValidateVoterKey checks that voterKey authenticates address in the election
func ValidateVoterKey(electionID, address, voterKey, salt string) error {
	if address == "" {
		return ErrInvalidVoterKey
	}
	expected := GenerateVoterKey(electionID, address, salt)
	if !hmac.Equal([]byte(voterKey), []byte(expected)) {
		return ErrInvalidVoterKey
	}
	return nil
}

func sign(salt, msg string) string {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(msg))
	sum := h.Sum(nil)
	// Use URL-safe base64 and trim padding for cleaner keys
	return strings.TrimRight(base64.URLEncoding.EncodeToString(sum), "=")
}
