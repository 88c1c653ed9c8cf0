// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides the caller authentication used by the HTTP layer.

# Admin Keys

Admin keys use HMAC-SHA256 to create deterministic, verifiable keys:

	adminKey := auth.GenerateAdminKey(electionID, salt)
	err := auth.ValidateAdminKey(electionID, adminKey, salt)

The key is URL-safe base64 encoded without padding. Since it's deterministic,
the same election ID and salt always produce the same key. This allows
validation without storing the key.

# Voter Keys

Voter keys bind a voter address to one election:

	voterKey := auth.GenerateVoterKey(electionID, address, salt)
	err := auth.ValidateVoterKey(electionID, address, voterKey, salt)

A request carrying a valid voter key for its X-Voter-Address header is
treated as coming from that address. The election core trusts the address
as given and decides eligibility on its own.
*/
package auth
