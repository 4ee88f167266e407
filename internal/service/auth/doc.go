// Package auth issues and validates the JWT access tokens that authenticate
// API requests, and verifies user passwords against their bcrypt hashes.
package auth
