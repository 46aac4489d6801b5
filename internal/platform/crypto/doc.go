// Package crypto encrypts journal text at rest.
//
// AESGCM seals values with AES-256-GCM and a random nonce per value. Plaintext is used when no
// CONTENT_ENCRYPTION_KEY is configured.
package crypto
