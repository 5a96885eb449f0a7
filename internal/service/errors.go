package service

import "errors"

var (
	ErrClientNotFound = errors.New("client not found")
	ErrClientInactive = errors.New("client is not active")

	// ErrCredentialRejected marks a platform response that means the
	// stored credential is no longer usable (revoked or expired on the
	// platform side). The connection gets flagged for re-authorization.
	ErrCredentialRejected = errors.New("platform rejected the stored credential")
)
