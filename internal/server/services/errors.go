package services

import "github.com/samber/oops"

// Kind classifies a flow failure. It travels as the oops error code.
type Kind string

const (
	KindValidationFailed       Kind = "VALIDATION_FAILED"
	KindDuplicateAccount       Kind = "DUPLICATE_ACCOUNT"
	KindHashingFailed          Kind = "HASHING_FAILED"
	KindPersistenceFailed      Kind = "PERSISTENCE_FAILED"
	KindStoreError             Kind = "STORE_ERROR"
	KindInvalidCredentials     Kind = "INVALID_CREDENTIALS"
	KindSecretDerivationFailed Kind = "SECRET_DERIVATION_FAILED"
	KindSigningFailed          Kind = "SIGNING_FAILED"
	KindVerifierPersistFailed  Kind = "VERIFIER_PERSIST_FAILED"
	KindTransportEncryptFailed Kind = "TRANSPORT_ENCRYPT_FAILED"
)

// KindOf returns the Kind carried by err, or "" for errors that did not
// come out of a flow.
func KindOf(err error) Kind {
	oopsErr, ok := oops.AsOops(err)
	if !ok {
		return ""
	}
	switch code := any(oopsErr.Code()).(type) {
	case Kind:
		return code
	case string:
		return Kind(code)
	default:
		return ""
	}
}

// Detail returns the public detail attached to a ValidationFailed or
// PersistenceFailed error.
func Detail(err error) string {
	oopsErr, ok := oops.AsOops(err)
	if !ok {
		return ""
	}
	if d, ok := oopsErr.Context()["detail"].(string); ok {
		return d
	}
	return ""
}

func fail(kind Kind) oops.OopsErrorBuilder {
	return oops.In("auth").Code(string(kind))
}
