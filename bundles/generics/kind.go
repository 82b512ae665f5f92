package generics

import (
	"net/http"

	"github.com/gazebo-web/gz-go/v7"
)

// Kind classifies a failed operation.
type Kind string

// Failure kinds reported in the result envelope.
const (
	KindNotFound        Kind = "NOT_FOUND"
	KindForbidden       Kind = "FORBIDDEN"
	KindValidation      Kind = "VALIDATION_FAILED"
	KindAlreadyActive   Kind = "ALREADY_ACTIVE"
	KindUnauthenticated Kind = "UNAUTHENTICATED"
	KindInternal        Kind = "INTERNAL"
)

// KindOf maps a gz error code to its failure kind. Unknown codes are INTERNAL.
func KindOf(em *gz.ErrMsg) Kind {
	switch em.ErrCode {
	case gz.ErrorNameNotFound, gz.ErrorIDNotFound, gz.ErrorUserUnknown,
		gz.ErrorNonExistentResource, gz.ErrorFileNotFound:
		return KindNotFound
	case gz.ErrorUnauthorized:
		return KindForbidden
	case gz.ErrorAuthJWTInvalid, gz.ErrorAuthNoUser:
		return KindUnauthenticated
	case gz.ErrorFormInvalidValue, gz.ErrorUnmarshalJSON, gz.ErrorMissingField,
		gz.ErrorInvalidPaginationRequest, gz.ErrorIDNotInRequest, gz.ErrorNameWrongFormat:
		return KindValidation
	case gz.ErrorResourceExists:
		return KindAlreadyActive
	}
	return KindInternal
}

// StatusCode returns the HTTP status used for the kind.
func (k Kind) StatusCode() int {
	switch k {
	case KindNotFound:
		return http.StatusNotFound
	case KindForbidden:
		return http.StatusForbidden
	case KindValidation:
		return http.StatusBadRequest
	case KindAlreadyActive:
		return http.StatusUnprocessableEntity
	case KindUnauthenticated:
		return http.StatusUnauthorized
	}
	return http.StatusInternalServerError
}
