package rest

import (
	"errors"
	"net/http"

	"github.com/agoraforge/agora/pkg/models"
)

// ErrorKind is the machine-readable error discriminant carried on every error response.
type ErrorKind string

const (
	KindValidationFailed ErrorKind = "ValidationFailed"
	KindUnauthorized     ErrorKind = "Unauthorized"
	KindForbidden        ErrorKind = "Forbidden"
	KindNotFound         ErrorKind = "NotFound"
	KindConflict         ErrorKind = "Conflict"
	KindRateLimited      ErrorKind = "RateLimited"
	KindDependencyFailed ErrorKind = "DependencyFailed"
	KindInternalError    ErrorKind = "InternalError"
)

// APIError is the shape of an error carried in an envelope's error/message fields, plus the
// bookkeeping (Kind, HTTPStatus) needed to render it.
type APIError struct {
	Kind       ErrorKind `json:"-"`
	Message    string    `json:"-"`
	HTTPStatus int       `json:"-"`
}

func (e *APIError) Error() string {
	return e.Message
}

// NewAPIError builds an APIError from its three parts.
func NewAPIError(kind ErrorKind, message string, httpStatus int) *APIError {
	return &APIError{Kind: kind, Message: message, HTTPStatus: httpStatus}
}

// TranslateError maps a domain/application error into an APIError, via a sentinel dispatch
// table first and a few structural-type checks second, falling back to InternalError for
// anything unrecognized so internals never leak to a caller.
func TranslateError(err error) *APIError {
	if err == nil {
		return nil
	}

	if apiErr, ok := err.(*APIError); ok {
		return apiErr
	}

	var valErrs models.ValidationErrors
	if errors.As(err, &valErrs) {
		return NewAPIError(KindValidationFailed, valErrs.Error(), http.StatusBadRequest)
	}
	var valErr *models.ValidationError
	if errors.As(err, &valErr) {
		return NewAPIError(KindValidationFailed, valErr.Error(), http.StatusBadRequest)
	}
	var depErr *models.DependencyError
	if errors.As(err, &depErr) {
		return NewAPIError(KindDependencyFailed, depErr.Error(), http.StatusBadGateway)
	}

	for sentinel, apiErr := range sentinelDispatch {
		if errors.Is(err, sentinel) {
			return apiErr
		}
	}

	return NewAPIError(KindInternalError, "internal server error", http.StatusInternalServerError)
}

// sentinelDispatch maps pkg/models sentinel errors onto their API error kind and HTTP status.
// Keyed by the sentinel itself (not its string) so errors.Is matches through wrapping.
var sentinelDispatch = map[error]*APIError{
	models.ErrValidationFailed:     NewAPIError(KindValidationFailed, "validation failed", http.StatusBadRequest),
	models.ErrRequired:             NewAPIError(KindValidationFailed, "required field is missing", http.StatusBadRequest),
	models.ErrInvalidID:            NewAPIError(KindValidationFailed, "invalid id format", http.StatusBadRequest),

	models.ErrUnauthorized:  NewAPIError(KindUnauthorized, "unauthorized", http.StatusUnauthorized),
	models.ErrInvalidToken:  NewAPIError(KindUnauthorized, "invalid token", http.StatusUnauthorized),
	models.ErrTokenExpired:  NewAPIError(KindUnauthorized, "token expired", http.StatusUnauthorized),
	models.ErrForbidden:     NewAPIError(KindForbidden, "forbidden", http.StatusForbidden),

	models.ErrUserNotFound:             NewAPIError(KindNotFound, "user not found", http.StatusNotFound),
	models.ErrPostNotFound:             NewAPIError(KindNotFound, "post not found", http.StatusNotFound),
	models.ErrReplyNotFound:            NewAPIError(KindNotFound, "reply not found", http.StatusNotFound),
	models.ErrParentNotFound:           NewAPIError(KindNotFound, "parent reply not found", http.StatusNotFound),
	models.ErrVoteNotFound:             NewAPIError(KindNotFound, "vote not found", http.StatusNotFound),
	models.ErrFollowNotFound:           NewAPIError(KindNotFound, "follow not found", http.StatusNotFound),
	models.ErrNotificationNotFound:     NewAPIError(KindNotFound, "notification not found", http.StatusNotFound),
	models.ErrAnalysisRunNotFound:      NewAPIError(KindNotFound, "analysis run not found", http.StatusNotFound),
	models.ErrINodeNotFound:            NewAPIError(KindNotFound, "interpretive node not found", http.StatusNotFound),
	models.ErrSNodeNotFound:            NewAPIError(KindNotFound, "scheme node not found", http.StatusNotFound),
	models.ErrEnthymemeNotFound:        NewAPIError(KindNotFound, "enthymeme not found", http.StatusNotFound),
	models.ErrSocraticQuestionNotFound: NewAPIError(KindNotFound, "socratic question not found", http.StatusNotFound),
	models.ErrConceptNodeNotFound:      NewAPIError(KindNotFound, "concept node not found", http.StatusNotFound),
	models.ErrSourceNotFound:           NewAPIError(KindNotFound, "source not found", http.StatusNotFound),
	models.ErrBatchRunNotFound:         NewAPIError(KindNotFound, "batch pipeline run not found", http.StatusNotFound),
	models.ErrCheckpointNotFound:       NewAPIError(KindNotFound, "batch checkpoint not found", http.StatusNotFound),
	models.ErrNotFound:                 NewAPIError(KindNotFound, "resource not found", http.StatusNotFound),

	models.ErrUserExists:         NewAPIError(KindConflict, "user already exists", http.StatusConflict),
	models.ErrAlreadyVoted:       NewAPIError(KindConflict, "already voted", http.StatusConflict),
	models.ErrAlreadyFollowing:   NewAPIError(KindConflict, "already following", http.StatusConflict),
	models.ErrCannotFollowSelf:   NewAPIError(KindForbidden, "cannot follow self", http.StatusForbidden),
	models.ErrAnalysisRunConflict: NewAPIError(KindConflict, "analysis run already in progress", http.StatusConflict),
	models.ErrCheckpointIncomplete: NewAPIError(KindConflict, "checkpoint stage incomplete", http.StatusConflict),
	models.ErrConflict:           NewAPIError(KindConflict, "resource conflict", http.StatusConflict),

	models.ErrRateLimited:      NewAPIError(KindRateLimited, "rate limit exceeded", http.StatusTooManyRequests),
	models.ErrDependencyFailed: NewAPIError(KindDependencyFailed, "dependency call failed", http.StatusBadGateway),
	models.ErrInternal:         NewAPIError(KindInternalError, "internal error", http.StatusInternalServerError),
}
