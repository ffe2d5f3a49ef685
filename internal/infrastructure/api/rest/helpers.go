package rest

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// Envelope is the standard response shape for every handler in this package.
type Envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
}

// CursorPage is the pagination envelope for cursor-paginated list endpoints.
type CursorPage struct {
	Items   any    `json:"items"`
	Cursor  string `json:"cursor,omitempty"`
	HasMore bool   `json:"hasMore"`
}

// OffsetEnvelope is an offset-pagination envelope, distinct from the cursor shape used by
// the public API. No route currently responds with it (/internal/blocked-ips uses respondOK).
type OffsetEnvelope struct {
	Data any      `json:"data"`
	Meta MetaInfo `json:"meta"`
}

// MetaInfo carries offset-pagination bookkeeping.
type MetaInfo struct {
	Total  int `json:"total"`
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// respondOK writes a 200 success envelope carrying data.
func respondOK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, Envelope{Success: true, Data: data})
}

// respondCreated writes a 201 success envelope carrying the created resource.
func respondCreated(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, Envelope{Success: true, Data: data})
}

// respondNoContent writes a 204 with no body, used for delete/unfollow-style actions.
func respondNoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// respondPage writes a 200 success envelope carrying a cursor-paginated page.
func respondPage(c *gin.Context, items any, cursor string, hasMore bool) {
	respondOK(c, CursorPage{Items: items, Cursor: cursor, HasMore: hasMore})
}

// respondOffsetPage writes a 200 success envelope carrying an offset-paginated listing.
func respondOffsetPage(c *gin.Context, data any, total, limit, offset int) {
	c.JSON(http.StatusOK, OffsetEnvelope{Data: data, Meta: MetaInfo{Total: total, Limit: limit, Offset: offset}})
}

// respondError translates err into an APIError and writes its envelope, aborting the chain so
// no handler accidentally writes a second response afterward.
func respondError(c *gin.Context, err error) {
	apiErr := TranslateError(err)
	requestID := GetRequestID(c)
	message := apiErr.Message
	if requestID != "" && apiErr.Kind == KindInternalError {
		message = apiErr.Message + " (request_id: " + requestID + ")"
	}
	c.AbortWithStatusJSON(apiErr.HTTPStatus, Envelope{
		Success: false,
		Error:   string(apiErr.Kind),
		Message: message,
	})
}

// bindJSON binds the request body into dst, responding with a ValidationFailed envelope
// (field-by-field where the binder surfaces one) and returning false on failure.
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, Envelope{
			Success: false,
			Error:   string(KindValidationFailed),
			Message: validationMessage(err),
		})
		return false
	}
	return true
}

// validationMessage turns a validator.ValidationErrors into a human-readable, semicolon-joined
// field-by-field message; anything else (malformed JSON) gets a generic message.
func validationMessage(err error) string {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return "malformed request body"
	}
	msgs := make([]string, 0, len(ve))
	for _, fe := range ve {
		field := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("%s is required", field))
		case "uuid":
			msgs = append(msgs, fmt.Sprintf("%s must be a valid UUID", field))
		case "min":
			msgs = append(msgs, fmt.Sprintf("%s must be at least %s characters", field, fe.Param()))
		case "max":
			msgs = append(msgs, fmt.Sprintf("%s must be at most %s characters", field, fe.Param()))
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("%s must be one of: %s", field, fe.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s is invalid", field))
		}
	}
	return strings.Join(msgs, "; ")
}

// pagingParams reads limit/cursor query parameters with a default and ceiling on limit.
func pagingParams(c *gin.Context, defaultLimit, maxLimit int) (limit int, cursor string) {
	limit = defaultLimit
	if raw := c.Query("limit"); raw != "" {
		if n, err := parsePositiveInt(raw); err == nil && n > 0 {
			limit = n
		}
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	cursor = c.Query("cursor")
	return limit, cursor
}

func parsePositiveInt(s string) (int, error) {
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, errNotANumber
		}
		n = n*10 + int(r-'0')
	}
	return n, nil
}

var errNotANumber = &APIError{Kind: KindValidationFailed, Message: "not a number", HTTPStatus: http.StatusBadRequest}
