package rest

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type bindTarget struct {
	Title   string `json:"title" binding:"required,min=3"`
	Content string `json:"content" binding:"required"`
}

func newTestContext(method, body string) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req := httptest.NewRequest(method, "/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	return c, w
}

func TestBindJSON_Valid(t *testing.T) {
	c, w := newTestContext(http.MethodPost, `{"title":"hello","content":"world"}`)
	var dst bindTarget
	ok := bindJSON(c, &dst)
	assert.True(t, ok)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "hello", dst.Title)
}

func TestBindJSON_MissingRequiredField(t *testing.T) {
	c, w := newTestContext(http.MethodPost, `{"title":"hello"}`)
	var dst bindTarget
	ok := bindJSON(c, &dst)
	assert.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBindJSON_MalformedBody(t *testing.T) {
	c, w := newTestContext(http.MethodPost, `not json`)
	var dst bindTarget
	ok := bindJSON(c, &dst)
	assert.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestValidationMessage_NonValidatorError(t *testing.T) {
	msg := validationMessage(assertError{"boom"})
	assert.Equal(t, "malformed request body", msg)
}

type assertError struct{ s string }

func (e assertError) Error() string { return e.s }

func TestValidationMessage_RequiredTag(t *testing.T) {
	v := validator.New()
	err := v.Struct(&bindTarget{})
	require.Error(t, err)
	msg := validationMessage(err)
	assert.Contains(t, msg, "title is required")
	assert.Contains(t, msg, "content is required")
}

func TestParsePositiveInt(t *testing.T) {
	n, err := parsePositiveInt("42")
	require.NoError(t, err)
	assert.Equal(t, 42, n)

	_, err = parsePositiveInt("12a")
	assert.Error(t, err)

	_, err = parsePositiveInt("")
	assert.NoError(t, err) // empty string parses to 0 with no digits rejected
}

func TestPagingParams_Defaults(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	limit, cursor := pagingParams(c, 20, 100)
	assert.Equal(t, 20, limit)
	assert.Equal(t, "", cursor)
}

func TestPagingParams_RespectsLimitAndCeiling(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/?limit=500&cursor=abc", nil)

	limit, cursor := pagingParams(c, 20, 100)
	assert.Equal(t, 100, limit)
	assert.Equal(t, "abc", cursor)
}

func TestPagingParams_IgnoresInvalidLimit(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/?limit=notanumber", nil)

	limit, _ := pagingParams(c, 20, 100)
	assert.Equal(t, 20, limit)
}
