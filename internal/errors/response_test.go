package errors

import (
	"encoding/json"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, StatusFor(ProductNotFound))
	assert.Equal(t, http.StatusConflict, StatusFor(AuthEmailAlreadyExists))
	assert.Equal(t, http.StatusServiceUnavailable, StatusFor(InternalExternalAPI))
	assert.Equal(t, http.StatusInternalServerError, StatusFor("SOMETHING_NEW"))
}

func TestRespondWithParsedError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"not found", gorm.ErrRecordNotFound, http.StatusNotFound, ResourceNotFound},
		{"unavailable", stderrors.New("dial tcp: connection refused"), http.StatusServiceUnavailable, InternalExternalAPI},
		{"unknown", stderrors.New("boom"), http.StatusInternalServerError, InternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			RespondWithParsedError(c, tt.err, "order")

			assert.Equal(t, tt.wantStatus, w.Code)
			var body ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.wantCode, body.Error)
			assert.NotEmpty(t, body.Message)
		})
	}
}
