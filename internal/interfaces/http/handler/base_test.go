package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MadiMKHB/chemical-sales-dashboard/internal/domain/shared"
	"github.com/MadiMKHB/chemical-sales-dashboard/internal/interfaces/http/dto"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestSplitCodes(t *testing.T) {
	assert.Nil(t, splitCodes(""))
	assert.Equal(t, []string{"P-1", "P-2"}, splitCodes(" P-1, ,P-2 ,"))
}

func TestBaseHandler_HandleError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
		wantMsg    string
	}{
		{"not found", shared.NotFound("Customer C-9 not found"), http.StatusNotFound, dto.ErrCodeNotFound, "Customer C-9 not found"},
		{"invalid input", shared.InvalidInput("bad month"), http.StatusBadRequest, dto.ErrCodeValidation, "bad month"},
		{"upstream", shared.Upstream("warehouse query failed", errors.New("timeout")), http.StatusBadGateway, dto.ErrCodeUpstream, "warehouse query failed"},
		{"unavailable", shared.ErrUnavailable, http.StatusServiceUnavailable, dto.ErrCodeUnavailable, ""},
		{"plain error", errors.New("boom"), http.StatusInternalServerError, dto.ErrCodeInternal, "An unexpected error occurred"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(rec)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			var h BaseHandler
			h.HandleError(c, tt.err)

			assert.Equal(t, tt.wantStatus, rec.Code)
			var resp dto.Response
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			require.NotNil(t, resp.Error)
			assert.False(t, resp.Success)
			assert.Equal(t, tt.wantCode, resp.Error.Code)
			if tt.wantMsg != "" {
				assert.Equal(t, tt.wantMsg, resp.Error.Message)
			}
		})
	}
}
