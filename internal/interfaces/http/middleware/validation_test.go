package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MadiMKHB/chemical-sales-dashboard/internal/interfaces/http/dto"
)

func TestValidations(t *testing.T) {
	v := validator.New()
	RegisterValidations(v)

	type query struct {
		Month     string `form:"month" validate:"omitempty,year_month"`
		Predicted string `json:"predicted" validate:"omitempty,prediction_month"`
	}

	assert.NoError(t, v.Struct(query{Month: "2025-07", Predicted: "2025_07"}))
	assert.NoError(t, v.Struct(query{}))

	err := v.Struct(query{Month: "2025_07", Predicted: "2025-07"})
	require.Error(t, err)
	resp := FormatValidationErrors(err, "req-1")
	require.NotNil(t, resp.Error)
	assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
	require.Len(t, resp.Error.Details, 2)
	assert.Equal(t, "month", resp.Error.Details[0].Field)
	assert.Equal(t, "Must be a month in YYYY-MM format", resp.Error.Details[0].Message)
	assert.Equal(t, "predicted", resp.Error.Details[1].Field)
}

func TestHandleValidationError_GinBinding(t *testing.T) {
	require.NoError(t, SetupValidator())

	router := gin.New()
	router.Use(RequestID())
	router.GET("/forecast", func(c *gin.Context) {
		var q dto.ForecastQuery
		if err := c.ShouldBindQuery(&q); err != nil {
			HandleValidationError(c, err)
			return
		}
		okHandler(c)
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/forecast?month=2025_07&customer=C-1&product=P-1", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/forecast?month=July&customer=C-1", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"field":"month"`)
	assert.Contains(t, rec.Body.String(), `"field":"product"`)
}

func TestFormatValidationErrors_Malformed(t *testing.T) {
	resp := FormatValidationErrors(assert.AnError, "req-2")
	require.NotNil(t, resp.Error)
	assert.Equal(t, dto.ErrCodeBadRequest, resp.Error.Code)
	assert.Equal(t, "req-2", resp.Error.RequestID)
}
