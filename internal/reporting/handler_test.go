package reporting

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockService struct{ mock.Mock }

func (m *MockService) Dashboard(ctx context.Context, now time.Time) (*Dashboard, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Dashboard), args.Error(1)
}

func setupRouter(svc Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewHandler(svc, func() time.Time { return now })
	r.GET("/dashboard", h.Dashboard)
	return r
}

func TestHandler_Dashboard(t *testing.T) {
	svc := new(MockService)
	svc.On("Dashboard", mock.Anything, now).Return(&Dashboard{
		Totals:             Totals{TotalClients: 3},
		CompletedThisMonth: 2,
	}, nil)

	w := httptest.NewRecorder()
	setupRouter(svc).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/dashboard", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, float64(3), body["total_clients"])
	assert.Equal(t, float64(2), body["completed_this_month"])
}

func TestHandler_Dashboard_Error(t *testing.T) {
	svc := new(MockService)
	svc.On("Dashboard", mock.Anything, now).Return(nil, errors.New("db down"))

	w := httptest.NewRecorder()
	setupRouter(svc).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/dashboard", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
