package router

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/polkiloo/gopherdine/internal/domain/model"
	"github.com/polkiloo/gopherdine/internal/server/http/handlers"
	testhelpers "github.com/polkiloo/gopherdine/internal/test"
)

func TestSetupRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	facade := testhelpers.DineFacadeStub{
		OrderFacadeStub: testhelpers.OrderFacadeStub{
			OrdersFn: func(context.Context, int64) ([]model.Order, error) {
				return []model.Order{{OrderNumber: "1", Status: model.OrderStatusReady, GrossTotal: decimal.NewFromInt(5), CreatedAt: time.Unix(0, 0)}}, nil
			},
		},
	}
	engine := Setup(facade, logger)

	body, _ := json.Marshal(map[string]string{"login": "user", "password": "pass"})
	req := httptest.NewRequest(http.MethodPost, "/api/user/register", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	engine.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200 for register, got %d", resp.Code)
	}

	authorized := []struct {
		method string
		path   string
		body   string
		status int
	}{
		{http.MethodGet, "/api/user/orders", "", http.StatusOK},
		{http.MethodGet, "/api/user/cart", "", http.StatusOK},
		{http.MethodPost, "/api/user/cart", `{"product_id":1,"unit_price":10,"quantity":1}`, http.StatusCreated},
		{http.MethodPost, "/api/user/checkout", `{"payment":{"method":"CARD"}}`, http.StatusOK},
		{http.MethodGet, "/api/user/wallet", "", http.StatusOK},
		{http.MethodPost, "/api/user/loyalty/redeem", "", http.StatusOK},
	}

	for _, tc := range authorized {
		var reader io.Reader
		if tc.body != "" {
			reader = bytes.NewReader([]byte(tc.body))
		}
		req = httptest.NewRequest(tc.method, tc.path, reader)
		req.Header.Set("Authorization", "Bearer token")
		req.Header.Set("Content-Type", "application/json")
		resp = httptest.NewRecorder()
		engine.ServeHTTP(resp, req)
		if resp.Code != tc.status {
			t.Fatalf("%s %s: expected status %d, got %d", tc.method, tc.path, tc.status, resp.Code)
		}
	}
}

func TestSetupRequiresAuthentication(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := Setup(testhelpers.DineFacadeStub{}, slog.New(slog.NewJSONHandler(io.Discard, nil)))

	for _, path := range []string{"/api/user/orders", "/api/user/wallet", "/api/user/cart"} {
		resp := httptest.NewRecorder()
		engine.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, path, nil))
		if resp.Code != http.StatusUnauthorized {
			t.Fatalf("%s: expected 401 without token, got %d", path, resp.Code)
		}
	}
}

var _ handlers.DineFacade = testhelpers.DineFacadeStub{}
