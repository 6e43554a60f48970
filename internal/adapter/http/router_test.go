package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/cafehenola/ledger/internal/adapter/http/handler"
	apimiddleware "github.com/cafehenola/ledger/internal/adapter/http/middleware"
	"github.com/cafehenola/ledger/internal/domain"
	"github.com/cafehenola/ledger/internal/infrastructure/auth"
	"github.com/cafehenola/ledger/internal/usecase"
	"github.com/cafehenola/ledger/internal/usecase/mocks"
)

type routerFixture struct {
	cfg            RouterConfig
	obligationRepo *mocks.MockObligationRepository
}

func newRouterFixture(overrides ...func(cfg *RouterConfig)) *routerFixture {
	obligationRepo := mocks.NewMockObligationRepository()
	movementRepo := mocks.NewMockMovementRepository()
	batchRepo := mocks.NewMockLiquidationRepository()
	txMgr := mocks.NewMockTransactionManager()
	idGen := mocks.NewMockIDGenerator()

	obligationUC := usecase.NewObligationUseCase(txMgr, obligationRepo, nil, idGen, nil)
	ledgerUC := usecase.NewLedgerUseCase(txMgr, obligationRepo, movementRepo, nil, idGen, nil)
	balanceUC := usecase.NewBalanceUseCase(obligationRepo, movementRepo, nil)
	liquidationUC := usecase.NewLiquidationUseCase(txMgr, mocks.NewMockRetrier(), obligationRepo, movementRepo, batchRepo, nil, idGen, nil)

	cfg := RouterConfig{
		ObligationHandler:  handler.NewObligationHandler(obligationUC),
		LedgerHandler:      handler.NewLedgerHandler(ledgerUC, balanceUC),
		LiquidationHandler: handler.NewLiquidationHandler(liquidationUC),
		HealthHandler:      handler.NewHealthHandler(nil, nil),
	}

	for _, override := range overrides {
		override(&cfg)
	}

	return &routerFixture{cfg: cfg, obligationRepo: obligationRepo}
}

func TestNewRouter_HealthEndpointAvailable(t *testing.T) {
	router := NewRouter(newRouterFixture().cfg)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected /health to return 200, got %d", rec.Code)
	}
}

func TestNewRouter_RegistersKeyRoutes(t *testing.T) {
	router := NewRouter(newRouterFixture().cfg)

	chiRoutes, ok := router.(chi.Router)
	if !ok {
		t.Fatal("router does not implement chi.Router")
	}

	seen := map[string]bool{}
	if err := chi.Walk(chiRoutes, func(method string, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		seen[method+" "+route] = true
		return nil
	}); err != nil {
		t.Fatalf("walk failed: %v", err)
	}

	expected := []string{
		"GET /health",
		"GET /ready",
		"POST /api/v1/obligations/",
		"GET /api/v1/obligations/",
		"GET /api/v1/obligations/{id}",
		"PUT /api/v1/obligations/{id}/status",
		"GET /api/v1/obligations/{id}/balance",
		"POST /api/v1/obligations/{id}/movements",
		"POST /api/v1/obligations/{id}/movements/import",
		"POST /api/v1/obligations/{id}/liquidations",
		"POST /api/v1/movements/{id}/void",
		"POST /api/v1/liquidations/{id}/void",
	}

	for _, route := range expected {
		if !seen[route] {
			t.Errorf("route %s not registered", route)
		}
	}
}

func TestNewRouter_RateLimiterBlocksExcessRequests(t *testing.T) {
	rl := apimiddleware.NewRateLimiter(1, 1, nil)
	router := NewRouter(newRouterFixture(func(cfg *RouterConfig) {
		cfg.RateLimiter = rl
	}).cfg)

	req1 := httptest.NewRequest(http.MethodGet, "/health", nil)
	req1.RemoteAddr = "1.2.3.4:1234"
	rec1 := httptest.NewRecorder()
	router.ServeHTTP(rec1, req1)
	if rec1.Code != http.StatusOK {
		t.Fatalf("expected first request to succeed, got %d", rec1.Code)
	}

	req2 := httptest.NewRequest(http.MethodGet, "/health", nil)
	req2.RemoteAddr = "1.2.3.4:1234"
	rec2 := httptest.NewRecorder()
	router.ServeHTTP(rec2, req2)
	if rec2.Code != http.StatusTooManyRequests {
		t.Fatalf("expected second request to be throttled, got %d", rec2.Code)
	}
}

type stubIdempotencyStore struct {
	checkCalled bool
}

func (s *stubIdempotencyStore) CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
	s.checkCalled = true
	return false, nil, nil
}

func (s *stubIdempotencyStore) Update(ctx context.Context, key string, response []byte, ttl time.Duration) error {
	return nil
}

func TestNewRouter_IdempotencyMiddlewareInvokesStore(t *testing.T) {
	store := &stubIdempotencyStore{}
	router := NewRouter(newRouterFixture(func(cfg *RouterConfig) {
		cfg.IdempotencyStore = store
	}).cfg)

	body := `{"kind":"contract","counterparty_id":"cp-1","product_id":"cafe","committed_qty":"50","unit_price":"812.50"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/obligations/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(apimiddleware.IdempotencyKeyHeader, "key-123")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if !store.checkCalled {
		t.Fatalf("expected idempotency store to be used")
	}
}

func TestNewRouter_AuthGating(t *testing.T) {
	jwtManager := auth.NewJWTManager("test-secret", time.Minute)
	f := newRouterFixture(func(cfg *RouterConfig) {
		cfg.JWTManager = jwtManager
		cfg.AuthEnabled = true
	})
	f.obligationRepo.Seed(&domain.Obligation{
		ID:           "ob-1",
		CommittedQty: decimal.NewFromInt(50),
		Status:       domain.StatusPending,
	})
	router := NewRouter(f.cfg)

	tokenFor := func(role domain.Role) string {
		token, err := jwtManager.Generate(&domain.User{ID: "u-1", Role: role})
		if err != nil {
			t.Fatalf("generate token: %v", err)
		}
		return "Bearer " + token
	}

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		token  string
		want   int
	}{
		{
			name:   "no token rejected",
			method: http.MethodGet,
			path:   "/api/v1/obligations/ob-1",
			want:   http.StatusUnauthorized,
		},
		{
			name:   "auditor can read",
			method: http.MethodGet,
			path:   "/api/v1/obligations/ob-1",
			token:  tokenFor(domain.RoleAuditores),
			want:   http.StatusOK,
		},
		{
			name:   "auditor cannot record movements",
			method: http.MethodPost,
			path:   "/api/v1/obligations/ob-1/movements",
			body:   `{"quantity":"10"}`,
			token:  tokenFor(domain.RoleAuditores),
			want:   http.StatusForbidden,
		},
		{
			name:   "operator can record movements",
			method: http.MethodPost,
			path:   "/api/v1/obligations/ob-1/movements",
			body:   `{"quantity":"10"}`,
			token:  tokenFor(domain.RoleOperarios),
			want:   http.StatusCreated,
		},
		{
			name:   "operator cannot void",
			method: http.MethodPost,
			path:   "/api/v1/movements/mv-1/void",
			token:  tokenFor(domain.RoleOperarios),
			want:   http.StatusForbidden,
		},
		{
			name:   "manager void of unknown movement maps to 404",
			method: http.MethodPost,
			path:   "/api/v1/movements/mv-1/void",
			token:  tokenFor(domain.RoleGerencia),
			want:   http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var body *strings.Reader
			if tt.body != "" {
				body = strings.NewReader(tt.body)
			} else {
				body = strings.NewReader("")
			}

			req := httptest.NewRequest(tt.method, tt.path, body)
			req.Header.Set("Content-Type", "application/json")
			if tt.token != "" {
				req.Header.Set("Authorization", tt.token)
			}

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			if rec.Code != tt.want {
				t.Fatalf("%s %s = %d, want %d (body: %s)", tt.method, tt.path, rec.Code, tt.want, rec.Body)
			}
		})
	}
}
