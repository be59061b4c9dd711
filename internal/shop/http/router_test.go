package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	nethttp "net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tillroom/shopd/internal/shop/cache"
	"github.com/tillroom/shopd/internal/shop/domain"
	"github.com/tillroom/shopd/internal/shop/service"
	"github.com/tillroom/shopd/internal/shop/store"
	"github.com/tillroom/shopd/internal/shop/store/drivers/sqlite"
	"github.com/tillroom/shopd/pkg/cryptox"
	"github.com/tillroom/shopd/pkg/idx"
	"github.com/tillroom/shopd/pkg/jwtx"
	"github.com/tillroom/shopd/pkg/slogx"
)

type captureDispatcher struct {
	mu    sync.Mutex
	codes []string
}

func (d *captureDispatcher) SendCode(ctx context.Context, email, code string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.codes = append(d.codes, code)
	return nil
}

func (d *captureDispatcher) last() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.codes) == 0 {
		return ""
	}
	return d.codes[len(d.codes)-1]
}

type testEnv struct {
	server     *httptest.Server
	store      store.Store
	dispatcher *captureDispatcher
	company    domain.Company
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	c := cache.NewMemory()
	dispatcher := &captureDispatcher{}

	hs, err := jwtx.NewHS256([]byte("0123456789abcdef0123456789abcdef"), "shopd-test")
	require.NoError(t, err)

	sessions := service.NewSessionManager(c, 0)
	auth := &service.AuthService{
		Store:    st,
		OTP:      service.NewOTPManager(c, dispatcher, 0),
		Sessions: sessions,
		Signer:   hs,
		Issuer:   "shopd-test",
	}
	gate := &service.Gate{Verifier: hs, Sessions: sessions}

	router := NewRouter(gate, "test", 0, st, slogx.New(slogx.Config{Level: "error"}))
	router.AuthService = auth
	router.UserService = &service.UserService{Store: st}
	router.CompanyService = &service.CompanyService{Store: st}
	router.InventoryService = &service.InventoryService{Store: st}
	router.OrderService = &service.OrderService{Store: st}
	router.ApplyRoutes()

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	company := domain.Company{ID: idx.New().String(), Name: "Tillroom Pty Ltd"}
	require.NoError(t, st.Companies().CreateCompany(context.Background(), company))

	return &testEnv{server: server, store: st, dispatcher: dispatcher, company: company}
}

func (e *testEnv) seedUser(t *testing.T, email, password string, role domain.Role) domain.User {
	t.Helper()

	cryptox.SetPepperPath(t.TempDir() + "/pepper")
	hash, err := cryptox.HashPassword(password)
	require.NoError(t, err)

	u := domain.User{
		ID:           idx.New().String(),
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		Status:       domain.AccountActive,
		CompanyID:    e.company.ID,
	}
	require.NoError(t, e.store.Users().CreateUser(context.Background(), u))
	return u
}

func (e *testEnv) request(t *testing.T, method, path, token string, body any) (*nethttp.Response, map[string]any) {
	t.Helper()

	var payload io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		payload = bytes.NewReader(raw)
	}

	req, err := nethttp.NewRequest(method, e.server.URL+path, payload)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := e.server.Client().Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })

	var decoded map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&decoded)
	return resp, decoded
}

// requestList is request for endpoints that respond with a JSON array.
func (e *testEnv) requestList(t *testing.T, path, token string) (*nethttp.Response, []map[string]any) {
	t.Helper()

	req, err := nethttp.NewRequest("GET", e.server.URL+path, nil)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := e.server.Client().Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })

	var decoded []map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&decoded)
	return resp, decoded
}

// login walks both steps of the login protocol and returns the session token.
func (e *testEnv) login(t *testing.T, email, password string) string {
	t.Helper()

	resp, body := e.request(t, "POST", "/v1/auth/login", "", map[string]string{
		"email": email, "password": password,
	})
	require.Equal(t, nethttp.StatusOK, resp.StatusCode)
	require.Equal(t, true, body["requires_otp"])

	resp, body = e.request(t, "POST", "/v1/auth/mfa", "", map[string]string{
		"user_id": body["user_id"].(string), "code": e.dispatcher.last(),
	})
	require.Equal(t, nethttp.StatusOK, resp.StatusCode)
	require.Equal(t, "Bearer", body["token_type"])
	return body["access_token"].(string)
}

func TestLoginFlowOverHTTP(t *testing.T) {
	env := newTestEnv(t)
	user := env.seedUser(t, "admin@example.com", "Sup3r-Secret-Pass!", domain.RoleAdmin)

	token := env.login(t, "admin@example.com", "Sup3r-Secret-Pass!")

	t.Run("userinfo reflects the identity", func(t *testing.T) {
		resp, body := env.request(t, "GET", "/v1/auth/userinfo", token, nil)
		require.Equal(t, nethttp.StatusOK, resp.StatusCode)
		require.Equal(t, user.ID, body["user_id"])
		require.Equal(t, "admin", body["role"])
	})

	t.Run("logout revokes the session", func(t *testing.T) {
		resp, _ := env.request(t, "POST", "/v1/auth/logout", token, nil)
		require.Equal(t, nethttp.StatusNoContent, resp.StatusCode)

		resp, _ = env.request(t, "GET", "/v1/auth/userinfo", token, nil)
		require.Equal(t, nethttp.StatusUnauthorized, resp.StatusCode)
	})
}

func TestLoginRejectionsOverHTTP(t *testing.T) {
	env := newTestEnv(t)
	user := env.seedUser(t, "admin@example.com", "Sup3r-Secret-Pass!", domain.RoleAdmin)

	t.Run("bad password", func(t *testing.T) {
		resp, body := env.request(t, "POST", "/v1/auth/login", "", map[string]string{
			"email": "admin@example.com", "password": "wrong",
		})
		require.Equal(t, nethttp.StatusUnauthorized, resp.StatusCode)
		require.Equal(t, "authentication_error", body["error"])
	})

	t.Run("bad code", func(t *testing.T) {
		resp, _ := env.request(t, "POST", "/v1/auth/mfa", "", map[string]string{
			"user_id": user.ID, "code": "WRONG1",
		})
		require.Equal(t, nethttp.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("missing token", func(t *testing.T) {
		resp, _ := env.request(t, "GET", "/v1/auth/userinfo", "", nil)
		require.Equal(t, nethttp.StatusUnauthorized, resp.StatusCode)
	})
}

func TestRoleEnforcementOverHTTP(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "customer@example.com", "Sup3r-Secret-Pass!", domain.RoleCustomer)

	token := env.login(t, "customer@example.com", "Sup3r-Secret-Pass!")

	t.Run("customers cannot create inventory", func(t *testing.T) {
		resp, body := env.request(t, "POST", "/v1/inventory", token, map[string]any{
			"name": "widget", "quantity": 1, "price": 1.0,
		})
		require.Equal(t, nethttp.StatusForbidden, resp.StatusCode)
		require.Equal(t, "authorization_error", body["error"])
	})

	t.Run("customers can list inventory", func(t *testing.T) {
		resp, _ := env.request(t, "GET", "/v1/inventory", token, nil)
		require.Equal(t, nethttp.StatusOK, resp.StatusCode)
	})
}

func TestInventoryAndOrdersOverHTTP(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "clerk@example.com", "Sup3r-Secret-Pass!", domain.RoleClerk)
	customer := env.seedUser(t, "customer@example.com", "Sup3r-Secret-Pass!", domain.RoleCustomer)

	clerkToken := env.login(t, "clerk@example.com", "Sup3r-Secret-Pass!")

	resp, item := env.request(t, "POST", "/v1/inventory", clerkToken, map[string]any{
		"name": "widget", "category": "hardware", "quantity": 10, "price": 9.99,
	})
	require.Equal(t, nethttp.StatusCreated, resp.StatusCode)
	itemID := item["item_id"].(string)

	customerToken := env.login(t, "customer@example.com", "Sup3r-Secret-Pass!")

	resp, order := env.request(t, "POST", "/v1/orders", customerToken, map[string]any{
		"lines": []map[string]any{{"item_id": itemID, "quantity": 2}},
	})
	require.Equal(t, nethttp.StatusCreated, resp.StatusCode)
	require.Equal(t, "placed", order["status"])
	require.Equal(t, customer.ID, order["user_id"])
	orderID := order["order_id"].(string)

	t.Run("stock was reserved", func(t *testing.T) {
		resp, _ := env.request(t, "GET", "/v1/inventory", customerToken, nil)
		require.Equal(t, nethttp.StatusOK, resp.StatusCode)

		item, err := env.store.Inventory().GetItemByID(context.Background(), env.company.ID, itemID)
		require.NoError(t, err)
		require.Equal(t, int64(8), item.Quantity)
	})

	t.Run("owner can read the order", func(t *testing.T) {
		resp, got := env.request(t, "GET", "/v1/orders/"+orderID, customerToken, nil)
		require.Equal(t, nethttp.StatusOK, resp.StatusCode)
		require.Equal(t, orderID, got["order_id"])
	})

	t.Run("staff can advance the status", func(t *testing.T) {
		resp, got := env.request(t, "PATCH", "/v1/orders/"+orderID+"/status", clerkToken, map[string]string{
			"status": "shipped",
		})
		require.Equal(t, nethttp.StatusOK, resp.StatusCode)
		require.Equal(t, "shipped", got["status"])
	})

	t.Run("customers cannot change status", func(t *testing.T) {
		resp, _ := env.request(t, "PATCH", "/v1/orders/"+orderID+"/status", customerToken, map[string]string{
			"status": "completed",
		})
		require.Equal(t, nethttp.StatusForbidden, resp.StatusCode)
	})

	t.Run("insufficient stock is a validation error", func(t *testing.T) {
		resp, body := env.request(t, "POST", "/v1/orders", customerToken, map[string]any{
			"lines": []map[string]any{{"item_id": itemID, "quantity": 1000}},
		})
		require.Equal(t, nethttp.StatusBadRequest, resp.StatusCode)
		require.Equal(t, "validation_error", body["error"])
	})
}

func TestOrderOwnershipOverHTTP(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "clerk@example.com", "Sup3r-Secret-Pass!", domain.RoleClerk)
	env.seedUser(t, "alice@example.com", "Sup3r-Secret-Pass!", domain.RoleCustomer)
	env.seedUser(t, "bob@example.com", "Sup3r-Secret-Pass!", domain.RoleCustomer)

	clerkToken := env.login(t, "clerk@example.com", "Sup3r-Secret-Pass!")
	resp, item := env.request(t, "POST", "/v1/inventory", clerkToken, map[string]any{
		"name": "widget", "quantity": 5, "price": 9.99,
	})
	require.Equal(t, nethttp.StatusCreated, resp.StatusCode)

	aliceToken := env.login(t, "alice@example.com", "Sup3r-Secret-Pass!")
	resp, order := env.request(t, "POST", "/v1/orders", aliceToken, map[string]any{
		"lines": []map[string]any{{"item_id": item["item_id"], "quantity": 1}},
	})
	require.Equal(t, nethttp.StatusCreated, resp.StatusCode)
	orderID := order["order_id"].(string)

	t.Run("another customer cannot read it", func(t *testing.T) {
		bobToken := env.login(t, "bob@example.com", "Sup3r-Secret-Pass!")
		resp, _ := env.request(t, "GET", "/v1/orders/"+orderID, bobToken, nil)
		require.Equal(t, nethttp.StatusForbidden, resp.StatusCode)
	})

	t.Run("staff in the company can", func(t *testing.T) {
		resp, _ := env.request(t, "GET", "/v1/orders/"+orderID, clerkToken, nil)
		require.Equal(t, nethttp.StatusOK, resp.StatusCode)
	})
}

func TestOrderListingOverHTTP(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "clerk@example.com", "Sup3r-Secret-Pass!", domain.RoleClerk)
	env.seedUser(t, "alice@example.com", "Sup3r-Secret-Pass!", domain.RoleCustomer)
	env.seedUser(t, "bob@example.com", "Sup3r-Secret-Pass!", domain.RoleCustomer)

	clerkToken := env.login(t, "clerk@example.com", "Sup3r-Secret-Pass!")
	resp, item := env.request(t, "POST", "/v1/inventory", clerkToken, map[string]any{
		"name": "widget", "quantity": 10, "price": 9.99,
	})
	require.Equal(t, nethttp.StatusCreated, resp.StatusCode)

	aliceToken := env.login(t, "alice@example.com", "Sup3r-Secret-Pass!")
	bobToken := env.login(t, "bob@example.com", "Sup3r-Secret-Pass!")
	for _, token := range []string{aliceToken, aliceToken, bobToken} {
		resp, _ := env.request(t, "POST", "/v1/orders", token, map[string]any{
			"lines": []map[string]any{{"item_id": item["item_id"], "quantity": 1}},
		})
		require.Equal(t, nethttp.StatusCreated, resp.StatusCode)
	}

	t.Run("customers see only their own orders", func(t *testing.T) {
		resp, orders := env.requestList(t, "/v1/orders", aliceToken)
		require.Equal(t, nethttp.StatusOK, resp.StatusCode)
		require.Len(t, orders, 2)

		resp, orders = env.requestList(t, "/v1/orders", bobToken)
		require.Equal(t, nethttp.StatusOK, resp.StatusCode)
		require.Len(t, orders, 1)
	})

	t.Run("staff see every order in the company", func(t *testing.T) {
		resp, orders := env.requestList(t, "/v1/orders", clerkToken)
		require.Equal(t, nethttp.StatusOK, resp.StatusCode)
		require.Len(t, orders, 3)
		for _, o := range orders {
			require.NotEmpty(t, o["lines"])
		}
	})
}

func TestCompanyListingOverHTTP(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "admin@example.com", "Sup3r-Secret-Pass!", domain.RoleAdmin)
	env.seedUser(t, "customer@example.com", "Sup3r-Secret-Pass!", domain.RoleCustomer)

	adminToken := env.login(t, "admin@example.com", "Sup3r-Secret-Pass!")

	resp, created := env.request(t, "POST", "/v1/companies", adminToken, map[string]string{
		"name": "Second Trading Co",
	})
	require.Equal(t, nethttp.StatusCreated, resp.StatusCode)

	t.Run("admins see every tenant", func(t *testing.T) {
		resp, companies := env.requestList(t, "/v1/companies", adminToken)
		require.Equal(t, nethttp.StatusOK, resp.StatusCode)
		require.Len(t, companies, 2)

		names := make([]string, 0, len(companies))
		for _, c := range companies {
			names = append(names, c["name"].(string))
		}
		require.Contains(t, names, env.company.Name)
		require.Contains(t, names, created["name"])
	})

	t.Run("non-admins are refused", func(t *testing.T) {
		customerToken := env.login(t, "customer@example.com", "Sup3r-Secret-Pass!")
		resp, _ := env.requestList(t, "/v1/companies", customerToken)
		require.Equal(t, nethttp.StatusForbidden, resp.StatusCode)
	})
}

func TestAdminProvisioningOverHTTP(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "admin@example.com", "Sup3r-Secret-Pass!", domain.RoleAdmin)

	adminToken := env.login(t, "admin@example.com", "Sup3r-Secret-Pass!")

	resp, created := env.request(t, "POST", "/v1/users", adminToken, map[string]string{
		"email":    "newclerk@example.com",
		"password": "An0ther-Secret-Pass!",
		"forename": "New",
		"surname":  "Clerk",
		"role":     "clerk",
	})
	require.Equal(t, nethttp.StatusCreated, resp.StatusCode)
	require.Equal(t, "clerk", created["role"])
	require.Equal(t, env.company.ID, created["company_id"])

	t.Run("weak passwords are rejected", func(t *testing.T) {
		resp, body := env.request(t, "POST", "/v1/users", adminToken, map[string]string{
			"email":    "weak@example.com",
			"password": "short",
			"role":     "customer",
		})
		require.Equal(t, nethttp.StatusBadRequest, resp.StatusCode)
		require.Equal(t, "validation_error", body["error"])
	})

	t.Run("suspension locks the account out", func(t *testing.T) {
		userID := created["user_id"].(string)
		resp, _ := env.request(t, "PATCH", "/v1/users/"+userID+"/status", adminToken, map[string]string{
			"status": "suspended",
		})
		require.Equal(t, nethttp.StatusNoContent, resp.StatusCode)

		resp, _ = env.request(t, "POST", "/v1/auth/login", "", map[string]string{
			"email": "newclerk@example.com", "password": "An0ther-Secret-Pass!",
		})
		require.Equal(t, nethttp.StatusUnauthorized, resp.StatusCode)
	})
}

func TestHealthEndpoints(t *testing.T) {
	env := newTestEnv(t)

	resp, body := env.request(t, "GET", "/livez", "", nil)
	require.Equal(t, nethttp.StatusOK, resp.StatusCode)
	require.Equal(t, "ok", body["status"])

	resp, body = env.request(t, "GET", "/readyz", "", nil)
	require.Equal(t, nethttp.StatusOK, resp.StatusCode)
	require.Equal(t, "ok", body["status"])
}
