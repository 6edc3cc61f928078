package server

import (
	"cmp"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/habibulloh333/project-uas-prod/internal/api/handlers"
	"github.com/habibulloh333/project-uas-prod/internal/api/middleware"
	"github.com/habibulloh333/project-uas-prod/internal/auth"
	"github.com/habibulloh333/project-uas-prod/internal/config"
	"github.com/habibulloh333/project-uas-prod/internal/domain/model"
	"github.com/habibulloh333/project-uas-prod/internal/repository"
	"github.com/habibulloh333/project-uas-prod/internal/service"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// mapStore — минимальное in-memory хранилище товаров.
type mapStore[K cmp.Ordered, R any] struct {
	mu     sync.Mutex
	rows   map[K]R
	keyOf  func(*R) K
	assign func(*R)
}

func newMapStore[K cmp.Ordered, R any](keyOf func(*R) K) *mapStore[K, R] {
	return &mapStore[K, R]{rows: map[K]R{}, keyOf: keyOf}
}

func (m *mapStore[K, R]) List(context.Context) ([]*R, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	keys := make([]K, 0, len(m.rows))
	for k := range m.rows {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	out := make([]*R, 0, len(keys))
	for _, k := range keys {
		r := m.rows[k]
		out = append(out, &r)
	}
	return out, nil
}

func (m *mapStore[K, R]) Get(_ context.Context, key K) (*R, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rows[key]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &r, nil
}

func (m *mapStore[K, R]) Create(_ context.Context, rec *R) (*R, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.assign != nil {
		m.assign(rec)
	}
	if _, ok := m.rows[m.keyOf(rec)]; ok {
		return nil, repository.ErrConflict
	}
	m.rows[m.keyOf(rec)] = *rec
	saved := *rec
	return &saved, nil
}

func (m *mapStore[K, R]) Modify(_ context.Context, key K, fn func(*R) error) (*R, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rows[key]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if err := fn(&r); err != nil {
		return nil, err
	}
	m.rows[key] = r
	return &r, nil
}

func (m *mapStore[K, R]) Delete(_ context.Context, key K) (*R, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rows[key]
	if !ok {
		return nil, repository.ErrNotFound
	}
	delete(m.rows, key)
	return &r, nil
}

func (m *mapStore[K, R]) Count(context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.rows), nil
}

type mapUsers struct {
	mu    sync.Mutex
	users map[string]model.User
}

func (m *mapUsers) GetByUsername(_ context.Context, username string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[username]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}

func (m *mapUsers) Create(_ context.Context, u *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[u.Username]; ok {
		return repository.ErrConflict
	}
	u.ID = int64(len(m.users) + 1)
	m.users[u.Username] = *u
	return nil
}

type readyChecker struct{}

func (readyChecker) CheckReady() (string, string) { return "ok", "" }

func testConfig() *config.Config {
	return &config.Config{
		Port:               0,
		CORSAllowedOrigins: []string{"*"},
		HTTPReadTimeout:    5 * time.Second,
		HTTPWriteTimeout:   5 * time.Second,
		HTTPIdleTimeout:    5 * time.Second,
		ShutdownTimeout:    5 * time.Second,
	}
}

// newTestHandlers собирает обработчики на in-memory хранилищах.
func newTestHandlers(t *testing.T) (Handlers, *middleware.JWTAuth) {
	t.Helper()
	logger := testLogger()

	storeA := newMapStore(service.VendorASpec.KeyOf)
	storeB := newMapStore(service.VendorBSpec.KeyOf)
	storeC := newMapStore(service.VendorCSpec.KeyOf)
	var seq int64
	storeC.assign = func(p *model.VendorCProduct) { seq++; p.ID = seq }

	cache := service.NewListingCache(time.Minute)
	svcA := service.NewCatalogService(storeA, service.VendorASpec, nil, cache, logger)
	svcB := service.NewCatalogService(storeB, service.VendorBSpec, nil, cache, logger)
	svcC := service.NewCatalogService(storeC, service.VendorCSpec, nil, cache, logger)

	issuer := auth.NewTokenIssuer([]byte("server-test-secret-000001"), time.Hour)
	authSvc := service.NewAuthService(&mapUsers{users: map[string]model.User{}},
		auth.NewPasswordHasher(bcrypt.MinCost), issuer, logger)

	h := Handlers{
		Health:  handlers.NewHealthHandler(readyChecker{}),
		Status:  handlers.NewStatusHandler(logger, svcA, svcB, svcC),
		Auth:    handlers.NewAuthHandler(authSvc, logger),
		Listing: handlers.NewListingHandler(service.NewListingService(svcA, svcB, svcC, cache, logger), logger),
		VendorA: handlers.NewProductRoutes(svcA, handlers.VendorACodec, logger),
		VendorB: handlers.NewProductRoutes(svcB, handlers.VendorBCodec, logger),
		VendorC: handlers.NewProductRoutes(svcC, handlers.VendorCCodec, logger),
	}

	return h, middleware.NewJWTAuth(issuer, logger)
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	h, jwt := newTestHandlers(t)
	ts := httptest.NewServer(NewRouter(testConfig(), testLogger(), h, jwt))
	t.Cleanup(ts.Close)
	return ts
}

type client struct {
	t     *testing.T
	base  string
	token string
}

func (c *client) call(method, path, body string) (int, map[string]any) {
	c.t.Helper()
	var rd io.Reader = http.NoBody
	if body != "" {
		rd = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, c.base+path, rd)
	if err != nil {
		c.t.Fatalf("NewRequest: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		c.t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	var out map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&out)
	return resp.StatusCode, out
}

func (c *client) login(username, password string) {
	c.t.Helper()
	status, body := c.call(http.MethodPost, "/auth/login",
		`{"username":"`+username+`","password":"`+password+`"}`)
	if status != http.StatusOK {
		c.t.Fatalf("login %s: статус %d, тело %v", username, status, body)
	}
	c.token, _ = body["token"].(string)
}

func TestServer_EndToEnd(t *testing.T) {
	ts := newTestServer(t)
	anon := &client{t: t, base: ts.URL}

	// Регистрация и вход
	if status, _ := anon.call(http.MethodPost, "/auth/register", `{"username":"Alice","password":"secret1"}`); status != http.StatusCreated {
		t.Fatalf("register: статус %d", status)
	}
	if status, _ := anon.call(http.MethodPost, "/auth/register-admin", `{"username":"root","password":"rootpass"}`); status != http.StatusCreated {
		t.Fatalf("register-admin: статус %d", status)
	}
	alice := &client{t: t, base: ts.URL}
	alice.login("alice", "secret1")
	admin := &client{t: t, base: ts.URL}
	admin.login("root", "rootpass")

	// Запись без токена запрещена
	if status, _ := anon.call(http.MethodPost, VendorAPrefix, `{"kd_produk":"A1","nm_brg":"Kopi","hrg":"10000","ket_stok":"ada"}`); status != http.StatusUnauthorized {
		t.Fatalf("POST без токена: статус %d, хотели 401", status)
	}

	// Пустой агрегированный список кэшируется
	if status, body := anon.call(http.MethodGet, "/all-products", ""); status != http.StatusOK || body["total"] != 0.0 {
		t.Fatalf("all-products (пусто): %d %v", status, body)
	}

	// user создаёт товары всех вендоров
	mustCreate := func(path, body string) {
		t.Helper()
		if status, resp := alice.call(http.MethodPost, path, body); status != http.StatusCreated {
			t.Fatalf("POST %s: статус %d, тело %v", path, status, resp)
		}
	}
	mustCreate(VendorAPrefix, `{"kd_produk":"A1","nm_brg":"Kopi","hrg":"10000","ket_stok":"ada"}`)
	mustCreate(VendorBPrefix, `{"sku":"B1","productName":"Kaos","price":50000,"isAvailable":"Tersedia"}`)
	mustCreate(VendorCPrefix, `{"name":"Nasi Goreng","category":"makanan","base_price":20000,"tax":2000,"stock":0}`)

	// Запись сбросила кэш: список содержит все три товара в порядке A, B, C
	status, listing := anon.call(http.MethodGet, "/all-products", "")
	if status != http.StatusOK || listing["total"] != 3.0 {
		t.Fatalf("all-products: %d %v", status, listing)
	}
	data := listing["data"].([]any)
	if data[0].(map[string]any)["harga_diskon"] != 9000.0 {
		t.Errorf("скидка Vendor A: %v", data[0])
	}
	c := data[2].(map[string]any)
	if c["details"].(map[string]any)["name"] != "Nasi Goreng (Recommended)" || c["stock"] != "habis" {
		t.Errorf("нормализация Vendor C: %v", c)
	}

	// user не может удалять, admin может
	if status, _ := alice.call(http.MethodDelete, VendorAPrefix+"/A1", ""); status != http.StatusForbidden {
		t.Fatalf("user DELETE: статус %d, хотели 403", status)
	}
	if status, body := admin.call(http.MethodDelete, VendorAPrefix+"/A1", ""); status != http.StatusOK || body["deleted_product"] == nil {
		t.Fatalf("admin DELETE: %d %v", status, body)
	}
	if status, _ := admin.call(http.MethodDelete, VendorAPrefix+"/A1", ""); status != http.StatusNotFound {
		t.Fatalf("повторный DELETE: статус %d, хотели 404", status)
	}

	// Сводка по вендорам
	status, st := anon.call(http.MethodGet, "/status", "")
	if status != http.StatusOK {
		t.Fatalf("status: %d", status)
	}
	vendors := st["vendors"].(map[string]any)
	if vendors["vendor-a"] != 0.0 || vendors["vendor-b"] != 1.0 || vendors["vendor-c"] != 1.0 {
		t.Errorf("vendors = %v", vendors)
	}
}

func TestServer_NotFoundAndMethodNotAllowed(t *testing.T) {
	ts := newTestServer(t)
	c := &client{t: t, base: ts.URL}

	status, body := c.call(http.MethodGet, "/no-such-route", "")
	if status != http.StatusNotFound || body["error"] == nil {
		t.Errorf("неизвестный маршрут: %d %v", status, body)
	}

	status, body = c.call(http.MethodPatch, "/all-products", "")
	if status != http.StatusMethodNotAllowed || body["error"] == nil {
		t.Errorf("неподдерживаемый метод: %d %v", status, body)
	}
}

func TestServer_HealthAndBanner(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/")
	if err != nil {
		t.Fatalf("GET /: %v", err)
	}
	text, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK || string(text) != handlers.BannerText {
		t.Errorf("GET /: %d %q", resp.StatusCode, text)
	}

	for _, path := range []string{"/health/live", "/health/ready", "/metrics"} {
		resp, err := http.Get(ts.URL + path)
		if err != nil {
			t.Fatalf("GET %s: %v", path, err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Errorf("GET %s: статус %d", path, resp.StatusCode)
		}
	}
}

func TestServer_CORSPreflight(t *testing.T) {
	ts := newTestServer(t)

	req, _ := http.NewRequest(http.MethodOptions, ts.URL+VendorAPrefix, http.NoBody)
	req.Header.Set("Origin", "http://shop.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("OPTIONS: %v", err)
	}
	resp.Body.Close()

	if got := resp.Header.Get("Access-Control-Allow-Origin"); got == "" {
		t.Error("нет заголовка Access-Control-Allow-Origin")
	}
}

func TestServer_RunContextShutdown(t *testing.T) {
	h, jwt := newTestHandlers(t)
	srv := New(testConfig(), testLogger(), h, jwt)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.RunContext(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("RunContext: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("сервер не остановился")
	}
}
