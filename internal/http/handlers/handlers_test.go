package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/hongminglow/finance-be/internal/auth"
	"github.com/hongminglow/finance-be/internal/config"
	"github.com/hongminglow/finance-be/internal/events"
	"github.com/hongminglow/finance-be/internal/http/handlers"
	"github.com/hongminglow/finance-be/internal/middleware"
	"github.com/hongminglow/finance-be/internal/seed"
	"github.com/hongminglow/finance-be/internal/server"
	"github.com/hongminglow/finance-be/internal/service"
	"github.com/hongminglow/finance-be/internal/storage/sqlite"
)

const cookieName = "FINANCE_SESSION"

var fixedNow = time.Date(2024, time.June, 15, 9, 0, 0, 0, time.UTC)

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type client struct {
	t     *testing.T
	base  string
	token string
}

func newTestServer(t *testing.T) *client {
	t.Helper()
	ctx := context.Background()
	store, err := sqlite.New(ctx, filepath.Join(t.TempDir(), "finance.db"))
	require.NoError(t, err)
	t.Cleanup(store.Close)
	defaults, err := seed.Defaults()
	require.NoError(t, err)
	require.NoError(t, seed.Categories(ctx, store, defaults))

	clock := service.Clock(func() time.Time { return fixedNow })
	users := service.NewUserService(store, store, auth.NewTokenManager("test-secret", "finance-be", 30*time.Minute))
	categories := service.NewCategoryService(store)
	cfg := config.Config{CORSOrigins: []string{"*"}, Session: config.Session{CookieName: cookieName}}

	h := server.NewHandler(cfg, users, server.Routes{
		Public: []server.Registrar{
			handlers.NewHealthHandler(time.Now(), store),
			handlers.NewAuthHandler(users, middleware.NewLimiter(100, nil), cookieName),
		},
		Protected: []server.Registrar{
			handlers.NewCategoryHandler(categories),
			handlers.NewTransactionHandler(service.NewTransactionService(store, categories, events.Nop{}, clock)),
			handlers.NewGoalHandler(service.NewGoalService(store, store, events.Nop{}, clock)),
			handlers.NewReportHandler(service.NewReportService(store)),
		},
	})
	ts := httptest.NewServer(h)
	t.Cleanup(ts.Close)
	return &client{t: t, base: ts.URL}
}

func (c *client) do(method, path string, body any) (*http.Response, envelope) {
	c.t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(c.t, err)
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, c.base+path, reader)
	require.NoError(c.t, err)
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(c.t, err)
	defer resp.Body.Close()

	var env envelope
	if resp.Header.Get("Content-Type") == "application/json" {
		require.NoError(c.t, json.NewDecoder(resp.Body).Decode(&env))
	}
	return resp, env
}

func (c *client) expect(method, path string, body any, status int) envelope {
	c.t.Helper()
	resp, env := c.do(method, path, body)
	require.Equal(c.t, status, resp.StatusCode, "%s %s: %s", method, path, env.Message)
	return env
}

func decode[T any](t *testing.T, env envelope) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(env.Data, &out))
	return out
}

// signUp registers and logs in a user, keeping the bearer token on the client.
func (c *client) signUp(email string) int64 {
	c.t.Helper()
	c.expect(http.MethodPost, "/api/auth/register", map[string]string{
		"username":    email,
		"password":    "password123",
		"fullName":    "Test User",
		"phoneNumber": "+15550102030",
	}, http.StatusCreated)
	env := c.expect(http.MethodPost, "/api/auth/login", map[string]string{
		"username": email,
		"password": "password123",
	}, http.StatusOK)
	login := decode[struct {
		UserID int64  `json:"userId"`
		Token  string `json:"token"`
	}](c.t, env)
	c.token = login.Token
	return login.UserID
}

func TestProtectedRoutesRequireSession(t *testing.T) {
	c := newTestServer(t)
	c.expect(http.MethodGet, "/api/goals", nil, http.StatusUnauthorized)
	c.token = "forged"
	c.expect(http.MethodGet, "/api/transactions", nil, http.StatusUnauthorized)
	c.token = ""
	c.expect(http.MethodGet, "/health", nil, http.StatusOK)
}

func TestLoginSetsCookieAndLogoutRevokes(t *testing.T) {
	c := newTestServer(t)
	c.signUp("alice@example.com")

	resp, _ := c.do(http.MethodPost, "/api/auth/login", map[string]string{"username": "alice@example.com", "password": "password123"})
	var session *http.Cookie
	for _, ck := range resp.Cookies() {
		if ck.Name == cookieName {
			session = ck
		}
	}
	require.NotNil(t, session)
	require.True(t, session.HttpOnly)

	// The cookie alone authenticates.
	req, err := http.NewRequest(http.MethodGet, c.base+"/api/categories", nil)
	require.NoError(t, err)
	req.AddCookie(session)
	cookieResp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	cookieResp.Body.Close()
	require.Equal(t, http.StatusOK, cookieResp.StatusCode)

	c.expect(http.MethodPost, "/api/auth/logout", nil, http.StatusOK)
	c.expect(http.MethodGet, "/api/categories", nil, http.StatusUnauthorized)
	c.expect(http.MethodPost, "/api/auth/logout", nil, http.StatusOK)

	c.expect(http.MethodPost, "/api/auth/login", map[string]string{"username": "alice@example.com", "password": "nope-nope"}, http.StatusUnauthorized)
}

func TestRegisterErrors(t *testing.T) {
	c := newTestServer(t)
	c.signUp("alice@example.com")
	c.token = ""

	c.expect(http.MethodPost, "/api/auth/register", map[string]string{
		"username": "alice@example.com", "password": "password123", "fullName": "A", "phoneNumber": "+15550102030",
	}, http.StatusConflict)
	c.expect(http.MethodPost, "/api/auth/register", map[string]string{
		"username": "bob@example.com", "password": "short", "fullName": "B", "phoneNumber": "+15550102030",
	}, http.StatusBadRequest)

	resp, err := http.Post(c.base+"/api/auth/register", "application/json", bytes.NewBufferString("{not json"))
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCategoryEndpoints(t *testing.T) {
	c := newTestServer(t)
	c.signUp("alice@example.com")

	type category struct {
		Name   string `json:"name"`
		Type   string `json:"type"`
		Custom bool   `json:"custom"`
	}
	created := decode[category](t, c.expect(http.MethodPost, "/api/categories", map[string]string{"name": "Side Gig", "type": "INCOME"}, http.StatusCreated))
	require.Equal(t, category{Name: "Side Gig", Type: "INCOME", Custom: true}, created)

	c.expect(http.MethodPost, "/api/categories", map[string]string{"name": "Food", "type": "EXPENSE"}, http.StatusConflict)
	c.expect(http.MethodPost, "/api/categories", map[string]string{"name": "X", "type": "NOPE"}, http.StatusBadRequest)

	list := decode[[]category](t, c.expect(http.MethodGet, "/api/categories", nil, http.StatusOK))
	require.Len(t, list, 8)

	c.expect(http.MethodPut, "/api/categories/Side%20Gig", map[string]string{"name": "Freelance", "type": "INCOME"}, http.StatusOK)
	c.expect(http.MethodPut, "/api/categories/Food", map[string]string{"name": "Groceries", "type": "EXPENSE"}, http.StatusNotFound)

	c.expect(http.MethodPost, "/api/transactions", map[string]any{"amount": 50, "date": "2024-06-01", "category": "Freelance"}, http.StatusCreated)
	c.expect(http.MethodDelete, "/api/categories/Freelance", nil, http.StatusConflict)
	c.expect(http.MethodDelete, "/api/categories/Rent", nil, http.StatusNotFound)
}

type transaction struct {
	ID          int64   `json:"id"`
	Amount      float64 `json:"amount"`
	Date        string  `json:"date"`
	Category    string  `json:"category"`
	Type        string  `json:"type"`
	Description string  `json:"description"`
}

func TestTransactionEndpoints(t *testing.T) {
	c := newTestServer(t)
	c.signUp("alice@example.com")

	created := decode[transaction](t, c.expect(http.MethodPost, "/api/transactions", map[string]any{
		"amount": "12.5", "date": "2024-06-10", "categoryName": "Food", "description": "lunch",
	}, http.StatusCreated))
	require.Equal(t, transaction{ID: created.ID, Amount: 12.5, Date: "2024-06-10", Category: "Food", Type: "EXPENSE", Description: "lunch"}, created)

	c.expect(http.MethodPost, "/api/transactions", map[string]any{"amount": 0, "date": "2024-06-10", "category": "Food"}, http.StatusBadRequest)
	c.expect(http.MethodPost, "/api/transactions", map[string]any{"amount": json.Number("1e100000000"), "date": "2024-06-10", "category": "Food"}, http.StatusBadRequest)
	c.expect(http.MethodPost, "/api/transactions", map[string]any{"amount": "100000000000000", "date": "2024-06-10", "category": "Food"}, http.StatusBadRequest)
	c.expect(http.MethodPost, "/api/transactions", map[string]any{"amount": 5, "date": "2024-06-16", "category": "Food"}, http.StatusBadRequest)
	c.expect(http.MethodPost, "/api/transactions", map[string]any{"amount": 5, "date": "06/10/2024", "category": "Food"}, http.StatusBadRequest)
	c.expect(http.MethodPost, "/api/transactions", map[string]any{"amount": 5, "date": "2024-06-10", "category": "Boats"}, http.StatusNotFound)
	c.expect(http.MethodPost, "/api/transactions", map[string]any{"amount": 3000, "date": "2024-06-01", "category": "Salary"}, http.StatusCreated)

	path := "/api/transactions/" + itoa(created.ID)
	updated := decode[transaction](t, c.expect(http.MethodPut, path, map[string]any{
		"amount": 20, "date": "2024-01-01", "category": "Entertainment",
	}, http.StatusOK))
	require.Equal(t, "2024-06-10", updated.Date)
	require.Equal(t, "Entertainment", updated.Category)

	list := decode[[]transaction](t, c.expect(http.MethodGet, "/api/transactions?categoryType=EXPENSE", nil, http.StatusOK))
	require.Len(t, list, 1)
	list = decode[[]transaction](t, c.expect(http.MethodGet, "/api/transactions?startDate=2024-06-01&endDate=2024-06-05", nil, http.StatusOK))
	require.Len(t, list, 1)
	require.Equal(t, "Salary", list[0].Category)
	c.expect(http.MethodGet, "/api/transactions?startDate=yesterday", nil, http.StatusBadRequest)
	c.expect(http.MethodGet, "/api/transactions/abc", nil, http.StatusBadRequest)

	// Another user cannot see or touch it.
	other := &client{t: t, base: c.base}
	other.signUp("bob@example.com")
	other.expect(http.MethodGet, path, nil, http.StatusNotFound)
	other.expect(http.MethodDelete, path, nil, http.StatusNotFound)

	c.expect(http.MethodDelete, path, nil, http.StatusOK)
	c.expect(http.MethodGet, path, nil, http.StatusNotFound)
}

func TestGoalEndpoints(t *testing.T) {
	c := newTestServer(t)
	c.signUp("alice@example.com")

	type goal struct {
		ID                 int64   `json:"id"`
		GoalName           string  `json:"goalName"`
		TargetAmount       float64 `json:"targetAmount"`
		TargetDate         string  `json:"targetDate"`
		StartDate          string  `json:"startDate"`
		CurrentProgress    float64 `json:"currentProgress"`
		ProgressPercentage string  `json:"progressPercentage"`
		RemainingAmount    float64 `json:"remainingAmount"`
	}

	created := decode[goal](t, c.expect(http.MethodPost, "/api/goals", map[string]any{
		"goalName": "Car", "targetAmount": 1000, "targetDate": "2025-01-01", "startDate": "2024-06-01",
	}, http.StatusCreated))
	require.Equal(t, "0.0", created.ProgressPercentage)

	c.expect(http.MethodPost, "/api/transactions", map[string]any{"amount": 500, "date": "2024-06-02", "category": "Salary"}, http.StatusCreated)
	c.expect(http.MethodPost, "/api/transactions", map[string]any{"amount": 100, "date": "2024-06-03", "category": "Food"}, http.StatusCreated)

	path := "/api/goals/" + itoa(created.ID)
	got := decode[goal](t, c.expect(http.MethodGet, path, nil, http.StatusOK))
	require.Equal(t, 400.0, got.CurrentProgress)
	require.Equal(t, 600.0, got.RemainingAmount)
	require.Equal(t, "40.0", got.ProgressPercentage)
	require.Equal(t, "2024-06-01", got.StartDate)

	c.expect(http.MethodPost, "/api/goals", map[string]any{"goalName": "Bad", "targetAmount": -1, "targetDate": "2025-01-01"}, http.StatusBadRequest)
	c.expect(http.MethodPost, "/api/goals", map[string]any{"goalName": "Late", "targetAmount": 10, "targetDate": "2024-01-01"}, http.StatusBadRequest)

	renamed := decode[goal](t, c.expect(http.MethodPut, path, map[string]any{"goalName": "Van"}, http.StatusOK))
	require.Equal(t, "Van", renamed.GoalName)
	require.Equal(t, 1000.0, renamed.TargetAmount)

	list := decode[[]goal](t, c.expect(http.MethodGet, "/api/goals", nil, http.StatusOK))
	require.Len(t, list, 1)

	c.expect(http.MethodDelete, path, nil, http.StatusOK)
	c.expect(http.MethodGet, path, nil, http.StatusNotFound)
}

func TestReportEndpoints(t *testing.T) {
	c := newTestServer(t)
	c.signUp("alice@example.com")

	resp, _ := c.do(http.MethodGet, "/api/reports/spending-by-category/chart?startDate=2024-06-01&endDate=2024-06-30", nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	c.expect(http.MethodPost, "/api/transactions", map[string]any{"amount": 2000, "date": "2024-06-01", "category": "Salary"}, http.StatusCreated)
	c.expect(http.MethodPost, "/api/transactions", map[string]any{"amount": 800, "date": "2024-06-02", "category": "Rent"}, http.StatusCreated)
	c.expect(http.MethodPost, "/api/transactions", map[string]any{"amount": 45.5, "date": "2024-06-03", "category": "Food"}, http.StatusCreated)

	type summary struct {
		Year          int                `json:"year"`
		Month         int                `json:"month"`
		TotalIncome   map[string]float64 `json:"totalIncome"`
		TotalExpenses map[string]float64 `json:"totalExpenses"`
		IncomeSum     float64            `json:"incomeSum"`
		ExpenseSum    float64            `json:"expenseSum"`
		NetSavings    float64            `json:"netSavings"`
	}
	s := decode[summary](t, c.expect(http.MethodGet, "/api/reports/summary?startDate=2024-06-01&endDate=2024-06-30", nil, http.StatusOK))
	require.Equal(t, map[string]float64{"Salary": 2000}, s.TotalIncome)
	require.Equal(t, map[string]float64{"Rent": 800, "Food": 45.5}, s.TotalExpenses)
	require.Equal(t, 1154.5, s.NetSavings)

	monthly := decode[summary](t, c.expect(http.MethodGet, "/api/reports/monthly/2024/6", nil, http.StatusOK))
	require.Equal(t, 2024, monthly.Year)
	require.Equal(t, 6, monthly.Month)
	require.Equal(t, 845.5, monthly.ExpenseSum)

	empty := decode[summary](t, c.expect(http.MethodGet, "/api/reports/yearly/2023", nil, http.StatusOK))
	require.Zero(t, empty.NetSavings)
	require.Empty(t, empty.TotalIncome)

	c.expect(http.MethodGet, "/api/reports/monthly/2024/13", nil, http.StatusBadRequest)
	c.expect(http.MethodGet, "/api/reports/yearly/twenty", nil, http.StatusBadRequest)
	c.expect(http.MethodGet, "/api/reports/summary?startDate=2024-06-30&endDate=2024-06-01", nil, http.StatusBadRequest)
	c.expect(http.MethodGet, "/api/reports/summary", nil, http.StatusBadRequest)

	type row struct {
		CategoryName string  `json:"categoryName"`
		CategoryType string  `json:"categoryType"`
		TotalAmount  float64 `json:"totalAmount"`
	}
	rows := decode[[]row](t, c.expect(http.MethodGet, "/api/reports/spending-by-category?startDate=2024-06-01&endDate=2024-06-30", nil, http.StatusOK))
	require.Equal(t, []row{{"Rent", "EXPENSE", 800}, {"Food", "EXPENSE", 45.5}}, rows)

	resp, _ = c.do(http.MethodGet, "/api/reports/spending-by-category/chart?startDate=2024-06-01&endDate=2024-06-30", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "image/png", resp.Header.Get("Content-Type"))
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
