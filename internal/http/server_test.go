package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"fintrack/internal/core"
	applog "fintrack/internal/log"
	"fintrack/internal/services"
	"fintrack/internal/storage/memory"
)

type failingPinger struct{}

func (failingPinger) Ping(context.Context) error { return errors.New("database is locked") }

func quietLogger() *applog.Logger {
	cfg := applog.DefaultConfig()
	cfg.Output = io.Discard
	return applog.New(cfg)
}

func newTestServer(t *testing.T, opts Options) *Server {
	t.Helper()
	store := memory.New()
	svc := Services{
		Ledger:      services.NewLedger(store),
		Recorder:    services.NewRecorder(store),
		Obligations: services.NewObligations(store),
		Aggregator:  services.NewAggregator(store),
		Store:       store,
	}
	if opts.Logger == nil {
		opts.Logger = quietLogger()
	}
	if opts.RateLimitPerMinute == 0 {
		opts.RateLimitPerMinute = 1000
	}
	srv, err := NewServer(":0", svc, opts)
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	t.Cleanup(func() { _ = srv.Shutdown(context.Background()) })
	return srv
}

func do(t *testing.T, srv *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(bytes.NewReader(rec.Body.Bytes())).Decode(&v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return v
}

func createAccount(t *testing.T, srv *Server, body string) core.Account {
	t.Helper()
	rec := do(t, srv, http.MethodPost, "/api/accounts", body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create account: %d %s", rec.Code, rec.Body.String())
	}
	return decode[core.Account](t, rec)
}

func balanceOf(t *testing.T, srv *Server, id int64) string {
	t.Helper()
	rec := do(t, srv, http.MethodGet, "/api/accounts/"+itoa(id), "")
	if rec.Code != http.StatusOK {
		t.Fatalf("get account %d: %d", id, rec.Code)
	}
	return decode[core.Account](t, rec).Balance.String()
}

func itoa(id int64) string { return strconv.FormatInt(id, 10) }

func TestServer_LedgerFlow(t *testing.T) {
	srv := newTestServer(t, Options{})
	today := time.Now().UTC().Format(core.DateLayout)

	checking := createAccount(t, srv, `{"name":"Checking","type":"checking","accountNumber":"****1234","balance":"100"}`)
	savings := createAccount(t, srv, `{"name":"Savings","type":"savings","accountNumber":"****9876"}`)

	steps := []struct {
		path string
		body string
		want string
	}{
		{"/api/expenses", `{"date":"` + today + `","amount":"30","category":"food","accountId":` + itoa(checking.ID) + `}`, "70.00"},
		{"/api/income", `{"date":"` + today + `","amount":"50","source":"salary","accountId":` + itoa(checking.ID) + `}`, "120.00"},
		{"/api/transfers", `{"date":"` + today + `","amount":"20","fromAccountId":` + itoa(checking.ID) + `,"toAccountId":` + itoa(savings.ID) + `}`, "100.00"},
	}
	for _, s := range steps {
		rec := do(t, srv, http.MethodPost, s.path, s.body)
		if rec.Code != http.StatusCreated {
			t.Fatalf("POST %s: %d %s", s.path, rec.Code, rec.Body.String())
		}
		if got := balanceOf(t, srv, checking.ID); got != s.want {
			t.Fatalf("after %s checking balance = %s, want %s", s.path, got, s.want)
		}
	}
	if got := balanceOf(t, srv, savings.ID); got != "20.00" {
		t.Fatalf("savings balance = %s, want 20.00", got)
	}

	rec := do(t, srv, http.MethodGet, "/api/dashboard", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("dashboard: %d", rec.Code)
	}
	d := decode[core.Dashboard](t, rec)
	if d.Summary.TotalIncome.String() != "50.00" || d.Summary.TotalExpenses.String() != "30.00" || d.Summary.NetIncome.String() != "20.00" {
		t.Fatalf("summary = %+v", d.Summary)
	}
	if d.Summary.TotalBalance.String() != "120.00" {
		t.Fatalf("total balance = %s", d.Summary.TotalBalance)
	}
	if len(d.Activity) != 3 {
		t.Fatalf("activity = %+v", d.Activity)
	}
	if len(d.Categories) != 1 || d.Categories[0].Category != core.CategoryFood {
		t.Fatalf("categories = %+v", d.Categories)
	}

	rec = do(t, srv, http.MethodGet, "/api/expenses?month="+today[:7], "")
	if got := decode[[]core.Expense](t, rec); len(got) != 1 {
		t.Fatalf("expenses this month = %d", len(got))
	}
	rec = do(t, srv, http.MethodGet, "/api/income?month=1999-01", "")
	if got := decode[[]core.Income](t, rec); len(got) != 0 {
		t.Fatalf("income in 1999-01 = %d", len(got))
	}
}

func TestServer_Errors(t *testing.T) {
	srv := newTestServer(t, Options{})
	acct := createAccount(t, srv, `{"name":"Checking","type":"checking","accountNumber":"1234"}`)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		want   int
	}{
		{"same account transfer", http.MethodPost, "/api/transfers", `{"date":"2024-03-01","amount":"5","fromAccountId":` + itoa(acct.ID) + `,"toAccountId":` + itoa(acct.ID) + `}`, http.StatusBadRequest},
		{"missing account", http.MethodPost, "/api/expenses", `{"date":"2024-03-01","amount":"5","category":"food","accountId":999}`, http.StatusNotFound},
		{"unknown account id", http.MethodGet, "/api/accounts/999", "", http.StatusNotFound},
		{"malformed id", http.MethodGet, "/api/accounts/abc", "", http.StatusBadRequest},
		{"bad month", http.MethodGet, "/api/expenses?month=2024-13", "", http.StatusBadRequest},
		{"negative amount", http.MethodPost, "/api/income", `{"date":"2024-03-01","amount":"-5","source":"salary","accountId":` + itoa(acct.ID) + `}`, http.StatusBadRequest},
		{"number amount", http.MethodPost, "/api/income", `{"date":"2024-03-01","amount":5,"source":"salary","accountId":` + itoa(acct.ID) + `}`, http.StatusBadRequest},
		{"unknown field", http.MethodPost, "/api/accounts", `{"name":"X","type":"checking","accountNumber":"1234","color":"red"}`, http.StatusBadRequest},
		{"empty body", http.MethodPost, "/api/accounts", "", http.StatusBadRequest},
		{"method not allowed", http.MethodDelete, "/api/accounts", "", http.StatusMethodNotAllowed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, srv, tt.method, tt.path, tt.body)
			if rec.Code != tt.want {
				t.Fatalf("status = %d, want %d (%s)", rec.Code, tt.want, rec.Body.String())
			}
			if tt.want == http.StatusBadRequest {
				if msg := decode[errorResponse](t, rec); msg.Status != "error" || msg.Message == "" {
					t.Fatalf("error body = %+v", msg)
				}
			}
		})
	}

	if got := balanceOf(t, srv, acct.ID); got != "0.00" {
		t.Fatalf("rejected writes changed balance to %s", got)
	}
}

func TestServer_ObligationLifecycle(t *testing.T) {
	srv := newTestServer(t, Options{})

	rec := do(t, srv, http.MethodPost, "/api/receivables", `{"date":"2024-03-01","amount":"250","customerName":"Acme","dueDate":"2024-03-31"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create receivable: %d %s", rec.Code, rec.Body.String())
	}
	created := decode[obligationResponse](t, rec)
	if created.Status != core.StatusPending || created.CustomerName != "Acme" || created.Amount.String() != "250.00" {
		t.Fatalf("created = %+v", created)
	}

	path := "/api/receivables/" + itoa(created.ID) + "/status"
	rec = do(t, srv, http.MethodPatch, path, `{"status":"paid"}`)
	if rec.Code != http.StatusOK || decode[obligationResponse](t, rec).Status != core.StatusPaid {
		t.Fatalf("mark paid: %d %s", rec.Code, rec.Body.String())
	}

	rec = do(t, srv, http.MethodPatch, path, `{"status":"bogus"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("bogus status: %d", rec.Code)
	}
	list := decode[[]obligationResponse](t, do(t, srv, http.MethodGet, "/api/receivables", ""))
	if len(list) != 1 || list[0].Status != core.StatusPaid {
		t.Fatalf("receivables = %+v", list)
	}

	// ids are scoped per kind
	rec = do(t, srv, http.MethodPatch, "/api/payables/"+itoa(created.ID)+"/status", `{"status":"paid"}`)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("payable with receivable id: %d", rec.Code)
	}

	rec = do(t, srv, http.MethodPost, "/api/payables", `{"date":"2024-03-01","amount":"80","vendorName":"Power Co","dueDate":"2024-03-15","status":"overdue"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create payable: %d %s", rec.Code, rec.Body.String())
	}
	payable := decode[obligationResponse](t, rec)
	if payable.VendorName != "Power Co" || payable.CustomerName != "" || payable.Status != core.StatusOverdue {
		t.Fatalf("payable = %+v", payable)
	}

	rec = do(t, srv, http.MethodPost, "/api/payables", `{"date":"2024-03-01","amount":"80","customerName":"Power Co","dueDate":"2024-03-15"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("payable without vendor: %d", rec.Code)
	}
}

func TestServer_DashboardCacheInvalidation(t *testing.T) {
	srv := newTestServer(t, Options{SummaryCacheTTL: time.Minute})
	acct := createAccount(t, srv, `{"name":"Checking","type":"checking","accountNumber":"1234"}`)

	summary := decode[core.MonthlySummary](t, do(t, srv, http.MethodGet, "/api/dashboard/summary", ""))
	if !summary.TotalIncome.IsZero() {
		t.Fatalf("initial income = %s", summary.TotalIncome)
	}
	if srv.dashboardCache.Size() != 1 {
		t.Fatalf("dashboard should be cached")
	}

	today := time.Now().UTC().Format(core.DateLayout)
	rec := do(t, srv, http.MethodPost, "/api/income", `{"date":"`+today+`","amount":"42.50","source":"freelance","accountId":`+itoa(acct.ID)+`}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("record income: %d", rec.Code)
	}

	summary = decode[core.MonthlySummary](t, do(t, srv, http.MethodGet, "/api/dashboard/summary", ""))
	if summary.TotalIncome.String() != "42.50" || summary.TotalBalance.String() != "42.50" {
		t.Fatalf("summary after write = %+v", summary)
	}
	activity := decode[[]core.Activity](t, do(t, srv, http.MethodGet, "/api/dashboard/activity", ""))
	if len(activity) != 1 || activity[0].AccountName != "Checking" {
		t.Fatalf("activity = %+v", activity)
	}
	categories := decode[[]core.CategoryAmount](t, do(t, srv, http.MethodGet, "/api/dashboard/categories", ""))
	if len(categories) != 0 {
		t.Fatalf("categories = %+v", categories)
	}
}

func TestServer_Health(t *testing.T) {
	srv := newTestServer(t, Options{})
	if rec := do(t, srv, http.MethodGet, "/healthz", ""); rec.Code != http.StatusOK {
		t.Fatalf("healthz: %d", rec.Code)
	}
	if rec := do(t, srv, http.MethodGet, "/readyz", ""); rec.Code != http.StatusOK {
		t.Fatalf("readyz: %d", rec.Code)
	}

	srv.svc.Store = failingPinger{}
	rec := do(t, srv, http.MethodGet, "/readyz", "")
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("readyz with failing store: %d", rec.Code)
	}
	body := decode[struct {
		Status string            `json:"status"`
		Checks map[string]string `json:"checks"`
	}](t, rec)
	if body.Status != "not_ready" || !strings.Contains(body.Checks["store"], "database is locked") {
		t.Fatalf("readyz body = %+v", body)
	}
}

func TestServer_RateLimit(t *testing.T) {
	srv := newTestServer(t, Options{RateLimitPerMinute: 2})

	for i := 0; i < 2; i++ {
		if rec := do(t, srv, http.MethodGet, "/api/accounts", ""); rec.Code != http.StatusOK {
			t.Fatalf("request %d: %d", i, rec.Code)
		}
	}
	rec := do(t, srv, http.MethodGet, "/api/accounts", "")
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("third request: %d", rec.Code)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Fatal("missing Retry-After header")
	}

	// probes are not limited
	if rec := do(t, srv, http.MethodGet, "/healthz", ""); rec.Code != http.StatusOK {
		t.Fatalf("healthz while limited: %d", rec.Code)
	}
}

func TestServer_ResponseHeaders(t *testing.T) {
	srv := newTestServer(t, Options{})

	req := httptest.NewRequest(http.MethodGet, "/api/accounts", nil)
	req.Header.Set("X-Request-ID", "client-abc.123")
	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, req)

	h := rec.Header()
	if h.Get("X-Request-ID") != "client-abc.123" {
		t.Errorf("X-Request-ID = %q", h.Get("X-Request-ID"))
	}
	if h.Get("X-Content-Type-Options") != "nosniff" || h.Get("X-Frame-Options") != "DENY" {
		t.Errorf("security headers missing: %v", h)
	}
	if !strings.HasPrefix(h.Get("Content-Type"), "application/json") {
		t.Errorf("Content-Type = %q", h.Get("Content-Type"))
	}
	if strings.TrimSpace(rec.Body.String()) != "[]" {
		t.Errorf("empty account list = %q", rec.Body.String())
	}
}
