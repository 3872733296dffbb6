package api

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/aptos-labs/aptos-go-sdk"

	"github.com/Mahesh00234h/installment/config"
	"github.com/Mahesh00234h/installment/internal/chain"
)

const testKey = "0x0fd70f0c69cbbd1b55ef1115ccb1a95ca4d31f177e47eb1b6b7fbcffa01cd93e"

// fakeGateway is a test double for the chain gateway.
type fakeGateway struct {
	submitHash string
	submitErr  error
	submitted  []*aptos.EntryFunction

	resource map[string]any
	readErr  error
}

func (f *fakeGateway) SubmitEntryFunction(payer *aptos.Account, entry *aptos.EntryFunction) (string, error) {
	f.submitted = append(f.submitted, entry)
	if f.submitErr != nil {
		return "", f.submitErr
	}
	return f.submitHash, nil
}

func (f *fakeGateway) ReadResource(address aptos.AccountAddress, resourceType string) (map[string]any, error) {
	if f.readErr != nil {
		return nil, f.readErr
	}
	return f.resource, nil
}

func storeRecord(nextID string) map[string]any {
	return map[string]any{
		"type": "0xcafe::tuition_escrow_v2::Store",
		"data": map[string]any{"next_id": nextID},
	}
}

func newTestServer(t *testing.T, gw *fakeGateway) *Server {
	t.Helper()
	cfg := &config.Config{
		PayerPrivateKeyHex: testKey,
		ModuleAddress:      "0xcafe",
		FrontendDir:        t.TempDir(),
	}
	return New(cfg, gw)
}

func doRequest(t *testing.T, s *Server, method, path string, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), out); err != nil {
		t.Fatalf("decode body %q: %v", rec.Body.String(), err)
	}
}

func u64Arg(t *testing.T, b []byte) uint64 {
	t.Helper()
	if len(b) != 8 {
		t.Fatalf("argument length = %d, want 8", len(b))
	}
	return binary.LittleEndian.Uint64(b)
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, &fakeGateway{})

	rec := doRequest(t, s, http.MethodGet, "/api/health", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp HealthResponse
	decodeBody(t, rec, &resp)
	if resp.Status != "healthy" {
		t.Errorf("status = %q, want healthy", resp.Status)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("CORS origin header = %q, want *", got)
	}
}

func TestPreflight(t *testing.T) {
	s := newTestServer(t, &fakeGateway{})

	rec := doRequest(t, s, http.MethodOptions, "/api/agreements", nil)
	if rec.Code != http.StatusNoContent {
		t.Errorf("status = %d, want 204", rec.Code)
	}
}

func TestCreateAgreement(t *testing.T) {
	gw := &fakeGateway{
		submitHash: "0xfeedhash",
		resource:   storeRecord("6"),
	}
	s := newTestServer(t, gw)

	body := []byte(`{
		"total_amount": 10000000,
		"num_installments": 10,
		"installment_amount": 1000000,
		"interval_days": 7,
		"penalty_rate": 50,
		"grace_period_days": 3
	}`)
	before := uint64(time.Now().Unix())
	rec := doRequest(t, s, http.MethodPost, "/api/agreements", body)
	after := uint64(time.Now().Unix())

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var resp CreateAgreementResponse
	decodeBody(t, rec, &resp)
	if !resp.Success {
		t.Error("success = false")
	}
	if resp.TransactionHash != "0xfeedhash" {
		t.Errorf("hash = %q", resp.TransactionHash)
	}
	if resp.AgreementID == nil || *resp.AgreementID != 5 {
		t.Errorf("agreement_id = %v, want 5", resp.AgreementID)
	}

	if len(gw.submitted) != 1 {
		t.Fatalf("submitted %d transactions, want 1", len(gw.submitted))
	}
	entry := gw.submitted[0]
	if entry.Function != "create_agreement" {
		t.Errorf("function = %q", entry.Function)
	}
	if len(entry.Args) != 6 {
		t.Fatalf("args = %d, want 6", len(entry.Args))
	}
	if got := u64Arg(t, entry.Args[0]); got != 1000000 {
		t.Errorf("installment_amount arg = %d", got)
	}
	if got := u64Arg(t, entry.Args[1]); got != 10 {
		t.Errorf("num_installments arg = %d", got)
	}
	if start := u64Arg(t, entry.Args[2]); start < before || start > after {
		t.Errorf("start_time_secs = %d, want within [%d, %d]", start, before, after)
	}
	if got := u64Arg(t, entry.Args[3]); got != 604800 {
		t.Errorf("interval_secs = %d, want 604800", got)
	}
	if got := u64Arg(t, entry.Args[4]); got != 50 {
		t.Errorf("penalty_bps = %d, want 50", got)
	}
	if got := u64Arg(t, entry.Args[5]); got != 259200 {
		t.Errorf("grace_period_secs = %d, want 259200", got)
	}
}

func TestCreateAgreementIDInferenceFailure(t *testing.T) {
	// The follow-up counter read failing must not fail the request; the id
	// is reported as null.
	gw := &fakeGateway{
		submitHash: "0xfeedhash",
		readErr:    chain.ErrResourceNotFound,
	}
	s := newTestServer(t, gw)

	rec := doRequest(t, s, http.MethodPost, "/api/agreements", []byte(`{"interval_days":1}`))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var resp CreateAgreementResponse
	decodeBody(t, rec, &resp)
	if !resp.Success {
		t.Error("success = false")
	}
	if resp.AgreementID != nil {
		t.Errorf("agreement_id = %d, want null", *resp.AgreementID)
	}
	if !strings.Contains(rec.Body.String(), `"agreement_id":null`) {
		t.Errorf("body %q does not render agreement_id as null", rec.Body.String())
	}
}

func TestCreateAgreementMissingKey(t *testing.T) {
	s := New(&config.Config{ModuleAddress: "0xcafe", FrontendDir: t.TempDir()}, &fakeGateway{})

	rec := doRequest(t, s, http.MethodPost, "/api/agreements", []byte(`{}`))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}

	var resp ErrorResponse
	decodeBody(t, rec, &resp)
	if !strings.Contains(resp.Detail, "PAYER_PRIVATE_KEY_HEX not configured") {
		t.Errorf("detail = %q", resp.Detail)
	}
}

func TestCreateAgreementMissingModule(t *testing.T) {
	s := New(&config.Config{PayerPrivateKeyHex: testKey, FrontendDir: t.TempDir()}, &fakeGateway{})

	rec := doRequest(t, s, http.MethodPost, "/api/agreements", []byte(`{}`))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}

	var resp ErrorResponse
	decodeBody(t, rec, &resp)
	if !strings.Contains(resp.Detail, "MODULE_ADDRESS not configured") {
		t.Errorf("detail = %q", resp.Detail)
	}
}

func TestCreateAgreementBadBody(t *testing.T) {
	s := newTestServer(t, &fakeGateway{})

	rec := doRequest(t, s, http.MethodPost, "/api/agreements", []byte(`{`))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestPayInstallment(t *testing.T) {
	gw := &fakeGateway{submitHash: "0xpayhash"}
	s := newTestServer(t, gw)

	rec := doRequest(t, s, http.MethodPost, "/api/agreements/42/pay", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var resp PayResponse
	decodeBody(t, rec, &resp)
	if !resp.Success || resp.TransactionHash != "0xpayhash" {
		t.Errorf("response = %+v", resp)
	}
	if resp.Message != "Installment 42 paid successfully" {
		t.Errorf("message = %q", resp.Message)
	}

	if len(gw.submitted) != 1 {
		t.Fatalf("submitted %d transactions, want 1", len(gw.submitted))
	}
	entry := gw.submitted[0]
	if entry.Function != "pay_next_installment" {
		t.Errorf("function = %q", entry.Function)
	}
	if len(entry.Args) != 1 {
		t.Fatalf("args = %d, want 1", len(entry.Args))
	}
	if got := u64Arg(t, entry.Args[0]); got != 42 {
		t.Errorf("agreement_id arg = %d, want 42", got)
	}
}

func TestPayInstallmentChainRejection(t *testing.T) {
	gw := &fakeGateway{
		submitErr: errors.New("transaction 0xdead failed: Move abort in 0xcafe::tuition_escrow_v2: EAGREEMENT_NOT_FOUND(0x1)"),
	}
	s := newTestServer(t, gw)

	rec := doRequest(t, s, http.MethodPost, "/api/agreements/999/pay", nil)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}

	var resp ErrorResponse
	decodeBody(t, rec, &resp)
	if !strings.Contains(resp.Detail, "EAGREEMENT_NOT_FOUND") {
		t.Errorf("detail %q does not carry the chain's message", resp.Detail)
	}
}

func TestPayInstallmentBadID(t *testing.T) {
	s := newTestServer(t, &fakeGateway{})

	rec := doRequest(t, s, http.MethodPost, "/api/agreements/abc/pay", nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestGetNextID(t *testing.T) {
	s := newTestServer(t, &fakeGateway{resource: storeRecord("9")})

	rec := doRequest(t, s, http.MethodGet, "/api/agreements/next_id", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var resp NextIDResponse
	decodeBody(t, rec, &resp)
	if resp.NextID != 9 {
		t.Errorf("next_id = %d, want 9", resp.NextID)
	}
}

func TestGetNextIDStoreAbsent(t *testing.T) {
	s := newTestServer(t, &fakeGateway{readErr: chain.ErrResourceNotFound})

	rec := doRequest(t, s, http.MethodGet, "/api/agreements/next_id", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}

	var resp ErrorResponse
	decodeBody(t, rec, &resp)
	if resp.Detail != "Store resource not found" {
		t.Errorf("detail = %q", resp.Detail)
	}
}

func TestGetNextIDMalformedStore(t *testing.T) {
	s := newTestServer(t, &fakeGateway{
		resource: map[string]any{"data": map[string]any{"unrelated": "1"}},
	})

	rec := doRequest(t, s, http.MethodGet, "/api/agreements/next_id", nil)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}

	var resp ErrorResponse
	decodeBody(t, rec, &resp)
	if resp.Detail != "Malformed Store resource" {
		t.Errorf("detail = %q", resp.Detail)
	}
}

func TestGetAgreement(t *testing.T) {
	s := newTestServer(t, &fakeGateway{resource: storeRecord("3")})

	rec := doRequest(t, s, http.MethodGet, "/api/agreements/2", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var resp AgreementSummary
	decodeBody(t, rec, &resp)
	if resp.ID != 2 {
		t.Errorf("id = %d, want 2", resp.ID)
	}
	// Placeholder fields until per-agreement parsing lands.
	if resp.InstallmentAmount != 0 || resp.TotalInstallments != 0 || resp.TotalPaid != 0 {
		t.Errorf("placeholder fields populated: %+v", resp)
	}
}

func TestGetAgreementStoreAbsent(t *testing.T) {
	s := newTestServer(t, &fakeGateway{readErr: chain.ErrResourceNotFound})

	rec := doRequest(t, s, http.MethodGet, "/api/agreements/2", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestListAgreements(t *testing.T) {
	// Always empty, whatever the chain holds.
	s := newTestServer(t, &fakeGateway{resource: storeRecord("100")})

	rec := doRequest(t, s, http.MethodGet, "/api/agreements", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if got := strings.TrimSpace(rec.Body.String()); got != "[]" {
		t.Errorf("body = %q, want []", got)
	}
}

func TestIndexServesFrontend(t *testing.T) {
	gw := &fakeGateway{}
	cfg := &config.Config{
		PayerPrivateKeyHex: testKey,
		ModuleAddress:      "0xcafe",
		FrontendDir:        t.TempDir(),
	}
	page := "<html><body>Tuition Escrow</body></html>"
	if err := os.WriteFile(filepath.Join(cfg.FrontendDir, "index.html"), []byte(page), 0644); err != nil {
		t.Fatal(err)
	}
	s := New(cfg, gw)

	rec := doRequest(t, s, http.MethodGet, "/", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if rec.Body.String() != page {
		t.Errorf("body = %q", rec.Body.String())
	}
}

func TestIndexMissingFrontend(t *testing.T) {
	s := newTestServer(t, &fakeGateway{})

	rec := doRequest(t, s, http.MethodGet, "/", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Frontend file not found") {
		t.Errorf("body = %q", rec.Body.String())
	}
}
