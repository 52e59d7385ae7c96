package httpx

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/villetta-hq/villetta/internal/domain"
	"github.com/villetta-hq/villetta/internal/repository"
	"github.com/villetta-hq/villetta/internal/service/deploy"
	"github.com/villetta-hq/villetta/internal/service/property"
	"github.com/villetta-hq/villetta/internal/siteconfig"
	"github.com/villetta-hq/villetta/internal/template"
	"github.com/villetta-hq/villetta/internal/vercel"
	"github.com/villetta-hq/villetta/internal/ws"
	"github.com/villetta-hq/villetta/pkg/config"
	jwtpkg "github.com/villetta-hq/villetta/pkg/jwt"
)

const testJWTSecret = "router-test-secret"

type memoryRepo struct {
	mu         sync.Mutex
	properties map[string]domain.Property
	configs    map[string]domain.PropertyConfiguration
	history    map[string][]domain.ConfigurationHistoryEntry
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{
		properties: make(map[string]domain.Property),
		configs:    make(map[string]domain.PropertyConfiguration),
		history:    make(map[string][]domain.ConfigurationHistoryEntry),
	}
}

func (m *memoryRepo) CreatePropertyWithConfiguration(ctx context.Context, p *domain.Property, snapshot domain.ConfigurationSnapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.properties[p.ID] = *p
	m.configs[p.ID] = domain.PropertyConfiguration{
		PropertyID:    p.ID,
		SchemaVersion: snapshot.SchemaVersion,
		Configuration: snapshot.Configuration,
		Version:       1,
		UpdatedAt:     time.Now().UTC(),
	}
	m.history[p.ID] = []domain.ConfigurationHistoryEntry{{PropertyID: p.ID, Version: 1, SchemaVersion: snapshot.SchemaVersion, Configuration: snapshot.Configuration}}
	return nil
}

func (m *memoryRepo) UpdateConfiguration(ctx context.Context, propertyID string, snapshot domain.ConfigurationSnapshot) (*domain.PropertyConfiguration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	current, ok := m.configs[propertyID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	next := domain.PropertyConfiguration{
		PropertyID:    propertyID,
		SchemaVersion: snapshot.SchemaVersion,
		Configuration: snapshot.Configuration,
		Version:       current.Version + 1,
		UpdatedAt:     time.Now().UTC(),
	}
	m.configs[propertyID] = next
	m.history[propertyID] = append(m.history[propertyID], domain.ConfigurationHistoryEntry{PropertyID: propertyID, Version: next.Version, SchemaVersion: snapshot.SchemaVersion, Configuration: snapshot.Configuration})
	return &next, nil
}

func (m *memoryRepo) GetPropertyForOwner(ctx context.Context, ownerID, propertyID string) (*domain.Property, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.properties[propertyID]
	if !ok || p.OwnerID != ownerID {
		return nil, repository.ErrNotFound
	}
	return &p, nil
}

func (m *memoryRepo) ListPropertiesByOwner(ctx context.Context, ownerID string) ([]domain.PropertySummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.PropertySummary
	for id, p := range m.properties {
		if p.OwnerID == ownerID {
			out = append(out, domain.PropertySummary{ID: p.ID, Name: p.Name, ConfigurationVersion: m.configs[id].Version})
		}
	}
	return out, nil
}

func (m *memoryRepo) GetCurrentConfiguration(ctx context.Context, ownerID, propertyID string) (*domain.PropertyConfiguration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.properties[propertyID]
	if !ok || p.OwnerID != ownerID {
		return nil, repository.ErrNotFound
	}
	cfg := m.configs[propertyID]
	return &cfg, nil
}

func (m *memoryRepo) ListConfigurationHistory(ctx context.Context, ownerID, propertyID string, limit int) ([]domain.ConfigurationHistoryEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	entries := m.history[propertyID]
	out := make([]domain.ConfigurationHistoryEntry, 0, len(entries))
	for i := len(entries) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, entries[i])
	}
	return out, nil
}

type stubPlatform struct {
	status   string
	aliasErr error
}

func (s *stubPlatform) CreateDeployment(ctx context.Context, name string, files []template.ManifestEntry) (*vercel.Deployment, error) {
	status := s.status
	if status == "" {
		status = vercel.StatusReady
	}
	return &vercel.Deployment{ID: "dpl_router", Status: status, URL: name + "-abc.vercel.app"}, nil
}

func (s *stubPlatform) GetDeployment(ctx context.Context, deploymentID string) (*vercel.Deployment, error) {
	return &vercel.Deployment{ID: deploymentID, Status: s.status, URL: "site-abc.vercel.app"}, nil
}

func (s *stubPlatform) AssignAlias(ctx context.Context, deploymentID, alias string) error {
	return s.aliasErr
}

func newTestRouter(t *testing.T, platform *stubPlatform) (*Router, *memoryRepo) {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "package.json"), []byte(`{"name":"template"}`), 0o644); err != nil {
		t.Fatalf("write template fixture: %v", err)
	}
	cfg := config.APIConfig{
		JWTSecret:          testJWTSecret,
		TemplateDir:        dir,
		AliasDomainSuffix:  ".vercel.app",
		DeployPollInterval: 5 * time.Millisecond,
		DeployMaxAttempts:  2,
	}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	repo := newMemoryRepo()
	propertySvc := property.New(repo, log)
	deploySvc := deploy.New(propertySvc, platform, nil, log, cfg)
	router := NewRouter(log, propertySvc, deploySvc, ws.NewHub(), NewMemoryRateLimiter(), cfg, nil)
	t.Cleanup(router.Close)
	return router, repo
}

func authHeader(t *testing.T, ownerID string) string {
	t.Helper()
	token, err := jwtpkg.GenerateToken(ownerID, testJWTSecret, time.Hour)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	return "Bearer " + token
}

func doRequest(t *testing.T, router *Router, method, path, auth string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request body: %v", err)
		}
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func createProperty(t *testing.T, router *Router, ownerID string) string {
	t.Helper()
	rec := doRequest(t, router, http.MethodPost, "/properties", authHeader(t, ownerID), map[string]any{"name": "Villa Demo"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create property returned %d: %s", rec.Code, rec.Body.String())
	}
	var created domain.Property
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode create response: %v", err)
	}
	return created.ID
}

func TestRouterRequiresAuthentication(t *testing.T) {
	router, _ := newTestRouter(t, &stubPlatform{})
	rec := doRequest(t, router, http.MethodGet, "/properties", "", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestCreateAndListProperties(t *testing.T) {
	router, _ := newTestRouter(t, &stubPlatform{})
	id := createProperty(t, router, "owner-1")

	rec := doRequest(t, router, http.MethodGet, "/properties", authHeader(t, "owner-1"), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list returned %d: %s", rec.Code, rec.Body.String())
	}
	var summaries []domain.PropertySummary
	if err := json.Unmarshal(rec.Body.Bytes(), &summaries); err != nil {
		t.Fatalf("decode list response: %v", err)
	}
	if len(summaries) != 1 || summaries[0].ID != id || summaries[0].ConfigurationVersion != 1 {
		t.Fatalf("unexpected summaries: %+v", summaries)
	}
}

func TestUpdateConfigurationValidation(t *testing.T) {
	router, _ := newTestRouter(t, &stubPlatform{})
	id := createProperty(t, router, "owner-1")

	rec := doRequest(t, router, http.MethodPut, "/properties/"+id+"/configuration", authHeader(t, "owner-1"), map[string]any{"schemaVersion": 7})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid configuration, got %d: %s", rec.Code, rec.Body.String())
	}
	var payload map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode error payload: %v", err)
	}
	if payload["error"] == "" {
		t.Fatal("expected error message in payload")
	}
}

func TestUpdateConfigurationBumpsVersion(t *testing.T) {
	router, _ := newTestRouter(t, &stubPlatform{})
	id := createProperty(t, router, "owner-1")

	cfg := siteconfig.DefaultConfiguration()
	cfg.Hero.Headline = "Nuovo titolo"
	body, err := json.Marshal(cfg)
	if err != nil {
		t.Fatalf("marshal configuration: %v", err)
	}

	rec := doRequest(t, router, http.MethodPut, "/properties/"+id+"/configuration", authHeader(t, "owner-1"), json.RawMessage(body))
	if rec.Code != http.StatusOK {
		t.Fatalf("update returned %d: %s", rec.Code, rec.Body.String())
	}
	var updated domain.PropertyConfiguration
	if err := json.Unmarshal(rec.Body.Bytes(), &updated); err != nil {
		t.Fatalf("decode update response: %v", err)
	}
	if updated.Version != 2 {
		t.Fatalf("expected version 2, got %d", updated.Version)
	}
}

func TestGetConfigurationUnknownPropertyReturns404(t *testing.T) {
	router, _ := newTestRouter(t, &stubPlatform{})
	rec := doRequest(t, router, http.MethodGet, "/properties/nope/configuration", authHeader(t, "owner-1"), nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestHistoryEndpointNewestFirst(t *testing.T) {
	router, _ := newTestRouter(t, &stubPlatform{})
	id := createProperty(t, router, "owner-1")

	cfg := siteconfig.DefaultConfiguration()
	body, _ := json.Marshal(cfg)
	for i := 0; i < 2; i++ {
		rec := doRequest(t, router, http.MethodPut, "/properties/"+id+"/configuration", authHeader(t, "owner-1"), json.RawMessage(body))
		if rec.Code != http.StatusOK {
			t.Fatalf("update %d returned %d", i, rec.Code)
		}
	}

	rec := doRequest(t, router, http.MethodGet, "/properties/"+id+"/history?limit=2", authHeader(t, "owner-1"), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("history returned %d: %s", rec.Code, rec.Body.String())
	}
	var entries []domain.ConfigurationHistoryEntry
	if err := json.Unmarshal(rec.Body.Bytes(), &entries); err != nil {
		t.Fatalf("decode history response: %v", err)
	}
	if len(entries) != 2 || entries[0].Version != 3 || entries[1].Version != 2 {
		t.Fatalf("unexpected history entries: %+v", entries)
	}
}

func TestDeployPropertyReturnsResult(t *testing.T) {
	router, _ := newTestRouter(t, &stubPlatform{status: vercel.StatusReady})
	id := createProperty(t, router, "owner-1")

	rec := doRequest(t, router, http.MethodPost, "/properties/"+id+"/deploy", authHeader(t, "owner-1"), map[string]string{"siteName": "villa demo"})
	if rec.Code != http.StatusOK {
		t.Fatalf("deploy returned %d: %s", rec.Code, rec.Body.String())
	}
	var result domain.DeploymentResult
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode deploy response: %v", err)
	}
	if result.DeploymentID != "dpl_router" {
		t.Fatalf("unexpected deployment id: %s", result.DeploymentID)
	}
	if result.AliasURL != "https://villa-demo.vercel.app" {
		t.Fatalf("unexpected alias url: %s", result.AliasURL)
	}
}

// adHocDeployBody builds the flat /deploy payload from the default
// configuration's sections.
func adHocDeployBody(t *testing.T, siteName string) map[string]any {
	t.Helper()
	raw, err := json.Marshal(siteconfig.DefaultConfiguration())
	if err != nil {
		t.Fatalf("marshal default configuration: %v", err)
	}
	var sections struct {
		Hero    json.RawMessage `json:"hero"`
		Fonts   json.RawMessage `json:"fonts"`
		Palette json.RawMessage `json:"palette"`
	}
	if err := json.Unmarshal(raw, &sections); err != nil {
		t.Fatalf("split default configuration: %v", err)
	}
	return map[string]any{
		"siteName": siteName,
		"hero":     sections.Hero,
		"fonts":    sections.Fonts,
		"palette":  sections.Palette,
	}
}

func TestAdHocDeployAcceptsFlatSections(t *testing.T) {
	router, _ := newTestRouter(t, &stubPlatform{status: vercel.StatusReady})

	rec := doRequest(t, router, http.MethodPost, "/deploy", authHeader(t, "owner-1"), adHocDeployBody(t, "villa demo"))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var result map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode deploy result: %v", err)
	}
	if result["deploymentId"] == "" {
		t.Fatal("expected a deployment id in the response")
	}
}

func TestAdHocDeployRejectsMissingSection(t *testing.T) {
	router, _ := newTestRouter(t, &stubPlatform{status: vercel.StatusReady})

	body := adHocDeployBody(t, "villa demo")
	delete(body, "palette")
	rec := doRequest(t, router, http.MethodPost, "/deploy", authHeader(t, "owner-1"), body)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestDeployTimeoutMapsToGatewayTimeout(t *testing.T) {
	router, _ := newTestRouter(t, &stubPlatform{status: vercel.StatusBuilding})

	rec := doRequest(t, router, http.MethodPost, "/deploy", authHeader(t, "owner-1"), adHocDeployBody(t, "villa demo"))
	if rec.Code != http.StatusGatewayTimeout {
		t.Fatalf("expected 504, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestDeployFailureMapsToBadGateway(t *testing.T) {
	router, _ := newTestRouter(t, &stubPlatform{status: vercel.StatusCanceled})

	rec := doRequest(t, router, http.MethodPost, "/deploy", authHeader(t, "owner-1"), adHocDeployBody(t, "villa demo"))
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestHealthzReportsOK(t *testing.T) {
	router, _ := newTestRouter(t, &stubPlatform{})
	rec := doRequest(t, router, http.MethodGet, "/healthz", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("healthz returned %d", rec.Code)
	}
	var payload map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode healthz payload: %v", err)
	}
	if payload["status"] != "ok" {
		t.Fatalf("unexpected health status: %v", payload["status"])
	}
}
