package httpx

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"log/slog"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/villetta-hq/villetta/internal/service/deploy"
	"github.com/villetta-hq/villetta/internal/service/property"
	"github.com/villetta-hq/villetta/internal/siteconfig"
	"github.com/villetta-hq/villetta/internal/vercel"
	"github.com/villetta-hq/villetta/internal/ws"
	"github.com/villetta-hq/villetta/pkg/config"
)

// Router wires HTTP endpoints to services.
type Router struct {
	mux      *http.ServeMux
	logger   *slog.Logger
	property property.Service
	deploy   deploy.Service
	hub      *ws.Hub
	upgrader websocket.Upgrader
	limiter  RateLimiter
	cfg      config.APIConfig
	dbHealth func(context.Context) error

	metricsOnce        sync.Once
	metricsInitialized bool
	requestTotal       *prometheus.CounterVec
	requestLatency     *prometheus.HistogramVec
	rateLimitHits      *prometheus.CounterVec
}

const (
	rateWindowDefault  = time.Minute
	rateWindowRealtime = 30 * time.Second
	rateLimitWrite     = 60
	rateLimitDeploy    = 12
	rateLimitWebsocket = 30
	healthCheckTimeout = 2 * time.Second
	defaultHistoryWant = 50
)

// NewRouter assembles routes with dependencies.
func NewRouter(logger *slog.Logger, propertySvc property.Service, deploySvc deploy.Service, hub *ws.Hub, limiter RateLimiter, cfg config.APIConfig, dbHealth func(context.Context) error) *Router {
	r := &Router{
		mux:      http.NewServeMux(),
		logger:   logger,
		property: propertySvc,
		deploy:   deploySvc,
		hub:      hub,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		limiter:  limiter,
		cfg:      cfg,
		dbHealth: dbHealth,
	}
	if r.limiter == nil {
		r.limiter = NewMemoryRateLimiter()
	}
	r.initMetrics()
	r.register()
	return r
}

// ServeHTTP delegates to underlying mux.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

// Close releases background resources.
func (r *Router) Close() {
	if r.limiter != nil {
		r.limiter.Close()
	}
}

func (r *Router) register() {
	r.mux.HandleFunc("/healthz", r.audit("/healthz", r.handleHealthz))
	r.mux.Handle("/metrics", promhttp.Handler())
	r.mux.HandleFunc("/properties", r.audit("/properties", r.handlerAuthRate("/properties", rateLimitWrite, rateWindowDefault, r.handleProperties)))
	r.mux.HandleFunc("/properties/", r.audit("/properties/{id}", r.handlerAuthRate("/properties/{id}", rateLimitWrite, rateWindowDefault, r.handlePropertySubroutes)))
	r.mux.HandleFunc("/deploy", r.audit("/deploy", r.handlerAuthRate("/deploy", rateLimitDeploy, rateWindowDefault, r.handleDeploySite)))
	r.mux.HandleFunc("/ws/deployments", r.audit("/ws/deployments", r.handlerAuthRate("/ws/deployments", rateLimitWebsocket, rateWindowRealtime, r.handleDeploymentsWS)))
}

func (r *Router) handleProperties(w http.ResponseWriter, req *http.Request) {
	info, ok := authInfoFromContext(req.Context())
	if !ok {
		r.logger.Error("auth context missing for properties route", "path", req.URL.Path)
		writeError(w, http.StatusInternalServerError, "authorization context missing")
		return
	}
	switch req.Method {
	case http.MethodPost:
		var payload struct {
			Name          string          `json:"name"`
			Configuration json.RawMessage `json:"configuration"`
		}
		if err := json.NewDecoder(req.Body).Decode(&payload); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		prop, err := r.property.Create(req.Context(), property.CreateInput{
			OwnerID:       info.OwnerID,
			Name:          payload.Name,
			Configuration: payload.Configuration,
		})
		if err != nil {
			r.respondServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, prop)
	case http.MethodGet:
		summaries, err := r.property.List(req.Context(), info.OwnerID)
		if err != nil {
			r.respondServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, summaries)
	default:
		r.methodNotAllowed(w)
	}
}

func (r *Router) handlePropertySubroutes(w http.ResponseWriter, req *http.Request) {
	trimmed := strings.TrimPrefix(req.URL.Path, "/properties/")
	parts := strings.Split(trimmed, "/")
	if len(parts) < 1 || parts[0] == "" {
		r.notFound(w)
		return
	}
	propertyID := parts[0]
	if len(parts) != 2 {
		r.notFound(w)
		return
	}
	switch parts[1] {
	case "configuration":
		r.handleConfiguration(w, req, propertyID)
	case "history":
		r.handleHistory(w, req, propertyID)
	case "deploy":
		r.handlePropertyDeploy(w, req, propertyID)
	default:
		r.notFound(w)
	}
}

func (r *Router) handleConfiguration(w http.ResponseWriter, req *http.Request, propertyID string) {
	info, ok := authInfoFromContext(req.Context())
	if !ok {
		r.logger.Error("auth context missing for configuration route", "path", req.URL.Path)
		writeError(w, http.StatusInternalServerError, "authorization context missing")
		return
	}
	switch req.Method {
	case http.MethodGet:
		cfg, err := r.property.GetConfiguration(req.Context(), info.OwnerID, propertyID)
		if err != nil {
			r.respondServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, cfg)
	case http.MethodPut:
		var raw json.RawMessage
		if err := json.NewDecoder(req.Body).Decode(&raw); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		updated, err := r.property.UpdateConfiguration(req.Context(), info.OwnerID, propertyID, raw)
		if err != nil {
			r.respondServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, updated)
	default:
		r.methodNotAllowed(w)
	}
}

func (r *Router) handleHistory(w http.ResponseWriter, req *http.Request, propertyID string) {
	if req.Method != http.MethodGet {
		r.methodNotAllowed(w)
		return
	}
	info, ok := authInfoFromContext(req.Context())
	if !ok {
		r.logger.Error("auth context missing for history route", "path", req.URL.Path)
		writeError(w, http.StatusInternalServerError, "authorization context missing")
		return
	}
	limit, _ := strconv.Atoi(req.URL.Query().Get("limit"))
	if limit <= 0 {
		limit = defaultHistoryWant
	}
	entries, err := r.property.History(req.Context(), info.OwnerID, propertyID, limit)
	if err != nil {
		r.respondServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (r *Router) handlePropertyDeploy(w http.ResponseWriter, req *http.Request, propertyID string) {
	if req.Method != http.MethodPost {
		r.methodNotAllowed(w)
		return
	}
	info, ok := authInfoFromContext(req.Context())
	if !ok {
		r.logger.Error("auth context missing for deploy route", "path", req.URL.Path)
		writeError(w, http.StatusInternalServerError, "authorization context missing")
		return
	}
	var payload struct {
		SiteName string `json:"siteName"`
	}
	if req.Body != nil {
		_ = json.NewDecoder(req.Body).Decode(&payload)
	}
	result, err := r.deploy.DeployProperty(req.Context(), info.OwnerID, propertyID, payload.SiteName)
	if err != nil {
		r.respondServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (r *Router) handleDeploySite(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodPost {
		r.methodNotAllowed(w)
		return
	}
	var payload struct {
		SiteName string          `json:"siteName"`
		Hero     json.RawMessage `json:"hero"`
		Fonts    json.RawMessage `json:"fonts"`
		Palette  json.RawMessage `json:"palette"`
	}
	if err := json.NewDecoder(req.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	doc := map[string]json.RawMessage{
		"schemaVersion": json.RawMessage(strconv.Itoa(siteconfig.CurrentSchemaVersion)),
	}
	for key, section := range map[string]json.RawMessage{
		"hero": payload.Hero, "fonts": payload.Fonts, "palette": payload.Palette,
	} {
		if section != nil {
			doc[key] = section
		}
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	result, err := r.deploy.DeploySite(req.Context(), payload.SiteName, raw)
	if err != nil {
		r.respondServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (r *Router) handleDeploymentsWS(w http.ResponseWriter, req *http.Request) {
	if _, ok := authInfoFromContext(req.Context()); !ok {
		r.logger.Error("auth context missing for deployments websocket", "path", req.URL.Path)
		writeError(w, http.StatusInternalServerError, "authorization context missing")
		return
	}
	propertyID := req.URL.Query().Get("property_id")
	if propertyID == "" {
		writeError(w, http.StatusBadRequest, "property_id query parameter required")
		return
	}
	conn, err := r.upgrader.Upgrade(w, req, nil)
	if err != nil {
		r.logger.Error("websocket upgrade failed", "error", err)
		return
	}
	client := ws.NewClient(conn, r.logger)
	r.hub.Register(propertyID, client)
	go func() {
		defer func() {
			r.hub.Unregister(propertyID, client)
			client.Close()
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
		}
	}()
}

func (r *Router) handleHealthz(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodGet {
		r.methodNotAllowed(w)
		return
	}
	components := make(map[string]any)
	status := "ok"
	if r.dbHealth != nil {
		ctx, cancel := context.WithTimeout(req.Context(), healthCheckTimeout)
		defer cancel()
		if err := r.dbHealth(ctx); err != nil {
			status = "degraded"
			components["database"] = map[string]any{
				"status": "down",
				"error":  err.Error(),
			}
		} else {
			components["database"] = map[string]any{"status": "up"}
		}
	}
	payload := map[string]any{
		"status":     status,
		"components": components,
		"timestamp":  time.Now().UTC().Format(time.RFC3339Nano),
	}
	code := http.StatusOK
	if status != "ok" {
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, payload)
}

// respondServiceError maps service failures onto the HTTP error taxonomy:
// validation problems are the caller's fault, missing resources are 404,
// platform failures surface as bad gateway and exhausted polling as gateway
// timeout. Anything else is an internal error.
func (r *Router) respondServiceError(w http.ResponseWriter, err error) {
	var validationErr *siteconfig.ValidationError
	var apiErr vercel.APIError
	var failedErr *deploy.FailedError
	var timeoutErr *deploy.TimeoutError
	switch {
	case errors.As(err, &validationErr):
		writeError(w, http.StatusBadRequest, validationErr.Error())
	case errors.Is(err, property.ErrPropertyNotFound), errors.Is(err, property.ErrConfigurationNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.As(err, &failedErr):
		writeError(w, http.StatusBadGateway, failedErr.Error())
	case errors.As(err, &timeoutErr):
		writeError(w, http.StatusGatewayTimeout, timeoutErr.Error())
	case errors.As(err, &apiErr):
		writeError(w, http.StatusBadGateway, apiErr.Error())
	default:
		r.logger.Error("request failed", "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func (r *Router) audit(route string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		recorder := &statusRecorder{ResponseWriter: w}
		start := time.Now()
		next(recorder, req)

		status := recorder.status
		if status == 0 {
			status = http.StatusOK
		}
		ctx := recorder.ctx
		if ctx == nil {
			ctx = req.Context()
		}
		duration := time.Since(start)
		r.recordRequestMetrics(req.Method, route, status, duration)

		actor := "anonymous"
		fields := []any{
			"method", req.Method,
			"path", req.URL.Path,
			"status", status,
			"bytes", recorder.bytes,
			"duration_ms", duration.Milliseconds(),
		}
		if ip := clientIP(req); ip != "" {
			fields = append(fields, "ip", ip)
		}
		if reqID := strings.TrimSpace(req.Header.Get("X-Request-ID")); reqID != "" {
			fields = append(fields, "request_id", reqID)
		}
		if info, ok := authInfoFromContext(ctx); ok {
			actor = "owner"
			fields = append(fields, "owner_id", info.OwnerID)
		}
		fields = append(fields, "actor", actor)

		switch {
		case status >= http.StatusInternalServerError:
			r.logger.Error("http_request", fields...)
		case status >= http.StatusBadRequest:
			r.logger.Warn("http_request", fields...)
		default:
			r.logger.Info("http_request", fields...)
		}
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
	ctx    context.Context
}

func (sr *statusRecorder) WriteHeader(code int) {
	sr.status = code
	sr.ResponseWriter.WriteHeader(code)
}

func (sr *statusRecorder) Write(b []byte) (int, error) {
	if sr.status == 0 {
		sr.status = http.StatusOK
	}
	n, err := sr.ResponseWriter.Write(b)
	sr.bytes += n
	return n, err
}

func (sr *statusRecorder) SetContext(ctx context.Context) {
	sr.ctx = ctx
}

func (sr *statusRecorder) Flush() {
	if f, ok := sr.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (sr *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	if h, ok := sr.ResponseWriter.(http.Hijacker); ok {
		return h.Hijack()
	}
	return nil, nil, errors.New("hijacker not supported")
}

func (sr *statusRecorder) Push(target string, opts *http.PushOptions) error {
	if p, ok := sr.ResponseWriter.(http.Pusher); ok {
		return p.Push(target, opts)
	}
	return http.ErrNotSupported
}

func clientIP(req *http.Request) string {
	if forwarded := strings.TrimSpace(req.Header.Get("X-Forwarded-For")); forwarded != "" {
		parts := strings.Split(forwarded, ",")
		if len(parts) > 0 {
			ip := strings.TrimSpace(parts[0])
			if ip != "" {
				return ip
			}
		}
	}
	host, _, err := net.SplitHostPort(strings.TrimSpace(req.RemoteAddr))
	if err != nil {
		return strings.TrimSpace(req.RemoteAddr)
	}
	return host
}

func (r *Router) applyRateHeaders(w http.ResponseWriter, limit int, decision rateDecision) {
	if limit <= 0 {
		return
	}
	remaining := limit - decision.count
	if remaining < 0 {
		remaining = 0
	}
	headers := w.Header()
	headers.Set("X-RateLimit-Limit", strconv.Itoa(limit))
	headers.Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
	if !decision.windowEnd.IsZero() {
		headers.Set("X-RateLimit-Reset", strconv.FormatInt(decision.windowEnd.Unix(), 10))
	}
}

func (r *Router) methodNotAllowed(w http.ResponseWriter) {
	writeError(w, http.StatusMethodNotAllowed, "method not allowed")
}

func (r *Router) notFound(w http.ResponseWriter) {
	writeError(w, http.StatusNotFound, "not found")
}
