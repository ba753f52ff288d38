package httpadapter

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/ulhub/ul-assistant/internal/core/domain"
	"github.com/ulhub/ul-assistant/internal/core/ports"
	"github.com/ulhub/ul-assistant/internal/observability/metrics"
)

const serviceName = "ul-assistant"

// Options tunes the inbound traffic gates. Zero values disable the
// corresponding gate.
type Options struct {
	RateLimitRPS     float64
	RateLimitBurst   int
	MaxInFlight      int
	BackpressureWait time.Duration
}

type Router struct {
	chat    ports.ChatService
	metrics *metrics.HTTPServerMetrics
	logger  *slog.Logger
	options Options
}

func NewRouter(chat ports.ChatService, serverMetrics *metrics.HTTPServerMetrics, logger *slog.Logger, options Options) *Router {
	if logger == nil {
		logger = slog.Default()
	}
	return &Router{
		chat:    chat,
		metrics: serverMetrics,
		logger:  logger,
		options: options,
	}
}

func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", rt.healthz)
	mux.HandleFunc("/v1/chat", rt.chatTurn)
	if rt.metrics != nil {
		mux.Handle("/metrics", rt.metrics.Handler())
	}

	var handler http.Handler = mux
	if rt.metrics != nil {
		handler = rt.metrics.Middleware(serviceName, handler)
	}
	if rt.options.MaxInFlight > 0 {
		handler = backpressureMiddleware(handler, rt.options.MaxInFlight, rt.options.BackpressureWait)
	}
	if rt.options.RateLimitRPS > 0 {
		handler = rateLimitMiddleware(handler, rt.options.RateLimitRPS, rt.options.RateLimitBurst)
	}
	handler = accessLogMiddleware(handler)
	handler = requestIDMiddleware(handler)
	return handler
}

func (rt *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type chatRequest struct {
	SessionID string `json:"session_id"`
	Question  string `json:"question"`
	Mode      string `json:"mode"`
	Locale    string `json:"locale"`
}

type chatResponse struct {
	SessionID string            `json:"session_id"`
	Answer    string            `json:"answer"`
	Citations []domain.Citation `json:"citations"`
	Meta      domain.TurnMeta   `json:"meta"`
	Plan      *domain.QueryPlan `json:"plan,omitempty"`
}

func (rt *Router) chatTurn(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	if strings.TrimSpace(req.Question) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "question is required"})
		return
	}
	mode, ok := parseMode(req.Mode)
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "mode must be 'student' or 'staff'"})
		return
	}

	start := time.Now()
	turn, result, err := rt.chat.Ask(r.Context(), req.SessionID, req.Question, mode, req.Locale)
	if err != nil {
		rt.logger.Error("chat turn failed",
			slog.String("request_id", requestIDFromContext(r.Context())),
			slog.Any("error", err),
		)
		writeJSON(w, mapErrorToHTTPStatus(err), map[string]string{"error": err.Error()})
		return
	}

	rt.recordTurn(result, time.Since(start))

	writeJSON(w, http.StatusOK, chatResponse{
		SessionID: turn.SessionID,
		Answer:    result.Answer,
		Citations: result.Citations,
		Meta:      result.Meta,
		Plan:      result.Plan,
	})
}

func (rt *Router) recordTurn(result *domain.TurnResult, duration time.Duration) {
	if rt.metrics == nil {
		return
	}
	mode := ""
	if result.Plan != nil {
		mode = string(result.Plan.RetrievalMode)
	}
	rt.metrics.RecordTurn(
		serviceName,
		result.Meta.Intent,
		result.Meta.Escalation,
		mode,
		result.Meta.ContextCount,
		result.Meta.Degraded,
		duration,
	)
}

func parseMode(raw string) (domain.Mode, bool) {
	switch domain.Mode(strings.ToLower(strings.TrimSpace(raw))) {
	case "":
		return domain.ModeStudent, true
	case domain.ModeStudent:
		return domain.ModeStudent, true
	case domain.ModeStaff:
		return domain.ModeStaff, true
	default:
		return "", false
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
