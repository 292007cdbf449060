package mailgate

import (
	"encoding/json"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"

	"github.com/jordan-wright/email"
)

// ContactRequest is an inbound contact-form submission. honeypot and
// formLoadTime are anti-abuse metadata supplied by the form; they are
// stripped before the payload reaches the mailer.
type ContactRequest struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Message      string `json:"message"`
	Honeypot     string `json:"honeypot,omitempty"`
	FormLoadTime int64  `json:"formLoadTime,omitempty"`
}

type successBody struct {
	Success bool `json:"success"`
}

// ContactHandler gates contact-form submissions through the abuse-prevention
// pipeline and relays accepted ones by email.
//
// Gate order is fixed: rate limit, then bot signals, then field validation.
// Reordering would change which rejection a client sees, and a rate-limited
// bot must never receive a more specific message it could calibrate against.
type ContactHandler struct {
	cfg     *Config
	limiter *RateLimiter

	// sendEmail is replaced in tests.
	sendEmail func(cfg *Config, e *email.Email) error
}

// NewContactHandler wires the handler to its config and an explicitly owned
// rate limiter. Nothing here is ambient package state; tests construct a
// fresh handler per case.
func NewContactHandler(cfg *Config, limiter *RateLimiter) *ContactHandler {
	return &ContactHandler{cfg: cfg, limiter: limiter, sendEmail: sendViaSMTP}
}

func (h *ContactHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	logger := LoggerFromContext(r.Context())

	if r.Method == http.MethodOptions {
		h.setCORSHeaders(w, r)
		w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if r.Method != http.MethodPost {
		WriteAPIError(logger, w, &APIError{
			Status:  http.StatusMethodNotAllowed,
			Code:    "METHOD_NOT_ALLOWED",
			Message: "Method not allowed",
		})
		return
	}

	if !h.originAllowed(r) {
		WriteAPIError(logger, w, &APIError{
			Status:  http.StatusForbidden,
			Code:    "FORBIDDEN",
			Message: "Origin not allowed",
		})
		return
	}
	h.setCORSHeaders(w, r)

	ip := clientIP(r)

	// Gate 1: rate limit. Denied requests are answered before the payload is
	// even read, and the payload is never logged.
	if !h.limiter.Allow(ip) {
		setRateLimitHeaders(w, h.limiter.Info(ip))
		WriteAPIError(logger, w, ErrRateLimited)
		return
	}
	setRateLimitHeaders(w, h.limiter.Info(ip))

	p, err := h.decodePayload(r)
	if err != nil {
		WriteAPIError(logger, w, err)
		return
	}

	// Gate 2: bot signals. Disguised as success so automated senders get no
	// feedback that they were detected; only the generic reason is logged,
	// never which signal fired.
	if IsHoneypotTriggered(p.Honeypot) || IsSubmissionTooFast(p.FormLoadTime) {
		logger.Info("submission dropped", "reason", "bot_suspected", "ip", ip)
		writeJSON(w, http.StatusOK, successBody{Success: true})
		return
	}

	// Gate 3: field validation, with the full issue list for the client.
	if err := ValidateSubmission(&p); err != nil {
		WriteAPIError(logger, w, err)
		return
	}

	msg, err := BuildContactEmail(h.cfg, &p, timeNow())
	if err == nil {
		err = h.sendEmail(h.cfg, msg)
	}
	if err != nil {
		// Collapses to a generic 500; provider detail stays in the logs.
		WriteAPIError(logger, w, err)
		return
	}

	logger.Info("contact relayed", "ip", ip)
	writeJSON(w, http.StatusOK, successBody{Success: true})
}

// decodePayload reads the capped request body and decodes either JSON or an
// urlencoded form, per config.
func (h *ContactHandler) decodePayload(r *http.Request) (ContactRequest, error) {
	var p ContactRequest

	maxBytes := h.cfg.MaxBodyKB * 1024
	body, err := io.ReadAll(io.LimitReader(r.Body, int64(maxBytes)+1))
	r.Body.Close()
	if err != nil {
		return p, &APIError{Status: http.StatusBadRequest, Code: "INVALID_REQUEST", Message: "Could not read request body"}
	}
	if len(body) > maxBytes {
		return p, &APIError{Status: http.StatusRequestEntityTooLarge, Code: "PAYLOAD_TOO_LARGE", Message: "Payload too large"}
	}
	r.Body = io.NopCloser(strings.NewReader(string(body)))

	ct := r.Header.Get("Content-Type")
	switch {
	case strings.HasPrefix(ct, "application/json") && h.cfg.AllowJSON:
		if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
			return p, &APIError{Status: http.StatusBadRequest, Code: "INVALID_REQUEST", Message: "Invalid request body"}
		}
	case h.cfg.AllowForm:
		if err := r.ParseForm(); err != nil {
			return p, &APIError{Status: http.StatusBadRequest, Code: "INVALID_REQUEST", Message: "Invalid request body"}
		}
		p.Name = r.Form.Get("name")
		p.Email = r.Form.Get("email")
		p.Message = r.Form.Get("message")
		p.Honeypot = r.Form.Get("honeypot")
		// A missing or garbled load time is left at zero, which the timing
		// guard treats as a long-elapsed (passing) submission.
		p.FormLoadTime, _ = strconv.ParseInt(r.Form.Get("formLoadTime"), 10, 64)
	default:
		return p, &APIError{Status: http.StatusUnsupportedMediaType, Code: "UNSUPPORTED_MEDIA_TYPE", Message: "Unsupported content type"}
	}

	return p, nil
}

// originAllowed enforces the CORS allowlist. No allowlist, no Origin header,
// or a matching (or wildcard) entry all pass.
func (h *ContactHandler) originAllowed(r *http.Request) bool {
	if len(h.cfg.AllowedOrigins) == 0 {
		return true
	}
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	for _, ao := range h.cfg.AllowedOrigins {
		if ao == "*" || ao == origin {
			return true
		}
	}
	return false
}

func (h *ContactHandler) setCORSHeaders(w http.ResponseWriter, r *http.Request) {
	if len(h.cfg.AllowedOrigins) == 0 {
		return
	}
	origin := r.Header.Get("Origin")
	for _, ao := range h.cfg.AllowedOrigins {
		if ao == "*" {
			w.Header().Set("Access-Control-Allow-Origin", "*")
			return
		}
		if ao == origin {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Vary", "Origin")
			return
		}
	}
}

func setRateLimitHeaders(w http.ResponseWriter, info RateLimitInfo) {
	w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(info.Remaining))
	w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(info.ResetTime.UnixMilli(), 10))
}

// HandleHealth responds to liveness probes.
func HandleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func clientIP(r *http.Request) string {
	if xf := r.Header.Get("X-Forwarded-For"); xf != "" {
		parts := strings.Split(xf, ",")
		return strings.TrimSpace(parts[0])
	}
	host, _, _ := net.SplitHostPort(r.RemoteAddr)
	return host
}
