package api

import (
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"mailvault/errors"
	"mailvault/repositories"
	"mailvault/services"
	"mailvault/validation"
	"mailvault/webhook"

	"github.com/gorilla/mux"
)

// Request body size cap; inbound mail carries HTML bodies and
// base64-encoded attachments.
const maxBodyBytes = 10 << 20

type errorBody struct {
	Error      string                      `json:"error"`
	Violations []validation.FieldViolation `json:"violations,omitempty"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

// profileResponse is the wire shape of a profile; the password hash
// never leaves the server.
type profileResponse struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	Username    string    `json:"username"`
	DisplayName string    `json:"displayName"`
	Plan        string    `json:"plan"`
	BetaAccess  bool      `json:"betaAccess"`
	CreatedAt   time.Time `json:"createdAt"`
}

func toProfileResponse(p repositories.Profile) profileResponse {
	return profileResponse{
		ID:          p.ID.String(),
		Email:       p.Email,
		Username:    p.Username,
		DisplayName: p.DisplayName,
		Plan:        p.Plan,
		BetaAccess:  p.BetaAccess,
		CreatedAt:   p.CreatedAt,
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// writeError maps the service error taxonomy onto HTTP statuses.
// Unknown errors are reported as 500 without their message, so
// internals never leak to the client.
func writeError(w http.ResponseWriter, err error) {
	var violations validation.Violations
	if stderrors.As(err, &violations) {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "validation failed", Violations: violations})
		return
	}

	switch {
	case stderrors.Is(err, errors.ErrUnauthenticated),
		stderrors.Is(err, errors.ErrInvalidCredentials),
		stderrors.Is(err, errors.ErrInvalidSignature):
		writeJSON(w, http.StatusUnauthorized, errorBody{Error: err.Error()})
	case stderrors.Is(err, errors.ErrForbidden):
		writeJSON(w, http.StatusForbidden, errorBody{Error: err.Error()})
	case stderrors.Is(err, errors.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorBody{Error: err.Error()})
	case stderrors.Is(err, errors.ErrUserAlreadyExists),
		stderrors.Is(err, errors.ErrCodeAlreadyUsed):
		writeJSON(w, http.StatusConflict, errorBody{Error: err.Error()})
	case stderrors.Is(err, errors.ErrInvalidCode):
		writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error()})
	case stderrors.Is(err, errors.ErrRateLimited):
		writeJSON(w, http.StatusTooManyRequests, errorBody{Error: err.Error()})
	case stderrors.Is(err, errors.ErrDependency):
		writeJSON(w, http.StatusBadGateway, errorBody{Error: "upstream dependency failed"})
	default:
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "internal error"})
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, target any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(target); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid request body"})
		return false
	}
	return true
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req validation.SignupRequest
	if !decodeBody(w, r, &req) {
		return
	}
	token, err := s.auth.Register(req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, tokenResponse{Token: string(token)})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req validation.LoginRequest
	if !decodeBody(w, r, &req) {
		return
	}
	token, err := s.auth.Login(req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tokenResponse{Token: string(token)})
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	user, ok := userFrom(r.Context())
	if !ok {
		writeError(w, errors.ErrUnauthenticated)
		return
	}
	profile, err := s.profile.GetProfile(user.Email)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toProfileResponse(profile))
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	user, ok := userFrom(r.Context())
	if !ok {
		writeError(w, errors.ErrUnauthenticated)
		return
	}
	var req struct {
		DisplayName string `json:"displayName"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	profile, err := s.profile.UpdateProfile(user.Email, req.DisplayName)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toProfileResponse(profile))
}

func (s *Server) handleBetaRedeem(w http.ResponseWriter, r *http.Request) {
	user, ok := userFrom(r.Context())
	if !ok {
		writeError(w, errors.ErrUnauthenticated)
		return
	}
	var req validation.BetaRedeemRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := s.beta.Redeem(user, req); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"betaAccess": true})
}

func (s *Server) handleCheckout(w http.ResponseWriter, r *http.Request) {
	user, ok := userFrom(r.Context())
	if !ok {
		writeError(w, errors.ErrUnauthenticated)
		return
	}
	var req struct {
		PriceRef string `json:"priceRef"`
		Mode     string `json:"mode"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	mode := services.CheckoutMode(req.Mode)
	if req.Mode == "" {
		mode = services.ModeSubscription
	}
	priceRef := req.PriceRef
	if priceRef == "" {
		priceRef = s.defaultPriceRef
	}
	session, err := s.billing.StartCheckout(r.Context(), user, priceRef, mode)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"sessionId": session.ID, "url": session.URL})
}

func (s *Server) handleSend(w http.ResponseWriter, r *http.Request) {
	user, ok := userFrom(r.Context())
	if !ok {
		writeError(w, errors.ErrUnauthenticated)
		return
	}
	var req struct {
		validation.ComposeRequest
		Attachments []struct {
			Filename    string `json:"filename"`
			Content     []byte `json:"content"`
			ContentType string `json:"contentType"`
		} `json:"attachments"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	attachments := make([]services.OutboundAttachment, len(req.Attachments))
	for i, a := range req.Attachments {
		attachments[i] = services.OutboundAttachment{
			Filename:    a.Filename,
			Content:     a.Content,
			ContentType: a.ContentType,
		}
	}

	providerID, err := s.mail.Send(r.Context(), user, req.ComposeRequest, attachments)
	if err != nil {
		writeError(w, err)
		return
	}
	s.monitor.IncrOutboundSent()
	writeJSON(w, http.StatusAccepted, map[string]string{"providerId": providerID})
}

func (s *Server) handleListMessages(w http.ResponseWriter, r *http.Request) {
	user, ok := userFrom(r.Context())
	if !ok {
		writeError(w, errors.ErrUnauthenticated)
		return
	}
	folder := mux.Vars(r)["folder"]

	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			writeJSON(w, http.StatusBadRequest, errorBody{Error: "limit must be a positive integer"})
			return
		}
		limit = parsed
	}

	messages, err := s.mail.ListMessages(user, folder, limit)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"messages": messages})
}

func (s *Server) handleListProfiles(w http.ResponseWriter, r *http.Request) {
	user, ok := userFrom(r.Context())
	if !ok {
		writeError(w, errors.ErrUnauthenticated)
		return
	}
	profiles, err := s.profile.ListProfiles(user)
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]profileResponse, len(profiles))
	for i, p := range profiles {
		out[i] = toProfileResponse(p)
	}
	writeJSON(w, http.StatusOK, map[string]any{"profiles": out})
}

func (s *Server) handleGenerateCodes(w http.ResponseWriter, r *http.Request) {
	user, ok := userFrom(r.Context())
	if !ok {
		writeError(w, errors.ErrUnauthenticated)
		return
	}
	var req struct {
		Count int `json:"count"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	codes, err := s.beta.GenerateCodes(user, req.Count)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"codes": codes})
}

func (s *Server) handleListCodes(w http.ResponseWriter, r *http.Request) {
	user, ok := userFrom(r.Context())
	if !ok {
		writeError(w, errors.ErrUnauthenticated)
		return
	}
	codes, err := s.beta.ListCodes(user)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"codes": codes})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	user, ok := userFrom(r.Context())
	if !ok {
		writeError(w, errors.ErrUnauthenticated)
		return
	}
	// Stats go through the same admin gate as the profile listing.
	if _, err := s.profile.ListProfiles(user); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.monitor.GetLatest())
}

// handleInboundSimple accepts deliveries signed with a plain body
// HMAC carried in the X-Webhook-Signature header.
func (s *Server) handleInboundSimple(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "unreadable request body"})
		return
	}

	var email validation.InboundEmail
	if err := json.Unmarshal(body, &email); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid request body"})
		return
	}

	s.acceptInbound(w, services.InboundSignature{
		Scheme:    webhook.SchemeSimple,
		RawBody:   string(body),
		Signature: r.Header.Get("X-Webhook-Signature"),
	}, email)
}

// handleInboundTimestamped accepts deliveries signed with the
// timestamped token scheme; the signature material rides in headers.
func (s *Server) handleInboundTimestamped(w http.ResponseWriter, r *http.Request) {
	var email validation.InboundEmail
	if !decodeBody(w, r, &email) {
		return
	}

	s.acceptInbound(w, services.InboundSignature{
		Scheme:    webhook.SchemeTimestamped,
		Token:     r.Header.Get("X-Webhook-Token"),
		Timestamp: r.Header.Get("X-Webhook-Timestamp"),
		Signature: r.Header.Get("X-Webhook-Signature"),
	}, email)
}

func (s *Server) acceptInbound(w http.ResponseWriter, sig services.InboundSignature, email validation.InboundEmail) {
	stored, err := s.inbound.Accept(sig, email)
	if err != nil {
		if stderrors.Is(err, errors.ErrInvalidSignature) {
			s.monitor.IncrWebhooksRejected()
		}
		writeError(w, err)
		return
	}

	s.monitor.IncrInboundAccepted()
	if stored.IsSpam {
		s.monitor.IncrSpamFlagged()
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"id":     stored.ID.String(),
		"folder": stored.Folder,
	})
}
