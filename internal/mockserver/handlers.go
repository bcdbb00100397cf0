package mockserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/spigell/skanjo/internal/logger"
	"github.com/spigell/skanjo/internal/skanjo"
	"github.com/spigell/skanjo/internal/utils"
	"github.com/spigell/skanjo/internal/validate"
)

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	var req skanjo.RegisterRequest
	if !decode(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		writeValidation(w, err)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "Could not store password")
		return
	}

	email := normalizeEmail(req.Email)

	s.mu.Lock()
	if _, exists := s.accounts[email]; exists {
		s.mu.Unlock()
		writeMessage(w, http.StatusConflict, "Email already registered")
		return
	}
	s.nextID++
	acc := &account{
		identity: skanjo.Identity{
			ID:          s.nextID,
			Name:        strings.TrimSpace(req.Name),
			Email:       email,
			Phone:       strings.TrimSpace(req.Phone),
			CompanyName: strings.TrimSpace(req.CompanyName),
			Position:    strings.TrimSpace(req.Position),
			APIKey:      newKey("sk_"),
			IsActive:    true,
		},
		passwordHash: hash,
	}
	s.accounts[email] = acc
	s.keys[acc.identity.APIKey] = email
	identity := acc.identity
	s.mu.Unlock()

	s.logger.Info("registered", logger.StringFields(
		logger.StringField{Key: logger.FieldEmail, Value: email},
		logger.StringField{Key: "api_key", Value: utils.MaskSecret(identity.APIKey)},
	)...)
	writeJSON(w, http.StatusOK, identity)
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req skanjo.LoginRequest
	if !decode(w, r, &req) {
		return
	}

	s.mu.Lock()
	acc, ok := s.accounts[normalizeEmail(req.Email)]
	var (
		hash     []byte
		identity skanjo.Identity
	)
	if ok {
		hash = acc.passwordHash
		identity = acc.identity
	}
	s.mu.Unlock()

	if !ok || hash == nil || bcrypt.CompareHashAndPassword(hash, []byte(req.Password)) != nil {
		writeMessage(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	writeJSON(w, http.StatusOK, identity)
}

func (s *Server) addClient(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ClientEmail string `json:"client_email"`
	}
	if !decode(w, r, &req) {
		return
	}
	if err := (&validate.Validator{}).Email("client_email", req.ClientEmail).Err(); err != nil {
		writeValidation(w, err)
		return
	}

	email := normalizeEmail(req.ClientEmail)
	key := newKey("sk_")

	s.mu.Lock()
	acc, ok := s.accounts[email]
	if !ok {
		s.nextID++
		acc = &account{identity: skanjo.Identity{ID: s.nextID, Email: email, IsActive: true}}
		s.accounts[email] = acc
	}
	if acc.identity.APIKey != "" {
		delete(s.keys, acc.identity.APIKey)
	}
	acc.identity.APIKey = key
	s.keys[key] = email
	s.mu.Unlock()

	s.logger.Info("api key issued", zap.String(logger.FieldEmail, email))
	writeJSON(w, http.StatusOK, skanjo.APIKeyResponse{APIKey: key, Message: "Client added"})
}

func (s *Server) updateProfile(w http.ResponseWriter, r *http.Request) {
	var req skanjo.ProfileUpdate
	if !decode(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		writeValidation(w, err)
		return
	}

	key := apiKeyFrom(r.Context())

	s.mu.Lock()
	if acc, ok := s.accounts[s.keys[key]]; ok {
		acc.profile = &req
	}
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, skanjo.ProfileResponse{Success: true, Message: "Profile updated"})
}

func (s *Server) analytics(w http.ResponseWriter, r *http.Request) {
	key := apiKeyFrom(r.Context())

	s.mu.Lock()
	records := append([]skanjo.AnalyticsRecord{}, s.calls[key]...)
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, records)
}

func (s *Server) createFeatureKey(w http.ResponseWriter, r *http.Request) {
	plan, err := skanjo.FindPlan(r.URL.Query().Get("plan"))
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Unknown plan")
		return
	}

	var req struct {
		Scopes []string `json:"scopes"`
	}
	if !decode(w, r, &req) {
		return
	}
	if len(req.Scopes) == 0 {
		writeMessage(w, http.StatusBadRequest, "At least one scope is required")
		return
	}

	fk := featureKey{key: newKey("fk_"), plan: plan.ID, scopes: req.Scopes}
	key := apiKeyFrom(r.Context())

	s.mu.Lock()
	s.featureKeys[key] = append(s.featureKeys[key], fk)
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, skanjo.FeatureKeyResponse{FeatureKey: fk.key, Message: "Feature key created for " + plan.Name})
}

func decode(w http.ResponseWriter, r *http.Request, target any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(target); err != nil {
		writeMessage(w, http.StatusBadRequest, "Malformed JSON body")
		return false
	}
	return true
}

func writeValidation(w http.ResponseWriter, err error) {
	var ve *validate.Error
	if !errors.As(err, &ve) {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
		"message": ve.Error(),
		"fields":  ve.Fields,
	})
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func newKey(prefix string) string {
	return prefix + strings.ReplaceAll(uuid.NewString(), "-", "")
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
