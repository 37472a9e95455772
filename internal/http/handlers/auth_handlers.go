package handlers

import (
	"net/http"

	"github.com/rogerio-castellano/inventory-dashboard/internal/auth"
	"github.com/rogerio-castellano/inventory-dashboard/internal/logx"
)

// LoginHandler godoc
// @Summary Authenticate the dashboard admin and return a JWT
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body UserLogin true "username and password"
// @Success 200 {object} LoginResult
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 501 {object} ErrorResponse
// @Router /login [post]
func (s *Server) LoginHandler(w http.ResponseWriter, r *http.Request) {
	if !s.loginEnabled() {
		respondError(w, http.StatusNotImplemented, "login is not configured")
		return
	}

	var creds UserLogin
	if err := readJSON(w, r, &creds); err != nil {
		respondError(w, http.StatusBadRequest, "invalid input")
		return
	}

	if err := auth.CheckCredentials(s.adminUser, s.adminHash, creds.Username, creds.Password); err != nil {
		logx.Info().Str("username", creds.Username).Msg("rejected login")
		respondError(w, http.StatusUnauthorized, err.Error())
		return
	}

	token, err := s.auth.GenerateToken(creds.Username)
	if err != nil {
		logx.Error().Err(err).Msg("failed to generate token")
		respondError(w, http.StatusInternalServerError, "failed to generate token")
		return
	}
	respond(w, http.StatusOK, LoginResult{Token: token})
}

// HealthHandler reports liveness.
func (s *Server) HealthHandler(w http.ResponseWriter, r *http.Request) {
	respond(w, http.StatusOK, map[string]string{"status": "ok"})
}
