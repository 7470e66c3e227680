package httpserver

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	json "github.com/goccy/go-json"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"starwars-gateway/internal/auth"
	"starwars-gateway/internal/catalog"
)

const maxLoginBodySize = 1 << 20

var validate = validator.New()

// handleHealth handles liveness probes
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeResponse(w, http.StatusOK, &HealthResponse{Status: "ok"})
}

// handleLogin exchanges a credential pair for a bearer token. The body is read
// leniently: anything that does not carry the expected pair is a credential failure.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	req := s.parseLoginRequest(w, r)
	if err := validate.Struct(&req); err != nil {
		s.logger.Debug("Incomplete login request", zap.Error(err))
	}

	result, err := s.auth.Login(req.Username, req.Password)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeResponse(w, http.StatusOK, &LoginResponse{
		AccessToken: result.AccessToken,
		TokenType:   result.TokenType,
		ExpiresIn:   int64(result.ExpiresIn.Seconds()),
	})
}

// parseLoginRequest reads the login body into a LoginRequest. Unreadable bodies yield
// empty credentials; scalar values are taken in their string form.
func (s *Server) parseLoginRequest(w http.ResponseWriter, r *http.Request) LoginRequest {
	var fields map[string]interface{}
	if err := s.parseRequest(w, r, &fields); err != nil {
		s.logger.Debug("Unreadable login body", zap.Error(err))
		return LoginRequest{}
	}
	return LoginRequest{
		Username: loginField(fields["username"]),
		Password: loginField(fields["password"]),
	}
}

func loginField(v interface{}) string {
	switch value := v.(type) {
	case nil:
		return ""
	case string:
		return value
	case float64, bool:
		return fmt.Sprint(value)
	default:
		return ""
	}
}

func (s *Server) handleListFilms(w http.ResponseWriter, r *http.Request) {
	page, err := s.catalog.ListFilms(r.Context(), catalog.ParseListQuery(r.URL.Query()))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeResponse(w, http.StatusOK, page)
}

func (s *Server) handleGetFilm(w http.ResponseWriter, r *http.Request) {
	film, err := s.catalog.GetFilm(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeResponse(w, http.StatusOK, film)
}

func (s *Server) handleGetFilmCharacters(w http.ResponseWriter, r *http.Request) {
	characters, err := s.catalog.GetFilmCharacters(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeResponse(w, http.StatusOK, characters)
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	s.writeErrorResponse(w, CodeNotFound, http.StatusNotFound)
}

func (s *Server) handleMethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	s.writeErrorResponse(w, CodeMethodNotAllowed, http.StatusMethodNotAllowed)
}

// parseRequest parses a size-limited JSON request body
func (s *Server) parseRequest(w http.ResponseWriter, r *http.Request, v interface{}) error {
	defer r.Body.Close()
	return json.NewDecoder(http.MaxBytesReader(w, r.Body, maxLoginBodySize)).Decode(v)
}

// writeResponse writes JSON response
func (s *Server) writeResponse(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("Failed to write response", zap.Error(err))
	}
}

// writeErrorResponse writes error response
func (s *Server) writeErrorResponse(w http.ResponseWriter, code string, status int) {
	s.writeResponse(w, status, &ErrorResponse{Error: code})
}

// writeError maps domain errors to status codes. Error details stay in the logs.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		s.writeErrorResponse(w, CodeInvalidCredentials, http.StatusUnauthorized)
	case errors.Is(err, auth.ErrTokenExpired):
		w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token"`)
		s.writeErrorResponse(w, CodeTokenExpired, http.StatusUnauthorized)
	case errors.Is(err, auth.ErrInvalidToken):
		w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token"`)
		s.writeErrorResponse(w, CodeInvalidToken, http.StatusUnauthorized)
	case errors.Is(err, catalog.ErrFilmNotFound):
		s.writeErrorResponse(w, CodeFilmNotFound, http.StatusNotFound)
	case errors.Is(err, catalog.ErrUpstreamUnavailable):
		s.writeErrorResponse(w, CodeUpstreamDown, http.StatusServiceUnavailable)
	default:
		s.logger.Error("Request failed",
			zap.String("path", r.URL.Path),
			zap.String("request_id", RequestID(r.Context())),
			zap.Error(err))
		s.writeErrorResponse(w, CodeInternal, http.StatusInternalServerError)
	}
}
