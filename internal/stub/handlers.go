package stub

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/testplatform/probe/internal/passwd"
)

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := validate.Struct(req); err != nil {
		respondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	user, err := s.store.UserByName(req.Username)
	if err != nil {
		respondWithError(w, r, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	ok, err := passwd.Check(user.PasswordHash, req.Password)
	if err != nil {
		respondWithErrorAndLog(w, r, http.StatusInternalServerError, "Failed to authenticate user", err)
		return
	}
	if !ok {
		respondWithError(w, r, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	access, refresh, err := s.tokens.Issue(r.Context(), user)
	if err != nil {
		respondWithErrorAndLog(w, r, http.StatusInternalServerError, "Failed to generate authentication token", err)
		return
	}

	respondWithJSON(w, r, http.StatusOK, LoginResponse{
		Token:        access,
		RefreshToken: refresh,
		TokenType:    "Bearer",
		ExpiresIn:    int64(s.tokens.Lifetime().Seconds()),
		Username:     user.Username,
		Role:         user.Role,
		FullName:     user.FullName,
	})
}

func (s *Server) listConfigs(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, r, http.StatusOK, s.store.Configs())
}

func (s *Server) listSuites(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, r, http.StatusOK, s.store.Suites())
}

func (s *Server) createSuite(w http.ResponseWriter, r *http.Request) {
	var req CreateTestSuiteRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := validate.Struct(req); err != nil {
		respondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	respondWithJSON(w, r, http.StatusCreated, s.store.CreateSuite(req))
}

func (s *Server) getSuite(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, r, http.StatusBadRequest, "Invalid test suite ID")
		return
	}

	suite, err := s.store.Suite(id)
	if err != nil {
		if errors.Is(err, ErrSuiteNotFound) {
			respondWithError(w, r, http.StatusNotFound, "Test suite not found")
			return
		}
		respondWithErrorAndLog(w, r, http.StatusInternalServerError, "Failed to load test suite", err)
		return
	}

	respondWithJSON(w, r, http.StatusOK, suite)
}
