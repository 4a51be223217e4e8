package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"

	"github.com/go-ldap/ldap/v3"

	"github.com/lugatuic/ldapuser/auth"
	"github.com/lugatuic/ldapuser/entry"
	"github.com/lugatuic/ldapuser/handlers"
	"github.com/lugatuic/ldapuser/ldapattr"
	"github.com/lugatuic/ldapuser/session"
)

// Authenticator turns a search result into a user and runs account checks.
type Authenticator interface {
	Authenticate(src *ldap.Entry) (*auth.User, error)
}

type SessionStore interface {
	Save(e *entry.Entry) (string, error)
	Load(id string) (*entry.Entry, error)
	Delete(id string)
}

// maxBodyBytes bounds POST /v1/session payloads.
const maxBodyBytes = 1 << 20

type createSessionResponse struct {
	ID   string       `json:"id"`
	User auth.Profile `json:"user"`
}

// HandleCreateSession serves POST /v1/session.
func HandleCreateSession(authn Authenticator, store SessionStore, w http.ResponseWriter, r *http.Request) error {
	defer func() {
		if err := r.Body.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "failed to close request body: %v\n", err)
		}
	}()
	var rec ldapattr.Record
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&rec); err != nil {
		http.Error(w, "invalid json: "+err.Error(), http.StatusBadRequest)
		return nil
	}
	if err := handlers.SanitizeRecord(&rec); err != nil {
		http.Error(w, "invalid input: "+err.Error(), http.StatusBadRequest)
		return nil
	}

	u, err := authn.Authenticate(rec.LDAPEntry())
	switch {
	case errors.Is(err, ldapattr.ErrMissingUsername):
		http.Error(w, "invalid input: "+err.Error(), http.StatusBadRequest)
		return nil
	case auth.IsStatusError(err):
		return writeJSON(w, http.StatusForbidden, map[string]string{"error": err.Error()})
	case err != nil:
		return err
	}

	id, err := store.Save(u.Entry())
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusCreated, createSessionResponse{ID: id, User: u.Profile()})
}

// HandleGetSession serves GET /v1/session?id=.
func HandleGetSession(store SessionStore, w http.ResponseWriter, r *http.Request) error {
	id := r.URL.Query().Get("id")
	if id == "" {
		http.Error(w, "missing id parameter", http.StatusBadRequest)
		return nil
	}

	e, err := store.Load(id)
	if errors.Is(err, session.ErrNotFound) {
		return writeJSON(w, http.StatusNotFound, map[string]string{"error": "session not found"})
	}
	if err != nil {
		var decodeErr *entry.DecodeError
		if errors.As(err, &decodeErr) {
			store.Delete(id)
		}
		return err
	}
	return writeJSON(w, http.StatusOK, auth.NewUser(e).Profile())
}

// HandleDeleteSession serves DELETE /v1/session?id=.
func HandleDeleteSession(store SessionStore, w http.ResponseWriter, r *http.Request) error {
	id := r.URL.Query().Get("id")
	if id == "" {
		http.Error(w, "missing id parameter", http.StatusBadRequest)
		return nil
	}
	store.Delete(id)
	w.WriteHeader(http.StatusNoContent)
	return nil
}

// writeJSON encodes v before touching w, so an encoding error can still be
// answered with a 500 by the caller.
func writeJSON(w http.ResponseWriter, status int, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode response: %w", err)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(append(b, '\n')); err != nil {
		fmt.Fprintf(os.Stderr, "failed to write response: %v\n", err)
	}
	return nil
}
