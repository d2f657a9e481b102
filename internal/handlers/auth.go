package handlers

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

const sessionCookieName = "stylematch_session"

// HandleLogin compares submitted credentials against the two configured
// secrets and issues an opaque session cookie on success.
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if h.auth.Username == "" || h.auth.Password == "" {
		h.writeError(w, "Login is not configured", http.StatusInternalServerError)
		return
	}

	username := r.FormValue("username")
	password := r.FormValue("password")

	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(h.auth.Username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(h.auth.Password)) == 1
	if !userOK || !passOK {
		h.writeError(w, "Invalid credentials", http.StatusUnauthorized)
		return
	}

	token := uuid.NewString()
	h.sessions.Add(token)

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	h.writeJSON(w, map[string]string{"status": "ok"})
}

// HandleLogout revokes the caller's session token.
func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(sessionCookieName); err == nil {
		h.sessions.Delete(cookie.Value)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	h.writeJSON(w, map[string]string{"status": "ok"})
}

// RequireSession gates everything except the login surface, static assets
// and the healthcheck. API callers get a 401; page loads get redirected to
// the login page.
func (h *Handler) RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if openPath(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		cookie, err := r.Cookie(sessionCookieName)
		if err != nil || !h.sessions.Valid(cookie.Value) {
			if strings.HasPrefix(r.URL.Path, "/api/") {
				h.writeError(w, "Authentication required", http.StatusUnauthorized)
				return
			}
			http.Redirect(w, r, "/login", http.StatusFound)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func openPath(path string) bool {
	switch path {
	case "/login", "/api/login", "/healthcheck":
		return true
	}
	return strings.HasPrefix(path, "/static/")
}
