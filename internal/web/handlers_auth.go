package web

import (
	"net/http"
	"strings"

	"github.com/tair/catalog-console/internal/apperror"
	"github.com/tair/catalog-console/internal/session"
	"github.com/tair/catalog-console/pkg/logger"
)

const (
	msgFillAllFields      = "Please fill in all fields"
	msgInvalidCredentials = "Invalid credentials. Please check your details."
	msgLoginUnavailable   = "Unable to sign in right now. Please try again."
)

// handleRoot sends authenticated users to the listing and everyone else to login
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if session.FromContext(r.Context()).Authenticated() {
		http.Redirect(w, r, "/products", http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (s *Server) handleLoginForm(w http.ResponseWriter, r *http.Request) {
	if session.FromContext(r.Context()).Authenticated() {
		http.Redirect(w, r, "/products", http.StatusSeeOther)
		return
	}
	s.views.Render(w, r, http.StatusOK, "login.html", LoginView{
		Layout: Layout{Title: "Sign in"},
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sc := session.FromContext(ctx)

	username := r.PostFormValue("username")
	password := r.PostFormValue("password")

	view := LoginView{
		Layout:   Layout{Title: "Sign in"},
		Username: username,
	}

	if strings.TrimSpace(username) == "" || strings.TrimSpace(password) == "" {
		view.Error = msgFillAllFields
		s.views.Render(w, r, http.StatusUnprocessableEntity, "login.html", view)
		return
	}

	if _, err := s.sessions.Begin(ctx, sc.SID, username, password); err != nil {
		if apperror.IsAuthentication(err) {
			view.Error = msgInvalidCredentials
			s.views.Render(w, r, http.StatusUnauthorized, "login.html", view)
			return
		}

		logger.Error(ctx).Err(err).Msg("Login failed")
		view.Error = msgLoginUnavailable
		s.views.Render(w, r, http.StatusBadGateway, "login.html", view)
		return
	}

	http.Redirect(w, r, "/products", http.StatusSeeOther)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := s.sessions.End(ctx, session.FromContext(ctx).SID); err != nil {
		logger.Error(ctx).Err(err).Msg("Failed to end session")
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	s.views.Render(w, r, http.StatusNotFound, "not_found.html", NotFoundView{
		Layout:  s.layout(r, "Page not found"),
		Message: "The page you are looking for does not exist.",
		BackURL: "/",
	})
}

// layout builds the common page frame, popping the pending flash message
func (s *Server) layout(r *http.Request, title string) Layout {
	ctx := r.Context()
	sc := session.FromContext(ctx)

	l := Layout{Title: title, User: sc.User}
	if sc.SID == "" {
		return l
	}

	flash, err := s.sessions.Store().PopFlash(ctx, sc.SID)
	if err != nil {
		logger.Warn(ctx).Err(err).Msg("Failed to read flash message")
	}
	l.Flash = flash
	return l
}

// setFlash stores a one-time message for the next page of this session
func (s *Server) setFlash(r *http.Request, kind, message string) {
	ctx := r.Context()
	sid := session.FromContext(ctx).SID
	if err := s.sessions.Store().SetFlash(ctx, sid, session.Flash{Kind: kind, Message: message}); err != nil {
		logger.Warn(ctx).Err(err).Msg("Failed to store flash message")
	}
}
