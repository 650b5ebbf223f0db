package server

import (
	"net/http"

	"taskboard/internal/services"
	"taskboard/internal/validation"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type changeUsernameRequest struct {
	CurrentPassword string `json:"current_password"`
	NewUsername     string `json:"new_username"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

type accountResponse struct {
	Message string            `json:"message,omitempty"`
	User    *services.Account `json:"user"`
}

func (s *Server) setCookie(w http.ResponseWriter, session Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.cfg.Server.CookieName,
		Value:    session.Token,
		Path:     "/",
		Expires:  session.ExpiresAt,
		HttpOnly: true,
		Secure:   s.cfg.Server.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *Server) clearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.cfg.Server.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.cfg.Server.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *Server) startSession(w http.ResponseWriter, account *services.Account) {
	s.setCookie(w, s.sessions.Create(account.ID, account.Username, account.Email))
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var form validation.SignupForm
	if err := decodeForm(w, r, &form, map[string]*string{
		"username":         &form.Username,
		"email":            &form.Email,
		"password":         &form.Password,
		"confirm_password": &form.ConfirmPassword,
	}); err != nil {
		s.writeError(w, r, err)
		return
	}

	account, err := s.svc.AccountService.Signup(r.Context(), form)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.startSession(w, account)
	writeJSON(w, http.StatusCreated, accountResponse{
		Message: "Welcome, " + account.Username + "! Your account has been created.",
		User:    account,
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeForm(w, r, &req, map[string]*string{
		"username": &req.Username,
		"password": &req.Password,
	}); err != nil {
		s.writeError(w, r, err)
		return
	}

	account, err := s.svc.AccountService.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.startSession(w, account)
	writeJSON(w, http.StatusOK, accountResponse{
		Message: "Welcome back, " + account.Username + "!",
		User:    account,
	})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	username := "User"
	if cookie, err := r.Cookie(s.cfg.Server.CookieName); err == nil {
		if session, ok := s.sessions.Get(cookie.Value); ok {
			username = session.Username
			s.log.Info("user logged out", "user_id", session.UserID, "username", session.Username)
		}
		s.sessions.Delete(cookie.Value)
	}
	s.clearCookie(w)
	writeJSON(w, http.StatusOK, map[string]string{"message": "Goodbye, " + username + "!"})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	session, _ := SessionFrom(r.Context())
	account, err := s.svc.AccountService.GetAccount(r.Context(), session.UserID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, accountResponse{User: account})
}

func (s *Server) handleChangeUsername(w http.ResponseWriter, r *http.Request) {
	session, _ := SessionFrom(r.Context())

	var req changeUsernameRequest
	if err := decodeForm(w, r, &req, map[string]*string{
		"current_password": &req.CurrentPassword,
		"new_username":     &req.NewUsername,
	}); err != nil {
		s.writeError(w, r, err)
		return
	}

	account, err := s.svc.AccountService.ChangeUsername(r.Context(), session.UserID, req.CurrentPassword, req.NewUsername)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.sessions.Rename(session.UserID, account.Username)
	writeJSON(w, http.StatusOK, accountResponse{Message: "Username updated successfully!", User: account})
}

func (s *Server) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	session, _ := SessionFrom(r.Context())

	var req changePasswordRequest
	if err := decodeForm(w, r, &req, map[string]*string{
		"current_password": &req.CurrentPassword,
		"new_password":     &req.NewPassword,
	}); err != nil {
		s.writeError(w, r, err)
		return
	}

	if err := s.svc.AccountService.ChangePassword(r.Context(), session.UserID, req.CurrentPassword, req.NewPassword); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Password updated successfully!"})
}
