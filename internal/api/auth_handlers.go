package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/example/storefront/internal/activity"
	"github.com/example/storefront/internal/backend"
	"github.com/example/storefront/internal/domain/customer"
	"github.com/example/storefront/internal/session"
)

type loginData struct {
	Username string
	Next     string
}

func (h *Handlers) LoginForm(w http.ResponseWriter, r *http.Request) {
	if _, ok := session.FromContext(r.Context()); ok {
		redirect(w, r, "/")
		return
	}
	v := h.newView(w, r, "Login")
	v.Data = loginData{Next: localPath(r.URL.Query().Get("next"), "")}
	h.render(w, http.StatusOK, "login.html", v)
}

// Login exchanges credentials for backend tokens, learns whether the user is
// staff, and starts a fresh session.
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	creds := customer.Credentials{
		Username: strings.TrimSpace(r.FormValue("username")),
		Password: r.FormValue("password"),
	}
	next := localPath(r.FormValue("next"), "/")

	v := h.newView(w, r, "Login")
	v.Data = loginData{Username: creds.Username, Next: r.FormValue("next")}
	if errs := creds.Validate(); !errs.Empty() {
		v.Fields = errs
		h.render(w, http.StatusUnprocessableEntity, "login.html", v)
		return
	}

	tokens, err := h.backend.Login(r.Context(), creds)
	if err != nil {
		switch {
		case errors.Is(err, backend.ErrUnauthorized):
			v.Error = "Invalid username or password."
		case formFailure(err, &v):
		default:
			h.fail(w, r, err)
			return
		}
		h.render(w, http.StatusUnauthorized, "login.html", v)
		return
	}

	login := session.Login{
		Username:     creds.Username,
		AccessToken:  tokens.Access,
		RefreshToken: tokens.Refresh,
	}
	if me, err := h.backend.GetCustomer(r.Context(), tokens.Access); err != nil {
		h.logger.Warn().Err(err).Str("username", creds.Username).Msg("could not load customer after login; treating as non-admin")
	} else {
		login.Username = me.Username
		login.IsAdmin = me.IsStaff
	}

	if old, ok := session.FromContext(r.Context()); ok {
		_ = h.sessions.Clear(r.Context(), w, old)
	}
	if _, err := h.sessions.Start(r.Context(), w, login); err != nil {
		h.logger.Error().Err(err).Msg("failed to start session")
		v.Error = "Could not sign you in right now. Please try again."
		h.render(w, http.StatusInternalServerError, "login.html", v)
		return
	}
	h.publish(r, activity.New(activity.UserLoggedIn, login.Username, "").With("admin", boolString(login.IsAdmin)))

	setFlash(w, "success", "Login successful!")
	redirect(w, r, next)
}

func (h *Handlers) RegisterForm(w http.ResponseWriter, r *http.Request) {
	v := h.newView(w, r, "Register")
	v.Data = customer.Registration{}
	h.render(w, http.StatusOK, "register.html", v)
}

// Register validates locally first; an invalid form never reaches the backend.
func (h *Handlers) Register(w http.ResponseWriter, r *http.Request) {
	reg := customer.Registration{
		Username:        strings.TrimSpace(r.FormValue("username")),
		CustomerName:    strings.TrimSpace(r.FormValue("customer_name")),
		Email:           strings.TrimSpace(r.FormValue("email")),
		PhoneNumber:     strings.TrimSpace(r.FormValue("phone_number")),
		Address:         strings.TrimSpace(r.FormValue("address")),
		City:            strings.TrimSpace(r.FormValue("city")),
		State:           strings.TrimSpace(r.FormValue("state")),
		Password:        r.FormValue("password"),
		ConfirmPassword: r.FormValue("confirm_password"),
	}

	v := h.newView(w, r, "Register")
	redisplay := reg
	redisplay.Password, redisplay.ConfirmPassword = "", ""
	v.Data = redisplay

	if errs := reg.Validate(); !errs.Empty() {
		v.Fields = errs
		h.render(w, http.StatusUnprocessableEntity, "register.html", v)
		return
	}

	if _, err := h.backend.Register(r.Context(), reg); err != nil {
		if formFailure(err, &v) {
			h.render(w, http.StatusUnprocessableEntity, "register.html", v)
			return
		}
		h.fail(w, r, err)
		return
	}
	h.publish(r, activity.New(activity.UserRegistered, reg.Username, ""))

	setFlash(w, "success", "Registration successful! Please log in.")
	redirect(w, r, "/login")
}

// Logout revokes the refresh token on the backend, best effort, and always
// ends the local session.
func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	s, ok := session.FromContext(r.Context())
	if !ok {
		redirect(w, r, "/login")
		return
	}

	if err := h.backend.Logout(r.Context(), s.AccessToken, s.RefreshToken); err != nil {
		h.logger.Warn().Err(err).Str("username", s.Username).Msg("backend logout failed")
	}
	if err := h.sessions.Clear(r.Context(), w, s); err != nil {
		h.logger.Error().Err(err).Msg("failed to clear session")
	}
	h.publish(r, activity.New(activity.UserLoggedOut, s.Username, ""))

	setFlash(w, "info", "You have been logged out.")
	redirect(w, r, "/login")
}

func (h *Handlers) ForgotPasswordForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, http.StatusOK, "forgot_password.html", h.newView(w, r, "Forgot Password"))
}

func (h *Handlers) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	email := strings.TrimSpace(r.FormValue("email"))
	v := h.newView(w, r, "Forgot Password")
	v.Data = email
	if !customer.ValidEmail(email) {
		v.Fields.Add("email", "Enter a valid email address.")
		h.render(w, http.StatusUnprocessableEntity, "forgot_password.html", v)
		return
	}

	if err := h.backend.RequestPasswordReset(r.Context(), email); err != nil {
		if errors.Is(err, backend.ErrNotFound) {
			v.Fields.Add("email", "No account uses this email address.")
			h.render(w, http.StatusUnprocessableEntity, "forgot_password.html", v)
			return
		}
		if formFailure(err, &v) {
			h.render(w, http.StatusUnprocessableEntity, "forgot_password.html", v)
			return
		}
		h.fail(w, r, err)
		return
	}
	h.publish(r, activity.New(activity.PasswordResetAsked, "", ""))

	setFlash(w, "success", "Password reset link has been sent to your email.")
	redirect(w, r, "/login")
}

type resetData struct {
	UID   string
	Token string
}

func (h *Handlers) ResetPasswordForm(w http.ResponseWriter, r *http.Request) {
	v := h.newView(w, r, "Reset Password")
	v.Data = resetData{UID: r.PathValue("uid"), Token: r.PathValue("token")}
	h.render(w, http.StatusOK, "reset_password.html", v)
}

func (h *Handlers) ResetPassword(w http.ResponseWriter, r *http.Request) {
	data := resetData{UID: r.PathValue("uid"), Token: r.PathValue("token")}
	reset := customer.PasswordReset{
		Password:        r.FormValue("password"),
		ConfirmPassword: r.FormValue("confirm_password"),
	}

	v := h.newView(w, r, "Reset Password")
	v.Data = data
	if errs := reset.Validate(); !errs.Empty() {
		v.Fields = errs
		h.render(w, http.StatusUnprocessableEntity, "reset_password.html", v)
		return
	}

	if err := h.backend.ResetPassword(r.Context(), data.UID, data.Token, reset.Password); err != nil {
		if formFailure(err, &v) {
			h.render(w, http.StatusUnprocessableEntity, "reset_password.html", v)
			return
		}
		h.fail(w, r, err)
		return
	}
	h.publish(r, activity.New(activity.PasswordResetDone, "", ""))

	setFlash(w, "success", "Your password has been reset. Please log in.")
	redirect(w, r, "/login")
}

func boolString(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
