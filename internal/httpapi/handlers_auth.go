package httpapi

import (
	"net/http"
	"time"
)

func (a *API) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var request registerRequest
	if !decodeJSONBody(w, r, &request) {
		return
	}

	if _, err := a.auth.Register(r.Context(), request.Username, request.Password, request.Fullname, request.Email); err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, successResponse{
		Success: true,
		Message: "registration complete, please log in",
	})
}

func (a *API) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var request loginRequest
	if !decodeJSONBody(w, r, &request) {
		return
	}

	token, session, err := a.auth.Login(r.Context(), request.Username, request.Password)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	setSessionCookie(w, token, int(time.Until(session.ExpiresAt).Seconds()))
	writeJSON(w, http.StatusOK, loginResponse{
		Token: token,
		User: userResponse{
			Username: session.Username,
			Fullname: session.Fullname,
		},
	})
}

func (a *API) HandleVerify(w http.ResponseWriter, r *http.Request) {
	id, ok := identityFromRequest(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "authentication required"})
		return
	}

	writeJSON(w, http.StatusOK, verifyResponse{
		User: userResponse{
			Username: id.session.Username,
			Fullname: id.session.Fullname,
		},
	})
}

func (a *API) HandleLogout(w http.ResponseWriter, r *http.Request) {
	id, ok := identityFromRequest(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "authentication required"})
		return
	}

	if err := a.auth.Logout(r.Context(), id.token); err != nil {
		writeServiceError(w, err)
		return
	}

	clearSessionCookie(w)
	writeJSON(w, http.StatusOK, successResponse{Success: true})
}

// HandleForgotPassword answers identically for known and unknown emails; the
// difference is only visible out of band via the notifier.
func (a *API) HandleForgotPassword(w http.ResponseWriter, r *http.Request) {
	var request forgotPasswordRequest
	if !decodeJSONBody(w, r, &request) {
		return
	}

	if err := a.auth.ForgotPassword(r.Context(), request.Email); err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, successResponse{
		Success: true,
		Message: "if that email is registered, a reset link has been sent",
	})
}

func (a *API) HandleResetPassword(w http.ResponseWriter, r *http.Request) {
	var request resetPasswordRequest
	if !decodeJSONBody(w, r, &request) {
		return
	}

	if err := a.auth.ResetPassword(r.Context(), request.Token, request.NewPassword); err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, successResponse{
		Success: true,
		Message: "password updated, please log in again",
	})
}
