package api

import (
	"context"
	stderrors "errors"
	"net/http"

	"github.com/felixgeelhaar/taskflow/internal/auth"
	"github.com/felixgeelhaar/taskflow/internal/errors"
	"github.com/felixgeelhaar/taskflow/internal/store"
)

func (a *API) handleRegister(w http.ResponseWriter, r *http.Request) {
	a.authenticate(w, r, a.accounts.Register)
}

func (a *API) handleLogin(w http.ResponseWriter, r *http.Request) {
	a.authenticate(w, r, a.accounts.Login)
}

type accountFunc func(ctx context.Context, email, password string) (*auth.Result, error)

func (a *API) authenticate(w http.ResponseWriter, r *http.Request, fn accountFunc) {
	var req credentialsRequest
	if err := decodeJSON(r, &req); err != nil {
		a.writeError(w, r, err)
		return
	}

	res, err := fn(r.Context(), req.Email, req.Password)
	if err != nil {
		a.writeError(w, r, auth.ToTaskflowError(err))
		return
	}

	a.writeJSON(w, http.StatusOK, authResponse{
		Email:     res.Email,
		Token:     res.Token,
		ExpiresAt: res.ExpiresAt,
	})
}

func (a *API) handleMe(w http.ResponseWriter, r *http.Request) {
	user, err := a.store.GetUser(r.Context(), claims(r).UserID())
	if stderrors.Is(err, store.ErrNotFound) {
		a.writeError(w, r, errors.NewUnauthenticatedError("the account for this token no longer exists"))
		return
	}
	if err != nil {
		a.writeError(w, r, err)
		return
	}

	a.writeJSON(w, http.StatusOK, userResponse{ID: user.ID, Email: user.Email, CreatedAt: user.CreatedAt})
}
