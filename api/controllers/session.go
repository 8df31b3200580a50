package controllers

import (
	"net/http"

	"github.com/mesaeats/mesa-client/api/responses"
	"github.com/mesaeats/mesa-client/internal/auth"
	"github.com/mesaeats/mesa-client/pkg/logger"
)

type sessionResponse struct {
	Authenticated bool `json:"authenticated"`
	Session       any  `json:"session,omitempty"`
}

// SessionView reports whether a session is active and returns it when so.
func SessionView(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := svc.Current()
		if !ok {
			responses.WriteSuccess(w, sessionResponse{Authenticated: false})
			return
		}
		responses.WriteSuccess(w, sessionResponse{Authenticated: true, Session: session})
	}
}
