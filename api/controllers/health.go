package controllers

import (
	"net/http"

	"github.com/mesaeats/mesa-client/api/responses"
	"github.com/mesaeats/mesa-client/pkg/config"
)

// Healthz reports liveness for the local client daemon.
func Healthz(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		responses.WriteSuccess(w, map[string]string{
			"status": "ok",
			"env":    cfg.App.Env,
		})
	}
}
