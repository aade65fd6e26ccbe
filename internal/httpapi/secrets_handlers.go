package httpapi

import (
	"encoding/json"
	"net/http"
	"strings"
	"sync/atomic"

	"jobs-portal/internal/config"
	"jobs-portal/internal/secrets"
)

type SecretsHandler struct {
	CfgVal *atomic.Value // stores config.Config
}

type setTokenReq struct {
	Token string `json:"token"`
}

func (h SecretsHandler) account() string {
	cfg := h.CfgVal.Load().(config.Config)
	return cfg.Backend.TokenAccount
}

func (h SecretsHandler) SetBackendToken(w http.ResponseWriter, r *http.Request) {
	var req setTokenReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, r, http.StatusBadRequest, "bad_json", "invalid json")
		return
	}
	if strings.TrimSpace(req.Token) == "" {
		WriteError(w, r, http.StatusBadRequest, "empty_token", "token is required")
		return
	}
	if err := secrets.SetBackendToken(h.account(), req.Token); err != nil {
		WriteError(w, r, http.StatusBadRequest, "store_failed", "failed to store token: "+err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h SecretsHandler) DeleteBackendToken(w http.ResponseWriter, r *http.Request) {
	if err := secrets.DeleteBackendToken(h.account()); err != nil {
		WriteError(w, r, http.StatusBadRequest, "delete_failed", err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
