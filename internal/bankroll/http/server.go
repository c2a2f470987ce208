package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/radieske/bets-core/internal/bankroll/dto"
	"github.com/radieske/bets-core/internal/bankroll/repo"
	"github.com/radieske/bets-core/internal/bankroll/service"
)

// API expõe os endpoints REST da banca
type API struct {
	Log      *zap.Logger
	Ledger   *service.Ledger
	WS       http.Handler // opcional: dashboard ao vivo em /ws
	validate *validator.Validate
}

func NewAPI(log *zap.Logger, l *service.Ledger, ws http.Handler) *API {
	return &API{Log: log, Ledger: l, WS: ws, validate: dto.NewValidator()}
}

// Router retorna o roteador HTTP com os endpoints REST
func (a *API) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Post("/v1/onboarding", a.onboard)
	r.Get("/v1/preferences", a.getPreferences)
	r.Put("/v1/preferences", a.updatePreferences)
	r.Post("/v1/transactions", a.recordTransaction)
	r.Get("/v1/transactions", a.listTransactions)
	r.Get("/v1/runs", a.listRuns)
	r.Post("/v1/picks", a.createPick)
	r.Get("/v1/picks", a.listPicks)
	r.Post("/v1/picks/{id}/settle", a.settlePick)
	r.Delete("/v1/picks/{id}", a.deletePick)
	r.Get("/v1/dashboard", a.dashboard)
	r.Get("/v1/odds/convert", a.convertOdds)

	if a.WS != nil {
		r.Handle("/ws", a.WS)
	}
	return r
}

// writeJSON serializa a resposta em JSON e define o status HTTP
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, dto.ErrorResponse{Error: msg})
}

// decode lê o corpo JSON e roda as tags de validação
func (a *API) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "bad json")
		return false
	}
	if err := a.validate.Struct(dst); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return false
	}
	return true
}

func userParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := r.URL.Query().Get("userId")
	if id == "" {
		writeError(w, http.StatusBadRequest, "userId required")
		return "", false
	}
	return id, true
}

// statusFor mapeia erros do ledger: regra de negócio 409, entrada 400, ausente 404
func statusFor(err error) int {
	switch {
	case errors.Is(err, repo.ErrInvalidAmount), errors.Is(err, repo.ErrInvalidStatus):
		return http.StatusBadRequest
	case errors.Is(err, repo.ErrNotFound):
		return http.StatusNotFound
	case service.RejectionReason(err) != "":
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

func (a *API) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		a.Log.Error("request failed", zap.String("path", r.URL.Path),
			zap.String("requestId", middleware.GetReqID(r.Context())), zap.Error(err))
		writeError(w, status, "internal error")
		return
	}
	writeError(w, status, err.Error())
}
