package httpapi

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/radieske/bets-core/internal/bankroll/dto"
	"github.com/radieske/bets-core/internal/bankroll/format"
	"github.com/radieske/bets-core/internal/bankroll/repo"
	"github.com/radieske/bets-core/internal/ledger"
	"github.com/radieske/bets-core/internal/ledger/odds"
)

func movementResponse(mv repo.Movement) dto.MovementResponse {
	return dto.MovementResponse{
		Transaction: mv.Transaction,
		Run:         mv.Run,
		RunOpened:   mv.RunOpened,
		RunClosed:   mv.RunClosed,
	}
}

// onboard cria a conta, a primeira run e o depósito inicial
func (a *API) onboard(w http.ResponseWriter, r *http.Request) {
	var req dto.OnboardingRequest
	if !a.decode(w, r, &req) {
		return
	}
	prefs := format.Preferences{Currency: req.Currency, OddsFormat: format.OddsFormat(req.OddsFormat)}.WithDefaults()

	mv, err := a.Ledger.Onboard(r.Context(), req.UserID, req.InitialBankroll, prefs)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, movementResponse(mv))
}

func (a *API) getPreferences(w http.ResponseWriter, r *http.Request) {
	userID, ok := userParam(w, r)
	if !ok {
		return
	}
	prefs, err := a.Ledger.Preferences(r.Context(), userID)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, prefs)
}

func (a *API) updatePreferences(w http.ResponseWriter, r *http.Request) {
	var req dto.PreferencesRequest
	if !a.decode(w, r, &req) {
		return
	}
	prefs, err := a.Ledger.UpdatePreferences(r.Context(), req.UserID, format.Preferences{
		Currency:   req.Currency,
		OddsFormat: format.OddsFormat(req.OddsFormat),
	})
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, prefs)
}

// recordTransaction: depósito abre run se não houver; saque encerra a run ativa
func (a *API) recordTransaction(w http.ResponseWriter, r *http.Request) {
	var req dto.TransactionRequest
	if !a.decode(w, r, &req) {
		return
	}

	var (
		mv  repo.Movement
		err error
	)
	if ledger.TransactionType(req.Type) == ledger.Withdrawal {
		mv, err = a.Ledger.Withdraw(r.Context(), req.UserID, req.Amount, req.Description)
	} else {
		mv, err = a.Ledger.Deposit(r.Context(), req.UserID, req.Amount, req.Description)
	}
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, movementResponse(mv))
}

func (a *API) listTransactions(w http.ResponseWriter, r *http.Request) {
	userID, ok := userParam(w, r)
	if !ok {
		return
	}
	txs, err := a.Ledger.ListTransactions(r.Context(), userID)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(txs))
}

func (a *API) listRuns(w http.ResponseWriter, r *http.Request) {
	userID, ok := userParam(w, r)
	if !ok {
		return
	}
	runs, err := a.Ledger.ListRuns(r.Context(), userID)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(runs))
}

// createPick converte as odds para decimal (formato do request ou preferência do usuário)
func (a *API) createPick(w http.ResponseWriter, r *http.Request) {
	var req dto.CreatePickRequest
	if !a.decode(w, r, &req) {
		return
	}
	if req.IsParlay && req.Legs < 2 {
		writeError(w, http.StatusBadRequest, "parlay requires at least 2 legs")
		return
	}

	prefs, err := a.Ledger.Preferences(r.Context(), req.UserID)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	oddsFormat := prefs.OddsFormat
	if req.OddsFormat != "" {
		oddsFormat = format.OddsFormat(req.OddsFormat)
	}
	dec := format.ToDecimalOdds(req.Odds, oddsFormat)
	if dec < odds.MinDecimal {
		writeError(w, http.StatusBadRequest, "odds must be at least 1.01 in decimal format")
		return
	}

	in := repo.PickInput{
		MatchDate:   req.MatchDate,
		Sport:       req.Sport,
		Stake:       req.Stake,
		Odds:        dec,
		Bonus:       req.Bonus,
		Selection:   req.Selection,
		IsParlay:    req.IsParlay,
		Legs:        req.Legs,
		Composition: req.Composition,
		Entry:       ledger.ManualEntry{EventDescription: req.EventDescription},
	}
	if req.EntryKind == (ledger.MatchupEntry{}).Kind() {
		in.Entry = ledger.MatchupEntry{HomeTeam: req.HomeTeam, AwayTeam: req.AwayTeam, League: req.League}
	}

	p, err := a.Ledger.CreatePick(r.Context(), req.UserID, in)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, dto.NewPickResponse(p, prefs))
}

func (a *API) listPicks(w http.ResponseWriter, r *http.Request) {
	userID, ok := userParam(w, r)
	if !ok {
		return
	}
	picks, err := a.Ledger.ListPicks(r.Context(), userID)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	prefs, err := a.Ledger.Preferences(r.Context(), userID)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.NewPickResponses(picks, prefs))
}

func (a *API) settlePick(w http.ResponseWriter, r *http.Request) {
	var req dto.SettlePickRequest
	if !a.decode(w, r, &req) {
		return
	}
	p, err := a.Ledger.SettlePick(r.Context(), req.UserID, chi.URLParam(r, "id"), ledger.PickStatus(req.Status))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	prefs, err := a.Ledger.Preferences(r.Context(), req.UserID)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.NewPickResponse(p, prefs))
}

func (a *API) deletePick(w http.ResponseWriter, r *http.Request) {
	userID, ok := userParam(w, r)
	if !ok {
		return
	}
	if err := a.Ledger.DeletePick(r.Context(), userID, chi.URLParam(r, "id")); err != nil {
		a.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) dashboard(w http.ResponseWriter, r *http.Request) {
	userID, ok := userParam(w, r)
	if !ok {
		return
	}
	d, err := a.Ledger.Dashboard(r.Context(), userID)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

// convertOdds aceita ?american=+150 ou ?decimal=2.5
func (a *API) convertOdds(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var dec float64
	switch {
	case q.Get("american") != "":
		v, err := strconv.ParseFloat(q.Get("american"), 64)
		if err != nil || (v > -100 && v < 100) {
			writeError(w, http.StatusBadRequest, "american odds must be <= -100 or >= +100")
			return
		}
		dec = odds.AmericanToDecimal(v)
	case q.Get("decimal") != "":
		v, err := strconv.ParseFloat(q.Get("decimal"), 64)
		if err != nil || v < odds.MinDecimal {
			writeError(w, http.StatusBadRequest, "decimal odds must be >= 1.01")
			return
		}
		dec = v
	default:
		writeError(w, http.StatusBadRequest, "american or decimal required")
		return
	}

	writeJSON(w, http.StatusOK, dto.OddsConversion{
		Decimal:  dec,
		American: odds.DecimalToAmerican(dec),
		Display:  format.Odds(dec, format.OddsAmerican),
	})
}

// nonNil evita "null" em listas vazias
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
