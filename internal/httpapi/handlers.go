package httpapi

import (
	"crypto/rand"
	"encoding/json"
	"errors"
	"io"
	"math/big"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/DoyleJ11/yahtzee-backend/internal/engine"
	"github.com/DoyleJ11/yahtzee-backend/internal/hub"
	"github.com/DoyleJ11/yahtzee-backend/internal/journal"
	"github.com/DoyleJ11/yahtzee-backend/internal/table"
	"github.com/DoyleJ11/yahtzee-backend/internal/types"
)

const codeLength = 6

func GenerateCode() (string, error) {
	const charset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	code := make([]byte, codeLength)
	for i := 0; i < codeLength; i++ {
		num, err := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
		if err != nil {
			return "", err
		}
		code[i] = charset[num.Int64()]
	}
	return string(code), nil
}

type tableResponse struct {
	Code    string         `json:"code"`
	Version int            `json:"version"`
	Round   engine.View    `json:"round"`
	Events  []engine.Event `json:"events,omitempty"`
}

type rollRequest struct {
	// nil rolls every die; an empty list rolls none but still uses a roll.
	Positions *[]int `json:"positions"`
}

type scoreRequest struct {
	Category string `json:"category"`
}

type scoreResponse struct {
	tableResponse
	Category engine.Category `json:"category"`
	Score    int             `json:"score"`
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, errorResponse{Error: msg, Code: code})
}

// writeEngineError maps a refused command to a status. Both round-state
// refusals are 409 and are told apart by their code.
func writeEngineError(w http.ResponseWriter, err error) {
	code := types.ErrorCode(err)
	status := http.StatusInternalServerError
	switch code {
	case types.CodeNoRollsRemaining, types.CodeNoDiceToScore:
		status = http.StatusConflict
	case types.CodeInvalidPosition, types.CodeUnknownCategory, types.CodeUnsupported:
		status = http.StatusBadRequest
	}
	writeError(w, status, code, err.Error())
}

func snapshotResponse(snap table.Snapshot, events []engine.Event) tableResponse {
	return tableResponse{Code: snap.Code, Version: snap.Version, Round: snap.Round, Events: events}
}

func CreateTable(h *hub.Hub, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var code string
		for {
			c, err := GenerateCode()
			if err != nil {
				writeError(w, http.StatusInternalServerError, types.CodeInternal, "failed to generate code")
				return
			}
			existing, err := h.Lookup(r.Context(), c)
			if err != nil {
				writeError(w, http.StatusServiceUnavailable, types.CodeInternal, err.Error())
				return
			}
			if existing == nil {
				code = c
				break
			}
			log.Debug("collision on code, regenerating", zap.String("table", c))
		}

		tb, err := h.Ensure(r.Context(), code)
		if err != nil || tb == nil {
			writeError(w, http.StatusInternalServerError, types.CodeInternal, "failed to create table")
			return
		}

		writeJSON(w, http.StatusCreated, struct {
			Code string `json:"code"`
		}{Code: code})
	}
}

// withTable resolves {code} to a live table or answers 404.
func withTable(h *hub.Hub, next func(http.ResponseWriter, *http.Request, *table.Table)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := chi.URLParam(r, "code")
		tb, err := h.Lookup(r.Context(), code)
		if err != nil {
			writeError(w, http.StatusServiceUnavailable, types.CodeInternal, err.Error())
			return
		}
		if tb == nil {
			writeError(w, http.StatusNotFound, types.CodeNotFound, "table not found")
			return
		}
		next(w, r, tb)
	}
}

func GetTable(h *hub.Hub) http.HandlerFunc {
	return withTable(h, func(w http.ResponseWriter, r *http.Request, tb *table.Table) {
		view, err := tb.State(r.Context())
		if err != nil {
			writeError(w, http.StatusServiceUnavailable, types.CodeInternal, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, tableResponse{Code: tb.Code(), Version: view.Version, Round: view.Round})
	})
}

func DeleteTable(h *hub.Hub, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := chi.URLParam(r, "code")
		tb, err := h.Remove(r.Context(), code)
		if err != nil {
			writeError(w, http.StatusServiceUnavailable, types.CodeInternal, err.Error())
			return
		}
		if tb == nil {
			writeError(w, http.StatusNotFound, types.CodeNotFound, "table not found")
			return
		}
		log.Info("table deleted", zap.String("table", code))
		w.WriteHeader(http.StatusNoContent)
	}
}

func Roll(h *hub.Hub) http.HandlerFunc {
	return withTable(h, func(w http.ResponseWriter, r *http.Request, tb *table.Table) {
		var req rollRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
			writeError(w, http.StatusBadRequest, types.CodeBadRequest, "bad json")
			return
		}

		cmd := engine.Command{Type: engine.CmdRoll}
		if req.Positions != nil {
			cmd = engine.Command{Type: engine.CmdReroll, Positions: *req.Positions}
		}
		run(w, r, tb, cmd, func(out table.Outcome) any {
			return snapshotResponse(out.Snapshot, out.Events)
		})
	})
}

func Score(h *hub.Hub) http.HandlerFunc {
	return withTable(h, func(w http.ResponseWriter, r *http.Request, tb *table.Table) {
		var req scoreRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, types.CodeBadRequest, "bad json")
			return
		}
		category, err := engine.ParseCategory(req.Category)
		if err != nil {
			writeEngineError(w, err)
			return
		}

		run(w, r, tb, engine.Command{Type: engine.CmdScore, Category: category}, func(out table.Outcome) any {
			resp := scoreResponse{tableResponse: snapshotResponse(out.Snapshot, out.Events), Category: category}
			for _, evt := range out.Events {
				if evt.Type == engine.EvtCategoryScored {
					resp.Score = evt.Score
				}
			}
			return resp
		})
	})
}

func run(w http.ResponseWriter, r *http.Request, tb *table.Table, cmd engine.Command, render func(table.Outcome) any) {
	out, err := tb.Do(r.Context(), "http", cmd)
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, types.CodeInternal, err.Error())
		return
	}
	if out.Err != nil {
		writeEngineError(w, out.Err)
		return
	}
	writeJSON(w, http.StatusOK, render(out))
}

func History(h *hub.Hub, j journal.Journal) http.HandlerFunc {
	return withTable(h, func(w http.ResponseWriter, r *http.Request, tb *table.Table) {
		entries, err := j.List(r.Context(), tb.Code())
		if err != nil {
			writeError(w, http.StatusInternalServerError, types.CodeInternal, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, struct {
			Code    string          `json:"code"`
			Entries []journal.Entry `json:"entries"`
		}{Code: tb.Code(), Entries: entries})
	})
}

func Categories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, struct {
		Categories []engine.Category `json:"categories"`
	}{Categories: engine.Categories()})
}

func Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}
