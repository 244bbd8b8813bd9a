package ws

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"go.uber.org/zap"

	"github.com/DoyleJ11/yahtzee-backend/internal/engine"
	"github.com/DoyleJ11/yahtzee-backend/internal/hub"
	"github.com/DoyleJ11/yahtzee-backend/internal/table"
	"github.com/DoyleJ11/yahtzee-backend/internal/types"
)

const (
	writeTimeout = 3 * time.Second
	readTimeout  = 30 * time.Second
)

func Handler(h *hub.Hub, log *zap.Logger, buffer int) http.HandlerFunc {
	if buffer < 1 {
		buffer = 8
	}
	return func(w http.ResponseWriter, r *http.Request) {
		code := r.URL.Query().Get("code")
		if code == "" {
			http.Error(w, "missing code", http.StatusBadRequest)
			return
		}

		tb, err := h.Lookup(r.Context(), code)
		if err != nil {
			http.Error(w, err.Error(), http.StatusServiceUnavailable)
			return
		}
		if tb == nil {
			http.Error(w, "table not found", http.StatusNotFound)
			return
		}

		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			// In dev ONLY, you can loosen origin checks:
			// OriginPatterns: []string{"http://localhost:*", "http://127.0.0.1:*"},
		})
		if err != nil {
			return
		}
		defer conn.Close(websocket.StatusNormalClosure, "bye")

		out := make(chan table.Snapshot, buffer)
		clientID := randID(6)
		log := log.With(zap.String("table", code), zap.String("client", clientID))

		if err := tb.Send(r.Context(), table.Join{ClientID: clientID, Outbox: out}); err != nil {
			return
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
			defer cancel()
			_ = tb.Send(ctx, table.Leave{ClientID: clientID})
		}()

		// Writer goroutine
		writeCtx, writeCancel := context.WithCancel(r.Context())
		defer writeCancel()
		go func() {
			for {
				select {
				case snap, ok := <-out:
					if !ok {
						// Outbox closed: we left, or the table dropped us or shut down.
						conn.Close(websocket.StatusGoingAway, "table closed")
						return
					}
					round := snap.Round
					msg := types.ServerMessage{Type: "StateSnapshot", Version: snap.Version, Code: snap.Code, Round: &round}
					if err := write(writeCtx, conn, msg); err != nil {
						log.Debug("snapshot write failed", zap.Error(err))
					}
				case <-writeCtx.Done():
					return
				}
			}
		}()

		// Reader loop
		for {
			ctx, cancel := context.WithTimeout(r.Context(), readTimeout)
			_, data, err := conn.Read(ctx)
			cancel()
			if err != nil {
				// Treat clean close/going-away as normal:
				switch websocket.CloseStatus(err) {
				case websocket.StatusNormalClosure, websocket.StatusGoingAway:
					return
				}
				log.Debug("read failed", zap.Error(err))
				return
			}

			var cm types.ClientMessage
			if err := json.Unmarshal(data, &cm); err != nil {
				_ = write(r.Context(), conn, types.ServerMessage{Type: "Error", Error: "bad json", ErrorCode: types.CodeBadRequest})
				continue
			}

			cmd, err := toEngineCommand(cm)
			if err != nil {
				_ = write(r.Context(), conn, types.ErrorMessage(err))
				continue
			}

			outcome, err := tb.Do(r.Context(), clientID, cmd)
			if err != nil {
				return
			}
			// Successes reach the client as a broadcast snapshot.
			if outcome.Err != nil {
				_ = write(r.Context(), conn, types.ErrorMessage(outcome.Err))
			}
		}
	}
}

func write(ctx context.Context, conn *websocket.Conn, msg types.ServerMessage) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	return conn.Write(ctx, websocket.MessageText, payload)
}

func toEngineCommand(m types.ClientMessage) (engine.Command, error) {
	switch m.Type {
	case "Roll":
		return engine.Command{Type: engine.CmdRoll}, nil
	case "Reroll":
		return engine.Command{Type: engine.CmdReroll, Positions: m.Positions}, nil
	case "Score":
		category, err := engine.ParseCategory(m.Category)
		if err != nil {
			return engine.Command{}, err
		}
		return engine.Command{Type: engine.CmdScore, Category: category}, nil
	default:
		return engine.Command{}, fmt.Errorf("%w: %q", engine.ErrUnsupportedCommand, m.Type)
	}
}

func randID(length int) string {
	const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	b := make([]byte, length)
	for i := range b {
		b[i] = charset[rand.Intn(len(charset))]
	}
	return string(b)
}
