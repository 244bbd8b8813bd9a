package table

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/DoyleJ11/yahtzee-backend/internal/dice"
	"github.com/DoyleJ11/yahtzee-backend/internal/engine"
	"github.com/DoyleJ11/yahtzee-backend/internal/journal"
	"github.com/DoyleJ11/yahtzee-backend/internal/metrics"
	"github.com/DoyleJ11/yahtzee-backend/internal/types"
)

var ErrClosed = errors.New("table closed")

const journalTimeout = 5 * time.Second

type Msg interface{ isTableMsg() }

type FromClient struct {
	ClientID string
	Cmd      engine.Command
	Reply    chan Outcome // optional, needs room for one value
}

func (FromClient) isTableMsg() {}

type Join struct {
	ClientID string
	Outbox   chan Snapshot // where this client wants to receive snapshots
}

func (Join) isTableMsg() {}

type Leave struct{ ClientID string }

func (Leave) isTableMsg() {}

type Shutdown struct{}

func (Shutdown) isTableMsg() {}

type GetState struct {
	Reply chan View
}

func (GetState) isTableMsg() {}

type Snapshot struct {
	Version int
	Code    string
	Round   engine.View
}

// Outcome answers a FromClient. Err is set when the engine refused the
// command; the snapshot is then the unchanged state.
type Outcome struct {
	Events   []engine.Event
	Snapshot Snapshot
	Err      error
}

type View struct {
	Version    int
	NumClients int
	Round      engine.View
}

type Deps struct {
	Logger    *zap.Logger
	Journal   journal.Journal
	Metrics   *metrics.Metrics
	NewRoller func() dice.Roller
}

func (d Deps) withDefaults() Deps {
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	if d.Journal == nil {
		d.Journal = journal.NewMemory()
	}
	if d.Metrics == nil {
		d.Metrics = metrics.New(prometheus.NewRegistry())
	}
	if d.NewRoller == nil {
		d.NewRoller = func() dice.Roller { return dice.Standard{} }
	}
	return d
}

// Table owns one round engine. All access to the engine goes through the
// table's goroutine.
type Table struct {
	code    string
	inbox   chan Msg
	round   *engine.Engine
	version int
	clients map[string]chan Snapshot
	ctx     context.Context
	cancel  context.CancelFunc

	log     *zap.Logger
	journal journal.Journal
	metrics *metrics.Metrics
}

func NewTable(parent context.Context, code string, deps Deps) *Table {
	deps = deps.withDefaults()
	ctx, cancel := context.WithCancel(parent)

	t := &Table{
		code:    code,
		inbox:   make(chan Msg, 64), // Small buffer
		round:   engine.New(deps.NewRoller()),
		clients: make(map[string]chan Snapshot),
		ctx:     ctx,
		cancel:  cancel,
		log:     deps.Logger.With(zap.String("table", code)),
		journal: deps.Journal,
		metrics: deps.Metrics,
	}

	go t.loop()
	return t
}

func (t *Table) loop() {
	for {
		select {
		case <-t.ctx.Done():
			t.shutdown()
			return

		case m := <-t.inbox:
			switch msg := m.(type) {
			case Join:
				// Register client + send current snapshot immediately
				t.clients[msg.ClientID] = msg.Outbox
				msg.Outbox <- t.snapshot()
				t.log.Debug("client joined", zap.String("client", msg.ClientID))

			case Leave:
				// The outbox may already be gone if broadcast dropped it.
				if ch, ok := t.clients[msg.ClientID]; ok {
					close(ch)
					delete(t.clients, msg.ClientID)
				}
				t.log.Debug("client left", zap.String("client", msg.ClientID))

			case FromClient:
				out := t.apply(msg)
				if msg.Reply != nil {
					msg.Reply <- out
				}

			case GetState:
				// test-only: reflect internal state without data races
				msg.Reply <- View{
					Version:    t.version,
					NumClients: len(t.clients),
					Round:      t.round.View(),
				}

			case Shutdown:
				t.shutdown()
				return
			}
		}
	}
}

func (t *Table) apply(msg FromClient) Outcome {
	log := t.log.With(zap.String("client", msg.ClientID), zap.String("command", string(msg.Cmd.Type)))

	events, err := t.round.Apply(msg.Cmd)
	if err != nil {
		t.metrics.Rejected.WithLabelValues(types.ErrorCode(err)).Inc()
		log.Debug("command rejected", zap.Error(err))
		return Outcome{Snapshot: t.snapshot(), Err: err}
	}

	for _, evt := range events {
		switch evt.Type {
		case engine.EvtDiceRolled:
			t.metrics.Rolls.Inc()
		case engine.EvtCategoryScored:
			t.metrics.Scores.WithLabelValues(evt.Category.String()).Inc()
			t.record(log, evt)
		}
	}

	t.version++
	snap := t.snapshot()
	t.broadcast(snap)
	return Outcome{Events: events, Snapshot: snap}
}

// record journals a committed round. The round has already been reset, so a
// journal failure is logged rather than undone.
func (t *Table) record(log *zap.Logger, evt engine.Event) {
	ctx, cancel := context.WithTimeout(t.ctx, journalTimeout)
	defer cancel()

	err := t.journal.Append(ctx, journal.Entry{
		TableCode: t.code,
		Category:  evt.Category,
		Dice:      evt.Dice,
		Score:     evt.Score,
	})
	if err != nil {
		log.Error("journal append failed", zap.Error(err))
		return
	}
	log.Info("round scored",
		zap.String("category", evt.Category.String()),
		zap.Int("score", evt.Score),
		zap.Ints("dice", evt.Dice[:]),
	)
}

func (t *Table) snapshot() Snapshot {
	return Snapshot{Version: t.version, Code: t.code, Round: t.round.View()}
}

func (t *Table) shutdown() {
	for id, ch := range t.clients {
		close(ch) // Tell client no more snapshots
		delete(t.clients, id)
	}
	t.cancel()
}

func (t *Table) broadcast(snap Snapshot) {
	for id, ch := range t.clients {
		select {
		case ch <- snap:
			//ok
		default:
			// Client is slow/full - drop them.
			close(ch)
			delete(t.clients, id)
			t.log.Warn("dropped slow client", zap.String("client", id))
		}
	}
}

func (t *Table) Code() string { return t.code }

// Expose the inbox so tests or WS layer can send messages.
func (t *Table) Inbox() chan<- Msg { return t.inbox }

// Done is closed once the table has stopped.
func (t *Table) Done() <-chan struct{} { return t.ctx.Done() }

// Send delivers msg unless the table or ctx finishes first.
func (t *Table) Send(ctx context.Context, msg Msg) error {
	select {
	case t.inbox <- msg:
		return nil
	case <-t.ctx.Done():
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Do runs cmd on the table and waits for the outcome.
func (t *Table) Do(ctx context.Context, clientID string, cmd engine.Command) (Outcome, error) {
	reply := make(chan Outcome, 1)
	if err := t.Send(ctx, FromClient{ClientID: clientID, Cmd: cmd, Reply: reply}); err != nil {
		return Outcome{}, err
	}
	select {
	case out := <-reply:
		return out, nil
	case <-t.ctx.Done():
		return Outcome{}, ErrClosed
	case <-ctx.Done():
		return Outcome{}, ctx.Err()
	}
}

// State reads the table's current view.
func (t *Table) State(ctx context.Context) (View, error) {
	reply := make(chan View, 1)
	if err := t.Send(ctx, GetState{Reply: reply}); err != nil {
		return View{}, err
	}
	select {
	case v := <-reply:
		return v, nil
	case <-t.ctx.Done():
		return View{}, ErrClosed
	case <-ctx.Done():
		return View{}, ctx.Err()
	}
}
