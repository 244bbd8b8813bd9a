package hub

import (
	"context"

	"go.uber.org/zap"

	"github.com/DoyleJ11/yahtzee-backend/internal/table"
)

type HubMsg interface{ isHubMsg() }

type CreateTable struct {
	Code  string
	Reply chan *table.Table
}

type GetTable struct {
	Code  string
	Reply chan *table.Table
}

type EnsureTable struct {
	Code  string
	Reply chan *table.Table
}

// RemoveTable stops and forgets a table. Reply, if set, receives the removed
// table or nil when none was registered.
type RemoveTable struct {
	Code  string
	Reply chan *table.Table
}

type Hub struct {
	inbox  chan HubMsg
	tables map[string]*table.Table
	deps   table.Deps
	ctx    context.Context
	cancel context.CancelFunc
}

type ShutdownHub struct{}

func (CreateTable) isHubMsg() {}
func (GetTable) isHubMsg()    {}
func (EnsureTable) isHubMsg() {}
func (RemoveTable) isHubMsg() {}
func (ShutdownHub) isHubMsg() {}

// NewHub starts the hub. Every table it creates shares deps.
func NewHub(parent context.Context, deps table.Deps) *Hub {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(parent)
	h := &Hub{
		inbox:  make(chan HubMsg, 64),
		tables: make(map[string]*table.Table),
		deps:   deps,
		ctx:    ctx,
		cancel: cancel,
	}
	go h.loop()
	return h
}

func (h *Hub) Inbox() chan<- HubMsg { return h.inbox }

// Done is closed once the hub has stopped.
func (h *Hub) Done() <-chan struct{} { return h.ctx.Done() }

func (h *Hub) loop() {
	for {
		select {
		case <-h.ctx.Done():
			// Tables share h.ctx, so they stop on their own.
			return

		case m := <-h.inbox:
			switch msg := m.(type) {
			case CreateTable, EnsureTable:
				code, reply := tableRequest(msg)
				if tb := h.tables[code]; tb != nil {
					reply <- tb
					break
				}
				tb := table.NewTable(h.ctx, code, h.deps)
				h.tables[code] = tb
				h.gauge()
				h.deps.Logger.Info("table created", zap.String("table", code))
				reply <- tb

			case GetTable:
				msg.Reply <- h.tables[msg.Code] // May be nil

			case RemoveTable:
				tb := h.tables[msg.Code]
				if tb != nil {
					tb.Inbox() <- table.Shutdown{}
					delete(h.tables, msg.Code)
					h.gauge()
					h.deps.Logger.Info("table removed", zap.String("table", msg.Code))
				}
				if msg.Reply != nil {
					msg.Reply <- tb
				}

			case ShutdownHub:
				for _, tb := range h.tables {
					tb.Inbox() <- table.Shutdown{}
				}
				clear(h.tables)
				h.gauge()
				h.cancel()
			}
		}
	}
}

func tableRequest(msg HubMsg) (string, chan *table.Table) {
	switch m := msg.(type) {
	case CreateTable:
		return m.Code, m.Reply
	case EnsureTable:
		return m.Code, m.Reply
	}
	return "", nil
}

func (h *Hub) gauge() {
	if h.deps.Metrics != nil {
		h.deps.Metrics.TablesActive.Set(float64(len(h.tables)))
	}
}

// Lookup returns the table for code, or nil.
func (h *Hub) Lookup(ctx context.Context, code string) (*table.Table, error) {
	reply := make(chan *table.Table, 1)
	return h.request(ctx, GetTable{Code: code, Reply: reply}, reply)
}

// Ensure returns the table for code, creating it if needed.
func (h *Hub) Ensure(ctx context.Context, code string) (*table.Table, error) {
	reply := make(chan *table.Table, 1)
	return h.request(ctx, EnsureTable{Code: code, Reply: reply}, reply)
}

// Remove shuts down the table for code and returns it, or nil if there was none.
func (h *Hub) Remove(ctx context.Context, code string) (*table.Table, error) {
	reply := make(chan *table.Table, 1)
	return h.request(ctx, RemoveTable{Code: code, Reply: reply}, reply)
}

func (h *Hub) request(ctx context.Context, msg HubMsg, reply <-chan *table.Table) (*table.Table, error) {
	select {
	case h.inbox <- msg:
	case <-h.ctx.Done():
		return nil, table.ErrClosed
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	select {
	case tb := <-reply:
		return tb, nil
	case <-h.ctx.Done():
		return nil, table.ErrClosed
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
