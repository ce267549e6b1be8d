// Package signal is the websocket adapter: it upgrades connections, runs the
// read/write pumps, and dispatches typed client events into the hub.
package signal

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"duetsync/backend/internal/config"
	"duetsync/backend/internal/domain"
	"duetsync/backend/internal/hub"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

var ErrBackpressure = errors.New("backpressure")

const (
	writeWait = 10 * time.Second
	pongWait  = 60 * time.Second
)

type Controller struct {
	Hub        *hub.Hub
	readLimit  int64
	sendBuffer int
	pingPeriod time.Duration
}

func NewController(h *hub.Hub, cfg *config.Config) *Controller {
	return &Controller{
		Hub:        h,
		readLimit:  cfg.ReadLimit,
		sendBuffer: cfg.SendBuffer,
		pingPeriod: cfg.PingPeriod,
	}
}

// wsConn implements hub.Conn over a gorilla websocket. TrySend never blocks;
// a full send buffer reports backpressure and the frame is dropped.
type wsConn struct {
	conn *websocket.Conn
	send chan []byte

	mu     sync.RWMutex
	closed bool
}

func (c *wsConn) TrySend(data []byte) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return errors.New("connection closed")
	}
	select {
	case c.send <- data:
	default:
		return ErrBackpressure
	}
	return nil
}

func (c *wsConn) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	close(c.send)
	_ = c.conn.Close()
	c.mu.Unlock()
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Handle upgrades the request and registers a fresh session with the hub.
// The connection id is new per transport; reconnects get a new one and are
// resolved back into their room by the join path.
func (ctl *Controller) Handle(ctx context.Context, c *gin.Context) {
	sid := domain.ConnID(uuid.NewString())
	log.Info().Str("module", "signal").Str("conn", string(sid)).Msg("new WS connection")

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("ws upgrade")
		return
	}

	conn := &wsConn{
		conn: ws,
		send: make(chan []byte, ctl.sendBuffer),
	}
	ctl.Hub.Connect(sid, conn)

	ctx, cancel := context.WithCancel(ctx)
	go ctl.writePump(ctx, conn)
	go ctl.readPump(ctx, cancel, sid, conn)
}
