package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/trailmap/internal/browse"
	"github.com/mesh-intelligence/trailmap/internal/catalog"
	"github.com/mesh-intelligence/trailmap/internal/favorites"
	"github.com/mesh-intelligence/trailmap/pkg/types"
)

// SocketConfig contains configuration for browse socket connections.
type SocketConfig struct {
	// Time allowed to write a message to the peer
	WriteWait time.Duration

	// Time allowed to read the next pong message from the peer
	PongWait time.Duration

	// Send pings to peer with this period
	PingPeriod time.Duration

	// Maximum message size allowed from peer
	MaxMessageSize int64

	// Quiet period before typed search text filters the listing
	SearchDelay time.Duration
}

// DefaultSocketConfig returns the default socket configuration.
func DefaultSocketConfig() SocketConfig {
	return SocketConfig{
		WriteWait:      10 * time.Second,
		PongWait:       60 * time.Second,
		PingPeriod:     (60 * time.Second * 9) / 10,
		MaxMessageSize: 64 * 1024,
		SearchDelay:    300 * time.Millisecond,
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Socket message types sent to the client.
const (
	MessageView  = "view"
	MessageError = "error"
)

// SocketMessage is a server-to-client frame.
type SocketMessage struct {
	Type  string       `json:"type"`
	View  *browse.View `json:"view,omitempty"`
	Error string       `json:"error,omitempty"`
}

// SocketAction is a client-to-server frame. Type accepts the browse action
// names with dashes or underscores.
type SocketAction struct {
	Type      string              `json:"type"`
	Category  string              `json:"category,omitempty"`
	Value     string              `json:"value,omitempty"`
	Distance  types.DistanceRange `json:"distance,omitempty"`
	MinRating float64             `json:"min_rating,omitempty"`
	Page      int                 `json:"page,omitempty"`
	TrailID   int                 `json:"trail_id,omitempty"`
}

// Action converts the frame to a browse action.
func (m SocketAction) Action() (browse.Action, error) {
	t, err := browse.ParseActionType(m.Type)
	if err != nil {
		return browse.Action{}, fmt.Errorf("%w: %q", err, m.Type)
	}
	a := browse.Action{
		Type:      t,
		Value:     m.Value,
		Distance:  m.Distance,
		MinRating: m.MinRating,
		Page:      m.Page,
		TrailID:   m.TrailID,
	}
	if t == browse.ActionToggle {
		c, err := types.ParseCategory(m.Category)
		if err != nil {
			return browse.Action{}, fmt.Errorf("%w: %q", err, m.Category)
		}
		a.Category = c
	}
	return a, nil
}

// BrowseSocketHandler runs one browse.Session per connection. The client
// sends SocketAction frames and receives a view after every change,
// including search text applied after the debounce delay, catalog
// reloads, and favorite toggles made elsewhere. The session ends when the peer disconnects or the request
// context is canceled.
func BrowseSocketHandler(h *catalog.Holder, favs *favorites.Store, cfg SocketConfig, logger *zap.Logger) http.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logger.Warn("websocket upgrade failed", zap.Error(err))
			return
		}

		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()

		c := &browseClient{
			conn:    conn,
			catalog: h,
			session: browse.NewSession(h, favs,
				browse.WithLogger(logger),
				browse.WithSearchDelay(cfg.SearchDelay)),
			cfg:     cfg,
			logger:  logger,
			views:   make(chan browse.View, 1),
			replies: make(chan SocketMessage, 16),
			done:    make(chan struct{}),
		}
		unsubscribe := c.session.Subscribe(c.pushView)
		stopReloads := h.Subscribe(func(*catalog.Catalog) { c.session.Refresh() })
		stopFavorites := func() {}
		if favs != nil {
			// Toggles from other sessions or the HTTP API change the marks.
			stopFavorites = favs.Subscribe(func(int, bool) { c.session.Refresh() })
		}
		c.pushView(c.session.View())

		go c.writePump()
		go func() {
			select {
			case <-ctx.Done():
				conn.Close()
			case <-c.done:
			}
		}()

		logger.Debug("browse session opened", zap.String("remote", r.RemoteAddr))
		c.readPump(ctx)

		stopFavorites()
		stopReloads()
		unsubscribe()
		c.session.Close()
		close(c.done)
		conn.Close()
		logger.Debug("browse session closed", zap.String("remote", r.RemoteAddr))
	}
}

type browseClient struct {
	conn    *websocket.Conn
	catalog *catalog.Holder
	session *browse.Session
	cfg     SocketConfig
	logger  *zap.Logger

	// views holds only the latest view; a newer one replaces an unsent one.
	views   chan browse.View
	replies chan SocketMessage
	done    chan struct{}
}

func (c *browseClient) pushView(v browse.View) {
	for {
		select {
		case c.views <- v:
			return
		default:
		}
		select {
		case <-c.views:
		default:
		}
	}
}

func (c *browseClient) reply(err error) {
	select {
	case c.replies <- SocketMessage{Type: MessageError, Error: err.Error()}:
	default:
		c.logger.Warn("dropping socket reply", zap.Error(err))
	}
}

func (c *browseClient) readPump(ctx context.Context) {
	c.conn.SetReadLimit(c.cfg.MaxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(c.cfg.PongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(c.cfg.PongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				c.logger.Warn("websocket read failed", zap.Error(err))
			}
			return
		}
		if err := c.handle(ctx, message); err != nil {
			c.reply(err)
		}
	}
}

func (c *browseClient) handle(ctx context.Context, message []byte) error {
	var msg SocketAction
	if err := json.Unmarshal(message, &msg); err != nil {
		return fmt.Errorf("decoding action: %w", err)
	}
	a, err := msg.Action()
	if err != nil {
		return err
	}
	if a.Type == browse.ActionToggleFavorite && !c.catalog.Load().Has(a.TrailID) {
		return fmt.Errorf("trail %d: %w", a.TrailID, types.ErrNotFound)
	}
	if _, err := c.session.Dispatch(ctx, a); err != nil {
		if errors.Is(err, browse.ErrNoFavorites) {
			return errors.New("favorites are not available")
		}
		return err
	}
	return nil
}

func (c *browseClient) writePump() {
	ticker := time.NewTicker(c.cfg.PingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case v := <-c.views:
			if err := c.write(SocketMessage{Type: MessageView, View: &v}); err != nil {
				return
			}
		case m := <-c.replies:
			if err := c.write(m); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(c.cfg.WriteWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-c.done:
			c.conn.SetWriteDeadline(time.Now().Add(c.cfg.WriteWait))
			c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}

func (c *browseClient) write(m SocketMessage) error {
	c.conn.SetWriteDeadline(time.Now().Add(c.cfg.WriteWait))
	return c.conn.WriteJSON(m)
}
