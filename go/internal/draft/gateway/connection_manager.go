package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/mcdev12/draftroom/go/internal/draft/events"
	"github.com/rs/zerolog/log"
)

// PresenceFunc is told when a seat gains its first or loses its last connection.
type PresenceFunc func(ctx context.Context, draftID uuid.UUID, seat int, connected bool) error

// ConnectionManager manages WebSocket connections for draft events
type ConnectionManager struct {
	// Connection pools organized by draft ID
	draftConnections map[uuid.UUID]map[*Connection]bool
	mu               sync.RWMutex

	// Upgrader for WebSocket connections
	upgrader websocket.Upgrader

	config   ConnectionConfig
	states   StateProvider
	presence PresenceFunc

	// Event broadcasting
	broadcastCh chan BroadcastMessage
}

// Connection represents a WebSocket connection to a client. Seat 0 is a spectator.
type Connection struct {
	ID      string
	DraftID uuid.UUID
	Seat    int
	Conn    *websocket.Conn
	Send    chan []byte
	Manager *ConnectionManager

	// Connection metadata
	ConnectedAt time.Time
	LastPing    time.Time
}

// ConnectionConfig holds configuration for WebSocket connections
type ConnectionConfig struct {
	WriteTimeout    time.Duration              `yaml:"write_timeout"`
	ReadTimeout     time.Duration              `yaml:"read_timeout"`
	PingInterval    time.Duration              `yaml:"ping_interval"`
	MaxMessageSize  int64                      `yaml:"max_message_size"`
	ReadBufferSize  int                        `yaml:"read_buffer_size"`
	WriteBufferSize int                        `yaml:"write_buffer_size"`
	SendBuffer      int                        `yaml:"send_buffer"`
	CheckOrigin     func(r *http.Request) bool `yaml:"-"`
}

// BroadcastMessage represents a message to broadcast to connections
type BroadcastMessage struct {
	DraftID uuid.UUID
	Event   *DraftEvent
	Seat    int // Optional: if set, only send to this seat
}

// ConnectionStats is a point-in-time count of connections
type ConnectionStats struct {
	TotalConnections int            `json:"total_connections"`
	ActiveDrafts     int            `json:"active_drafts"`
	DraftConnections map[string]int `json:"draft_connections"`
}

// DefaultConnectionConfig returns default WebSocket configuration
func DefaultConnectionConfig() ConnectionConfig {
	return ConnectionConfig{
		WriteTimeout:    10 * time.Second,
		ReadTimeout:     60 * time.Second,
		PingInterval:    30 * time.Second,
		MaxMessageSize:  1024, // 1KB max message size
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		SendBuffer:      256,
		CheckOrigin: func(r *http.Request) bool {
			return true
		},
	}
}

// NewConnectionManager creates a new WebSocket connection manager. states and presence may be nil.
func NewConnectionManager(config ConnectionConfig, states StateProvider, presence PresenceFunc) *ConnectionManager {
	if config.SendBuffer <= 0 {
		config.SendBuffer = 256
	}
	return &ConnectionManager{
		draftConnections: make(map[uuid.UUID]map[*Connection]bool),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  config.ReadBufferSize,
			WriteBufferSize: config.WriteBufferSize,
			CheckOrigin:     config.CheckOrigin,
		},
		config:      config,
		states:      states,
		presence:    presence,
		broadcastCh: make(chan BroadcastMessage, 1000), // Buffer for high throughput
	}
}

// Start begins processing broadcast messages
func (cm *ConnectionManager) Start(ctx context.Context) {
	log.Info().Msg("connection manager started")

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("connection manager shutting down")
			cm.closeAll()
			return
		case message := <-cm.broadcastCh:
			cm.handleBroadcast(message)
		}
	}
}

// UpgradeConnection upgrades an HTTP connection to WebSocket and sends the current state first
func (cm *ConnectionManager) UpgradeConnection(w http.ResponseWriter, r *http.Request, draftID uuid.UUID, seat int) error {
	conn, err := cm.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("failed to upgrade WebSocket connection")
		return fmt.Errorf("failed to upgrade connection: %w", err)
	}

	now := time.Now()
	connection := &Connection{
		ID:          uuid.New().String(),
		DraftID:     draftID,
		Seat:        seat,
		Conn:        conn,
		Send:        make(chan []byte, cm.config.SendBuffer),
		Manager:     cm,
		ConnectedAt: now,
		LastPing:    now,
	}

	if data := cm.stateSync(r.Context(), draftID); data != nil {
		connection.Send <- data
	}
	cm.registerConnection(connection)

	go connection.writePump()
	go connection.readPump()

	log.Info().
		Str("connection_id", connection.ID).
		Int("seat", seat).
		Str("draft_id", draftID.String()).
		Msg("WebSocket connection established")
	return nil
}

// stateSync renders a StateSync message, or nil when no state is available.
func (cm *ConnectionManager) stateSync(ctx context.Context, draftID uuid.UUID) []byte {
	if cm.states == nil {
		return nil
	}
	state, err := cm.states.GetState(ctx, draftID)
	if err != nil {
		log.Warn().Err(err).Str("draft_id", draftID.String()).Msg("failed to load state for sync")
		return nil
	}
	ev, err := StateSyncEvent(NewDraftStateResponse(state, time.Now(), defaultRecentPicks))
	if err != nil {
		log.Error().Err(err).Msg("failed to build state sync")
		return nil
	}
	data, err := json.Marshal(ev)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal state sync")
		return nil
	}
	return data
}

// registerConnection adds a connection to the manager
func (cm *ConnectionManager) registerConnection(conn *Connection) {
	cm.mu.Lock()
	if cm.draftConnections[conn.DraftID] == nil {
		cm.draftConnections[conn.DraftID] = make(map[*Connection]bool)
	}
	cm.draftConnections[conn.DraftID][conn] = true
	first := conn.Seat > 0 && cm.seatCountLocked(conn.DraftID, conn.Seat) == 1
	total := len(cm.draftConnections[conn.DraftID])
	cm.mu.Unlock()

	log.Debug().
		Str("connection_id", conn.ID).
		Str("draft_id", conn.DraftID.String()).
		Int("total_connections", total).
		Msg("connection registered")

	if first {
		cm.notifyPresence(conn.DraftID, conn.Seat, true)
	}
}

// unregisterConnection removes a connection from the manager
func (cm *ConnectionManager) unregisterConnection(conn *Connection) {
	cm.mu.Lock()
	connections, exists := cm.draftConnections[conn.DraftID]
	if !exists || !connections[conn] {
		cm.mu.Unlock()
		return
	}
	delete(connections, conn)
	close(conn.Send)
	last := conn.Seat > 0 && cm.seatCountLocked(conn.DraftID, conn.Seat) == 0

	// Clean up empty draft connection pools
	if len(connections) == 0 {
		delete(cm.draftConnections, conn.DraftID)
	}
	cm.mu.Unlock()

	log.Info().
		Str("connection_id", conn.ID).
		Int("seat", conn.Seat).
		Str("draft_id", conn.DraftID.String()).
		Msg("connection unregistered")

	if last {
		cm.notifyPresence(conn.DraftID, conn.Seat, false)
	}
}

func (cm *ConnectionManager) seatCountLocked(draftID uuid.UUID, seat int) int {
	n := 0
	for c := range cm.draftConnections[draftID] {
		if c.Seat == seat {
			n++
		}
	}
	return n
}

func (cm *ConnectionManager) notifyPresence(draftID uuid.UUID, seat int, connected bool) {
	if cm.presence == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), cm.config.WriteTimeout)
	defer cancel()
	if err := cm.presence(ctx, draftID, seat, connected); err != nil {
		log.Warn().
			Err(err).
			Str("draft_id", draftID.String()).
			Int("seat", seat).
			Bool("connected", connected).
			Msg("failed to record presence")
	}
}

// BroadcastEvent queues a committed event for every connection on its draft
func (cm *ConnectionManager) BroadcastEvent(ev events.Event) {
	msg, err := FromEvent(ev)
	if err != nil {
		log.Error().Err(err).Str("draft_id", ev.DraftID.String()).Msg("failed to convert event for broadcast")
		return
	}
	cm.BroadcastToDraft(ev.DraftID, msg)
}

// BroadcastToDraft sends an event to all connections for a specific draft
func (cm *ConnectionManager) BroadcastToDraft(draftID uuid.UUID, event *DraftEvent) {
	select {
	case cm.broadcastCh <- BroadcastMessage{DraftID: draftID, Event: event}:
	default:
		log.Warn().Str("draft_id", draftID.String()).Msg("broadcast channel full, dropping message")
	}
}

// BroadcastToSeat sends an event to the connections of one seat in a draft
func (cm *ConnectionManager) BroadcastToSeat(draftID uuid.UUID, seat int, event *DraftEvent) {
	select {
	case cm.broadcastCh <- BroadcastMessage{DraftID: draftID, Event: event, Seat: seat}:
	default:
		log.Warn().
			Str("draft_id", draftID.String()).
			Int("seat", seat).
			Msg("broadcast channel full, dropping seat message")
	}
}

// handleBroadcast processes a broadcast message
func (cm *ConnectionManager) handleBroadcast(message BroadcastMessage) {
	cm.mu.RLock()
	connections, exists := cm.draftConnections[message.DraftID]
	if !exists {
		cm.mu.RUnlock()
		return
	}

	// Create a snapshot of connections to avoid holding lock during broadcast
	var targetConnections []*Connection
	for conn := range connections {
		if message.Seat != 0 && conn.Seat != message.Seat {
			continue
		}
		targetConnections = append(targetConnections, conn)
	}
	cm.mu.RUnlock()

	// Marshal the event once
	eventData, err := json.Marshal(message.Event)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal event for broadcast")
		return
	}

	for _, conn := range targetConnections {
		cm.mu.RLock()
		live := cm.draftConnections[conn.DraftID][conn]
		if live {
			select {
			case conn.Send <- eventData:
			default:
				live = false
			}
		}
		cm.mu.RUnlock()

		if !live {
			// Connection is slow/dead, close it; the client resyncs on reconnect
			log.Warn().
				Str("connection_id", conn.ID).
				Int("seat", conn.Seat).
				Msg("connection send buffer full, closing connection")
			cm.unregisterConnection(conn)
			conn.Conn.Close()
		}
	}

	log.Debug().
		Str("event_type", string(message.Event.Type)).
		Str("draft_id", message.DraftID.String()).
		Int("connections", len(targetConnections)).
		Msg("event broadcasted")
}

// GetConnectionStats returns statistics about active connections
func (cm *ConnectionManager) GetConnectionStats() ConnectionStats {
	cm.mu.RLock()
	defer cm.mu.RUnlock()

	stats := ConnectionStats{
		ActiveDrafts:     len(cm.draftConnections),
		DraftConnections: make(map[string]int, len(cm.draftConnections)),
	}
	for draftID, connections := range cm.draftConnections {
		stats.TotalConnections += len(connections)
		stats.DraftConnections[draftID.String()] = len(connections)
	}
	return stats
}

func (cm *ConnectionManager) closeAll() {
	cm.mu.RLock()
	var all []*Connection
	for _, connections := range cm.draftConnections {
		for conn := range connections {
			all = append(all, conn)
		}
	}
	cm.mu.RUnlock()

	for _, conn := range all {
		cm.unregisterConnection(conn)
	}
}

// writePump handles sending messages to the WebSocket connection
func (c *Connection) writePump() {
	ticker := time.NewTicker(c.Manager.config.PingInterval)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
		c.Manager.unregisterConnection(c)
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(c.Manager.config.WriteTimeout))
			if !ok {
				// Channel was closed
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Error().
					Err(err).
					Str("connection_id", c.ID).
					Msg("failed to write message to WebSocket")
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(c.Manager.config.WriteTimeout))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				log.Error().
					Err(err).
					Str("connection_id", c.ID).
					Msg("failed to send ping")
				return
			}
		}
	}
}

// readPump handles reading messages from the WebSocket connection
func (c *Connection) readPump() {
	defer func() {
		c.Manager.unregisterConnection(c)
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(c.Manager.config.MaxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(c.Manager.config.ReadTimeout))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(c.Manager.config.ReadTimeout))
		return nil
	})

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Error().
					Err(err).
					Str("connection_id", c.ID).
					Msg("unexpected WebSocket close error")
			}
			break
		}

		c.handleClientMessage(message)
		c.Conn.SetReadDeadline(time.Now().Add(c.Manager.config.ReadTimeout))
	}
}

type clientMessage struct {
	Type string `json:"type"`
}

// handleClientMessage processes messages received from the client. Picks go through the
// command API; the socket only serves resync requests.
func (c *Connection) handleClientMessage(message []byte) {
	var msg clientMessage
	if err := json.Unmarshal(message, &msg); err != nil {
		log.Debug().Str("connection_id", c.ID).Msg("ignoring malformed client message")
		return
	}

	switch msg.Type {
	case "sync":
		data := c.Manager.stateSync(context.Background(), c.DraftID)
		if data == nil {
			return
		}
		c.Manager.mu.RLock()
		if c.Manager.draftConnections[c.DraftID][c] {
			select {
			case c.Send <- data:
			default:
			}
		}
		c.Manager.mu.RUnlock()
	default:
		log.Debug().
			Str("connection_id", c.ID).
			Int("seat", c.Seat).
			RawJSON("message", message).
			Msg("received client message")
	}
}
