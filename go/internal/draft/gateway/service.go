package gateway

import (
	"context"
	"errors"
	"net/http"

	"github.com/mcdev12/draftroom/go/internal/draft/events"
	"github.com/rs/zerolog/log"
)

// Service is the draft gateway: WebSocket fan-out, the read API and, when an engine is
// attached, the command API.
type Service struct {
	config            Config
	connectionManager *ConnectionManager
	wsHandler         *WebSocketHandler
	stateHandler      *StateHandler
	draftService      *DraftService
	source            EventSource
	auth              *Authenticator
}

// Config holds configuration for the draft gateway service
type Config struct {
	ConnectionConfig ConnectionConfig
	JetStreamConfig  JetStreamConsumerConfig
	AllowedOrigins   []string
}

// Deps are the collaborators the gateway reads from. Engine, Presence, Active and Auth are optional.
type Deps struct {
	States   StateProvider
	Active   ActiveLister
	Engine   Engine
	Presence PresenceFunc
	Source   EventSource
	Auth     *Authenticator
}

// DefaultConfig returns default configuration for the draft gateway
func DefaultConfig() Config {
	return Config{
		ConnectionConfig: DefaultConnectionConfig(),
		JetStreamConfig:  DefaultJetStreamConsumerConfig(),
		AllowedOrigins:   []string{"*"},
	}
}

// NewService creates a new draft gateway service
func NewService(config Config, deps Deps) (*Service, error) {
	if deps.States == nil {
		return nil, errors.New("gateway requires a state provider")
	}
	if deps.Source == nil {
		return nil, errors.New("gateway requires an event source")
	}

	connectionManager := NewConnectionManager(config.ConnectionConfig, deps.States, deps.Presence)

	s := &Service{
		config:            config,
		connectionManager: connectionManager,
		wsHandler:         NewWebSocketHandler(connectionManager, deps.Auth),
		stateHandler:      NewStateHandler(deps.States, deps.Active),
		source:            deps.Source,
		auth:              deps.Auth,
	}
	if deps.Engine != nil {
		s.draftService = NewDraftService(deps.Engine, deps.Auth)
	}
	return s, nil
}

// Start runs the connection manager and the event source until ctx is done
func (s *Service) Start(ctx context.Context) error {
	log.Info().Bool("commands", s.draftService != nil).Msg("starting draft gateway service")

	go s.connectionManager.Start(ctx)

	err := s.source.Start(ctx, s.connectionManager.BroadcastEvent)
	if err != nil && ctx.Err() == nil {
		log.Error().Err(err).Msg("event source failed")
		return err
	}

	log.Info().Msg("draft gateway service stopped")
	return nil
}

// BroadcastEvent pushes an event to connected clients directly
func (s *Service) BroadcastEvent(ev events.Event) {
	s.connectionManager.BroadcastEvent(ev)
}

// GetStats returns statistics about the gateway service
func (s *Service) GetStats() ConnectionStats {
	return s.connectionManager.GetConnectionStats()
}

// Handler returns the gateway's complete HTTP surface
func (s *Service) Handler() http.Handler {
	return newRouter(s)
}
