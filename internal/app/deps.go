package app

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Rorical/RoriQuery/internal/api"
	"github.com/Rorical/RoriQuery/internal/auth"
	"github.com/Rorical/RoriQuery/internal/config"
	"github.com/Rorical/RoriQuery/internal/logging"
	"github.com/Rorical/RoriQuery/internal/nav"
	"github.com/Rorical/RoriQuery/internal/store"
)

// ConversationCacheTTL bounds how long a listed or fetched conversation is
// served from memory.
const ConversationCacheTTL = 5 * time.Minute

// Deps is the shared wiring used by both the TUI and the one-shot commands.
type Deps struct {
	Config  *config.Config
	Logger  *zap.Logger
	Session *auth.Session
	Client  *api.Client
	Store   *store.Conversations
}

// NewDeps loads the configuration and builds the logger, session, API
// client and conversation store. navigator may be nil and set later with
// Session.SetNavigator.
func NewDeps(verbose bool, navigator nav.Navigator) (*Deps, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}

	logger, err := logging.New(cfg.GetLogFile(), cfg.LogLevel, verbose)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	session := auth.NewSession(config.NewTokenStore(cfg), navigator, logger.Named("auth"))
	client := api.NewClient(cfg.GetBaseURL(), session,
		api.WithLogger(logger.Named("api")),
		api.WithRateLimit(cfg.Current().RequestsPerSecond),
	)

	logger.Info("configuration loaded",
		zap.String("profile", cfg.Active()),
		zap.String("base_url", client.BaseURL()),
		zap.Bool("authenticated", session.Authenticated()),
	)

	convs := store.NewConversations(client, ConversationCacheTTL, logger.Named("store"))
	session.OnChange(convs.Invalidate)

	return &Deps{
		Config:  cfg,
		Logger:  logger,
		Session: session,
		Client:  client,
		Store:   convs,
	}, nil
}

// Close flushes the logger.
func (d *Deps) Close() {
	_ = d.Logger.Sync()
}
