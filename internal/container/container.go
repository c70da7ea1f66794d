package container

import (
	"context"
	"fmt"

	"sheetchat/adapters/excel"
	"sheetchat/adapters/llm"
	"sheetchat/adapters/postgres"
	"sheetchat/domain/core"
	"sheetchat/internal"
	"sheetchat/internal/chat"
	"sheetchat/internal/config"
	"sheetchat/internal/migration"
	"sheetchat/internal/usage"
	"sheetchat/ports"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// Container holds all application dependencies and manages their lifecycle
type Container struct {
	Config *config.Config

	// Infrastructure
	DB *sqlx.DB

	// Usage ledger
	UsageRepo ports.LLMUsageRepository
	Usage     *usage.Service

	// Chat components
	Completion ports.CompletionClient
	Reader     *excel.DataReader
	Manager    *chat.Manager

	logger *internal.Logger
}

// New creates a new dependency injection container
func New(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	return &Container{
		Config: cfg,
		logger: internal.DefaultLogger.With("Container"),
	}, nil
}

// Init builds every component. client overrides the hosted completion
// client (offline and test runs); nil builds the OpenAI client from config.
func (c *Container) Init(ctx context.Context, client ports.CompletionClient) error {
	if err := c.initUsage(ctx); err != nil {
		return err
	}

	if client == nil {
		client = llm.NewOpenAIClient(llm.Config{
			APIKey:  c.Config.AI.OpenAIKey,
			BaseURL: c.Config.AI.BaseURL,
		})
	}
	c.Completion = client

	readerConfig := excel.DefaultReaderConfig()
	readerConfig.MaxFileSize = c.Config.MaxUploadBytes()
	c.Reader = excel.NewDataReader(readerConfig)
	c.Manager = chat.NewManager(c.NewSession, c.Config.Session.IdleTTL)

	c.logger.Info("initialized (model=%s, history limit=%d, usage ledger=%s)",
		c.Config.AI.Model, c.Config.AI.HistoryLimit, c.ledgerKind())
	return nil
}

// initUsage picks the postgres ledger when DATABASE_URL is set and falls
// back to memory otherwise
func (c *Container) initUsage(ctx context.Context) error {
	if c.Config.Database.URL == "" {
		c.UsageRepo = usage.NewMemoryRepository()
		c.Usage = usage.NewService(c.UsageRepo)
		return nil
	}

	db, err := sqlx.ConnectContext(ctx, "postgres", c.Config.Database.URL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := migration.NewRunner().Run(ctx, db); err != nil {
		db.Close()
		return fmt.Errorf("database migration failed: %w", err)
	}

	c.DB = db
	c.UsageRepo = postgres.NewLLMUsageRepository(db)
	c.Usage = usage.NewService(c.UsageRepo)
	return nil
}

func (c *Container) ledgerKind() string {
	if c.DB != nil {
		return "postgres"
	}
	return "memory"
}

// Settings returns the completion parameters shared by every session
func (c *Container) Settings() chat.Settings {
	return chat.Settings{
		Model:        c.Config.AI.Model,
		MaxTokens:    c.Config.AI.MaxTokens,
		Temperature:  c.Config.AI.Temperature,
		HistoryLimit: c.Config.AI.HistoryLimit,
		PreviewRows:  c.Config.Upload.PreviewRows,
	}
}

// NewSession builds a session wired to the shared client and usage ledger
func (c *Container) NewSession(id core.ID) *chat.Session {
	var recorder usage.Recorder
	if c.Usage != nil {
		recorder = c.Usage
	}
	return chat.NewSession(id, c.Completion, recorder, c.Settings())
}

// Shutdown flushes pending usage writes and closes the database
func (c *Container) Shutdown(ctx context.Context) error {
	if c.Usage != nil {
		done := make(chan struct{})
		go func() {
			c.Usage.Wait()
			close(done)
		}()
		select {
		case <-done:
		case <-ctx.Done():
			c.logger.Warn("shutdown before usage writes finished: %v", ctx.Err())
		}
	}
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}
