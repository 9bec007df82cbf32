package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/admitdesk/admitdesk/internal/config"
	"github.com/admitdesk/admitdesk/internal/engine"
	"github.com/admitdesk/admitdesk/internal/knowledge"
	"github.com/admitdesk/admitdesk/internal/memory"
	"github.com/admitdesk/admitdesk/internal/providers"
	"github.com/admitdesk/admitdesk/internal/session"
)

type runtimeOptions struct {
	DataDir  string
	StoreDir string
	Backend  string
	Watch    bool
}

type runtimeEnv struct {
	Manager *session.Manager

	watcher *knowledge.Watcher
	sql     *memory.SQLStore
}

func (r *runtimeEnv) Close() {
	if r.watcher != nil {
		r.watcher.Stop()
	}
	if r.sql != nil {
		if err := r.sql.Close(); err != nil {
			log.Printf("failed to close store: %v", err)
		}
	}
}

func prepareRuntimeEnv(ctx context.Context, opts runtimeOptions) (*runtimeEnv, error) {
	userConfig := loadUserConfig()
	userConfig.ApplyToEnv()

	if opts.DataDir == "" {
		opts.DataDir = userConfig.DataDir
	}
	if opts.DataDir == "" {
		opts.DataDir = "data"
	}
	if opts.StoreDir == "" {
		opts.StoreDir = userConfig.StoreDir
	}
	if opts.StoreDir == "" {
		opts.StoreDir = "memory_storage"
	}
	if opts.Backend == "" {
		opts.Backend = userConfig.StoreBackend
	}
	if opts.Backend == "" {
		opts.Backend = "file"
	}

	dataDir, err := filepath.Abs(opts.DataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve data directory: %w", err)
	}
	if info, err := os.Stat(dataDir); err != nil || !info.IsDir() {
		return nil, fmt.Errorf("data directory is not a valid directory: %s", dataDir)
	}

	classifier, model, err := providers.NewClassifierFromEnv()
	if err != nil {
		return nil, fmt.Errorf("failed to create intent classifier: %w", err)
	}
	log.Printf("🧭 Intent classifier ready (model: %s)", model)

	kb, err := knowledge.NewBase(dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load knowledge base: %w", err)
	}
	log.Printf("📚 Knowledge base loaded from: %s", dataDir)

	env := &runtimeEnv{}

	if opts.Watch {
		watcher, err := knowledge.NewWatcher(kb)
		if err != nil {
			log.Printf("⚠️  Failed to start knowledge watcher: %v (hot reload disabled)", err)
		} else {
			env.watcher = watcher
			log.Println("👀 Knowledge-base hot reload enabled")
		}
	}

	conversations, users, err := env.openStores(ctx, opts.Backend, opts.StoreDir)
	if err != nil {
		env.Close()
		return nil, err
	}

	executor := engine.NewExecutor(classifier, kb)
	env.Manager = session.NewManager(executor, conversations, users)
	return env, nil
}

func (r *runtimeEnv) openStores(ctx context.Context, backend, storeDir string) (memory.ConversationStore, memory.UserStore, error) {
	switch backend {
	case "file":
		conversations, err := memory.NewFileConversationStore(storeDir)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open conversation store: %w", err)
		}
		users, err := memory.NewFileUserStore(storeDir)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open user store: %w", err)
		}
		log.Printf("💾 File store ready at: %s", storeDir)
		return conversations, users, nil

	case "sqlite":
		if err := os.MkdirAll(storeDir, 0755); err != nil {
			return nil, nil, fmt.Errorf("failed to create store directory: %w", err)
		}
		dbPath := filepath.Join(storeDir, "counsel.db")
		store, err := memory.NewSQLStore(ctx, dbPath)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open sqlite store: %w", err)
		}
		r.sql = store
		log.Printf("💾 SQLite store ready at: %s", dbPath)
		return store, store.Users(), nil

	default:
		return nil, nil, fmt.Errorf("unknown backend: %s (supported: file, sqlite)", backend)
	}
}

func loadUserConfig() *config.Config {
	cfgManager, err := config.NewManager()
	if err != nil {
		log.Printf("⚠️  Failed to initialize config manager: %v", err)
		return &config.Config{}
	}

	userConfig, err := cfgManager.Load()
	if err != nil {
		log.Printf("⚠️  Failed to load user config: %v", err)
		return &config.Config{}
	}
	if cfgManager.Exists() {
		log.Printf("User config loaded from: %s", cfgManager.GetConfigPath())
	}
	return userConfig
}
