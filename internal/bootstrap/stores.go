// Package bootstrap opens the stores selected by configuration and builds
// the services shared by the server and the CLI.
package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"ecomlens/internal/config"
	"ecomlens/internal/database"
	"ecomlens/internal/localstore"
	"ecomlens/internal/session"
	"ecomlens/internal/users"
)

// Pinger matches the health-check dependency shape.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Stores struct {
	Users    users.Repository
	Sessions users.SessionStore
	Checks   map[string]Pinger
	closers  []func()
}

func (s *Stores) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
}

type sqlPinger struct{ db *sql.DB }

func (p sqlPinger) Ping(ctx context.Context) error { return p.db.PingContext(ctx) }

// OpenStores connects the user repository and session backend named in cfg.
// The embedded SQLite database is opened lazily, only when a component
// needs it.
func OpenStores(ctx context.Context, cfg *config.Config, log *slog.Logger) (*Stores, error) {
	st := &Stores{Checks: map[string]Pinger{}}

	var local *sql.DB
	openLocal := func() (*sql.DB, error) {
		if local != nil {
			return local, nil
		}
		source := cfg.DB.Source
		if cfg.DB.Driver != "sqlite" {
			source = "ecomlens.db"
		}
		db, err := localstore.Open(ctx, source)
		if err != nil {
			return nil, err
		}
		st.closers = append(st.closers, func() { _ = db.Close() })
		st.Checks["sqlite"] = sqlPinger{db: db}
		local = db
		return db, nil
	}

	switch cfg.DB.Driver {
	case "", "sqlite":
		db, err := openLocal()
		if err != nil {
			st.Close()
			return nil, err
		}
		repo := localstore.NewUserRepository(db)
		if err := repo.Migrate(ctx); err != nil {
			st.Close()
			return nil, err
		}
		st.Users = repo
		log.Info("using sqlite user store", slog.String("source", cfg.DB.Source))
	case "postgres":
		pool, err := database.Connect(ctx, cfg.DB.Source)
		if err != nil {
			st.Close()
			return nil, err
		}
		st.closers = append(st.closers, pool.Close)
		store := database.NewStore(pool)
		if err := store.Migrate(ctx); err != nil {
			st.Close()
			return nil, err
		}
		st.Users = store
		st.Checks["postgres"] = store
		log.Info("using postgres user store")
	default:
		return nil, fmt.Errorf("unknown db driver %q", cfg.DB.Driver)
	}

	switch cfg.Session.Backend {
	case "", "local":
		db, err := openLocal()
		if err != nil {
			st.Close()
			return nil, err
		}
		ls := session.NewLocalStore(localstore.NewKV(db), cfg.Session.TTL)
		purged, err := ls.PurgeExpired(ctx)
		if err != nil {
			log.Warn("failed to purge expired sessions", slog.Any("error", err))
		} else if purged > 0 {
			log.Info("purged expired sessions", slog.Int("count", purged))
		}
		st.Sessions = ls
	case "redis":
		rdb, err := session.NewRedisClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			st.Close()
			return nil, err
		}
		st.closers = append(st.closers, func() { _ = rdb.Close() })
		rs := session.NewRedisStore(rdb, cfg.Session.TTL)
		st.Sessions = rs
		st.Checks["redis"] = rs
		log.Info("using redis session store", slog.String("addr", cfg.Redis.Addr))
	default:
		st.Close()
		return nil, fmt.Errorf("unknown session backend %q", cfg.Session.Backend)
	}

	return st, nil
}
