package cli

import (
	"context"
	"database/sql"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/recall/internal/daily"
	"github.com/robalobadob/recall/internal/profile"
	"github.com/robalobadob/recall/internal/store"
)

const flushTimeout = 5 * time.Second

// openStore opens the configured backend. cleanup flushes queued writes
// before closing it, so every command must defer it.
func (a *app) openStore(ctx context.Context) (*store.Store, func(), error) {
	if a.cfg.StoreDriver == "memory" {
		st := store.New(store.NewMemoryBackend())
		return st, func() { flush(st) }, nil
	}

	db, err := a.openDB(ctx)
	if err != nil {
		return nil, nil, err
	}
	st := store.New(store.NewSQLiteBackend(db))
	cleanup := func() {
		flush(st)
		_ = db.Close()
	}
	return st, cleanup, nil
}

// openDB opens the SQLite file and brings its schema up to date.
func (a *app) openDB(ctx context.Context) (*sql.DB, error) {
	db, err := store.OpenSQLite(a.cfg.DBPath)
	if err != nil {
		return nil, err
	}
	if err := store.Migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// openProfiles wires the profile service over the configured store.
func (a *app) openProfiles(ctx context.Context) (*profile.Service, func(), error) {
	st, cleanup, err := a.openStore(ctx)
	if err != nil {
		return nil, nil, err
	}
	return profile.NewService(st, daily.NewCalendar(a.cfg.DayTZ), nil), cleanup, nil
}

func flush(st *store.Store) {
	ctx, cancel := context.WithTimeout(context.Background(), flushTimeout)
	defer cancel()
	if err := st.Flush(ctx); err != nil {
		log.Warn().Err(err).Msg("flush store")
	}
}
