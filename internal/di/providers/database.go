package providers

import (
	"sync"

	"github.com/samber/do/v2"

	"github.com/promptshelf/promptshelf-server/internal/config"
	"github.com/promptshelf/promptshelf-server/internal/logger"
	"github.com/promptshelf/promptshelf-server/internal/store/sqlite"
)

// StoreHandle wraps the store with shutdown capability.
type StoreHandle struct {
	*sqlite.Store
	once sync.Once
	err  error
}

// Shutdown implements do.Shutdownable. Safe to call more than once.
func (h *StoreHandle) Shutdown() error {
	h.once.Do(func() {
		h.err = h.Close()
	})
	return h.err
}

// ProvideStore opens the SQLite database, applying the schema and seed rows.
func ProvideStore(i do.Injector) (*StoreHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	db, err := sqlite.Open(cfg.Storage.DatabasePath, log.Logger)
	if err != nil {
		return nil, err
	}

	log.Info("Database initialized", "path", cfg.Storage.DatabasePath)

	return &StoreHandle{Store: db}, nil
}
