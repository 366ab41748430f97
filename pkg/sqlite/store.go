// Package sqlite provides the public API for the SQLite container store.
// It exposes the constructor and store types while keeping the
// implementation internal.
package sqlite

import (
	"github.com/mesh-intelligence/slotshift/internal/sqlite"
	"github.com/mesh-intelligence/slotshift/pkg/types"
)

type (
	Store      = sqlite.Store
	Viewer     = sqlite.Viewer
	ViewerSpec = sqlite.ViewerSpec
	Entry      = sqlite.Entry
	Option     = sqlite.Option
)

// WithLogger sets the logger used for store warnings.
var WithLogger = sqlite.WithLogger

// Open creates a store and attaches it to config.DataDir.
//
// Example:
//
//	store, err := sqlite.Open(types.Config{
//	    Backend: types.BackendSQLite,
//	    DataDir: ".slotshift-db",
//	})
//	defer store.Detach()
func Open(config types.Config, opts ...Option) (*Store, error) {
	s := sqlite.NewStore(opts...)
	if err := s.Attach(config); err != nil {
		return nil, err
	}
	return s, nil
}
