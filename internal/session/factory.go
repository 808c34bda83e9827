package session

import (
	"context"
	"fmt"

	"github.com/Veraticus/loan-advisor/internal/common"
)

// Repository drivers accepted by Open.
const (
	DriverMemory = "memory"
	DriverSQLite = "sqlite"
)

// Open builds a Store on the named repository driver. Both drivers keep
// data for the lifetime of the process only.
func Open(ctx context.Context, driver, name string, opts ...Option) (*Store, error) {
	var repo Repository

	switch driver {
	case DriverMemory, "":
		repo = NewMemoryRepository()
	case DriverSQLite:
		sqliteRepo, err := NewSQLiteRepository(ctx, name)
		if err != nil {
			return nil, err
		}
		repo = sqliteRepo
	default:
		return nil, fmt.Errorf("%w: unknown storage driver %q", common.ErrInvalidConfig, driver)
	}

	return NewStore(repo, opts...)
}
