package repo

import (
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// Sentinel errors for the repository layer. They describe storage
// conditions, not business rules.
var (
	// ErrNotFound indicates the requested record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrNoRowsAffected indicates a conditional UPDATE/DELETE matched no rows.
	ErrNoRowsAffected = errors.New("no rows affected")

	// ErrDuplicate indicates a unique constraint rejected the write.
	ErrDuplicate = errors.New("duplicate record")
)

// translate maps driver errors onto the sentinels above and adds op context.
func translate(err error, op string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return errors.Wrap(ErrNotFound, op)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return errors.Wrap(ErrDuplicate, op)
	}
	return errors.Wrap(err, op)
}
