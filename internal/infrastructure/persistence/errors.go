package persistence

import (
	"errors"

	"github.com/oakline/ledger/internal/domain/shared"
	"gorm.io/gorm"
)

// translateNotFound maps gorm.ErrRecordNotFound to shared.ErrNotFound
func translateNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return shared.ErrNotFound
	}
	return err
}
