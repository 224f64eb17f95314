package migrator

import (
	"fmt"

	"github.com/rotisserie/eris"
)

var ErrMigration = eris.New("migration failed")

// MigrationError reports why a document could not be brought to the current
// version. Step is empty for checks made before any step runs.
type MigrationError struct {
	Step   string
	Reason string
}

func (e *MigrationError) Error() string {
	if e.Step == "" {
		return fmt.Sprintf("migrate: %s", e.Reason)
	}
	return fmt.Sprintf("migrate %s: %s", e.Step, e.Reason)
}

func (e *MigrationError) Is(target error) bool {
	return target == ErrMigration
}

func fail(step, format string, args ...any) error {
	return &MigrationError{Step: step, Reason: fmt.Sprintf(format, args...)}
}
