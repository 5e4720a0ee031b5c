package database

import "database/sql"

// requireAffected validates that an ExecContext result touched at least one
// row. Returns execErr if non-nil, or missingErr when no rows were affected.
func requireAffected(result sql.Result, execErr, missingErr error) error {
	if execErr != nil {
		return execErr
	}
	n, affectedErr := result.RowsAffected()
	if affectedErr != nil {
		return affectedErr
	}
	if n == 0 {
		return missingErr
	}
	return nil
}
