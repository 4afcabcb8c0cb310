package storage

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/citelens/citelens/internal/paper"
)

// SetSyncStatus records the outcome of a fetch attempt for a platform,
// replacing any previous record.
func (d *DB) SetSyncStatus(platform paper.Platform, status, message string) error {
	_, err := d.db.Exec(`
		INSERT OR REPLACE INTO sync_status (platform, status, message, synced_at)
		VALUES (?, ?, ?, ?)`,
		string(platform), status, nullableString(message), formatTime(time.Now()),
	)
	if err != nil {
		return fmt.Errorf("updating sync status for %s: %w", platform, err)
	}
	return nil
}

// SyncStatuses returns the last fetch outcome for every platform that has
// been fetched at least once.
func (d *DB) SyncStatuses() ([]paper.SyncStatus, error) {
	rows, err := d.db.Query(`
		SELECT platform, status, message, synced_at
		FROM sync_status
		ORDER BY platform`)
	if err != nil {
		return nil, fmt.Errorf("querying sync status: %w", err)
	}
	defer rows.Close()

	var statuses []paper.SyncStatus
	for rows.Next() {
		var s paper.SyncStatus
		var platform, syncedAt string
		var message sql.NullString
		if err := rows.Scan(&platform, &s.Status, &message, &syncedAt); err != nil {
			return nil, err
		}
		s.Platform = paper.Platform(platform)
		s.Message = message.String
		s.SyncedAt = parseTime(syncedAt)
		statuses = append(statuses, s)
	}
	return statuses, rows.Err()
}
