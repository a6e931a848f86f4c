package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/iudanet/jobcache/internal/models"
	"github.com/iudanet/jobcache/internal/server/storage"
)

const recordColumns = `id, owner_id, collection, data, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*models.Record, error) {
	rec := &models.Record{}
	var data string
	var createdAt, updatedAt int64

	if err := row.Scan(&rec.ID, &rec.OwnerID, &rec.Collection, &data, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	rec.Data = []byte(data)
	rec.CreatedAt = fromUnixMilli(createdAt)
	rec.UpdatedAt = fromUnixMilli(updatedAt)
	return rec, nil
}

// ListRecords returns the owner's records of a collection, oldest first
func (s *Store) ListRecords(ctx context.Context, ownerID, collection string) ([]*models.Record, error) {
	query := `
		SELECT ` + recordColumns + `
		FROM records
		WHERE owner_id = ? AND collection = ?
		ORDER BY created_at, id
	`

	rows, err := s.db.QueryContext(ctx, s.rebind(query), ownerID, collection)
	if err != nil {
		return nil, fmt.Errorf("failed to query records: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	records := make([]*models.Record, 0)
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating records: %w", err)
	}

	return records, nil
}

// GetRecord returns one record of the owner
func (s *Store) GetRecord(ctx context.Context, ownerID, collection, id string) (*models.Record, error) {
	return s.getRecord(ctx, s.db, ownerID, collection, id)
}

type queryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *Store) getRecord(ctx context.Context, q queryRower, ownerID, collection, id string) (*models.Record, error) {
	query := `
		SELECT ` + recordColumns + `
		FROM records
		WHERE id = ? AND owner_id = ? AND collection = ?
	`

	rec, err := scanRecord(q.QueryRowContext(ctx, s.rebind(query), id, ownerID, collection))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrRecordNotFound
		}
		return nil, fmt.Errorf("failed to get record: %w", err)
	}

	return rec, nil
}

// CreateRecord inserts rec
func (s *Store) CreateRecord(ctx context.Context, rec *models.Record) error {
	query := `
		INSERT INTO records (` + recordColumns + `)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, s.rebind(query),
		rec.ID,
		rec.OwnerID,
		rec.Collection,
		string(rec.Data),
		unixMilli(rec.CreatedAt),
		unixMilli(rec.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to insert record: %w", err)
	}

	return nil
}

// PatchRecord replaces the record data with fn(current data) in one transaction
func (s *Store) PatchRecord(ctx context.Context, ownerID, collection, id string, fn func(data []byte) ([]byte, error)) (*models.Record, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	rec, err := s.getRecord(ctx, tx, ownerID, collection, id)
	if err != nil {
		return nil, err
	}

	data, err := fn(rec.Data)
	if err != nil {
		return nil, err
	}

	rec.Data = data
	rec.UpdatedAt = s.now().UTC()

	query := `UPDATE records SET data = ?, updated_at = ? WHERE id = ? AND owner_id = ?`
	if _, err := tx.ExecContext(ctx, s.rebind(query), string(rec.Data), unixMilli(rec.UpdatedAt), id, ownerID); err != nil {
		return nil, fmt.Errorf("failed to update record: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return rec, nil
}

// DeleteRecord removes one record of the owner
func (s *Store) DeleteRecord(ctx context.Context, ownerID, collection, id string) error {
	query := `DELETE FROM records WHERE id = ? AND owner_id = ? AND collection = ?`

	result, err := s.db.ExecContext(ctx, s.rebind(query), id, ownerID, collection)
	if err != nil {
		return fmt.Errorf("failed to delete record: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rows == 0 {
		return storage.ErrRecordNotFound
	}

	return nil
}
