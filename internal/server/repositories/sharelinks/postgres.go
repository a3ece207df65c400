// Package sharelinks provides a PostgreSQL-backed repository for share links.
package sharelinks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/filevault/internal/common"
	"github.com/dmitrijs2005/filevault/internal/dbx"
	"github.com/dmitrijs2005/filevault/internal/server/models"
)

// PostgresRepository implements share link storage over dbx.DBTX
// (satisfied by *sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func timePtr(n sql.NullTime) *time.Time {
	if !n.Valid {
		return nil
	}
	t := n.Time
	return &t
}

// Create inserts a new link. A nil ExpiresAt is stored as NULL.
func (r *PostgresRepository) Create(ctx context.Context, link *models.ShareLink) error {
	query := `
		INSERT INTO share_links (token, file_id, expires_at, created_at)
		VALUES ($1, $2, $3, $4)
	`
	var expires sql.NullTime
	if link.ExpiresAt != nil {
		expires = sql.NullTime{Time: *link.ExpiresAt, Valid: true}
	}
	if _, err := r.db.ExecContext(ctx, query, link.Token, link.FileID, expires, link.CreatedAt); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// FindByToken returns the link and its file. If not found, it returns
// common.ErrorNotFound.
func (r *PostgresRepository) FindByToken(ctx context.Context, token string) (*models.SharedFile, error) {
	query := `
		SELECT s.token, s.file_id, s.expires_at, s.created_at,
		       f.id, f.owner_id, f.original_name, f.stored_name, f.mime_type,
		       f.size_bytes, f.uploaded_at, f.download_count
		FROM share_links s
		JOIN files f ON f.id = s.file_id
		WHERE s.token = $1
	`
	var (
		sf      models.SharedFile
		expires sql.NullTime
	)
	f := &sf.File
	err := r.db.QueryRowContext(ctx, query, token).Scan(
		&sf.Link.Token, &sf.Link.FileID, &expires, &sf.Link.CreatedAt,
		&f.ID, &f.OwnerID, &f.OriginalName, &f.StoredName, &f.MimeType,
		&f.SizeBytes, &f.UploadedAt, &f.DownloadCount)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	sf.Link.ExpiresAt = timePtr(expires)
	return &sf, nil
}

// Delete removes a link by its token string.
func (r *PostgresRepository) Delete(ctx context.Context, token string) error {
	query := `
		DELETE FROM share_links
		WHERE token = $1
	`
	if _, err := r.db.ExecContext(ctx, query, token); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// DeleteByFileID removes all links pointing at fileID.
func (r *PostgresRepository) DeleteByFileID(ctx context.Context, fileID string) (int64, error) {
	query := `
		DELETE FROM share_links
		WHERE file_id = $1
	`
	res, err := r.db.ExecContext(ctx, query, fileID)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected error: %w", err)
	}
	return n, nil
}

// ListByFile returns the links for fileID, newest first.
func (r *PostgresRepository) ListByFile(ctx context.Context, fileID string) ([]*models.ShareLink, error) {
	query := `
		SELECT token, file_id, expires_at, created_at
		FROM share_links
		WHERE file_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query, fileID)
	if err != nil {
		return nil, fmt.Errorf("failed to select share links: %w", err)
	}
	defer rows.Close()

	result := make([]*models.ShareLink, 0)
	for rows.Next() {
		var expires sql.NullTime
		l := &models.ShareLink{}
		if err := rows.Scan(&l.Token, &l.FileID, &expires, &l.CreatedAt); err != nil {
			return nil, err
		}
		l.ExpiresAt = timePtr(expires)
		result = append(result, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
