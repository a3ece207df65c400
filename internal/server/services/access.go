// Package services contains server-side business logic: the file access
// engine, share links, and account login.
package services

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/filevault/internal/common"
	"github.com/dmitrijs2005/filevault/internal/dbx"
	"github.com/dmitrijs2005/filevault/internal/logging"
	"github.com/dmitrijs2005/filevault/internal/server/filestore"
	"github.com/dmitrijs2005/filevault/internal/server/metrics"
	"github.com/dmitrijs2005/filevault/internal/server/models"
	"github.com/dmitrijs2005/filevault/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/filevault/internal/server/validation"
	"github.com/gabriel-vasile/mimetype"
)

const (
	storedNameRandBytes = 16
	maxNameAttempts     = 5
)

// RemoveOutcome tells a successful removal apart from one that only had to
// drop a metadata row whose bytes were already gone.
type RemoveOutcome int

const (
	RemoveOutcomeDeleted RemoveOutcome = iota
	RemoveOutcomeOrphanReconciled
)

func (o RemoveOutcome) String() string {
	switch o {
	case RemoveOutcomeDeleted:
		return "deleted"
	case RemoveOutcomeOrphanReconciled:
		return "orphan_reconciled"
	default:
		return "unknown"
	}
}

type UploadResult struct {
	FileID       string
	OriginalName string
	MimeType     string
	SizeBytes    int64
	UploadedAt   time.Time
}

type FileSummary struct {
	ID            string
	OriginalName  string
	MimeType      string
	SizeBytes     int64
	UploadedAt    time.Time
	DownloadCount int64
}

type RemoveResult struct {
	FileID       string
	Outcome      RemoveOutcome
	RevokedLinks int64
}

// FileStream is an open download. The caller must Close it.
type FileStream struct {
	io.ReadCloser
	FileID   string
	Name     string
	MimeType string
	Size     int64
}

// AccessService enforces ownership over stored files and keeps the byte
// store and the metadata rows consistent. It holds no per-request state.
type AccessService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	store       filestore.Store
	policy      *validation.Policy
	logger      logging.Logger
	metrics     metrics.Recorder
	now         func() time.Time
}

func NewAccessService(db *sql.DB, m repomanager.RepositoryManager, store filestore.Store,
	policy *validation.Policy, logger logging.Logger, rec metrics.Recorder) *AccessService {
	return &AccessService{
		db:          db,
		repomanager: m,
		store:       store,
		policy:      policy,
		logger:      logger.With("module", "access"),
		metrics:     rec,
		now:         time.Now,
	}
}

func requirePrincipal(p models.Principal) error {
	if p.Anonymous() {
		return common.ErrorUnauthorized
	}
	return nil
}

// displayName keeps only the last path element of a client-supplied name.
func displayName(filename string) string {
	name := path.Base(strings.ReplaceAll(filename, `\`, "/"))
	if name == "." || name == "/" {
		return ""
	}
	return name
}

func (s *AccessService) newStoredName(ext string) (string, error) {
	r, err := common.MakeRandHexString(storedNameRandBytes)
	if err != nil {
		return "", fmt.Errorf("stored name: %w", err)
	}
	return r + "_" + strconv.FormatInt(s.now().Unix(), 10) + "." + ext, nil
}

// putUnique writes content under a fresh stored name, drawing a new name if
// the store already has one.
func (s *AccessService) putUnique(ctx context.Context, ext string, content []byte) (string, error) {
	for i := 0; i < maxNameAttempts; i++ {
		name, err := s.newStoredName(ext)
		if err != nil {
			return "", err
		}

		exists, err := s.store.Exists(ctx, name)
		if err != nil {
			return "", err
		}
		if exists {
			continue
		}

		err = s.store.Put(ctx, name, bytes.NewReader(content))
		if errors.Is(err, common.ErrorAlreadyExists) {
			continue
		}
		if err != nil {
			return "", err
		}
		return name, nil
	}
	return "", &common.StoreError{Op: "put", Err: errors.New("no free stored name")}
}

// Upload validates and stores content for p. Bytes are written first and
// the metadata row second; if the row cannot be written the bytes are
// deleted again.
func (s *AccessService) Upload(ctx context.Context, p models.Principal, in validation.UploadInput) (res *UploadResult, err error) {
	defer func() { s.metrics.Upload(metrics.Outcome(err), int64(len(in.Content))) }()

	if err := requirePrincipal(p); err != nil {
		return nil, err
	}
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	mime := mimetype.Detect(in.Content).String()
	size := int64(len(in.Content))

	ext, err := s.policy.ValidateUpload(in.Filename, mime, size)
	if err != nil {
		return nil, err
	}

	name, err := s.putUnique(ctx, ext, in.Content)
	if err != nil {
		s.logger.Error(ctx, "store put failed", "error", err)
		return nil, err
	}

	file := &models.File{
		OwnerID:      p.UserID,
		OriginalName: displayName(in.Filename),
		StoredName:   name,
		MimeType:     mime,
		SizeBytes:    size,
	}

	if _, err := s.repomanager.Files(s.db).Create(ctx, file); err != nil {
		perr := &common.PersistenceError{Op: "insert file", Err: err}

		cleanupCtx := context.WithoutCancel(ctx)
		if derr := s.store.Delete(cleanupCtx, name); derr != nil && !errors.Is(derr, common.ErrorNotFound) {
			s.logger.Error(ctx, "orphaned bytes after failed insert, manual reconciliation required",
				"stored_name", name, "insert_error", err, "cleanup_error", derr)
			return nil, errors.Join(perr, derr)
		}

		s.logger.Error(ctx, "insert file failed, bytes removed", "error", err)
		return nil, perr
	}

	s.logger.Info(ctx, "file uploaded", "file_id", file.ID, "user_id", p.UserID, "size", size, "mime", mime)

	return &UploadResult{
		FileID:       file.ID,
		OriginalName: file.OriginalName,
		MimeType:     file.MimeType,
		SizeBytes:    file.SizeBytes,
		UploadedAt:   file.UploadedAt,
	}, nil
}

// ListFiles returns p's files, newest first.
func (s *AccessService) ListFiles(ctx context.Context, p models.Principal) ([]FileSummary, error) {
	if err := requirePrincipal(p); err != nil {
		return nil, err
	}

	rows, err := s.repomanager.Files(s.db).ListByOwner(ctx, p.UserID)
	if err != nil {
		return nil, &common.PersistenceError{Op: "list files", Err: err}
	}

	out := make([]FileSummary, 0, len(rows))
	for _, f := range rows {
		out = append(out, FileSummary{
			ID:            f.ID,
			OriginalName:  f.OriginalName,
			MimeType:      f.MimeType,
			SizeBytes:     f.SizeBytes,
			UploadedAt:    f.UploadedAt,
			DownloadCount: f.DownloadCount,
		})
	}
	return out, nil
}

// AuthorizeOwner returns the file if p owns it. A missing file and a file
// owned by someone else both yield common.ErrorForbidden.
func (s *AccessService) AuthorizeOwner(ctx context.Context, p models.Principal, fileID string) (*models.File, error) {
	if err := requirePrincipal(p); err != nil {
		return nil, err
	}

	f, err := s.repomanager.Files(s.db).GetByIDAndOwner(ctx, fileID, p.UserID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorForbidden
		}
		return nil, &common.PersistenceError{Op: "find file", Err: err}
	}
	return f, nil
}

// RemoveFile deletes the bytes and then the row with its share links. If
// the bytes are already gone the row is still deleted and the result says so.
func (s *AccessService) RemoveFile(ctx context.Context, p models.Principal, in validation.FileInput) (res *RemoveResult, err error) {
	defer func() { s.metrics.Remove(metrics.Outcome(err)) }()

	if err := requirePrincipal(p); err != nil {
		return nil, err
	}
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	f, err := s.AuthorizeOwner(ctx, p, in.FileID)
	if err != nil {
		return nil, err
	}

	outcome := RemoveOutcomeDeleted
	if err := s.store.Delete(ctx, f.StoredName); err != nil {
		if !errors.Is(err, common.ErrorNotFound) {
			s.logger.Error(ctx, "store delete failed, metadata kept", "file_id", f.ID, "error", err)
			return nil, err
		}
		s.logger.Warn(ctx, "bytes already missing, dropping metadata", "file_id", f.ID)
		outcome = RemoveOutcomeOrphanReconciled
	}

	var revoked int64
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		n, err := s.repomanager.ShareLinks(tx).DeleteByFileID(ctx, f.ID)
		if err != nil {
			return err
		}
		revoked = n
		return s.repomanager.Files(tx).Delete(ctx, f.ID, p.UserID)
	})
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorForbidden
		}
		s.logger.Error(ctx, "metadata row left without bytes", "file_id", f.ID, "error", err)
		return nil, &common.PersistenceError{Op: "delete file", Err: err}
	}

	s.logger.Info(ctx, "file removed", "file_id", f.ID, "outcome", outcome.String(), "revoked_links", revoked)

	return &RemoveResult{FileID: f.ID, Outcome: outcome, RevokedLinks: revoked}, nil
}

// DownloadOwned opens one of p's files.
func (s *AccessService) DownloadOwned(ctx context.Context, p models.Principal, in validation.FileInput) (fs *FileStream, err error) {
	defer func() { s.metrics.Download(metrics.SourceOwner, metrics.Outcome(err)) }()

	if err := requirePrincipal(p); err != nil {
		return nil, err
	}
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	f, err := s.AuthorizeOwner(ctx, p, in.FileID)
	if err != nil {
		return nil, err
	}
	return s.ServeFile(ctx, f)
}

// ServeFile opens f's bytes and counts the download. Authorization is the
// caller's job. Missing bytes yield common.ErrorNotFound; a failed counter
// update is logged and ignored.
//
// A download counts once the stream is open: a transport that later fails
// to read or send the bytes does not roll the counter back.
func (s *AccessService) ServeFile(ctx context.Context, f *models.File) (*FileStream, error) {
	rc, err := s.store.Get(ctx, f.StoredName)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.logger.Warn(ctx, "metadata present but bytes missing", "file_id", f.ID)
			return nil, common.ErrorNotFound
		}
		s.logger.Error(ctx, "store get failed", "file_id", f.ID, "error", err)
		return nil, err
	}

	if err := s.repomanager.Files(s.db).IncrementDownloadCount(ctx, f.ID); err != nil {
		s.logger.Warn(ctx, "download counter not updated", "file_id", f.ID, "error", err)
	}

	return &FileStream{
		ReadCloser: rc,
		FileID:     f.ID,
		Name:       f.OriginalName,
		MimeType:   f.MimeType,
		Size:       f.SizeBytes,
	}, nil
}
