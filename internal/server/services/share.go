package services

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/dmitrijs2005/filevault/internal/common"
	"github.com/dmitrijs2005/filevault/internal/logging"
	"github.com/dmitrijs2005/filevault/internal/server/metrics"
	"github.com/dmitrijs2005/filevault/internal/server/models"
	"github.com/dmitrijs2005/filevault/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/filevault/internal/server/validation"
)

// DefaultShareTTL applies when a link is requested without a usable expiry.
const DefaultShareTTL = 7 * 24 * time.Hour

type ShareLinkInfo struct {
	Token     string
	FileID    string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// ShareService mints share links for file owners and serves files to
// anonymous token holders. Expiry is enforced when a token is used.
type ShareService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	access      *AccessService
	defaultTTL  time.Duration
	logger      logging.Logger
	metrics     metrics.Recorder
	now         func() time.Time
}

// NewShareService builds a ShareService. A non-positive defaultTTL means
// DefaultShareTTL.
func NewShareService(db *sql.DB, m repomanager.RepositoryManager, access *AccessService,
	defaultTTL time.Duration, logger logging.Logger, rec metrics.Recorder) *ShareService {
	if defaultTTL <= 0 {
		defaultTTL = DefaultShareTTL
	}
	return &ShareService{
		db:          db,
		repomanager: m,
		access:      access,
		defaultTTL:  defaultTTL,
		logger:      logger.With("module", "share"),
		metrics:     rec,
		now:         time.Now,
	}
}

func (s *ShareService) info(l *models.ShareLink) ShareLinkInfo {
	return ShareLinkInfo{
		Token:     l.Token,
		FileID:    l.FileID,
		ExpiresAt: l.ExpiresAtOr(s.defaultTTL),
		CreatedAt: l.CreatedAt,
	}
}

// CreateShareLink mints a link for a file p owns. A requested expiry is
// used only if it is strictly in the future.
func (s *ShareService) CreateShareLink(ctx context.Context, p models.Principal, in validation.ShareLinkInput) (info *ShareLinkInfo, err error) {
	defer func() { s.metrics.ShareLink("create", metrics.Outcome(err)) }()

	if err := requirePrincipal(p); err != nil {
		return nil, err
	}
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	f, err := s.access.AuthorizeOwner(ctx, p, in.FileID)
	if err != nil {
		return nil, err
	}

	token, err := common.MakeRandHexString(common.ShareTokenBytes)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	expires := now.Add(s.defaultTTL)
	if t, ok := validation.ParseExpiry(in.Expiry); ok && t.After(now) {
		expires = t.UTC()
	}

	link := &models.ShareLink{Token: token, FileID: f.ID, ExpiresAt: &expires, CreatedAt: now}
	if err := s.repomanager.ShareLinks(s.db).Create(ctx, link); err != nil {
		return nil, &common.PersistenceError{Op: "insert share link", Err: err}
	}

	s.logger.Info(ctx, "share link created", "file_id", f.ID, "expires_at", expires)

	out := s.info(link)
	return &out, nil
}

// DownloadByToken serves the file behind token. Unknown or malformed tokens
// yield common.ErrInvalidToken. An expired link is deleted and yields
// common.ErrTokenExpired. Missing bytes yield common.ErrorNotFound and leave
// the link in place.
func (s *ShareService) DownloadByToken(ctx context.Context, in validation.TokenInput) (fs *FileStream, err error) {
	defer func() { s.metrics.Download(metrics.SourceToken, metrics.Outcome(err)) }()

	if !common.IsHexToken(in.Token, common.ShareTokenLength) {
		return nil, common.ErrInvalidToken
	}
	token := strings.ToLower(in.Token)

	repo := s.repomanager.ShareLinks(s.db)
	sf, err := repo.FindByToken(ctx, token)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrInvalidToken
		}
		return nil, &common.PersistenceError{Op: "find share link", Err: err}
	}

	if sf.Link.Expired(s.now(), s.defaultTTL) {
		if err := repo.Delete(ctx, token); err != nil {
			s.logger.Warn(ctx, "expired share link not purged", "file_id", sf.File.ID, "error", err)
		}
		return nil, common.ErrTokenExpired
	}

	return s.access.ServeFile(ctx, &sf.File)
}

// RevokeShareLink deletes a link on a file p owns. Unknown tokens and links
// on other users' files both yield common.ErrorForbidden.
func (s *ShareService) RevokeShareLink(ctx context.Context, p models.Principal, in validation.TokenInput) (err error) {
	defer func() { s.metrics.ShareLink("revoke", metrics.Outcome(err)) }()

	if err := requirePrincipal(p); err != nil {
		return err
	}
	if !common.IsHexToken(in.Token, common.ShareTokenLength) {
		return common.ErrorForbidden
	}
	token := strings.ToLower(in.Token)

	repo := s.repomanager.ShareLinks(s.db)
	sf, err := repo.FindByToken(ctx, token)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorForbidden
		}
		return &common.PersistenceError{Op: "find share link", Err: err}
	}
	if sf.File.OwnerID != p.UserID {
		return common.ErrorForbidden
	}

	if err := repo.Delete(ctx, token); err != nil {
		return &common.PersistenceError{Op: "delete share link", Err: err}
	}

	s.logger.Info(ctx, "share link revoked", "file_id", sf.File.ID)
	return nil
}

// ListShareLinks returns the unexpired links on a file p owns.
func (s *ShareService) ListShareLinks(ctx context.Context, p models.Principal, in validation.FileInput) ([]ShareLinkInfo, error) {
	if err := requirePrincipal(p); err != nil {
		return nil, err
	}
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	f, err := s.access.AuthorizeOwner(ctx, p, in.FileID)
	if err != nil {
		return nil, err
	}

	links, err := s.repomanager.ShareLinks(s.db).ListByFile(ctx, f.ID)
	if err != nil {
		return nil, &common.PersistenceError{Op: "list share links", Err: err}
	}

	now := s.now()
	out := make([]ShareLinkInfo, 0, len(links))
	for _, l := range links {
		if l.Expired(now, s.defaultTTL) {
			continue
		}
		out = append(out, s.info(l))
	}
	return out, nil
}
