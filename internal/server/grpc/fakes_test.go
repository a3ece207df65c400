package grpc

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"github.com/dmitrijs2005/filevault/internal/common"
	"github.com/dmitrijs2005/filevault/internal/dbx"
	"github.com/dmitrijs2005/filevault/internal/server/models"
	"github.com/dmitrijs2005/filevault/internal/server/repositories/files"
	"github.com/dmitrijs2005/filevault/internal/server/repositories/sharelinks"
	"github.com/dmitrijs2005/filevault/internal/server/repositories/users"
	"github.com/google/uuid"
)

// fakeRepoManager keeps users, files and links in maps. It ignores the DBTX.
type fakeRepoManager struct {
	mu    sync.Mutex
	users map[string]*models.User
	files map[string]*models.File
	links map[string]*models.ShareLink
}

func newFakeRepoManager() *fakeRepoManager {
	return &fakeRepoManager{
		users: map[string]*models.User{},
		files: map[string]*models.File{},
		links: map[string]*models.ShareLink{},
	}
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Users(dbx.DBTX) users.Repository            { return fakeUsers{m} }
func (m *fakeRepoManager) Files(dbx.DBTX) files.Repository            { return fakeFiles{m} }
func (m *fakeRepoManager) ShareLinks(dbx.DBTX) sharelinks.Repository  { return fakeLinks{m} }

type fakeUsers struct{ m *fakeRepoManager }

func (r fakeUsers) Create(_ context.Context, u *models.User) (*models.User, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, e := range r.m.users {
		if e.Email == u.Email {
			return nil, common.ErrorAlreadyExists
		}
	}
	u.ID = uuid.NewString()
	cp := *u
	r.m.users[u.ID] = &cp
	return u, nil
}

func (r fakeUsers) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, u := range r.m.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r fakeUsers) GetByID(_ context.Context, id string) (*models.User, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if u, ok := r.m.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, common.ErrorNotFound
}

func (r fakeUsers) RegisterFailedLogin(_ context.Context, id string, at time.Time, lockAfter int) (*models.User, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	u := r.m.users[id]
	u.FailedLogins++
	u.LastFailedAt = &at
	u.IsLocked = u.FailedLogins >= lockAfter
	cp := *u
	return &cp, nil
}

func (r fakeUsers) ResetFailedLogins(_ context.Context, id string) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	u := r.m.users[id]
	u.FailedLogins, u.IsLocked, u.LastFailedAt = 0, false, nil
	return nil
}

type fakeFiles struct{ m *fakeRepoManager }

func (r fakeFiles) Create(_ context.Context, f *models.File) (*models.File, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	f.ID = uuid.NewString()
	f.UploadedAt = time.Now()
	cp := *f
	r.m.files[f.ID] = &cp
	return f, nil
}

func (r fakeFiles) GetByIDAndOwner(_ context.Context, id, ownerID string) (*models.File, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	f, ok := r.m.files[id]
	if !ok || f.OwnerID != ownerID {
		return nil, common.ErrorNotFound
	}
	cp := *f
	return &cp, nil
}

func (r fakeFiles) GetByID(_ context.Context, id string) (*models.File, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	f, ok := r.m.files[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *f
	return &cp, nil
}

func (r fakeFiles) ListByOwner(_ context.Context, ownerID string) ([]*models.File, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	out := []*models.File{}
	for _, f := range r.m.files {
		if f.OwnerID == ownerID {
			cp := *f
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r fakeFiles) Delete(_ context.Context, id, ownerID string) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	f, ok := r.m.files[id]
	if !ok || f.OwnerID != ownerID {
		return common.ErrorNotFound
	}
	delete(r.m.files, id)
	return nil
}

func (r fakeFiles) IncrementDownloadCount(_ context.Context, id string) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	f, ok := r.m.files[id]
	if !ok {
		return common.ErrorNotFound
	}
	f.DownloadCount++
	return nil
}

type fakeLinks struct{ m *fakeRepoManager }

func (r fakeLinks) Create(_ context.Context, l *models.ShareLink) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	cp := *l
	r.m.links[l.Token] = &cp
	return nil
}

func (r fakeLinks) FindByToken(_ context.Context, token string) (*models.SharedFile, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	l, ok := r.m.links[token]
	if !ok {
		return nil, common.ErrorNotFound
	}
	f, ok := r.m.files[l.FileID]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &models.SharedFile{Link: *l, File: *f}, nil
}

func (r fakeLinks) Delete(_ context.Context, token string) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	delete(r.m.links, token)
	return nil
}

func (r fakeLinks) DeleteByFileID(_ context.Context, fileID string) (int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var n int64
	for t, l := range r.m.links {
		if l.FileID == fileID {
			delete(r.m.links, t)
			n++
		}
	}
	return n, nil
}

func (r fakeLinks) ListByFile(_ context.Context, fileID string) ([]*models.ShareLink, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	out := []*models.ShareLink{}
	for _, l := range r.m.links {
		if l.FileID == fileID {
			cp := *l
			out = append(out, &cp)
		}
	}
	return out, nil
}
