package services

import (
	"bytes"
	"context"
	"database/sql"
	"io"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/filevault/internal/common"
	"github.com/dmitrijs2005/filevault/internal/dbx"
	"github.com/dmitrijs2005/filevault/internal/server/models"
	"github.com/dmitrijs2005/filevault/internal/server/repositories/files"
	"github.com/dmitrijs2005/filevault/internal/server/repositories/sharelinks"
	"github.com/dmitrijs2005/filevault/internal/server/repositories/users"
	"github.com/google/uuid"
)

type errBoom struct{}

func (errBoom) Error() string { return "boom" }

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

// --- byte store ---

type memStore struct {
	mu      sync.Mutex
	objects map[string][]byte

	putErr    error
	getErr    error
	deleteErr error
	existsErr error
}

func newMemStore() *memStore { return &memStore{objects: map[string][]byte{}} }

func (s *memStore) Put(_ context.Context, name string, r io.Reader) error {
	if s.putErr != nil {
		return s.putErr
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.objects[name]; ok {
		return common.ErrorAlreadyExists
	}
	s.objects[name] = b
	return nil
}

func (s *memStore) Get(_ context.Context, name string) (io.ReadCloser, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.objects[name]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return io.NopCloser(bytes.NewReader(b)), nil
}

func (s *memStore) Delete(_ context.Context, name string) error {
	if s.deleteErr != nil {
		return s.deleteErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.objects[name]; !ok {
		return common.ErrorNotFound
	}
	delete(s.objects, name)
	return nil
}

func (s *memStore) Exists(_ context.Context, name string) (bool, error) {
	if s.existsErr != nil {
		return false, s.existsErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.objects[name]
	return ok, nil
}

func (s *memStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.objects)
}

// --- metadata ---

type memDB struct {
	mu    sync.Mutex
	files map[string]*models.File
	links map[string]*models.ShareLink
	users map[string]*models.User
	clock func() time.Time

	createFileErr error
	deleteFileErr error
	incErr        error
	deleteLinkErr error
	findLinkErr   error
	registerErr   error
}

func newMemDB() *memDB {
	return &memDB{
		files: map[string]*models.File{},
		links: map[string]*models.ShareLink{},
		users: map[string]*models.User{},
		clock: time.Now,
	}
}

func (m *memDB) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *memDB) Users(dbx.DBTX) users.Repository            { return memUsers{m} }
func (m *memDB) Files(dbx.DBTX) files.Repository            { return memFiles{m} }
func (m *memDB) ShareLinks(dbx.DBTX) sharelinks.Repository  { return memLinks{m} }

func (m *memDB) addFile(ownerID, name string) *models.File {
	m.mu.Lock()
	defer m.mu.Unlock()
	f := &models.File{
		ID:           uuid.NewString(),
		OwnerID:      ownerID,
		OriginalName: name,
		StoredName:   uuid.NewString() + ".pdf",
		MimeType:     "application/pdf",
		UploadedAt:   m.clock(),
	}
	m.files[f.ID] = f
	return f
}

func (m *memDB) file(id string) *models.File {
	m.mu.Lock()
	defer m.mu.Unlock()
	f, ok := m.files[id]
	if !ok {
		return nil
	}
	cp := *f
	return &cp
}

type memFiles struct{ m *memDB }

func (r memFiles) Create(_ context.Context, f *models.File) (*models.File, error) {
	if r.m.createFileErr != nil {
		return nil, r.m.createFileErr
	}
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	f.ID = uuid.NewString()
	f.UploadedAt = r.m.clock()
	cp := *f
	r.m.files[f.ID] = &cp
	return f, nil
}

func (r memFiles) GetByIDAndOwner(_ context.Context, id, ownerID string) (*models.File, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	f, ok := r.m.files[id]
	if !ok || f.OwnerID != ownerID {
		return nil, common.ErrorNotFound
	}
	cp := *f
	return &cp, nil
}

func (r memFiles) GetByID(_ context.Context, id string) (*models.File, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	f, ok := r.m.files[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *f
	return &cp, nil
}

func (r memFiles) ListByOwner(_ context.Context, ownerID string) ([]*models.File, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	out := []*models.File{}
	for _, f := range r.m.files {
		if f.OwnerID == ownerID {
			cp := *f
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UploadedAt.After(out[j].UploadedAt) })
	return out, nil
}

func (r memFiles) Delete(_ context.Context, id, ownerID string) error {
	if r.m.deleteFileErr != nil {
		return r.m.deleteFileErr
	}
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	f, ok := r.m.files[id]
	if !ok || f.OwnerID != ownerID {
		return common.ErrorNotFound
	}
	delete(r.m.files, id)
	return nil
}

func (r memFiles) IncrementDownloadCount(_ context.Context, id string) error {
	if r.m.incErr != nil {
		return r.m.incErr
	}
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	f, ok := r.m.files[id]
	if !ok {
		return common.ErrorNotFound
	}
	f.DownloadCount++
	return nil
}

type memLinks struct{ m *memDB }

func (r memLinks) Create(_ context.Context, l *models.ShareLink) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.links[l.Token]; ok {
		return common.ErrorAlreadyExists
	}
	cp := *l
	r.m.links[l.Token] = &cp
	return nil
}

func (r memLinks) FindByToken(_ context.Context, token string) (*models.SharedFile, error) {
	if r.m.findLinkErr != nil {
		return nil, r.m.findLinkErr
	}
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

func (r memLinks) Delete(_ context.Context, token string) error {
	if r.m.deleteLinkErr != nil {
		return r.m.deleteLinkErr
	}
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	delete(r.m.links, token)
	return nil
}

func (r memLinks) DeleteByFileID(_ context.Context, fileID string) (int64, error) {
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

func (r memLinks) ListByFile(_ context.Context, fileID string) ([]*models.ShareLink, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	out := []*models.ShareLink{}
	for _, l := range r.m.links {
		if l.FileID == fileID {
			cp := *l
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

type memUsers struct{ m *memDB }

func (r memUsers) Create(_ context.Context, u *models.User) (*models.User, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, existing := range r.m.users {
		if existing.Email == u.Email {
			return nil, common.ErrorAlreadyExists
		}
	}
	u.ID = uuid.NewString()
	u.CreatedAt = r.m.clock()
	cp := *u
	r.m.users[u.ID] = &cp
	return u, nil
}

func (r memUsers) GetByEmail(_ context.Context, email string) (*models.User, error) {
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

func (r memUsers) GetByID(_ context.Context, id string) (*models.User, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	u, ok := r.m.users[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *u
	return &cp, nil
}

func (r memUsers) RegisterFailedLogin(_ context.Context, id string, at time.Time, lockAfter int) (*models.User, error) {
	if r.m.registerErr != nil {
		return nil, r.m.registerErr
	}
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	u, ok := r.m.users[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	u.FailedLogins++
	u.LastFailedAt = &at
	if u.FailedLogins >= lockAfter {
		u.IsLocked = true
	}
	cp := *u
	return &cp, nil
}

func (r memUsers) ResetFailedLogins(_ context.Context, id string) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	u, ok := r.m.users[id]
	if !ok {
		return common.ErrorNotFound
	}
	u.FailedLogins = 0
	u.IsLocked = false
	u.LastFailedAt = nil
	return nil
}
