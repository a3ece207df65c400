package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/filevault/internal/common"
	"github.com/dmitrijs2005/filevault/internal/logging"
	"github.com/dmitrijs2005/filevault/internal/server/metrics"
	"github.com/dmitrijs2005/filevault/internal/server/models"
	"github.com/dmitrijs2005/filevault/internal/server/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testTTL = 24 * time.Hour

type shareFixture struct {
	access *AccessService
	share  *ShareService
	mdb    *memDB
	store  *memStore
	mock   sqlmock.Sqlmock
	now    time.Time
}

func newShareFixture(t *testing.T) *shareFixture {
	t.Helper()
	store := newMemStore()
	access, mdb, mock := newAccess(t, store)
	fx := &shareFixture{access: access, mdb: mdb, store: store, mock: mock, now: fixedNow}
	fx.share = NewShareService(access.db, mdb, access, testTTL, logging.Nop(), metrics.NewNoop())
	fx.share.now = func() time.Time { return fx.now }
	return fx
}

func (fx *shareFixture) link(t *testing.T, p models.Principal, fileID, expiry string) *ShareLinkInfo {
	t.Helper()
	info, err := fx.share.CreateShareLink(context.Background(), p, validation.ShareLinkInput{FileID: fileID, Expiry: expiry})
	require.NoError(t, err)
	return info
}

func TestNewShareService_DefaultTTL(t *testing.T) {
	s := NewShareService(nil, newMemDB(), nil, 0, logging.Nop(), metrics.NewNoop())
	assert.Equal(t, DefaultShareTTL, s.defaultTTL)
}

func TestCreateShareLink_Expiry(t *testing.T) {
	fx := newShareFixture(t)
	res := uploadPDF(t, fx.access, alice, "a.pdf")

	tests := []struct {
		name   string
		expiry string
		want   time.Time
	}{
		{"default", "", fixedNow.Add(testTTL)},
		{"future plain", "2025-05-03 12:30:00", time.Date(2025, 5, 3, 12, 30, 0, 0, time.UTC)},
		{"future form", "2025-05-02T08:00", time.Date(2025, 5, 2, 8, 0, 0, 0, time.UTC)},
		{"future rfc3339", "2025-05-01T14:00:00+02:00", time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)},
		{"past", "2025-04-30 10:00:00", fixedNow.Add(testTTL)},
		{"unparsable", "next tuesday", fixedNow.Add(testTTL)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := fx.link(t, alice, res.FileID, tt.expiry)
			assert.True(t, tt.want.Equal(info.ExpiresAt), "want %v got %v", tt.want, info.ExpiresAt)
			assert.True(t, common.IsHexToken(info.Token, common.ShareTokenLength))
			assert.Equal(t, res.FileID, info.FileID)
		})
	}
}

func TestCreateShareLink_Forbidden(t *testing.T) {
	fx := newShareFixture(t)
	res := uploadPDF(t, fx.access, alice, "a.pdf")
	ctx := context.Background()

	_, err := fx.share.CreateShareLink(ctx, bob, validation.ShareLinkInput{FileID: res.FileID})
	require.ErrorIs(t, err, common.ErrorForbidden)

	_, err = fx.share.CreateShareLink(ctx, models.Principal{}, validation.ShareLinkInput{FileID: res.FileID})
	require.ErrorIs(t, err, common.ErrorUnauthorized)

	assert.Empty(t, fx.mdb.links)
}

func TestCreateShareLink_TokensAreUnique(t *testing.T) {
	fx := newShareFixture(t)
	res := uploadPDF(t, fx.access, alice, "a.pdf")

	seen := map[string]bool{}
	for i := 0; i < 20; i++ {
		info := fx.link(t, alice, res.FileID, "")
		require.False(t, seen[info.Token])
		seen[info.Token] = true
	}
}

func TestDownloadByToken_Success(t *testing.T) {
	fx := newShareFixture(t)
	res := uploadPDF(t, fx.access, alice, "a.pdf")
	info := fx.link(t, alice, res.FileID, "")

	fs, err := fx.share.DownloadByToken(context.Background(), validation.TokenInput{Token: info.Token})
	require.NoError(t, err)
	assert.Equal(t, pdfBytes, readAll(t, fs))
	assert.Equal(t, "a.pdf", fs.Name)
	assert.Equal(t, int64(1), fx.mdb.file(res.FileID).DownloadCount)

	fs, err = fx.share.DownloadByToken(context.Background(), validation.TokenInput{Token: strings.ToUpper(info.Token)})
	require.NoError(t, err)
	_ = fs.Close()
	assert.Equal(t, int64(2), fx.mdb.file(res.FileID).DownloadCount)
}

func TestDownloadByToken_BadTokens(t *testing.T) {
	fx := newShareFixture(t)

	for _, tok := range []string{"", "abc", strings.Repeat("z", 64), strings.Repeat("a", 63), strings.Repeat("a", 64), "../" + strings.Repeat("a", 61)} {
		_, err := fx.share.DownloadByToken(context.Background(), validation.TokenInput{Token: tok})
		require.ErrorIs(t, err, common.ErrInvalidToken, "token %q", tok)
	}
}

func TestDownloadByToken_ExpiredIsPurged(t *testing.T) {
	fx := newShareFixture(t)
	res := uploadPDF(t, fx.access, alice, "a.pdf")
	info := fx.link(t, alice, res.FileID, "2025-05-01 11:00:00")

	fx.now = info.ExpiresAt.Add(-time.Second)
	fs, err := fx.share.DownloadByToken(context.Background(), validation.TokenInput{Token: info.Token})
	require.NoError(t, err)
	_ = fs.Close()

	fx.now = info.ExpiresAt.Add(time.Second)
	_, err = fx.share.DownloadByToken(context.Background(), validation.TokenInput{Token: info.Token})
	require.ErrorIs(t, err, common.ErrTokenExpired)
	assert.Empty(t, fx.mdb.links)
	assert.Equal(t, int64(1), fx.mdb.file(res.FileID).DownloadCount)

	_, err = fx.share.DownloadByToken(context.Background(), validation.TokenInput{Token: info.Token})
	require.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestDownloadByToken_ExpiresAtBoundary(t *testing.T) {
	fx := newShareFixture(t)
	res := uploadPDF(t, fx.access, alice, "a.pdf")
	info := fx.link(t, alice, res.FileID, "")

	fx.now = info.ExpiresAt
	_, err := fx.share.DownloadByToken(context.Background(), validation.TokenInput{Token: info.Token})
	require.ErrorIs(t, err, common.ErrTokenExpired)
}

func TestDownloadByToken_NullExpiryUsesDefault(t *testing.T) {
	fx := newShareFixture(t)
	res := uploadPDF(t, fx.access, alice, "a.pdf")
	tok := strings.Repeat("ab", 32)
	fx.mdb.links[tok] = &models.ShareLink{Token: tok, FileID: res.FileID, CreatedAt: fixedNow}

	fx.now = fixedNow.Add(testTTL - time.Second)
	fs, err := fx.share.DownloadByToken(context.Background(), validation.TokenInput{Token: tok})
	require.NoError(t, err)
	_ = fs.Close()

	fx.now = fixedNow.Add(testTTL)
	_, err = fx.share.DownloadByToken(context.Background(), validation.TokenInput{Token: tok})
	require.ErrorIs(t, err, common.ErrTokenExpired)
}

func TestDownloadByToken_PurgeFailureStillExpired(t *testing.T) {
	fx := newShareFixture(t)
	res := uploadPDF(t, fx.access, alice, "a.pdf")
	info := fx.link(t, alice, res.FileID, "")
	fx.mdb.deleteLinkErr = errBoom{}

	fx.now = info.ExpiresAt.Add(time.Hour)
	_, err := fx.share.DownloadByToken(context.Background(), validation.TokenInput{Token: info.Token})
	require.ErrorIs(t, err, common.ErrTokenExpired)
	assert.Len(t, fx.mdb.links, 1)
}

func TestDownloadByToken_MissingBytesKeepsLink(t *testing.T) {
	fx := newShareFixture(t)
	res := uploadPDF(t, fx.access, alice, "a.pdf")
	info := fx.link(t, alice, res.FileID, "")
	require.NoError(t, fx.store.Delete(context.Background(), fx.mdb.file(res.FileID).StoredName))

	_, err := fx.share.DownloadByToken(context.Background(), validation.TokenInput{Token: info.Token})
	require.ErrorIs(t, err, common.ErrorNotFound)
	assert.Len(t, fx.mdb.links, 1)
	assert.Equal(t, int64(0), fx.mdb.file(res.FileID).DownloadCount)
}

func TestDownloadByToken_LookupFailure(t *testing.T) {
	fx := newShareFixture(t)
	fx.mdb.findLinkErr = errBoom{}

	_, err := fx.share.DownloadByToken(context.Background(), validation.TokenInput{Token: strings.Repeat("a", 64)})
	var pe *common.PersistenceError
	require.ErrorAs(t, err, &pe)
}

func TestRevokeShareLink(t *testing.T) {
	fx := newShareFixture(t)
	res := uploadPDF(t, fx.access, alice, "a.pdf")
	info := fx.link(t, alice, res.FileID, "")
	ctx := context.Background()

	err := fx.share.RevokeShareLink(ctx, bob, validation.TokenInput{Token: info.Token})
	require.ErrorIs(t, err, common.ErrorForbidden)
	assert.Len(t, fx.mdb.links, 1)

	err = fx.share.RevokeShareLink(ctx, alice, validation.TokenInput{Token: "nope"})
	require.ErrorIs(t, err, common.ErrorForbidden)

	require.NoError(t, fx.share.RevokeShareLink(ctx, alice, validation.TokenInput{Token: info.Token}))
	assert.Empty(t, fx.mdb.links)

	err = fx.share.RevokeShareLink(ctx, alice, validation.TokenInput{Token: info.Token})
	require.ErrorIs(t, err, common.ErrorForbidden)

	_, err = fx.share.DownloadByToken(ctx, validation.TokenInput{Token: info.Token})
	require.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestListShareLinks_HidesExpired(t *testing.T) {
	fx := newShareFixture(t)
	res := uploadPDF(t, fx.access, alice, "a.pdf")
	short := fx.link(t, alice, res.FileID, "2025-05-01 10:30:00")
	long := fx.link(t, alice, res.FileID, "")

	fx.now = fixedNow.Add(time.Hour)
	list, err := fx.share.ListShareLinks(context.Background(), alice, validation.FileInput{FileID: res.FileID})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, long.Token, list[0].Token)
	assert.NotEqual(t, short.Token, list[0].Token)

	_, err = fx.share.ListShareLinks(context.Background(), bob, validation.FileInput{FileID: res.FileID})
	require.ErrorIs(t, err, common.ErrorForbidden)
}

// Upload, share, fetch anonymously, remove, then the link is dead.
func TestShareLifecycle(t *testing.T) {
	fx := newShareFixture(t)
	ctx := context.Background()

	res := uploadPDF(t, fx.access, alice, "report.pdf")
	list, err := fx.access.ListFiles(ctx, alice)
	require.NoError(t, err)
	require.Len(t, list, 1)

	info := fx.link(t, alice, res.FileID, "")

	fs, err := fx.share.DownloadByToken(ctx, validation.TokenInput{Token: info.Token})
	require.NoError(t, err)
	assert.Equal(t, pdfBytes, readAll(t, fs))

	list, err = fx.access.ListFiles(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, int64(1), list[0].DownloadCount)

	fx.mock.ExpectBegin()
	fx.mock.ExpectCommit()
	out, err := fx.access.RemoveFile(ctx, alice, validation.FileInput{FileID: res.FileID})
	require.NoError(t, err)
	assert.Equal(t, int64(1), out.RevokedLinks)

	_, err = fx.share.DownloadByToken(ctx, validation.TokenInput{Token: info.Token})
	require.ErrorIs(t, err, common.ErrInvalidToken)
	assert.Equal(t, 0, fx.store.count())
	require.NoError(t, fx.mock.ExpectationsWereMet())
}
