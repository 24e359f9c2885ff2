package repository

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProfileMock(t *testing.T) (*ProfileRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewProfileRepo(db), mock
}

func targetRows(id int64, username string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "username", "bio", "image"}).
		AddRow(id, username, "", nil)
}

func TestFollowSelfForbidden(t *testing.T) {
	repo, mock := newProfileMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id, username, bio, image FROM users").
		WithArgs("alice").
		WillReturnRows(targetRows(7, "alice"))
	mock.ExpectRollback()

	_, err := repo.Follow(context.Background(), 7, "alice")
	assert.ErrorIs(t, err, ErrForbidden)
	// No insert expectation was registered, so meeting all expectations
	// proves the edge write never happened.
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFollowTwiceKeepsOneEdge(t *testing.T) {
	repo, mock := newProfileMock(t)

	// Second insert collides with the existing edge and affects no rows;
	// the operation still reports success either way.
	for _, affected := range []int64{1, 0} {
		mock.ExpectBegin()
		mock.ExpectQuery("SELECT id, username, bio, image FROM users").
			WithArgs("bob").
			WillReturnRows(targetRows(8, "bob"))
		mock.ExpectExec("INSERT INTO follows").
			WithArgs(7, 8).
			WillReturnResult(sqlmock.NewResult(0, affected))
		mock.ExpectCommit()

		p, err := repo.Follow(context.Background(), 7, "bob")
		require.NoError(t, err)
		assert.True(t, p.Following)
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFollowMissingTargetNotFound(t *testing.T) {
	repo, mock := newProfileMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id, username, bio, image FROM users").
		WithArgs("ghost").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	_, err := repo.Follow(context.Background(), 7, "ghost")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUnfollowMissingEdgeIsNoop(t *testing.T) {
	repo, mock := newProfileMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id, username, bio, image FROM users").
		WithArgs("bob").
		WillReturnRows(targetRows(8, "bob"))
	mock.ExpectExec("DELETE FROM follows").
		WithArgs(7, 8).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	p, err := repo.Unfollow(context.Background(), 7, "bob")
	require.NoError(t, err)
	assert.False(t, p.Following)
	assert.NoError(t, mock.ExpectationsWereMet())
}
