package mysql

import (
	"context"
	"testing"
	"time"

	"yatube/internal/model"
	"yatube/internal/pkg"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db, mock
}

func TestFollowRepository_FollowCreatesEdgeAndOutbox(t *testing.T) {
	db, mock := newMockDB(t)
	repo := &FollowRepository{DB: db}

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `follows`").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO `social_outbox`").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	changed, err := repo.Follow(context.Background(), 1, 2)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFollowRepository_FollowDuplicateIsNoop(t *testing.T) {
	db, mock := newMockDB(t)
	repo := &FollowRepository{DB: db}

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `follows`").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	changed, err := repo.Follow(context.Background(), 1, 2)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFollowRepository_UnfollowAbsentIsNoop(t *testing.T) {
	db, mock := newMockDB(t)
	repo := &FollowRepository{DB: db}

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM `follows`").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	changed, err := repo.Unfollow(context.Background(), 1, 2)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFollowRepository_UnfollowWritesOutbox(t *testing.T) {
	db, mock := newMockDB(t)
	repo := &FollowRepository{DB: db}

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM `follows`").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO `social_outbox`").WillReturnResult(sqlmock.NewResult(3, 1))
	mock.ExpectCommit()

	changed, err := repo.Unfollow(context.Background(), 1, 2)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFollowRepository_ListFollowedAuthorIDs(t *testing.T) {
	db, mock := newMockDB(t)
	repo := &FollowRepository{DB: db}

	mock.ExpectQuery("SELECT `author_id` FROM `follows` WHERE follower_id = \\?").
		WithArgs(uint64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"author_id"}).AddRow(2).AddRow(9))

	ids, err := repo.ListFollowedAuthorIDs(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, []uint64{2, 9}, ids)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFollowRepository_IsFollowing(t *testing.T) {
	db, mock := newMockDB(t)
	repo := &FollowRepository{DB: db}

	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `follows`").
		WithArgs(uint64(1), uint64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	ok, err := repo.IsFollowing(context.Background(), 1, 2)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestPostRepository_FindByIDNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := &PostRepository{DB: db}

	mock.ExpectQuery("SELECT \\* FROM `posts`").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.FindByID(context.Background(), 42)
	assert.ErrorIs(t, err, pkg.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostRepository_ListByAuthorsOrdersAndPreloads(t *testing.T) {
	db, mock := newMockDB(t)
	repo := &PostRepository{DB: db}
	now := time.Now()

	mock.ExpectQuery("SELECT \\* FROM `posts` WHERE author_id IN \\(\\?,\\?\\) ORDER BY created_at DESC, id DESC LIMIT").
		WillReturnRows(sqlmock.NewRows([]string{"id", "text", "created_at", "group_id", "author_id"}).
			AddRow(4, "b", now, nil, 2).
			AddRow(3, "a", now, nil, 2))
	mock.ExpectQuery("SELECT \\* FROM `users` WHERE `users`.`id` = \\?").
		WillReturnRows(sqlmock.NewRows([]string{"id", "username"}).AddRow(2, "artem"))

	posts, err := repo.ListByAuthors(context.Background(), []uint64{2, 7}, 0, 10)
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, uint64(4), posts[0].ID)
	assert.Equal(t, "artem", posts[1].Author.Username)
	assert.Nil(t, posts[0].Group)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostRepository_EmptyAuthorSetSkipsQuery(t *testing.T) {
	db, mock := newMockDB(t)
	repo := &PostRepository{DB: db}

	n, err := repo.CountByAuthors(context.Background(), nil)
	require.NoError(t, err)
	assert.Zero(t, n)

	posts, err := repo.ListByAuthors(context.Background(), nil, 0, 10)
	require.NoError(t, err)
	assert.Empty(t, posts)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostRepository_CountByGroup(t *testing.T) {
	db, mock := newMockDB(t)
	repo := &PostRepository{DB: db}

	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `posts` WHERE group_id = \\?").
		WithArgs(uint64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(13))

	n, err := repo.CountByGroup(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, int64(13), n)
}

func TestPostRepository_UpdateClearsGroup(t *testing.T) {
	db, mock := newMockDB(t)
	repo := &PostRepository{DB: db}

	mock.ExpectExec("UPDATE `posts` SET").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Update(context.Background(), &model.Post{ID: 1, Text: "new"})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOutboxRepository_MarkFailed(t *testing.T) {
	db, mock := newMockDB(t)
	repo := &OutboxRepository{DB: db}

	mock.ExpectExec("UPDATE `social_outbox` SET .*retry.*retry \\+ 1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.MarkFailed(context.Background(), 8))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_FindByUsernameNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := &UserRepository{DB: db}

	mock.ExpectQuery("SELECT \\* FROM `users` WHERE username = \\?").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.FindByUsername(context.Background(), "ghost")
	assert.ErrorIs(t, err, pkg.ErrNotFound)
}
