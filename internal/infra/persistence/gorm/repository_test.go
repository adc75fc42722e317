package gormpersistence

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gormmysql "gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Ijadele/Blog/internal/domain"
	"github.com/Ijadele/Blog/internal/dto"
	"github.com/Ijadele/Blog/internal/repository"
)

// newMockDB 创建一个由 sqlmock 驱动的 GORM 实例
func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(gormmysql.New(gormmysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db, mock
}

func TestIsDuplicateEntryError(t *testing.T) {
	assert.False(t, isDuplicateEntryError(nil))
	assert.True(t, isDuplicateEntryError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry"}))
	assert.False(t, isDuplicateEntryError(&mysql.MySQLError{Number: 1045, Message: "Access denied"}))
	assert.True(t, isDuplicateEntryError(errors.New("UNIQUE constraint failed: posts.slug")))
	assert.False(t, isDuplicateEntryError(errors.New("connection refused")))
}

func TestGormUserRepository_FindByEmail_Found(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewGormUserRepository(db)

	mock.ExpectQuery("SELECT \\* FROM `users` WHERE email = \\?").
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "role"}).AddRow("u-1", "a@x.com", "user"))

	user, err := repo.FindByEmail(context.Background(), "a@x.com")

	require.NoError(t, err)
	assert.Equal(t, "u-1", user.ID)
	assert.Equal(t, domain.RoleUser, user.Role)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormUserRepository_FindByEmail_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewGormUserRepository(db)

	mock.ExpectQuery("SELECT \\* FROM `users` WHERE email = \\?").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	user, err := repo.FindByEmail(context.Background(), "ghost@x.com")

	assert.Nil(t, user)
	assert.ErrorIs(t, err, repository.ErrUserNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormUserRepository_Create_AssignsID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewGormUserRepository(db)

	mock.ExpectExec("INSERT INTO `users`").WillReturnResult(sqlmock.NewResult(0, 1))

	user := &domain.User{Email: "a@x.com", Password: "hash", Role: domain.RoleUser}
	err := repo.Create(context.Background(), user)

	require.NoError(t, err)
	assert.Len(t, user.ID, 36, "应生成 UUID 主键")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormUserRepository_Create_DuplicateEmail(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewGormUserRepository(db)

	mock.ExpectExec("INSERT INTO `users`").
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'a@x.com' for key 'idx_email'"})

	err := repo.Create(context.Background(), &domain.User{Email: "a@x.com", Password: "hash", Role: domain.RoleUser})

	assert.ErrorIs(t, err, repository.ErrDuplicateEntry)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormPostRepository_ExistsBySlug(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewGormPostRepository(db)

	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `posts` WHERE slug = \\?").
		WillReturnRows(sqlmock.NewRows([]string{"count(*)"}).AddRow(1))

	exists, err := repo.ExistsBySlug(context.Background(), "hello-world")

	require.NoError(t, err)
	assert.True(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormPostRepository_FindByID_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewGormPostRepository(db)

	mock.ExpectQuery("SELECT \\* FROM `posts` WHERE id = \\?").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	post, err := repo.FindByID(context.Background(), "missing")

	assert.Nil(t, post)
	assert.ErrorIs(t, err, repository.ErrPostNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormPostRepository_Create_DuplicateSlug(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewGormPostRepository(db)

	mock.ExpectExec("INSERT INTO `posts`").
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'hello-world' for key 'idx_slug'"})

	err := repo.Create(context.Background(), &domain.Post{Title: "Hello World", Content: "c", AuthorID: "u-1", Slug: "hello-world"})

	assert.ErrorIs(t, err, repository.ErrDuplicateEntry)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormPostRepository_Delete_NotFoundRollsBack(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewGormPostRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM `comments` WHERE post_id = \\?").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("DELETE FROM `posts` WHERE id = \\?").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := repo.Delete(context.Background(), "missing")

	assert.ErrorIs(t, err, repository.ErrPostNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormCommentRepository_Delete(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewGormCommentRepository(db)

	mock.ExpectExec("DELETE FROM `comments` WHERE id = \\?").WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Delete(context.Background(), "c-1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormCommentRepository_FindByID_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewGormCommentRepository(db)

	mock.ExpectQuery("SELECT \\* FROM `comments` WHERE id = \\?").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	comment, err := repo.FindByID(context.Background(), "missing")

	assert.Nil(t, comment)
	assert.ErrorIs(t, err, repository.ErrCommentNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormPostRepository_List_FiltersSortAndPage(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewGormPostRepository(db)
	published := true
	filter := dto.PostFilter{
		Page:      2,
		Limit:     10,
		Query:     "50%_Go",
		Tag:       "go",
		AuthorID:  "u1",
		Published: &published,
		Sort:      dto.ParseSort("title,-createdAt"),
	}

	// 搜索词中的通配符按字面匹配，并统一转小写
	like := `%50\%\_go%`
	where := "WHERE \\(+LOWER\\(title\\) LIKE \\? OR LOWER\\(content\\) LIKE \\?\\)+ " +
		"AND JSON_CONTAINS\\s?\\(`tags`,\\s?JSON_ARRAY\\(\\?\\)\\) " +
		"AND author_id = \\? AND published = \\?"

	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `posts` " + where).
		WithArgs(like, like, "go", "u1", true).
		WillReturnRows(sqlmock.NewRows([]string{"count(*)"}).AddRow(11))
	mock.ExpectQuery("SELECT \\* FROM `posts` " + where +
		" ORDER BY `title`,`created_at` DESC,`id` LIMIT (\\?|10) OFFSET (\\?|10)").
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "author_id"}).AddRow("p-11", "Go tips", "u1"))
	mock.ExpectQuery("SELECT `id`,`username`,`email`,`role` FROM `users` WHERE `users`.`id` = \\?").
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "email", "role"}).AddRow("u1", "alice", "a@x.com", "user"))

	posts, total, err := repo.List(context.Background(), filter)

	require.NoError(t, err)
	assert.Equal(t, int64(11), total)
	require.Len(t, posts, 1)
	assert.Equal(t, "p-11", posts[0].ID)
	require.NotNil(t, posts[0].Author)
	assert.Equal(t, "alice", posts[0].Author.Username)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormPostRepository_List_DefaultOrder(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewGormPostRepository(db)
	page, limit := dto.NormalizePage("", "")

	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `posts`$").
		WillReturnRows(sqlmock.NewRows([]string{"count(*)"}).AddRow(0))
	mock.ExpectQuery("SELECT \\* FROM `posts` ORDER BY `created_at` DESC,`id` LIMIT (\\?|10)$").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	posts, total, err := repo.List(context.Background(), dto.PostFilter{Page: page, Limit: limit, Sort: dto.ParseSort("")})

	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, posts)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormPostRepository_Update(t *testing.T) {
	t.Run("updates editable fields", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewGormPostRepository(db)
		mock.ExpectExec("UPDATE `posts` SET `title`=\\?,`content`=\\?,`published`=\\?,`updated_at`=\\? WHERE `id` = \\?").
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.Update(context.Background(), &domain.Post{ID: "p-1", Title: "T", Content: "C"})

		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("row deleted concurrently", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewGormPostRepository(db)
		mock.ExpectExec("UPDATE `posts` SET").WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Update(context.Background(), &domain.Post{ID: "gone", Title: "T", Content: "C"})

		assert.ErrorIs(t, err, repository.ErrPostNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormCommentRepository_ListByPost_NewestFirst(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewGormCommentRepository(db)

	mock.ExpectQuery("SELECT \\* FROM `comments` WHERE post_id = \\? ORDER BY created_at DESC").
		WithArgs("p-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "post_id", "content"}).
			AddRow("c-2", "p-1", "second").
			AddRow("c-1", "p-1", "first"))

	comments, err := repo.ListByPost(context.Background(), "p-1")

	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, "c-2", comments[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormCommentRepository_UpdateContent_RowDeleted(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewGormCommentRepository(db)

	mock.ExpectExec("UPDATE `comments` SET `content`=\\?,`updated_at`=\\? WHERE `id` = \\?").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateContent(context.Background(), &domain.Comment{ID: "gone", Content: "x"})

	assert.ErrorIs(t, err, repository.ErrCommentNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
