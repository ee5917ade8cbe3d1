package postgres

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"edubatch/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnrollmentRepository_Create(t *testing.T) {
	t.Run("successful_enrollment", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		repo := NewEnrollmentRepository(db)

		now := time.Now()
		mock.ExpectQuery(regexp.QuoteMeta(`
		INSERT INTO batch_students (batch_id, student_id, joined_at, created_by, updated_by)
		VALUES ($1, $2, NOW(), $3, $4)
		RETURNING id, joined_at, created_at, updated_at
	`)).
			WithArgs(int64(7), int64(3), int64(1), int64(1)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "joined_at", "created_at", "updated_at"}).
				AddRow(int64(11), now, now, now))

		enrollment := &domain.Enrollment{BatchID: 7, StudentID: 3, CreatedBy: 1, UpdatedBy: 1}
		err = repo.Create(context.Background(), enrollment)
		require.NoError(t, err)
		assert.Equal(t, int64(11), enrollment.ID)
		assert.Equal(t, now, enrollment.JoinedAt)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("duplicate_enrollment", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		repo := NewEnrollmentRepository(db)

		mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO batch_students`)).
			WithArgs(int64(7), int64(3), int64(1), int64(1)).
			WillReturnError(&pq.Error{Code: "23505", Constraint: "batch_students_batch_id_student_id_key"})

		enrollment := &domain.Enrollment{BatchID: 7, StudentID: 3, CreatedBy: 1, UpdatedBy: 1}
		err = repo.Create(context.Background(), enrollment)
		require.Error(t, err)
		assert.Equal(t, domain.ErrAlreadyEnrolled, err)
	})
}

func TestEnrollmentRepository_GetByStudentAndBatch(t *testing.T) {
	t.Run("enrolled_student_found", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		repo := NewEnrollmentRepository(db)

		now := time.Now()
		mock.ExpectQuery(regexp.QuoteMeta(`
		SELECT id, batch_id, student_id, joined_at, created_at, created_by, updated_at, updated_by
		FROM batch_students
		WHERE student_id = $1 AND batch_id = $2
	`)).
			WithArgs(int64(3), int64(7)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "batch_id", "student_id", "joined_at", "created_at", "created_by", "updated_at", "updated_by"}).
				AddRow(int64(11), int64(7), int64(3), now, now, int64(1), now, int64(1)))

		enrollment, err := repo.GetByStudentAndBatch(context.Background(), 3, 7)
		require.NoError(t, err)
		assert.Equal(t, int64(7), enrollment.BatchID)
		assert.Equal(t, int64(3), enrollment.StudentID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not_enrolled", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		repo := NewEnrollmentRepository(db)

		mock.ExpectQuery(regexp.QuoteMeta(`FROM batch_students`)).
			WithArgs(int64(3), int64(7)).
			WillReturnError(sql.ErrNoRows)

		enrollment, err := repo.GetByStudentAndBatch(context.Background(), 3, 7)
		require.Error(t, err)
		assert.Nil(t, enrollment)
		assert.Equal(t, domain.ErrEnrollmentNotFound, err)
	})
}

func TestEnrollmentRepository_Delete(t *testing.T) {
	t.Run("successful_removal", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		repo := NewEnrollmentRepository(db)

		mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM batch_students WHERE id = $1`)).
			WithArgs(int64(11)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err = repo.Delete(context.Background(), 11)
		require.NoError(t, err)
	})

	t.Run("enrollment_not_found", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		repo := NewEnrollmentRepository(db)

		mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM batch_students WHERE id = $1`)).
			WithArgs(int64(404)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err = repo.Delete(context.Background(), 404)
		require.Error(t, err)
		assert.Equal(t, domain.ErrEnrollmentNotFound, err)
	})
}
