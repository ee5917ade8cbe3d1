package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"edubatch/internal/domain"
	"edubatch/internal/testutil"
)

func newAuthzFixture(t *testing.T) (*AuthzService, *testutil.MockBatchRepository, *testutil.MockStudentRepository, *testutil.MockEnrollmentRepository) {
	t.Helper()

	batches := testutil.NewMockBatchRepository()
	students := testutil.NewMockStudentRepository()
	enrollments := testutil.NewMockEnrollmentRepository()
	return NewAuthzService(batches, students, enrollments), batches, students, enrollments
}

func TestAuthzService_AdminRolesAlwaysAdmitted(t *testing.T) {
	svc, _, _, _ := newAuthzFixture(t)

	for _, role := range []domain.Role{domain.RoleAdmin, domain.RoleSuperAdmin} {
		claims := &Claims{UserID: 1, Role: role}
		// Even for a batch nobody created.
		err := svc.AuthorizeRoom(context.Background(), claims, 999)
		assert.NoError(t, err, "role %s should be admitted", role)
	}
}

func TestAuthzService_Mentor(t *testing.T) {
	t.Run("assigned_mentor_admitted", func(t *testing.T) {
		svc, batches, _, _ := newAuthzFixture(t)

		batch := testutil.NewTestBatch(5)
		require.NoError(t, batches.Create(context.Background(), batch))

		claims := &Claims{UserID: 5, Role: domain.RoleMentor}
		assert.NoError(t, svc.AuthorizeRoom(context.Background(), claims, batch.ID))
	})

	t.Run("unassigned_mentor_rejected", func(t *testing.T) {
		svc, batches, _, _ := newAuthzFixture(t)

		batch := testutil.NewTestBatch(5)
		require.NoError(t, batches.Create(context.Background(), batch))

		claims := &Claims{UserID: 6, Role: domain.RoleMentor}
		err := svc.AuthorizeRoom(context.Background(), claims, batch.ID)
		assert.ErrorIs(t, err, domain.ErrNotAuthorized)
	})

	t.Run("missing_batch_rejected_not_internal", func(t *testing.T) {
		svc, _, _, _ := newAuthzFixture(t)

		claims := &Claims{UserID: 5, Role: domain.RoleMentor}
		err := svc.AuthorizeRoom(context.Background(), claims, 999)
		assert.ErrorIs(t, err, domain.ErrNotAuthorized)
	})

	t.Run("lookup_fault_is_internal", func(t *testing.T) {
		svc, batches, _, _ := newAuthzFixture(t)

		batches.GetByIDFunc = func(ctx context.Context, id int64) (*domain.Batch, error) {
			return nil, testutil.ErrMockDatabaseDown
		}

		claims := &Claims{UserID: 5, Role: domain.RoleMentor}
		err := svc.AuthorizeRoom(context.Background(), claims, 7)
		require.Error(t, err)
		assert.NotErrorIs(t, err, domain.ErrNotAuthorized)
	})
}

func TestAuthzService_Student(t *testing.T) {
	setup := func(t *testing.T) (*AuthzService, *testutil.MockStudentRepository, *testutil.MockEnrollmentRepository, *domain.Batch, *domain.Student) {
		svc, batches, students, enrollments := newAuthzFixture(t)

		batch := testutil.NewTestBatch(5)
		require.NoError(t, batches.Create(context.Background(), batch))

		student := testutil.NewTestStudent(10)
		require.NoError(t, students.Create(context.Background(), student))

		return svc, students, enrollments, batch, student
	}

	t.Run("enrolled_student_admitted", func(t *testing.T) {
		svc, _, enrollments, batch, student := setup(t)

		enrollment := testutil.NewTestEnrollment(batch.ID, student.ID)
		require.NoError(t, enrollments.Create(context.Background(), enrollment))

		claims := &Claims{UserID: student.UserID, Role: domain.RoleStudent}
		assert.NoError(t, svc.AuthorizeRoom(context.Background(), claims, batch.ID))
	})

	t.Run("unenrolled_student_rejected_then_admitted_after_enrollment", func(t *testing.T) {
		svc, _, enrollments, batch, student := setup(t)

		claims := &Claims{UserID: student.UserID, Role: domain.RoleStudent}
		err := svc.AuthorizeRoom(context.Background(), claims, batch.ID)
		assert.ErrorIs(t, err, domain.ErrNotAuthorized)

		enrollment := testutil.NewTestEnrollment(batch.ID, student.ID)
		require.NoError(t, enrollments.Create(context.Background(), enrollment))

		assert.NoError(t, svc.AuthorizeRoom(context.Background(), claims, batch.ID))
	})

	t.Run("enrolled_in_other_batch_rejected", func(t *testing.T) {
		svc, _, enrollments, batch, student := setup(t)

		enrollment := testutil.NewTestEnrollment(batch.ID+1, student.ID)
		require.NoError(t, enrollments.Create(context.Background(), enrollment))

		claims := &Claims{UserID: student.UserID, Role: domain.RoleStudent}
		err := svc.AuthorizeRoom(context.Background(), claims, batch.ID)
		assert.ErrorIs(t, err, domain.ErrNotAuthorized)
	})

	t.Run("inactive_student_rejected", func(t *testing.T) {
		svc, students, enrollments, batch, student := setup(t)

		enrollment := testutil.NewTestEnrollment(batch.ID, student.ID)
		require.NoError(t, enrollments.Create(context.Background(), enrollment))

		student.IsActive = false
		require.NoError(t, students.Update(context.Background(), student))

		claims := &Claims{UserID: student.UserID, Role: domain.RoleStudent}
		err := svc.AuthorizeRoom(context.Background(), claims, batch.ID)
		assert.ErrorIs(t, err, domain.ErrNotAuthorized)
	})

	t.Run("no_student_profile_rejected", func(t *testing.T) {
		svc, _, _, batch, _ := setup(t)

		claims := &Claims{UserID: 404, Role: domain.RoleStudent}
		err := svc.AuthorizeRoom(context.Background(), claims, batch.ID)
		assert.ErrorIs(t, err, domain.ErrNotAuthorized)
	})

	t.Run("enrollment_lookup_fault_is_internal", func(t *testing.T) {
		svc, _, enrollments, batch, student := setup(t)

		enrollments.GetByStudentAndBatchFunc = func(ctx context.Context, studentID, batchID int64) (*domain.Enrollment, error) {
			return nil, testutil.ErrMockDatabaseDown
		}

		claims := &Claims{UserID: student.UserID, Role: domain.RoleStudent}
		err := svc.AuthorizeRoom(context.Background(), claims, batch.ID)
		require.Error(t, err)
		assert.NotErrorIs(t, err, domain.ErrNotAuthorized)
	})
}

func TestAuthzService_UnknownRoleRejected(t *testing.T) {
	svc, _, _, _ := newAuthzFixture(t)

	claims := &Claims{UserID: 1, Role: domain.Role(42)}
	err := svc.AuthorizeRoom(context.Background(), claims, 7)
	assert.ErrorIs(t, err, domain.ErrNotAuthorized)
}
