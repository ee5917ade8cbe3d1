// Package testutil provides shared test utilities, mocks, and fixtures
// for testing the edubatch application.
package testutil

import (
	"context"
	"errors"
	"sync"
	"time"

	"edubatch/internal/domain"
)

// Common test errors
var (
	ErrMockNotImplemented = errors.New("mock function not implemented")
	ErrMockDatabaseDown   = errors.New("mock: database down")
)

// MockUserRepository implements domain.UserRepository for testing
type MockUserRepository struct {
	mu sync.RWMutex

	// Function overrides - set these to customize behavior
	CreateFunc     func(ctx context.Context, user *domain.User) error
	GetByIDFunc    func(ctx context.Context, id int64) (*domain.User, error)
	GetByEmailFunc func(ctx context.Context, email string) (*domain.User, error)

	// In-memory storage for simple tests
	Users  map[int64]*domain.User
	nextID int64
}

// NewMockUserRepository creates a new MockUserRepository with initialized maps
func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{Users: make(map[int64]*domain.User)}
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, user)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.Users {
		if u.Email == user.Email {
			return domain.ErrEmailExists
		}
		if user.PhoneNumber != "" && u.PhoneNumber == user.PhoneNumber {
			return domain.ErrPhoneExists
		}
	}

	if user.ID == 0 {
		m.nextID++
		user.ID = m.nextID
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}
	user.IsActive = true
	m.Users[user.ID] = user
	return nil
}

func (m *MockUserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	if user, ok := m.Users[id]; ok {
		return user, nil
	}
	return nil, domain.ErrUserNotFound
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.GetByEmailFunc != nil {
		return m.GetByEmailFunc(ctx, email)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, user := range m.Users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (m *MockUserRepository) List(ctx context.Context) ([]*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]*domain.User, 0, len(m.Users))
	for _, user := range m.Users {
		result = append(result, user)
	}
	return result, nil
}

func (m *MockUserRepository) Update(ctx context.Context, user *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.Users[user.ID]; !ok {
		return domain.ErrUserNotFound
	}
	m.Users[user.ID] = user
	return nil
}

func (m *MockUserRepository) Delete(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.Users[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(m.Users, id)
	return nil
}

// MockBatchRepository implements domain.BatchRepository for testing
type MockBatchRepository struct {
	mu sync.RWMutex

	// Function overrides
	CreateFunc  func(ctx context.Context, batch *domain.Batch) error
	GetByIDFunc func(ctx context.Context, id int64) (*domain.Batch, error)
	ListFunc    func(ctx context.Context) ([]*domain.Batch, error)

	// In-memory storage
	Batches map[int64]*domain.Batch
	nextID  int64
}

// NewMockBatchRepository creates a new MockBatchRepository with initialized maps
func NewMockBatchRepository() *MockBatchRepository {
	return &MockBatchRepository{Batches: make(map[int64]*domain.Batch)}
}

func (m *MockBatchRepository) Create(ctx context.Context, batch *domain.Batch) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, batch)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if batch.ID == 0 {
		m.nextID++
		batch.ID = m.nextID
	}
	if batch.CreatedAt.IsZero() {
		batch.CreatedAt = time.Now()
	}
	batch.IsActive = true
	m.Batches[batch.ID] = batch
	return nil
}

func (m *MockBatchRepository) GetByID(ctx context.Context, id int64) (*domain.Batch, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	if batch, ok := m.Batches[id]; ok {
		return batch, nil
	}
	return nil, domain.ErrBatchNotFound
}

func (m *MockBatchRepository) List(ctx context.Context) ([]*domain.Batch, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]*domain.Batch, 0, len(m.Batches))
	for _, batch := range m.Batches {
		result = append(result, batch)
	}
	return result, nil
}

func (m *MockBatchRepository) Update(ctx context.Context, batch *domain.Batch) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.Batches[batch.ID]; !ok {
		return domain.ErrBatchNotFound
	}
	m.Batches[batch.ID] = batch
	return nil
}

func (m *MockBatchRepository) Delete(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.Batches[id]; !ok {
		return domain.ErrBatchNotFound
	}
	delete(m.Batches, id)
	return nil
}

// MockScheduleRepository implements domain.ScheduleRepository for testing
type MockScheduleRepository struct {
	mu sync.RWMutex

	// Function overrides
	CreateFunc func(ctx context.Context, schedule *domain.ClassSchedule) error

	// In-memory storage
	Schedules map[int64]*domain.ClassSchedule
	nextID    int64
}

// NewMockScheduleRepository creates a new MockScheduleRepository with initialized maps
func NewMockScheduleRepository() *MockScheduleRepository {
	return &MockScheduleRepository{Schedules: make(map[int64]*domain.ClassSchedule)}
}

func (m *MockScheduleRepository) Create(ctx context.Context, schedule *domain.ClassSchedule) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, schedule)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, s := range m.Schedules {
		if s.BatchID == schedule.BatchID && s.Day == schedule.Day && s.StartTime == schedule.StartTime {
			return domain.ErrScheduleExists
		}
	}

	if schedule.ID == 0 {
		m.nextID++
		schedule.ID = m.nextID
	}
	schedule.IsActive = true
	m.Schedules[schedule.ID] = schedule
	return nil
}

func (m *MockScheduleRepository) GetByID(ctx context.Context, id, batchID int64) (*domain.ClassSchedule, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if schedule, ok := m.Schedules[id]; ok && schedule.BatchID == batchID {
		return schedule, nil
	}
	return nil, domain.ErrScheduleNotFound
}

func (m *MockScheduleRepository) GetByBatchAndSlot(ctx context.Context, batchID int64, day int, startTime string) (*domain.ClassSchedule, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, schedule := range m.Schedules {
		if schedule.BatchID == batchID && schedule.Day == day && schedule.StartTime == startTime {
			return schedule, nil
		}
	}
	return nil, domain.ErrScheduleNotFound
}

func (m *MockScheduleRepository) ListByBatch(ctx context.Context, batchID int64) ([]*domain.ClassSchedule, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]*domain.ClassSchedule, 0)
	for _, schedule := range m.Schedules {
		if schedule.BatchID == batchID {
			result = append(result, schedule)
		}
	}
	return result, nil
}

func (m *MockScheduleRepository) Update(ctx context.Context, schedule *domain.ClassSchedule) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.Schedules[schedule.ID]
	if !ok || existing.BatchID != schedule.BatchID {
		return domain.ErrScheduleNotFound
	}
	m.Schedules[schedule.ID] = schedule
	return nil
}

func (m *MockScheduleRepository) Delete(ctx context.Context, id, batchID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	schedule, ok := m.Schedules[id]
	if !ok || schedule.BatchID != batchID {
		return domain.ErrScheduleNotFound
	}
	delete(m.Schedules, id)
	return nil
}

// MockStudentRepository implements domain.StudentRepository for testing
type MockStudentRepository struct {
	mu sync.RWMutex

	// Function overrides
	GetByIDFunc     func(ctx context.Context, id int64) (*domain.Student, error)
	GetByUserIDFunc func(ctx context.Context, userID int64) (*domain.Student, error)

	// In-memory storage
	Students map[int64]*domain.Student
	nextID   int64
}

// NewMockStudentRepository creates a new MockStudentRepository with initialized maps
func NewMockStudentRepository() *MockStudentRepository {
	return &MockStudentRepository{Students: make(map[int64]*domain.Student)}
}

func (m *MockStudentRepository) Create(ctx context.Context, student *domain.Student) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if student.ID == 0 {
		m.nextID++
		student.ID = m.nextID
	}
	student.IsActive = true
	m.Students[student.ID] = student
	return nil
}

func (m *MockStudentRepository) GetByID(ctx context.Context, id int64) (*domain.Student, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	if student, ok := m.Students[id]; ok {
		return student, nil
	}
	return nil, domain.ErrStudentNotFound
}

func (m *MockStudentRepository) GetByUserID(ctx context.Context, userID int64) (*domain.Student, error) {
	if m.GetByUserIDFunc != nil {
		return m.GetByUserIDFunc(ctx, userID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, student := range m.Students {
		if student.UserID == userID {
			return student, nil
		}
	}
	return nil, domain.ErrStudentNotFound
}

func (m *MockStudentRepository) List(ctx context.Context) ([]*domain.Student, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]*domain.Student, 0, len(m.Students))
	for _, student := range m.Students {
		result = append(result, student)
	}
	return result, nil
}

func (m *MockStudentRepository) Update(ctx context.Context, student *domain.Student) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.Students[student.ID]; !ok {
		return domain.ErrStudentNotFound
	}
	m.Students[student.ID] = student
	return nil
}

func (m *MockStudentRepository) Delete(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.Students[id]; !ok {
		return domain.ErrStudentNotFound
	}
	delete(m.Students, id)
	return nil
}

// MockSyllabusRepository implements domain.SyllabusRepository for testing
type MockSyllabusRepository struct {
	mu sync.RWMutex

	// Function overrides
	CountByIDsFunc func(ctx context.Context, ids []int64) (int, error)

	// In-memory storage
	Syllabuses map[int64]*domain.Syllabus
	nextID     int64
}

// NewMockSyllabusRepository creates a new MockSyllabusRepository with initialized maps
func NewMockSyllabusRepository() *MockSyllabusRepository {
	return &MockSyllabusRepository{Syllabuses: make(map[int64]*domain.Syllabus)}
}

func (m *MockSyllabusRepository) Create(ctx context.Context, syllabus *domain.Syllabus) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, s := range m.Syllabuses {
		if s.Name == syllabus.Name {
			return domain.ErrSyllabusExists
		}
	}

	if syllabus.ID == 0 {
		m.nextID++
		syllabus.ID = m.nextID
	}
	m.Syllabuses[syllabus.ID] = syllabus
	return nil
}

func (m *MockSyllabusRepository) GetByID(ctx context.Context, id int64) (*domain.Syllabus, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if syllabus, ok := m.Syllabuses[id]; ok {
		return syllabus, nil
	}
	return nil, domain.ErrSyllabusNotFound
}

func (m *MockSyllabusRepository) GetByName(ctx context.Context, name string) (*domain.Syllabus, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, syllabus := range m.Syllabuses {
		if syllabus.Name == name {
			return syllabus, nil
		}
	}
	return nil, domain.ErrSyllabusNotFound
}

func (m *MockSyllabusRepository) List(ctx context.Context) ([]*domain.Syllabus, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]*domain.Syllabus, 0, len(m.Syllabuses))
	for _, syllabus := range m.Syllabuses {
		result = append(result, syllabus)
	}
	return result, nil
}

func (m *MockSyllabusRepository) CountByIDs(ctx context.Context, ids []int64) (int, error) {
	if m.CountByIDsFunc != nil {
		return m.CountByIDsFunc(ctx, ids)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	count := 0
	for _, id := range ids {
		if _, ok := m.Syllabuses[id]; ok {
			count++
		}
	}
	return count, nil
}

func (m *MockSyllabusRepository) Update(ctx context.Context, syllabus *domain.Syllabus) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.Syllabuses[syllabus.ID]; !ok {
		return domain.ErrSyllabusNotFound
	}
	m.Syllabuses[syllabus.ID] = syllabus
	return nil
}

func (m *MockSyllabusRepository) Delete(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.Syllabuses[id]; !ok {
		return domain.ErrSyllabusNotFound
	}
	delete(m.Syllabuses, id)
	return nil
}

// MockEnrollmentRepository implements domain.EnrollmentRepository for testing
type MockEnrollmentRepository struct {
	mu sync.RWMutex

	// Function overrides
	GetByStudentAndBatchFunc func(ctx context.Context, studentID, batchID int64) (*domain.Enrollment, error)

	// In-memory storage
	Enrollments map[int64]*domain.Enrollment
	nextID      int64
}

// NewMockEnrollmentRepository creates a new MockEnrollmentRepository with initialized maps
func NewMockEnrollmentRepository() *MockEnrollmentRepository {
	return &MockEnrollmentRepository{Enrollments: make(map[int64]*domain.Enrollment)}
}

func (m *MockEnrollmentRepository) Create(ctx context.Context, enrollment *domain.Enrollment) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, e := range m.Enrollments {
		if e.BatchID == enrollment.BatchID && e.StudentID == enrollment.StudentID {
			return domain.ErrAlreadyEnrolled
		}
	}

	if enrollment.ID == 0 {
		m.nextID++
		enrollment.ID = m.nextID
	}
	if enrollment.JoinedAt.IsZero() {
		enrollment.JoinedAt = time.Now()
	}
	m.Enrollments[enrollment.ID] = enrollment
	return nil
}

func (m *MockEnrollmentRepository) GetByID(ctx context.Context, id int64) (*domain.Enrollment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if enrollment, ok := m.Enrollments[id]; ok {
		return enrollment, nil
	}
	return nil, domain.ErrEnrollmentNotFound
}

func (m *MockEnrollmentRepository) GetByStudentAndBatch(ctx context.Context, studentID, batchID int64) (*domain.Enrollment, error) {
	if m.GetByStudentAndBatchFunc != nil {
		return m.GetByStudentAndBatchFunc(ctx, studentID, batchID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, enrollment := range m.Enrollments {
		if enrollment.StudentID == studentID && enrollment.BatchID == batchID {
			return enrollment, nil
		}
	}
	return nil, domain.ErrEnrollmentNotFound
}

func (m *MockEnrollmentRepository) ListByBatch(ctx context.Context, batchID int64) ([]*domain.Enrollment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]*domain.Enrollment, 0)
	for _, enrollment := range m.Enrollments {
		if enrollment.BatchID == batchID {
			result = append(result, enrollment)
		}
	}
	return result, nil
}

func (m *MockEnrollmentRepository) Delete(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.Enrollments[id]; !ok {
		return domain.ErrEnrollmentNotFound
	}
	delete(m.Enrollments, id)
	return nil
}

// MockChatMessageRepository implements domain.ChatMessageRepository for testing
type MockChatMessageRepository struct {
	mu sync.RWMutex

	// Function overrides
	CreateFunc func(ctx context.Context, msg *domain.ChatMessage) error

	// In-memory storage
	Messages []*domain.ChatMessage
}

// NewMockChatMessageRepository creates a new MockChatMessageRepository with initialized slices
func NewMockChatMessageRepository() *MockChatMessageRepository {
	return &MockChatMessageRepository{Messages: make([]*domain.ChatMessage, 0)}
}

func (m *MockChatMessageRepository) Create(ctx context.Context, msg *domain.ChatMessage) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, msg)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Messages = append(m.Messages, msg)
	return nil
}

func (m *MockChatMessageRepository) ListByBatch(ctx context.Context, batchID int64) ([]*domain.ChatMessage, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]*domain.ChatMessage, 0)
	for _, msg := range m.Messages {
		if msg.BatchID == batchID {
			result = append(result, msg)
		}
	}
	return result, nil
}
