package handler

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"edubatch/internal/domain"
	"edubatch/internal/service"
	"edubatch/internal/testutil"
	ws "edubatch/internal/websocket"
)

type wsFixture struct {
	server      *httptest.Server
	verifier    *service.TokenVerifier
	batches     *testutil.MockBatchRepository
	students    *testutil.MockStudentRepository
	enrollments *testutil.MockEnrollmentRepository
	messages    *testutil.MockChatMessageRepository
}

func newWSFixture(t *testing.T) *wsFixture {
	t.Helper()

	hub := ws.NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go func() { _ = hub.Run(ctx) }()

	verifier := service.NewTokenVerifier("test-secret")
	batches := testutil.NewMockBatchRepository()
	students := testutil.NewMockStudentRepository()
	enrollments := testutil.NewMockEnrollmentRepository()
	messages := testutil.NewMockChatMessageRepository()

	authz := service.NewAuthzService(batches, students, enrollments)
	chatService := service.NewChatService(messages)
	handler := NewWebSocketHandler(hub, verifier, authz, chatService)

	router := chi.NewRouter()
	router.Get("/ws/chat/batch/{batchID}", handler.HandleConnection)

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	return &wsFixture{
		server:      server,
		verifier:    verifier,
		batches:     batches,
		students:    students,
		enrollments: enrollments,
		messages:    messages,
	}
}

func (f *wsFixture) dial(t *testing.T, batchID, token string) *websocket.Conn {
	t.Helper()

	url := "ws" + strings.TrimPrefix(f.server.URL, "http") + "/ws/chat/batch/" + batchID
	if token != "" {
		url += "?token=" + token
	}
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func (f *wsFixture) token(t *testing.T, userID int64, name string, role domain.Role) string {
	t.Helper()

	token, err := f.verifier.Issue(&service.Claims{UserID: userID, Name: name, Role: role}, time.Hour)
	require.NoError(t, err)
	return token
}

func readFrame(t *testing.T, conn *websocket.Conn) ws.Frame {
	t.Helper()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, raw, err := conn.ReadMessage()
	require.NoError(t, err)

	var frame ws.Frame
	require.NoError(t, json.Unmarshal(raw, &frame))
	return frame
}

func expectClose(t *testing.T, conn *websocket.Conn, code int) {
	t.Helper()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err := conn.ReadMessage()
	require.Error(t, err)

	closeErr, ok := err.(*websocket.CloseError)
	require.True(t, ok, "expected close error, got %v", err)
	assert.Equal(t, code, closeErr.Code)
}

func TestWebSocketHandler_MissingTokenClosedAsPolicyViolation(t *testing.T) {
	f := newWSFixture(t)

	conn := f.dial(t, "7", "")
	expectClose(t, conn, websocket.ClosePolicyViolation)
}

func TestWebSocketHandler_InvalidTokenClosedAsPolicyViolation(t *testing.T) {
	f := newWSFixture(t)

	conn := f.dial(t, "7", "garbage")
	expectClose(t, conn, websocket.ClosePolicyViolation)
}

func TestWebSocketHandler_UnenrolledStudentClosedAsPolicyViolation(t *testing.T) {
	f := newWSFixture(t)

	batch := testutil.NewTestBatch(5)
	require.NoError(t, f.batches.Create(context.Background(), batch))
	student := testutil.NewTestStudent(10)
	require.NoError(t, f.students.Create(context.Background(), student))

	conn := f.dial(t, "1", f.token(t, 10, "carol", domain.RoleStudent))
	expectClose(t, conn, websocket.ClosePolicyViolation)
}

func TestWebSocketHandler_LookupFaultClosedAsInternalError(t *testing.T) {
	f := newWSFixture(t)

	f.batches.GetByIDFunc = func(ctx context.Context, id int64) (*domain.Batch, error) {
		return nil, testutil.ErrMockDatabaseDown
	}

	conn := f.dial(t, "7", f.token(t, 5, "mallory", domain.RoleMentor))
	expectClose(t, conn, websocket.CloseInternalServerErr)
}

func TestWebSocketHandler_AdminReceivesInitFrame(t *testing.T) {
	f := newWSFixture(t)

	conn := f.dial(t, "7", f.token(t, 1, "admin", domain.RoleAdmin))

	frame := readFrame(t, conn)
	assert.Equal(t, "init", frame.Type)
	assert.Equal(t, int64(1), frame.UserID)
	assert.Equal(t, "admin", frame.UserName)
	assert.Equal(t, "Admin", frame.UserRole)
}

func TestWebSocketHandler_MessageRoundTrip(t *testing.T) {
	f := newWSFixture(t)

	alice := f.dial(t, "7", f.token(t, 1, "alice", domain.RoleAdmin))
	bob := f.dial(t, "7", f.token(t, 2, "bob", domain.RoleAdmin))

	require.Equal(t, "init", readFrame(t, alice).Type)
	require.Equal(t, "init", readFrame(t, bob).Type)

	require.NoError(t, alice.WriteJSON(map[string]string{"message": "hello room"}))

	var broadcastID string
	for _, conn := range []*websocket.Conn{alice, bob} {
		frame := readFrame(t, conn)
		assert.Equal(t, "message", frame.Type)
		assert.Equal(t, int64(7), frame.BatchID)
		assert.Equal(t, int64(1), frame.UserID)
		assert.Equal(t, "alice", frame.UserName)
		assert.Equal(t, "hello room", frame.Message)

		_, err := uuid.Parse(frame.ID)
		assert.NoError(t, err, "frame id should be a UUID")
		broadcastID = frame.ID
	}

	// The stored message carries the same id as the broadcast frame.
	history, err := f.messages.ListByBatch(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, broadcastID, history[0].ID)
}

func TestWebSocketHandler_PersistenceFailureOnlySenderNotified(t *testing.T) {
	f := newWSFixture(t)

	f.messages.CreateFunc = func(ctx context.Context, msg *domain.ChatMessage) error {
		return testutil.ErrMockDatabaseDown
	}

	alice := f.dial(t, "7", f.token(t, 1, "alice", domain.RoleAdmin))
	bob := f.dial(t, "7", f.token(t, 2, "bob", domain.RoleAdmin))
	require.Equal(t, "init", readFrame(t, alice).Type)
	require.Equal(t, "init", readFrame(t, bob).Type)

	require.NoError(t, alice.WriteJSON(map[string]string{"message": "doomed"}))

	frame := readFrame(t, alice)
	assert.Equal(t, "error", frame.Type)

	// Bob never sees the unrecorded message.
	require.NoError(t, bob.SetReadDeadline(time.Now().Add(300*time.Millisecond)))
	_, _, err := bob.ReadMessage()
	assert.Error(t, err, "no frame should reach other members")
}

func TestWebSocketHandler_LeaveAnnouncedToRemainingMembers(t *testing.T) {
	f := newWSFixture(t)

	alice := f.dial(t, "7", f.token(t, 1, "alice", domain.RoleAdmin))
	bob := f.dial(t, "7", f.token(t, 2, "bob", domain.RoleAdmin))
	require.Equal(t, "init", readFrame(t, alice).Type)
	require.Equal(t, "init", readFrame(t, bob).Type)

	require.NoError(t, bob.Close())

	frame := readFrame(t, alice)
	assert.Equal(t, "leave", frame.Type)
	assert.Equal(t, int64(2), frame.UserID)
	assert.Equal(t, "bob", frame.UserName)
}
