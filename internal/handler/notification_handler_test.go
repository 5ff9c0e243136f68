package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http/httptest"
	"testing"
	"time"

	"trade-alerts-be/internal/model"
	"trade-alerts-be/internal/pkg/logger"
	"trade-alerts-be/internal/pkg/serverutils"
	"trade-alerts-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{})  {}
func (nopLogger) Warn(module, message string, details map[string]interface{})  {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}
func (nopLogger) Sync() error                                                  { return nil }
func (nopLogger) GetLogs(level string, limit, offset int) ([]logger.LogEntry, error) {
	return nil, nil
}
func (nopLogger) GetLogById(id string) (*logger.LogEntry, error) { return nil, nil }

type fakeNotificationRepo struct {
	notifications []model.Notification
	lastLimit     int
	lastOffset    int
	markedUserID  uuid.UUID
}

func (r *fakeNotificationRepo) CreateNotification(ctx context.Context, n *model.Notification) error {
	r.notifications = append(r.notifications, *n)
	return nil
}

func (r *fakeNotificationRepo) GetNotificationsByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.Notification, int64, error) {
	r.lastLimit, r.lastOffset = limit, offset
	var out []model.Notification
	for _, n := range r.notifications {
		if n.UserId == userID {
			out = append(out, n)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeNotificationRepo) GetUnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	return 0, nil
}

func (r *fakeNotificationRepo) MarkAsRead(ctx context.Context, notificationID, userID uuid.UUID) error {
	r.markedUserID = userID
	for i, n := range r.notifications {
		if n.Id == notificationID && n.UserId == userID {
			r.notifications[i].IsRead = true
			return nil
		}
	}
	return errors.New("notification not found")
}

func (r *fakeNotificationRepo) MarkAllAsRead(ctx context.Context, userID uuid.UUID) error {
	return nil
}

func (r *fakeNotificationRepo) GetNotificationTypeByCode(ctx context.Context, code string) (*model.NotificationType, error) {
	return nil, errors.New("not found")
}

func (r *fakeNotificationRepo) GetUsersByRole(ctx context.Context, role string) ([]model.User, error) {
	return nil, nil
}

func newNotificationApp(t *testing.T, repo *fakeNotificationRepo) *fiber.App {
	t.Helper()
	t.Setenv("JWT_SECRET", "unit-test-secret")

	svc := service.NewNotificationService(repo, nil, nil, nopLogger{})
	h := NewNotificationHandler(svc, nil, nopLogger{})

	app := fiber.New()
	h.RegisterRoutes(app.Group("/api"))
	return app
}

func bearerToken(t *testing.T, userID uuid.UUID) string {
	t.Helper()
	token, err := serverutils.GenerateToken(userID, "user", time.Hour)
	require.NoError(t, err)
	return "Bearer " + token
}

func TestGetNotificationsClampsPaging(t *testing.T) {
	repo := &fakeNotificationRepo{}
	app := newNotificationApp(t, repo)
	auth := bearerToken(t, uuid.New())

	cases := []struct {
		name       string
		query      string
		wantLimit  int
		wantOffset int
	}{
		{"zero limit falls back to default", "?limit=0", 20, 0},
		{"negative limit falls back to default", "?limit=-3", 20, 0},
		{"negative offset clamped", "?limit=10&offset=-50", 10, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(fiber.MethodGet, "/api/notifications"+tc.query, nil)
			req.Header.Set("Authorization", auth)

			resp, err := app.Test(req)
			require.NoError(t, err)
			require.Equal(t, fiber.StatusOK, resp.StatusCode)

			var body map[string]interface{}
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Equal(t, float64(1), body["page"])
			assert.Equal(t, float64(tc.wantLimit), body["limit"])

			assert.Equal(t, tc.wantLimit, repo.lastLimit)
			assert.Equal(t, tc.wantOffset, repo.lastOffset)
		})
	}
}

func TestMarkAsReadScopedToOwner(t *testing.T) {
	owner := uuid.New()
	intruder := uuid.New()
	notifID := uuid.New()

	repo := &fakeNotificationRepo{notifications: []model.Notification{{
		Id:       notifID,
		UserId:   owner,
		TypeCode: "payment.success",
	}}}
	app := newNotificationApp(t, repo)

	path := fmt.Sprintf("/api/notifications/%s/read", notifID)

	// Another authenticated user cannot mark the owner's notification.
	req := httptest.NewRequest(fiber.MethodPatch, path, nil)
	req.Header.Set("Authorization", bearerToken(t, intruder))
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, intruder, repo.markedUserID)
	assert.False(t, repo.notifications[0].IsRead)

	// The owner can.
	req = httptest.NewRequest(fiber.MethodPatch, path, nil)
	req.Header.Set("Authorization", bearerToken(t, owner))
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.True(t, repo.notifications[0].IsRead)
}
