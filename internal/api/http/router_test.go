package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/staff-tracker/internal/api/http/handlers"
	"github.com/spec-kit/staff-tracker/internal/clock"
	"github.com/spec-kit/staff-tracker/internal/config"
	"github.com/spec-kit/staff-tracker/internal/directory"
	"github.com/spec-kit/staff-tracker/internal/events"
	"github.com/spec-kit/staff-tracker/internal/observability"
	"github.com/spec-kit/staff-tracker/internal/roster"
	"github.com/spec-kit/staff-tracker/internal/service"
	"github.com/spec-kit/staff-tracker/internal/view"
	"github.com/spec-kit/staff-tracker/internal/worker"
	apperrors "github.com/spec-kit/staff-tracker/pkg/util/errorutil"
)

type stubFetcher struct {
	err error
}

func (s *stubFetcher) FetchPeople(_ context.Context, n int) ([]directory.Person, error) {
	if s.err != nil {
		return nil, s.err
	}
	people := make([]directory.Person, 0, n)
	for i := 1; i <= n; i++ {
		people = append(people, directory.Person{
			FirstName: fmt.Sprintf("Name%d", i),
			LastName:  fmt.Sprintf("Surname%d", i),
			Email:     fmt.Sprintf("n%d@example.com", i),
			Thumbnail: fmt.Sprintf("https://img.example.com/%d.jpg", i),
		})
	}
	return people, nil
}

type testServer struct {
	app           *fiber.App
	clock         *clock.Manual
	fetcher       *stubFetcher
	monitor       *worker.LatenessMonitor
	notifications *service.NotificationService
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	logger := zap.NewNop()
	metrics := observability.NewMetrics()
	clk := clock.NewManual(time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC))
	store := roster.NewStore()
	dispatcher := events.NewInMemoryDispatcher(logger)
	fetcher := &stubFetcher{}

	rosterSvc := service.NewRosterService(config.DirectoryConfig{Results: 5}, service.RosterDependencies{
		Store: store, People: fetcher, Dispatcher: dispatcher, Clock: clk, Logger: logger, Metrics: metrics,
	})
	controller := service.NewController(service.ControllerDependencies{
		Store: store, Dispatcher: dispatcher, Clock: clk, Logger: logger, Metrics: metrics,
	})
	notifications := service.NewNotificationService(dispatcher, logger, config.NotificationConfig{}, metrics, clk)
	worker.StartSubscribers(controller, notifications)

	renderer, err := view.NewRenderer(time.UTC)
	require.NoError(t, err)

	app := fiber.New()
	RegisterMiddlewares(app, logger, metrics, time.Second)
	RegisterRoutes(app, RouteConfig{
		Health:        handlers.NewHealthHandler("staff-tracker", "test", rosterSvc, nil, nil, metrics),
		Console:       handlers.NewConsoleHandler("Staff", renderer, rosterSvc, controller, notifications),
		Staff:         handlers.NewStaffHandler(rosterSvc, controller),
		Notifications: handlers.NewNotificationsHandler(notifications),
	})

	_, err = rosterSvc.Load(context.Background())
	require.NoError(t, err)

	return &testServer{
		app:           app,
		clock:         clk,
		fetcher:       fetcher,
		monitor:       worker.NewLatenessMonitor(store, notifications, clk, time.Second, logger),
		notifications: notifications,
	}
}

func (s *testServer) do(t *testing.T, method, path, body string) (int, string) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(raw)
}

type errorEnvelope struct {
	Error struct {
		Code    string         `json:"code"`
		Message string         `json:"message"`
		Details map[string]any `json:"details"`
	} `json:"error"`
}

func decodeError(t *testing.T, body string) errorEnvelope {
	t.Helper()
	var env errorEnvelope
	require.NoError(t, json.Unmarshal([]byte(body), &env), body)
	return env
}

type staffList struct {
	Data []struct {
		ID       int    `json:"id"`
		Status   string `json:"status"`
		Duration *int   `json:"duration"`
		Selected bool   `json:"selected"`
	} `json:"data"`
}

func TestRoutes_ClockOutFlow(t *testing.T) {
	s := newTestServer(t)

	status, body := s.do(t, fiber.MethodPost, "/api/selection", `{"id": 3}`)
	require.Equal(t, fiber.StatusOK, status, body)

	status, body = s.do(t, fiber.MethodPost, "/api/clock-out", `{"duration": "10"}`)
	require.Equal(t, fiber.StatusOK, status, body)
	assert.Contains(t, body, `"status":"Out"`)
	assert.Contains(t, body, `"duration_label":"10min"`)

	status, body = s.do(t, fiber.MethodGet, "/api/staff", "")
	require.Equal(t, fiber.StatusOK, status)
	var list staffList
	require.NoError(t, json.Unmarshal([]byte(body), &list))
	require.Len(t, list.Data, 5)
	for _, m := range list.Data {
		if m.ID == 3 {
			assert.Equal(t, "Out", m.Status)
			assert.True(t, m.Selected)
			require.NotNil(t, m.Duration)
			assert.Equal(t, 10, *m.Duration)
			continue
		}
		assert.Equal(t, "In", m.Status)
		assert.Nil(t, m.Duration)
	}

	status, body = s.do(t, fiber.MethodGet, "/roster/table", "")
	require.Equal(t, fiber.StatusOK, status)
	assert.Contains(t, body, `<tr data-id="3" class="selected-row">`)
	assert.Contains(t, body, "09:10:00")
}

func TestRoutes_ClockOutValidation(t *testing.T) {
	s := newTestServer(t)

	status, body := s.do(t, fiber.MethodPost, "/api/clock-out", `{"duration": "10"}`)
	assert.Equal(t, fiber.StatusBadRequest, status)
	env := decodeError(t, body)
	assert.Equal(t, apperrors.CodeValidation, env.Error.Code)
	assert.Equal(t, `Please select a staff member before clicking "Out".`, env.Error.Message)

	s.do(t, fiber.MethodPost, "/api/selection", `{"id": 2}`)
	status, body = s.do(t, fiber.MethodPost, "/api/clock-out", `{"duration": "abc"}`)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, apperrors.CodeValidation, decodeError(t, body).Error.Code)

	status, body = s.do(t, fiber.MethodPost, "/api/clock-out", `{"duration": 200000000}`)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, apperrors.CodeValidation, decodeError(t, body).Error.Code)

	_, body = s.do(t, fiber.MethodGet, "/api/staff", "")
	assert.NotContains(t, body, `"status":"Out"`)
}

func TestRoutes_ClockIn(t *testing.T) {
	s := newTestServer(t)
	s.do(t, fiber.MethodPost, "/api/selection", `{"id": 4}`)
	s.do(t, fiber.MethodPost, "/api/clock-out", `{"duration": 90}`)

	status, body := s.do(t, fiber.MethodPost, "/api/staff/4/clock-in", "")
	require.Equal(t, fiber.StatusOK, status, body)
	assert.Contains(t, body, `"status":"In"`)
	assert.NotContains(t, body, "duration_label")

	status, _ = s.do(t, fiber.MethodPost, "/api/staff/abc/clock-in", "")
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, body = s.do(t, fiber.MethodPost, "/api/staff/42/clock-in", "")
	assert.Equal(t, fiber.StatusNotFound, status)
	assert.Equal(t, apperrors.CodeNotFound, decodeError(t, body).Error.Code)
}

func TestRoutes_SelectionLifecycle(t *testing.T) {
	s := newTestServer(t)

	status, body := s.do(t, fiber.MethodPost, "/api/selection", `{"id": 9}`)
	assert.Equal(t, fiber.StatusNotFound, status, body)

	s.do(t, fiber.MethodPost, "/api/selection", `{"id": 1}`)
	_, body = s.do(t, fiber.MethodGet, "/api/selection", "")
	assert.JSONEq(t, `{"data":{"selected_id":1}}`, body)

	status, body = s.do(t, fiber.MethodDelete, "/api/selection", "")
	assert.Equal(t, fiber.StatusOK, status)
	assert.JSONEq(t, `{"data":{"selected_id":null}}`, body)
}

func TestRoutes_LateNotificationBoard(t *testing.T) {
	s := newTestServer(t)
	s.do(t, fiber.MethodPost, "/api/selection", `{"id": 3}`)
	s.do(t, fiber.MethodPost, "/api/clock-out", `{"duration": "10"}`)

	raised := s.monitor.Tick(context.Background(), s.clock.Advance(10*time.Minute+time.Second))
	require.Len(t, raised, 1)

	status, body := s.do(t, fiber.MethodGet, "/api/notifications", "")
	require.Equal(t, fiber.StatusOK, status)
	assert.Contains(t, body, "Name3 has been out for 10 minutes and has not returned on time.")

	_, body = s.do(t, fiber.MethodGet, "/notifications", "")
	assert.Contains(t, body, raised[0].ID)

	status, _ = s.do(t, fiber.MethodDelete, "/api/notifications/"+raised[0].ID, "")
	assert.Equal(t, fiber.StatusNoContent, status)
	assert.Empty(t, s.notifications.List())

	status, _ = s.do(t, fiber.MethodDelete, "/api/notifications/"+raised[0].ID, "")
	assert.Equal(t, fiber.StatusNotFound, status)

	_, body = s.do(t, fiber.MethodGet, "/api/staff", "")
	assert.Contains(t, body, `"status":"Out"`)
}

func TestRoutes_ReloadFailureKeepsRoster(t *testing.T) {
	s := newTestServer(t)
	s.do(t, fiber.MethodPost, "/api/selection", `{"id": 2}`)
	s.do(t, fiber.MethodPost, "/api/clock-out", `{"duration": "5"}`)

	s.fetcher.err = apperrors.NewFetchError(errors.New("dial tcp: refused"))
	status, body := s.do(t, fiber.MethodPost, "/api/roster/reload", "")
	assert.Equal(t, fiber.StatusBadGateway, status)
	assert.Equal(t, apperrors.CodeFetch, decodeError(t, body).Error.Code)

	_, body = s.do(t, fiber.MethodGet, "/api/staff", "")
	assert.Contains(t, body, `"status":"Out"`)

	s.fetcher.err = nil
	status, _ = s.do(t, fiber.MethodPost, "/api/roster/reload", "")
	assert.Equal(t, fiber.StatusOK, status)
	_, body = s.do(t, fiber.MethodGet, "/api/selection", "")
	assert.JSONEq(t, `{"data":{"selected_id":null}}`, body)
}

func TestRoutes_HealthAndUnknownRoute(t *testing.T) {
	s := newTestServer(t)

	status, body := s.do(t, fiber.MethodGet, "/health/ready", "")
	assert.Equal(t, fiber.StatusOK, status, body)
	assert.Contains(t, body, `"postgres":"disabled"`)

	status, _ = s.do(t, fiber.MethodGet, "/health/live", "")
	assert.Equal(t, fiber.StatusOK, status)

	status, body = s.do(t, fiber.MethodGet, "/nope", "")
	assert.Equal(t, fiber.StatusNotFound, status)
	assert.Equal(t, apperrors.CodeNotFound, decodeError(t, body).Error.Code)

	status, body = s.do(t, fiber.MethodGet, "/metrics", "")
	assert.Equal(t, fiber.StatusOK, status)
	assert.Contains(t, body, observability.CounterRosterLoad)
}

func TestRoutes_ConsolePage(t *testing.T) {
	s := newTestServer(t)

	status, body := s.do(t, fiber.MethodGet, "/", "")
	require.Equal(t, fiber.StatusOK, status)
	assert.Contains(t, body, "<title>Staff</title>")
	assert.Contains(t, body, `data-id="5"`)
}
