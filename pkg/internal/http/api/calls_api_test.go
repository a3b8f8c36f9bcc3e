package api

import (
	"bytes"
	"context"
	"fmt"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	jsoniter "github.com/json-iterator/go"
	"github.com/livekit/protocol/livekit"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/wavedeck-app/wavedeck/pkg/internal/database"
	"github.com/wavedeck-app/wavedeck/pkg/internal/models"
	"github.com/wavedeck-app/wavedeck/pkg/internal/services"
)

type stubRoomService struct{}

func (stubRoomService) CreateRoom(_ context.Context, req *livekit.CreateRoomRequest) (*livekit.Room, error) {
	return &livekit.Room{Name: req.Name}, nil
}

func (stubRoomService) DeleteRoom(_ context.Context, _ *livekit.DeleteRoomRequest) (*livekit.DeleteRoomResponse, error) {
	return &livekit.DeleteRoomResponse{}, nil
}

func setupTestAPI(t *testing.T) *fiber.App {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	source, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.RunMigration(source))
	database.C = source

	viper.Set("identity.secret", "test-identity-secret")
	viper.Set("calling.endpoint", "call.example.com")
	viper.Set("calling.api_key", "testkey")
	viper.Set("calling.api_secret", "testsecret-testsecret-testsecret")

	services.Lk = stubRoomService{}

	app := fiber.New(fiber.Config{
		JSONEncoder: jsoniter.ConfigCompatibleWithStandardLibrary.Marshal,
		JSONDecoder: jsoniter.ConfigCompatibleWithStandardLibrary.Unmarshal,
	})
	MapAPIs(app, "/api")
	return app
}

func bearerFor(t *testing.T, name string) string {
	t.Helper()

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   "idp-" + name,
		"name":  name,
		"email": name + "@example.com",
	}).SignedString([]byte(viper.GetString("identity.secret")))
	require.NoError(t, err)
	return "Bearer " + token
}

func doRequest(t *testing.T, app *fiber.App, method, target, bearer string, body any) (int, map[string]any) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, jsoniter.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if len(bearer) > 0 {
		req.Header.Set(fiber.HeaderAuthorization, bearer)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	var parsed map[string]any
	_ = jsoniter.NewDecoder(resp.Body).Decode(&parsed)
	return resp.StatusCode, parsed
}

func TestAPIRejectsMissingBearerToken(t *testing.T) {
	app := setupTestAPI(t)

	status, _ := doRequest(t, app, fiber.MethodGet, "/api/users/me", "", nil)
	assert.Equal(t, fiber.StatusUnauthorized, status)

	status, _ = doRequest(t, app, fiber.MethodGet, "/api/users/me", "Bearer not-a-token", nil)
	assert.Equal(t, fiber.StatusUnauthorized, status)
}

func TestAPIUserinfoCreatesProfile(t *testing.T) {
	app := setupTestAPI(t)

	status, body := doRequest(t, app, fiber.MethodGet, "/api/users/me", bearerFor(t, "alice"), nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "idp-alice", body["external_id"])
	assert.Equal(t, "alice", body["name"])
}

func TestAPICallLifecycle(t *testing.T) {
	app := setupTestAPI(t)

	alice := bearerFor(t, "alice")
	bob := bearerFor(t, "bob")
	mallory := bearerFor(t, "mallory")

	// Register bob so he can be invited by id.
	status, bobInfo := doRequest(t, app, fiber.MethodGet, "/api/users/me", bob, nil)
	require.Equal(t, fiber.StatusOK, status)
	bobId := uint(bobInfo["id"].(float64))

	status, created := doRequest(t, app, fiber.MethodPost, "/api/calls", alice, map[string]any{
		"title":        "standup",
		"participants": []uint{bobId},
	})
	require.Equal(t, fiber.StatusOK, status)
	require.NotEmpty(t, created["token"])
	call := created["call"].(map[string]any)
	callId := int(call["id"].(float64))

	// An invited participant can fetch the call and gets a credential; an
	// outsider cannot tell the call exists.
	status, joined := doRequest(t, app, fiber.MethodGet, fmt.Sprintf("/api/calls/%d", callId), bob, nil)
	assert.Equal(t, fiber.StatusOK, status)
	assert.NotEmpty(t, joined["token"])

	status, _ = doRequest(t, app, fiber.MethodGet, fmt.Sprintf("/api/calls/%d", callId), mallory, nil)
	assert.Equal(t, fiber.StatusNotFound, status)
	status, _ = doRequest(t, app, fiber.MethodGet, fmt.Sprintf("/api/calls/%d", callId+10000), mallory, nil)
	assert.Equal(t, fiber.StatusNotFound, status)

	// Only the founder can end the call; an outsider cannot even see it.
	status, _ = doRequest(t, app, fiber.MethodPost, fmt.Sprintf("/api/calls/%d/participation", callId), bob, map[string]any{
		"action": "end",
	})
	assert.Equal(t, fiber.StatusForbidden, status)
	status, _ = doRequest(t, app, fiber.MethodPost, fmt.Sprintf("/api/calls/%d/participation", callId), mallory, map[string]any{
		"action": "leave",
	})
	assert.Equal(t, fiber.StatusNotFound, status)

	status, ended := doRequest(t, app, fiber.MethodPost, fmt.Sprintf("/api/calls/%d/participation", callId), alice, map[string]any{
		"action": "end",
	})
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "ended", ended["status"])

	// The ended call is gone for joining and terminal for transitions.
	status, _ = doRequest(t, app, fiber.MethodGet, fmt.Sprintf("/api/calls/%d", callId), bob, nil)
	assert.Equal(t, fiber.StatusGone, status)
	status, _ = doRequest(t, app, fiber.MethodPost, fmt.Sprintf("/api/calls/%d/participation", callId), alice, map[string]any{
		"action": "end",
	})
	assert.Equal(t, fiber.StatusGone, status)

	// Invalid participation actions are rejected up front.
	status, _ = doRequest(t, app, fiber.MethodPost, fmt.Sprintf("/api/calls/%d/participation", callId), alice, map[string]any{
		"action": "dance",
	})
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestAPICallCreationStoreFault(t *testing.T) {
	app := setupTestAPI(t)

	alice := bearerFor(t, "alice")

	// Register the profile while the store is still healthy.
	status, _ := doRequest(t, app, fiber.MethodGet, "/api/users/me", alice, nil)
	require.Equal(t, fiber.StatusOK, status)

	// Room allocation succeeds but the call row cannot be written; that is
	// a server-side fault, not a client error.
	require.NoError(t, database.C.Migrator().DropTable(&models.Call{}))

	status, _ = doRequest(t, app, fiber.MethodPost, "/api/calls", alice, map[string]any{
		"title": "standup",
	})
	assert.Equal(t, fiber.StatusInternalServerError, status)
}

func TestAPILeaveReportsAutoEnd(t *testing.T) {
	app := setupTestAPI(t)

	alice := bearerFor(t, "alice")
	bob := bearerFor(t, "bob")

	status, bobInfo := doRequest(t, app, fiber.MethodGet, "/api/users/me", bob, nil)
	require.Equal(t, fiber.StatusOK, status)
	bobId := uint(bobInfo["id"].(float64))

	status, created := doRequest(t, app, fiber.MethodPost, "/api/calls", alice, map[string]any{
		"participants": []uint{bobId},
	})
	require.Equal(t, fiber.StatusOK, status)
	call := created["call"].(map[string]any)
	callId := int(call["id"].(float64))

	status, left := doRequest(t, app, fiber.MethodPost, fmt.Sprintf("/api/calls/%d/participation", callId), alice, map[string]any{
		"action": "leave",
	})
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "active", left["status"])
	assert.Equal(t, false, left["auto_ended"])

	status, left = doRequest(t, app, fiber.MethodPost, fmt.Sprintf("/api/calls/%d/participation", callId), bob, map[string]any{
		"action": "leave",
	})
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "ended", left["status"])
	assert.Equal(t, true, left["auto_ended"])
}
