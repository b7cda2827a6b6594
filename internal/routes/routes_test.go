package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"sfstore/internal/handlers"
	"sfstore/internal/models"
	"sfstore/internal/repositories/repotest"
	"sfstore/internal/services/eventtoken"
	"sfstore/internal/services/user"
	"sfstore/internal/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var testSecret = []byte("routes-test-secret")

func newApp(t *testing.T) (*fiber.App, uint) {
	t.Helper()
	store, _ := repotest.NewStore(t)
	users := user.NewService(store, user.Config{BcryptCost: bcrypt.MinCost})
	player, _, err := users.Signup(context.Background(), user.SignupInput{Username: "player", Email: "player@example.com"})
	require.NoError(t, err)

	app := fiber.New()
	SetupRoutes(app, Handlers{
		EventToken: handlers.NewEventTokenHandler(eventtoken.NewService(store, nil, nil)),
		User:       handlers.NewUserHandler(users),
	}, Options{JWTSecret: testSecret})
	return app, player.ID
}

func send(t *testing.T, app *fiber.App, method, path, token string, body interface{}) (int, map[string]interface{}) {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(method, path, bytes.NewReader(raw))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	out := map[string]interface{}{}
	_ = json.NewDecoder(resp.Body).Decode(&out)
	return resp.StatusCode, out
}

func tokenFor(t *testing.T, id uint, role string) string {
	t.Helper()
	token, err := utils.GenerateToken(id, role, testSecret, time.Hour)
	require.NoError(t, err)
	return token
}

func TestEventTokenMintingIsAdminOnly(t *testing.T) {
	app, playerID := newApp(t)
	body := fiber.Map{"user_id": playerID, "event_id": "summer", "amount": 1000000}

	status, _ := send(t, app, fiber.MethodPost, "/api/wallet/event-tokens/add", "", body)
	assert.Equal(t, fiber.StatusNotFound, status, "no public mint route")

	status, _ = send(t, app, fiber.MethodPost, "/api/admin/wallet/event-tokens/add", "", body)
	assert.Equal(t, fiber.StatusUnauthorized, status)

	status, _ = send(t, app, fiber.MethodPost, "/api/admin/wallet/event-tokens/add", tokenFor(t, playerID, models.RoleUser), body)
	assert.Equal(t, fiber.StatusForbidden, status)

	status, resp := send(t, app, fiber.MethodPost, "/api/admin/wallet/event-tokens/add", tokenFor(t, 99, models.RoleAdmin), body)
	require.Equal(t, fiber.StatusOK, status)
	balance := resp["balance"].(map[string]interface{})
	assert.EqualValues(t, 1000000, balance["balance"])
}

func TestListUsersIsAdminOnly(t *testing.T) {
	app, playerID := newApp(t)

	status, _ := send(t, app, fiber.MethodGet, "/api/admin/users", "", nil)
	assert.Equal(t, fiber.StatusUnauthorized, status)

	status, _ = send(t, app, fiber.MethodGet, "/api/admin/users", tokenFor(t, playerID, models.RoleUser), nil)
	assert.Equal(t, fiber.StatusForbidden, status)

	status, resp := send(t, app, fiber.MethodGet, "/api/admin/users?limit=10", tokenFor(t, 99, models.RoleAdmin), nil)
	require.Equal(t, fiber.StatusOK, status)
	items := resp["items"].([]interface{})
	require.Len(t, items, 1)
	first := items[0].(map[string]interface{})
	assert.Equal(t, "player", first["username"])
	assert.NotContains(t, first, "password_hash")
	page := resp["pagination"].(map[string]interface{})
	assert.EqualValues(t, 1, page["total"])
}
