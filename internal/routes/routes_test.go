package routes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/example/junkgems/internal/config"
	"github.com/example/junkgems/internal/database"
)

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	cfg := &config.Config{
		AppPort:      "0",
		JWTSecret:    "test-secret",
		TokenExpires: time.Hour,
	}

	app := fiber.New()
	Register(app, db, cfg)
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, payload interface{}) (int, map[string]interface{}) {
	t.Helper()

	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	decoded := map[string]interface{}{}
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &decoded))
	}
	return resp.StatusCode, decoded
}

func signup(t *testing.T, app *fiber.App, name, email string) (string, string) {
	t.Helper()

	status, body := doJSON(t, app, http.MethodPost, "/signup", "", map[string]string{
		"name":     name,
		"email":    email,
		"password": "hunter22",
	})
	require.Equal(t, http.StatusCreated, status)

	token, _ := body["token"].(string)
	require.NotEmpty(t, token)
	user := body["user"].(map[string]interface{})
	return token, user["id"].(string)
}

func TestSignupAndLogin(t *testing.T) {
	app := newTestApp(t)

	_, _ = signup(t, app, "Philippa", "philippa@example.com")

	status, body := doJSON(t, app, http.MethodPost, "/login", "", map[string]string{
		"email":    "philippa@example.com",
		"password": "hunter22",
	})
	assert.Equal(t, http.StatusOK, status)
	assert.NotEmpty(t, body["token"])

	status, _ = doJSON(t, app, http.MethodPost, "/login", "", map[string]string{
		"email":    "philippa@example.com",
		"password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = doJSON(t, app, http.MethodPost, "/signup", "", map[string]string{
		"name":     "Philippa",
		"email":    "philippa@example.com",
		"password": "hunter22",
	})
	assert.Equal(t, http.StatusConflict, status)
}

func TestDonationCreditsUploader(t *testing.T) {
	app := newTestApp(t)
	token, userID := signup(t, app, "Dana", "dana@example.com")

	status, _ := doJSON(t, app, http.MethodPost, "/materials", token, map[string]string{
		"title":     "Scrap denim",
		"category":  "fabric",
		"condition": "good",
	})
	require.Equal(t, http.StatusCreated, status)

	status, body := doJSON(t, app, http.MethodGet, "/api/users/"+userID+"/gems", token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 5, body["available_gems"])

	transactions := body["transactions"].([]interface{})
	require.Len(t, transactions, 1)
	entry := transactions[0].(map[string]interface{})
	assert.EqualValues(t, 5, entry["amount"])
	assert.Equal(t, "earn", entry["type"])
}

func TestCheckoutSettlement(t *testing.T) {
	app := newTestApp(t)
	token, userID := signup(t, app, "Ben", "ben@example.com")

	// One donation: balance 5.
	status, _ := doJSON(t, app, http.MethodPost, "/materials", token, map[string]string{
		"title": "Pallet wood",
	})
	require.Equal(t, http.StatusCreated, status)

	status, body := doJSON(t, app, http.MethodPost, "/api/orders", token, map[string]interface{}{
		"totalAmount":     100,
		"appliedGems":     10,
		"shippingAddress": "12 Recycle Lane",
		"paymentMethod":   "card",
	})
	require.Equal(t, http.StatusCreated, status)
	assert.EqualValues(t, 5, body["applied_gems"])
	assert.EqualValues(t, 95, body["final_amount"])

	order := body["order"].(map[string]interface{})
	assert.Equal(t, "completed", order["status"])

	// Spent 5, earned the +2 order bonus.
	status, body = doJSON(t, app, http.MethodGet, "/api/users/"+userID+"/gems", token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 2, body["available_gems"])

	status, _ = doJSON(t, app, http.MethodPost, "/api/orders", token, map[string]interface{}{
		"totalAmount": 0,
	})
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestDailyLoginReward(t *testing.T) {
	app := newTestApp(t)
	token, userID := signup(t, app, "Asha", "asha@example.com")

	status, body := doJSON(t, app, http.MethodPost, "/api/daily-login-reward", token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["success"])
	assert.EqualValues(t, 5, body["gems_earned"])
	assert.EqualValues(t, 1, body["streak"])

	// Second claim the same day is a no-op.
	status, body = doJSON(t, app, http.MethodPost, "/api/daily-login-reward", token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, false, body["success"])
	assert.EqualValues(t, 0, body["gems_earned"])

	status, body = doJSON(t, app, http.MethodGet, "/api/users/"+userID+"/gems", token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 5, body["available_gems"])
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	app := newTestApp(t)

	status, _ := doJSON(t, app, http.MethodPost, "/api/orders", "", map[string]interface{}{
		"totalAmount": 10,
	})
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = doJSON(t, app, http.MethodPost, "/materials", "garbage-token", map[string]string{
		"title": "Broken chair",
	})
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestMessagingFlow(t *testing.T) {
	app := newTestApp(t)
	donorToken, donorID := signup(t, app, "Dana", "dana2@example.com")
	artisanToken, _ := signup(t, app, "Ben", "ben2@example.com")

	status, body := doJSON(t, app, http.MethodPost, "/api/conversations", artisanToken, map[string]string{
		"recipient_id": donorID,
	})
	require.Equal(t, http.StatusCreated, status)
	conversation := body["data"].(map[string]interface{})
	conversationID := conversation["id"].(string)

	status, _ = doJSON(t, app, http.MethodPost, "/api/conversations/"+conversationID+"/messages", artisanToken, map[string]string{
		"body": "Is the denim still available?",
	})
	require.Equal(t, http.StatusCreated, status)

	status, body = doJSON(t, app, http.MethodGet, "/api/conversations/"+conversationID+"/messages", donorToken, nil)
	require.Equal(t, http.StatusOK, status)
	messages := body["data"].([]interface{})
	require.Len(t, messages, 1)

	status, body = doJSON(t, app, http.MethodGet, "/api/conversations", donorToken, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, body["data"].([]interface{}), 1)
}
