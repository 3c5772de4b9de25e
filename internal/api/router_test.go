package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	iauth "github.com/hudumahub/hudumahub/internal/auth"
	"github.com/hudumahub/hudumahub/internal/chat"
	"github.com/hudumahub/hudumahub/internal/database/testutil"
	"github.com/hudumahub/hudumahub/internal/models"
	"github.com/hudumahub/hudumahub/internal/services"
)

type routerFixture struct {
	router *gin.Engine
	db     *gorm.DB
	jwt    *iauth.JWTService
}

func newRouterFixture(t *testing.T) *routerFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.MustOpenTestDB(t)

	jwt, err := iauth.NewJWTService(iauth.JWTConfig{Secret: "test-secret", Issuer: "hudumahub-test"})
	require.NoError(t, err)

	users, err := services.NewUserService(db)
	require.NoError(t, err)
	conversations, err := services.NewConversationService(db)
	require.NoError(t, err)
	notifications, err := services.NewNotificationService(db)
	require.NoError(t, err)
	messages, err := services.NewMessageService(db, conversations, notifications)
	require.NoError(t, err)
	providers, err := services.NewProviderService(db)
	require.NoError(t, err)
	discovery, err := services.NewDiscoveryService(db)
	require.NoError(t, err)
	reviews, err := services.NewReviewService(db)
	require.NoError(t, err)
	sectors, err := services.NewSectorService(db)
	require.NoError(t, err)
	bookings, err := services.NewBookingService(db)
	require.NoError(t, err)
	favorites, err := services.NewFavoriteService(db)
	require.NoError(t, err)
	reports, err := services.NewReportService(db)
	require.NoError(t, err)

	router, err := NewRouter(db, jwt, chat.NewHub(), Services{
		Users:         users,
		Conversations: conversations,
		Messages:      messages,
		Notifications: notifications,
		Providers:     providers,
		Discovery:     discovery,
		Reviews:       reviews,
		Sectors:       sectors,
		Bookings:      bookings,
		Favorites:     favorites,
		Reports:       reports,
	})
	require.NoError(t, err)

	return &routerFixture{router: router, db: db, jwt: jwt}
}

func (f *routerFixture) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var payload *bytes.Buffer
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		payload = bytes.NewBuffer(raw)
	} else {
		payload = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, payload)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func (f *routerFixture) register(t *testing.T, username, role string) (string, string) {
	t.Helper()

	w := f.do(t, http.MethodPost, "/api/auth/register", "", gin.H{
		"username": username,
		"email":    username + "@example.com",
		"password": "password123",
		"role":     role,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var envelope struct {
		Data struct {
			AccessToken string `json:"access_token"`
			User        struct {
				ID string `json:"id"`
			} `json:"user"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	return envelope.Data.User.ID, envelope.Data.AccessToken
}

func (f *routerFixture) adminToken(t *testing.T) string {
	t.Helper()

	// Admin roles cannot be self-assigned; seed one directly and mint a token.
	admin := models.User{Username: "admin", Email: "admin@example.com", Password: "x", Role: models.RoleAdmin, IsActive: true}
	require.NoError(t, f.db.Create(&admin).Error)

	token, err := f.jwt.GenerateAccessToken(iauth.AccessTokenInput{UserID: admin.ID, Role: admin.Role})
	require.NoError(t, err)
	return token
}

func TestHealthEndpoint(t *testing.T) {
	f := newRouterFixture(t)

	w := f.do(t, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"status":"ok"`)
}

func TestAuthFlow(t *testing.T) {
	f := newRouterFixture(t)

	userID, token := f.register(t, "wanjiku", "client")
	require.NotEmpty(t, userID)
	require.NotEmpty(t, token)

	w := f.do(t, http.MethodPost, "/api/auth/login", "", gin.H{
		"identifier": "wanjiku",
		"password":   "password123",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = f.do(t, http.MethodGet, "/api/auth/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), userID)

	// Missing token is rejected.
	w = f.do(t, http.MethodGet, "/api/auth/me", "", nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestMessageAndNotificationFlow(t *testing.T) {
	f := newRouterFixture(t)

	_, aliceToken := f.register(t, "alice", "client")
	bobID, bobToken := f.register(t, "bob", "provider")

	w := f.do(t, http.MethodPost, "/api/messages", aliceToken, gin.H{
		"receiver_id": bobID,
		"content":     "hello bob",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	// Empty content is a validation error on the API path.
	w = f.do(t, http.MethodPost, "/api/messages", aliceToken, gin.H{
		"receiver_id": bobID,
		"content":     "",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)

	// Bob sees the conversation and the fan-out notification.
	w = f.do(t, http.MethodGet, "/api/conversations", bobToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "participant_low_id")

	w = f.do(t, http.MethodGet, "/api/notifications", bobToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "New message from alice: hello bob")

	w = f.do(t, http.MethodPost, "/api/notifications/read-all", bobToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"marked_read":1`)
}

func TestCapabilityEnforcement(t *testing.T) {
	f := newRouterFixture(t)

	_, clientToken := f.register(t, "client", "client")
	_, providerToken := f.register(t, "provider", "provider")
	adminToken := f.adminToken(t)

	// Clients cannot create provider profiles.
	w := f.do(t, http.MethodPost, "/api/providers", clientToken, gin.H{"business_name": "nope"})
	require.Equal(t, http.StatusForbidden, w.Code)

	// Providers can.
	w = f.do(t, http.MethodPost, "/api/providers", providerToken, gin.H{"business_name": "Fundi Works"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	// Sector management is admin-only.
	w = f.do(t, http.MethodPost, "/api/admin/sectors", providerToken, gin.H{"name": "Plumbing"})
	require.Equal(t, http.StatusForbidden, w.Code)

	w = f.do(t, http.MethodPost, "/api/admin/sectors", adminToken, gin.H{"name": "Plumbing"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	// Admin user list denied to clients.
	w = f.do(t, http.MethodGet, "/api/admin/users", clientToken, nil)
	require.Equal(t, http.StatusForbidden, w.Code)

	w = f.do(t, http.MethodGet, "/api/admin/users", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestPublicDiscoveryEndpoints(t *testing.T) {
	f := newRouterFixture(t)

	providerUserID, providerToken := f.register(t, "fundi", "provider")
	require.NotEmpty(t, providerUserID)

	w := f.do(t, http.MethodPost, "/api/providers", providerToken, gin.H{
		"business_name": "Fundi Electricals",
		"county":        "Nairobi",
		"latitude":      -1.2921,
		"longitude":     36.8219,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	// Search is public: no token required.
	w = f.do(t, http.MethodGet, "/api/providers/search?county=Nairobi", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "Fundi Electricals")

	w = f.do(t, http.MethodGet, fmt.Sprintf("/api/providers/search?latitude=%f&longitude=%f&radius_km=5", -1.2864, 36.8172), "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "distance_km")

	// Malformed coordinates fail fast.
	w = f.do(t, http.MethodGet, "/api/providers/search?latitude=abc", "", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = f.do(t, http.MethodGet, "/api/providers/featured", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestBookingAndFavoriteFlow(t *testing.T) {
	f := newRouterFixture(t)

	_, clientToken := f.register(t, "client", "client")
	_, providerToken := f.register(t, "provider", "provider")

	w := f.do(t, http.MethodPost, "/api/providers", providerToken, gin.H{"business_name": "Fundi Works"})
	require.Equal(t, http.StatusCreated, w.Code)

	var created struct {
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	profileID := created.Data.ID

	w = f.do(t, http.MethodPost, "/api/bookings", clientToken, gin.H{
		"provider_id":  profileID,
		"service_date": "2030-06-01T10:00:00Z",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	// Providers cannot create bookings.
	w = f.do(t, http.MethodPost, "/api/bookings", providerToken, gin.H{
		"provider_id":  profileID,
		"service_date": "2030-06-01T10:00:00Z",
	})
	require.Equal(t, http.StatusForbidden, w.Code)

	w = f.do(t, http.MethodPost, "/api/favorites", clientToken, gin.H{"provider_id": profileID})
	require.Equal(t, http.StatusCreated, w.Code)

	// The pair is unique.
	w = f.do(t, http.MethodPost, "/api/favorites", clientToken, gin.H{"provider_id": profileID})
	require.Equal(t, http.StatusConflict, w.Code)
}
