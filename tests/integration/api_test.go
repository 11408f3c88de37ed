package integration

import (
	"context"
	"net/http"
	"net/url"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testDB *TestDB

func TestMain(m *testing.M) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	db, err := SetupTestDatabase(ctx)
	if err != nil {
		// Docker is required for these tests
		os.Exit(1)
	}
	testDB = db

	code := m.Run()

	testDB.Teardown(context.Background())
	os.Exit(code)
}

func setupTest(t *testing.T) *TestServer {
	t.Helper()

	require.NoError(t, testDB.CleanupTables(context.Background()))

	ts := NewTestServer(testDB.DB)
	t.Cleanup(ts.Close)
	return ts
}

func TestRegisterAndLogin(t *testing.T) {
	ts := setupTest(t)
	client := ts.NewClient()

	username, email, password := TestAccount("reg")

	resp, err := ts.Request(client, http.MethodPost, "/api/auth/register", map[string]interface{}{
		"username": username,
		"email":    email,
		"password": password,
	})
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp, err = ts.Login(client, username, password)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var loginResp struct {
		Success  bool   `json:"success"`
		Token    string `json:"token"`
		Username string `json:"username"`
	}
	require.NoError(t, ParseJSONResponse(resp, &loginResp))
	assert.True(t, loginResp.Success)
	assert.NotEmpty(t, loginResp.Token)
	assert.Equal(t, username, loginResp.Username)

	// The session cookie in the jar authenticates /api/auth/me
	resp, err = ts.Request(client, http.MethodGet, "/api/auth/me", nil)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
}

func TestLogin_WrongPassword(t *testing.T) {
	ts := setupTest(t)
	client := ts.NewClient()

	username, email, password := TestAccount("wrongpw")
	_, err := SeedUser(context.Background(), testDB.Pool, username, email, password, true)
	require.NoError(t, err)

	resp, err := ts.Login(client, username, "not-the-password")
	require.NoError(t, err)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	msg, err := GetErrorMessage(resp)
	require.NoError(t, err)
	assert.Equal(t, "Invalid username or password", msg)
}

func TestLogin_DisabledAccount(t *testing.T) {
	ts := setupTest(t)
	client := ts.NewClient()

	username, email, password := TestAccount("disabled")
	_, err := SeedUser(context.Background(), testDB.Pool, username, email, password, false)
	require.NoError(t, err)

	resp, err := ts.Login(client, username, password)
	require.NoError(t, err)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()
}

func TestTaskLifecycle(t *testing.T) {
	ts := setupTest(t)
	client := ts.NewClient()
	ctx := context.Background()

	username, email, password := TestAccount("tasks")
	user, err := SeedUser(ctx, testDB.Pool, username, email, password, true)
	require.NoError(t, err)

	tagID, err := SeedTag(ctx, testDB.Pool, user.ID, "work", "#FF0000")
	require.NoError(t, err)

	resp, err := ts.Login(client, username, password)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	// Create
	resp, err = ts.Request(client, http.MethodPost, "/api/tasks", map[string]interface{}{
		"title":       "Write report",
		"description": "Quarterly numbers",
		"status":      "TODO",
		"tagIds":      []string{tagID},
	})
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created struct {
		ID     string `json:"id"`
		Title  string `json:"title"`
		Status string `json:"status"`
		Tags   []struct {
			ID   string `json:"id"`
			Name string `json:"name"`
		} `json:"tags"`
	}
	require.NoError(t, ParseJSONResponse(resp, &created))
	assert.Equal(t, "Write report", created.Title)
	assert.Equal(t, "TODO", created.Status)
	require.Len(t, created.Tags, 1)
	assert.Equal(t, "work", created.Tags[0].Name)

	// Update
	resp, err = ts.Request(client, http.MethodPut, "/api/tasks/"+created.ID, map[string]interface{}{
		"title":  "Write report",
		"status": "DONE",
	})
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var updated struct {
		Status string `json:"status"`
	}
	require.NoError(t, ParseJSONResponse(resp, &updated))
	assert.Equal(t, "DONE", updated.Status)

	// List
	resp, err = ts.Request(client, http.MethodGet, "/api/tasks", nil)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var list []struct {
		ID string `json:"id"`
	}
	require.NoError(t, ParseJSONResponse(resp, &list))
	require.Len(t, list, 1)

	// Delete
	resp, err = ts.Request(client, http.MethodDelete, "/api/tasks/"+created.ID, nil)
	require.NoError(t, err)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()

	resp, err = ts.Request(client, http.MethodGet, "/api/tasks/"+created.ID, nil)
	require.NoError(t, err)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestTaskIsolationBetweenUsers(t *testing.T) {
	ts := setupTest(t)
	ctx := context.Background()

	aliceName, aliceEmail, alicePassword := TestAccount("alice")
	alice, err := SeedUser(ctx, testDB.Pool, aliceName, aliceEmail, alicePassword, true)
	require.NoError(t, err)

	bobName, bobEmail, bobPassword := TestAccount("bob")
	_, err = SeedUser(ctx, testDB.Pool, bobName, bobEmail, bobPassword, true)
	require.NoError(t, err)

	taskID, err := SeedTask(ctx, testDB.Pool, alice.ID, "Private task", "TODO")
	require.NoError(t, err)

	bobClient := ts.NewClient()
	resp, err := ts.Login(bobClient, bobName, bobPassword)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	// Another user's task is indistinguishable from a missing one
	resp, err = ts.Request(bobClient, http.MethodGet, "/api/tasks/"+taskID, nil)
	require.NoError(t, err)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	resp, err = ts.Request(bobClient, http.MethodGet, "/api/tasks", nil)
	require.NoError(t, err)

	var list []struct {
		ID string `json:"id"`
	}
	require.NoError(t, ParseJSONResponse(resp, &list))
	assert.Empty(t, list)
}

func TestTagUniquenessPerUser(t *testing.T) {
	ts := setupTest(t)
	client := ts.NewClient()
	ctx := context.Background()

	username, email, password := TestAccount("tags")
	user, err := SeedUser(ctx, testDB.Pool, username, email, password, true)
	require.NoError(t, err)

	_, err = SeedTag(ctx, testDB.Pool, user.ID, "urgent", "#FF0000")
	require.NoError(t, err)

	resp, err := ts.Login(client, username, password)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp, err = ts.Request(client, http.MethodPost, "/api/tags", map[string]interface{}{
		"name": "urgent",
	})
	require.NoError(t, err)
	require.Equal(t, http.StatusConflict, resp.StatusCode)

	msg, err := GetErrorMessage(resp)
	require.NoError(t, err)
	assert.Equal(t, "Tag with this name already exists", msg)
}

func TestTagSearchMatchesLiteralMetacharacters(t *testing.T) {
	ts := setupTest(t)
	client := ts.NewClient()
	ctx := context.Background()

	username, email, password := TestAccount("search")
	user, err := SeedUser(ctx, testDB.Pool, username, email, password, true)
	require.NoError(t, err)

	_, err = SeedTag(ctx, testDB.Pool, user.ID, "100% done", "#00FF00")
	require.NoError(t, err)
	_, err = SeedTag(ctx, testDB.Pool, user.ID, "urgent", "#FF0000")
	require.NoError(t, err)

	resp, err := ts.Login(client, username, password)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	// "%" must match itself, not act as a wildcard
	resp, err = ts.Request(client, http.MethodGet, "/api/tags/search?q="+url.QueryEscape("100%"), nil)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var found []struct {
		Name string `json:"name"`
	}
	require.NoError(t, ParseJSONResponse(resp, &found))
	require.Len(t, found, 1)
	assert.Equal(t, "100% done", found[0].Name)
}

func TestTagDeleteDetachesFromTasks(t *testing.T) {
	ts := setupTest(t)
	client := ts.NewClient()
	ctx := context.Background()

	username, email, password := TestAccount("detach")
	user, err := SeedUser(ctx, testDB.Pool, username, email, password, true)
	require.NoError(t, err)

	tagID, err := SeedTag(ctx, testDB.Pool, user.ID, "old", "#00FF00")
	require.NoError(t, err)
	taskID, err := SeedTask(ctx, testDB.Pool, user.ID, "Tagged task", "TODO")
	require.NoError(t, err)
	require.NoError(t, SeedTaskTag(ctx, testDB.Pool, taskID, tagID))

	resp, err := ts.Login(client, username, password)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp, err = ts.Request(client, http.MethodDelete, "/api/tags/"+tagID, nil)
	require.NoError(t, err)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()

	// The task survives with an empty tag set
	resp, err = ts.Request(client, http.MethodGet, "/api/tasks/"+taskID, nil)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var task struct {
		ID   string        `json:"id"`
		Tags []interface{} `json:"tags"`
	}
	require.NoError(t, ParseJSONResponse(resp, &task))
	assert.Equal(t, taskID, task.ID)
	assert.Empty(t, task.Tags)
}

func TestAdminEndpointsRequireAdminRole(t *testing.T) {
	ts := setupTest(t)
	ctx := context.Background()

	username, email, password := TestAccount("plain")
	_, err := SeedUser(ctx, testDB.Pool, username, email, password, true)
	require.NoError(t, err)

	adminName, adminEmail, adminPassword := TestAccount("admin")
	_, err = SeedAdmin(ctx, testDB.Pool, adminName, adminEmail, adminPassword)
	require.NoError(t, err)

	userClient := ts.NewClient()
	resp, err := ts.Login(userClient, username, password)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp, err = ts.Request(userClient, http.MethodGet, "/api/admin/users", nil)
	require.NoError(t, err)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	adminClient := ts.NewClient()
	resp, err = ts.Login(adminClient, adminName, adminPassword)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp, err = ts.Request(adminClient, http.MethodGet, "/api/admin/users", nil)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var users []struct {
		Username string `json:"username"`
	}
	require.NoError(t, ParseJSONResponse(resp, &users))
	assert.Len(t, users, 2)
}

func TestAdminDisableRevokesLiveSessions(t *testing.T) {
	ts := setupTest(t)
	ctx := context.Background()

	username, email, password := TestAccount("victim")
	user, err := SeedUser(ctx, testDB.Pool, username, email, password, true)
	require.NoError(t, err)

	adminName, adminEmail, adminPassword := TestAccount("revoker")
	_, err = SeedAdmin(ctx, testDB.Pool, adminName, adminEmail, adminPassword)
	require.NoError(t, err)

	userClient := ts.NewClient()
	resp, err := ts.Login(userClient, username, password)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	adminClient := ts.NewClient()
	resp, err = ts.Login(adminClient, adminName, adminPassword)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	sessionsBefore := ts.Sessions.ActiveCount()
	require.Equal(t, 2, sessionsBefore)

	resp, err = ts.Request(adminClient, http.MethodPut, "/api/admin/users/"+user.ID+"/enable", nil)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var toggled struct {
		Enabled bool `json:"enabled"`
	}
	require.NoError(t, ParseJSONResponse(resp, &toggled))
	require.False(t, toggled.Enabled)

	// The victim's session is gone before their next request
	assert.Equal(t, 1, ts.Sessions.ActiveCount())

	resp, err = ts.Request(userClient, http.MethodGet, "/api/tasks", nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()
}

func TestUnauthenticatedRequestsRejected(t *testing.T) {
	ts := setupTest(t)
	client := ts.NewClient()

	for _, path := range []string{"/api/tasks", "/api/tags", "/api/profile", "/api/auth/me"} {
		resp, err := ts.Request(client, http.MethodGet, path, nil)
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, path)
		resp.Body.Close()
	}
}

func TestLogoutInvalidatesSession(t *testing.T) {
	ts := setupTest(t)
	client := ts.NewClient()
	ctx := context.Background()

	username, email, password := TestAccount("logout")
	_, err := SeedUser(ctx, testDB.Pool, username, email, password, true)
	require.NoError(t, err)

	resp, err := ts.Login(client, username, password)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp, err = ts.Request(client, http.MethodPost, "/api/auth/logout", nil)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp, err = ts.Request(client, http.MethodGet, "/api/auth/me", nil)
	require.NoError(t, err)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()
}
