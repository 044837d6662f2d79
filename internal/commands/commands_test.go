package commands

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"testing"

	"subcon/internal/config"
	"subcon/internal/logging"
	"subcon/internal/models"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAPI records requests made against the two subscription endpoints
type fakeAPI struct {
	mu            sync.Mutex
	statusUsers   []string
	updateBodies  []map[string]string
	statusHandler func(w http.ResponseWriter, userID string)
	updateHandler func(w http.ResponseWriter)
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case "/api/subscription-status":
		userID := r.URL.Query().Get("userId")
		f.mu.Lock()
		f.statusUsers = append(f.statusUsers, userID)
		f.mu.Unlock()
		if f.statusHandler != nil {
			f.statusHandler(w, userID)
			return
		}
		_, _ = io.WriteString(w, `{"subscription":{"plan":"free"}}`)
	case "/api/update-subscription":
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		f.mu.Lock()
		f.updateBodies = append(f.updateBodies, body)
		f.mu.Unlock()
		if f.updateHandler != nil {
			f.updateHandler(w)
			return
		}
		_, _ = io.WriteString(w, `{"subscription":{"plan":"`+body["newPlan"]+`"}}`)
	default:
		http.NotFound(w, r)
	}
}

func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, child := range cmd.Commands() {
		resetFlags(child)
	}
}

func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())

	globalConfig = config.Default()
	logger = logging.Discard()
	resetFlags(rootCmd)

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(args)

	err := rootCmd.Execute()
	return buf.String(), err
}

func startFakeAPI(t *testing.T, f *fakeAPI) string {
	t.Helper()
	server := httptest.NewServer(f)
	t.Cleanup(server.Close)
	return server.URL
}

func TestStatusCommand_SingleUser(t *testing.T) {
	f := &fakeAPI{}
	url := startFakeAPI(t, f)

	out, err := executeCommand(t, "status", "USER_001", "--server-url", url)
	require.NoError(t, err)

	assert.Equal(t, []string{"USER_001"}, f.statusUsers)
	assert.Contains(t, out, "✓ USER_001")
	assert.Contains(t, out, `"plan": "free"`)
}

func TestStatusCommand_DefaultUser(t *testing.T) {
	f := &fakeAPI{}
	url := startFakeAPI(t, f)

	_, err := executeCommand(t, "status", "--server-url", url)
	require.NoError(t, err)
	assert.Equal(t, []string{config.DefaultUserID}, f.statusUsers)
}

func TestStatusCommand_ReportsFailuresInOrder(t *testing.T) {
	f := &fakeAPI{
		statusHandler: func(w http.ResponseWriter, userID string) {
			if userID == "MISSING" {
				w.WriteHeader(http.StatusNotFound)
				_, _ = io.WriteString(w, `{"message":"user not found"}`)
				return
			}
			_, _ = io.WriteString(w, `{"subscription":{"plan":"free"}}`)
		},
	}
	url := startFakeAPI(t, f)

	out, err := executeCommand(t, "status", "USER_001", "MISSING", "USER_002", "--server-url", url)
	require.Error(t, err)
	assert.Equal(t, "1 of 3 lookups failed", err.Error())

	assert.ElementsMatch(t, []string{"USER_001", "MISSING", "USER_002"}, f.statusUsers)
	first := strings.Index(out, "USER_001")
	missing := strings.Index(out, "✗ MISSING: Error: user not found")
	last := strings.Index(out, "USER_002")
	require.True(t, first >= 0 && missing >= 0 && last >= 0, out)
	assert.True(t, first < missing && missing < last)
}

func TestUpdateCommand_MissingFieldsSkipsNetwork(t *testing.T) {
	f := &fakeAPI{}
	url := startFakeAPI(t, f)

	_, err := executeCommand(t, "update", "--user", "", "--server-url", url)
	assert.ErrorIs(t, err, models.ErrMissingFields)

	_, err = executeCommand(t, "update", "--plan", "", "--server-url", url)
	assert.ErrorIs(t, err, models.ErrMissingFields)

	_, err = executeCommand(t, "update", "--effective", " ", "--server-url", url)
	assert.ErrorIs(t, err, models.ErrMissingFields)

	assert.Empty(t, f.updateBodies)
	assert.Empty(t, f.statusUsers)
}

func TestUpdateCommand_InvalidPlan(t *testing.T) {
	f := &fakeAPI{}
	url := startFakeAPI(t, f)

	_, err := executeCommand(t, "update", "--plan", "weekly", "--server-url", url)
	assert.ErrorIs(t, err, models.ErrInvalidPlan)
	assert.Empty(t, f.updateBodies)
}

func TestUpdateCommand_SuccessRefreshesOnce(t *testing.T) {
	f := &fakeAPI{}
	url := startFakeAPI(t, f)

	out, err := executeCommand(t, "update",
		"--user", "USER_042",
		"--plan", "annual_spiritual",
		"--effective", "2024-01-01T10:00:00+02:00",
		"--server-url", url,
	)
	require.NoError(t, err)

	require.Len(t, f.updateBodies, 1)
	assert.Equal(t, map[string]string{
		"userId":        "USER_042",
		"newPlan":       "annual_spiritual",
		"effectiveDate": "2024-01-01T08:00:00.000Z",
	}, f.updateBodies[0])
	assert.Equal(t, []string{"USER_042"}, f.statusUsers)
	assert.Contains(t, out, "Subscription updated successfully!")
	assert.Contains(t, out, "✓ USER_042")
}

func TestUpdateCommand_NoRefresh(t *testing.T) {
	f := &fakeAPI{}
	url := startFakeAPI(t, f)

	_, err := executeCommand(t, "update", "--plan", "free", "--no-refresh", "--server-url", url)
	require.NoError(t, err)
	assert.Len(t, f.updateBodies, 1)
	assert.Empty(t, f.statusUsers)
}

func TestUpdateCommand_JoinsServerMessages(t *testing.T) {
	f := &fakeAPI{
		updateHandler: func(w http.ResponseWriter) {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = io.WriteString(w, `{"message":["bad date","bad plan"]}`)
		},
	}
	url := startFakeAPI(t, f)

	_, err := executeCommand(t, "update", "--server-url", url)
	require.Error(t, err)
	assert.Equal(t, "Error updating subscription: bad date, bad plan", err.Error())
	assert.Empty(t, f.statusUsers)
}

func TestPlansCommand(t *testing.T) {
	out, err := executeCommand(t, "plans")
	require.NoError(t, err)

	for _, plan := range models.Plans {
		assert.Contains(t, out, string(plan))
		assert.Contains(t, out, plan.Label())
	}
}

func TestConfigSetAndGet(t *testing.T) {
	home := t.TempDir()

	run := func(args ...string) string {
		t.Setenv("HOME", home)
		globalConfig = config.Default()
		logger = logging.Discard()
		resetFlags(rootCmd)

		var buf bytes.Buffer
		rootCmd.SetOut(&buf)
		rootCmd.SetArgs(args)
		require.NoError(t, rootCmd.Execute())
		return buf.String()
	}

	out := run("config", "set", "--server-url", "http://localhost:9999", "--message-ttl", "2s")
	assert.Contains(t, out, "Configuration updated successfully.")

	assert.Equal(t, "http://localhost:9999\n", run("config", "get", "server-url"))
	assert.Equal(t, "2s\n", run("config", "get", "message-ttl"))

	out = run("config", "set")
	assert.Contains(t, out, "No changes were made")

	out = run("config", "paths")
	assert.Contains(t, out, "- Config file: Exists")
}

func TestConfigSet_DoesNotPersistEnvOverrides(t *testing.T) {
	t.Setenv("SUBCON_DEFAULT_USER_ID", "ENV_USER")
	t.Setenv("SUBCON_MESSAGE_TTL", "9s")

	out, err := executeCommand(t, "config", "set", "--server-url", "http://localhost:7000")
	require.NoError(t, err)
	assert.Contains(t, out, "Configuration updated successfully.")

	path, err := config.GetGlobalConfigPath()
	require.NoError(t, err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)

	assert.Contains(t, string(data), "http://localhost:7000")
	assert.Contains(t, string(data), config.DefaultUserID)
	assert.NotContains(t, string(data), "ENV_USER")
	assert.NotContains(t, string(data), "9s")
}

func TestConfigGet_UnknownKey(t *testing.T) {
	_, err := executeCommand(t, "config", "get", "colour")
	assert.Error(t, err)
}
