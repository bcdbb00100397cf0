package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spigell/skanjo/internal/mockserver"
	"github.com/spigell/skanjo/internal/usage"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	out := &bytes.Buffer{}
	rootCmd.SetOut(out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(args)

	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestCommandsAgainstMockBackend(t *testing.T) {
	srv := httptest.NewServer(mockserver.New(mockserver.Options{
		AdminUsername: "admin",
		AdminPassword: "s3cret",
	}).Handler())
	t.Cleanup(srv.Close)

	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("SKANJO_API_BASE_URL", srv.URL)
	t.Setenv("SKANJO_SESSION_BACKEND", BackendFile)
	t.Setenv("SKANJO_SESSION_DIR", filepath.Join(dir, "session"))
	t.Setenv("SKANJO_ADMIN_USERNAME", "admin")
	t.Setenv("SKANJO_ADMIN_PASSWORD", "s3cret")

	passwordFile := filepath.Join(dir, "password")
	require.NoError(t, os.WriteFile(passwordFile, []byte("hunter22\n"), 0o600))

	out, err := execute(t, "register",
		"--name", "Jane Doe",
		"--email", "jane@acme.com",
		"--phone", "+15550100200",
		"--company", "Acme",
		"--position", "CTO",
		"--password-file", passwordFile,
	)
	require.NoError(t, err)
	assert.Contains(t, out, "Welcome, Jane Doe!")

	out, err = execute(t, "whoami")
	require.NoError(t, err)
	assert.Contains(t, out, "jane@acme.com")
	assert.Contains(t, out, "sk_")
	assert.Contains(t, out, "…", "the api key is masked by default")

	out, err = execute(t, "keys", "feature", "--plan", "Professional", "--scopes", "analyze,match")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "fk_"), out)

	_, err = execute(t, "keys", "feature", "--plan", "gold")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown plan "gold"`)

	out, err = execute(t, "analytics", "--output-json")
	require.NoError(t, err)
	var summary usage.Summary
	require.NoError(t, json.Unmarshal([]byte(out), &summary))
	assert.Equal(t, 1, summary.Calls)
	require.Len(t, summary.Endpoints, 1)
	assert.Equal(t, "/create-feature-key", summary.Endpoints[0].Endpoint)

	out, err = execute(t, "keys", "api", "--email", "client@acme.com")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "sk_"), out)

	out, err = execute(t, "logout")
	require.NoError(t, err)
	assert.Contains(t, out, "Logged out.")

	_, err = execute(t, "whoami")
	require.ErrorIs(t, err, errNotLoggedIn)

	out, err = execute(t, "login", "--email", "JANE@acme.com", "--password-file", passwordFile)
	require.NoError(t, err)
	assert.Contains(t, out, "Logged in as Jane Doe <jane@acme.com>.")

	out, err = execute(t, "plans")
	require.NoError(t, err)
	assert.Contains(t, out, "Professional (professional) $29/month")
	assert.Contains(t, out, "Starter (starter) Free")
}

func TestCommandsReportBackendErrors(t *testing.T) {
	srv := httptest.NewServer(mockserver.New(mockserver.Options{}).Handler())
	t.Cleanup(srv.Close)

	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("SKANJO_API_BASE_URL", srv.URL)
	t.Setenv("SKANJO_SESSION_BACKEND", BackendMemory)

	passwordFile := filepath.Join(dir, "password")
	require.NoError(t, os.WriteFile(passwordFile, []byte("wrong-pass"), 0o600))

	_, err := execute(t, "login", "--email", "nobody@acme.com", "--password-file", passwordFile)
	require.Error(t, err)
	assert.Equal(t, "invalid credentials", err.Error())
}
