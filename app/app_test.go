package app

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoBazaar/GoBazaar/internal/access"
	"github.com/GoBazaar/GoBazaar/internal/config"
)

func run(t *testing.T, args ...string) string {
	t.Helper()

	var out bytes.Buffer

	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append([]string{"--config", "../etc/"}, args...))

	require.NoError(t, Execute(), out.String())

	return out.String()
}

func useTempDB(t *testing.T) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "cli.db")
	t.Setenv(config.EnvConfigJSON, fmt.Sprintf(`{"DB":{"Path":%q},"Log":{"Console":{"Enabled":false}}}`, path))
}

func TestAccessCommand(t *testing.T) {
	lines := strings.Fields(run(t, "access"))
	require.Len(t, lines, len(access.All()))
	assert.Equal(t, string(access.ReadAccess), lines[0])
}

func TestConfigCommand(t *testing.T) {
	useTempDB(t)

	out := run(t, "config", "--json")
	assert.Contains(t, out, `"Title": "GoBazaar"`)
	assert.Contains(t, out, "cli.db")
}

func TestRoleCommands(t *testing.T) {
	useTempDB(t)

	created := strings.Fields(run(t, "role", "create", "editors", "createBrand"))
	require.Len(t, created, 3)
	id := created[0]
	assert.Equal(t, "editors", created[1])
	assert.Equal(t, "readAccess,createBrand", created[2])

	granted := strings.Fields(run(t, "role", "grant", id, "deleteBrand"))
	assert.Equal(t, "readAccess,createBrand,deleteBrand", granted[2])

	revoked := strings.Fields(run(t, "role", "revoke", id, "createBrand", "deleteBrand"))
	require.Len(t, revoked, 2, "an empty access set prints no third column")

	renamed := strings.Fields(run(t, "role", "rename", id, "writers"))
	assert.Equal(t, "writers", renamed[1])

	listed := run(t, "role", "list")
	assert.Contains(t, listed, "writers")

	assert.Contains(t, run(t, "role", "delete", id), "deleted writers")
	assert.NotContains(t, run(t, "role", "list"), "writers")
}
