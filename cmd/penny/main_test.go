package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/penny/internal/http/auth"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer

	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)

	err := cmd.Execute()

	return out.String(), err
}

func TestParseDate(t *testing.T) {
	out, err := run(t, "parse-date", "15th January 2023")
	require.NoError(t, err)
	assert.Equal(t, "2023-01-15\n", out)

	out, err = run(t, "parse-date", "05/06/2023", "--format", "m/d/Y")
	require.NoError(t, err)
	assert.Equal(t, "2023-05-06\n", out)

	_, err = run(t, "parse-date", "05/06/2023", "--format", "YYYY")
	assert.EqualError(t, err, `unknown date format "YYYY"`)

	_, err = run(t, "parse-date", "someday")
	assert.Error(t, err)
}

func TestInspect(t *testing.T) {
	path := filepath.Join(t.TempDir(), "statement.csv")
	content := "Date;Details;Amount;Balance\n15/01/2023;Coffee;-3,50;996,50\n16/01/2023;Salary;2000;2996,50\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	out, err := run(t, "inspect", path, "--rows", "1")
	require.NoError(t, err)

	assert.Contains(t, out, "1 Date")
	assert.Contains(t, out, "Coffee")
	assert.NotContains(t, out, "Salary")
	assert.Contains(t, out, "rows: 2")
	assert.Contains(t, out, `delimiter: ';'`)
	assert.Contains(t, out, "column 1 looks like dates in d/m/Y")
	assert.Contains(t, out, `header on line 1 matches "Signed amount": data from line 2, date 1, balance 4, amount 3, description 2`)
}

func TestInspect_MissingFile(t *testing.T) {
	_, err := run(t, "inspect", filepath.Join(t.TempDir(), "nope.csv"))
	assert.Error(t, err)
}

func TestToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "cli-secret")

	userID := uuid.New()

	out, err := run(t, "token", userID.String(), "--ttl", "1m")
	require.NoError(t, err)

	got, err := auth.Verify([]byte("cli-secret"), strings.TrimSpace(out))
	require.NoError(t, err)
	assert.Equal(t, userID, got)
}

func TestToken_NoSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := run(t, "token", uuid.NewString())
	assert.EqualError(t, err, "JWT_SECRET is not set")
}
