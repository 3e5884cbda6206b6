package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"go-wigstore-api/internal/config"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		DBDriver:      "sqlite",
		DatabaseURL:   filepath.Join(t.TempDir(), "store.db"),
		AdminEmail:    "admin@example.com",
		AdminPassword: "admin123",
	}
}

func run(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

const products = `[
  {"name": "Body Wave 20", "description": "Brazilian body wave", "price": "120", "sku": "BW-20", "category_id": "cat_human_hair", "stock": 4},
  {"name": "Body Wave 20", "description": "Same name, new sku", "price": "125", "sku": "BW-20B", "category_id": "cat_human_hair", "stock": 2},
  {"name": "Mystery", "description": "No such category", "price": "10", "sku": "MY-1", "category_id": "cat_nope"}
]`

func TestImportIsRepeatable(t *testing.T) {
	cfg := testConfig(t)
	file := filepath.Join(t.TempDir(), "products.json")
	require.NoError(t, os.WriteFile(file, []byte(products), 0o600))

	out, err := run(t, newImportCommand(cfg), "--file", file)
	require.NoError(t, err)
	assert.Contains(t, out, "created 2, skipped 0, failed 1")
	assert.Contains(t, out, "MY-1")

	out, err = run(t, newImportCommand(cfg), "--file", file)
	require.NoError(t, err)
	assert.Contains(t, out, "created 0, skipped 2, failed 1")
}

func TestImportRejectsMalformedFile(t *testing.T) {
	cfg := testConfig(t)
	file := filepath.Join(t.TempDir(), "products.json")
	require.NoError(t, os.WriteFile(file, []byte(`{"not": "an array"}`), 0o600))

	_, err := run(t, newImportCommand(cfg), "--file", file)
	assert.Error(t, err)
}

func TestResetPasswordRequiresSeededUser(t *testing.T) {
	cfg := testConfig(t)

	_, err := run(t, newResetPasswordCommand(cfg), "--password", "n3w-secret")
	assert.Error(t, err, "admin does not exist before seeding")

	_, err = run(t, newSeedCommand(cfg))
	require.NoError(t, err)

	out, err := run(t, newResetPasswordCommand(cfg), "--password", "n3w-secret")
	require.NoError(t, err)
	assert.Contains(t, out, "admin@example.com")

	_, err = run(t, newResetPasswordCommand(cfg))
	assert.Error(t, err, "password flag is mandatory")
}

func TestCreateUserRefusesDuplicates(t *testing.T) {
	cfg := testConfig(t)

	out, err := run(t, newCreateUserCommand(cfg), "--email", "staff@example.com", "--password", "staff-pass", "--name", "Staff")
	require.NoError(t, err)
	assert.Contains(t, out, "STAFF")

	_, err = run(t, newCreateUserCommand(cfg), "--email", "staff@example.com", "--password", "staff-pass")
	assert.Error(t, err)
}
