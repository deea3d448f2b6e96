package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("STORAGE_DRIVER", "memory")
	t.Setenv("SEQUENCE_BACKEND", "memory")

	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append(args, "--log-level", "error"))
	err := cmd.Execute()
	return stdout.String(), err
}

func TestNextNumberPrintsFormattedNumber(t *testing.T) {
	out, err := runCLI(t, "next-number", "--company", "acme", "--type", "invoice")

	require.NoError(t, err)
	assert.Regexp(t, `^INV-\d{8}-001\n$`, out)
}

func TestNextNumberRejectsUnknownType(t *testing.T) {
	_, err := runCLI(t, "next-number", "--company", "acme", "--type", "quote")

	assert.ErrorContains(t, err, "unknown document type")
}

func TestVerifyRequiresExactlyOneScope(t *testing.T) {
	_, err := runCLI(t, "verify")
	assert.Error(t, err)

	_, err = runCLI(t, "verify", "--company", "acme", "--account", "a-1")
	assert.Error(t, err)
}

func TestVerifyEmptyCompany(t *testing.T) {
	out, err := runCLI(t, "verify", "--company", "acme")

	require.NoError(t, err)
	assert.Contains(t, out, "ACCOUNT")
}

func TestResetSequenceNeedsConfirmation(t *testing.T) {
	_, err := runCLI(t, "reset-sequence", "--company", "acme", "--type", "receipt", "--date", "20250314", "--value", "3")
	assert.ErrorContains(t, err, "--yes")

	_, err = runCLI(t, "reset-sequence", "--company", "acme", "--type", "receipt", "--date", "20250314", "--value", "3", "--yes")
	assert.NoError(t, err)
}

func TestMigrateRequiresPostgres(t *testing.T) {
	_, err := runCLI(t, "migrate")

	assert.ErrorContains(t, err, "STORAGE_DRIVER")
}
