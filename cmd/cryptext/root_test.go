package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// run executes the CLI with in-memory IO.
func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append(args, "--iterations", "10000", "--log-level", "disabled"))

	err := cmd.Execute()
	return out.String(), err
}

func TestCLI_AESRoundTrip(t *testing.T) {
	t.Setenv("CRYPTEXT_PASSWORD", "")

	encoded, err := run(t, "", "encode", "-p", "hunter2", "attack", "at", "dawn")
	require.NoError(t, err)
	encoded = strings.TrimSpace(encoded)
	require.NotEmpty(t, encoded)

	decoded, err := run(t, encoded+"\n", "decode", "--password", "hunter2")
	require.NoError(t, err)
	assert.Equal(t, "attack at dawn\n", decoded)
}

func TestCLI_PasswordFromEnv(t *testing.T) {
	t.Setenv("CRYPTEXT_PASSWORD", "from-env")

	encoded, err := run(t, "", "encode", "secret")
	require.NoError(t, err)

	decoded, err := run(t, "", "decode", strings.TrimSpace(encoded))
	require.NoError(t, err)
	assert.Equal(t, "secret\n", decoded)

	_, err = run(t, "", "decode", "-p", "other", strings.TrimSpace(encoded))
	assert.ErrorIs(t, err, errDecryptFailed, "the flag wins over the environment")
}

func TestCLI_Base64(t *testing.T) {
	out, err := run(t, "", "encode", "-m", "base64", "Hello")
	require.NoError(t, err)
	assert.Equal(t, "SGVsbG8=\n", out)

	out, err = run(t, "hi\n", "encode", "-m", "BASE64")
	require.NoError(t, err)
	assert.Equal(t, "aGk=\n", out, "piped newline is not encoded")

	out, err = run(t, "", "decode", "-m", "base64", "SGVsbG8=")
	require.NoError(t, err)
	assert.Equal(t, "Hello\n", out)

	_, err = run(t, "", "decode", "-m", "base64", "not base64!")
	assert.ErrorIs(t, err, errDecryptFailed)
}

func TestCLI_DecodeErrors(t *testing.T) {
	t.Setenv("CRYPTEXT_PASSWORD", "")

	encoded, err := run(t, "", "encode", "-p", "right", "payload")
	require.NoError(t, err)
	encoded = strings.TrimSpace(encoded)

	_, err = run(t, "", "decode", "-p", "wrong", encoded)
	assert.ErrorIs(t, err, errDecryptFailed)

	_, err = run(t, "", "decode", encoded)
	assert.ErrorIs(t, err, errPasswordRequired)
}

func TestCLI_EmptyInputPrintsNothing(t *testing.T) {
	out, err := run(t, "", "encode", "-p", "pw")
	require.NoError(t, err)
	assert.Empty(t, out)

	out, err = run(t, "   \n", "decode", "-p", "pw")
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestCLI_InvalidOptions(t *testing.T) {
	_, err := run(t, "", "encode", "-m", "rot13", "x")
	assert.ErrorContains(t, err, "rot13")

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"encode", "--iterations", "5", "x"})
	assert.ErrorContains(t, cmd.Execute(), "iterations must be at least")
}

func TestCLI_NonUTF8StdinRoundTrips(t *testing.T) {
	t.Setenv("CRYPTEXT_PASSWORD", "")
	raw := "caf\xe9"

	out, err := run(t, raw, "encode", "-m", "base64")
	require.NoError(t, err)
	assert.Equal(t, "Y2Fm6Q==\n", out)

	out, err = run(t, "", "decode", "-m", "base64", "Y2Fm6Q==")
	require.NoError(t, err)
	assert.Equal(t, raw+"\n", out)

	encoded, err := run(t, raw, "encode", "-p", "pw")
	require.NoError(t, err)
	out, err = run(t, encoded, "decode", "-p", "pw")
	require.NoError(t, err)
	assert.Equal(t, raw+"\n", out)
}
