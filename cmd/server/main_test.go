package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medilingo/internal/assistant"
	"medilingo/pkg/logging"
)

func headacheReply(t *testing.T, svc assistant.Service) string {
	t.Helper()
	return svc.ProcessUserInput(context.Background(), "I have a headache", "en").Response
}

func TestReloadKnowledge(t *testing.T) {
	k, err := assistant.DefaultKnowledge()
	require.NoError(t, err)
	svc, err := assistant.NewService(k, nil, logging.Discard(), nil)
	require.NoError(t, err)
	assert.Contains(t, headacheReply(t, svc), "Headaches can have various causes.")

	data, err := os.ReadFile(filepath.Join("..", "..", "internal", "assistant", "knowledge.yaml"))
	require.NoError(t, err)
	edited := strings.Replace(string(data), "Headaches can have various causes.", "Edited headache advice.", 1)
	dir := t.TempDir()
	good := filepath.Join(dir, "knowledge.yaml")
	require.NoError(t, os.WriteFile(good, []byte(edited), 0o600))

	require.NoError(t, reloadKnowledge(svc, good, logging.Discard()))
	assert.Contains(t, headacheReply(t, svc), "Edited headache advice.")

	bad := filepath.Join(dir, "broken.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("templates: [unterminated"), 0o600))
	assert.Error(t, reloadKnowledge(svc, bad, logging.Discard()))
	assert.Error(t, reloadKnowledge(svc, filepath.Join(dir, "missing.yaml"), logging.Discard()))
	assert.Contains(t, headacheReply(t, svc), "Edited headache advice.", "failed reload keeps current tables")

	require.NoError(t, reloadKnowledge(svc, "", logging.Discard()))
	assert.Contains(t, headacheReply(t, svc), "Headaches can have various causes.")
}
