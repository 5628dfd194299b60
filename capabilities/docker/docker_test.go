package docker

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"envoyou/config"
)

func setupWorkspace(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	config.Set(&config.Config{
		Workspace: config.WorkspaceConfig{Path: dir},
		Audit:     config.AuditConfig{Enabled: false},
	})
	t.Cleanup(func() { config.Set(nil) })
	return dir
}

func TestCreateDockerfilePython(t *testing.T) {
	dir := setupWorkspace(t)

	tool := &CreateDockerfileTool{}
	result, err := tool.Execute(context.Background(), map[string]interface{}{
		"project_path": "myapp",
		"project_type": "python",
	})

	require.NoError(t, err)
	assert.Contains(t, result, "python")

	content, err := os.ReadFile(filepath.Join(dir, "myapp", "Dockerfile"))
	require.NoError(t, err)
	assert.Contains(t, string(content), "FROM python:3.9-slim")
	assert.Contains(t, string(content), "EXPOSE 8000")
}

func TestCreateDockerfileUnknownTypeFallsBack(t *testing.T) {
	dir := setupWorkspace(t)

	tool := &CreateDockerfileTool{}
	result, err := tool.Execute(context.Background(), map[string]interface{}{
		"project_path": "mystery",
		"project_type": "cobol",
	})

	require.NoError(t, err)
	assert.Contains(t, result, "default")

	content, err := os.ReadFile(filepath.Join(dir, "mystery", "Dockerfile"))
	require.NoError(t, err)
	assert.Contains(t, string(content), "FROM alpine:latest")
}

func TestCreateDockerfileOutsideWorkspace(t *testing.T) {
	setupWorkspace(t)

	tool := &CreateDockerfileTool{}
	_, err := tool.Execute(context.Background(), map[string]interface{}{
		"project_path": "../escape",
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "outside workspace")
}

func TestBuildImageDeniedWithoutGate(t *testing.T) {
	setupWorkspace(t)

	tool := &BuildImageTool{}
	result, err := tool.Execute(context.Background(), map[string]interface{}{
		"project_path": "myapp",
	})

	require.NoError(t, err)
	assert.Contains(t, result, `"cancelled": true`)
}

func TestBuildImageValidate(t *testing.T) {
	tool := &BuildImageTool{}
	assert.Error(t, tool.Validate(map[string]interface{}{}))
	assert.NoError(t, tool.Validate(map[string]interface{}{"project_path": "x"}))
}
