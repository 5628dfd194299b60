package packages

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInstallDependenciesValidate(t *testing.T) {
	tool := &InstallDependenciesTool{}

	assert.Error(t, tool.Validate(map[string]interface{}{}))
	assert.Error(t, tool.Validate(map[string]interface{}{
		"project_path": "app", "package_manager": "cargo",
	}))
	assert.NoError(t, tool.Validate(map[string]interface{}{"project_path": "app"}))
	assert.NoError(t, tool.Validate(map[string]interface{}{
		"project_path": "app", "package_manager": "pip",
	}))
}

func TestAddDependencyValidate(t *testing.T) {
	tool := &AddDependencyTool{}

	assert.Error(t, tool.Validate(map[string]interface{}{"project_path": "app"}))
	assert.Error(t, tool.Validate(map[string]interface{}{
		"project_path": "app", "dependency": "express; rm -rf /",
	}))
	assert.NoError(t, tool.Validate(map[string]interface{}{
		"project_path": "app", "dependency": "express@4",
	}))
}
