package docker

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"envoyou/config"
	"envoyou/core/registry"
	. "envoyou/core/types"
)

// gateToolName is the identifier docker operations present to the
// confirmation gate.
const gateToolName = "DockerBuilderTool"

// dockerfileTemplates maps a project type to a starter Dockerfile.
var dockerfileTemplates = map[string]string{
	"react": `FROM node:18-alpine
WORKDIR /app
COPY package*.json ./
RUN npm install
COPY . .
EXPOSE 3000
CMD ["npm", "start"]`,
	"nodejs": `FROM node:18-alpine
WORKDIR /app
COPY package*.json ./
RUN npm install
COPY . .
EXPOSE 3000
CMD ["npm", "start"]`,
	"python": `FROM python:3.9-slim
WORKDIR /app
COPY requirements.txt .
RUN pip install -r requirements.txt
COPY . .
EXPOSE 8000
CMD ["python", "app.py"]`,
	"go": `FROM golang:1.24-alpine AS build
WORKDIR /src
COPY go.mod go.sum ./
RUN go mod download
COPY . .
RUN go build -o /app .

FROM alpine:latest
COPY --from=build /app /app
EXPOSE 8080
CMD ["/app"]`,
	"default": `FROM alpine:latest
WORKDIR /app
COPY . .
EXPOSE 8000
CMD ["sh"]`,
}

type CreateDockerfileTool struct{}

func (t *CreateDockerfileTool) Metadata() ToolMetadata {
	return ToolMetadata{
		Name:            "create_dockerfile",
		Description:     "Create a starter Dockerfile for a project (react, nodejs, python, go)",
		Category:        CategoryDocker,
		RiskLevel:       RiskModerate,
		RequiresConfirm: false,
		Enabled:         true,
		Parameters: []Parameter{
			{
				Name:        "project_path",
				Type:        "string",
				Required:    true,
				Description: "project directory relative to workspace",
				Example:     "myapp",
			},
			{
				Name:        "project_type",
				Type:        "string",
				Required:    false,
				Description: "react, nodejs, python, or go (anything else gets a minimal image)",
				Default:     "default",
			},
		},
		Examples: []string{
			`{"tool": "create_dockerfile", "arguments": {"project_path": "myapp", "project_type": "python"}}`,
		},
	}
}

func (t *CreateDockerfileTool) Validate(args map[string]interface{}) error {
	path, ok := args["project_path"].(string)
	if !ok || path == "" {
		return fmt.Errorf("project_path parameter is required")
	}
	return nil
}

func (t *CreateDockerfileTool) Execute(ctx context.Context, args map[string]interface{}) (string, error) {
	projectPath, _ := args["project_path"].(string)
	projectType, _ := args["project_type"].(string)

	template, ok := dockerfileTemplates[strings.ToLower(projectType)]
	if !ok {
		template = dockerfileTemplates["default"]
		projectType = "default"
	}

	workspace := config.GetWorkspacePath()
	dir := projectPath
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(workspace, projectPath)
	}
	if !strings.HasPrefix(filepath.Clean(dir), workspace) {
		return "", fmt.Errorf("access denied: path outside workspace")
	}

	dockerfilePath := filepath.Join(dir, "Dockerfile")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("error creating project directory: %w", err)
	}
	if err := os.WriteFile(dockerfilePath, []byte(template+"\n"), 0644); err != nil {
		return "", fmt.Errorf("error writing Dockerfile: %w", err)
	}

	return fmt.Sprintf("Created %s Dockerfile at %s", projectType, dockerfilePath), nil
}

func init() {
	registry.Register(&CreateDockerfileTool{})
}
