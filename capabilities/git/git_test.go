package git

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"envoyou/config"
	"envoyou/core/approval"
)

func TestParseGitStatus(t *testing.T) {
	tests := []struct {
		name      string
		output    string
		branch    string
		modified  []string
		staged    []string
		untracked []string
		clean     bool
	}{
		{
			name:   "clean working tree",
			output: "## main\n",
			branch: "main",
			clean:  true,
		},
		{
			name:     "modified files",
			output:   "## main\n M core/gate.go\n M config/config.go\n",
			branch:   "main",
			modified: []string{"core/gate.go", "config/config.go"},
		},
		{
			name:   "staged files",
			output: "## main\nM  README.md\nA  new_file.go\n",
			branch: "main",
			staged: []string{"README.md", "new_file.go"},
		},
		{
			name:      "untracked files",
			output:    "## feature-branch\n?? scratch.txt\n",
			branch:    "feature-branch",
			untracked: []string{"scratch.txt"},
		},
		{
			name:   "branch with upstream",
			output: "## main...origin/main\n",
			branch: "main",
			clean:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := parseGitStatus(tt.output)

			assert.Equal(t, tt.branch, result["branch"])
			assert.Equal(t, tt.clean, result["clean"])
			if tt.modified != nil {
				assert.Equal(t, tt.modified, result["modified"])
			}
			if tt.staged != nil {
				assert.Equal(t, tt.staged, result["staged"])
			}
			if tt.untracked != nil {
				assert.Equal(t, tt.untracked, result["untracked"])
			}
		})
	}
}

// initTestRepo creates a git repo with one commit in a temp dir.
func initTestRepo(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	mustGit(t, dir, "init")
	mustGit(t, dir, "config", "user.email", "test@example.com")
	mustGit(t, dir, "config", "user.name", "Test")

	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("# test\n"), 0644))
	mustGit(t, dir, "add", "-A")
	mustGit(t, dir, "commit", "-m", "initial commit")

	return dir
}

func mustGit(t *testing.T, dir string, args ...string) {
	t.Helper()
	out, err := RunGitCommandInDir(dir, args...)
	require.NoError(t, err, "git %v: %s", args, out)
}

func TestGitStatusExecute(t *testing.T) {
	dir := initTestRepo(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "new.txt"), []byte("x"), 0644))

	tool := &GitStatusTool{}
	result, err := tool.Execute(context.Background(), map[string]interface{}{"path": dir})

	require.NoError(t, err)
	assert.Contains(t, result, "new.txt")
	assert.Contains(t, result, `"clean": false`)
}

func TestGitLogExecute(t *testing.T) {
	dir := initTestRepo(t)

	tool := &GitLogTool{}
	result, err := tool.Execute(context.Background(), map[string]interface{}{"path": dir})

	require.NoError(t, err)
	assert.Contains(t, result, "initial commit")
}

func TestGitCommitExecute(t *testing.T) {
	dir := initTestRepo(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "change.txt"), []byte("y"), 0644))

	tool := &GitCommitTool{}
	result, err := tool.Execute(context.Background(), map[string]interface{}{
		"path":    dir,
		"message": "add change",
	})

	require.NoError(t, err)
	assert.Contains(t, result, "add change")
}

func TestGitBranchCreateAndDelete(t *testing.T) {
	config.Set(&config.Config{Audit: config.AuditConfig{Enabled: false}})
	t.Cleanup(func() { config.Set(nil) })

	dir := initTestRepo(t)
	tool := &GitBranchTool{}

	_, err := tool.Execute(context.Background(), map[string]interface{}{
		"path": dir, "action": "create", "branch": "feature/x",
	})
	require.NoError(t, err)

	mustGit(t, dir, "checkout", "-")

	// Deleting a non-protected branch needs no approval
	result, err := tool.Execute(context.Background(), map[string]interface{}{
		"path": dir, "action": "delete", "branch": "feature/x",
	})
	require.NoError(t, err)
	assert.Contains(t, result, "Deleted branch")
}

func TestGitBranchDeleteMainDeniedWithoutGate(t *testing.T) {
	config.Set(&config.Config{Audit: config.AuditConfig{Enabled: false}})
	t.Cleanup(func() { config.Set(nil) })

	dir := initTestRepo(t)
	mustGit(t, dir, "branch", "-M", "main")
	mustGit(t, dir, "checkout", "-b", "other")

	tool := &GitBranchTool{}
	result, err := tool.Execute(context.Background(), map[string]interface{}{
		"path": dir, "action": "delete", "branch": "main",
	})

	require.NoError(t, err)
	assert.Contains(t, result, `"cancelled": true`)

	out, err := RunGitCommandInDir(dir, "branch", "--list", "main")
	require.NoError(t, err)
	assert.Contains(t, out, "main", "protected branch must survive a denied delete")
}

func TestGitPushDeniedWithoutGate(t *testing.T) {
	config.Set(&config.Config{Audit: config.AuditConfig{Enabled: false}})
	t.Cleanup(func() { config.Set(nil) })

	dir := initTestRepo(t)

	tool := &GitPushTool{}
	result, err := tool.Execute(context.Background(), map[string]interface{}{"path": dir})

	require.NoError(t, err)
	assert.Contains(t, result, `"cancelled": true`)
}

func TestGitBranchValidate(t *testing.T) {
	tool := &GitBranchTool{}

	assert.NoError(t, tool.Validate(map[string]interface{}{}))
	assert.NoError(t, tool.Validate(map[string]interface{}{"action": "list"}))
	assert.Error(t, tool.Validate(map[string]interface{}{"action": "delete"}))
	assert.Error(t, tool.Validate(map[string]interface{}{"action": "rebase"}))
}

// Approval wiring: deleting main with an approving responder goes through.
func TestGitBranchDeleteMainApproved(t *testing.T) {
	config.Set(&config.Config{Audit: config.AuditConfig{Enabled: false}})
	t.Cleanup(func() { config.Set(nil) })

	dir := initTestRepo(t)
	mustGit(t, dir, "branch", "-M", "main")
	mustGit(t, dir, "checkout", "-b", "other")

	var gate *approval.Gate
	gate = approval.NewGate(approval.Options{Notifier: notifierFunc(func(req approval.Request) {
		gate.RespondToConfirmation(req.OperationID, true, nil, "")
	})})
	defer gate.Close()

	ctx := approval.NewContext(context.Background(), gate)
	tool := &GitBranchTool{}
	result, err := tool.Execute(ctx, map[string]interface{}{
		"path": dir, "action": "delete", "branch": "main",
	})

	require.NoError(t, err)
	assert.Contains(t, result, "Deleted branch")
}

type notifierFunc func(req approval.Request)

func (f notifierFunc) Notify(req approval.Request) { f(req) }
