package agent

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"envoyou/llm"
)

// scriptedGenerator returns canned responses in order
type scriptedGenerator struct {
	responses []string
	calls     int
}

func (g *scriptedGenerator) Generate(ctx context.Context, purpose llm.Purpose, req llm.Request) (*llm.Response, error) {
	if g.calls >= len(g.responses) {
		return &llm.Response{Content: "done"}, nil
	}
	content := g.responses[g.calls]
	g.calls++
	return &llm.Response{Content: content, Model: "scripted"}, nil
}

func TestLoadAgentConfig(t *testing.T) {
	cfg, err := LoadAgentConfig("testdata/root_agent.yaml")
	require.NoError(t, err)

	assert.Equal(t, "FullstackManagerAgent", cfg.Name)
	assert.Equal(t, "LlmAgent", cfg.AgentClass)
	assert.Equal(t, []string{"read_file", "write_file"}, cfg.Tools)
	assert.Contains(t, cfg.InstructionText(), "project manager")
	assert.Contains(t, cfg.InstructionText(), "delegate")
	require.Len(t, cfg.SubAgents, 1)
}

func TestLoadAgentConfigDefaults(t *testing.T) {
	cfg, err := LoadAgentConfig("testdata/frontend_reviewer.yaml")
	require.NoError(t, err)

	assert.Equal(t, "auto", cfg.Model)
	assert.Empty(t, cfg.SubAgents)
	assert.Equal(t, "You review code for correctness and style.", cfg.InstructionText())
}

func TestBuildFromConfigTree(t *testing.T) {
	t.Setenv("AI_PROVIDER", "GOOGLE")

	reg := NewRegistry()
	root, err := BuildFromConfig("testdata/root_agent.yaml", Deps{
		Generator: &scriptedGenerator{},
		Registry:  reg,
	})
	require.NoError(t, err)

	assert.Equal(t, "FullstackManagerAgent", root.Name())
	require.Len(t, root.SubAgents(), 1)

	team := root.SubAgents()[0]
	assert.Equal(t, "FrontendTeam", team.Name())
	require.Len(t, team.SubAgents(), 2)
	assert.Equal(t, "FrontendWriterAgent", team.SubAgents()[0].Name())
	assert.Equal(t, "FrontendReviewerAgent", team.SubAgents()[1].Name())

	// Manager resolves to the complex tier, reviewer to the fast one
	manager := root.(*LLMAgent)
	assert.Equal(t, "gemini-2.5-pro", manager.model)
	reviewer := team.SubAgents()[1].(*LLMAgent)
	assert.Equal(t, "gemini-2.5-flash", reviewer.model)

	// Every node in the tree lands in the registry
	assert.Len(t, reg.List(), 4)
	got, err := reg.Get("FrontendWriterAgent")
	require.NoError(t, err)
	assert.Equal(t, "FrontendWriterAgent", got.Name())
	_, err = reg.Get("NoSuchAgent")
	assert.Error(t, err)
}

func TestRegistryRejectsDuplicateNames(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Register(&fakeAgent{name: "Twin"}))
	assert.Error(t, reg.Register(&fakeAgent{name: "Twin"}))
}

func TestBuildFromConfigUnknownClass(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/bad.yaml"
	writeFile(t, path, "name: Bad\nagent_class: ParallelAgent\n")

	_, err := BuildFromConfig(path, Deps{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported agent class")
}

func TestSequentialAgentRunsInOrder(t *testing.T) {
	first := &fakeAgent{name: "First", output: "first output"}
	second := &fakeAgent{name: "Second", output: "second output"}

	seq := &SequentialAgent{name: "Pipeline", subAgents: []Agent{first, second}}

	result, err := seq.Run(context.Background(), "start")
	require.NoError(t, err)

	assert.Equal(t, "start", first.gotInput)
	assert.Equal(t, "first output", second.gotInput, "each stage feeds the next")
	assert.Contains(t, result, "## First")
	assert.Contains(t, result, "## Second")
}

func TestSequentialAgentEmpty(t *testing.T) {
	seq := &SequentialAgent{name: "Empty"}
	_, err := seq.Run(context.Background(), "x")
	assert.Error(t, err)
}

type fakeAgent struct {
	name     string
	output   string
	gotInput string
}

func (f *fakeAgent) Name() string        { return f.name }
func (f *fakeAgent) Description() string { return "" }
func (f *fakeAgent) SubAgents() []Agent  { return nil }

func (f *fakeAgent) Run(ctx context.Context, input string) (string, error) {
	f.gotInput = input
	return f.output, nil
}
