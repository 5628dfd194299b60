package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"envoyou/agent"
	"envoyou/config"
	"envoyou/core/approval"
	"envoyou/core/registry"
	"envoyou/llm"
	"envoyou/mcp"
	"envoyou/state"
	"envoyou/ui"

	_ "envoyou/capabilities/docker"
	_ "envoyou/capabilities/filesystem"
	_ "envoyou/capabilities/git"
	_ "envoyou/capabilities/packages"
	_ "envoyou/capabilities/system"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load("")
	if err != nil {
		fmt.Printf("Warning: failed to load config, using defaults: %v\n", err)
		cfg = config.Get()
	}

	// Confirmation gate, optionally with the terminal approval surface
	gateOpts := approval.Options{
		Timeout: config.ApprovalTimeout(),
		TTL:     config.ApprovalTTL(),
	}
	var notifier *ui.TerminalNotifier
	if cfg.Approval.Interactive {
		notifier = ui.NewTerminalNotifier()
		gateOpts.Notifier = notifier
	}
	gate := approval.NewGate(gateOpts)
	defer gate.Close()
	if notifier != nil {
		notifier.Bind(gate)
	}

	// Tool executor with the request/argument policy hooks
	executor := registry.NewExecutor(gate)
	executor.SetHooks(agent.PolicyHooks())
	executor.StatusHandler = func(toolName, phase string) {
		if phase == "executing" {
			fmt.Printf("  → %s\n", toolName)
		}
	}

	// Session state store
	var store *state.Store
	var session *state.Session
	if cfg.State.Enabled {
		store, err = state.NewStore(config.GetStateDBPath())
		if err != nil {
			fmt.Printf("Startup failed: %v\n", err)
			return
		}
		defer store.Close()

		session, err = store.CreateSession("project_development")
		if err != nil {
			fmt.Printf("Startup failed: %v\n", err)
			return
		}
	}

	// External MCP servers
	mcpClient := mcp.NewClient(cfg.MCP)
	if err := mcpClient.Initialize(ctx); err != nil {
		log.Printf("[mcp] initialization error: %v", err)
	}
	defer mcpClient.Close()
	mcp.RegisterAll(mcpClient)

	// LLM manager
	manager := llm.NewManager()
	for name, llmCfg := range cfg.LLMs {
		err := manager.RegisterLLM(llm.Purpose(name), llm.Config{
			Provider:    llmCfg.Provider,
			Model:       llmCfg.Model,
			Temperature: llmCfg.Temperature,
			BaseURL:     llmCfg.BaseURL,
			APIKey:      llmCfg.APIKey,
			Fallback:    llmCfg.Fallback,
			Options:     llmCfg.Options,
		})
		if err != nil {
			fmt.Printf("Warning: LLM %q not registered: %v\n", name, err)
		}
	}

	// Agent tree
	agents := agent.NewRegistry()
	root, err := agent.BuildFromConfig(cfg.Agents.RootConfig, agent.Deps{
		Generator: manager,
		Executor:  executor,
		Registry:  agents,
	})
	if err != nil {
		fmt.Printf("Startup failed: %v\n", err)
		return
	}
	executor.AgentName = root.Name()

	fmt.Println("\n=== Envoyou ===")
	fmt.Printf("Root agent: %s (%d agents in tree)\n", root.Name(), len(agents.List()))
	if len(cfg.LLMs) > 0 {
		fmt.Println("Active models:")
		for name, llmCfg := range cfg.LLMs {
			fmt.Printf("  %s: %s\n", name, llmCfg.Model)
		}
	}
	fmt.Println("\nWhat can I help you with?")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		select {
		case <-ctx.Done():
			fmt.Println("\nGraceful shutdown.")
			return
		default:
		}

		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		if input == "exit" || input == "quit" {
			break
		}

		if err := agent.CheckRequest(input); err != nil {
			fmt.Printf("Request rejected: %v\n", err)
			continue
		}

		output, err := root.Run(ctx, input)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			continue
		}
		fmt.Println(output)

		if store != nil && session != nil {
			if _, err := store.SaveArtifact(session.ID, "conversation", output, root.Name()); err != nil {
				log.Printf("[state] failed to save artifact: %v", err)
			}
		}
	}

	fmt.Println("Goodbye.")
}
