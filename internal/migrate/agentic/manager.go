package agentic

import (
	"context"
	"fmt"
	"log"
	"strings"

	"mongrate/internal/llm"
)

const defaultMaxRounds = 20

const managerSystemMessage = `You are a migration manager coordinating the migration from JPA to MongoDB.
Your responsibilities include:
1. Coordinating the migration process
2. Ensuring the Analyzer and CodeGenerator agents complete their tasks
3. Managing the migration context
4. Handling tool calls from agents

The migration process follows these steps:
1. Analyzer agent analyzes the codebase
2. Schema Designer agent creates MongoDB schemas
3. Code Generator creates the new code
4. Test Generator creates tests
5. Technical Writer generates the final report`

// Manager coordinates the group chat: it selects the next speaker each
// round, runs agent tools, and stops on the terminate marker or the round
// limit.
type Manager struct {
	Name      string
	MaxRounds int

	client llm.Client
	agents []*Agent
}

// NewManager creates a manager over the given agents.
func NewManager(client llm.Client, agents []*Agent) *Manager {
	return &Manager{
		Name:      "Manager",
		MaxRounds: defaultMaxRounds,
		client:    client,
		agents:    agents,
	}
}

// Run drives the group chat for the given task and returns the transcript.
func (m *Manager) Run(ctx context.Context, task string) ([]Message, error) {
	transcript := []Message{{Speaker: m.Name, Role: llm.RoleUser, Content: task}}

	previous := -1
	for round := 0; round < m.MaxRounds; round++ {
		idx, err := m.selectSpeaker(ctx, transcript, previous)
		if err != nil {
			return transcript, err
		}
		speaker := m.agents[idx]
		previous = idx

		if out, ran, err := speaker.RunTool(ctx); err != nil {
			return transcript, err
		} else if ran {
			log.Printf("[agentic] %s ran tool %s", speaker.Name, speaker.Tool.Name)
			transcript = append(transcript, Message{Speaker: speaker.Name, Role: "tool", Content: out})
		}

		reply, err := speaker.Reply(ctx, transcript)
		if err != nil {
			return transcript, err
		}

		done := strings.Contains(reply, TerminateMarker)
		reply = strings.TrimSpace(strings.ReplaceAll(reply, TerminateMarker, ""))
		if reply != "" {
			transcript = append(transcript, Message{Speaker: speaker.Name, Role: llm.RoleAssistant, Content: reply})
		}

		log.Printf("[agentic] round %d: %s spoke", round+1, speaker.Name)
		if done {
			break
		}
	}

	return transcript, nil
}

// selectSpeaker asks the model who should speak next and falls back to the
// agent after the previous speaker when the answer names nobody.
func (m *Manager) selectSpeaker(ctx context.Context, transcript []Message, previous int) (int, error) {
	var roster strings.Builder
	for i, agent := range m.agents {
		fmt.Fprintf(&roster, "%d. %s\n", i+1, agent.Name)
	}

	prompt := fmt.Sprintf(
		"Based on the current state of the migration, who should speak next?\nAvailable agents:\n%s\nGroup chat so far:\n%s\nChoose the most appropriate agent based on the current state and needs. Reply with the agent name only.",
		roster.String(), renderTranscript(transcript))

	reply, err := m.client.Generate(ctx, []llm.Message{
		{Role: llm.RoleSystem, Content: managerSystemMessage},
		{Role: llm.RoleUser, Content: prompt},
	})
	if err != nil {
		return 0, fmt.Errorf("select speaker: %w", err)
	}

	for i, agent := range m.agents {
		if strings.Contains(strings.ToLower(reply), strings.ToLower(agent.Name)) {
			return i, nil
		}
	}

	next := (previous + 1) % len(m.agents)
	log.Printf("[agentic] speaker selection named no agent (%q), falling back to %s", strings.TrimSpace(reply), m.agents[next].Name)
	return next, nil
}
