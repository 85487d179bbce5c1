// Package agentic runs the group-chat migration mode: specialist agents
// coordinated by a manager take turns until the plan is complete, and a
// technical writer distills the conversation into the final report.
package agentic

import (
	"context"
	"fmt"
	"strings"

	"mongrate/internal/llm"
)

// TerminateMarker ends the group chat when it appears in a reply.
const TerminateMarker = "TERMINATE"

// Tool is a capability an agent can invoke once before its first reply.
type Tool struct {
	Name        string
	Description string
	Run         func(ctx context.Context) (string, error)
}

// Message is a single group chat entry.
type Message struct {
	Speaker string `json:"speaker"`
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Agent is a single group chat participant.
type Agent struct {
	Name          string
	SystemMessage string
	Tool          *Tool

	client  llm.Client
	toolRan bool
}

// NewAgent creates an agent backed by the given chat client.
func NewAgent(client llm.Client, name, systemMessage string) *Agent {
	return &Agent{
		Name:          name,
		SystemMessage: systemMessage,
		client:        client,
	}
}

// WithTool attaches a tool to the agent and returns it.
func (a *Agent) WithTool(tool *Tool) *Agent {
	a.Tool = tool
	return a
}

// RunTool invokes the agent's tool if it has one that has not run yet.
// The second return reports whether the tool ran.
func (a *Agent) RunTool(ctx context.Context) (string, bool, error) {
	if a.Tool == nil || a.toolRan {
		return "", false, nil
	}
	out, err := a.Tool.Run(ctx)
	if err != nil {
		return "", false, fmt.Errorf("%s tool %s: %w", a.Name, a.Tool.Name, err)
	}
	a.toolRan = true
	return out, true, nil
}

// Reply generates the agent's next message given the chat so far.
func (a *Agent) Reply(ctx context.Context, transcript []Message) (string, error) {
	system := a.SystemMessage
	if a.Tool != nil {
		system += fmt.Sprintf("\nYou have access to the following tools:\n- %s: %s\n", a.Tool.Name, a.Tool.Description)
	}

	user := fmt.Sprintf(
		"Group chat so far:\n%s\nRespond as %s with your next contribution to the migration. Reply with %s when the migration plan is complete.",
		renderTranscript(transcript), a.Name, TerminateMarker)

	reply, err := a.client.Generate(ctx, []llm.Message{
		{Role: llm.RoleSystem, Content: system},
		{Role: llm.RoleUser, Content: user},
	})
	if err != nil {
		return "", fmt.Errorf("%s reply: %w", a.Name, err)
	}
	return reply, nil
}

func renderTranscript(transcript []Message) string {
	var b strings.Builder
	for _, m := range transcript {
		fmt.Fprintf(&b, "[%s] %s\n", m.Speaker, m.Content)
	}
	return b.String()
}
