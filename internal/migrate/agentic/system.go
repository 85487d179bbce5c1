package agentic

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"mongrate/internal/analyzer"
	"mongrate/internal/llm"
)

const (
	analyzerSystemMessage = `You analyze Java code and identify entities, relationships, and repositories.
Your analysis should focus on:
1. Entity models and their relationships
2. Repository interfaces and their methods
3. Database configuration and connection settings
4. Service layer implementations
5. Test cases and their coverage`

	schemaDesignerSystemMessage = `You design MongoDB schemas based on Java entities and their relationships.
Consider:
1. Embedding vs. Referencing for relationships
2. Indexing strategies based on query patterns
3. Data validation and constraints
4. Performance implications of design choices
Provide schema in JSON-like format with embedded/nested design if applicable.
Provide a short bullet list on design decisions and why you made them.`

	codeGeneratorSystemMessage = `You generate Java code that uses Spring Data MongoDB based on MongoDB schemas.
Your code should:
1. Use Lombok @Data annotation instead of getters/setters
2. Include all necessary imports
3. Follow Spring Data MongoDB best practices
4. Include proper documentation
5. Handle relationships appropriately`

	testGeneratorSystemMessage = `You generate test cases for MongoDB repositories and entities.
Your tests should:
1. Use Spring Boot test annotations
2. Include unit tests for repositories
3. Include integration tests for entities
4. Use test containers for MongoDB
5. Follow testing best practices`

	technicalWriterSystemMessage = `You generate comprehensive migration reports from JPA to MongoDB.
Your reports should include:
1. Current Application Overview
2. MongoDB Migration Strategy
   - Schema Design
   - Files to Change
3. Implementation Steps
4. Additional Considerations
   - Performance Optimization
   - Data Migration
   - Transaction Support
5. MongoDB Dependencies
6. Testing Strategy
Format the report in Markdown with clear sections and code examples.`
)

// System wires the agents together and persists the chat outcome.
type System struct {
	client    llm.Client
	analyzer  *analyzer.StaticAnalyzer
	outputDir string

	// now is replaceable for deterministic file names in tests.
	now func() time.Time
}

// NewSystem creates an agentic migration system writing into outputDir.
func NewSystem(client llm.Client, an *analyzer.StaticAnalyzer, outputDir string) *System {
	return &System{
		client:    client,
		analyzer:  an,
		outputDir: outputDir,
		now:       time.Now,
	}
}

// Result holds the artifacts of an agentic migration run.
type Result struct {
	Report      string
	Transcript  []Message
	ReportPath  string
	ContextPath string
}

// Run analyzes repoPath through the group chat and writes the report and the
// transcript to the output directory.
func (s *System) Run(ctx context.Context, repoPath string) (*Result, error) {
	codeAnalyzer := NewAgent(s.client, "CodeAnalyzer", analyzerSystemMessage).WithTool(&Tool{
		Name:        "analyze_codebase",
		Description: "Analyzes a Java codebase and returns its structure",
		Run: func(ctx context.Context) (string, error) {
			summary, err := s.analyzer.AnalyzeCodebase(ctx, repoPath)
			if err != nil {
				return "", err
			}
			return summary.String(), nil
		},
	})

	agents := []*Agent{
		codeAnalyzer,
		NewAgent(s.client, "SchemaDesigner", schemaDesignerSystemMessage),
		NewAgent(s.client, "CodeGenerator", codeGeneratorSystemMessage),
		NewAgent(s.client, "TestGenerator", testGeneratorSystemMessage),
	}
	writer := NewAgent(s.client, "TechnicalWriter", technicalWriterSystemMessage)

	task := fmt.Sprintf(
		"I need to migrate a Java Spring Boot application from JPA to MongoDB. The code is located at %s. Please analyze codebase and create a migration plan.",
		repoPath)

	transcript, err := NewManager(s.client, agents).Run(ctx, task)
	if err != nil {
		return nil, err
	}

	reportText, err := s.generateReport(ctx, writer, transcript)
	if err != nil {
		return nil, err
	}

	result := &Result{Report: reportText, Transcript: transcript}
	if err := s.persist(result); err != nil {
		return nil, err
	}
	return result, nil
}

// generateReport asks the technical writer to distill the chat into the
// final migration report.
func (s *System) generateReport(ctx context.Context, writer *Agent, transcript []Message) (string, error) {
	prompt := fmt.Sprintf(
		"Generate a comprehensive migration report based on the following group chat messages:\n\n%s\n\nExtract key information from the messages about:\n1. Code analysis results\n2. Schema design decisions\n3. Implementation details\n4. Testing approach\nFormat the report in Markdown with clear sections and code examples.",
		renderTranscript(transcript))

	reportText, err := writer.client.Generate(ctx, []llm.Message{
		{Role: llm.RoleSystem, Content: writer.SystemMessage},
		{Role: llm.RoleUser, Content: prompt},
	})
	if err != nil {
		return "", fmt.Errorf("generate report: %w", err)
	}
	return reportText, nil
}

func (s *System) persist(result *Result) error {
	if err := os.MkdirAll(s.outputDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	timestamp := s.now().Format("20060102_150405")

	result.ContextPath = filepath.Join(s.outputDir, fmt.Sprintf("migration_context_%s.json", timestamp))
	data, err := json.MarshalIndent(result.Transcript, "", "  ")
	if err != nil {
		return fmt.Errorf("encode transcript: %w", err)
	}
	if err := os.WriteFile(result.ContextPath, data, 0o644); err != nil {
		return fmt.Errorf("write transcript: %w", err)
	}

	result.ReportPath = filepath.Join(s.outputDir, fmt.Sprintf("migration_report_%s.md", timestamp))
	if err := os.WriteFile(result.ReportPath, []byte(result.Report), 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	log.Printf("[agentic] migration context saved to %s", result.ContextPath)
	log.Printf("[agentic] migration report saved to %s", result.ReportPath)
	return nil
}
