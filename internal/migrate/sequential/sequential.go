// Package sequential runs the fixed-stage migration pipeline: overview,
// schema design, file updates, and strategy are generated in order, each
// stage feeding the next.
package sequential

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"mongrate/internal/codebase"
	"mongrate/internal/curate"
	"mongrate/internal/llm"
	"mongrate/internal/report"
)

const (
	overviewSystemPrompt = `You are a Java Spring Boot application analyzer.
Given a structured overview of entities, repositories, and database configurations,
provide a detailed markdown-formatted overview of the application.

For each entity, provide a one-line description focusing on its business domain and relationships. Entity name should be in bold.
For each repository, provide a one-line description focusing on its data access patterns.
Keep descriptions concise and clear.

Format the output as a markdown document with the following structure:
1. Entity Models (grouped by package)
2. JPA Repositories (grouped by entity type)
3. Database Configuration
`

	schemaSystemPrompt = `You are a Java and MongoDB schema design expert.
Given the following JPA entity models and their relationships,
suggest MongoDB schemas that could replace the existing relational schemas.
Consider:
1. Embedding vs. Referencing for relationships
2. Indexing strategies based on query patterns
3. Data validation and constraints
4. Performance implications of your design choices
Provide schema in JSON-like format with embedded/nested design if applicable. Provide one block of code for all of the schemas.
Provide a short bullet list on design decisions and why you made them.
Use markdown format for the generated output so it can be rendered well in the report.
`

	fileUpdatesSystemPrompt = `You are a Java Spring to Spring Boot + MongoDB migration expert.
Given the existing codebase and the suggested MongoDB schema,
identify and generate updates for different categories of files.

First, analyze the codebase and identify these categories:
1. Entity Models (JPA entities to MongoDB documents)
2. Repository Interfaces (JPA repositories to MongoDB repositories)
3. Configuration Files (database, application properties)
4. Service Layer (if any service classes need updates)
5. Test Files (if any test classes need updates)

For each category that needs updates:
1. List the files that need to be modified
2. Provide the complete updated code for each file
3. Keep comments minimal and only include essential ones
4. Use Lombok @Data annotation instead of getters/setters
5. Include all necessary imports

Format the output as a markdown document with sections for each category.
`

	strategySystemPrompt = `You are a Java Spring to Spring Boot + MongoDB migration expert.
Given the current application overview, MongoDB schema, and updated files,
provide a short migration strategy.

Include:
1. Schema design decisions and rationale
2. Files that need to be changed
3. Implementation steps
4. Additional considerations

Format the output in markdown with clear sections and subsections.
`

	stepsSystemPrompt = `You are a Java Spring to Spring Boot + MongoDB migration expert.
Based on the migration strategy, provide detailed implementation steps.

Include:
1. Environment setup
2. Code changes
3. Testing strategy
4. Deployment considerations

Format the output in markdown with numbered steps and clear subsections.
`

	considerationsSystemPrompt = `You are a Java Spring to Spring Boot + MongoDB migration expert.
Based on the migration strategy and implementation steps,
provide additional considerations for the migration.

Include:
1. Performance optimization
2. Data migration strategy
3. Transaction support
4. Testing strategy
5. Required dependencies

Format the output in markdown with clear sections and bullet points.
`
)

// Migration drives the staged generation of a migration plan for one
// analyzed codebase.
type Migration struct {
	client      llm.Client
	summary     *codebase.Summary
	curatedJSON string
	sections    report.Context
}

// New creates a Migration over an analysis summary and its curated context.
func New(client llm.Client, summary *codebase.Summary, curated *curate.Context) (*Migration, error) {
	data, err := curated.JSON()
	if err != nil {
		return nil, fmt.Errorf("encode curated context: %w", err)
	}
	return &Migration{
		client:      client,
		summary:     summary,
		curatedJSON: string(data),
	}, nil
}

// Context returns the sections generated so far.
func (m *Migration) Context() report.Context {
	return m.sections
}

func (m *Migration) generate(ctx context.Context, stage, system, user string) (string, error) {
	log.Printf("[sequential] generating %s", stage)
	out, err := m.client.Generate(ctx, []llm.Message{
		{Role: llm.RoleSystem, Content: system},
		{Role: llm.RoleUser, Content: user},
	})
	if err != nil {
		return "", fmt.Errorf("generate %s: %w", stage, err)
	}
	return out, nil
}

// GenerateCurrentOverview produces the application overview section from
// the curated context.
func (m *Migration) GenerateCurrentOverview(ctx context.Context) (string, error) {
	user := fmt.Sprintf("Application Structure:\n%s\n", m.curatedJSON)
	overview, err := m.generate(ctx, "overview", overviewSystemPrompt, user)
	if err != nil {
		return "", err
	}
	m.sections.Overview = overview
	return overview, nil
}

// GenerateMongoDBSchema produces the MongoDB schema suggestion section.
func (m *Migration) GenerateMongoDBSchema(ctx context.Context) (string, error) {
	user := fmt.Sprintf("\nEntity Models and Relationships:\n%s\n", m.curatedJSON)
	schema, err := m.generate(ctx, "schema", schemaSystemPrompt, user)
	if err != nil {
		return "", err
	}
	m.sections.Schema = schema
	return schema, nil
}

// GenerateFileUpdates produces updated file contents for the suggested
// schema.
func (m *Migration) GenerateFileUpdates(ctx context.Context, schema string) (string, error) {
	user := fmt.Sprintf("\nExisting Codebase Structure:\n%s\n\nSuggested MongoDB Schema:\n%s\n", m.curatedJSON, schema)
	files, err := m.generate(ctx, "file updates", fileUpdatesSystemPrompt, user)
	if err != nil {
		return "", err
	}
	m.sections.FilesToChange = files
	return files, nil
}

// GenerateMigrationStrategy produces the strategy section. It runs the
// schema and file-update stages first and feeds their output in.
func (m *Migration) GenerateMigrationStrategy(ctx context.Context) (string, error) {
	schema, err := m.GenerateMongoDBSchema(ctx)
	if err != nil {
		return "", err
	}
	files, err := m.GenerateFileUpdates(ctx, schema)
	if err != nil {
		return "", err
	}

	user := fmt.Sprintf("\nCurrent Overview:\n%s\n\nMongoDB Schema:\n%s\n\nUpdated Files:\n%s\n",
		m.sections.Overview, schema, files)
	strategy, err := m.generate(ctx, "strategy", strategySystemPrompt, user)
	if err != nil {
		return "", err
	}
	m.sections.Strategy = strategy
	return strategy, nil
}

// GenerateImplementationSteps produces the implementation steps section.
func (m *Migration) GenerateImplementationSteps(ctx context.Context) (string, error) {
	user := fmt.Sprintf("\nMigration Strategy:\n%s\n", m.sections.Strategy)
	steps, err := m.generate(ctx, "implementation steps", stepsSystemPrompt, user)
	if err != nil {
		return "", err
	}
	m.sections.ImplementationSteps = steps
	return steps, nil
}

// GenerateAdditionalConsiderations produces the additional considerations
// section.
func (m *Migration) GenerateAdditionalConsiderations(ctx context.Context) (string, error) {
	user := fmt.Sprintf("\nMigration Strategy:\n%s\n\nImplementation Steps:\n%s\n",
		m.sections.Strategy, m.sections.ImplementationSteps)
	considerations, err := m.generate(ctx, "additional considerations", considerationsSystemPrompt, user)
	if err != nil {
		return "", err
	}
	m.sections.AdditionalConsiderations = considerations
	return considerations, nil
}

// Run executes the pipeline and writes the rendered report to reportPath,
// creating parent directories as needed. Only the overview and strategy
// stages run; steps and considerations stay available as standalone calls.
func (m *Migration) Run(ctx context.Context, reportPath string) error {
	if _, err := m.GenerateCurrentOverview(ctx); err != nil {
		return err
	}
	if _, err := m.GenerateMigrationStrategy(ctx); err != nil {
		return err
	}

	out := report.Generate(m.sections)

	if dir := filepath.Dir(reportPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create report directory: %w", err)
		}
	}
	if err := os.WriteFile(reportPath, []byte(out), 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	log.Printf("[sequential] report written to %s", reportPath)
	return nil
}
