// Package report renders the codebase analysis prompt and the final
// migration report.
package report

import (
	"fmt"
	"sort"
	"strings"

	"mongrate/internal/codebase"
)

// sortedKeys keeps grouped sections in deterministic order.
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Context holds the generated migration plan sections. Empty optional
// sections are omitted from the rendered report.
type Context struct {
	Overview                 string
	Schema                   string
	FilesToChange            string
	Strategy                 string
	ImplementationSteps      string
	AdditionalConsiderations string
}

// CodebasePrompt formats an analysis summary as a markdown prompt: entities
// grouped by package, repositories grouped by entity type, and database
// configurations grouped by type.
func CodebasePrompt(summary *codebase.Summary) string {
	var parts []string
	parts = append(parts,
		"# Codebase Analysis",
		fmt.Sprintf("\n## Project Location\n%s", summary.ProjectPath),
	)

	parts = append(parts, "\n## Entity Models")
	byPackage := summary.EntitiesByPackage()
	for _, pkg := range sortedKeys(byPackage) {
		parts = append(parts, fmt.Sprintf("\n### Package: %s", pkg))
		for _, entity := range byPackage[pkg] {
			parts = append(parts, fmt.Sprintf("\n#### %s", entity.Name))
			parts = append(parts, fmt.Sprintf("Description: %s", entity.Description))
			if len(entity.Annotations) > 0 {
				parts = append(parts, fmt.Sprintf("Annotations: %s", strings.Join(entity.Annotations, ", ")))
			}
		}
	}

	parts = append(parts, "\n## JPA Repositories")
	byEntity := summary.RepositoriesByEntityType()
	for _, entityType := range sortedKeys(byEntity) {
		parts = append(parts, fmt.Sprintf("\n### Entity Type: %s", entityType))
		for _, repo := range byEntity[entityType] {
			parts = append(parts, fmt.Sprintf("\n#### %s", repo.Name))
			if len(repo.Methods) > 0 {
				parts = append(parts, "Methods:")
				for _, method := range repo.Methods {
					parts = append(parts, fmt.Sprintf("- %s()", method.Name))
					if len(method.Annotations) > 0 {
						parts = append(parts, fmt.Sprintf("  Annotations: %s", strings.Join(method.Annotations, ", ")))
					}
				}
			}
		}
	}

	parts = append(parts, "\n## Database Configuration")
	byType := summary.DatabaseConfigsByType()
	for _, dbType := range sortedKeys(byType) {
		parts = append(parts, fmt.Sprintf("\n### %s", strings.ToUpper(dbType)))
		for _, cfg := range byType[dbType] {
			parts = append(parts, fmt.Sprintf("\nConfiguration in: %s", cfg.File))
			parts = append(parts, "Properties:")
			for _, key := range sortedKeys(cfg.Properties) {
				parts = append(parts, fmt.Sprintf("- %s: %s", key, cfg.Properties[key]))
			}
		}
	}

	return strings.Join(parts, "\n")
}

// Generate renders the migration report in markdown.
func Generate(ctx Context) string {
	var b strings.Builder

	b.WriteString("# MongoDB Migration Report\n\n")
	b.WriteString("## Current Application Overview\n")
	b.WriteString(ctx.Overview)
	b.WriteString("\n\n## MongoDB Migration Strategy\n\n")
	b.WriteString("### Schema Design\n")
	b.WriteString(ctx.Schema)
	b.WriteString("\n\n### Files to Change\n")
	b.WriteString(ctx.FilesToChange)
	b.WriteString("\n")

	if ctx.Strategy != "" {
		b.WriteString("\n### Migration Plan\n")
		b.WriteString(ctx.Strategy)
		b.WriteString("\n")
	}
	if ctx.ImplementationSteps != "" {
		b.WriteString("\n## Implementation Steps\n")
		b.WriteString(ctx.ImplementationSteps)
		b.WriteString("\n")
	}
	if ctx.AdditionalConsiderations != "" {
		b.WriteString("\n## Additional Considerations\n")
		b.WriteString(ctx.AdditionalConsiderations)
		b.WriteString("\n")
	}

	return b.String()
}
