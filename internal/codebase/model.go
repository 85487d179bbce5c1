// Package codebase holds the structural model of an analyzed Java codebase:
// parsed files, classified entities and repositories, and database
// configurations, plus the grouping queries used by report generation.
package codebase

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Method represents a Java method extracted from source.
type Method struct {
	Name        string   `json:"name"`
	Annotations []string `json:"annotations"`
	ReturnType  string   `json:"return_type,omitempty"`
}

// Class represents a Java class or interface declaration.
type Class struct {
	Name        string   `json:"name"`
	Annotations []string `json:"annotations"`
	Methods     []Method `json:"methods"`
}

// Field represents a Java field declaration. Fields are only recorded by the
// deep entity parse, not by the primary pipeline.
type Field struct {
	Name        string   `json:"name"`
	Type        string   `json:"type"`
	Annotations []string `json:"annotations"`
}

// FileInfo represents a single parsed Java file.
type FileInfo struct {
	File    string  `json:"file"`
	Classes []Class `json:"classes"`
}

// Entity is a classified JPA entity.
type Entity struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	File        string   `json:"file"`
	Annotations []string `json:"annotations"`
}

// Repository is a classified Spring Data repository interface.
type Repository struct {
	Name        string   `json:"name"`
	EntityType  string   `json:"entity_type"`
	File        string   `json:"file"`
	Annotations []string `json:"annotations,omitempty"`
	Methods     []Method `json:"methods,omitempty"`
}

// Database type constants assigned by config classification.
const (
	DBMySQL      = "mysql"
	DBPostgreSQL = "postgresql"
	DBH2         = "h2"
	DBHikari     = "hikari"
)

// DatabaseConfig is a classified datasource configuration. At most one type is
// assigned per file; the first matching type wins.
type DatabaseConfig struct {
	Type       string            `json:"type"`
	URL        string            `json:"url"`
	Username   string            `json:"username"`
	File       string            `json:"file"`
	Properties map[string]string `json:"properties,omitempty"`
}

// Summary is the aggregate result of a codebase analysis run.
//
// Files are immutable parse results. Entities, Repositories, and
// DatabaseConfigs are derived: Classify populates the entity and repository
// slices exactly once per (name, file) pair, and the grouping queries are
// pure reads over the populated slices.
type Summary struct {
	ProjectPath     string           `json:"project_path"`
	Files           []FileInfo       `json:"files"`
	Entities        []Entity         `json:"entities"`
	Repositories    []Repository     `json:"repositories"`
	DatabaseConfigs []DatabaseConfig `json:"database_configs"`
}

// JSON renders the summary as indented JSON.
func (s *Summary) JSON() ([]byte, error) {
	return json.MarshalIndent(s, "", "  ")
}

// FromJSON reconstructs a summary from its JSON rendering.
func FromJSON(data []byte) (*Summary, error) {
	var s Summary
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decoding summary: %w", err)
	}
	return &s, nil
}

// String renders the summary as a human-readable multi-section listing.
// Section and field order are stable so the output can be golden-tested.
func (s *Summary) String() string {
	lines := []string{
		fmt.Sprintf("Project Path: %s", s.ProjectPath),
		fmt.Sprintf("\nFiles (%d):", len(s.Files)),
	}

	for _, file := range s.Files {
		lines = append(lines, fmt.Sprintf("\n  %s", file.File))
		for _, cls := range file.Classes {
			lines = append(lines, fmt.Sprintf("    Class: %s", cls.Name))
			if len(cls.Annotations) > 0 {
				lines = append(lines, fmt.Sprintf("      Annotations: %s", strings.Join(cls.Annotations, ", ")))
			}
			if len(cls.Methods) > 0 {
				lines = append(lines, "      Methods:")
				for _, m := range cls.Methods {
					lines = append(lines, fmt.Sprintf("        - %s", m.Name))
					if len(m.Annotations) > 0 {
						lines = append(lines, fmt.Sprintf("          Annotations: %s", strings.Join(m.Annotations, ", ")))
					}
					if m.ReturnType != "" {
						lines = append(lines, fmt.Sprintf("          Return Type: %s", m.ReturnType))
					}
				}
			}
		}
	}

	if len(s.Entities) > 0 {
		lines = append(lines, fmt.Sprintf("\nEntities (%d):", len(s.Entities)))
		for _, e := range s.Entities {
			lines = append(lines, fmt.Sprintf("\n  %s", e.Name))
			if e.Description != "" {
				lines = append(lines, fmt.Sprintf("    Description: %s", e.Description))
			}
			if len(e.Annotations) > 0 {
				lines = append(lines, fmt.Sprintf("    Annotations: %s", strings.Join(e.Annotations, ", ")))
			}
			lines = append(lines, fmt.Sprintf("    File: %s", e.File))
		}
	}

	if len(s.Repositories) > 0 {
		lines = append(lines, fmt.Sprintf("\nRepositories (%d):", len(s.Repositories)))
		for _, r := range s.Repositories {
			lines = append(lines, fmt.Sprintf("\n  %s", r.Name))
			lines = append(lines, fmt.Sprintf("    Entity Type: %s", r.EntityType))
			if len(r.Annotations) > 0 {
				lines = append(lines, fmt.Sprintf("    Annotations: %s", strings.Join(r.Annotations, ", ")))
			}
			lines = append(lines, fmt.Sprintf("    File: %s", r.File))
		}
	}

	if len(s.DatabaseConfigs) > 0 {
		lines = append(lines, fmt.Sprintf("\nDatabase Configurations (%d):", len(s.DatabaseConfigs)))
		for _, c := range s.DatabaseConfigs {
			lines = append(lines, fmt.Sprintf("\n  Type: %s", c.Type))
			lines = append(lines, fmt.Sprintf("    URL: %s", c.URL))
			lines = append(lines, fmt.Sprintf("    Username: %s", c.Username))
			lines = append(lines, fmt.Sprintf("    File: %s", c.File))
		}
	}

	return strings.Join(lines, "\n")
}
