// Package curate distills an analyzed codebase into the compact context
// document handed to language models: entity details, inferred entity
// relationships, and the annotation index.
package curate

import (
	"encoding/json"
	"log"
	"os"
	"strings"

	"mongrate/internal/codebase"
	"mongrate/internal/heuristic"
)

var relationshipMarkers = []string{"@OneToMany", "@ManyToOne", "@OneToOne", "@ManyToMany"}

// Entity is the curated view of a single JPA entity. All fields are
// extracted from comment-stripped source, so Description is always the
// no-description sentinel.
type Entity struct {
	Name        string            `json:"name"`
	Package     string            `json:"package"`
	Description string            `json:"description"`
	File        string            `json:"file"`
	Annotations []string          `json:"annotations"`
	Methods     []codebase.Method `json:"methods"`
	Imports     []string          `json:"imports"`
}

// Relationship is an inferred link between two entities. Inference joins a
// relationship annotation on the source entity against its import lines:
// every import line containing another entity's name yields an edge. A name
// that is a substring of an unrelated import produces a false positive;
// none are filtered and none are deduplicated.
type Relationship struct {
	Type       string `json:"type"`
	FromEntity string `json:"from_entity"`
	ToEntity   string `json:"to_entity"`
}

// Context is the curated migration context. Annotations indexes class-level
// annotations to the entities carrying them.
type Context struct {
	Entities      []Entity            `json:"entities"`
	Relationships []Relationship      `json:"relationships"`
	Annotations   map[string][]string `json:"annotations"`
}

// JSON renders the context as indented JSON.
func (c *Context) JSON() ([]byte, error) {
	return json.MarshalIndent(c, "", "  ")
}

// Curator builds curated contexts from analysis summaries.
type Curator struct {
	policy   *heuristic.TextPolicy
	readFile func(path string) ([]byte, error)
}

// New creates a Curator. readFile may be nil, in which case os.ReadFile is
// used.
func New(readFile func(path string) ([]byte, error)) *Curator {
	if readFile == nil {
		readFile = os.ReadFile
	}
	return &Curator{
		policy:   heuristic.NewTextPolicy(),
		readFile: readFile,
	}
}

// Build curates the entities of a summary. Each entity source is re-read,
// stripped of comments, and re-extracted from the clean text, so markers
// that only appear inside comments contribute nothing here. Entities whose
// source cannot be read are skipped with a log line.
func (c *Curator) Build(summary *codebase.Summary) *Context {
	ctx := &Context{Annotations: make(map[string][]string)}

	for _, e := range summary.Entities {
		src, err := c.readFile(e.File)
		if err != nil {
			log.Printf("[curate] skipping unreadable entity source %s: %v", e.File, err)
			continue
		}
		clean := c.policy.RemoveComments(string(src))

		info, ok := c.policy.ExtractEntity(clean)
		if !ok {
			continue
		}
		pkg, _ := c.policy.ExtractPackage(clean)

		ctx.Entities = append(ctx.Entities, Entity{
			Name:        info.Name,
			Package:     pkg,
			Description: info.Description,
			File:        e.File,
			Annotations: info.Annotations,
			Methods:     c.policy.ExtractMethods(clean),
			Imports:     c.policy.ExtractImports(clean),
		})
		for _, annotation := range info.Annotations {
			ctx.Annotations[annotation] = append(ctx.Annotations[annotation], info.Name)
		}
	}

	ctx.Relationships = inferRelationships(ctx.Entities)

	return ctx
}

// inferRelationships emits one edge per relationship annotation occurrence,
// per import line, per other entity whose name is a substring of that line.
func inferRelationships(entities []Entity) []Relationship {
	var relationships []Relationship
	for _, from := range entities {
		for _, marker := range relationshipAnnotations(from) {
			for _, imp := range from.Imports {
				for _, to := range entities {
					if to.Name == from.Name || !strings.Contains(imp, to.Name) {
						continue
					}
					relationships = append(relationships, Relationship{
						Type:       marker,
						FromEntity: from.Name,
						ToEntity:   to.Name,
					})
				}
			}
		}
	}
	return relationships
}

// relationshipAnnotations returns the entity's class and method annotations
// that are relationship markers, one element per occurrence in declaration
// order. The marker test ignores argument lists.
func relationshipAnnotations(e Entity) []string {
	var markers []string
	collect := func(annotation string) {
		base := annotation
		if i := strings.IndexByte(base, '('); i >= 0 {
			base = base[:i]
		}
		for _, marker := range relationshipMarkers {
			if base == marker {
				markers = append(markers, marker)
			}
		}
	}
	for _, annotation := range e.Annotations {
		collect(annotation)
	}
	for _, m := range e.Methods {
		for _, annotation := range m.Annotations {
			collect(annotation)
		}
	}
	return markers
}
