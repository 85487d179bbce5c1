// Package server exposes codebase analysis over the Model Context Protocol
// so editor and LLM clients can inspect an analyzed Java project.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"sync"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"mongrate/internal/analyzer"
	"mongrate/internal/codebase"
	"mongrate/internal/config"
	"mongrate/internal/curate"
)

// Server wraps the MCP server and connects it to the static analyzer.
type Server struct {
	mcp *mcp.Server
	cfg *config.Config

	mu      sync.Mutex
	summary *codebase.Summary
	curated *curate.Context
}

// New creates a new MCP server.
func New(cfg *config.Config) (*Server, error) {
	s := &Server{cfg: cfg}

	mcpServer := mcp.NewServer(&mcp.Implementation{
		Name:    "mongrate",
		Version: "0.1.0",
	}, nil)

	s.mcp = mcpServer
	s.registerResources()
	s.registerTools()

	return s, nil
}

// Run starts the MCP server on the stdio transport.
func (s *Server) Run(ctx context.Context) error {
	log.Println("[server] starting MCP server on stdio transport")
	return s.mcp.Run(ctx, &mcp.StdioTransport{})
}

func (s *Server) current() (*codebase.Summary, *curate.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.summary, s.curated
}

func (s *Server) store(summary *codebase.Summary, curated *curate.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.summary = summary
	s.curated = curated
}

// registerResources adds MCP resources for the latest analysis.
func (s *Server) registerResources() {
	s.mcp.AddResource(&mcp.Resource{
		URI:         "mongrate://summary/text",
		Name:        "Codebase Summary",
		Description: "Human-readable summary of the analyzed Java codebase",
		MIMEType:    "text/plain",
	}, func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		summary, _ := s.current()
		if summary == nil {
			return nil, fmt.Errorf("no analysis available (run analyze_codebase first)")
		}
		return &mcp.ReadResourceResult{
			Contents: []*mcp.ResourceContents{
				{URI: req.Params.URI, Text: summary.String(), MIMEType: "text/plain"},
			},
		}, nil
	})

	s.mcp.AddResource(&mcp.Resource{
		URI:         "mongrate://summary/json",
		Name:        "Codebase Summary JSON",
		Description: "Structured summary of the analyzed Java codebase",
		MIMEType:    "application/json",
	}, func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		summary, _ := s.current()
		if summary == nil {
			return nil, fmt.Errorf("no analysis available (run analyze_codebase first)")
		}
		data, err := summary.JSON()
		if err != nil {
			return nil, fmt.Errorf("encode summary: %w", err)
		}
		return &mcp.ReadResourceResult{
			Contents: []*mcp.ResourceContents{
				{URI: req.Params.URI, Text: string(data), MIMEType: "application/json"},
			},
		}, nil
	})

	s.mcp.AddResource(&mcp.Resource{
		URI:         "mongrate://context/curated",
		Name:        "Curated Migration Context",
		Description: "Entities, relationships, and annotations curated for migration planning",
		MIMEType:    "application/json",
	}, func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		_, curated := s.current()
		if curated == nil {
			return nil, fmt.Errorf("no analysis available (run analyze_codebase first)")
		}
		data, err := curated.JSON()
		if err != nil {
			return nil, fmt.Errorf("encode curated context: %w", err)
		}
		return &mcp.ReadResourceResult{
			Contents: []*mcp.ResourceContents{
				{URI: req.Params.URI, Text: string(data), MIMEType: "application/json"},
			},
		}, nil
	})
}

// analyzeCodebaseArgs are the arguments for the analyze_codebase tool.
type analyzeCodebaseArgs struct {
	RepoPath string `json:"repo_path" jsonschema:"Path to the Java repository to analyze"`
}

// queryEntitiesArgs are the arguments for the query_entities tool.
type queryEntitiesArgs struct {
	Name    string `json:"name,omitempty" jsonschema:"Filter entities by name using substring match"`
	Package string `json:"package,omitempty" jsonschema:"Filter entities by package using substring match"`
}

// registerTools adds MCP tools for analysis and entity queries.
func (s *Server) registerTools() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "analyze_codebase",
		Description: "Analyze a Java Spring codebase. Parses sources, classifies JPA entities, repositories, and database configurations, and curates the migration context.",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args analyzeCodebaseArgs) (*mcp.CallToolResult, any, error) {
		if args.RepoPath == "" {
			return errorResult("repo_path is required"), nil, nil
		}

		absRepo, err := filepath.Abs(args.RepoPath)
		if err != nil {
			return errorResult(fmt.Sprintf("invalid repo path: %v", err)), nil, nil
		}

		a := analyzer.New(analyzer.Config{Ignore: s.cfg.Analyzer.Ignore})
		summary, err := a.AnalyzeCodebase(ctx, absRepo)
		if err != nil {
			return errorResult(fmt.Sprintf("analysis failed: %v", err)), nil, nil
		}

		curated := curate.New(nil).Build(summary)
		s.store(summary, curated)

		text := fmt.Sprintf(
			"Analysis complete.\n\n"+
				"- Repository: %s\n"+
				"- Files: %d\n"+
				"- Entities: %d\n"+
				"- Repositories: %d\n"+
				"- Database configs: %d\n"+
				"- Relationships: %d\n\n"+
				"Use the mongrate://summary/text resource to read the full summary.",
			summary.ProjectPath,
			len(summary.Files),
			len(summary.Entities),
			len(summary.Repositories),
			len(summary.DatabaseConfigs),
			len(curated.Relationships),
		)

		return &mcp.CallToolResult{
			Content: []mcp.Content{
				&mcp.TextContent{Text: text},
			},
		}, nil, nil
	})

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "query_entities",
		Description: "Query the classified JPA entities by name or package. Returns matching entities with their repositories and relationships as JSON.",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args queryEntitiesArgs) (*mcp.CallToolResult, any, error) {
		summary, curated := s.current()
		if summary == nil {
			return errorResult("No analysis available. Run analyze_codebase first."), nil, nil
		}

		type entityResult struct {
			Entity        codebase.Entity       `json:"entity"`
			Repositories  []codebase.Repository `json:"repositories,omitempty"`
			Relationships []curate.Relationship `json:"relationships,omitempty"`
		}

		var results []entityResult
		for _, entity := range summary.Entities {
			if args.Name != "" && !strings.Contains(strings.ToLower(entity.Name), strings.ToLower(args.Name)) {
				continue
			}
			if args.Package != "" && !matchesPackage(curated, entity.Name, args.Package) {
				continue
			}
			results = append(results, entityResult{
				Entity:        entity,
				Repositories:  summary.RepositoriesForEntity(entity.Name),
				Relationships: relationshipsFor(curated, entity.Name),
			})
		}

		if len(results) == 0 {
			return errorResult("No entities match the query."), nil, nil
		}

		data, err := json.MarshalIndent(results, "", "  ")
		if err != nil {
			return errorResult(fmt.Sprintf("failed to marshal results: %v", err)), nil, nil
		}

		return &mcp.CallToolResult{
			Content: []mcp.Content{
				&mcp.TextContent{Text: string(data)},
			},
		}, nil, nil
	})
}

func matchesPackage(curated *curate.Context, entityName, pkg string) bool {
	if curated == nil {
		return false
	}
	for _, e := range curated.Entities {
		if e.Name == entityName {
			return strings.Contains(strings.ToLower(e.Package), strings.ToLower(pkg))
		}
	}
	return false
}

func relationshipsFor(curated *curate.Context, entityName string) []curate.Relationship {
	if curated == nil {
		return nil
	}
	var result []curate.Relationship
	for _, rel := range curated.Relationships {
		if rel.FromEntity == entityName || rel.ToEntity == entityName {
			result = append(result, rel)
		}
	}
	return result
}

func errorResult(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: msg},
		},
		IsError: true,
	}
}
