// Package analyzer walks a Java codebase and builds the summary of parsed
// files, classified entities and repositories, and database configurations.
package analyzer

import (
	"context"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"mongrate/internal/codebase"
	"mongrate/internal/heuristic"
	"mongrate/internal/javaparse"
)

// Config controls a codebase analysis run.
type Config struct {
	// Ignore holds glob patterns matched against slash-separated paths
	// relative to the analysis root. Matching directories are pruned.
	Ignore []string

	// Progress, when set, is called with each file path before it is read.
	Progress func(path string)
}

// StaticAnalyzer runs the parse and classification pipeline over a codebase.
type StaticAnalyzer struct {
	cfg    Config
	parser *javaparse.Parser
	policy *heuristic.TextPolicy
}

// New creates a StaticAnalyzer.
func New(cfg Config) *StaticAnalyzer {
	return &StaticAnalyzer{
		cfg:    cfg,
		parser: javaparse.New(),
		policy: heuristic.NewTextPolicy(),
	}
}

// AnalyzeCodebase walks root, parses Java sources, extracts database
// configurations from properties, YAML, and configuration classes, and
// classifies entities and repositories. Java files that declare no classes
// are not recorded. Unreadable files and directories are skipped with a log
// line.
func (a *StaticAnalyzer) AnalyzeCodebase(ctx context.Context, root string) (*codebase.Summary, error) {
	if _, err := os.Stat(root); err != nil {
		return nil, fmt.Errorf("analyze %s: %w", root, err)
	}

	summary := &codebase.Summary{ProjectPath: root}

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			log.Printf("[analyzer] error walking %s: %v", path, err)
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		rel := relPath(root, path)
		if d.IsDir() {
			if rel != "." && a.ignored(rel) {
				return filepath.SkipDir
			}
			return nil
		}
		if a.ignored(rel) {
			return nil
		}

		ext := strings.ToLower(filepath.Ext(path))
		if ext != ".java" && ext != ".properties" && ext != ".yml" && ext != ".yaml" {
			return nil
		}

		if a.cfg.Progress != nil {
			a.cfg.Progress(path)
		}

		src, readErr := os.ReadFile(path)
		if readErr != nil {
			log.Printf("[analyzer] error reading %s: %v", path, readErr)
			return nil
		}

		if ext == ".java" {
			info := a.parser.ParseFile(path, src)
			if len(info.Classes) > 0 {
				summary.Files = append(summary.Files, info)
			}
		}

		if cfg, ok := a.policy.ExtractDatabaseConfig(string(src), path); ok {
			cfg.File = path
			summary.DatabaseConfigs = append(summary.DatabaseConfigs, cfg)
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("analyze %s: %w", root, err)
	}

	summary.Classify(a.policy, nil)

	log.Printf("[analyzer] %s: %d files, %d entities, %d repositories, %d database configs",
		root, len(summary.Files), len(summary.Entities), len(summary.Repositories), len(summary.DatabaseConfigs))

	return summary, nil
}

// ListJavaFiles returns the slash-separated relative paths of all Java files
// under root that are not ignored.
func (a *StaticAnalyzer) ListJavaFiles(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			log.Printf("[analyzer] error walking %s: %v", path, err)
			return nil
		}
		rel := relPath(root, path)
		if d.IsDir() {
			if rel != "." && a.ignored(rel) {
				return filepath.SkipDir
			}
			return nil
		}
		if a.ignored(rel) {
			return nil
		}
		if strings.ToLower(filepath.Ext(path)) == ".java" {
			files = append(files, rel)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list java files in %s: %w", root, err)
	}
	return files, nil
}

func (a *StaticAnalyzer) ignored(rel string) bool {
	for _, pattern := range a.cfg.Ignore {
		if ok, err := doublestar.Match(pattern, rel); err == nil && ok {
			return true
		}
		// Also match the bare name so "target" ignores target/ anywhere.
		if ok, err := doublestar.Match(pattern, filepath.Base(rel)); err == nil && ok {
			return true
		}
	}
	return false
}

func relPath(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		rel = path
	}
	return filepath.ToSlash(rel)
}
