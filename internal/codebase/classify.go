package codebase

import (
	"log"
	"os"
	"path/filepath"
	"strings"
)

// Classifier derives entity and repository records from raw Java source text.
// Implementations are heuristic policies; a miss is (zero value, false), not an
// error.
type Classifier interface {
	ExtractEntity(code string) (Entity, bool)
	ExtractRepository(code string) (Repository, bool)
}

// ReadFileFunc reads a file's content. It exists so Classify can be tested
// without touching the filesystem.
type ReadFileFunc func(path string) ([]byte, error)

// Classify re-reads every parsed file and populates Entities and Repositories.
// Unreadable files are skipped. Appends are guarded by a (name, file)
// existence check, so calling Classify more than once never duplicates
// records.
func (s *Summary) Classify(c Classifier, readFile ReadFileFunc) {
	if readFile == nil {
		readFile = os.ReadFile
	}

	for _, fi := range s.Files {
		data, err := readFile(fi.File)
		if err != nil {
			log.Printf("[codebase] skipping unreadable file %s: %v", fi.File, err)
			continue
		}
		code := string(data)

		if e, ok := c.ExtractEntity(code); ok {
			e.File = fi.File
			if !s.hasEntity(e.Name, e.File) {
				s.Entities = append(s.Entities, e)
			}
		}

		if r, ok := c.ExtractRepository(code); ok {
			r.File = fi.File
			if !s.hasRepository(r.Name, r.File) {
				s.Repositories = append(s.Repositories, r)
			}
		}
	}
}

func (s *Summary) hasEntity(name, file string) bool {
	for _, e := range s.Entities {
		if e.Name == name && e.File == file {
			return true
		}
	}
	return false
}

func (s *Summary) hasRepository(name, file string) bool {
	for _, r := range s.Repositories {
		if r.Name == name && r.File == file {
			return true
		}
	}
	return false
}

// EntitiesByPackage groups entities by the first path segment below the
// project root.
func (s *Summary) EntitiesByPackage() map[string][]Entity {
	groups := make(map[string][]Entity)
	for _, e := range s.Entities {
		pkg := s.packageOf(e.File)
		groups[pkg] = append(groups[pkg], e)
	}
	return groups
}

// RepositoriesByEntityType groups repositories by the entity type they manage.
func (s *Summary) RepositoriesByEntityType() map[string][]Repository {
	groups := make(map[string][]Repository)
	for _, r := range s.Repositories {
		groups[r.EntityType] = append(groups[r.EntityType], r)
	}
	return groups
}

// DatabaseConfigsByType groups database configurations by type.
func (s *Summary) DatabaseConfigsByType() map[string][]DatabaseConfig {
	groups := make(map[string][]DatabaseConfig)
	for _, c := range s.DatabaseConfigs {
		groups[c.Type] = append(groups[c.Type], c)
	}
	return groups
}

// EntityByName returns the first entity with the given name, or false.
func (s *Summary) EntityByName(name string) (Entity, bool) {
	for _, e := range s.Entities {
		if e.Name == name {
			return e, true
		}
	}
	return Entity{}, false
}

// RepositoriesForEntity returns all repositories managing the given entity type.
func (s *Summary) RepositoriesForEntity(entityType string) []Repository {
	var result []Repository
	for _, r := range s.Repositories {
		if r.EntityType == entityType {
			result = append(result, r)
		}
	}
	return result
}

// DatabaseConfig returns the first configuration of the given type, or false.
func (s *Summary) DatabaseConfig(dbType string) (DatabaseConfig, bool) {
	for _, c := range s.DatabaseConfigs {
		if c.Type == dbType {
			return c, true
		}
	}
	return DatabaseConfig{}, false
}

// packageOf derives a package label from a file path by stripping the project
// root prefix and taking the first remaining segment.
func (s *Summary) packageOf(file string) string {
	rel := strings.TrimPrefix(file, s.ProjectPath)
	rel = strings.TrimLeft(filepath.ToSlash(rel), "/")
	if rel == "" {
		return ""
	}
	return strings.SplitN(rel, "/", 2)[0]
}
