// Package heuristic implements the text-based classification policy used to
// identify JPA entities, repository interfaces, and database configurations
// in raw Java source.
//
// The policy works on plain text with regular expressions and marker
// substrings rather than on a parse tree. Known precision limits: a marker
// inside a string literal or comment still counts, and nested generics and
// multi-line method signatures are not matched reliably.
package heuristic

import (
	"fmt"
	"regexp"
	"strings"

	"mongrate/internal/codebase"
)

// NoDescription is the sentinel used when an entity has no usable Javadoc.
const NoDescription = "No description available"

var (
	lineCommentRe  = regexp.MustCompile(`//.*`)
	blockCommentRe = regexp.MustCompile(`(?s)/\*.*?\*/`)

	importRe    = regexp.MustCompile(`import\s+([^;]+);`)
	packageRe   = regexp.MustCompile(`package\s+([^;]+);`)
	classNameRe = regexp.MustCompile(`(?:public|private|protected)?\s+class\s+(\w+)`)

	// Repositories are interfaces, so the interface form is tried when no
	// class declaration matches.
	interfaceNameRe = regexp.MustCompile(`(?:public|private|protected)?\s+interface\s+(\w+)`)

	// Leading annotations (optionally parenthesized), a visibility modifier, a
	// return type (possibly generic), then an identifier followed by "(".
	methodRe     = regexp.MustCompile(`((?:@\w+(?:\([^)]*\))?\s*)*)\s*(?:public|private|protected)?\s+(?:\w+(?:<[^>]+>)?\s+)+(\w+)\s*\([^)]*\)`)
	annotationRe = regexp.MustCompile(`@\w+(?:\([^)]*\))?`)

	classAnnotationsRe = regexp.MustCompile(`((?:@\w+(?:\([^)]*\))?\s*)*)\s*(?:public|private|protected)?\s+class`)

	javadocRe       = regexp.MustCompile(`(?s)/\*\*(.*?)\*/`)
	repoGenericRe   = regexp.MustCompile(`Repository<(\w+)`)
	datasourceURLRe = regexp.MustCompile(`spring\.datasource\.url=(.*)`)
)

// TextPolicy is the default substring/regex classification policy.
type TextPolicy struct {
	EntityMarker      string
	RepositoryMarkers []string
}

// NewTextPolicy returns a policy with the standard JPA markers.
func NewTextPolicy() *TextPolicy {
	return &TextPolicy{
		EntityMarker:      "@Entity",
		RepositoryMarkers: []string{"Repository", "CrudRepository", "JpaRepository"},
	}
}

// RemoveComments strips line and block comments from Java source. Javadoc is
// a block comment, so description extraction must run before stripping.
func (p *TextPolicy) RemoveComments(code string) string {
	code = lineCommentRe.ReplaceAllString(code, "")
	return blockCommentRe.ReplaceAllString(code, "")
}

// ExtractImports returns the trimmed import statements found in the source.
func (p *TextPolicy) ExtractImports(code string) []string {
	var imports []string
	for _, m := range importRe.FindAllStringSubmatch(code, -1) {
		imports = append(imports, strings.TrimSpace(m[1]))
	}
	return imports
}

// ExtractPackage returns the package declaration, or false if absent.
func (p *TextPolicy) ExtractPackage(code string) (string, bool) {
	m := packageRe.FindStringSubmatch(code)
	if m == nil {
		return "", false
	}
	return strings.TrimSpace(m[1]), true
}

// ExtractClassName returns the first class name declared in the source, or,
// failing that, the first interface name.
func (p *TextPolicy) ExtractClassName(code string) (string, bool) {
	if m := classNameRe.FindStringSubmatch(code); m != nil {
		return m[1], true
	}
	if m := interfaceNameRe.FindStringSubmatch(code); m != nil {
		return m[1], true
	}
	return "", false
}

// ExtractMethods scans for method declarations and their leading annotations.
// Annotations keep their argument lists. The scan is approximate: nested
// generics and signatures spanning lines may be missed.
func (p *TextPolicy) ExtractMethods(code string) []codebase.Method {
	var methods []codebase.Method
	for _, m := range methodRe.FindAllStringSubmatch(code, -1) {
		var annotations []string
		for _, ann := range annotationRe.FindAllString(m[1], -1) {
			annotations = append(annotations, strings.TrimSpace(ann))
		}
		methods = append(methods, codebase.Method{
			Name:        m[2],
			Annotations: annotations,
		})
	}
	return methods
}

// ExtractClassAnnotations returns the annotations directly preceding the
// class declaration, argument lists included.
func (p *TextPolicy) ExtractClassAnnotations(code string) []string {
	m := classAnnotationsRe.FindStringSubmatch(code)
	if m == nil {
		return nil
	}
	var annotations []string
	for _, ann := range annotationRe.FindAllString(m[1], -1) {
		annotations = append(annotations, strings.TrimSpace(ann))
	}
	return annotations
}

// ExtractEntity classifies the source as a JPA entity if it contains the
// entity marker anywhere in the text. The description is the first Javadoc
// line that is neither empty, a tag, nor an author credit.
func (p *TextPolicy) ExtractEntity(code string) (codebase.Entity, bool) {
	if !strings.Contains(code, p.EntityMarker) {
		return codebase.Entity{}, false
	}

	name, ok := p.ExtractClassName(code)
	if !ok {
		return codebase.Entity{}, false
	}

	description := NoDescription
	if m := javadocRe.FindStringSubmatch(code); m != nil {
		for _, line := range strings.Split(strings.TrimSpace(m[1]), "\n") {
			line = strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(line), "*"))
			if line != "" && !strings.HasPrefix(line, "@") && !strings.HasPrefix(line, "Author") {
				description = line
				break
			}
		}
	}

	return codebase.Entity{
		Name:        name,
		Description: description,
		Annotations: p.ExtractClassAnnotations(code),
	}, true
}

// ExtractRepository classifies the source as a repository interface if any of
// the repository markers appears in the text. The managed entity type comes
// from the first generic parameter after a marker; "Unknown" when absent.
func (p *TextPolicy) ExtractRepository(code string) (codebase.Repository, bool) {
	found := false
	for _, marker := range p.RepositoryMarkers {
		if strings.Contains(code, marker) {
			found = true
			break
		}
	}
	if !found {
		return codebase.Repository{}, false
	}

	name, ok := p.ExtractClassName(code)
	if !ok {
		return codebase.Repository{}, false
	}

	entityType := "Unknown"
	if m := repoGenericRe.FindStringSubmatch(code); m != nil {
		entityType = m[1]
	}

	return codebase.Repository{
		Name:       name,
		EntityType: entityType,
		Methods:    p.ExtractMethods(code),
	}, true
}

// ExtractDatabaseConfig classifies datasource configuration in properties or
// YAML files and in @Configuration classes. Type priority for datasource URLs
// is mysql, then postgresql, then h2; the first substring found wins.
func (p *TextPolicy) ExtractDatabaseConfig(code, path string) (codebase.DatabaseConfig, bool) {
	if strings.HasSuffix(path, ".properties") || strings.HasSuffix(path, ".yml") || strings.HasSuffix(path, ".yaml") {
		return p.extractPropertiesConfig(code)
	}
	if strings.Contains(code, "@Configuration") {
		return p.extractConfigurationClass(code)
	}
	return codebase.DatabaseConfig{}, false
}

func (p *TextPolicy) extractPropertiesConfig(code string) (codebase.DatabaseConfig, bool) {
	if !strings.Contains(code, "spring.datasource.url") {
		return codebase.DatabaseConfig{}, false
	}

	m := datasourceURLRe.FindStringSubmatch(code)
	if m == nil {
		return codebase.DatabaseConfig{}, false
	}
	url := strings.TrimSpace(m[1])

	var dbType string
	switch {
	case strings.Contains(url, "mysql"):
		dbType = codebase.DBMySQL
	case strings.Contains(url, "postgresql"):
		dbType = codebase.DBPostgreSQL
	case strings.Contains(url, "h2"):
		dbType = codebase.DBH2
	default:
		return codebase.DatabaseConfig{}, false
	}

	properties := map[string]string{"url": url}
	for _, prop := range []string{"username", "password", "driver-class-name"} {
		re := regexp.MustCompile(fmt.Sprintf(`spring\.datasource\.%s=(.*)`, regexp.QuoteMeta(prop)))
		if pm := re.FindStringSubmatch(code); pm != nil {
			properties[prop] = strings.TrimSpace(pm[1])
		}
	}

	return codebase.DatabaseConfig{
		Type:       dbType,
		URL:        url,
		Username:   properties["username"],
		Properties: properties,
	}, true
}

func (p *TextPolicy) extractConfigurationClass(code string) (codebase.DatabaseConfig, bool) {
	if !strings.Contains(code, "DataSource") {
		return codebase.DatabaseConfig{}, false
	}
	if strings.Contains(code, "HikariConfig") {
		return codebase.DatabaseConfig{Type: codebase.DBHikari, Properties: map[string]string{}}, true
	}
	if strings.Contains(code, "EmbeddedDatabaseBuilder") {
		return codebase.DatabaseConfig{Type: codebase.DBH2, Properties: map[string]string{}}, true
	}
	return codebase.DatabaseConfig{}, false
}
