// Package javaparse parses Java source files with tree-sitter and produces
// the structural view of classes, methods, and annotations consumed by the
// analyzer.
package javaparse

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
	java "github.com/tree-sitter/tree-sitter-java/bindings/go"

	"mongrate/internal/codebase"
)

// Parser parses Java source into codebase structures. The zero value is
// ready to use; a Parser is safe for concurrent use because each parse
// allocates its own tree-sitter parser.
type Parser struct{}

// New creates a Parser.
func New() *Parser {
	return &Parser{}
}

// Details is the deep per-file view produced by ParseDetails. It carries
// everything ParseFile does plus the package declaration, imports, and
// per-class fields keyed by class name.
type Details struct {
	Package string
	Imports []string
	Classes []codebase.Class
	Fields  map[string][]codebase.Field
}

// ParseFile parses src and returns the classes declared in it. Interface
// declarations are reported as classes so repository interfaces flow through
// classification. A file whose parse tree contains errors is reported with
// no classes.
func (p *Parser) ParseFile(path string, src []byte) codebase.FileInfo {
	info := codebase.FileInfo{File: path}

	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(sitter.NewLanguage(java.Language()))

	tree := parser.Parse(src, nil)
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		return info
	}

	for i := range root.ChildCount() {
		child := root.Child(i)
		switch child.Kind() {
		case "class_declaration", "interface_declaration":
			if class, ok := p.parseClass(child, src); ok {
				info.Classes = append(info.Classes, class)
			}
		}
	}

	return info
}

// ParseDetails parses src including package, imports, and fields. This is
// the deeper entity-analysis variant; fields are recorded only for classes
// annotated Entity.
func (p *Parser) ParseDetails(path string, src []byte) Details {
	details := Details{Fields: make(map[string][]codebase.Field)}

	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(sitter.NewLanguage(java.Language()))

	tree := parser.Parse(src, nil)
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		return details
	}

	for i := range root.ChildCount() {
		child := root.Child(i)
		switch child.Kind() {
		case "package_declaration":
			details.Package = packageName(child, src)
		case "import_declaration":
			if imp := importPath(child, src); imp != "" {
				details.Imports = append(details.Imports, imp)
			}
		case "class_declaration", "interface_declaration":
			class, ok := p.parseClass(child, src)
			if !ok {
				continue
			}
			details.Classes = append(details.Classes, class)
			if isEntityClass(class) {
				details.Fields[class.Name] = p.parseFields(child, src)
			}
		}
	}

	return details
}

func isEntityClass(class codebase.Class) bool {
	for _, ann := range class.Annotations {
		if ann == "Entity" {
			return true
		}
	}
	return false
}

func (p *Parser) parseClass(node *sitter.Node, src []byte) (codebase.Class, bool) {
	name := node.ChildByFieldName("name")
	if name == nil {
		return codebase.Class{}, false
	}

	class := codebase.Class{
		Name:        nodeText(name, src),
		Annotations: annotations(node, src),
	}

	body := node.ChildByFieldName("body")
	if body != nil {
		for i := range body.ChildCount() {
			member := body.Child(i)
			if member.Kind() != "method_declaration" {
				continue
			}
			if method, ok := p.parseMethod(member, src); ok {
				class.Methods = append(class.Methods, method)
			}
		}
	}

	return class, true
}

func (p *Parser) parseMethod(node *sitter.Node, src []byte) (codebase.Method, bool) {
	name := node.ChildByFieldName("name")
	if name == nil {
		return codebase.Method{}, false
	}

	method := codebase.Method{
		Name:        nodeText(name, src),
		Annotations: annotations(node, src),
	}
	if typ := node.ChildByFieldName("type"); typ != nil {
		method.ReturnType = nodeText(typ, src)
	}

	return method, true
}

func (p *Parser) parseFields(node *sitter.Node, src []byte) []codebase.Field {
	body := node.ChildByFieldName("body")
	if body == nil {
		return nil
	}

	var fields []codebase.Field
	for i := range body.ChildCount() {
		member := body.Child(i)
		if member.Kind() != "field_declaration" {
			continue
		}

		typ := member.ChildByFieldName("type")
		declarator := findChildByKind(member, "variable_declarator")
		if typ == nil || declarator == nil {
			continue
		}
		name := declarator.ChildByFieldName("name")
		if name == nil {
			continue
		}

		fields = append(fields, codebase.Field{
			Name:        nodeText(name, src),
			Type:        nodeText(typ, src),
			Annotations: annotations(member, src),
		})
	}

	return fields
}

// annotations collects annotation names from a declaration's modifiers
// node. Only the name identifier is kept, so @Table(name = "orders")
// records as "Table".
func annotations(node *sitter.Node, src []byte) []string {
	modifiers := findChildByKind(node, "modifiers")
	if modifiers == nil {
		return nil
	}

	var result []string
	for i := range modifiers.ChildCount() {
		child := modifiers.Child(i)
		switch child.Kind() {
		case "marker_annotation", "annotation":
			if name := child.ChildByFieldName("name"); name != nil {
				result = append(result, nodeText(name, src))
			}
		}
	}
	return result
}

func packageName(node *sitter.Node, src []byte) string {
	for i := range node.ChildCount() {
		child := node.Child(i)
		switch child.Kind() {
		case "scoped_identifier", "identifier":
			return nodeText(child, src)
		}
	}
	return ""
}

func importPath(node *sitter.Node, src []byte) string {
	for i := range node.ChildCount() {
		child := node.Child(i)
		switch child.Kind() {
		case "scoped_identifier", "identifier":
			return nodeText(child, src)
		}
	}
	return ""
}

func findChildByKind(node *sitter.Node, kind string) *sitter.Node {
	for i := range node.ChildCount() {
		child := node.Child(i)
		if child.Kind() == kind {
			return child
		}
	}
	return nil
}

func nodeText(node *sitter.Node, src []byte) string {
	return string(src[node.StartByte():node.EndByte()])
}
