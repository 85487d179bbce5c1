package curate

import (
	"fmt"
	"reflect"
	"strings"
	"testing"

	"mongrate/internal/codebase"
)

var entitySources = map[string]string{
	"Customer.java": `package com.shop.model;

import javax.persistence.Entity;
import javax.persistence.OneToMany;
import com.shop.order.Order;

/**
 * A registered customer.
 */
@Entity
public class Customer {
    private List<Order> orders;

    @OneToMany(mappedBy = "customer")
    public List<Order> getOrders() {
        return orders;
    }
}
`,
	"Order.java": `package com.shop.order;

import javax.persistence.Entity;
import javax.persistence.ManyToOne;
import com.shop.model.Customer;

@Entity
public class Order {
    private Customer customer;

    @ManyToOne
    public Customer getCustomer() {
        return customer;
    }
}
`,
	"Invoice.java": `package com.shop.billing;

import javax.persistence.Entity;

@Entity
public class Invoice {
    private String number;
}
`,
}

func mapReader(t *testing.T) func(string) ([]byte, error) {
	t.Helper()
	return func(path string) ([]byte, error) {
		src, ok := entitySources[path]
		if !ok {
			return nil, fmt.Errorf("no such file: %s", path)
		}
		return []byte(src), nil
	}
}

func shopSummary() *codebase.Summary {
	return &codebase.Summary{
		ProjectPath: "/shop",
		Entities: []codebase.Entity{
			{Name: "Customer", Description: "A registered customer.", File: "Customer.java"},
			{Name: "Order", Description: "No description available", File: "Order.java"},
			{Name: "Invoice", Description: "No description available", File: "Invoice.java"},
		},
	}
}

func TestBuildEntities(t *testing.T) {
	ctx := New(mapReader(t)).Build(shopSummary())

	if len(ctx.Entities) != 3 {
		t.Fatalf("entities = %d, want 3", len(ctx.Entities))
	}

	customer := ctx.Entities[0]
	if customer.Name != "Customer" {
		t.Errorf("name = %q", customer.Name)
	}
	if customer.Package != "com.shop.model" {
		t.Errorf("package = %q", customer.Package)
	}
	if !reflect.DeepEqual(customer.Annotations, []string{"@Entity"}) {
		t.Errorf("annotations = %v", customer.Annotations)
	}
	wantImports := []string{"javax.persistence.Entity", "javax.persistence.OneToMany", "com.shop.order.Order"}
	if !reflect.DeepEqual(customer.Imports, wantImports) {
		t.Errorf("imports = %v", customer.Imports)
	}
	// Extraction runs on comment-stripped source, so the Javadoc never
	// reaches the curated description.
	if customer.Description != "No description available" {
		t.Errorf("description = %q", customer.Description)
	}
}

func TestBuildAnnotationIndex(t *testing.T) {
	ctx := New(mapReader(t)).Build(shopSummary())

	want := map[string][]string{"@Entity": {"Customer", "Order", "Invoice"}}
	if !reflect.DeepEqual(ctx.Annotations, want) {
		t.Errorf("annotation index = %v, want %v", ctx.Annotations, want)
	}
}

func TestBuildRelationships(t *testing.T) {
	ctx := New(mapReader(t)).Build(shopSummary())

	want := []Relationship{
		{Type: "@OneToMany", FromEntity: "Customer", ToEntity: "Order"},
		{Type: "@ManyToOne", FromEntity: "Order", ToEntity: "Customer"},
	}
	if !reflect.DeepEqual(ctx.Relationships, want) {
		t.Errorf("relationships = %v, want %v", ctx.Relationships, want)
	}
}

func TestBuildRelationshipPerImportLine(t *testing.T) {
	// Every import line containing the other entity's name yields its own
	// edge, so a helper import alongside the entity import doubles up.
	sources := map[string]string{
		"Order.java": `import javax.persistence.ManyToOne;
import com.example.entity.Customer;
import com.example.util.CustomerHelper;

@Entity
public class Order {
    @ManyToOne
    public Customer getCustomer() { return customer; }
}
`,
		"Customer.java": "@Entity\npublic class Customer {}\n",
	}
	reader := func(path string) ([]byte, error) { return []byte(sources[path]), nil }

	summary := &codebase.Summary{Entities: []codebase.Entity{
		{Name: "Order", File: "Order.java"},
		{Name: "Customer", File: "Customer.java"},
	}}

	ctx := New(reader).Build(summary)
	want := []Relationship{
		{Type: "@ManyToOne", FromEntity: "Order", ToEntity: "Customer"},
		{Type: "@ManyToOne", FromEntity: "Order", ToEntity: "Customer"},
	}
	if !reflect.DeepEqual(ctx.Relationships, want) {
		t.Errorf("relationships = %v, want %v", ctx.Relationships, want)
	}
}

func TestBuildRelationshipRequiresImport(t *testing.T) {
	// B appears as a field type but is never imported, so no edge exists.
	sources := map[string]string{
		"A.java": "@Entity\npublic class A {\n  private List<B> bs;\n\n  @OneToMany\n  public List<B> getBs() { return bs; }\n}\n",
		"B.java": "@Entity\npublic class B {}\n",
	}
	reader := func(path string) ([]byte, error) { return []byte(sources[path]), nil }

	summary := &codebase.Summary{Entities: []codebase.Entity{
		{Name: "A", File: "A.java"},
		{Name: "B", File: "B.java"},
	}}

	ctx := New(reader).Build(summary)
	if len(ctx.Relationships) != 0 {
		t.Errorf("relationships = %v, want none", ctx.Relationships)
	}
}

func TestBuildMethodAnnotationRelationship(t *testing.T) {
	// A relationship annotation on an accessor counts the same as one on
	// the class declaration.
	sources := map[string]string{
		"A.java": "import com.example.B;\n\n@Entity\npublic class A {\n  @OneToMany\n  public List<B> getBs() { return bs; }\n}\n",
		"B.java": "@Entity\npublic class B {}\n",
	}
	reader := func(path string) ([]byte, error) { return []byte(sources[path]), nil }

	summary := &codebase.Summary{Entities: []codebase.Entity{
		{Name: "A", File: "A.java"},
		{Name: "B", File: "B.java"},
	}}

	ctx := New(reader).Build(summary)
	want := []Relationship{{Type: "@OneToMany", FromEntity: "A", ToEntity: "B"}}
	if !reflect.DeepEqual(ctx.Relationships, want) {
		t.Errorf("relationships = %v, want %v", ctx.Relationships, want)
	}
}

func TestBuildIgnoresCommentedAnnotationsAndImports(t *testing.T) {
	sources := map[string]string{
		"A.java": `// import com.example.B;

@Entity
public class A {
    /* @OneToMany */
    private List<B> bs;

    @ManyToOne
    public B getB() { return b; }
}
`,
		"B.java": "import com.example.A;\n\n@Entity\npublic class B {}\n",
	}
	reader := func(path string) ([]byte, error) { return []byte(sources[path]), nil }

	summary := &codebase.Summary{Entities: []codebase.Entity{
		{Name: "A", File: "A.java"},
		{Name: "B", File: "B.java"},
	}}

	ctx := New(reader).Build(summary)
	if len(ctx.Relationships) != 0 {
		t.Errorf("relationships = %v, want none", ctx.Relationships)
	}
	if len(ctx.Entities) != 2 {
		t.Fatalf("entities = %d, want 2", len(ctx.Entities))
	}
	if len(ctx.Entities[0].Imports) != 0 {
		t.Errorf("commented import extracted: %v", ctx.Entities[0].Imports)
	}
}

func TestBuildSkipsUnreadable(t *testing.T) {
	summary := &codebase.Summary{Entities: []codebase.Entity{
		{Name: "Ghost", File: "Ghost.java"},
		{Name: "Invoice", File: "Invoice.java"},
	}}

	ctx := New(mapReader(t)).Build(summary)
	if len(ctx.Entities) != 1 || ctx.Entities[0].Name != "Invoice" {
		t.Errorf("entities = %+v", ctx.Entities)
	}
}

func TestContextJSON(t *testing.T) {
	ctx := New(mapReader(t)).Build(shopSummary())

	data, err := ctx.JSON()
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{
		`"type": "@OneToMany"`,
		`"from_entity": "Customer"`,
		`"to_entity": "Order"`,
		`"package": "com.shop.model"`,
	} {
		if !strings.Contains(string(data), want) {
			t.Errorf("JSON missing %q", want)
		}
	}
}
