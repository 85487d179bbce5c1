package server

import (
	"reflect"
	"testing"

	"mongrate/internal/codebase"
	"mongrate/internal/config"
	"mongrate/internal/curate"
)

func testCurated() *curate.Context {
	return &curate.Context{
		Entities: []curate.Entity{
			{Name: "Customer", Package: "com.shop.model"},
			{Name: "Order", Package: "com.shop.model"},
			{Name: "Invoice", Package: "com.shop.billing"},
		},
		Relationships: []curate.Relationship{
			{Type: "@OneToMany", FromEntity: "Customer", ToEntity: "Order"},
			{Type: "@ManyToOne", FromEntity: "Order", ToEntity: "Customer"},
		},
	}
}

func TestNew(t *testing.T) {
	srv, err := New(config.Default())
	if err != nil {
		t.Fatal(err)
	}
	if srv.mcp == nil {
		t.Error("mcp server not initialized")
	}
}

func TestCurrentAndStore(t *testing.T) {
	srv, err := New(config.Default())
	if err != nil {
		t.Fatal(err)
	}

	if summary, curated := srv.current(); summary != nil || curated != nil {
		t.Error("fresh server should have no analysis")
	}

	summary := &codebase.Summary{ProjectPath: "/shop"}
	curated := testCurated()
	srv.store(summary, curated)

	gotSummary, gotCurated := srv.current()
	if gotSummary != summary || gotCurated != curated {
		t.Error("stored analysis not returned")
	}
}

func TestMatchesPackage(t *testing.T) {
	curated := testCurated()

	tests := []struct {
		name   string
		entity string
		pkg    string
		want   bool
	}{
		{"exact", "Customer", "com.shop.model", true},
		{"substring", "Customer", "shop.model", true},
		{"case insensitive", "Customer", "SHOP.MODEL", true},
		{"wrong package", "Invoice", "com.shop.model", false},
		{"unknown entity", "Ghost", "com.shop", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := matchesPackage(curated, tt.entity, tt.pkg); got != tt.want {
				t.Errorf("matchesPackage(%q, %q) = %v, want %v", tt.entity, tt.pkg, got, tt.want)
			}
		})
	}

	if matchesPackage(nil, "Customer", "com") {
		t.Error("nil context should never match")
	}
}

func TestRelationshipsFor(t *testing.T) {
	curated := testCurated()

	got := relationshipsFor(curated, "Customer")
	want := []curate.Relationship{
		{Type: "@OneToMany", FromEntity: "Customer", ToEntity: "Order"},
		{Type: "@ManyToOne", FromEntity: "Order", ToEntity: "Customer"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("relationshipsFor(Customer) = %v, want %v", got, want)
	}

	if rels := relationshipsFor(curated, "Invoice"); rels != nil {
		t.Errorf("relationshipsFor(Invoice) = %v, want none", rels)
	}
	if rels := relationshipsFor(nil, "Customer"); rels != nil {
		t.Errorf("relationshipsFor with nil context = %v", rels)
	}
}

func TestErrorResult(t *testing.T) {
	result := errorResult("boom")
	if !result.IsError {
		t.Error("IsError not set")
	}
	if len(result.Content) != 1 {
		t.Fatalf("content = %d items", len(result.Content))
	}
}
