package pipeline

import (
	"context"
	"errors"
	"testing"

	"vectorbridge/internal/rag/schema"
)

func statsFixture() *schema.IndexStats {
	return &schema.IndexStats{
		Dimension:        1536,
		TotalRecordCount: 30,
		Namespaces: map[string]schema.NamespaceStats{
			"workspace-b": {VectorCount: 10},
			"workspace-a": {VectorCount: 20},
		},
	}
}

func TestNamespacesListsSorted(t *testing.T) {
	s := NewNamespaceService(&fakeIndex{stats: statsFixture()})

	infos, err := s.Namespaces(context.Background())
	if err != nil {
		t.Fatalf("Namespaces() error = %v", err)
	}
	if len(infos) != 2 {
		t.Fatalf("expected 2 namespaces, got %d", len(infos))
	}
	if infos[0].Name != "workspace-a" || infos[0].Count != 20 {
		t.Errorf("unexpected first namespace: %+v", infos[0])
	}
	if infos[1].Name != "workspace-b" || infos[1].Count != 10 {
		t.Errorf("unexpected second namespace: %+v", infos[1])
	}
}

func TestNamespaceLookup(t *testing.T) {
	s := NewNamespaceService(&fakeIndex{stats: statsFixture()})

	ns, err := s.Namespace(context.Background(), "workspace-a")
	if err != nil {
		t.Fatalf("Namespace() error = %v", err)
	}
	if ns == nil || ns.Count != 20 {
		t.Errorf("unexpected namespace: %+v", ns)
	}

	// A namespace that never received a write is nil, not an error.
	ns, err = s.Namespace(context.Background(), "nonexistent")
	if err != nil {
		t.Fatalf("Namespace() error = %v", err)
	}
	if ns != nil {
		t.Errorf("expected nil for unknown namespace, got %+v", ns)
	}
}

func TestNamespaceRequiresName(t *testing.T) {
	s := NewNamespaceService(&fakeIndex{stats: statsFixture()})

	if _, err := s.Namespace(context.Background(), ""); !errors.Is(err, ErrNoNamespace) {
		t.Errorf("expected ErrNoNamespace, got %v", err)
	}
	if _, err := s.NamespaceExists(context.Background(), ""); !errors.Is(err, ErrNoNamespace) {
		t.Errorf("expected ErrNoNamespace from NamespaceExists, got %v", err)
	}
}

func TestNamespaceExists(t *testing.T) {
	s := NewNamespaceService(&fakeIndex{stats: statsFixture()})

	exists, err := s.NamespaceExists(context.Background(), "workspace-b")
	if err != nil {
		t.Fatalf("NamespaceExists() error = %v", err)
	}
	if !exists {
		t.Error("expected workspace-b to exist")
	}

	exists, err = s.NamespaceExists(context.Background(), "nonexistent")
	if err != nil {
		t.Fatalf("NamespaceExists() error = %v", err)
	}
	if exists {
		t.Error("expected nonexistent namespace to not exist")
	}
}

func TestTotalVectorsAndDimension(t *testing.T) {
	s := NewNamespaceService(&fakeIndex{stats: statsFixture()})

	total, err := s.TotalVectors(context.Background())
	if err != nil {
		t.Fatalf("TotalVectors() error = %v", err)
	}
	if total != 30 {
		t.Errorf("expected 30 total vectors, got %d", total)
	}

	dim, err := s.Dimension(context.Background())
	if err != nil {
		t.Fatalf("Dimension() error = %v", err)
	}
	if dim != 1536 {
		t.Errorf("expected dimension 1536, got %d", dim)
	}
}

func TestNamespaceStatsErrorPropagates(t *testing.T) {
	s := NewNamespaceService(&fakeIndex{statsErr: errors.New("index not ready")})

	if _, err := s.Namespaces(context.Background()); err == nil {
		t.Error("expected stats error to propagate from Namespaces")
	}
	if _, err := s.Namespace(context.Background(), "any"); err == nil {
		t.Error("expected stats error to propagate from Namespace")
	}
}
