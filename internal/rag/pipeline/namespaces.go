package pipeline

import (
	"context"
	"errors"
	"sort"

	"vectorbridge/internal/rag/interfaces"
	"vectorbridge/internal/rag/schema"
)

// ErrNoNamespace is returned when an introspection call that requires a
// namespace name is invoked without one. This is a caller bug and is
// never swallowed, unlike a lookup of a namespace that simply does not
// exist yet.
var ErrNoNamespace = errors.New("no namespace value provided")

// NamespaceService answers namespace introspection questions. Every call
// derives from one live Stats query; nothing is cached process-wide.
type NamespaceService struct {
	index interfaces.VectorIndex
}

// NewNamespaceService creates a new NamespaceService.
func NewNamespaceService(index interfaces.VectorIndex) *NamespaceService {
	return &NamespaceService{index: index}
}

// Namespaces lists every namespace that has received a write, with its
// vector count, sorted by name for stable output.
func (s *NamespaceService) Namespaces(ctx context.Context) ([]schema.NamespaceInfo, error) {
	stats, err := s.index.Stats(ctx)
	if err != nil {
		return nil, err
	}

	infos := make([]schema.NamespaceInfo, 0, len(stats.Namespaces))
	for name, ns := range stats.Namespaces {
		infos = append(infos, schema.NamespaceInfo{Name: name, Count: ns.VectorCount})
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos, nil
}

// Namespace returns the named namespace, or nil (with no error) when it
// has never received a write.
func (s *NamespaceService) Namespace(ctx context.Context, name string) (*schema.NamespaceInfo, error) {
	if name == "" {
		return nil, ErrNoNamespace
	}

	stats, err := s.index.Stats(ctx)
	if err != nil {
		return nil, err
	}

	ns, ok := stats.Namespaces[name]
	if !ok {
		return nil, nil
	}
	return &schema.NamespaceInfo{Name: name, Count: ns.VectorCount}, nil
}

// NamespaceExists reports whether the named namespace holds any state.
func (s *NamespaceService) NamespaceExists(ctx context.Context, name string) (bool, error) {
	ns, err := s.Namespace(ctx, name)
	if err != nil {
		return false, err
	}
	return ns != nil, nil
}

// TotalVectors returns the vector count across all namespaces.
func (s *NamespaceService) TotalVectors(ctx context.Context) (int64, error) {
	stats, err := s.index.Stats(ctx)
	if err != nil {
		return 0, err
	}
	return stats.TotalRecordCount, nil
}

// Dimension returns the index's resolved vector dimension. The adapter has
// already substituted the configured fallback if the index reported none.
func (s *NamespaceService) Dimension(ctx context.Context) (int, error) {
	stats, err := s.index.Stats(ctx)
	if err != nil {
		return 0, err
	}
	return stats.Dimension, nil
}
