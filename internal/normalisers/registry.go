package normalisers

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/veridian-labs/docdex/internal/core/domain"
	"github.com/veridian-labs/docdex/internal/core/ports/driven"
)

// Ensure Registry implements the interface.
var _ driven.NormaliserRegistry = (*Registry)(nil)

// Registry dispatches raw documents to the highest-priority normaliser
// registered for their MIME type.
type Registry struct {
	mu          sync.RWMutex
	byMIMEType  map[string][]driven.Normaliser
	normalisers []driven.Normaliser
}

// NewRegistry creates an empty normaliser registry.
func NewRegistry() *Registry {
	return &Registry{
		byMIMEType: make(map[string][]driven.Normaliser),
	}
}

// Register adds a normaliser to the registry. Normalisers for the same
// MIME type are kept sorted by descending priority.
func (r *Registry) Register(normaliser driven.Normaliser) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.normalisers = append(r.normalisers, normaliser)
	for _, mimeType := range normaliser.SupportedMIMETypes() {
		candidates := append(r.byMIMEType[mimeType], normaliser)
		sort.SliceStable(candidates, func(i, j int) bool {
			return candidates[i].Priority() > candidates[j].Priority()
		})
		r.byMIMEType[mimeType] = candidates
	}
}

// Normalise transforms a raw document using the best matching normaliser.
// Returns ErrUnsupportedType when no normaliser handles the MIME type.
func (r *Registry) Normalise(ctx context.Context, raw *domain.RawDocument) (*driven.NormaliseResult, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	r.mu.RLock()
	candidates := r.byMIMEType[raw.MIMEType]
	r.mu.RUnlock()

	if len(candidates) == 0 {
		return nil, fmt.Errorf("no normaliser for %q: %w", raw.MIMEType, domain.ErrUnsupportedType)
	}

	return candidates[0].Normalise(ctx, raw)
}

// SupportedMIMETypes returns all MIME types that can be normalised.
func (r *Registry) SupportedMIMETypes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	mimeTypes := make([]string, 0, len(r.byMIMEType))
	for mimeType := range r.byMIMEType {
		mimeTypes = append(mimeTypes, mimeType)
	}
	sort.Strings(mimeTypes)
	return mimeTypes
}
