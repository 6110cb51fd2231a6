package repository

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/allisson/sms-relay/internal/sms/domain"
)

// MemoryReferenceRepository keeps gateway references in process memory. It is
// suitable for a single replica; references expire after the configured TTL.
type MemoryReferenceRepository struct {
	cache *cache.Cache
}

// NewMemoryReferenceRepository creates a store whose entries expire after ttl.
func NewMemoryReferenceRepository(ttl time.Duration) *MemoryReferenceRepository {
	return &MemoryReferenceRepository{cache: cache.New(ttl, ttl/2+time.Minute)}
}

// Save records the reference. Add is atomic, so concurrent saves of the same
// reference leave exactly one mapping.
func (m *MemoryReferenceRepository) Save(ctx context.Context, ref *domain.GatewayReference) error {
	stored := *ref
	if err := m.cache.Add(ref.Reference, &stored, cache.DefaultExpiration); err == nil {
		return nil
	}
	return resolveConflict(ctx, m.Get, ref)
}

// Get returns the mapping for reference or domain.ErrReferenceNotFound.
func (m *MemoryReferenceRepository) Get(ctx context.Context, reference string) (*domain.GatewayReference, error) {
	value, found := m.cache.Get(reference)
	if !found {
		return nil, domain.ErrReferenceNotFound
	}
	stored := *value.(*domain.GatewayReference)
	return &stored, nil
}
