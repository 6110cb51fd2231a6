// Package repository implements persistence for gateway references.
//
// A gateway reference is issued by the SMS gateway when it accepts a message and
// is the only correlation key carried by later delivery reports. Repositories
// record reference → notification id at dispatch time so delivery reports can be
// published with the notification id they belong to.
//
// # Implementations
//
//   - Memory: process-local store backed by patrickmn/go-cache with expiry
//   - Redis: shared store using SETNX with expiry
//   - PostgreSQL and MySQL: durable stores in the gateway_references table
//
// # Uniqueness
//
// The gateway documents references as unique. Every implementation enforces it:
// saving the same reference for the same notification is a no-op, saving it for
// a different notification fails with domain.ErrReferenceConflict and keeps the
// first mapping.
package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/allisson/sms-relay/internal/sms/domain"
)

// checkExisting compares a stored mapping with the one being saved.
func checkExisting(existing *domain.GatewayReference, notificationID uuid.UUID) error {
	if existing.NotificationID != notificationID {
		return domain.ErrReferenceConflict
	}
	return nil
}

// lookupFunc loads the stored mapping for a reference.
type lookupFunc func(ctx context.Context, reference string) (*domain.GatewayReference, error)

// resolveConflict is called after an insert that did not store anything because
// the reference already existed.
func resolveConflict(ctx context.Context, lookup lookupFunc, ref *domain.GatewayReference) error {
	existing, err := lookup(ctx, ref.Reference)
	if err != nil {
		return err
	}
	return checkExisting(existing, ref.NotificationID)
}
