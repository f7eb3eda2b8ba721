// Package matching implements homeowner identity matching against the
// tenant's person directory.
package matching

import (
	"context"

	"github.com/Gobusters/ectologger"

	"github.com/Ramsey-B/aster/pkg/models"
	"github.com/Ramsey-B/aster/pkg/normalizers"
)

// LookupIndex is an in-memory snapshot of the person directory keyed by
// normalized identifiers. It is built once before a run and never mutated
// afterwards, so persons created mid-run are invisible to later rows.
// The maps resolve to person IDs.
type LookupIndex struct {
	Email      map[string]string
	Phone      map[string]string
	ExternalID map[string]string
}

// IndexBuilder builds lookup indexes from person directory pages
type IndexBuilder struct {
	logger ectologger.Logger
}

// NewIndexBuilder creates a new index builder
func NewIndexBuilder(logger ectologger.Logger) *IndexBuilder {
	return &IndexBuilder{logger: logger}
}

// Build constructs a LookupIndex over the given persons. Identifier
// collisions keep the first person seen; later claimants are dropped and
// logged. Input order therefore decides who owns a shared identifier.
func (b *IndexBuilder) Build(ctx context.Context, persons []models.Person) LookupIndex {
	log := b.logger.WithContext(ctx)

	idx := LookupIndex{
		Email:      make(map[string]string),
		Phone:      make(map[string]string),
		ExternalID: make(map[string]string),
	}

	for _, person := range persons {
		for _, email := range person.Emails {
			key := normalizers.NormalizeEmail(email)
			if key == "" {
				continue
			}
			if prev, taken := setFirstSeen(idx.Email, key, person.ID); taken {
				log.WithFields(map[string]any{
					"email":      key,
					"kept_id":    prev,
					"dropped_id": person.ID,
				}).Debug("Email already indexed, keeping first person seen")
			}
		}

		for _, phone := range person.Phones {
			normalized := normalizers.NormalizePhone(phone)
			if !normalized.HasCanonical() {
				continue
			}
			key := *normalized.Canonical
			if prev, taken := setFirstSeen(idx.Phone, key, person.ID); taken {
				log.WithFields(map[string]any{
					"phone":      key,
					"kept_id":    prev,
					"dropped_id": person.ID,
				}).Debug("Phone already indexed, keeping first person seen")
			}
		}

		if person.ExternalID != nil && *person.ExternalID != "" {
			if prev, taken := setFirstSeen(idx.ExternalID, *person.ExternalID, person.ID); taken {
				log.WithFields(map[string]any{
					"external_id": *person.ExternalID,
					"kept_id":     prev,
					"dropped_id":  person.ID,
				}).Debug("External id already indexed, keeping first person seen")
			}
		}
	}

	log.WithFields(map[string]any{
		"email_keys":       len(idx.Email),
		"phone_keys":       len(idx.Phone),
		"external_id_keys": len(idx.ExternalID),
	}).Debug("Built person lookup index")

	return idx
}

// setFirstSeen inserts key only if absent. It returns the existing person ID
// and true when the key was already claimed.
func setFirstSeen(m map[string]string, key, personID string) (string, bool) {
	if prev, ok := m[key]; ok {
		return prev, true
	}
	m[key] = personID
	return "", false
}
