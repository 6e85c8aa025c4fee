// Package activities serves the activity catalogue.
package activities

import (
	"context"

	"github.com/mergington/activities/internal/models"
	"github.com/mergington/activities/internal/store"
)

// Catalog reads every activity with its participant emails in signup order.
func Catalog(ctx context.Context, st store.Store) (map[string]models.CatalogEntry, error) {
	catalog := make(map[string]models.CatalogEntry)
	err := st.InTx(ctx, func(tx store.Tx) error {
		list, err := tx.ListActivities(ctx)
		if err != nil {
			return err
		}
		participants, err := tx.ListParticipants(ctx)
		if err != nil {
			return err
		}

		emails := make(map[int64][]string, len(list))
		for _, p := range participants {
			emails[p.ActivityID] = append(emails[p.ActivityID], p.Email)
		}
		for _, a := range list {
			entry := models.CatalogEntry{
				Description:     a.Description,
				Schedule:        a.Schedule,
				MaxParticipants: a.MaxParticipants,
				Participants:    emails[a.ID],
			}
			if entry.Participants == nil {
				entry.Participants = []string{}
			}
			catalog[a.Name] = entry
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return catalog, nil
}
