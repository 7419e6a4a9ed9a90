package dynamo

import (
	"context"
	"time"

	"github.com/mendapp/mend/internal/domain"
	"github.com/mendapp/mend/internal/service/preferences"
)

type preferenceItem struct {
	PK            string `dynamodbav:"PK"`
	SK            string `dynamodbav:"SK"`
	CompanionMode string `dynamodbav:"CompanionMode"`
	UpdatedAt     string `dynamodbav:"UpdatedAt"`
}

// PreferenceStore implements preferences.Repository.
type PreferenceStore struct {
	t table
}

func NewPreferenceStore(api API, tableName string) *PreferenceStore {
	return &PreferenceStore{t: table{api: api, name: tableName}}
}

func (s *PreferenceStore) GetMode(ctx context.Context, userID string) (*domain.ModePreference, error) {
	var item preferenceItem
	found, err := s.t.get(ctx, userID, skPreference, &item)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, preferences.ErrNotFound
	}
	pref := &domain.ModePreference{UserID: userID, Mode: domain.Mode(item.CompanionMode)}
	if ts, err := time.Parse(time.RFC3339Nano, item.UpdatedAt); err == nil {
		pref.UpdatedAt = ts
	}
	return pref, nil
}

func (s *PreferenceStore) UpsertMode(ctx context.Context, pref *domain.ModePreference) error {
	return s.t.put(ctx, preferenceItem{
		PK:            userPK(pref.UserID),
		SK:            skPreference,
		CompanionMode: string(pref.Mode),
		UpdatedAt:     pref.UpdatedAt.UTC().Format(time.RFC3339Nano),
	})
}
