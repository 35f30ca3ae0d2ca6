package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/xaenox/chatlog-analytics/internal/models"
)

// Seeder is implemented by stores that accept bulk inserts.
type Seeder interface {
	Insert(ctx context.Context, events ...models.Event) error
}

// ReadEventsFile decodes a JSON array of events.
func ReadEventsFile(path string) ([]models.Event, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading seed file: %w", err)
	}

	var events []models.Event
	if err := json.Unmarshal(data, &events); err != nil {
		return nil, fmt.Errorf("error decoding seed file: %w", err)
	}
	return events, nil
}

// SeedFromFile loads a JSON fixture into the store and returns the number
// of events inserted.
func SeedFromFile(ctx context.Context, s Seeder, path string) (int, error) {
	events, err := ReadEventsFile(path)
	if err != nil {
		return 0, err
	}
	if err := s.Insert(ctx, events...); err != nil {
		return 0, err
	}
	return len(events), nil
}
