// Package drawing stores drawings and serves them over HTTP.
package drawing

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

var ErrNotFound = errors.New("drawing not found")

// Record is one stored drawing. Document holds the persisted JSON layout.
type Record struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Document  json.RawMessage `json:"-"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// Store persists drawings. Get, Update and Delete return ErrNotFound for
// unknown ids.
type Store interface {
	Create(ctx context.Context, r *Record) error
	Get(ctx context.Context, id string) (*Record, error)
	List(ctx context.Context) ([]Record, error)
	Update(ctx context.Context, id string, doc json.RawMessage) (*Record, error)
	Delete(ctx context.Context, id string) error
}
