package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// Flash kinds
const (
	FlashSuccess = "success"
	FlashError   = "error"
)

// Flash is a one-time message shown on the next rendered page
type Flash struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// SetFlash stores a message for the next page of this session, replacing any unread one
func (s *Store) SetFlash(ctx context.Context, sid string, f Flash) error {
	raw, err := json.Marshal(f)
	if err != nil {
		return fmt.Errorf("failed to encode flash: %w", err)
	}
	if err := s.backend.Set(ctx, flashKey(sid), string(raw), flashTTL); err != nil {
		return fmt.Errorf("failed to save flash: %w", err)
	}
	return nil
}

// PopFlash returns the pending message and removes it. It returns nil when none is pending.
func (s *Store) PopFlash(ctx context.Context, sid string) (*Flash, error) {
	raw, err := s.backend.Get(ctx, flashKey(sid))
	if errors.Is(err, ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read flash: %w", err)
	}

	if err := s.backend.Del(ctx, flashKey(sid)); err != nil {
		return nil, fmt.Errorf("failed to clear flash: %w", err)
	}

	var f Flash
	if err := json.Unmarshal([]byte(raw), &f); err != nil {
		return nil, nil
	}
	return &f, nil
}
