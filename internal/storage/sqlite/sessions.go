package sqlite

import (
	"context"
	"fmt"
	"time"
)

// RevokeSession records a logged-out token ID until its natural expiry and
// drops entries that have already expired.
func (s *Store) RevokeSession(ctx context.Context, tokenID string, expiresAt time.Time) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM revoked_sessions WHERE expires_at < ?`, time.Now().Unix()); err != nil {
		return fmt.Errorf("prune revoked sessions: %w", err)
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO revoked_sessions (token_id, expires_at) VALUES (?, ?) ON CONFLICT (token_id) DO NOTHING`,
		tokenID, expiresAt.Unix())
	if err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}
	return nil
}

// IsSessionRevoked reports whether the token ID was logged out.
func (s *Store) IsSessionRevoked(ctx context.Context, tokenID string) (bool, error) {
	var revoked bool
	err := s.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM revoked_sessions WHERE token_id = ?)`, tokenID).Scan(&revoked)
	if err != nil {
		return false, fmt.Errorf("check revoked session: %w", err)
	}
	return revoked, nil
}
