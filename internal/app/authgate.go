package app

import (
	"context"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/partyline/partyline/internal/domain"
)

// AuthGate decides admission rights. Pure over its inputs; its only side
// effect is the anti-timing-oracle delay on the private non-creator path.
type AuthGate struct {
	delay time.Duration
}

func NewAuthGate(delay time.Duration) *AuthGate {
	return &AuthGate{delay: delay}
}

// Authorize returns whether the joiner is admin, or one of
// ErrPasswordRequired / ErrWrongPassword. The creator-key and public
// paths answer immediately. On the private path the timer starts before
// the password is even looked at, so password-required and
// wrong-password take the same minimum time as a successful check.
func (g *AuthGate) Authorize(ctx context.Context, room *domain.Room, creatorKey, password string) (bool, error) {
	if creatorKey != "" && creatorKey == room.CreatorKey {
		return true, nil
	}
	if !room.IsPrivate {
		return false, nil
	}

	timer := time.NewTimer(g.delay)
	var verdict error
	switch {
	case password == "":
		verdict = ErrPasswordRequired
	case bcrypt.CompareHashAndPassword([]byte(room.PasswordHash), []byte(password)) != nil:
		verdict = ErrWrongPassword
	}

	select {
	case <-timer.C:
	case <-ctx.Done():
		timer.Stop()
		return false, ctx.Err()
	}
	return false, verdict
}
