package cartsync

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/pawmart/cart-service/internal/cart"
	"github.com/pawmart/cart-service/internal/session"
)

const defaultPushTimeout = 5 * time.Second

// Syncer pushes cart snapshots to the remote store in the background.
// It consumes a store subscription, so pushes are detached from the
// mutation path: a mutation returns before, and regardless of, the
// push. Push failures are logged and dropped — they never roll back a
// local mutation and never reach the shopper mid-edit.
type Syncer struct {
	gw      Gateway
	timeout time.Duration
}

func NewSyncer(gw Gateway) *Syncer {
	return &Syncer{gw: gw, timeout: defaultPushTimeout}
}

// Run pushes every snapshot arriving on ch until ctx is cancelled or
// the subscription is closed. Guest sessions are never synced; Run
// returns immediately for them.
func (s *Syncer) Run(ctx context.Context, sess session.Session, ch <-chan cart.Cart) {
	if sess.Guest() {
		return
	}

	for {
		select {
		case <-ctx.Done():
			return
		case snapshot, ok := <-ch:
			if !ok {
				return
			}
			s.push(ctx, sess.UserID, snapshot)
		}
	}
}

func (s *Syncer) push(ctx context.Context, userID string, c cart.Cart) {
	pushCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if err := s.gw.Push(pushCtx, userID, c); err != nil {
		log.Warn().Err(err).Str("user_id", userID).Int("items", c.ItemCount()).Msg("cart sync push failed, keeping local state")
		return
	}
	log.Debug().Str("user_id", userID).Int("items", c.ItemCount()).Msg("cart synced to remote store")
}
