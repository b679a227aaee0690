package kitchen

import (
	"context"
	"errors"
	"fmt"

	"github.com/hammamikhairi/nutriveda/internal/domain"
	"github.com/hammamikhairi/nutriveda/internal/merge"
)

// errStale aborts a load whose session has been replaced.
var errStale = errors.New("session changed during load")

// Bind reads the provider's current session, applies it and follows its
// events until the returned func is called. A failing provider leaves the
// controller in the absent session.
func (c *Controller) Bind(ctx context.Context, p domain.SessionProvider) func() {
	c.mu.Lock()
	if c.provider == nil {
		c.provider = p
	}
	c.mu.Unlock()

	unsubscribe := p.Subscribe(func(s domain.Session) {
		c.SetSession(ctx, s)
	})

	s, err := p.CurrentSession(ctx)
	if err != nil {
		c.log.Warn("identity provider unavailable, continuing without session: %v", err)
		s = domain.Session{}
	}
	c.SetSession(ctx, s)
	return unsubscribe
}

// SetSession switches the controller to s. Guest and absent sessions reset
// to defaults. A new authenticated user resets, then loads profile, saved
// recipes and shopping list from the store before SetSession returns. An
// event repeating the current guest session, or naming the already loaded
// user, only replaces the session.
func (c *Controller) SetSession(ctx context.Context, s domain.Session) {
	c.setSession(ctx, s, false)
}

func (c *Controller) setSession(ctx context.Context, s domain.Session, force bool) {
	c.mu.Lock()
	if s.IsGuest() {
		if !force && c.state.Ready && s == c.state.Session {
			c.log.Debug("session %s unchanged, keeping local state", s.Mode())
			c.commit()
			return
		}
		c.gen++
		c.resetLocked(s)
		c.state.Ready = true
		c.log.Debug("session is %s, local only", s.Mode())
		c.commit()
		return
	}
	if s.UserID == c.loadedUser {
		c.state.Session = s
		c.commit()
		return
	}

	c.gen++
	gen := c.gen
	c.resetLocked(s)
	c.loadedUser = s.UserID
	c.commit()

	c.load(ctx, s.UserID, gen)
}

// Logout signs out of the provider and resets to the absent session, even
// when the controller was already in it.
func (c *Controller) Logout(ctx context.Context) {
	c.mu.Lock()
	p := c.provider
	c.mu.Unlock()
	if p != nil {
		if err := p.SignOut(ctx); err != nil {
			c.log.Warn("sign out failed: %v", err)
		}
	}
	c.setSession(ctx, domain.Session{}, true)
}

func (c *Controller) load(ctx context.Context, userID string, gen uint64) {
	err := c.loadRecords(ctx, userID, gen)
	if errors.Is(err, errStale) {
		c.log.Debug("discarding load for %s: %v", userID, err)
		return
	}
	c.metrics.InitialLoad(err)
	if err != nil {
		c.log.Error("initial load for %s: %v", userID, err)
	} else {
		c.log.Info("loaded records for %s", userID)
	}

	c.mu.Lock()
	if c.gen != gen {
		c.mu.Unlock()
		return
	}
	c.state.Ready = true
	c.commit()
}

// loadRecords runs the load sequence. Each step is applied as soon as it
// succeeds; the first failure stops the sequence and keeps what was
// applied.
func (c *Controller) loadRecords(ctx context.Context, userID string, gen uint64) error {
	if c.store == nil {
		return fmt.Errorf("load: %w: no remote store", domain.ErrNotConfigured)
	}

	profile, err := c.store.GetProfile(ctx, userID)
	if err != nil {
		return fmt.Errorf("get profile: %w", err)
	}
	// An absent profile keeps the defaults.
	if err := c.applyLoad(gen, func(s *State) {
		if profile != nil {
			s.Profile = s.Profile.Overlay(*profile)
		}
	}); err != nil {
		return err
	}

	saved, err := c.store.GetSavedRecipes(ctx, userID)
	if err != nil {
		return fmt.Errorf("get saved recipes: %w", err)
	}
	if err := c.applyLoad(gen, func(s *State) {
		s.Recipes = merge.Merge(c.catalog, saved)
	}); err != nil {
		return err
	}

	list, err := c.store.GetShoppingList(ctx, userID)
	if err != nil {
		return fmt.Errorf("get shopping list: %w", err)
	}
	return c.applyLoad(gen, func(s *State) {
		s.Shopping = append([]domain.ShoppingItem{}, list...)
	})
}

func (c *Controller) applyLoad(gen uint64, fn func(*State)) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gen != gen {
		return errStale
	}
	fn(&c.state)
	return nil
}
