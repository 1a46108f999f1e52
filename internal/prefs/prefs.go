// Package prefs mirrors the client's display and sound preferences through
// the credential store's key-value surface.
package prefs

import (
	"context"
	"errors"
	"strconv"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/guessquest/client-go/internal/credstore"
)

type Mode string

const (
	ModeLight Mode = "light"
	ModeDark  Mode = "dark"
)

type Prefs struct {
	store credstore.Store

	mu         sync.RWMutex
	mode       Mode
	sound      bool
	animations bool
}

func New(store credstore.Store) *Prefs {
	return &Prefs{
		store:      store,
		mode:       ModeDark,
		sound:      true,
		animations: true,
	}
}

// Load restores persisted values. Missing keys keep their defaults; corrupt
// values are ignored.
func (p *Prefs) Load(ctx context.Context) error {
	if v, err := p.get(ctx, credstore.KeyMode); err != nil {
		return err
	} else if v == string(ModeLight) || v == string(ModeDark) {
		p.mu.Lock()
		p.mode = Mode(v)
		p.mu.Unlock()
	}

	for _, item := range []struct {
		key string
		dst func(bool)
	}{
		{credstore.KeySound, func(b bool) { p.sound = b }},
		{credstore.KeyAnimations, func(b bool) { p.animations = b }},
	} {
		v, err := p.get(ctx, item.key)
		if err != nil {
			return err
		}
		if v == "" {
			continue
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			log.Warn().Str("key", item.key).Str("value", v).Msg("ignoring corrupt preference")
			continue
		}
		p.mu.Lock()
		item.dst(b)
		p.mu.Unlock()
	}
	return nil
}

func (p *Prefs) get(ctx context.Context, key string) (string, error) {
	v, err := p.store.Get(ctx, key)
	if errors.Is(err, credstore.ErrNotFound) {
		return "", nil
	}
	return v, err
}

func (p *Prefs) Mode() Mode {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.mode
}

func (p *Prefs) SetMode(ctx context.Context, mode Mode) error {
	p.mu.Lock()
	p.mode = mode
	p.mu.Unlock()
	return p.store.Set(ctx, credstore.KeyMode, string(mode))
}

func (p *Prefs) ToggleMode(ctx context.Context) (Mode, error) {
	p.mu.Lock()
	if p.mode == ModeDark {
		p.mode = ModeLight
	} else {
		p.mode = ModeDark
	}
	mode := p.mode
	p.mu.Unlock()
	return mode, p.store.Set(ctx, credstore.KeyMode, string(mode))
}

func (p *Prefs) SoundEnabled() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.sound
}

func (p *Prefs) ToggleSound(ctx context.Context) (bool, error) {
	p.mu.Lock()
	p.sound = !p.sound
	v := p.sound
	p.mu.Unlock()
	return v, p.store.Set(ctx, credstore.KeySound, strconv.FormatBool(v))
}

func (p *Prefs) AnimationsEnabled() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.animations
}

func (p *Prefs) ToggleAnimations(ctx context.Context) (bool, error) {
	p.mu.Lock()
	p.animations = !p.animations
	v := p.animations
	p.mu.Unlock()
	return v, p.store.Set(ctx, credstore.KeyAnimations, strconv.FormatBool(v))
}
