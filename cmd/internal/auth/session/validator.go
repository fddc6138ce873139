package session

import (
	"context"
	"errors"
	"time"
)

// Clock returns the current time. Tests substitute a controllable clock.
type Clock func() time.Time

// Validator checks bearer values against the session store.
type Validator struct {
	cfg   Config
	store Store
	now   Clock
}

// NewValidator builds a Validator. A nil clock uses time.Now.
func NewValidator(cfg Config, store Store, clock Clock) (*Validator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if store == nil {
		return nil, errors.New("session: nil store")
	}
	if clock == nil {
		clock = time.Now
	}
	return &Validator{cfg: cfg, store: store, now: clock}, nil
}

// Window returns the configured validity window.
func (v *Validator) Window() time.Duration { return v.cfg.ValidityWindow }

// Validate decodes raw and checks it against the stored session.
//
// Under ExpiryFixed a successful validation does not write to the store.
func (v *Validator) Validate(ctx context.Context, raw string) (Payload, error) {
	const op = "session.Validate"

	p, err := DecodePayload(raw)
	if err != nil {
		return Payload{}, err
	}

	lastUsed, ok, err := v.store.Find(ctx, p.AccountID, p.Token)
	if err != nil {
		return Payload{}, &Error{Op: op, Kind: KindInternal, Msg: "session lookup failed", Err: err}
	}
	if !ok {
		return Payload{}, &Error{Op: op, Kind: KindInvalidAuthToken, Msg: "no session matches this token"}
	}

	if v.now().Sub(lastUsed) > v.cfg.ValidityWindow {
		return Payload{}, &Error{Op: op, Kind: KindAuthTokenExpired, Msg: "session has expired"}
	}
	return p, nil
}
