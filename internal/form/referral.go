package form

import (
	"strings"

	"leadcrm/internal/crm"
)

// FocusState is the typeahead's input-focus state machine. Transitions are
// driven by discrete events (Focus, Input, Select, Dismiss) so the
// click-vs-blur race has a deterministic outcome: a selection that has begun
// committing always wins over a dismiss.
type FocusState int

const (
	StateIdle FocusState = iota
	StateSuggesting
	StateCommitting
)

// Resolver reconciles free-text "referred by" input against the loaded
// partner list. A selection pins a partner id to the text; any further typing
// drops the id and reverts to free-text mode.
type Resolver struct {
	partners []crm.User

	state     FocusState
	text      string
	partnerID *int64
	matches   []crm.User
}

// NewResolver creates an empty resolver. Partners arrive later, whenever the
// lookup fetch resolves.
func NewResolver() *Resolver {
	return &Resolver{}
}

// SetPartners installs the loaded partner list.
func (r *Resolver) SetPartners(partners []crm.User) {
	r.partners = partners
}

// State returns the current focus state.
func (r *Resolver) State() FocusState { return r.state }

// Text returns the current referred-by text.
func (r *Resolver) Text() string { return r.text }

// PartnerID returns the attached partner id, or nil in free-text mode.
func (r *Resolver) PartnerID() *int64 { return r.partnerID }

// Suggestions returns the currently matching partners.
func (r *Resolver) Suggestions() []crm.User { return r.matches }

// Focus re-runs the filter over existing text and opens the suggestion list
// if anything matches.
func (r *Resolver) Focus() {
	if r.state == StateCommitting {
		return
	}
	r.refilter()
}

// Input records typed text. Typing always clears the attached partner id;
// the text itself is preserved as typed.
func (r *Resolver) Input(text string) {
	r.text = text
	r.partnerID = nil
	r.refilter()
}

// Select commits a suggestion: the text becomes the partner's full name, the
// id is attached, and the suggestion list closes.
func (r *Resolver) Select(p crm.User) {
	r.BeginCommit()
	r.CompleteCommit(p)
}

// BeginCommit marks that a suggestion click/enter is in flight. While in
// StateCommitting, Dismiss is ignored, so the pending selection lands even if
// a blur arrives first.
func (r *Resolver) BeginCommit() {
	if r.state == StateSuggesting {
		r.state = StateCommitting
	}
}

// CompleteCommit finishes a pending selection.
func (r *Resolver) CompleteCommit(p crm.User) {
	r.text = p.FullName
	id := p.UserID
	r.partnerID = &id
	r.matches = nil
	r.state = StateIdle
}

// Dismiss closes the suggestion list (blur, escape). A dismiss racing a
// selection loses: in StateCommitting this is a no-op.
func (r *Resolver) Dismiss() {
	if r.state == StateCommitting {
		return
	}
	r.matches = nil
	r.state = StateIdle
}

// Prefill installs existing text (edit mode) without opening suggestions,
// and auto-attaches a partner whose full name matches exactly,
// case-insensitively.
func (r *Resolver) Prefill(text string) {
	r.text = text
	r.partnerID = nil
	r.matches = nil
	r.state = StateIdle
	r.AttachExactMatch()
}

// AttachExactMatch re-checks the current text against the partner list and
// attaches the id on an exact case-insensitive name match. Called after
// either the text or the partner list changes outside of typing.
func (r *Resolver) AttachExactMatch() {
	if r.text == "" {
		return
	}
	for _, p := range r.partners {
		if strings.EqualFold(p.FullName, r.text) {
			id := p.UserID
			r.partnerID = &id
			return
		}
	}
}

// Force pins the resolver to a fixed identity (Referral Partner users refer
// as themselves; the field is read-only for them).
func (r *Resolver) Force(name string, userID int64) {
	r.text = name
	id := userID
	r.partnerID = &id
	r.matches = nil
	r.state = StateIdle
}

func (r *Resolver) refilter() {
	r.matches = nil
	needle := strings.ToLower(strings.TrimSpace(r.text))
	if needle != "" {
		for _, p := range r.partners {
			if strings.Contains(strings.ToLower(p.FullName), needle) {
				r.matches = append(r.matches, p)
			}
		}
	}
	if len(r.matches) > 0 {
		r.state = StateSuggesting
	} else {
		r.state = StateIdle
	}
}
