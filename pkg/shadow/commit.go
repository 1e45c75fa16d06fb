// Package shadow is the tree-builder side of text-input state
// reconciliation. It owns the commit point through which both writers
// hand off fully-formed immutable states, and the declarative rebuild
// path that replaces content when props change.
package shadow

import (
	"sync"

	"github.com/go-drift/textstate/pkg/bridge"
	"github.com/go-drift/textstate/pkg/inputstate"
	"github.com/go-drift/textstate/pkg/styledtext"
)

// ContentPatch builds a tree-origin patch replacing the content and
// paragraph attributes from declarative props. The attributes are
// validated; an inconsistent value fails with a ValidationError and no
// patch is produced.
func ContentPatch(content styledtext.AttributedString, attributes styledtext.ParagraphAttributes) (inputstate.PartialPatch, error) {
	if err := attributes.Validate(); err != nil {
		return inputstate.PartialPatch{}, err
	}
	return inputstate.PartialPatch{
		Origin:              inputstate.OriginTree,
		Content:             &content,
		ParagraphAttributes: &attributes,
	}, nil
}

// CommitPoint is the single-writer/single-reader handoff between the
// tree builder and the live widget. Each generation holds one immutable
// VersionedState; transitions are serialized here, so the two producers
// never share mutable state.
type CommitPoint struct {
	mu             sync.Mutex
	state          inputstate.VersionedState
	lastEventCount int64
	listeners      map[int]func(inputstate.VersionedState)
	nextListenerID int

	// deliverMu serializes listener delivery in commit order. It is
	// acquired before mu is released, so notifications cannot overtake
	// each other even when two writers race.
	deliverMu sync.Mutex
}

// NewCommitPoint creates a commit point holding the initial mount state.
func NewCommitPoint(initial inputstate.VersionedState) *CommitPoint {
	return &CommitPoint{
		state:          initial,
		lastEventCount: initial.EventCount,
		listeners:      make(map[int]func(inputstate.VersionedState)),
	}
}

// State returns the current generation's state.
func (c *CommitPoint) State() inputstate.VersionedState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Commit applies a tree-origin rebuild: a full content and paragraph
// attribute replacement driven by a prop change. Event count and cache
// id carry over from the current generation.
func (c *CommitPoint) Commit(content styledtext.AttributedString, attributes styledtext.ParagraphAttributes) (inputstate.VersionedState, error) {
	patch, err := ContentPatch(content, attributes)
	if err != nil {
		return inputstate.VersionedState{}, err
	}

	c.mu.Lock()
	next := inputstate.Derive(c.state, patch)
	c.state = next
	c.publish(next)
	return next, nil
}

// ApplyPatch decodes a raw live-edit payload against the current
// generation and applies it. A patch whose event count is behind one
// already applied is stale and dropped (applied == false); an equal
// count still applies, since forced relayouts reuse the current count
// while updating the cache id or theme padding. A malformed payload is
// dropped with the error propagated; the current state stays
// authoritative either way.
func (c *CommitPoint) ApplyPatch(raw bridge.Payload) (inputstate.VersionedState, bool, error) {
	c.mu.Lock()
	patch, err := inputstate.DecodePatch(raw, c.state)
	if err != nil {
		current := c.state
		c.mu.Unlock()
		return current, false, err
	}
	if patch.EventCount != nil && *patch.EventCount < c.lastEventCount {
		current := c.state
		c.mu.Unlock()
		return current, false, nil
	}
	next := inputstate.Derive(c.state, patch)
	c.state = next
	c.lastEventCount = next.EventCount
	c.publish(next)
	return next, true, nil
}

// AddListener registers a callback invoked with each newly committed
// state. Callbacks are delivered one at a time in commit order, so a
// listener that blocks stalls delivery, and a listener must not apply
// patches or commits synchronously. Returns an unsubscribe function.
func (c *CommitPoint) AddListener(fn func(inputstate.VersionedState)) func() {
	c.mu.Lock()
	id := c.nextListenerID
	c.nextListenerID++
	c.listeners[id] = fn
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		delete(c.listeners, id)
		c.mu.Unlock()
	}
}

// publish delivers the new state to all registered listeners. Called
// with mu held; deliverMu is taken before mu is released so racing
// transitions deliver in the order they committed, and listeners still
// run outside the state lock.
func (c *CommitPoint) publish(state inputstate.VersionedState) {
	listeners := make([]func(inputstate.VersionedState), 0, len(c.listeners))
	for _, fn := range c.listeners {
		listeners = append(listeners, fn)
	}
	c.deliverMu.Lock()
	c.mu.Unlock()

	for _, fn := range listeners {
		fn(state)
	}
	c.deliverMu.Unlock()
}
