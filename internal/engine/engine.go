// Package engine implements the per-session decision-tree state machine.
package engine

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"time"

	"github.com/cewiley/NACCIT-Intake/internal/domain"
	"github.com/cewiley/NACCIT-Intake/internal/session"
	"github.com/cewiley/NACCIT-Intake/internal/tree"
)

// Engine creates sessions and advances them through the tree. All
// read-modify-write of a given session happens under that session's lock,
// so concurrent requests for the same id cannot interleave.
type Engine struct {
	store session.Store
	tree  *tree.Tree
}

// New creates an engine over the given store and tree definition.
func New(store session.Store, t *tree.Tree) *Engine {
	return &Engine{store: store, tree: t}
}

// Tree returns the tree definition the engine walks.
func (e *Engine) Tree() *tree.Tree {
	return e.tree
}

// Create starts a new session from an intake form. It fails with
// domain.ErrMissingFields if any intake field is empty. On success the
// session is stored in active status at the start node, with the
// transcript seeded by a system message and the intake summary.
func (e *Engine) Create(intake domain.Intake) (*domain.Session, *tree.Node, error) {
	if !intake.Valid() {
		return nil, nil, domain.ErrMissingFields
	}

	id, err := newSessionID()
	if err != nil {
		return nil, nil, err
	}

	now := time.Now()
	sess := &domain.Session{
		ID:           id,
		Intake:       intake,
		Status:       domain.StatusActive,
		NodeID:       tree.StartNodeID,
		CreatedAt:    now,
		LastActiveAt: now,
	}
	sess.Append(domain.RoleSystem, "Decision tree troubleshooting session started.")
	sess.Append(domain.RoleUser, sess.IntakeSummary())

	e.store.Put(sess)
	slog.Info("Session created", "session_id", id)

	return sess, e.tree.Lookup(sess.NodeID), nil
}

// Advance applies a user turn to an active session: an optional freeform
// message, an optional option choice, or both. It returns the node the
// session is positioned at afterwards.
//
// Fails with domain.ErrSessionNotFound if the session is absent or not
// active, and domain.ErrInvalidOption if choiceID is not offered by the
// current node; in both cases session state is untouched.
func (e *Engine) Advance(sessionID, choiceID, message string) (*tree.Node, error) {
	unlock := e.store.Lock(sessionID)
	defer unlock()

	sess := e.store.Get(sessionID)
	if sess == nil || sess.Status != domain.StatusActive {
		return nil, domain.ErrSessionNotFound
	}

	if choiceID != "" {
		current := e.tree.Lookup(sess.NodeID)
		opt, ok := current.Option(choiceID)
		if !ok {
			return nil, domain.ErrInvalidOption
		}

		// Free text and option selection are independent signals, but the
		// message is only recorded once the turn is known to be valid.
		if message != "" {
			sess.Append(domain.RoleUser, message)
		}

		// First choice made from the start node fixes the issue type for
		// the life of the session.
		if sess.NodeID == tree.StartNodeID && sess.IssueType == "" {
			sess.IssueType = opt.ID
		}

		sess.Append(domain.RoleAssistant, "Selected: "+opt.Label)
		sess.NodeID = opt.Next
	} else if message != "" {
		sess.Append(domain.RoleUser, message)
	}

	if sess.NodeID == tree.ResolvedNodeID {
		sess.Status = domain.StatusResolved
		slog.Info("Session resolved", "session_id", sessionID)
	}
	e.store.Touch(sessionID, time.Now())

	return e.tree.Lookup(sess.NodeID), nil
}

// newSessionID returns 16 random bytes hex encoded.
func newSessionID() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate session id: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
