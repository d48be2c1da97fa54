// Package state persists adopted sessions under the client home directory,
// together with at most one unconfirmed transition per session.
package state

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	errorsmod "cosmossdk.io/errors"

	"zkuno/internal/game"
	"zkuno/internal/types"
)

// FileName is the sessions file inside the home directory.
const FileName = "sessions.json"

// State is the on-disk document. It holds salts, so the file is private to
// the user. Pending holds the next session of a transition that was proven
// but not yet confirmed by the ledger; the adopted entry keeps the hand and
// salt that open the commitment the ledger still holds.
type State struct {
	Sessions map[string]game.Session `json:"sessions"`
	Pending  map[string]game.Session `json:"pending,omitempty"`
}

func NewState() *State {
	return &State{Sessions: map[string]game.Session{}, Pending: map[string]game.Session{}}
}

// Store reads and writes State under a home directory.
type Store struct {
	home string
}

func NewStore(home string) *Store {
	return &Store{home: home}
}

func (s *Store) Path() string {
	return filepath.Join(s.home, FileName)
}

// Load returns the saved state, or an empty one when nothing was saved yet.
func (s *Store) Load() (*State, error) {
	b, err := os.ReadFile(s.Path())
	if err != nil {
		if os.IsNotExist(err) {
			return NewState(), nil
		}
		return nil, fmt.Errorf("read state: %w", err)
	}
	var st State
	if err := json.Unmarshal(b, &st); err != nil {
		return nil, fmt.Errorf("decode state: %w", err)
	}
	if st.Sessions == nil {
		st.Sessions = map[string]game.Session{}
	}
	if st.Pending == nil {
		st.Pending = map[string]game.Session{}
	}
	return &st, nil
}

// Save writes st atomically with mode 0600.
func (s *Store) Save(st *State) error {
	if err := os.MkdirAll(s.home, 0o700); err != nil {
		return fmt.Errorf("mkdir home: %w", err)
	}
	b, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}
	tmp, err := os.CreateTemp(s.home, FileName+".*")
	if err != nil {
		return fmt.Errorf("write state: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		return fmt.Errorf("write state: %w", err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return fmt.Errorf("write state: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write state: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.Path()); err != nil {
		return fmt.Errorf("write state: %w", err)
	}
	return nil
}

func key(id uint32) string { return strconv.FormatUint(uint64(id), 10) }

// Get returns the adopted session with the given id.
func (s *Store) Get(id uint32) (game.Session, error) {
	st, err := s.Load()
	if err != nil {
		return game.Session{}, err
	}
	sess, ok := st.Sessions[key(id)]
	if !ok {
		return game.Session{}, errorsmod.Wrapf(types.ErrInvalidTransition, "session %d not found in %s", id, s.Path())
	}
	return sess, nil
}

// Put records an adopted session, replacing any earlier state for its id.
func (s *Store) Put(sess game.Session) error {
	st, err := s.Load()
	if err != nil {
		return err
	}
	st.Sessions[key(sess.ID)] = sess.Clone()
	return s.Save(st)
}

// Delete forgets a session and any pending transition for it.
func (s *Store) Delete(id uint32) error {
	st, err := s.Load()
	if err != nil {
		return err
	}
	delete(st.Sessions, key(id))
	delete(st.Pending, key(id))
	return s.Save(st)
}

// PutPending records next as the unconfirmed successor of an adopted
// session. The adopted session is left as is.
func (s *Store) PutPending(next game.Session) error {
	st, err := s.Load()
	if err != nil {
		return err
	}
	if _, ok := st.Sessions[key(next.ID)]; !ok {
		return errorsmod.Wrapf(types.ErrInvalidTransition, "session %d not found in %s", next.ID, s.Path())
	}
	if _, ok := st.Pending[key(next.ID)]; ok {
		return errorsmod.Wrapf(types.ErrInvalidTransition, "session %d already has a pending transition", next.ID)
	}
	st.Pending[key(next.ID)] = next.Clone()
	return s.Save(st)
}

// GetPending returns the unconfirmed successor of a session, if any.
func (s *Store) GetPending(id uint32) (game.Session, bool, error) {
	st, err := s.Load()
	if err != nil {
		return game.Session{}, false, err
	}
	sess, ok := st.Pending[key(id)]
	return sess, ok, nil
}

// Promote adopts the pending transition of a session once the ledger has
// accepted it.
func (s *Store) Promote(id uint32) (game.Session, error) {
	st, err := s.Load()
	if err != nil {
		return game.Session{}, err
	}
	next, ok := st.Pending[key(id)]
	if !ok {
		return game.Session{}, errorsmod.Wrapf(types.ErrInvalidTransition, "session %d has no pending transition", id)
	}
	st.Sessions[key(id)] = next
	delete(st.Pending, key(id))
	return next, s.Save(st)
}

// Discard drops the pending transition of a session, e.g. after the ledger
// rejected it.
func (s *Store) Discard(id uint32) error {
	st, err := s.Load()
	if err != nil {
		return err
	}
	if _, ok := st.Pending[key(id)]; !ok {
		return errorsmod.Wrapf(types.ErrInvalidTransition, "session %d has no pending transition", id)
	}
	delete(st.Pending, key(id))
	return s.Save(st)
}

// IDs returns the stored session ids in ascending order.
func (s *Store) IDs() ([]uint32, error) {
	st, err := s.Load()
	if err != nil {
		return nil, err
	}
	ids := make([]uint32, 0, len(st.Sessions))
	for k := range st.Sessions {
		id, err := strconv.ParseUint(k, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("decode state: bad session key %q", k)
		}
		ids = append(ids, uint32(id))
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}
