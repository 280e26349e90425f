// Package taxonomy implements C4: an append-only, time-indexed mapping
// from account identifiers to characters, queried by binary search, with
// strict temporal monotonicity and per-snapshot character uniqueness
// (spec.md §3 "Taxonomy history", §4.4).
//
// Concurrency follows the teacher's core.Graph two-mutex discipline
// (core/types.go): a dedicated RWMutex guards the snapshot slice so
// History.Update (writer) and CharacterFor/PathToWord (readers) can run
// as the engine's single-writer lock (spec.md §5) intends — readers
// never block each other.
package taxonomy

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// ErrNonMonotonic indicates Update was called with a transaction number
// not strictly greater than the last snapshot's, committed or tentative.
var ErrNonMonotonic = errors.New("taxonomy: transaction number is not strictly increasing")

// ErrCharacterCollision indicates two accounts would share a character
// within the same snapshot.
var ErrCharacterCollision = errors.New("taxonomy: character collision within snapshot")

// ErrFrozenModification indicates an attempt to alter a snapshot already
// marked committed.
var ErrFrozenModification = errors.New("taxonomy: snapshot is committed and immutable")

// ErrIncompletePath indicates a path endpoint has no character mapping
// at the requested transaction number.
var ErrIncompletePath = errors.New("taxonomy: path endpoint has no character at this transaction number")

// AccountID identifies an account. Never empty.
type AccountID string

// Allocator is the character-set manager contract taxonomy calls through
// when a mapping entry requests auto-allocation (nil character). Package
// charset's *Manager implements it; taxonomy never imports charset
// directly, keeping the one-concern-per-package discipline the teacher's
// core/dfs/matrix split also follows.
type Allocator interface {
	Allocate(setName string) (rune, error)
}

// snapshot is an immutable record once committed.
type snapshot struct {
	txNumber  int64
	mapping   map[AccountID]rune
	committed bool
}

// History is the ordered sequence of taxonomy snapshots for one engine.
type History struct {
	mu        sync.RWMutex
	snapshots []*snapshot
	allocator Allocator
	setName   string
}

// NewHistory constructs an empty taxonomy history. allocator may be nil
// if character_auto_allocate is disabled; setName is the charset.Manager
// set name consulted for auto-allocation requests.
func NewHistory(allocator Allocator, setName string) *History {
	return &History{allocator: allocator, setName: setName}
}

// Update appends a new snapshot at txNumber, derived from the previous
// snapshot (if any) plus the given mappings. A nil rune value in
// mappings requests auto-allocation via the configured Allocator; a
// present rune pins that account to that character. Returns the
// resulting full mapping for txNumber.
//
// Fails with ErrFrozenModification if a committed snapshot already
// exists at txNumber, otherwise with ErrNonMonotonic if txNumber <= the
// last snapshot's number. Fails with ErrCharacterCollision if the resulting mapping would give
// two accounts the same character. The last snapshot is never mutated
// in place — it is only consulted: committed immutability (spec.md §4.4)
// is therefore structural, not merely policy. Commit marks the previous
// snapshot committed only once the caller calls MarkCommitted; Update
// itself never mutates a prior entry.
func (h *History) Update(mappings map[AccountID]*rune, txNumber int64) (map[AccountID]rune, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if idx := h.find(txNumber); idx >= 0 && h.snapshots[idx].committed {
		return nil, fmt.Errorf("%w: transaction number %d", ErrFrozenModification, txNumber)
	}
	if len(h.snapshots) > 0 {
		last := h.snapshots[len(h.snapshots)-1]
		if txNumber <= last.txNumber {
			return nil, fmt.Errorf("%w: got %d, last was %d", ErrNonMonotonic, txNumber, last.txNumber)
		}
	}

	next := make(map[AccountID]rune)
	if len(h.snapshots) > 0 {
		for acct, ch := range h.snapshots[len(h.snapshots)-1].mapping {
			next[acct] = ch
		}
	}

	used := make(map[rune]AccountID, len(next))
	for acct, ch := range next {
		used[ch] = acct
	}

	// Deterministic processing order keeps collision errors reproducible.
	accts := make([]AccountID, 0, len(mappings))
	for acct := range mappings {
		accts = append(accts, acct)
	}
	sort.Slice(accts, func(i, j int) bool { return accts[i] < accts[j] })

	for _, acct := range accts {
		chPtr := mappings[acct]
		var ch rune
		if chPtr == nil {
			if h.allocator == nil {
				return nil, fmt.Errorf("taxonomy: account %q requests auto-allocation but no allocator is configured", acct)
			}
			allocated, err := h.allocator.Allocate(h.setName)
			if err != nil {
				return nil, fmt.Errorf("taxonomy: auto-allocate for %q: %w", acct, err)
			}
			ch = allocated
		} else {
			ch = *chPtr
		}

		if owner, exists := used[ch]; exists && owner != acct {
			return nil, fmt.Errorf("%w: %q and %q both map to %q", ErrCharacterCollision, owner, acct, string(ch))
		}
		if prev, existed := next[acct]; existed {
			delete(used, prev)
		}
		next[acct] = ch
		used[ch] = acct
	}

	h.snapshots = append(h.snapshots, &snapshot{txNumber: txNumber, mapping: next})

	out := make(map[AccountID]rune, len(next))
	for k, v := range next {
		out[k] = v
	}
	return out, nil
}

// MarkCommitted marks the snapshot at txNumber as committed, making any
// future Update at the same txNumber fail with ErrFrozenModification.
// Used by package pipeline once a transaction using this snapshot has
// actually committed (spec.md §4.9 step 4).
func (h *History) MarkCommitted(txNumber int64) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	idx := h.find(txNumber)
	if idx < 0 {
		return fmt.Errorf("taxonomy: no snapshot at transaction number %d", txNumber)
	}
	h.snapshots[idx].committed = true
	return nil
}

// Rollback drops the snapshot at txNumber, provided it was never marked
// committed. Used by package pipeline to undo a tentative snapshot when
// a transaction is rejected (spec.md §4.9 step 5).
func (h *History) Rollback(txNumber int64) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	idx := h.find(txNumber)
	if idx < 0 {
		return fmt.Errorf("taxonomy: no snapshot at transaction number %d", txNumber)
	}
	if h.snapshots[idx].committed {
		return fmt.Errorf("%w: transaction number %d", ErrFrozenModification, txNumber)
	}
	if idx != len(h.snapshots)-1 {
		return fmt.Errorf("taxonomy: can only roll back the most recent snapshot")
	}
	h.snapshots = h.snapshots[:idx]
	return nil
}

// find returns the index of the snapshot with the given txNumber, or -1.
func (h *History) find(txNumber int64) int {
	for i := len(h.snapshots) - 1; i >= 0; i-- {
		if h.snapshots[i].txNumber == txNumber {
			return i
		}
	}
	return -1
}

// CharacterFor returns the character bound to account at the greatest
// snapshot whose transaction number is <= k, found by binary search
// (O(log S) in the number of snapshots, per spec.md §4.4). Returns
// (0, false) if no such snapshot exists or the account has no mapping
// there.
func (h *History) CharacterFor(account AccountID, k int64) (rune, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	// sort.Search finds the first index whose txNumber > k; the snapshot
	// we want, if any, is the one just before it.
	i := sort.Search(len(h.snapshots), func(i int) bool {
		return h.snapshots[i].txNumber > k
	})
	if i == 0 {
		return 0, false
	}
	ch, ok := h.snapshots[i-1].mapping[account]
	return ch, ok
}

// PathToWord concatenates CharacterFor(endpoint, k) for each endpoint in
// path, in order. Fails with ErrIncompletePath if any endpoint lacks a
// mapping at k.
func (h *History) PathToWord(path []AccountID, k int64) (string, error) {
	runes := make([]rune, 0, len(path))
	for _, acct := range path {
		ch, ok := h.CharacterFor(acct, k)
		if !ok {
			return "", fmt.Errorf("%w: account %q at transaction %d", ErrIncompletePath, acct, k)
		}
		runes = append(runes, ch)
	}
	return string(runes), nil
}

// Snapshots returns the number of committed+tentative snapshots, for
// diagnostics.
func (h *History) Snapshots() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.snapshots)
}
