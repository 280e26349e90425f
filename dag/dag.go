// Package dag implements C5: accounts and their immutable committed
// edges, plus the reverse (sink→source) simple-path enumerator a
// candidate transaction is validated against.
//
// Adapted directly from the teacher's core.Graph (core/types.go,
// core/api.go): the same two-mutex discipline (one lock for the
// account set, one for the edge/adjacency structures) and the same
// sentinel-error, functional-constructor shape, repurposed from a
// general mutable multigraph to an append-only DAG of committed
// transaction history.
package dag

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/norkamer/icgs/decimal"
)

// AccountID identifies an account. Never empty.
type AccountID string

// ErrDuplicateAccount indicates AddAccount was called twice for the
// same id.
var ErrDuplicateAccount = errors.New("dag: account already exists")

// ErrAccountNotFound indicates an operation referenced an unknown
// account.
var ErrAccountNotFound = errors.New("dag: account not found")

// ErrNonPositiveAmount indicates a committed edge's amount was not
// strictly positive (spec.md §3 "Edge").
var ErrNonPositiveAmount = errors.New("dag: edge amount must be positive")

// Edge is a directed, immutable, committed arc between two accounts.
// Edges never change once appended to a DAG (spec.md §3).
type Edge struct {
	ID     string
	Source AccountID
	Target AccountID
	Amount decimal.Decimal
}

// DAG stores accounts and the append-only history of committed edges
// validated transactions have produced.
type DAG struct {
	muAccounts sync.RWMutex
	muEdges    sync.RWMutex

	accounts map[AccountID]struct{}

	// incoming[v] holds every committed edge whose Target is v, i.e. the
	// edges a reverse (sink→source) walk from v follows.
	incoming map[AccountID][]*Edge

	nextEdgeID int
	// committedTransactionCounter increases once per committed edge,
	// mirroring spec.md §4.5's monotonically increasing counter.
	committedTransactionCounter int64
}

// NewDAG constructs an empty DAG.
func NewDAG() *DAG {
	return &DAG{
		accounts: make(map[AccountID]struct{}),
		incoming: make(map[AccountID][]*Edge),
	}
}

// AddAccount registers a new account. Fails with ErrDuplicateAccount if
// id already exists.
func (d *DAG) AddAccount(id AccountID) error {
	if id == "" {
		return fmt.Errorf("dag: account id must not be empty")
	}
	d.muAccounts.Lock()
	defer d.muAccounts.Unlock()
	if _, exists := d.accounts[id]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateAccount, id)
	}
	d.accounts[id] = struct{}{}
	return nil
}

// HasAccount reports whether id has been registered.
func (d *DAG) HasAccount(id AccountID) bool {
	d.muAccounts.RLock()
	defer d.muAccounts.RUnlock()
	_, ok := d.accounts[id]
	return ok
}

// CommitEdge appends a new immutable edge after a transaction has
// passed validation (spec.md §4.9 step 4). Both endpoints must already
// be registered accounts; amount must be strictly positive.
func (d *DAG) CommitEdge(source, target AccountID, amount decimal.Decimal) (*Edge, error) {
	if !d.HasAccount(source) {
		return nil, fmt.Errorf("%w: source %q", ErrAccountNotFound, source)
	}
	if !d.HasAccount(target) {
		return nil, fmt.Errorf("%w: target %q", ErrAccountNotFound, target)
	}
	if !amount.GreaterThan(decimal.Zero) {
		return nil, ErrNonPositiveAmount
	}

	d.muEdges.Lock()
	defer d.muEdges.Unlock()

	d.nextEdgeID++
	e := &Edge{
		ID:     fmt.Sprintf("e%d", d.nextEdgeID),
		Source: source,
		Target: target,
		Amount: amount,
	}
	d.incoming[target] = append(d.incoming[target], e)
	d.committedTransactionCounter++
	return e, nil
}

// CommittedTransactionCounter returns the number of edges committed so
// far.
func (d *DAG) CommittedTransactionCounter() int64 {
	d.muEdges.RLock()
	defer d.muEdges.RUnlock()
	return d.committedTransactionCounter
}

// IncomingEdges returns the committed edges targeting v, sorted by edge
// ID for deterministic iteration order.
func (d *DAG) IncomingEdges(v AccountID) []*Edge {
	d.muEdges.RLock()
	defer d.muEdges.RUnlock()
	edges := append([]*Edge(nil), d.incoming[v]...)
	sort.Slice(edges, func(i, j int) bool { return edges[i].ID < edges[j].ID })
	return edges
}
