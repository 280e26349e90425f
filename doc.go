// Package icgs is a transaction-validation engine: it accepts a proposed
// transfer between two accounts, enumerates the committed-history paths
// feeding into it, classifies those paths against a weighted pattern
// automaton, builds a linear-programming feasibility problem from the
// classification, and solves it with an exact-decimal Simplex to decide
// whether the transfer commits.
//
// What is icgs?
//
//	A historized ledger validator that brings together:
//
//	  • Accounts and committed edges, with reverse path enumeration
//	  • A regex-like weighted pattern automaton classifying paths
//	  • An LP problem builder and a triple-validated Simplex solver
//	  • Atomic per-transaction commit/rollback with a replayable log
//
// Why this shape?
//
//   - Exact       — every feasibility number is shopspring/decimal, never float
//   - Auditable   — diagnostic traces and a replay log reconstruct any decision
//   - Incremental — warm-started Simplex reuses the prior basis when stable
//   - Composable  — one small package per concern, no cyclic imports
//
// Under the hood, everything is organized one package per concern:
//
//	decimal/, charset/, taxonomy/ — value types and historized account state
//	pattern/, nfa/                — pattern parsing and the weighted automaton
//	dag/, classify/               — committed-edge graph and path classification
//	lp/, simplex/                 — feasibility problem building and solving
//	pipeline/                     — the per-transaction state machine
//	engine/                       — the public facade composing all of the above
//
// See engine.New for the public entry point.
package icgs
