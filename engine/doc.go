// Package engine implements the core of an in-memory limit order book
// matching engine for price-time-priority continuous trading of a single
// instrument. It keeps two one-sided books (bids and asks), matches
// aggressive orders against resting liquidity, supports iceberg and
// all-or-none orders, enforces GTC/IOC/FOK/AON time-in-force policies, and
// emits trade/accept/cancel events into a single-producer/single-consumer
// ring buffer for one downstream consumer to drain.
//
// The package is built around four pieces: a fixed-slot arena that
// recycles order records without allocation, intrusive per-price-level
// FIFO queues embedded in the arena's order records, a dense price array
// plus a flat bitmap index (one bit per price, scanned a 64-bit word at a
// time) for best-price tracking,
// and the matching state machine itself. None of this allocates or blocks
// on the steady-state path; the arena's doubling grow is the one
// amortised exception.
//
// Everything outside the matching core — wire transports, replay loaders,
// dashboards, persistence — is an external collaborator reached only
// through the codec in the sibling wire package or through this package's
// public command surface.
package engine
