// Package library keeps the user's rating and watchlist state in sync
// with the backend.
//
// [RatingStore] mirrors the backend's rating set in memory: the backend
// is the source of truth, the cache is a read-through/write-through
// projection. Every successful write triggers a full reload rather than
// an incremental merge; the per-user set is small enough that O(n)
// refresh and recomputation stay cheap.
//
// [Watchlist] deliberately keeps no cache; every view and membership
// check is a fresh round trip.
package library
