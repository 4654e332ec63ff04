// Package models defines domain entities shared by the CineRate client and server.
//
// The package contains two categories of types:
//
// 1. Catalog shapes: ephemeral TMDB data fetched per view, never stored
//   - [CatalogItem] : A movie or TV entry as TMDB returns it
//   - [Genre] : Named genre attached to a catalog detail
//
// 2. User library shapes: records persisted by the backend, mirrored by the client
//   - [Rating] : A user's 1-10 score for one title, at most one per (user, tmdb_id)
//   - [WatchlistEntry] : A saved title, same identity rule, never cached client-side
//   - [User] / [Session] : Account identity and its bearer token
//   - [StatsSnapshot] : Aggregates derived from ratings on demand, never stored
package models
