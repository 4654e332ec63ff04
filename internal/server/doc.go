// Package server implements the CineRate REST backend: auth and profile
// endpoints, the TMDB catalog proxy, and the per-user rating and
// watchlist collections with derived stats and export.
//
// Error responses always carry a {"detail": "..."} body so the client
// gateway can surface the server's message verbatim.
package server
