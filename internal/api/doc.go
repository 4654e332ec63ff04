// Package api implements the HTTP gateway to the CineRate backend.
//
// Every remote call goes through [Client.Call], which attaches the bearer
// token when a session is active and translates failures into two shapes:
//
//   - [*RequestError] : the server answered with a non-2xx status; the
//     message is taken from the server's {"detail": ...} payload when
//     parseable, else "Error <status>"
//   - [ErrUnreachable] : the request never produced a response
//     (connection refused, DNS failure, timeout)
//
// No call is retried; callers decide whether to surface the failure or
// re-issue the action.
package api
