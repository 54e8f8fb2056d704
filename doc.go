// Package session manages the client side of SpendWise authentication:
// acquiring a bearer token, persisting it across restarts, decoding its
// claims, and broadcasting the resulting session state to every part of the
// application that needs to know who is logged in.
//
// Session lifecycle:
//   - Manager owns a small state machine (uninitialized, anonymous,
//     authenticated) and is the sole writer to the token store and the state
//     channel. Restore runs once at startup, Login and Logout drive the
//     anonymous/authenticated cycle, and Revalidate re-checks the stored
//     token before sensitive navigation. Authenticated state and a stored,
//     unexpired token always change together; any rejected token is cleared
//     and anonymous published in the same step.
//   - Claims are decoded without signature verification. The backend
//     re-verifies every authenticated request, so the client treats claims
//     as advisory input for display and expiry bookkeeping, never as proof
//     of identity.
//
// Broadcast:
//   - Channel delivers every published state in order and replays the most
//     recent value to late subscribers. Slow consumers are conflated to the
//     latest value rather than buffered.
//
// Activity sinks:
//   - ActivitySink is a best-effort audit emitter describing restore, login,
//     logout, and token rejection events. Sink errors are logged, never
//     propagated, so telemetry cannot block authentication.
package session
