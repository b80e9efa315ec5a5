// Package client is the OrderDesk API client.
//
// # Overview
//
//  1. Endpoints builds request URLs from the externally configured base
//     address and the endpoint constants (UsersEndpoint, OrdersEndpoint).
//  2. Client is the transport-agnostic API contract: Login, Register,
//     RequestPasswordReset, Me and SubmitOrder.
//  3. HTTPClient implements Client over net/http. Its transport injects the
//     session's access token (see SetTokenSource) as "Authorization: Bearer"
//     on every request that does not already carry one.
//
// # Error Handling
//
// Transport failures wrap ErrUnavailable. Non-2xx responses become *APIError
// carrying the server's message (or a per-operation fallback); 401 and 403
// also match ErrUnauthorized via errors.Is. Context cancellation is returned
// unchanged.
//
// No call is retried.
package client
