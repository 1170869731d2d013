// Package client talks to the vault backend.
//
// # Overview
//
// The package provides:
//  1. A transport-agnostic contract (the Client interface): Register, Login,
//     Verify, record CRUD over sealed payloads, and Ping.
//  2. A gRPC implementation (GRPCClient) that attaches the session token to
//     every call, bounds each call with a timeout, and maps status codes to
//     sentinel errors.
//
// # Error Handling
//
// Failures surface as sentinel errors matched with errors.Is:
// ErrUnavailable, ErrUnauthorized, ErrAlreadyExists, ErrNotFound and
// ErrInvalidArgument. Anything else is wrapped as an rpc error.
//
// Only ciphertext, nonces, the authentication digest and the token cross
// this boundary; plaintext and key material never do.
package client
