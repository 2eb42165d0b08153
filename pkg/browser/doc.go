// Package browser implements the concurrent browser-session lifecycle and
// synchronization engine that the rest of flowcheck is built on.
//
// The package is built around three core components:
//
//  1. Registry: owns exactly one live Session per worker, with safe
//     concurrent acquisition across workers and idempotent release
//  2. Poller: bridges the eventually-consistent DOM to synchronous test
//     code by repeatedly evaluating a named Condition until it is
//     satisfied, the budget runs out, or a fatal error occurs
//  3. Executor: wraps single UI actions (click, type, read, toggle) with
//     readiness waiting and bounded retry over known transient failures
//
// # Session Lifecycle
//
// Sessions move forward through Initializing -> Ready -> Closing -> Closed
// and are never reused after Closed. A Session belongs to the worker that
// acquired it; the Registry is the only structure shared across workers,
// and its mutual exclusion is scoped per worker id so unrelated workers
// never serialize on each other.
//
// # Error Classification
//
// Transport errors never escape this package raw. Every error is mapped to
// a small set of sentinels (stale element, not visible, not interactable,
// invalid selector, session unavailable, ...) and classified as transient
// or fatal by Classify. The Poller keeps polling through transient errors
// and aborts immediately on fatal ones; the Executor retries transient
// action failures up to its RetryPolicy and surfaces everything else as a
// Failure with one of the FailureKind values.
//
// # Transport
//
// The live browser is driven through the Page and Element interfaces.
// PlaywrightLauncher provides the production implementation on top of
// Playwright; tests substitute in-memory fakes.
package browser
