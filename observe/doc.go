// Package observe provides observability primitives for lazy resource access.
//
// It defines the lifecycle events emitted by the facet and pool packages
// (hits, misses, deduplicated waits, constructions, loads, cancellations),
// a Recorder hook that receives them, and a Telemetry recorder that turns
// them into OpenTelemetry spans and metrics plus zap-backed structured logs.
//
// Core packages never log on their own; they emit events and return errors.
package observe
