// Package collector orchestrates collection cycles: a concurrent
// fetch→parse→project pass over every configured target, followed by a
// blocking inter-cycle wait.
//
// Failure isolation is the central property. Each target is an independent
// unit of work; a transport error, a garbage response or a non-numeric
// field affects only that target's series (and only its up/error metrics —
// the apache_* gauges keep the values from the last successful cycle).
// The projection coercion policy is per-field default substitution:
// absent and non-numeric fields both project 0, so one bad field never
// discards the rest of a target's update.
package collector
