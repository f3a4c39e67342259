// Package queries contains read-only use cases. Queries never open a transaction and never
// change state; each one checks that the actor may see what it asks for.
package queries
