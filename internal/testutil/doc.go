// Package testutil provides fixtures shared by package tests: frozen
// command indexes, command builders and deterministic build IDs.
package testutil
