// Package shared holds helpers used by more than one layer. Its testutil
// subpackage provides a capturing slog handler and dataset fixtures for
// package tests; nothing in it is imported by production code.
package shared
