// Package testutil provides shared test helpers and fixtures for cc-ext.
//
// Philosophy:
// - Prefer the real engine and built-in catalog over mocks.
// - Keep helpers small, composable, and deterministic.
// - Register cleanup via t.Cleanup so tests stay leak-free.
//
// Most packages should start with:
//
//	engine := core.NewEngine(testutil.TestCatalog(t))
//	logger := testutil.TestLogger(t)
package testutil
