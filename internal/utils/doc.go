// Package utils holds small helpers shared by the mealscan internals: a JSON
// POST round-trip for provider APIs, pointer construction and string
// formatting for log output.
package utils
