// Package nutrition holds the value types shared by the extraction pipeline,
// the model providers and the meal-log store. None of them carry behaviour
// beyond trivial arithmetic; each extraction builds fresh values and hands
// ownership of the resulting [FoodAnalysis] to the caller.
package nutrition
