// Package extract turns free-form model output into a [nutrition.FoodAnalysis].
//
// The [Pipeline] is an explicit state machine. Each attempt either succeeds or
// moves the machine one step along a fixed escalation order:
//
//	Parse(0) → … → Parse(maxParse-1) → Regenerate(0) → … → Regenerate(maxRegen-1) → Fallback
//
// Parse attempts repair the text locally and never call the model.
// Regenerate attempts re-invoke the model through an [Invoker] with the
// original prompt plus [CorrectiveDirective], waiting a fixed backoff between
// consecutive regenerations. When both budgets are spent the pipeline returns
// a fixed degraded analysis (see [Fallback]).
//
// [Pipeline.Extract] never fails. [Pipeline.Run] returns the same analysis
// together with the terminal state and every attempt failure, so callers that
// care about diagnostics can inspect them with errors.Is / errors.As.
package extract
