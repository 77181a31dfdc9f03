// Package repair provides the textual fix-ups applied to raw model output
// before it is handed to a JSON decoder. Language models routinely leave
// arithmetic in numeric fields, wrap the object in narrative prose, forget to
// quote keys, or leave trailing commas; this package rewrites those defects
// without running a full parser.
//
// [NormalizeExpressions] folds inline arithmetic such as 1.01+2.03 into a
// two-decimal literal. [Repair] applies the cheap structural rewrites and is
// idempotent. [DeepRepair] additionally runs the text through jsonrepair and
// is reserved for inputs the cheap rewrites could not heal.
package repair
