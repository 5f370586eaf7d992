// Package pipeline provides a framework for executing scan steps in sequence.
//
// The pipeline pattern is used to process websites through multiple stages:
// page discovery, concurrent page auditing, and risk assessment. Each stage
// is implemented as a Step that receives the current scan state and can
// modify it.
//
// Design decision: We use a pipeline pattern instead of direct function calls
// because:
// 1. It allows easy addition/removal of steps without modifying core logic
// 2. It provides consistent error handling and logging across steps
// 3. It supports cancellation via context for long-running scans
//
// The Scanner type is the high-level entry point that wires configuration,
// fetching, the rule engine, and the risk engine into a ready pipeline.
// Batch processing with concurrency control is handled by BatchProcessor
// using errgroup.
package pipeline
