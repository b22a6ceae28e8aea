// Package sim provides the bandwidth allocation core of ran-sim.
//
// # Reading Guide
//
//   - consumer.go: Consumer (id, service class, requested share, optional priority) and the random generator
//   - policy.go: the policy table; each policy is a pure function of (consumers, budget, rng)
//   - engine.go: Engine, which owns the budget and the registered consumers and exposes one operation per policy
//   - fairness.go: population-variance fairness score plus Jain's index
//
// # Randomness
//
// All randomness flows from a PartitionedRNG (rng.go). Consumer generation
// uses the "population" subsystem; every policy draws from its own
// "policy_<key>" subsystem, so results for a given seed do not depend on
// which other policies ran or in what order.
//
// # Sub-packages
//   - sim/comparison/: runs the selected policies, scores and ranks them
//   - sim/report/: text report, PNG and text charts, YAML export
package sim
