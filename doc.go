// Package swim implements a gossip-style cluster membership and
// failure-detection engine modeled on SWIM (Scalable Weakly-consistent
// Infection-style Process group Membership).
//
// An Engine is a single-threaded cooperative state machine: every
// mutation happens inside a call to Tick or Recv, driven by an outer
// loop (see the sim package for tests, cmd/swimd for a real process).
// It detects the failure of any cluster member within a bounded number
// of ticks after it crashes, and disseminates that detection to every
// surviving member, using a direct/indirect PING failure detector and
// a JOIN-based bootstrap handshake.
package swim
