// Package geometric implements sampling-based planners for geometric,
// holonomic motion planning: RRT, RRT-Connect, RRT*, and PRM. Planners are
// generic over the base.StateSpace capability set and report solutions as
// base.Path values.
package geometric
