// Package solve provides bounded one-dimensional numeric refinement.
//
// Every routine takes its iteration or sample budget as an explicit
// parameter, so termination is visible at the call site: there are no
// tolerance-driven loops without a cap.
//
//   - [GoldenSection]: minimise a unimodal function on an interval
//   - [GradientDescent]: clamped descent from a seed with a fixed step budget
//   - [Roots]: scan for sign changes and refine each bracket by bisection
//   - [Linspace]: evenly spaced samples, endpoints included
package solve
