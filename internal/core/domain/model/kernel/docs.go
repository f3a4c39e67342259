// Package kernel provides the primitives shared by every aggregate of the fulfillment domain.
//
// The package includes:
//   - UUID: the identifier value object used for orders, items, agents and actors
//   - Actor and Role: the verified caller identity every state-changing operation receives
//
// Both are immutable and must be built through their constructors; their zero values fail Validate.
package kernel
