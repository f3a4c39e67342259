// Package order provides the Order aggregate of the fulfillment domain.
//
// The package includes:
//   - Order: the aggregate root holding items, delivery and payment data, history and the
//     aggregate status, and enforcing every transition rule
//   - Status: the aggregate status graph
//   - ItemStatus and Rollup: the per-item policy and its canonical summary
//   - OTPChallenge and Proof: the handover verification material
//
// Key business rules:
//   - Orders advance along PENDING -> CONFIRMED -> PREPARING -> READY_FOR_PICKUP ->
//     OUT_FOR_DELIVERY -> DELIVERED, may be aborted from any non-terminal status and may be
//     returned after delivery
//   - Only the seller of an item changes its status; item changes roll up into the order
//   - Only the assigned driver advances the delivery stages
//   - OTP proof is single use and time limited
package order
