// Package services provides domain services that coordinate the order and agent aggregates.
//
// The package includes:
//   - OrderDispatcher: hands a ready order to an agent and computes the delivery estimate
//   - EarningsLedger: books completed and failed deliveries on the agent exactly once per order
//   - OTPIssuer: issues and checks one-time handover codes
package services
