// Package agent provides the delivery agent aggregate: availability, the single active
// order, assignment history, earnings and delivery statistics.
package agent
