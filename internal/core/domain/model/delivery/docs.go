// Package delivery implements the Delivery aggregate: a single transport job
// from a sender's pickup place to a destination, optionally handed to a
// recipient distinct from the sender.
//
// The aggregate owns the delivery lifecycle:
//
//	pending ──> accepted ──> picked_up ──> delivered
//	   │            │            │
//	   └────────────┴────────────┴──> cancelled
//
// Key business rules:
//   - The picker is assigned exactly once, moving pending to accepted
//   - Only the assigned picker advances accepted → picked_up → delivered
//   - Only the sender cancels directly, and never after delivered
//   - Recipient confirmation is a separate flag; a recipient rejection cancels
package delivery
