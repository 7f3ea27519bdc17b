// Package offer implements the Offer aggregate: a picker's priced proposal to
// carry a pending delivery.
//
// Offers start pending and are settled exactly once, either accepted by the
// delivery's sender or rejected (explicitly, because a competing offer won, or
// because the offer expired).
package offer
