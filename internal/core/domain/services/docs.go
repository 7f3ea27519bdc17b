// Package services provides domain services that coordinate several aggregates
// of the delivery settlement core.
//
// The package includes:
//   - OfferSettler: the in-memory part of settling a delivery on a picker,
//     either by accepting an offer or by direct assignment
//
// Services never persist anything. The application layer loads the aggregates
// inside one unit of work, lets the service mutate them, moves the money and
// commits, so a failure anywhere leaves nothing behind.
package services
