// Package kernel holds the shared value objects used by every aggregate of the
// parcelhub domain: identifiers, money and geographic places.
//
// All value objects are immutable and are created through constructors that
// validate their invariants:
//   - UUID: non-nil identifier for users, deliveries, offers, payments and tracking records
//   - Money: positive decimal amount rounded to cents (prices, escrowed sums)
//   - GeoPoint: latitude/longitude pair within WGS84 bounds
//   - Place: a GeoPoint plus a human readable address
package kernel
