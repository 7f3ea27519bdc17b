// Package payment implements the PaymentRecord aggregate that tracks the money
// escrowed from a sender when an offer is accepted.
//
// A record is opened as pending at acceptance time, after the sender's balance
// has been debited. It leaves pending exactly once: completed when the delivery
// is delivered (the picker is credited) or cancelled when the delivery is
// cancelled (the sender is refunded).
package payment
