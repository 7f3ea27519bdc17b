// Package tracking implements the TrackingRecord aggregate, the per-delivery
// live state shown to the sender, the recipient and the assigned picker while a
// delivery is in progress, together with the payloads broadcast to a
// delivery's tracking room.
//
// A record is created once, when a picker is assigned. Only the assigned picker
// moves pickerLocation; status mirrors the delivery status.
package tracking
