// Package queries contains the read side of the settlement core.
// Handlers read through GORM raw SQL into flat read models and apply the same
// participant rules as the aggregates: tracking is visible to the sender, the
// recipient and the assigned picker; offers are visible to the sender.
package queries
