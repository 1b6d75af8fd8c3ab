// Package bookavailability implements the Book Availability query use case.
//
// It shows the Inventory Ledger record of one title together with its reservation queue in FIFO
// order. Expired reservations have left the queue, their expiry is derived at query time.
package bookavailability
