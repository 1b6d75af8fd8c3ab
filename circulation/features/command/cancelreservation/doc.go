// Package cancelreservation withdraws a pending hold, giving up the student's place in the queue.
package cancelreservation
