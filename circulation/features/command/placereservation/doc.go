// Package placereservation queues a student's hold on a book. Holds are served first come, first served
// and expire after the policy's reservation period.
package placereservation
