// Package settlefine closes an unpaid fine, either by recording the payment or by waiving it.
package settlefine
