// Package registerstudent opens a student account, optionally with a personal borrowing limit.
package registerstudent
