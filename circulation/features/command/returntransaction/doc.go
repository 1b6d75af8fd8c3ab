// Package returntransaction closes an active loan. The return, the overdue fine and the inventory
// effect of the copy's condition are appended as one batch.
package returntransaction
