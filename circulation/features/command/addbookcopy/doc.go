// Package addbookcopy puts a title with a number of identical copies into circulation.
package addbookcopy
