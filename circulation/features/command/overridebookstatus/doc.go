// Package overridebookstatus lets staff set the coarse status label of a book, e.g. to take it out of
// circulation for maintenance. The availability counters are not touched.
package overridebookstatus
