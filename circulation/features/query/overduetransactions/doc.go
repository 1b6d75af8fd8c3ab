// Package overduetransactions implements the Overdue Transactions query use case.
//
// Staff use it to chase overdue loans. For every ACTIVE loan past its due date it reports the days
// overdue and the fine that would be issued if the copy came back now, under the current policy.
package overduetransactions
