// Package createborrowrequest implements the Create Borrow Request use case.
//
// A student (or staff on the student's behalf) asks to borrow a book, referenced by ID or barcode.
// The Eligibility Evaluator gates the request; on success a PENDING transaction with a provisional
// due date is created. Nothing happens to the inventory until staff approve the request.
package createborrowrequest
