package main

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-circulation-go/circulation/features/command/addbookcopy"
	"github.com/AntonStoeckl/library-circulation-go/circulation/features/command/createborrowrequest"
	"github.com/AntonStoeckl/library-circulation-go/circulation/features/command/placereservation"
	"github.com/AntonStoeckl/library-circulation-go/circulation/features/command/processrequest"
	"github.com/AntonStoeckl/library-circulation-go/circulation/features/command/registerstudent"
	"github.com/AntonStoeckl/library-circulation-go/circulation/features/command/renewtransaction"
	"github.com/AntonStoeckl/library-circulation-go/circulation/features/command/returntransaction"
	"github.com/AntonStoeckl/library-circulation-go/circulation/features/command/settlefine"
	"github.com/AntonStoeckl/library-circulation-go/circulation/features/query/borrowingeligibility"
	"github.com/AntonStoeckl/library-circulation-go/circulation/features/query/overduetransactions"
	"github.com/AntonStoeckl/library-circulation-go/circulation/shared/core"
	"github.com/AntonStoeckl/library-circulation-go/circulation/shared/shell"
	"github.com/AntonStoeckl/library-circulation-go/circulation/shared/shell/observable"
)

const staffUserID = "circulationd"

var catalog = []struct {
	title   string
	authors string
	isbn    string
}{
	{"The Go Programming Language", "Alan A. A. Donovan, Brian W. Kernighan", "978-0-13-419044-0"},
	{"Designing Data-Intensive Applications", "Martin Kleppmann", "978-1-4493-7332-0"},
	{"Learning Domain-Driven Design", "Vlad Khononov", "978-1-098-10013-1"},
	{"Concurrency in Go", "Katherine Cox-Buday", "978-1-4919-4119-5"},
	{"Database Internals", "Alex Petrov", "978-1-4920-4034-7"},
	{"The Linux Command Line", "William Shotts", "978-1-59327-952-3"},
}

// observers are the collectors every handler wrapper reports to. tracing may be nil.
type observers struct {
	metrics          shell.MetricsCollector
	tracing          shell.TracingCollector
	contextualLogger shell.ContextualLogger
}

type loan struct {
	transactionID core.TransactionIDString
	studentID     core.StudentIDString
}

// simulator plays staff and students against the handlers. Its clock runs ahead by gap per
// operation, so loans fall overdue and fines are issued within minutes of wall time.
type simulator struct {
	logger *slog.Logger
	rng    *rand.Rand
	clock  time.Time
	gap    time.Duration
	staff  core.Actor

	books    []core.BookIDString
	students []core.StudentIDString
	pending  []core.TransactionIDString
	active   []loan
	unpaid   []core.FineIDString

	addBookCopy     shell.CoreCommandHandler[addbookcopy.Command, addbookcopy.Result]
	registerStudent shell.CoreCommandHandler[registerstudent.Command, registerstudent.Result]
	request         shell.CoreCommandHandler[createborrowrequest.Command, createborrowrequest.Result]
	process         shell.CoreCommandHandler[processrequest.Command, processrequest.Result]
	renew           shell.CoreCommandHandler[renewtransaction.Command, renewtransaction.Result]
	receive         shell.CoreCommandHandler[returntransaction.Command, returntransaction.Result]
	reserve         shell.CoreCommandHandler[placereservation.Command, placereservation.Result]
	settle          shell.CoreCommandHandler[settlefine.Command, settlefine.Result]
	eligibility     shell.CoreQueryHandler[borrowingeligibility.Query, borrowingeligibility.Eligibility]
	overdue         shell.CoreQueryHandler[overduetransactions.Query, overduetransactions.OverdueTransactions]
}

func newSimulator(infra *infrastructure, o observers, logger *slog.Logger, gap time.Duration) (*simulator, error) {
	es := infra.eventStore
	policies := infra.policies
	auditing := infra.auditSink

	sim := &simulator{
		logger: logger,
		rng:    rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0)), //nolint:gosec // simulation only
		clock:  time.Now().UTC(),
		gap:    gap,
		staff:  core.StaffActor(staffUserID),
	}

	var err error

	if sim.addBookCopy, err = wrapCommand[addbookcopy.Command, addbookcopy.Result](addbookcopy.NewCommandHandler(es,
		addbookcopy.WithAuditSink(auditing, o.contextualLogger)), o); err != nil {
		return nil, err
	}

	if sim.registerStudent, err = wrapCommand[registerstudent.Command, registerstudent.Result](registerstudent.NewCommandHandler(es,
		registerstudent.WithAuditSink(auditing, o.contextualLogger)), o); err != nil {
		return nil, err
	}

	if sim.request, err = wrapCommand[createborrowrequest.Command, createborrowrequest.Result](createborrowrequest.NewCommandHandler(es, policies,
		createborrowrequest.WithAuditSink(auditing, o.contextualLogger)), o); err != nil {
		return nil, err
	}

	if sim.process, err = wrapCommand[processrequest.Command, processrequest.Result](processrequest.NewCommandHandler(es, policies,
		processrequest.WithAuditSink(auditing, o.contextualLogger)), o); err != nil {
		return nil, err
	}

	if sim.renew, err = wrapCommand[renewtransaction.Command, renewtransaction.Result](renewtransaction.NewCommandHandler(es, policies,
		renewtransaction.WithAuditSink(auditing, o.contextualLogger)), o); err != nil {
		return nil, err
	}

	if sim.receive, err = wrapCommand[returntransaction.Command, returntransaction.Result](returntransaction.NewCommandHandler(es, policies,
		returntransaction.WithAuditSink(auditing, o.contextualLogger)), o); err != nil {
		return nil, err
	}

	if sim.reserve, err = wrapCommand[placereservation.Command, placereservation.Result](placereservation.NewCommandHandler(es, policies,
		placereservation.WithAuditSink(auditing, o.contextualLogger)), o); err != nil {
		return nil, err
	}

	if sim.settle, err = wrapCommand[settlefine.Command, settlefine.Result](settlefine.NewCommandHandler(es,
		settlefine.WithAuditSink(auditing, o.contextualLogger)), o); err != nil {
		return nil, err
	}

	if sim.eligibility, err = wrapQuery[borrowingeligibility.Query, borrowingeligibility.Eligibility](borrowingeligibility.NewQueryHandler(es, policies), o); err != nil {
		return nil, err
	}

	if sim.overdue, err = wrapQuery[overduetransactions.Query, overduetransactions.OverdueTransactions](overduetransactions.NewQueryHandler(es, policies), o); err != nil {
		return nil, err
	}

	return sim, nil
}

func wrapCommand[C shell.Command, R shell.ExposesHandlerResult](
	handler shell.CoreCommandHandler[C, R],
	o observers,
) (*observable.CommandWrapper[C, R], error) {

	return observable.NewCommandWrapper(
		handler,
		observable.WithCommandMetrics[C, R](o.metrics),
		observable.WithCommandTracing[C, R](o.tracing),
		observable.WithCommandContextualLogging[C, R](o.contextualLogger),
	)
}

func wrapQuery[Q shell.Query, R shell.QueryResult](
	handler shell.CoreQueryHandler[Q, R],
	o observers,
) (*observable.QueryWrapper[Q, R], error) {

	return observable.NewQueryWrapper(
		handler,
		observable.WithQueryMetrics[Q, R](o.metrics),
		observable.WithQueryTracing[Q, R](o.tracing),
		observable.WithQueryContextualLogging[Q, R](o.contextualLogger),
	)
}

// seed puts the catalog into circulation and registers the students. Both are idempotent,
// so a restart against the same database seeds nothing twice.
func (s *simulator) seed(ctx context.Context, books int, students int) error {
	for i := range books {
		entry := catalog[i%len(catalog)]
		bookID := fmt.Sprintf("book-%03d", i+1)

		command := addbookcopy.BuildCommand(
			s.staff, bookID, "BC-"+bookID, entry.isbn, entry.title, entry.authors, 1+i%3, s.clock,
		)
		if _, err := s.addBookCopy.Handle(ctx, command); err != nil {
			return err
		}

		s.books = append(s.books, bookID)
	}

	for i := range students {
		studentID := fmt.Sprintf("student-%03d", i+1)

		command := registerstudent.BuildCommand(s.staff, studentID, "Student "+studentID, 0, s.clock)
		if _, err := s.registerStudent.Handle(ctx, command); err != nil {
			return err
		}

		s.students = append(s.students, studentID)
	}

	s.logger.InfoContext(ctx, "seeded library", "books", len(s.books), "students", len(s.students))

	return nil
}

// step runs one randomly chosen operation. Business errors are expected outcomes and are not returned.
func (s *simulator) step(ctx context.Context) error {
	s.clock = s.clock.Add(s.gap)

	var err error

	switch roll := s.rng.IntN(100); {
	case roll < 35 || (len(s.pending) == 0 && len(s.active) == 0):
		err = s.requestBook(ctx)
	case roll < 60 && len(s.pending) > 0:
		err = s.processRequest(ctx)
	case roll < 70 && len(s.active) > 0:
		err = s.renewLoan(ctx)
	case roll < 92 && len(s.active) > 0:
		err = s.returnLoan(ctx)
	case len(s.unpaid) > 0:
		err = s.settleFine(ctx)
	default:
		err = s.requestBook(ctx)
	}

	if core.IsBusinessError(err) {
		return nil
	}

	return err
}

// requestBook asks for eligibility first, like a student browsing the catalog would.
// An unavailable book is reserved instead.
func (s *simulator) requestBook(ctx context.Context) error {
	studentID := s.students[s.rng.IntN(len(s.students))]
	bookID := s.books[s.rng.IntN(len(s.books))]

	verdict, err := s.eligibility.Handle(ctx, borrowingeligibility.BuildQuery(studentID, bookID, s.clock))
	if err != nil {
		return err
	}

	if verdict.Reason == core.KindBookNotAvailable {
		_, err = s.reserve.Handle(ctx, placereservation.BuildCommand(
			core.StudentActor(studentID), uuid.NewString(), studentID, bookID, s.clock,
		))

		return err
	}

	if !verdict.Eligible {
		s.logger.DebugContext(ctx, "student not eligible", "student_id", studentID, "book_id", bookID, "reason", verdict.Message)
		return nil
	}

	result, err := s.request.Handle(ctx, createborrowrequest.BuildCommand(
		core.StudentActor(studentID), uuid.NewString(), studentID, bookID, "", 7+s.rng.IntN(15), "", s.clock,
	))
	if err != nil {
		return err
	}

	s.pending = append(s.pending, result.Transaction.TransactionID)

	return nil
}

// processRequest approves most requests. A request that cannot be approved is rejected.
func (s *simulator) processRequest(ctx context.Context) error {
	transactionID := s.takePending()

	if s.rng.IntN(10) > 0 {
		result, err := s.process.Handle(ctx, processrequest.BuildApproveCommand(s.staff, transactionID, "", s.clock))
		if err == nil {
			s.active = append(s.active, loan{transactionID: transactionID, studentID: result.Transaction.StudentID})
			return nil
		}

		if !core.IsBusinessError(err) {
			return err
		}
	}

	_, err := s.process.Handle(ctx, processrequest.BuildRejectCommand(
		s.staff, transactionID, "No copy can be handed out at the moment", "", s.clock,
	))

	return err
}

func (s *simulator) renewLoan(ctx context.Context) error {
	l := s.active[s.rng.IntN(len(s.active))]

	_, err := s.renew.Handle(ctx, renewtransaction.BuildCommand(core.StudentActor(l.studentID), l.transactionID, 0, "", s.clock))

	return err
}

func (s *simulator) returnLoan(ctx context.Context) error {
	l := s.takeActive()

	condition := core.ReturnGood
	switch roll := s.rng.IntN(100); {
	case roll < 2:
		condition = core.ReturnLost
	case roll < 7:
		condition = core.ReturnDamaged
	}

	result, err := s.receive.Handle(ctx, returntransaction.BuildCommand(s.staff, l.transactionID, condition, "", s.clock))
	if err != nil {
		return err
	}

	if result.Fine != nil {
		s.unpaid = append(s.unpaid, result.Fine.FineID)
	}

	return nil
}

func (s *simulator) settleFine(ctx context.Context) error {
	fineID := s.unpaid[0]
	s.unpaid = s.unpaid[1:]

	command := settlefine.BuildPayCommand(s.staff, fineID, s.clock)
	if s.rng.IntN(5) == 0 {
		command = settlefine.BuildWaiveCommand(s.staff, fineID, "First late return", s.clock)
	}

	_, err := s.settle.Handle(ctx, command)

	return err
}

func (s *simulator) reportOverdue(ctx context.Context) {
	result, err := s.overdue.Handle(ctx, overduetransactions.BuildQuery(s.clock))
	if err != nil {
		return
	}

	s.logger.InfoContext(ctx, "overdue report",
		"simulated_time", s.clock.Format(time.RFC3339),
		"overdue_loans", result.Count,
		"projected_fines", result.TotalProjectedFines.StringFixed(2),
	)
}

func (s *simulator) takePending() core.TransactionIDString {
	i := s.rng.IntN(len(s.pending))
	transactionID := s.pending[i]
	s.pending = append(s.pending[:i], s.pending[i+1:]...)

	return transactionID
}

func (s *simulator) takeActive() loan {
	i := s.rng.IntN(len(s.active))
	l := s.active[i]
	s.active = append(s.active[:i], s.active[i+1:]...)

	return l
}
