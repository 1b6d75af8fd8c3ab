package core_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/AntonStoeckl/library-circulation-go/circulation/shared/core"
)

func Test_BusinessError_IsMatchesByKind(t *testing.T) {
	err := fmt.Errorf("handling: %w", core.ErrBorrowingLimitExceededWith(3))

	assert.ErrorIs(t, err, core.ErrBorrowingLimitExceeded)
	assert.NotErrorIs(t, err, core.ErrHasUnpaidFines)
	assert.Equal(t, core.KindBorrowingLimitExceeded, core.KindOf(err))
	assert.True(t, core.IsBusinessError(err))
	assert.Contains(t, err.Error(), "You have reached your borrowing limit (3 books)")
}

func Test_BusinessError_BookNotFoundIsANotFound(t *testing.T) {
	err := core.ErrBookNotFoundFor("4006381333931")

	assert.ErrorIs(t, err, core.ErrBookNotFound)
	assert.ErrorIs(t, err, core.ErrNotFound)
	assert.NotErrorIs(t, core.ErrStudentNotFoundFor("s-1"), core.ErrBookNotFound)
}

func Test_BusinessError_InfrastructureErrorsAreNotBusinessErrors(t *testing.T) {
	err := errors.New("connection refused")

	assert.False(t, core.IsBusinessError(err))
	assert.Equal(t, core.ErrorKind(""), core.KindOf(err))
}

func Test_ErrAlreadyBorrowedWith_MessageDependsOnStatus(t *testing.T) {
	assert.Contains(t, core.ErrAlreadyBorrowedWith(core.TransactionStatusPending).Error(), "pending request")
	assert.Contains(t, core.ErrAlreadyBorrowedWith(core.TransactionStatusActive).Error(), "currently borrowing")
}
