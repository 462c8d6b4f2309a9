package domain

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorMessages(t *testing.T) {
	assert.Equal(t, "Customer is not found", NotFoundError{Resource: "Customer"}.Error())
	assert.Equal(t, "Categories are not found", NotFoundError{Msg: "Categories are not found"}.Error())
	assert.Equal(t, "Email has already existed", ConflictError{Resource: "Email"}.Error())
	assert.Equal(t, "customer can not be changed", IllegalStateError{Field: "customer"}.Error())
	assert.Equal(t, "sortValue is invalid", QueryError{Param: "sortValue"}.Error())
	assert.Equal(t, "rate must be between 0 and 5", ValidationError{Field: "rate", Msg: "must be between 0 and 5"}.Error())
}

func TestClassifiersSeeThroughWrapping(t *testing.T) {
	err := fmt.Errorf("create order: %w", NotFoundError{Resource: "Business"})
	assert.True(t, IsNotFound(err))
	assert.False(t, IsValidation(err))
	assert.True(t, IsQuery(QueryError{Msg: "Page Size is invalid"}))
	assert.True(t, IsIllegalState(IllegalStateError{Field: "customer"}))
	assert.True(t, IsConflict(fmt.Errorf("wrap: %w", ConflictError{})))
}

func TestOrderStatusValid(t *testing.T) {
	assert.True(t, OrderOngoing.Valid())
	assert.True(t, OrderFinished.Valid())
	assert.False(t, OrderStatus("cancelled").Valid())
}
