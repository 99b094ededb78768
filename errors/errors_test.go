package errors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppendSkipsNil(t *testing.T) {
	var errs Errors
	errs = errs.Append(nil, errors.New("a"), nil, errors.New("b"))
	assert.Len(t, errs, 2)
}

func TestReturn(t *testing.T) {
	var errs Errors
	assert.NoError(t, errs.Return())

	errs = errs.Append(errors.New("a"))
	assert.Error(t, errs.Return())
}

func TestErrorFormat(t *testing.T) {
	var errs Errors
	assert.Equal(t, "no errors", errs.Error())

	errs = errs.Append(errors.New("first"))
	assert.Equal(t, "first", errs.Error())

	errs = errs.Append(errors.New("second\ndetail"))
	assert.Equal(t, "multiple errors:\n\tfirst\n\tsecond\n\tdetail", errs.Error())
}
