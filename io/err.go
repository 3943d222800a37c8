package io

import (
	"errors"

	"github.com/ezrec/uvm/translate"
)

var f = translate.From

var (
	ErrRangeSyntax = errors.New(f("range syntax"))
	ErrRangeOrder  = errors.New(f("range start after end"))
	ErrImage       = errors.New(f("image invalid"))
	ErrDumpHeader  = errors.New(f("dump header missing"))
)

// ErrImageCell indicates an image cell that could not be stored.
type ErrImageCell struct {
	Address int
	Err     error
}

func (err *ErrImageCell) Error() string {
	return f("image cell %v: %v", translate.DecimalOf(err.Address), err.Err)
}

func (err *ErrImageCell) Unwrap() error {
	return err.Err
}
