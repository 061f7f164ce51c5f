package payroll

import "errors"

var (
	ErrPeriodNotFound      = errors.New("pay period not found")
	ErrTransactionNotFound = errors.New("payroll transaction not found")
)
