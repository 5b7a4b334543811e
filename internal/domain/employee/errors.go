package employee

import "errors"

var (
	ErrEmployeeNotFound        = errors.New("employee not found")
	ErrEmployeeCodeExists      = errors.New("employee code already exists")
	ErrEmailExists             = errors.New("email already registered")
	ErrEmployeeInactive        = errors.New("employee account is inactive")
	ErrEmployeeAlreadyInactive = errors.New("employee is already inactive")
	ErrCannotDeleteSelf        = errors.New("cannot delete your own employee record")
	ErrCannotDemoteSelf        = errors.New("cannot remove your own admin role")
	ErrNoEmployeeProfile       = errors.New("no employee profile linked to this account")
)
