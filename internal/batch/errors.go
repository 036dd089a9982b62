package batch

import "errors"

var (
	ErrCertificationNotFound  = errors.New("certification not found")
	ErrCertificationNotActive = errors.New("certification is not active")
)
