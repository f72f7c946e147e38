package codes

import (
	errs "github.com/bdlm/errors"
	std "github.com/bdlm/std/error"
)

const (
	// ErrUnspecified - 1000: The error code was unspecified
	ErrUnspecified std.Code = iota + 1000
	// ErrInvalidSpec - 1001: A view specification could not be parsed
	ErrInvalidSpec
	// ErrHandler - 1002: An event handler aborted a recomputation pass
	ErrHandler
	// ErrK8sConfig - 1003: The kubernetes client could not be configured
	ErrK8sConfig
	// ErrK8sList - 1004: The kubernetes service list could not be read
	ErrK8sList
	// ErrServiceProxy - 1005: A reverse proxy could not be built for a service
	ErrServiceProxy
	// ErrRecord - 1006: A record does not support the requested operation
	ErrRecord
)

func init() {
	errs.Codes[ErrUnspecified] = errs.ErrCode{Ext: "An unknown error occurred", Int: "An unknown error occurred", HTTP: 500}
	errs.Codes[ErrInvalidSpec] = errs.ErrCode{Ext: "Invalid view specification", Int: "The view specification could not be parsed", HTTP: 400}
	errs.Codes[ErrHandler] = errs.ErrCode{Ext: "An internal error occurred", Int: "An event handler returned an error", HTTP: 500}
	errs.Codes[ErrK8sConfig] = errs.ErrCode{Ext: "Service discovery is unavailable", Int: "Could not configure the kubernetes client", HTTP: 503}
	errs.Codes[ErrK8sList] = errs.ErrCode{Ext: "Service discovery is unavailable", Int: "Could not list kubernetes services", HTTP: 503}
	errs.Codes[ErrServiceProxy] = errs.ErrCode{Ext: "Bad gateway", Int: "Could not create a reverse proxy for the service", HTTP: 502}
	errs.Codes[ErrRecord] = errs.ErrCode{Ext: "An internal error occurred", Int: "The record does not support this operation", HTTP: 500}
}

/*
Is returns whether err carries the given error code.
*/
func Is(err error, code std.Code) bool {
	if coded, ok := err.(std.Error); ok {
		return coded.Code() == code
	}
	return false
}
