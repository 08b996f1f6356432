// Package errors provides standardized error handling for romcat.
// It defines the error kinds used across the catalog engine and the preview
// pipeline, plus helpers for consistent creation, wrapping and inspection.
package errors

import (
	"errors"
	"fmt"
)

// Standard errors package errors that we re-export for convenience
var (
	// Unwrap unwraps an error to access the underlying error
	Unwrap = errors.Unwrap
	// Is reports whether any error in err's chain matches target
	Is = errors.Is
	// As finds the first error in err's chain that matches target
	As = errors.As
)

// ErrorKind represents the kind of error
type ErrorKind int

// Error kinds
const (
	Unknown ErrorKind = iota
	// File error kinds
	FileNotFound
	FileAccessDenied
	InvalidPath
	IOFailure
	// Config error kinds
	InvalidConfig
	ConfigNotFound
	// Catalog error kinds
	NotFound
	CapacityExceeded
	// Preview error kinds
	NoConnectivity
	DecodeFailure
	// Database error kinds
	DatabaseOperationFailed
	InvalidInputData
)

var kindNames = map[ErrorKind]string{
	Unknown:                 "unknown",
	FileNotFound:            "file_not_found",
	FileAccessDenied:        "file_access_denied",
	InvalidPath:             "invalid_path",
	IOFailure:               "io_failure",
	InvalidConfig:           "invalid_config",
	ConfigNotFound:          "config_not_found",
	NotFound:                "not_found",
	CapacityExceeded:        "capacity_exceeded",
	NoConnectivity:          "no_connectivity",
	DecodeFailure:           "decode_failure",
	DatabaseOperationFailed: "database_operation_failed",
	InvalidInputData:        "invalid_input_data",
}

// String returns the snake_case name of the kind.
func (k ErrorKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Common error constants for frequently occurring errors
var (
	ErrStationNotFound = NewStationError("station not found", -1, NotFound, nil)
	ErrRegistryFull    = NewStationError("station registry full", -1, CapacityExceeded, nil)
	ErrCatalogFull     = NewStationError("catalog full", -1, CapacityExceeded, nil)
	ErrNoConnectivity  = NewPreviewError("no internet connectivity", "", NoConnectivity, nil)
	ErrPreviewNotFound = NewPreviewError("preview not found", "", NotFound, nil)
)

// ApplicationError is the base error type for all application errors
type ApplicationError struct {
	msg  string
	err  error
	kind ErrorKind
}

// Error returns the error message
func (e *ApplicationError) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.err)
	}
	return e.msg
}

// Unwrap returns the wrapped error
func (e *ApplicationError) Unwrap() error {
	return e.err
}

// Kind returns the kind of error
func (e *ApplicationError) Kind() ErrorKind {
	return e.kind
}

// FileError represents errors related to file operations
type FileError struct {
	ApplicationError
	path string
}

// NewFileError creates a new file error
func NewFileError(msg string, path string, kind ErrorKind, err error) *FileError {
	return &FileError{
		ApplicationError: ApplicationError{
			msg:  msg,
			err:  err,
			kind: kind,
		},
		path: path,
	}
}

// Error returns the file error message
func (e *FileError) Error() string {
	if e.path != "" {
		if e.err != nil {
			return fmt.Sprintf("%s: %s: %v", e.msg, e.path, e.err)
		}
		return fmt.Sprintf("%s: %s", e.msg, e.path)
	}
	return e.ApplicationError.Error()
}

// Path returns the file path associated with the error
func (e *FileError) Path() string {
	return e.path
}

// ConfigError represents errors related to configuration
type ConfigError struct {
	ApplicationError
	param string
}

// NewConfigError creates a new configuration error
func NewConfigError(msg string, param string, kind ErrorKind, err error) *ConfigError {
	return &ConfigError{
		ApplicationError: ApplicationError{
			msg:  msg,
			err:  err,
			kind: kind,
		},
		param: param,
	}
}

// Error returns the config error message
func (e *ConfigError) Error() string {
	if e.param != "" {
		if e.err != nil {
			return fmt.Sprintf("%s: %s: %v", e.msg, e.param, e.err)
		}
		return fmt.Sprintf("%s: %s", e.msg, e.param)
	}
	return e.ApplicationError.Error()
}

// Param returns the configuration parameter associated with the error
func (e *ConfigError) Param() string {
	return e.param
}

// StationError represents errors raised by the station registry and the
// catalog store. A negative station id means the error is not tied to a slot.
type StationError struct {
	ApplicationError
	stationID int
}

// NewStationError creates a new station error
func NewStationError(msg string, stationID int, kind ErrorKind, err error) *StationError {
	return &StationError{
		ApplicationError: ApplicationError{
			msg:  msg,
			err:  err,
			kind: kind,
		},
		stationID: stationID,
	}
}

// Error returns the station error message
func (e *StationError) Error() string {
	if e.stationID >= 0 {
		if e.err != nil {
			return fmt.Sprintf("%s: station %d: %v", e.msg, e.stationID, e.err)
		}
		return fmt.Sprintf("%s: station %d", e.msg, e.stationID)
	}
	return e.ApplicationError.Error()
}

// StationID returns the station slot associated with the error
func (e *StationError) StationID() int {
	return e.stationID
}

// ForStation returns a copy of e tagged with slot id.
func (e *StationError) ForStation(id int) *StationError {
	c := *e
	c.stationID = id
	return &c
}

// Is matches two station errors of the same kind, so callers can compare
// against ErrStationNotFound without caring about the slot.
func (e *StationError) Is(target error) bool {
	t, ok := target.(*StationError)
	if !ok {
		return false
	}
	return t.kind == e.kind && t.msg == e.msg
}

// PreviewError represents errors produced by the preview pipeline
type PreviewError struct {
	ApplicationError
	romName string
}

// NewPreviewError creates a new preview error
func NewPreviewError(msg string, romName string, kind ErrorKind, err error) *PreviewError {
	return &PreviewError{
		ApplicationError: ApplicationError{
			msg:  msg,
			err:  err,
			kind: kind,
		},
		romName: romName,
	}
}

// Error returns the preview error message
func (e *PreviewError) Error() string {
	if e.romName != "" {
		if e.err != nil {
			return fmt.Sprintf("%s: %s: %v", e.msg, e.romName, e.err)
		}
		return fmt.Sprintf("%s: %s", e.msg, e.romName)
	}
	return e.ApplicationError.Error()
}

// RomName returns the ROM display name associated with the error
func (e *PreviewError) RomName() string {
	return e.romName
}

// ForRom returns a copy of e naming the ROM and the underlying cause.
func (e *PreviewError) ForRom(romName string, err error) *PreviewError {
	c := *e
	c.romName = romName
	c.err = err
	return &c
}

// Is matches two preview errors of the same kind and message.
func (e *PreviewError) Is(target error) bool {
	t, ok := target.(*PreviewError)
	if !ok {
		return false
	}
	return t.kind == e.kind && t.msg == e.msg
}

// New creates a new error with a message
func New(msg string) error {
	return &ApplicationError{
		msg:  msg,
		kind: Unknown,
	}
}

// Newf creates a new error with a formatted message
func Newf(format string, args ...interface{}) error {
	return &ApplicationError{
		msg:  fmt.Sprintf(format, args...),
		kind: Unknown,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return &ApplicationError{
		msg:  msg,
		err:  err,
		kind: Unknown,
	}
}

// Wrapf wraps an existing error with additional formatted context
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return &ApplicationError{
		msg:  fmt.Sprintf(format, args...),
		err:  err,
		kind: Unknown,
	}
}

// KindOf returns the kind of the first classified error in err's chain.
func KindOf(err error) ErrorKind {
	for err != nil {
		if k, ok := err.(interface{ Kind() ErrorKind }); ok && k.Kind() != Unknown {
			return k.Kind()
		}
		err = errors.Unwrap(err)
	}
	return Unknown
}

func hasKind(err error, kind ErrorKind) bool {
	for err != nil {
		if k, ok := err.(interface{ Kind() ErrorKind }); ok && k.Kind() == kind {
			return true
		}
		err = errors.Unwrap(err)
	}
	return false
}

// IsFileNotFound checks if the error is a file not found error
func IsFileNotFound(err error) bool {
	var fileErr *FileError
	if errors.As(err, &fileErr) {
		return fileErr.Kind() == FileNotFound
	}
	return false
}

// IsFileAccessDenied checks if the error is a file access denied error
func IsFileAccessDenied(err error) bool {
	var fileErr *FileError
	if errors.As(err, &fileErr) {
		return fileErr.Kind() == FileAccessDenied
	}
	return false
}

// IsInvalidConfig checks if the error is an invalid configuration error
func IsInvalidConfig(err error) bool {
	var configErr *ConfigError
	if errors.As(err, &configErr) {
		return configErr.Kind() == InvalidConfig
	}
	return false
}

// IsNotFound checks if any error in the chain is a not-found error
func IsNotFound(err error) bool {
	return hasKind(err, NotFound)
}

// IsCapacityExceeded checks if the registry or catalog ran out of room
func IsCapacityExceeded(err error) bool {
	return hasKind(err, CapacityExceeded)
}

// IsIOFailure checks if the error is a non-fatal IO failure
func IsIOFailure(err error) bool {
	return hasKind(err, IOFailure)
}

// IsNoConnectivity checks if a preview fetch was short-circuited offline
func IsNoConnectivity(err error) bool {
	return hasKind(err, NoConnectivity)
}

// IsDecodeFailure checks if an image could not be decoded
func IsDecodeFailure(err error) bool {
	return hasKind(err, DecodeFailure)
}

// DatabaseError represents errors related to database operations
type DatabaseError struct {
	ApplicationError
	operation string
	context   map[string]interface{}
}

// NewDatabaseError creates a new database error
func NewDatabaseError(msg string, err error) *DatabaseError {
	return &DatabaseError{
		ApplicationError: ApplicationError{
			msg:  msg,
			err:  err,
			kind: DatabaseOperationFailed,
		},
		operation: "",
		context:   make(map[string]interface{}),
	}
}

// WithOperation adds operation information to the database error
func (e *DatabaseError) WithOperation(operation string) *DatabaseError {
	e.operation = operation
	return e
}

// WithContext adds context information to the database error
func (e *DatabaseError) WithContext(key string, value interface{}) *DatabaseError {
	e.context[key] = value
	return e
}

// Error returns the database error message
func (e *DatabaseError) Error() string {
	if e.operation != "" {
		if e.err != nil {
			return fmt.Sprintf("%s: operation=%s: %v", e.msg, e.operation, e.err)
		}
		return fmt.Sprintf("%s: operation=%s", e.msg, e.operation)
	}
	return e.ApplicationError.Error()
}

// Operation returns the database operation associated with the error
func (e *DatabaseError) Operation() string {
	return e.operation
}

// Context returns the context information associated with the error
func (e *DatabaseError) Context() map[string]interface{} {
	return e.context
}

// InvalidInputError represents errors related to invalid input data
type InvalidInputError struct {
	ApplicationError
	context map[string]interface{}
}

// NewInvalidInputError creates a new invalid input error
func NewInvalidInputError(msg string, err error) *InvalidInputError {
	return &InvalidInputError{
		ApplicationError: ApplicationError{
			msg:  msg,
			err:  err,
			kind: InvalidInputData,
		},
		context: make(map[string]interface{}),
	}
}

// WithContext adds context information to the invalid input error
func (e *InvalidInputError) WithContext(key string, value interface{}) *InvalidInputError {
	e.context[key] = value
	return e
}

// Context returns the context information associated with the error
func (e *InvalidInputError) Context() map[string]interface{} {
	return e.context
}

// IsDatabaseError checks if the error is a database error
func IsDatabaseError(err error) bool {
	var dbErr *DatabaseError
	return errors.As(err, &dbErr)
}

// IsInvalidInputError checks if the error is an invalid input error
func IsInvalidInputError(err error) bool {
	var inputErr *InvalidInputError
	return errors.As(err, &inputErr)
}
