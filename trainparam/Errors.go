package trainparam

import "errors"

// ParamError implements errors unique to storing and restoring
// training parameters.
type ParamError struct {
	Op   string // the failing operation
	Info string // extra context such as a path or attribute name
	Err  error  // the underlying cause
}

// Error implements the error interface
func (e *ParamError) Error() string {
	if e.Info != "" {
		return e.Op + ": " + e.Err.Error() + " (" + e.Info + ")"
	}
	return e.Op + ": " + e.Err.Error()
}

// Unwrap returns the cause of the ParamError
func (e *ParamError) Unwrap() error {
	return e.Err
}

var errFileNotFound = errors.New("no such file")
var errMalformedFile = errors.New("file is not a valid parameter mapping")
var errTypeConversion = errors.New("cannot convert value")
var errDirectoryNotFound = errors.New("no such directory")
var errNotADirectory = errors.New("not a directory")
var errInvalidConfiguration = errors.New("invalid configuration")

// IsFileNotFound returns whether err indicates that the parameter
// file to load does not exist
func IsFileNotFound(err error) bool {
	if paramErr, ok := err.(*ParamError); ok {
		err = paramErr.Err
	}
	return err == errFileNotFound
}

// IsMalformedFile returns whether err indicates that a parameter file
// exists but does not hold a JSON mapping of attribute values
func IsMalformedFile(err error) bool {
	if paramErr, ok := err.(*ParamError); ok {
		err = paramErr.Err
	}
	return err == errMalformedFile
}

// IsTypeConversion returns whether err indicates that a value in a
// parameter mapping could not be converted to the numeric type of its
// attribute
func IsTypeConversion(err error) bool {
	if paramErr, ok := err.(*ParamError); ok {
		err = paramErr.Err
	}
	return err == errTypeConversion
}

// IsDirectoryNotFound returns whether err indicates that the
// directory to save parameters in does not exist
func IsDirectoryNotFound(err error) bool {
	if paramErr, ok := err.(*ParamError); ok {
		err = paramErr.Err
	}
	return err == errDirectoryNotFound
}

// IsNotADirectory returns whether err indicates that the path to save
// parameters under exists but is not a directory
func IsNotADirectory(err error) bool {
	if paramErr, ok := err.(*ParamError); ok {
		err = paramErr.Err
	}
	return err == errNotADirectory
}

// IsInvalidConfiguration returns whether err indicates that an
// operation was asked of parameters that cannot support it, such as
// computing a training cadence with an update frequency of 0
func IsInvalidConfiguration(err error) bool {
	if paramErr, ok := err.(*ParamError); ok {
		err = paramErr.Err
	}
	return err == errInvalidConfiguration
}
