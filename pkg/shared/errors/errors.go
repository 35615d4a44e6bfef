package errors

// CommandError is returned by commands to carry the exit code of the process.
type CommandError struct {
	ExitCode    int
	CommonError string
	Args        interface{}
	err         error
}

// Error implements the error interface, returning the message from the common error.
func (e *CommandError) Error() string {
	return e.CommonError
}

func (e *CommandError) Unwrap() error {
	return e.err
}

// NewCommandError creates a new CommandError instance, encapsulating the command args and the error.
func NewCommandError(args interface{}, err error, code int) *CommandError {
	return &CommandError{
		ExitCode:    code,
		CommonError: err.Error(),
		Args:        args,
		err:         err,
	}
}
