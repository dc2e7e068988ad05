package errs

// State is the error state owned by a plugin instance.
//
// Every public plugin operation calls Clear before doing any work, so a
// non-zero Code always describes the most recent call only.
//
// State is not safe for concurrent use; each plugin clone owns its own.
type State struct {
	err *Error
}

// Clear resets the state to success.
func (s *State) Clear() {
	s.err = nil
}

// Set records err and returns it as an error value, so callers can write
// `return p.state.Set(err)`. A nil err clears the state and returns nil.
func (s *State) Set(err error) error {
	if err == nil {
		s.err = nil
		return nil
	}
	s.err = From(err)

	return s.err
}

// SetCode records a coded failure built from a sentinel and a message.
func (s *State) SetCode(code int, sentinel error, format string, args ...any) error {
	s.err = New(code, sentinel, format, args...)

	return s.err
}

// Code returns the current error code, 0 meaning success.
func (s *State) Code() int {
	if s.err == nil {
		return 0
	}

	return s.err.Code
}

// Msg returns the current error message, "" on success.
func (s *State) Msg() string {
	if s.err == nil {
		return ""
	}

	return s.err.Msg
}

// Err returns the current error or nil.
func (s *State) Err() error {
	if s.err == nil {
		return nil
	}

	return s.err
}
