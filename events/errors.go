package events

import "fmt"

// AlreadyDefinedError is EventAlreadyDefined: a namespace/name pair was
// defined more than once.
type AlreadyDefinedError struct {
	Namespace string
	EventName string
}

func (e *AlreadyDefinedError) Error() string {
	return fmt.Sprintf("event %s.%s already defined", e.Namespace, e.EventName)
}

// UnknownEventError is UnknownEvent: an operation referenced an undefined
// (namespace, name) pair.
type UnknownEventError struct {
	Namespace string
	EventName string
}

func (e *UnknownEventError) Error() string {
	return fmt.Sprintf("unknown event %s.%s", e.Namespace, e.EventName)
}
