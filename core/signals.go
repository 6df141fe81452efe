package core

import "log"

// Signal is a notification pushed to the host application through a
// buffered channel. Hosts consume signals to refresh their UI; dispatch
// never blocks the framework.
type Signal any

type CommandDefinedSignal struct {
	id string
}

func (s CommandDefinedSignal) Value() string {
	return s.id
}

type CommandUndefinedSignal struct {
	id string
}

func (s CommandUndefinedSignal) Value() string {
	return s.id
}

// ExecutedSignal is dispatched after a command execution attempt, with
// the error if the execution failed.
type ExecutedSignal struct {
	id  string
	err error
}

func (s ExecutedSignal) Value() (id string, err error) {
	return s.id, s.err
}

// OperationAddedSignal is dispatched by the operation history when an
// operation becomes undoable.
type OperationAddedSignal struct {
	label string
}

func (s OperationAddedSignal) Value() string {
	return s.label
}

// UndoneSignal carries the label of the operation that was undone and
// the resulting status.
type UndoneSignal struct {
	label  string
	status Status
}

func (s UndoneSignal) Value() (label string, status Status) {
	return s.label, s.status
}

// RedoneSignal carries the label of the operation that was redone and
// the resulting status.
type RedoneSignal struct {
	label  string
	status Status
}

func (s RedoneSignal) Value() (label string, status Status) {
	return s.label, s.status
}

func dispatch(ch chan Signal, signal Signal) {
	select {
	case ch <- signal:
	default:
		log.Println("Signal channel is full, dropping signal")
	}
}
