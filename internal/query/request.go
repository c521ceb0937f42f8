// Package query coordinates a page with a remote procedure data source:
// cache identity, request gating, dedup, stale-response dropping,
// client-side pagination and panel visibility. All mutation happens on
// the bubbletea event loop; fetches run in tea.Cmd goroutines and are
// delivered back as Result messages.
package query

import "strings"

// Key is the cache identity for a procedure invocation: the procedure id
// plus its ordered parameters. Two invocations with the same key share
// one cached state and one in-flight operation.
type Key string

// Param is a single named procedure parameter. Order matters for identity.
type Param struct {
	Name  string
	Value string
}

// Request is a tagged variant: either an enabled procedure invocation or
// Disabled ("do not execute"). A disabled request never reaches the
// network and its state is permanently idle.
type Request struct {
	proc    string
	params  []Param
	enabled bool
}

// New builds an enabled request for the given procedure.
func New(proc string, params ...Param) Request {
	return Request{proc: proc, params: params, enabled: true}
}

// Disabled returns the do-not-execute request.
func Disabled() Request {
	return Request{}
}

// Require gates a request on its parameters: if any value is empty after
// trimming, the request is Disabled. Route-driven pages use this so a
// missing scope never issues a call. Pure; no side effects.
func Require(proc string, params ...Param) Request {
	for _, p := range params {
		if strings.TrimSpace(p.Value) == "" {
			return Disabled()
		}
	}
	return New(proc, params...)
}

// Enabled reports whether the request may execute.
func (r Request) Enabled() bool {
	return r.enabled
}

// Proc returns the procedure id, or "" for a disabled request.
func (r Request) Proc() string {
	return r.proc
}

// Key derives the cache identity. Disabled requests share the empty key,
// which the cache never stores.
func (r Request) Key() Key {
	if !r.enabled {
		return ""
	}
	var b strings.Builder
	b.WriteString(r.proc)
	for _, p := range r.params {
		b.WriteByte('?')
		b.WriteString(p.Name)
		b.WriteByte('=')
		b.WriteString(p.Value)
	}
	return Key(b.String())
}
