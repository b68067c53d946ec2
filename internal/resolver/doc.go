// Package resolver picks the overload a call binds to.
//
// Resolution is a pure function of the index contents, the call name and
// the argument types: candidates are filtered by arity, then by the
// promotion table (Promote), then narrowed to exact bindings when any exist.
// The outcome is a Resolution value; failures carry an *OverloadError that
// lists every relevant signature.
package resolver
