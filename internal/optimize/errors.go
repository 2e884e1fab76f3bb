package optimize

import "errors"

// Sentinel errors distinguishing caller mistakes. Transport layers map these
// to status codes; everything else is an internal failure.
var (
	// ErrInvalidParameter indicates a request field outside its allowed range.
	ErrInvalidParameter = errors.New("optimize: invalid parameter")
	// ErrUnknownCookie indicates a name not present in the catalog or the
	// treasure table.
	ErrUnknownCookie = errors.New("optimize: unknown cookie")
	// ErrUnknownBoss indicates a guild battle request naming a boss not in
	// the loaded profiles.
	ErrUnknownBoss = errors.New("optimize: unknown boss")
	// ErrInfeasibleConstraint indicates a request whose constraints no team
	// can satisfy, such as a pool too small for the open slots or an
	// exhaustive run refused by the practicality guard.
	ErrInfeasibleConstraint = errors.New("optimize: infeasible constraint")
)
