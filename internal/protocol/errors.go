package protocol

import "battlecode.ai/internal/sim/gameerr"

const (
	// Protocol/transport validation.
	ErrProtoBadRequest = "E_PROTO_BAD_REQUEST"
	ErrVersion         = "E_VERSION"
	ErrSeatTaken       = "E_SEAT_TAKEN"
	ErrBadKey          = "E_BAD_KEY"
	ErrNotYourTurn     = "E_NOT_YOUR_TURN"
	ErrStale           = "E_STALE"
	ErrRateLimit       = "E_RATE_LIMIT"

	// Game rule layer, one per engine error code.
	ErrInvalidMap           = "E_INVALID_MAP"
	ErrNoSuchUnit           = "E_NO_SUCH_UNIT"
	ErrTeamNotAllowed       = "E_TEAM_NOT_ALLOWED"
	ErrInappropriateUnit    = "E_INAPPROPRIATE_UNIT"
	ErrInvalidLocation      = "E_INVALID_LOCATION"
	ErrInvalidAction        = "E_INVALID_ACTION"
	ErrInvalidResearchLevel = "E_INVALID_RESEARCH_LEVEL"
	ErrInternal             = "E_INTERNAL"
)

var knownCodes = map[string]struct{}{
	ErrProtoBadRequest:      {},
	ErrVersion:              {},
	ErrSeatTaken:            {},
	ErrBadKey:               {},
	ErrNotYourTurn:          {},
	ErrStale:                {},
	ErrRateLimit:            {},
	ErrInvalidMap:           {},
	ErrNoSuchUnit:           {},
	ErrTeamNotAllowed:       {},
	ErrInappropriateUnit:    {},
	ErrInvalidLocation:      {},
	ErrInvalidAction:        {},
	ErrInvalidResearchLevel: {},
	ErrInternal:             {},
}

var gameCodes = map[gameerr.Code]string{
	gameerr.CodeInvalidMapObject:     ErrInvalidMap,
	gameerr.CodeNoSuchUnit:           ErrNoSuchUnit,
	gameerr.CodeTeamNotAllowed:       ErrTeamNotAllowed,
	gameerr.CodeInappropriateUnit:    ErrInappropriateUnit,
	gameerr.CodeInvalidLocation:      ErrInvalidLocation,
	gameerr.CodeInvalidAction:        ErrInvalidAction,
	gameerr.CodeInvalidResearchLevel: ErrInvalidResearchLevel,
	gameerr.CodeInternalEngine:       ErrInternal,
}

func IsKnownCode(code string) bool {
	if code == "" {
		return true
	}
	_, ok := knownCodes[code]
	return ok
}

// CodeFor maps an engine error to its wire code. nil maps to "" (success); errors
// that carry no game code are reported as internal.
func CodeFor(err error) string {
	if err == nil {
		return ""
	}
	if c, ok := gameCodes[gameerr.CodeOf(err)]; ok {
		return c
	}
	return ErrInternal
}
