package resolve

// State is a step of one resolution. The pipeline is a short linear chain;
// making the transitions explicit keeps the failure paths enumerable and
// testable without any network timing.
type State int

const (
	StateIdle State = iota
	StateCacheCheck
	StateGeocoding
	StateQueryBuild
	StateFetching
	StateNormalizing
	StateCacheStore
	StateDone
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateCacheCheck:
		return "cache_check"
	case StateGeocoding:
		return "geocoding"
	case StateQueryBuild:
		return "query_build"
	case StateFetching:
		return "fetching"
	case StateNormalizing:
		return "normalizing"
	case StateCacheStore:
		return "cache_store"
	case StateDone:
		return "done"
	default:
		return "unknown"
	}
}

// Outcome is the result of executing one state.
type Outcome int

const (
	// OutcomeAdvance moves to the next pipeline step.
	OutcomeAdvance Outcome = iota
	// OutcomeCacheHit short-circuits the pipeline with the cached result.
	OutcomeCacheHit
	// OutcomeCacheMiss enters the geocoding path.
	OutcomeCacheMiss
	// OutcomeNotFound ends the resolution: the city has no coordinates.
	OutcomeNotFound
	// OutcomeFailure ends the resolution after a reported error.
	OutcomeFailure
)

// Next is the pure transition function of the resolution state machine.
// Every failure or terminal outcome lands in StateDone.
func Next(s State, o Outcome) State {
	if o == OutcomeFailure || o == OutcomeNotFound || o == OutcomeCacheHit {
		return StateDone
	}

	switch s {
	case StateIdle:
		return StateCacheCheck
	case StateCacheCheck:
		// OutcomeCacheHit handled above; a miss enters geocoding.
		return StateGeocoding
	case StateGeocoding:
		return StateQueryBuild
	case StateQueryBuild:
		return StateFetching
	case StateFetching:
		return StateNormalizing
	case StateNormalizing:
		return StateCacheStore
	case StateCacheStore:
		return StateDone
	default:
		return StateDone
	}
}
