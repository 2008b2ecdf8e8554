package game

// Phase is a state of the turn/prompt machine. Transitions are
// deterministic functions of (phase, executed action, dice outcome) and
// happen exclusively inside the action executor.
type Phase uint8

const (
	InitialPlacementRound1 Phase = iota
	InitialPlacementRound2
	MustRoll
	MainAction
	MustDiscard
	MustMoveRobber
	MustRespondToTrade
	GameOver
)

var phaseNames = map[Phase]string{
	InitialPlacementRound1: "INITIAL_PLACEMENT_1",
	InitialPlacementRound2: "INITIAL_PLACEMENT_2",
	MustRoll:               "MUST_ROLL",
	MainAction:             "MAIN_ACTION",
	MustDiscard:            "MUST_DISCARD",
	MustMoveRobber:         "MUST_MOVE_ROBBER",
	MustRespondToTrade:     "MUST_RESPOND_TO_TRADE",
	GameOver:               "GAME_OVER",
}

func (p Phase) String() string {
	if name, ok := phaseNames[p]; ok {
		return name
	}
	return "UNKNOWN"
}
