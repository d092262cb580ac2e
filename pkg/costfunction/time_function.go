package costfunction

import (
	"math"

	"github.com/lintang-b-s/navigatorx-matrix/pkg"
)

// TimeFunction. travel time in deciseconds.
type TimeFunction struct {
	uTurnPenalty int32
}

func NewTimeCostFunction(uTurnPenalty int32) *TimeFunction {
	if uTurnPenalty <= 0 {
		uTurnPenalty = pkg.DEFAULT_U_TURN_PENALTY
	}
	return &TimeFunction{uTurnPenalty: uTurnPenalty}
}

const (
	defaultSpeed = 20.0 // km/h
)

func (tf *TimeFunction) GetWeight(e EdgeAttributes) int32 {
	speed := e.GetEdgeSpeed()
	if speed <= 0 {
		speed = pkg.HighwayMaxSpeed(e.GetHighwayType())
	}
	if speed <= 0 {
		speed = defaultSpeed
	}
	// m / (km/h) -> deciseconds: length / (speed/3.6) * 10
	w := math.Round(e.GetLength() * 36 / speed)
	if w < 1 {
		// searches assume strictly positive weights
		return 1
	}
	return int32(w)
}

func (tf *TimeFunction) GetTurnCost(turnType pkg.TurnType) int32 {
	switch turnType {
	case pkg.U_TURN:
		return tf.uTurnPenalty
	case pkg.NO_ENTRY:
		return pkg.INF_WEIGHT
	case pkg.LEFT_TURN, pkg.RIGHT_TURN:
		return pkg.TURN_PENALTY_DECISECOND
	default:
		return 0
	}
}

const (
	straightThreshold = 30.0  // degree
	sharpThreshold    = 120.0 // degree
)

// ClassifyTurn maps the signed heading change (positive = right) to a turn type.
func ClassifyTurn(angle float64) pkg.TurnType {
	abs := math.Abs(angle)
	switch {
	case abs <= straightThreshold:
		return pkg.STRAIGHT_ON
	case abs >= 179:
		return pkg.U_TURN
	case angle > 0:
		return pkg.RIGHT_TURN
	default:
		return pkg.LEFT_TURN
	}
}

// IsSharpTurn. turns tighter than sharpThreshold pay an extra penalty.
func IsSharpTurn(angle float64) bool {
	return math.Abs(angle) >= sharpThreshold && math.Abs(angle) < 179
}

// TurnPenalty. cost of turning by angle for a non u-turn transition.
func (tf *TimeFunction) TurnPenalty(angle float64) int32 {
	turnType := ClassifyTurn(angle)
	if turnType == pkg.U_TURN {
		// geometric u-turn between two different segments (e.g. a hairpin) is a sharp turn
		return pkg.SHARP_TURN_PENALTY_DECISECOND
	}
	penalty := tf.GetTurnCost(turnType)
	if IsSharpTurn(angle) {
		penalty = pkg.SHARP_TURN_PENALTY_DECISECOND
	}
	return penalty
}

func (tf *TimeFunction) UTurnPenalty() int32 {
	return tf.uTurnPenalty
}
