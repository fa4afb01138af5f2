package loteca

import "math"

var resultPoints = map[string]float64{
	ResultWin:  3,
	ResultDraw: 1,
	ResultLoss: 0,
}

// Momentum is the position-weighted average of points over the recent results, oldest first.
// The newest result weighs the most. No results gives 0.
func Momentum(results []string) float64 {
	if len(results) == 0 {
		return 0
	}
	var sum, weights float64
	for i, r := range results {
		w := float64(i + 1)
		sum += resultPoints[r] * w
		weights += w
	}
	return sum / weights
}

// Desperation models table pressure. Nothing before startRound; afterwards a coefficient for the
// rank's zone scaled by season progress.
func Desperation(rank, round, startRound, seasonRounds int) float64 {
	if round < startRound || seasonRounds <= 0 {
		return 0
	}
	var coef float64
	switch {
	case rank <= 3: // title
		coef = 1.0
	case rank <= 8: // continental spots
		coef = 0.7
	case rank >= 17: // relegation
		coef = 1.2
	case rank >= 14: // relegation alert
		coef = 0.5
	}
	return coef * float64(round) / float64(seasonRounds)
}

// Soberba is the risk of a favourite with a cup match coming up dropping points.
// Zero without a cup match or when the opponent ranks equal or better.
func Soberba(hasCupMatch bool, ownRank, opponentRank, round, seasonRounds int) float64 {
	if !hasCupMatch || seasonRounds <= 0 {
		return 0
	}
	gap := opponentRank - ownRank
	if gap <= 0 {
		return 0
	}
	return math.Pow(float64(gap)/20, 2) * float64(round) / float64(seasonRounds)
}
