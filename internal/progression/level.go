package progression

import (
	"math"
)

// ComputeExpThreshold returns the EXP needed to advance from level to level+1:
// floor(100 * level^1.5). Levels below StartingLevel are treated as StartingLevel.
//
// The value equals floor(sqrt(10000 * level^3)), which is computed with an exact
// integer square root so clients using the same formula never drift by one.
func ComputeExpThreshold(level int) int64 {
	if level < StartingLevel {
		level = StartingLevel
	}
	if level > maxExactLevel {
		return int64(BaseExp * math.Pow(float64(level), LevelExponent))
	}

	l := int64(level)
	n := BaseExp * BaseExp * l * l * l
	return isqrt(n)
}

// isqrt returns floor(sqrt(n)) for n >= 0
func isqrt(n int64) int64 {
	r := int64(math.Sqrt(float64(n)))
	for r*r > n {
		r--
	}
	for (r+1)*(r+1) <= n {
		r++
	}
	return r
}

// applyExp adds amount to exp and cascades level-ups while the threshold is met.
// The returned exp always satisfies 0 <= exp < ComputeExpThreshold(level).
func applyExp(level int, exp, amount int64) (newLevel int, newExp int64, levelsGained int) {
	if level < StartingLevel {
		level = StartingLevel
	}
	if exp < 0 {
		exp = 0
	}

	newLevel = level
	newExp = exp + amount
	for {
		threshold := ComputeExpThreshold(newLevel)
		if newExp < threshold {
			break
		}
		newExp -= threshold
		newLevel++
		levelsGained++
	}
	return newLevel, newExp, levelsGained
}

// ExpToNext returns how much EXP is still needed to leave level
func ExpToNext(level int, exp int64) int64 {
	remaining := ComputeExpThreshold(level) - exp
	if remaining < 0 {
		return 0
	}
	return remaining
}
