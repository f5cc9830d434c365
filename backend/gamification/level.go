// Package gamification holds the pure XP, level and streak rules.
package gamification

import "math"

// LevelForXP derives the level from accumulated XP: floor(sqrt(totalXP / 100)).
func LevelForXP(totalXP int) int {
	if totalXP < 100 {
		return 0
	}
	level := int(math.Sqrt(float64(totalXP) / 100))
	// Guard against float rounding on exact squares.
	for XPThresholdForLevel(level) <= totalXP {
		level++
	}
	for level > 0 && level*level*100 > totalXP {
		level--
	}
	return level
}

// XPThresholdForLevel is the XP needed to reach level+1.
func XPThresholdForLevel(level int) int {
	if level < 0 {
		level = 0
	}
	return (level + 1) * (level + 1) * 100
}

// XPToNextLevel is how much XP is still missing to reach the next level.
func XPToNextLevel(totalXP int) int {
	return XPThresholdForLevel(LevelForXP(totalXP)) - totalXP
}
