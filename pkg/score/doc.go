/*
Package score implements the saturating integer arithmetic used throughout
the scheduler to weigh node preference.

A Score is an int that saturates at +/- Infinity (defined as 1,000,000)
instead of overflowing. Two same-sign infinities stay infinite; opposite-sign
infinities resolve to -Infinity, since a single mandatory prohibition always
wins over a single mandatory preference.

# Usage

	s := score.Add(score.Infinity, 50)        // Infinity
	s = score.Add(score.Infinity, -score.Infinity) // -Infinity
	s = score.Add(100, 200)                   // 300

Multiplying a score by a fractional attenuation factor (used when
propagating colocation scores across hops) rounds half away from zero and
never collapses a nonzero score to zero:

	s := score.Multiply(3, 0.1) // 1, not 0
*/
package score
