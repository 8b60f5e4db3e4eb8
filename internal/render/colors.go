package render

// xterm-256 palette indices for nucleotide and quality coloring.

// baseColors maps nucleotides to their display color, keyed by uppercase
// base; lowercase bases resolve to the same entry. Any other byte is
// printed unstyled.
var baseColors = map[byte]string{
	'A': "46",  // Green
	'T': "196", // Red
	'G': "226", // Yellow
	'C': "33",  // Blue
	'N': "240", // Gray
}

// qualityRamp maps a Phred score to a color index, red through yellow and
// green to teal. Scores past the end of the ramp reuse the last entry.
var qualityRamp = [...]string{
	// 0-9: reds into magenta
	"196", "197", "198", "199", "200", "201", "201", "201", "201", "201",
	// 10-19: oranges and yellows
	"208", "214", "220", "226", "227", "228", "229", "230", "190", "191",
	// 20-29: pale greens
	"192", "149", "150", "151", "152", "114", "115", "116", "84", "85",
	// 30-34: bright green
	"82", "82", "82", "82", "82",
	// 35-39: green
	"46", "46", "46", "46", "46",
	// 40+: teal
	"48", "48",
}

// rampIndex clamps a Phred score to the ramp's bounds.
func rampIndex(score int) int {
	if score < 0 {
		return 0
	}
	if score >= len(qualityRamp) {
		return len(qualityRamp) - 1
	}
	return score
}
