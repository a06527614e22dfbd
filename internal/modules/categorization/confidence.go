package categorization

import "math"

// VolumeSaturation is the vote count at which an attachment's confidence
// stops being discounted for low volume.
const VolumeSaturation = 10

// Confidence converts vote counters into a bounded trust score in [0, 1],
// rounded to 2 decimals. Ten or more votes give full volume; below that the
// up-vote ratio is scaled down linearly.
func Confidence(upvotes, downvotes int) float64 {
	if upvotes < 0 {
		upvotes = 0
	}
	if downvotes < 0 {
		downvotes = 0
	}
	total := upvotes + downvotes
	if total == 0 {
		return 0
	}
	ratio := float64(upvotes) / float64(total)
	volume := math.Min(1, float64(total)/VolumeSaturation)
	return Round2(ratio * volume)
}

// Round2 rounds half away from zero to 2 decimals.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
