package mood

import "strings"

// fallbackBucket maps trigger keywords to a canned analysis result.
type fallbackBucket struct {
	keywords     []string
	tags         []string
	genres       []string
	playlistName string
}

// fallbackBuckets are checked in order; the first bucket with a matching
// keyword wins.
var fallbackBuckets = []fallbackBucket{
	{
		keywords:     []string{"calm", "peaceful", "relaxed", "serene"},
		tags:         []string{"calm", "peaceful"},
		genres:       []string{"ambient", "folk"},
		playlistName: "Peaceful Moments",
	},
	{
		keywords:     []string{"happy", "excited", "energetic", "pumped"},
		tags:         []string{"happy", "energetic"},
		genres:       []string{"pop", "electronic"},
		playlistName: "Energy Boost",
	},
	{
		keywords:     []string{"sad", "melancholy", "down", "blue"},
		tags:         []string{"melancholic", "reflective"},
		genres:       []string{"folk", "indie"},
		playlistName: "Reflection Time",
	},
}

// fallbackDefault covers mood text matching no bucket.
var fallbackDefault = fallbackBucket{
	tags:         []string{"contemplative", "mixed"},
	genres:       []string{"indie", "alternative"},
	playlistName: "Mixed Feelings",
}

// fallbackProfile builds a profile from keyword matching alone.
// It never fails; the result passes through the same normalization as
// remote profiles so optional fields carry their documented defaults.
func fallbackProfile(moodText string) Profile {
	lower := strings.ToLower(moodText)

	bucket := fallbackDefault
	for _, b := range fallbackBuckets {
		if containsAny(lower, b.keywords) {
			bucket = b
			break
		}
	}

	return normalize(Profile{
		EmotionalTags: bucket.tags,
		Genres:        bucket.genres,
		PlaylistName:  bucket.playlistName,
	})
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
