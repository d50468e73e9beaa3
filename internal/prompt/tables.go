package prompt

// styleEntry pairs a lookup key with its descriptive phrase.
// Tables are ordered slices so first-match-wins is explicit and stable.
type styleEntry struct {
	key    string
	phrase string
}

// energyQualities describe movement for still images, keyed by energy level.
var energyQualities = map[string]string{
	"low":    "gentle, flowing, peaceful movement",
	"medium": "steady, rhythmic, balanced energy",
	"high":   "dynamic, powerful, intense motion",
}

// energyMovements describe camera pacing for video, keyed by energy level.
var energyMovements = map[string]string{
	"low":    "slow, gentle, flowing camera movements with peaceful transitions",
	"medium": "steady, rhythmic pacing with smooth camera work",
	"high":   "dynamic, energetic movement with quick cuts and flowing motion",
}

// emotionColors is the fallback palette when the profile carries no
// explicit color palette.
var emotionColors = []styleEntry{
	{"graceful", "elegant gold and white tones"},
	{"triumphant", "victory gold and electric blue"},
	{"flowing", "fluid blues and silvers"},
	{"energetic", "vibrant oranges and electric colors"},
	{"calm", "soft blues and pearl whites"},
	{"confident", "bold golds and deep blues"},
	{"peaceful", "gentle greens and soft whites"},
}

// emotionLighting is the video fallback palette, which also specifies
// lighting treatment.
var emotionLighting = []styleEntry{
	{"graceful", "elegant gold and soft white tones with warm lighting"},
	{"triumphant", "victory gold and electric blue with dramatic lighting"},
	{"flowing", "fluid blues and silvers with ethereal lighting"},
	{"energetic", "vibrant oranges and electric colors with dynamic lighting"},
	{"calm", "soft blues and pearl whites with gentle, diffused lighting"},
	{"confident", "bold golds and deep blues with strong, directional lighting"},
	{"peaceful", "gentle greens and soft whites with natural lighting"},
}

// genreStyles map genres to image style phrases.
var genreStyles = []styleEntry{
	{"electronic", "digital art, geometric patterns, futuristic elements"},
	{"pop", "vibrant, contemporary, bold graphics"},
	{"folk", "organic, natural textures, hand-crafted feel"},
	{"ambient", "atmospheric, ethereal, abstract flows"},
	{"rock", "dramatic, high contrast, powerful composition"},
	{"classical", "elegant, refined, timeless beauty"},
}

// genreVideoStyles map genres to video style phrases.
var genreVideoStyles = []styleEntry{
	{"electronic", "futuristic, digital aesthetic with geometric patterns and neon accents"},
	{"pop", "vibrant, contemporary style with bold visual elements"},
	{"folk", "organic, natural textures with earthy, hand-crafted feel"},
	{"ambient", "atmospheric, ethereal with abstract flowing elements"},
	{"rock", "dramatic, high contrast with powerful visual composition"},
	{"classical", "elegant, refined with timeless, sophisticated visuals"},
	{"jazz", "smooth, sophisticated with warm, moody atmosphere"},
}

// emotionStyles map emotional tags to image composition phrases.
var emotionStyles = []styleEntry{
	{"graceful", "fluid, elegant curves, refined composition"},
	{"triumphant", "upward movement, victory poses, heroic lighting"},
	{"flowing", "smooth gradients, continuous motion lines"},
	{"confident", "strong composition, clear focal points"},
	{"energetic", "dynamic angles, explosive patterns"},
}

// lookupFirst returns the phrase for the first key present in the table.
func lookupFirst(table []styleEntry, keys []string, max int) string {
	if max < len(keys) {
		keys = keys[:max]
	}
	for _, k := range keys {
		for _, e := range table {
			if e.key == k {
				return e.phrase
			}
		}
	}
	return ""
}

// lookupAll returns phrases for every key present in the table, in key
// order, capped at max keys considered.
func lookupAll(table []styleEntry, keys []string, max int) []string {
	if max < len(keys) {
		keys = keys[:max]
	}
	var out []string
	for _, k := range keys {
		for _, e := range table {
			if e.key == k {
				out = append(out, e.phrase)
				break
			}
		}
	}
	return out
}
