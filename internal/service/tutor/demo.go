package tutor

import (
	"strings"

	"lingua_tutor_server/internal/provider"
	"lingua_tutor_server/pkg/constants"
)

// demoClip is one bundled offline avatar asset.
type demoClip struct {
	videoURL string
	audioURL string
}

// demoClips maps lowercase tutor names to bundled assets. Unknown tutors
// get the default clip.
var demoClips = map[string]demoClip{
	"sam": {
		videoURL: "/static/demo/sam_talking.mp4",
		audioURL: "/static/demo/sam_voice.mp3",
	},
	"maria": {
		videoURL: "/static/demo/maria_talking.mp4",
		audioURL: "/static/demo/maria_voice.mp3",
	},
	"kenji": {
		videoURL: "/static/demo/kenji_talking.mp4",
		audioURL: "/static/demo/kenji_voice.mp3",
	},
}

var defaultDemoClip = demoClip{
	videoURL: "/static/demo/tutor_talking.mp4",
	audioURL: "/static/demo/tutor_voice.mp3",
}

// demoVideo serves the bundled clip for the tutor. It always succeeds.
func (t *tutorService) demoVideo(text, tutorName string) provider.MediaResult {
	clip, ok := demoClips[strings.ToLower(strings.TrimSpace(tutorName))]
	if !ok {
		clip = defaultDemoClip
	}
	return provider.MediaResult{
		VideoURL:        clip.videoURL,
		AudioURL:        clip.audioURL,
		DurationSeconds: TalkDuration(text),
		IsLive:          false,
		Provider:        "demo",
		Degraded:        true,
	}
}

// TalkDuration estimates speaking time in seconds for a piece of text,
// about ten characters per second, clamped to a sane playback range.
func TalkDuration(text string) int {
	seconds := (len(text) + 9) / 10
	if seconds < constants.TALK_DURATION_MIN {
		return constants.TALK_DURATION_MIN
	}
	if seconds > constants.TALK_DURATION_MAX {
		return constants.TALK_DURATION_MAX
	}
	return seconds
}
