package orchestrator

// Action is a user's choice, decoded from the transport callback payload
// into a typed variant before it reaches the orchestrator.
type Action interface {
	isAction()
}

// AudioAction requests audio extraction from a YouTube video. The canonical
// URL rides in the callback itself; no registry token is needed.
type AudioAction struct {
	URL string
}

// VideoAction asks for the rendition choices of a YouTube video.
type VideoAction struct {
	URL string
}

// ResolutionAction requests a YouTube video at an exact height.
type ResolutionAction struct {
	URL    string
	Height int
}

// InstagramVideoAction redeems a registry token for the video itself.
type InstagramVideoAction struct {
	Token string
}

// InstagramAudioAction redeems a registry token for audio extracted from
// the video.
type InstagramAudioAction struct {
	Token string
}

func (AudioAction) isAction()          {}
func (VideoAction) isAction()          {}
func (ResolutionAction) isAction()     {}
func (InstagramVideoAction) isAction() {}
func (InstagramAudioAction) isAction() {}
