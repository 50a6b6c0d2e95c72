package component

// SoundRequest asks the audio system to play a named cue once. The request
// entity is destroyed when consumed.
type SoundRequest struct {
	Name   string
	Volume float64
}

var SoundRequestComponent = NewComponent[SoundRequest]()
