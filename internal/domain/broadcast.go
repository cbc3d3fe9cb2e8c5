package domain

// Entity names used by the broadcast API.
const (
	EntityBroadcast     = "Broadcast"
	EntityBroadcastItem = "BroadcastItem"
)

// Marker types. An "in" marker opens a section worth keeping, an "out"
// marker closes it.
const (
	MarkIn  = "in"
	MarkOut = "out"
)

// Broadcast is a single airing of a show as delivered by the broadcast API.
// All timestamps are epoch milliseconds.
type Broadcast struct {
	Start        int64    `json:"start"`
	End          int64    `json:"end"`
	Title        string   `json:"title"`
	URL          string   `json:"url"`
	Description  string   `json:"description,omitempty"`
	Subtitle     string   `json:"subtitle,omitempty"`
	PressRelease string   `json:"pressRelease,omitempty"`
	Images       []Image  `json:"images,omitempty"`
	Streams      []Stream `json:"streams"`
	Items        []Item   `json:"items"`
	Marks        []Mark   `json:"marks"`
}

// Duration returns the length of the broadcast in milliseconds.
func (b Broadcast) Duration() int64 {
	return b.End - b.Start
}

// Stream references the recorded audio of a broadcast.
type Stream struct {
	LoopStreamID string `json:"loopStreamId"`
	Start        int64  `json:"start"`
	End          int64  `json:"end"`
}

// Item is a segment of a broadcast (a song, a jingle, the news, ...).
type Item struct {
	Entity      string  `json:"entity"`
	Start       int64   `json:"start"`
	End         int64   `json:"end"`
	Type        string  `json:"type"`
	Title       string  `json:"title,omitempty"`
	Interpreter string  `json:"interpreter,omitempty"`
	Description string  `json:"description,omitempty"`
	Images      []Image `json:"images,omitempty"`
}

// Mark is a recommended cut point.
type Mark struct {
	Type      string `json:"type"`
	Timestamp int64  `json:"timestamp"`
}

// Image is a picture available in several resolutions.
type Image struct {
	Versions []ImageVersion `json:"versions"`
}

// ImageVersion is one resolution of an Image.
type ImageVersion struct {
	Path  string `json:"path"`
	Width int    `json:"width"`
}
