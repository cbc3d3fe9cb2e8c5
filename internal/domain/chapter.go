package domain

// Item type codes as used by the broadcast API.
const (
	TypeFeature       = "B"
	TypeJingle        = "J"
	TypeMusic         = "M"
	TypeNews          = "N"
	TypeSpecial       = "SO"
	TypeAdvertisement = "W"
)

// ChapterTypes maps the known type codes to a human readable description.
var ChapterTypes = map[string]string{
	TypeFeature:       "Feature (\"Beitrag\")",
	TypeJingle:        "Jingle",
	TypeMusic:         "Music (\"Musik\")",
	TypeNews:          "News (\"Nachrichten\")",
	TypeSpecial:       "Feature",
	TypeAdvertisement: "Advertisement (\"Werbung\")",
}

// Chapter is a typed, titled segment of a broadcast. Start and End are
// milliseconds relative to the start of the audio the chapter describes.
type Chapter struct {
	ID     string  `json:"id"`
	Start  int64   `json:"start"`
	End    int64   `json:"end"`
	Title  string  `json:"title,omitempty"`
	Hidden bool    `json:"hidden"`
	Type   string  `json:"type"`
	Images []Image `json:"images,omitempty"`
}

// Duration returns the chapter length in milliseconds.
func (c Chapter) Duration() int64 {
	return c.End - c.Start
}
