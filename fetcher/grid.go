package fetcher

import "encoding/json"

// Grid is one decoded grid payload: the channel lineup for a postal code
// with the events of a single time window. Only the fields the transform
// consumes are decoded.
type Grid struct {
	Channels []Channel `json:"channels"`
}

// Channel is one lineup entry and its events for the window.
type Channel struct {
	ChannelNo string  `json:"channelNo"`
	ChannelID string  `json:"channelId"`
	CallSign  string  `json:"callSign"`
	Thumbnail string  `json:"thumbnail"`
	Events    []Event `json:"events"`
}

// Event is a single scheduled airing.
type Event struct {
	StartTime string      `json:"startTime"`
	EndTime   string      `json:"endTime"`
	Duration  json.Number `json:"duration"`
	Filter    []string    `json:"filter"`
	Thumbnail string      `json:"thumbnail"`
	Rating    string      `json:"rating"`
	Flag      []string    `json:"flag"`
	Program   Program     `json:"program"`
}

// Program is the programme metadata embedded in an event.
type Program struct {
	Title        string `json:"title"`
	EpisodeTitle string `json:"episodeTitle"`
	ShortDesc    string `json:"shortDesc"`
	ReleaseYear  string `json:"releaseYear"`
	Season       string `json:"season"`
	Episode      string `json:"episode"`
}

// DecodeGrid decodes a raw grid payload, including the placeholder
// substituted for a tolerated 400.
func DecodeGrid(data []byte) (Grid, error) {
	var grid Grid
	err := json.Unmarshal(data, &grid)
	return grid, err
}
