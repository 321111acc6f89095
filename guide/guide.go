// Package guide folds decoded grid payloads into an XMLTV document.
package guide

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/scipunch/zap2xml/fetcher"
	"github.com/scipunch/zap2xml/xmltv"
)

const (
	artworkBaseURL = "https://zap2it.tmsimg.com/assets/"
	timeLayout     = "20060102150405 -0700"
)

// Aggregate folds grids, in bucket order, into a single document. The
// channel lineup is captured exactly once, from the first grid whose
// channel list is non-empty; a lineup appearing only in a later grid is
// dropped. Every event of every grid becomes one programme, with no
// de-duplication across overlapping windows.
func Aggregate(grids []fetcher.Grid) (*xmltv.TV, error) {
	tv := xmltv.NewTV()

	channelsDone := false
	for _, grid := range grids {
		if !channelsDone && len(grid.Channels) > 0 {
			channelsDone = true
			for _, ch := range grid.Channels {
				tv.Channels = append(tv.Channels, buildChannel(ch))
			}
		}

		for _, ch := range grid.Channels {
			id := channelID(ch)
			for _, event := range ch.Events {
				programme, err := buildProgramme(id, event)
				if err != nil {
					return nil, err
				}
				tv.Programmes = append(tv.Programmes, programme)
			}
		}
	}

	return tv, nil
}

// channelID derives the XMLTV channel identity from the lineup entry.
func channelID(ch fetcher.Channel) string {
	return fmt.Sprintf("I%s.%s.zap2it.com", ch.ChannelNo, ch.ChannelID)
}

func buildChannel(ch fetcher.Channel) xmltv.Channel {
	thumb := strings.ReplaceAll(ch.Thumbnail, "//", "")
	thumb, _, _ = strings.Cut(thumb, "?")

	return xmltv.Channel{
		ID: channelID(ch),
		DisplayNames: []string{
			fmt.Sprintf("%s %s", ch.ChannelNo, ch.CallSign),
			ch.ChannelNo,
			ch.CallSign,
		},
		Icon: xmltv.Icon{Src: thumb},
	}
}

func buildProgramme(channelID string, event fetcher.Event) (xmltv.Programme, error) {
	var programme xmltv.Programme

	start, err := time.Parse(time.RFC3339, event.StartTime)
	if err != nil {
		return programme, fmt.Errorf("failed to parse event start time '%s' with %w", event.StartTime, err)
	}
	end, err := time.Parse(time.RFC3339, event.EndTime)
	if err != nil {
		return programme, fmt.Errorf("failed to parse event end time '%s' with %w", event.EndTime, err)
	}

	programme.Start = start.Format(timeLayout)
	programme.Stop = end.Format(timeLayout)
	programme.Channel = channelID

	prog := event.Program

	if prog.Title != "" {
		title := xmltv.EnglishText(prog.Title)
		programme.Title = &title
	}

	if hasTag(event.Filter, "filter-movie") && prog.ReleaseYear != "" {
		subTitle := xmltv.EnglishText("Movie: " + prog.ReleaseYear)
		programme.SubTitle = &subTitle
	} else if prog.EpisodeTitle != "" {
		subTitle := xmltv.EnglishText(prog.EpisodeTitle)
		programme.SubTitle = &subTitle
	}

	desc := prog.ShortDesc
	if desc == "" {
		desc = "Unavailable"
	}
	programme.Desc = xmltv.EnglishText(desc)

	programme.Length = xmltv.Length{Units: "minutes", Value: event.Duration.String()}

	for _, tag := range event.Filter {
		programme.Categories = append(programme.Categories, xmltv.EnglishText(strings.ReplaceAll(tag, "filter-", "")))
		// Genres drop a fixed 7 characters, not the "filter-" literal; a
		// shorter tag becomes an empty genre rather than an error.
		var genre string
		if len(tag) > 7 {
			genre = tag[7:]
		}
		programme.Genres = append(programme.Genres, xmltv.EnglishText(genre))
	}

	if event.Thumbnail != "" {
		programme.Icon = &xmltv.Icon{Src: artworkBaseURL + event.Thumbnail + ".jpg"}
	}

	if event.Rating != "" {
		programme.Rating = &xmltv.Rating{Value: event.Rating}
	}

	if season, episode, ok := episodeNumbers(prog); ok {
		onScreen := fmt.Sprintf("S%02dE%02d", season, episode)
		programme.EpisodeNums = []xmltv.EpisodeNum{
			{System: "common", Value: onScreen},
			{System: "xmltv_ns", Value: fmt.Sprintf("%d.%d.", season-1, episode-1)},
			{System: "SxxExx", Value: onScreen},
		}
	}

	if hasTag(event.Flag, "New") && !hasTag(event.Flag, "live") {
		programme.New = &struct{}{}
	}

	return programme, nil
}

// episodeNumbers reports the season and episode when both are present and
// parse as base-10 integers.
func episodeNumbers(prog fetcher.Program) (season, episode int, ok bool) {
	if prog.Season == "" || prog.Episode == "" {
		return 0, 0, false
	}
	season, err := strconv.Atoi(prog.Season)
	if err != nil {
		return 0, 0, false
	}
	episode, err = strconv.Atoi(prog.Episode)
	if err != nil {
		return 0, 0, false
	}
	return season, episode, true
}

func hasTag(tags []string, want string) bool {
	for _, tag := range tags {
		if tag == want {
			return true
		}
	}
	return false
}
