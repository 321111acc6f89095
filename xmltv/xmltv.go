// Package xmltv renders accumulated guide data as an XMLTV document.
// Element and attribute order is fixed by struct field order; downstream
// consumers expect exactly this shape.
package xmltv

import (
	"encoding/xml"
	"fmt"

	"github.com/spf13/afero"
)

// Header is the XML declaration written ahead of the document.
const Header = `<?xml version="1.0" encoding="UTF-8"?>` + "\n"

// TV is the document root with its fixed provenance attributes.
type TV struct {
	XMLName           xml.Name    `xml:"tv"`
	SourceInfoURL     string      `xml:"source-info-url,attr"`
	SourceInfoName    string      `xml:"source-info-name,attr"`
	GeneratorInfoName string      `xml:"generator-info-name,attr"`
	GeneratorInfoURL  string      `xml:"generator-info-url,attr"`
	Channels          []Channel   `xml:"channel"`
	Programmes        []Programme `xml:"programme"`
}

// Channel is one lineup entry.
type Channel struct {
	ID           string   `xml:"id,attr"`
	DisplayNames []string `xml:"display-name"`
	Icon         Icon     `xml:"icon"`
}

// Programme is one scheduled airing.
type Programme struct {
	Start       string       `xml:"start,attr"`
	Stop        string       `xml:"stop,attr"`
	Channel     string       `xml:"channel,attr"`
	Title       *TextLang    `xml:"title,omitempty"`
	SubTitle    *TextLang    `xml:"sub-title,omitempty"`
	Desc        TextLang     `xml:"desc"`
	Length      Length       `xml:"length"`
	Categories  []TextLang   `xml:"category"`
	Genres      []TextLang   `xml:"genre"`
	Icon        *Icon        `xml:"icon,omitempty"`
	Rating      *Rating      `xml:"rating,omitempty"`
	EpisodeNums []EpisodeNum `xml:"episode-num"`
	New         *struct{}    `xml:"new,omitempty"`
}

// TextLang is element text tagged with its language.
type TextLang struct {
	Lang  string `xml:"lang,attr"`
	Value string `xml:",chardata"`
}

// Icon points at channel or programme artwork.
type Icon struct {
	Src string `xml:"src,attr"`
}

// Length is a programme duration with its unit.
type Length struct {
	Units string `xml:"units,attr"`
	Value string `xml:",chardata"`
}

// Rating wraps a single rating value.
type Rating struct {
	Value string `xml:"value"`
}

// EpisodeNum is one numbering representation of an episode.
type EpisodeNum struct {
	System string `xml:"system,attr"`
	Value  string `xml:",chardata"`
}

// EnglishText returns a lang="en" text element.
func EnglishText(value string) TextLang {
	return TextLang{Lang: "en", Value: value}
}

// NewTV creates an empty document carrying the provenance of this tool.
func NewTV() *TV {
	return &TV{
		SourceInfoURL:     "http://tvlistings.zap2it.com/",
		SourceInfoName:    "zap2it.com",
		GeneratorInfoName: "zap2xml",
		GeneratorInfoURL:  "github.com/scipunch/zap2xml",
	}
}

// Marshal renders the document, UTF-8 declaration included.
func Marshal(tv *TV) ([]byte, error) {
	body, err := xml.Marshal(tv)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal XMLTV document with %w", err)
	}
	return append([]byte(Header), body...), nil
}

// Write renders the document to path on fs.
func Write(fs afero.Fs, path string, tv *TV) error {
	blob, err := Marshal(tv)
	if err != nil {
		return err
	}
	if err := afero.WriteFile(fs, path, blob, 0644); err != nil {
		return fmt.Errorf("failed to write XMLTV output at '%s' with %w", path, err)
	}
	return nil
}
