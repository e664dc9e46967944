package blogutil

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrInvalidContent is returned for content that is not a JSON object
var ErrInvalidContent = errors.New("content must be a JSON object")

const (
	blockImage = "image"
	fieldFile  = "file"
	fieldURL   = "url"
)

var headingLevels = map[string]int{"h1": 1, "h2": 2, "h3": 3}

// Heading is one table of contents entry
type Heading struct {
	Level int    `json:"level"`
	Text  string `json:"text"`
}

// document keeps unknown top-level keys intact while blocks are edited
type document struct {
	fields map[string]json.RawMessage
	blocks []map[string]interface{}
}

func parse(content []byte) (*document, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(content, &fields); err != nil || fields == nil {
		return nil, ErrInvalidContent
	}

	doc := &document{fields: fields}
	if raw, ok := fields["blocks"]; ok && string(raw) != "null" {
		if err := json.Unmarshal(raw, &doc.blocks); err != nil {
			return nil, fmt.Errorf("%w: blocks must be an array of objects", ErrInvalidContent)
		}
	}
	return doc, nil
}

func (d *document) encode() ([]byte, error) {
	if d.blocks != nil {
		raw, err := json.Marshal(d.blocks)
		if err != nil {
			return nil, err
		}
		d.fields["blocks"] = raw
	}
	return json.Marshal(d.fields)
}

// Validate checks that content is a JSON object with an optional blocks array
func Validate(content []byte) error {
	_, err := parse(content)
	return err
}

// GenerateTOC lists the h1, h2 and h3 blocks in document order
func GenerateTOC(content []byte) []Heading {
	doc, err := parse(content)
	if err != nil {
		return []Heading{}
	}

	toc := make([]Heading, 0)
	for _, block := range doc.blocks {
		kind, _ := block["type"].(string)
		level, ok := headingLevels[kind]
		if !ok {
			continue
		}
		text, _ := block["text"].(string)
		toc = append(toc, Heading{Level: level, Text: text})
	}
	return toc
}

func imageField(block map[string]interface{}) (string, bool) {
	if kind, _ := block["type"].(string); kind != blockImage {
		return "", false
	}
	name, ok := block[fieldFile].(string)
	return name, ok && name != ""
}

// ResolveImages replaces the file reference of each inline image block with
// the url returned by resolve
func ResolveImages(content []byte, resolve func(field string) (string, error)) ([]byte, error) {
	doc, err := parse(content)
	if err != nil {
		return nil, err
	}

	changed := false
	for _, block := range doc.blocks {
		name, ok := imageField(block)
		if !ok {
			continue
		}
		url, err := resolve(name)
		if err != nil {
			return nil, err
		}
		block[fieldURL] = url
		delete(block, fieldFile)
		changed = true
	}

	if !changed {
		return content, nil
	}
	return doc.encode()
}
