package bridge

import (
	"encoding/json"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/tidwall/gjson"

	"github.com/thoreinstein/mcpbridge/internal/value"
)

// errorPlaceholder is the message used when a server flags a failure but
// sends no text explaining it.
const errorPlaceholder = "tool reported an error"

// Content block kinds with a dedicated rendering. Any other kind renders as
// its kind name in brackets.
const (
	BlockText         = "text"
	BlockImage        = "image"
	BlockResourceLink = "resource_link"
)

// Block is one content block of a tool result. Fields that do not apply to
// the block's kind are empty.
type Block struct {
	Type     string
	Text     string
	MIMEType string
	URI      string
}

// CallResult is a tool result as it arrived on the wire.
type CallResult struct {
	Content []Block

	// Structured is the raw structuredContent payload. It is nil when the
	// server sent none or sent null.
	Structured json.RawMessage

	IsError bool
}

// ParseCallResult reads a raw tools/call result. Blocks of any kind are
// accepted; the payload is kept as raw JSON so object key order survives.
func ParseCallResult(raw []byte) (*CallResult, error) {
	if !gjson.ValidBytes(raw) {
		return nil, errors.New("tool result is not valid JSON")
	}
	doc := gjson.ParseBytes(raw)
	if !doc.IsObject() {
		return nil, errors.New("tool result is not a JSON object")
	}

	res := &CallResult{IsError: doc.Get("isError").Bool()}
	if content := doc.Get("content"); content.IsArray() {
		content.ForEach(func(_, b gjson.Result) bool {
			res.Content = append(res.Content, Block{
				Type:     b.Get("type").String(),
				Text:     b.Get("text").String(),
				MIMEType: b.Get("mimeType").String(),
				URI:      b.Get("uri").String(),
			})
			return true
		})
	}
	if sc := doc.Get("structuredContent"); sc.Exists() && sc.Type != gjson.Null {
		res.Structured = json.RawMessage(sc.Raw)
	}
	return res, nil
}

// Interpret converts a tool result into a Value. The first matching rule
// wins:
//
//  1. a structured payload is decoded and the content blocks are ignored
//  2. no content blocks yield Null
//  3. a single text block is parsed as JSON, falling back to the raw text
//  4. several text blocks yield a List of their texts in order
//  5. otherwise every block is rendered and joined with newlines
func Interpret(content []Block, structured json.RawMessage) value.Value {
	if len(structured) > 0 {
		v, err := value.DecodeJSON(structured)
		if err != nil {
			return value.String(structured)
		}
		return v
	}
	if len(content) == 0 {
		return value.Null{}
	}

	texts := textBlocks(content)
	switch len(texts) {
	case 0:
		// Rendered below.
	case 1:
		v, err := value.DecodeJSON([]byte(texts[0]))
		if err != nil {
			return value.String(texts[0])
		}
		return v
	default:
		list := make(value.List, len(texts))
		for i, t := range texts {
			list[i] = value.String(t)
		}
		return list
	}

	parts := make([]string, len(content))
	for i, b := range content {
		parts[i] = renderBlock(b)
	}
	return value.String(strings.Join(parts, "\n"))
}

// ErrorText joins the text blocks of content with newlines.
func ErrorText(content []Block) string {
	return strings.Join(textBlocks(content), "\n")
}

func textBlocks(content []Block) []string {
	var texts []string
	for _, b := range content {
		if b.Type == BlockText {
			texts = append(texts, b.Text)
		}
	}
	return texts
}

func renderBlock(b Block) string {
	switch b.Type {
	case BlockText:
		return b.Text
	case BlockImage:
		return "[image: " + b.MIMEType + "]"
	case BlockResourceLink:
		return "[resource: " + b.URI + "]"
	case "":
		return "[unknown]"
	default:
		return "[" + b.Type + "]"
	}
}
