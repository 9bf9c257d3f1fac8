package jira

import (
	"strings"
)

type ADF struct {
	Version int          `json:"version"`
	Type    string       `json:"type"`
	Content []ADFContent `json:"content"`
}

type ADFContent struct {
	Type    string             `json:"type"`
	Text    string             `json:"text,omitempty"`
	Marks   []ADFMark          `json:"marks,omitempty"`
	Content []ADFContent       `json:"content,omitempty"`
	Attrs   *ADFMarkAttributes `json:"attrs,omitempty"`
}

type ADFMark struct {
	Type  string             `json:"type"`
	Attrs *ADFMarkAttributes `json:"attrs,omitempty"`
}

type ADFMarkAttributes struct {
	Level    int    `json:"level,omitempty"`
	Href     string `json:"href,omitempty"`
	Language string `json:"language,omitempty"`
}

// TextToADF converts plain text into an atlassian document.
// Blocks separated by an empty line become paragraphs, single line breaks become hard breaks.
// URLs are rendered as links.
func TextToADF(text string) ADF {
	doc := ADF{
		Version: 1,
		Type:    "doc",
		Content: []ADFContent{},
	}

	normalized := strings.ReplaceAll(text, "\r\n", "\n")
	for _, block := range strings.Split(normalized, "\n\n") {
		block = strings.Trim(block, "\n")
		if strings.TrimSpace(block) == "" {
			continue
		}

		paragraph := ADFContent{Type: "paragraph"}
		for i, line := range strings.Split(block, "\n") {
			if i > 0 {
				paragraph.Content = append(paragraph.Content, ADFContent{Type: "hardBreak"})
			}
			paragraph.Content = append(paragraph.Content, lineToADF(line)...)
		}
		doc.Content = append(doc.Content, paragraph)
	}

	return doc
}

func lineToADF(line string) []ADFContent {
	var nodes []ADFContent
	rest := line
	for rest != "" {
		start := firstURLIndex(rest)
		if start < 0 {
			nodes = append(nodes, ADFContent{Type: "text", Text: rest})
			break
		}
		if start > 0 {
			nodes = append(nodes, ADFContent{Type: "text", Text: rest[:start]})
		}

		end := strings.IndexAny(rest[start:], " \t")
		if end < 0 {
			end = len(rest)
		} else {
			end += start
		}
		link := rest[start:end]
		nodes = append(nodes, ADFContent{
			Type: "text",
			Text: link,
			Marks: []ADFMark{{
				Type:  "link",
				Attrs: &ADFMarkAttributes{Href: link},
			}},
		})
		rest = rest[end:]
	}
	return nodes
}

func firstURLIndex(s string) int {
	https := strings.Index(s, "https://")
	http := strings.Index(s, "http://")
	if https < 0 || (http >= 0 && http < https) {
		return http
	}
	return https
}

// PlainText flattens the document. Paragraphs are separated by an empty line.
func (a ADF) PlainText() string {
	blocks := make([]string, 0, len(a.Content))
	for _, c := range a.Content {
		var sb strings.Builder
		writePlainText(&sb, c)
		if s := strings.TrimSpace(sb.String()); s != "" {
			blocks = append(blocks, s)
		}
	}
	return strings.Join(blocks, "\n\n")
}

func writePlainText(sb *strings.Builder, node ADFContent) {
	switch node.Type {
	case "text":
		sb.WriteString(node.Text)
	case "hardBreak":
		sb.WriteString("\n")
	default:
		for i, child := range node.Content {
			// nested blocks, e.g. list items
			if i > 0 && child.Type != "text" && child.Type != "hardBreak" {
				sb.WriteString("\n")
			}
			writePlainText(sb, child)
		}
	}
}
