package dialogue

import (
	"errors"
	"fmt"
	"strings"

	"notekeeper-be/pkg/notesclient"

	"github.com/google/uuid"
)

const timeLayout = "02.01.2006 15:04:05"

// ParseTags splits a comma separated answer, trimming blanks and dropping empty items.
func ParseTags(text string) []string {
	tags := []string{}
	for _, part := range strings.Split(text, ",") {
		if tag := strings.TrimSpace(part); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

func FormatNote(n *notesclient.Note) string {
	tags := "no tags"
	if len(n.Tags) > 0 {
		tags = strings.Join(n.Tags, ", ")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "ID: %s\n", n.Id)
	fmt.Fprintf(&b, "Title: %s\n", n.Title)
	fmt.Fprintf(&b, "Content: %s\n", n.Content)
	fmt.Fprintf(&b, "Tags: %s\n", tags)
	fmt.Fprintf(&b, "Created: %s\n", n.CreatedAt.Format(timeLayout))
	fmt.Fprintf(&b, "Updated: %s", n.UpdatedAt.Format(timeLayout))
	return b.String()
}

func FormatNotes(notes []notesclient.Note) string {
	parts := make([]string, len(notes))
	for i := range notes {
		parts[i] = FormatNote(&notes[i])
	}
	return fmt.Sprintf("Notes: %d\n\n%s", len(notes), strings.Join(parts, "\n"+strings.Repeat("-", 40)+"\n"))
}

// optional maps an empty answer to "keep the current value".
func optional(text string) *string {
	if text == "" {
		return nil
	}
	return &text
}

func isNoteId(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func asAPIError(err error, target **notesclient.APIError) bool {
	return errors.As(err, target)
}
