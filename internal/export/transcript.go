package export

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/Rorical/RoriQuery/internal/models"
)

// Transcript renders the user and assistant messages of a chat as plain
// text. System messages are left out.
func Transcript(msgs []models.Message) string {
	parts := make([]string, 0, len(msgs))
	for _, m := range msgs {
		if m.Sender == models.System {
			continue
		}
		part := strings.ToUpper(string(m.Sender)) + ": " + m.Text
		if m.SQL != "" {
			part += "\n\nSQL: " + m.SQL
		}
		parts = append(parts, part)
	}
	return strings.Join(parts, "\n\n---\n\n")
}

func TranscriptFileName(now time.Time) string {
	return fmt.Sprintf("chat-%s.txt", now.UTC().Format("2006-01-02"))
}

// TranscriptToFile writes the transcript into dir and returns the path.
// A chat with nothing but system messages is not written.
func TranscriptToFile(dir string, msgs []models.Message, now time.Time) (string, error) {
	text := Transcript(msgs)
	if text == "" {
		return "", nil
	}
	return writeFile(filepath.Join(dir, TranscriptFileName(now)), []byte(text))
}
