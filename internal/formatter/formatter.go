// package formatter provides functions to export corpus data to various formats (JSON, CSV, Markdown, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"wpn/internal/models"
)

// ExportToJSON serializes a corpus as one JSON object per channel with
// current and previous fields.
func ExportToJSON(corpus models.Corpus, pretty bool) ([]byte, error) {
	var out []byte
	var err error

	if pretty {
		out, err = json.MarshalIndent(corpus, "", "  ")
	} else {
		out, err = json.Marshal(corpus)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to marshal corpus: %w", err)
	}

	return out, nil
}

// ExportToCSV converts a corpus to CSV with columns: Channel, Identifier, Position, Title, Artist.
// Position 0 is each channel's live song.
func ExportToCSV(corpus models.Corpus) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Channel", "Identifier", "Position", "Title", "Artist"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, channelSongs := range corpus {
		for position, song := range channelSongs.AllSongs() {
			record := []string{
				channelSongs.Channel.Name,
				channelSongs.Channel.Identifier,
				strconv.Itoa(position),
				song.Title,
				song.Artist,
			}
			if err := writer.Write(record); err != nil {
				return nil, fmt.Errorf("failed to write CSV record: %w", err)
			}
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts a corpus to a Markdown document with one section per channel.
func ExportToMarkdown(corpus models.Corpus, delimiter string) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString("# Now Playing\n\n")
	buf.WriteString(fmt.Sprintf("**Channels**: %d\n\n", len(corpus)))

	for _, channelSongs := range corpus {
		buf.WriteString(fmt.Sprintf("## %s\n\n", channelSongs.Channel.Name))
		buf.WriteString(fmt.Sprintf("**Now Playing**: %s\n\n", channelSongs.Current.Display(delimiter)))

		if len(channelSongs.Previous) > 0 {
			buf.WriteString("**Previous Songs**:\n\n")
			for i, song := range channelSongs.Previous {
				buf.WriteString(fmt.Sprintf("%d. %s\n", i+1, song.Display(delimiter)))
			}
			buf.WriteString("\n")
		}
	}

	return buf.Bytes(), nil
}

// ExportToText converts a corpus to plain text format
func ExportToText(corpus models.Corpus, delimiter string) ([]byte, error) {
	var buf bytes.Buffer

	for _, channelSongs := range corpus {
		buf.WriteString(fmt.Sprintf("%s\n", channelSongs.Channel.Name))
		buf.WriteString(fmt.Sprintf("  Now Playing: %s\n", channelSongs.Current.Display(delimiter)))

		for _, song := range channelSongs.Previous {
			buf.WriteString(fmt.Sprintf("  • %s\n", song.Display(delimiter)))
		}
		buf.WriteString("\n")
	}

	return buf.Bytes(), nil
}

// Export renders the corpus in the named format: json, csv, markdown or txt.
func Export(corpus models.Corpus, format, delimiter string) ([]byte, error) {
	switch format {
	case "json":
		return ExportToJSON(corpus, true)
	case "csv":
		return ExportToCSV(corpus)
	case "markdown", "md":
		return ExportToMarkdown(corpus, delimiter)
	case "txt", "text":
		return ExportToText(corpus, delimiter)
	default:
		return nil, fmt.Errorf("unsupported export format: %s", format)
	}
}

// WriteFile writes exported data to the given path, creating parent
// directories as needed.
func WriteFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write export file: %w", err)
	}

	return nil
}
