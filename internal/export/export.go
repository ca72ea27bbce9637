// Package export flattens a video's comments into denormalized rows and
// serializes them for download.
package export

import (
	"errors"
	"io"
	"strconv"
	"strings"
	"unicode/utf16"

	"github.com/grvbrk/ytcomments/internal/models"
)

const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"

	filenameSuffix = "_yorumlar"
)

var (
	ErrNoComments    = errors.New("no comments to export")
	ErrNoVideo       = errors.New("no video selected")
	ErrUnknownFormat = errors.New("unknown export format")
)

// Header is the fixed column order: video title, video publish date, channel
// name, comment author, comment date, comment text, like count, reply count.
var Header = []string{
	"VideoBaşlık",
	"YayınlanmaTarihi",
	"KanalAdı",
	"Yazar",
	"Tarih",
	"Yorum",
	"Beğeni",
	"Yanıtlar",
}

// BuildRows joins video with every comment, keeping the comment order.
func BuildRows(video models.SearchResult, comments []models.CommentRecord) []models.ExportRow {
	rows := make([]models.ExportRow, 0, len(comments))
	for _, c := range comments {
		rows = append(rows, models.ExportRow{
			VideoTitle:       video.Title,
			VideoPublishedAt: video.PublishedAt,
			ChannelTitle:     video.ChannelTitle,
			Author:           c.AuthorDisplayName,
			PublishedAt:      c.PublishedAt,
			Text:             c.TextDisplay,
			LikeCount:        c.LikeCount,
			ReplyCount:       c.TotalReplyCount,
		})
	}
	return rows
}

func record(r models.ExportRow) []string {
	return []string{
		r.VideoTitle,
		r.VideoPublishedAt,
		r.ChannelTitle,
		r.Author,
		r.PublishedAt,
		r.Text,
		strconv.FormatInt(r.LikeCount, 10),
		strconv.FormatInt(r.ReplyCount, 10),
	}
}

// Filename replaces each UTF-16 code unit outside [A-Za-z0-9] with one
// underscore, so a character outside the Basic Multilingual Plane becomes two,
// and appends the comments suffix and ext.
func Filename(title, ext string) string {
	var b strings.Builder
	b.Grow(len(title) + len(filenameSuffix) + len(ext) + 1)
	for _, r := range title {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			n := len(utf16.Encode([]rune{r}))
			if n < 1 {
				n = 1
			}
			b.WriteString(strings.Repeat("_", n))
		}
	}
	b.WriteString(filenameSuffix)
	b.WriteByte('.')
	b.WriteString(ext)
	return b.String()
}

// ContentType returns the MIME type served for format.
func ContentType(format string) (string, error) {
	switch format {
	case FormatCSV:
		return "text/csv; charset=utf-8", nil
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", nil
	default:
		return "", ErrUnknownFormat
	}
}

// Prepare checks the export preconditions and builds the rows. An empty
// comment list is reported before a missing video.
func Prepare(video *models.SearchResult, comments []models.CommentRecord) ([]models.ExportRow, error) {
	if len(comments) == 0 {
		return nil, ErrNoComments
	}
	if video == nil {
		return nil, ErrNoVideo
	}
	return BuildRows(*video, comments), nil
}

// Write serializes rows in the given format.
func Write(w io.Writer, format string, rows []models.ExportRow) error {
	switch format {
	case FormatCSV:
		return WriteCSV(w, rows)
	case FormatXLSX:
		return WriteXLSX(w, rows)
	default:
		return ErrUnknownFormat
	}
}
