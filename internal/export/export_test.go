package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"regexp"
	"strings"
	"testing"

	"github.com/grvbrk/ytcomments/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

var testVideo = models.SearchResult{
	VideoID:      "abc123",
	Title:        "Cats, \"Dogs\" & more",
	ChannelTitle: "Pets Channel",
	PublishedAt:  "2024-01-02T03:04:05Z",
}

func testComments(n int) []models.CommentRecord {
	out := make([]models.CommentRecord, n)
	for i := range out {
		out[i] = models.CommentRecord{
			CommentID:         fmt.Sprintf("c%d", i),
			AuthorDisplayName: fmt.Sprintf("author %d", i),
			PublishedAt:       "2024-03-01T00:00:00Z",
			TextDisplay:       fmt.Sprintf("comment %d", i),
			LikeCount:         int64(i),
			TotalReplyCount:   int64(i * 2),
		}
	}
	return out
}

func TestFilename(t *testing.T) {
	tests := []struct {
		title string
		ext   string
		want  string
	}{
		{"Hello, World! 2024", FormatCSV, "Hello__World__2024_yorumlar.csv"},
		{"plain", FormatCSV, "plain_yorumlar.csv"},
		{"", FormatCSV, "_yorumlar.csv"},
		{"a--b", FormatXLSX, "a__b_yorumlar.xlsx"},
		{"Çok güzel", FormatCSV, "_ok_g_zel_yorumlar.csv"},
		{"😀 hi", FormatCSV, "___hi_yorumlar.csv"},
	}

	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			assert.Equal(t, tt.want, Filename(tt.title, tt.ext))
		})
	}
}

func TestFilenamePattern(t *testing.T) {
	name := Filename("Hello, World! 2024", FormatCSV)
	assert.Regexp(t, regexp.MustCompile(`^Hello_+World_+2024_yorumlar\.csv$`), name)
}

func TestPrepare(t *testing.T) {
	_, err := Prepare(&testVideo, nil)
	assert.ErrorIs(t, err, ErrNoComments)

	_, err = Prepare(nil, nil)
	assert.ErrorIs(t, err, ErrNoComments)

	_, err = Prepare(nil, testComments(1))
	assert.ErrorIs(t, err, ErrNoVideo)

	rows, err := Prepare(&testVideo, testComments(3))
	require.NoError(t, err)
	assert.Len(t, rows, 3)
}

func TestBuildRows(t *testing.T) {
	rows := BuildRows(testVideo, testComments(2))
	require.Len(t, rows, 2)

	assert.Equal(t, models.ExportRow{
		VideoTitle:       testVideo.Title,
		VideoPublishedAt: testVideo.PublishedAt,
		ChannelTitle:     testVideo.ChannelTitle,
		Author:           "author 1",
		PublishedAt:      "2024-03-01T00:00:00Z",
		Text:             "comment 1",
		LikeCount:        1,
		ReplyCount:       2,
	}, rows[1])
}

func TestWriteCSV(t *testing.T) {
	comments := testComments(8)
	comments[3].TextDisplay = "line one\nline \"two\", with comma"

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, BuildRows(testVideo, comments)))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)

	require.Len(t, records, len(comments)+1)
	assert.Equal(t, Header, records[0])
	for i, rec := range records[1:] {
		assert.Equal(t, []string{testVideo.Title, testVideo.PublishedAt, testVideo.ChannelTitle}, rec[:3])
		assert.Equal(t, comments[i].AuthorDisplayName, rec[3])
		assert.Equal(t, comments[i].TextDisplay, rec[5])
		assert.Equal(t, fmt.Sprint(comments[i].LikeCount), rec[6])
		assert.Equal(t, fmt.Sprint(comments[i].TotalReplyCount), rec[7])
	}
}

func TestWriteCSVQuoting(t *testing.T) {
	rows := BuildRows(testVideo, testComments(1))

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, rows))

	assert.True(t, strings.HasSuffix(buf.String(), "\r\n"))
	lines := strings.Split(strings.TrimSuffix(buf.String(), "\r\n"), "\r\n")
	require.Len(t, lines, 2)
	assert.Equal(t, strings.Join(Header, ","), lines[0])
	assert.True(t, strings.HasPrefix(lines[1], `"Cats, ""Dogs"" & more",`))
}

func TestWriteXLSX(t *testing.T) {
	comments := testComments(5)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatXLSX, BuildRows(testVideo, comments)))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	require.NoError(t, err)
	require.Len(t, rows, len(comments)+1)
	assert.Equal(t, Header, rows[0])
	assert.Equal(t, testVideo.Title, rows[1][0])
	assert.Equal(t, "author 4", rows[5][3])
}

func TestWriteUnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	assert.ErrorIs(t, Write(&buf, "pdf", nil), ErrUnknownFormat)

	_, err := ContentType("pdf")
	assert.ErrorIs(t, err, ErrUnknownFormat)
}
