package ingest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRFC822PlainText(t *testing.T) {
	raw := []byte("Message-Id: <abc@mail.example>\r\n" +
		"Subject: Thank you for applying\r\n" +
		"Content-Type: text/plain; charset=utf-8\r\n" +
		"\r\n" +
		"We have received your application.\r\n")

	msgID, body, htmlBody, subj := parseRFC822(raw, "fallback")
	assert.Equal(t, "<abc@mail.example>", msgID)
	assert.Equal(t, "Thank you for applying", subj)
	assert.Contains(t, body, "We have received your application.")
	assert.Empty(t, htmlBody)
}

func TestParseRFC822Multipart(t *testing.T) {
	raw := []byte("Message-Id: <multi@mail.example>\r\n" +
		"Subject: Application received\r\n" +
		"Content-Type: multipart/alternative; boundary=XYZ\r\n" +
		"\r\n" +
		"--XYZ\r\n" +
		"Content-Type: text/plain; charset=utf-8\r\n" +
		"\r\n" +
		"plain version\r\n" +
		"--XYZ\r\n" +
		"Content-Type: text/html; charset=utf-8\r\n" +
		"Content-Transfer-Encoding: quoted-printable\r\n" +
		"\r\n" +
		"<p>html=20version</p>\r\n" +
		"--XYZ--\r\n")

	_, body, htmlBody, _ := parseRFC822(raw, "")
	assert.Contains(t, body, "plain version")
	assert.Contains(t, htmlBody, "html version")
}

func TestParseRFC822GarbageFallsBack(t *testing.T) {
	msgID, body, _, subj := parseRFC822([]byte("not an email at all"), "kept subject")
	assert.Empty(t, msgID)
	assert.Equal(t, "kept subject", subj)
	assert.Equal(t, "not an email at all", body)
}

func TestDecodeTransferEncoding(t *testing.T) {
	assert.Equal(t, "hello", string(decodeTransferEncoding([]byte("aGVsbG8="), "base64")))
	assert.Equal(t, "a b", string(decodeTransferEncoding([]byte("a=20b"), "quoted-printable")))
	assert.Equal(t, "as-is", string(decodeTransferEncoding([]byte("as-is"), "")))
}

func TestDecodeRFC2047(t *testing.T) {
	assert.Equal(t, "Hello", decodeRFC2047("=?utf-8?q?Hello?="))
	assert.Equal(t, "plain subject", decodeRFC2047("plain subject"))
	assert.Equal(t, "", decodeRFC2047("   "))
}

func TestContainsAnyCI(t *testing.T) {
	assert.True(t, containsAnyCI("Thank You For Applying", []string{"applying"}))
	assert.True(t, containsAnyCI("Application received", []string{" nope ", "RECEIVED"}))
	assert.False(t, containsAnyCI("weekly digest", []string{"application"}))
	assert.False(t, containsAnyCI("anything", nil))
}

func TestHTMLToText(t *testing.T) {
	got := htmlToText(`<html><head><style>p{}</style></head><body><p>Thank you for applying to <b>Acme</b>.</p></body></html>`)
	assert.Equal(t, "Thank you for applying to Acme.", got)
}

func TestAppendIngestRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ingest.csv")

	require.NoError(t, appendIngestRows(path, [][]string{
		{"<m1>", "Thank you for applying", "Acme", "SWE", "R-1"},
	}))
	require.NoError(t, appendIngestRows(path, [][]string{
		{"<m2>", "Application received", "Globex", "", ""},
	}))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(b)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "message_id,subject,company,title,job_id", lines[0])
	assert.Contains(t, lines[1], "Acme")
	assert.Contains(t, lines[2], "Globex")

	// Nothing to write is a no-op, including for a missing path.
	require.NoError(t, appendIngestRows("", [][]string{{"x"}}))
	require.NoError(t, appendIngestRows(path, nil))
}
