package sniffer

import (
	"net/textproto"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectHead(t *testing.T) {
	tests := []struct {
		name string
		head []byte
		want MediaType
		mime string
	}{
		{"id3 tagged mp3", []byte("ID3\x04\x00\x00\x00\x00\x00\x00"), TypeMP3, "audio/mpeg"},
		{"raw mpeg frame", []byte{0xFF, 0xFB, 0x90, 0x00}, TypeMP3, "audio/mpeg"},
		{"m4a ftyp", []byte("\x00\x00\x00\x20ftypM4A \x00\x00\x00\x00"), TypeM4A, "audio/mp4"},
		{"isom ftyp", []byte("\x00\x00\x00\x18ftypisom\x00\x00\x02\x00"), TypeM4A, "audio/mp4"},
		{"wav riff", []byte("RIFF\x24\x08\x00\x00WAVEfmt "), TypeWAV, "audio/wav"},
		{"ogg", []byte("OggS\x00\x02\x00\x00"), TypeOGG, "audio/ogg"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DetectHead(tt.head)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Type)
			assert.Equal(t, tt.mime, got.MIME)
		})
	}
}

func TestDetectHeadRejectsUnknown(t *testing.T) {
	for _, head := range [][]byte{
		nil,
		{},
		[]byte("GIF89a"),
		[]byte("<svg xmlns="),
		[]byte("%PDF-1.7"),
		[]byte("RIFF\x00\x00\x00\x00AVI "),
	} {
		_, err := DetectHead(head)
		assert.ErrorIs(t, err, ErrUnknownType)
	}
}

func TestMimeTypeFromHTTP(t *testing.T) {
	header := textproto.MIMEHeader{}
	assert.Empty(t, MimeTypeFromHTTP(header))

	header.Set("Content-Type", "audio/mpeg; charset=binary")
	assert.Equal(t, "audio/mpeg", MimeTypeFromHTTP(header))

	header.Set("Content-Type", ";;;")
	assert.Empty(t, MimeTypeFromHTTP(header))
}

// Multipart parts often carry parameterized Content-Type values. The
// normalized form must match what DetectHead reports for the same payload,
// otherwise a legitimate upload fails the declared-type check.
func TestMimeTypeFromHTTPMatchesDetected(t *testing.T) {
	header := textproto.MIMEHeader{}
	header.Set("Content-Type", "audio/mpeg; someparam=x")

	detected, err := DetectHead([]byte("ID3\x04\x00\x00\x00\x00\x00\x00"))
	require.NoError(t, err)
	assert.Equal(t, detected.MIME, MimeTypeFromHTTP(header))
}
