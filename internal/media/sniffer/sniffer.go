package sniffer

import (
	"bytes"
	"errors"
	"mime"
	"net/textproto"
)

type MediaType string

const (
	TypeMP3 MediaType = "mp3"
	TypeM4A MediaType = "m4a"
	TypeWAV MediaType = "wav"
	TypeOGG MediaType = "ogg"
)

var ErrUnknownType = errors.New("unknown media type")

type Result struct {
	Type MediaType
	MIME string
}

// DetectHead sniffs the leading bytes of an upload and classifies it as
// one of the supported audio container formats.
func DetectHead(head []byte) (Result, error) {
	if len(head) == 0 {
		return Result{}, ErrUnknownType
	}

	switch {
	case isMP3(head):
		return Result{Type: TypeMP3, MIME: "audio/mpeg"}, nil
	case isM4A(head):
		return Result{Type: TypeM4A, MIME: "audio/mp4"}, nil
	case isWAV(head):
		return Result{Type: TypeWAV, MIME: "audio/wav"}, nil
	case isOGG(head):
		return Result{Type: TypeOGG, MIME: "audio/ogg"}, nil
	}
	return Result{}, ErrUnknownType
}

func isMP3(head []byte) bool {
	if bytes.HasPrefix(head, []byte("ID3")) {
		return true
	}
	// Raw MPEG frame sync: 11 set bits.
	return len(head) >= 2 && head[0] == 0xFF && head[1]&0xE0 == 0xE0
}

func isM4A(head []byte) bool {
	// ISO base media: size (4 bytes) then "ftyp" and an M4A brand.
	if len(head) < 12 || !bytes.Equal(head[4:8], []byte("ftyp")) {
		return false
	}
	brand := head[8:12]
	return bytes.Equal(brand, []byte("M4A ")) || bytes.Equal(brand, []byte("mp42")) || bytes.Equal(brand, []byte("isom"))
}

func isWAV(head []byte) bool {
	return len(head) >= 12 && bytes.HasPrefix(head, []byte("RIFF")) && bytes.Equal(head[8:12], []byte("WAVE"))
}

func isOGG(head []byte) bool {
	return bytes.HasPrefix(head, []byte("OggS"))
}

// MimeTypeFromHTTP normalizes the declared Content-Type of a multipart
// part, dropping parameters.
func MimeTypeFromHTTP(header textproto.MIMEHeader) string {
	declared := header.Get("Content-Type")
	if declared == "" {
		return ""
	}
	mediaType, _, err := mime.ParseMediaType(declared)
	if err != nil {
		return ""
	}
	return mediaType
}
