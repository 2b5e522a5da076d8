package storage

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
)

// ErrInvalidImage is returned when a payload is empty, not base64, or not an image
var ErrInvalidImage = errors.New("invalid image")

// Store saves and deletes images
type Store interface {
	Save(ctx context.Context, owner, encoded string) (string, error)
	Delete(ctx context.Context, url string) error
}

var dataURLPrefix = regexp.MustCompile(`^data:image/(png|jpg|jpeg);base64,`)

var ownerKeyChars = regexp.MustCompile(`[^A-Za-z0-9_-]`)

// DecodeImage decodes a base64 image, with or without a data URL prefix
func DecodeImage(encoded string) ([]byte, string, error) {
	payload := dataURLPrefix.ReplaceAllString(strings.TrimSpace(encoded), "")
	if payload == "" {
		return nil, "", ErrInvalidImage
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}

	contentType := http.DetectContentType(data)
	switch contentType {
	case "image/png", "image/jpeg":
		return data, contentType, nil
	default:
		return nil, "", fmt.Errorf("%w: unsupported content type %s", ErrInvalidImage, contentType)
	}
}

// ObjectName builds "<ULID>-<owner key>.png" for an upload at now
func ObjectName(owner string, now time.Time) (string, error) {
	id, err := ulid.New(ulid.Timestamp(now), rand.Reader)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s-%s.png", id.String(), ownerKey(owner)), nil
}

// ownerKey reduces a record id like "user:abc" to a file-name safe "abc"
func ownerKey(owner string) string {
	if i := strings.LastIndex(owner, ":"); i >= 0 {
		owner = owner[i+1:]
	}
	owner = ownerKeyChars.ReplaceAllString(owner, "")
	if owner == "" {
		return "anonymous"
	}
	return owner
}
