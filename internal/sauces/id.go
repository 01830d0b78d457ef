package sauces

import (
	"regexp"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/rohits-web03/piiquante/internal/apperr"
)

var idPattern = regexp.MustCompile(`^[0-9a-f]{24}$`)

// NewID returns a fresh 24-character hexadecimal object id.
func NewID() string {
	return primitive.NewObjectID().Hex()
}

// ParseID checks the identifier format without touching storage.
func ParseID(raw string) (string, error) {
	if !idPattern.MatchString(raw) {
		return "", apperr.New(apperr.MalformedIdentifier, "The sauce identifier is malformed")
	}
	return raw, nil
}
