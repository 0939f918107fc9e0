// Package token issues the public tokens printed on certificates.
package token

import (
	"fmt"

	ticketusecases "github.com/bagcheck-inc/bagcheck/internal/application/ticket/usecases"
	"github.com/bagcheck-inc/bagcheck/internal/shared/id"
)

// MinLength keeps tokens long enough that they cannot be enumerated.
const MinLength = 12

type tokenGenerator struct {
	length int
}

// NewTokenGenerator returns a generator of base62 tokens. Lengths below
// MinLength fall back to id.DefaultLength.
func NewTokenGenerator(length int) ticketusecases.TokenGenerator {
	if length < MinLength {
		length = id.DefaultLength
	}
	return &tokenGenerator{length: length}
}

func (g *tokenGenerator) Generate() (string, error) {
	token, err := id.Generate(g.length)
	if err != nil {
		return "", fmt.Errorf("failed to generate certificate token: %w", err)
	}
	return token, nil
}
