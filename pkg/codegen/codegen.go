package codegen

import (
	"crypto/rand"
	"encoding/hex"
	"io"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/nebulanet/panel/common/errs"
)

// drawBytes is the size of one random draw. One draw yields 32 hex characters.
const drawBytes = 16

// Generator produces collision-resistant random tokens for invite and
// recharge codes.
type Generator struct {
	rand io.Reader
}

// New returns a Generator backed by crypto/rand.
func New() *Generator {
	return &Generator{rand: rand.Reader}
}

// NewWithReader returns a Generator backed by the given random source.
func NewWithReader(r io.Reader) *Generator {
	return &Generator{rand: r}
}

// Generate returns a hex token of at least minLength characters. If one draw
// is too short, further draws are concatenated until the minimum is met.
func (g *Generator) Generate(minLength int) (string, error) {
	if minLength <= 0 {
		return "", errors.Wrap(errs.InvalidArgument, "minLength must be positive")
	}

	var sb strings.Builder
	sb.Grow(minLength + 2*drawBytes)
	for sb.Len() < minLength {
		buf := make([]byte, drawBytes)
		if _, err := io.ReadFull(g.rand, buf); err != nil {
			return "", errors.Wrap(err, "failed to read random source")
		}
		sb.WriteString(hex.EncodeToString(buf))
	}
	return sb.String(), nil
}
