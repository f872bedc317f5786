package idgen

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/flowscript/flowscript/internal/value"
)

func TestGenerateIdentifierIsUniqueAndWellFormed(t *testing.T) {
	a := GenerateIdentifier()
	b := GenerateIdentifier()
	assert.Equal(t, value.String, a.Kind())
	assert.NotEqual(t, a.Str(), b.Str())
	assert.Len(t, a.Str(), 36)
}

func TestTimeNowUTCIsRFC3339(t *testing.T) {
	ts := TimeNowUTC()
	assert.Equal(t, value.String, ts.Kind())
	assert.Contains(t, ts.Str(), "T")
}
