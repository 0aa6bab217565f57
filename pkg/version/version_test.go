package version

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildVersion(t *testing.T) {
	v := BuildVersion()
	assert.True(t, strings.HasPrefix(v, "setsearch version "+Version), v)
	assert.Equal(t, Version, APIVersion())
}
