package environ_test

import (
	"os"
	"testing"

	"github.com/hbjs97/fzi/internal/environ"
	"github.com/stretchr/testify/assert"
	"mvdan.cc/sh/v3/expand"
)

func TestMap_EmptyVersusAbsent(t *testing.T) {
	m := environ.NewMap("EMPTY=", "FULL=x")

	v, ok := m.Lookup("EMPTY")
	assert.True(t, ok)
	assert.Equal(t, "", v)

	_, ok = m.Lookup("MISSING")
	assert.False(t, ok)
}

func TestMap_SetUnset(t *testing.T) {
	m := environ.NewMap()
	m.Set("A", "1")
	v, ok := m.Lookup("A")
	assert.True(t, ok)
	assert.Equal(t, "1", v)

	m.Unset("A")
	_, ok = m.Lookup("A")
	assert.False(t, ok)
}

func TestMap_ValueWithEquals(t *testing.T) {
	m := environ.NewMap("OPTS=--preview=a=b", "=broken", "noequals")
	v, _ := m.Lookup("OPTS")
	assert.Equal(t, "--preview=a=b", v)
	assert.Equal(t, []string{"OPTS=--preview=a=b"}, m.Pairs())
}

func TestMap_ExpandEnviron(t *testing.T) {
	m := environ.NewMap("A=1")

	vr := m.Get("A")
	assert.True(t, vr.IsSet())
	assert.True(t, vr.Exported)
	assert.Equal(t, "1", vr.String())

	assert.False(t, m.Get("B").IsSet())

	var names []string
	m.Each(func(name string, _ expand.Variable) bool {
		names = append(names, name)
		return true
	})
	assert.Contains(t, names, "A")
}

func TestOS_RoundTrip(t *testing.T) {
	t.Setenv("FZI_ENVIRON_TEST", "before")

	env := environ.OS{}
	v, ok := env.Lookup("FZI_ENVIRON_TEST")
	assert.True(t, ok)
	assert.Equal(t, "before", v)

	env.Unset("FZI_ENVIRON_TEST")
	_, ok = os.LookupEnv("FZI_ENVIRON_TEST")
	assert.False(t, ok)
}
