package secret

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore(t *testing.T) {
	var s SecretStore = NewMemoryStore()

	v, err := s.Get("dbhost:1")
	require.NoError(t, err)
	assert.Nil(t, v)

	in := []byte("pw")
	require.NoError(t, s.Set("dbhost:1", in))
	in[0] = 'x'

	v, err = s.Get("dbhost:1")
	require.NoError(t, err)
	assert.Equal(t, "pw", string(v))

	require.NoError(t, s.Delete("dbhost:1"))
	v, _ = s.Get("dbhost:1")
	assert.Nil(t, v)
}
