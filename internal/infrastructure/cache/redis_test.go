package cache

import (
	"io"
	"testing"

	"shelter-registry/config"

	"github.com/alicebob/miniredis/v2"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRedisClient(t *testing.T) {
	log := logrus.New()
	log.SetOutput(io.Discard)

	mr := miniredis.RunT(t)

	client, err := NewRedisClient(config.RedisConfig{Host: mr.Host(), Port: mr.Port()}, log)
	require.NoError(t, err)
	defer client.Close()

	port := mr.Port()
	mr.Close()
	_, err = NewRedisClient(config.RedisConfig{Host: "127.0.0.1", Port: port}, log)
	assert.Error(t, err)
}
