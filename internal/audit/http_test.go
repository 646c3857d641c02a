package audit

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClientIP(t *testing.T) {
	headers := http.Header{}
	assert.Equal(t, "10.0.0.1", ClientIP(headers.Get, "10.0.0.1:5555"))
	assert.Equal(t, "bogus", ClientIP(headers.Get, "bogus"))

	headers.Set("X-Real-IP", " 198.51.100.2 ")
	assert.Equal(t, "198.51.100.2", ClientIP(headers.Get, "10.0.0.1:5555"))

	headers.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.2")
	assert.Equal(t, "203.0.113.7", ClientIP(headers.Get, "10.0.0.1:5555"))

	assert.Equal(t, "10.0.0.1", ClientIP(nil, "10.0.0.1:80"))
}
