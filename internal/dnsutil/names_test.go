package dnsutil

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRestoreZoneSuffix(t *testing.T) {
	tests := [][3]string{
		{"@", "example.com", "example.com"},
		{"", "example.com", "example.com"},
		{"www", "example.com", "www.example.com"},
		{"WWW", "Example.Com", "www.example.com"},
		{"www.example.com", "example.com", "www.example.com"},
		{"example.com", "example.com", "example.com"},
		{"www", "example.com.", "www.example.com"},
		{"a.b", "example.com", "a.b.example.com"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt[2], RestoreZoneSuffix(tt[0], tt[1]))
	}
}

func TestStripZoneSuffix(t *testing.T) {
	tests := [][3]string{
		{"example.com", "example.com", "@"},
		{"www.example.com", "example.com", "www"},
		{"a.b.example.com", "example.com", "a.b"},
		{"www.example.org", "example.com", "www.example.org"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt[2], StripZoneSuffix(tt[0], tt[1]))
	}
}

func FuzzRestoreAndStripZoneSuffix(f *testing.F) {
	f.Add("www")
	f.Add("@")
	f.Add("a.b")
	f.Fuzz(func(t *testing.T, name string) {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" || strings.ContainsAny(name, ". @\t\n") {
			return
		}
		fqdn := RestoreZoneSuffix(name, "example.com")
		assert.Equal(t, name, StripZoneSuffix(fqdn, "example.com"))
	})
}
