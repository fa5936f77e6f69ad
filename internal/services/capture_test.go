package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func strptr(s string) *string { return &s }

func TestCaptureContent(t *testing.T) {
	tests := []struct {
		name     string
		existing *string
		incoming *string
		want     string
		wantOK   bool
	}{
		{"field omitted", strptr("body"), nil, "", false},
		{"field omitted on empty doc", nil, nil, "", false},
		{"change preserves prior", strptr("A"), strptr("B"), "A", true},
		{"same value still captures", strptr("A"), strptr("A"), "A", true},
		{"clear preserves prior", strptr("A"), strptr(""), "A", true},
		{"first content anchors itself", nil, strptr("A"), "A", true},
		{"first content after empty string", strptr(""), strptr("A"), "A", true},
		{"empty to empty", nil, strptr(""), "", false},
		{"empty string to empty string", strptr(""), strptr(""), "", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := captureContent(tc.existing, tc.incoming)
			assert.Equal(t, tc.wantOK, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}
