package antpath

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatch(t *testing.T) {
	tests := []struct {
		pattern string
		path    string
		want    bool
	}{
		// exact
		{"/api/v1/loan-workflow/action", "/api/v1/loan-workflow/action", true},
		{"/api/v1/loan-workflow/action", "/api/v1/loan-workflow/submit", false},
		{"/api/v1/loan-workflow/action", "/api/v1/loan-workflow/action/extra", false},

		// single-segment wildcard
		{"/api/v1/loan-workflow/queue/*", "/api/v1/loan-workflow/queue/MARKETING", true},
		{"/api/v1/loan-workflow/queue/*", "/api/v1/loan-workflow/queue", false},
		{"/api/v1/loan-workflow/queue/*", "/api/v1/loan-workflow/queue/a/b", false},
		{"/api/*/health", "/api/v1/health", true},
		{"/api/*/health", "/api/v1/v2/health", false},

		// multi-segment wildcard
		{"/api/v1/admin/**", "/api/v1/admin", true},
		{"/api/v1/admin/**", "/api/v1/admin/roles", true},
		{"/api/v1/admin/**", "/api/v1/admin/role-menus/4/revoke", true},
		{"/api/v1/admin/**", "/api/v1/master/loan-products", false},
		{"/**", "/anything/at/all", true},

		// wildcard inside a segment
		{"/api/v1/loan-*/submit", "/api/v1/loan-workflow/submit", true},
		{"/api/v1/loan-*/submit", "/api/v1/loans/submit", false},
		{"/files/*.pdf", "/files/contract.pdf", true},
		{"/files/*.pdf", "/files/contract.txt", false},

		// slash normalization
		{"api/v1/health", "/api/v1/health/", true},

		// empty pattern never matches (a menu without a pattern gates nothing)
		{"", "/api/v1/anything", false},
	}

	for _, tt := range tests {
		t.Run(tt.pattern+" vs "+tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, Match(tt.pattern, tt.path))
		})
	}
}

func TestValidPattern(t *testing.T) {
	assert.True(t, ValidPattern("/api/v1/admin/**"))
	assert.True(t, ValidPattern("/api/v1/loans/*/history"))
	assert.True(t, ValidPattern("/files/*.pdf"))
	assert.False(t, ValidPattern("api/v1/admin"), "must be rooted")
	assert.False(t, ValidPattern("/api/v1/**x"), "** must stand alone in its segment")
	assert.False(t, ValidPattern(""))
}
