package nav

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolve(t *testing.T) {
	cases := []struct {
		path string
		auth bool
		want Route
	}{
		{"/", true, Dashboard},
		{"", true, Dashboard},
		{"/chat", true, Chat},
		{"/chat/", true, Chat},
		{"chat", true, Chat},
		{"/CHAT", true, Chat},
		{"/leaderboard?college_id=3", true, Leaderboard},
		{"/super-admin", true, SuperAdmin},
		{"/nowhere", true, Dashboard},
		{"/chat", false, Login},
		{"/nowhere", false, Login},
		{"/login", false, Login},
		{"/login", true, Login},
		{"///", true, Dashboard},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Resolve(tc.path, tc.auth), "path %q auth %v", tc.path, tc.auth)
	}
}

func TestMenu(t *testing.T) {
	assert.NotContains(t, Menu(false), SuperAdmin)
	assert.Contains(t, Menu(true), SuperAdmin)
	assert.Equal(t, "Super Admin", SuperAdmin.Title())
	assert.False(t, Login.Protected())
}

func TestNavigatorFunc(t *testing.T) {
	var got string
	var n Navigator = NavigatorFunc(func(p string) { got = p })
	n.Navigate("/chat")
	assert.Equal(t, "/chat", got)
}
