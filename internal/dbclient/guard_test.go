package dbclient

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrefixGuard_Check(t *testing.T) {
	g := DefaultGuard()

	tests := []struct {
		statement string
		verb      string
		blocked   bool
	}{
		{statement: "SELECT * FROM users", blocked: false},
		{statement: "show tables", blocked: false},
		{statement: "INSERT INTO users VALUES (1)", blocked: false},
		{statement: "DELETE FROM users", verb: "DELETE", blocked: true},
		{statement: "   delete from users", verb: "DELETE", blocked: true},
		{statement: "UPDATE users SET a = 1", verb: "UPDATE", blocked: true},
		{statement: "DROP DATABASE shop", verb: "DROP", blocked: true},
		{statement: "truncate table logs", verb: "TRUNCATE", blocked: true},
		// Prefix only: these are known gaps.
		{statement: "/* hi */ DELETE FROM users", blocked: false},
		{statement: "WITH x AS (SELECT 1) DELETE FROM users", blocked: false},
		{statement: "SELECT 1; DROP TABLE users", blocked: false},
		// Prefix match also hits identifiers that start with a verb.
		{statement: "DROPS", verb: "DROP", blocked: true},
	}

	for _, tt := range tests {
		t.Run(tt.statement, func(t *testing.T) {
			verb, blocked := g.Check(tt.statement)
			assert.Equal(t, tt.blocked, blocked)
			assert.Equal(t, tt.verb, verb)
		})
	}
}

func TestNewPrefixGuard_NormalizesVerbs(t *testing.T) {
	g := NewPrefixGuard(" alter ", "", "grant")
	assert.Equal(t, []string{"ALTER", "GRANT"}, g.Verbs())

	verb, blocked := g.Check("Alter table users add column x int")
	assert.True(t, blocked)
	assert.Equal(t, "ALTER", verb)

	_, blocked = g.Check("DELETE FROM users")
	assert.False(t, blocked)
}

func TestSuggest(t *testing.T) {
	candidates := []string{"players", "bans", "servers"}

	assert.Equal(t, "players", Suggest("playres", candidates))
	assert.Equal(t, "servers", Suggest("SERVER", candidates))
	assert.Equal(t, "", Suggest("inventory", candidates))
	assert.Equal(t, "", Suggest("x", nil))
}
