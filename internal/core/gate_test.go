package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifySQL(t *testing.T) {
	cases := []struct {
		sql  string
		want string
	}{
		{"UPDATE users SET name = 'x'", "UPDATE"},
		{"  delete from orders where id = 3", "DELETE"},
		{"DROP TABLE audit", "DROP"},
		{"truncate logs", "TRUNCATE"},
		{"INSERT INTO t VALUES (1)", "INSERT"},
		{"alter table t add column c int", "ALTER"},
		{"MERGE INTO t USING s ON 1=1", "MODIFY"},
		{"", "MODIFY"},
	}
	for _, tc := range cases {
		t.Run(tc.want+"/"+tc.sql, func(t *testing.T) {
			assert.Equal(t, tc.want, ClassifySQL(tc.sql).Type)
		})
	}
}

func TestClassifySQLColors(t *testing.T) {
	assert.Equal(t, "#e74c3c", ClassifySQL("DELETE FROM t").Color)
	assert.Equal(t, "#95a5a6", ClassifySQL("CALL proc()").Color)
}

func TestGateStateString(t *testing.T) {
	assert.Equal(t, "idle", GateIdle.String())
	assert.Equal(t, "awaiting_confirmation", GateAwaitingConfirmation.String())
}
