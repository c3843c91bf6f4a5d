package repository

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// Save is guarded by the version it read, so every direct UPDATE touching a
// column Save also writes must advance the version. A statement that skips
// the bump lets a concurrent Save write the older value back.
func TestUserWriteStatementsAdvanceVersion(t *testing.T) {
	statements := map[string]string{
		"updateRole":      updateRoleSQL,
		"setHasPaid":      setHasPaidSQL,
		"markCompleted":   markCompletedSQL,
		"repairCompleted": repairCompletedSQL,
	}
	for name, q := range statements {
		assert.True(t, strings.Contains(q, "version = version + 1"), "%s must advance the row version", name)
	}
}

func TestSaveGuardedByReadVersion(t *testing.T) {
	assert.Contains(t, saveUserSQL, "version = $11")
	assert.Contains(t, saveUserSQL, "version = version + 1")
}
