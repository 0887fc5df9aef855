package console

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ledgerbank/internal/bank"
	"ledgerbank/internal/storage/filestore"
)

func newTestConsole(t *testing.T) (*Console, *bytes.Buffer) {
	t.Helper()
	fs, err := filestore.New(t.TempDir())
	require.NoError(t, err)
	b, err := bank.New(context.Background(), fs, fs, fs)
	require.NoError(t, err)

	var out bytes.Buffer
	return New(b, &out), &out
}

func exec(t *testing.T, c *Console, line string) string {
	t.Helper()
	out, quit := c.Exec(context.Background(), line)
	require.False(t, quit, line)
	return out
}

func TestConsoleSession(t *testing.T) {
	c, _ := newTestConsole(t)

	admin := strings.TrimSpace(exec(t, c, "login 00000000 9999"))
	require.Len(t, admin, 32)

	assert.Equal(t, "ok\n", exec(t, c, "create_account "+admin+" 12345678 1234"))
	assert.Equal(t, "ok\n", exec(t, c, "create_account "+admin+" 87654321 4321"))
	assert.Equal(t, "error: account already exists\n", exec(t, c, "create_account "+admin+" 12345678 1234"))

	sid := strings.TrimSpace(exec(t, c, "login 12345678 1234"))
	require.Len(t, sid, 32)

	assert.Equal(t, "ok\n", exec(t, c, "deposit "+sid+" 100"))
	assert.Equal(t, "ok\n", exec(t, c, "debit "+sid+" 30"))
	assert.Equal(t, "error: insufficient funds\n", exec(t, c, "debit "+sid+" 1000"))
	assert.Equal(t, "ok\n", exec(t, c, "transfer "+sid+" 87654321 20"))

	st := exec(t, c, "statement "+sid+" 2")
	lines := strings.Split(strings.TrimSpace(st), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "timestamp,type,amount,balance", lines[0])
	assert.True(t, strings.HasSuffix(lines[2], ",TRANSFER_OUT,20.00,50.00"), lines[2])

	// lines 無法解析時使用預設值 10
	assert.Equal(t, exec(t, c, "statement "+sid), exec(t, c, "statement "+sid+" lots"))

	status := exec(t, c, "list_accounts "+admin)
	assert.Contains(t, status, "Account 12345678: 50.00\n")
	assert.Contains(t, status, "Account 87654321: 20.00\n")
	assert.Contains(t, status, "Total Accounts: 2\n")
	assert.Equal(t, status, exec(t, c, "statement "+admin))
	assert.Equal(t, "error: unauthorized\n", exec(t, c, "list_accounts "+sid))

	assert.Equal(t, "ok\n", exec(t, c, "logout "+sid))
	assert.Equal(t, "error: invalid session\n", exec(t, c, "logout "+sid))
	assert.Equal(t, "error: invalid session\n", exec(t, c, "deposit "+sid+" 1"))
}

func TestConsoleErrors(t *testing.T) {
	c, _ := newTestConsole(t)

	cases := map[string]string{
		"login":                 "error: usage: login <account_number> <pin>\n",
		"login 12345678 0000":   "error: invalid account or pin\n",
		"logout":                "error: usage: logout <session_id>\n",
		"create_account x y":    "error: usage: create_account <session_id> <account> <pin>\n",
		"create_account x y z":  "error: unauthorized\n",
		"deposit x":             "error: usage: deposit <session_id> <amount>\n",
		"deposit x abc":         "error: invalid amount\n",
		"deposit x 10":          "error: invalid session\n",
		"debit x":               "error: usage: debit <session_id> <amount>\n",
		"debit x 1e":            "error: invalid amount\n",
		"transfer x 12345678":   "error: usage: transfer <session_id> <to_account> <amount>\n",
		"transfer x 12345678 ?": "error: invalid amount\n",
		"statement":             "error: usage: statement <session_id> [lines]\n",
		"statement x":           "error: invalid session\n",
		"list_accounts":         "error: usage: list_accounts <session_id>\n",
		"frobnicate now":        "error: unknown command 'frobnicate'. Type 'help' for available commands.\n",
		"   ":                   "",
	}
	for line, want := range cases {
		assert.Equal(t, want, exec(t, c, line), line)
	}
}

func TestConsoleHelp(t *testing.T) {
	c, _ := newTestConsole(t)
	help := exec(t, c, "help")
	assert.Contains(t, help, "Banking Console Application")
	assert.Contains(t, help, "transfer <session_id> <to_account> <amount>")
	assert.Contains(t, help, "Admin login: login 00000000 9999")
}

func TestConsoleRun(t *testing.T) {
	c, out := newTestConsole(t)

	in := strings.NewReader("help\nlogin 00000000 9999\nexit\ndeposit x 1\n")
	require.NoError(t, c.Run(context.Background(), in))

	s := out.String()
	assert.True(t, strings.HasPrefix(s, "Banking Console Application\n"), s)
	assert.Contains(t, s, "Type 'help' for available commands.")
	assert.True(t, strings.HasSuffix(s, "> Goodbye!\n"), s)
	assert.NotContains(t, s, "invalid session", "input after exit is not processed")
}

func TestConsoleRunEOF(t *testing.T) {
	c, out := newTestConsole(t)
	require.NoError(t, c.Run(context.Background(), strings.NewReader("quit-not\n")))
	assert.Contains(t, out.String(), "error: unknown command 'quit-not'")
}
