// internal/console/console.go
//
// Package console 提供以行為單位的互動式介面 (REPL)，與 HTTP 層呼叫同一組 bank 操作。
// 每行以空白切成指令與參數；成功輸出 "ok" 或資料，失敗輸出 "error: <訊息>"。
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"ledgerbank/internal/appcontext"
	"ledgerbank/internal/bank"
)

const title = "Banking Console Application"

const helpText = `Commands:
  login <account_number> <pin>                - Login to account (returns session_id)
  logout <session_id>                         - Logout from session
  create_account <session_id> <account> <pin> - Create new account (admin only)
  deposit <session_id> <amount>               - Deposit money
  debit <session_id> <amount>                 - Withdraw money
  transfer <session_id> <to_account> <amount> - Transfer money to another account
  statement <session_id> [lines]              - View account statement
  list_accounts <session_id>                  - List all accounts (admin only)
  help                                        - Show this help
  exit                                        - Exit application

Admin login: login 00000000 9999
`

// Console 將文字指令轉為 bank 呼叫。
type Console struct {
	bank  *bank.Bank
	out   io.Writer
	title lipgloss.Style
	muted lipgloss.Style
}

// New 建立 Console；樣式依 out 是否為終端機自動降級為純文字。
func New(b *bank.Bank, out io.Writer) *Console {
	r := lipgloss.NewRenderer(out)
	return &Console{
		bank:  b,
		out:   out,
		title: r.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C3AED")),
		muted: r.NewStyle().Foreground(lipgloss.Color("#6B7280")),
	}
}

// Run 讀取 in 直到 EOF、exit/quit 或 ctx 取消。
func (c *Console) Run(ctx context.Context, in io.Reader) error {
	fmt.Fprintln(c.out, c.title.Render(title))
	fmt.Fprintln(c.out, c.muted.Render("Type 'help' for available commands."))
	fmt.Fprintln(c.out)

	sc := bufio.NewScanner(in)
	for {
		fmt.Fprint(c.out, "> ")
		if !sc.Scan() {
			break
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		out, quit := c.Exec(ctx, sc.Text())
		fmt.Fprint(c.out, out)
		if quit {
			return nil
		}
	}
	return sc.Err()
}

// Exec 執行單行指令並回傳輸出（含結尾換行）；quit 表示應結束 REPL。
func (c *Console) Exec(ctx context.Context, line string) (out string, quit bool) {
	args := strings.Fields(line)
	if len(args) == 0 {
		return "", false
	}

	switch cmd := args[0]; cmd {
	case "exit", "quit":
		return "Goodbye!\n", true
	case "help":
		return c.title.Render(title) + "\n===========================\n" + helpText, false
	case "login":
		return c.login(ctx, args), false
	case "logout":
		return c.logout(ctx, args), false
	case "create_account":
		if len(args) < 4 {
			return usage("create_account <session_id> <account> <pin>"), false
		}
		return c.result(ctx, c.bank.CreateAccount(ctx, args[1], args[2], args[3])), false
	case "deposit":
		return c.amountOp(ctx, args, "deposit <session_id> <amount>", c.bank.Deposit), false
	case "debit":
		return c.amountOp(ctx, args, "debit <session_id> <amount>", c.bank.Debit), false
	case "transfer":
		if len(args) < 4 {
			return usage("transfer <session_id> <to_account> <amount>"), false
		}
		amount, err := bank.ParseAmount(args[3])
		if err != nil {
			return "error: invalid amount\n", false
		}
		return c.result(ctx, c.bank.Transfer(ctx, args[1], args[2], amount)), false
	case "statement":
		if len(args) < 2 {
			return usage("statement <session_id> [lines]"), false
		}
		lines := bank.DefaultStatementLines
		if len(args) >= 3 {
			if n, err := strconv.Atoi(args[2]); err == nil {
				lines = n
			}
		}
		return c.report(ctx, func() (string, error) { return c.bank.Statement(ctx, args[1], lines) }), false
	case "list_accounts":
		if len(args) < 2 {
			return usage("list_accounts <session_id>"), false
		}
		return c.report(ctx, func() (string, error) { return c.bank.ListAccounts(ctx, args[1]) }), false
	default:
		return fmt.Sprintf("error: unknown command '%s'. Type 'help' for available commands.\n", cmd), false
	}
}

func (c *Console) login(ctx context.Context, args []string) string {
	if len(args) < 3 {
		return usage("login <account_number> <pin>")
	}
	sid, err := c.bank.Login(ctx, args[1], args[2])
	if err != nil {
		c.logInternal(ctx, err)
		return failure(err)
	}
	if sid == "" {
		return "error: invalid account or pin\n"
	}
	return sid + "\n"
}

func (c *Console) logout(ctx context.Context, args []string) string {
	if len(args) < 2 {
		return usage("logout <session_id>")
	}
	existed, err := c.bank.Logout(ctx, args[1])
	if err != nil {
		c.logInternal(ctx, err)
		return failure(err)
	}
	if !existed {
		return "error: invalid session\n"
	}
	return "ok\n"
}

type amountFunc func(ctx context.Context, sessionID string, amount decimal.Decimal) error

func (c *Console) amountOp(ctx context.Context, args []string, use string, op amountFunc) string {
	if len(args) < 3 {
		return usage(use)
	}
	amount, err := bank.ParseAmount(args[2])
	if err != nil {
		return "error: invalid amount\n"
	}
	return c.result(ctx, op(ctx, args[1], amount))
}

func (c *Console) report(ctx context.Context, fn func() (string, error)) string {
	s, err := fn()
	if err != nil {
		c.logInternal(ctx, err)
		return failure(err)
	}
	return s
}

func (c *Console) logInternal(ctx context.Context, err error) {
	if bank.KindOf(err) == bank.KindInternal {
		appcontext.LoggerFromContext(ctx).Error("console command failed", "error", err)
	}
}

func usage(s string) string { return "error: usage: " + s + "\n" }

func failure(err error) string { return "error: " + bank.Message(err) + "\n" }

func (c *Console) result(ctx context.Context, err error) string {
	if err != nil {
		c.logInternal(ctx, err)
		return failure(err)
	}
	return "ok\n"
}
