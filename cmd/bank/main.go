// cmd/bank/main.go

// 帳本銀行服務的進入點：提供 HTTP 伺服器 (serve)、互動式主控台 (console)
// 與轉帳復原 (recover) 三個子命令，實際組裝邏輯位於 commands 套件。

package main

import "ledgerbank/cmd/bank/commands"

func main() {
	commands.Execute()
}
